package controller

import (
	"errors"

	"learnmate_backend/internal/service"
	"learnmate_backend/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ProgressController struct {
	ProgressService *service.ProgressService
	Logger          *zap.Logger
}

func NewProgressController(progressService *service.ProgressService, logger *zap.Logger) *ProgressController {
	return &ProgressController{ProgressService: progressService, Logger: logger}
}

// CreateMilestone godoc
// @Summary 新建里程碑
// @Tags 进度
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.MilestoneInput true "里程碑信息"
// @Success 201 {object} util.Response{data=model.Milestone}
// @Failure 404 {object} util.Response "课程不存在"
// @Router /api/progress/milestones [post]
func (c *ProgressController) CreateMilestone(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var input service.MilestoneInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	milestone, err := c.ProgressService.CreateMilestone(claims.UserID, input)
	if err != nil {
		c.respondProgressError(ctx, err)
		return
	}
	util.Created(ctx, milestone)
}

// ListMilestones godoc
// @Summary 里程碑列表
// @Tags 进度
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Milestone}
// @Router /api/progress/milestones [get]
func (c *ProgressController) ListMilestones(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	milestones, err := c.ProgressService.ListMilestones(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, c.Logger, "list milestones failed", err)
		return
	}
	util.Success(ctx, milestones)
}

// ToggleMilestone godoc
// @Summary 切换里程碑完成状态
// @Tags 进度
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "里程碑ID"
// @Success 200 {object} util.Response{data=model.Milestone}
// @Failure 404 {object} util.Response "里程碑不存在"
// @Router /api/progress/milestones/{id} [patch]
func (c *ProgressController) ToggleMilestone(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	id, ok := parseUintParam(ctx, "id")
	if !ok {
		return
	}

	milestone, err := c.ProgressService.ToggleMilestone(claims.UserID, id)
	if err != nil {
		c.respondProgressError(ctx, err)
		return
	}
	util.Success(ctx, milestone)
}

// DeleteMilestone godoc
// @Summary 删除里程碑
// @Tags 进度
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "里程碑ID"
// @Success 200 {object} util.Response
// @Router /api/progress/milestones/{id} [delete]
func (c *ProgressController) DeleteMilestone(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	id, ok := parseUintParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.ProgressService.DeleteMilestone(claims.UserID, id); err != nil {
		c.respondProgressError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// Weekly godoc
// @Summary 每周测验活跃度
// @Description 最近 N 周的测验次数与平均分，空周保留为 0
// @Tags 进度
// @Produce  json
// @Security BearerAuth
// @Param   weeks query int false "周数，默认 8"
// @Success 200 {object} util.Response{data=[]service.WeeklyPoint}
// @Router /api/progress/weekly [get]
func (c *ProgressController) Weekly(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	weeks := 0
	if v := ctx.Query("weeks"); v != "" {
		if n, err := parsePositiveInt(v); err == nil {
			weeks = n
		}
	}

	points, err := c.ProgressService.WeeklyProgress(claims.UserID, weeks)
	if err != nil {
		util.LogInternalError(ctx, c.Logger, "load weekly progress failed", err)
		return
	}
	util.Success(ctx, points)
}

func (c *ProgressController) respondProgressError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrCourseNotFound):
		util.NotFound(ctx, "课程不存在")
	case errors.Is(err, util.ErrMilestoneNotFound):
		util.NotFound(ctx, "里程碑不存在")
	case errors.Is(err, util.ErrForbidden):
		util.Forbidden(ctx, "无权访问")
	default:
		util.LogInternalError(ctx, c.Logger, "progress operation failed", err)
	}
}
