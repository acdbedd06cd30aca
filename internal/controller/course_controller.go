package controller

import (
	"errors"
	"strconv"

	"learnmate_backend/internal/service"
	"learnmate_backend/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CourseController struct {
	CourseService *service.CourseService
	Logger        *zap.Logger
}

func NewCourseController(courseService *service.CourseService, logger *zap.Logger) *CourseController {
	return &CourseController{CourseService: courseService, Logger: logger}
}

func parseUintParam(ctx *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// Create godoc
// @Summary 登记新课程
// @Description 截止时间必须晚于当前时间；大纲里程碑会同步生成进度追踪项
// @Tags 课程
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.CourseInput true "课程信息"
// @Success 201 {object} util.Response{data=model.Course}
// @Failure 400 {object} util.Response "参数错误或截止时间已过"
// @Router /api/courses [post]
func (c *CourseController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var input service.CourseInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, err := c.CourseService.Create(claims.UserID, input)
	if err != nil {
		if errors.Is(err, util.ErrDeadlinePast) {
			util.BadRequest(ctx, "课程截止时间必须晚于当前时间")
		} else {
			util.LogInternalError(ctx, c.Logger, "create course failed", err)
		}
		return
	}
	util.Created(ctx, course)
}

// List godoc
// @Summary 当前用户的课程列表
// @Tags 课程
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Course}
// @Router /api/courses [get]
func (c *CourseController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	courses, err := c.CourseService.List(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, c.Logger, "list courses failed", err)
		return
	}
	util.Success(ctx, courses)
}

// Get godoc
// @Summary 课程详情
// @Tags 课程
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课程ID"
// @Success 200 {object} util.Response{data=model.Course}
// @Failure 404 {object} util.Response "课程不存在"
// @Router /api/courses/{id} [get]
func (c *CourseController) Get(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	id, ok := parseUintParam(ctx, "id")
	if !ok {
		return
	}

	course, err := c.CourseService.Get(claims.UserID, id)
	if err != nil {
		c.respondCourseError(ctx, err)
		return
	}
	util.Success(ctx, course)
}

// Update godoc
// @Summary 更新课程
// @Tags 课程
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课程ID"
// @Param   body body service.CourseInput true "课程信息"
// @Success 200 {object} util.Response{data=model.Course}
// @Failure 404 {object} util.Response "课程不存在"
// @Router /api/courses/{id} [put]
func (c *CourseController) Update(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	id, ok := parseUintParam(ctx, "id")
	if !ok {
		return
	}
	var input service.CourseInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, err := c.CourseService.Update(claims.UserID, id, input)
	if err != nil {
		if errors.Is(err, util.ErrDeadlinePast) {
			util.BadRequest(ctx, "课程截止时间必须晚于当前时间")
		} else {
			c.respondCourseError(ctx, err)
		}
		return
	}
	util.Success(ctx, course)
}

// Delete godoc
// @Summary 删除课程及其进度项
// @Tags 课程
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课程ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "课程不存在"
// @Router /api/courses/{id} [delete]
func (c *CourseController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	id, ok := parseUintParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.CourseService.Delete(claims.UserID, id); err != nil {
		c.respondCourseError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

type ExtractRequest struct {
	Description string `json:"description" binding:"required"`
}

// Extract godoc
// @Summary AI 提取课程大纲
// @Description 把粘贴的课程描述文本交给 AI，返回结构化的课程字段和周计划
// @Tags 课程
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body ExtractRequest true "课程描述文本"
// @Success 200 {object} util.Response{data=service.CourseOutline}
// @Failure 502 {object} util.Response "AI 服务不可用"
// @Router /api/courses/extract [post]
func (c *CourseController) Extract(ctx *gin.Context) {
	var req ExtractRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	outline, err := c.CourseService.ExtractOutline(ctx.Request.Context(), req.Description)
	if err != nil {
		c.Logger.Error("outline extraction failed", zap.Error(err))
		util.Error(ctx, 502, "AI 服务暂时不可用，请稍后重试")
		return
	}
	util.Success(ctx, outline)
}

func (c *CourseController) respondCourseError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrCourseNotFound):
		util.NotFound(ctx, "课程不存在")
	case errors.Is(err, util.ErrForbidden):
		util.Forbidden(ctx, "无权访问该课程")
	default:
		util.LogInternalError(ctx, c.Logger, "course operation failed", err)
	}
}
