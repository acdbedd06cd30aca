package controller

import (
	"learnmate_backend/internal/service"
	"learnmate_backend/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type DashboardController struct {
	DashboardService *service.DashboardService
	Logger           *zap.Logger
}

func NewDashboardController(dashboardService *service.DashboardService, logger *zap.Logger) *DashboardController {
	return &DashboardController{DashboardService: dashboardService, Logger: logger}
}

// Metrics godoc
// @Summary 学习表现指标
// @Description 最近测验得分走势、里程碑完成度与分课程平均分
// @Tags 首页
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.PerformanceMetrics}
// @Router /api/metrics [get]
func (c *DashboardController) Metrics(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	metrics, err := c.DashboardService.Metrics(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, c.Logger, "load performance metrics failed", err)
		return
	}
	util.Success(ctx, metrics)
}

// UserStats godoc
// @Summary 首页聚合统计
// @Description 课程数、已完成里程碑数、测验次数与平均分
// @Tags 首页
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.UserStats}
// @Router /api/user/stats [get]
func (c *DashboardController) UserStats(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	stats, err := c.DashboardService.UserStats(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, c.Logger, "load user stats failed", err)
		return
	}
	util.Success(ctx, stats)
}
