package controller

import (
	"context"
	"time"

	"learnmate_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

type HealthController struct {
	DB    *gorm.DB
	Redis *redis.Client
}

func NewHealthController(db *gorm.DB, rdb *redis.Client) *HealthController {
	return &HealthController{DB: db, Redis: rdb}
}

// Health godoc
// @Summary 健康检查
// @Description 探测数据库与 Redis 连通性
// @Tags 系统
// @Produce  json
// @Success 200 {object} util.Response "各依赖的状态"
// @Router /api/health [get]
func (c *HealthController) Health(ctx *gin.Context) {
	checkCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	dbStatus := "ok"
	if sqlDB, err := c.DB.DB(); err != nil {
		dbStatus = "error"
	} else if err := sqlDB.PingContext(checkCtx); err != nil {
		dbStatus = "error"
	}

	redisStatus := "ok"
	if err := c.Redis.Ping(checkCtx).Err(); err != nil {
		redisStatus = "error"
	}

	util.Success(ctx, gin.H{
		"status": "up",
		"db":     dbStatus,
		"redis":  redisStatus,
		"time":   time.Now().Format(time.RFC3339),
	})
}
