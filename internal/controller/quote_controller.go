package controller

import (
	"learnmate_backend/internal/service"
	"learnmate_backend/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type QuoteController struct {
	QuoteService *service.QuoteService
	Logger       *zap.Logger
}

func NewQuoteController(quoteService *service.QuoteService, logger *zap.Logger) *QuoteController {
	return &QuoteController{QuoteService: quoteService, Logger: logger}
}

// Weekly godoc
// @Summary 本周励志短句
// @Description 全局共享一条，缓存到期后由 AI 重新生成
// @Tags 首页
// @Produce  json
// @Success 200 {object} util.Response "quote 字段"
// @Failure 502 {object} util.Response "AI 服务不可用"
// @Router /api/quote [get]
func (c *QuoteController) Weekly(ctx *gin.Context) {
	quote, err := c.QuoteService.WeeklyQuote(ctx.Request.Context())
	if err != nil {
		c.Logger.Error("weekly quote failed", zap.Error(err))
		util.Error(ctx, 502, "AI 服务暂时不可用，请稍后重试")
		return
	}
	util.Success(ctx, gin.H{"quote": quote})
}
