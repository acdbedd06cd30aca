package controller

import (
	"errors"
	"strings"

	"learnmate_backend/internal/service"
	"learnmate_backend/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ChatController struct {
	ChatService *service.ChatService
	Logger      *zap.Logger
}

func NewChatController(chatService *service.ChatService, logger *zap.Logger) *ChatController {
	return &ChatController{ChatService: chatService, Logger: logger}
}

// Assist godoc
// @Summary AI 助教问答
// @Description 阻塞式问答。自动注入最近一次测验的概要作为背景；chatId 为空时新建对话
// @Tags AI助教
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.AssistInput true "问题与可选的对话ID"
// @Success 200 {object} util.Response "answer 与更新后的对话"
// @Failure 502 {object} util.Response "AI 服务不可用"
// @Router /api/ai-assist [post]
func (c *ChatController) Assist(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var input service.AssistInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	answer, chat, err := c.ChatService.Ask(ctx.Request.Context(), claims.UserID, input)
	if err != nil {
		c.respondAssistError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"answer": answer, "chat": chat})
}

// AssistStream godoc
// @Summary AI 助教流式问答
// @Description SSE 推送回答分片，流结束后整段回答写入对话历史
// @Tags AI助教
// @Accept  json
// @Produce  text/event-stream
// @Security BearerAuth
// @Param   body body service.AssistInput true "问题与可选的对话ID"
// @Success 200 {string} string "SSE 事件流"
// @Router /api/ai-assist/stream [post]
func (c *ChatController) AssistStream(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var input service.AssistInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	stream, errChan, finalize, err := c.ChatService.AskStream(ctx.Request.Context(), claims.UserID, input)
	if err != nil {
		c.respondAssistError(ctx, err)
		return
	}

	ctx.Header("Content-Type", "text/event-stream")
	ctx.Header("Cache-Control", "no-cache")
	ctx.Header("Connection", "keep-alive")
	ctx.Header("Transfer-Encoding", "chunked")

	var full strings.Builder
	for content := range stream {
		full.WriteString(content)
		ctx.SSEvent("message", content)
		ctx.Writer.Flush()
	}

	if err := <-errChan; err != nil {
		c.Logger.Error("assist stream failed", zap.Error(err))
		ctx.SSEvent("error", "AI 服务暂时不可用")
		ctx.Writer.Flush()
		return
	}

	chat, err := finalize(full.String())
	if err != nil {
		c.Logger.Error("failed to persist chat exchange", zap.Error(err))
	}
	if chat != nil {
		ctx.SSEvent("chat", gin.H{"id": chat.ID, "title": chat.Title})
		ctx.Writer.Flush()
	}
	ctx.SSEvent("end", "done")
	ctx.Writer.Flush()
}

// List godoc
// @Summary 对话列表
// @Tags AI助教
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.ChatHistory}
// @Router /api/chat-history [get]
func (c *ChatController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	chats, err := c.ChatService.List(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, c.Logger, "list chats failed", err)
		return
	}
	util.Success(ctx, chats)
}

// Create godoc
// @Summary 导入一份对话
// @Description 客户端本地会话整段同步到服务端
// @Tags AI助教
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.ChatHistoryInput true "标题与消息"
// @Success 201 {object} util.Response{data=model.ChatHistory}
// @Router /api/chat-history [post]
func (c *ChatController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var input service.ChatHistoryInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	chat, err := c.ChatService.Create(claims.UserID, input)
	if err != nil {
		util.LogInternalError(ctx, c.Logger, "create chat failed", err)
		return
	}
	util.Created(ctx, chat)
}

// Update godoc
// @Summary 更新对话
// @Description 重命名或整体替换消息
// @Tags AI助教
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "对话ID"
// @Param   body body service.ChatHistoryInput true "标题与消息"
// @Success 200 {object} util.Response{data=model.ChatHistory}
// @Failure 404 {object} util.Response "对话不存在"
// @Router /api/chat-history/{id} [put]
func (c *ChatController) Update(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var input service.ChatHistoryInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	chat, err := c.ChatService.Update(claims.UserID, ctx.Param("id"), input)
	if err != nil {
		c.respondChatError(ctx, err)
		return
	}
	util.Success(ctx, chat)
}

// Get godoc
// @Summary 对话详情
// @Tags AI助教
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "对话ID"
// @Success 200 {object} util.Response{data=model.ChatHistory}
// @Failure 404 {object} util.Response "对话不存在"
// @Router /api/chat-history/{id} [get]
func (c *ChatController) Get(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	chat, err := c.ChatService.Get(claims.UserID, ctx.Param("id"))
	if err != nil {
		c.respondChatError(ctx, err)
		return
	}
	util.Success(ctx, chat)
}

// Delete godoc
// @Summary 删除对话
// @Tags AI助教
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "对话ID"
// @Success 200 {object} util.Response
// @Router /api/chat-history/{id} [delete]
func (c *ChatController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if err := c.ChatService.Delete(claims.UserID, ctx.Param("id")); err != nil {
		c.respondChatError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

func (c *ChatController) respondChatError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrChatNotFound):
		util.NotFound(ctx, "对话不存在")
	case errors.Is(err, util.ErrForbidden):
		util.Forbidden(ctx, "无权访问该对话")
	default:
		util.LogInternalError(ctx, c.Logger, "chat operation failed", err)
	}
}

// respondAssistError AI 问答路径：上游失败统一返回 502
func (c *ChatController) respondAssistError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrChatNotFound), errors.Is(err, util.ErrForbidden):
		c.respondChatError(ctx, err)
	default:
		c.Logger.Error("assist request failed", zap.Error(err))
		util.Error(ctx, 502, "AI 服务暂时不可用，请稍后重试")
	}
}
