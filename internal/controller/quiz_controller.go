package controller

import (
	"errors"
	"strconv"

	"learnmate_backend/internal/model"
	"learnmate_backend/internal/quiz"
	"learnmate_backend/internal/service"
	"learnmate_backend/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type QuizController struct {
	QuizService *service.QuizService
	Logger      *zap.Logger
}

func NewQuizController(quizService *service.QuizService, logger *zap.Logger) *QuizController {
	return &QuizController{QuizService: quizService, Logger: logger}
}

// StartSession godoc
// @Summary 开启测验会话
// @Description 按课程和难度生成题目并启动计时会话；同一用户的旧会话会被替换
// @Tags 测验
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.StartQuizInput true "测验参数"
// @Success 201 {object} util.Response{data=quiz.Snapshot}
// @Failure 400 {object} util.Response "题目生成结果不合法"
// @Failure 502 {object} util.Response "AI 服务不可用"
// @Router /api/quiz/sessions [post]
func (c *QuizController) StartSession(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var input service.StartQuizInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	snap, err := c.QuizService.StartSession(ctx.Request.Context(), claims.UserID, input)
	if err != nil {
		if errors.Is(err, quiz.ErrInvalidQuestionSet) {
			util.BadRequest(ctx, "生成的题目不合法，请重试")
		} else {
			c.Logger.Error("start quiz session failed", zap.Error(err))
			util.Error(ctx, 502, "题目生成失败，请稍后重试")
		}
		return
	}
	util.Created(ctx, snap)
}

// GetSession godoc
// @Summary 当前会话快照
// @Description 进行中只返回当前题面和剩余时间，不暴露正确答案；已结束附带结果
// @Tags 测验
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=quiz.Snapshot}
// @Failure 404 {object} util.Response "没有活动会话"
// @Router /api/quiz/sessions/current [get]
func (c *QuizController) GetSession(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	snap, err := c.QuizService.Snapshot(claims.UserID)
	if err != nil {
		c.respondQuizError(ctx, err)
		return
	}
	util.Success(ctx, snap)
}

type AnswerRequest struct {
	Answer string `json:"answer" binding:"required"`
}

// Answer godoc
// @Summary 作答当前题
// @Description 计时器仍在走时可以修改；超时锁定后返回 409
// @Tags 测验
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body AnswerRequest true "选项标签 A-D"
// @Success 200 {object} util.Response{data=quiz.Snapshot}
// @Failure 400 {object} util.Response "非法选项"
// @Failure 409 {object} util.Response "该题已超时锁定"
// @Router /api/quiz/sessions/current/answer [post]
func (c *QuizController) Answer(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req AnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	snap, err := c.QuizService.Answer(claims.UserID, req.Answer)
	if err != nil {
		c.respondQuizError(ctx, err)
		return
	}
	util.Success(ctx, snap)
}

// Next godoc
// @Summary 下一题
// @Description 当前题必须已作答或已超时；最后一题上等价交卷
// @Tags 测验
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=quiz.Snapshot}
// @Failure 409 {object} util.Response "当前题尚未作答"
// @Router /api/quiz/sessions/current/next [post]
func (c *QuizController) Next(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	snap, err := c.QuizService.Next(claims.UserID)
	if err != nil {
		c.respondQuizError(ctx, err)
		return
	}
	util.Success(ctx, snap)
}

// Previous godoc
// @Summary 回看上一题
// @Description 回看的题面冻结展示，不能再修改答案，计时器不重新计时
// @Tags 测验
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=quiz.Snapshot}
// @Router /api/quiz/sessions/current/previous [post]
func (c *QuizController) Previous(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	snap, err := c.QuizService.Previous(claims.UserID)
	if err != nil {
		c.respondQuizError(ctx, err)
		return
	}
	util.Success(ctx, snap)
}

// Finish godoc
// @Summary 交卷
// @Description 只能在最后一题上交卷；结果自动落库并缓存为 AI 助教上下文
// @Tags 测验
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=quiz.Snapshot}
// @Failure 409 {object} util.Response "不在最后一题"
// @Router /api/quiz/sessions/current/finish [post]
func (c *QuizController) Finish(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	snap, err := c.QuizService.Finish(claims.UserID)
	if err != nil {
		c.respondQuizError(ctx, err)
		return
	}
	util.Success(ctx, snap)
}

// Dispose godoc
// @Summary 放弃当前会话
// @Description 用户离开测验页时调用，拆除会话并作废挂起的计时回调
// @Tags 测验
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/quiz/sessions/current [delete]
func (c *QuizController) Dispose(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	c.QuizService.Dispose(claims.UserID)
	util.Success(ctx, nil)
}

// SaveResult godoc
// @Summary 上报测验结果
// @Description 兼容客户端本地计分场景，直接写入历史记录
// @Tags 测验
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.SaveResultInput true "测验结果"
// @Success 201 {object} util.Response{data=model.QuizAttempt}
// @Router /api/quiz/save-result [post]
func (c *QuizController) SaveResult(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var input service.SaveResultInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	attempt, err := c.QuizService.SaveResult(claims.UserID, input)
	if err != nil {
		util.LogInternalError(ctx, c.Logger, "save quiz result failed", err)
		return
	}
	util.Created(ctx, attempt)
}

// History godoc
// @Summary 测验历史
// @Tags 测验
// @Produce  json
// @Security BearerAuth
// @Param   limit query int false "条数上限"
// @Success 200 {object} util.Response{data=[]model.QuizAttempt}
// @Router /api/quiz/history [get]
func (c *QuizController) History(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	limit := 0
	if v := ctx.Query("limit"); v != "" {
		if n, err := parsePositiveInt(v); err == nil {
			limit = n
		}
	}

	attempts, err := c.QuizService.History(claims.UserID, limit)
	if err != nil {
		util.LogInternalError(ctx, c.Logger, "load quiz history failed", err)
		return
	}
	util.Success(ctx, attempts)
}

// HistoryByUser godoc
// @Summary 指定用户的测验历史与统计
// @Description 路径参数兼容旧客户端；只能查询本人，管理员除外
// @Tags 测验
// @Produce  json
// @Security BearerAuth
// @Param   userId path int true "用户ID"
// @Success 200 {object} util.Response "history 与 stats"
// @Failure 403 {object} util.Response "只能查询本人记录"
// @Router /api/quiz-history/{userId} [get]
func (c *QuizController) HistoryByUser(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	userID, ok := parseUintParam(ctx, "userId")
	if !ok {
		return
	}
	if userID != claims.UserID && claims.Role != model.Admin {
		util.Forbidden(ctx, "只能查询本人的测验记录")
		return
	}

	attempts, err := c.QuizService.History(userID, 0)
	if err != nil {
		util.LogInternalError(ctx, c.Logger, "load quiz history failed", err)
		return
	}
	stats, err := c.QuizService.Stats(userID)
	if err != nil {
		util.LogInternalError(ctx, c.Logger, "load quiz stats failed", err)
		return
	}
	util.Success(ctx, gin.H{"history": attempts, "stats": stats})
}

// Stats godoc
// @Summary 测验聚合统计
// @Tags 测验
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=model.QuizStats}
// @Router /api/quiz/stats [get]
func (c *QuizController) Stats(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	stats, err := c.QuizService.Stats(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, c.Logger, "load quiz stats failed", err)
		return
	}
	util.Success(ctx, stats)
}

// DeleteAttempt godoc
// @Summary 删除一条测验历史
// @Tags 测验
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "记录ID"
// @Success 200 {object} util.Response
// @Router /api/quiz/history/{id} [delete]
func (c *QuizController) DeleteAttempt(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	id, ok := parseUintParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.QuizService.DeleteAttempt(claims.UserID, id); err != nil {
		util.LogInternalError(ctx, c.Logger, "delete quiz attempt failed", err)
		return
	}
	util.Success(ctx, nil)
}

func parsePositiveInt(v string) (int, error) {
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		n = 0
	}
	return n, nil
}

func (c *QuizController) respondQuizError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, quiz.ErrSessionNotFound):
		util.NotFound(ctx, "没有活动的测验会话")
	case errors.Is(err, quiz.ErrInvalidLabel):
		util.BadRequest(ctx, "选项必须是 A、B、C、D 之一")
	case errors.Is(err, quiz.ErrAnswerLocked):
		util.Conflict(ctx, "该题已超时锁定，不能再作答")
	case errors.Is(err, quiz.ErrNotViewed):
		util.Conflict(ctx, "当前题尚未作答")
	case errors.Is(err, quiz.ErrInvalidTransition):
		util.Conflict(ctx, "当前状态不允许该操作")
	default:
		util.LogInternalError(ctx, c.Logger, "quiz operation failed", err)
	}
}
