package controller

import (
	"errors"

	"learnmate_backend/internal/service"
	"learnmate_backend/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthController struct {
	AuthService *service.AuthService
	Logger      *zap.Logger
}

func NewAuthController(authService *service.AuthService, logger *zap.Logger) *AuthController {
	return &AuthController{AuthService: authService, Logger: logger}
}

// Signup godoc
// @Summary 注册新用户
// @Description 注册成功后直接返回 token，无需二次登录
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body service.SignupInput true "注册信息"
// @Success 201 {object} util.Response{data=service.AuthResult} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 409 {object} util.Response "邮箱已被注册"
// @Router /api/auth/signup [post]
func (c *AuthController) Signup(ctx *gin.Context) {
	var input service.SignupInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.AuthService.Signup(input)
	if err != nil {
		if errors.Is(err, util.ErrEmailTaken) {
			util.Conflict(ctx, "该邮箱已被注册")
		} else {
			util.LogInternalError(ctx, c.Logger, "signup failed", err)
		}
		return
	}
	util.Created(ctx, result)
}

// Login godoc
// @Summary 用户登录
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body service.LoginInput true "登录信息"
// @Success 200 {object} util.Response{data=service.AuthResult} "登录成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 401 {object} util.Response "邮箱或密码错误"
// @Router /api/auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var input service.LoginInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.AuthService.Login(input)
	if err != nil {
		if errors.Is(err, util.ErrInvalidCredentials) {
			util.Unauthorized(ctx, "邮箱或密码错误")
		} else {
			util.LogInternalError(ctx, c.Logger, "login failed", err)
		}
		return
	}
	util.Success(ctx, result)
}

// Me godoc
// @Summary 当前登录用户信息
// @Tags 认证
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=model.User}
// @Failure 401 {object} util.Response "未登录"
// @Router /api/auth/me [get]
func (c *AuthController) Me(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx, "unauthorized")
		return
	}

	user, err := c.AuthService.GetProfile(claims.UserID)
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx, "用户不存在")
		} else {
			util.LogInternalError(ctx, c.Logger, "load profile failed", err)
		}
		return
	}
	util.Success(ctx, user)
}
