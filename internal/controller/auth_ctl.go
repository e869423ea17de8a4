package controller

import (
	"github.com/gin-gonic/gin"

	"vendorvault/internal/middleware"
	"vendorvault/internal/model"
	"vendorvault/internal/service"
	"vendorvault/pkg/errs"
	"vendorvault/pkg/response"
)

// AuthController 认证接口
type AuthController struct {
	authSvc *service.AuthService
	mailSvc *service.MailService
}

// NewAuthController 创建认证接口
func NewAuthController(authSvc *service.AuthService, mailSvc *service.MailService) *AuthController {
	return &AuthController{authSvc: authSvc, mailSvc: mailSvc}
}

// Register 买家注册
func (c *AuthController) Register(ctx *gin.Context) {
	var req service.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, errs.ErrInvalidParams)
		return
	}
	user, err := c.authSvc.Register(ctx.Request.Context(), req)
	if err != nil {
		response.Error(ctx, err)
		return
	}
	response.Success(ctx, user)
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login 买家/卖家登录
func (c *AuthController) Login(ctx *gin.Context) {
	var req loginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, errs.ErrInvalidParams)
		return
	}
	result, err := c.authSvc.Login(ctx.Request.Context(), req.Username, req.Password, "")
	if err != nil {
		response.Error(ctx, err)
		return
	}
	response.Success(ctx, result)
}

// ManagerLogin 平台管理员登录
func (c *AuthController) ManagerLogin(ctx *gin.Context) {
	var req loginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, errs.ErrInvalidParams)
		return
	}
	result, err := c.authSvc.Login(ctx.Request.Context(), req.Username, req.Password, model.RoleManager)
	if err != nil {
		response.Error(ctx, err)
		return
	}
	response.Success(ctx, result)
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// Refresh 刷新令牌
func (c *AuthController) Refresh(ctx *gin.Context) {
	var req refreshRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, errs.ErrInvalidParams)
		return
	}
	pair, err := c.authSvc.Refresh(ctx.Request.Context(), req.RefreshToken)
	if err != nil {
		response.Error(ctx, err)
		return
	}
	response.Success(ctx, pair)
}

// Logout 注销
func (c *AuthController) Logout(ctx *gin.Context) {
	userID := middleware.CurrentUserID(ctx)
	if err := c.authSvc.Logout(ctx.Request.Context(), userID); err != nil {
		response.Error(ctx, err)
		return
	}
	response.Success(ctx, nil)
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ForgotPassword 发送密码重置邮件
func (c *AuthController) ForgotPassword(ctx *gin.Context) {
	var req forgotPasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, errs.ErrInvalidParams)
		return
	}
	if err := c.mailSvc.SendResetMail(ctx.Request.Context(), req.Email); err != nil {
		response.Error(ctx, err)
		return
	}
	response.Success(ctx, nil)
}

type resetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=6"`
}

// ResetPassword 用重置令牌设置新密码
func (c *AuthController) ResetPassword(ctx *gin.Context) {
	var req resetPasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, errs.ErrInvalidParams)
		return
	}
	if err := c.mailSvc.ResetPassword(ctx.Request.Context(), req.Token, req.NewPassword); err != nil {
		response.Error(ctx, err)
		return
	}
	response.Success(ctx, nil)
}
