package service

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"vendorvault/internal/middleware"
	"vendorvault/internal/model"
	"vendorvault/internal/repository"
	"vendorvault/pkg/errs"
)

// ==================== 请求/响应结构 ====================

// RegisterRequest 注册请求
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
	Mobile   string `json:"mobile"`
	Email    string `json:"email"`
}

// LoginResult 登录结果
type LoginResult struct {
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
	User         *model.User `json:"user"`
}

// ==================== 服务实现 ====================

// AuthService 认证服务：注册、登录、令牌刷新与注销
type AuthService struct {
	userRepo repository.UserRepository
	jwt      *middleware.JWTManager
	redis    *redis.Client
}

// NewAuthService 创建认证服务
func NewAuthService(userRepo repository.UserRepository, jwt *middleware.JWTManager, rdb *redis.Client) *AuthService {
	return &AuthService{userRepo: userRepo, jwt: jwt, redis: rdb}
}

func refreshTokenKey(userID int64) string {
	return fmt.Sprintf("vendorvault:refresh:%d", userID)
}

// Register 注册买家账号
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*model.User, error) {
	exists, err := s.userRepo.ExistsByUsernameOrMobile(ctx, req.Username, req.Mobile)
	if err != nil {
		return nil, errs.Wrap(err, "查询用户失败")
	}
	if exists {
		return nil, errs.ErrUserExist
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errs.Wrap(err, "密码加密失败")
	}

	user := &model.User{
		Username: req.Username,
		Password: string(hashed),
		Mobile:   req.Mobile,
		Email:    req.Email,
		Nickname: req.Username,
		Role:     model.RoleBuyer,
		Status:   model.UserStatusOpen,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, errs.Wrap(err, "创建用户失败")
	}
	return user, nil
}

// Login 校验密码并签发双令牌，refresh 令牌写入白名单
func (s *AuthService) Login(ctx context.Context, username, password string, role model.UserRole) (*LoginResult, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, errs.Wrap(err, "查询用户失败")
	}
	if user == nil {
		return nil, errs.ErrUserNotExist
	}
	if role != "" && user.Role != role {
		return nil, errs.ErrForbidden
	}
	if user.Status == model.UserStatusClose {
		return nil, errs.ErrForbidden
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, errs.ErrPasswordError
	}

	pair, err := s.jwt.GenerateTokenPair(user)
	if err != nil {
		return nil, errs.Wrap(err, "签发令牌失败")
	}
	if s.redis != nil {
		if err := s.redis.Set(ctx, refreshTokenKey(user.ID), pair.RefreshToken, s.jwt.RefreshTTL()).Err(); err != nil {
			return nil, errs.Wrap(err, "写入令牌白名单失败")
		}
	}

	return &LoginResult{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User:         user,
	}, nil
}

// Refresh 用 refresh 令牌换新的双令牌，旧令牌必须仍在白名单内
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*middleware.TokenPair, error) {
	claims, err := s.jwt.ParseToken(refreshToken)
	if err != nil || claims.TokenType != "refresh" {
		return nil, errs.ErrUnauthorized
	}

	if s.redis != nil {
		stored, err := s.redis.Get(ctx, refreshTokenKey(claims.UserID)).Result()
		if err != nil || stored != refreshToken {
			return nil, errs.ErrUnauthorized
		}
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, errs.Wrap(err, "查询用户失败")
	}
	if user == nil || user.Status == model.UserStatusClose {
		return nil, errs.ErrUnauthorized
	}

	pair, err := s.jwt.GenerateTokenPair(user)
	if err != nil {
		return nil, errs.Wrap(err, "签发令牌失败")
	}
	if s.redis != nil {
		if err := s.redis.Set(ctx, refreshTokenKey(user.ID), pair.RefreshToken, s.jwt.RefreshTTL()).Err(); err != nil {
			return nil, errs.Wrap(err, "写入令牌白名单失败")
		}
	}
	return pair, nil
}

// Logout 注销，吊销白名单中的 refresh 令牌
func (s *AuthService) Logout(ctx context.Context, userID int64) error {
	if s.redis == nil {
		return nil
	}
	if err := s.redis.Del(ctx, refreshTokenKey(userID)).Err(); err != nil {
		return errs.Wrap(err, "吊销令牌失败")
	}
	return nil
}
