package middleware

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"vendorvault/internal/model"
	"vendorvault/pkg/errs"
	"vendorvault/pkg/response"
)

// ==================== Claims 定义 ====================

// UserClaims JWT 载荷
type UserClaims struct {
	UserID   int64          `json:"userId"`
	Username string         `json:"username"`
	Role     model.UserRole `json:"role"`
	StoreID  *int64         `json:"storeId,omitempty"`
	// TokenType 区分 access / refresh
	TokenType string `json:"tokenType"`
	jwt.RegisteredClaims
}

// TokenPair 一次签发的双令牌
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// JWTManager 负责令牌的签发与校验
type JWTManager struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewJWTManager 创建 JWT 管理器
func NewJWTManager(secret, issuer string, accessTTL, refreshTTL time.Duration) *JWTManager {
	return &JWTManager{
		secret:     []byte(secret),
		issuer:     issuer,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// GenerateTokenPair 为用户签发 access + refresh 令牌
func (m *JWTManager) GenerateTokenPair(user *model.User) (*TokenPair, error) {
	access, err := m.generate(user, "access", m.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := m.generate(user, "refresh", m.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (m *JWTManager) generate(user *model.User, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := UserClaims{
		UserID:    user.ID,
		Username:  user.Username,
		Role:      user.Role,
		StoreID:   user.StoreID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// ParseToken 解析并校验令牌
func (m *JWTManager) ParseToken(tokenString string) (*UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*UserClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// RefreshTTL refresh 令牌有效期，用于白名单过期时间
func (m *JWTManager) RefreshTTL() time.Duration {
	return m.refreshTTL
}

// ==================== Gin 中间件 ====================

const (
	ctxKeyUserID   = "userId"
	ctxKeyUsername = "username"
	ctxKeyRole     = "role"
	ctxKeyStoreID  = "storeId"
)

// JWTAuth 校验 Authorization 头里的 access 令牌
func JWTAuth(manager *JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, errs.ErrUnauthorized)
			c.Abort()
			return
		}
		tokenString := strings.TrimPrefix(header, "Bearer ")
		claims, err := manager.ParseToken(tokenString)
		if err != nil || claims.TokenType != "access" {
			response.Error(c, errs.ErrUnauthorized)
			c.Abort()
			return
		}

		c.Set(ctxKeyUserID, claims.UserID)
		c.Set(ctxKeyUsername, claims.Username)
		c.Set(ctxKeyRole, claims.Role)
		if claims.StoreID != nil {
			c.Set(ctxKeyStoreID, *claims.StoreID)
		}
		c.Next()
	}
}

// RequireRole 限定接口只允许指定角色访问
func RequireRole(roles ...model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(ctxKeyRole)
		if !exists {
			response.Error(c, errs.ErrUnauthorized)
			c.Abort()
			return
		}
		current, ok := role.(model.UserRole)
		if !ok {
			response.Error(c, errs.ErrUnauthorized)
			c.Abort()
			return
		}
		for _, allowed := range roles {
			if current == allowed {
				c.Next()
				return
			}
		}
		response.Error(c, errs.ErrForbidden)
		c.Abort()
	}
}

// ==================== 上下文取值 ====================

// CurrentUserID 取当前登录用户 ID
func CurrentUserID(c *gin.Context) int64 {
	if v, exists := c.Get(ctxKeyUserID); exists {
		if id, ok := v.(int64); ok {
			return id
		}
	}
	return 0
}

// CurrentStoreID 取当前登录用户绑定的店铺 ID，未绑定返回 nil
func CurrentStoreID(c *gin.Context) *int64 {
	if v, exists := c.Get(ctxKeyStoreID); exists {
		if id, ok := v.(int64); ok {
			return &id
		}
	}
	return nil
}

// CurrentRole 取当前登录用户角色
func CurrentRole(c *gin.Context) model.UserRole {
	if v, exists := c.Get(ctxKeyRole); exists {
		if role, ok := v.(model.UserRole); ok {
			return role
		}
	}
	return ""
}
