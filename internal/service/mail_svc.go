package service

import (
	"context"
	"fmt"
	"net/smtp"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"vendorvault/internal/repository"
	"vendorvault/pkg/config"
	"vendorvault/pkg/errs"
	"vendorvault/pkg/logger"
)

const resetTokenTTL = 30 * time.Minute

// MailService 邮件服务：找回密码
type MailService struct {
	cfg      config.SMTPConfig
	userRepo repository.UserRepository
	redis    *redis.Client
}

// NewMailService 创建邮件服务
func NewMailService(cfg config.SMTPConfig, userRepo repository.UserRepository, rdb *redis.Client) *MailService {
	return &MailService{cfg: cfg, userRepo: userRepo, redis: rdb}
}

func resetTokenKey(token string) string {
	return "vendorvault:reset:" + token
}

// SendResetMail 发送密码重置邮件。为避免探测注册邮箱，
// 邮箱不存在时同样返回成功。
func (s *MailService) SendResetMail(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return errs.Wrap(err, "查询用户失败")
	}
	if user == nil {
		logger.Infof("密码重置请求的邮箱未注册: %s", email)
		return nil
	}

	token := uuid.NewString()
	if err := s.redis.Set(ctx, resetTokenKey(token), user.ID, resetTokenTTL).Err(); err != nil {
		return errs.Wrap(err, "保存重置令牌失败")
	}

	link := fmt.Sprintf("%s?token=%s", s.cfg.ResetURL, token)
	body := fmt.Sprintf("To: %s\r\nFrom: %s\r\nSubject: Reset your password\r\n\r\n"+
		"Click the link below to reset your password (valid for 30 minutes):\r\n%s\r\n",
		email, s.cfg.From, link)

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	if err := smtp.SendMail(addr, auth, s.cfg.From, []string{email}, []byte(body)); err != nil {
		return errs.Wrap(err, "发送邮件失败")
	}
	return nil
}

// ResetPassword 用重置令牌设置新密码，令牌一次性使用
func (s *MailService) ResetPassword(ctx context.Context, token, newPassword string) error {
	userID, err := s.redis.Get(ctx, resetTokenKey(token)).Int64()
	if err != nil {
		return errs.ErrUnauthorized
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return errs.Wrap(err, "密码加密失败")
	}
	if err := s.userRepo.UpdateFields(ctx, userID, map[string]interface{}{
		"password": string(hashed),
	}); err != nil {
		return errs.Wrap(err, "更新密码失败")
	}
	if err := s.redis.Del(ctx, resetTokenKey(token)).Err(); err != nil {
		logger.Warnf("删除重置令牌失败: %v", err)
	}
	return nil
}
