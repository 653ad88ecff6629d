package listeners

import (
	"TourShield/internal/models"
	"TourShield/pkg/logger"
	"TourShield/pkg/notification"
	"TourShield/pkg/util"

	"go.uber.org/zap"
)

// RegisterUserListeners 注册用户相关的信号回调
func RegisterUserListeners(mail *notification.MailNotification) {
	util.Sig().Connect(models.SigUserCreate, func(sender any, params ...any) {
		user, ok := sender.(*models.User)
		if !ok {
			return
		}
		logger.Info("user created", zap.String("id", user.ID), zap.String("email", user.Email))

		if mail == nil || user.Email == "" {
			return
		}
		name := user.FirstName
		if name == "" {
			name = user.Email
		}
		// 邮件发送不阻塞请求
		go func() {
			if err := mail.SendWelcomeEmail(user.Email, name); err != nil {
				logger.Warn("welcome email failed", zap.String("email", user.Email), zap.Error(err))
			}
		}()
	})
}
