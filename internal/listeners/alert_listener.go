package listeners

import (
	"TourShield/internal/models"
	"TourShield/pkg/logger"
	"TourShield/pkg/notification"
	"TourShield/pkg/util"

	"go.uber.org/zap"
)

// RegisterAlertListeners 记录警报创建事件。critical 级别单独告警日志，
// 配置了运营邮箱时同步邮件通知
func RegisterAlertListeners(mail *notification.MailNotification, opsEmail string) {
	util.Sig().Connect(models.SigAlertCreate, func(sender any, params ...any) {
		alert, ok := sender.(*models.SafetyAlert)
		if !ok {
			return
		}
		fields := []zap.Field{
			zap.String("id", alert.ID),
			zap.String("severity", alert.Severity),
			zap.String("location", alert.Location),
		}
		if alert.Severity != models.SeverityCritical {
			logger.Info("alert created", fields...)
			return
		}
		logger.Warn("critical alert created", fields...)

		if mail == nil || opsEmail == "" {
			return
		}
		go func() {
			if err := mail.SendAlertNotice(opsEmail, alert.Title, alert.Message); err != nil {
				logger.Warn("alert notice email failed", zap.Error(err))
			}
		}()
	})
}
