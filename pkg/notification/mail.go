package notification

import (
	"fmt"
	"net/smtp"
	"strings"
)

// MailConfig 邮件配置
type MailConfig struct {
	Host     string `env:"MAIL_HOST"`
	Username string `env:"MAIL_USERNAME"`
	Password string `env:"MAIL_PASSWORD"`
	Port     int    `env:"MAIL_PORT"`
	From     string `env:"MAIL_FROM"`
}

type MailNotification struct {
	cfg MailConfig
}

func NewMailNotification(cfg MailConfig) *MailNotification {
	return &MailNotification{cfg: cfg}
}

// SendWelcomeEmail 新用户注册后的欢迎邮件
func (m *MailNotification) SendWelcomeEmail(to, displayName string) error {
	subject := "Welcome to TourShield"
	body := fmt.Sprintf(
		"Hi %s,\n\nWelcome aboard. Your digital tourist ID is ready in the profile screen.\nIn any real emergency, always dial the local emergency number first.\n\nSafe travels,\nThe TourShield Team\n",
		displayName,
	)
	return m.send(to, subject, body)
}

// SendAlertNotice 高危警报通知运营邮箱
func (m *MailNotification) SendAlertNotice(to, title, message string) error {
	subject := "[TourShield] Critical alert: " + title
	return m.send(to, subject, message)
}

func (m *MailNotification) send(to, subject, body string) error {
	if m.cfg.Host == "" {
		return fmt.Errorf("mail host not configured")
	}
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	msg := strings.Join([]string{
		"From: " + m.cfg.From,
		"To: " + to,
		"Subject: " + subject,
		"",
		body,
	}, "\r\n")

	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	return smtp.SendMail(addr, auth, m.cfg.From, []string{to}, []byte(msg))
}
