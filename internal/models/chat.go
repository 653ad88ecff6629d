package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

// 聊天记录，追加写入，按用户隔离
type ChatMessage struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	UserID    string    `json:"userId" gorm:"index;size:36"`
	Role      string    `json:"role" gorm:"size:16"`
	Content   string    `json:"content" gorm:"type:text"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
}

// AddChatMessage 追加一条消息
func AddChatMessage(db *gorm.DB, userID, role, content string) (*ChatMessage, error) {
	msg := &ChatMessage{
		ID:      uuid.NewString(),
		UserID:  userID,
		Role:    role,
		Content: content,
	}
	if err := db.Create(msg).Error; err != nil {
		return nil, err
	}
	return msg, nil
}

// GetChatHistory 取最新 limit 条后翻转，保证时间升序返回
func GetChatHistory(db *gorm.DB, userID string, limit int) ([]ChatMessage, error) {
	var msgs []ChatMessage
	err := db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

// ClearChatHistory 清空某用户的全部聊天记录，幂等
func ClearChatHistory(db *gorm.DB, userID string) error {
	return db.Where("user_id = ?", userID).Delete(&ChatMessage{}).Error
}
