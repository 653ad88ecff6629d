package models

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"TourShield/pkg/cache"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const tipsCacheKey = "safety_tips:all"

// 安全提示，内容偏静态，读路径走缓存
type SafetyTip struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	Title     string    `json:"title" gorm:"size:255"`
	Content   string    `json:"content" gorm:"type:text"`
	Category  string    `json:"category" gorm:"size:50;index"`
	Priority  string    `json:"priority" gorm:"size:20;default:medium"`
	IsActive  bool      `json:"isActive" gorm:"default:true"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
}

// GetSafetyTips 按创建时间升序返回活跃提示，优先命中缓存
func GetSafetyTips(ctx context.Context, db *gorm.DB, c cache.Cache) ([]SafetyTip, error) {
	if c != nil {
		if raw, ok := c.Get(ctx, tipsCacheKey); ok {
			if s, ok := raw.(string); ok {
				var tips []SafetyTip
				if err := json.Unmarshal([]byte(s), &tips); err == nil {
					return tips, nil
				}
			}
		}
	}

	var tips []SafetyTip
	if err := db.Where("is_active = ?", true).Order("created_at ASC").Find(&tips).Error; err != nil {
		return nil, err
	}

	if c != nil {
		if data, err := json.Marshal(tips); err == nil {
			_ = c.Set(ctx, tipsCacheKey, string(data), 10*time.Minute)
		}
	}
	return tips, nil
}

// GetSafetyTip 按 ID 获取单条提示
func GetSafetyTip(db *gorm.DB, id string) (*SafetyTip, error) {
	var tip SafetyTip
	if err := db.First(&tip, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &tip, nil
}

// CreateSafetyTip 新建提示并使列表缓存失效
func CreateSafetyTip(db *gorm.DB, c cache.Cache, tip *SafetyTip) error {
	if tip.ID == "" {
		tip.ID = uuid.NewString()
	}
	if tip.Priority == "" {
		tip.Priority = "medium"
	}
	tip.IsActive = true
	if err := db.Create(tip).Error; err != nil {
		return err
	}
	if c != nil {
		_ = c.Delete(context.Background(), tipsCacheKey)
	}
	return nil
}

// TipsPromptExcerpt 拼装给 LLM 的提示摘要，最多 n 条
func TipsPromptExcerpt(ctx context.Context, db *gorm.DB, c cache.Cache, n int) (string, error) {
	tips, err := GetSafetyTips(ctx, db, c)
	if err != nil {
		return "", err
	}
	if len(tips) > n {
		tips = tips[:n]
	}
	var b strings.Builder
	for _, t := range tips {
		fmt.Fprintf(&b, "- %s: %s\n", t.Title, t.Content)
	}
	return b.String(), nil
}
