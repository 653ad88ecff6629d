package models

import (
	"time"

	"TourShield/pkg/util"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"

	SigAlertCreate = "alert.create"
)

// 安全警报，SOS 成功派发后也会生成一条 critical 记录
type SafetyAlert struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	Title     string    `json:"title" gorm:"size:255"`
	Message   string    `json:"message" gorm:"type:text"`
	Severity  string    `json:"severity" gorm:"size:20;index"`
	Location  string    `json:"location" gorm:"size:255"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	IsActive  bool      `json:"isActive" gorm:"index"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

// GetActiveAlerts 活跃警报，按创建时间倒序
func GetActiveAlerts(db *gorm.DB) ([]SafetyAlert, error) {
	var alerts []SafetyAlert
	err := db.Where("is_active = ?", true).
		Order("created_at DESC").
		Find(&alerts).Error
	return alerts, err
}

// CreateAlert 创建警报并触发 SigAlertCreate
func CreateAlert(db *gorm.DB, alert *SafetyAlert) error {
	if alert.ID == "" {
		alert.ID = uuid.NewString()
	}
	if alert.Severity == "" {
		alert.Severity = SeverityMedium
	}
	alert.IsActive = true
	if err := db.Create(alert).Error; err != nil {
		return err
	}
	util.Sig().Emit(SigAlertCreate, alert)
	return nil
}

// DeactivateStaleAlerts 停用超过 maxAge 的警报，返回受影响条数
func DeactivateStaleAlerts(db *gorm.DB, maxAge time.Duration) (int64, error) {
	cutoff := time.Now().Add(-maxAge)
	result := db.Model(&SafetyAlert{}).
		Where("is_active = ? AND created_at < ?", true, cutoff).
		Update("is_active", false)
	return result.RowsAffected, result.Error
}
