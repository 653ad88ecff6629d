package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// 每个用户一行的偏好设置，紧急联系人以 JSON 文本存储
type UserPreference struct {
	ID                    string    `json:"id" gorm:"primaryKey;size:36"`
	UserID                string    `json:"userId" gorm:"uniqueIndex;size:36"`
	Language              string    `json:"language" gorm:"size:10;default:en"`
	LocationSharing       bool      `json:"locationSharingEnabled" gorm:"column:location_sharing_enabled"`
	EmergencyContactsJSON string    `json:"emergencyContactsJson" gorm:"type:text"`
	UpdatedAt             time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

// GetPreferences 读取偏好，不存在时返回默认值，不落库
func GetPreferences(db *gorm.DB, userID string) (*UserPreference, error) {
	var pref UserPreference
	err := db.First(&pref, "user_id = ?", userID).Error
	if err == gorm.ErrRecordNotFound {
		return &UserPreference{
			UserID:                userID,
			Language:              "en",
			LocationSharing:       true,
			EmergencyContactsJSON: "[]",
		}, nil
	}
	if err != nil {
		return nil, err
	}
	return &pref, nil
}

// UpsertPreferences 按 user_id 冲突更新
func UpsertPreferences(db *gorm.DB, pref *UserPreference) error {
	if pref.ID == "" {
		pref.ID = uuid.NewString()
	}
	return db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"language", "location_sharing_enabled",
			"emergency_contacts_json", "updated_at",
		}),
	}).Create(pref).Error
}
