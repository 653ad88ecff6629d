package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// 区域紧急联络方式，所有用户共享
type EmergencyContact struct {
	ID          string    `json:"id" gorm:"primaryKey;size:36"`
	Name        string    `json:"name" gorm:"size:255"`
	PhoneNumber string    `json:"phoneNumber" gorm:"size:32"`
	Type        string    `json:"type" gorm:"size:50;index"`
	Location    string    `json:"location" gorm:"size:255"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	IsActive    bool      `json:"isActive" gorm:"default:true"`
	CreatedAt   time.Time `json:"createdAt" gorm:"autoCreateTime"`
}

// GetEmergencyContacts 活跃联络方式，按类型再按名称排序
func GetEmergencyContacts(db *gorm.DB) ([]EmergencyContact, error) {
	var contacts []EmergencyContact
	err := db.Where("is_active = ?", true).
		Order("type ASC, name ASC").
		Find(&contacts).Error
	return contacts, err
}

// CreateEmergencyContact 新建联络方式
func CreateEmergencyContact(db *gorm.DB, contact *EmergencyContact) error {
	if contact.ID == "" {
		contact.ID = uuid.NewString()
	}
	contact.IsActive = true
	return db.Create(contact).Error
}
