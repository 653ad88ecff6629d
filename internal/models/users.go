package models

import (
	"net/http"
	"time"

	"TourShield/pkg/response"
	"TourShield/pkg/util"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	SigUserCreate = "user.create"

	SessionUserID = "user_id"
	CtxUserKey    = "current_user"
)

// 游客用户，认证后按邮箱 upsert
type User struct {
	ID              string    `json:"id" gorm:"primaryKey;size:36"`
	Email           string    `json:"email" gorm:"uniqueIndex;size:255"`
	FirstName       string    `json:"firstName" gorm:"size:100"`
	LastName        string    `json:"lastName" gorm:"size:100"`
	ProfileImageURL string    `json:"profileImageUrl" gorm:"size:1024"`
	CreatedAt       time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt       time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

// GetUser 按 ID 获取用户
func GetUser(db *gorm.DB, id string) (*User, error) {
	var user User
	if err := db.First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpsertUser 认证登录后按邮箱 upsert，新用户触发 SigUserCreate
func UpsertUser(db *gorm.DB, u User) (*User, error) {
	var existing User
	err := db.First(&existing, "email = ?", u.Email).Error
	if err == gorm.ErrRecordNotFound {
		if u.ID == "" {
			u.ID = uuid.NewString()
		}
		if err := db.Create(&u).Error; err != nil {
			return nil, err
		}
		util.Sig().Emit(SigUserCreate, &u)
		return &u, nil
	}
	if err != nil {
		return nil, err
	}

	existing.FirstName = u.FirstName
	existing.LastName = u.LastName
	if u.ProfileImageURL != "" {
		existing.ProfileImageURL = u.ProfileImageURL
	}
	if err := db.Save(&existing).Error; err != nil {
		return nil, err
	}
	return &existing, nil
}

// UpdateAvatar 更新头像地址
func UpdateAvatar(db *gorm.DB, userID, url string) error {
	return db.Model(&User{}).Where("id = ?", userID).
		Update("profile_image_url", url).Error
}

// Login 将用户写入会话
func Login(c *gin.Context, user *User) error {
	session := sessions.Default(c)
	session.Set(SessionUserID, user.ID)
	return session.Save()
}

// Logout 清理会话
func Logout(c *gin.Context) error {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{MaxAge: -1, Path: "/"})
	return session.Save()
}

// AuthRequired 会话鉴权中间件，未登录返回 401，不产生任何副作用
func AuthRequired(c *gin.Context) {
	session := sessions.Default(c)
	uid, _ := session.Get(SessionUserID).(string)
	if uid == "" {
		response.Abort(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	db := c.MustGet("db").(*gorm.DB)
	user, err := GetUser(db, uid)
	if err != nil {
		response.Abort(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	c.Set(CtxUserKey, user)
	c.Set("user_id", user.ID)
	c.Next()
}

// CurrentUser 取当前登录用户，仅在 AuthRequired 之后可用
func CurrentUser(c *gin.Context) *User {
	if v, ok := c.Get(CtxUserKey); ok {
		if u, ok := v.(*User); ok {
			return u
		}
	}
	return nil
}
