package handlers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"TourShield/internal/models"
	"TourShield/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DigitalID 数字游客证，随用户信息派生，有效期一年
func (h *Handlers) DigitalID(c *gin.Context) {
	user := models.CurrentUser(c)
	issued := user.CreatedAt
	c.JSON(http.StatusOK, gin.H{
		"id":         user.ID,
		"name":       fmt.Sprintf("%s %s", user.FirstName, user.LastName),
		"email":      user.Email,
		"type":       "Tourist",
		"issuedAt":   issued.Format(time.RFC3339),
		"validUntil": issued.AddDate(1, 0, 0).Format(time.RFC3339),
	})
}

// UploadAvatar 头像上传到对象存储并更新用户资料
func (h *Handlers) UploadAvatar(c *gin.Context) {
	file, err := c.FormFile("avatar")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "avatar file is required"})
		return
	}
	if file.Size > 5<<20 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "avatar must be smaller than 5MB"})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "unreadable avatar file"})
		return
	}
	defer src.Close()

	user := models.CurrentUser(c)
	key := fmt.Sprintf("avatars/%s%s", user.ID, filepath.Ext(file.Filename))
	url, err := h.Store.Write(c.Request.Context(), key, src, file.Size, file.Header.Get("Content-Type"))
	if err != nil {
		logger.Error("avatar upload failed", zap.String("user", user.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to upload avatar"})
		return
	}

	if err := models.UpdateAvatar(h.DB, user.ID, url); err != nil {
		logger.Error("avatar url save failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update profile"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"profileImageUrl": url})
}
