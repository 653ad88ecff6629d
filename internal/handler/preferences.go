package handlers

import (
	"encoding/json"
	"net/http"

	"TourShield/internal/models"
	"TourShield/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type preferencesRequest struct {
	Language              string          `json:"language" binding:"omitempty,oneof=en hi"`
	LocationSharing       *bool           `json:"locationSharingEnabled"`
	EmergencyContactsJSON json.RawMessage `json:"emergencyContactsJson"`
}

// GetUserPreferences 当前用户偏好，未保存过则返回默认值
func (h *Handlers) GetUserPreferences(c *gin.Context) {
	user := models.CurrentUser(c)
	pref, err := models.GetPreferences(h.DB, user.ID)
	if err != nil {
		logger.Error("get preferences failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch preferences"})
		return
	}
	c.JSON(http.StatusOK, pref)
}

// SaveUserPreferences 保存偏好，按 user_id upsert
func (h *Handlers) SaveUserPreferences(c *gin.Context) {
	var req preferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid preference data"})
		return
	}

	user := models.CurrentUser(c)
	pref, err := models.GetPreferences(h.DB, user.ID)
	if err != nil {
		logger.Error("get preferences failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to save preferences"})
		return
	}

	if req.Language != "" {
		pref.Language = req.Language
	}
	if req.LocationSharing != nil {
		pref.LocationSharing = *req.LocationSharing
	}
	if len(req.EmergencyContactsJSON) > 0 {
		pref.EmergencyContactsJSON = string(req.EmergencyContactsJSON)
	}

	if err := models.UpsertPreferences(h.DB, pref); err != nil {
		logger.Error("save preferences failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to save preferences"})
		return
	}
	c.JSON(http.StatusOK, pref)
}
