package handlers

import (
	"net/http"

	"TourShield/internal/models"
	"TourShield/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type createAlertRequest struct {
	Title     string  `json:"title" binding:"required"`
	Message   string  `json:"message" binding:"required"`
	Severity  string  `json:"severity" binding:"omitempty,oneof=low medium high critical"`
	Location  string  `json:"location"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ListSafetyAlerts 活跃警报列表
func (h *Handlers) ListSafetyAlerts(c *gin.Context) {
	alerts, err := models.GetActiveAlerts(h.DB)
	if err != nil {
		logger.Error("list alerts failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch safety alerts"})
		return
	}
	c.JSON(http.StatusOK, alerts)
}

// CreateSafetyAlert 新建警报并向 websocket 订阅方广播
func (h *Handlers) CreateSafetyAlert(c *gin.Context) {
	var req createAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid alert data"})
		return
	}

	alert := &models.SafetyAlert{
		Title:     req.Title,
		Message:   req.Message,
		Severity:  req.Severity,
		Location:  req.Location,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	}
	if err := models.CreateAlert(h.DB, alert); err != nil {
		logger.Error("create alert failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create safety alert"})
		return
	}

	if h.Hub != nil {
		h.Hub.Broadcast(alert)
	}
	c.JSON(http.StatusCreated, alert)
}
