package handlers

import (
	"fmt"
	"net/http"

	"TourShield/internal/models"
	"TourShield/pkg/logger"
	"TourShield/pkg/metrics"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type sosRequest struct {
	Location  string  `json:"location"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// TriggerSOS 记录一条 critical 警报。不对接真实应急服务，仅落库并记录日志
func (h *Handlers) TriggerSOS(c *gin.Context) {
	var req sosRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid SOS payload"})
		return
	}

	// 未携带定位时落到兜底坐标
	if req.Location == "" {
		req.Location = h.Cfg.DefaultLocation
		req.Latitude = h.Cfg.DefaultLatitude
		req.Longitude = h.Cfg.DefaultLongitude
	}

	user := models.CurrentUser(c)
	alert := &models.SafetyAlert{
		Title:     "SOS EMERGENCY ALERT",
		Message:   fmt.Sprintf("Emergency assistance requested by user %s", user.ID),
		Severity:  models.SeverityCritical,
		Location:  req.Location,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	}
	if err := models.CreateAlert(h.DB, alert); err != nil {
		logger.Error("sos alert create failed", zap.String("user", user.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": translate(c, "sos.failed", "Failed to send emergency alert")})
		return
	}

	logger.Warn("sos alert triggered",
		zap.String("alert_id", alert.ID),
		zap.String("user", user.ID),
		zap.String("location", alert.Location))
	metrics.RecordSOSAlert()
	if h.Hub != nil {
		h.Hub.Broadcast(alert)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": translate(c, "sos.sent", "Emergency alert sent successfully"),
		"alertId": alert.ID,
	})
}
