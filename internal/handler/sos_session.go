package handlers

import (
	"context"
	"fmt"
	"net/http"

	"TourShield/internal/models"
	"TourShield/internal/sos"
	"TourShield/pkg/logger"
	"TourShield/pkg/metrics"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// newSOSManager 构造按用户隔离的确认状态机。派发动作落一条
// critical 警报并广播，与直接调用 /api/sos 相同的副作用
func (h *Handlers) newSOSManager() *sos.Manager {
	return sos.NewManager(func(userID string) *sos.Machine {
		return sos.NewMachine(func(ctx context.Context) (string, error) {
			alert := &models.SafetyAlert{
				Title:     "SOS EMERGENCY ALERT",
				Message:   fmt.Sprintf("Emergency assistance requested by user %s", userID),
				Severity:  models.SeverityCritical,
				Location:  h.Cfg.DefaultLocation,
				Latitude:  h.Cfg.DefaultLatitude,
				Longitude: h.Cfg.DefaultLongitude,
			}
			if err := models.CreateAlert(h.DB, alert); err != nil {
				return "", err
			}
			metrics.RecordSOSAlert()
			if h.Hub != nil {
				h.Hub.Broadcast(alert)
			}
			logger.Warn("sos alert triggered",
				zap.String("alert_id", alert.ID),
				zap.String("user", userID))
			return alert.ID, nil
		})
	})
}

// ActivateSOS 进入确认态并开始倒计时
func (h *Handlers) ActivateSOS(c *gin.Context) {
	user := models.CurrentUser(c)
	machine := h.SOS.Get(user.ID)

	machine.Activate(context.Background())
	c.JSON(http.StatusOK, machine.Current())
}

// CancelSOS 取消倒计时，回到初始态
func (h *Handlers) CancelSOS(c *gin.Context) {
	user := models.CurrentUser(c)
	machine := h.SOS.Get(user.ID)

	machine.Cancel()
	c.JSON(http.StatusOK, machine.Current())
}

// ConfirmSOS 跳过剩余倒计时立即派发，失败态下等价于重试
func (h *Handlers) ConfirmSOS(c *gin.Context) {
	user := models.CurrentUser(c)
	machine := h.SOS.Get(user.ID)

	switch machine.Current().State {
	case sos.StateFailed:
		machine.Retry(c.Request.Context())
	default:
		machine.Confirm(c.Request.Context())
	}

	snap := machine.Current()
	if snap.State == sos.StateFailed {
		c.JSON(http.StatusBadGateway, snap)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// SOSState 当前状态快照，Sent 是终态，重置需调用 reset
func (h *Handlers) SOSState(c *gin.Context) {
	user := models.CurrentUser(c)
	c.JSON(http.StatusOK, h.SOS.Get(user.ID).Current())
}

// ResetSOS 离开页面后重置会话
func (h *Handlers) ResetSOS(c *gin.Context) {
	user := models.CurrentUser(c)
	h.SOS.Reset(user.ID)
	c.JSON(http.StatusOK, h.SOS.Get(user.ID).Current())
}
