package handlers

import (
	"net/http"
	"strings"

	"TourShield/internal/models"
	"TourShield/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ListSafetyTips 全部安全提示
func (h *Handlers) ListSafetyTips(c *gin.Context) {
	tips, err := models.GetSafetyTips(c.Request.Context(), h.DB, h.Cache)
	if err != nil {
		logger.Error("list tips failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch safety tips"})
		return
	}
	c.JSON(http.StatusOK, tips)
}

// SearchSafetyTips 全文检索安全提示，q 为查询词
func (h *Handlers) SearchSafetyTips(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Query parameter q is required"})
		return
	}
	if h.Search == nil {
		c.JSON(http.StatusOK, []models.SafetyTip{})
		return
	}

	hits, err := h.Search.Search(q, 20)
	if err != nil {
		logger.Error("tip search failed", zap.String("q", q), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Search failed"})
		return
	}

	tips := make([]models.SafetyTip, 0, len(hits))
	for _, hit := range hits {
		tip, err := models.GetSafetyTip(h.DB, hit.ID)
		if err != nil {
			continue
		}
		tips = append(tips, *tip)
	}
	c.JSON(http.StatusOK, tips)
}

// ListEmergencyContacts 紧急联络方式列表
func (h *Handlers) ListEmergencyContacts(c *gin.Context) {
	contacts, err := models.GetEmergencyContacts(h.DB)
	if err != nil {
		logger.Error("list contacts failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch emergency contacts"})
		return
	}
	c.JSON(http.StatusOK, contacts)
}
