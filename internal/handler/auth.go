package handlers

import (
	"net/http"

	"TourShield/internal/models"
	"TourShield/pkg/logger"
	"TourShield/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type loginRequest struct {
	Email           string `json:"email" binding:"required,email"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	ProfileImageURL string `json:"profileImageUrl"`
}

// Login 按邮箱 upsert 用户并建立会话
func (h *Handlers) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "A valid email is required"})
		return
	}

	user, err := models.UpsertUser(h.DB, models.User{
		Email:           req.Email,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		ProfileImageURL: req.ProfileImageURL,
	})
	if err != nil {
		logger.Error("login upsert failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to log in"})
		return
	}

	if err := models.Login(c, user); err != nil {
		logger.Error("session save failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to log in"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// Logout 清除会话
func (h *Handlers) Logout(c *gin.Context) {
	if err := models.Logout(c); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to log out"})
		return
	}
	response.Success(c, "Logged out", nil)
}

// GetAuthUser 当前登录用户
func (h *Handlers) GetAuthUser(c *gin.Context) {
	c.JSON(http.StatusOK, models.CurrentUser(c))
}
