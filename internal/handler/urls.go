package handlers

import (
	"TourShield/internal/models"
	"TourShield/internal/sos"
	"TourShield/pkg/cache"
	"TourShield/pkg/config"
	"TourShield/pkg/llm"
	"TourShield/pkg/metrics"
	"TourShield/pkg/middleware"
	"TourShield/pkg/search"
	stores "TourShield/pkg/storage"
	"TourShield/pkg/websocket"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Handlers 汇聚全部 HTTP 处理依赖
type Handlers struct {
	DB          *gorm.DB
	Cache       cache.Cache
	LLM         llm.LLM
	Hub         *websocket.Hub
	Search      *search.Engine
	Store       stores.Store
	ChatLimiter *middleware.RateLimiter
	Cfg         *config.Config
	SOS         *sos.Manager
}

func NewHandlers(db *gorm.DB, c cache.Cache, model llm.LLM, hub *websocket.Hub,
	engine *search.Engine, store stores.Store, chatLimiter *middleware.RateLimiter,
	cfg *config.Config) *Handlers {
	h := &Handlers{
		DB:          db,
		Cache:       c,
		LLM:         model,
		Hub:         hub,
		Search:      engine,
		Store:       store,
		ChatLimiter: chatLimiter,
		Cfg:         cfg,
	}
	h.SOS = h.newSOSManager()
	return h
}

// Register 挂载全部路由
func (h *Handlers) Register(r *gin.Engine) {
	r.GET("/api/health", h.Health)

	auth := r.Group("/api/auth")
	{
		auth.POST("/login", h.Login)
		auth.POST("/logout", h.Logout)
		auth.GET("/user", models.AuthRequired, h.GetAuthUser)
	}

	api := r.Group("/api")
	{
		api.GET("/safety-alerts", h.ListSafetyAlerts)
		api.POST("/safety-alerts", models.AuthRequired, h.CreateSafetyAlert)

		api.GET("/safety-tips", h.ListSafetyTips)
		api.GET("/safety-tips/search", h.SearchSafetyTips)

		api.GET("/emergency-contacts", h.ListEmergencyContacts)

		api.GET("/user-preferences", models.AuthRequired, h.GetUserPreferences)
		api.POST("/user-preferences", models.AuthRequired, h.SaveUserPreferences)

		api.POST("/sos", models.AuthRequired, h.TriggerSOS)

		session := api.Group("/sos-session", models.AuthRequired)
		{
			session.GET("", h.SOSState)
			session.POST("/activate", h.ActivateSOS)
			session.POST("/cancel", h.CancelSOS)
			session.POST("/confirm", h.ConfirmSOS)
			session.POST("/reset", h.ResetSOS)
		}

		chat := api.Group("/chat", models.AuthRequired)
		{
			chat.POST("", h.ChatLimiter.Middleware(), h.Chat)
			chat.GET("/history", h.ChatHistory)
			chat.DELETE("/history", h.ClearChatHistory)
		}

		profile := api.Group("/profile", models.AuthRequired)
		{
			profile.GET("/digital-id", h.DigitalID)
			profile.POST("/avatar", h.UploadAvatar)
		}
	}

	r.GET("/ws/alerts", h.Hub.Handler())

	if h.Cfg != nil && h.Cfg.MetricsEnabled {
		r.GET("/metrics", metrics.Handler())
	}
}
