package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	handlers "TourShield/internal/handler"
	"TourShield/internal/listeners"
	"TourShield/internal/models"
	"TourShield/pkg/cache"
	"TourShield/pkg/config"
	"TourShield/pkg/i18n"
	"TourShield/pkg/llm"
	"TourShield/pkg/logger"
	"TourShield/pkg/metrics"
	"TourShield/pkg/middleware"
	"TourShield/pkg/notification"
	"TourShield/pkg/scheduler"
	"TourShield/pkg/search"
	stores "TourShield/pkg/storage"
	"TourShield/pkg/util"
	"TourShield/pkg/websocket"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	limiter "github.com/ulule/limiter/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	if err := config.Load(); err != nil {
		log.Fatalf("load config: %v", err)
	}
	cfg := config.GlobalConfig

	if err := logger.Init(cfg.Log); err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	db, err := util.OpenDatabase(&gorm.Config{}, cfg.DBDriver, cfg.DSN)
	if err != nil {
		logger.Error("open database failed", zap.Error(err))
		return
	}
	if err := models.Migrate(db); err != nil {
		logger.Error("migrate failed", zap.Error(err))
		return
	}
	if cfg.SeedEnabled {
		if err := models.Seed(db); err != nil {
			logger.Error("seed failed", zap.Error(err))
			return
		}
	}

	appCache, err := cache.NewCache(cfg.Cache)
	if err != nil {
		logger.Error("init cache failed", zap.Error(err))
		return
	}
	defer appCache.Close()

	model := llm.NewOpenAIHandler(cfg.LLMApiKey, cfg.LLMBaseURL, cfg.LLMModel, cfg.LLMTimeout, logrus.New())

	var engine *search.Engine
	if cfg.SearchEnabled {
		engine, err = search.NewEngine(cfg.SearchPath)
		if err != nil {
			logger.Error("init search failed", zap.Error(err))
			return
		}
		defer engine.Close()
		if err := indexTips(db, appCache, engine); err != nil {
			logger.Warn("tip indexing failed", zap.Error(err))
		}
	}

	hub := websocket.NewHub()
	go hub.Run()
	defer hub.Stop()

	chatLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Rate:        limiter.Rate{Period: cfg.ChatRateWindow, Limit: cfg.ChatRateLimit},
		AddHeaders:  true,
		DenyMessage: "Too many chat requests, please wait a few minutes",
	}, nil)
	if cfg.MetricsEnabled {
		chatLimiter = chatLimiter.WithObserver(middleware.NewPrometheusObserver())
	}

	mail := notification.NewMailNotification(cfg.Mail)
	listeners.RegisterUserListeners(mail)
	listeners.RegisterAlertListeners(mail, cfg.OpsEmail)

	// 超龄警报定时下线
	cron := scheduler.NewCron(time.Local)
	_, err = cron.AddWithCtx("@hourly", func(ctx context.Context) {
		n, err := models.DeactivateStaleAlerts(db, cfg.AlertMaxAge)
		if err != nil {
			logger.Warn("alert expiry job failed", zap.Error(err))
			return
		}
		if n > 0 {
			logger.Info("stale alerts deactivated", zap.Int64("count", n))
		}
	})
	if err != nil {
		logger.Error("schedule alert expiry failed", zap.Error(err))
		return
	}
	cron.Start()
	defer cron.Stop()

	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), middleware.AccessLogMiddleware())

	sessionStore := cookie.NewStore([]byte(cfg.SessionSecret))
	sessionStore.Options(sessions.Options{
		Path:     "/",
		MaxAge:   cfg.SessionMaxAge,
		HttpOnly: true,
	})
	r.Use(sessions.Sessions("tourshield_session", sessionStore), middleware.InjectDB(db))

	if cfg.MetricsEnabled {
		r.Use(metrics.Middleware())
	}
	if cfg.LanguageEnabled {
		i18nSupport, err := i18n.NewI18nSupport("en")
		if err != nil {
			logger.Error("init i18n failed", zap.Error(err))
			return
		}
		r.Use(middleware.LanguageMiddleware(i18nSupport))
	}

	h := handlers.NewHandlers(db, appCache, model, hub, engine, stores.NewMinioStore(), chatLimiter, cfg)
	h.Register(r)

	srv := &http.Server{Addr: cfg.Addr, Handler: r}
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server listening", zap.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server exited", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
	}
}

func indexTips(db *gorm.DB, c cache.Cache, engine *search.Engine) error {
	tips, err := models.GetSafetyTips(context.Background(), db, c)
	if err != nil {
		return err
	}
	docs := make([]search.TipDocument, 0, len(tips))
	for _, tip := range tips {
		docs = append(docs, search.TipDocument{
			ID:       tip.ID,
			Title:    tip.Title,
			Content:  tip.Content,
			Category: tip.Category,
		})
	}
	return engine.IndexTips(docs)
}
