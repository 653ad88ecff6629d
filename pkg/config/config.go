package config

import (
	"TourShield/pkg/cache"
	"TourShield/pkg/logger"
	"TourShield/pkg/notification"
	"TourShield/pkg/util"
	"log"
	"os"
	"time"
)

// config/config.go
type Config struct {
	DBDriver      string `env:"DB_DRIVER"`
	DSN           string `env:"DSN"`
	Log           logger.LogConfig
	Mail          notification.MailConfig
	OpsEmail      string `env:"OPS_EMAIL"` // critical 警报邮件通知地址
	Cache         cache.Config
	Addr          string `env:"ADDR"`
	Mode          string `env:"MODE"`
	APIPrefix     string `env:"API_PREFIX"`
	AuthPrefix    string `env:"AUTH_PREFIX"`
	SessionSecret string `env:"SESSION_SECRET"`
	SessionMaxAge int    `env:"SESSION_MAX_AGE"` // seconds

	LLMApiKey  string `env:"LLM_API_KEY"`
	LLMBaseURL string `env:"LLM_BASE_URL"`
	LLMModel   string `env:"LLM_MODEL"`
	LLMTimeout time.Duration

	// 聊天限流：固定窗口，按用户计数
	ChatRateLimit  int64         `env:"CHAT_RATE_LIMIT"`
	ChatRateWindow time.Duration // CHAT_RATE_WINDOW，如 "5m"

	// SOS 无坐标时使用的兜底位置
	DefaultLocation  string  `env:"DEFAULT_LOCATION"`
	DefaultLatitude  float64 `env:"DEFAULT_LATITUDE"`
	DefaultLongitude float64 `env:"DEFAULT_LONGITUDE"`
	EmergencyNumber  string  `env:"EMERGENCY_NUMBER"`

	SeedEnabled     bool          `env:"SEED_ENABLED"`
	AlertMaxAge     time.Duration // ALERT_MAX_AGE，超龄警报自动下线
	SearchEnabled   bool          `env:"SEARCH_ENABLED"`
	SearchPath      string        `env:"SEARCH_PATH"`
	LanguageEnabled bool          `env:"LANGUAGE_ENABLED"`
	MetricsEnabled  bool          `env:"METRICS_ENABLED"`
}

var GlobalConfig *Config

func Load() error {
	// 1. 根据环境加载 .env 文件
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development" // 默认使用开发环境
	}
	err := util.LoadEnv(env)
	if err != nil {
		log.Printf("Failed to load .env file: %v", err)
	}

	// 2. 加载全局配置
	GlobalConfig = &Config{
		DBDriver:      util.GetEnv("DB_DRIVER"),
		DSN:           util.GetEnv("DSN"),
		Addr:          util.GetEnvDefault("ADDR", ":8080"),
		Mode:          util.GetEnv("MODE"),
		APIPrefix:     util.GetEnvDefault("API_PREFIX", "/api"),
		AuthPrefix:    util.GetEnvDefault("AUTH_PREFIX", "auth"),
		SessionSecret: util.GetEnvDefault("SESSION_SECRET", "tourshield-dev-secret"),
		SessionMaxAge: int(util.GetIntEnv("SESSION_MAX_AGE")),
		Log: logger.LogConfig{
			Level:      util.GetEnv("LOG_LEVEL"),
			Filename:   util.GetEnv("LOG_FILENAME"),
			MaxSize:    int(util.GetIntEnv("LOG_MAX_SIZE")),
			MaxAge:     int(util.GetIntEnv("LOG_MAX_AGE")),
			MaxBackups: int(util.GetIntEnv("LOG_MAX_BACKUPS")),
		},
		Mail: notification.MailConfig{
			Host:     util.GetEnv("MAIL_HOST"),
			Username: util.GetEnv("MAIL_USERNAME"),
			Password: util.GetEnv("MAIL_PASSWORD"),
			Port:     int(util.GetIntEnv("MAIL_PORT")),
			From:     util.GetEnv("MAIL_FROM"),
		},
		OpsEmail: util.GetEnv("OPS_EMAIL"),
		Cache: cache.Config{
			Type: util.GetEnvDefault("CACHE_TYPE", "local"),
			Redis: cache.RedisConfig{
				Addr:     util.GetEnvDefault("REDIS_ADDR", "localhost:6379"),
				Password: util.GetEnv("REDIS_PASSWORD"),
				DB:       int(util.GetIntEnv("REDIS_DB")),
			},
			Local: cache.LocalConfig{
				MaxSize:           intEnvDefault("LOCAL_CACHE_MAX_SIZE", 1000),
				DefaultExpiration: durationEnvDefault("LOCAL_CACHE_DEFAULT_EXPIRATION", 5*time.Minute),
				CleanupInterval:   durationEnvDefault("LOCAL_CACHE_CLEANUP_INTERVAL", 10*time.Minute),
			},
		},
		LLMApiKey:  util.GetEnv("LLM_API_KEY"),
		LLMBaseURL: util.GetEnv("LLM_BASE_URL"),
		LLMModel:   util.GetEnvDefault("LLM_MODEL", "gpt-4o-mini"),
		LLMTimeout: durationEnvDefault("LLM_TIMEOUT", 30*time.Second),

		ChatRateLimit:  int64EnvDefault("CHAT_RATE_LIMIT", 20),
		ChatRateWindow: durationEnvDefault("CHAT_RATE_WINDOW", 5*time.Minute),

		DefaultLocation:  util.GetEnvDefault("DEFAULT_LOCATION", "India Gate, New Delhi"),
		DefaultLatitude:  floatEnvDefault("DEFAULT_LATITUDE", 28.6139),
		DefaultLongitude: floatEnvDefault("DEFAULT_LONGITUDE", 77.2090),
		EmergencyNumber:  util.GetEnvDefault("EMERGENCY_NUMBER", "112"),

		SeedEnabled:     util.GetBoolEnv("SEED_ENABLED"),
		AlertMaxAge:     durationEnvDefault("ALERT_MAX_AGE", 7*24*time.Hour),
		SearchEnabled:   util.GetBoolEnv("SEARCH_ENABLED"),
		SearchPath:      util.GetEnv("SEARCH_PATH"),
		LanguageEnabled: util.GetBoolEnv("LANGUAGE_ENABLED"),
		MetricsEnabled:  util.GetBoolEnv("METRICS_ENABLED"),
	}
	if GlobalConfig.SessionMaxAge <= 0 {
		GlobalConfig.SessionMaxAge = int((7 * 24 * time.Hour).Seconds())
	}
	return nil
}

func intEnvDefault(key string, def int) int {
	if v := util.GetIntEnv(key); v > 0 {
		return int(v)
	}
	return def
}

func int64EnvDefault(key string, def int64) int64 {
	if v := util.GetIntEnv(key); v > 0 {
		return v
	}
	return def
}

func floatEnvDefault(key string, def float64) float64 {
	if raw := util.GetEnv(key); raw != "" {
		return util.GetFloatEnv(key)
	}
	return def
}

func durationEnvDefault(key string, def time.Duration) time.Duration {
	if raw := util.GetEnv(key); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			return d
		}
	}
	return def
}
