package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// RateLimiterConfig 固定窗口限流配置
//
// 示例：
// Rate: limiter.Rate{Period: 5 * time.Minute, Limit: 20}
// 计数按用户维度（user:<id>），未登录请求落回 ip:<addr>。
// Store 默认内存实现，多实例部署可注入 Redis store。
type RateLimiterConfig struct {
	Rate        limiter.Rate
	AddHeaders  bool   // 是否写标准 X-RateLimit-* 响应头
	DenyMessage string // 429 响应内容
}

// MetricsObserver 指标上报接口
type MetricsObserver interface {
	OnAllow(route string, key string)
	OnDeny(route string, key string)
}

// PrometheusObserver 基于 Prometheus 的实现
type PrometheusObserver struct {
	allow *prometheus.CounterVec
	deny  *prometheus.CounterVec
}

// NewPrometheusObserver 创建 Prometheus 观察者
func NewPrometheusObserver() *PrometheusObserver {
	return &PrometheusObserver{
		allow: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "rate_limit_allow_total",
			Help: "Allowed requests by rate limiter",
		}, []string{"route"}),
		deny: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "rate_limit_deny_total",
			Help: "Denied requests by rate limiter",
		}, []string{"route"}),
	}
}

func (p *PrometheusObserver) OnAllow(route, key string) { p.allow.WithLabelValues(route).Inc() }
func (p *PrometheusObserver) OnDeny(route, key string)  { p.deny.WithLabelValues(route).Inc() }

// RateLimiter 面向实例的限流器
type RateLimiter struct {
	cfg      RateLimiterConfig
	lim      *limiter.Limiter
	observer MetricsObserver
	mu       sync.RWMutex
}

// NewRateLimiter 构造函数，store 为 nil 时使用内存存储
func NewRateLimiter(cfg RateLimiterConfig, store limiter.Store) *RateLimiter {
	if store == nil {
		store = memory.NewStore()
	}
	if cfg.Rate.Limit == 0 {
		cfg.Rate = limiter.Rate{Period: 5 * time.Minute, Limit: 20}
	}
	return &RateLimiter{
		cfg: cfg,
		lim: limiter.New(store, cfg.Rate),
	}
}

// WithObserver 配置指标观察者
func (l *RateLimiter) WithObserver(observer MetricsObserver) *RateLimiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.observer = observer
	return l
}

// Middleware 返回 Gin 中间件，按登录用户限流
func (l *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := buildLimitKey(c)

		context, err := l.lim.Get(c, key)
		if err != nil {
			// 存储故障时放行，限流不应拖垮正常请求
			c.Next()
			return
		}
		if l.cfg.AddHeaders {
			setStandardHeaders(c, context)
		}
		if context.Reached {
			setRetryAfter(c, time.Until(time.Unix(context.Reset, 0)))
			l.report(c, key, false)
			msg := l.cfg.DenyMessage
			if msg == "" {
				msg = "Too many requests. Please slow down."
			}
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"message": msg})
			return
		}

		l.report(c, key, true)
		c.Next()
	}
}

func (l *RateLimiter) report(c *gin.Context, key string, allowed bool) {
	l.mu.RLock()
	obs := l.observer
	l.mu.RUnlock()
	if obs == nil {
		return
	}
	route := c.FullPath()
	if route == "" {
		route = c.Request.URL.Path
	}
	if allowed {
		obs.OnAllow(route, key)
	} else {
		obs.OnDeny(route, key)
	}
}

func buildLimitKey(c *gin.Context) string {
	if v, ok := c.Get("user_id"); ok {
		if s, ok := v.(string); ok && s != "" {
			return "user:" + s
		}
	}
	return "ip:" + c.ClientIP()
}

func setStandardHeaders(c *gin.Context, ctx limiter.Context) {
	c.Header("X-RateLimit-Limit", strconv.FormatInt(ctx.Limit, 10))
	c.Header("X-RateLimit-Remaining", strconv.FormatInt(ctx.Remaining, 10))
	resetSec := int(time.Until(time.Unix(ctx.Reset, 0)).Seconds())
	if resetSec < 0 {
		resetSec = 0
	}
	c.Header("X-RateLimit-Reset", strconv.Itoa(resetSec))
}

func setRetryAfter(c *gin.Context, d time.Duration) {
	sec := int(d.Seconds())
	if sec < 0 {
		sec = 0
	}
	c.Header("Retry-After", strconv.Itoa(sec))
}
