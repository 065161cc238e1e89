package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"console-cafe-backend/internal/mw"
)

// RouterConfig tunes the middleware stack.
type RouterConfig struct {
	RateLimitPerSec float64
	RateLimitBurst  int
	CacheTTL        time.Duration
	// Gatherer backs /metrics; nil disables the route.
	Gatherer prometheus.Gatherer
}

// NewRouter creates and configures a new Gin router.
func NewRouter(h *Handler, cfg RouterConfig, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), mw.RequestID(), mw.Logging(log), mw.CORS())

	r.GET("/", h.GetRoot)
	r.GET("/health", h.GetHealth)
	if cfg.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})))
	}

	// Café collaborator lists are cached; any successful write flushes them.
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	caching := mw.Cache(cache.New(ttl, 2*ttl), ttl)

	api := r.Group("/api")
	api.Use(mw.RateLimiter(cfg.RateLimitPerSec, cfg.RateLimitBurst))
	{
		api.GET("/devices", h.GetDevices)
		api.GET("/devices/:device_id", h.GetDevice)
		api.PUT("/devices/:device_id/status", h.PutDeviceStatus)

		api.POST("/sessions", h.PostSession)
		api.GET("/sessions", h.GetSessions)
		api.GET("/sessions/active", h.GetActiveSessions)
		api.PUT("/sessions/:session_id/end", h.EndSession)

		api.GET("/dashboard", h.GetDashboard)

		api.GET("/settings", h.GetSettings)
		api.PUT("/settings", h.PutSettings)

		api.POST("/cafe-orders", caching, h.PostCafeOrder)
		api.GET("/cafe-orders", caching, h.GetCafeOrders)
		api.POST("/inventory", caching, h.PostInventoryItem)
		api.GET("/inventory", caching, h.GetInventory)
		api.GET("/inventory/low-stock", caching, h.GetLowStock)
		api.POST("/withdrawals", caching, h.PostWithdrawal)
		api.GET("/withdrawals", caching, h.GetWithdrawals)
	}

	return r
}
