package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"store-monitor-backend/config"
	"store-monitor-backend/internal/mw"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(cfg *config.ServerConfig, h *Handler) *gin.Engine {
	r := gin.Default()

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst, cfg.RequestIPHeader)

	ttl := time.Duration(cfg.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(ttl, 2*ttl)
	caching := mw.Cache(cacheStore, ttl)

	r.POST("/trigger_report", rateLimiter, h.TriggerReport)
	r.GET("/get_report", caching, h.GetReport)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.GET("/reports/:report_id", h.GetReportJob)
		api.GET("/stores", caching, h.GetStores)
	}

	return r
}
