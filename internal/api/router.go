package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"

	"call-alert-backend/config"
	"call-alert-backend/internal/mw"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(h *Handler, cfg *config.ServerConfig) *gin.Engine {
	r := gin.Default()

	cacheTTL := time.Duration(cfg.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(cacheTTL, 2*cacheTTL)
	caching := mw.Cache(cacheStore, cacheTTL)

	r.GET("/health", h.GetHealth)
	r.GET("/call", h.GetCallPage)

	api := r.Group("/api")
	{
		// The public key cannot change within a process lifetime.
		api.GET("/vapid-public-key", caching, h.GetVAPIDPublicKey)
		api.POST("/devices", h.PostDevice)
	}

	webhooks := r.Group("/webhooks")
	webhooks.Use(mw.RateLimitPerMinute(cfg.RateLimitPerMin, cfg.RateLimitBurst))
	{
		webhooks.POST("/call", h.PostCallWebhook)
	}

	return r
}
