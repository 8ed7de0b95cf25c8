package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/thekillingspree/quick-entry/config"
	"github.com/thekillingspree/quick-entry/internal/auth"
	"github.com/thekillingspree/quick-entry/internal/mw"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(cfg *config.Config, h *Handler, authSvc *auth.Service) *gin.Engine {
	r := gin.Default()

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.Server.RateLimitPerSec), cfg.Server.RateLimitBurst)

	cacheTTL := time.Duration(cfg.Server.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(cacheTTL, 2*cacheTTL)
	caching := mw.Cache(cacheStore, cacheTTL)

	userRequired := auth.UserRequired(authSvc)
	adminRequired := auth.AdminRequired(authSvc)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.POST("/users/signup", h.UserSignup)
		api.POST("/users/login", h.UserLogin)
		api.POST("/admin/signup", h.AdminSignup)
		api.POST("/admin/login", h.AdminLogin)

		// The room list is cache-safe; rosters and profiles are always
		// served from a fresh read.
		api.GET("/rooms", caching, h.ListRooms)
		api.POST("/rooms/new", adminRequired, h.CreateRoom)
		api.GET("/rooms/:room_id", userRequired, h.GetRoomRoster)
		api.POST("/rooms/:room_id/checkin", userRequired, h.CheckIn)
		api.POST("/rooms/:room_id/checkout", userRequired, h.CheckOut)

		api.POST("/entries/scan", adminRequired, h.Scan)
		api.GET("/users/me", userRequired, h.GetProfile)

		api.GET("/subscriptions", h.GetSubscription)
		api.PUT("/subscriptions", h.PutSubscription)
		api.DELETE("/subscriptions", h.DeleteSubscription)
		api.GET("/vapid_public_key", h.GetVAPIDPublicKey)
	}

	return r
}
