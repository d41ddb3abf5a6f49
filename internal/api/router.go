package api

import (
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"hostel-management-backend/config"
	"hostel-management-backend/internal/mw"
	"hostel-management-backend/internal/notification"
	"hostel-management-backend/internal/store"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(cfg *config.Config, s store.Store, pool *notification.WorkerPool, webpushOptions *webpush.Options) *gin.Engine {
	r := gin.Default()

	handler := NewHandler(s, pool, webpushOptions)

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.Server.RateLimitPerSec), cfg.Server.RateLimitBurst)

	cacheTTL := time.Duration(cfg.Server.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(cacheTTL, 2*cacheTTL)
	caching := mw.Cache(cacheStore, cacheTTL)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.GET("/hostels", caching, handler.GetHostels)
		api.GET("/hostels/:hostel_id/rooms", handler.GetHostelRooms)
		api.POST("/hostels/:hostel_id/rooms", handler.CreateRoom)

		api.GET("/allocation", handler.GetAllocation)
		api.GET("/rooms/:room_id", handler.GetRoom)
		api.GET("/rooms/:room_id/history", caching, handler.GetRoomHistory)

		api.POST("/requests", handler.SubmitRequest)
		api.GET("/requests", handler.ListRequests)
		api.POST("/requests/:request_id/approve", handler.ApproveRequest)
		api.POST("/requests/:request_id/decline", handler.DeclineRequest)

		api.POST("/reports", handler.ReportDamage)
		api.GET("/reports", handler.ListReports)
		api.PATCH("/reports/:report_id", handler.UpdateRepairStatus)

		api.GET("/subscriptions", handler.GetSubscription)
		api.PUT("/subscriptions", handler.PutSubscription)
		api.DELETE("/subscriptions", handler.DeleteSubscription)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)
	}

	return r
}
