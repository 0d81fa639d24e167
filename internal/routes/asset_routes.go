package routes

import (
	"time"

	"brandvault/internal/api/middleware"
	"brandvault/internal/handlers"
	"brandvault/internal/permissions"
	"brandvault/internal/services"
	"brandvault/internal/tasks/rate"
	"brandvault/internal/utils/logger"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// SetupAssetRoutes wires the finalize endpoint and shared-link creation onto
// the authenticated group, plus the public share resolver on the root.
func SetupAssetRoutes(e *echo.Echo, api *echo.Group, db *gorm.DB, audit *services.ActivityLogger, redisClient *redis.Client) {
	log := logger.New("asset_routes")

	var limiter *rate.QueueRateLimiter
	if redisClient != nil {
		limiter = rate.NewQueueRateLimiter(redisClient, rate.QueueConfig{
			Name: "finalize",
			RateLimit: rate.RateLimit{
				Window:  time.Minute,
				MaxJobs: 10,
			},
		})
	}

	finalizeHandler := handlers.NewFinalizeHandler(db, audit, limiter)
	shareHandler := handlers.NewShareHandler(db, audit)

	assets := api.Group("/assets")
	finalize := assets.Group("")
	finalize.Use(middleware.RequirePermission(permissions.UploadMaterials))
	finalize.POST("/finalize", finalizeHandler.Finalize)

	shareCreate := api.Group("/shared-links")
	shareCreate.Use(middleware.RequirePermission(permissions.CreateSharedLinks))
	shareCreate.POST("", shareHandler.Create)

	// Public resolver, token is the only credential
	e.GET("/share/:token", shareHandler.Resolve)

	log.Success("Asset routes initialized successfully")
}
