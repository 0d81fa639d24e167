package routes

import (
	"brandvault/internal/api/middleware"
	"brandvault/internal/config"
	"brandvault/internal/handlers"
	"brandvault/internal/permissions"
	"brandvault/internal/services"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

func SetupAuthRoutes(e *echo.Echo, db *gorm.DB, cfg *config.Config, audit *services.ActivityLogger) {
	authHandler := handlers.NewAuthHandler(db, audit)

	base := e.Group("/api/v1")

	// Public auth routes group
	auth := base.Group("/auth")
	users := base.Group("/users")

	// Public routes (no auth required)
	auth.POST("/login", authHandler.Login)
	auth.POST("/password-reset", authHandler.RequestPasswordReset)
	auth.POST("/password-reset/verify", authHandler.VerifyResetCode)
	auth.POST("/refresh", authHandler.RefreshToken)

	// Protected auth routes (require authentication)
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)
	protected := users.Group("")
	protected.Use(authMiddleware.Middleware())

	protected.GET("/me", authHandler.GetMe)

	protectedAuth := auth.Group("")
	protectedAuth.Use(authMiddleware.Middleware())
	protectedAuth.POST("/logout", authHandler.Logout)

	// Deletion reassigns the user's audit rows, so it bypasses the generic
	// CRUD surface.
	userDelete := protected.Group("")
	userDelete.Use(middleware.RequirePermission(permissions.DeleteUsers))
	userDelete.DELETE("/:id", authHandler.DeleteUser)
}
