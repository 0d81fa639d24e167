package api

import (
	"net/http"

	"brandvault/internal/api/middleware"
	"brandvault/internal/api/registry"
	"brandvault/internal/routes"

	_ "brandvault/docs/swagger"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

func (s *Server) registerRoutes() {
	s.echo.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "BrandVault API")
	})
	// Health check
	// @Summary Health check
	// @Description Check if the server is running
	// @Accept json
	// @Produce json
	// @Success 200 {object} map[string]string "OK"
	// @Router /health [get]
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/swagger/*", echoSwagger.WrapHandler)

	// API v1 group
	api := s.echo.Group("/api/v1")
	auth := middleware.NewAuthMiddleware(s.config.JWT.Secret)
	api.Use(auth.Middleware())

	// Generic CRUD surface for all models
	registry.RegisterCRUDRoutes(api, s.db, s.audit)

	// Finalize, shared links and the public resolver
	routes.SetupAssetRoutes(s.echo, api, s.db, s.audit, s.tasks.RedisClient())

	// Dashboard, reports and the audit viewer
	routes.SetupAdminRoutes(api, s.db, s.audit, s.tasks)
}
