package routes

import (
	"net/http"

	"brandvault/internal/api/middleware"
	"brandvault/internal/handlers"
	"brandvault/internal/models"
	"brandvault/internal/permissions"
	"brandvault/internal/services"
	"brandvault/internal/tasks"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// SetupAdminRoutes wires the dashboard, the PDF report export, the
// activity-log viewer and the maintenance triggers.
func SetupAdminRoutes(api *echo.Group, db *gorm.DB, audit *services.ActivityLogger, taskClient *tasks.TaskClient) {
	dashboardHandler := handlers.NewDashboardHandler(db)
	reportHandler := handlers.NewReportHandler(db)
	activityHandler := handlers.NewActivityHandler(audit)

	dashboard := api.Group("/dashboard")
	dashboard.Use(middleware.RequirePermission(permissions.ViewDashboard))
	dashboard.GET("", dashboardHandler.Stats)

	reports := api.Group("/reports")
	reports.Use(middleware.RequirePermission(permissions.ViewAnalytics))
	reports.GET("/analytics", reportHandler.Generate)

	// The audit viewer is role-gated, not permission-gated: only admins and
	// marketing editors may read it.
	activity := api.Group("/activity-logs")
	activity.Use(middleware.RequireRole(models.UserRoleAdmin, models.UserRoleEditorMarketing))
	activity.GET("", activityHandler.List)

	// Manual temp-upload sweep, outside the hourly schedule. An `at` cron
	// expression defers the run to its next occurrence.
	maintenance := api.Group("/maintenance")
	maintenance.Use(middleware.RequirePermission(permissions.ManageSystem))
	maintenance.POST("/temp-sweep", func(c echo.Context) error {
		if taskClient == nil {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "Fila de tarefas indisponível")
		}
		var err error
		if spec := c.QueryParam("at"); spec != "" {
			err = taskClient.EnqueueTempSweepAt(spec)
		} else {
			err = taskClient.EnqueueTempSweep()
		}
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Erro ao agendar a limpeza")
		}
		return c.JSON(http.StatusAccepted, map[string]string{"message": "Limpeza agendada"})
	})
}
