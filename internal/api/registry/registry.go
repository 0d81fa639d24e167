package registry

import (
	"github.com/labstack/echo/v4"

	"brandvault/internal/api/controllers"
	"brandvault/internal/api/middleware"
	"brandvault/internal/models"
	"brandvault/internal/permissions"
	"brandvault/internal/services"

	"gorm.io/gorm"
)

// assetScope builds the per-request regional/origin filter for asset
// listings. Admin, marketing editors and global viewers pass through
// unrestricted.
func assetScope(c echo.Context) func(*gorm.DB) *gorm.DB {
	scope := permissions.ScopeForUser(middleware.CurrentUser(c))
	return scope.Apply
}

// categoryScope filters campaign and project listings by regional only.
// Those tables have no origin column.
func categoryScope(c echo.Context) func(*gorm.DB) *gorm.DB {
	scope := permissions.ScopeForUser(middleware.CurrentUser(c))
	return scope.ApplyRegional
}

// RegisterCRUDRoutes registers the generic CRUD surface for all models
func RegisterCRUDRoutes(g *echo.Group, db *gorm.DB, audit *services.ActivityLogger) {
	// Campaigns
	campaignService := services.NewBaseService(db, models.Campaign{})
	campaignController := controllers.NewBaseController(campaignService,
		controllers.WithScope[models.Campaign](categoryScope),
		controllers.WithAudit[models.Campaign](audit, "campaign",
			models.ActionCreateCampaign, models.ActionUpdateCampaign, models.ActionDeleteCampaign),
	)
	campaignGroup := g.Group("/campaigns")
	campaignGroup.Use(middleware.RequirePermission(permissions.ViewCampaigns))
	campaignGroup.GET("", campaignController.List)
	campaignGroup.GET("/:id", campaignController.Get)

	campaignWrite := campaignGroup.Group("")
	campaignWrite.Use(middleware.RequirePermission(permissions.CreateCampaigns))
	campaignWrite.POST("", campaignController.Create)

	campaignEdit := campaignGroup.Group("")
	campaignEdit.Use(middleware.RequirePermission(permissions.EditCampaigns))
	campaignEdit.PUT("/:id", campaignController.Update)

	campaignDelete := campaignGroup.Group("")
	campaignDelete.Use(middleware.RequirePermission(permissions.DeleteCampaigns))
	campaignDelete.DELETE("/:id", campaignController.Delete)

	// Projects
	projectService := services.NewBaseService(db, models.Project{})
	projectController := controllers.NewBaseController(projectService,
		controllers.WithScope[models.Project](categoryScope),
		controllers.WithAudit[models.Project](audit, "project",
			models.ActionCreateProject, models.ActionUpdateProject, models.ActionDeleteProject),
	)
	projectGroup := g.Group("/projects")
	projectGroup.Use(middleware.RequirePermission(permissions.ViewProjects))
	projectGroup.GET("", projectController.List)
	projectGroup.GET("/:id", projectController.Get)

	projectWrite := projectGroup.Group("")
	projectWrite.Use(middleware.RequirePermission(permissions.CreateProjects))
	projectWrite.POST("", projectController.Create)

	projectEdit := projectGroup.Group("")
	projectEdit.Use(middleware.RequirePermission(permissions.EditProjects))
	projectEdit.PUT("/:id", projectController.Update)

	projectDelete := projectGroup.Group("")
	projectDelete.Use(middleware.RequirePermission(permissions.DeleteProjects))
	projectDelete.DELETE("/:id", projectController.Delete)

	// Assets: created only through finalize, so the generic surface covers
	// read, edit and delete.
	assetService := services.NewBaseService(db, models.Asset{})
	assetController := controllers.NewBaseController(assetService,
		controllers.WithScope[models.Asset](assetScope),
		controllers.WithAudit[models.Asset](audit, "asset",
			"", models.ActionUpdateAsset, models.ActionDeleteAsset),
	)
	assetGroup := g.Group("/assets")
	assetGroup.Use(middleware.RequirePermission(permissions.ViewMaterials))
	assetGroup.GET("", assetController.List)
	assetGroup.GET("/:id", assetController.Get)

	assetEdit := assetGroup.Group("")
	assetEdit.Use(middleware.RequirePermission(permissions.EditMaterials))
	assetEdit.PUT("/:id", assetController.Update)

	assetDelete := assetGroup.Group("")
	assetDelete.Use(middleware.RequirePermission(permissions.DeleteMaterials))
	assetDelete.DELETE("/:id", assetController.Delete)

	// Shared links: creation lives in the share handler (it signs the token),
	// the generic surface covers listing and revocation.
	linkService := services.NewBaseService(db, models.SharedLink{})
	linkController := controllers.NewBaseController(linkService,
		controllers.WithAudit[models.SharedLink](audit, "shared_link",
			"", "", models.ActionDeleteSharedLink),
	)
	linkGroup := g.Group("/shared-links")
	linkGroup.Use(middleware.RequirePermission(permissions.ViewSharedLinks))
	linkGroup.GET("", linkController.List)
	linkGroup.GET("/:id", linkController.Get)

	linkDelete := linkGroup.Group("")
	linkDelete.Use(middleware.RequirePermission(permissions.ManageSharedLinks))
	linkDelete.DELETE("/:id", linkController.Delete)

	// Useful links: read for everyone authenticated, writes for settings holders
	usefulService := services.NewBaseService(db, models.UsefulLink{})
	usefulController := controllers.NewBaseController(usefulService)
	usefulGroup := g.Group("/useful-links")
	usefulGroup.GET("", usefulController.List)

	usefulWrite := usefulGroup.Group("")
	usefulWrite.Use(middleware.RequirePermission(permissions.AccessSettings))
	usefulWrite.POST("", usefulController.Create)
	usefulWrite.PUT("/:id", usefulController.Update)
	usefulWrite.DELETE("/:id", usefulController.Delete)

	// Users
	userService := services.NewBaseService(db, models.User{})
	userController := controllers.NewBaseController(userService,
		controllers.WithAudit[models.User](audit, "user",
			models.ActionCreateUser, models.ActionUpdateUser, ""),
	)
	userGroup := g.Group("/users")
	userGroup.Use(middleware.RequirePermission(permissions.ViewUsers))
	userGroup.GET("", userController.List)
	userGroup.GET("/:id", userController.Get)

	userWrite := userGroup.Group("")
	userWrite.Use(middleware.RequirePermission(permissions.CreateUsers))
	userWrite.POST("", userController.Create)

	userEdit := userGroup.Group("")
	userEdit.Use(middleware.RequirePermission(permissions.EditUsers))
	userEdit.PUT("/:id", userController.Update)

	// System settings
	settingService := services.NewBaseService(db, models.SystemSetting{})
	settingController := controllers.NewBaseController(settingService)
	settingGroup := g.Group("/settings")
	settingGroup.Use(middleware.RequirePermission(permissions.AccessSettings))
	settingGroup.GET("", settingController.List)
	settingGroup.POST("", settingController.Create)
	settingGroup.PUT("/:id", settingController.Update)
}
