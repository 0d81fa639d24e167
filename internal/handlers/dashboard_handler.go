package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"brandvault/internal/api/middleware"
	"brandvault/internal/dashboard"
	"brandvault/internal/models"
	"brandvault/internal/permissions"
	"brandvault/internal/utils/logger"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// DashboardHandler aggregates the home-screen statistics. Everything is
// recomputed per request over the caller's visible slice of the data.
type DashboardHandler struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDashboardHandler(db *gorm.DB) *DashboardHandler {
	return &DashboardHandler{db: db, log: logger.New("dashboard_handler")}
}

// Stats handles GET /api/dashboard
// @Summary Dashboard statistics
// @Description Aggregated totals, storage usage and per-category distributions
// @Tags dashboard
// @Produce json
// @Success 200 {object} dashboard.Stats
// @Router /api/dashboard [get]
func (h *DashboardHandler) Stats(c echo.Context) error {
	ctx := c.Request().Context()
	user := middleware.CurrentUser(c)
	scope := permissions.ScopeForUser(user)

	var assets []models.Asset
	if err := scope.Apply(h.db.WithContext(ctx).Where("is_deleted = ?", false)).Find(&assets).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Erro ao carregar materiais")
	}

	var campaigns []models.Campaign
	if err := scope.ApplyRegional(h.db.WithContext(ctx).Where("is_deleted = ?", false)).Find(&campaigns).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Erro ao carregar campanhas")
	}

	var projects []models.Project
	if err := scope.ApplyRegional(h.db.WithContext(ctx).Where("is_deleted = ?", false)).Find(&projects).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Erro ao carregar empreendimentos")
	}

	var userCount int64
	h.db.WithContext(ctx).Model(&models.User{}).Where("is_deleted = ?", false).Count(&userCount)

	stats := dashboard.Compute(assets, campaigns, projects, int(userCount), h.storageLimitGB(ctx))

	// Privileged readers repair stale cached statuses as a side effect of
	// looking at the dashboard. Viewers only read.
	if user != nil && permissions.HasPermission(user.Role, permissions.EditCampaigns) {
		h.persistCampaignStatuses(c, campaigns)
	}

	return c.JSON(http.StatusOK, stats)
}

// persistCampaignStatuses writes back derived statuses that drifted from the
// stored column. "expiring" stays stored as "active". The update is
// conditional on the column, so an up-to-date row costs nothing.
func (h *DashboardHandler) persistCampaignStatuses(c echo.Context, campaigns []models.Campaign) {
	ctx := c.Request().Context()
	today := time.Now()
	for i := range campaigns {
		derived := models.PersistableStatus(campaigns[i].DerivedStatus(today))
		err := h.db.WithContext(ctx).Model(&models.Campaign{}).
			Where("id = ? AND status <> ?", campaigns[i].ID, derived).
			Updates(map[string]interface{}{
				"status": derived,
				"color":  models.CampaignStatusColor(derived),
			}).Error
		if err != nil {
			_ = h.log.Error("failed to persist campaign status", err)
		}
	}
}

func (h *DashboardHandler) storageLimitGB(ctx context.Context) float64 {
	return readFloatSetting(h.db.WithContext(ctx), "storage_limit_gb", 0)
}

// readFloatSetting reads a numeric system setting, returning the fallback
// when the row is missing or malformed.
func readFloatSetting(db *gorm.DB, key string, fallback float64) float64 {
	var setting models.SystemSetting
	if err := db.Where("key = ?", key).First(&setting).Error; err != nil {
		return fallback
	}
	var value float64
	if err := json.Unmarshal(setting.Value, &value); err != nil {
		return fallback
	}
	return value
}
