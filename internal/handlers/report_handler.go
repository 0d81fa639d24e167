package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"brandvault/internal/api/middleware"
	"brandvault/internal/dashboard"
	"brandvault/internal/models"
	"brandvault/internal/permissions"
	"brandvault/internal/report"
	"brandvault/internal/services"
	"brandvault/internal/utils/logger"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// ReportHandler assembles the analytics PDF export: dashboard stats plus the
// activity-derived sections, rendered by the report generator.
type ReportHandler struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewReportHandler(db *gorm.DB) *ReportHandler {
	return &ReportHandler{db: db, log: logger.New("report_handler")}
}

// Generate handles GET /api/reports/analytics
// @Summary Generate analytics report
// @Description Render the selected indicators into a PDF for the given period
// @Tags reports
// @Produce application/pdf
// @Param startDate query string false "Period start (YYYY-MM-DD), defaults to 30 days ago"
// @Param endDate query string false "Period end (YYYY-MM-DD), defaults to today"
// @Param indicators query string false "Comma-separated indicator ids, drawn in the given order"
// @Success 200 {file} binary "PDF report"
// @Router /api/reports/analytics [get]
func (h *ReportHandler) Generate(c echo.Context) error {
	ctx := c.Request().Context()
	user := middleware.CurrentUser(c)
	scope := permissions.ScopeForUser(user)

	end := time.Now()
	start := end.AddDate(0, 0, -30)
	if raw := c.QueryParam("startDate"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Data inicial inválida")
		}
		start = t
	}
	if raw := c.QueryParam("endDate"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Data final inválida")
		}
		end = t
	}
	if end.Before(start) {
		return echo.NewHTTPError(http.StatusBadRequest, "Período inválido")
	}

	indicators := report.DefaultIndicators
	if raw := c.QueryParam("indicators"); raw != "" {
		indicators = services.ParseActions(raw)
	}

	in := report.Input{
		CompanyName: h.companyName(ctx),
		StartDate:   start,
		EndDate:     end,
	}

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

	limitGB := readFloatSetting(h.db.WithContext(ctx), "storage_limit_gb", 0)
	in.Stats = dashboard.Compute(assets, campaigns, projects, int(userCount), limitGB)

	var activeLinks int64
	h.db.WithContext(ctx).Model(&models.SharedLink{}).
		Where("is_active = ? AND (expires_at IS NULL OR expires_at > ?)", true, time.Now()).
		Count(&activeLinks)
	in.ActiveLinks = int(activeLinks)

	var err error
	if in.RecentActivity, err = h.recentActivity(ctx, start, end); err != nil {
		_ = h.log.Error("failed to load recent activity", err)
	}
	if in.Series, err = h.dailySeries(ctx, start, end); err != nil {
		_ = h.log.Error("failed to load upload/download series", err)
	}

	maxRows := int(readFloatSetting(h.db.WithContext(ctx), "report_max_table_rows", 0))
	gen := report.NewGenerator(report.WithMaxTableRows(maxRows))

	pdf, err := gen.Render(&in, indicators)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Erro ao gerar o relatório")
	}

	filename := fmt.Sprintf("relatorio-%s-%s.pdf", start.Format("2006-01-02"), end.Format("2006-01-02"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}

func (h *ReportHandler) companyName(ctx context.Context) string {
	var setting models.SystemSetting
	if err := h.db.WithContext(ctx).Where("key = ?", "company_name").First(&setting).Error; err != nil {
		return ""
	}
	var name string
	if err := json.Unmarshal(setting.Value, &name); err != nil {
		return ""
	}
	return name
}

// recentActivity returns the period's newest audit lines with the actor name
// resolved, capped for the PDF section.
func (h *ReportHandler) recentActivity(ctx context.Context, start, end time.Time) ([]report.ActivityEntry, error) {
	var rows []models.ActivityLog
	err := h.db.WithContext(ctx).
		Preload("User").
		Where("created_at >= ? AND created_at <= ?", start, endOfDay(end)).
		Order("created_at DESC").
		Limit(15).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	entries := make([]report.ActivityEntry, 0, len(rows))
	for _, row := range rows {
		name := row.UserID
		if row.User != nil {
			name = row.User.Name
		}
		entries = append(entries, report.ActivityEntry{
			Action:    row.Action,
			UserName:  name,
			CreatedAt: row.CreatedAt,
		})
	}
	return entries, nil
}

// dailySeries buckets upload and download audit rows per day across the
// period, zero-filling days without activity so the chart has a continuous
// x-axis.
func (h *ReportHandler) dailySeries(ctx context.Context, start, end time.Time) ([]report.SeriesPoint, error) {
	var rows []models.ActivityLog
	err := h.db.WithContext(ctx).
		Where("action IN ? AND created_at >= ? AND created_at <= ?",
			[]string{models.ActionUploadAsset, models.ActionDownloadAsset}, start, endOfDay(end)).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	type bucket struct{ uploads, downloads int }
	byDay := make(map[string]*bucket)
	for _, row := range rows {
		key := row.CreatedAt.Format("2006-01-02")
		b := byDay[key]
		if b == nil {
			b = &bucket{}
			byDay[key] = b
		}
		if row.Action == models.ActionUploadAsset {
			b.uploads++
		} else {
			b.downloads++
		}
	}

	var series []report.SeriesPoint
	for day := truncDay(start); !day.After(truncDay(end)); day = day.AddDate(0, 0, 1) {
		point := report.SeriesPoint{Day: day}
		if b := byDay[day.Format("2006-01-02")]; b != nil {
			point.Uploads = b.uploads
			point.Downloads = b.downloads
		}
		series = append(series, point)
	}
	return series, nil
}

func truncDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return truncDay(t).Add(24*time.Hour - time.Nanosecond)
}
