package handlers

import (
	"net/http"
	"strconv"
	"time"

	"brandvault/internal/services"

	"github.com/labstack/echo/v4"
)

// ActivityHandler exposes the read-only audit trail.
type ActivityHandler struct {
	audit *services.ActivityLogger
}

func NewActivityHandler(audit *services.ActivityLogger) *ActivityHandler {
	return &ActivityHandler{audit: audit}
}

// List handles GET /api/activity-logs
// @Summary List activity logs
// @Description Paginated audit trail with date, action, user and regional filters
// @Tags activity
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size (max 100)"
// @Param startDate query string false "Start date (YYYY-MM-DD)"
// @Param endDate query string false "End date (YYYY-MM-DD)"
// @Param action query string false "Comma-separated action filter"
// @Param userId query string false "Filter by acting user"
// @Param regional query string false "Filter by the acting user's regional"
// @Success 200 {object} services.ActivityPage
// @Router /api/activity-logs [get]
func (h *ActivityHandler) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	q := services.ActivityQuery{
		Page:     page,
		Limit:    limit,
		Actions:  services.ParseActions(c.QueryParam("action")),
		UserID:   c.QueryParam("userId"),
		Regional: c.QueryParam("regional"),
	}

	if raw := c.QueryParam("startDate"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Data inicial inválida")
		}
		q.StartDate = &t
	}
	if raw := c.QueryParam("endDate"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Data final inválida")
		}
		// Inclusive end of day
		t = t.Add(24*time.Hour - time.Nanosecond)
		q.EndDate = &t
	}

	result, err := h.audit.Query(c.Request().Context(), q)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Erro ao consultar o histórico de atividades")
	}

	return c.JSON(http.StatusOK, result)
}
