package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"brandvault/internal/models"
	"brandvault/internal/utils/logger"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ActivityLogger appends audit rows. Writes are best-effort: a failed log
// insert never fails the action that produced it.
type ActivityLogger struct {
	db     *gorm.DB
	logger *logger.Logger
}

func NewActivityLogger(db *gorm.DB) *ActivityLogger {
	return &ActivityLogger{
		db:     db,
		logger: logger.New("activity_logger"),
	}
}

// Log appends one activity row; errors are logged and swallowed.
func (a *ActivityLogger) Log(ctx context.Context, userID, action, entityType, entityID string, metadata map[string]interface{}) {
	entry := models.ActivityLog{
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		UserID:     userID,
	}
	if len(metadata) > 0 {
		raw, err := json.Marshal(metadata)
		if err == nil {
			entry.Metadata = datatypes.JSON(raw)
		}
	}
	if err := a.db.WithContext(ctx).Create(&entry).Error; err != nil {
		_ = a.logger.Error("failed to append activity log ❌", err)
	}
}

// ActivityQuery are the audit viewer filters. Actions is a multi-select;
// Regional filters through the acting user's region.
type ActivityQuery struct {
	Page      int
	Limit     int
	StartDate *time.Time
	EndDate   *time.Time
	Actions   []string
	UserID    string
	Regional  string
}

// ActivityPage is the viewer response shape.
type ActivityPage struct {
	Data []models.ActivityLog `json:"data"`
	Meta struct {
		Total      int64 `json:"total"`
		Page       int   `json:"page"`
		Limit      int   `json:"limit"`
		TotalPages int   `json:"totalPages"`
	} `json:"meta"`
}

// Query returns one page of the audit trail, newest first.
func (a *ActivityLogger) Query(ctx context.Context, q ActivityQuery) (*ActivityPage, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 || q.Limit > 100 {
		q.Limit = 20
	}

	query := a.db.WithContext(ctx).Model(&models.ActivityLog{})

	if q.StartDate != nil {
		query = query.Where("activity_logs.created_at >= ?", *q.StartDate)
	}
	if q.EndDate != nil {
		query = query.Where("activity_logs.created_at <= ?", *q.EndDate)
	}
	if len(q.Actions) > 0 {
		query = query.Where("activity_logs.action IN ?", q.Actions)
	}
	if q.UserID != "" {
		query = query.Where("activity_logs.user_id = ?", q.UserID)
	}
	if regional := models.NormalizeRegional(q.Regional); regional != "" {
		query = query.Joins("JOIN users ON users.id = activity_logs.user_id").
			Where("users.regional = ?", regional)
	}

	page := &ActivityPage{Data: []models.ActivityLog{}}
	if err := query.Count(&page.Meta.Total).Error; err != nil {
		return nil, err
	}

	err := query.
		Preload("User").
		Order("activity_logs.created_at DESC").
		Offset((q.Page - 1) * q.Limit).
		Limit(q.Limit).
		Find(&page.Data).Error
	if err != nil {
		return nil, err
	}

	page.Meta.Page = q.Page
	page.Meta.Limit = q.Limit
	page.Meta.TotalPages = int((page.Meta.Total + int64(q.Limit) - 1) / int64(q.Limit))
	return page, nil
}

// ReassignUser points a deleted user's audit rows at the acting admin so
// history survives without dangling references.
func (a *ActivityLogger) ReassignUser(ctx context.Context, fromUserID, toUserID string) error {
	return a.db.WithContext(ctx).
		Model(&models.ActivityLog{}).
		Where("user_id = ?", fromUserID).
		Update("user_id", toUserID).Error
}

// ParseActions splits the comma-separated multi-select filter.
func ParseActions(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
