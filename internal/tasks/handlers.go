package tasks

import (
	"context"
	"fmt"
	"time"

	"brandvault/internal/config"
	"brandvault/internal/handlers"
	"brandvault/internal/utils/logger"

	"github.com/hibiken/asynq"
	"gorm.io/gorm"
)

// TaskHandler processes background jobs
type TaskHandler struct {
	db     *gorm.DB
	cfg    *config.Config
	logger *logger.Logger
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(db *gorm.DB, cfg *config.Config) *TaskHandler {
	return &TaskHandler{
		db:     db,
		cfg:    cfg,
		logger: logger.New("task_handler"),
	}
}

// HandleTempSweep removes temp-upload objects older than the configured TTL.
// These are uploads whose batch was never finalized: the browser tab closed,
// the session expired, or the user walked away mid-form.
func (h *TaskHandler) HandleTempSweep(ctx context.Context, t *asynq.Task) error {
	store := handlers.GetObjectStore()
	if store == nil {
		return fmt.Errorf("object store not configured")
	}

	prefix := h.cfg.Uploads.TempPrefix + "/"
	objects, err := store.ListPrefix(ctx, prefix)
	if err != nil {
		return fmt.Errorf("failed to list temp uploads: %w", err)
	}

	cutoff := time.Now().Add(-time.Duration(h.cfg.Uploads.TempTTLHours) * time.Hour)
	var stale []string
	for key, modified := range objects {
		if modified.Before(cutoff) {
			stale = append(stale, key)
		}
	}

	if len(stale) == 0 {
		h.logger.Info("temp sweep: nothing to remove (%d live objects)", len(objects))
		return nil
	}

	if err := store.Delete(ctx, stale...); err != nil {
		return fmt.Errorf("failed to delete %d stale temp uploads: %w", len(stale), err)
	}

	h.logger.Success("temp sweep removed %d stale uploads ✨", len(stale))
	return nil
}
