package handlers

import (
	"context"

	"brandvault/internal/events"
	"brandvault/internal/models"
	"brandvault/internal/utils/logger"

	"gorm.io/gorm"
)

// RegisterAssetCleanup subscribes to asset deletions and removes the backing
// storage objects. The row is soft-deleted before the event fires, so the
// lookup here must not filter on is_deleted. Object removal is best-effort:
// a failure only leaves an orphan in the bucket.
func RegisterAssetCleanup(db *gorm.DB) {
	log := logger.New("asset_cleanup")
	events.On("assets.deleted", func(payload interface{}) {
		id, ok := payload.(string)
		if !ok {
			return
		}
		var asset models.Asset
		if err := db.First(&asset, "id = ?", id).Error; err != nil {
			log.Warn("deleted asset %s not found for storage cleanup", id)
			return
		}
		removeAssetObjects(context.Background(), &asset, GetObjectStore(), log)
	})
}

// removeAssetObjects deletes the asset's object and, when it is a separate
// object, its thumbnail, in a single batched call. URLs that do not belong
// to our bucket are skipped.
func removeAssetObjects(ctx context.Context, asset *models.Asset, store ObjectStore, log *logger.Logger) {
	if store == nil {
		return
	}

	keys := make([]string, 0, 2)
	if key := store.KeyFromURL(asset.URL); key != "" {
		keys = append(keys, key)
	}
	if asset.ThumbnailURL != "" && asset.ThumbnailURL != asset.URL {
		if key := store.KeyFromURL(asset.ThumbnailURL); key != "" {
			keys = append(keys, key)
		}
	}
	if len(keys) == 0 {
		return
	}

	if err := store.Delete(ctx, keys...); err != nil {
		log.Warn("failed to remove storage objects for asset %s", asset.ID)
	}
}
