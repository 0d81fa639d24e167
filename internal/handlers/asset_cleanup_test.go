package handlers

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"brandvault/internal/models"
	"brandvault/internal/utils/logger"
)

type recordingStore struct {
	baseURL    string
	deleted    [][]string
	failDelete bool
}

func (s *recordingStore) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	return s.baseURL + key, nil
}

func (s *recordingStore) Move(ctx context.Context, srcKey, dstKey string) (string, error) {
	return s.baseURL + dstKey, nil
}

func (s *recordingStore) Delete(ctx context.Context, keys ...string) error {
	s.deleted = append(s.deleted, keys)
	if s.failDelete {
		return errors.New("delete failed")
	}
	return nil
}

func (s *recordingStore) ListPrefix(ctx context.Context, prefix string) (map[string]time.Time, error) {
	return nil, nil
}

func (s *recordingStore) GetSignedURL(ctx context.Context, path string, duration time.Duration) (string, error) {
	return s.baseURL + path, nil
}

func (s *recordingStore) KeyFromURL(url string) string {
	if !strings.HasPrefix(url, s.baseURL) {
		return ""
	}
	return strings.TrimPrefix(url, s.baseURL)
}

func cleanupAsset(t *testing.T) *models.Asset {
	t.Helper()
	asset := &models.Asset{
		Name: "planta-baixa.pdf",
		Type: models.AssetTypeDocument,
		URL:  "https://bucket.example.com/project/p1/abc-planta-baixa.pdf",
	}
	asset.ID = "a1"
	return asset
}

func TestRemoveAssetObjects_DeletesStorageObject(t *testing.T) {
	store := &recordingStore{baseURL: "https://bucket.example.com/"}
	asset := cleanupAsset(t)

	removeAssetObjects(context.Background(), asset, store, logger.New("test"))

	if len(store.deleted) != 1 {
		t.Fatalf("delete called %d times, want 1", len(store.deleted))
	}
	want := "project/p1/abc-planta-baixa.pdf"
	if len(store.deleted[0]) != 1 || store.deleted[0][0] != want {
		t.Fatalf("deleted keys = %v, want [%s]", store.deleted[0], want)
	}
}

func TestRemoveAssetObjects_DistinctThumbnailBatched(t *testing.T) {
	store := &recordingStore{baseURL: "https://bucket.example.com/"}
	asset := cleanupAsset(t)
	asset.ThumbnailURL = "https://bucket.example.com/project/p1/abc-thumb.jpg"

	removeAssetObjects(context.Background(), asset, store, logger.New("test"))

	if len(store.deleted) != 1 {
		t.Fatalf("delete called %d times, want a single batched call", len(store.deleted))
	}
	if len(store.deleted[0]) != 2 {
		t.Fatalf("deleted %d keys, want object + thumbnail", len(store.deleted[0]))
	}
}

func TestRemoveAssetObjects_ThumbnailAliasDeletedOnce(t *testing.T) {
	// Image assets reuse the object URL as their thumbnail.
	store := &recordingStore{baseURL: "https://bucket.example.com/"}
	asset := cleanupAsset(t)
	asset.ThumbnailURL = asset.URL

	removeAssetObjects(context.Background(), asset, store, logger.New("test"))

	if len(store.deleted) != 1 || len(store.deleted[0]) != 1 {
		t.Fatalf("deleted = %v, want exactly one key", store.deleted)
	}
}

func TestRemoveAssetObjects_ForeignURLSkipped(t *testing.T) {
	store := &recordingStore{baseURL: "https://bucket.example.com/"}
	asset := cleanupAsset(t)
	asset.URL = "https://elsewhere.example.org/file.pdf"

	removeAssetObjects(context.Background(), asset, store, logger.New("test"))

	if len(store.deleted) != 0 {
		t.Fatalf("delete called for a foreign URL: %v", store.deleted)
	}
}

func TestRemoveAssetObjects_SwallowsStoreErrors(t *testing.T) {
	store := &recordingStore{baseURL: "https://bucket.example.com/", failDelete: true}
	removeAssetObjects(context.Background(), cleanupAsset(t), store, logger.New("test"))

	if len(store.deleted) != 1 {
		t.Fatalf("delete should still have been attempted once, got %d", len(store.deleted))
	}
}

func TestRemoveAssetObjects_NilStoreIsNoop(t *testing.T) {
	removeAssetObjects(context.Background(), cleanupAsset(t), nil, logger.New("test"))
}
