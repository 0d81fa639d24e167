package handlers

import (
	"context"
	"io"
	"sync"
	"time"
)

// ObjectStore is the storage surface handlers need: temp uploads, the
// finalize move, deletes and signed-URL resolution.
type ObjectStore interface {
	Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)
	Move(ctx context.Context, srcKey, dstKey string) (string, error)
	Delete(ctx context.Context, keys ...string) error
	ListPrefix(ctx context.Context, prefix string) (map[string]time.Time, error)
	GetSignedURL(ctx context.Context, path string, duration time.Duration) (string, error)
	// KeyFromURL inverts the store's public URL scheme; empty for foreign URLs.
	KeyFromURL(url string) string
}

var (
	objectStore ObjectStore
	handlerMu   sync.RWMutex
)

// RegisterObjectStore sets the object store used by handlers
func RegisterObjectStore(s ObjectStore) {
	handlerMu.Lock()
	defer handlerMu.Unlock()
	objectStore = s
}

// GetObjectStore returns the registered object store
func GetObjectStore() ObjectStore {
	handlerMu.RLock()
	defer handlerMu.RUnlock()
	return objectStore
}
