package models

import (
	"context"
	"sync"
	"time"
)

// SignedURLResolver resolves object-store paths to time-limited URLs
type SignedURLResolver interface {
	GetSignedURL(ctx context.Context, path string, duration time.Duration) (string, error)
}

var (
	urlResolver SignedURLResolver
	registryMu  sync.RWMutex
)

// RegisterSignedURLResolver sets the resolver used by shared-link reads
func RegisterSignedURLResolver(resolver SignedURLResolver) {
	registryMu.Lock()
	defer registryMu.Unlock()
	urlResolver = resolver
}
