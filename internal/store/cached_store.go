package store

import (
	"context"
	"fmt"
	"time"

	"storeflow/internal/models"
	"storeflow/internal/services"
)

// templateTTL bounds how stale a cached merchant template may be served.
const templateTTL = time.Minute

// templateSource is the lookup the cache sits in front of.
type templateSource interface {
	TemplateForEvent(ctx context.Context, ownerID uint, event string) (*models.MessageTemplate, error)
}

// CachedStore decorates Store with a short-TTL cache over the template
// lookup the pipeline repeats on every paid event. Credential and mail
// integration rows are served straight from the store: their secret columns
// are masked out of JSON, so a serialized copy would come back unusable.
// Writes always pass through.
type CachedStore struct {
	*Store
	cache     services.KVCache
	templates templateSource
}

func NewCached(s *Store, cache services.KVCache) *CachedStore {
	return &CachedStore{Store: s, cache: cache, templates: s}
}

func (s *CachedStore) TemplateForEvent(ctx context.Context, ownerID uint, event string) (*models.MessageTemplate, error) {
	key := fmt.Sprintf("template:%d:%s", ownerID, event)
	return services.GetOrSet(s.cache, ctx, key, templateTTL, func() (*models.MessageTemplate, error) {
		return s.templates.TemplateForEvent(ctx, ownerID, event)
	})
}
