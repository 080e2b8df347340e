package sqlstore

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	repositorycache "github.com/goliatone/go-repository-cache/cache"

	"github.com/goliatone/go-announce/core"
)

const outgoingWebhookCacheKeyPrefix = "go-announce::outgoing_webhooks::v1"

// CachedOutgoingWebhookStore caches the announcement hot path: the
// enabled-webhooks-by-format read happens on every domain event, while the
// registry itself changes rarely. Writes pass through to the base store and
// invalidate the affected format's cache entry.
type CachedOutgoingWebhookStore struct {
	base  core.WebhookStore
	cache repositorycache.CacheService
}

func NewCachedOutgoingWebhookStore(
	base core.WebhookStore,
	cacheService repositorycache.CacheService,
) (*CachedOutgoingWebhookStore, error) {
	if base == nil {
		return nil, fmt.Errorf("sqlstore: base webhook store is required")
	}
	if cacheService == nil {
		return nil, fmt.Errorf("sqlstore: webhook cache service is required")
	}
	return &CachedOutgoingWebhookStore{base: base, cache: cacheService}, nil
}

// EnabledWebhooksCacheKey returns the deterministic cache key contract for
// enabled-webhook reads: go-announce::outgoing_webhooks::v1::enabled::<format>.
func EnabledWebhooksCacheKey(format core.WebhookFormat) (string, error) {
	normalized := core.WebhookFormat(strings.TrimSpace(strings.ToLower(string(format))))
	if err := normalized.Validate(); err != nil {
		return "", err
	}
	return strings.Join([]string{
		outgoingWebhookCacheKeyPrefix,
		"enabled",
		url.PathEscape(string(normalized)),
	}, "::"), nil
}

func (s *CachedOutgoingWebhookStore) GetEnabledOutgoingWebhooks(
	ctx context.Context,
	format core.WebhookFormat,
) ([]core.OutgoingWebhook, error) {
	if s == nil || s.base == nil || s.cache == nil {
		return nil, fmt.Errorf("sqlstore: cached webhook store is not configured")
	}
	cacheKey, err := EnabledWebhooksCacheKey(format)
	if err != nil {
		return nil, err
	}

	webhooks, err := repositorycache.GetOrFetch(ctx, s.cache, cacheKey,
		func(ctx context.Context) ([]core.OutgoingWebhook, error) {
			fetched, fetchErr := s.base.GetEnabledOutgoingWebhooks(ctx, format)
			if fetchErr != nil {
				return nil, fetchErr
			}
			return cloneWebhooks(fetched), nil
		})
	if err != nil {
		return nil, err
	}
	return cloneWebhooks(webhooks), nil
}

func (s *CachedOutgoingWebhookStore) GetWebhook(ctx context.Context, id string) (core.OutgoingWebhook, error) {
	if s == nil || s.base == nil {
		return core.OutgoingWebhook{}, fmt.Errorf("sqlstore: cached webhook store is not configured")
	}
	return s.base.GetWebhook(ctx, id)
}

func (s *CachedOutgoingWebhookStore) ListWebhooks(ctx context.Context) ([]core.OutgoingWebhook, error) {
	if s == nil || s.base == nil {
		return nil, fmt.Errorf("sqlstore: cached webhook store is not configured")
	}
	return s.base.ListWebhooks(ctx)
}

func (s *CachedOutgoingWebhookStore) CreateWebhook(
	ctx context.Context,
	in core.CreateWebhookInput,
) (core.OutgoingWebhook, error) {
	if s == nil || s.base == nil || s.cache == nil {
		return core.OutgoingWebhook{}, fmt.Errorf("sqlstore: cached webhook store is not configured")
	}
	created, err := s.base.CreateWebhook(ctx, in)
	if err != nil {
		return core.OutgoingWebhook{}, err
	}
	if err := s.invalidateFormat(ctx, created.Format); err != nil {
		return core.OutgoingWebhook{}, err
	}
	return created, nil
}

func (s *CachedOutgoingWebhookStore) UpdateWebhook(
	ctx context.Context,
	in core.UpdateWebhookInput,
) (core.OutgoingWebhook, error) {
	if s == nil || s.base == nil || s.cache == nil {
		return core.OutgoingWebhook{}, fmt.Errorf("sqlstore: cached webhook store is not configured")
	}
	updated, err := s.base.UpdateWebhook(ctx, in)
	if err != nil {
		return core.OutgoingWebhook{}, err
	}
	if err := s.invalidateFormat(ctx, updated.Format); err != nil {
		return core.OutgoingWebhook{}, err
	}
	return updated, nil
}

func (s *CachedOutgoingWebhookStore) DeleteWebhook(ctx context.Context, id string) error {
	if s == nil || s.base == nil || s.cache == nil {
		return fmt.Errorf("sqlstore: cached webhook store is not configured")
	}
	// The format is unknown after deletion, so resolve it first.
	existing, err := s.base.GetWebhook(ctx, id)
	if err != nil {
		return err
	}
	if err := s.base.DeleteWebhook(ctx, id); err != nil {
		return err
	}
	return s.invalidateFormat(ctx, existing.Format)
}

func (s *CachedOutgoingWebhookStore) invalidateFormat(ctx context.Context, format core.WebhookFormat) error {
	cacheKey, err := EnabledWebhooksCacheKey(format)
	if err != nil {
		return err
	}
	return s.cache.Delete(ctx, cacheKey)
}

func cloneWebhooks(webhooks []core.OutgoingWebhook) []core.OutgoingWebhook {
	if len(webhooks) == 0 {
		return nil
	}
	cloned := make([]core.OutgoingWebhook, len(webhooks))
	for i, webhook := range webhooks {
		cloned[i] = webhook
		cloned[i].ExtraFields = copyExtraFields(webhook.ExtraFields)
	}
	return cloned
}
