package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/finepay/internal/fines/domain"
	"github.com/aussiebroadwan/finepay/internal/fines/metrics"
	"github.com/aussiebroadwan/finepay/pkg/slogx"
	"github.com/redis/go-redis/v9"
)

const (
	DefaultTTL = 5 * time.Minute

	kindFine           = "fine"
	kindMunicipalities = "municipalities"
)

// FineCache caches fine detail and the municipality list. Redis failures
// are logged and treated as misses so a cache outage never fails a request.
type FineCache struct {
	fines          *ViewCache[domain.TrafficFine]
	municipalities *ViewCache[[]domain.Municipality]
	metrics        *metrics.Metrics
}

func NewFineCache(client redis.UniversalClient, ttl time.Duration, m *metrics.Metrics) *FineCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &FineCache{
		fines:          NewViewCache[domain.TrafficFine](client, "finepay:fine", ttl),
		municipalities: NewViewCache[[]domain.Municipality](client, "finepay:municipalities", ttl),
		metrics:        m,
	}
}

func (c *FineCache) GetFine(ctx context.Context, id string) (domain.TrafficFine, bool) {
	if !c.fines.Enabled() {
		return domain.TrafficFine{}, false
	}
	f, ok, err := c.fines.Get(ctx, id)
	if err != nil {
		slogx.FromContext(ctx).Warn("fine cache read failed", slog.String("fine_id", id), slog.Any("error", err))
	}
	c.metrics.ObserveCacheLookup(kindFine, ok)
	return f, ok
}

func (c *FineCache) SetFine(ctx context.Context, f domain.TrafficFine) {
	if err := c.fines.Set(ctx, f.ID, f); err != nil {
		slogx.FromContext(ctx).Warn("fine cache write failed", slog.String("fine_id", f.ID), slog.Any("error", err))
	}
}

func (c *FineCache) GetMunicipalities(ctx context.Context) ([]domain.Municipality, bool) {
	if !c.municipalities.Enabled() {
		return nil, false
	}
	ms, ok, err := c.municipalities.Get(ctx, "all")
	if err != nil {
		slogx.FromContext(ctx).Warn("municipality cache read failed", slog.Any("error", err))
	}
	c.metrics.ObserveCacheLookup(kindMunicipalities, ok)
	return ms, ok
}

func (c *FineCache) SetMunicipalities(ctx context.Context, ms []domain.Municipality) {
	if err := c.municipalities.Set(ctx, "all", ms); err != nil {
		slogx.FromContext(ctx).Warn("municipality cache write failed", slog.Any("error", err))
	}
}

// Invalidate drops cached entries for the given fines and the municipality
// list. The seeder calls it after reloading fixtures.
func (c *FineCache) Invalidate(ctx context.Context, fineIDs ...string) error {
	for _, id := range fineIDs {
		if err := c.fines.Delete(ctx, id); err != nil {
			return err
		}
	}
	return c.municipalities.Delete(ctx, "all")
}
