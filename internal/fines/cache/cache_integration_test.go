//go:build integration

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/finepay/internal/fines/domain"
	"github.com/aussiebroadwan/finepay/internal/fines/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func startRedis(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	url, err := container.ConnectionString(ctx)
	require.NoError(t, err)
	return url
}

func TestFineCacheRoundTrip(t *testing.T) {
	ctx := context.Background()

	client, err := Connect(ctx, startRedis(t))
	require.NoError(t, err)
	require.NotNil(t, client)
	t.Cleanup(func() { _ = client.Close() })

	m := metrics.New()
	c := NewFineCache(client, time.Minute, m)

	discount := 50.0
	until := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	fine := domain.TrafficFine{
		ID:                 "1",
		NoticeNumber:       "CT2024001234",
		Municipality:       domain.Municipality{ID: "1", Name: "City of Tshwane", IsSupported: true},
		Amount:             500,
		Status:             domain.FineStatusOutstanding,
		DiscountAmount:     &discount,
		DiscountValidUntil: &until,
	}

	_, ok := c.GetFine(ctx, "1")
	require.False(t, ok)

	c.SetFine(ctx, fine)
	got, ok := c.GetFine(ctx, "1")
	require.True(t, ok)
	require.Equal(t, fine.NoticeNumber, got.NoticeNumber)
	require.NotNil(t, got.DiscountAmount)
	require.InDelta(t, 50.0, *got.DiscountAmount, 0.001)
	require.True(t, until.Equal(*got.DiscountValidUntil))

	c.SetMunicipalities(ctx, []domain.Municipality{{ID: "1"}, {ID: "5"}})
	ms, ok := c.GetMunicipalities(ctx)
	require.True(t, ok)
	require.Len(t, ms, 2)

	require.NoError(t, c.Invalidate(ctx, "1"))
	_, ok = c.GetFine(ctx, "1")
	require.False(t, ok)
	_, ok = c.GetMunicipalities(ctx)
	require.False(t, ok)

	require.InDelta(t, 1.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("fine", "hit")), 0.001)
	require.InDelta(t, 2.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("fine", "miss")), 0.001)
}

func TestViewCacheExpiry(t *testing.T) {
	ctx := context.Background()

	client, err := Connect(ctx, startRedis(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	c := NewViewCache[int](client, "ttl", 500*time.Millisecond)
	require.NoError(t, c.Set(ctx, "n", 42))

	v, ok, err := c.Get(ctx, "n")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 42, v)

	require.Eventually(t, func() bool {
		_, ok, _ := c.Get(ctx, "n")
		return !ok
	}, 5*time.Second, 100*time.Millisecond)
}
