package cache

import (
	"context"
	"testing"

	"github.com/aussiebroadwan/finepay/internal/fines/domain"
	"github.com/stretchr/testify/require"
)

func TestConnectWithoutURLDisablesCache(t *testing.T) {
	t.Parallel()

	client, err := Connect(context.Background(), "")
	require.NoError(t, err)
	require.Nil(t, client)
}

func TestConnectRejectsBadURL(t *testing.T) {
	t.Parallel()

	_, err := Connect(context.Background(), "not a url")
	require.Error(t, err)
}

func TestDisabledViewCache(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	c := NewViewCache[string](nil, "test", 0)
	require.False(t, c.Enabled())
	require.NoError(t, c.Set(ctx, "k", "v"))

	v, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	require.False(t, ok)
	require.Empty(t, v)
	require.NoError(t, c.Delete(ctx, "k"))
}

func TestDisabledFineCache(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	c := NewFineCache(nil, 0, nil)
	c.SetFine(ctx, domain.TrafficFine{ID: "1"})
	_, ok := c.GetFine(ctx, "1")
	require.False(t, ok)

	c.SetMunicipalities(ctx, []domain.Municipality{{ID: "1"}})
	_, ok = c.GetMunicipalities(ctx)
	require.False(t, ok)
	require.NoError(t, c.Invalidate(ctx, "1"))
}
