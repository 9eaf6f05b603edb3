package idx_test

import (
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/finepay/pkg/idx"
	"github.com/stretchr/testify/require"
)

func TestNewIsSortable(t *testing.T) {
	t.Parallel()

	now := time.Now()
	prev := idx.NewAt(now)
	for range 100 {
		next := idx.NewAt(now)
		require.Less(t, prev.String(), next.String())
		prev = next
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	id := idx.New()
	got, err := idx.Parse(id.String())
	require.NoError(t, err)
	require.Equal(t, id, got)

	_, err = idx.Parse("1")
	require.ErrorIs(t, err, idx.ErrInvalid)
}

func TestTime(t *testing.T) {
	t.Parallel()

	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	require.True(t, idx.NewAt(at).Time().Equal(at))
	require.True(t, idx.ID("3").Time().IsZero())
}

func TestNewTransactionID(t *testing.T) {
	t.Parallel()

	a, b := idx.NewTransactionID(), idx.NewTransactionID()
	require.True(t, strings.HasPrefix(a, idx.TransactionPrefix))
	require.NotEqual(t, a, b)
}
