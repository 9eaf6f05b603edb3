package search

import (
	"testing"

	"github.com/aussiebroadwan/finepay/internal/fines/domain"
	"github.com/stretchr/testify/require"
)

func fixtures() []domain.TrafficFine {
	return []domain.TrafficFine{
		{ID: "1", DriverIDNumber: "A", NoticeNumber: "N1", VehicleRegistration: "R1"},
		{ID: "2", DriverIDNumber: "B", NoticeNumber: "N2", VehicleRegistration: "R2"},
		{ID: "3", DriverIDNumber: "C", NoticeNumber: "N3", VehicleRegistration: "X"},
		{ID: "4", DriverIDNumber: "A", NoticeNumber: "N4", VehicleRegistration: "R4"},
	}
}

func ids(fines []domain.TrafficFine) []string {
	out := make([]string, 0, len(fines))
	for _, f := range fines {
		out = append(out, f.ID)
	}
	return out
}

func TestMatchSingleParam(t *testing.T) {
	t.Parallel()

	t.Run("id number is an equality filter", func(t *testing.T) {
		got := Match(Params{IDNumber: "A"}, fixtures())
		require.Equal(t, []string{"1", "4"}, ids(got))
	})

	t.Run("notice number", func(t *testing.T) {
		got := Match(Params{NoticeNumber: "N2"}, fixtures())
		require.Equal(t, []string{"2"}, ids(got))
	})

	t.Run("vehicle registration", func(t *testing.T) {
		got := Match(Params{VehicleRegistration: "X"}, fixtures())
		require.Equal(t, []string{"3"}, ids(got))
	})

	t.Run("case sensitive without normalisation", func(t *testing.T) {
		require.Empty(t, Match(Params{VehicleRegistration: "x"}, fixtures()))
		require.Empty(t, Match(Params{NoticeNumber: " N2"}, fixtures()))
	})
}

func TestMatchMultiParamIsUnion(t *testing.T) {
	t.Parallel()

	got := Match(Params{IDNumber: "A", VehicleRegistration: "X"}, fixtures())
	require.Equal(t, []string{"1", "3", "4"}, ids(got))

	// A non-matching second criterion still widens nothing and narrows nothing.
	got = Match(Params{IDNumber: "B", NoticeNumber: "does-not-exist"}, fixtures())
	require.Equal(t, []string{"2"}, ids(got))

	got = Match(Params{IDNumber: "C", NoticeNumber: "N1", VehicleRegistration: "R2"}, fixtures())
	require.Equal(t, []string{"1", "2", "3"}, ids(got))
}

func TestMatchNoParams(t *testing.T) {
	t.Parallel()

	got := Match(Params{}, fixtures())
	require.NotNil(t, got)
	require.Empty(t, got)
}

func TestMatchIsIdempotent(t *testing.T) {
	t.Parallel()

	records := fixtures()
	params := Params{IDNumber: "A", NoticeNumber: "N2"}
	first := Match(params, records)
	second := Match(params, records)
	require.Equal(t, first, second)
}

func TestMode(t *testing.T) {
	t.Parallel()

	require.Equal(t, ModeNone, Params{}.Mode())
	require.Equal(t, ModeSingle, Params{NoticeNumber: "N1"}.Mode())
	require.Equal(t, ModeMulti, Params{NoticeNumber: "N1", IDNumber: "A"}.Mode())
	require.Equal(t, 3, Params{"a", "b", "c"}.Active())
}

func TestMatchOwner(t *testing.T) {
	t.Parallel()

	got := MatchOwner("B", []string{"X", "R4"}, fixtures())
	require.Equal(t, []string{"2", "3", "4"}, ids(got))

	require.Empty(t, MatchOwner("", nil, fixtures()))
}
