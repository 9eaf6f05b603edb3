package state_test

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/finepay/internal/fines/state"
	"github.com/aussiebroadwan/finepay/pkg/finesdk"
	"github.com/aussiebroadwan/finepay/pkg/slogx"
	"github.com/stretchr/testify/require"
)

func testUser() *finesdk.User {
	return &finesdk.User{
		ID:        "1",
		IDNumber:  "8001015009087",
		FirstName: "John",
		LastName:  "Smith",
		Email:     "john.smith@example.com",
		Phone:     "+27 82 123 4567",
		Vehicles: []finesdk.Vehicle{
			{ID: "1", Registration: "CA123456", Make: "Toyota", Model: "Corolla", Year: 2020, UserID: "1"},
		},
		PaymentHistory: []finesdk.PaymentRecord{
			{
				ID:            "1",
				FineID:        "3",
				Amount:        200,
				PaymentDate:   time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC),
				PaymentMethod: "PayFast",
				TransactionID: "TXN123456789",
				Status:        "COMPLETED",
			},
		},
	}
}

func newHydrated(t *testing.T, st state.Storage) *state.Store {
	t.Helper()
	s := state.NewStore(st, slogx.Discard())
	require.NoError(t, s.Hydrate())
	return s
}

func TestInitialState(t *testing.T) {
	t.Parallel()

	s := state.NewStore(state.NewMemoryStorage(), slogx.Discard())
	snap := s.Snapshot()
	require.Equal(t, state.Unhydrated, snap.Phase)
	require.Nil(t, snap.User)
	require.Empty(t, snap.SearchResults)
	require.False(t, snap.Loading)
	require.Empty(t, snap.Error)
}

func TestSetUserPersists(t *testing.T) {
	t.Parallel()

	mem := state.NewMemoryStorage()
	s := newHydrated(t, mem)

	u := testUser()
	s.SetUser(u)
	require.Equal(t, u, s.Snapshot().User)

	raw, ok, err := mem.Get(state.StorageKey)
	require.NoError(t, err)
	require.True(t, ok)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &doc))
	require.Len(t, doc, 1)
	require.Contains(t, doc, "user")
}

func TestTransientFieldsNotPersisted(t *testing.T) {
	t.Parallel()

	mem := state.NewMemoryStorage()
	s := newHydrated(t, mem)
	s.SetUser(testUser())

	s.SetLoading(true)
	s.SetSearchResults([]finesdk.Fine{{ID: "1"}})
	s.SetError("boom")

	raw, _, err := mem.Get(state.StorageKey)
	require.NoError(t, err)
	require.NotContains(t, string(raw), "boom")
	require.NotContains(t, string(raw), "searchResults")

	s.ClearError()
	require.Empty(t, s.Snapshot().Error)
}

func TestSignOutClearsStorage(t *testing.T) {
	t.Parallel()

	mem := state.NewMemoryStorage()
	s := newHydrated(t, mem)
	s.SetUser(testUser())
	s.SetUser(nil)

	_, ok, err := mem.Get(state.StorageKey)
	require.NoError(t, err)
	require.False(t, ok, "entry must be removed, not rewritten empty")

	fresh := newHydrated(t, mem)
	require.Nil(t, fresh.Snapshot().User)
}

func TestSignOutAfterHydratedUserClearsStorage(t *testing.T) {
	t.Parallel()

	mem := state.NewMemoryStorage()
	newHydrated(t, mem).SetUser(testUser())

	s := newHydrated(t, mem)
	require.NotNil(t, s.Snapshot().User)

	s.SetUser(nil)
	_, ok, _ := mem.Get(state.StorageKey)
	require.False(t, ok)
}

func TestNoWritesBeforeHydration(t *testing.T) {
	t.Parallel()

	mem := state.NewMemoryStorage()
	s := state.NewStore(mem, slogx.Discard())

	s.SetUser(testUser())
	s.SetLoading(true)
	s.SetUser(nil)
	s.SetUser(testUser())
	require.Zero(t, mem.Writes())

	require.NoError(t, s.Hydrate())
	require.Zero(t, mem.Writes(), "hydration itself does not write")

	// The next transition persists the full subset, including the user set
	// before hydration.
	s.SetLoading(false)
	require.Equal(t, 1, mem.Writes())
	_, ok, _ := mem.Get(state.StorageKey)
	require.True(t, ok)
}

// blockingStorage holds Get until release is closed.
type blockingStorage struct {
	*state.MemoryStorage
	entered chan struct{}
	release chan struct{}
}

func (b *blockingStorage) Get(key string) ([]byte, bool, error) {
	close(b.entered)
	<-b.release
	return b.MemoryStorage.Get(key)
}

func TestNoWritesWhileHydrating(t *testing.T) {
	t.Parallel()

	bs := &blockingStorage{
		MemoryStorage: state.NewMemoryStorage(),
		entered:       make(chan struct{}),
		release:       make(chan struct{}),
	}
	s := state.NewStore(bs, slogx.Discard())

	done := make(chan error)
	go func() { done <- s.Hydrate() }()
	<-bs.entered

	require.Equal(t, state.Hydrating, s.Snapshot().Phase)

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.SetUser(testUser())
			s.SetLoading(true)
		}()
	}
	wg.Wait()
	require.Zero(t, bs.Writes())
	require.NotNil(t, s.Snapshot().User, "actions are still applied")

	close(bs.release)
	require.NoError(t, <-done)
	require.Zero(t, bs.Writes())
	require.Equal(t, state.Ready, s.Snapshot().Phase)
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	fs := state.NewFileStorage(t.TempDir())
	u := testUser()
	newHydrated(t, fs).SetUser(u)

	restarted := newHydrated(t, fs)
	got := restarted.Snapshot().User
	require.NotNil(t, got)
	require.Equal(t, *u, *got)
}

func TestHydrateOnce(t *testing.T) {
	t.Parallel()

	s := newHydrated(t, state.NewMemoryStorage())
	require.ErrorIs(t, s.Hydrate(), state.ErrAlreadyHydrated)
}

func TestHydrateMalformed(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"not json":      `{{{`,
		"array":         `[1,2,3]`,
		"null user":     `{"user":null}`,
		"user wrong":    `{"user":"john"}`,
		"user no id":    `{"user":{"firstName":"John"}}`,
		"unknown field": `{"theme":"dark"}`,
		"json null":     `null`,
	}

	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			mem := state.NewMemoryStorage()
			require.NoError(t, mem.Set(state.StorageKey, []byte(raw)))

			s := state.NewStore(mem, slogx.Discard())
			require.NoError(t, s.Hydrate())

			snap := s.Snapshot()
			require.Equal(t, state.Ready, snap.Phase)
			require.Nil(t, snap.User)

			// Signing out afterwards clears the leftover entry.
			s.SetUser(nil)
			_, ok, _ := mem.Get(state.StorageKey)
			require.False(t, ok)
		})
	}
}

func TestHydrateIgnoresUnknownFields(t *testing.T) {
	t.Parallel()

	mem := state.NewMemoryStorage()
	raw, err := json.Marshal(map[string]any{"user": testUser(), "searchResults": []string{"x"}, "isLoading": true})
	require.NoError(t, err)
	require.NoError(t, mem.Set(state.StorageKey, raw))

	s := newHydrated(t, mem)
	snap := s.Snapshot()
	require.NotNil(t, snap.User)
	require.Empty(t, snap.SearchResults)
	require.False(t, snap.Loading)
}

func TestSubscribe(t *testing.T) {
	t.Parallel()

	s := newHydrated(t, state.NewMemoryStorage())

	var got []bool
	cancel := s.Subscribe(func(st state.State) { got = append(got, st.Loading) })

	s.SetLoading(true)
	s.SetLoading(false)
	cancel()
	s.SetLoading(true)

	require.Equal(t, []bool{true, false}, got)
}

func TestFileStorage(t *testing.T) {
	t.Parallel()

	fs := state.NewFileStorage(t.TempDir())

	_, ok, err := fs.Get("missing")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, fs.Set("k", []byte(`{"a":1}`)))
	v, ok, err := fs.Get("k")
	require.NoError(t, err)
	require.True(t, ok)
	require.JSONEq(t, `{"a":1}`, string(v))

	require.NoError(t, fs.Remove("k"))
	require.NoError(t, fs.Remove("k"))
	_, ok, _ = fs.Get("k")
	require.False(t, ok)
}
