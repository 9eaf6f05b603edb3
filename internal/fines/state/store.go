package state

import (
	"encoding/json"
	"errors"
	"log/slog"
	"slices"
	"sync"

	"github.com/aussiebroadwan/finepay/pkg/finesdk"
)

// ErrAlreadyHydrated is returned by a second call to Hydrate.
var ErrAlreadyHydrated = errors.New("state: already hydrated")

// Store serialises all transitions of a State. It is safe for concurrent use.
// Subscribers are called in dispatch order, outside the state lock; they may
// read Snapshot but must not Dispatch.
type Store struct {
	storage Storage
	log     *slog.Logger

	// dispatchMu orders a transition together with its notifications.
	dispatchMu sync.Mutex

	mu        sync.Mutex
	state     State
	persisted bool // storage currently holds an entry written or read by us
	subs      map[int]func(State)
	nextSub   int
}

// NewStore returns an unhydrated store backed by storage.
func NewStore(storage Storage, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		storage: storage,
		log:     logger,
		state:   State{SearchResults: []finesdk.Fine{}},
		subs:    make(map[int]func(State)),
	}
}

// Snapshot returns the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers fn to be called with the new state after every
// transition. The returned function removes the subscription.
func (s *Store) Subscribe(fn func(State)) (cancel func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

// Dispatch applies a to the state. Once the store is hydrated the persisted
// subset is written to storage after every transition. Storage failures are
// logged and never undo the transition.
func (s *Store) Dispatch(a Action) {
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	s.mu.Lock()
	s.state = a.apply(s.state)
	if s.state.Phase == Ready {
		s.persistLocked()
	}
	snap, subs := s.state, s.subscribersLocked()
	s.mu.Unlock()

	notify(subs, snap)
}

func (s *Store) SetUser(u *finesdk.User)             { s.Dispatch(SetUser{User: u}) }
func (s *Store) SetSearchResults(fs []finesdk.Fine) { s.Dispatch(SetSearchResults{Results: fs}) }
func (s *Store) SetLoading(loading bool)             { s.Dispatch(SetLoading{Loading: loading}) }
func (s *Store) SetError(msg string)                 { s.Dispatch(SetError{Message: msg}) }
func (s *Store) ClearError()                         { s.Dispatch(ClearError{}) }

// Hydrate loads the persisted subset and moves the store to Ready. Missing or
// malformed storage content is logged and treated as absent. Actions
// dispatched while hydration is in progress are applied but not persisted.
func (s *Store) Hydrate() error {
	s.mu.Lock()
	if s.state.Phase != Unhydrated {
		s.mu.Unlock()
		return ErrAlreadyHydrated
	}
	s.state.Phase = Hydrating
	s.mu.Unlock()

	user, found := s.load()

	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	s.mu.Lock()
	if user != nil {
		s.state.User = user
	}
	s.state.Phase = Ready
	s.persisted = found
	snap, subs := s.state, s.subscribersLocked()
	s.mu.Unlock()

	notify(subs, snap)
	return nil
}

// load reads the persisted subset. found reports whether storage held an
// entry at all, well formed or not, so that signing out can clear it.
func (s *Store) load() (user *finesdk.User, found bool) {
	raw, ok, err := s.storage.Get(StorageKey)
	if err != nil {
		s.log.Warn("state: storage read failed", slog.String("key", StorageKey), slog.Any("err", err))
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
		s.log.Warn("state: ignoring malformed persisted state", slog.String("key", StorageKey), slog.Any("err", err))
		return nil, true
	}

	for _, key := range PersistedKeys {
		field, present := obj[key]
		if !present || string(field) == "null" {
			continue
		}
		switch key {
		case "user":
			var u finesdk.User
			if err := json.Unmarshal(field, &u); err != nil || u.ID == "" {
				s.log.Warn("state: ignoring malformed persisted user", slog.Any("err", err))
				continue
			}
			user = &u
		}
	}
	return user, true
}

// persistLocked writes the full persisted subset, or removes the entry when
// there is nothing to persist.
func (s *Store) persistLocked() {
	subset := persistedSubset(s.state)
	if len(subset) == 0 {
		if !s.persisted {
			return
		}
		if err := s.storage.Remove(StorageKey); err != nil {
			s.log.Warn("state: storage remove failed", slog.String("key", StorageKey), slog.Any("err", err))
			return
		}
		s.persisted = false
		return
	}

	raw, err := json.Marshal(subset)
	if err != nil {
		s.log.Warn("state: encode persisted state", slog.Any("err", err))
		return
	}
	if err := s.storage.Set(StorageKey, raw); err != nil {
		s.log.Warn("state: storage write failed", slog.String("key", StorageKey), slog.Any("err", err))
		return
	}
	s.persisted = true
}

func persistedSubset(st State) map[string]any {
	out := make(map[string]any, len(PersistedKeys))
	for _, key := range PersistedKeys {
		switch key {
		case "user":
			if st.User != nil {
				out[key] = st.User
			}
		}
	}
	return out
}

func (s *Store) subscribersLocked() []func(State) {
	ids := make([]int, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	fns := make([]func(State), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, s.subs[id])
	}
	return fns
}

func notify(subs []func(State), st State) {
	for _, fn := range subs {
		fn(st)
	}
}
