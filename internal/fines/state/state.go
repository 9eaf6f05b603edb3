// Package state holds the client application state: the signed in user, the
// last search results and the loading and error flags.
//
// A Store is the only writer of State. Callers mutate it by dispatching
// Actions and observe it through Subscribe. The user slice is persisted to a
// Storage backend and restored by Hydrate on the next start. Nothing is
// written to storage until hydration has completed, so a half started client
// can never clobber what a previous session saved.
package state

import (
	"fmt"

	"github.com/aussiebroadwan/finepay/pkg/finesdk"
)

// StorageKey is the storage entry holding the persisted subset.
const StorageKey = "app_state"

// PersistedKeys lists the State fields that survive a restart. It is kept
// explicit so new fields are never persisted by accident.
var PersistedKeys = []string{"user"}

// Phase is the hydration lifecycle of a Store.
type Phase int

const (
	Unhydrated Phase = iota
	Hydrating
	Ready
)

func (p Phase) String() string {
	switch p {
	case Unhydrated:
		return "unhydrated"
	case Hydrating:
		return "hydrating"
	case Ready:
		return "ready"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// State is an immutable snapshot of the application state.
type State struct {
	User          *finesdk.User
	SearchResults []finesdk.Fine
	Loading       bool
	// Error is the message shown to the user, empty when there is none.
	Error string
	Phase Phase
}

// Authenticated reports whether a user is signed in.
func (s State) Authenticated() bool { return s.User != nil }

// Hydrated reports whether the persisted subset has been loaded.
func (s State) Hydrated() bool { return s.Phase == Ready }

// Action is a state transition.
type Action interface {
	apply(State) State
}

type SetUser struct{ User *finesdk.User }

type SetSearchResults struct{ Results []finesdk.Fine }

type SetLoading struct{ Loading bool }

type SetError struct{ Message string }

type ClearError struct{}

func (a SetUser) apply(s State) State {
	s.User = a.User
	return s
}

func (a SetSearchResults) apply(s State) State {
	s.SearchResults = a.Results
	return s
}

func (a SetLoading) apply(s State) State {
	s.Loading = a.Loading
	return s
}

func (a SetError) apply(s State) State {
	s.Error = a.Message
	return s
}

func (ClearError) apply(s State) State {
	s.Error = ""
	return s
}
