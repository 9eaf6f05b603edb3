package cli

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/aussiebroadwan/finepay/pkg/finesdk"
)

// credentialsKey is the storage entry holding the bearer token. It is kept
// apart from the state entry so the token never appears in the user snapshot.
const credentialsKey = "credentials"

var errNotLoggedIn = errors.New("not logged in")

type credentials struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (e *env) saveSession(auth *finesdk.AuthResponse) error {
	raw, err := json.Marshal(credentials{Token: auth.Token, ExpiresAt: auth.ExpiresAt})
	if err != nil {
		return err
	}
	if err := e.storage.Set(credentialsKey, raw); err != nil {
		return err
	}
	u := auth.User
	e.state.SetUser(&u)
	return nil
}

func (e *env) clearSession() error {
	e.state.SetUser(nil)
	return e.storage.Remove(credentialsKey)
}

// requireUser returns an authenticated session, or errNotLoggedIn when there
// is no signed in user or the saved token has expired.
func (e *env) requireUser() (*finesdk.Session, error) {
	if !e.state.Snapshot().Authenticated() {
		return nil, errNotLoggedIn
	}

	raw, ok, err := e.storage.Get(credentialsKey)
	if err != nil {
		return nil, err
	}
	var c credentials
	if !ok || json.Unmarshal(raw, &c) != nil || c.Token == "" {
		e.logger.Debug("saved user has no usable token")
		return nil, errNotLoggedIn
	}
	if !c.ExpiresAt.IsZero() && time.Now().After(c.ExpiresAt) {
		_ = e.clearSession()
		return nil, errors.New("session expired, log in again")
	}
	return e.client.NewSession(c.Token), nil
}

// call runs fn with the loading flag raised and records a failure as the
// current error. A rejected token signs the user out.
func (e *env) call(ctx context.Context, fn func(context.Context) error) error {
	e.state.ClearError()
	e.state.SetLoading(true)
	err := fn(ctx)
	e.state.SetLoading(false)
	if err == nil {
		return nil
	}

	e.state.SetError(err.Error())
	if errors.Is(err, finesdk.ErrUnauthenticated) {
		_ = e.clearSession()
		return errors.New("session expired, log in again")
	}
	return describe(err)
}

// describe turns API errors into the message a user should see.
func describe(err error) error {
	var apiErr *finesdk.APIError
	if !errors.As(err, &apiErr) {
		return err
	}
	if len(apiErr.Fields) > 0 {
		return &fieldsError{desc: apiErr.Description, fields: apiErr.Fields}
	}
	if apiErr.Description != "" {
		return errors.New(apiErr.Description)
	}
	return apiErr
}
