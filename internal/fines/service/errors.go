package service

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrFineNotFound       = errors.New("fine not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrVehicleNotFound    = errors.New("vehicle not found")
	ErrSessionNotFound    = errors.New("payment session not found")
	ErrDuplicateAccount   = errors.New("duplicate account")
	ErrDuplicateVehicle   = errors.New("vehicle already registered to this account")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotPayable         = errors.New("fine cannot be paid online")
)

// The two ways an account can clash. Both match ErrDuplicateAccount.
var (
	ErrEmailTaken    = fmt.Errorf("%w: an account with this email already exists", ErrDuplicateAccount)
	ErrIDNumberTaken = fmt.Errorf("%w: an account with this ID number already exists", ErrDuplicateAccount)
)

// ValidationError carries one message per offending field, keyed by the
// field's JSON name. It matches ErrValidation.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := slices.Sorted(maps.Keys(e.Fields))
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }
