package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/finepay/internal/fines/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Drivers implement it and expose
// one sub-repository per aggregate. Multi-step writes go through WithTx so
// they either fully apply or not at all.
type Store interface {
	Users() Users
	Vehicles() Vehicles
	Reference() Reference
	Fines() Fines
	Payments() Payments
	PaymentSessions() PaymentSessions

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing when fn returns nil and
	// rolling back otherwise.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

// Users holds account rows. Vehicles and payment history live in their own
// repositories and are attached by the service layer.
type Users interface {
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail matches case-insensitively.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	GetUserByIDNumber(ctx context.Context, idNumber string) (domain.User, error)

	// CreateUser inserts a new user. Email and ID number are unique; a clash
	// returns ErrAlreadyExists.
	CreateUser(ctx context.Context, u domain.User) error

	// UpdateUser overwrites the profile fields and bumps updated_at.
	UpdateUser(ctx context.Context, u domain.User) error

	CountUsers(ctx context.Context) (int64, error)
}

type Vehicles interface {
	// ListVehiclesByUser returns a user's vehicles in the order they were added.
	ListVehiclesByUser(ctx context.Context, userID string) ([]domain.Vehicle, error)

	// CreateVehicle returns ErrAlreadyExists when the user already has the
	// registration.
	CreateVehicle(ctx context.Context, v domain.Vehicle) error

	// DeleteVehicle returns ErrNotFound when the user has no such vehicle.
	DeleteVehicle(ctx context.Context, userID, vehicleID string) error
}

// Reference is read mostly data shared by every fine.
type Reference interface {
	ListMunicipalities(ctx context.Context) ([]domain.Municipality, error)
	GetMunicipality(ctx context.Context, id string) (domain.Municipality, error)
	UpsertMunicipality(ctx context.Context, m domain.Municipality) error
	UpsertOffense(ctx context.Context, o domain.Offense) error
}

type Fines interface {
	// ListFines returns every fine in feed order with municipality and
	// offense attached.
	ListFines(ctx context.Context) ([]domain.TrafficFine, error)
	GetFineByID(ctx context.Context, id string) (domain.TrafficFine, error)

	// UpsertFine stores a fine from the municipal feed. The referenced
	// municipality and offense must already exist.
	UpsertFine(ctx context.Context, f domain.TrafficFine) error
	CountFines(ctx context.Context) (int64, error)
}

type Payments interface {
	// ListPaymentsByUser returns payment history in the order recorded.
	ListPaymentsByUser(ctx context.Context, userID string) ([]domain.PaymentRecord, error)

	// CreatePayment returns ErrAlreadyExists for a repeated transaction id.
	CreatePayment(ctx context.Context, p domain.PaymentRecord) error
}

type PaymentSessions interface {
	CreateSession(ctx context.Context, s domain.PaymentSession) error
	GetSession(ctx context.Context, id string) (domain.PaymentSession, error)

	// DeleteSessionsExpiredBefore removes sessions whose expiry is before t
	// and returns how many were removed.
	DeleteSessionsExpiredBefore(ctx context.Context, t time.Time) (int64, error)
}
