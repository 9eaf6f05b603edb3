package domain

import "time"

type PaymentStatus string

const (
	PaymentCompleted PaymentStatus = "COMPLETED"
	PaymentPending   PaymentStatus = "PENDING"
	PaymentFailed    PaymentStatus = "FAILED"
)

// PaymentRecord is an entry in a user's payment history.
type PaymentRecord struct {
	ID            string
	UserID        string
	FineID        string
	Amount        float64
	PaymentDate   time.Time
	PaymentMethod string
	TransactionID string
	Status        PaymentStatus
}

// PaymentSessionTTL is how long a payment session is advertised as valid.
const PaymentSessionTTL = 15 * time.Minute

// PaymentSession hands a single fine payment off to the external gateway.
// ExpiresAt is advisory; nothing here refuses an expired session.
type PaymentSession struct {
	ID         string
	FineID     string
	UserID     string // empty for anonymous payers
	Amount     float64
	PaymentURL string
	ExpiresAt  time.Time
	CreatedAt  time.Time
}
