package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/finepay/internal/fines/domain"
	"github.com/aussiebroadwan/finepay/internal/fines/metrics"
	"github.com/aussiebroadwan/finepay/internal/fines/store"
	"github.com/aussiebroadwan/finepay/pkg/finesdk"
	"github.com/aussiebroadwan/finepay/pkg/idx"
	"github.com/aussiebroadwan/finepay/pkg/payfast"
	"github.com/aussiebroadwan/finepay/pkg/slogx"
	"github.com/google/uuid"
)

// PaymentMethodGateway is recorded against payments confirmed by the gateway.
const PaymentMethodGateway = "PayFast"

type PaymentService struct {
	Store   store.Store
	Gateway *payfast.Gateway
	Metrics *metrics.Metrics
	Latency time.Duration
	Now     func() time.Time
}

// Payment is a new session together with the form that hands it to the gateway.
type Payment struct {
	Session  domain.PaymentSession
	Fine     domain.TrafficFine
	Checkout payfast.Checkout
}

// InitiatePayment opens a payment session for the full fine amount. userID is
// empty for anonymous payers; email falls back to the user's address. The
// session expiry is advisory and nothing refuses a late payment.
func (s *PaymentService) InitiatePayment(ctx context.Context, fineID, userID, email string) (Payment, error) {
	l := slogx.FromContext(ctx)
	if err := simulateLatency(ctx, s.Latency); err != nil {
		return Payment{}, err
	}

	fine, err := s.Store.Fines().GetFineByID(ctx, fineID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Payment{}, ErrFineNotFound
		}
		return Payment{}, err
	}
	if !fine.IsPayable() {
		l.Info("payment refused",
			slog.String("fine_id", fineID),
			slog.String("status", string(fine.Status)),
			slog.Bool("municipality_supported", fine.Municipality.IsSupported),
		)
		return Payment{}, ErrNotPayable
	}

	email = strings.TrimSpace(email)
	if userID != "" && email == "" {
		u, err := s.Store.Users().GetUserByID(ctx, userID)
		if err != nil {
			return Payment{}, mapUserErr(err)
		}
		email = u.Email
	}
	if err := validateStruct(finesdk.InitiatePaymentRequest{FineID: fineID, Email: email}); err != nil {
		return Payment{}, err
	}
	if email == "" {
		return Payment{}, &ValidationError{Fields: map[string]string{"email": "This field is required"}}
	}

	now := clock(s.Now)
	session := domain.PaymentSession{
		ID:         uuid.NewString(),
		FineID:     fine.ID,
		UserID:     userID,
		Amount:     fine.Amount,
		PaymentURL: "/payment/" + fine.ID,
		ExpiresAt:  now.Add(domain.PaymentSessionTTL),
		CreatedAt:  now,
	}
	if err := s.Store.PaymentSessions().CreateSession(ctx, session); err != nil {
		l.Error("failed to create payment session", slog.Any("error", err))
		return Payment{}, err
	}

	s.Metrics.IncrementPaymentSessions()
	l.Info("payment session created",
		slog.String("session_id", session.ID),
		slog.String("fine_id", fine.ID),
	)

	return Payment{
		Session: session,
		Fine:    fine,
		Checkout: s.Gateway.Checkout(payfast.Order{
			PaymentID:           session.ID,
			Email:               email,
			Amount:              session.Amount,
			FineID:              fine.ID,
			NoticeNumber:        fine.NoticeNumber,
			OffenseDescription:  fine.Offense.Description,
			Location:            fine.Location,
			DriverIDNumber:      fine.DriverIDNumber,
			VehicleRegistration: fine.VehicleRegistration,
		}),
	}, nil
}

// HandleNotification processes a gateway notification for fineID. Payments
// for signed in users land in their history; anonymous sessions are only
// logged. The fine's own status is owned by the municipality feed and is not
// changed here. recorded is false when nothing was written, including for a
// repeated notification.
func (s *PaymentService) HandleNotification(ctx context.Context, fineID string, n payfast.Notification) (record domain.PaymentRecord, recorded bool, err error) {
	l := slogx.FromContext(ctx).With(
		slog.String("session_id", n.PaymentID),
		slog.String("fine_id", fineID),
	)
	s.Metrics.ObservePaymentNotification(n.PaymentStatus)

	session, err := s.Store.PaymentSessions().GetSession(ctx, n.PaymentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			l.Warn("notification for unknown payment session")
			return domain.PaymentRecord{}, false, ErrSessionNotFound
		}
		return domain.PaymentRecord{}, false, err
	}
	if session.FineID != fineID {
		l.Warn("notification fine does not match session", slog.String("session_fine_id", session.FineID))
		return domain.PaymentRecord{}, false, ErrSessionNotFound
	}

	if session.UserID == "" {
		l.Info("anonymous payment notification", slog.String("status", n.PaymentStatus))
		return domain.PaymentRecord{}, false, nil
	}

	amount := session.Amount
	if n.AmountGross > 0 {
		amount = n.AmountGross
	}
	txID := n.GatewayPaymentID
	if txID == "" {
		txID = idx.NewTransactionID()
	}

	now := clock(s.Now)
	record = domain.PaymentRecord{
		ID:            idx.NewAt(now).String(),
		UserID:        session.UserID,
		FineID:        session.FineID,
		Amount:        amount,
		PaymentDate:   now,
		PaymentMethod: PaymentMethodGateway,
		TransactionID: txID,
		Status:        paymentStatus(n.PaymentStatus),
	}

	if err := s.Store.Payments().CreatePayment(ctx, record); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			l.Info("duplicate payment notification", slog.String("transaction_id", txID))
			return domain.PaymentRecord{}, false, nil
		}
		l.Error("failed to record payment", slog.Any("error", err))
		return domain.PaymentRecord{}, false, err
	}

	l.Info("payment recorded",
		slog.String("user_id", record.UserID),
		slog.String("transaction_id", record.TransactionID),
		slog.String("status", string(record.Status)),
	)
	return record, true, nil
}

func paymentStatus(gateway string) domain.PaymentStatus {
	switch gateway {
	case payfast.StatusComplete:
		return domain.PaymentCompleted
	case payfast.StatusFailed, payfast.StatusCancelled:
		return domain.PaymentFailed
	default:
		return domain.PaymentPending
	}
}
