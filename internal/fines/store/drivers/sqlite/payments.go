package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/finepay/internal/fines/domain"
)

type paymentsRepo struct {
	db dbtx
}

func (r *paymentsRepo) ListPaymentsByUser(ctx context.Context, userID string) ([]domain.PaymentRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, fine_id, amount, payment_date, payment_method, transaction_id, status
		FROM payments WHERE user_id = ? ORDER BY rowid`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.PaymentRecord, 0)
	for rows.Next() {
		var (
			p      domain.PaymentRecord
			status string
		)
		if err := rows.Scan(&p.ID, &p.UserID, &p.FineID, &p.Amount, &p.PaymentDate,
			&p.PaymentMethod, &p.TransactionID, &status); err != nil {
			return nil, err
		}
		p.Status = domain.PaymentStatus(status)
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *paymentsRepo) CreatePayment(ctx context.Context, p domain.PaymentRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO payments (id, user_id, fine_id, amount, payment_date, payment_method, transaction_id, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.UserID, p.FineID, p.Amount, p.PaymentDate.UTC(), p.PaymentMethod, p.TransactionID, string(p.Status),
	)
	return mapConstraint(err)
}

type sessionsRepo struct {
	db dbtx
}

func (r *sessionsRepo) CreateSession(ctx context.Context, s domain.PaymentSession) error {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO payment_sessions (id, fine_id, user_id, amount, payment_url, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.FineID, s.UserID, s.Amount, s.PaymentURL, s.ExpiresAt.UnixMilli(), s.CreatedAt.UTC(),
	)
	return mapConstraint(err)
}

func (r *sessionsRepo) GetSession(ctx context.Context, id string) (domain.PaymentSession, error) {
	var (
		s         domain.PaymentSession
		expiresMs int64
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, fine_id, user_id, amount, payment_url, expires_at, created_at
		FROM payment_sessions WHERE id = ?`, id).
		Scan(&s.ID, &s.FineID, &s.UserID, &s.Amount, &s.PaymentURL, &expiresMs, &s.CreatedAt)
	if err != nil {
		return domain.PaymentSession{}, mapNotFound(err)
	}
	s.ExpiresAt = time.UnixMilli(expiresMs).UTC()
	return s, nil
}

func (r *sessionsRepo) DeleteSessionsExpiredBefore(ctx context.Context, t time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM payment_sessions WHERE expires_at < ?`, t.UnixMilli())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
