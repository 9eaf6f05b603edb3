package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/finepay/internal/fines/domain"
	"github.com/aussiebroadwan/finepay/internal/fines/store"
)

type vehiclesRepo struct {
	db dbtx
}

func (r *vehiclesRepo) ListVehiclesByUser(ctx context.Context, userID string) ([]domain.Vehicle, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, registration, make, model, year, created_at
		FROM vehicles WHERE user_id = ? ORDER BY rowid`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Vehicle, 0)
	for rows.Next() {
		var v domain.Vehicle
		if err := rows.Scan(&v.ID, &v.UserID, &v.Registration, &v.Make, &v.Model, &v.Year, &v.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *vehiclesRepo) CreateVehicle(ctx context.Context, v domain.Vehicle) error {
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO vehicles (id, user_id, registration, make, model, year, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		v.ID, v.UserID, v.Registration, v.Make, v.Model, v.Year, v.CreatedAt.UTC(),
	)
	return mapConstraint(err)
}

func (r *vehiclesRepo) DeleteVehicle(ctx context.Context, userID, vehicleID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM vehicles WHERE id = ? AND user_id = ?`, vehicleID, userID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
