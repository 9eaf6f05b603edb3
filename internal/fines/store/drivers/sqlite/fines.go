package sqlite

import (
	"context"
	"database/sql"

	"github.com/aussiebroadwan/finepay/internal/fines/domain"
)

type finesRepo struct {
	db dbtx
}

const fineSelect = `
	SELECT f.id, f.notice_number, f.vehicle_registration, f.driver_id_number,
	       f.amount, f.issue_date, f.due_date, f.location, f.status,
	       f.discount_amount, f.discount_valid_until,
	       o.code, o.description, o.category, o.points,
	       ` + municipalityColumns + `
	FROM fines f
	JOIN offenses o ON o.code = f.offense_code
	JOIN municipalities m ON m.id = f.municipality_id`

func scanFine(row interface{ Scan(...any) error }) (domain.TrafficFine, error) {
	var (
		f        domain.TrafficFine
		status   string
		category string
		discount sql.NullFloat64
		until    sql.NullTime
	)
	dest := []any{
		&f.ID, &f.NoticeNumber, &f.VehicleRegistration, &f.DriverIDNumber,
		&f.Amount, &f.IssueDate, &f.DueDate, &f.Location, &status,
		&discount, &until,
		&f.Offense.Code, &f.Offense.Description, &category, &f.Offense.Points,
	}
	dest = append(dest, municipalityDest(&f.Municipality)...)

	if err := row.Scan(dest...); err != nil {
		return domain.TrafficFine{}, err
	}
	f.Status = domain.FineStatus(status)
	f.Offense.Category = domain.OffenseCategory(category)
	f.DiscountAmount = mapNullFloatPtr(discount)
	f.DiscountValidUntil = mapNullTimePtr(until)
	return f, nil
}

func (r *finesRepo) ListFines(ctx context.Context) ([]domain.TrafficFine, error) {
	rows, err := r.db.QueryContext(ctx, fineSelect+` ORDER BY f.rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.TrafficFine, 0)
	for rows.Next() {
		f, err := scanFine(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (r *finesRepo) GetFineByID(ctx context.Context, id string) (domain.TrafficFine, error) {
	f, err := scanFine(r.db.QueryRowContext(ctx, fineSelect+` WHERE f.id = ?`, id))
	if err != nil {
		return domain.TrafficFine{}, mapNotFound(err)
	}
	return f, nil
}

func (r *finesRepo) UpsertFine(ctx context.Context, f domain.TrafficFine) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO fines (id, notice_number, vehicle_registration, driver_id_number,
			municipality_id, offense_code, amount, issue_date, due_date, location, status,
			discount_amount, discount_valid_until)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			notice_number = excluded.notice_number,
			vehicle_registration = excluded.vehicle_registration,
			driver_id_number = excluded.driver_id_number,
			municipality_id = excluded.municipality_id,
			offense_code = excluded.offense_code,
			amount = excluded.amount,
			issue_date = excluded.issue_date,
			due_date = excluded.due_date,
			location = excluded.location,
			status = excluded.status,
			discount_amount = excluded.discount_amount,
			discount_valid_until = excluded.discount_valid_until`,
		f.ID, f.NoticeNumber, f.VehicleRegistration, f.DriverIDNumber,
		f.Municipality.ID, f.Offense.Code, f.Amount, f.IssueDate.UTC(), f.DueDate.UTC(), f.Location, string(f.Status),
		mapOptionalFloat(f.DiscountAmount), mapOptionalTime(f.DiscountValidUntil),
	)
	return err
}

func (r *finesRepo) CountFines(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM fines`).Scan(&n)
	return n, err
}
