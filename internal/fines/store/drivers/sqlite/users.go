package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/finepay/internal/fines/domain"
)

type usersRepo struct {
	db dbtx
}

const userColumns = `id, id_number, first_name, last_name, email, phone, password_hash, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.IDNumber, &u.FirstName, &u.LastName, &u.Email, &u.Phone,
		&u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

func (r *usersRepo) getOne(ctx context.Context, where string, arg any) (domain.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE `+where, arg))
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	return r.getOne(ctx, `id = ?`, id)
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.getOne(ctx, `email = ? COLLATE NOCASE`, email)
}

func (r *usersRepo) GetUserByIDNumber(ctx context.Context, idNumber string) (domain.User, error) {
	return r.getOne(ctx, `id_number = ?`, idNumber)
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	now := time.Now().UTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.IDNumber, u.FirstName, u.LastName, u.Email, u.Phone, u.PasswordHash,
		u.CreatedAt.UTC(), now,
	)
	return mapConstraint(err)
}

func (r *usersRepo) UpdateUser(ctx context.Context, u domain.User) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET id_number = ?, first_name = ?, last_name = ?, email = ?, phone = ?, updated_at = ?
		WHERE id = ?`,
		u.IDNumber, u.FirstName, u.LastName, u.Email, u.Phone, time.Now().UTC(), u.ID,
	)
	if err != nil {
		return mapConstraint(err)
	}
	return requireAffected(res)
}

func (r *usersRepo) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}
