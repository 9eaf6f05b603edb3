package sqlite

import (
	"context"

	"github.com/aussiebroadwan/finepay/internal/fines/domain"
)

type referenceRepo struct {
	db dbtx
}

const municipalityColumns = `m.id, m.name, m.province, m.is_supported, m.logo_url, m.contact_phone, m.contact_email, m.contact_addr`

func municipalityDest(m *domain.Municipality) []any {
	return []any{&m.ID, &m.Name, &m.Province, &m.IsSupported, &m.LogoURL,
		&m.Contact.Phone, &m.Contact.Email, &m.Contact.Address}
}

func (r *referenceRepo) ListMunicipalities(ctx context.Context) ([]domain.Municipality, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+municipalityColumns+` FROM municipalities m ORDER BY m.rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Municipality, 0)
	for rows.Next() {
		var m domain.Municipality
		if err := rows.Scan(municipalityDest(&m)...); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *referenceRepo) GetMunicipality(ctx context.Context, id string) (domain.Municipality, error) {
	var m domain.Municipality
	err := r.db.QueryRowContext(ctx, `SELECT `+municipalityColumns+` FROM municipalities m WHERE m.id = ?`, id).
		Scan(municipalityDest(&m)...)
	if err != nil {
		return domain.Municipality{}, mapNotFound(err)
	}
	return m, nil
}

func (r *referenceRepo) UpsertMunicipality(ctx context.Context, m domain.Municipality) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO municipalities (id, name, province, is_supported, logo_url, contact_phone, contact_email, contact_addr)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			province = excluded.province,
			is_supported = excluded.is_supported,
			logo_url = excluded.logo_url,
			contact_phone = excluded.contact_phone,
			contact_email = excluded.contact_email,
			contact_addr = excluded.contact_addr`,
		m.ID, m.Name, m.Province, m.IsSupported, m.LogoURL, m.Contact.Phone, m.Contact.Email, m.Contact.Address,
	)
	return err
}

func (r *referenceRepo) UpsertOffense(ctx context.Context, o domain.Offense) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO offenses (code, description, category, points)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (code) DO UPDATE SET
			description = excluded.description,
			category = excluded.category,
			points = excluded.points`,
		o.Code, o.Description, string(o.Category), o.Points,
	)
	return err
}
