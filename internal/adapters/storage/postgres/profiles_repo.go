package postgres

import (
	"context"
	"database/sql"
	"strings"

	"pet-rescue-network/internal/domain/profiles"
)

type ProfilesRepo struct {
	db *sql.DB
}

func NewProfilesRepo(db *sql.DB) *ProfilesRepo {
	return &ProfilesRepo{db: db}
}

const profileColumns = `
	id, role, verification,
	display_name, avatar_url, phone, address, bio, service_info,
	lat, lng, theme, verification_doc_url,
	created_at, updated_at
`

func (r *ProfilesRepo) Create(ctx context.Context, p profiles.Profile) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO profiles (`+profileColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
	`,
		p.ID,
		string(p.Role),
		string(p.Verification),
		p.DisplayName,
		p.AvatarURL,
		p.Phone,
		p.Address,
		p.Bio,
		p.ServiceInfo,
		p.Lat,
		p.Lng,
		string(p.Theme),
		p.VerificationDocURL,
		p.CreatedAt,
		p.UpdatedAt,
	)
	return err
}

func (r *ProfilesRepo) Update(ctx context.Context, p profiles.Profile) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE profiles
		SET
			role = $2,
			verification = $3,
			display_name = $4,
			avatar_url = $5,
			phone = $6,
			address = $7,
			bio = $8,
			service_info = $9,
			lat = $10,
			lng = $11,
			theme = $12,
			verification_doc_url = $13,
			updated_at = $14
		WHERE id = $1
	`,
		p.ID,
		string(p.Role),
		string(p.Verification),
		p.DisplayName,
		p.AvatarURL,
		p.Phone,
		p.Address,
		p.Bio,
		p.ServiceInfo,
		p.Lat,
		p.Lng,
		string(p.Theme),
		p.VerificationDocURL,
		p.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ProfilesRepo) GetByID(ctx context.Context, id string) (profiles.Profile, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return profiles.Profile{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+profileColumns+`
		FROM profiles
		WHERE id = $1
	`, id)

	p, err := scanProfile(row)
	if err == sql.ErrNoRows {
		return profiles.Profile{}, ErrNotFound
	}
	return p, err
}

func (r *ProfilesRepo) ListByRole(ctx context.Context, role profiles.Role) ([]profiles.Profile, error) {
	return r.list(ctx, `
		SELECT `+profileColumns+`
		FROM profiles
		WHERE role = $1
		ORDER BY created_at ASC
	`, string(role))
}

func (r *ProfilesRepo) ListByVerification(ctx context.Context, status profiles.VerificationStatus) ([]profiles.Profile, error) {
	return r.list(ctx, `
		SELECT `+profileColumns+`
		FROM profiles
		WHERE verification = $1
		ORDER BY created_at ASC
	`, string(status))
}

func (r *ProfilesRepo) list(ctx context.Context, query string, args ...any) ([]profiles.Profile, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]profiles.Profile, 0)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (profiles.Profile, error) {
	var p profiles.Profile
	var role, verification, theme string
	if err := row.Scan(
		&p.ID,
		&role,
		&verification,
		&p.DisplayName,
		&p.AvatarURL,
		&p.Phone,
		&p.Address,
		&p.Bio,
		&p.ServiceInfo,
		&p.Lat,
		&p.Lng,
		&theme,
		&p.VerificationDocURL,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return profiles.Profile{}, err
	}
	p.Role = profiles.Role(role)
	p.Verification = profiles.VerificationStatus(verification)
	p.Theme = profiles.Theme(theme)
	return p, nil
}
