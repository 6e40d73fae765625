package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"pet-rescue-network/internal/domain/lostfound"
)

type LostFoundRepo struct {
	db *sql.DB
}

func NewLostFoundRepo(db *sql.DB) *LostFoundRepo {
	return &LostFoundRepo{db: db}
}

const reportColumns = `
	id, reporter_id, type,
	pet_name, species, breed, colors, size, description, photo_urls,
	location_text, lat, lng,
	status, custody_status, custody_rescuer_id, pickup_at, pickup_note,
	contact_phone,
	created_at, updated_at
`

func (r *LostFoundRepo) Create(ctx context.Context, rep lostfound.LostPetReport) error {
	photos, err := json.Marshal(rep.PhotoURLs)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO lost_pet_reports (`+reportColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21)
	`,
		rep.ID,
		rep.ReporterID,
		string(rep.Type),
		rep.PetName,
		rep.Species,
		rep.Breed,
		rep.Colors,
		rep.Size,
		rep.Description,
		photos,
		rep.LocationText,
		rep.Lat,
		rep.Lng,
		string(rep.Status),
		string(rep.Custody),
		rep.CustodyRescuerID,
		toNullTime(rep.PickupAt),
		rep.PickupNote,
		rep.ContactPhone,
		rep.CreatedAt,
		rep.UpdatedAt,
	)
	return err
}

func (r *LostFoundRepo) Update(ctx context.Context, rep lostfound.LostPetReport) error {
	photos, err := json.Marshal(rep.PhotoURLs)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE lost_pet_reports
		SET
			pet_name = $2,
			breed = $3,
			colors = $4,
			size = $5,
			description = $6,
			photo_urls = $7,
			location_text = $8,
			lat = $9,
			lng = $10,
			status = $11,
			custody_status = $12,
			custody_rescuer_id = $13,
			pickup_at = $14,
			pickup_note = $15,
			contact_phone = $16,
			updated_at = $17
		WHERE id = $1
	`,
		rep.ID,
		rep.PetName,
		rep.Breed,
		rep.Colors,
		rep.Size,
		rep.Description,
		photos,
		rep.LocationText,
		rep.Lat,
		rep.Lng,
		string(rep.Status),
		string(rep.Custody),
		rep.CustodyRescuerID,
		toNullTime(rep.PickupAt),
		rep.PickupNote,
		rep.ContactPhone,
		rep.UpdatedAt,
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

func (r *LostFoundRepo) GetByID(ctx context.Context, id string) (lostfound.LostPetReport, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return lostfound.LostPetReport{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+reportColumns+`
		FROM lost_pet_reports
		WHERE id = $1
	`, id)

	rep, err := scanReport(row)
	if err == sql.ErrNoRows {
		return lostfound.LostPetReport{}, ErrNotFound
	}
	return rep, err
}

func (r *LostFoundRepo) List(ctx context.Context, filter lostfound.ListFilter) ([]lostfound.LostPetReport, error) {
	// filtros dinámicos armados a mano; siempre con placeholders
	where := make([]string, 0, 4)
	args := make([]any, 0, 4)

	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}

	if filter.Type != "" {
		add("type = $%d", string(filter.Type))
	}
	if filter.Status != "" {
		add("status = $%d", string(filter.Status))
	}
	if filter.Species != "" {
		add("LOWER(species) = LOWER($%d)", filter.Species)
	}
	if filter.ReporterID != "" {
		add("reporter_id = $%d", filter.ReporterID)
	}

	query := `SELECT ` + reportColumns + ` FROM lost_pet_reports`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]lostfound.LostPetReport, 0)
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rep)
	}
	return out, rows.Err()
}

func (r *LostFoundRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM lost_pet_reports WHERE id = $1
	`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *LostFoundRepo) CreateSighting(ctx context.Context, s lostfound.SightingReport) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sighting_reports (
			id, report_id, reporter_id,
			location_text, lat, lng,
			photo_url, note,
			created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`,
		s.ID,
		s.ReportID,
		s.ReporterID,
		s.LocationText,
		s.Lat,
		s.Lng,
		s.PhotoURL,
		s.Note,
		s.CreatedAt,
	)
	return err
}

func (r *LostFoundRepo) ListSightings(ctx context.Context, reportID string) ([]lostfound.SightingReport, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, report_id, reporter_id, location_text, lat, lng, photo_url, note, created_at
		FROM sighting_reports
		WHERE report_id = $1
		ORDER BY created_at ASC
	`, reportID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]lostfound.SightingReport, 0)
	for rows.Next() {
		var s lostfound.SightingReport
		if err := rows.Scan(
			&s.ID,
			&s.ReportID,
			&s.ReporterID,
			&s.LocationText,
			&s.Lat,
			&s.Lng,
			&s.PhotoURL,
			&s.Note,
			&s.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func scanReport(row rowScanner) (lostfound.LostPetReport, error) {
	var rep lostfound.LostPetReport
	var typ, status, custody string
	var photos []byte
	var pickup sql.NullTime
	if err := row.Scan(
		&rep.ID,
		&rep.ReporterID,
		&typ,
		&rep.PetName,
		&rep.Species,
		&rep.Breed,
		&rep.Colors,
		&rep.Size,
		&rep.Description,
		&photos,
		&rep.LocationText,
		&rep.Lat,
		&rep.Lng,
		&status,
		&custody,
		&rep.CustodyRescuerID,
		&pickup,
		&rep.PickupNote,
		&rep.ContactPhone,
		&rep.CreatedAt,
		&rep.UpdatedAt,
	); err != nil {
		return lostfound.LostPetReport{}, err
	}

	rep.Type = lostfound.ReportType(typ)
	rep.Status = lostfound.ReportStatus(status)
	rep.Custody = lostfound.CustodyStatus(custody)

	if len(photos) > 0 {
		if err := json.Unmarshal(photos, &rep.PhotoURLs); err != nil {
			return lostfound.LostPetReport{}, err
		}
	}
	if pickup.Valid {
		at := pickup.Time
		rep.PickupAt = &at
	}
	return rep, nil
}
