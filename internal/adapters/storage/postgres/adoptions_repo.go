package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"pet-rescue-network/internal/domain/adoptions"
)

type AdoptionsRepo struct {
	db *sql.DB
}

func NewAdoptionsRepo(db *sql.DB) *AdoptionsRepo {
	return &AdoptionsRepo{db: db}
}

const listingColumns = `
	id, owner_id,
	pet_name, species, breed, age, size, description, photo_urls,
	status,
	created_at, updated_at
`

func (r *AdoptionsRepo) CreateListing(ctx context.Context, l adoptions.Listing) error {
	photos, err := json.Marshal(l.PhotoURLs)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO adoption_listings (`+listingColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`,
		l.ID,
		l.OwnerID,
		l.PetName,
		l.Species,
		l.Breed,
		l.Age,
		l.Size,
		l.Description,
		photos,
		string(l.Status),
		l.CreatedAt,
		l.UpdatedAt,
	)
	return err
}

func (r *AdoptionsRepo) UpdateListing(ctx context.Context, l adoptions.Listing) error {
	photos, err := json.Marshal(l.PhotoURLs)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE adoption_listings
		SET
			pet_name = $2,
			species = $3,
			breed = $4,
			age = $5,
			size = $6,
			description = $7,
			photo_urls = $8,
			status = $9,
			updated_at = $10
		WHERE id = $1
	`,
		l.ID,
		l.PetName,
		l.Species,
		l.Breed,
		l.Age,
		l.Size,
		l.Description,
		photos,
		string(l.Status),
		l.UpdatedAt,
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

func (r *AdoptionsRepo) GetListing(ctx context.Context, id string) (adoptions.Listing, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return adoptions.Listing{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+listingColumns+`
		FROM adoption_listings
		WHERE id = $1
	`, id)

	l, err := scanListing(row)
	if err == sql.ErrNoRows {
		return adoptions.Listing{}, ErrNotFound
	}
	return l, err
}

func (r *AdoptionsRepo) ListListings(ctx context.Context, filter adoptions.ListingFilter) ([]adoptions.Listing, error) {
	where := make([]string, 0, 3)
	args := make([]any, 0, 3)

	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}

	if filter.OwnerID != "" {
		add("owner_id = $%d", filter.OwnerID)
	}
	if filter.Status != "" {
		add("status = $%d", string(filter.Status))
	}
	if filter.Species != "" {
		add("LOWER(species) = LOWER($%d)", filter.Species)
	}

	query := `SELECT ` + listingColumns + ` FROM adoption_listings`
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

	out := make([]adoptions.Listing, 0)
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

const requestColumns = `
	id, listing_id, requester_id,
	home_type, has_other_pets, experience, motive,
	status, meeting_at, meeting_place,
	created_at, updated_at
`

func (r *AdoptionsRepo) CreateRequest(ctx context.Context, req adoptions.AdoptionRequest) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO adoption_requests (`+requestColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`,
		req.ID,
		req.ListingID,
		req.RequesterID,
		req.HomeType,
		req.HasOtherPets,
		req.Experience,
		req.Motive,
		string(req.Status),
		toNullTime(req.MeetingAt),
		req.MeetingPlace,
		req.CreatedAt,
		req.UpdatedAt,
	)
	return err
}

func (r *AdoptionsRepo) UpdateRequest(ctx context.Context, req adoptions.AdoptionRequest) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE adoption_requests
		SET
			status = $2,
			meeting_at = $3,
			meeting_place = $4,
			updated_at = $5
		WHERE id = $1
	`,
		req.ID,
		string(req.Status),
		toNullTime(req.MeetingAt),
		req.MeetingPlace,
		req.UpdatedAt,
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

func (r *AdoptionsRepo) GetRequest(ctx context.Context, id string) (adoptions.AdoptionRequest, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return adoptions.AdoptionRequest{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+requestColumns+`
		FROM adoption_requests
		WHERE id = $1
	`, id)

	req, err := scanRequest(row)
	if err == sql.ErrNoRows {
		return adoptions.AdoptionRequest{}, ErrNotFound
	}
	return req, err
}

func (r *AdoptionsRepo) ListRequestsByListing(ctx context.Context, listingID string) ([]adoptions.AdoptionRequest, error) {
	return r.listRequests(ctx, `
		SELECT `+requestColumns+`
		FROM adoption_requests
		WHERE listing_id = $1
		ORDER BY created_at ASC
	`, listingID)
}

func (r *AdoptionsRepo) ListRequestsByRequester(ctx context.Context, requesterID string) ([]adoptions.AdoptionRequest, error) {
	return r.listRequests(ctx, `
		SELECT `+requestColumns+`
		FROM adoption_requests
		WHERE requester_id = $1
		ORDER BY created_at DESC
	`, requesterID)
}

func (r *AdoptionsRepo) listRequests(ctx context.Context, query string, args ...any) ([]adoptions.AdoptionRequest, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]adoptions.AdoptionRequest, 0)
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, rows.Err()
}

func scanListing(row rowScanner) (adoptions.Listing, error) {
	var l adoptions.Listing
	var status string
	var photos []byte
	if err := row.Scan(
		&l.ID,
		&l.OwnerID,
		&l.PetName,
		&l.Species,
		&l.Breed,
		&l.Age,
		&l.Size,
		&l.Description,
		&photos,
		&status,
		&l.CreatedAt,
		&l.UpdatedAt,
	); err != nil {
		return adoptions.Listing{}, err
	}

	l.Status = adoptions.ListingStatus(status)
	if len(photos) > 0 {
		if err := json.Unmarshal(photos, &l.PhotoURLs); err != nil {
			return adoptions.Listing{}, err
		}
	}
	return l, nil
}

func scanRequest(row rowScanner) (adoptions.AdoptionRequest, error) {
	var req adoptions.AdoptionRequest
	var status string
	var meeting sql.NullTime
	if err := row.Scan(
		&req.ID,
		&req.ListingID,
		&req.RequesterID,
		&req.HomeType,
		&req.HasOtherPets,
		&req.Experience,
		&req.Motive,
		&status,
		&meeting,
		&req.MeetingPlace,
		&req.CreatedAt,
		&req.UpdatedAt,
	); err != nil {
		return adoptions.AdoptionRequest{}, err
	}

	req.Status = adoptions.RequestStatus(status)
	if meeting.Valid {
		at := meeting.Time
		req.MeetingAt = &at
	}
	return req, nil
}
