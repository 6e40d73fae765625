package postgres

import (
	"context"
	"database/sql"
	"strings"

	"pet-rescue-network/internal/domain/appointments"
)

type AppointmentsRepo struct {
	db *sql.DB
}

func NewAppointmentsRepo(db *sql.DB) *AppointmentsRepo {
	return &AppointmentsRepo{db: db}
}

const appointmentColumns = `
	id, owner_id, vet_id, service,
	pet_name, pet_species, pet_breed, pet_age, pet_sex,
	vaccinated, sterilized, medicated, medical_notes,
	preferred_date, preferred_slot, consent,
	status, scheduled_at, care_instructions,
	created_at, updated_at
`

func (r *AppointmentsRepo) Create(ctx context.Context, a appointments.Appointment) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO appointments (`+appointmentColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21)
	`,
		a.ID,
		a.OwnerID,
		a.VetID,
		string(a.Service),
		a.PetName,
		a.PetSpecies,
		a.PetBreed,
		a.PetAge,
		a.PetSex,
		a.Vaccinated,
		a.Sterilized,
		a.Medicated,
		a.MedicalNotes,
		a.PreferredDate,
		string(a.PreferredSlot),
		a.Consent,
		string(a.Status),
		toNullTime(a.ScheduledAt),
		a.CareInstructions,
		a.CreatedAt,
		a.UpdatedAt,
	)
	return err
}

func (r *AppointmentsRepo) Update(ctx context.Context, a appointments.Appointment) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE appointments
		SET
			status = $2,
			scheduled_at = $3,
			care_instructions = $4,
			updated_at = $5
		WHERE id = $1
	`,
		a.ID,
		string(a.Status),
		toNullTime(a.ScheduledAt),
		a.CareInstructions,
		a.UpdatedAt,
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

func (r *AppointmentsRepo) GetByID(ctx context.Context, id string) (appointments.Appointment, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return appointments.Appointment{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE id = $1
	`, id)

	a, err := scanAppointment(row)
	if err == sql.ErrNoRows {
		return appointments.Appointment{}, ErrNotFound
	}
	return a, err
}

func (r *AppointmentsRepo) ListByOwner(ctx context.Context, ownerID string) ([]appointments.Appointment, error) {
	return r.list(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`, ownerID)
}

func (r *AppointmentsRepo) ListByVet(ctx context.Context, vetID string) ([]appointments.Appointment, error) {
	return r.list(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE vet_id = $1
		ORDER BY created_at DESC
	`, vetID)
}

func (r *AppointmentsRepo) list(ctx context.Context, query string, args ...any) ([]appointments.Appointment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]appointments.Appointment, 0)
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanAppointment(row rowScanner) (appointments.Appointment, error) {
	var a appointments.Appointment
	var service, slot, status string
	var scheduled sql.NullTime
	if err := row.Scan(
		&a.ID,
		&a.OwnerID,
		&a.VetID,
		&service,
		&a.PetName,
		&a.PetSpecies,
		&a.PetBreed,
		&a.PetAge,
		&a.PetSex,
		&a.Vaccinated,
		&a.Sterilized,
		&a.Medicated,
		&a.MedicalNotes,
		&a.PreferredDate,
		&slot,
		&a.Consent,
		&status,
		&scheduled,
		&a.CareInstructions,
		&a.CreatedAt,
		&a.UpdatedAt,
	); err != nil {
		return appointments.Appointment{}, err
	}

	a.Service = appointments.ServiceType(service)
	a.PreferredSlot = appointments.TimeSlot(slot)
	a.Status = appointments.Status(status)
	if scheduled.Valid {
		at := scheduled.Time
		a.ScheduledAt = &at
	}
	return a, nil
}
