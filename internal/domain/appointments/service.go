package appointments

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrBadState     = errors.New("invalid state")
)

type Notifier interface {
	Notify(ctx context.Context, userID, ntype, message, link string)
}

type Service struct {
	repo     Repository
	notifier Notifier
	now      func() time.Time
}

func NewService(repo Repository, notifier Notifier) *Service {
	return &Service{repo: repo, notifier: notifier, now: time.Now}
}

// Create persiste el borrador completo del wizard como turno pending
// y avisa a la veterinaria. El borrador se revalida acá: el wizard es
// del cliente, la regla es del servicio.
func (s *Service) Create(ctx context.Context, ownerID string, d Draft) (Appointment, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return Appointment{}, ErrInvalidInput
	}

	wiz := Wizard{Draft: d}
	if ok, _, _ := wiz.Complete(); !ok {
		return Appointment{}, ErrInvalidInput
	}
	if d.VetID == ownerID {
		return Appointment{}, ErrInvalidInput
	}

	now := s.now()
	a := Appointment{
		ID:            uuid.NewString(),
		OwnerID:       ownerID,
		VetID:         strings.TrimSpace(d.VetID),
		Service:       d.Service,
		PetName:       strings.TrimSpace(d.PetName),
		PetSpecies:    strings.TrimSpace(d.PetSpecies),
		PetBreed:      strings.TrimSpace(d.PetBreed),
		PetAge:        strings.TrimSpace(d.PetAge),
		PetSex:        strings.TrimSpace(d.PetSex),
		Vaccinated:    d.Vaccinated,
		Sterilized:    d.Sterilized,
		Medicated:     d.Medicated,
		MedicalNotes:  strings.TrimSpace(d.MedicalNotes),
		PreferredDate: d.PreferredDate,
		PreferredSlot: d.PreferredSlot,
		Consent:       d.Consent,
		Status:        StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return Appointment{}, err
	}

	if s.notifier != nil {
		s.notifier.Notify(ctx, a.VetID, "appointment",
			"Nueva solicitud de cita para "+a.PetName, "/appointments/"+a.ID)
	}

	return a, nil
}

func (s *Service) GetByID(ctx context.Context, actorID, id string) (Appointment, error) {
	a, err := s.get(ctx, id)
	if err != nil {
		return Appointment{}, err
	}
	if a.OwnerID != actorID && a.VetID != actorID {
		return Appointment{}, ErrForbidden
	}
	return a, nil
}

func (s *Service) ListByOwner(ctx context.Context, ownerID string) ([]Appointment, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

func (s *Service) ListByVet(ctx context.Context, vetID string) ([]Appointment, error) {
	return s.repo.ListByVet(ctx, vetID)
}

// Confirm: la veterinaria acepta el turno pendiente fijando fecha/hora
// exacta e indicaciones previas.
func (s *Service) Confirm(ctx context.Context, vetID, id string, scheduledAt time.Time, instructions string) (Appointment, error) {
	if scheduledAt.IsZero() {
		return Appointment{}, ErrInvalidInput
	}

	a, err := s.get(ctx, id)
	if err != nil {
		return Appointment{}, err
	}
	if a.VetID != vetID {
		return Appointment{}, ErrForbidden
	}
	if a.Status != StatusPending {
		return Appointment{}, ErrBadState
	}

	a.Status = StatusConfirmed
	a.ScheduledAt = &scheduledAt
	a.CareInstructions = strings.TrimSpace(instructions)
	a.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, a); err != nil {
		return Appointment{}, err
	}

	if s.notifier != nil {
		s.notifier.Notify(ctx, a.OwnerID, "appointment",
			"Tu cita para "+a.PetName+" fue confirmada", "/appointments/"+a.ID)
	}
	return a, nil
}

func (s *Service) Reject(ctx context.Context, vetID, id string) (Appointment, error) {
	a, err := s.get(ctx, id)
	if err != nil {
		return Appointment{}, err
	}
	if a.VetID != vetID {
		return Appointment{}, ErrForbidden
	}
	if a.Status != StatusPending {
		return Appointment{}, ErrBadState
	}

	a.Status = StatusRejected
	a.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, a); err != nil {
		return Appointment{}, err
	}

	if s.notifier != nil {
		s.notifier.Notify(ctx, a.OwnerID, "appointment",
			"Tu cita para "+a.PetName+" fue rechazada", "/appointments/"+a.ID)
	}
	return a, nil
}

// Cancel: el dueño cancela mientras el turno siga vivo (pending o
// confirmed).
func (s *Service) Cancel(ctx context.Context, ownerID, id string) (Appointment, error) {
	a, err := s.get(ctx, id)
	if err != nil {
		return Appointment{}, err
	}
	if a.OwnerID != ownerID {
		return Appointment{}, ErrForbidden
	}
	if a.Status != StatusPending && a.Status != StatusConfirmed {
		return Appointment{}, ErrBadState
	}

	a.Status = StatusCancelled
	a.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, a); err != nil {
		return Appointment{}, err
	}

	if s.notifier != nil {
		s.notifier.Notify(ctx, a.VetID, "appointment",
			"La cita para "+a.PetName+" fue cancelada por el dueño", "/appointments/"+a.ID)
	}
	return a, nil
}

// Complete: la veterinaria cierra un turno confirmado ya atendido.
func (s *Service) Complete(ctx context.Context, vetID, id string) (Appointment, error) {
	a, err := s.get(ctx, id)
	if err != nil {
		return Appointment{}, err
	}
	if a.VetID != vetID {
		return Appointment{}, ErrForbidden
	}
	if a.Status != StatusConfirmed {
		return Appointment{}, ErrBadState
	}

	a.Status = StatusCompleted
	a.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, a); err != nil {
		return Appointment{}, err
	}

	if s.notifier != nil {
		s.notifier.Notify(ctx, a.OwnerID, "appointment",
			"La atención de "+a.PetName+" fue registrada como completada", "/appointments/"+a.ID)
	}
	return a, nil
}

func (s *Service) get(ctx context.Context, id string) (Appointment, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Appointment{}, ErrInvalidInput
	}
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Appointment{}, ErrNotFound
	}
	return a, nil
}
