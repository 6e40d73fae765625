package lostfound

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"pet-rescue-network/internal/ports/geocode"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrBadState     = errors.New("invalid state")
)

// Notifier es el side-effect de notificación; lo implementa el módulo
// notifications. Interfaz local para no acoplar imports entre dominios.
type Notifier interface {
	Notify(ctx context.Context, userID, ntype, message, link string)
}

type Service struct {
	repo     Repository
	notifier Notifier
	geocoder geocode.Resolver // opcional; best-effort
	now      func() time.Time
}

func NewService(repo Repository, notifier Notifier, geocoder geocode.Resolver) *Service {
	return &Service{
		repo:     repo,
		notifier: notifier,
		geocoder: geocoder,
		now:      time.Now,
	}
}

type CreateInput struct {
	Type ReportType

	PetName     string
	Species     string
	Breed       string
	Colors      string
	Size        string
	Description string

	LocationText string
	Lat          float64
	Lng          float64

	ContactPhone string

	// Solo para Type == found: rama inicial de custodia.
	Custody          CustodyStatus
	CustodyRescuerID string
}

// Create inserta el reporte. Para reportes "found" el finder elige la
// rama de custodia al crear: user_holding deja CustodyRescuerID vacío;
// rescuer_notified exige un rescatista y le dispara una notificación.
func (s *Service) Create(ctx context.Context, reporterID string, in CreateInput) (LostPetReport, error) {
	reporterID = strings.TrimSpace(reporterID)
	if reporterID == "" {
		return LostPetReport{}, ErrInvalidInput
	}
	if !in.Type.IsValid() {
		return LostPetReport{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Species) == "" {
		return LostPetReport{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.LocationText) == "" && in.Lat == 0 && in.Lng == 0 {
		return LostPetReport{}, ErrInvalidInput
	}

	status := StatusLost
	custody := CustodyNone
	rescuerID := ""

	if in.Type == TypeFound {
		status = StatusFound

		custody = in.Custody
		if !custody.ValidAtCreation() {
			return LostPetReport{}, ErrInvalidInput
		}
		if custody == CustodyRescuerNotified {
			rescuerID = strings.TrimSpace(in.CustodyRescuerID)
			if rescuerID == "" {
				return LostPetReport{}, ErrInvalidInput
			}
		}
	} else if in.Custody != CustodyNone || strings.TrimSpace(in.CustodyRescuerID) != "" {
		// custodia solo tiene sentido en reportes found
		return LostPetReport{}, ErrInvalidInput
	}

	lat, lng := in.Lat, in.Lng
	if lat == 0 && lng == 0 && s.geocoder != nil {
		// best-effort: sin coordenadas el reporte igual se crea
		if glat, glng, err := s.geocoder.Resolve(ctx, in.LocationText); err == nil {
			lat, lng = glat, glng
		}
	}

	now := s.now()
	r := LostPetReport{
		ID:               uuid.NewString(),
		ReporterID:       reporterID,
		Type:             in.Type,
		PetName:          strings.TrimSpace(in.PetName),
		Species:          strings.TrimSpace(in.Species),
		Breed:            strings.TrimSpace(in.Breed),
		Colors:           strings.TrimSpace(in.Colors),
		Size:             strings.TrimSpace(in.Size),
		Description:      strings.TrimSpace(in.Description),
		LocationText:     strings.TrimSpace(in.LocationText),
		Lat:              lat,
		Lng:              lng,
		Status:           status,
		Custody:          custody,
		CustodyRescuerID: rescuerID,
		ContactPhone:     strings.TrimSpace(in.ContactPhone),
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.repo.Create(ctx, r); err != nil {
		return LostPetReport{}, err
	}

	if rescuerID != "" && s.notifier != nil {
		s.notifier.Notify(ctx, rescuerID, "custody",
			"Te asignaron la custodia de una mascota encontrada", "/reports/"+r.ID)
	}

	return r, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (LostPetReport, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return LostPetReport{}, ErrInvalidInput
	}
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return LostPetReport{}, ErrNotFound
	}
	return r, nil
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]LostPetReport, error) {
	return s.repo.List(ctx, filter)
}

type UpdateInput struct {
	// Punteros para PATCH real: nil = no tocar. Solo campos descriptivos;
	// status y custodia van por sus transiciones.
	PetName      *string
	Breed        *string
	Colors       *string
	Size         *string
	Description  *string
	LocationText *string
	ContactPhone *string
}

func (s *Service) Update(ctx context.Context, actorID, id string, in UpdateInput) (LostPetReport, error) {
	r, err := s.GetByID(ctx, id)
	if err != nil {
		return LostPetReport{}, err
	}
	if r.ReporterID != actorID {
		return LostPetReport{}, ErrForbidden
	}

	if in.PetName != nil {
		r.PetName = strings.TrimSpace(*in.PetName)
	}
	if in.Breed != nil {
		r.Breed = strings.TrimSpace(*in.Breed)
	}
	if in.Colors != nil {
		r.Colors = strings.TrimSpace(*in.Colors)
	}
	if in.Size != nil {
		r.Size = strings.TrimSpace(*in.Size)
	}
	if in.Description != nil {
		r.Description = strings.TrimSpace(*in.Description)
	}
	if in.LocationText != nil {
		v := strings.TrimSpace(*in.LocationText)
		if v == "" {
			return LostPetReport{}, ErrInvalidInput
		}
		r.LocationText = v
	}
	if in.ContactPhone != nil {
		r.ContactPhone = strings.TrimSpace(*in.ContactPhone)
	}

	r.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, r); err != nil {
		return LostPetReport{}, err
	}
	return r, nil
}

// AddPhoto agrega la URL de una foto ya subida al bucket.
func (s *Service) AddPhoto(ctx context.Context, actorID, id, photoURL string) (LostPetReport, error) {
	photoURL = strings.TrimSpace(photoURL)
	if photoURL == "" {
		return LostPetReport{}, ErrInvalidInput
	}

	r, err := s.GetByID(ctx, id)
	if err != nil {
		return LostPetReport{}, err
	}
	if r.ReporterID != actorID {
		return LostPetReport{}, ErrForbidden
	}

	r.PhotoURLs = append(r.PhotoURLs, photoURL)
	r.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, r); err != nil {
		return LostPetReport{}, err
	}
	return r, nil
}

// MarkReunited confirma el reencuentro. Solo el dueño del reporte;
// cambia únicamente Status (+UpdatedAt), nada descriptivo se toca.
func (s *Service) MarkReunited(ctx context.Context, actorID, id string) (LostPetReport, error) {
	r, err := s.GetByID(ctx, id)
	if err != nil {
		return LostPetReport{}, err
	}
	if r.ReporterID != actorID {
		return LostPetReport{}, ErrForbidden
	}

	// Idempotente
	if r.Status == StatusReunited {
		return r, nil
	}

	r.Status = StatusReunited
	r.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, r); err != nil {
		return LostPetReport{}, err
	}
	return r, nil
}

// SchedulePickup: el rescatista notificado agenda el recojo.
// Única transición rescuer_notified -> pickup_scheduled; notifica al finder.
func (s *Service) SchedulePickup(ctx context.Context, rescuerID, id string, at time.Time, note string) (LostPetReport, error) {
	rescuerID = strings.TrimSpace(rescuerID)
	if rescuerID == "" || at.IsZero() {
		return LostPetReport{}, ErrInvalidInput
	}

	r, err := s.GetByID(ctx, id)
	if err != nil {
		return LostPetReport{}, err
	}
	if r.CustodyRescuerID != rescuerID {
		return LostPetReport{}, ErrForbidden
	}
	if r.Custody != CustodyRescuerNotified {
		return LostPetReport{}, ErrBadState
	}

	r.Custody = CustodyPickupScheduled
	r.PickupAt = &at
	r.PickupNote = strings.TrimSpace(note)
	r.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, r); err != nil {
		return LostPetReport{}, err
	}

	if s.notifier != nil {
		s.notifier.Notify(ctx, r.ReporterID, "custody",
			"El rescatista agendó el recojo de la mascota", "/reports/"+r.ID)
	}

	return r, nil
}

type SightingInput struct {
	LocationText string
	Lat          float64
	Lng          float64
	PhotoURL     string
	Note         string
}

// AddSighting registra un avistamiento (reporterID vacío = anónimo).
// Sobre un reporte "lost" avanza el status a sighted y avisa al dueño.
func (s *Service) AddSighting(ctx context.Context, reporterID, reportID string, in SightingInput) (SightingReport, error) {
	if strings.TrimSpace(in.LocationText) == "" && in.Lat == 0 && in.Lng == 0 {
		return SightingReport{}, ErrInvalidInput
	}

	r, err := s.GetByID(ctx, reportID)
	if err != nil {
		return SightingReport{}, err
	}
	if r.Status == StatusReunited {
		return SightingReport{}, ErrBadState
	}

	sight := SightingReport{
		ID:           uuid.NewString(),
		ReportID:     r.ID,
		ReporterID:   strings.TrimSpace(reporterID),
		LocationText: strings.TrimSpace(in.LocationText),
		Lat:          in.Lat,
		Lng:          in.Lng,
		PhotoURL:     strings.TrimSpace(in.PhotoURL),
		Note:         strings.TrimSpace(in.Note),
		CreatedAt:    s.now(),
	}

	if err := s.repo.CreateSighting(ctx, sight); err != nil {
		return SightingReport{}, err
	}

	if r.Status == StatusLost {
		r.Status = StatusSighted
		r.UpdatedAt = s.now()
		_ = s.repo.Update(ctx, r) // best-effort: el avistamiento ya quedó
	}

	if s.notifier != nil {
		s.notifier.Notify(ctx, r.ReporterID, "sighting",
			"Reportaron un avistamiento de tu mascota", "/reports/"+r.ID)
	}

	return sight, nil
}

func (s *Service) ListSightings(ctx context.Context, reportID string) ([]SightingReport, error) {
	reportID = strings.TrimSpace(reportID)
	if reportID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListSightings(ctx, reportID)
}

// Delete borra duro. Dueño o admin (isAdmin lo resuelve el handler).
func (s *Service) Delete(ctx context.Context, actorID, id string, isAdmin bool) error {
	r, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if r.ReporterID != actorID && !isAdmin {
		return ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}
