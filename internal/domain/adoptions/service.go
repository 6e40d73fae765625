package adoptions

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
	ErrDuplicate    = errors.New("pending request already exists")
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

type CreateListingInput struct {
	PetName     string
	Species     string
	Breed       string
	Age         string
	Size        string
	Description string
}

func (s *Service) CreateListing(ctx context.Context, ownerID string, in CreateListingInput) (Listing, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" || strings.TrimSpace(in.PetName) == "" || strings.TrimSpace(in.Species) == "" {
		return Listing{}, ErrInvalidInput
	}

	now := s.now()
	l := Listing{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		PetName:     strings.TrimSpace(in.PetName),
		Species:     strings.TrimSpace(in.Species),
		Breed:       strings.TrimSpace(in.Breed),
		Age:         strings.TrimSpace(in.Age),
		Size:        strings.TrimSpace(in.Size),
		Description: strings.TrimSpace(in.Description),
		Status:      ListingAvailable,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.CreateListing(ctx, l); err != nil {
		return Listing{}, err
	}
	return l, nil
}

func (s *Service) GetListing(ctx context.Context, id string) (Listing, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Listing{}, ErrInvalidInput
	}
	l, err := s.repo.GetListing(ctx, id)
	if err != nil {
		return Listing{}, ErrNotFound
	}
	return l, nil
}

func (s *Service) ListListings(ctx context.Context, filter ListingFilter) ([]Listing, error) {
	return s.repo.ListListings(ctx, filter)
}

func (s *Service) AddListingPhoto(ctx context.Context, actorID, id, photoURL string) (Listing, error) {
	photoURL = strings.TrimSpace(photoURL)
	if photoURL == "" {
		return Listing{}, ErrInvalidInput
	}

	l, err := s.GetListing(ctx, id)
	if err != nil {
		return Listing{}, err
	}
	if l.OwnerID != actorID {
		return Listing{}, ErrForbidden
	}

	l.PhotoURLs = append(l.PhotoURLs, photoURL)
	l.UpdatedAt = s.now()
	if err := s.repo.UpdateListing(ctx, l); err != nil {
		return Listing{}, err
	}
	return l, nil
}

type ApplyInput struct {
	HomeType     string
	HasOtherPets bool
	Experience   string
	Motive       string
}

// Apply registra la postulación. Una sola pendiente por postulante y
// anuncio; el dueño no se postula a lo suyo. El anuncio pasa a pending
// con la primera solicitud viva.
func (s *Service) Apply(ctx context.Context, requesterID, listingID string, in ApplyInput) (AdoptionRequest, error) {
	requesterID = strings.TrimSpace(requesterID)
	if requesterID == "" {
		return AdoptionRequest{}, ErrInvalidInput
	}

	l, err := s.GetListing(ctx, listingID)
	if err != nil {
		return AdoptionRequest{}, err
	}
	if l.OwnerID == requesterID {
		return AdoptionRequest{}, ErrForbidden
	}
	if l.Status == ListingAdopted {
		return AdoptionRequest{}, ErrBadState
	}

	existing, err := s.repo.ListRequestsByListing(ctx, l.ID)
	if err != nil {
		return AdoptionRequest{}, err
	}
	for _, r := range existing {
		if r.RequesterID == requesterID && r.Status == RequestPending {
			return AdoptionRequest{}, ErrDuplicate
		}
	}

	now := s.now()
	req := AdoptionRequest{
		ID:           uuid.NewString(),
		ListingID:    l.ID,
		RequesterID:  requesterID,
		HomeType:     strings.TrimSpace(in.HomeType),
		HasOtherPets: in.HasOtherPets,
		Experience:   strings.TrimSpace(in.Experience),
		Motive:       strings.TrimSpace(in.Motive),
		Status:       RequestPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.CreateRequest(ctx, req); err != nil {
		return AdoptionRequest{}, err
	}

	if l.Status == ListingAvailable {
		l.Status = ListingPending
		l.UpdatedAt = now
		_ = s.repo.UpdateListing(ctx, l) // best-effort: la solicitud ya quedó
	}

	if s.notifier != nil {
		s.notifier.Notify(ctx, l.OwnerID, "adoption",
			"Tienes una nueva solicitud de adopción para "+l.PetName, "/adoptions/"+l.ID)
	}

	return req, nil
}

// ListRequests: solo el dueño del anuncio ve las postulaciones.
func (s *Service) ListRequests(ctx context.Context, actorID, listingID string) ([]AdoptionRequest, error) {
	l, err := s.GetListing(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if l.OwnerID != actorID {
		return nil, ErrForbidden
	}
	return s.repo.ListRequestsByListing(ctx, l.ID)
}

func (s *Service) MyRequests(ctx context.Context, requesterID string) ([]AdoptionRequest, error) {
	requesterID = strings.TrimSpace(requesterID)
	if requesterID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListRequestsByRequester(ctx, requesterID)
}

type ApproveInput struct {
	MeetingAt    *time.Time
	MeetingPlace string
}

// Approve aprueba una solicitud pendiente: el anuncio queda adopted y
// el resto de pendientes del mismo anuncio se rechaza en cascada.
// Todas las decisiones notifican al postulante afectado.
func (s *Service) Approve(ctx context.Context, actorID, requestID string, in ApproveInput) (AdoptionRequest, error) {
	req, l, err := s.requestForOwner(ctx, actorID, requestID)
	if err != nil {
		return AdoptionRequest{}, err
	}
	if req.Status != RequestPending {
		return AdoptionRequest{}, ErrBadState
	}

	now := s.now()
	req.Status = RequestApproved
	req.MeetingAt = in.MeetingAt
	req.MeetingPlace = strings.TrimSpace(in.MeetingPlace)
	req.UpdatedAt = now
	if err := s.repo.UpdateRequest(ctx, req); err != nil {
		return AdoptionRequest{}, err
	}

	l.Status = ListingAdopted
	l.UpdatedAt = now
	if err := s.repo.UpdateListing(ctx, l); err != nil {
		return AdoptionRequest{}, err
	}

	// rechazo en cascada del resto de pendientes
	others, err := s.repo.ListRequestsByListing(ctx, l.ID)
	if err == nil {
		for _, o := range others {
			if o.ID == req.ID || o.Status != RequestPending {
				continue
			}
			o.Status = RequestRejected
			o.UpdatedAt = now
			if uerr := s.repo.UpdateRequest(ctx, o); uerr == nil && s.notifier != nil {
				s.notifier.Notify(ctx, o.RequesterID, "adoption",
					"Tu solicitud de adopción de "+l.PetName+" fue rechazada", "/adoptions/"+l.ID)
			}
		}
	}

	if s.notifier != nil {
		msg := "Tu solicitud de adopción de " + l.PetName + " fue aprobada"
		if req.MeetingAt != nil {
			msg += "; hay un encuentro agendado"
		}
		s.notifier.Notify(ctx, req.RequesterID, "adoption", msg, "/adoptions/"+l.ID)
	}

	return req, nil
}

func (s *Service) Reject(ctx context.Context, actorID, requestID string) (AdoptionRequest, error) {
	req, l, err := s.requestForOwner(ctx, actorID, requestID)
	if err != nil {
		return AdoptionRequest{}, err
	}
	if req.Status != RequestPending {
		return AdoptionRequest{}, ErrBadState
	}

	req.Status = RequestRejected
	req.UpdatedAt = s.now()
	if err := s.repo.UpdateRequest(ctx, req); err != nil {
		return AdoptionRequest{}, err
	}

	if s.notifier != nil {
		s.notifier.Notify(ctx, req.RequesterID, "adoption",
			"Tu solicitud de adopción de "+l.PetName+" fue rechazada", "/adoptions/"+l.ID)
	}

	return req, nil
}

func (s *Service) requestForOwner(ctx context.Context, actorID, requestID string) (AdoptionRequest, Listing, error) {
	requestID = strings.TrimSpace(requestID)
	if requestID == "" {
		return AdoptionRequest{}, Listing{}, ErrInvalidInput
	}

	req, err := s.repo.GetRequest(ctx, requestID)
	if err != nil {
		return AdoptionRequest{}, Listing{}, ErrNotFound
	}
	l, err := s.repo.GetListing(ctx, req.ListingID)
	if err != nil {
		return AdoptionRequest{}, Listing{}, ErrNotFound
	}
	if l.OwnerID != actorID {
		return AdoptionRequest{}, Listing{}, ErrForbidden
	}
	return req, l, nil
}
