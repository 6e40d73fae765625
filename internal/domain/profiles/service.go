package profiles

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrBadState     = errors.New("invalid state")
)

// FetchTimeout acota el fetch del perfil propio; si el storage no
// responde a tiempo se degrada a perfil invitado en vez de colgar la UI.
const FetchTimeout = 4 * time.Second

// Notifier es el side-effect de notificación; lo implementa el módulo
// notifications. Interfaz local para no acoplar imports entre dominios.
type Notifier interface {
	Notify(ctx context.Context, userID, ntype, message, link string)
}

type Service struct {
	repo     Repository
	notifier Notifier
	now      func() time.Time
}

func NewService(repo Repository, notifier Notifier) *Service {
	return &Service{
		repo:     repo,
		notifier: notifier,
		now:      time.Now,
	}
}

type CreateInput struct {
	DisplayName string
	Role        string
	Phone       string
}

// Create registra el perfil inicial de una cuenta recién creada.
// Lo llama el flujo de registro; el rol admin no se puede autoasignar.
func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (Profile, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Profile{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.DisplayName) == "" {
		return Profile{}, ErrInvalidInput
	}

	role := Role(strings.TrimSpace(in.Role))
	if role == "" {
		role = RoleUser
	}
	if !role.IsValid() || role == RoleAdmin {
		return Profile{}, ErrInvalidInput
	}

	now := s.now()
	p := Profile{
		ID:           userID,
		Role:         role,
		Verification: VerificationNone,
		DisplayName:  strings.TrimSpace(in.DisplayName),
		Phone:        strings.TrimSpace(in.Phone),
		Theme:        ThemeLight,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Profile{}, err
	}
	return p, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Profile, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Profile{}, ErrInvalidInput
	}
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Profile{}, ErrNotFound
	}
	return p, nil
}

// GetOrGuest intenta cargar el perfil con FetchTimeout. Cualquier fallo
// (timeout, no encontrado, storage caído) devuelve el perfil invitado;
// este camino nunca reporta error.
func (s *Service) GetOrGuest(ctx context.Context, id string) Profile {
	id = strings.TrimSpace(id)
	if id == "" {
		return Guest(id)
	}

	ctx, cancel := context.WithTimeout(ctx, FetchTimeout)
	defer cancel()

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Guest(id)
	}
	return p
}

// RoleOf expone el rol de un usuario. Lo usan otros módulos para
// autorizar (admin, vet, rescuer) sin duplicar lookups.
func (s *Service) RoleOf(ctx context.Context, userID string) (Role, error) {
	p, err := s.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	return p.Role, nil
}

type UpdateInput struct {
	// Punteros para PATCH real: nil = no tocar.
	DisplayName *string
	Phone       *string
	Address     *string
	Bio         *string
	ServiceInfo *string
	Theme       *string

	// Lat/Lng van juntos (pin del mapa). Ambos o ninguno.
	Lat *float64
	Lng *float64
}

func (s *Service) Update(ctx context.Context, userID string, in UpdateInput) (Profile, error) {
	p, err := s.GetByID(ctx, userID)
	if err != nil {
		return Profile{}, err
	}

	if in.DisplayName != nil {
		v := strings.TrimSpace(*in.DisplayName)
		if v == "" {
			return Profile{}, ErrInvalidInput
		}
		p.DisplayName = v
	}
	if in.Phone != nil {
		p.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Address != nil {
		p.Address = strings.TrimSpace(*in.Address)
	}
	if in.Bio != nil {
		p.Bio = strings.TrimSpace(*in.Bio)
	}
	if in.ServiceInfo != nil {
		p.ServiceInfo = strings.TrimSpace(*in.ServiceInfo)
	}
	if in.Theme != nil {
		th := Theme(strings.TrimSpace(*in.Theme))
		if !th.IsValid() {
			return Profile{}, ErrInvalidInput
		}
		p.Theme = th
	}

	if (in.Lat == nil) != (in.Lng == nil) {
		return Profile{}, ErrInvalidInput
	}
	if in.Lat != nil {
		p.Lat = *in.Lat
		p.Lng = *in.Lng
	}

	p.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, p); err != nil {
		return Profile{}, err
	}
	return p, nil
}

func (s *Service) SetAvatar(ctx context.Context, userID, avatarURL string) (Profile, error) {
	avatarURL = strings.TrimSpace(avatarURL)
	if avatarURL == "" {
		return Profile{}, ErrInvalidInput
	}

	p, err := s.GetByID(ctx, userID)
	if err != nil {
		return Profile{}, err
	}

	p.AvatarURL = avatarURL
	p.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, p); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// SubmitVerificationDoc guarda la URL del documento y pasa el perfil
// a pending. Solo roles que requieren verificación pueden enviarlo.
func (s *Service) SubmitVerificationDoc(ctx context.Context, userID, docURL string) (Profile, error) {
	docURL = strings.TrimSpace(docURL)
	if docURL == "" {
		return Profile{}, ErrInvalidInput
	}

	p, err := s.GetByID(ctx, userID)
	if err != nil {
		return Profile{}, err
	}

	if !p.Role.RequiresVerification() {
		return Profile{}, ErrBadState
	}
	if p.Verification == VerificationVerified {
		// ya verificado: no hay nada que re-enviar
		return Profile{}, ErrBadState
	}

	p.VerificationDocURL = docURL
	p.Verification = VerificationPending
	p.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, p); err != nil {
		return Profile{}, err
	}
	return p, nil
}

func (s *Service) ListPendingVerification(ctx context.Context) ([]Profile, error) {
	return s.repo.ListByVerification(ctx, VerificationPending)
}

// DecideVerification resuelve una verificación pendiente. La autorización
// (que quien decide sea admin) la valida el handler; acá solo la transición.
func (s *Service) DecideVerification(ctx context.Context, userID string, approve bool) (Profile, error) {
	p, err := s.GetByID(ctx, userID)
	if err != nil {
		return Profile{}, err
	}

	if p.Verification != VerificationPending {
		return Profile{}, ErrBadState
	}

	if approve {
		p.Verification = VerificationVerified
	} else {
		p.Verification = VerificationRejected
	}
	p.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, p); err != nil {
		return Profile{}, err
	}

	if s.notifier != nil {
		msg := "Tu verificación fue aprobada"
		if !approve {
			msg = "Tu verificación fue rechazada"
		}
		s.notifier.Notify(ctx, p.ID, "verification", msg, "/profile")
	}

	return p, nil
}

// ListDiscoverable lista perfiles de un rol descubrible (vets, rescuers,
// shelters) para el ranking por distancia del handler.
func (s *Service) ListDiscoverable(ctx context.Context, role Role) ([]Profile, error) {
	if !role.Discoverable() {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByRole(ctx, role)
}
