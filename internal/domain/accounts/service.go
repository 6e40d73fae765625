package accounts

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"pet-rescue-network/internal/auth"
	"pet-rescue-network/internal/domain/profiles"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrBadToken           = errors.New("invalid refresh token")
)

const refreshTokenTTL = 30 * 24 * time.Hour

// ProfileRegistrar crea el perfil al registrarse. Lo implementa
// profiles.Service; interfaz local para testear sin todo el módulo.
type ProfileRegistrar interface {
	Create(ctx context.Context, userID string, in profiles.CreateInput) (profiles.Profile, error)
}

type Service struct {
	repo     Repository
	tokens   TokenRepository
	registry ProfileRegistrar
	secret   string
	now      func() time.Time
}

func NewService(repo Repository, tokens TokenRepository, registry ProfileRegistrar, secret string) *Service {
	if strings.TrimSpace(secret) == "" {
		secret = "dev-secret" // solo para modo dev sin JWT_SECRET
	}
	return &Service{
		repo:     repo,
		tokens:   tokens,
		registry: registry,
		secret:   secret,
		now:      time.Now,
	}
}

type RegisterInput struct {
	Email       string
	Password    string
	DisplayName string
	Role        string
	Phone       string
}

type Session struct {
	Account      Account
	Profile      profiles.Profile
	AccessToken  string
	RefreshToken string
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (Session, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || !strings.Contains(email, "@") {
		return Session{}, ErrInvalidInput
	}
	if len(in.Password) < 8 {
		return Session{}, ErrInvalidInput
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return Session{}, ErrEmailTaken
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return Session{}, err
	}

	now := s.now()
	a := Account{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return Session{}, err
	}

	// Si el perfil falla queda una cuenta sin perfil; GetOrGuest la
	// cubre con el perfil invitado, así que no hacemos rollback.
	p, err := s.registry.Create(ctx, a.ID, profiles.CreateInput{
		DisplayName: in.DisplayName,
		Role:        in.Role,
		Phone:       in.Phone,
	})
	if err != nil {
		return Session{}, err
	}

	sess, err := s.issueSession(ctx, a)
	if err != nil {
		return Session{}, err
	}
	sess.Profile = p
	return sess, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return Session{}, ErrInvalidInput
	}

	a, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return Session{}, ErrInvalidCredentials
	}
	if !auth.CheckPassword(a.PasswordHash, password) {
		return Session{}, ErrInvalidCredentials
	}

	return s.issueSession(ctx, a)
}

// Refresh rota el refresh token: el usado queda revocado y se emite
// un par nuevo. Un token revocado o vencido corta la sesión.
func (s *Service) Refresh(ctx context.Context, rawRefresh string) (Session, error) {
	rawRefresh = strings.TrimSpace(rawRefresh)
	if rawRefresh == "" {
		return Session{}, ErrInvalidInput
	}

	t, err := s.tokens.Get(ctx, auth.HashRefreshToken(rawRefresh))
	if err != nil || !t.Usable(s.now()) {
		return Session{}, ErrBadToken
	}

	a, err := s.repo.GetByID(ctx, t.UserID)
	if err != nil {
		return Session{}, ErrBadToken
	}

	_ = s.tokens.Revoke(ctx, t.Hash)
	return s.issueSession(ctx, a)
}

func (s *Service) Logout(ctx context.Context, rawRefresh string) error {
	rawRefresh = strings.TrimSpace(rawRefresh)
	if rawRefresh == "" {
		return ErrInvalidInput
	}
	return s.tokens.Revoke(ctx, auth.HashRefreshToken(rawRefresh))
}

// ChangePassword exige la contraseña vigente y revoca todos los refresh
// tokens del usuario (cierra las demás sesiones).
func (s *Service) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	if len(newPassword) < 8 {
		return ErrInvalidInput
	}

	a, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return ErrInvalidCredentials
	}
	if !auth.CheckPassword(a.PasswordHash, oldPassword) {
		return ErrInvalidCredentials
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}

	if err := s.repo.UpdatePassword(ctx, a.ID, hash); err != nil {
		return err
	}
	return s.tokens.RevokeAllForUser(ctx, a.ID)
}

func (s *Service) issueSession(ctx context.Context, a Account) (Session, error) {
	access, err := auth.MakeToken(a.ID, a.Email, s.secret)
	if err != nil {
		return Session{}, err
	}

	raw, hash, err := auth.GenerateRefreshToken()
	if err != nil {
		return Session{}, err
	}

	now := s.now()
	if err := s.tokens.Store(ctx, RefreshToken{
		Hash:      hash,
		UserID:    a.ID,
		ExpiresAt: now.Add(refreshTokenTTL),
		CreatedAt: now,
	}); err != nil {
		return Session{}, err
	}

	return Session{
		Account:      a,
		AccessToken:  access,
		RefreshToken: raw,
	}, nil
}
