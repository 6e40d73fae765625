package jwt

import (
	"context"
	"errors"
	"strings"

	internalauth "pet-rescue-network/internal/auth"
	"pet-rescue-network/internal/ports/auth"
)

var (
	ErrTokenEmpty    = errors.New("token is empty")
	ErrNotConfigured = errors.New("jwt verifier not configured")
	ErrMissingUserID = errors.New("token claims missing user id")
)

// Verifier implementa auth.AuthVerifier validando JWTs HS256 propios.
// Se instancia desde main/router solo cuando hay JWT_SECRET configurado;
// sin secret el middleware queda en modo dev (X-Debug-User-ID).
type Verifier struct {
	secret string
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: strings.TrimSpace(secret)}
}

func (v *Verifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	if v == nil || v.secret == "" {
		return auth.Claims{}, ErrNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrTokenEmpty
	}

	c, err := internalauth.ParseToken(token, v.secret)
	if err != nil {
		return auth.Claims{}, err
	}

	uid := strings.TrimSpace(c.UserID)
	if uid == "" {
		return auth.Claims{}, ErrMissingUserID
	}

	return auth.Claims{UserID: uid, Email: c.Email}, nil
}
