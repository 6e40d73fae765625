package auth

import "context"

// AuthVerifier valida un access token crudo y devuelve sus Claims.
// La implementación real vive en adapters/auth/jwt; el middleware
// acepta nil para operar en modo dev sin tokens.
type AuthVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}
