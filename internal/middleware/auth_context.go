package middleware

import (
	"context"
	"net/http"
	"strings"

	"pet-rescue-network/internal/ports/auth"
)

// DebugUserHeader inyecta identidad en modo dev (sin JWT_SECRET).
// Nunca se consulta cuando hay verifier configurado.
const DebugUserHeader = "X-Debug-User-ID"

type claimsKey struct{}

// AuthContext resuelve la identidad del request y la deja en el
// contexto. Nunca corta el request: un token ausente o inválido deja
// el contexto sin claims y cada handler decide si exige sesión.
func AuthContext(verifier auth.AuthVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := resolveClaims(r, verifier)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			ctx := context.WithValue(r.Context(), claimsKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func resolveClaims(r *http.Request, verifier auth.AuthVerifier) (auth.Claims, bool) {
	// Modo dev: identidad por header, sin firma.
	if verifier == nil {
		c := auth.Claims{UserID: strings.TrimSpace(r.Header.Get(DebugUserHeader))}
		return c, !c.Anonymous()
	}

	token := bearerToken(r.Header.Get("Authorization"))
	if token == "" {
		return auth.Claims{}, false
	}

	claims, err := verifier.Verify(r.Context(), token)
	if err != nil || claims.Anonymous() {
		return auth.Claims{}, false
	}
	return claims, true
}

func GetClaims(ctx context.Context) (auth.Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(auth.Claims)
	return c, ok
}

func bearerToken(header string) string {
	const prefix = "bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
