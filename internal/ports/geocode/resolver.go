package geocode

import "context"

// Resolver convierte una dirección en texto libre a coordenadas.
// Best-effort: los callers siguen sin coordenadas si falla.
type Resolver interface {
	Resolve(ctx context.Context, address string) (lat, lng float64, err error)
}
