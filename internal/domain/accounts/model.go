package accounts

import "time"

// Account es la credencial; el perfil visible vive en profiles con el
// mismo ID. Nunca se expone PasswordHash fuera de este paquete.
type Account struct {
	ID           string
	Email        string
	PasswordHash string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// RefreshToken se persiste solo como hash sha256; el token crudo se
// entrega una única vez al cliente.
type RefreshToken struct {
	Hash      string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
	RevokedAt *time.Time
}

func (t RefreshToken) Usable(now time.Time) bool {
	return t.RevokedAt == nil && now.Before(t.ExpiresAt)
}
