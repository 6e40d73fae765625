package accounts

import "context"

type Repository interface {
	Create(ctx context.Context, a Account) error
	GetByID(ctx context.Context, id string) (Account, error)
	GetByEmail(ctx context.Context, email string) (Account, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

type TokenRepository interface {
	Store(ctx context.Context, t RefreshToken) error
	Get(ctx context.Context, hash string) (RefreshToken, error)
	Revoke(ctx context.Context, hash string) error
	RevokeAllForUser(ctx context.Context, userID string) error
}
