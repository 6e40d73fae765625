package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"pet-rescue-network/internal/domain/accounts"
)

type AccountsRepo struct {
	db *sql.DB
}

func NewAccountsRepo(db *sql.DB) *AccountsRepo {
	return &AccountsRepo{db: db}
}

func (r *AccountsRepo) Create(ctx context.Context, a accounts.Account) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO accounts (
			id, email, password_hash,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5)
	`,
		a.ID,
		strings.ToLower(a.Email),
		a.PasswordHash,
		a.CreatedAt,
		a.UpdatedAt,
	)
	return err
}

func (r *AccountsRepo) GetByID(ctx context.Context, id string) (accounts.Account, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return accounts.Account{}, ErrNotFound
	}
	return r.scanOne(r.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, created_at, updated_at
		FROM accounts
		WHERE id = $1
	`, id))
}

func (r *AccountsRepo) GetByEmail(ctx context.Context, email string) (accounts.Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return accounts.Account{}, ErrNotFound
	}
	return r.scanOne(r.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, created_at, updated_at
		FROM accounts
		WHERE email = $1
	`, email))
}

func (r *AccountsRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE accounts
		SET password_hash = $2, updated_at = NOW()
		WHERE id = $1
	`, id, passwordHash)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *AccountsRepo) scanOne(row *sql.Row) (accounts.Account, error) {
	var a accounts.Account
	if err := row.Scan(
		&a.ID,
		&a.Email,
		&a.PasswordHash,
		&a.CreatedAt,
		&a.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return accounts.Account{}, ErrNotFound
		}
		return accounts.Account{}, err
	}
	return a, nil
}

type TokensRepo struct {
	db *sql.DB
}

func NewTokensRepo(db *sql.DB) *TokensRepo {
	return &TokensRepo{db: db}
}

func (r *TokensRepo) Store(ctx context.Context, t accounts.RefreshToken) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO refresh_tokens (
			hash, user_id, expires_at, created_at, revoked_at
		) VALUES ($1,$2,$3,$4,$5)
	`,
		t.Hash,
		t.UserID,
		t.ExpiresAt,
		t.CreatedAt,
		toNullTime(t.RevokedAt),
	)
	return err
}

func (r *TokensRepo) Get(ctx context.Context, hash string) (accounts.RefreshToken, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT hash, user_id, expires_at, created_at, revoked_at
		FROM refresh_tokens
		WHERE hash = $1
	`, hash)

	var t accounts.RefreshToken
	var revoked sql.NullTime
	if err := row.Scan(
		&t.Hash,
		&t.UserID,
		&t.ExpiresAt,
		&t.CreatedAt,
		&revoked,
	); err != nil {
		if err == sql.ErrNoRows {
			return accounts.RefreshToken{}, ErrNotFound
		}
		return accounts.RefreshToken{}, err
	}

	if revoked.Valid {
		at := revoked.Time
		t.RevokedAt = &at
	}
	return t, nil
}

func (r *TokensRepo) Revoke(ctx context.Context, hash string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE refresh_tokens
		SET revoked_at = NOW()
		WHERE hash = $1 AND revoked_at IS NULL
	`, hash)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *TokensRepo) RevokeAllForUser(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE refresh_tokens
		SET revoked_at = NOW()
		WHERE user_id = $1 AND revoked_at IS NULL
	`, userID)
	return err
}

func toNullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{Valid: false}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
