package memory

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"pet-rescue-network/internal/domain/accounts"
)

type accountRepo struct {
	mu      sync.RWMutex
	byID    map[string]accounts.Account
	byEmail map[string]string // email -> id
}

func NewAccountRepo() accounts.Repository {
	return &accountRepo{
		byID:    make(map[string]accounts.Account),
		byEmail: make(map[string]string),
	}
}

func (r *accountRepo) Create(ctx context.Context, a accounts.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(a.ID) == "" {
		return errors.New("account id required")
	}
	email := strings.ToLower(strings.TrimSpace(a.Email))
	if _, exists := r.byID[a.ID]; exists {
		return errors.New("account already exists")
	}
	if _, exists := r.byEmail[email]; exists {
		return errors.New("email already taken")
	}

	r.byID[a.ID] = a
	r.byEmail[email] = a.ID
	return nil
}

func (r *accountRepo) GetByID(ctx context.Context, id string) (accounts.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return accounts.Account{}, ErrNotFound
	}
	return a, nil
}

func (r *accountRepo) GetByEmail(ctx context.Context, email string) (accounts.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return accounts.Account{}, ErrNotFound
	}
	return r.byID[id], nil
}

func (r *accountRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	a.PasswordHash = passwordHash
	a.UpdatedAt = time.Now()
	r.byID[id] = a
	return nil
}

type tokenRepo struct {
	mu     sync.RWMutex
	byHash map[string]accounts.RefreshToken
}

func NewTokenRepo() accounts.TokenRepository {
	return &tokenRepo{byHash: make(map[string]accounts.RefreshToken)}
}

func (r *tokenRepo) Store(ctx context.Context, t accounts.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(t.Hash) == "" {
		return errors.New("token hash required")
	}
	r.byHash[t.Hash] = t
	return nil
}

func (r *tokenRepo) Get(ctx context.Context, hash string) (accounts.RefreshToken, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.byHash[hash]
	if !ok {
		return accounts.RefreshToken{}, ErrNotFound
	}
	return t, nil
}

func (r *tokenRepo) Revoke(ctx context.Context, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.byHash[hash]
	if !ok {
		return ErrNotFound
	}
	now := time.Now()
	t.RevokedAt = &now
	r.byHash[hash] = t
	return nil
}

func (r *tokenRepo) RevokeAllForUser(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	for hash, t := range r.byHash {
		if t.UserID == userID && t.RevokedAt == nil {
			t.RevokedAt = &now
			r.byHash[hash] = t
		}
	}
	return nil
}
