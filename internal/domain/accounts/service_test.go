package accounts

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet-rescue-network/internal/domain/profiles"
)

type fakeRepo struct {
	byID    map[string]Account
	byEmail map[string]Account
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		byID:    make(map[string]Account),
		byEmail: make(map[string]Account),
	}
}

func (f *fakeRepo) Create(_ context.Context, a Account) error {
	f.byID[a.ID] = a
	f.byEmail[a.Email] = a
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (Account, error) {
	a, ok := f.byID[id]
	if !ok {
		return Account{}, errors.New("not found")
	}
	return a, nil
}

func (f *fakeRepo) GetByEmail(_ context.Context, email string) (Account, error) {
	a, ok := f.byEmail[email]
	if !ok {
		return Account{}, errors.New("not found")
	}
	return a, nil
}

func (f *fakeRepo) UpdatePassword(_ context.Context, id, passwordHash string) error {
	a, ok := f.byID[id]
	if !ok {
		return errors.New("not found")
	}
	a.PasswordHash = passwordHash
	f.byID[id] = a
	f.byEmail[a.Email] = a
	return nil
}

type fakeTokenRepo struct {
	byHash map[string]RefreshToken
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{byHash: make(map[string]RefreshToken)}
}

func (f *fakeTokenRepo) Store(_ context.Context, t RefreshToken) error {
	f.byHash[t.Hash] = t
	return nil
}

func (f *fakeTokenRepo) Get(_ context.Context, hash string) (RefreshToken, error) {
	t, ok := f.byHash[hash]
	if !ok {
		return RefreshToken{}, errors.New("not found")
	}
	return t, nil
}

func (f *fakeTokenRepo) Revoke(_ context.Context, hash string) error {
	t, ok := f.byHash[hash]
	if !ok {
		return errors.New("not found")
	}
	now := time.Now()
	t.RevokedAt = &now
	f.byHash[hash] = t
	return nil
}

func (f *fakeTokenRepo) RevokeAllForUser(_ context.Context, userID string) error {
	now := time.Now()
	for hash, t := range f.byHash {
		if t.UserID == userID && t.RevokedAt == nil {
			t.RevokedAt = &now
			f.byHash[hash] = t
		}
	}
	return nil
}

func (f *fakeTokenRepo) activeFor(userID string) int {
	c := 0
	for _, t := range f.byHash {
		if t.UserID == userID && t.RevokedAt == nil {
			c++
		}
	}
	return c
}

type fakeRegistrar struct {
	created map[string]profiles.CreateInput
	fail    bool
}

func (f *fakeRegistrar) Create(_ context.Context, userID string, in profiles.CreateInput) (profiles.Profile, error) {
	if f.fail {
		return profiles.Profile{}, errors.New("profiles down")
	}
	if f.created == nil {
		f.created = make(map[string]profiles.CreateInput)
	}
	f.created[userID] = in
	return profiles.Profile{ID: userID, DisplayName: in.DisplayName}, nil
}

func newTestService(t *testing.T) (*Service, *fakeRepo, *fakeTokenRepo, *fakeRegistrar) {
	t.Helper()
	repo := newFakeRepo()
	tokens := newFakeTokenRepo()
	registrar := &fakeRegistrar{}
	svc := NewService(repo, tokens, registrar, "test-secret")
	return svc, repo, tokens, registrar
}

func validRegister() RegisterInput {
	return RegisterInput{
		Email:       "ana@example.com",
		Password:    "contraseña-larga",
		DisplayName: "Ana",
	}
}

func TestRegister_CreatesAccountAndProfile(t *testing.T) {
	svc, repo, _, registrar := newTestService(t)

	sess, err := svc.Register(context.Background(), validRegister())
	require.NoError(t, err)

	assert.NotEmpty(t, sess.Account.ID)
	assert.NotEmpty(t, sess.AccessToken)
	assert.NotEmpty(t, sess.RefreshToken)
	assert.Equal(t, "Ana", sess.Profile.DisplayName)

	_, ok := repo.byEmail["ana@example.com"]
	assert.True(t, ok)
	assert.Contains(t, registrar.created, sess.Account.ID)
}

func TestRegister_NormalizesEmail(t *testing.T) {
	svc, repo, _, _ := newTestService(t)

	_, err := svc.Register(context.Background(), RegisterInput{
		Email:       "  Ana@Example.COM ",
		Password:    "contraseña-larga",
		DisplayName: "Ana",
	})
	require.NoError(t, err)

	_, ok := repo.byEmail["ana@example.com"]
	assert.True(t, ok)
}

func TestRegister_RejectsShortPassword(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	in := validRegister()
	in.Password = "corta"
	_, err := svc.Register(context.Background(), in)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRegister_RejectsDuplicateEmail(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.Register(context.Background(), validRegister())
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), validRegister())
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	_, err := svc.Register(context.Background(), validRegister())
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "ana@example.com", "otra-contraseña")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.Login(context.Background(), "nadie@example.com", "lo-que-sea")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_IssuesFreshSession(t *testing.T) {
	svc, _, tokens, _ := newTestService(t)
	reg, err := svc.Register(context.Background(), validRegister())
	require.NoError(t, err)

	sess, err := svc.Login(context.Background(), "ana@example.com", "contraseña-larga")
	require.NoError(t, err)

	assert.NotEqual(t, reg.RefreshToken, sess.RefreshToken)
	assert.Equal(t, 2, tokens.activeFor(reg.Account.ID))
}

func TestRefresh_RotatesToken(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	reg, err := svc.Register(context.Background(), validRegister())
	require.NoError(t, err)

	sess, err := svc.Refresh(context.Background(), reg.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, reg.RefreshToken, sess.RefreshToken)

	// El token usado queda revocado: reutilizarlo corta la sesión.
	_, err = svc.Refresh(context.Background(), reg.RefreshToken)
	assert.ErrorIs(t, err, ErrBadToken)

	// El nuevo sigue vivo.
	_, err = svc.Refresh(context.Background(), sess.RefreshToken)
	assert.NoError(t, err)
}

func TestRefresh_RejectsExpiredToken(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	reg, err := svc.Register(context.Background(), validRegister())
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(refreshTokenTTL + time.Hour) }
	_, err = svc.Refresh(context.Background(), reg.RefreshToken)
	assert.ErrorIs(t, err, ErrBadToken)
}

func TestLogout_RevokesToken(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	reg, err := svc.Register(context.Background(), validRegister())
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), reg.RefreshToken))

	_, err = svc.Refresh(context.Background(), reg.RefreshToken)
	assert.ErrorIs(t, err, ErrBadToken)
}

func TestChangePassword_RevokesAllSessions(t *testing.T) {
	svc, _, tokens, _ := newTestService(t)
	reg, err := svc.Register(context.Background(), validRegister())
	require.NoError(t, err)
	_, err = svc.Login(context.Background(), "ana@example.com", "contraseña-larga")
	require.NoError(t, err)
	require.Equal(t, 2, tokens.activeFor(reg.Account.ID))

	err = svc.ChangePassword(context.Background(), reg.Account.ID, "contraseña-larga", "otra-muy-larga")
	require.NoError(t, err)

	assert.Equal(t, 0, tokens.activeFor(reg.Account.ID))

	_, err = svc.Login(context.Background(), "ana@example.com", "contraseña-larga")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), "ana@example.com", "otra-muy-larga")
	assert.NoError(t, err)
}

func TestChangePassword_RequiresCurrentPassword(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	reg, err := svc.Register(context.Background(), validRegister())
	require.NoError(t, err)

	err = svc.ChangePassword(context.Background(), reg.Account.ID, "equivocada", "otra-muy-larga")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
