package profiles

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	items    map[string]Profile
	failGets bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{items: make(map[string]Profile)}
}

func (f *fakeRepo) Create(_ context.Context, p Profile) error {
	f.items[p.ID] = p
	return nil
}

func (f *fakeRepo) Update(_ context.Context, p Profile) error {
	if _, ok := f.items[p.ID]; !ok {
		return errors.New("not found")
	}
	f.items[p.ID] = p
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (Profile, error) {
	if f.failGets {
		return Profile{}, errors.New("store down")
	}
	p, ok := f.items[id]
	if !ok {
		return Profile{}, errors.New("not found")
	}
	return p, nil
}

func (f *fakeRepo) ListByRole(_ context.Context, role Role) ([]Profile, error) {
	var out []Profile
	for _, p := range f.items {
		if p.Role == role {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListByVerification(_ context.Context, status VerificationStatus) ([]Profile, error) {
	var out []Profile
	for _, p := range f.items {
		if p.Verification == status {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeNotifier struct{ sent []string }

func (f *fakeNotifier) Notify(_ context.Context, userID, ntype, message, link string) {
	f.sent = append(f.sent, userID+"|"+ntype)
}

func newTestService(t *testing.T) (*Service, *fakeRepo, *fakeNotifier) {
	t.Helper()
	repo := newFakeRepo()
	notifier := &fakeNotifier{}
	svc := NewService(repo, notifier)
	svc.now = func() time.Time { return time.Date(2026, 4, 10, 9, 0, 0, 0, time.UTC) }
	return svc, repo, notifier
}

func TestCreate_DefaultsToUserRole(t *testing.T) {
	svc, _, _ := newTestService(t)

	p, err := svc.Create(context.Background(), "u-1", CreateInput{DisplayName: "Ana"})
	require.NoError(t, err)

	assert.Equal(t, RoleUser, p.Role)
	assert.Equal(t, VerificationNone, p.Verification)
	assert.Equal(t, ThemeLight, p.Theme)
}

func TestCreate_RejectsSelfAssignedAdmin(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Create(context.Background(), "u-1", CreateInput{
		DisplayName: "Ana",
		Role:        "admin",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCreate_RejectsUnknownRole(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Create(context.Background(), "u-1", CreateInput{
		DisplayName: "Ana",
		Role:        "superuser",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetOrGuest_FallsBackWhenStorageFails(t *testing.T) {
	svc, repo, _ := newTestService(t)
	repo.failGets = true

	p := svc.GetOrGuest(context.Background(), "u-1")

	assert.Equal(t, "u-1", p.ID)
	assert.Equal(t, "Invitado", p.DisplayName)
	assert.Equal(t, RoleUser, p.Role)
}

func TestGetOrGuest_ReturnsStoredProfile(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.Create(context.Background(), "u-1", CreateInput{DisplayName: "Ana"})
	require.NoError(t, err)

	p := svc.GetOrGuest(context.Background(), "u-1")
	assert.Equal(t, "Ana", p.DisplayName)
}

func TestUpdate_PatchesOnlyProvidedFields(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.Create(context.Background(), "u-1", CreateInput{
		DisplayName: "Ana",
		Phone:       "555-0001",
	})
	require.NoError(t, err)

	bio := "Rescato gatos"
	p, err := svc.Update(context.Background(), "u-1", UpdateInput{Bio: &bio})
	require.NoError(t, err)

	assert.Equal(t, "Rescato gatos", p.Bio)
	assert.Equal(t, "Ana", p.DisplayName)
	assert.Equal(t, "555-0001", p.Phone)
}

func TestUpdate_RejectsEmptyDisplayName(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.Create(context.Background(), "u-1", CreateInput{DisplayName: "Ana"})
	require.NoError(t, err)

	empty := "  "
	_, err = svc.Update(context.Background(), "u-1", UpdateInput{DisplayName: &empty})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdate_LatLngGoTogether(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.Create(context.Background(), "u-1", CreateInput{DisplayName: "Ana"})
	require.NoError(t, err)

	lat := -12.0464
	_, err = svc.Update(context.Background(), "u-1", UpdateInput{Lat: &lat})
	assert.ErrorIs(t, err, ErrInvalidInput)

	lng := -77.0428
	p, err := svc.Update(context.Background(), "u-1", UpdateInput{Lat: &lat, Lng: &lng})
	require.NoError(t, err)
	assert.Equal(t, lat, p.Lat)
	assert.Equal(t, lng, p.Lng)
}

func TestUpdate_RejectsInvalidTheme(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.Create(context.Background(), "u-1", CreateInput{DisplayName: "Ana"})
	require.NoError(t, err)

	th := "solarized"
	_, err = svc.Update(context.Background(), "u-1", UpdateInput{Theme: &th})
	assert.ErrorIs(t, err, ErrInvalidInput)

	dark := "dark"
	p, err := svc.Update(context.Background(), "u-1", UpdateInput{Theme: &dark})
	require.NoError(t, err)
	assert.Equal(t, ThemeDark, p.Theme)
}

func TestSubmitVerificationDoc_OnlyRolesThatRequireIt(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.Create(context.Background(), "u-1", CreateInput{DisplayName: "Ana"})
	require.NoError(t, err)

	_, err = svc.SubmitVerificationDoc(context.Background(), "u-1", "/files/docs/dni.pdf")
	assert.ErrorIs(t, err, ErrBadState)
}

func TestSubmitVerificationDoc_MovesToPending(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.Create(context.Background(), "r-1", CreateInput{
		DisplayName: "Rosa",
		Role:        "rescuer",
	})
	require.NoError(t, err)

	p, err := svc.SubmitVerificationDoc(context.Background(), "r-1", "/files/docs/carnet.pdf")
	require.NoError(t, err)

	assert.Equal(t, VerificationPending, p.Verification)
	assert.Equal(t, "/files/docs/carnet.pdf", p.VerificationDocURL)
}

func TestDecideVerification_ApprovesAndNotifies(t *testing.T) {
	svc, _, notifier := newTestService(t)
	_, err := svc.Create(context.Background(), "r-1", CreateInput{
		DisplayName: "Rosa",
		Role:        "rescuer",
	})
	require.NoError(t, err)
	_, err = svc.SubmitVerificationDoc(context.Background(), "r-1", "/files/docs/carnet.pdf")
	require.NoError(t, err)

	pending, err := svc.ListPendingVerification(context.Background())
	require.NoError(t, err)
	require.Len(t, pending, 1)

	p, err := svc.DecideVerification(context.Background(), "r-1", true)
	require.NoError(t, err)

	assert.Equal(t, VerificationVerified, p.Verification)
	assert.Contains(t, notifier.sent, "r-1|verification")
}

func TestDecideVerification_RequiresPending(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.Create(context.Background(), "r-1", CreateInput{
		DisplayName: "Rosa",
		Role:        "rescuer",
	})
	require.NoError(t, err)

	// Sin documento enviado no hay nada que decidir.
	_, err = svc.DecideVerification(context.Background(), "r-1", true)
	assert.ErrorIs(t, err, ErrBadState)
}

func TestDecideVerification_RejectedCannotBeReDecided(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.Create(context.Background(), "v-1", CreateInput{
		DisplayName: "Clínica Sur",
		Role:        "vet",
	})
	require.NoError(t, err)
	_, err = svc.SubmitVerificationDoc(context.Background(), "v-1", "/files/docs/licencia.pdf")
	require.NoError(t, err)

	p, err := svc.DecideVerification(context.Background(), "v-1", false)
	require.NoError(t, err)
	assert.Equal(t, VerificationRejected, p.Verification)

	_, err = svc.DecideVerification(context.Background(), "v-1", true)
	assert.ErrorIs(t, err, ErrBadState)

	// Puede re-enviar documento y volver a pending.
	p, err = svc.SubmitVerificationDoc(context.Background(), "v-1", "/files/docs/licencia-v2.pdf")
	require.NoError(t, err)
	assert.Equal(t, VerificationPending, p.Verification)
}

func TestListDiscoverable_RejectsNonDiscoverableRoles(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.ListDiscoverable(context.Background(), RoleUser)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.ListDiscoverable(context.Background(), RoleAdmin)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestListDiscoverable_FiltersByRole(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.Create(context.Background(), "v-1", CreateInput{DisplayName: "Clínica Sur", Role: "vet"})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), "u-1", CreateInput{DisplayName: "Ana"})
	require.NoError(t, err)

	vets, err := svc.ListDiscoverable(context.Background(), RoleVet)
	require.NoError(t, err)
	require.Len(t, vets, 1)
	assert.Equal(t, "v-1", vets[0].ID)
}
