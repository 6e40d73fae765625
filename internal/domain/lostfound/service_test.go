package lostfound

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	reports   map[string]LostPetReport
	sightings []SightingReport
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{reports: make(map[string]LostPetReport)}
}

func (f *fakeRepo) Create(_ context.Context, r LostPetReport) error {
	f.reports[r.ID] = r
	return nil
}

func (f *fakeRepo) Update(_ context.Context, r LostPetReport) error {
	if _, ok := f.reports[r.ID]; !ok {
		return errors.New("not found")
	}
	f.reports[r.ID] = r
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (LostPetReport, error) {
	r, ok := f.reports[id]
	if !ok {
		return LostPetReport{}, errors.New("not found")
	}
	return r, nil
}

func (f *fakeRepo) List(_ context.Context, filter ListFilter) ([]LostPetReport, error) {
	out := make([]LostPetReport, 0, len(f.reports))
	for _, r := range f.reports {
		if filter.ReporterID != "" && r.ReporterID != filter.ReporterID {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeRepo) Delete(_ context.Context, id string) error {
	delete(f.reports, id)
	return nil
}

func (f *fakeRepo) CreateSighting(_ context.Context, s SightingReport) error {
	f.sightings = append(f.sightings, s)
	return nil
}

func (f *fakeRepo) ListSightings(_ context.Context, reportID string) ([]SightingReport, error) {
	var out []SightingReport
	for _, s := range f.sightings {
		if s.ReportID == reportID {
			out = append(out, s)
		}
	}
	return out, nil
}

type recordedNotification struct {
	UserID, Type, Message, Link string
}

type fakeNotifier struct{ sent []recordedNotification }

func (f *fakeNotifier) Notify(_ context.Context, userID, ntype, message, link string) {
	f.sent = append(f.sent, recordedNotification{userID, ntype, message, link})
}

func newTestService(t *testing.T) (*Service, *fakeRepo, *fakeNotifier) {
	t.Helper()
	repo := newFakeRepo()
	notifier := &fakeNotifier{}
	svc := NewService(repo, notifier, nil)
	svc.now = func() time.Time { return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC) }
	return svc, repo, notifier
}

func TestCreateLostReportRejectsCustody(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Create(context.Background(), "owner-1", CreateInput{
		Type:         TypeLost,
		Species:      "perro",
		LocationText: "Parque Kennedy, Miraflores",
		Custody:      CustodyUserHolding,
	})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestCreateFoundUserHolding(t *testing.T) {
	svc, _, notifier := newTestService(t)

	r, err := svc.Create(context.Background(), "finder-1", CreateInput{
		Type:         TypeFound,
		Species:      "gato",
		LocationText: "Av. Arequipa 1234",
		Custody:      CustodyUserHolding,
	})
	require.NoError(t, err)

	assert.Equal(t, StatusFound, r.Status)
	assert.Equal(t, CustodyUserHolding, r.Custody)
	assert.Empty(t, r.CustodyRescuerID)
	assert.Empty(t, notifier.sent)
}

func TestCreateFoundRescuerNotified(t *testing.T) {
	svc, _, notifier := newTestService(t)

	r, err := svc.Create(context.Background(), "finder-1", CreateInput{
		Type:             TypeFound,
		Species:          "perro",
		LocationText:     "Jr. de la Unión 500",
		Custody:          CustodyRescuerNotified,
		CustodyRescuerID: "rescuer-9",
	})
	require.NoError(t, err)

	assert.Equal(t, "rescuer-9", r.CustodyRescuerID)
	require.Len(t, notifier.sent, 1)
	assert.Equal(t, "rescuer-9", notifier.sent[0].UserID)
	assert.Equal(t, "custody", notifier.sent[0].Type)
}

func TestCreateFoundRescuerNotifiedRequiresRescuer(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Create(context.Background(), "finder-1", CreateInput{
		Type:         TypeFound,
		Species:      "perro",
		LocationText: "Jr. de la Unión 500",
		Custody:      CustodyRescuerNotified,
	})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestCreateFoundRejectsInShelterAtCreation(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Create(context.Background(), "finder-1", CreateInput{
		Type:         TypeFound,
		Species:      "perro",
		LocationText: "Jr. de la Unión 500",
		Custody:      CustodyInShelter,
	})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestMarkReunitedOnlyTouchesStatus(t *testing.T) {
	svc, repo, _ := newTestService(t)

	created, err := svc.Create(context.Background(), "owner-1", CreateInput{
		Type:         TypeLost,
		PetName:      "Rocky",
		Species:      "perro",
		Description:  "Collar rojo",
		LocationText: "Surco",
	})
	require.NoError(t, err)

	got, err := svc.MarkReunited(context.Background(), "owner-1", created.ID)
	require.NoError(t, err)

	assert.Equal(t, StatusReunited, got.Status)
	assert.Equal(t, created.PetName, got.PetName)
	assert.Equal(t, created.Description, got.Description)
	assert.Equal(t, created.Custody, got.Custody)

	stored := repo.reports[created.ID]
	assert.Equal(t, StatusReunited, stored.Status)
}

func TestMarkReunitedForbiddenForOthers(t *testing.T) {
	svc, _, _ := newTestService(t)

	created, err := svc.Create(context.Background(), "owner-1", CreateInput{
		Type:         TypeLost,
		Species:      "perro",
		LocationText: "Surco",
	})
	require.NoError(t, err)

	_, err = svc.MarkReunited(context.Background(), "otro", created.ID)
	require.ErrorIs(t, err, ErrForbidden)
}

func TestMarkReunitedIdempotent(t *testing.T) {
	svc, _, _ := newTestService(t)

	created, err := svc.Create(context.Background(), "owner-1", CreateInput{
		Type:         TypeLost,
		Species:      "gato",
		LocationText: "Barranco",
	})
	require.NoError(t, err)

	_, err = svc.MarkReunited(context.Background(), "owner-1", created.ID)
	require.NoError(t, err)

	again, err := svc.MarkReunited(context.Background(), "owner-1", created.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusReunited, again.Status)
}

func TestSchedulePickupFlow(t *testing.T) {
	svc, _, notifier := newTestService(t)

	created, err := svc.Create(context.Background(), "finder-1", CreateInput{
		Type:             TypeFound,
		Species:          "perro",
		LocationText:     "La Molina",
		Custody:          CustodyRescuerNotified,
		CustodyRescuerID: "rescuer-9",
	})
	require.NoError(t, err)
	notifier.sent = nil

	at := time.Date(2026, 3, 12, 15, 30, 0, 0, time.UTC)
	got, err := svc.SchedulePickup(context.Background(), "rescuer-9", created.ID, at, "Llevar transportadora")
	require.NoError(t, err)

	assert.Equal(t, CustodyPickupScheduled, got.Custody)
	require.NotNil(t, got.PickupAt)
	assert.True(t, got.PickupAt.Equal(at))
	assert.Equal(t, "Llevar transportadora", got.PickupNote)

	// se avisa al finder, no al rescatista
	require.Len(t, notifier.sent, 1)
	assert.Equal(t, "finder-1", notifier.sent[0].UserID)
}

func TestSchedulePickupOnlyAssignedRescuer(t *testing.T) {
	svc, _, _ := newTestService(t)

	created, err := svc.Create(context.Background(), "finder-1", CreateInput{
		Type:             TypeFound,
		Species:          "perro",
		LocationText:     "La Molina",
		Custody:          CustodyRescuerNotified,
		CustodyRescuerID: "rescuer-9",
	})
	require.NoError(t, err)

	_, err = svc.SchedulePickup(context.Background(), "rescuer-otro", created.ID, time.Now(), "")
	require.ErrorIs(t, err, ErrForbidden)
}

func TestSchedulePickupRejectsWrongState(t *testing.T) {
	svc, repo, _ := newTestService(t)

	created, err := svc.Create(context.Background(), "finder-1", CreateInput{
		Type:             TypeFound,
		Species:          "perro",
		LocationText:     "La Molina",
		Custody:          CustodyRescuerNotified,
		CustodyRescuerID: "rescuer-9",
	})
	require.NoError(t, err)

	_, err = svc.SchedulePickup(context.Background(), "rescuer-9", created.ID, time.Now(), "")
	require.NoError(t, err)

	// segunda vez: ya no está en rescuer_notified
	_, err = svc.SchedulePickup(context.Background(), "rescuer-9", created.ID, time.Now(), "")
	require.ErrorIs(t, err, ErrBadState)

	assert.Equal(t, CustodyPickupScheduled, repo.reports[created.ID].Custody)
}

func TestAddSightingAdvancesLostToSighted(t *testing.T) {
	svc, repo, notifier := newTestService(t)

	created, err := svc.Create(context.Background(), "owner-1", CreateInput{
		Type:         TypeLost,
		Species:      "perro",
		LocationText: "San Isidro",
	})
	require.NoError(t, err)

	sight, err := svc.AddSighting(context.Background(), "", created.ID, SightingInput{
		LocationText: "Parque El Olivar",
		Note:         "Lo vi cerca de la laguna",
	})
	require.NoError(t, err)

	assert.Empty(t, sight.ReporterID) // anónimo
	assert.Equal(t, StatusSighted, repo.reports[created.ID].Status)

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, "owner-1", notifier.sent[0].UserID)
	assert.Equal(t, "sighting", notifier.sent[0].Type)
}

func TestAddSightingRejectedOnReunited(t *testing.T) {
	svc, _, _ := newTestService(t)

	created, err := svc.Create(context.Background(), "owner-1", CreateInput{
		Type:         TypeLost,
		Species:      "perro",
		LocationText: "San Isidro",
	})
	require.NoError(t, err)

	_, err = svc.MarkReunited(context.Background(), "owner-1", created.ID)
	require.NoError(t, err)

	_, err = svc.AddSighting(context.Background(), "viewer-1", created.ID, SightingInput{
		LocationText: "Parque El Olivar",
	})
	require.ErrorIs(t, err, ErrBadState)
}

func TestUpdateOwnerOnlyPatch(t *testing.T) {
	svc, _, _ := newTestService(t)

	created, err := svc.Create(context.Background(), "owner-1", CreateInput{
		Type:         TypeLost,
		PetName:      "Luna",
		Species:      "gato",
		LocationText: "Pueblo Libre",
	})
	require.NoError(t, err)

	desc := "Gata siamés, ojos azules"
	got, err := svc.Update(context.Background(), "owner-1", created.ID, UpdateInput{Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, desc, got.Description)
	assert.Equal(t, "Luna", got.PetName)

	_, err = svc.Update(context.Background(), "otro", created.ID, UpdateInput{Description: &desc})
	require.ErrorIs(t, err, ErrForbidden)
}

func TestDeleteOwnerOrAdmin(t *testing.T) {
	svc, repo, _ := newTestService(t)

	created, err := svc.Create(context.Background(), "owner-1", CreateInput{
		Type:         TypeLost,
		Species:      "perro",
		LocationText: "Callao",
	})
	require.NoError(t, err)

	err = svc.Delete(context.Background(), "otro", created.ID, false)
	require.ErrorIs(t, err, ErrForbidden)

	err = svc.Delete(context.Background(), "otro", created.ID, true)
	require.NoError(t, err)
	assert.Empty(t, repo.reports)
}
