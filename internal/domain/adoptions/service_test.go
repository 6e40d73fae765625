package adoptions

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	listings map[string]Listing
	requests map[string]AdoptionRequest
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		listings: make(map[string]Listing),
		requests: make(map[string]AdoptionRequest),
	}
}

func (f *fakeRepo) CreateListing(_ context.Context, l Listing) error {
	f.listings[l.ID] = l
	return nil
}

func (f *fakeRepo) UpdateListing(_ context.Context, l Listing) error {
	if _, ok := f.listings[l.ID]; !ok {
		return errors.New("not found")
	}
	f.listings[l.ID] = l
	return nil
}

func (f *fakeRepo) GetListing(_ context.Context, id string) (Listing, error) {
	l, ok := f.listings[id]
	if !ok {
		return Listing{}, errors.New("not found")
	}
	return l, nil
}

func (f *fakeRepo) ListListings(_ context.Context, filter ListingFilter) ([]Listing, error) {
	out := make([]Listing, 0, len(f.listings))
	for _, l := range f.listings {
		if filter.OwnerID != "" && l.OwnerID != filter.OwnerID {
			continue
		}
		if filter.Status != "" && l.Status != filter.Status {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

func (f *fakeRepo) CreateRequest(_ context.Context, r AdoptionRequest) error {
	f.requests[r.ID] = r
	return nil
}

func (f *fakeRepo) UpdateRequest(_ context.Context, r AdoptionRequest) error {
	if _, ok := f.requests[r.ID]; !ok {
		return errors.New("not found")
	}
	f.requests[r.ID] = r
	return nil
}

func (f *fakeRepo) GetRequest(_ context.Context, id string) (AdoptionRequest, error) {
	r, ok := f.requests[id]
	if !ok {
		return AdoptionRequest{}, errors.New("not found")
	}
	return r, nil
}

func (f *fakeRepo) ListRequestsByListing(_ context.Context, listingID string) ([]AdoptionRequest, error) {
	var out []AdoptionRequest
	for _, r := range f.requests {
		if r.ListingID == listingID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListRequestsByRequester(_ context.Context, requesterID string) ([]AdoptionRequest, error) {
	var out []AdoptionRequest
	for _, r := range f.requests {
		if r.RequesterID == requesterID {
			out = append(out, r)
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

func (f *fakeNotifier) sentTo(userID string) int {
	n := 0
	for _, s := range f.sent {
		if s.UserID == userID {
			n++
		}
	}
	return n
}

func newTestService(t *testing.T) (*Service, *fakeRepo, *fakeNotifier) {
	t.Helper()
	repo := newFakeRepo()
	notifier := &fakeNotifier{}
	svc := NewService(repo, notifier)
	svc.now = func() time.Time { return time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC) }
	return svc, repo, notifier
}

func mustListing(t *testing.T, svc *Service, ownerID string) Listing {
	t.Helper()
	l, err := svc.CreateListing(context.Background(), ownerID, CreateListingInput{
		PetName: "Coco",
		Species: "perro",
	})
	require.NoError(t, err)
	return l
}

func TestApplyMovesListingToPending(t *testing.T) {
	svc, repo, notifier := newTestService(t)
	l := mustListing(t, svc, "shelter-1")

	req, err := svc.Apply(context.Background(), "adopter-1", l.ID, ApplyInput{
		HomeType: "departamento",
		Motive:   "Siempre quise un perro",
	})
	require.NoError(t, err)

	assert.Equal(t, RequestPending, req.Status)
	assert.Equal(t, ListingPending, repo.listings[l.ID].Status)
	assert.Equal(t, 1, notifier.sentTo("shelter-1"))
}

func TestApplyOnePendingPerRequester(t *testing.T) {
	svc, _, _ := newTestService(t)
	l := mustListing(t, svc, "shelter-1")

	_, err := svc.Apply(context.Background(), "adopter-1", l.ID, ApplyInput{})
	require.NoError(t, err)

	_, err = svc.Apply(context.Background(), "adopter-1", l.ID, ApplyInput{})
	require.ErrorIs(t, err, ErrDuplicate)

	// otro postulante sí puede
	_, err = svc.Apply(context.Background(), "adopter-2", l.ID, ApplyInput{})
	require.NoError(t, err)
}

func TestApplyOwnListingForbidden(t *testing.T) {
	svc, _, _ := newTestService(t)
	l := mustListing(t, svc, "shelter-1")

	_, err := svc.Apply(context.Background(), "shelter-1", l.ID, ApplyInput{})
	require.ErrorIs(t, err, ErrForbidden)
}

func TestApplyRejectedOnAdoptedListing(t *testing.T) {
	svc, _, _ := newTestService(t)
	l := mustListing(t, svc, "shelter-1")

	req, err := svc.Apply(context.Background(), "adopter-1", l.ID, ApplyInput{})
	require.NoError(t, err)
	_, err = svc.Approve(context.Background(), "shelter-1", req.ID, ApproveInput{})
	require.NoError(t, err)

	_, err = svc.Apply(context.Background(), "adopter-2", l.ID, ApplyInput{})
	require.ErrorIs(t, err, ErrBadState)
}

func TestApproveCascadesRejections(t *testing.T) {
	svc, repo, notifier := newTestService(t)
	l := mustListing(t, svc, "shelter-1")

	winner, err := svc.Apply(context.Background(), "adopter-1", l.ID, ApplyInput{})
	require.NoError(t, err)
	loser, err := svc.Apply(context.Background(), "adopter-2", l.ID, ApplyInput{})
	require.NoError(t, err)
	notifier.sent = nil

	at := time.Date(2026, 4, 5, 16, 0, 0, 0, time.UTC)
	got, err := svc.Approve(context.Background(), "shelter-1", winner.ID, ApproveInput{
		MeetingAt:    &at,
		MeetingPlace: "Refugio, Av. Brasil 200",
	})
	require.NoError(t, err)

	assert.Equal(t, RequestApproved, got.Status)
	require.NotNil(t, got.MeetingAt)
	assert.Equal(t, "Refugio, Av. Brasil 200", got.MeetingPlace)

	assert.Equal(t, ListingAdopted, repo.listings[l.ID].Status)
	assert.Equal(t, RequestRejected, repo.requests[loser.ID].Status)

	assert.Equal(t, 1, notifier.sentTo("adopter-1"))
	assert.Equal(t, 1, notifier.sentTo("adopter-2"))
}

func TestApproveOnlyListingOwner(t *testing.T) {
	svc, _, _ := newTestService(t)
	l := mustListing(t, svc, "shelter-1")

	req, err := svc.Apply(context.Background(), "adopter-1", l.ID, ApplyInput{})
	require.NoError(t, err)

	_, err = svc.Approve(context.Background(), "otro", req.ID, ApproveInput{})
	require.ErrorIs(t, err, ErrForbidden)
}

func TestDecisionsAreTerminal(t *testing.T) {
	svc, _, _ := newTestService(t)
	l := mustListing(t, svc, "shelter-1")

	req, err := svc.Apply(context.Background(), "adopter-1", l.ID, ApplyInput{})
	require.NoError(t, err)

	_, err = svc.Reject(context.Background(), "shelter-1", req.ID)
	require.NoError(t, err)

	_, err = svc.Approve(context.Background(), "shelter-1", req.ID, ApproveInput{})
	require.ErrorIs(t, err, ErrBadState)
	_, err = svc.Reject(context.Background(), "shelter-1", req.ID)
	require.ErrorIs(t, err, ErrBadState)
}

func TestListRequestsOwnerOnly(t *testing.T) {
	svc, _, _ := newTestService(t)
	l := mustListing(t, svc, "shelter-1")

	_, err := svc.Apply(context.Background(), "adopter-1", l.ID, ApplyInput{})
	require.NoError(t, err)

	_, err = svc.ListRequests(context.Background(), "adopter-1", l.ID)
	require.ErrorIs(t, err, ErrForbidden)

	items, err := svc.ListRequests(context.Background(), "shelter-1", l.ID)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}
