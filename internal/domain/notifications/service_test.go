package notifications

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	items     map[string]Notification
	failSaves bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{items: make(map[string]Notification)}
}

func (f *fakeRepo) Create(_ context.Context, n Notification) error {
	if f.failSaves {
		return errors.New("store down")
	}
	f.items[n.ID] = n
	return nil
}

func (f *fakeRepo) ListForUser(_ context.Context, userID string, _ int) ([]Notification, error) {
	var out []Notification
	for _, n := range f.items {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeRepo) CountUnread(_ context.Context, userID string) (int, error) {
	c := 0
	for _, n := range f.items {
		if n.UserID == userID && !n.Read {
			c++
		}
	}
	return c, nil
}

func (f *fakeRepo) MarkRead(_ context.Context, userID, id string) error {
	n, ok := f.items[id]
	if !ok || n.UserID != userID {
		return errors.New("not found")
	}
	n.Read = true
	f.items[id] = n
	return nil
}

func (f *fakeRepo) MarkAllRead(_ context.Context, userID string) error {
	for id, n := range f.items {
		if n.UserID == userID {
			n.Read = true
			f.items[id] = n
		}
	}
	return nil
}

type fakePublisher struct{ published []Notification }

func (f *fakePublisher) PublishNotification(_ string, n Notification) {
	f.published = append(f.published, n)
}

func newTestService(t *testing.T) (*Service, *fakeRepo, *fakePublisher) {
	t.Helper()
	repo := newFakeRepo()
	pub := &fakePublisher{}
	svc := NewService(repo, pub, nil)
	svc.now = func() time.Time { return time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC) }
	return svc, repo, pub
}

func TestNotifyInsertsAndPublishes(t *testing.T) {
	svc, repo, pub := newTestService(t)

	svc.Notify(context.Background(), "user-1", "adoption", "Tu solicitud fue aprobada", "/adoptions/l1")

	require.Len(t, repo.items, 1)
	require.Len(t, pub.published, 1)
	assert.Equal(t, "Tu solicitud fue aprobada", pub.published[0].Message)
	assert.False(t, pub.published[0].Read)
}

func TestNotifyIgnoresEmptyInput(t *testing.T) {
	svc, repo, _ := newTestService(t)

	svc.Notify(context.Background(), "", "x", "mensaje", "")
	svc.Notify(context.Background(), "user-1", "x", "  ", "")
	assert.Empty(t, repo.items)
}

func TestNotifySwallowsRepoFailure(t *testing.T) {
	svc, repo, pub := newTestService(t)
	repo.failSaves = true

	// no panic, no publish
	svc.Notify(context.Background(), "user-1", "x", "mensaje", "")
	assert.Empty(t, pub.published)
}

func TestMarkReadScopedToOwner(t *testing.T) {
	svc, repo, _ := newTestService(t)

	svc.Notify(context.Background(), "user-1", "x", "hola", "")
	var id string
	for k := range repo.items {
		id = k
	}

	err := svc.MarkRead(context.Background(), "user-2", id)
	require.ErrorIs(t, err, ErrNotFound)

	err = svc.MarkRead(context.Background(), "user-1", id)
	require.NoError(t, err)
	assert.True(t, repo.items[id].Read)
}

func TestUnreadCountAndMarkAll(t *testing.T) {
	svc, _, _ := newTestService(t)

	svc.Notify(context.Background(), "user-1", "x", "uno", "")
	svc.Notify(context.Background(), "user-1", "x", "dos", "")
	svc.Notify(context.Background(), "user-2", "x", "ajeno", "")

	n, err := svc.UnreadCount(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.NoError(t, svc.MarkAllRead(context.Background(), "user-1"))

	n, err = svc.UnreadCount(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	n, err = svc.UnreadCount(context.Background(), "user-2")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
