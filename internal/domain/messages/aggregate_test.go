package messages

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func msgAt(id, from, to string, read bool, at time.Time) Message {
	return Message{
		ID:         id,
		SenderID:   from,
		ReceiverID: to,
		Text:       "m-" + id,
		Read:       read,
		CreatedAt:  at,
	}
}

func TestAggregate_OneEntryPerCounterpart(t *testing.T) {
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	msgs := []Message{
		msgAt("1", "ana", "me", false, base),
		msgAt("2", "me", "ana", true, base.Add(1*time.Minute)),
		msgAt("3", "ana", "me", false, base.Add(2*time.Minute)),
		msgAt("4", "bob", "me", false, base.Add(30*time.Second)),
		msgAt("5", "me", "carla", true, base.Add(3*time.Minute)),
	}

	convs := Aggregate("me", msgs, nil)

	assert.Len(t, convs, 3)

	seen := map[string]Conversation{}
	for _, c := range convs {
		seen[c.CounterpartID] = c
	}
	assert.Contains(t, seen, "ana")
	assert.Contains(t, seen, "bob")
	assert.Contains(t, seen, "carla")
}

func TestAggregate_UnreadCountsOnlyMessagesToMe(t *testing.T) {
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	msgs := []Message{
		msgAt("1", "ana", "me", false, base),
		msgAt("2", "ana", "me", false, base.Add(time.Minute)),
		msgAt("3", "ana", "me", true, base.Add(2*time.Minute)),
		// los que yo mandé no cuentan aunque estén sin leer
		msgAt("4", "me", "ana", false, base.Add(3*time.Minute)),
	}

	convs := Aggregate("me", msgs, nil)

	assert.Len(t, convs, 1)
	assert.Equal(t, 2, convs[0].UnreadCount)
}

func TestAggregate_RepresentativeIsMostRecent(t *testing.T) {
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	msgs := []Message{
		msgAt("old", "ana", "me", true, base),
		msgAt("newest", "me", "ana", false, base.Add(time.Hour)),
		msgAt("mid", "ana", "me", true, base.Add(time.Minute)),
	}

	convs := Aggregate("me", msgs, nil)

	assert.Len(t, convs, 1)
	assert.Equal(t, "newest", convs[0].LastMessage.ID)
}

func TestAggregate_SortedDescByRepresentative(t *testing.T) {
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	msgs := []Message{
		msgAt("1", "ana", "me", true, base),
		msgAt("2", "bob", "me", true, base.Add(time.Hour)),
		msgAt("3", "carla", "me", true, base.Add(time.Minute)),
	}

	convs := Aggregate("me", msgs, nil)

	assert.Len(t, convs, 3)
	assert.Equal(t, "bob", convs[0].CounterpartID)
	assert.Equal(t, "carla", convs[1].CounterpartID)
	assert.Equal(t, "ana", convs[2].CounterpartID)
}

func TestAggregate_TimestampTieKeepsInputOrder(t *testing.T) {
	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	msgs := []Message{
		msgAt("first", "ana", "me", true, at),
		msgAt("second", "ana", "me", true, at),
	}

	convs := Aggregate("me", msgs, nil)

	assert.Len(t, convs, 1)
	assert.Equal(t, "first", convs[0].LastMessage.ID)
}

func TestAggregate_UnresolvableCounterpartGetsPlaceholder(t *testing.T) {
	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	msgs := []Message{
		msgAt("1", "ghost", "me", false, at),
	}

	convs := Aggregate("me", msgs, func(id string) (DisplayInfo, bool) {
		return DisplayInfo{}, false
	})

	assert.Len(t, convs, 1)
	assert.Equal(t, "ghost", convs[0].CounterpartID)
	assert.Equal(t, "Usuario", convs[0].CounterpartName)
	assert.Equal(t, 1, convs[0].UnreadCount)
}

func TestAggregate_ResolvedCounterpartUsesProfile(t *testing.T) {
	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	msgs := []Message{
		msgAt("1", "ana", "me", false, at),
	}

	convs := Aggregate("me", msgs, func(id string) (DisplayInfo, bool) {
		return DisplayInfo{Name: "Ana", AvatarURL: "/files/avatars/a.jpg"}, true
	})

	assert.Equal(t, "Ana", convs[0].CounterpartName)
	assert.Equal(t, "/files/avatars/a.jpg", convs[0].CounterpartAvatar)
}

func TestAggregate_Empty(t *testing.T) {
	convs := Aggregate("me", nil, nil)
	assert.Empty(t, convs)
}
