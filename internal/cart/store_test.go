package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"go.uber.org/zap"
)

func TestStoreBroadcastsEveryChange(t *testing.T) {
	store := NewStore(NewReducer(), zap.NewNop())

	var notifications []State
	store.Subscribe(func(s State) {
		notifications = append(notifications, s)
	})

	orchid := testOrchid("o-1", "Phalaenopsis", "10.00")
	store.AddItem(orchid, 2)
	store.SetQuantity(orchid.ID, 5)
	store.RemoveItem(orchid.ID)

	assert.Len(t, notifications, 3)
	assert.Equal(t, 2, notifications[0].ItemCount)
	assert.Equal(t, 5, notifications[1].ItemCount)
	assert.Equal(t, 0, notifications[2].ItemCount)
}

func TestStoreRejectsProductWithoutID(t *testing.T) {
	store := NewStore(NewReducer(), zap.NewNop())

	notified := false
	store.Subscribe(func(State) { notified = true })

	store.AddItem(testOrchid("", "nameless", "10.00"), 1)

	assert.True(t, store.IsEmpty())
	assert.False(t, notified, "a rejected add must not broadcast")
}

func TestStoreSkipsBroadcastWhenNothingChanged(t *testing.T) {
	store := NewStore(NewReducer(), zap.NewNop())
	store.AddItem(testOrchid("o-1", "Phalaenopsis", "10.00"), 2)

	notifications := 0
	store.Subscribe(func(State) { notifications++ })

	store.RemoveItem("missing")
	store.SetQuantity("missing", 4)
	assert.Equal(t, 0, notifications, "no-op commands must not re-render")

	store.RemoveItem("o-1")
	assert.Equal(t, 1, notifications)

	// Clearing an already-empty cart is also a no-op
	store.Clear()
	assert.Equal(t, 1, notifications)
}

func TestStoreDefaultsQuantityToOne(t *testing.T) {
	store := NewStore(NewReducer(), zap.NewNop())

	store.AddItem(testOrchid("o-1", "Phalaenopsis", "10.00"), 0)

	assert.Equal(t, 1, store.State().ItemCount)
}
