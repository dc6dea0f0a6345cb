package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetMissesWhenEmpty(t *testing.T) {
	c := NewTTL[string](time.Minute)

	_, ok := c.Get("key")
	assert.False(t, ok)
}

func TestSetThenGet(t *testing.T) {
	c := NewTTL[string](time.Minute)

	c.Set("key", "value")
	got, ok := c.Get("key")
	assert.True(t, ok)
	assert.Equal(t, "value", got)
}

func TestEntriesExpireAfterTTL(t *testing.T) {
	c := NewTTL[string](5 * time.Minute)

	current := time.Now()
	c.now = func() time.Time { return current }

	c.Set("key", "value")

	current = current.Add(5*time.Minute - time.Second)
	_, ok := c.Get("key")
	assert.True(t, ok, "entry must still be fresh just inside the window")

	current = current.Add(2 * time.Second)
	_, ok = c.Get("key")
	assert.False(t, ok, "entry must expire at the TTL boundary")

	// The expired entry was dropped, not just hidden
	c.mu.RLock()
	_, present := c.entries["key"]
	c.mu.RUnlock()
	assert.False(t, present)
}

func TestPurge(t *testing.T) {
	c := NewTTL[int](time.Minute)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Purge()

	_, ok := c.Get("a")
	assert.False(t, ok)
	_, ok = c.Get("b")
	assert.False(t, ok)
}
