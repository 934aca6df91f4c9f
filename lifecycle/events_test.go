package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubDeliversToSubscribers(t *testing.T) {
	hub := NewHub()
	ch := hub.Subscribe()
	defer hub.Unsubscribe(ch)

	hub.Publish(Event{Kind: EventLeadPromoted, SourceID: 3, NewID: 8})

	ev := <-ch
	assert.Equal(t, EventLeadPromoted, ev.Kind)
	assert.EqualValues(t, 3, ev.SourceID)
	assert.EqualValues(t, 8, ev.NewID)
	assert.False(t, ev.At.IsZero())
}

func TestHubDropsWhenSubscriberIsFull(t *testing.T) {
	hub := NewHub()
	ch := hub.Subscribe()
	defer hub.Unsubscribe(ch)

	// Overflow the buffer; Publish must never block
	for i := 0; i < 100; i++ {
		hub.Publish(Event{Kind: EventTasksScheduled, SourceID: uint(i)})
	}

	require.Len(t, ch, cap(ch))
}

func TestHubNilSafePublish(t *testing.T) {
	var hub *Hub
	assert.NotPanics(t, func() {
		hub.Publish(Event{Kind: EventLeadDropped})
	})
}
