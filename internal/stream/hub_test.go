package stream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(ch <-chan Event) []Event {
	var events []Event
	for {
		select {
		case e, ok := <-ch:
			if !ok {
				return events
			}
			events = append(events, e)
		default:
			return events
		}
	}
}

func TestPublish_FansOutToAllSessions(t *testing.T) {
	hub := NewHub(4)
	a := hub.Connect()
	b := hub.Connect()
	require.NotNil(t, a)
	require.NotNil(t, b)

	hub.Publish("new_incident", "payload")

	for _, session := range []*Session{a, b} {
		events := drain(session.Events())
		require.Len(t, events, 1)
		assert.Equal(t, "new_incident", events[0].Event)
		assert.Equal(t, "payload", events[0].Data)
	}
}

func TestPublish_NoBacklogForLateSessions(t *testing.T) {
	hub := NewHub(4)

	hub.Publish("new_incident", "before")

	late := hub.Connect()
	require.NotNil(t, late)
	assert.Empty(t, drain(late.Events()), "sessions only receive events published after they connect")
}

func TestPublish_DropsOverflowedSession(t *testing.T) {
	hub := NewHub(1)
	slow := hub.Connect()
	fast := hub.Connect()

	// The slow session never reads; its one-slot buffer fills on the first
	// publish and the second publish drops it.
	hub.Publish("new_incident", 1)
	hub.Publish("new_incident", 2)

	assert.Equal(t, 1, hub.Len())

	_, open := <-slow.Events()
	// First buffered event is still delivered, then the channel closes.
	assert.True(t, open)
	_, open = <-slow.Events()
	assert.False(t, open, "dropped session's channel must be closed")

	events := drain(fast.Events())
	require.Len(t, events, 2)
	assert.Equal(t, 2, events[1].Data, "other sessions are unaffected")
}

func TestDisconnect_Idempotent(t *testing.T) {
	hub := NewHub(4)
	session := hub.Connect()

	hub.Disconnect(session.ID)
	hub.Disconnect(session.ID)

	assert.Equal(t, 0, hub.Len())

	_, open := <-session.Events()
	assert.False(t, open)
}

func TestClose_DisconnectsAndRejectsConnects(t *testing.T) {
	hub := NewHub(4)
	session := hub.Connect()

	hub.Close()
	hub.Close()

	assert.Equal(t, 0, hub.Len())

	_, open := <-session.Events()
	assert.False(t, open)

	assert.Nil(t, hub.Connect(), "connects after close are rejected")

	// Publishing into a closed hub is a no-op.
	hub.Publish("new_incident", "payload")
}
