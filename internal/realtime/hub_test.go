// Copyright (c) 2026 PrepDeck. All rights reserved.

package realtime

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHub(t *testing.T, opts ...HubOption) *Hub {
	t.Helper()
	return NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)), opts...)
}

func decodeFrames(t *testing.T, frames [][]byte) []Event {
	t.Helper()
	events := make([]Event, 0, len(frames))
	for _, frame := range frames {
		var ev Event
		require.NoError(t, json.Unmarshal(frame, &ev))
		events = append(events, ev)
	}
	return events
}

func TestHubBroadcastExcludesSender(t *testing.T) {
	hub := newTestHub(t)
	sender := &fakeMember{id: "c1", userID: "u1"}
	peer := &fakeMember{id: "c2", userID: "u2"}
	observer := &fakeMember{id: "c3"}

	ctx := context.Background()
	require.NoError(t, hub.Join(ctx, sender, "session-1"))
	require.NoError(t, hub.Join(ctx, peer, "session-1"))
	require.NoError(t, hub.Join(ctx, observer, "session-1"))

	ev := Event{
		Type:      EventCodeUpdate,
		SessionID: "session-1",
		Payload:   json.RawMessage(`{"code":"func main() {}"}`),
	}
	require.NoError(t, hub.Broadcast(ctx, sender, ev))

	assert.Empty(t, sender.frames, "sender must not receive its own event")
	require.Len(t, peer.frames, 1)
	require.Len(t, observer.frames, 1)

	got := decodeFrames(t, peer.frames)[0]
	assert.Equal(t, EventCodeUpdate, got.Type)
	assert.Equal(t, "session-1", got.SessionID)
	assert.JSONEq(t, `{"code":"func main() {}"}`, string(got.Payload))
}

func TestHubBroadcastStaysWithinRoom(t *testing.T) {
	hub := newTestHub(t)
	sender := &fakeMember{id: "c1"}
	sameRoom := &fakeMember{id: "c2"}
	otherRoom := &fakeMember{id: "c3"}

	ctx := context.Background()
	require.NoError(t, hub.Join(ctx, sender, "session-1"))
	require.NoError(t, hub.Join(ctx, sameRoom, "session-1"))
	require.NoError(t, hub.Join(ctx, otherRoom, "session-2"))

	ev := Event{Type: EventInterviewProgress, SessionID: "session-1"}
	require.NoError(t, hub.Broadcast(ctx, sender, ev))

	assert.Len(t, sameRoom.frames, 1)
	assert.Empty(t, otherRoom.frames)
}

func TestHubBroadcastRequiresMembership(t *testing.T) {
	hub := newTestHub(t)
	outsider := &fakeMember{id: "c1"}
	insider := &fakeMember{id: "c2"}

	ctx := context.Background()
	require.NoError(t, hub.Join(ctx, insider, "session-1"))

	ev := Event{Type: EventCodeUpdate, SessionID: "session-1"}
	assert.Error(t, hub.Broadcast(ctx, outsider, ev))
	assert.Empty(t, insider.frames)
}

func TestHubBroadcastRejectsNonBroadcastableTypes(t *testing.T) {
	hub := newTestHub(t)
	sender := &fakeMember{id: "c1"}

	ctx := context.Background()
	require.NoError(t, hub.Join(ctx, sender, "session-1"))

	assert.Error(t, hub.Broadcast(ctx, sender, Event{Type: EventJoinInterview, SessionID: "session-1"}))
	assert.Error(t, hub.Broadcast(ctx, sender, Event{Type: "bogus", SessionID: "session-1"}))
	assert.Error(t, hub.Broadcast(ctx, sender, Event{Type: EventCodeUpdate}))
}

func TestHubDeliveryIsBestEffort(t *testing.T) {
	hub := newTestHub(t)
	sender := &fakeMember{id: "c1"}
	healthy := &fakeMember{id: "c2"}
	saturated := &fakeMember{id: "c3", full: true}

	ctx := context.Background()
	require.NoError(t, hub.Join(ctx, sender, "session-1"))
	require.NoError(t, hub.Join(ctx, healthy, "session-1"))
	require.NoError(t, hub.Join(ctx, saturated, "session-1"))

	ev := Event{Type: EventCodeUpdate, SessionID: "session-1"}
	require.NoError(t, hub.Broadcast(ctx, sender, ev))

	assert.Len(t, healthy.frames, 1, "a saturated peer must not block delivery to others")
	assert.Empty(t, saturated.frames)
}

func TestHubJoinAfterBroadcastMissesEarlierEvents(t *testing.T) {
	hub := newTestHub(t)
	sender := &fakeMember{id: "c1"}
	late := &fakeMember{id: "c2"}

	ctx := context.Background()
	require.NoError(t, hub.Join(ctx, sender, "session-1"))
	require.NoError(t, hub.Broadcast(ctx, sender, Event{Type: EventCodeUpdate, SessionID: "session-1"}))

	require.NoError(t, hub.Join(ctx, late, "session-1"))
	assert.Empty(t, late.frames)

	require.NoError(t, hub.Broadcast(ctx, sender, Event{Type: EventCodeUpdate, SessionID: "session-1"}))
	assert.Len(t, late.frames, 1)
}

func TestHubAuthorizerGatesAuthenticatedJoins(t *testing.T) {
	authorize := JoinAuthorizerFunc(func(_ context.Context, userID, sessionID string) error {
		if userID == "u-owner" {
			return nil
		}
		return ErrJoinDenied
	})
	hub := newTestHub(t, WithAuthorizer(authorize))
	ctx := context.Background()

	owner := &fakeMember{id: "c1", userID: "u-owner"}
	stranger := &fakeMember{id: "c2", userID: "u-stranger"}
	anonymous := &fakeMember{id: "c3"}

	assert.NoError(t, hub.Join(ctx, owner, "session-1"))
	assert.ErrorIs(t, hub.Join(ctx, stranger, "session-1"), ErrJoinDenied)
	// Anonymous observers are not subject to the participant check.
	assert.NoError(t, hub.Join(ctx, anonymous, "session-1"))

	assert.Equal(t, 2, hub.registry.MemberCount("session-1"))
}

func TestHubDisconnectRemovesMemberFromRooms(t *testing.T) {
	hub := newTestHub(t)
	sender := &fakeMember{id: "c1"}
	leaver := &fakeMember{id: "c2"}

	ctx := context.Background()
	require.NoError(t, hub.Join(ctx, sender, "session-1"))
	require.NoError(t, hub.Join(ctx, leaver, "session-1"))

	hub.Disconnect(leaver)
	require.NoError(t, hub.Broadcast(ctx, sender, Event{Type: EventCodeUpdate, SessionID: "session-1"}))

	assert.Empty(t, leaver.frames)
	assert.Equal(t, 1, hub.registry.MemberCount("session-1"))
}

func TestLocalBrokerDeliversSynchronously(t *testing.T) {
	var got []Envelope
	broker := NewLocalBroker(func(env Envelope) { got = append(got, env) })
	t.Cleanup(func() { _ = broker.Close() })

	env := Envelope{SenderConn: "c1", Event: Event{Type: EventCodeUpdate, SessionID: "session-1"}}
	require.NoError(t, broker.Publish(context.Background(), env))

	require.Len(t, got, 1)
	assert.Equal(t, env, got[0])
}
