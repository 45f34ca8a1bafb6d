// Copyright (c) 2026 PrepDeck. All rights reserved.

package realtime

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConn(id, userID string, hub *Hub) *Conn {
	return NewConn(id, userID, nil, hub, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestConnEnqueueAfterShutdownDropsFrame(t *testing.T) {
	conn := newTestConn("c1", "", nil)

	require.True(t, conn.Enqueue([]byte(`{"type":"code-update"}`)))

	conn.shutdown()

	assert.False(t, conn.Enqueue([]byte(`{"type":"code-update"}`)))

	// shutdown is idempotent.
	conn.shutdown()
}

func TestHubDeliverAfterConnShutdownDoesNotPanic(t *testing.T) {
	hub := newTestHub(t)
	leaving := newTestConn("c1", "", hub)
	sender := &fakeMember{id: "c2"}

	ctx := context.Background()
	require.NoError(t, hub.Join(ctx, leaving, "session-1"))
	require.NoError(t, hub.Join(ctx, sender, "session-1"))

	// A delivery can snapshot the room before the leaving connection has
	// been dropped from it; this mirrors that interleaving by tearing the
	// connection down while deliveries keep arriving.
	leaving.shutdown()

	env := Envelope{
		SenderConn: sender.ID(),
		Event: Event{
			Type:      EventCodeUpdate,
			SessionID: "session-1",
			Payload:   json.RawMessage(`{"code":"x"}`),
		},
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hub.Deliver(env)
		}()
	}
	wg.Wait()

	hub.Disconnect(leaving)
	members := hub.Members("session-1")
	require.Len(t, members, 1)
	assert.Equal(t, sender.ID(), members[0].ID())
}
