// Copyright (c) 2026 PrepDeck. All rights reserved.

/*
Package realtime implements the live interview-room coordination layer.

It turns disconnected HTTP clients into multi-party interview rooms: a
connection joins a room named after an interview session, and every event it
emits (code edits, progress updates) is relayed to the other members of that
room.

Architecture:

  - Registry: owns room membership (reference-counted; a room exists only
    while it has members).
  - Hub: routes inbound events from connections to the [Broker].
  - Broker: fan-out seam. The process-local implementation delivers directly;
    the Redis implementation relays through pub/sub so members connected to
    other server processes receive the event too.
  - Conn: one websocket connection with its read/write pumps.

Delivery contract: at-least-once to currently-joined members, unordered
across senders, best-effort — no acknowledgement, no retry, no persistence.
A member that joins after an event was sent never receives it.
*/
package realtime

import "encoding/json"

// EventType identifies a realtime frame.
type EventType string

const (
	// EventJoinInterview is a client request to join a session's room.
	EventJoinInterview EventType = "join-interview"

	// EventCodeUpdate carries a collaborative code edit.
	EventCodeUpdate EventType = "code-update"

	// EventInterviewProgress carries an interview progress update.
	EventInterviewProgress EventType = "interview-progress"

	// EventError is sent back to a client whose frame was rejected.
	EventError EventType = "error"
)

// Event is a single frame on the realtime channel.
//
// Payload is kept as raw JSON and relayed verbatim: the coordination layer
// never inspects or rewrites what interview clients exchange.
type Event struct {
	Type      EventType       `json:"type"`
	SessionID string          `json:"sessionId"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Message   string          `json:"message,omitempty"`
}

// IsBroadcastable reports whether this event type may be relayed into a room.
func (t EventType) IsBroadcastable() bool {
	return t == EventCodeUpdate || t == EventInterviewProgress
}

// Envelope wraps an event for transit through a [Broker]. SenderConn is the
// connection ID of the original sender so the subscribing process can exclude
// it from delivery.
type Envelope struct {
	SenderConn string `json:"sender_conn"`
	Event      Event  `json:"event"`
}
