// Copyright (c) 2026 PrepDeck. All rights reserved.

package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
)

// ErrJoinDenied is returned by a [JoinAuthorizer] that refuses a join.
var ErrJoinDenied = errors.New("not a participant of this interview")

// JoinAuthorizer decides whether an authenticated user may join a session's
// room. A nil authorizer admits everyone holding a valid connection.
type JoinAuthorizer interface {
	CanJoin(ctx context.Context, userID, sessionID string) error
}

// JoinAuthorizerFunc adapts a function to the [JoinAuthorizer] interface.
type JoinAuthorizerFunc func(ctx context.Context, userID, sessionID string) error

// CanJoin calls f.
func (f JoinAuthorizerFunc) CanJoin(ctx context.Context, userID, sessionID string) error {
	return f(ctx, userID, sessionID)
}

// Hub routes realtime events between connections and rooms.
//
// Inbound events from a connection's read pump arrive via [Hub.Join] and
// [Hub.Broadcast]; delivery to local members always goes through the broker's
// callback into [Hub.Deliver], never directly.
type Hub struct {
	registry  *Registry
	broker    Broker
	authorize JoinAuthorizer
	log       *slog.Logger
}

// HubOption configures a [Hub].
type HubOption func(*Hub)

// WithAuthorizer installs a join-admission check consulted for
// authenticated users.
func WithAuthorizer(a JoinAuthorizer) HubOption {
	return func(h *Hub) { h.authorize = a }
}

// NewHub returns a hub with a process-local broker installed. Call
// [Hub.SetBroker] before serving connections to relay through an external
// broker instead.
func NewHub(log *slog.Logger, opts ...HubOption) *Hub {
	h := &Hub{
		registry: NewRegistry(),
		log:      log,
	}
	h.broker = NewLocalBroker(h.Deliver)
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// SetBroker replaces the hub's broker. Must be called before the first
// connection is accepted.
func (h *Hub) SetBroker(b Broker) { h.broker = b }

// Join admits m to the room for sessionID. When an authorizer is installed
// and the member is authenticated, admission requires the user to pass it.
// Rejoining a room the member already occupies is a no-op.
func (h *Hub) Join(ctx context.Context, m Member, sessionID string) error {
	if sessionID == "" {
		return errors.New("session id is required")
	}
	if h.authorize != nil && m.UserID() != "" {
		if err := h.authorize.CanJoin(ctx, m.UserID(), sessionID); err != nil {
			return err
		}
	}
	if h.registry.Join(m, sessionID) {
		h.log.Info("realtime_room_joined",
			"session_id", sessionID,
			"conn_id", m.ID(),
			"user_id", m.UserID(),
			"members", h.registry.MemberCount(sessionID),
		)
	}
	return nil
}

// Broadcast relays ev from sender to the other members of its room. The
// sender must have joined the room first; events for rooms the sender does
// not occupy are rejected.
func (h *Hub) Broadcast(ctx context.Context, sender Member, ev Event) error {
	if !ev.Type.IsBroadcastable() {
		return errors.New("event type cannot be broadcast")
	}
	if ev.SessionID == "" {
		return errors.New("session id is required")
	}
	if !h.occupies(sender, ev.SessionID) {
		return errors.New("join the interview before sending events")
	}
	return h.broker.Publish(ctx, Envelope{SenderConn: sender.ID(), Event: ev})
}

// Deliver fans env out to the local members of its room, excluding the
// sender. It is the broker's callback and must not block: frames that do not
// fit a member's send buffer are dropped.
func (h *Hub) Deliver(env Envelope) {
	members := h.registry.Members(env.Event.SessionID)
	if len(members) == 0 {
		return
	}
	data, err := json.Marshal(env.Event)
	if err != nil {
		h.log.Error("realtime_event_marshal_failed", "error", err)
		return
	}
	for _, m := range members {
		if m.ID() == env.SenderConn {
			continue
		}
		if !m.Enqueue(data) {
			h.log.Warn("realtime_frame_dropped",
				"session_id", env.Event.SessionID,
				"conn_id", m.ID(),
			)
		}
	}
}

// Disconnect removes m from every room it occupies.
func (h *Hub) Disconnect(m Member) {
	for _, sessionID := range h.registry.Drop(m) {
		h.log.Info("realtime_room_left",
			"session_id", sessionID,
			"conn_id", m.ID(),
			"members", h.registry.MemberCount(sessionID),
		)
	}
}

// Members exposes room membership for the introspection API.
func (h *Hub) Members(sessionID string) []Member {
	return h.registry.Members(sessionID)
}

// Close shuts down the hub's broker.
func (h *Hub) Close() error { return h.broker.Close() }

func (h *Hub) occupies(m Member, sessionID string) bool {
	for _, member := range h.registry.Members(sessionID) {
		if member == m {
			return true
		}
	}
	return false
}
