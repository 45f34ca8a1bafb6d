// Copyright (c) 2026 PrepDeck. All rights reserved.

package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/prepdeck/prepdeck/internal/platform/constants"
)

// Conn is one websocket connection to the realtime channel.
//
// Each connection runs two goroutines: a read pump that parses inbound frames
// and hands them to the hub, and a write pump that drains the send buffer and
// keeps the connection alive with pings. All writes to the socket happen on
// the write pump; Enqueue is the only way to reach it.
type Conn struct {
	id     string
	userID string
	sock   *websocket.Conn
	hub    *Hub
	send   chan []byte
	// limiter throttles inbound events so one runaway client cannot flood
	// every room it occupies.
	limiter *rate.Limiter
	log     *slog.Logger

	// mu guards closed against Enqueue racing the teardown in Serve: the hub
	// snapshots room membership before delivering, so a delivery can reach a
	// connection that has already left its rooms.
	mu        sync.Mutex
	closed    bool
	closeOnce sync.Once
}

// NewConn wraps an upgraded websocket. userID is empty for anonymous
// connections.
func NewConn(id, userID string, sock *websocket.Conn, hub *Hub, log *slog.Logger) *Conn {
	return &Conn{
		id:     id,
		userID: userID,
		sock:   sock,
		hub:    hub,
		send:   make(chan []byte, constants.RealtimeSendBuffer),
		limiter: rate.NewLimiter(
			rate.Limit(constants.RealtimeEventRPS),
			constants.RealtimeEventBurst,
		),
		log: log.With("conn_id", id),
	}
}

// ID implements [Member].
func (c *Conn) ID() string { return c.id }

// UserID implements [Member].
func (c *Conn) UserID() string { return c.userID }

// Enqueue implements [Member]. It never blocks: when the send buffer is full
// or the connection is shutting down the frame is dropped and Enqueue
// reports false.
func (c *Conn) Enqueue(data []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

// Serve runs the connection's pumps and blocks until the peer disconnects or
// ctx is cancelled. On return the connection has left every room.
func (c *Conn) Serve(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go c.writePump(ctx)
	c.readPump(ctx)

	c.hub.Disconnect(c)
	c.shutdown()
}

// shutdown marks the connection closed and releases the send buffer. The
// closed flag is flipped under the same mutex Enqueue holds, so no delivery
// can hit the channel after it is closed.
func (c *Conn) shutdown() {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.closed = true
		close(c.send)
	})
}

func (c *Conn) readPump(ctx context.Context) {
	c.sock.SetReadLimit(constants.RealtimeMaxMessageSize)
	_ = c.sock.SetReadDeadline(time.Now().Add(constants.RealtimePongWait))
	c.sock.SetPongHandler(func(string) error {
		return c.sock.SetReadDeadline(time.Now().Add(constants.RealtimePongWait))
	})

	for {
		_, data, err := c.sock.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Warn("realtime_read_failed", "error", err)
			}
			return
		}
		if !c.limiter.Allow() {
			c.reject("slow down: too many events")
			continue
		}

		var ev Event
		if err := json.Unmarshal(data, &ev); err != nil {
			c.reject("malformed event")
			continue
		}
		c.dispatch(ctx, ev)
	}
}

func (c *Conn) dispatch(ctx context.Context, ev Event) {
	switch ev.Type {
	case EventJoinInterview:
		if err := c.hub.Join(ctx, c, ev.SessionID); err != nil {
			c.reject(err.Error())
		}
	case EventCodeUpdate, EventInterviewProgress:
		if err := c.hub.Broadcast(ctx, c, ev); err != nil {
			c.reject(err.Error())
		}
	default:
		c.reject("unknown event type")
	}
}

// reject sends an error frame back to the peer. Best-effort like any other
// delivery.
func (c *Conn) reject(msg string) {
	data, err := json.Marshal(Event{Type: EventError, Message: msg})
	if err != nil {
		return
	}
	c.Enqueue(data)
}

func (c *Conn) writePump(ctx context.Context) {
	ticker := time.NewTicker(constants.RealtimePingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.sock.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			_ = c.sock.SetWriteDeadline(time.Now().Add(constants.RealtimeWriteWait))
			_ = c.sock.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
			return
		case data, ok := <-c.send:
			_ = c.sock.SetWriteDeadline(time.Now().Add(constants.RealtimeWriteWait))
			if !ok {
				_ = c.sock.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := c.sock.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.sock.SetWriteDeadline(time.Now().Add(constants.RealtimeWriteWait))
			if err := c.sock.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
