// Copyright (c) 2026 PrepDeck. All rights reserved.

// Package realtime connects the terminal client to an interview room and
// streams the room's events.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	receiveBuffer  = 64
	handshakeGrace = 10 * time.Second
)

// Event is one realtime frame, in the room wire format.
type Event struct {
	Type      string          `json:"type"`
	SessionID string          `json:"sessionId"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Message   string          `json:"message,omitempty"`
}

const (
	EventJoinInterview     = "join-interview"
	EventCodeUpdate        = "code-update"
	EventInterviewProgress = "interview-progress"
	EventError             = "error"
)

// Client is a single room connection. Events arriving from other room
// members are delivered on the channel returned by Events.
type Client struct {
	sock   *websocket.Conn
	events chan Event

	mu        sync.Mutex
	closeOnce sync.Once
	closeErr  error
}

/*
Dial opens a realtime connection and joins the given interview session.

Parameters:
  - serverURL: server origin, http(s) scheme; rewritten to ws(s).
  - accessToken: bearer credential, passed as the "token" query parameter;
    empty connects anonymously.
  - sessionID: room to join.
*/
func Dial(ctx context.Context, serverURL, accessToken, sessionID string) (*Client, error) {
	target, err := url.Parse(serverURL)
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	switch target.Scheme {
	case "https":
		target.Scheme = "wss"
	default:
		target.Scheme = "ws"
	}
	target.Path = "/ws"
	if accessToken != "" {
		query := target.Query()
		query.Set("token", accessToken)
		target.RawQuery = query.Encode()
	}

	dialer := websocket.Dialer{HandshakeTimeout: handshakeGrace}
	sock, resp, err := dialer.DialContext(ctx, target.String(), http.Header{})
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dial realtime channel: %w (status %d)", err, resp.StatusCode)
		}
		return nil, fmt.Errorf("dial realtime channel: %w", err)
	}

	c := &Client{sock: sock, events: make(chan Event, receiveBuffer)}
	if err := c.send(Event{Type: EventJoinInterview, SessionID: sessionID}); err != nil {
		_ = sock.Close()
		return nil, fmt.Errorf("join interview session: %w", err)
	}

	go c.readLoop()
	return c, nil
}

// Events returns the inbound event stream. The channel is closed when the
// connection terminates.
func (c *Client) Events() <-chan Event { return c.events }

// SendCodeUpdate pushes a code edit to the other members of the session.
func (c *Client) SendCodeUpdate(sessionID string, payload any) error {
	return c.sendWithPayload(EventCodeUpdate, sessionID, payload)
}

// SendProgress pushes an interview-progress update to the session.
func (c *Client) SendProgress(sessionID string, payload any) error {
	return c.sendWithPayload(EventInterviewProgress, sessionID, payload)
}

func (c *Client) sendWithPayload(eventType, sessionID string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode event payload: %w", err)
	}
	return c.send(Event{Type: eventType, SessionID: sessionID, Payload: raw})
}

func (c *Client) send(event Event) error {
	frame, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.sock.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return fmt.Errorf("set write deadline: %w", err)
	}
	if err := c.sock.WriteMessage(websocket.TextMessage, frame); err != nil {
		return fmt.Errorf("write event: %w", err)
	}
	return nil
}

func (c *Client) readLoop() {
	defer close(c.events)
	for {
		_, frame, err := c.sock.ReadMessage()
		if err != nil {
			return
		}
		var event Event
		if json.Unmarshal(frame, &event) != nil {
			continue
		}
		c.events <- event
	}
}

// Close tears the connection down. The event channel closes shortly after.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		deadline := time.Now().Add(writeWait)
		_ = c.sock.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
		c.mu.Unlock()
		c.closeErr = c.sock.Close()
	})
	return c.closeErr
}
