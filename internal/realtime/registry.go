// Copyright (c) 2026 PrepDeck. All rights reserved.

package realtime

import "sync"

// Member is a room participant as the registry sees it. *Conn is the
// production implementation; tests substitute fakes.
type Member interface {
	// ID uniquely identifies the connection within the process.
	ID() string

	// UserID is the authenticated user behind the connection, or "" for an
	// anonymous observer.
	UserID() string

	// Enqueue offers a frame to the member's send buffer without blocking.
	// It reports false when the buffer is full and the frame was dropped.
	Enqueue(data []byte) bool
}

// Registry tracks which members belong to which interview room.
//
// Rooms are keyed by interview session ID and are reference-counted: a room
// comes into existence when its first member joins and vanishes when its last
// member leaves. There is no explicit create or destroy operation.
type Registry struct {
	mu sync.RWMutex

	// rooms maps session ID to the set of current members.
	rooms map[string]map[Member]struct{}

	// joined is the reverse index, so a disconnect can leave every room the
	// member occupied without scanning.
	joined map[Member]map[string]struct{}
}

// NewRegistry returns an empty room registry.
func NewRegistry() *Registry {
	return &Registry{
		rooms:  make(map[string]map[Member]struct{}),
		joined: make(map[Member]map[string]struct{}),
	}
}

// Join adds m to the room for sessionID, creating the room if it does not
// exist. Joining a room the member already occupies is a no-op; the return
// value reports whether membership actually changed.
func (r *Registry) Join(m Member, sessionID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[sessionID]
	if !ok {
		room = make(map[Member]struct{})
		r.rooms[sessionID] = room
	}
	if _, already := room[m]; already {
		return false
	}
	room[m] = struct{}{}

	sessions, ok := r.joined[m]
	if !ok {
		sessions = make(map[string]struct{})
		r.joined[m] = sessions
	}
	sessions[sessionID] = struct{}{}
	return true
}

// Leave removes m from the room for sessionID, deleting the room when it
// becomes empty.
func (r *Registry) Leave(m Member, sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.leaveLocked(m, sessionID)
}

// Drop removes m from every room it occupies and returns the session IDs of
// the rooms it left. Called on disconnect.
func (r *Registry) Drop(m Member) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	sessions := r.joined[m]
	if len(sessions) == 0 {
		delete(r.joined, m)
		return nil
	}
	left := make([]string, 0, len(sessions))
	for sessionID := range sessions {
		left = append(left, sessionID)
		r.leaveLocked(m, sessionID)
	}
	return left
}

func (r *Registry) leaveLocked(m Member, sessionID string) {
	if room, ok := r.rooms[sessionID]; ok {
		delete(room, m)
		if len(room) == 0 {
			delete(r.rooms, sessionID)
		}
	}
	if sessions, ok := r.joined[m]; ok {
		delete(sessions, sessionID)
		if len(sessions) == 0 {
			delete(r.joined, m)
		}
	}
}

// Members returns a snapshot of the current members of sessionID's room. The
// slice is safe to iterate without holding any lock.
func (r *Registry) Members(sessionID string) []Member {
	r.mu.RLock()
	defer r.mu.RUnlock()

	room := r.rooms[sessionID]
	if len(room) == 0 {
		return nil
	}
	members := make([]Member, 0, len(room))
	for m := range room {
		members = append(members, m)
	}
	return members
}

// MemberCount reports how many members currently occupy sessionID's room.
func (r *Registry) MemberCount(sessionID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms[sessionID])
}

// RoomCount reports how many rooms currently exist.
func (r *Registry) RoomCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}
