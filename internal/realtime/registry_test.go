// Copyright (c) 2026 PrepDeck. All rights reserved.

package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMember collects frames instead of writing to a socket.
type fakeMember struct {
	id     string
	userID string
	frames [][]byte
	full   bool
}

func (f *fakeMember) ID() string     { return f.id }
func (f *fakeMember) UserID() string { return f.userID }

func (f *fakeMember) Enqueue(data []byte) bool {
	if f.full {
		return false
	}
	f.frames = append(f.frames, data)
	return true
}

func TestRegistryJoinCreatesRoomOnDemand(t *testing.T) {
	registry := NewRegistry()
	member := &fakeMember{id: "c1"}

	assert.Equal(t, 0, registry.RoomCount())
	assert.True(t, registry.Join(member, "session-1"))
	assert.Equal(t, 1, registry.RoomCount())
	assert.Equal(t, 1, registry.MemberCount("session-1"))
}

func TestRegistryJoinIsIdempotent(t *testing.T) {
	registry := NewRegistry()
	member := &fakeMember{id: "c1"}

	require.True(t, registry.Join(member, "session-1"))
	assert.False(t, registry.Join(member, "session-1"))
	assert.Equal(t, 1, registry.MemberCount("session-1"))
}

func TestRegistryMemberMayOccupySeveralRooms(t *testing.T) {
	registry := NewRegistry()
	member := &fakeMember{id: "c1"}

	registry.Join(member, "session-1")
	registry.Join(member, "session-2")

	assert.Equal(t, 2, registry.RoomCount())
	assert.Equal(t, 1, registry.MemberCount("session-1"))
	assert.Equal(t, 1, registry.MemberCount("session-2"))
}

func TestRegistryLeaveRemovesEmptyRoom(t *testing.T) {
	registry := NewRegistry()
	first := &fakeMember{id: "c1"}
	second := &fakeMember{id: "c2"}

	registry.Join(first, "session-1")
	registry.Join(second, "session-1")

	registry.Leave(first, "session-1")
	assert.Equal(t, 1, registry.RoomCount())

	registry.Leave(second, "session-1")
	assert.Equal(t, 0, registry.RoomCount())
	assert.Empty(t, registry.Members("session-1"))
}

func TestRegistryDropLeavesEveryRoom(t *testing.T) {
	registry := NewRegistry()
	member := &fakeMember{id: "c1"}
	other := &fakeMember{id: "c2"}

	registry.Join(member, "session-1")
	registry.Join(member, "session-2")
	registry.Join(other, "session-1")

	left := registry.Drop(member)

	assert.ElementsMatch(t, []string{"session-1", "session-2"}, left)
	assert.Equal(t, 1, registry.MemberCount("session-1"))
	assert.Equal(t, 0, registry.MemberCount("session-2"))
	assert.Equal(t, 1, registry.RoomCount())
}

func TestRegistryDropWithoutRoomsIsHarmless(t *testing.T) {
	registry := NewRegistry()
	member := &fakeMember{id: "c1"}

	assert.Empty(t, registry.Drop(member))
}
