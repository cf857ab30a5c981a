package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
)

func TestRooms_Create(t *testing.T) {
	t.Run("Creates a room under a free name", func(t *testing.T) {
		// Given: an empty registry
		rooms := NewRooms()

		// When: creating a room
		room, created := rooms.Create(entity.NewRoom("lobby", "id-1"))

		// Then: the room is registered
		require.True(t, created)
		assert.Equal(t, "lobby", room.Name)
		assert.Equal(t, 1, rooms.Len())
	})

	t.Run("A taken name is not overwritten", func(t *testing.T) {
		// Given: a registry with a room
		rooms := NewRooms()
		original, created := rooms.Create(entity.NewRoom("lobby", "id-1"))
		require.True(t, created)

		// When: creating another room under the same name
		room, created := rooms.Create(entity.NewRoom("lobby", "id-2"))

		// Then: the original room survives
		assert.False(t, created)
		assert.Same(t, original, room)
		assert.Equal(t, 1, rooms.Len())
	})
}

func TestRooms_Delete(t *testing.T) {
	// Given: a registry with a room
	rooms := NewRooms()
	_, created := rooms.Create(entity.NewRoom("lobby", "id-1"))
	require.True(t, created)

	// When: deleting it
	rooms.Delete("lobby")

	// Then: it is gone; deleting again is harmless
	_, ok := rooms.Get("lobby")
	assert.False(t, ok)
	rooms.Delete("lobby")
	assert.Equal(t, 0, rooms.Len())
}

func TestRooms_List(t *testing.T) {
	// Given: two registered rooms
	rooms := NewRooms()
	roomA, _ := rooms.Create(entity.NewRoom("a", "id-a"))
	_, _ = rooms.Create(entity.NewRoom("b", "id-b"))

	// When: listing and mutating a live room afterwards
	listed := rooms.List()
	roomA.Lock()
	roomA.Board[0] = "X"
	roomA.Unlock()

	// Then: the listing holds detached snapshots
	require.Len(t, listed, 2)
	assert.Equal(t, "", listed["a"].Board[0])
	assert.Equal(t, "id-b", listed["b"].ID)
}
