package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-rooms/testing/suite"
)

func TestRoomRepository_Save(t *testing.T) {
	ctx, st := suite.New(t)

	roomRepo := NewRoomRepository(st.Storage)

	// Given: a room with a player and some game state
	room := entity.NewRoom("lobby", "id-1")
	require.True(t, room.AddPlayer("conn-a"))
	room.Board[4] = tictactoe.MarkX
	room.Messages = append(room.Messages, entity.ChatMessage{Player: "alice", Message: "hi"})

	// When: Save is called
	err := roomRepo.Save(ctx, room)

	// Then: no error should be returned, and the room round-trips
	require.NoError(t, err)

	stored, err := roomRepo.GetByName(ctx, "lobby")
	require.NoError(t, err)
	assert.Equal(t, room.Name, stored.Name)
	assert.Equal(t, room.ID, stored.ID)
	assert.Equal(t, tictactoe.MarkX, stored.Board[4])
	assert.Equal(t, tictactoe.MarkX, stored.Players["conn-a"].Symbol)
	assert.Equal(t, room.Messages, stored.Messages)
}

func TestRoomRepository_GetByName(t *testing.T) {
	t.Run("GetByName_NotFound", func(t *testing.T) {
		ctx, st := suite.New(t)

		roomRepo := NewRoomRepository(st.Storage)

		// When: GetByName is called with a name that was never saved
		stored, err := roomRepo.GetByName(ctx, "nowhere")

		// Then: the not-found sentinel is returned
		require.ErrorIs(t, err, ErrRoomNotFound)
		assert.Nil(t, stored)
	})
}

func TestRoomRepository_SaveAll(t *testing.T) {
	ctx, st := suite.New(t)

	roomRepo := NewRoomRepository(st.Storage)

	// Given: two stored rooms
	require.NoError(t, roomRepo.Save(ctx, entity.NewRoom("a", "id-a")))
	require.NoError(t, roomRepo.Save(ctx, entity.NewRoom("b", "id-b")))

	// When: SaveAll is called with a set that dropped one room and added another
	err := roomRepo.SaveAll(ctx, map[string]*entity.Room{
		"a": entity.NewRoom("a", "id-a"),
		"c": entity.NewRoom("c", "id-c"),
	})

	// Then: the stored set matches exactly; the dropped room is pruned
	require.NoError(t, err)

	_, err = roomRepo.GetByName(ctx, "a")
	require.NoError(t, err)

	_, err = roomRepo.GetByName(ctx, "c")
	require.NoError(t, err)

	_, err = roomRepo.GetByName(ctx, "b")
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestRoomRepository_DeleteByName(t *testing.T) {
	ctx, st := suite.New(t)

	roomRepo := NewRoomRepository(st.Storage)

	// Given: a stored room
	require.NoError(t, roomRepo.Save(ctx, entity.NewRoom("lobby", "id-1")))

	// When: DeleteByName is called
	err := roomRepo.DeleteByName(ctx, "lobby")

	// Then: the room is gone; deleting again is harmless
	require.NoError(t, err)

	_, err = roomRepo.GetByName(ctx, "lobby")
	assert.ErrorIs(t, err, ErrRoomNotFound)

	assert.NoError(t, roomRepo.DeleteByName(ctx, "lobby"))
}
