package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
)

var ErrRoomNotFound = errors.New("room not found")

const roomKeyPrefix = "room:"

// RoomRepository persists room snapshots. Snapshots are best-effort: the
// in-memory registry is authoritative and nothing here blocks gameplay.
type RoomRepository interface {
	Save(ctx context.Context, room *entity.Room) error
	SaveAll(ctx context.Context, rooms map[string]*entity.Room) error
	GetByName(ctx context.Context, name string) (*entity.Room, error)
	DeleteByName(ctx context.Context, name string) error
}

type dbRoom struct {
	client *redis.Client
}

func NewRoomRepository(client *redis.Client) RoomRepository {
	return &dbRoom{
		client: client,
	}
}

func (that *dbRoom) Save(ctx context.Context, room *entity.Room) error {
	roomJSON, err := json.Marshal(room)
	if err != nil {
		return fmt.Errorf("failed to marshal room: %w", err)
	}

	if err = that.client.Set(ctx, roomKeyPrefix+room.Name, roomJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to set room: %w", err)
	}

	return nil
}

// SaveAll replaces the stored snapshot set with the given rooms.
func (that *dbRoom) SaveAll(ctx context.Context, rooms map[string]*entity.Room) error {
	stored, err := that.client.Keys(ctx, roomKeyPrefix+"*").Result()
	if err != nil {
		return fmt.Errorf("failed to list stored rooms: %w", err)
	}

	pipe := that.client.TxPipeline()

	for _, key := range stored {
		name := strings.TrimPrefix(key, roomKeyPrefix)
		if _, ok := rooms[name]; !ok {
			pipe.Del(ctx, key)
		}
	}

	for _, room := range rooms {
		roomJSON, err := json.Marshal(room)
		if err != nil {
			return fmt.Errorf("failed to marshal room: %w", err)
		}

		pipe.Set(ctx, roomKeyPrefix+room.Name, roomJSON, 0)
	}

	if _, err = pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save rooms: %w", err)
	}

	return nil
}

func (that *dbRoom) GetByName(ctx context.Context, name string) (*entity.Room, error) {
	response, err := that.client.Get(ctx, roomKeyPrefix+name).Result()

	if errors.Is(err, redis.Nil) {
		return nil, ErrRoomNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get room by name: %w", err)
	}

	var room entity.Room
	if err = json.Unmarshal([]byte(response), &room); err != nil {
		return nil, fmt.Errorf("failed to unmarshal room: %w", err)
	}

	return &room, nil
}

func (that *dbRoom) DeleteByName(ctx context.Context, name string) error {
	if err := that.client.Del(ctx, roomKeyPrefix+name).Err(); err != nil {
		return fmt.Errorf("failed to delete room by name: %w", err)
	}

	return nil
}
