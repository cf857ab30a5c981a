package registry

import (
	"sync"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
)

// Rooms is the in-memory room registry: an explicitly owned object injected
// into the game manager instead of a process-wide map.
type Rooms struct {
	mu    sync.RWMutex
	rooms map[string]*entity.Room
}

func NewRooms() *Rooms {
	return &Rooms{
		rooms: make(map[string]*entity.Room),
	}
}

// Create adds a room under the given name. Returns the existing room and false
// when the name is already taken.
func (that *Rooms) Create(room *entity.Room) (*entity.Room, bool) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if existing, ok := that.rooms[room.Name]; ok {
		return existing, false
	}

	that.rooms[room.Name] = room

	return room, true
}

func (that *Rooms) Get(name string) (*entity.Room, bool) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	room, ok := that.rooms[name]

	return room, ok
}

func (that *Rooms) Delete(name string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.rooms, name)
}

// List returns detached snapshots of every room keyed by name.
func (that *Rooms) List() map[string]*entity.Room {
	that.mu.RLock()
	rooms := make([]*entity.Room, 0, len(that.rooms))
	for _, room := range that.rooms {
		rooms = append(rooms, room)
	}
	that.mu.RUnlock()

	snapshots := make(map[string]*entity.Room, len(rooms))
	for _, room := range rooms {
		room.Lock()
		snapshots[room.Name] = room.Snapshot()
		room.Unlock()
	}

	return snapshots
}

func (that *Rooms) Len() int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.rooms)
}
