package registry

import (
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
)

const maxUsernameLength = 32

// Sessions maps live connection IDs to logged-in identities. It also keeps a
// direct connection→room index so disconnect cleanup never has to scan every
// room. Guarded by its own mutex, never held together with a room lock.
type Sessions struct {
	mu         sync.RWMutex
	identities map[string]*entity.Identity
	rooms      map[string]string // connID -> room name

	// When non-empty, only these usernames may log in.
	allowedUsernames map[string]struct{}
}

func NewSessions(allowedUsernames []string) *Sessions {
	allowed := make(map[string]struct{}, len(allowedUsernames))
	for _, username := range allowedUsernames {
		allowed[username] = struct{}{}
	}

	return &Sessions{
		identities:       make(map[string]*entity.Identity),
		rooms:            make(map[string]string),
		allowedUsernames: allowed,
	}
}

// Login binds a username to a connection. A connection gets at most one
// identity; the same username on another connection is independently accepted.
func (that *Sessions) Login(connID, username string) (*entity.Identity, error) {
	if err := that.validateUsername(username); err != nil {
		return nil, err
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.identities[connID]; ok {
		return nil, apperror.ErrAlreadyLoggedIn
	}

	identity := &entity.Identity{ConnID: connID, Username: username}
	that.identities[connID] = identity

	return identity, nil
}

func (that *Sessions) Get(connID string) (*entity.Identity, bool) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	identity, ok := that.identities[connID]

	return identity, ok
}

// Logout drops the identity and the room index entry for a connection.
func (that *Sessions) Logout(connID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.identities, connID)
	delete(that.rooms, connID)
}

func (that *Sessions) SetRoom(connID, roomName string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.rooms[connID] = roomName
}

func (that *Sessions) ClearRoom(connID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.rooms, connID)
}

// Room returns the room the connection currently occupies, if any.
func (that *Sessions) Room(connID string) (string, bool) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	roomName, ok := that.rooms[connID]

	return roomName, ok
}

// List returns a copy of every logged-in identity.
func (that *Sessions) List() []*entity.Identity {
	that.mu.RLock()
	defer that.mu.RUnlock()

	identities := make([]*entity.Identity, 0, len(that.identities))
	for _, identity := range that.identities {
		copied := *identity
		identities = append(identities, &copied)
	}

	return identities
}

func (that *Sessions) validateUsername(username string) error {
	if strings.TrimSpace(username) == "" {
		return fmt.Errorf("%w: empty", apperror.ErrInvalidUsername)
	}

	if utf8.RuneCountInString(username) > maxUsernameLength {
		return fmt.Errorf("%w: longer than %d characters", apperror.ErrInvalidUsername, maxUsernameLength)
	}

	if len(that.allowedUsernames) == 0 {
		return nil
	}

	if _, ok := that.allowedUsernames[username]; !ok {
		return fmt.Errorf("%w: %q is not allowed", apperror.ErrInvalidUsername, username)
	}

	return nil
}
