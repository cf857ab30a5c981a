package entity

import (
	"sync"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/tictactoe"
)

const maxRoomPlayers = 2

// PlayerSlot is a player's seat in a room. The symbol is assigned by arrival
// order: first joiner gets X, second gets O.
type PlayerSlot struct {
	Symbol string `json:"symbol"`
	Ready  bool   `json:"ready"`
}

// ChatMessage is one chat entry attributed to a logged-in username.
type ChatMessage struct {
	Player  string `json:"player"`
	Message string `json:"message"`
}

// GameRecord is a completed game: the final board and the winner mark, or an
// empty winner for a draw.
type GameRecord struct {
	Board  [9]string `json:"board"`
	Winner string    `json:"winner,omitempty"`
}

// Room is a named game session holding up to two players, one board and the
// chat/history. All mutation happens under the embedded mutex; rooms are never
// locked while a registry lock is held.
type Room struct {
	sync.Mutex `json:"-"`

	Name          string                 `json:"name"`
	ID            string                 `json:"id"`
	Players       map[string]*PlayerSlot `json:"players"`
	Board         [9]string              `json:"board"`
	InProgress    bool                   `json:"in_progress"`
	CurrentPlayer string                 `json:"current_player,omitempty"`
	History       []GameRecord           `json:"history"`
	Messages      []ChatMessage          `json:"messages"`

	// Play-again votes keyed by connection ID, so a single player cannot force
	// a reset by voting twice.
	votes map[string]struct{}
}

func NewRoom(name, id string) *Room {
	return &Room{
		Name:    name,
		ID:      id,
		Players: make(map[string]*PlayerSlot),
		votes:   make(map[string]struct{}),
	}
}

// AddPlayer seats a connection in the room, assigning X to the first arrival
// and O to the second. Returns false if the room is already full.
func (that *Room) AddPlayer(connID string) bool {
	if len(that.Players) >= maxRoomPlayers {
		return false
	}

	symbol := tictactoe.MarkX
	if len(that.Players) == 1 {
		symbol = tictactoe.MarkO
	}

	that.Players[connID] = &PlayerSlot{Symbol: symbol}

	return true
}

func (that *Room) RemovePlayer(connID string) {
	delete(that.Players, connID)
	delete(that.votes, connID)
}

func (that *Room) HasPlayer(connID string) bool {
	_, ok := that.Players[connID]
	return ok
}

func (that *Room) IsFull() bool {
	return len(that.Players) == maxRoomPlayers
}

func (that *Room) IsEmpty() bool {
	return len(that.Players) == 0
}

// Opponent returns the other player's connection ID, or "" if there is none.
func (that *Room) Opponent(connID string) string {
	for id := range that.Players {
		if id != connID {
			return id
		}
	}

	return ""
}

// PlayerIDs returns the seated connection IDs in no particular order.
func (that *Room) PlayerIDs() []string {
	ids := make([]string, 0, len(that.Players))
	for id := range that.Players {
		ids = append(ids, id)
	}

	return ids
}

// ResetBoard clears the board and marks the game as not running. The stale
// CurrentPlayer is left as-is; the next countdown picks a fresh one.
func (that *Room) ResetBoard() {
	that.Board = [9]string{}
	that.InProgress = false
}

// Vote records a play-again vote for the given connection and returns the
// number of distinct voters so far.
func (that *Room) Vote(connID string) int {
	that.votes[connID] = struct{}{}
	return len(that.votes)
}

func (that *Room) ResetVotes() {
	that.votes = make(map[string]struct{})
}

// Snapshot returns a detached copy safe to hand to broadcast or persistence
// code after the room lock is released.
func (that *Room) Snapshot() *Room {
	players := make(map[string]*PlayerSlot, len(that.Players))
	for id, slot := range that.Players {
		copied := *slot
		players[id] = &copied
	}

	return &Room{
		Name:          that.Name,
		ID:            that.ID,
		Players:       players,
		Board:         that.Board,
		InProgress:    that.InProgress,
		CurrentPlayer: that.CurrentPlayer,
		History:       append([]GameRecord(nil), that.History...),
		Messages:      append([]ChatMessage(nil), that.Messages...),
		votes:         make(map[string]struct{}),
	}
}
