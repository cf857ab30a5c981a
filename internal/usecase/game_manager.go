package usecase

import (
	"fmt"
	"log/slog"
	"math/rand"
	"strings"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/metrics"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/registry"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/tictactoe"
)

// Outbound notification actions. The scope each one is sent with is part of
// the protocol contract: clients rely on not receiving other rooms' updates.
const (
	ActionLoggedIn         = "logged_in"           // sender only
	ActionLoginError       = "login_error"         // sender only
	ActionError            = "error"               // sender only
	ActionRoomList         = "room_list"           // all connections
	ActionRoomUpdate       = "room_update"         // room
	ActionBoardUpdate      = "board_update"        // room
	ActionTurnUpdate       = "turn_update"         // room
	ActionGameEnd          = "game_end"            // room
	ActionCountdown        = "countdown"           // room
	ActionGameStart        = "game_start"          // room
	ActionResetGame        = "reset_game"          // room
	ActionWaitForPlayAgain = "wait_for_play_again" // room
	ActionMessageUpdate    = "message_update"      // room
)

const playAgainQuorum = 2

type broadcaster interface {
	ToConn(connID, action string, payload any)
	ToRoom(roomName, action string, payload any)
	ToAll(action string, payload any)

	Subscribe(connID, roomName string)
	Unsubscribe(connID, roomName string)
}

type countdown interface {
	Trigger(roomName string)
	Stop(roomName string)
}

type LoggedInPayload struct {
	Username string                  `json:"username"`
	Rooms    map[string]*entity.Room `json:"rooms"`
}

type GameEndPayload struct {
	Winner string `json:"winner"`
}

type GameStartPayload struct {
	StartingPlayer string `json:"starting_player"`
}

type ErrorPayload struct {
	Error string `json:"error"`
}

// State is the read-only players/rooms snapshot served by the admin endpoint.
type State struct {
	Players []*entity.Identity      `json:"players"`
	Rooms   map[string]*entity.Room `json:"rooms"`
}

// GameManager is the game session controller: it owns every state mutation of
// the room registry and session table, and maps each mutation to its broadcast
// scope.
type GameManager struct {
	logger   *slog.Logger
	rooms    *registry.Rooms
	sessions *registry.Sessions

	broadcaster broadcaster
	countdown   countdown
	metrics     metrics.Recorder

	newRoomID func() string
}

func NewGameManager(logger *slog.Logger, rooms *registry.Rooms, sessions *registry.Sessions, b broadcaster, m metrics.Recorder) *GameManager {
	return &GameManager{
		logger:      logger.With("component", "game_manager"),
		rooms:       rooms,
		sessions:    sessions,
		broadcaster: b,
		metrics:     m,
		newRoomID:   uuid.NewString,
	}
}

// SetCountdown attaches the countdown scheduler. Wired after construction
// because the scheduler calls back into the manager.
func (that *GameManager) SetCountdown(cd countdown) {
	that.countdown = cd
}

// Login binds a username to the connection and replies with the room-list
// snapshot. Failures are surfaced to the caller only.
func (that *GameManager) Login(connID, username string) error {
	log := that.logger.With("method", "Login", "connID", connID)
	that.metrics.RecordEvent("login")

	identity, err := that.sessions.Login(connID, username)
	if err != nil {
		that.broadcaster.ToConn(connID, ActionLoginError, ErrorPayload{Error: err.Error()})
		return fmt.Errorf("login rejected: %w", err)
	}

	that.broadcaster.ToConn(connID, ActionLoggedIn, LoggedInPayload{
		Username: identity.Username,
		Rooms:    that.rooms.List(),
	})

	log.Info("player logged in", "username", identity.Username)

	return nil
}

// CreateRoom creates a room under the given name and broadcasts the room list
// globally. A taken name is a silent no-op.
func (that *GameManager) CreateRoom(connID, roomName string) error {
	log := that.logger.With("method", "CreateRoom", "room", roomName)
	that.metrics.RecordEvent("create_room")

	if strings.TrimSpace(roomName) == "" {
		return that.unapplied("create_room", apperror.ErrRoomNotFound)
	}

	if _, created := that.rooms.Create(entity.NewRoom(roomName, that.newRoomID())); !created {
		return that.unapplied("create_room", apperror.ErrRoomExists)
	}

	that.metrics.SetActiveRooms(that.rooms.Len())
	that.broadcaster.ToAll(ActionRoomList, that.rooms.List())

	log.Info("room created", "by", connID)

	return nil
}

// JoinRoom seats the connection in the room; the second arrival triggers the
// pre-game countdown. Absent or full rooms are a silent no-op.
func (that *GameManager) JoinRoom(connID, roomName string) error {
	log := that.logger.With("method", "JoinRoom", "room", roomName, "connID", connID)
	that.metrics.RecordEvent("join_room")

	room, ok := that.rooms.Get(roomName)
	if !ok {
		return that.unapplied("join_room", apperror.ErrRoomNotFound)
	}

	room.Lock()
	if room.HasPlayer(connID) {
		room.Unlock()
		return that.unapplied("join_room", apperror.ErrRoomExists)
	}

	if !room.AddPlayer(connID) {
		room.Unlock()
		return that.unapplied("join_room", apperror.ErrRoomFull)
	}

	full := room.IsFull()
	snapshot := room.Snapshot()
	room.Unlock()

	that.sessions.SetRoom(connID, roomName)
	that.broadcaster.Subscribe(connID, roomName)
	that.broadcaster.ToRoom(roomName, ActionRoomUpdate, snapshot)

	log.Info("player joined room")

	if full {
		that.countdown.Trigger(roomName)
	}

	return nil
}

// MakeMove applies a move iff the room exists, the cell is empty and it is the
// caller's turn. Any violated precondition is a silent no-op.
func (that *GameManager) MakeMove(connID, roomName string, cell int) error {
	log := that.logger.With("method", "MakeMove", "room", roomName, "connID", connID)
	that.metrics.RecordEvent("move")

	if cell < 0 || cell > 8 {
		return that.unapplied("move", apperror.ErrInvalidCell)
	}

	room, ok := that.rooms.Get(roomName)
	if !ok {
		return that.unapplied("move", apperror.ErrRoomNotFound)
	}

	room.Lock()
	defer room.Unlock()

	slot, ok := room.Players[connID]
	if !ok {
		return that.unapplied("move", apperror.ErrRoomNotFound)
	}

	if room.CurrentPlayer != connID {
		return that.unapplied("move", apperror.ErrNotYourTurn)
	}

	if room.Board[cell] != tictactoe.EmptyCell {
		return that.unapplied("move", apperror.ErrCellOccupied)
	}

	room.Board[cell] = slot.Symbol
	that.broadcaster.ToRoom(roomName, ActionBoardUpdate, room.Board)

	switch winner := tictactoe.CheckWinner(room.Board); {
	case winner != tictactoe.EmptyCell:
		that.endGame(room, winner)
		log.Info("game won", "winner", winner)
	case tictactoe.IsDraw(room.Board):
		that.endGame(room, tictactoe.EmptyCell)
		log.Info("game drawn")
	default:
		room.CurrentPlayer = room.Opponent(connID)
		that.broadcaster.ToRoom(roomName, ActionTurnUpdate, room.CurrentPlayer)
	}

	return nil
}

// endGame records the finished board, notifies the room and resets for the
// next round. Caller holds the room lock.
func (that *GameManager) endGame(room *entity.Room, winner string) {
	room.History = append(room.History, entity.GameRecord{Board: room.Board, Winner: winner})
	that.broadcaster.ToRoom(room.Name, ActionGameEnd, GameEndPayload{Winner: winner})
	room.ResetBoard()
}

// PlayAgain counts a per-player restart vote. Two distinct voters reset the
// board and re-trigger the countdown; a lone voter puts the room in waiting.
func (that *GameManager) PlayAgain(connID, roomName string) error {
	log := that.logger.With("method", "PlayAgain", "room", roomName, "connID", connID)
	that.metrics.RecordEvent("play_again")

	room, ok := that.rooms.Get(roomName)
	if !ok {
		return that.unapplied("play_again", apperror.ErrRoomNotFound)
	}

	room.Lock()
	if !room.HasPlayer(connID) {
		room.Unlock()
		return that.unapplied("play_again", apperror.ErrRoomNotFound)
	}

	votes := room.Vote(connID)
	if votes < playAgainQuorum {
		room.Unlock()
		that.broadcaster.ToRoom(roomName, ActionWaitForPlayAgain, nil)
		log.Info("waiting for other player's vote")
		return nil
	}

	room.ResetBoard()
	room.ResetVotes()
	that.broadcaster.ToRoom(roomName, ActionBoardUpdate, room.Board)
	that.broadcaster.ToRoom(roomName, ActionResetGame, nil)
	room.Unlock()

	log.Info("game reset by vote")

	that.countdown.Trigger(roomName)

	return nil
}

// SendMessage appends a chat message and broadcasts the full message history
// to the room. A connection without an identity gets an explicit rejection.
func (that *GameManager) SendMessage(connID, roomName, text string) error {
	that.metrics.RecordEvent("send_message")

	identity, ok := that.sessions.Get(connID)
	if !ok {
		that.broadcaster.ToConn(connID, ActionError, ErrorPayload{Error: apperror.ErrNotLoggedIn.Error()})
		return fmt.Errorf("send message rejected: %w", apperror.ErrNotLoggedIn)
	}

	room, ok := that.rooms.Get(roomName)
	if !ok {
		return that.unapplied("send_message", apperror.ErrRoomNotFound)
	}

	room.Lock()
	room.Messages = append(room.Messages, entity.ChatMessage{Player: identity.Username, Message: text})
	messages := append([]entity.ChatMessage(nil), room.Messages...)
	room.Unlock()

	that.broadcaster.ToRoom(roomName, ActionMessageUpdate, messages)

	return nil
}

// LeaveRoom unseats the connection. The last player leaving deletes the room
// and broadcasts the global room list.
func (that *GameManager) LeaveRoom(connID, roomName string) error {
	log := that.logger.With("method", "LeaveRoom", "room", roomName, "connID", connID)
	that.metrics.RecordEvent("leave_room")

	room, ok := that.rooms.Get(roomName)
	if !ok {
		return that.unapplied("leave_room", apperror.ErrRoomNotFound)
	}

	room.Lock()
	if !room.HasPlayer(connID) {
		room.Unlock()
		return that.unapplied("leave_room", apperror.ErrRoomNotFound)
	}

	room.RemovePlayer(connID)
	empty := room.IsEmpty()
	snapshot := room.Snapshot()
	room.Unlock()

	that.broadcaster.Unsubscribe(connID, roomName)
	that.sessions.ClearRoom(connID)

	// A room that is no longer full must not start a game.
	that.countdown.Stop(roomName)

	if empty {
		that.rooms.Delete(roomName)
		that.metrics.SetActiveRooms(that.rooms.Len())
		that.broadcaster.ToAll(ActionRoomList, that.rooms.List())
		log.Info("room deleted, last player left")
		return nil
	}

	that.broadcaster.ToRoom(roomName, ActionRoomUpdate, snapshot)
	log.Info("player left room")

	return nil
}

// Disconnect cleans up a dropped connection: the direct connection→room index
// replaces the original implementation's scan over every room.
func (that *GameManager) Disconnect(connID string) {
	log := that.logger.With("method", "Disconnect", "connID", connID)
	that.metrics.RecordEvent("disconnect")

	if roomName, ok := that.sessions.Room(connID); ok {
		if err := that.LeaveRoom(connID, roomName); err != nil {
			log.Debug("leave on disconnect not applied", "error", err)
		}
	}

	that.sessions.Logout(connID)
	log.Info("connection cleaned up")
}

// CountdownTick relays the remaining count to the room.
func (that *GameManager) CountdownTick(roomName string, remaining int) {
	that.broadcaster.ToRoom(roomName, ActionCountdown, remaining)
}

// CountdownFinished starts the game: the room must still exist and still hold
// two players, otherwise the start is abandoned.
func (that *GameManager) CountdownFinished(roomName string) {
	log := that.logger.With("method", "CountdownFinished", "room", roomName)

	room, ok := that.rooms.Get(roomName)
	if !ok {
		log.Debug("room gone before game start")
		return
	}

	room.Lock()
	defer room.Unlock()

	if !room.IsFull() {
		log.Debug("room no longer full, game start abandoned")
		return
	}

	ids := room.PlayerIDs()
	room.InProgress = true
	room.CurrentPlayer = ids[rand.Intn(len(ids))] //nolint:gosec // fairness, not security
	room.ResetVotes()

	that.broadcaster.ToRoom(roomName, ActionGameStart, GameStartPayload{StartingPlayer: room.CurrentPlayer})

	log.Info("game started", "starting_player", room.CurrentPlayer)
}

// CurrentState returns the players/rooms snapshot for the admin endpoint.
func (that *GameManager) CurrentState() *State {
	return &State{
		Players: that.sessions.List(),
		Rooms:   that.rooms.List(),
	}
}

func (that *GameManager) unapplied(action string, reason error) error {
	that.metrics.RecordUnapplied(action)
	that.logger.Debug("event not applied", "action", action, "reason", reason)

	return fmt.Errorf("%w: %w", apperror.ErrUnapplied, reason)
}
