package apperror

import "errors"

var (
	// ErrUnapplied marks a rejected precondition that was silently dropped.
	// Callers may log it but must not propagate it as fatal: stale or duplicate
	// client messages are tolerated, not punished.
	ErrUnapplied = errors.New("operation not applied")

	ErrRoomNotFound = errors.New("room not found")
	ErrRoomFull     = errors.New("room is full")
	ErrRoomExists   = errors.New("room already exists")
	ErrNotYourTurn  = errors.New("it's not your turn")
	ErrCellOccupied = errors.New("cell is already occupied")
	ErrInvalidCell  = errors.New("invalid cell index")

	ErrAlreadyLoggedIn = errors.New("already logged in")
	ErrInvalidUsername = errors.New("invalid username")
	ErrNotLoggedIn     = errors.New("not logged in")
)
