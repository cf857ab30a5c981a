package websocket

import (
	"encoding/json"
	"fmt"
)

func (that *Server) handleLogin(connID string, msg *Message) error {
	var payload loginPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	return that.manager.Login(connID, payload.Username)
}

func (that *Server) handleCreateRoom(connID string, msg *Message) error {
	var payload roomPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	return that.manager.CreateRoom(connID, payload.RoomName)
}

func (that *Server) handleJoinRoom(connID string, msg *Message) error {
	var payload roomPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	return that.manager.JoinRoom(connID, payload.RoomName)
}

func (that *Server) handleMove(connID string, msg *Message) error {
	var payload movePayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	return that.manager.MakeMove(connID, payload.RoomName, payload.Index)
}

func (that *Server) handlePlayAgain(connID string, msg *Message) error {
	var payload roomPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	return that.manager.PlayAgain(connID, payload.RoomName)
}

func (that *Server) handleSendMessage(connID string, msg *Message) error {
	var payload messagePayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	return that.manager.SendMessage(connID, payload.RoomName, payload.Message)
}

func (that *Server) handleLeaveRoom(connID string, msg *Message) error {
	var payload roomPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	return that.manager.LeaveRoom(connID, payload.RoomName)
}
