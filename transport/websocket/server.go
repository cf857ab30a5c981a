package websocket

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// gameManager is the inbound half of the broadcast gateway contract: every
// client event is routed to exactly one controller operation.
type gameManager interface {
	Login(connID, username string) error
	CreateRoom(connID, roomName string) error
	JoinRoom(connID, roomName string) error
	MakeMove(connID, roomName string, cell int) error
	PlayAgain(connID, roomName string) error
	SendMessage(connID, roomName, text string) error
	LeaveRoom(connID, roomName string) error
	Disconnect(connID string)
}

type Server struct {
	logger  *slog.Logger
	manager gameManager
	hub     *Hub

	upgrader websocket.Upgrader
	handlers map[string]func(connID string, msg *Message) error
}

func New(logger *slog.Logger, manager gameManager, hub *Hub) *Server {
	server := &Server{
		logger:  logger.With("component", "websocket"),
		manager: manager,
		hub:     hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(_ *http.Request) bool { return true },
		},
		handlers: make(map[string]func(string, *Message) error),
	}

	server.handlers["login"] = server.handleLogin
	server.handlers["create_room"] = server.handleCreateRoom
	server.handlers["join_room"] = server.handleJoinRoom
	server.handlers["move"] = server.handleMove
	server.handlers["play_again"] = server.handlePlayAgain
	server.handlers["send_message"] = server.handleSendMessage
	server.handlers["leave_room"] = server.handleLeaveRoom

	return server
}

// Start runs the websocket server until the context is cancelled.
func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", that.serveWS)

	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     mux,
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// serveWS upgrades the connection, assigns it an ephemeral connection ID and
// pumps inbound events until the client goes away.
func (that *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "serveWS")

	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	connID := uuid.NewString()
	that.hub.Add(connID, conn)

	log.Info("connection established", "connID", connID)

	defer func() {
		that.manager.Disconnect(connID)
		that.hub.Remove(connID)
		_ = conn.Close()
		log.Info("connection closed", "connID", connID)
	}()

	that.readLoop(connID, conn)
}

func (that *Server) readLoop(connID string, conn *websocket.Conn) {
	log := that.logger.With("method", "readLoop", "connID", connID)

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug("unexpected close", "error", err)
			}
			return
		}

		handler, ok := that.handlers[msg.Action]
		if !ok {
			log.Debug("unknown action", "action", msg.Action)
			continue
		}

		if err := handler(connID, &msg); err != nil {
			// Rejected preconditions land here; they are logged, never fatal.
			log.Debug("event not applied", "action", msg.Action, "error", err)
		}
	}
}
