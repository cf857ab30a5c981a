package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/metrics"
)

const sendBufferSize = 32

// Broadcast scopes, recorded in metrics.
const (
	scopeConn = "conn"
	scopeRoom = "room"
	scopeAll  = "all"
)

// Hub is the broadcast gateway: it owns every live connection and the per-room
// subscriber sets, and addresses outbound notifications to a single
// connection, a room, or everyone.
type Hub struct {
	logger  *slog.Logger
	metrics metrics.Recorder

	mu          sync.RWMutex
	connections map[string]*client
	rooms       map[string]map[string]struct{} // room name -> connIDs
}

type client struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func NewHub(logger *slog.Logger, m metrics.Recorder) *Hub {
	return &Hub{
		logger:      logger.With("component", "hub"),
		metrics:     m,
		connections: make(map[string]*client),
		rooms:       make(map[string]map[string]struct{}),
	}
}

// Add registers a connection and starts its write pump.
func (that *Hub) Add(connID string, conn *websocket.Conn) {
	c := &client{
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}

	that.mu.Lock()
	that.connections[connID] = c
	that.metrics.SetActiveConnections(len(that.connections))
	that.mu.Unlock()

	go c.writePump(that.logger, connID)
}

// Remove drops a connection and its room subscriptions.
func (that *Hub) Remove(connID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if c, ok := that.connections[connID]; ok {
		c.close()
		delete(that.connections, connID)
	}

	for _, members := range that.rooms {
		delete(members, connID)
	}

	that.metrics.SetActiveConnections(len(that.connections))
}

func (that *Hub) Subscribe(connID, roomName string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.rooms[roomName]; !ok {
		that.rooms[roomName] = make(map[string]struct{})
	}

	that.rooms[roomName][connID] = struct{}{}
}

func (that *Hub) Unsubscribe(connID, roomName string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	members, ok := that.rooms[roomName]
	if !ok {
		return
	}

	delete(members, connID)
	if len(members) == 0 {
		delete(that.rooms, roomName)
	}
}

// ToConn sends a notification to a single connection.
func (that *Hub) ToConn(connID, action string, payload any) {
	frame, err := marshalMessage(action, payload)
	if err != nil {
		that.logger.Error("failed to marshal message", "action", action, "error", err)
		return
	}

	that.metrics.RecordBroadcast(scopeConn)

	that.mu.RLock()
	defer that.mu.RUnlock()

	that.deliver(connID, frame)
}

// ToRoom sends a notification to every connection subscribed to the room.
func (that *Hub) ToRoom(roomName, action string, payload any) {
	frame, err := marshalMessage(action, payload)
	if err != nil {
		that.logger.Error("failed to marshal message", "action", action, "error", err)
		return
	}

	that.metrics.RecordBroadcast(scopeRoom)

	that.mu.RLock()
	defer that.mu.RUnlock()

	for connID := range that.rooms[roomName] {
		that.deliver(connID, frame)
	}
}

// ToAll sends a notification to every live connection.
func (that *Hub) ToAll(action string, payload any) {
	frame, err := marshalMessage(action, payload)
	if err != nil {
		that.logger.Error("failed to marshal message", "action", action, "error", err)
		return
	}

	that.metrics.RecordBroadcast(scopeAll)

	that.mu.RLock()
	defer that.mu.RUnlock()

	for connID := range that.connections {
		that.deliver(connID, frame)
	}
}

// deliver enqueues a frame without blocking; a connection that cannot keep up
// loses the notification rather than stalling the room. Caller holds the lock.
func (that *Hub) deliver(connID string, frame []byte) {
	c, ok := that.connections[connID]
	if !ok {
		return
	}

	select {
	case c.send <- frame:
	default:
		that.logger.Warn("send buffer full, dropping notification", "connID", connID)
	}
}

func marshalMessage(action string, payload any) ([]byte, error) {
	msg := Message{Action: action}

	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		msg.Payload = raw
	}

	return json.Marshal(msg)
}

func (c *client) writePump(logger *slog.Logger, connID string) {
	for frame := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
			logger.Debug("write failed", "connID", connID, "error", err)
			return
		}
	}
}

func (c *client) close() {
	c.once.Do(func() {
		close(c.send)
	})
}
