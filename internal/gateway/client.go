package gateway

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/soyeahso/voli/internal/logging"
)

// Conn is one client's WebSocket channel.
type Conn struct {
	ID          string
	Remote      string
	Socket      *websocket.Conn
	ConnectedAt time.Time

	mu     sync.Mutex
	closed bool
	log    *logging.Logger
}

// NewConn wraps an upgraded WebSocket connection.
func NewConn(socket *websocket.Conn, log *logging.Logger) *Conn {
	c := &Conn{
		ID:          uuid.New().String(),
		Socket:      socket,
		ConnectedAt: time.Now(),
	}
	if socket != nil {
		c.Remote = socket.RemoteAddr().String()
	}
	c.log = log.With("connId", c.ID)
	return c
}

// Send writes one raw text frame. Safe for concurrent use.
func (c *Conn) Send(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrConnClosed
	}
	return c.Socket.WriteMessage(websocket.TextMessage, []byte(text))
}

// Read blocks for the next inbound frame and returns its payload as text.
// Binary frames are decoded as text too.
func (c *Conn) Read() (string, error) {
	_, data, err := c.Socket.ReadMessage()
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Close sends a normal-closure frame and closes the socket.
func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	if c.Socket == nil {
		return nil
	}
	c.Socket.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	return c.Socket.Close()
}

// ConnRegistry tracks open connections so shutdown can close them.
type ConnRegistry struct {
	mu    sync.RWMutex
	conns map[string]*Conn
	log   *logging.Logger
}

// NewConnRegistry creates an empty registry.
func NewConnRegistry(log *logging.Logger) *ConnRegistry {
	return &ConnRegistry{
		conns: make(map[string]*Conn),
		log:   log,
	}
}

// Add registers a connection.
func (r *ConnRegistry) Add(c *Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[c.ID] = c
	r.log.Info().Str("connId", c.ID).Str("remote", c.Remote).Msg("client connected")
}

// Remove unregisters a connection by ID.
func (r *ConnRegistry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.conns, id)
	r.log.Info().Str("connId", id).Msg("client disconnected")
}

// Count returns the number of open connections.
func (r *ConnRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}

// CloseAll closes and forgets every connection.
func (r *ConnRegistry) CloseAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, c := range r.conns {
		c.Close()
		delete(r.conns, id)
	}
}
