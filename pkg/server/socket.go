package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"tableflip.dev/sidenav/pkg/events"
	"tableflip.dev/sidenav/pkg/push"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

const (
	sendBuffer   = 16
	writeTimeout = 5 * time.Second
)

// session is one connected host.
type session struct {
	id   string
	conn *websocket.Conn
	send chan push.Message
	once sync.Once
}

func (c *session) close() {
	c.once.Do(func() {
		close(c.send)
	})
}

// hub tracks sessions and fans messages out to them.
type hub struct {
	log *zap.Logger

	mu       sync.Mutex
	sessions map[string]*session
	closed   bool
}

func newHub(log *zap.Logger) *hub {
	return &hub{log: log, sessions: make(map[string]*session)}
}

// add registers c. It reports false once the hub has been closed.
func (h *hub) add(c *session) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.sessions[c.id] = c
	return true
}

func (h *hub) remove(id string) {
	h.mu.Lock()
	c, ok := h.sessions[id]
	delete(h.sessions, id)
	h.mu.Unlock()
	if ok {
		c.close()
	}
}

// broadcast queues m for every session except the one named by except.
// Sessions that are not keeping up miss the message.
func (h *hub) broadcast(m push.Message, except string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, c := range h.sessions {
		if id == except {
			continue
		}
		select {
		case c.send <- m:
		default:
			h.log.Debug("server: session behind, dropping message",
				zap.String("session", id), zap.String("event", string(m.Event)))
		}
	}
}

func (h *hub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}

func (h *hub) closeAll() {
	h.mu.Lock()
	sessions := h.sessions
	h.sessions = make(map[string]*session)
	h.closed = true
	h.mu.Unlock()
	for _, c := range sessions {
		c.close()
		_ = c.conn.Close()
	}
}

func (s *Server) handleSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("server: websocket upgrade", zap.Error(err))
		return
	}

	c := &session{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan push.Message, sendBuffer),
	}
	c.send <- push.Message{Event: push.SessionEvent, Session: c.id}
	c.send <- s.preferencesMessage()
	if !s.hub.add(c) {
		s.log.Debug("server: shutting down, refusing session", zap.String("session", c.id))
		_ = conn.Close()
		return
	}

	go s.writeLoop(c)
	s.readLoop(c)
}

func (s *Server) writeLoop(c *session) {
	defer c.conn.Close()
	for m := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteJSON(m); err != nil {
			s.log.Debug("server: websocket write", zap.String("session", c.id), zap.Error(err))
			s.hub.remove(c.id)
			// Drain until the hub closes the channel.
			for range c.send {
			}
			return
		}
	}
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
}

func (s *Server) readLoop(c *session) {
	defer s.hub.remove(c.id)

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Debug("server: websocket read", zap.String("session", c.id), zap.Error(err))
			}
			return
		}

		var m push.Message
		if err := json.Unmarshal(raw, &m); err != nil {
			s.reply(c, push.Message{Event: push.ErrorEvent, Error: "invalid message format"})
			continue
		}
		s.metrics.SocketEvents.Increment(string(m.Event))

		ev := events.New(m.Event, m.Detail)
		if !s.layout.Apply(ev) {
			s.reply(c, push.Message{Event: push.ErrorEvent, Error: "unsupported event: " + string(m.Event)})
			continue
		}
		s.log.Debug("server: applied event", zap.String("session", c.id), zap.String("event", ev.Describe()))

		m.Session = c.id
		s.hub.broadcast(m, c.id)
	}
}

func (s *Server) reply(c *session, m push.Message) {
	s.hub.mu.Lock()
	defer s.hub.mu.Unlock()
	if _, ok := s.hub.sessions[c.id]; !ok {
		return
	}
	select {
	case c.send <- m:
	default:
	}
}
