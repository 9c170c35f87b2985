// Package push forwards layout events from a host to the sidenav server
// over a websocket. Delivery is best effort: failures are logged and the
// event is dropped.
package push

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"tableflip.dev/sidenav/pkg/events"
	"tableflip.dev/sidenav/pkg/logging"
)

const (
	// SessionEvent is the first message a server sends, carrying the session id.
	SessionEvent events.Name = "session"
	// PreferencesEvent carries the whole preference record.
	PreferencesEvent events.Name = "preferences"
	// ErrorEvent reports a rejected message.
	ErrorEvent events.Name = "error"

	writeTimeout = 5 * time.Second
)

// Message is the websocket wire format in both directions.
type Message struct {
	Event   events.Name    `json:"event"`
	Detail  map[string]any `json:"detail,omitempty"`
	Session string         `json:"session,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// FromEvent wraps a bus event for the wire.
func FromEvent(ev events.Event) Message {
	return Message{Event: ev.Name, Detail: ev.Detail}
}

// ToEvent converts a wire message back into a bus event.
func (m Message) ToEvent() events.Event {
	return events.New(m.Event, m.Detail)
}

// Forwarded lists the events a Client relays to the server.
var Forwarded = []events.Name{events.LayoutChanged, events.SidebarCollapsedChanged}

// Client is a connected push channel.
type Client struct {
	conn    *websocket.Conn
	log     *zap.Logger
	session string

	writeMu sync.Mutex
	cancels []func()
	done    chan struct{}
	once    sync.Once
}

// Dial connects to the server's websocket endpoint. rawURL may use the
// http(s) or ws(s) scheme; a missing path defaults to /ws.
func Dial(ctx context.Context, rawURL string, log *zap.Logger) (*Client, error) {
	target, err := SocketURL(rawURL)
	if err != nil {
		return nil, err
	}
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, target, http.Header{})
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("push: dial %s: %w", target, err)
	}

	c := &Client{conn: conn, log: logging.OrNop(log), done: make(chan struct{})}

	var hello Message
	_ = conn.SetReadDeadline(time.Now().Add(writeTimeout))
	if err := conn.ReadJSON(&hello); err == nil && hello.Event == SessionEvent {
		c.session = hello.Session
	}
	_ = conn.SetReadDeadline(time.Time{})
	return c, nil
}

// SocketURL normalises rawURL into a websocket URL.
func SocketURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("push: parse url: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("push: unsupported scheme %q", u.Scheme)
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = "/ws"
	} else {
		u.Path = strings.TrimRight(u.Path, "/")
	}
	return u.String(), nil
}

// Session returns the id the server assigned, if it sent one.
func (c *Client) Session() string {
	return c.session
}

// Send writes one message.
func (c *Client) Send(m Message) error {
	if m.Session == "" {
		m.Session = c.session
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := c.conn.WriteJSON(m); err != nil {
		return fmt.Errorf("push: write %s: %w", m.Event, err)
	}
	return nil
}

// Forward relays the Forwarded events dispatched on bus until Close.
func (c *Client) Forward(bus *events.Bus) {
	for _, name := range Forwarded {
		cancel := bus.Subscribe(name, func(ev events.Event) {
			if err := c.Send(FromEvent(ev)); err != nil {
				c.log.Debug("push: drop event", zap.String("event", ev.Describe()), zap.Error(err))
			}
		})
		c.cancels = append(c.cancels, cancel)
	}
}

// Receive reads server messages and hands them to fn until the connection
// closes or ctx is done.
func (c *Client) Receive(ctx context.Context, fn func(Message)) error {
	go func() {
		select {
		case <-ctx.Done():
			c.Close()
		case <-c.done:
		}
	}()
	for {
		var m Message
		if err := c.conn.ReadJSON(&m); err != nil {
			select {
			case <-c.done:
				return nil
			default:
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("push: read: %w", err)
		}
		fn(m)
	}
}

// Close stops forwarding and closes the connection.
func (c *Client) Close() error {
	var err error
	c.once.Do(func() {
		for _, cancel := range c.cancels {
			cancel()
		}
		close(c.done)
		c.writeMu.Lock()
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		c.writeMu.Unlock()
		err = c.conn.Close()
	})
	return err
}
