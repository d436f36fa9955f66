// Package signaling keeps the voice agent's signaling WebSocket open for the
// lifetime of a call.
package signaling

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/ozzus/fan-companion/internal/domain/ports"
	"go.uber.org/zap"
)

const writeTimeout = 5 * time.Second

type Dialer struct {
	log    *zap.Logger
	apiKey string
	dialer websocket.Dialer
}

func NewDialer(log *zap.Logger, apiKey string, handshakeTimeout time.Duration) *Dialer {
	if log == nil {
		log = zap.NewNop()
	}
	if handshakeTimeout <= 0 {
		handshakeTimeout = 10 * time.Second
	}

	return &Dialer{
		log:    log,
		apiKey: apiKey,
		dialer: websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: handshakeTimeout,
		},
	}
}

// Dial opens the socket and starts reading from it. The returned connection
// answers agent pings on its own.
func (d *Dialer) Dial(ctx context.Context, rawURL string) (ports.SignalingConn, error) {
	if _, err := url.Parse(rawURL); err != nil {
		return nil, fmt.Errorf("parse signaling url: %w", err)
	}

	header := http.Header{}
	if d.apiKey != "" {
		header.Set("xi-api-key", d.apiKey)
	}

	ws, resp, err := d.dialer.DialContext(ctx, rawURL, header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dial signaling socket: %s: %w", resp.Status, err)
		}
		return nil, fmt.Errorf("dial signaling socket: %w", err)
	}

	c := &Conn{
		log:  d.log,
		ws:   ws,
		done: make(chan struct{}),
	}
	go c.readLoop()

	return c, nil
}

type Conn struct {
	log *zap.Logger
	ws  *websocket.Conn

	writeMu sync.Mutex

	closeOnce sync.Once
	closed    bool
	mu        sync.Mutex

	done    chan struct{}
	readErr error
}

type agentEvent struct {
	Type      string `json:"type"`
	PingEvent *struct {
		EventID int64 `json:"event_id"`
	} `json:"ping_event,omitempty"`
}

type pongEvent struct {
	Type    string `json:"type"`
	EventID int64  `json:"event_id"`
}

func (c *Conn) Wait() error {
	<-c.done
	return c.readErr
}

func (c *Conn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		c.mu.Unlock()

		c.writeMu.Lock()
		_ = c.ws.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(writeTimeout),
		)
		c.writeMu.Unlock()

		err = c.ws.Close()
	})
	return err
}

func (c *Conn) readLoop() {
	defer close(c.done)

	for {
		_, payload, err := c.ws.ReadMessage()
		if err != nil {
			c.readErr = c.classify(err)
			return
		}
		c.handle(payload)
	}
}

func (c *Conn) classify(err error) error {
	c.mu.Lock()
	closedLocally := c.closed
	c.mu.Unlock()

	if closedLocally {
		return nil
	}
	if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		return nil
	}
	return fmt.Errorf("signaling socket: %w", err)
}

func (c *Conn) handle(payload []byte) {
	var event agentEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		c.log.Debug("ignoring non-json signaling message", zap.Int("bytes", len(payload)))
		return
	}

	switch event.Type {
	case "ping":
		if event.PingEvent == nil {
			return
		}
		if err := c.writeJSON(pongEvent{Type: "pong", EventID: event.PingEvent.EventID}); err != nil {
			c.log.Warn("failed to answer signaling ping", zap.Error(err))
		}
	default:
		c.log.Debug("signaling event", zap.String("type", event.Type))
	}
}

func (c *Conn) writeJSON(v any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if err := c.ws.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	err := c.ws.WriteJSON(v)
	if errors.Is(err, websocket.ErrCloseSent) {
		return nil
	}
	return err
}
