// File: internal/infra/ws/client.go

// Package ws is the websocket transport: it upgrades connections, runs the
// per-connection read/write pumps, and feeds inbound events to the room
// gateway. Each client is one model.Connection.
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"campus-chat/internal/domain"
	"campus-chat/internal/usecase"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second
	maxMessageSize = 64 * 1024
	sendBuffer     = 256
)

// frame is the wire envelope in both directions.
type frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type loginRequest struct {
	Username string `json:"username"`
}

type sendMessageRequest struct {
	Username  string `json:"username"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
}

// Client is one live websocket connection. Send is safe from any goroutine
// and never blocks: frames are queued onto a buffered channel drained by the
// write pump, so per-connection delivery order matches enqueue order.
type Client struct {
	id      string
	conn    *websocket.Conn
	send    chan []byte
	gateway usecase.ConnectionGateway
	log     *zerolog.Logger

	mu     sync.Mutex
	closed bool
}

func NewClient(conn *websocket.Conn, gateway usecase.ConnectionGateway, logger *zerolog.Logger) *Client {
	if conn != nil {
		conn.SetReadLimit(maxMessageSize)
	}
	return &Client{
		id:      uuid.NewString(),
		conn:    conn,
		send:    make(chan []byte, sendBuffer),
		gateway: gateway,
		log:     logger,
	}
}

func (c *Client) ID() string { return c.id }

// Send marshals one outbound event frame and enqueues it. A closed client or
// a full buffer drops the frame with an error; the caller treats delivery as
// fire-and-forget.
func (c *Client) Send(event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	buf, err := json.Marshal(frame{Event: event, Data: data})
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return domain.ErrConnectionClosed
	}
	select {
	case c.send <- buf:
		return nil
	default:
		return errors.New("send buffer full")
	}
}

// Run starts both pumps and blocks until the connection is gone.
func (c *Client) Run() {
	go c.writePump()
	c.readPump()
}

func (c *Client) readPump() {
	defer func() {
		c.gateway.HandleDisconnect(c)
		c.close()
	}()

	c.gateway.HandleConnect(c)

	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.Warn().Err(err).Str("conn_id", c.id).Msg("unexpected websocket close")
			} else {
				c.log.Debug().Err(err).Str("conn_id", c.id).Msg("client disconnected")
			}
			return
		}
		c.handleFrame(raw)
	}
}

// handleFrame routes one inbound frame. Events are processed in arrival
// order on this goroutine; only the AI responder runs out-of-band.
func (c *Client) handleFrame(raw []byte) {
	var f frame
	if err := json.Unmarshal(raw, &f); err != nil {
		c.log.Debug().Err(err).Str("conn_id", c.id).Msg("malformed frame")
		return
	}

	ctx := context.Background()

	switch f.Event {
	case "login":
		var req loginRequest
		if err := json.Unmarshal(f.Data, &req); err != nil {
			c.log.Debug().Err(err).Str("conn_id", c.id).Msg("malformed login payload")
			return
		}
		c.gateway.HandleLogin(ctx, c, req.Username)
	case "send_message":
		var req sendMessageRequest
		if err := json.Unmarshal(f.Data, &req); err != nil {
			c.log.Debug().Err(err).Str("conn_id", c.id).Msg("malformed message payload")
			return
		}
		c.gateway.HandleMessage(ctx, c, req.Message, req.Timestamp)
	default:
		c.log.Debug().Str("event", f.Event).Str("conn_id", c.id).Msg("unknown inbound event")
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case buf, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, buf); err != nil {
				c.log.Debug().Err(err).Str("conn_id", c.id).Msg("write failed")
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) close() {
	c.mu.Lock()
	already := c.closed
	c.closed = true
	c.mu.Unlock()
	if already {
		return
	}
	_ = c.conn.Close()
}
