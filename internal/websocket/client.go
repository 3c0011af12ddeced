package websocket

import (
	"context"
	"sync"
	"time"

	wstypes "storefront-service/internal/domain/websocket"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024
)

// ClientAuth is the principal captured at handshake time. It is
// immutable for the lifetime of the connection.
type ClientAuth struct {
	UserID      int64
	Roles       []string
	Permissions []string
}

type Client struct {
	hub         *Hub
	conn        *websocket.Conn
	send        chan []byte
	userID      int64
	roles       []string
	permissions []string

	closeOnce sync.Once
	ctx       context.Context
	cancel    context.CancelFunc
}

func NewClient(hub *Hub, conn *websocket.Conn, auth *ClientAuth) *Client {
	ctx, cancel := context.WithCancel(context.Background())

	return &Client{
		hub:         hub,
		conn:        conn,
		send:        make(chan []byte, 64),
		userID:      auth.UserID,
		roles:       auth.Roles,
		permissions: auth.Permissions,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// UserID returns the authenticated user ID
func (c *Client) UserID() int64 {
	return c.userID
}

// SendMessage queues a message for delivery; slow clients are dropped
// rather than blocking the hub.
func (c *Client) SendMessage(msg *wstypes.WSMessage) {
	data, err := msg.Encode()
	if err != nil {
		return
	}

	select {
	case <-c.ctx.Done():
	case c.send <- data:
	default:
		c.Close()
	}
}

// Close tears down the connection once. The pumps exit through the
// cancelled context; the send channel is never closed so late
// broadcasts cannot panic.
func (c *Client) Close() {
	c.closeOnce.Do(c.cancel)
}

// ReadPump handles incoming messages from the client
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Debug("websocket read error: " + err.Error())
			}
			return
		}

		c.handleMessage(data)
	}
}

// WritePump handles outgoing messages to the client
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.ctx.Done():
			return
		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) handleMessage(data []byte) {
	msg, err := wstypes.ParseMessage(data)
	if err != nil {
		c.SendMessage(wstypes.NewMessage(wstypes.EventTypeError, &wstypes.ErrorData{
			Code:    "invalid_message",
			Message: "failed to parse message",
		}))
		return
	}

	if msg.Type == wstypes.EventTypePing {
		c.SendMessage(wstypes.NewMessage(wstypes.EventTypePong, nil))
	}
}
