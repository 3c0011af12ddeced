package websocket

import (
	"encoding/json"
	"net/http"
	"time"

	wstypes "storefront-service/internal/domain/websocket"
	ws "storefront-service/internal/websocket"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// handshakeWait bounds how long a fresh connection may take to present
// its credentials before it is dropped.
const handshakeWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WebSocketHandler struct {
	hub    *ws.Hub
	logger *zap.Logger
}

func NewWebSocketHandler(hub *ws.Hub, logger *zap.Logger) *WebSocketHandler {
	return &WebSocketHandler{hub: hub, logger: logger}
}

// Handle handles GET /ws. Authentication happens after the upgrade: the
// first frame must carry an access token, and the principal it resolves
// to is fixed for the lifetime of the connection. Any handshake failure
// closes the socket.
func (h *WebSocketHandler) Handle(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Debug("websocket upgrade failed", zap.Error(err))
		return
	}

	auth, err := h.authenticate(conn)
	if err != nil {
		h.logger.Debug("websocket handshake rejected", zap.Error(err))
		h.reject(conn)
		return
	}

	client := ws.NewClient(h.hub, conn, auth)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}

func (h *WebSocketHandler) authenticate(conn *websocket.Conn) (*ws.ClientAuth, error) {
	conn.SetReadDeadline(time.Now().Add(handshakeWait))
	defer conn.SetReadDeadline(time.Time{})

	_, data, err := conn.ReadMessage()
	if err != nil {
		return nil, err
	}

	var hello wstypes.HandshakeAuth
	if err := json.Unmarshal(data, &hello); err != nil {
		return nil, err
	}

	return h.hub.Authenticate(hello.Authentication.Value)
}

func (h *WebSocketHandler) reject(conn *websocket.Conn) {
	msg := wstypes.NewMessage(wstypes.EventTypeError, &wstypes.ErrorData{
		Code:    "unauthorized",
		Message: "unauthorized",
	})
	if data, err := msg.Encode(); err == nil {
		conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		conn.WriteMessage(websocket.TextMessage, data)
	}
	conn.Close()
}
