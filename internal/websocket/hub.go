package websocket

import (
	"context"
	"sync"

	wstypes "storefront-service/internal/domain/websocket"
	"storefront-service/internal/pkg/token"

	"go.uber.org/zap"
)

// TokenVerifier validates an access token presented at handshake time.
// Only the access path exists here: a refresh token never authenticates
// a connection.
type TokenVerifier interface {
	VerifyAccess(raw string) (*token.Claims, error)
}

type Hub struct {
	clients map[*Client]bool
	mu      sync.RWMutex

	register   chan *Client
	unregister chan *Client
	broadcast  chan *wstypes.WSMessage

	verifier TokenVerifier
	logger   *zap.Logger
}

func NewHub(verifier TokenVerifier, logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *wstypes.WSMessage, 256),
		verifier:   verifier,
		logger:     logger,
	}
}

// Authenticate verifies the handshake token and returns the principal
// snapshot the connection will carry for its whole lifetime. There is
// no re-verification after accept: an expired token only takes effect
// on the next connection attempt.
func (h *Hub) Authenticate(raw string) (*ClientAuth, error) {
	claims, err := h.verifier.VerifyAccess(raw)
	if err != nil {
		return nil, err
	}

	return &ClientAuth{
		UserID:      claims.UserID,
		Roles:       claims.Roles,
		Permissions: claims.Permissions,
	}, nil
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case msg := <-h.broadcast:
			h.broadcastMessage(msg)
		}
	}
}

// NotifyProductUpdated fans a productUpdated event out to every
// connected client. Fired on create, update and sale.
func (h *Hub) NotifyProductUpdated() {
	h.broadcast <- wstypes.NewMessage(wstypes.EventTypeProductUpdated, nil)
}

// Register hands a freshly authenticated client to the hub loop.
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// TotalClients returns the number of connected clients.
func (h *Hub) TotalClients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client] = true

	h.logger.Info("websocket client connected",
		zap.Int64("user_id", client.userID),
		zap.Int("total", len(h.clients)),
	)

	client.SendMessage(wstypes.NewMessage(wstypes.EventTypeConnected, map[string]interface{}{
		"userId": client.userID,
		"roles":  client.roles,
	}))
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		client.Close()

		h.logger.Info("websocket client disconnected",
			zap.Int64("user_id", client.userID),
			zap.Int("total", len(h.clients)),
		)
	}
}

func (h *Hub) broadcastMessage(msg *wstypes.WSMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		client.SendMessage(msg)
	}
}

func (h *Hub) shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		client.Close()
		delete(h.clients, client)
	}
}
