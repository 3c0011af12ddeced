package websocket

import (
	"encoding/json"
	"time"
)

// EventType represents different real-time event types
type EventType string

const (
	EventTypePing      EventType = "ping"
	EventTypePong      EventType = "pong"
	EventTypeConnected EventType = "connected"
	EventTypeError     EventType = "error"

	// Product events (server -> client)
	EventTypeProductUpdated EventType = "productUpdated"
)

// WSMessage is the universal message format
type WSMessage struct {
	Type      EventType   `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// HandshakeAuth is the first frame a client must send after the
// connection upgrade. The shape mirrors the browser client's handshake
// auth payload: { "Authentication": { "value": "<access token>" } }.
type HandshakeAuth struct {
	Authentication struct {
		Value string `json:"value"`
	} `json:"Authentication"`
}

// ErrorData for error events
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewMessage builds a timestamped message.
func NewMessage(eventType EventType, data interface{}) *WSMessage {
	return &WSMessage{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now(),
	}
}

// ParseMessage decodes an inbound frame.
func ParseMessage(data []byte) (*WSMessage, error) {
	var msg WSMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// Encode serializes a message for the wire.
func (m *WSMessage) Encode() ([]byte, error) {
	return json.Marshal(m)
}
