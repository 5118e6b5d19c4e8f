package domain

import (
	"encoding/json"
	"errors"
	"time"
)

// Inbound websocket events
const (
	// EventJoinShipment client asks to join a shipment room
	EventJoinShipment = "join_shipment"
	// EventMessageSend client sends a message
	EventMessageSend = "message:send"
	// EventMessageRead client acknowledges a batch of messages as read
	EventMessageRead = "message:read"
	// EventTypingStart client started typing
	EventTypingStart = "typing:start"
	// EventTypingStop client stopped typing
	EventTypingStop = "typing:stop"
)

// Outbound websocket events
const (
	// EventJoinedShipment ack of join_shipment, requester only
	EventJoinedShipment = "joined_shipment"
	// EventMessageReceived broadcast of any new message, user or system
	EventMessageReceived = "message:received"
	// EventMessageSent ack to the sender only
	EventMessageSent = "message:sent"
	// EventReadReceipt room-wide broadcast when at least one seen_by entry
	// changed, delivered to the reader's own connections as well
	EventReadReceipt = "message:read_receipt"
	// EventTyping typing relay to the room, excluding the typist
	EventTyping = "typing"
	// EventError failure notification, requester only
	EventError = "error"
)

// Stable error codes carried on error events
const (
	// CodeAccessDenied authorization failure on join or send
	CodeAccessDenied = "ACCESS_DENIED"
	// CodeSendFailed persistence failure while sending
	CodeSendFailed = "MESSAGE_SEND_FAILED"
	// CodeInvalidPayload malformed client payload
	CodeInvalidPayload = "INVALID_PAYLOAD"
)

// ErrAccessDenied the caller has no access to the shipment
var ErrAccessDenied = errors.New("access denied to this shipment")

// Identity ephemeral per-connection identity, resolved at handshake and
// never persisted.
type Identity struct {
	ConnectionID string
	UserID       string
	Role         string
	OrgID        string
}

// WSRequest flat inbound websocket payload, one struct for every event
type WSRequest struct {
	Event           string       `json:"event"`
	ShipmentID      string       `json:"shipment_id"`
	Body            string       `json:"body"`
	Attachments     []Attachment `json:"attachments,omitempty"`
	ThreadID        string       `json:"thread_id,omitempty"`
	ParentMessageID string       `json:"parent_message_id,omitempty"`
	Priority        Priority     `json:"priority,omitempty"`
	MessageIDs      []string     `json:"message_ids,omitempty"`
}

// WSEvent outbound websocket envelope
type WSEvent struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload,omitempty"`
}

// RoomEvent backplane envelope relayed through the broker so every server
// process delivers the same event to its local room members. Origin is the
// connection id the event originated from; ExcludeOrigin suppresses delivery
// back to that connection (typing relays only; message broadcasts and read
// receipts reach every connection, the origin included).
type RoomEvent struct {
	Event         string          `json:"event"`
	Origin        string          `json:"origin,omitempty"`
	ExcludeOrigin bool            `json:"exclude_origin,omitempty"`
	Payload       json.RawMessage `json:"payload,omitempty"`
}

// NewRoomEvent marshals payload into a backplane envelope.
func NewRoomEvent(event, origin string, excludeOrigin bool, payload interface{}) (RoomEvent, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return RoomEvent{}, err
	}
	return RoomEvent{
		Event:         event,
		Origin:        origin,
		ExcludeOrigin: excludeOrigin,
		Payload:       raw,
	}, nil
}

// Outbound payload shapes

// ErrorPayload error event body
type ErrorPayload struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// JoinedPayload joined_shipment ack body
type JoinedPayload struct {
	ShipmentID string `json:"shipment_id"`
}

// MessageReceivedPayload message:received body
type MessageReceivedPayload struct {
	Message *Message `json:"message"`
}

// MessageSentPayload message:sent ack body
type MessageSentPayload struct {
	MessageID string    `json:"message_id"`
	SentAt    time.Time `json:"sent_at"`
}

// ReadReceiptPayload message:read_receipt body
type ReadReceiptPayload struct {
	MessageIDs []string  `json:"message_ids"`
	UserID     string    `json:"user_id"`
	ReadAt     time.Time `json:"read_at"`
}

// TypingPayload typing relay body
type TypingPayload struct {
	UserID     string `json:"user_id"`
	ShipmentID string `json:"shipment_id"`
}
