package domain

import "time"

// Priority message delivery priority
type Priority string

const (
	// PriorityUrgent triggers out-of-band alerts on fan-out
	PriorityUrgent Priority = "urgent"
	// PriorityNormal default priority
	PriorityNormal Priority = "normal"
	// PriorityLow informational only
	PriorityLow Priority = "low"
)

// MessageType distinguishes user messages from system producers
type MessageType string

const (
	// MessageTypeUser message sent by a connected user
	MessageTypeUser MessageType = "user"
	// MessageTypeSystem generic system message
	MessageTypeSystem MessageType = "system"
	// MessageTypeAIFlag compliance-flag emitter message
	MessageTypeAIFlag MessageType = "ai_flag"
	// MessageTypeStatusUpdate status-change emitter message
	MessageTypeStatusUpdate MessageType = "status_update"
)

// SystemSenderID sender id used by the system-message emitters
const SystemSenderID = "system"

// SeenBy one read receipt inside a message, unique per user id
type SeenBy struct {
	UserID string    `bson:"user_id" json:"user_id"`
	SeenAt time.Time `bson:"seen_at" json:"seen_at"`
}

// Attachment immutable descriptor of an uploaded binary; the binary itself
// lives in object storage under StorageKey.
type Attachment struct {
	FileID     string    `bson:"file_id" json:"file_id"`
	Filename   string    `bson:"filename" json:"filename"`
	FileType   string    `bson:"file_type" json:"file_type"`
	Size       int64     `bson:"size" json:"size"`
	StorageKey string    `bson:"storage_key" json:"storage_key"`
	UploadedAt time.Time `bson:"uploaded_at" json:"uploaded_at"`
}

// Message durable chat record scoped to one shipment room.
// ID is immutable and globally unique; SeenBy entries are append-only and
// unique per user; DeletedAt marks soft deletion.
type Message struct {
	ID              string                 `bson:"id" json:"id"`
	ShipmentID      string                 `bson:"shipment_id" json:"shipment_id"`
	SenderID        string                 `bson:"sender_id" json:"sender_id"`
	SenderName      string                 `bson:"sender_name" json:"sender_name"`
	SenderRole      string                 `bson:"sender_role" json:"sender_role"`
	Body            string                 `bson:"body" json:"body"`
	Attachments     []Attachment           `bson:"attachments,omitempty" json:"attachments,omitempty"`
	ThreadID        string                 `bson:"thread_id,omitempty" json:"thread_id,omitempty"`
	ParentMessageID string                 `bson:"parent_message_id,omitempty" json:"parent_message_id,omitempty"`
	Priority        Priority               `bson:"priority" json:"priority"`
	MessageType     MessageType            `bson:"message_type" json:"message_type"`
	SeenBy          []SeenBy               `bson:"seen_by" json:"seen_by"`
	SentAt          time.Time              `bson:"sent_at" json:"sent_at"`
	EditedAt        *time.Time             `bson:"edited_at,omitempty" json:"edited_at,omitempty"`
	DeletedAt       *time.Time             `bson:"deleted_at,omitempty" json:"deleted_at,omitempty"`
	Metadata        map[string]interface{} `bson:"metadata,omitempty" json:"metadata,omitempty"`
}

// SendMessageInput payload of a message:send event after validation
type SendMessageInput struct {
	ShipmentID      string       `json:"shipment_id"`
	Body            string       `json:"body"`
	Attachments     []Attachment `json:"attachments,omitempty"`
	ThreadID        string       `json:"thread_id,omitempty"`
	ParentMessageID string       `json:"parent_message_id,omitempty"`
	Priority        Priority     `json:"priority,omitempty"`
}

// HistoryQuery cursor query over a shipment's non-deleted messages
type HistoryQuery struct {
	Limit    int64
	Before   time.Time
	ThreadID string
}

// ComplianceFlag finding produced by the compliance pre-check and relayed
// into the room as an ai_flag message.
type ComplianceFlag struct {
	ID         string  `json:"id,omitempty"`
	Type       string  `json:"type"`
	Details    string  `json:"details"`
	Confidence float64 `json:"confidence"`
	Severity   string  `json:"severity,omitempty"`
}

// UserInfo identity projection the messaging core needs about a sender
type UserInfo struct {
	ID     string
	Name   string
	Role   string
	OrgID  string
	Active bool
}
