package domain

import "time"

// NotificationType fan-out record type
type NotificationType string

const (
	// NotificationNewMessage default notification for a new message
	NotificationNewMessage NotificationType = "new_message"
	// NotificationUrgent created for urgent-priority messages
	NotificationUrgent NotificationType = "urgent"
	// NotificationDeadline created by the deadline-alert path
	NotificationDeadline NotificationType = "deadline"
)

// Notification channels
const (
	ChannelInApp = "in-app"
	ChannelSMS   = "sms"
	ChannelEmail = "email"
)

// Notification durable per-recipient fan-out record, created exactly once
// per (message, recipient) pair and independent of the message lifecycle.
type Notification struct {
	ID           string           `bson:"id" json:"id"`
	UserID       string           `bson:"user_id" json:"user_id"`
	ShipmentID   string           `bson:"shipment_id" json:"shipment_id"`
	MessageID    string           `bson:"message_id,omitempty" json:"message_id,omitempty"`
	Type         NotificationType `bson:"type" json:"type"`
	Read         bool             `bson:"read" json:"read"`
	SentChannels []string         `bson:"sent_channels" json:"sent_channels"`
	CreatedAt    time.Time        `bson:"created_at" json:"created_at"`
}

// OutboundAlert payload handed to the out-of-band dispatch queue
type OutboundAlert struct {
	Channel    string    `json:"channel"`
	UserID     string    `json:"user_id"`
	ShipmentID string    `json:"shipment_id"`
	MessageID  string    `json:"message_id,omitempty"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"created_at"`
}
