package domain

import "time"

// Participant one member of a shipment's collaboration thread.
// Participants are added by the assignment workflow, never removed here.
type Participant struct {
	UserID   string    `bson:"user_id" json:"user_id"`
	Role     string    `bson:"role" json:"role"`
	JoinedAt time.Time `bson:"joined_at" json:"joined_at"`
}

// Shipment the messaging-relevant projection of a shipment record.
// UnreadCountByUser[u] counts non-deleted messages sent after u last read
// the thread, excluding u's own messages; it is only ever mutated through
// single atomic store operations (increment on send, reset on read).
type Shipment struct {
	ID                string         `bson:"_id" json:"id"`
	BLNumber          string         `bson:"bl_number" json:"bl_number"`
	CreatedBy         string         `bson:"created_by" json:"created_by"`
	AssignedOfficerID string         `bson:"assigned_officer_id,omitempty" json:"assigned_officer_id,omitempty"`
	Participants      []Participant  `bson:"participants,omitempty" json:"participants,omitempty"`
	LastMessageAt     *time.Time     `bson:"last_message_at,omitempty" json:"last_message_at,omitempty"`
	UnreadCountByUser map[string]int `bson:"unread_count_by_user,omitempty" json:"unread_count_by_user,omitempty"`
}

// UnreadFor returns the caller's unread count for this shipment.
func (s *Shipment) UnreadFor(userID string) int {
	if s.UnreadCountByUser == nil {
		return 0
	}
	return s.UnreadCountByUser[userID]
}

// RecipientIDs returns participant ids excluding senderID.
func (s *Shipment) RecipientIDs(senderID string) []string {
	ids := make([]string, 0, len(s.Participants))
	for _, p := range s.Participants {
		if p.UserID != senderID {
			ids = append(ids, p.UserID)
		}
	}
	return ids
}

// ShipmentUnread one row of the caller's unread summary
type ShipmentUnread struct {
	ShipmentID    string     `json:"shipment_id"`
	BLNumber      string     `json:"bl_number"`
	UnreadCount   int        `json:"unread_count"`
	LastMessageAt *time.Time `json:"last_message_at,omitempty"`
}
