package notification

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Type represents notification type
type Type string

const (
	TypeTransferReceived Type = "transfer_received" // Recipient: points arrived
	TypeIncomingCall     Type = "incoming_call"     // Callee: call ringing
	TypeMissedCall       Type = "missed_call"       // Callee: call timed out
	TypeNewFollower      Type = "new_follower"      // Followee: gained a follower
	TypePostLiked        Type = "post_liked"        // Author: post was liked
	TypePhoneVerified    Type = "phone_verified"    // Self: phone confirmed
)

// Notification represents a user notification
type Notification struct {
	ID        uuid.UUID       `db:"id" json:"id"`
	UserID    uuid.UUID       `db:"user_id" json:"user_id"`
	Type      Type            `db:"type" json:"type"`
	Title     string          `db:"title" json:"title"`
	Body      sql.NullString  `db:"body" json:"body,omitempty"`
	Data      json.RawMessage `db:"data" json:"data,omitempty"`
	IsRead    bool            `db:"is_read" json:"is_read"`
	ReadAt    sql.NullTime    `db:"read_at" json:"read_at,omitempty"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}

// Data links a notification to the entity it announces
type NotificationData struct {
	TransactionCode *string    `json:"transaction_code,omitempty"`
	Amount          *int64     `json:"amount,omitempty"`
	CallID          *uuid.UUID `json:"call_id,omitempty"`
	PostID          *uuid.UUID `json:"post_id,omitempty"`
	UserID          *uuid.UUID `json:"user_id,omitempty"`
}

// SetData encodes data to JSON
func (n *Notification) SetData(data *NotificationData) {
	if data != nil {
		n.Data, _ = json.Marshal(data)
	}
}

// GetData decodes data from JSON
func (n *Notification) GetData() *NotificationData {
	if n.Data == nil {
		return &NotificationData{}
	}
	var data NotificationData
	_ = json.Unmarshal(n.Data, &data)
	return &data
}
