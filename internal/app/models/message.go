package models

import "time"

// Message represents a chat message in a group channel
type Message struct {
	ID      string `json:"id" db:"id"`
	GroupID string `json:"groupId" db:"group_id"`
	// SenderName is a denormalized copy captured at send time; it is not kept
	// in sync with later profile edits.
	SenderID   string    `json:"senderId" db:"sender_id"`
	SenderName string    `json:"senderName" db:"sender_name"`
	Text       string    `json:"text" db:"text"` // 1-1000 chars
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`

	Sender *User `json:"sender,omitempty"`
}
