package model

import "time"

// Message is a free-standing content record with no owner.
type Message struct {
	ID        int64      `json:"id"`
	Content   string     `json:"content"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// MessagePatch describes a partial update to a message.
type MessagePatch struct {
	Content *string
}

// IsZero reports whether the patch carries no changes.
func (p *MessagePatch) IsZero() bool {
	return p.Content == nil
}
