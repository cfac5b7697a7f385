package dto

import "github.com/witple/witple/internal/model"

// CreateMessageRequest represents the request body for creating a message.
type CreateMessageRequest struct {
	Content string `json:"content"`
}

// UpdateMessageRequest represents a partial message update.
type UpdateMessageRequest struct {
	Content *string `json:"content,omitempty"`
}

// ToMessagePatch converts the request into a repository patch.
func (r *UpdateMessageRequest) ToMessagePatch() model.MessagePatch {
	return model.MessagePatch{Content: r.Content}
}
