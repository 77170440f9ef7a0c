package dto

import (
	"time"

	"github.com/Nnadozi/kram-backend/internal/app/models"
)

// SendMessageRequest represents a new chat message
type SendMessageRequest struct {
	Text string `json:"text" binding:"required,min=1,max=1000"`
}

// MessageResponse represents a chat message
type MessageResponse struct {
	ID         string    `json:"id"`
	GroupID    string    `json:"groupId"`
	SenderID   string    `json:"senderId"`
	SenderName string    `json:"senderName"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"createdAt"`
}

// MessageListResponse represents an ordered list of chat messages
type MessageListResponse struct {
	Messages []MessageResponse `json:"messages"`
}

// FromMessage converts a models.Message to a MessageResponse
func FromMessage(message *models.Message) MessageResponse {
	return MessageResponse{
		ID:         message.ID,
		GroupID:    message.GroupID,
		SenderID:   message.SenderID,
		SenderName: message.SenderName,
		Text:       message.Text,
		CreatedAt:  message.CreatedAt,
	}
}

// FromMessages converts a slice of models.Message preserving order
func FromMessages(messages []*models.Message) []MessageResponse {
	responses := make([]MessageResponse, 0, len(messages))
	for _, message := range messages {
		responses = append(responses, FromMessage(message))
	}
	return responses
}
