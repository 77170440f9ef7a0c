package websocket

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Nnadozi/kram-backend/internal/app/models"
)

// MessageSaver persists chat messages.
type MessageSaver interface {
	Create(ctx context.Context, message *models.Message) error
}

// MessageHandler processes WebSocket messages and persists them to the database
type MessageHandler struct {
	messages MessageSaver
	hub      *Hub
	logger   zerolog.Logger
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(messages MessageSaver, hub *Hub, logger zerolog.Logger) *MessageHandler {
	return &MessageHandler{
		messages: messages,
		hub:      hub,
		logger:   logger,
	}
}

// Start begins processing messages from the hub
func (h *MessageHandler) Start() {
	go h.processMessages()
}

func (h *MessageHandler) processMessages() {
	messageChan := make(chan *Message, 64)
	h.hub.AddMessageListener(messageChan)

	for message := range messageChan {
		// Messages that already carry an ID were persisted before broadcast
		if message.Type == "text" && message.ID == "" {
			h.processTextMessage(message)
		}
	}
}

// processTextMessage saves a text message to the database. The hub goroutine
// still holds the same *Message for fan-out, so the row gets its own ID
// rather than writing one back onto the shared value.
func (h *MessageHandler) processTextMessage(message *Message) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	chatMessage := &models.Message{
		ID:         uuid.New().String(),
		GroupID:    message.GroupID,
		SenderID:   message.SenderID,
		SenderName: message.SenderName,
		Text:       message.Text,
		CreatedAt:  message.Timestamp,
	}

	if err := h.messages.Create(ctx, chatMessage); err != nil {
		h.logger.Error().
			Err(err).
			Str("groupID", message.GroupID).
			Str("senderID", message.SenderID).
			Msg("Failed to save WebSocket message to database")
		return
	}

	h.logger.Debug().
		Str("messageID", chatMessage.ID).
		Str("groupID", message.GroupID).
		Msg("WebSocket message saved to database")
}
