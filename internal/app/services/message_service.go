package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Nnadozi/kram-backend/internal/app/models"
	"github.com/Nnadozi/kram-backend/internal/app/models/dto"
	"github.com/Nnadozi/kram-backend/internal/pkg/apperrors"
	"github.com/Nnadozi/kram-backend/internal/pkg/validation"
	"github.com/Nnadozi/kram-backend/internal/pkg/websocket"
)

// RecentMessageLimit bounds the chat preview to the latest messages
const RecentMessageLimit = 10

// MessageService defines the interface for group chat operations
type MessageService interface {
	SendMessage(ctx context.Context, groupID, senderID string, req *dto.SendMessageRequest) (*dto.MessageResponse, error)
	GetRecentMessages(ctx context.Context, groupID, userID string) (*dto.MessageListResponse, error)
	GetAllMessages(ctx context.Context, groupID, userID string) (*dto.MessageListResponse, error)
	Subscribe(ctx context.Context, groupID, userID string) (<-chan []dto.MessageResponse, error)
	DeleteMessage(ctx context.Context, messageID, userID string) error
}

type messageServiceImpl struct {
	messageRepo    MessageRepository
	membershipRepo MembershipRepository
	cache          ProfileCache
	hub            Broadcaster
	logger         zerolog.Logger
}

// NewMessageService creates a new MessageService
func NewMessageService(
	messageRepo MessageRepository,
	membershipRepo MembershipRepository,
	cache ProfileCache,
	hub Broadcaster,
	logger zerolog.Logger,
) MessageService {
	return &messageServiceImpl{
		messageRepo:    messageRepo,
		membershipRepo: membershipRepo,
		cache:          cache,
		hub:            hub,
		logger:         logger,
	}
}

func (s *messageServiceImpl) requireMember(ctx context.Context, groupID, userID string) error {
	isMember, err := s.membershipRepo.IsMember(ctx, groupID, userID)
	if err != nil {
		return err
	}
	if !isMember {
		return apperrors.ErrNotMember
	}
	return nil
}

// SendMessage persists a chat message and fans it out to connected clients.
// The sender's display name is denormalized onto the message at send time.
func (s *messageServiceImpl) SendMessage(ctx context.Context, groupID, senderID string, req *dto.SendMessageRequest) (*dto.MessageResponse, error) {
	if err := s.requireMember(ctx, groupID, senderID); err != nil {
		return nil, err
	}

	text := strings.TrimSpace(req.Text)
	if !validation.MessageText(text) {
		return nil, apperrors.NewValidationError("Message text must be between 1 and 1000 characters")
	}

	senderName := ""
	if sender, err := s.cache.Get(ctx, senderID); err == nil {
		senderName = sender.FullName()
	}

	message := &models.Message{
		ID:         uuid.New().String(),
		GroupID:    groupID,
		SenderID:   senderID,
		SenderName: senderName,
		Text:       text,
		CreatedAt:  time.Now(),
	}

	if err := s.messageRepo.Create(ctx, message); err != nil {
		return nil, err
	}

	s.hub.BroadcastToGroup(&websocket.Message{
		Type:       "text",
		ID:         message.ID,
		GroupID:    groupID,
		SenderID:   senderID,
		SenderName: senderName,
		Text:       text,
		Timestamp:  message.CreatedAt,
	})

	resp := dto.FromMessage(message)
	return &resp, nil
}

// GetRecentMessages returns the latest messages in chronological order
func (s *messageServiceImpl) GetRecentMessages(ctx context.Context, groupID, userID string) (*dto.MessageListResponse, error) {
	if err := s.requireMember(ctx, groupID, userID); err != nil {
		return nil, err
	}

	messages, err := s.messageRepo.GetRecentByGroupID(ctx, groupID, RecentMessageLimit)
	if err != nil {
		return nil, err
	}

	// Rows come newest first; flip them so the client renders top-down
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return &dto.MessageListResponse{Messages: dto.FromMessages(messages)}, nil
}

// GetAllMessages returns the full chat history in chronological order
func (s *messageServiceImpl) GetAllMessages(ctx context.Context, groupID, userID string) (*dto.MessageListResponse, error) {
	if err := s.requireMember(ctx, groupID, userID); err != nil {
		return nil, err
	}

	messages, err := s.messageRepo.GetAllByGroupID(ctx, groupID)
	if err != nil {
		return nil, err
	}

	return &dto.MessageListResponse{Messages: dto.FromMessages(messages)}, nil
}

// Subscribe streams full ordered snapshots of the group's messages. A new
// snapshot is emitted after every message in the group; the stream closes
// when the context is cancelled.
func (s *messageServiceImpl) Subscribe(ctx context.Context, groupID, userID string) (<-chan []dto.MessageResponse, error) {
	if err := s.requireMember(ctx, groupID, userID); err != nil {
		return nil, err
	}

	out := make(chan []dto.MessageResponse, 1)
	listener := make(chan *websocket.Message, 16)
	s.hub.AddMessageListener(listener)

	emit := func() {
		messages, err := s.messageRepo.GetAllByGroupID(ctx, groupID)
		if err != nil {
			s.logger.Error().Err(err).Str("groupId", groupID).Msg("Failed to load messages for subscription")
			return
		}
		snapshot := dto.FromMessages(messages)
		select {
		case out <- snapshot:
		default:
			// Drop the stale snapshot; a newer one replaces it
			select {
			case <-out:
			default:
			}
			out <- snapshot
		}
	}

	go func() {
		defer func() {
			s.hub.RemoveMessageListener(listener)
			close(out)
		}()

		emit()

		for {
			select {
			case <-ctx.Done():
				return
			case message, ok := <-listener:
				if !ok {
					return
				}
				if message.GroupID == groupID {
					emit()
				}
			}
		}
	}()

	return out, nil
}

// DeleteMessage removes a message. Only the sender may delete their own
// messages; everyone else gets an ownership error.
func (s *messageServiceImpl) DeleteMessage(ctx context.Context, messageID, userID string) error {
	message, err := s.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return err
	}

	if message.SenderID != userID {
		return apperrors.ErrNotMessageSender
	}

	if err := s.messageRepo.Delete(ctx, messageID); err != nil {
		return err
	}

	// Subscribers re-snapshot on any hub event, so connected clients drop
	// the message without a dedicated delete protocol
	s.hub.BroadcastToGroup(&websocket.Message{
		Type:      "delete",
		ID:        message.ID,
		GroupID:   message.GroupID,
		SenderID:  userID,
		Timestamp: time.Now(),
	})

	return nil
}
