// Package services holds the domain logic. Each service depends on narrow
// repository interfaces so the implementations can be swapped for in-memory
// fakes in tests.
package services

import (
	"context"

	"github.com/Nnadozi/kram-backend/internal/app/models"
	"github.com/Nnadozi/kram-backend/internal/pkg/websocket"
)

// UserRepository persists user accounts and profiles.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, user *models.User) error
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
	DeleteAccount(ctx context.Context, userID string) error
}

// GroupRepository persists study groups.
type GroupRepository interface {
	Create(ctx context.Context, group *models.Group) error
	GetByID(ctx context.Context, id string) (*models.Group, error)
	GetByIDs(ctx context.Context, ids []string) ([]*models.Group, error)
	Update(ctx context.Context, group *models.Group) error
	TransferOwnership(ctx context.Context, groupID, newOwnerID string) error
	Delete(ctx context.Context, id string) error
}

// MembershipRepository persists the group membership relation.
type MembershipRepository interface {
	AddMember(ctx context.Context, groupID, userID string) error
	RemoveMember(ctx context.Context, groupID, userID string) error
	IsMember(ctx context.Context, groupID, userID string) (bool, error)
	GetGroupIDsByUser(ctx context.Context, userID string) ([]string, error)
	GetMembers(ctx context.Context, groupID string) ([]*models.GroupMember, error)
	CountByGroupIDs(ctx context.Context, groupIDs []string) (map[string]int, error)
}

// MeetupRepository persists meetups and their attendance.
type MeetupRepository interface {
	Create(ctx context.Context, meetup *models.Meetup) error
	GetByID(ctx context.Context, id string) (*models.Meetup, error)
	GetByGroupID(ctx context.Context, groupID string) ([]*models.Meetup, error)
	GetByUserMembership(ctx context.Context, userID string) ([]*models.Meetup, error)
	Update(ctx context.Context, meetup *models.Meetup) error
	Delete(ctx context.Context, id string) error
	AddAttendee(ctx context.Context, meetupID, userID string) error
	RemoveAttendee(ctx context.Context, meetupID, userID string) error
	GetAttendeeIDs(ctx context.Context, meetupID string) ([]string, error)
}

// MessageRepository persists group chat messages.
type MessageRepository interface {
	Create(ctx context.Context, message *models.Message) error
	GetByID(ctx context.Context, id string) (*models.Message, error)
	GetRecentByGroupID(ctx context.Context, groupID string, limit int) ([]*models.Message, error)
	GetAllByGroupID(ctx context.Context, groupID string) ([]*models.Message, error)
	Delete(ctx context.Context, id string) error
}

// TokenRepository persists refresh tokens.
type TokenRepository interface {
	Save(ctx context.Context, token *models.RefreshToken) error
	GetByToken(ctx context.Context, tokenValue string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, tokenValue string) error
	RevokeAllForUser(ctx context.Context, userID string) error
}

// ProfileCache is the read-through user profile cache.
type ProfileCache interface {
	Get(ctx context.Context, id string) (*models.User, error)
	Put(user *models.User)
	Invalidate(id string)
}

// Broadcaster fans chat messages out to connected clients and listeners.
type Broadcaster interface {
	BroadcastToGroup(message *websocket.Message)
	AddMessageListener(listener chan *websocket.Message)
	RemoveMessageListener(listener chan *websocket.Message)
}
