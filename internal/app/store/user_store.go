// Package store keeps a small in-process cache of user profiles so hot paths
// (chat sender names, membership lists) do not hit the database on every call.
package store

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/Nnadozi/kram-backend/internal/app/models"
)

// UserLoader loads user profiles from the backing store.
type UserLoader interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// UserStore is a write-through profile cache. Reads fall back to the loader
// on miss; writes update the cache only after the backing store succeeded.
type UserStore struct {
	mu     sync.RWMutex
	users  map[string]*models.User
	loader UserLoader
	logger zerolog.Logger
}

// NewUserStore creates a new UserStore
func NewUserStore(loader UserLoader, logger zerolog.Logger) *UserStore {
	return &UserStore{
		users:  make(map[string]*models.User),
		loader: loader,
		logger: logger,
	}
}

// Get returns the cached profile for a user, loading it on miss.
func (s *UserStore) Get(ctx context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	user, ok := s.users[id]
	s.mu.RUnlock()
	if ok {
		return user, nil
	}

	user, err := s.loader.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.users[id] = user
	s.mu.Unlock()

	s.logger.Debug().Str("userId", id).Msg("Profile cached")
	return user, nil
}

// Put stores a freshly written profile. Call it after a successful database
// write so readers see the new state immediately.
func (s *UserStore) Put(user *models.User) {
	if user == nil {
		return
	}
	s.mu.Lock()
	s.users[user.ID] = user
	s.mu.Unlock()
}

// Invalidate drops a user from the cache
func (s *UserStore) Invalidate(id string) {
	s.mu.Lock()
	delete(s.users, id)
	s.mu.Unlock()
}

// Clear drops every cached profile
func (s *UserStore) Clear() {
	s.mu.Lock()
	s.users = make(map[string]*models.User)
	s.mu.Unlock()
}

// Len reports how many profiles are cached
func (s *UserStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}
