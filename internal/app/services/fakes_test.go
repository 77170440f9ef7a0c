package services

import (
	"context"
	"sort"
	"sync"

	"github.com/Nnadozi/kram-backend/internal/app/models"
	"github.com/Nnadozi/kram-backend/internal/pkg/apperrors"
	"github.com/Nnadozi/kram-backend/internal/pkg/websocket"
)

// In-memory repository fakes backing the service tests.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User

	// rows removed by DeleteAccount, recorded for cascade assertions
	deleted []string

	// cascade mirrors the production single-transaction delete: it runs
	// only after the user row itself was removed
	cascade func(userID string)

	failDelete bool
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*models.User{}}
}

func (f *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == user.Email {
			return apperrors.ErrEmailAlreadyExists
		}
	}
	clone := *user
	f.users[user.ID] = &clone
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (f *fakeUserRepo) EmailExists(_ context.Context, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[user.ID]; !ok {
		return apperrors.ErrUserNotFound
	}
	clone := *user
	f.users[user.ID] = &clone
	return nil
}

func (f *fakeUserRepo) UpdatePassword(_ context.Context, userID, passwordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[userID]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	user.Password = passwordHash
	return nil
}

func (f *fakeUserRepo) DeleteAccount(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failDelete {
		return apperrors.ErrResourceNotFound
	}
	if _, ok := f.users[userID]; !ok {
		return apperrors.ErrUserNotFound
	}
	delete(f.users, userID)
	f.deleted = append(f.deleted, userID)
	if f.cascade != nil {
		f.cascade(userID)
	}
	return nil
}

type fakeGroupRepo struct {
	mu      sync.Mutex
	groups  map[string]*models.Group
	members *fakeMembershipRepo
}

func newFakeGroupRepo(members *fakeMembershipRepo) *fakeGroupRepo {
	return &fakeGroupRepo{groups: map[string]*models.Group{}, members: members}
}

func (f *fakeGroupRepo) Create(_ context.Context, group *models.Group) error {
	f.mu.Lock()
	clone := *group
	f.groups[group.ID] = &clone
	f.mu.Unlock()
	if f.members != nil {
		return f.members.AddMember(context.Background(), group.ID, group.CreatedBy)
	}
	return nil
}

func (f *fakeGroupRepo) GetByID(_ context.Context, id string) (*models.Group, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	group, ok := f.groups[id]
	if !ok {
		return nil, apperrors.ErrGroupNotFound
	}
	clone := *group
	return &clone, nil
}

func (f *fakeGroupRepo) GetByIDs(_ context.Context, ids []string) ([]*models.Group, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	groups := []*models.Group{}
	for _, id := range ids {
		if group, ok := f.groups[id]; ok {
			clone := *group
			groups = append(groups, &clone)
		}
	}
	return groups, nil
}

func (f *fakeGroupRepo) Update(_ context.Context, group *models.Group) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.groups[group.ID]; !ok {
		return apperrors.ErrGroupNotFound
	}
	clone := *group
	f.groups[group.ID] = &clone
	return nil
}

func (f *fakeGroupRepo) TransferOwnership(_ context.Context, groupID, newOwnerID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	group, ok := f.groups[groupID]
	if !ok {
		return apperrors.ErrGroupNotFound
	}
	group.CreatedBy = newOwnerID
	return nil
}

func (f *fakeGroupRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.groups[id]; !ok {
		return apperrors.ErrGroupNotFound
	}
	delete(f.groups, id)
	return nil
}

type membershipKey struct {
	groupID string
	userID  string
}

type fakeMembershipRepo struct {
	mu      sync.Mutex
	members map[membershipKey]bool
	users   map[string]*models.User
}

func newFakeMembershipRepo() *fakeMembershipRepo {
	return &fakeMembershipRepo{
		members: map[membershipKey]bool{},
		users:   map[string]*models.User{},
	}
}

func (f *fakeMembershipRepo) AddMember(_ context.Context, groupID, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := membershipKey{groupID, userID}
	if f.members[key] {
		return apperrors.ErrAlreadyMember
	}
	f.members[key] = true
	return nil
}

func (f *fakeMembershipRepo) RemoveMember(_ context.Context, groupID, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := membershipKey{groupID, userID}
	if !f.members[key] {
		return apperrors.ErrNotMember
	}
	delete(f.members, key)
	return nil
}

func (f *fakeMembershipRepo) IsMember(_ context.Context, groupID, userID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.members[membershipKey{groupID, userID}], nil
}

func (f *fakeMembershipRepo) GetGroupIDsByUser(_ context.Context, userID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := []string{}
	for key := range f.members {
		if key.userID == userID {
			ids = append(ids, key.groupID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (f *fakeMembershipRepo) memberIDs(groupID string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := []string{}
	for key := range f.members {
		if key.groupID == groupID {
			ids = append(ids, key.userID)
		}
	}
	sort.Strings(ids)
	return ids
}

func (f *fakeMembershipRepo) GetMembers(_ context.Context, groupID string) ([]*models.GroupMember, error) {
	ids := f.memberIDs(groupID)
	members := []*models.GroupMember{}
	for _, id := range ids {
		member := &models.GroupMember{GroupID: groupID, UserID: id}
		if user, ok := f.users[id]; ok {
			member.User = user
		}
		members = append(members, member)
	}
	return members, nil
}

func (f *fakeMembershipRepo) CountByGroupIDs(_ context.Context, groupIDs []string) (map[string]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := map[string]int{}
	for _, groupID := range groupIDs {
		for key := range f.members {
			if key.groupID == groupID {
				counts[groupID]++
			}
		}
	}
	return counts, nil
}

type fakeMeetupRepo struct {
	mu        sync.Mutex
	meetups   map[string]*models.Meetup
	attendees map[membershipKey]bool
}

func newFakeMeetupRepo() *fakeMeetupRepo {
	return &fakeMeetupRepo{
		meetups:   map[string]*models.Meetup{},
		attendees: map[membershipKey]bool{},
	}
}

func (f *fakeMeetupRepo) Create(_ context.Context, meetup *models.Meetup) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := *meetup
	f.meetups[meetup.ID] = &clone
	f.attendees[membershipKey{meetup.ID, meetup.CreatedBy}] = true
	return nil
}

func (f *fakeMeetupRepo) GetByID(_ context.Context, id string) (*models.Meetup, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	meetup, ok := f.meetups[id]
	if !ok {
		return nil, apperrors.ErrMeetupNotFound
	}
	clone := *meetup
	return &clone, nil
}

func (f *fakeMeetupRepo) GetByGroupID(_ context.Context, groupID string) ([]*models.Meetup, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	meetups := []*models.Meetup{}
	for _, meetup := range f.meetups {
		if meetup.GroupID == groupID {
			clone := *meetup
			meetups = append(meetups, &clone)
		}
	}
	return meetups, nil
}

func (f *fakeMeetupRepo) GetByUserMembership(_ context.Context, _ string) ([]*models.Meetup, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	meetups := []*models.Meetup{}
	for _, meetup := range f.meetups {
		clone := *meetup
		meetups = append(meetups, &clone)
	}
	return meetups, nil
}

func (f *fakeMeetupRepo) Update(_ context.Context, meetup *models.Meetup) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.meetups[meetup.ID]; !ok {
		return apperrors.ErrMeetupNotFound
	}
	clone := *meetup
	f.meetups[meetup.ID] = &clone
	return nil
}

func (f *fakeMeetupRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.meetups[id]; !ok {
		return apperrors.ErrMeetupNotFound
	}
	delete(f.meetups, id)
	return nil
}

func (f *fakeMeetupRepo) AddAttendee(_ context.Context, meetupID, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := membershipKey{meetupID, userID}
	if f.attendees[key] {
		return apperrors.ErrAlreadyAttending
	}
	f.attendees[key] = true
	return nil
}

func (f *fakeMeetupRepo) RemoveAttendee(_ context.Context, meetupID, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := membershipKey{meetupID, userID}
	if !f.attendees[key] {
		return apperrors.ErrNotAttending
	}
	delete(f.attendees, key)
	return nil
}

func (f *fakeMeetupRepo) GetAttendeeIDs(_ context.Context, meetupID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := []string{}
	for key := range f.attendees {
		if key.groupID == meetupID {
			ids = append(ids, key.userID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

type fakeMessageRepo struct {
	mu       sync.Mutex
	messages []*models.Message
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{}
}

func (f *fakeMessageRepo) Create(_ context.Context, message *models.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := *message
	f.messages = append(f.messages, &clone)
	return nil
}

func (f *fakeMessageRepo) GetByID(_ context.Context, id string) (*models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, message := range f.messages {
		if message.ID == id {
			clone := *message
			return &clone, nil
		}
	}
	return nil, apperrors.ErrMessageNotFound
}

func (f *fakeMessageRepo) byGroup(groupID string) []*models.Message {
	result := []*models.Message{}
	for _, message := range f.messages {
		if message.GroupID == groupID {
			clone := *message
			result = append(result, &clone)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result
}

func (f *fakeMessageRepo) GetRecentByGroupID(_ context.Context, groupID string, limit int) ([]*models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	asc := f.byGroup(groupID)
	// newest first, capped at limit
	desc := []*models.Message{}
	for i := len(asc) - 1; i >= 0 && len(desc) < limit; i-- {
		desc = append(desc, asc[i])
	}
	return desc, nil
}

func (f *fakeMessageRepo) GetAllByGroupID(_ context.Context, groupID string) ([]*models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byGroup(groupID), nil
}

func (f *fakeMessageRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, message := range f.messages {
		if message.ID == id {
			f.messages = append(f.messages[:i], f.messages[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrMessageNotFound
}

type fakeTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]*models.RefreshToken
	nextID int64
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{tokens: map[string]*models.RefreshToken{}}
}

func (f *fakeTokenRepo) Save(_ context.Context, token *models.RefreshToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	token.ID = f.nextID
	clone := *token
	f.tokens[token.Token] = &clone
	return nil
}

func (f *fakeTokenRepo) GetByToken(_ context.Context, tokenValue string) (*models.RefreshToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	token, ok := f.tokens[tokenValue]
	if !ok {
		return nil, apperrors.ErrTokenNotFound
	}
	clone := *token
	return &clone, nil
}

func (f *fakeTokenRepo) Revoke(_ context.Context, tokenValue string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	token, ok := f.tokens[tokenValue]
	if !ok {
		return apperrors.ErrTokenNotFound
	}
	token.Revoked = true
	return nil
}

func (f *fakeTokenRepo) RevokeAllForUser(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, token := range f.tokens {
		if token.UserID == userID {
			token.Revoked = true
		}
	}
	return nil
}

type fakeProfileCache struct {
	mu          sync.Mutex
	users       map[string]*models.User
	invalidated []string
}

func newFakeProfileCache() *fakeProfileCache {
	return &fakeProfileCache{users: map[string]*models.User{}}
}

func (f *fakeProfileCache) Get(_ context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeProfileCache) Put(user *models.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[user.ID] = user
}

func (f *fakeProfileCache) Invalidate(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.users, id)
	f.invalidated = append(f.invalidated, id)
}

type fakeBroadcaster struct {
	mu        sync.Mutex
	broadcast []*websocket.Message
	listeners []chan *websocket.Message
}

func (f *fakeBroadcaster) BroadcastToGroup(message *websocket.Message) {
	f.mu.Lock()
	f.broadcast = append(f.broadcast, message)
	listeners := append([]chan *websocket.Message{}, f.listeners...)
	f.mu.Unlock()
	for _, listener := range listeners {
		select {
		case listener <- message:
		default:
		}
	}
}

func (f *fakeBroadcaster) AddMessageListener(listener chan *websocket.Message) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listeners = append(f.listeners, listener)
}

func (f *fakeBroadcaster) RemoveMessageListener(listener chan *websocket.Message) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, l := range f.listeners {
		if l == listener {
			f.listeners = append(f.listeners[:i], f.listeners[i+1:]...)
			return
		}
	}
}
