package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nnadozi/kram-backend/internal/app/models"
	"github.com/Nnadozi/kram-backend/internal/app/models/dto"
	"github.com/Nnadozi/kram-backend/internal/pkg/apperrors"
)

type messageFixture struct {
	svc      MessageService
	messages *fakeMessageRepo
	members  *fakeMembershipRepo
	cache    *fakeProfileCache
	hub      *fakeBroadcaster
}

func newMessageFixture() *messageFixture {
	messages := newFakeMessageRepo()
	members := newFakeMembershipRepo()
	cache := newFakeProfileCache()
	hub := &fakeBroadcaster{}

	return &messageFixture{
		svc:      NewMessageService(messages, members, cache, hub, zerolog.Nop()),
		messages: messages,
		members:  members,
		cache:    cache,
		hub:      hub,
	}
}

func (f *messageFixture) join(t *testing.T, groupID, userID, name string) {
	t.Helper()
	require.NoError(t, f.members.AddMember(context.Background(), groupID, userID))
	f.cache.Put(&models.User{ID: userID, FirstName: name, LastName: "Tester"})
}

func TestSendMessageDenormalizesSenderName(t *testing.T) {
	f := newMessageFixture()
	f.join(t, "g1", "u1", "Ada")

	resp, err := f.svc.SendMessage(context.Background(), "g1", "u1", &dto.SendMessageRequest{Text: "hello"})
	require.NoError(t, err)

	assert.Equal(t, "Ada Tester", resp.SenderName)
	assert.Equal(t, "hello", resp.Text)

	// The message is persisted and broadcast
	stored, err := f.messages.GetByID(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada Tester", stored.SenderName)

	require.Len(t, f.hub.broadcast, 1)
	assert.Equal(t, resp.ID, f.hub.broadcast[0].ID)
	assert.Equal(t, "g1", f.hub.broadcast[0].GroupID)
}

func TestSendMessageRequiresMembership(t *testing.T) {
	f := newMessageFixture()

	_, err := f.svc.SendMessage(context.Background(), "g1", "outsider", &dto.SendMessageRequest{Text: "hi"})
	assert.ErrorIs(t, err, apperrors.ErrNotMember)
}

func TestSendMessageValidatesText(t *testing.T) {
	f := newMessageFixture()
	f.join(t, "g1", "u1", "Ada")

	_, err := f.svc.SendMessage(context.Background(), "g1", "u1", &dto.SendMessageRequest{Text: "   "})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	long := make([]byte, 1001)
	for i := range long {
		long[i] = 'a'
	}
	_, err = f.svc.SendMessage(context.Background(), "g1", "u1", &dto.SendMessageRequest{Text: string(long)})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestGetRecentMessagesReturnsLastTenChronologically(t *testing.T) {
	f := newMessageFixture()
	f.join(t, "g1", "u1", "Ada")

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 15; i++ {
		require.NoError(t, f.messages.Create(context.Background(), &models.Message{
			ID:        fmt.Sprintf("m%02d", i),
			GroupID:   "g1",
			SenderID:  "u1",
			Text:      fmt.Sprintf("message %d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	resp, err := f.svc.GetRecentMessages(context.Background(), "g1", "u1")
	require.NoError(t, err)
	require.Len(t, resp.Messages, 10)

	// Oldest of the window first, newest last
	assert.Equal(t, "m05", resp.Messages[0].ID)
	assert.Equal(t, "m14", resp.Messages[9].ID)
	for i := 1; i < len(resp.Messages); i++ {
		assert.False(t, resp.Messages[i].CreatedAt.Before(resp.Messages[i-1].CreatedAt))
	}
}

func TestDeleteMessageOwnershipEnforced(t *testing.T) {
	f := newMessageFixture()
	f.join(t, "g1", "u1", "Ada")
	f.join(t, "g1", "u2", "Grace")

	sent, err := f.svc.SendMessage(context.Background(), "g1", "u1", &dto.SendMessageRequest{Text: "mine"})
	require.NoError(t, err)

	err = f.svc.DeleteMessage(context.Background(), sent.ID, "u2")
	require.ErrorIs(t, err, apperrors.ErrNotMessageSender)
	assert.Equal(t, "you can only delete your own messages", apperrors.ErrNotMessageSender.Error())

	require.NoError(t, f.svc.DeleteMessage(context.Background(), sent.ID, "u1"))

	_, err = f.messages.GetByID(context.Background(), sent.ID)
	assert.ErrorIs(t, err, apperrors.ErrMessageNotFound)
}

func TestDeleteMissingMessage(t *testing.T) {
	f := newMessageFixture()

	err := f.svc.DeleteMessage(context.Background(), "nope", "u1")
	assert.ErrorIs(t, err, apperrors.ErrMessageNotFound)
}

func TestSubscribeStreamsSnapshots(t *testing.T) {
	f := newMessageFixture()
	f.join(t, "g1", "u1", "Ada")
	f.join(t, "g1", "u2", "Grace")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stream, err := f.svc.Subscribe(ctx, "g1", "u2")
	require.NoError(t, err)

	// Initial snapshot is the (empty) full history
	select {
	case snapshot := <-stream:
		assert.Empty(t, snapshot)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for initial snapshot")
	}

	_, err = f.svc.SendMessage(context.Background(), "g1", "u1", &dto.SendMessageRequest{Text: "first"})
	require.NoError(t, err)

	select {
	case snapshot := <-stream:
		require.Len(t, snapshot, 1)
		assert.Equal(t, "first", snapshot[0].Text)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for snapshot after send")
	}

	// Cancelling the context closes the stream
	cancel()
	select {
	case _, ok := <-stream:
		if ok {
			// A buffered snapshot may still be in flight; the next read must close
			_, ok = <-stream
			assert.False(t, ok)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for stream close")
	}
}

func TestSubscribeRequiresMembership(t *testing.T) {
	f := newMessageFixture()

	_, err := f.svc.Subscribe(context.Background(), "g1", "outsider")
	assert.ErrorIs(t, err, apperrors.ErrNotMember)
}
