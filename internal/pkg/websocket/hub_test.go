package websocket

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nnadozi/kram-backend/internal/app/models"
)

func newTestMessage(groupID, text string) *Message {
	return &Message{
		Type:       "text",
		GroupID:    groupID,
		SenderID:   "u1",
		SenderName: "Ada Tester",
		Text:       text,
		Timestamp:  time.Now(),
	}
}

func TestHubNotifiesListeners(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	go hub.Run()

	listener := make(chan *Message, 1)
	hub.AddMessageListener(listener)

	hub.BroadcastToGroup(newTestMessage("g1", "hello"))

	select {
	case message := <-listener:
		assert.Equal(t, "g1", message.GroupID)
		assert.Equal(t, "hello", message.Text)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for listener notification")
	}
}

func TestHubSkipsFullListener(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	go hub.Run()

	full := make(chan *Message) // unbuffered and never read
	healthy := make(chan *Message, 2)
	hub.AddMessageListener(full)
	hub.AddMessageListener(healthy)

	hub.BroadcastToGroup(newTestMessage("g1", "first"))
	hub.BroadcastToGroup(newTestMessage("g1", "second"))

	// The healthy listener still gets both messages
	for _, want := range []string{"first", "second"} {
		select {
		case message := <-healthy:
			assert.Equal(t, want, message.Text)
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for %q", want)
		}
	}
}

func TestHubRemoveMessageListener(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	go hub.Run()

	listener := make(chan *Message, 1)
	hub.AddMessageListener(listener)
	hub.RemoveMessageListener(listener)

	hub.BroadcastToGroup(newTestMessage("g1", "after removal"))

	select {
	case message := <-listener:
		t.Fatalf("removed listener received message %q", message.Text)
	case <-time.After(100 * time.Millisecond):
	}
}

func addTestClient(hub *Hub, groupID, userID string, buffer int) *Client {
	client := &Client{
		hub:     hub,
		send:    make(chan []byte, buffer),
		userID:  userID,
		groupID: groupID,
		logger:  zerolog.Nop(),
	}

	hub.mu.Lock()
	if _, ok := hub.clients[groupID]; !ok {
		hub.clients[groupID] = make(map[*Client]bool)
	}
	hub.clients[groupID][client] = true
	hub.mu.Unlock()

	return client
}

func TestHubEvictsSlowClientWithoutStalling(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	go hub.Run()

	slow := addTestClient(hub, "g1", "slow", 0)
	healthy := addTestClient(hub, "g1", "fast", 4)

	// The slow client cannot take the first message and gets evicted
	hub.BroadcastToGroup(newTestMessage("g1", "first"))

	done := make(chan struct{})
	go func() {
		hub.BroadcastToGroup(newTestMessage("g1", "second"))
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("broadcast stalled after evicting a slow client")
	}

	require.Eventually(t, func() bool {
		return hub.GetClientsCount("g1") == 1
	}, time.Second, 10*time.Millisecond)

	// Eviction closed the slow client's send channel
	_, open := <-slow.send
	assert.False(t, open)

	assert.Len(t, healthy.send, 2)
}

type recordingSaver struct {
	mu    sync.Mutex
	saved []*models.Message
}

func (r *recordingSaver) Create(_ context.Context, message *models.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saved = append(r.saved, message)
	return nil
}

func (r *recordingSaver) all() []*models.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*models.Message{}, r.saved...)
}

func TestMessageHandlerPersistsClientMessages(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	go hub.Run()

	saver := &recordingSaver{}
	handler := NewMessageHandler(saver, hub, zerolog.Nop())
	handler.Start()

	// No ID means the message came straight off a websocket
	original := newTestMessage("g1", "from socket")
	hub.BroadcastToGroup(original)

	require.Eventually(t, func() bool {
		return len(saver.all()) == 1
	}, time.Second, 10*time.Millisecond)

	saved := saver.all()[0]
	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, "g1", saved.GroupID)
	assert.Equal(t, "Ada Tester", saved.SenderName)
	assert.Equal(t, "from socket", saved.Text)

	// The broadcast value itself is shared with the hub and stays untouched
	assert.Empty(t, original.ID)
}

func TestMessageHandlerSkipsPersistedMessages(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	go hub.Run()

	saver := &recordingSaver{}
	handler := NewMessageHandler(saver, hub, zerolog.Nop())
	handler.Start()

	persisted := newTestMessage("g1", "already stored")
	persisted.ID = "m1"
	hub.BroadcastToGroup(persisted)
	hub.BroadcastToGroup(newTestMessage("g1", "fresh"))

	require.Eventually(t, func() bool {
		return len(saver.all()) == 1
	}, time.Second, 10*time.Millisecond)

	// Only the fresh message was stored
	time.Sleep(50 * time.Millisecond)
	saved := saver.all()
	require.Len(t, saved, 1)
	assert.Equal(t, "fresh", saved[0].Text)
}
