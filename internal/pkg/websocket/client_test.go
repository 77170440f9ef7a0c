package websocket

import (
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient() *Client {
	return &Client{
		userID:     "u1",
		senderName: "Ada Tester",
		groupID:    "g1",
		logger:     zerolog.Nop(),
	}
}

func TestInboundMessageForcesIdentityFields(t *testing.T) {
	client := newTestClient()

	raw := []byte(`{"type":"delete","id":"m99","senderId":"u2","senderName":"Impostor","groupId":"g2","text":"  hello  "}`)
	msg, ok := client.inboundMessage(raw)
	require.True(t, ok)

	// Whatever the frame claimed, the connection decides who sent what
	assert.Equal(t, "text", msg.Type)
	assert.Empty(t, msg.ID)
	assert.Equal(t, "u1", msg.SenderID)
	assert.Equal(t, "Ada Tester", msg.SenderName)
	assert.Equal(t, "g1", msg.GroupID)
	assert.Equal(t, "hello", msg.Text)
	assert.WithinDuration(t, time.Now(), msg.Timestamp, time.Second)
}

func TestInboundMessageRejectsBadFrames(t *testing.T) {
	client := newTestClient()

	tests := []struct {
		name string
		raw  string
	}{
		{"malformed json", `{"text":`},
		{"empty text", `{"text":""}`},
		{"whitespace only", `{"text":"   "}`},
		{"text too long", `{"text":"` + strings.Repeat("a", 1001) + `"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := client.inboundMessage([]byte(tt.raw))
			assert.False(t, ok)
		})
	}
}
