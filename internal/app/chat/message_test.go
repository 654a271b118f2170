package chat

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewForBothPerspectives(t *testing.T) {
	sentAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	msg := Message{ID: 1, Sender: "alice", Receiver: "bob", Body: "hi", SentAt: sentAt}

	fromAlice := msg.ViewFor("alice")
	assert.True(t, fromAlice.IsSentByCaller)
	assert.Equal(t, "hi", fromAlice.Text)
	assert.Equal(t, sentAt, fromAlice.Timestamp)

	fromBob := msg.ViewFor("bob")
	assert.False(t, fromBob.IsSentByCaller)
	assert.Equal(t, "hi", fromBob.Text)
}

func TestPushFrameShape(t *testing.T) {
	sentAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	payload, err := pushFrame(Message{ID: 42, Sender: "alice", Receiver: "bob", Body: "hi", SentAt: sentAt})
	require.NoError(t, err)

	var frame Frame
	require.NoError(t, json.Unmarshal(payload, &frame))
	assert.Equal(t, TypeMessage, frame.Type)

	var event MessagePayload
	require.NoError(t, json.Unmarshal(frame.Payload, &event))
	assert.Equal(t, int64(42), event.ID)
	assert.Equal(t, "alice", event.Sender)
	assert.Equal(t, "hi", event.Content)
	assert.True(t, event.Timestamp.Equal(sentAt))
}
