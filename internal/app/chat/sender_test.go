package chat

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pairchat/internal/pkg/errs"
)

// fakeHistory is an in-memory HistoryStore assigning sequential ids.
type fakeHistory struct {
	messages  []Message
	appendErr error
}

func (f *fakeHistory) Append(_ context.Context, msg Message) (Message, error) {
	if f.appendErr != nil {
		return Message{}, f.appendErr
	}

	msg.ID = int64(len(f.messages) + 1)
	msg.SentAt = time.Now().UTC()
	f.messages = append(f.messages, msg)
	return msg, nil
}

// fakeDirectory resolves a fixed set of identities.
type fakeDirectory struct {
	known     map[string]bool
	lookupErr error
}

func (f *fakeDirectory) Exists(_ context.Context, identity string) (bool, error) {
	if f.lookupErr != nil {
		return false, f.lookupErr
	}
	return f.known[identity], nil
}

func newTestSender(history *fakeHistory, directory *fakeDirectory) (*Sender, *Registry) {
	reg := NewRegistry()
	return NewSender(reg, history, directory), reg
}

func TestSendPersistsAndDelivers(t *testing.T) {
	history := &fakeHistory{}
	directory := &fakeDirectory{known: map[string]bool{"alice": true, "bob": true}}
	sender, reg := newTestSender(history, directory)

	bob := testClient(t, reg, "bob")
	reg.Subscribe(bob, RoomKey("alice", "bob"))

	msg, err := sender.Send(context.Background(), "alice", "bob", "hi")
	require.NoError(t, err)

	assert.Equal(t, int64(1), msg.ID)
	assert.Equal(t, "alice", msg.Sender)
	assert.Equal(t, "bob", msg.Receiver)
	assert.Equal(t, "hi", msg.Body)
	assert.False(t, msg.SentAt.IsZero())

	require.Len(t, history.messages, 1)
	assert.Len(t, drainFrames(t, bob), 1)
}

func TestSendTrimsWhitespace(t *testing.T) {
	history := &fakeHistory{}
	directory := &fakeDirectory{known: map[string]bool{"alice": true, "bob": true}}
	sender, _ := newTestSender(history, directory)

	msg, err := sender.Send(context.Background(), "alice", "bob", "  hi there\n")
	require.NoError(t, err)
	assert.Equal(t, "hi there", msg.Body)
}

func TestSendRejectsBlankText(t *testing.T) {
	history := &fakeHistory{}
	directory := &fakeDirectory{known: map[string]bool{"alice": true, "bob": true}}
	sender, _ := newTestSender(history, directory)

	for _, text := range []string{"", "   ", "\t\n"} {
		_, err := sender.Send(context.Background(), "alice", "bob", text)

		var customErr *errs.CustomError
		require.ErrorAs(t, err, &customErr)
		assert.Equal(t, errs.ErrMessageEmpty, customErr.Code)
	}

	assert.Empty(t, history.messages, "nothing may be persisted for rejected input")
}

func TestSendRejectsOversizedText(t *testing.T) {
	history := &fakeHistory{}
	directory := &fakeDirectory{known: map[string]bool{"alice": true, "bob": true}}
	sender, _ := newTestSender(history, directory)

	_, err := sender.Send(context.Background(), "alice", "bob", strings.Repeat("x", MaxContentBytes+1))

	var customErr *errs.CustomError
	require.ErrorAs(t, err, &customErr)
	assert.Equal(t, errs.ErrMessageContentTooLong, customErr.Code)
	assert.Empty(t, history.messages)
}

func TestSendRejectsUnknownPeer(t *testing.T) {
	history := &fakeHistory{}
	directory := &fakeDirectory{known: map[string]bool{"alice": true}}
	sender, _ := newTestSender(history, directory)

	_, err := sender.Send(context.Background(), "alice", "bob", "hi")

	var customErr *errs.CustomError
	require.ErrorAs(t, err, &customErr)
	assert.Equal(t, errs.ErrPeerNotFound, customErr.Code)
	assert.Empty(t, history.messages)
}

func TestSendFailsClosedOnDirectoryError(t *testing.T) {
	history := &fakeHistory{}
	directory := &fakeDirectory{lookupErr: errors.New("db down")}
	sender, _ := newTestSender(history, directory)

	_, err := sender.Send(context.Background(), "alice", "bob", "hi")
	require.Error(t, err)
	assert.Empty(t, history.messages)
}

func TestSendPersistenceFailureSkipsDelivery(t *testing.T) {
	history := &fakeHistory{appendErr: errors.New("disk full")}
	directory := &fakeDirectory{known: map[string]bool{"alice": true, "bob": true}}
	sender, reg := newTestSender(history, directory)

	bob := testClient(t, reg, "bob")
	reg.Subscribe(bob, RoomKey("alice", "bob"))

	_, err := sender.Send(context.Background(), "alice", "bob", "hi")

	var customErr *errs.CustomError
	require.ErrorAs(t, err, &customErr)
	assert.Equal(t, errs.ErrMessageNotStored, customErr.Code)
	assert.Empty(t, drainFrames(t, bob), "nothing may be delivered live when persistence failed")
}

func TestSendToOfflinePeerStillPersists(t *testing.T) {
	// The concrete scenario: alice messages bob while bob is offline.
	history := &fakeHistory{}
	directory := &fakeDirectory{known: map[string]bool{"alice": true, "bob": true}}
	sender, reg := newTestSender(history, directory)

	assert.False(t, reg.IsOnline("bob"))

	msg, err := sender.Send(context.Background(), "alice", "bob", "hi")
	require.NoError(t, err)

	require.Len(t, history.messages, 1)
	assert.Equal(t, "alice__bob", msg.RoomKey())

	entry := msg.ViewFor("alice")
	assert.Equal(t, "hi", entry.Text)
	assert.True(t, entry.IsSentByCaller)
}

func TestSendSelfRoom(t *testing.T) {
	history := &fakeHistory{}
	directory := &fakeDirectory{known: map[string]bool{"alice": true}}
	sender, reg := newTestSender(history, directory)

	tab := testClient(t, reg, "alice")
	reg.Subscribe(tab, RoomKey("alice", "alice"))

	msg, err := sender.Send(context.Background(), "alice", "alice", "note to self")
	require.NoError(t, err)

	assert.Equal(t, "alice__alice", msg.RoomKey())
	assert.Len(t, drainFrames(t, tab), 1)
}
