package chat

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pairchat/internal/pkg/errs"
)

// wsTestServer runs the full client lifecycle over real WebSocket connections,
// with the identity taken from the "identity" query parameter.
func wsTestServer(t *testing.T, reg *Registry, sender *Sender) *httptest.Server {
	t.Helper()

	upgrader := websocket.Upgrader{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)

		client := NewClient(reg, sender, conn, r.URL.Query().Get("identity"))
		reg.Register(client)
		go client.WritePump()
		client.ReadPump()
	}))
	t.Cleanup(srv.Close)

	return srv
}

func dial(t *testing.T, srv *httptest.Server, identity string) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "?identity=" + identity
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return conn
}

func writeFrame(t *testing.T, conn *websocket.Conn, frameType FrameType, payload any) {
	t.Helper()

	frame, err := NewFrame(frameType, payload)
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(frame))
}

func readFrame(t *testing.T, conn *websocket.Conn) Frame {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	var frame Frame
	require.NoError(t, conn.ReadJSON(&frame))
	return frame
}

// roomSize reports the current subscriber count of a room.
func roomSize(reg *Registry, roomKey string) int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return len(reg.rooms[roomKey])
}

func TestJoinAndSendOverWebSocket(t *testing.T) {
	history := &fakeHistory{}
	directory := &fakeDirectory{known: map[string]bool{"alice": true, "bob": true}}
	reg := NewRegistry()
	sender := NewSender(reg, history, directory)
	srv := wsTestServer(t, reg, sender)

	alice := dial(t, srv, "alice")
	bob := dial(t, srv, "bob")

	room := RoomKey("alice", "bob")
	writeFrame(t, alice, TypeJoin, JoinPayload{Peer: "bob"})
	writeFrame(t, bob, TypeJoin, JoinPayload{Peer: "alice"})

	require.Eventually(t, func() bool {
		return roomSize(reg, room) == 2
	}, 2*time.Second, 10*time.Millisecond)

	writeFrame(t, alice, TypeText, TextPayload{Peer: "bob", Content: "hi"})

	for _, conn := range []*websocket.Conn{alice, bob} {
		frame := readFrame(t, conn)
		assert.Equal(t, TypeMessage, frame.Type)

		var event MessagePayload
		require.NoError(t, json.Unmarshal(frame.Payload, &event))
		assert.Equal(t, "alice", event.Sender)
		assert.Equal(t, "hi", event.Content)
	}

	require.Len(t, history.messages, 1)
	assert.Equal(t, "alice", history.messages[0].Sender)
	assert.Equal(t, "bob", history.messages[0].Receiver)
}

func TestBlankTextRejectedOverWebSocket(t *testing.T) {
	history := &fakeHistory{}
	directory := &fakeDirectory{known: map[string]bool{"alice": true, "bob": true}}
	reg := NewRegistry()
	sender := NewSender(reg, history, directory)
	srv := wsTestServer(t, reg, sender)

	alice := dial(t, srv, "alice")
	writeFrame(t, alice, TypeText, TextPayload{Peer: "bob", Content: "   "})

	frame := readFrame(t, alice)
	assert.Equal(t, TypeError, frame.Type)

	var event ErrorPayload
	require.NoError(t, json.Unmarshal(frame.Payload, &event))
	assert.Equal(t, errs.ErrMessageEmpty, event.Code)
	assert.Empty(t, history.messages)
}

func TestDisconnectGoesOffline(t *testing.T) {
	history := &fakeHistory{}
	directory := &fakeDirectory{known: map[string]bool{"alice": true}}
	reg := NewRegistry()
	sender := NewSender(reg, history, directory)
	srv := wsTestServer(t, reg, sender)

	alice := dial(t, srv, "alice")

	require.Eventually(t, func() bool {
		return reg.IsOnline("alice")
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, alice.Close())

	require.Eventually(t, func() bool {
		return !reg.IsOnline("alice")
	}, 2*time.Second, 10*time.Millisecond)
}
