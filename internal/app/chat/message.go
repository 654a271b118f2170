/*
Package chat contains the core logic for real-time presence tracking, pairwise
room resolution, and message routing between live connections.

This file defines the persisted chat message and the JSON frame types exchanged
over the WebSocket connection.
*/
package chat

import (
	"encoding/json"
	"time"
)

// Message is one direct message between two identities. It is created by the
// Sender, persisted by the history store, and immutable afterwards.
type Message struct {
	// ID is the storage-assigned identifier; zero until the message is persisted.
	ID int64 `json:"id"`

	// Sender and Receiver are the identities on either end of the message.
	Sender   string `json:"sender"`
	Receiver string `json:"receiver"`

	// Body is the message text, non-empty after trimming.
	Body string `json:"body"`

	// SentAt is the UTC timestamp assigned when the message was accepted.
	SentAt time.Time `json:"sentAt"`
}

// RoomKey returns the canonical room key for the message's participant pair.
func (m Message) RoomKey() string {
	return RoomKey(m.Sender, m.Receiver)
}

// HistoryEntry is the client-facing projection of a Message, relative to the
// identity that asked for it.
type HistoryEntry struct {
	Text           string    `json:"text"`
	IsSentByCaller bool      `json:"isSentByCaller"`
	Timestamp      time.Time `json:"timestamp"`
}

// ViewFor projects the message into the perspective of the given caller.
func (m Message) ViewFor(caller string) HistoryEntry {
	return HistoryEntry{
		Text:           m.Body,
		IsSentByCaller: m.Sender == caller,
		Timestamp:      m.SentAt,
	}
}

// FrameType identifies the kind of JSON frame on the WebSocket.
type FrameType string

const (
	// TypeJoin is sent by a client to subscribe its connection to the room
	// shared with a named peer.
	TypeJoin FrameType = "JOIN"

	// TypeText is sent by a client to deliver a text message to a peer.
	TypeText FrameType = "TEXT"

	// TypeMessage is pushed by the server to every connection subscribed to
	// the room a message was sent into.
	TypeMessage FrameType = "MESSAGE"

	// TypeError is pushed by the server when an inbound frame is rejected.
	TypeError FrameType = "ERROR"
)

// Frame is the envelope for every JSON message on the wire.
type Frame struct {
	Type    FrameType       `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// JoinPayload names the peer whose shared room the connection wants to join.
type JoinPayload struct {
	Peer string `json:"peer"`
}

// TextPayload carries an outbound text message from a client.
type TextPayload struct {
	Peer    string `json:"peer"`
	Content string `json:"content"`
}

// MessagePayload is the push event delivered to room subscribers.
type MessagePayload struct {
	ID        int64     `json:"id"`
	Sender    string    `json:"sender"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// ErrorPayload reports a rejected frame back to the offending client.
type ErrorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// NewFrame marshals the payload and wraps it in a Frame of the given type.
func NewFrame(frameType FrameType, payload any) (Frame, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Frame{}, err
	}

	return Frame{Type: frameType, Payload: raw}, nil
}

// pushFrame builds the marshaled wire bytes for a MESSAGE push event.
func pushFrame(msg Message) ([]byte, error) {
	frame, err := NewFrame(TypeMessage, MessagePayload{
		ID:        msg.ID,
		Sender:    msg.Sender,
		Content:   msg.Body,
		Timestamp: msg.SentAt,
	})
	if err != nil {
		return nil, err
	}

	return json.Marshal(frame)
}
