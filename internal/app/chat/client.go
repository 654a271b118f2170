/*
Package chat contains the core logic for real-time presence tracking, pairwise
room resolution, and message routing between live connections.

This file defines the Client struct, representing one live WebSocket
connection owned by an authenticated identity. It manages the connection's
message loops (ReadPump and WritePump) and its interaction with the Registry
and the Sender.
*/
package chat

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"pairchat/internal/pkg/errs"
	"pairchat/internal/pkg/logx"
	"pairchat/internal/pkg/randx"
)

const (
	// timeout duration for writing to the WebSocket connection.
	writeWait = 10 * time.Second

	// maximum time allowed for the server to wait for a Pong message from the client.
	pongWait = 60 * time.Second

	// frequency at which the server sends a Ping message.
	pingPeriod = (pongWait * 9) / 10

	// maximum allowed size (in bytes) of a frame sent by the client.
	maxFrameSize = 8192

	// MaxContentBytes is the maximum allowed size (in bytes) for message text.
	MaxContentBytes = 5000

	// sendQueueSize is the capacity of the per-connection outbound queue.
	sendQueueSize = 256

	// sendTimeout bounds the persistence step of a single inbound TEXT frame.
	sendTimeout = 5 * time.Second
)

// Client represents one live WebSocket connection and the identity that owns it.
type Client struct {
	// id uniquely identifies this connection for the lifetime of the process.
	id string

	// identity is the stable identity string resolved at upgrade time.
	identity string

	// underlying WebSocket connection object.
	conn *websocket.Conn

	// registry tracking this connection's presence and subscriptions.
	registry *Registry

	// sender routing outbound text messages.
	sender *Sender

	// subscriptions is the set of room keys this connection joined.
	// Mutated only under the registry's lock.
	subscriptions map[string]struct{}

	// send is the buffered outbound queue drained by WritePump.
	// Never closed; sendClosed signals shutdown instead, so concurrent
	// enqueues can never hit a closed channel.
	send chan []byte

	// sendClosed is closed exactly once to stop WritePump and refuse
	// further enqueues.
	sendClosed chan struct{}

	// structured logger with connection context.
	logger zerolog.Logger
}

// NewClient constructs a Client for an upgraded connection owned by identity.
func NewClient(registry *Registry, sender *Sender, wsConn *websocket.Conn, identity string) *Client {
	connID := randx.ConnectionID()

	clientLogger := logx.Logger().With().
		Str("identity", identity).
		Str("conn_id", connID).
		Logger()

	return &Client{
		id:            connID,
		identity:      identity,
		conn:          wsConn,
		registry:      registry,
		sender:        sender,
		subscriptions: make(map[string]struct{}),
		send:          make(chan []byte, sendQueueSize),
		sendClosed:    make(chan struct{}),
		logger:        clientLogger,
	}
}

// Identity returns the identity owning this connection.
func (c *Client) Identity() string {
	return c.identity
}

// closeSend shuts the outbound queue exactly once.
func (c *Client) closeSend() {
	select {
	case <-c.sendClosed:
	default:
		close(c.sendClosed)
	}
}

// enqueue places marshaled frame bytes onto the outbound queue without
// blocking. It reports false when the queue is closed or full.
func (c *Client) enqueue(payload []byte) bool {
	select {
	case <-c.sendClosed:
		return false
	default:
	}

	select {
	case c.send <- payload:
		return true
	default:
		return false
	}
}

// ReadPump reads frames from the WebSocket connection until it closes.
// It handles heartbeats (Pong), dispatches inbound frames, and unregisters
// the connection on exit.
func (c *Client) ReadPump() {
	defer c.cleanupOnDisconnect()

	c.conn.SetReadLimit(maxFrameSize)

	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set read deadline")
		return
	}

	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, frameBytes, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Info().Err(err).Msg("Error reading frame (client close/going away)")
			}
			break
		}

		c.processInboundFrame(frameBytes)
	}
}

// cleanupOnDisconnect unregisters the connection and closes the socket when
// ReadPump terminates.
func (c *Client) cleanupOnDisconnect() {
	c.logger.Info().Msg("Client connection cleanup starting.")

	c.registry.Unregister(c)

	if err := c.conn.Close(); err != nil {
		c.logger.Error().Err(err).Msg("Client connection close error")
	}
}

// processInboundFrame parses and dispatches one raw frame from the client.
func (c *Client) processInboundFrame(frameBytes []byte) {
	var frame Frame
	if err := json.Unmarshal(frameBytes, &frame); err != nil {
		c.logger.Warn().Err(err).
			Bytes("frame_bytes", frameBytes).
			Msg("Client sent invalid JSON")
		c.SendError(errs.NewError(errs.ErrInvalidJSONFormat))
		return
	}

	switch frame.Type {
	case TypeJoin:
		c.handleJoin(frame.Payload)

	case TypeText:
		c.handleText(frame.Payload)

	default:
		c.logger.Warn().Str("frame_type", string(frame.Type)).Msg("Client sent unsupported frame type")
	}
}

// handleJoin subscribes the connection to the room shared with the named peer.
func (c *Client) handleJoin(payloadBytes json.RawMessage) {
	var payload JoinPayload
	if err := json.Unmarshal(payloadBytes, &payload); err != nil {
		c.logger.Warn().Err(err).Msg("Client sent invalid JOIN payload")
		c.SendError(errs.NewError(errs.ErrInvalidParams))
		return
	}

	if !ValidIdentity(payload.Peer) {
		c.SendError(errs.NewError(errs.ErrInvalidParams))
		return
	}

	c.registry.Subscribe(c, RoomKey(c.identity, payload.Peer))
}

// handleText routes an outbound text message through the Sender.
func (c *Client) handleText(payloadBytes json.RawMessage) {
	var payload TextPayload
	if err := json.Unmarshal(payloadBytes, &payload); err != nil {
		c.logger.Warn().Err(err).Msg("Client sent invalid TEXT payload")
		c.SendError(errs.NewError(errs.ErrInvalidParams))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	if _, err := c.sender.Send(ctx, c.identity, payload.Peer, payload.Content); err != nil {
		c.SendError(err)
	}
}

// WritePump drains the outbound queue onto the WebSocket connection and keeps
// the heartbeat alive.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()

		// ensure the connection is closed on exit
		if err := c.conn.Close(); err != nil {
			c.logger.Error().Err(err).Msg("Client connection close error in WritePump")
		}
	}()

	for {
		select {
		case payload := <-c.send:
			if !c.writeQueuedFrame(payload) {
				return
			}

		case <-c.sendClosed:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err == nil {
				if err := c.conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
					c.logger.Error().Err(err).Msg("Error writing close message")
				}
			}
			return

		case <-ticker.C:
			if !c.writePingMessage() {
				return
			}
		}
	}
}

// writeQueuedFrame writes one frame pulled from the send channel.
// Returns true if the WritePump loop should continue.
func (c *Client) writeQueuedFrame(payload []byte) bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline")
		return false
	}

	if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		c.logger.Error().Err(err).Msg("Error writing frame")
		return false
	}

	return true
}

// writePingMessage sends a periodic WebSocket Ping to maintain the heartbeat.
// Returns false if the WritePump loop should terminate.
func (c *Client) writePingMessage() bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline on ping")
		return false
	}

	if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
		c.logger.Error().Err(err).Msg("Error writing ping")
		return false
	}

	return true
}

// SendError queues a TypeError frame describing the rejection back to the client.
func (c *Client) SendError(err error) {
	var code int
	var message string

	var customErr *errs.CustomError
	if errors.As(err, &customErr) {
		code = customErr.Code
		message = customErr.Message
	} else {
		code = errs.ErrUnknown
		message = "Something went wrong. Please try again."
	}

	frame, frameErr := NewFrame(TypeError, ErrorPayload{
		Code:    code,
		Message: message,
	})
	if frameErr != nil {
		c.logger.Error().Err(frameErr).Msg("Failed to build error frame")
		return
	}

	payload, frameErr := json.Marshal(frame)
	if frameErr != nil {
		c.logger.Error().Err(frameErr).Msg("Failed to marshal error frame")
		return
	}

	if !c.enqueue(payload) {
		c.logger.Warn().Int("queue_len", len(c.send)).Msg("Client send queue closed or full, dropping error frame")
	}
}
