/*
Package chat contains the core logic for real-time presence tracking, pairwise
room resolution, and message routing between live connections.

This file defines the Registry struct, the single source of truth for which
identities currently hold live connections and which connections are
subscribed to which rooms.
*/
package chat

import (
	"sync"

	"github.com/rs/zerolog"

	"pairchat/internal/pkg/logx"
)

// Registry tracks every live connection by owning identity and by room
// subscription. It is constructed explicitly and injected wherever presence
// or delivery is needed; all methods are safe for concurrent use.
type Registry struct {
	// mu guards both indexes below.
	mu sync.RWMutex

	// identities maps an identity to its set of live connections.
	// An identity with at least one connection is online.
	identities map[string]map[*Client]struct{}

	// rooms maps a room key to the set of connections subscribed to it.
	rooms map[string]map[*Client]struct{}

	// structured logger with Registry context.
	logger zerolog.Logger
}

// NewRegistry constructs and returns a new empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		identities: make(map[string]map[*Client]struct{}),
		rooms:      make(map[string]map[*Client]struct{}),
		logger:     logx.Logger().With().Str("component", "Registry").Logger(),
	}
}

// Register adds the connection under its identity's connection set. An
// identity may hold any number of simultaneous connections (multiple tabs).
func (reg *Registry) Register(c *Client) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	conns, ok := reg.identities[c.identity]
	if !ok {
		conns = make(map[*Client]struct{})
		reg.identities[c.identity] = conns
	}
	conns[c] = struct{}{}

	reg.logger.Info().
		Str("identity", c.identity).
		Str("conn_id", c.id).
		Int("identity_conns", len(conns)).
		Msg("Connection registered.")
}

// Unregister removes the connection from its identity's set and from every
// room it subscribed to, then closes its outbound queue. It is idempotent:
// unregistering an unknown or already-removed connection is a no-op, which
// absorbs duplicate disconnect notifications from the transport layer.
func (reg *Registry) Unregister(c *Client) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	conns, ok := reg.identities[c.identity]
	if !ok {
		return
	}
	if _, ok := conns[c]; !ok {
		return
	}

	delete(conns, c)
	if len(conns) == 0 {
		delete(reg.identities, c.identity)
	}

	for roomKey := range c.subscriptions {
		subscribers, ok := reg.rooms[roomKey]
		if !ok {
			continue
		}
		delete(subscribers, c)
		if len(subscribers) == 0 {
			delete(reg.rooms, roomKey)
		}
	}

	c.closeSend()

	reg.logger.Info().
		Str("identity", c.identity).
		Str("conn_id", c.id).
		Bool("still_online", len(conns) > 0).
		Msg("Connection unregistered.")
}

// Subscribe adds the connection to the room's subscriber set. A connection
// may subscribe to many rooms and a room may hold connections of any number
// of identities. Subscribing twice is a no-op.
func (reg *Registry) Subscribe(c *Client, roomKey string) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	subscribers, ok := reg.rooms[roomKey]
	if !ok {
		subscribers = make(map[*Client]struct{})
		reg.rooms[roomKey] = subscribers
	}
	subscribers[c] = struct{}{}
	c.subscriptions[roomKey] = struct{}{}

	reg.logger.Info().
		Str("identity", c.identity).
		Str("conn_id", c.id).
		Str("room_key", roomKey).
		Int("room_subscribers", len(subscribers)).
		Msg("Connection subscribed to room.")
}

// IsOnline reports whether the identity currently has at least one live
// connection.
func (reg *Registry) IsOnline(identity string) bool {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	return len(reg.identities[identity]) > 0
}

// DeliverToRoom pushes the message to the outbound queue of every connection
// currently subscribed to the room and returns the number of connections
// reached. Zero subscribers is a valid outcome, not an error. A connection
// whose queue is closed or full is skipped and logged; the slow or dead
// client is the only one affected.
func (reg *Registry) DeliverToRoom(roomKey string, msg Message) int {
	payload, err := pushFrame(msg)
	if err != nil {
		reg.logger.Error().Err(err).
			Str("room_key", roomKey).
			Msg("Failed to marshal message push frame.")
		return 0
	}

	reg.mu.RLock()
	defer reg.mu.RUnlock()

	delivered := 0
	for c := range reg.rooms[roomKey] {
		if c.enqueue(payload) {
			delivered++
			continue
		}

		reg.logger.Warn().
			Str("identity", c.identity).
			Str("conn_id", c.id).
			Str("room_key", roomKey).
			Msg("Subscriber queue closed or full, message dropped for this connection.")
	}

	return delivered
}

// Shutdown closes the outbound queue of every live connection, causing each
// WritePump to send a close frame and exit. Used during graceful shutdown.
func (reg *Registry) Shutdown() {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	total := 0
	for _, conns := range reg.identities {
		for c := range conns {
			c.closeSend()
			total++
		}
	}

	reg.identities = make(map[string]map[*Client]struct{})
	reg.rooms = make(map[string]map[*Client]struct{})

	reg.logger.Info().Int("connections_closed", total).Msg("Registry shutdown complete.")
}
