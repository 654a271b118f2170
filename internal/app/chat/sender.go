/*
Package chat contains the core logic for real-time presence tracking, pairwise
room resolution, and message routing between live connections.

This file defines the Sender struct, which validates an outbound message,
persists it, and fans it out to every connection subscribed to the pair's room.
*/
package chat

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"pairchat/internal/pkg/errs"
	"pairchat/internal/pkg/logx"
)

// HistoryStore is the durable append side of the message log. Append stores
// the message in one transaction and returns it with its storage-assigned id
// and timestamp.
type HistoryStore interface {
	Append(ctx context.Context, msg Message) (Message, error)
}

// Directory resolves whether an identity names a known participant.
type Directory interface {
	Exists(ctx context.Context, identity string) (bool, error)
}

// Sender routes one-to-one messages: it validates the input, appends the
// message to the history store, and only then delivers it to every live
// connection subscribed to the pair's room. A message is never pushed live
// without first being durably recorded.
type Sender struct {
	registry  *Registry
	history   HistoryStore
	directory Directory
	logger    zerolog.Logger
}

// NewSender constructs a Sender over the given registry, history store, and
// identity directory.
func NewSender(registry *Registry, history HistoryStore, directory Directory) *Sender {
	return &Sender{
		registry:  registry,
		history:   history,
		directory: directory,
		logger:    logx.Logger().With().Str("component", "Sender").Logger(),
	}
}

// Send delivers a text message from one identity to another. The returned
// Message carries the storage-assigned id and timestamp. Zero live
// subscribers is success; the message is durable either way.
func (s *Sender) Send(ctx context.Context, from, to, text string) (Message, error) {
	body := strings.TrimSpace(text)
	if body == "" {
		return Message{}, errs.NewError(errs.ErrMessageEmpty)
	}
	if len(body) > MaxContentBytes {
		return Message{}, errs.NewError(errs.ErrMessageContentTooLong)
	}

	// Both endpoints must name known identities before anything is
	// persisted or delivered.
	for _, identity := range []string{from, to} {
		if !ValidIdentity(identity) {
			return Message{}, errs.NewError(errs.ErrPeerNotFound)
		}

		known, err := s.directory.Exists(ctx, identity)
		if err != nil {
			s.logger.Error().Err(err).Str("identity", identity).Msg("Identity lookup failed.")
			return Message{}, errs.NewError(errs.ErrUnknown)
		}
		if !known {
			return Message{}, errs.NewError(errs.ErrPeerNotFound)
		}
	}

	stored, err := s.history.Append(ctx, Message{
		Sender:   from,
		Receiver: to,
		Body:     body,
	})
	if err != nil {
		s.logger.Error().Err(err).
			Str("sender", from).
			Str("receiver", to).
			Msg("Failed to persist message. Delivery skipped.")
		return Message{}, errs.NewError(errs.ErrMessageNotStored)
	}

	roomKey := stored.RoomKey()
	delivered := s.registry.DeliverToRoom(roomKey, stored)

	s.logger.Info().
		Int64("message_id", stored.ID).
		Str("room_key", roomKey).
		Int("delivered", delivered).
		Msg("Message routed.")

	return stored, nil
}
