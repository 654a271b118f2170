/*
Package chat contains the core logic for real-time presence tracking, pairwise
room resolution, and message routing between live connections.

This file defines the room key derivation for one-to-one conversations.
*/
package chat

import "strings"

// RoomKeySeparator joins the two identities of a pairwise room key.
// Identities containing this sequence are rejected at the registration
// boundary so that distinct pairs can never collide.
const RoomKeySeparator = "__"

// RoomKey derives the canonical room key for a pair of identities.
// The result is invariant under argument order: the byte-wise smaller
// identity always comes first. a == b is legal and yields a self-room.
func RoomKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + RoomKeySeparator + b
}

// ValidIdentity reports whether the given identity string may participate in
// room key derivation. Empty identities and identities containing the
// separator sequence are refused.
func ValidIdentity(identity string) bool {
	return identity != "" && !strings.Contains(identity, RoomKeySeparator)
}
