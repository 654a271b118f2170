/*
Package user contains the data structures and persistence logic for chat
participants.

This file defines the User struct, the account record backing every stable
identity in the system.
*/
package user

import "time"

// User is one registered account. Username doubles as the identity string used
// by presence tracking, room keys, and message history.
type User struct {
	// ID is the storage-assigned account identifier (UUID).
	ID string `json:"id"`

	// Username is the stable identity string. Never empty, never contains
	// the room key separator; both are enforced at registration.
	Username string `json:"username"`

	// PasswordHash is the bcrypt hash of the account password. Never serialized.
	PasswordHash string `json:"-"`

	// CreatedAt is when the account was registered.
	CreatedAt time.Time `json:"createdAt"`

	// LastLoginAt is the most recent successful login, zero if never set.
	LastLoginAt time.Time `json:"lastLoginAt,omitempty"`
}
