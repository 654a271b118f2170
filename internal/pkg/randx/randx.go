/*
Package randx provides functions for generating unique identifiers.

It is primarily used to assign opaque connection identifiers to live WebSocket
sessions so that multiple connections of the same identity stay distinguishable
in logs and in the presence registry.
*/
package randx

import "github.com/google/uuid"

// ConnectionID generates a standard UUID v4 string to serve as the unique
// identifier for one live connection.
func ConnectionID() string {
	return uuid.New().String()
}
