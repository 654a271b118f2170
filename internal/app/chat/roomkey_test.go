package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoomKeyIsOrderIndependent(t *testing.T) {
	assert.Equal(t, "alice__bob", RoomKey("alice", "bob"))
	assert.Equal(t, "alice__bob", RoomKey("bob", "alice"))
}

func TestRoomKeyUsesByteOrder(t *testing.T) {
	// Byte order, not locale order: uppercase sorts before lowercase.
	assert.Equal(t, "Bob__alice", RoomKey("alice", "Bob"))
	assert.Equal(t, "Bob__alice", RoomKey("Bob", "alice"))
}

func TestRoomKeySelfRoom(t *testing.T) {
	assert.Equal(t, "alice__alice", RoomKey("alice", "alice"))
}

func TestRoomKeyDistinctPairsDiffer(t *testing.T) {
	pairs := [][2]string{
		{"alice", "bob"},
		{"alice", "carol"},
		{"bob", "carol"},
		{"alice", "alice"},
	}

	seen := make(map[string][2]string)
	for _, pair := range pairs {
		key := RoomKey(pair[0], pair[1])
		if prev, dup := seen[key]; dup {
			t.Fatalf("pairs %v and %v collided on key %q", prev, pair, key)
		}
		seen[key] = pair
	}
}

func TestValidIdentity(t *testing.T) {
	assert.True(t, ValidIdentity("alice"))
	assert.True(t, ValidIdentity("a_b"))

	assert.False(t, ValidIdentity(""))
	assert.False(t, ValidIdentity("a__b"), "separator sequence must be refused")
	assert.False(t, ValidIdentity("__"))
}
