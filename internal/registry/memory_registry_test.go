package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistry_RegisterAndCount(t *testing.T) {
	r := NewMemoryRegistry()

	assert.True(t, r.Register("c1", "room", "ana"))
	assert.True(t, r.Register("c2", "room", "bo"))
	assert.Equal(t, 2, r.Count("room"))
	assert.Equal(t, 0, r.Count("other"))
}

func TestRegistry_RegisterIdempotent(t *testing.T) {
	r := NewMemoryRegistry()

	r.Register("c1", "room", "ana")
	// Same name again: nothing changed, no duplicate.
	assert.False(t, r.Register("c1", "room", "ana"))
	assert.Equal(t, 1, r.Count("room"))

	// New name updates the existing participant.
	assert.True(t, r.Register("c1", "room", "anita"))
	assert.Equal(t, 1, r.Count("room"))
	assert.Equal(t, []string{"anita"}, r.Roster("room"))
}

func TestRegistry_DuplicateDisplayNamesAllowed(t *testing.T) {
	r := NewMemoryRegistry()

	r.Register("c1", "room", "ana")
	r.Register("c2", "room", "ana")

	assert.Equal(t, 2, r.Count("room"))
	assert.Equal(t, []string{"ana", "ana"}, r.Roster("room"))
}

func TestRegistry_UnregisterTwiceIsNoop(t *testing.T) {
	r := NewMemoryRegistry()

	r.Register("c1", "room", "ana")
	assert.True(t, r.Unregister("c1"))
	assert.False(t, r.Unregister("c1"))
	assert.Equal(t, 0, r.Count("room"))
}

func TestRegistry_UnregisterUnknownIsNoop(t *testing.T) {
	r := NewMemoryRegistry()
	assert.False(t, r.Unregister("ghost"))
}

func TestRegistry_RosterOmitsUnnamed(t *testing.T) {
	r := NewMemoryRegistry()

	// Connections register at open before announcing a name.
	r.Register("c1", "room", "")
	r.Register("c2", "room", "bo")

	assert.Equal(t, 2, r.Count("room"))
	assert.Equal(t, []string{"bo"}, r.Roster("room"))
}

func TestRegistry_RoomOf(t *testing.T) {
	r := NewMemoryRegistry()

	r.Register("c1", "room", "ana")

	room, ok := r.RoomOf("c1")
	assert.True(t, ok)
	assert.Equal(t, "room", room)

	_, ok = r.RoomOf("ghost")
	assert.False(t, ok)
}
