package registry

// Registry tracks which connection belongs to which display name within a
// room. Every change of the returned "changed" kind is expected to trigger a
// presence event from the caller.
type Registry interface {
	// Register adds or updates a connection. Idempotent per connID:
	// re-registering updates the display name rather than duplicating.
	// Returns true when membership or a display name actually changed.
	Register(connID, roomID, displayName string) bool

	// Unregister removes a connection. Unknown ids are a no-op, which makes
	// duplicate close events harmless. Returns true when something was
	// removed.
	Unregister(connID string) bool

	// Roster returns the display names of the room's participants in join
	// order. Connections that have not yet announced a name are omitted.
	Roster(roomID string) []string

	// Count returns the number of open connections registered in the room.
	Count(roomID string) int

	// RoomOf returns the room a connection is registered in, if any.
	RoomOf(connID string) (string, bool)
}
