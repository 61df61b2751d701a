package history

import (
	"sync"

	"github.com/serenechat/serenechat/internal/domain"
)

// Store keeps a bounded, append-only log of recent messages per room.
// The same log backs two trailing views: a short context window fed to the
// transformation model and a longer replay window sent to joining viewers.
// Rooms are created lazily and live for the process; there is no delete.
type Store struct {
	mu       sync.Mutex
	capacity int
	rooms    map[string][]domain.ChatMessage
}

// New creates a store whose per-room logs hold at most capacity messages.
func New(capacity int) *Store {
	if capacity < 1 {
		capacity = 1
	}
	return &Store{
		capacity: capacity,
		rooms:    make(map[string][]domain.ChatMessage),
	}
}

// Append adds msg to the room's log, evicting the oldest entry once the
// log is full. Safe for concurrent use; entries are ordered by the time
// Append is called, which under interleaved message processing is completion
// order, not arrival order.
func (s *Store) Append(roomID string, msg domain.ChatMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := s.rooms[roomID]
	if len(q) == s.capacity {
		q = q[1:]
	}
	s.rooms[roomID] = append(q, msg)
}

// Recent returns a copy of the trailing min(n, len) messages for the room,
// oldest first. Callers get a snapshot and never hold store locks across
// backend calls.
func (s *Store) Recent(roomID string, n int) []domain.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := s.rooms[roomID]
	if n > len(q) {
		n = len(q)
	}
	if n <= 0 {
		return nil
	}

	out := make([]domain.ChatMessage, n)
	copy(out, q[len(q)-n:])
	return out
}

// Len returns the number of messages currently retained for the room.
func (s *Store) Len(roomID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rooms[roomID])
}
