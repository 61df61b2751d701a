package registry

import (
	"sort"
	"sync"
	"time"

	"github.com/serenechat/serenechat/internal/domain"
)

// memoryRegistry is a mutex-guarded in-memory registry. The whole broadcast
// domain lives in one process, so there is no external store behind it.
type memoryRegistry struct {
	mu    sync.RWMutex
	conns map[string]*domain.Participant
	rooms map[string]map[string]*domain.Participant
}

func NewMemoryRegistry() Registry {
	return &memoryRegistry{
		conns: make(map[string]*domain.Participant),
		rooms: make(map[string]map[string]*domain.Participant),
	}
}

func (r *memoryRegistry) Register(connID, roomID, displayName string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p, ok := r.conns[connID]; ok {
		changed := false
		if displayName != "" && displayName != p.DisplayName {
			p.DisplayName = displayName
			changed = true
		}
		if roomID != "" && roomID != p.RoomID {
			r.moveLocked(p, roomID)
			changed = true
		}
		return changed
	}

	p := &domain.Participant{
		ConnID:      connID,
		RoomID:      roomID,
		DisplayName: displayName,
		JoinedAt:    time.Now(),
	}
	r.conns[connID] = p
	if _, ok := r.rooms[roomID]; !ok {
		r.rooms[roomID] = make(map[string]*domain.Participant)
	}
	r.rooms[roomID][connID] = p
	return true
}

func (r *memoryRegistry) Unregister(connID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.conns[connID]
	if !ok {
		return false
	}
	delete(r.conns, connID)
	if members, ok := r.rooms[p.RoomID]; ok {
		delete(members, connID)
		if len(members) == 0 {
			delete(r.rooms, p.RoomID)
		}
	}
	return true
}

func (r *memoryRegistry) Roster(roomID string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members := make([]*domain.Participant, 0, len(r.rooms[roomID]))
	for _, p := range r.rooms[roomID] {
		if p.DisplayName != "" {
			members = append(members, p)
		}
	}
	sort.Slice(members, func(i, j int) bool {
		if members[i].JoinedAt.Equal(members[j].JoinedAt) {
			return members[i].ConnID < members[j].ConnID
		}
		return members[i].JoinedAt.Before(members[j].JoinedAt)
	})

	names := make([]string, len(members))
	for i, p := range members {
		names[i] = p.DisplayName
	}
	return names
}

func (r *memoryRegistry) Count(roomID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms[roomID])
}

func (r *memoryRegistry) RoomOf(connID string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if p, ok := r.conns[connID]; ok {
		return p.RoomID, true
	}
	return "", false
}

func (r *memoryRegistry) moveLocked(p *domain.Participant, roomID string) {
	if members, ok := r.rooms[p.RoomID]; ok {
		delete(members, p.ConnID)
		if len(members) == 0 {
			delete(r.rooms, p.RoomID)
		}
	}
	p.RoomID = roomID
	if _, ok := r.rooms[roomID]; !ok {
		r.rooms[roomID] = make(map[string]*domain.Participant)
	}
	r.rooms[roomID][p.ConnID] = p
}
