package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/serenechat/serenechat/internal/config"
	"github.com/serenechat/serenechat/internal/domain"
	"github.com/serenechat/serenechat/internal/history"
	"github.com/serenechat/serenechat/internal/hub"
	"github.com/serenechat/serenechat/internal/registry"
	"github.com/serenechat/serenechat/pkg/log"
)

type chatService struct {
	hub         *hub.Hub
	history     *history.Store
	registry    registry.Registry
	transformer Transformer
	cfg         config.ChatConfig

	// Debounce timers for presence updates after disconnects, one per room.
	// Rapid connect/disconnect churn coalesces into a single event.
	presenceTimers map[string]*time.Timer
	timersMu       sync.Mutex

	// Per-room publish locks. Appending to history and enqueueing the
	// broadcast must be one atomic step per room, or two transforms
	// completing out of order could deliver events in a different order
	// than history records them.
	publishLocks map[string]*sync.Mutex
	locksMu      sync.Mutex
}

func NewChatService(
	h *hub.Hub,
	store *history.Store,
	reg registry.Registry,
	transformer Transformer,
	cfg config.ChatConfig,
) ChatService {
	return &chatService{
		hub:            h,
		history:        store,
		registry:       reg,
		transformer:    transformer,
		cfg:            cfg,
		presenceTimers: make(map[string]*time.Timer),
		publishLocks:   make(map[string]*sync.Mutex),
	}
}

func (s *chatService) HandleOpen(ctx context.Context, c *hub.Client) error {
	s.hub.JoinRoom(c, c.RoomID)
	s.registry.Register(c.ID, c.RoomID, "")

	// A reconnect cancels any pending debounced update for the room.
	s.cancelPresenceTimer(c.RoomID)
	s.publishPresence(c.RoomID)
	return nil
}

func (s *chatService) HandleJoin(ctx context.Context, c *hub.Client) error {
	// Join never mutates history; calling it twice is harmless.
	return c.SendJSON(&domain.HistoryOut{
		Type:           domain.MsgTypeHistory,
		Messages:       s.history.Recent(c.RoomID, s.cfg.ReplayWindow),
		ConnectedUsers: s.registry.Count(c.RoomID),
	})
}

func (s *chatService) HandleChat(ctx context.Context, c *hub.Client, username, text string) error {
	if username == "" || text == "" {
		return c.SendJSON(domain.NewErrorMessage("username and message are required"))
	}

	if s.registry.Register(c.ID, c.RoomID, username) {
		s.publishPresence(c.RoomID)
	}

	// Snapshot the context window; the store lock is never held across the
	// backend call, so messages in the same room may interleave here.
	contextWindow := s.history.Recent(c.RoomID, s.cfg.ContextWindow)

	result := s.transformer.Transform(ctx, text, contextWindow)

	msg := domain.ChatMessage{
		ID:              uuid.New().String(),
		RoomID:          c.RoomID,
		SenderID:        c.ID,
		Username:        username,
		OriginalText:    text,
		TransformedText: result.Text,
		Analysis:        result.Analysis,
		Timestamp:       time.Now().UTC(),
	}

	// Append and enqueue under the room's publish lock; the hub's run loop
	// then delivers in enqueue order, so delivery order matches history.
	mu := s.publishLock(c.RoomID)
	mu.Lock()
	s.history.Append(c.RoomID, msg)
	err := s.hub.Broadcast(c.RoomID, &domain.MessageOut{
		Type:        domain.MsgTypeMessage,
		ChatMessage: msg,
	})
	mu.Unlock()

	log.L().Debug().
		Str(log.FieldMessageID, msg.ID).
		Str(log.FieldRoomID, c.RoomID).
		Str(log.FieldUsername, username).
		Msg("message relayed")

	return err
}

func (s *chatService) publishLock(roomID string) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	mu, ok := s.publishLocks[roomID]
	if !ok {
		mu = &sync.Mutex{}
		s.publishLocks[roomID] = mu
	}
	return mu
}

func (s *chatService) HandleDisconnect(ctx context.Context, c *hub.Client) error {
	// Safe on duplicate close events: a second unregister is a no-op.
	if s.registry.Unregister(c.ID) {
		s.schedulePresence(c.RoomID)
	}
	return nil
}

func (s *chatService) TransformOnce(ctx context.Context, text string) string {
	return s.transformer.Transform(ctx, text, nil).Text
}

func (s *chatService) HistorySnapshot(roomID string, limit int) []domain.ChatMessage {
	if limit <= 0 || limit > s.cfg.ReplayWindow {
		limit = s.cfg.ReplayWindow
	}
	return s.history.Recent(roomID, limit)
}

func (s *chatService) Stop() {
	s.timersMu.Lock()
	defer s.timersMu.Unlock()
	for roomID, t := range s.presenceTimers {
		t.Stop()
		delete(s.presenceTimers, roomID)
	}
}

func (s *chatService) publishPresence(roomID string) {
	count := s.registry.Count(roomID)
	if err := s.hub.Broadcast(roomID, &domain.UserCountOut{Type: domain.MsgTypeUserCount, Count: count}); err != nil {
		log.L().Warn().Err(err).Str(log.FieldRoomID, roomID).Msg("failed to broadcast user count")
	}
	if s.cfg.RosterEnabled {
		if err := s.hub.Broadcast(roomID, &domain.UserListOut{Type: domain.MsgTypeUserList, Users: s.registry.Roster(roomID)}); err != nil {
			log.L().Warn().Err(err).Str(log.FieldRoomID, roomID).Msg("failed to broadcast user list")
		}
	}
}

// schedulePresence delays the presence update after a disconnect. Resetting
// the room's timer on every disconnect coalesces churn into one event.
func (s *chatService) schedulePresence(roomID string) {
	s.timersMu.Lock()
	defer s.timersMu.Unlock()

	if t, ok := s.presenceTimers[roomID]; ok {
		t.Stop()
	}
	s.presenceTimers[roomID] = time.AfterFunc(s.cfg.PresenceDebounce, func() {
		s.timersMu.Lock()
		delete(s.presenceTimers, roomID)
		s.timersMu.Unlock()
		s.publishPresence(roomID)
	})
}

func (s *chatService) cancelPresenceTimer(roomID string) {
	s.timersMu.Lock()
	defer s.timersMu.Unlock()
	if t, ok := s.presenceTimers[roomID]; ok {
		t.Stop()
		delete(s.presenceTimers, roomID)
	}
}
