package service

import (
	"context"

	"github.com/serenechat/serenechat/internal/ai"
	"github.com/serenechat/serenechat/internal/domain"
	"github.com/serenechat/serenechat/internal/hub"
)

// Transformer is the message-rewriting capability the coordinator depends
// on. *ai.Transformer satisfies it.
type Transformer interface {
	Transform(ctx context.Context, text string, history []domain.ChatMessage) ai.Result
}

// ChatService coordinates the per-connection lifecycle: join, message,
// disconnect. No error it returns is fatal to the connection.
type ChatService interface {
	HandleOpen(ctx context.Context, client *hub.Client) error
	HandleJoin(ctx context.Context, client *hub.Client) error
	HandleChat(ctx context.Context, client *hub.Client, username, text string) error
	HandleDisconnect(ctx context.Context, client *hub.Client) error

	// TransformOnce rewrites a single message without conversational
	// context, with the same fallback contract as the relay pipeline.
	TransformOnce(ctx context.Context, text string) string

	// HistorySnapshot returns the trailing messages of a room for the REST
	// surface.
	HistorySnapshot(roomID string, limit int) []domain.ChatMessage

	Stop()
}
