package ai

import (
	"context"
	"strings"
	"time"

	"github.com/serenechat/serenechat/internal/config"
	"github.com/serenechat/serenechat/internal/domain"
	"github.com/serenechat/serenechat/pkg/log"
)

// Result is a transformation outcome. Text is always usable; Analysis is
// only present in structured mode.
type Result struct {
	Text     string
	Analysis *domain.SentimentAnalysis
}

// Transformer rewrites a message through the backend while preserving its
// meaning and sentiment. Transformation is a best-effort enhancement: any
// backend failure falls back to the original text so delivery is never
// blocked.
type Transformer struct {
	runner     Runner
	model      string
	timeout    time.Duration
	structured bool
	useInput   bool
}

func NewTransformer(runner Runner, cfg config.AIConfig) *Transformer {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Transformer{
		runner:     runner,
		model:      cfg.Model,
		timeout:    timeout,
		structured: cfg.Structured,
		useInput:   strings.EqualFold(cfg.RequestFormat, "input"),
	}
}

// Transform rewrites text given the trailing conversation context. The
// backend call carries a bounded timeout; expiry is treated like any other
// failure.
func (t *Transformer) Transform(ctx context.Context, text string, history []domain.ChatMessage) Result {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	turns := buildTurns(text, history, t.structured)

	var req RunRequest
	if t.useInput {
		req.Input = turns
	} else {
		req.Prompt = flattenTurns(turns)
	}

	// Carries the request-scoped logger on HTTP-initiated transforms.
	l := log.Ctx(ctx)

	res, err := t.runner.Run(ctx, t.model, req)
	if err != nil {
		l.Warn().Err(err).Str(log.FieldModel, t.model).Msg("transformation failed, using original text")
		return Result{Text: text}
	}

	raw := strings.TrimSpace(res.Text())
	if raw == "" {
		l.Warn().Str(log.FieldModel, t.model).Msg("empty transformation response, using original text")
		return Result{Text: text}
	}

	if t.structured {
		analysis, transformed := ParseStructured(raw, text)
		return Result{Text: transformed, Analysis: &analysis}
	}

	return Result{Text: raw}
}
