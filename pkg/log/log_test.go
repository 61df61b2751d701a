package log

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func swapGlobal(t *testing.T, logger zerolog.Logger) {
	t.Helper()
	prev := global
	global = logger
	t.Cleanup(func() { global = prev })
}

func TestL_EventsChainOnSharedLogger(t *testing.T) {
	var buf bytes.Buffer
	swapGlobal(t, zerolog.New(&buf))

	L().Warn().Str(FieldRoomID, "room").Msg("chained")

	assert.Contains(t, buf.String(), "chained")
	assert.Contains(t, buf.String(), "room")
}

func TestNew_LevelParsing(t *testing.T) {
	assert.Equal(t, zerolog.WarnLevel, New(Config{Level: "warn"}).GetLevel())
	assert.Equal(t, zerolog.DebugLevel, New(Config{Level: " DEBUG "}).GetLevel())
	assert.Equal(t, zerolog.InfoLevel, New(Config{Level: "bogus"}).GetLevel())
}

func TestCtx_PrefersContextLogger(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithLogger(context.Background(), zerolog.New(&buf))

	l := Ctx(ctx)
	l.Info().Msg("request scoped")

	assert.Contains(t, buf.String(), "request scoped")
}

func TestCtx_FallsBackToGlobal(t *testing.T) {
	var buf bytes.Buffer
	swapGlobal(t, zerolog.New(&buf))

	l := Ctx(context.Background())
	l.Info().Msg("global fallback")

	assert.Contains(t, buf.String(), "global fallback")
}
