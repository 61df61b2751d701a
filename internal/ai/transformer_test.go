package ai

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serenechat/serenechat/internal/config"
	"github.com/serenechat/serenechat/internal/domain"
)

type fakeRunner struct {
	result  RunResult
	err     error
	lastReq RunRequest
	block   bool
}

func (f *fakeRunner) Run(ctx context.Context, model string, req RunRequest) (RunResult, error) {
	f.lastReq = req
	if f.block {
		<-ctx.Done()
		return RunResult{}, ctx.Err()
	}
	return f.result, f.err
}

func aiCfg() config.AIConfig {
	return config.AIConfig{
		Model:         "test-model",
		Timeout:       time.Second,
		RequestFormat: "prompt",
	}
}

func TestTransform_UsesBackendText(t *testing.T) {
	runner := &fakeRunner{result: RunResult{Response: "softer words"}}
	tr := NewTransformer(runner, aiCfg())

	res := tr.Transform(context.Background(), "harsh words", nil)

	assert.Equal(t, "softer words", res.Text)
	assert.Nil(t, res.Analysis)
}

func TestTransform_FallbackOnError(t *testing.T) {
	runner := &fakeRunner{err: errors.New("backend down")}
	tr := NewTransformer(runner, aiCfg())

	res := tr.Transform(context.Background(), "exact input", nil)

	assert.Equal(t, "exact input", res.Text)
	assert.Nil(t, res.Analysis)
}

func TestTransform_FallbackOnEmptyResponse(t *testing.T) {
	runner := &fakeRunner{result: RunResult{}}
	tr := NewTransformer(runner, aiCfg())

	res := tr.Transform(context.Background(), "exact input", nil)
	assert.Equal(t, "exact input", res.Text)
}

func TestTransform_FallbackOnTimeout(t *testing.T) {
	runner := &fakeRunner{block: true}
	cfg := aiCfg()
	cfg.Timeout = 20 * time.Millisecond
	tr := NewTransformer(runner, cfg)

	start := time.Now()
	res := tr.Transform(context.Background(), "exact input", nil)

	assert.Equal(t, "exact input", res.Text)
	assert.Less(t, time.Since(start), time.Second)
}

func TestTransform_NestedOutputShape(t *testing.T) {
	runner := &fakeRunner{result: RunResult{
		Output: []OutputItem{
			{Content: []ContentPart{{Text: ""}}},
			{Content: []ContentPart{{Text: "from nested output"}}},
		},
	}}
	tr := NewTransformer(runner, aiCfg())

	res := tr.Transform(context.Background(), "orig", nil)
	assert.Equal(t, "from nested output", res.Text)
}

func TestTransform_FlatResponsePreferred(t *testing.T) {
	runner := &fakeRunner{result: RunResult{
		Response: "flat wins",
		Output:   []OutputItem{{Content: []ContentPart{{Text: "nested loses"}}}},
	}}
	tr := NewTransformer(runner, aiCfg())

	res := tr.Transform(context.Background(), "orig", nil)
	assert.Equal(t, "flat wins", res.Text)
}

func TestTransform_StructuredMode(t *testing.T) {
	runner := &fakeRunner{result: RunResult{
		Response: `{"analysis":{"sentimentScore":1,"emotion":"anger","transformationNeeded":true},"transformation":{"transformed":"much calmer"}}`,
	}}
	cfg := aiCfg()
	cfg.Structured = true
	tr := NewTransformer(runner, cfg)

	res := tr.Transform(context.Background(), "orig", nil)

	require.NotNil(t, res.Analysis)
	assert.Equal(t, 1, res.Analysis.SentimentScore)
	assert.Equal(t, "anger", res.Analysis.Emotion)
	assert.True(t, res.Analysis.TransformationNeeded)
	assert.Equal(t, "much calmer", res.Text)
}

func TestTransform_StructuredModeGarbageOutput(t *testing.T) {
	runner := &fakeRunner{result: RunResult{Response: "sorry, I can't do that"}}
	cfg := aiCfg()
	cfg.Structured = true
	tr := NewTransformer(runner, cfg)

	res := tr.Transform(context.Background(), "orig", nil)

	require.NotNil(t, res.Analysis)
	assert.Equal(t, DefaultAnalysis(), *res.Analysis)
	assert.Equal(t, "orig", res.Text)
}

func TestTransform_PromptFormatRendersContext(t *testing.T) {
	runner := &fakeRunner{result: RunResult{Response: "ok"}}
	tr := NewTransformer(runner, aiCfg())

	history := []domain.ChatMessage{
		{Username: "ana", OriginalText: "odio esto", TransformedText: "esto no me convence"},
	}
	tr.Transform(context.Background(), "nuevo mensaje", history)

	require.Empty(t, runner.lastReq.Input)
	assert.Contains(t, runner.lastReq.Prompt, "ana: odio esto")
	assert.Contains(t, runner.lastReq.Prompt, "esto no me convence")
	assert.Contains(t, runner.lastReq.Prompt, "nuevo mensaje")
}

func TestTransform_InputFormatRendersTurns(t *testing.T) {
	runner := &fakeRunner{result: RunResult{Response: "ok"}}
	cfg := aiCfg()
	cfg.RequestFormat = "input"
	tr := NewTransformer(runner, cfg)

	history := []domain.ChatMessage{
		{Username: "ana", OriginalText: "first", TransformedText: "first, softened"},
		{Username: "bo", OriginalText: "second", TransformedText: "second, softened"},
	}
	tr.Transform(context.Background(), "third", history)

	req := runner.lastReq
	assert.Empty(t, req.Prompt)
	// system + 2 pairs + final user turn
	require.Len(t, req.Input, 6)
	assert.Equal(t, "system", req.Input[0].Role)
	assert.Equal(t, "user", req.Input[1].Role)
	assert.Equal(t, "ana: first", req.Input[1].Content)
	assert.Equal(t, "assistant", req.Input[2].Role)
	assert.Equal(t, "first, softened", req.Input[2].Content)
	assert.Equal(t, "user", req.Input[5].Role)
	assert.Contains(t, req.Input[5].Content, "third")
}
