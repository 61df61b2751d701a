package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/serenechat/serenechat/internal/config"
)

// Turn is one role-tagged entry of a structured model input.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// RunRequest is the payload sent to the backend. Exactly one of Prompt or
// Input is set, depending on the configured request format.
type RunRequest struct {
	Prompt string `json:"prompt,omitempty"`
	Input  []Turn `json:"input,omitempty"`
}

type ContentPart struct {
	Text string `json:"text"`
}

type OutputItem struct {
	Content []ContentPart `json:"content"`
}

// RunResult is the backend's answer. Backends answer in one of two shapes:
// a flat response string, or a nested structured completion.
type RunResult struct {
	Response string       `json:"response"`
	Output   []OutputItem `json:"output"`
}

// Text extracts the produced text: the flat response field wins, then the
// first non-empty nested output part, then empty (caller falls back).
func (r RunResult) Text() string {
	if r.Response != "" {
		return r.Response
	}
	for _, item := range r.Output {
		for _, part := range item.Content {
			if part.Text != "" {
				return part.Text
			}
		}
	}
	return ""
}

// Runner is the external transformation capability: structured prompt in,
// text out, with a configurable model identifier.
type Runner interface {
	Run(ctx context.Context, model string, req RunRequest) (RunResult, error)
}

// runEnvelope tolerates both a bare RunResult body and a Workers-AI-style
// wrapper that nests it under "result".
type runEnvelope struct {
	Response string       `json:"response"`
	Output   []OutputItem `json:"output"`
	Result   *RunResult   `json:"result"`
}

// HTTPRunner calls an HTTP inference backend: POST {base_url}/run/{model}.
type HTTPRunner struct {
	baseURL string
	token   string
	client  *http.Client
}

func NewHTTPRunner(cfg config.AIConfig) *HTTPRunner {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPRunner{
		baseURL: cfg.BaseURL,
		token:   cfg.APIToken,
		client:  &http.Client{Timeout: timeout},
	}
}

func (r *HTTPRunner) Run(ctx context.Context, model string, req RunRequest) (RunResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return RunResult{}, fmt.Errorf("failed to encode run request: %w", err)
	}

	endpoint := r.baseURL + "/run/" + url.PathEscape(model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return RunResult{}, fmt.Errorf("failed to build run request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if r.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+r.token)
	}

	resp, err := r.client.Do(httpReq)
	if err != nil {
		return RunResult{}, fmt.Errorf("run request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return RunResult{}, fmt.Errorf("backend returned status %d: %s", resp.StatusCode, data)
	}

	var env runEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return RunResult{}, fmt.Errorf("failed to decode run response: %w", err)
	}

	if env.Result != nil {
		return *env.Result, nil
	}
	return RunResult{Response: env.Response, Output: env.Output}, nil
}
