package ai

import (
	"encoding/json"
	"strings"

	"github.com/serenechat/serenechat/internal/domain"
)

// DefaultAnalysis is the safe analysis used whenever the model's structured
// output cannot be trusted. Downstream code always gets a well-typed
// analysis, even under adversarial or truncated model output.
func DefaultAnalysis() domain.SentimentAnalysis {
	return domain.SentimentAnalysis{
		SentimentScore:       5,
		Emotion:              "neutral",
		AttackType:           "none",
		CommunicationStyle:   "neutral",
		TransformationNeeded: false,
	}
}

type structuredPayload struct {
	Analysis       *analysisPayload       `json:"analysis"`
	Transformation *transformationPayload `json:"transformation"`
}

type analysisPayload struct {
	SentimentScore       *int    `json:"sentimentScore"`
	Emotion              string  `json:"emotion"`
	AttackType           string  `json:"attackType"`
	CommunicationStyle   string  `json:"communicationStyle"`
	TransformationNeeded *bool   `json:"transformationNeeded"`
	Explanation          string  `json:"explanation"`
}

type transformationPayload struct {
	Transformed *string `json:"transformed"`
}

// ParseStructured interprets raw as an analysis+transformation payload.
// It never fails: invalid syntax or a missing analysis member yields
// DefaultAnalysis, and a missing transformed member yields the original
// text.
func ParseStructured(raw, original string) (domain.SentimentAnalysis, string) {
	var payload structuredPayload
	if err := json.Unmarshal([]byte(stripFences(raw)), &payload); err != nil {
		return DefaultAnalysis(), original
	}

	analysis := DefaultAnalysis()
	if a := payload.Analysis; a != nil {
		if a.SentimentScore != nil {
			analysis.SentimentScore = clampScore(*a.SentimentScore)
		}
		if a.Emotion != "" {
			analysis.Emotion = a.Emotion
		}
		if a.AttackType != "" {
			analysis.AttackType = a.AttackType
		}
		if a.CommunicationStyle != "" {
			analysis.CommunicationStyle = a.CommunicationStyle
		}
		if a.TransformationNeeded != nil {
			analysis.TransformationNeeded = *a.TransformationNeeded
		}
		analysis.Explanation = a.Explanation
	}

	transformed := original
	if t := payload.Transformation; t != nil && t.Transformed != nil && strings.TrimSpace(*t.Transformed) != "" {
		transformed = strings.TrimSpace(*t.Transformed)
	}

	return analysis, transformed
}

// stripFences removes a surrounding markdown code fence, which models often
// wrap JSON in despite instructions.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.Index(s, "\n"); i >= 0 {
		s = s[i+1:] // drop the language tag line
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func clampScore(n int) int {
	if n < 0 {
		return 0
	}
	if n > 10 {
		return 10
	}
	return n
}
