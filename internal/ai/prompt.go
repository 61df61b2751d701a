package ai

import (
	"fmt"
	"strings"

	"github.com/serenechat/serenechat/internal/domain"
)

// instructionProfile is the tone policy sent as the system turn. It reframes
// expression, never opinion, and must keep the message's language.
const instructionProfile = `You are a communication assistant that helps people express themselves more constructively without changing their actual opinions.

RULES:
- NEVER change the person's opinion or sentiment
- ONLY improve HOW they express it
- Remove harsh or aggressive language
- Use respectful, constructive phrasing
- Keep the same emotional intent
- ALWAYS answer in the same language as the original message, never translate
- If the message is already respectful, return it unchanged

EXAMPLES:
"I hate the beach" -> "The beach isn't really my thing"
"That's stupid" -> "I don't think that approach would work"
"You're wrong" -> "I see this differently"

Only return the transformed message, nothing else.`

// structuredProfile additionally demands a machine-readable analysis.
const structuredProfile = instructionProfile + `

Instead of returning the message directly, respond ONLY with a JSON object of this exact shape, no prose and no code fences:
{"analysis":{"sentimentScore":0-10,"emotion":"...","attackType":"...","communicationStyle":"...","transformationNeeded":true|false,"explanation":"..."},"transformation":{"transformed":"..."}}`

// buildTurns renders the conversation for the backend: the instruction
// profile, each prior exchange as a user/assistant pair (what was said, what
// was relayed), then the new message as the final user turn.
func buildTurns(text string, context []domain.ChatMessage, structured bool) []Turn {
	profile := instructionProfile
	if structured {
		profile = structuredProfile
	}

	turns := make([]Turn, 0, 2*len(context)+2)
	turns = append(turns, Turn{Role: "system", Content: profile})
	for _, m := range context {
		turns = append(turns,
			Turn{Role: "user", Content: fmt.Sprintf("%s: %s", m.Username, m.OriginalText)},
			Turn{Role: "assistant", Content: m.TransformedText},
		)
	}
	turns = append(turns, Turn{Role: "user", Content: fmt.Sprintf("Transform this message: %q", text)})
	return turns
}

// flattenTurns collapses the turns into a single prompt string for backends
// that take a plain prompt instead of structured input.
func flattenTurns(turns []Turn) string {
	var sb strings.Builder
	for i, t := range turns {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		switch t.Role {
		case "system":
			sb.WriteString(t.Content)
		case "assistant":
			sb.WriteString("Relayed as: ")
			sb.WriteString(t.Content)
		default:
			sb.WriteString(t.Content)
		}
	}
	return sb.String()
}
