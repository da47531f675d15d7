package ai

import (
	"context"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// ChatClient sends a single prompt to a generative model and returns the
// text of its reply.
type ChatClient interface {
	Chat(ctx context.Context, prompt string) (string, error)
}

// ResolveContent flattens the union-shaped completion content (a plain
// string or a list of typed parts) into one text payload. The resolution
// happens here, at the model boundary, so the rest of the system only ever
// sees plain text.
func ResolveContent(content string, parts []openai.ChatMessagePart) string {
	if strings.TrimSpace(content) != "" {
		return content
	}

	b := strings.Builder{}
	for _, part := range parts {
		if part.Type == openai.ChatMessagePartTypeText {
			b.WriteString(part.Text)
		}
	}

	return b.String()
}
