package ai

import (
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/require"
)

func TestResolveContentPrefersPlainString(t *testing.T) {
	text := ResolveContent("plain reply", []openai.ChatMessagePart{
		{Type: openai.ChatMessagePartTypeText, Text: "ignored"},
	})
	require.Equal(t, "plain reply", text)
}

func TestResolveContentJoinsTextParts(t *testing.T) {
	text := ResolveContent("", []openai.ChatMessagePart{
		{Type: openai.ChatMessagePartTypeText, Text: "first "},
		{Type: openai.ChatMessagePartTypeImageURL},
		{Type: openai.ChatMessagePartTypeText, Text: "second"},
	})
	require.Equal(t, "first second", text)
}

func TestResolveContentEmpty(t *testing.T) {
	require.Equal(t, "", ResolveContent("   ", nil))
}
