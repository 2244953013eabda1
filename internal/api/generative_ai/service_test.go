package generativeAI

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yuqiannemo/WanderMind/config"
)

func TestNewAIClient_RequiresKey(t *testing.T) {
	_, err := NewAIClient(context.Background(), config.LLMConfig{Model: "gemini-2.0-flash"}, slog.Default())
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestDisabled(t *testing.T) {
	text, err := Disabled{}.GenerateContent(context.Background(), "anything", nil)
	require.ErrorIs(t, err, ErrNotConfigured)
	assert.Empty(t, text)
}
