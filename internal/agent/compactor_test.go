package agent

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wallacegibbon/skillclaw/internal/llm"
	"github.com/wallacegibbon/skillclaw/internal/memory"
)

func newMemoryFile(t *testing.T, content string) *memory.File {
	t.Helper()
	path := filepath.Join(t.TempDir(), memory.DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	file, err := memory.Open(path)
	require.NoError(t, err)
	require.NotNil(t, file)
	return file
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestRenderTranscript(t *testing.T) {
	history := []llm.Message{
		llm.SystemMessage("You are a helpful assistant."),
		llm.UserMessage("My name is Alex"),
		llm.SystemMessage("[skill activated: weather]"),
		llm.AssistantMessage("Nice to meet you, Alex."),
	}
	assert.Equal(t, "user: My name is Alex\nassistant: Nice to meet you, Alex.", RenderTranscript(history))
	assert.Empty(t, RenderTranscript(history[:1]))
}

func TestCompact(t *testing.T) {
	file := newMemoryFile(t, "User prefers metric units\n")
	client := &fakeClient{facts: `["User's name is Alex", "  ", "User lives\nin Oslo"]`}
	compactor := NewCompactor(client, file)

	n, err := compactor.Compact(context.Background(), []llm.Message{
		llm.SystemMessage("system"),
		llm.UserMessage("My name is Alex and I live in Oslo"),
		llm.AssistantMessage("Hello Alex"),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, "User prefers metric units\nUser's name is Alex\nUser lives in Oslo\n", readFile(t, file.Path()))

	require.Len(t, client.extractCalls, 1)
	assert.Equal(t, "user: My name is Alex and I live in Oslo\nassistant: Hello Alex", client.extractCalls[0][1].Content)
}

func TestCompactSkips(t *testing.T) {
	t.Run("no memory file", func(t *testing.T) {
		client := &fakeClient{facts: `["fact"]`}
		n, err := NewCompactor(client, nil).Compact(context.Background(), []llm.Message{llm.UserMessage("hi")})
		require.NoError(t, err)
		assert.Zero(t, n)
		assert.Empty(t, client.extractCalls)
	})

	t.Run("empty transcript", func(t *testing.T) {
		file := newMemoryFile(t, "")
		client := &fakeClient{facts: `["fact"]`}
		n, err := NewCompactor(client, file).Compact(context.Background(), []llm.Message{llm.SystemMessage("system")})
		require.NoError(t, err)
		assert.Zero(t, n)
		assert.Empty(t, client.extractCalls)
		assert.Empty(t, readFile(t, file.Path()))
	})

	t.Run("nothing worth keeping", func(t *testing.T) {
		file := newMemoryFile(t, "old fact\n")
		client := &fakeClient{facts: `[]`}
		n, err := NewCompactor(client, file).Compact(context.Background(), []llm.Message{llm.UserMessage("hi")})
		require.NoError(t, err)
		assert.Zero(t, n)
		assert.Equal(t, "old fact\n", readFile(t, file.Path()))
	})
}

func TestCompactFailure(t *testing.T) {
	file := newMemoryFile(t, "old fact\n")
	client := &fakeClient{extractErr: errors.New("rate limited")}

	n, err := NewCompactor(client, file).Compact(context.Background(), []llm.Message{llm.UserMessage("hi")})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCollaborator)
	assert.Zero(t, n)
	assert.Equal(t, "old fact\n", readFile(t, file.Path()))
}
