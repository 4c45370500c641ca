package terminal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractHost(t *testing.T) {
	tests := []struct {
		baseURL  string
		expected string
	}{
		{"", "default endpoint"},
		{"https://api.openai.com/v1", "api.openai.com/v1"},
		{"http://localhost:11434/v1", "localhost:11434/v1"},
		{"not a url", "not a url"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, extractHost(tt.baseURL))
	}
}

func TestStatusLine(t *testing.T) {
	t.Setenv("USER", "alex")
	line := StatusLine("https://api.anthropic.com", "claude")
	assert.Contains(t, line, "alex")
	assert.Contains(t, line, "claude")
	assert.Contains(t, line, "api.anthropic.com")
}

func TestStylesKeepText(t *testing.T) {
	for _, style := range []func(string) string{Dim, Bright, Cyan, Green, Yellow, Red} {
		assert.Contains(t, style("skill activated"), "skill activated")
	}
}

func TestIsTerminal(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "out.txt"))
	require.NoError(t, err)
	defer f.Close()
	assert.False(t, IsTerminal(f))
}
