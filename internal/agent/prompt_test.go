package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComposeSystemPrompt(t *testing.T) {
	tests := []struct {
		name     string
		base     string
		project  string
		summary  string
		memory   string
		expected string
	}{
		{
			name:     "defaults only",
			expected: DefaultSystemPrompt,
		},
		{
			name:     "blank base falls back",
			base:     "  \n",
			project:  "Use Go.",
			expected: DefaultSystemPrompt + "\n\nUse Go.",
		},
		{
			name:     "all sources in order",
			base:     "Be brief.",
			project:  "Project rules.\n",
			summary:  "Available skills:\n- weather: Get weather",
			memory:   "- User's name is Alex\n",
			expected: "Be brief.\n\nProject rules.\n\nAvailable skills:\n- weather: Get weather\n\nLong-term memory from previous sessions:\n- User's name is Alex",
		},
		{
			name:     "blank memory omitted",
			base:     "Be brief.",
			summary:  "Available skills:\n- weather: Get weather",
			memory:   "\n\n",
			expected: "Be brief.\n\nAvailable skills:\n- weather: Get weather",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ComposeSystemPrompt(tt.base, tt.project, tt.summary, tt.memory))
		})
	}
}
