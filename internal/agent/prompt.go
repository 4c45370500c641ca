package agent

import "strings"

// DefaultSystemPrompt is used when no base prompt is configured.
const DefaultSystemPrompt = "You are a helpful assistant."

const memoryHeading = "Long-term memory from previous sessions:"

// ComposeSystemPrompt joins the prompt sources in a fixed order: base,
// project instructions, skill summary, memory. Later sources extend the
// base prompt and never replace it; blank sources are left out.
func ComposeSystemPrompt(base, project, skillSummary, memory string) string {
	if strings.TrimSpace(base) == "" {
		base = DefaultSystemPrompt
	}

	parts := []string{strings.TrimSpace(base)}
	if s := strings.TrimSpace(project); s != "" {
		parts = append(parts, s)
	}
	if s := strings.TrimSpace(skillSummary); s != "" {
		parts = append(parts, s)
	}
	if s := strings.TrimSpace(memory); s != "" {
		parts = append(parts, memoryHeading+"\n"+s)
	}
	return strings.Join(parts, "\n\n")
}
