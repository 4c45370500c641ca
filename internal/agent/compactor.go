package agent

import (
	"context"
	"strings"

	"github.com/wallacegibbon/skillclaw/internal/llm"
	"github.com/wallacegibbon/skillclaw/internal/logger"
	"github.com/wallacegibbon/skillclaw/internal/memory"
)

const extractionPrompt = `You maintain the long-term memory of an assistant.
Read the conversation transcript and list the durable facts worth remembering in future sessions.
Only keep facts the user stated explicitly that stay useful over time, such as identity, preferences, decisions and ongoing work.
Do not speculate or infer, and skip small talk. Write each fact as a short standalone sentence.
Reply with a JSON array of strings. Reply with an empty array when nothing qualifies.`

// Compactor extracts durable facts from a transcript into a memory file
type Compactor struct {
	client llm.Client
	file   *memory.File
}

// NewCompactor creates a compactor writing to file. A nil file makes every
// compaction a no-op.
func NewCompactor(client llm.Client, file *memory.File) *Compactor {
	return &Compactor{client: client, file: file}
}

// Compact sends the non-system part of history to the model and appends the
// returned facts to the memory file. It returns the number of facts written.
func (c *Compactor) Compact(ctx context.Context, history []llm.Message) (int, error) {
	if c.file == nil {
		return 0, nil
	}

	transcript := RenderTranscript(history)
	if transcript == "" {
		return 0, nil
	}

	facts, _, err := llm.CompleteAs[[]string](ctx, c.client, []llm.Message{
		llm.SystemMessage(extractionPrompt),
		llm.UserMessage(transcript),
	})
	if err != nil {
		return 0, wrapCollaborator(err, "memory extraction")
	}

	n, err := c.file.Append(facts)
	if err != nil {
		return 0, err
	}
	logger.G(ctx).WithField("facts", n).Info("memory compacted")
	return n, nil
}

// RenderTranscript renders user and assistant messages as "role: content"
// lines.
func RenderTranscript(history []llm.Message) string {
	lines := make([]string, 0, len(history))
	for _, m := range history {
		if m.Role == llm.RoleSystem {
			continue
		}
		lines = append(lines, string(m.Role)+": "+m.Content)
	}
	return strings.Join(lines, "\n")
}
