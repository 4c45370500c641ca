package agent

import (
	"context"
	"encoding/json"
	"iter"
	"slices"
	"strings"

	"charm.land/fantasy"
	"github.com/invopop/jsonschema"

	"github.com/wallacegibbon/skillclaw/internal/llm"
)

// fakeClient scripts the model. Selection and extraction requests are told
// apart by their leading system prompt.
type fakeClient struct {
	selections   []string
	facts        string
	replies      []string
	stream       []string
	structured   string
	selectErr    error
	extractErr   error
	completeErr  error
	streamErr    error
	selectCalls  [][]llm.Message
	extractCalls [][]llm.Message
	otherCalls   [][]llm.Message
	completions  [][]llm.Message
	toolSets     [][]fantasy.AgentTool
}

func (f *fakeClient) Complete(ctx context.Context, history []llm.Message, tools []fantasy.AgentTool) (string, error) {
	f.completions = append(f.completions, slices.Clone(history))
	f.toolSets = append(f.toolSets, tools)
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if f.completeErr != nil {
		return "", f.completeErr
	}
	if len(f.replies) == 0 {
		return "ok", nil
	}
	reply := f.replies[0]
	f.replies = f.replies[1:]
	return reply, nil
}

func (f *fakeClient) CompleteStructured(ctx context.Context, history []llm.Message, _ *jsonschema.Schema) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	first := history[0].Content
	switch {
	case strings.HasPrefix(first, "You route"):
		f.selectCalls = append(f.selectCalls, slices.Clone(history))
		if f.selectErr != nil {
			return nil, f.selectErr
		}
		if len(f.selections) == 0 {
			return json.RawMessage(`{"skillName":null}`), nil
		}
		reply := f.selections[0]
		f.selections = f.selections[1:]
		return json.RawMessage(reply), nil
	case strings.HasPrefix(first, "You maintain"):
		f.extractCalls = append(f.extractCalls, slices.Clone(history))
		if f.extractErr != nil {
			return nil, f.extractErr
		}
		if f.facts == "" {
			return json.RawMessage(`[]`), nil
		}
		return json.RawMessage(f.facts), nil
	default:
		f.otherCalls = append(f.otherCalls, slices.Clone(history))
		return json.RawMessage(f.structured), nil
	}
}

func (f *fakeClient) CompleteStreaming(ctx context.Context, history []llm.Message, tools []fantasy.AgentTool) iter.Seq2[string, error] {
	f.completions = append(f.completions, slices.Clone(history))
	f.toolSets = append(f.toolSets, tools)
	return func(yield func(string, error) bool) {
		if err := ctx.Err(); err != nil {
			yield("", err)
			return
		}
		for _, fragment := range f.stream {
			if !yield(fragment, nil) {
				return
			}
		}
		if f.streamErr != nil {
			yield("", f.streamErr)
		}
	}
}

func selectionOf(name string) string {
	return `{"skillName":"` + name + `"}`
}
