package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"

	"charm.land/fantasy"
	"github.com/invopop/jsonschema"
	"github.com/pkg/errors"
)

const structuredInstruction = `Respond with a single JSON document and nothing else: no prose, no code fences.
The document must conform to this JSON schema:
%s`

var errStreamStopped = errors.New("stream consumer stopped")

// FantasyClient implements Client on top of a fantasy language model
type FantasyClient struct {
	model fantasy.LanguageModel
}

// NewFantasyClient wraps model.
func NewFantasyClient(model fantasy.LanguageModel) *FantasyClient {
	return &FantasyClient{model: model}
}

// Complete runs an agent with tools over history and returns its final text.
func (c *FantasyClient) Complete(ctx context.Context, history []Message, tools []fantasy.AgentTool) (string, error) {
	agent := fantasy.NewAgent(c.model, fantasy.WithTools(tools...))

	prompt, messages := splitPrompt(history)
	result, err := agent.Generate(ctx, fantasy.AgentCall{
		Prompt:   prompt,
		Messages: messages,
	})
	if err != nil {
		return "", errors.Wrap(err, "model call failed")
	}
	return result.Response.Content.Text(), nil
}

// CompleteStructured adds a schema instruction right before the last
// message and extracts the JSON document from the reply.
func (c *FantasyClient) CompleteStructured(ctx context.Context, history []Message, schema *jsonschema.Schema) (json.RawMessage, error) {
	schemaJSON, err := json.Marshal(schema)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode schema")
	}

	instruction := SystemMessage(fmt.Sprintf(structuredInstruction, schemaJSON))
	withSchema := make([]Message, 0, len(history)+1)
	if n := len(history); n > 0 {
		withSchema = append(withSchema, history[:n-1]...)
		withSchema = append(withSchema, instruction, history[n-1])
	} else {
		withSchema = append(withSchema, instruction)
	}

	text, err := c.Complete(ctx, withSchema, nil)
	if err != nil {
		return nil, err
	}
	return ExtractJSON(text)
}

// CompleteStreaming streams text deltas. Breaking out of the loop stops the
// underlying request.
func (c *FantasyClient) CompleteStreaming(ctx context.Context, history []Message, tools []fantasy.AgentTool) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		agent := fantasy.NewAgent(c.model, fantasy.WithTools(tools...))

		prompt, messages := splitPrompt(history)
		stopped := false
		_, err := agent.Stream(ctx, fantasy.AgentStreamCall{
			Prompt:   prompt,
			Messages: messages,
			OnTextDelta: func(_, text string) error {
				if !yield(text, nil) {
					stopped = true
					return errStreamStopped
				}
				return nil
			},
		})
		if stopped {
			return
		}
		if err != nil {
			yield("", errors.Wrap(err, "model stream failed"))
		}
	}
}

// splitPrompt separates a trailing user message, which fantasy takes as the
// call prompt, from the preceding history.
func splitPrompt(history []Message) (string, []fantasy.Message) {
	n := len(history)
	if n > 0 && history[n-1].Role == RoleUser {
		return history[n-1].Content, toFantasy(history[:n-1])
	}
	return "", toFantasy(history)
}

func toFantasy(history []Message) []fantasy.Message {
	out := make([]fantasy.Message, 0, len(history))
	for _, m := range history {
		out = append(out, fantasy.Message{
			Role:    fantasyRole(m.Role),
			Content: []fantasy.MessagePart{fantasy.TextPart{Text: m.Content}},
		})
	}
	return out
}

func fantasyRole(r Role) fantasy.MessageRole {
	switch r {
	case RoleSystem:
		return fantasy.MessageRoleSystem
	case RoleAssistant:
		return fantasy.MessageRoleAssistant
	default:
		return fantasy.MessageRoleUser
	}
}
