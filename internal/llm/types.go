// Package llm defines the conversation message model and the collaborator
// interface the agent uses to reach a remote language model.
package llm

import (
	"context"
	"encoding/json"
	"iter"

	"charm.land/fantasy"
	"github.com/invopop/jsonschema"
)

// Role identifies the author of a message
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single conversation entry
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

func SystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

func AssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

// Client is the remote model. All methods receive the full ordered history
// and must keep system messages in place.
type Client interface {
	// Complete returns a free-form reply, running any tools the model calls.
	Complete(ctx context.Context, history []Message, tools []fantasy.AgentTool) (string, error)
	// CompleteStructured returns a JSON document conforming to schema.
	CompleteStructured(ctx context.Context, history []Message, schema *jsonschema.Schema) (json.RawMessage, error)
	// CompleteStreaming yields reply fragments as they arrive, running any
	// tools the model calls between them. The sequence is finite and can
	// only be consumed once.
	CompleteStreaming(ctx context.Context, history []Message, tools []fantasy.AgentTool) iter.Seq2[string, error]
}
