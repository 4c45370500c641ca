package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"reflect"

	"github.com/invopop/jsonschema"
	"github.com/pkg/errors"
)

// SchemaFor reflects the JSON schema of T with all definitions inlined.
func SchemaFor[T any]() *jsonschema.Schema {
	r := &jsonschema.Reflector{
		DoNotReference: true,
	}
	return r.ReflectFromType(reflect.TypeOf((*T)(nil)).Elem())
}

// CompleteAs asks c for a structured reply shaped like T and decodes it. The
// raw reply is returned alongside so callers can record it.
func CompleteAs[T any](ctx context.Context, c Client, history []Message) (T, json.RawMessage, error) {
	var out T
	raw, err := c.CompleteStructured(ctx, history, SchemaFor[T]())
	if err != nil {
		return out, nil, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, raw, errors.Wrap(err, "failed to decode structured reply")
	}
	return out, raw, nil
}

// ExtractJSON pulls a JSON document out of a model reply, tolerating
// markdown code fences and prose around the payload.
func ExtractJSON(reply string) (json.RawMessage, error) {
	text := bytes.TrimSpace([]byte(reply))
	if json.Valid(text) {
		return json.RawMessage(text), nil
	}

	start := bytes.IndexAny(text, "{[")
	if start < 0 {
		return nil, errors.Errorf("no JSON document in reply: %q", reply)
	}
	closer := byte('}')
	if text[start] == '[' {
		closer = ']'
	}
	end := bytes.LastIndexByte(text, closer)
	if end <= start || !json.Valid(text[start:end+1]) {
		return nil, errors.Errorf("no JSON document in reply: %q", reply)
	}
	return json.RawMessage(text[start : end+1]), nil
}
