package skills

import (
	"bytes"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Render serialises m and body into the SKILL.md format. Keys are written
// in a fixed order and the metadata block keeps its insertion order. The
// frontmatter grammar is line oriented, so multi-line values are rejected.
func Render(m Metadata, body string) (string, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}

	pairs := []Field{
		{"name", m.Name},
		{"description", m.Description},
		{"license", m.License},
		{"compatibility", m.Compatibility},
		{"allowed-tools", m.AllowedTools},
	}
	for i, p := range pairs {
		// name and description are always written so validation can report them
		if p.Value == "" && i > 1 {
			continue
		}
		if err := appendPair(root, p.Key, p.Value); err != nil {
			return "", err
		}
	}

	if m.Extra.Len() > 0 {
		nested := &yaml.Node{Kind: yaml.MappingNode}
		for _, f := range m.Extra.All() {
			if err := appendPair(nested, f.Key, f.Value); err != nil {
				return "", err
			}
		}
		root.Content = append(root.Content, strNode("metadata"), nested)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return "", errors.Wrap(err, "failed to encode frontmatter")
	}
	if err := enc.Close(); err != nil {
		return "", errors.Wrap(err, "failed to encode frontmatter")
	}

	return frontmatterDelimiter + "\n" + buf.String() + frontmatterDelimiter + "\n" + body, nil
}

func appendPair(mapping *yaml.Node, key, value string) error {
	if strings.ContainsAny(key, "\r\n") || strings.ContainsAny(value, "\r\n") {
		return errors.Errorf("frontmatter value for '%s' must be a single line", key)
	}
	mapping.Content = append(mapping.Content, strNode(key), strNode(value))
	return nil
}

func strNode(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}
