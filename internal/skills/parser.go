package skills

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	frontmatterDelimiter = "---"
	maxNameLength        = 64
	maxDescLength        = 1024
	maxCompatLength      = 500
)

// Parse parses and validates the SKILL.md document found at path. dirName
// is the name of the directory holding the file; the declared skill name
// must equal it.
func Parse(path, dirName, content string) (*Definition, error) {
	lines := splitLines(content)
	if !isDelimiter(lines[0]) {
		return nil, invalid(path, RuleFrontmatterStart, "missing opening frontmatter delimiter")
	}

	end := -1
	for i := 1; i < len(lines); i++ {
		if isDelimiter(lines[i]) {
			end = i
			break
		}
	}
	if end < 0 {
		return nil, invalid(path, RuleFrontmatterEnd, "missing closing frontmatter delimiter")
	}

	metadata, err := parseFrontmatter(path, lines[1:end])
	if err != nil {
		return nil, err
	}
	if err := validate(path, dirName, metadata); err != nil {
		return nil, err
	}

	return &Definition{
		Metadata:    metadata,
		Body:        strings.Join(lines[end+1:], "\n"),
		FullContent: content,
	}, nil
}

// parseFrontmatter walks the frontmatter with an explicit index so that the
// metadata block can hand its terminating line back to the outer loop.
func parseFrontmatter(path string, lines []string) (Metadata, error) {
	var m Metadata

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		if strings.EqualFold(trimmed, "metadata:") {
			next, err := parseMetadataBlock(path, lines, i+1, indentation(line), &m.Extra)
			if err != nil {
				return Metadata{}, err
			}
			// the loop increment lands on the first line outside the block
			i = next - 1
			continue
		}

		key, value, err := splitKeyValue(path, trimmed)
		if err != nil {
			return Metadata{}, err
		}

		switch strings.ToLower(key) {
		case "name":
			m.Name = value
		case "description":
			m.Description = value
		case "license":
			m.License = value
		case "compatibility":
			m.Compatibility = value
		case "allowed-tools":
			m.AllowedTools = value
		}
	}

	return m, nil
}

// parseMetadataBlock collects the lines indented deeper than parent starting
// at start and returns the index of the first line that does not belong to
// the block.
func parseMetadataBlock(path string, lines []string, start, parent int, into *Fields) (int, error) {
	i := start
	for ; i < len(lines); i++ {
		line := lines[i]
		if strings.TrimSpace(line) == "" {
			continue
		}
		if indentation(line) <= parent {
			return i, nil
		}

		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") {
			continue
		}

		key, value, err := splitKeyValue(path, trimmed)
		if err != nil {
			return 0, err
		}
		into.Set(key, value)
	}
	return i, nil
}

func splitKeyValue(path, line string) (string, string, error) {
	sep := strings.IndexByte(line, ':')
	if sep <= 0 {
		return "", "", invalid(path, RuleMalformedLine, "invalid frontmatter line: %s", line)
	}

	key := strings.TrimSpace(line[:sep])
	value := unquote(strings.TrimSpace(line[sep+1:]))
	return key, value, nil
}

func unquote(value string) string {
	if len(value) >= 2 {
		first, last := value[0], value[len(value)-1]
		if (first == '"' || first == '\'') && first == last {
			return value[1 : len(value)-1]
		}
	}
	return value
}

func validate(path, dirName string, m Metadata) error {
	name := m.Name
	if strings.TrimSpace(name) == "" {
		return invalid(path, RuleNameMissing, "missing a name")
	}
	if n := utf8.RuneCountInString(name); n < 1 || n > maxNameLength {
		return invalid(path, RuleNameLength, "name length must be 1-%d characters", maxNameLength)
	}
	if name != dirName {
		return invalid(path, RuleNameDirectory, "name '%s' must match directory '%s'", name, dirName)
	}
	for _, c := range name {
		if !((c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '-') {
			return invalid(path, RuleNameCharset, "name must contain only lowercase letters, numbers, and hyphens")
		}
	}
	if strings.HasPrefix(name, "-") || strings.HasSuffix(name, "-") {
		return invalid(path, RuleNameHyphenEdge, "name must not start or end with hyphen")
	}
	if strings.Contains(name, "--") {
		return invalid(path, RuleNameHyphenRun, "name must not contain consecutive hyphens")
	}

	if strings.TrimSpace(m.Description) == "" {
		return invalid(path, RuleDescMissing, "missing a description")
	}
	if utf8.RuneCountInString(m.Description) > maxDescLength {
		return invalid(path, RuleDescLength, "description longer than %d characters", maxDescLength)
	}

	if strings.TrimSpace(m.Compatibility) != "" && utf8.RuneCountInString(m.Compatibility) > maxCompatLength {
		return invalid(path, RuleCompatLength, "compatibility longer than %d characters", maxCompatLength)
	}

	return nil
}

func splitLines(content string) []string {
	return strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
}

func isDelimiter(line string) bool {
	return strings.TrimSpace(line) == frontmatterDelimiter
}

// indentation counts raw leading whitespace characters; a tab counts as one.
func indentation(line string) int {
	n := 0
	for _, c := range line {
		if !unicode.IsSpace(c) {
			break
		}
		n++
	}
	return n
}
