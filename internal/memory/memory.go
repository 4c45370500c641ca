// Package memory persists durable facts between sessions as plain text,
// one fact per line, in an append-only file.
package memory

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// DefaultFileName is the memory file looked up in the working directory.
const DefaultFileName = "MEMORY.md"

// File is an existing memory file. Sessions only write to memory files that
// were present when they started.
type File struct {
	path    string
	content string
}

// Open returns the memory file at path, or nil when it does not exist. A
// missing file means there is no prior memory and nothing to compact into.
func Open(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "failed to read memory file %s", path)
	}
	return &File{path: path, content: string(data)}, nil
}

// Create makes an empty memory file at path if none exists and opens it.
func Create(path string) (*File, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrapf(err, "failed to create directory for %s", path)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create memory file %s", path)
	}
	if err := f.Close(); err != nil {
		return nil, errors.Wrapf(err, "failed to create memory file %s", path)
	}
	return Open(path)
}

// Path returns the location of the file.
func (f *File) Path() string {
	return f.path
}

// Content returns the file content as it was when opened.
func (f *File) Content() string {
	return f.content
}

// Append writes each fact as its own line. Blank facts are skipped and
// embedded line breaks become spaces so that one fact stays one line. It
// returns the number of lines written.
func (f *File) Append(facts []string) (int, error) {
	var sb strings.Builder
	n := 0
	for _, fact := range facts {
		line := strings.TrimSpace(lineBreaks.Replace(fact))
		if line == "" {
			continue
		}
		sb.WriteString(line)
		sb.WriteByte('\n')
		n++
	}
	if n == 0 {
		return 0, nil
	}

	out, err := os.OpenFile(f.path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to open memory file %s", f.path)
	}

	text := sb.String()
	if needsLeadingNewline(f.path) {
		text = "\n" + text
	}
	if _, err := out.WriteString(text); err != nil {
		out.Close()
		return 0, errors.Wrapf(err, "failed to append to memory file %s", f.path)
	}
	if err := out.Close(); err != nil {
		return 0, errors.Wrapf(err, "failed to close memory file %s", f.path)
	}
	return n, nil
}

var lineBreaks = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

// needsLeadingNewline reports whether the file ends without a newline, in
// which case the first appended fact would be glued to the last line.
func needsLeadingNewline(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.Size() == 0 {
		return false
	}
	last := make([]byte, 1)
	if _, err := f.ReadAt(last, info.Size()-1); err != nil {
		return false
	}
	return last[0] != '\n'
}
