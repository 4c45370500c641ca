package tools

import (
	"context"
	"os"
	"path/filepath"

	"charm.land/fantasy"
	"github.com/pkg/errors"
)

const writeFileName = "write_file"

// WriteFileInput represents the input for the write_file tool
type WriteFileInput struct {
	Path    string `json:"path" description:"The path of the file to write"`
	Content string `json:"content" description:"The content to write to the file"`
}

// NewWriteFileTool creates a tool for writing files under dir
func NewWriteFileTool(dir string, approve Approver) fantasy.AgentTool {
	return fantasy.NewAgentTool(
		writeFileName,
		"Create a new file or replace the entire content of an existing file.",
		func(ctx context.Context, input WriteFileInput, _ fantasy.ToolCall) (fantasy.ToolResponse, error) {
			if input.Path == "" {
				return fantasy.NewTextErrorResponse("path is required"), nil
			}
			if !approve(ctx, writeFileName, "write "+input.Path) {
				return fantasy.NewTextErrorResponse("write rejected by the user"), nil
			}

			if err := WriteFile(resolve(dir, input.Path), input.Content); err != nil {
				return fantasy.NewTextErrorResponse(err.Error()), nil
			}

			return fantasy.NewTextResponse("File written successfully"), nil
		},
	)
}

// WriteFile replaces the content of path, creating parent directories.
func WriteFile(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "failed to create directory for %s", path)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return nil
}
