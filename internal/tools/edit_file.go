package tools

import (
	"context"
	"os"
	"strings"

	"charm.land/fantasy"
	"github.com/pkg/errors"
)

const editFileName = "edit_file"

// EditFileInput represents the input for the edit_file tool
type EditFileInput struct {
	Path      string `json:"path" description:"The path of the file to edit"`
	OldString string `json:"old_string" description:"The exact text to replace, which must occur exactly once"`
	NewString string `json:"new_string" description:"The replacement text"`
}

// NewEditFileTool creates a tool replacing one unique snippet of a file
func NewEditFileTool(dir string, approve Approver) fantasy.AgentTool {
	return fantasy.NewAgentTool(
		editFileName,
		"Replace one exact, unique snippet of text in an existing file",
		func(ctx context.Context, input EditFileInput, _ fantasy.ToolCall) (fantasy.ToolResponse, error) {
			if input.Path == "" {
				return fantasy.NewTextErrorResponse("path is required"), nil
			}
			if !approve(ctx, editFileName, "edit "+input.Path) {
				return fantasy.NewTextErrorResponse("edit rejected by the user"), nil
			}

			if err := EditFile(resolve(dir, input.Path), input.OldString, input.NewString); err != nil {
				return fantasy.NewTextErrorResponse(err.Error()), nil
			}

			return fantasy.NewTextResponse("File edited successfully"), nil
		},
	)
}

// EditFile replaces the single occurrence of oldString in path.
func EditFile(path, oldString, newString string) error {
	if oldString == "" {
		return errors.New("old_string is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "failed to read %s", path)
	}
	content := string(data)

	switch n := strings.Count(content, oldString); n {
	case 0:
		return errors.Errorf("old_string not found in %s", path)
	case 1:
	default:
		return errors.Errorf("old_string occurs %d times in %s, add more context", n, path)
	}

	info, err := os.Stat(path)
	if err != nil {
		return errors.Wrapf(err, "failed to stat %s", path)
	}
	updated := strings.Replace(content, oldString, newString, 1)
	if err := os.WriteFile(path, []byte(updated), info.Mode().Perm()); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return nil
}
