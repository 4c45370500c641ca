// Package tools holds the agent tools handed to the model collaborator.
package tools

import (
	"context"
	"path/filepath"

	"charm.land/fantasy"
)

// Approver decides whether a side-effecting tool call may run. It receives
// the tool name and a one-line description of the action.
type Approver func(ctx context.Context, tool, action string) bool

// AllowAll approves every call. It backs --yolo.
func AllowAll(context.Context, string, string) bool {
	return true
}

// Options configures the default tool set
type Options struct {
	// Dir is the working directory relative paths and commands resolve
	// against.
	Dir string
	// Approve gates shell commands and file writes. Nil approves everything.
	Approve Approver
}

// Default returns the tools available to every session.
func Default(opts Options) []fantasy.AgentTool {
	approve := opts.Approve
	if approve == nil {
		approve = AllowAll
	}
	return []fantasy.AgentTool{
		NewPosixShellTool(opts.Dir, approve),
		NewReadFileTool(opts.Dir),
		NewWriteFileTool(opts.Dir, approve),
		NewEditFileTool(opts.Dir, approve),
	}
}

func resolve(dir, path string) string {
	if filepath.IsAbs(path) || dir == "" {
		return path
	}
	return filepath.Join(dir, path)
}
