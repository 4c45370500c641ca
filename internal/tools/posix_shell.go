package tools

import (
	"bytes"
	"context"
	"os"
	"strings"

	"charm.land/fantasy"
	"github.com/pkg/errors"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"

	"github.com/wallacegibbon/skillclaw/internal/logger"
)

const posixShellName = "posix_shell"

// PosixShellInput represents the input for the posix_shell tool
type PosixShellInput struct {
	Command string `json:"command" description:"The shell command to execute"`
}

// NewPosixShellTool creates a tool running commands in an embedded POSIX
// shell rooted at dir. Every command goes through approve first.
func NewPosixShellTool(dir string, approve Approver) fantasy.AgentTool {
	return fantasy.NewAgentTool(
		posixShellName,
		"Execute a shell command in the working directory",
		func(ctx context.Context, input PosixShellInput, _ fantasy.ToolCall) (fantasy.ToolResponse, error) {
			if input.Command == "" {
				return fantasy.NewTextErrorResponse("command is required"), nil
			}
			if !approve(ctx, posixShellName, input.Command) {
				logger.G(ctx).WithField("command", input.Command).Info("shell command rejected")
				return fantasy.NewTextErrorResponse("command rejected by the user"), nil
			}

			output, err := RunShell(ctx, dir, input.Command)
			if err != nil {
				return fantasy.NewTextErrorResponse(err.Error()), nil
			}
			return fantasy.NewTextResponse(output), nil
		},
	)
}

// RunShell parses and runs command, returning stdout followed by stderr. A
// non-zero exit status is reported as an error prefixed with "[status]"
// that carries the output.
func RunShell(ctx context.Context, dir, command string) (string, error) {
	prog, err := syntax.NewParser().Parse(strings.NewReader(command), "")
	if err != nil {
		return "", errors.Wrap(err, "parse error")
	}

	if dir == "" {
		if dir, err = os.Getwd(); err != nil {
			return "", errors.Wrap(err, "failed to get working directory")
		}
	}

	var stdout, stderr bytes.Buffer
	runner, err := interp.New(
		interp.Dir(dir),
		interp.Env(expand.ListEnviron(os.Environ()...)),
		// stdin belongs to the REPL line reader
		interp.StdIO(strings.NewReader(""), &stdout, &stderr),
	)
	if err != nil {
		return "", errors.Wrap(err, "failed to create runner")
	}

	err = runner.Run(ctx, prog)
	output := stdout.String()
	if stderr.Len() > 0 {
		if output != "" {
			output += "\n"
		}
		output += stderr.String()
	}

	logger.G(ctx).WithField("command", command).WithError(err).Debug("shell command finished")

	if err != nil {
		var exitStatus interp.ExitStatus
		if errors.As(err, &exitStatus) {
			return output, errors.Errorf("[%d] %s", exitStatus, output)
		}
		if output != "" {
			return output, errors.Errorf("%s\n%s", err.Error(), output)
		}
		return output, err
	}
	return output, nil
}
