// Package run drives a session from a line-oriented terminal.
package run

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/wallacegibbon/skillclaw/internal/agent"
	"github.com/wallacegibbon/skillclaw/internal/logger"
	"github.com/wallacegibbon/skillclaw/internal/terminal"
)

const exitCommand = "/exit"

// Options configures a Runner
type Options struct {
	In  io.Reader
	Out io.Writer
	// Stream prints reply fragments as they arrive.
	Stream bool
	// PulseInterval is the idle time before a pulse; zero disables pulses.
	PulseInterval time.Duration
	// PulseFile holds the pulse prompt. A missing file skips the pulse.
	PulseFile string
	// StatusLine is printed once when the interactive loop starts.
	StatusLine string
	// ShowPrompt prints the input prompt, for terminals.
	ShowPrompt bool
}

// Runner handles running a session. Input lines are read by a single
// goroutine so that approvals asked in the middle of a turn and the idle
// pulse share one source.
type Runner struct {
	opts  Options
	lines chan string
	once  sync.Once
}

// New creates a new Runner
func New(opts Options) *Runner {
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	return &Runner{opts: opts, lines: make(chan string, 1)}
}

func (r *Runner) startReader() {
	r.once.Do(func() {
		go func() {
			defer close(r.lines)
			scanner := bufio.NewScanner(r.opts.In)
			scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
			for scanner.Scan() {
				r.lines <- scanner.Text()
			}
		}()
	})
}

// readLine waits for the next input line. ok is false on EOF or when ctx is
// done.
func (r *Runner) readLine(ctx context.Context) (string, bool) {
	r.startReader()
	select {
	case <-ctx.Done():
		return "", false
	case line, ok := <-r.lines:
		return line, ok
	}
}

func (r *Runner) printf(format string, args ...any) {
	fmt.Fprintf(r.opts.Out, format, args...)
}

// Approve asks the user to confirm a tool call. An empty answer or "y"
// approves; anything else, EOF or cancellation rejects.
func (r *Runner) Approve(ctx context.Context, tool, action string) bool {
	r.printf("%s %s %s ", terminal.Red("Invoking tool: "+tool), terminal.Yellow(action), terminal.Dim("[Y/n]"))
	answer, ok := r.readLine(ctx)
	if !ok {
		r.printf("\n")
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "", "y", "yes":
		return true
	default:
		return false
	}
}

// AnnounceSkill is the session's skill activation observer.
func (r *Runner) AnnounceSkill(name string) {
	r.printf("%s\n", terminal.Cyan("Skill activated: "+name))
}

// RunSingle runs one prompt, then closes the session.
func (r *Runner) RunSingle(ctx context.Context, s *agent.Session, prompt string) error {
	defer r.finish(ctx, s)
	return r.turn(ctx, s, prompt)
}

// RunInteractive runs the REPL until /exit, EOF or cancellation of ctx,
// then closes the session. Turn failures are reported and the loop goes on.
func (r *Runner) RunInteractive(ctx context.Context, s *agent.Session) error {
	defer r.finish(ctx, s)
	r.startReader()

	if r.opts.StatusLine != "" {
		r.printf("%s", r.opts.StatusLine)
	}

	var pulse *time.Timer
	var pulseC <-chan time.Time
	if r.opts.PulseInterval > 0 {
		pulse = time.NewTimer(r.opts.PulseInterval)
		defer pulse.Stop()
		pulseC = pulse.C
	}

	for {
		if r.opts.ShowPrompt {
			r.printf("%s", terminal.Prompt())
		}

		select {
		case <-ctx.Done():
			return nil

		case <-pulseC:
			r.pulse(ctx, s)
			pulse.Reset(r.opts.PulseInterval)

		case line, ok := <-r.lines:
			if !ok {
				return nil
			}
			resetTimer(pulse, r.opts.PulseInterval)

			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			if strings.EqualFold(line, exitCommand) {
				return nil
			}
			if r.command(ctx, s, line) {
				continue
			}
			if err := r.turn(ctx, s, line); err != nil && ctx.Err() != nil {
				return nil
			}
		}
	}
}

// resetTimer restarts t after draining a tick that fired while a line was
// being handled, so the pulse neither fires twice nor gets lost.
func resetTimer(t *time.Timer, d time.Duration) {
	if t == nil {
		return
	}
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
	t.Reset(d)
}

// command handles REPL slash commands other than /exit.
func (r *Runner) command(ctx context.Context, s *agent.Session, line string) bool {
	fields := strings.Fields(line)
	switch fields[0] {
	case "/skills":
		active := make(map[string]bool)
		for _, name := range s.ActivatedSkills() {
			active[name] = true
		}
		if s.Catalog().IsEmpty() {
			r.printf("%s\n", terminal.Dim("No skills loaded."))
			return true
		}
		for _, def := range s.Catalog().Skills() {
			marker := "  "
			if active[strings.ToLower(def.Name())] {
				marker = terminal.Green("* ")
			}
			r.printf("%s%s: %s\n", marker, terminal.Yellow(def.Name()), def.Metadata.Description)
		}
		return true
	case "/activate":
		if len(fields) != 2 {
			r.printf("%s\n", terminal.Red("usage: /activate <skill>"))
			return true
		}
		activated, err := s.Activate(ctx, fields[1])
		if err != nil {
			r.printf("%s\n", terminal.Red(err.Error()))
		} else if !activated {
			r.printf("%s\n", terminal.Dim("Skill already active: "+fields[1]))
		}
		return true
	}
	return false
}

func (r *Runner) turn(ctx context.Context, s *agent.Session, prompt string) error {
	var err error
	if r.opts.Stream {
		err = r.streamTurn(ctx, s, prompt)
	} else {
		var reply string
		reply, err = s.Submit(ctx, prompt)
		if err == nil {
			r.printf("%s\n", terminal.Bright(reply))
		}
	}

	if err != nil {
		r.report(ctx, err)
	}
	return err
}

func (r *Runner) streamTurn(ctx context.Context, s *agent.Session, prompt string) error {
	started := false
	for fragment, err := range s.SubmitStream(ctx, prompt) {
		if err != nil {
			if started {
				r.printf("\n")
			}
			return err
		}
		started = true
		r.printf("%s", terminal.Bright(fragment))
	}
	if started {
		r.printf("\n")
	}
	return nil
}

func (r *Runner) report(ctx context.Context, err error) {
	log := logger.G(ctx).WithError(err)
	switch {
	case ctx.Err() != nil:
		r.printf("\n%s\n", terminal.Dim("Request cancelled."))
	case errors.Is(err, agent.ErrProtocolViolation):
		log.Warn("turn aborted")
		r.printf("%s\n", terminal.Red("The model selected an unknown skill: "+err.Error()))
	default:
		log.Error("turn failed")
		r.printf("%s\n", terminal.Red("Error: "+err.Error()))
	}
}

func (r *Runner) pulse(ctx context.Context, s *agent.Session) {
	log := logger.G(ctx).WithFields(logrus.Fields{"path": r.opts.PulseFile})

	prompt, err := os.ReadFile(r.opts.PulseFile)
	if err != nil {
		if os.IsNotExist(err) {
			log.Debug("no pulse file, skipping pulse")
		} else {
			log.WithError(err).Warn("failed to read pulse file")
		}
		return
	}
	if strings.TrimSpace(string(prompt)) == "" {
		return
	}

	r.printf("\n%s\n", terminal.Dim("Pulse triggered due to inactivity."))
	reply, err := s.Pulse(ctx, string(prompt))
	if err != nil {
		r.report(ctx, err)
		return
	}
	r.printf("\n%s\n\n", terminal.Dim(reply))
}

// finish closes the session. Closing compacts memory even when ctx has
// been cancelled by an interrupt.
func (r *Runner) finish(ctx context.Context, s *agent.Session) {
	n, err := s.Close(ctx)
	if err != nil {
		r.printf("%s\n", terminal.Red("Failed to save memory: "+err.Error()))
		return
	}
	if n > 0 {
		r.printf("%s\n", terminal.Dim(fmt.Sprintf("Saved %d facts to memory.", n)))
	}
}
