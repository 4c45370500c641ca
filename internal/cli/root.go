// Package cli defines the skillclaw command tree.
package cli

import (
	"context"
	"os"
	"os/signal"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/wallacegibbon/skillclaw/internal/app"
	"github.com/wallacegibbon/skillclaw/internal/config"
	"github.com/wallacegibbon/skillclaw/internal/logger"
	"github.com/wallacegibbon/skillclaw/internal/run"
	"github.com/wallacegibbon/skillclaw/internal/terminal"
)

// state is shared by all commands of one invocation
type state struct {
	v        *viper.Viper
	settings *config.Settings
}

var flagKeys = map[string]string{
	"provider":     "provider",
	"model":        "model",
	"base-url":     "base_url",
	"api-key":      "api_key",
	"system":       "system_prompt",
	"skills-dir":   "skills_dir",
	"memory-file":  "memory_file",
	"project-file": "project_file",
	"pulse":        "pulse_minutes",
	"pulse-file":   "pulse_file",
	"yolo":         "yolo",
	"stream":       "stream",
	"log-level":    "log_level",
	"log-format":   "log_format",
	"debug-api":    "debug_api",
}

// NewRootCommand builds the command tree. configPaths overrides where
// config.yaml is looked up.
func NewRootCommand(configPaths ...string) *cobra.Command {
	st := &state{v: config.New(configPaths...)}

	cmd := &cobra.Command{
		Use:   "skillclaw [prompt]",
		Short: "A terminal assistant that activates skills on demand",
		Long: `skillclaw chats with a language model, injecting SKILL.md instructions when a
message needs them and remembering durable facts in MEMORY.md between sessions.

With a prompt it answers once and exits; without one it starts an interactive
session. Type /exit or press Ctrl-D to leave.`,
		Args:         cobra.ArbitraryArgs,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return st.load()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return st.chat(cmd, args)
		},
	}

	flags := cmd.PersistentFlags()
	flags.String("provider", "", "Provider type: openai, anthropic or openaicompat")
	flags.String("model", "", "Model name (defaults to the provider default)")
	flags.String("base-url", "", "API endpoint URL")
	flags.String("api-key", "", "API key (defaults to OPENAI_API_KEY or ANTHROPIC_API_KEY)")
	flags.String("system", "", "Base system prompt")
	flags.String("skills-dir", "", "Skills directory (default ./skills)")
	flags.String("memory-file", "", "Memory file (default MEMORY.md)")
	flags.String("project-file", "", "Project instructions file (default AGENTS.md)")
	flags.IntP("pulse", "p", 0, "Idle minutes before a pulse, 0 disables")
	flags.String("pulse-file", "", "Pulse prompt file (default PULSE.md)")
	flags.Bool("yolo", false, "Run tools without asking for confirmation")
	flags.Bool("stream", true, "Stream replies as they are generated")
	flags.String("log-level", "", "Log level (debug, info, warn, error)")
	flags.String("log-format", "", "Log format (fmt or json)")
	flags.Bool("debug-api", false, "Log raw API traffic to skillclaw-debug-api-N.log")

	for flag, key := range flagKeys {
		if err := st.v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			panic(err)
		}
	}

	cmd.AddCommand(newSkillCommand(st), newMemoryCommand(st), newVersionCommand())
	return cmd
}

func (st *state) load() error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	settings, err := config.Load(st.v)
	if err != nil {
		return err
	}
	if err := logger.SetLogLevel(settings.LogLevel); err != nil {
		return errors.Wrapf(err, "invalid log level %q", settings.LogLevel)
	}
	logger.SetLogFormat(settings.LogFormat)
	st.settings = settings
	return nil
}

func (st *state) chat(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	a, err := app.Setup(ctx, st.settings)
	if err != nil {
		return err
	}
	defer a.Close()

	tty := terminal.IsTerminal(os.Stdin) && terminal.IsTerminal(os.Stdout)
	opts := run.Options{
		In:            cmd.InOrStdin(),
		Out:           cmd.OutOrStdout(),
		Stream:        st.settings.Stream,
		PulseInterval: st.settings.PulseInterval(),
		PulseFile:     st.settings.PulseFile,
		ShowPrompt:    tty,
	}
	if tty {
		opts.StatusLine = terminal.StatusLine(a.Provider.BaseURL, a.Provider.ModelName)
	}
	runner := run.New(opts)

	session, err := a.NewSession(app.SessionHooks{
		Approve:          runner.Approve,
		OnSkillActivated: runner.AnnounceSkill,
	})
	if err != nil {
		return err
	}

	if len(args) > 0 {
		return runner.RunSingle(ctx, session, strings.Join(args, " "))
	}
	return runner.RunInteractive(ctx, session)
}

// Execute runs the root command.
func Execute() error {
	return NewRootCommand().ExecuteContext(context.Background())
}
