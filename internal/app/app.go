// Package app wires configuration into a ready session.
package app

import (
	"context"
	"io"
	"net/http"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/wallacegibbon/skillclaw/internal/agent"
	"github.com/wallacegibbon/skillclaw/internal/config"
	"github.com/wallacegibbon/skillclaw/internal/debug"
	"github.com/wallacegibbon/skillclaw/internal/llm"
	"github.com/wallacegibbon/skillclaw/internal/logger"
	"github.com/wallacegibbon/skillclaw/internal/memory"
	"github.com/wallacegibbon/skillclaw/internal/provider"
	"github.com/wallacegibbon/skillclaw/internal/skills"
	"github.com/wallacegibbon/skillclaw/internal/tools"
)

// App holds the components shared by every session
type App struct {
	Settings *config.Settings
	Provider *provider.Config
	Client   llm.Client
	Catalog  *skills.Catalog
	Memory   *memory.File
	Project  string

	closers []io.Closer
}

// Setup validates the settings and initializes the model client, skills,
// memory and project instructions. Any failure is fatal at startup.
func Setup(ctx context.Context, s *config.Settings) (*App, error) {
	providerConfig, err := s.ProviderConfig()
	if err != nil {
		return nil, err
	}

	a := &App{Settings: s, Provider: providerConfig}

	var httpClient *http.Client
	if s.DebugAPI {
		f, err := debug.OpenLogFile(".")
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, f)
		httpClient = debug.NewHTTPClient(f)
		logger.G(ctx).WithField("path", f.Name()).Info("logging API traffic")
	}

	model, err := provider.NewLanguageModel(ctx, providerConfig, httpClient)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Client = llm.NewFantasyClient(model)

	if a.Catalog, err = LoadCatalog(ctx, s); err != nil {
		a.Close()
		return nil, err
	}
	if a.Memory, err = memory.Open(s.MemoryFile); err != nil {
		a.Close()
		return nil, err
	}
	if a.Project, err = ReadProjectInstructions(s.ProjectFile); err != nil {
		a.Close()
		return nil, err
	}

	logger.G(ctx).WithFields(logrus.Fields{
		"provider": providerConfig.Provider,
		"model":    providerConfig.ModelName,
		"skills":   a.Catalog.Len(),
		"memory":   a.Memory != nil,
	}).Debug("app initialized")
	return a, nil
}

// LoadCatalog loads the configured skills directory. The default directory
// may be absent; an explicitly configured one must exist.
func LoadCatalog(ctx context.Context, s *config.Settings) (*skills.Catalog, error) {
	if !s.SkillsDirRequired {
		if _, err := os.Stat(s.SkillsDir); os.IsNotExist(err) {
			logger.G(ctx).WithField("path", s.SkillsDir).Debug("no skills directory")
			return skills.NewCatalog()
		}
	}
	return skills.Load(s.SkillsDir)
}

// ReadProjectInstructions returns the project instructions file content, or
// "" when the file does not exist.
func ReadProjectInstructions(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", errors.Wrapf(err, "failed to read project instructions %s", path)
	}
	return string(data), nil
}

// SessionHooks connects a session to its frontend
type SessionHooks struct {
	// Approve gates side-effecting tools; ignored with yolo.
	Approve          tools.Approver
	OnSkillActivated func(name string)
	// Dir is the tools' working directory, the process directory when empty.
	Dir string
}

// NewSession starts a session with the app's prompt sources and tools.
func (a *App) NewSession(hooks SessionHooks) (*agent.Session, error) {
	approve := hooks.Approve
	if a.Settings.Yolo || approve == nil {
		approve = tools.AllowAll
	}

	return agent.NewSession(a.Client, agent.Options{
		BasePrompt:          a.Settings.SystemPrompt,
		ProjectInstructions: a.Project,
		Catalog:             a.Catalog,
		Memory:              a.Memory,
		Tools:               tools.Default(tools.Options{Dir: hooks.Dir, Approve: approve}),
		OnSkillActivated:    hooks.OnSkillActivated,
	})
}

// Close releases resources opened by Setup.
func (a *App) Close() error {
	var first error
	for _, c := range a.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}
