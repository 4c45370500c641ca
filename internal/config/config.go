// Package config resolves settings from flags, SKILLCLAW_* environment
// variables, an optional config.yaml and an optional .env file.
package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/wallacegibbon/skillclaw/internal/provider"
)

const Version = "0.1.0"

// EnvPrefix prefixes every environment variable read by viper
const EnvPrefix = "SKILLCLAW"

// Defaults for file locations, relative to the working directory
const (
	DefaultSkillsDir   = "skills"
	DefaultMemoryFile  = "MEMORY.md"
	DefaultProjectFile = "AGENTS.md"
	DefaultPulseFile   = "PULSE.md"
)

// Settings holds the resolved configuration
type Settings struct {
	Provider     string
	BaseURL      string
	APIKey       string
	Model        string
	SystemPrompt string

	// SkillsDir is where skills are loaded from. A missing directory is
	// only an error when SkillsDirRequired is set, that is when the user
	// configured it explicitly.
	SkillsDir         string
	SkillsDirRequired bool
	MemoryFile        string
	ProjectFile       string

	PulseMinutes int
	PulseFile    string

	Yolo      bool
	Stream    bool
	LogLevel  string
	LogFormat string
	DebugAPI  bool
}

// New returns a viper instance reading SKILLCLAW_* variables and
// config.yaml from configPaths, or from $HOME/.skillclaw and . when none
// are given.
func New(configPaths ...string) *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(configPaths) == 0 {
		configPaths = []string{"$HOME/.skillclaw", "."}
	}
	for _, p := range configPaths {
		v.AddConfigPath(p)
	}

	v.SetDefault("provider", provider.OpenAI)
	v.SetDefault("memory_file", DefaultMemoryFile)
	v.SetDefault("project_file", DefaultProjectFile)
	v.SetDefault("pulse_minutes", 0)
	v.SetDefault("pulse_file", DefaultPulseFile)
	v.SetDefault("stream", true)
	v.SetDefault("log_level", "warn")
	v.SetDefault("log_format", "fmt")
	return v
}

// LoadDotEnv loads .env style files into the process environment without
// overriding variables that are already set. Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return errors.Wrapf(err, "failed to load %s", p)
		}
	}
	return nil
}

// Load reads the config file, if any, and resolves the settings.
func Load(v *viper.Viper) (*Settings, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "failed to read config file")
		}
	}

	s := &Settings{
		Provider:     v.GetString("provider"),
		BaseURL:      v.GetString("base_url"),
		APIKey:       v.GetString("api_key"),
		Model:        v.GetString("model"),
		SystemPrompt: v.GetString("system_prompt"),
		SkillsDir:    v.GetString("skills_dir"),
		MemoryFile:   v.GetString("memory_file"),
		ProjectFile:  v.GetString("project_file"),
		PulseMinutes: v.GetInt("pulse_minutes"),
		PulseFile:    v.GetString("pulse_file"),
		Yolo:         v.GetBool("yolo"),
		Stream:       v.GetBool("stream"),
		LogLevel:     v.GetString("log_level"),
		LogFormat:    v.GetString("log_format"),
		DebugAPI:     v.GetBool("debug_api"),
	}

	if s.SkillsDir == "" {
		s.SkillsDir = DefaultSkillsDir
	} else {
		s.SkillsDirRequired = true
	}
	if s.APIKey == "" {
		s.APIKey = os.Getenv(provider.EnvKey(s.Provider))
	}
	return s, nil
}

// ProviderConfig validates the provider settings.
func (s *Settings) ProviderConfig() (*provider.Config, error) {
	return provider.NewConfig(s.Provider, s.APIKey, s.BaseURL, s.Model)
}

// PulseInterval is the idle time before a pulse, zero when pulses are off.
func (s *Settings) PulseInterval() time.Duration {
	if s.PulseMinutes <= 0 {
		return 0
	}
	return time.Duration(s.PulseMinutes) * time.Minute
}
