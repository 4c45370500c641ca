package app

import (
	"context"
	"encoding/json"
	"errors"
	"iter"
	"os"
	"path/filepath"
	"testing"

	"charm.land/fantasy"
	"github.com/invopop/jsonschema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wallacegibbon/skillclaw/internal/agent"
	"github.com/wallacegibbon/skillclaw/internal/config"
	"github.com/wallacegibbon/skillclaw/internal/llm"
	"github.com/wallacegibbon/skillclaw/internal/memory"
	"github.com/wallacegibbon/skillclaw/internal/provider"
	"github.com/wallacegibbon/skillclaw/internal/skills"
)

func writeSkill(t *testing.T, root, name string) {
	t.Helper()
	dir := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	content := "---\nname: " + name + "\ndescription: Does " + name + "\n---\nBody\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, skills.SkillFileName), []byte(content), 0o644))
}

func TestLoadCatalog(t *testing.T) {
	ctx := context.Background()

	t.Run("default directory may be missing", func(t *testing.T) {
		catalog, err := LoadCatalog(ctx, &config.Settings{SkillsDir: filepath.Join(t.TempDir(), "skills")})
		require.NoError(t, err)
		assert.True(t, catalog.IsEmpty())
	})

	t.Run("explicit directory must exist", func(t *testing.T) {
		_, err := LoadCatalog(ctx, &config.Settings{SkillsDir: filepath.Join(t.TempDir(), "skills"), SkillsDirRequired: true})
		var cfgErr *skills.ConfigurationError
		assert.True(t, errors.As(err, &cfgErr))
	})

	t.Run("loads skills", func(t *testing.T) {
		root := t.TempDir()
		writeSkill(t, root, "weather")
		catalog, err := LoadCatalog(ctx, &config.Settings{SkillsDir: root})
		require.NoError(t, err)
		assert.Equal(t, 1, catalog.Len())
	})
}

func TestReadProjectInstructions(t *testing.T) {
	dir := t.TempDir()

	content, err := ReadProjectInstructions(filepath.Join(dir, "AGENTS.md"))
	require.NoError(t, err)
	assert.Empty(t, content)

	path := filepath.Join(dir, "AGENTS.md")
	require.NoError(t, os.WriteFile(path, []byte("Use tabs."), 0o644))
	content, err = ReadProjectInstructions(path)
	require.NoError(t, err)
	assert.Equal(t, "Use tabs.", content)

	content, err = ReadProjectInstructions("")
	require.NoError(t, err)
	assert.Empty(t, content)
}

func TestSetupRequiresCredentials(t *testing.T) {
	_, err := Setup(context.Background(), &config.Settings{Provider: provider.OpenAI})
	var cfgErr *provider.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "api_key", cfgErr.Key)
}

type nopClient struct{}

func (nopClient) Complete(context.Context, []llm.Message, []fantasy.AgentTool) (string, error) {
	return "", nil
}

func (nopClient) CompleteStructured(context.Context, []llm.Message, *jsonschema.Schema) (json.RawMessage, error) {
	return json.RawMessage(`null`), nil
}

func (nopClient) CompleteStreaming(context.Context, []llm.Message, []fantasy.AgentTool) iter.Seq2[string, error] {
	return func(func(string, error) bool) {}
}

func TestNewSession(t *testing.T) {
	root := t.TempDir()
	writeSkill(t, root, "weather")
	catalog, err := LoadCatalog(context.Background(), &config.Settings{SkillsDir: root})
	require.NoError(t, err)

	memoryPath := filepath.Join(t.TempDir(), memory.DefaultFileName)
	require.NoError(t, os.WriteFile(memoryPath, []byte("User's name is Alex\n"), 0o644))
	memoryFile, err := memory.Open(memoryPath)
	require.NoError(t, err)

	a := &App{
		Settings: &config.Settings{SystemPrompt: "Be brief.", Yolo: true},
		Client:   nopClient{},
		Catalog:  catalog,
		Memory:   memoryFile,
		Project:  "Use tabs.",
	}
	s, err := a.NewSession(SessionHooks{})
	require.NoError(t, err)

	expected := agent.ComposeSystemPrompt("Be brief.", "Use tabs.", catalog.Summarize(), "User's name is Alex\n")
	assert.Equal(t, expected, s.SystemPrompt())
	assert.NoError(t, a.Close())
}
