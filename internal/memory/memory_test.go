package memory

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenMissingFile(t *testing.T) {
	f, err := Open(filepath.Join(t.TempDir(), DefaultFileName))
	require.NoError(t, err)
	assert.Nil(t, f)
}

func TestOpenReadsContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte("User prefers metric units\n"), 0o644))

	f, err := Open(path)
	require.NoError(t, err)
	require.NotNil(t, f)
	assert.Equal(t, path, f.Path())
	assert.Equal(t, "User prefers metric units\n", f.Content())
}

func TestAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte("Existing fact\n"), 0o644))

	f, err := Open(path)
	require.NoError(t, err)

	n, err := f.Append([]string{"User's name is Alex", "  ", "Lives in\nBerlin"})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Existing fact\nUser's name is Alex\nLives in Berlin\n", string(data))
}

func TestAppendKeepsInnerSpacing(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	f, err := Create(path)
	require.NoError(t, err)

	n, err := f.Append([]string{"  Prefers  tabs\tover spaces ", "Uses\r\nWindows"})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Prefers  tabs\tover spaces\nUses Windows\n", string(data))
}

func TestAppendAfterUnterminatedLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte("Existing fact"), 0o644))

	f, err := Open(path)
	require.NoError(t, err)
	_, err = f.Append([]string{"New fact"})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Existing fact\nNew fact\n", string(data))
}

func TestAppendNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	f, err := Create(path)
	require.NoError(t, err)

	n, err := f.Append(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestCreateKeepsExistingContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", DefaultFileName)
	f, err := Create(path)
	require.NoError(t, err)
	_, err = f.Append([]string{"fact"})
	require.NoError(t, err)

	f, err = Create(path)
	require.NoError(t, err)
	assert.Equal(t, "fact\n", f.Content())
}
