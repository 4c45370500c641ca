package skills

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		meta Metadata
	}{
		{
			name: "required only",
			meta: Metadata{Name: "weather", Description: "Get weather"},
		},
		{
			name: "all fields",
			meta: Metadata{
				Name:          "pdf-processing",
				Description:   "Extract text: tables, forms and more",
				License:       "Apache-2.0",
				Compatibility: "Requires python3 and poppler",
				AllowedTools:  "posix_shell read_file",
			},
		},
		{
			name: "values that need quoting",
			meta: Metadata{
				Name:        "yes",
				Description: "# not a comment",
				License:     "true",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Render(tt.meta, "# Body\n")
			require.NoError(t, err)

			def, err := Parse("SKILL.md", tt.meta.Name, doc)
			require.NoError(t, err)

			assert.Equal(t, tt.meta.Name, def.Metadata.Name)
			assert.Equal(t, tt.meta.Description, def.Metadata.Description)
			assert.Equal(t, tt.meta.License, def.Metadata.License)
			assert.Equal(t, tt.meta.Compatibility, def.Metadata.Compatibility)
			assert.Equal(t, tt.meta.AllowedTools, def.Metadata.AllowedTools)
			assert.Equal(t, "# Body\n", def.Body)
		})
	}
}

func TestRenderMetadataBlock(t *testing.T) {
	meta := Metadata{Name: "weather", Description: "Get weather"}
	meta.Extra.Set("author", "Jane Doe")
	meta.Extra.Set("version", "1.0")

	doc, err := Render(meta, "")
	require.NoError(t, err)

	def, err := Parse("SKILL.md", "weather", doc)
	require.NoError(t, err)
	assert.Equal(t, meta.Extra.All(), def.Metadata.Extra.All())
}

func TestRenderRejectsMultilineValues(t *testing.T) {
	_, err := Render(Metadata{Name: "weather", Description: "line one\nline two"}, "")
	assert.Error(t, err)
}
