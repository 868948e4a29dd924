package agent

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPersonas(t *testing.T) {
	personas := DefaultPersonas()
	require.Len(t, personas, 4)

	names := make([]string, len(personas))
	for i, p := range personas {
		names[i] = p.Name
		assert.NotEmpty(t, p.SystemPrompt, "persona %s has no system prompt", p.Name)
		assert.NotEmpty(t, p.Role)
	}
	assert.Equal(t, []string{"SecurityExpert", "PerformanceEngineer", "ArchitectureCritic", "PragmaticDev"}, names)
}

func TestPersonaByName(t *testing.T) {
	p, ok := PersonaByName("PragmaticDev")
	require.True(t, ok)
	assert.Equal(t, "PragmaticDev", p.Name)

	_, ok = PersonaByName("Nobody")
	assert.False(t, ok)
}

func TestLoadPersonas(t *testing.T) {
	path := filepath.Join(t.TempDir(), "personas.yaml")
	doc := `- name: Minimalist
  role: Reviewer
  system_prompt: You review code tersely.
  priorities:
    - brevity
- name: Maximalist
  system_prompt: You review code exhaustively.
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	personas, err := LoadPersonas(path)
	require.NoError(t, err)
	require.Len(t, personas, 2)
	assert.Equal(t, "Minimalist", personas[0].Name)
	assert.Equal(t, []string{"brevity"}, personas[0].Priorities)
}

func TestLoadPersonas_MissingSystemPrompt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "personas.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- name: Silent\n"), 0o600))

	_, err := LoadPersonas(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "system_prompt")
}

func TestLoadPersonas_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "personas.yaml")
	require.NoError(t, os.WriteFile(path, []byte("[]\n"), 0o600))

	_, err := LoadPersonas(path)
	assert.Error(t, err)
}
