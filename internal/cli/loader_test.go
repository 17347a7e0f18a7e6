package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadRequestJSON(t *testing.T) {
	path := writeTemp(t, "req.json", `{
		"schema": {"version": "1.0", "fields": {"name": "string"}},
		"rules": [],
		"data": {"name": "Ada"}
	}`)

	req, err := LoadRequest(path)
	require.NoError(t, err)
	require.NotNil(t, req.Schema)
	assert.True(t, req.Schema.HasFields)
	assert.Len(t, req.Schema.Fields, 1)
}

func TestLoadRequestCUE(t *testing.T) {
	path := writeTemp(t, "req.cue", `
schema: {
	version: "1.0"
	fields: {
		name: "string"
		age:  "number"
	}
}
rules: [{
	id:        "adult"
	level:     "field"
	field:     "age"
	condition: "value >= 18"
	action:    "validate"
}]
data: {
	name: "Ada"
	age:  25
}
`)

	req, err := LoadRequest(path)
	require.NoError(t, err)
	require.NotNil(t, req.Schema)
	assert.Len(t, req.Schema.Fields, 2)
	assert.Len(t, req.Rules, 1)
	assert.Contains(t, req.Data, "age")
}

func TestLoadRequestCUEWithExpressions(t *testing.T) {
	// References and arithmetic resolve before export.
	path := writeTemp(t, "req.cue", `
let minAge = 16 + 2
schema: {
	version: "1.0"
	fields: age: "number"
}
rules: [{
	id:        "adult"
	level:     "field"
	field:     "age"
	condition: "value >= \(minAge)"
	action:    "validate"
}]
data: age: 25
`)

	req, err := LoadRequest(path)
	require.NoError(t, err)
	require.Len(t, req.Rules, 1)
}

func TestLoadRequestNotFound(t *testing.T) {
	_, err := LoadRequest(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestLoadRequestUnsupportedExtension(t *testing.T) {
	path := writeTemp(t, "req.yaml", "schema: {}")
	_, err := LoadRequest(path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "unsupported file type")
}

func TestLoadRequestNonConcreteCUE(t *testing.T) {
	path := writeTemp(t, "req.cue", `
schema: {
	version: string
	fields: name: "string"
}
rules: []
data: name: "Ada"
`)

	_, err := LoadRequest(path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestLoadRequestMalformedJSON(t *testing.T) {
	path := writeTemp(t, "req.json", `{"schema":`)
	_, err := LoadRequest(path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
