package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestCheckValidDocument(t *testing.T) {
	path := writeTemp(t, "req.json", `{
		"schema": {"version": "1.0", "fields": {"name": "string"}},
		"rules": [],
		"data": {"name": "Ada"}
	}`)

	out, _, err := runCLI(t, "check", path)
	require.NoError(t, err)
	assert.Equal(t, "valid\n", out)
}

func TestCheckInvalidDocument(t *testing.T) {
	path := writeTemp(t, "req.json", `{
		"schema": {"version": "1.0", "fields": {"age": "number"}},
		"rules": [{"id": "adult", "level": "field", "field": "age",
		           "condition": "value >= 18", "action": "validate"}],
		"data": {"age": 16}
	}`)

	out, _, err := runCLI(t, "check", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "invalid: 1 error(s)")
	assert.Contains(t, out, "RULE_FAILED")
}

func TestCheckJSONFormat(t *testing.T) {
	path := writeTemp(t, "req.json", `{
		"schema": {"version": "1.0", "fields": {"name": "string"}},
		"rules": [],
		"data": {"name": "Ada"}
	}`)

	out, _, err := runCLI(t, "--format", "json", "check", path)
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)

	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, data["valid"])
}

func TestCheckJSONFormatInvalidDocument(t *testing.T) {
	path := writeTemp(t, "req.json", `{
		"schema": {"version": "1.0", "fields": {"age": "number"}},
		"rules": [{"id": "adult", "level": "field", "field": "age",
		           "condition": "value >= 18", "action": "validate"}],
		"data": {"age": 16}
	}`)

	out, _, err := runCLI(t, "--format", "json", "check", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)

	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, false, data["valid"])
}

func TestCheckRejectedDocument(t *testing.T) {
	path := writeTemp(t, "req.json", `{
		"schema": {"fields": {"name": "string"}},
		"rules": [],
		"data": {"name": "Ada"}
	}`)

	out, _, err := runCLI(t, "check", path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "invalid schema")
}

func TestCheckMissingFile(t *testing.T) {
	_, _, err := runCLI(t, "check", "/nonexistent/req.json")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRootRejectsInvalidFormat(t *testing.T) {
	_, _, err := runCLI(t, "--format", "xml", "check", "whatever.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}
