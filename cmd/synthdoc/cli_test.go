package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/synthdoc"
)

var (
	fixtureSchema  = filepath.Join("..", "..", "testdata", "pda1.schema.json")
	fixtureDataset = filepath.Join("..", "..", "testdata", "pda1.dataset.json")
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "none.yaml")}, args...))
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestGenerateCmd(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "doc.json")

	out, err := execute(t, "generate",
		"--schema", fixtureSchema, "--dataset", fixtureDataset,
		"--output", output, "--seed", "9", "--deflate", filepath.Join(dir, "doc.zlib"))
	require.NoError(t, err)
	assert.Contains(t, out, "seed=9")
	assert.Contains(t, out, output)
	assert.FileExists(t, filepath.Join(dir, "doc.zlib"))

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Contains(t, doc, "personalDetails")

	out, err = execute(t, "validate", fixtureSchema, output)
	require.NoError(t, err)
	assert.Equal(t, "ok\n", out)
}

func TestValidateCmd_Violations(t *testing.T) {
	doc := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(doc, []byte(`{"seqno":"one","nationalities":["XX"]}`), 0o644))

	out, err := execute(t, "validate", fixtureSchema, doc)
	require.Error(t, err)
	assert.Equal(t, 2, exitCode(err))

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.NotEmpty(t, lines)
	assert.True(t, strings.HasPrefix(lines[0], "/seqno\tinvalid_type\t"), lines[0])
	assert.Contains(t, out, "/nationalities/0\tinvalid_enum")
	assert.Contains(t, out, "\trequired\t")
}

func TestResolveCmd(t *testing.T) {
	out, err := execute(t, "resolve", fixtureSchema)
	require.NoError(t, err)
	assert.NotContains(t, out, "$ref")
	assert.NotContains(t, out, "$defs")
	assert.Contains(t, out, `"NL"`)
}

func TestResolveCmd_Cycle(t *testing.T) {
	schema := filepath.Join(t.TempDir(), "cycle.json")
	require.NoError(t, os.WriteFile(schema, []byte(`{"type":"object","properties":{"a":{"$ref":"#/$defs/x"}},"$defs":{"x":{"$ref":"#/$defs/x"}}}`), 0o644))

	_, err := execute(t, "resolve", schema)
	var cyc *synthdoc.RefCycleError
	require.ErrorAs(t, err, &cyc)
	assert.Equal(t, 1, exitCode(err))
}

func TestConfigCmds(t *testing.T) {
	out, err := execute(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "path: output/document.json")

	out, err = execute(t, "config", "schema")
	require.NoError(t, err)
	assert.Contains(t, out, `"title": "synthdoc configuration"`)
}

func TestExitCode(t *testing.T) {
	sve := &synthdoc.SchemaValidationError{Report: synthdoc.Issues{{Path: "/a", Code: synthdoc.CodeRequired}}}
	assert.Equal(t, 2, exitCode(fmt.Errorf("document 0: %w", sve)))
	assert.Equal(t, 1, exitCode(errors.New("boom")))
	assert.Equal(t, 3, exitCode(&exitError{code: 3, err: errors.New("x")}))
}
