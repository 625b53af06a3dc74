package runner

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestWatch_RegeneratesOnChange(t *testing.T) {
	dir := t.TempDir()
	schema := filepath.Join(dir, "schema.json")
	require.NoError(t, os.WriteFile(schema, []byte(`{"type":"object","properties":{"seqno":{"type":"number"}}}`), 0o644))

	cfg := fixtureConfig(t)
	cfg.Schema = schema
	cfg.Dataset = ""

	core, logs := observer.New(zap.InfoLevel)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- New(cfg, zap.New(core)).Watch(ctx) }()

	require.Eventually(t, func() bool {
		return logs.FilterMessage("run complete").Len() == 1
	}, 5*time.Second, 20*time.Millisecond)

	require.NoError(t, os.WriteFile(schema, []byte(`{"type":"object","properties":{"flag":{"type":"boolean"}}}`), 0o644))
	require.Eventually(t, func() bool {
		return logs.FilterMessage("run complete").Len() >= 2
	}, 5*time.Second, 20*time.Millisecond)

	data, err := os.ReadFile(cfg.Output.Path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"flag":true}`, string(data))

	cancel()
	require.NoError(t, <-done)
}
