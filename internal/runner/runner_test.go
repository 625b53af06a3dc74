package runner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/reoring/synthdoc"
	"github.com/reoring/synthdoc/internal/config"
	"github.com/reoring/synthdoc/internal/emit"
	"github.com/reoring/synthdoc/internal/store"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func fixtureConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Schema = filepath.Join("..", "..", "testdata", "pda1.schema.json")
	cfg.Dataset = filepath.Join("..", "..", "testdata", "pda1.dataset.json")
	cfg.Output.Path = filepath.Join(dir, "out", "doc.json")
	cfg.Generation.Seed = 42
	return cfg
}

func TestRun_Single(t *testing.T) {
	cfg := fixtureConfig(t)
	results, err := New(cfg, nil).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 1)

	res := results[0]
	assert.Equal(t, cfg.Output.Path, res.Path)
	assert.Equal(t, uint64(42), res.Seed)
	assert.NotEmpty(t, res.RunID)
	assert.True(t, res.Report.OK())

	data, err := os.ReadFile(res.Path)
	require.NoError(t, err)
	assert.Equal(t, res.Document.Bytes(), data)
	assert.Len(t, data, res.Bytes)
}

func TestRun_BatchIndexedAndDeterministic(t *testing.T) {
	cfg := fixtureConfig(t)
	cfg.Generation.Count = 3
	cfg.Generation.Concurrency = 2

	results, err := New(cfg, nil).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 3)

	root, ds, err := New(cfg, nil).Load(context.Background())
	require.NoError(t, err)
	for i, res := range results {
		assert.Equal(t, i, res.Index)
		assert.Equal(t, uint64(42+i), res.Seed)
		assert.Equal(t, emit.IndexedPath(cfg.Output.Path, i+1), res.Path)
		assert.FileExists(t, res.Path)

		again, err := synthdoc.Build(context.Background(), root, ds, synthdoc.WithSeed(res.Seed))
		require.NoError(t, err)
		assert.Equal(t, again.Bytes(), res.Document.Bytes())
	}
	assert.NoFileExists(t, cfg.Output.Path)
}

func TestRun_PrettyAndDeflate(t *testing.T) {
	cfg := fixtureConfig(t)
	cfg.Output.Pretty = true
	cfg.Output.DeflatePath = filepath.Join(filepath.Dir(cfg.Output.Path), "doc.zlib")

	core, logs := observer.New(zap.DebugLevel)
	results, err := New(cfg, zap.New(core)).Run(context.Background())
	require.NoError(t, err)
	res := results[0]

	pretty, err := os.ReadFile(res.Path)
	require.NoError(t, err)
	assert.Contains(t, string(pretty), "\n  \"seqno\"")

	compressed, err := os.ReadFile(res.DeflatePath)
	require.NoError(t, err)
	raw, err := emit.Inflate{}.Apply(context.Background(), compressed)
	require.NoError(t, err)
	assert.Equal(t, res.Document.Bytes(), raw)

	assert.Equal(t, 1, logs.FilterMessage("sizes").Len())
	generated := logs.FilterMessage("document generated").All()
	require.Len(t, generated, 1)
	assert.Equal(t, res.RunID, generated[0].ContextMap()["run_id"])
}

func TestRun_RecordsHistory(t *testing.T) {
	cfg := fixtureConfig(t)
	cfg.Name = "pda1"
	cfg.Generation.Count = 2

	s, err := store.Open(":memory:")
	require.NoError(t, err)
	defer s.Close()

	results, err := New(cfg, nil, WithStore(s)).Run(context.Background())
	require.NoError(t, err)

	runs, err := s.List(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	for _, r := range runs {
		assert.Equal(t, "pda1", r.Name)
		assert.True(t, r.Valid)
	}

	got, err := s.Get(context.Background(), results[1].RunID)
	require.NoError(t, err)
	assert.Equal(t, results[1].Seed, got.Seed)
	assert.Equal(t, results[1].Document.Bytes(), got.Document)
}

func TestRun_UnregisteredArrayFails(t *testing.T) {
	cfg := fixtureConfig(t)
	reg := synthdoc.NewRegistry()

	_, err := New(cfg, nil, WithRegistry(reg)).Run(context.Background())
	var field *synthdoc.UnsupportedFieldError
	require.ErrorAs(t, err, &field)
	assert.NoFileExists(t, cfg.Output.Path)
}

func TestRun_InvalidDocumentNotWritten(t *testing.T) {
	cfg := fixtureConfig(t)
	reg := synthdoc.DefaultRegistry()
	require.NoError(t, reg.Register("nationalities", func(*synthdoc.GenerationContext, string, *synthdoc.Node) ([]any, error) {
		return []any{"XX"}, nil
	}))

	results, err := New(cfg, nil, WithRegistry(reg)).Run(context.Background())
	var sve *synthdoc.SchemaValidationError
	require.ErrorAs(t, err, &sve)
	require.Len(t, results, 1)
	assert.False(t, results[0].Report.OK())
	assert.Equal(t, "/nationalities/0", sve.Report[0].Path)
	assert.NoFileExists(t, cfg.Output.Path)
}

func TestRun_MissingSchema(t *testing.T) {
	cfg := fixtureConfig(t)
	cfg.Schema = filepath.Join(t.TempDir(), "missing.json")

	_, err := New(cfg, nil).Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestRun_Canceled(t *testing.T) {
	cfg := fixtureConfig(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(cfg, nil).Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
