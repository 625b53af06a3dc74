// Package runner drives generation jobs: it loads the configured schema and
// dataset, builds a batch of documents, validates and writes them, and keeps
// the run history.
package runner

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/reoring/synthdoc"
	"github.com/reoring/synthdoc/internal/config"
	"github.com/reoring/synthdoc/internal/emit"
	"github.com/reoring/synthdoc/internal/store"
)

// Runner executes the job described by a Config.
type Runner struct {
	cfg      *config.Config
	logger   *zap.Logger
	store    *store.Store
	registry *synthdoc.Registry
	newID    func() string
}

// Option configures a Runner.
type Option func(*Runner)

// WithStore records every run in s.
func WithStore(s *store.Store) Option { return func(r *Runner) { r.store = s } }

// WithRegistry sets the array strategies used by the builder.
func WithRegistry(reg *synthdoc.Registry) Option { return func(r *Runner) { r.registry = reg } }

// New returns a Runner for cfg. A nil logger discards output.
func New(cfg *config.Config, logger *zap.Logger, opts ...Option) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Runner{cfg: cfg, logger: logger, registry: synthdoc.DefaultRegistry(), newID: uuid.NewString}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Result describes one generated document.
type Result struct {
	RunID       string
	Index       int
	Seed        uint64
	Path        string
	DeflatePath string
	Bytes       int
	Report      synthdoc.ValidationReport
	Document    *synthdoc.Document
}

// Load reads the configured schema and dataset.
func (r *Runner) Load(ctx context.Context) (*synthdoc.Node, *synthdoc.Dataset, error) {
	opt := synthdoc.LoadOpt{MaxDepth: r.cfg.Generation.MaxDepth, OnDuplicateKey: synthdoc.Error}

	src, err := synthdoc.FileSource(r.cfg.Schema)
	if err != nil {
		return nil, nil, err
	}
	root, err := synthdoc.LoadSchema(ctx, src, opt)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", r.cfg.Schema, err)
	}

	var ds *synthdoc.Dataset
	if r.cfg.Dataset != "" {
		src, err := synthdoc.FileSource(r.cfg.Dataset)
		if err != nil {
			return nil, nil, err
		}
		if ds, err = synthdoc.LoadDataset(ctx, src, opt); err != nil {
			return nil, nil, fmt.Errorf("%s: %w", r.cfg.Dataset, err)
		}
	}
	r.logger.Debug("inputs loaded",
		zap.String("schema", r.cfg.Schema),
		zap.Int("properties", len(root.Properties)),
		zap.Int("dataset_fields", ds.Len()))
	return root, ds, nil
}

// Run generates Generation.Count documents with at most
// Generation.Concurrency in flight. The first failure cancels the remaining
// documents; results of documents that completed are still returned.
func (r *Runner) Run(ctx context.Context) ([]Result, error) {
	root, ds, err := r.Load(ctx)
	if err != nil {
		return nil, err
	}
	if err := r.registry.Preflight(root); err != nil {
		return nil, err
	}

	count := max(r.cfg.Generation.Count, 1)
	results := make([]Result, count)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(r.cfg.Generation.Concurrency, 1))
	for i := range count {
		g.Go(func() error {
			res, err := r.generate(gctx, root, ds, i, count)
			results[i] = res
			return err
		})
	}
	err = g.Wait()

	done := results[:0]
	for _, res := range results {
		if res.RunID != "" {
			done = append(done, res)
		}
	}
	return done, err
}

func (r *Runner) generate(ctx context.Context, root *synthdoc.Node, ds *synthdoc.Dataset, i, count int) (Result, error) {
	res := Result{RunID: r.newID(), Index: i}
	log := r.logger.With(zap.String("run_id", res.RunID), zap.Int("index", i))

	opts := []synthdoc.Option{synthdoc.WithRegistry(r.registry)}
	if seed := r.cfg.Generation.Seed; seed != 0 {
		opts = append(opts, synthdoc.WithSeed(seed+uint64(i)))
	}
	doc, err := synthdoc.NewBuilder(opts...).Build(ctx, root, ds)
	if err != nil {
		log.Error("generation failed", zap.Error(err))
		return Result{}, fmt.Errorf("document %d: %w", i, err)
	}
	res.Document, res.Seed = doc, doc.Seed()
	log = log.With(zap.Uint64("seed", res.Seed))

	report, err := synthdoc.Validate(root, doc.Bytes())
	if err != nil {
		return Result{}, &synthdoc.InternalFault{Op: "validate", Cause: err}
	}
	res.Report = report

	if r.store != nil {
		rec := store.Run{ID: res.RunID, Name: r.cfg.Name, Schema: r.cfg.Schema, Seed: res.Seed,
			Valid: report.OK(), Issues: len(report), Document: doc.Bytes()}
		if err := r.store.Save(ctx, rec); err != nil {
			return Result{}, err
		}
	}
	if !report.OK() {
		log.Warn("document failed validation", zap.Int("issues", len(report)), zap.Error(report))
		return res, fmt.Errorf("document %d: %w", i, &synthdoc.SchemaValidationError{Report: report})
	}

	if err := r.write(ctx, doc, i, count, &res, log); err != nil {
		return Result{}, err
	}
	log.Info("document generated", zap.String("path", res.Path), zap.Int("bytes", res.Bytes))
	return res, nil
}

func (r *Runner) write(ctx context.Context, doc *synthdoc.Document, i, count int, res *Result, log *zap.Logger) error {
	out := r.cfg.Output
	data := doc.Bytes()
	if out.Pretty {
		var err error
		if data, err = doc.Indent("", "  "); err != nil {
			return err
		}
	}
	res.Path, res.Bytes = indexed(out.Path, i, count), len(data)
	if err := (emit.FileSink{Path: res.Path}).Write(ctx, data); err != nil {
		return err
	}
	if out.DeflatePath == "" {
		return nil
	}

	raw := doc.Bytes()
	compressed, _, err := emit.Pipeline{emit.NewDeflate()}.Run(ctx, raw)
	if err != nil {
		return err
	}
	res.DeflatePath = indexed(out.DeflatePath, i, count)
	if err := (emit.FileSink{Path: res.DeflatePath}).Write(ctx, compressed); err != nil {
		return err
	}
	log.Debug("sizes",
		zap.Int("json", len(raw)),
		zap.Int("deflate", len(compressed)),
		zap.Float64("difference_pct", emit.SizeDifference(len(raw), len(compressed))))
	return nil
}

func indexed(path string, i, count int) string {
	if count == 1 {
		return path
	}
	return emit.IndexedPath(path, i+1)
}
