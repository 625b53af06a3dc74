package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reoring/synthdoc/internal/runner"
	"github.com/reoring/synthdoc/internal/store"
)

// jobFlags are the generation settings that can be overridden per command.
type jobFlags struct {
	schema, dataset, output, deflate string
	seed                             uint64
	count                            int
	pretty, history                  bool
}

var genFlags jobFlags

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate documents",
	Long: `Generates generation.count documents, validates each against the schema
and writes the valid ones to the output path. Batches add a -0001 style
suffix to the file name.

Example:
  synthdoc generate --schema pda1.schema.json --dataset pda1.dataset.json --seed 7`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	addJobFlags(generateCmd, &genFlags)
}

func addJobFlags(cmd *cobra.Command, f *jobFlags) {
	fs := cmd.Flags()
	fs.StringVar(&f.schema, "schema", "", "JSON Schema file (.json, .yaml, .yml)")
	fs.StringVar(&f.dataset, "dataset", "", "reference dataset file")
	fs.StringVarP(&f.output, "output", "o", "", "output JSON file")
	fs.StringVar(&f.deflate, "deflate", "", "also write a zlib-compressed copy here")
	fs.Uint64Var(&f.seed, "seed", 0, "base seed (0 picks a random seed per document)")
	fs.IntVarP(&f.count, "count", "n", 0, "number of documents")
	fs.BoolVar(&f.pretty, "pretty", false, "indent the JSON output")
	fs.BoolVar(&f.history, "history", false, "record runs in the history database")
}

// apply copies explicitly set flags over the loaded configuration.
func (f *jobFlags) apply(cmd *cobra.Command) {
	fs := cmd.Flags()
	if fs.Changed("schema") {
		cfg.Schema = f.schema
	}
	if fs.Changed("dataset") {
		cfg.Dataset = f.dataset
	}
	if fs.Changed("output") {
		cfg.Output.Path = f.output
	}
	if fs.Changed("deflate") {
		cfg.Output.DeflatePath = f.deflate
	}
	if fs.Changed("seed") {
		cfg.Generation.Seed = f.seed
	}
	if fs.Changed("count") {
		cfg.Generation.Count = f.count
	}
	if fs.Changed("pretty") {
		cfg.Output.Pretty = f.pretty
	}
	if fs.Changed("history") {
		cfg.Store.Enabled = f.history
	}
}

// newRunner validates the configuration and opens the history store when
// enabled. The returned close function must be called when done.
func newRunner() (*runner.Runner, func(), error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	var opts []runner.Option
	closeFn := func() {}
	if cfg.Store.Enabled {
		s, err := store.Open(cfg.Store.Path)
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, runner.WithStore(s))
		closeFn = func() { _ = s.Close() }
	}
	return runner.New(cfg, logger, opts...), closeFn, nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	genFlags.apply(cmd)
	r, closeFn, err := newRunner()
	if err != nil {
		return err
	}
	defer closeFn()

	results, err := r.Run(cmd.Context())
	for _, res := range results {
		if res.Path != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\tseed=%d\t%s\n", res.RunID, res.Seed, res.Path)
		}
	}
	return err
}
