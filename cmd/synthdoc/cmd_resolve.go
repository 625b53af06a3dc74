package main

import (
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/reoring/synthdoc"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [schema]",
	Short: "Print the schema with every $ref inlined",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfg.Schema
		if len(args) == 1 {
			path = args[0]
		}
		if path == "" {
			return fmt.Errorf("no schema given")
		}
		root, err := loadSchema(cmd, path)
		if err != nil {
			return err
		}
		out, err := json.MarshalIndent(root, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

// loadSchema reads and resolves the schema at path with the configured
// decoding limits.
func loadSchema(cmd *cobra.Command, path string) (*synthdoc.Node, error) {
	src, err := synthdoc.FileSource(path)
	if err != nil {
		return nil, err
	}
	root, err := synthdoc.LoadSchema(cmd.Context(), src, synthdoc.LoadOpt{
		MaxDepth:       cfg.Generation.MaxDepth,
		OnDuplicateKey: synthdoc.Error,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	logger.Debug("schema loaded", zap.String("schema", path), zap.Int("properties", len(root.Properties)))
	return root, nil
}

func zapIssues(iss synthdoc.Issues) []zap.Field {
	return []zap.Field{zap.Int("issues", len(iss)), zap.Error(iss)}
}
