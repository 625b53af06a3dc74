package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var watchFlags jobFlags

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Regenerate whenever the schema or dataset changes",
	Long: `Generates once, then watches the schema and dataset files and
regenerates after each change until interrupted.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		watchFlags.apply(cmd)
		r, closeFn, err := newRunner()
		if err != nil {
			return err
		}
		defer closeFn()

		logger.Info("watching", zap.String("schema", cfg.Schema), zap.String("dataset", cfg.Dataset))
		return r.Watch(cmd.Context())
	},
}

func init() {
	addJobFlags(watchCmd, &watchFlags)
}
