package runner

import (
	"context"

	"go.uber.org/zap"

	"github.com/reoring/synthdoc/internal/watch"
)

// Watch runs the job once and again whenever the schema or dataset file
// changes, until ctx is done. Failed runs are logged and do not stop the
// loop.
func (r *Runner) Watch(ctx context.Context) error {
	w, err := watch.New([]string{r.cfg.Schema, r.cfg.Dataset}, watch.Options{Logger: r.logger})
	if err != nil {
		return err
	}
	defer w.Close()

	r.runLogged(ctx, nil)
	return w.Run(ctx, r.runLogged)
}

func (r *Runner) runLogged(ctx context.Context, changed []string) {
	if len(changed) > 0 {
		r.logger.Info("inputs changed, regenerating", zap.Strings("files", changed))
	}
	results, err := r.Run(ctx)
	if err != nil {
		r.logger.Error("run failed", zap.Error(err))
		return
	}
	r.logger.Info("run complete", zap.Int("documents", len(results)))
}
