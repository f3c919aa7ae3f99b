// Package sink exports queue contents to external stores when a run ends.
package sink

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/huynhanx03/xk6-queue/pkg/envelope"
)

// Exporter writes a registry snapshot somewhere outside the process.
type Exporter interface {
	Name() string
	Export(ctx context.Context, snapshot map[string][]envelope.Value) error
}

// ExportAll runs every exporter concurrently and returns the first error.
// Exporters that succeed are not rolled back.
func ExportAll(ctx context.Context, logger *zap.Logger, snapshot map[string][]envelope.Value, exporters ...Exporter) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, exp := range exporters {
		g.Go(func() error {
			if err := exp.Export(ctx, snapshot); err != nil {
				logger.Error("snapshot export failed", zap.String("sink", exp.Name()), zap.Error(err))
				return errors.Wrapf(err, "sink %s", exp.Name())
			}
			logger.Info("snapshot exported", zap.String("sink", exp.Name()), zap.Int("queues", len(snapshot)))
			return nil
		})
	}
	return g.Wait()
}
