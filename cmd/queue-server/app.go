package main

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/huynhanx03/xk6-queue/pkg/adapter"
	"github.com/huynhanx03/xk6-queue/pkg/database/redis"
	"github.com/huynhanx03/xk6-queue/pkg/envelope"
	"github.com/huynhanx03/xk6-queue/pkg/httpapi"
	"github.com/huynhanx03/xk6-queue/pkg/logger"
	"github.com/huynhanx03/xk6-queue/pkg/metrics"
	"github.com/huynhanx03/xk6-queue/pkg/queue"
	"github.com/huynhanx03/xk6-queue/pkg/settings"
	"github.com/huynhanx03/xk6-queue/pkg/sink"
	"github.com/huynhanx03/xk6-queue/pkg/timer"
	"github.com/huynhanx03/xk6-queue/pkg/utils"
)

const (
	clockStep       = time.Millisecond
	shutdownTimeout = 10 * time.Second
)

type app struct {
	cfg      *settings.Config
	logger   *zap.Logger
	clock    *timer.CachedTimer
	registry *queue.Registry
	server   *http.Server

	// listen is swapped in tests to bind an ephemeral port.
	listen func(addr string) (net.Listener, error)
}

func newApp(configPath string) (*app, error) {
	cfg, err := settings.Load(configPath)
	if err != nil {
		return nil, err
	}
	return newAppWithConfig(cfg), nil
}

func newAppWithConfig(cfg *settings.Config) *app {
	log := logger.New(&cfg.Logger)
	clock := timer.NewCachedTimer(clockStep)

	opts := append(queue.FromSettings(cfg.Queue, log), queue.WithTimer(clock))
	registry := queue.NewRegistry(opts...)

	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	api := httpapi.New(adapter.New(registry, log), metrics.NewRegistry(registry), log)

	return &app{
		cfg:      cfg,
		logger:   log,
		clock:    clock,
		registry: registry,
		server: &http.Server{
			Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			Handler:           api.Handler(),
			ReadHeaderTimeout: 5 * time.Second,
		},
		listen: func(addr string) (net.Listener, error) { return net.Listen("tcp", addr) },
	}
}

// run serves until ctx ends, then drains the server and exports every queue
// to the configured sinks.
func (a *app) run(ctx context.Context) error {
	defer a.clock.Stop()
	defer func() { _ = a.logger.Sync() }()

	ln, err := a.listen(a.server.Addr)
	if err != nil {
		return errors.Wrapf(err, "listen %s", a.server.Addr)
	}
	a.logger.Info("queue server started", zap.String("addr", ln.Addr().String()))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := a.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "serve")
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return a.server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	a.logger.Info("queue server stopped")
	return a.export()
}

func (a *app) export() error {
	exporters, closers, err := buildExporters(a.cfg, a.logger)
	defer func() {
		for _, c := range closers {
			if cerr := c.Close(); cerr != nil {
				a.logger.Warn("sink close failed", zap.Error(cerr))
			}
		}
	}()
	if err != nil {
		return err
	}
	if len(exporters) == 0 {
		return nil
	}

	ctx := context.Background()
	if a.cfg.Export.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, utils.ToDuration(a.cfg.Export.Timeout))
		defer cancel()
	}
	return sink.ExportAll(ctx, a.logger, a.registry.Snapshot(), exporters...)
}

// buildExporters connects every sink named in cfg.Export.Sinks. The closers
// are returned even on error so partially opened connections get released.
func buildExporters(cfg *settings.Config, log *zap.Logger) ([]sink.Exporter, []io.Closer, error) {
	var (
		exporters []sink.Exporter
		closers   []io.Closer
	)
	for _, name := range cfg.Export.Sinks {
		switch name {
		case "redis":
			engine, err := redis.NewConnection(cfg.Redis)
			if err != nil {
				return exporters, closers, err
			}
			closers = append(closers, engine)
			exporters = append(exporters, sink.NewRedis(engine, cfg.Export.KeyPrefix, envelope.GetCodec(cfg.Export.Codec), log))
		case "kafka":
			producer, err := sink.NewProducer(cfg.Kafka)
			if err != nil {
				return exporters, closers, err
			}
			closers = append(closers, producer)
			exporters = append(exporters, sink.NewKafka(producer, cfg.Kafka.Topic, log))
		default:
			return exporters, closers, errors.Errorf("unknown sink %q", name)
		}
	}
	return exporters, closers, nil
}
