package sink

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/huynhanx03/xk6-queue/pkg/envelope"
)

const defaultRedisConcurrency = 8

// ListWriter replaces a Redis list in one transaction.
type ListWriter interface {
	ReplaceList(ctx context.Context, key string, values [][]byte) error
}

// Redis stores each queue as a list under prefix+name, oldest item first.
type Redis struct {
	writer      ListWriter
	prefix      string
	codec       envelope.Codec
	logger      *zap.Logger
	concurrency int
}

var _ Exporter = (*Redis)(nil)

// NewRedis returns a Redis exporter. A nil codec defaults to MessagePack.
func NewRedis(writer ListWriter, prefix string, codec envelope.Codec, logger *zap.Logger) *Redis {
	if codec == nil {
		codec = envelope.MsgpackCodec{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Redis{
		writer:      writer,
		prefix:      prefix,
		codec:       codec,
		logger:      logger,
		concurrency: defaultRedisConcurrency,
	}
}

func (r *Redis) Name() string { return "redis" }

// Key returns the list key used for a queue.
func (r *Redis) Key(queue string) string { return r.prefix + queue }

func (r *Redis) Export(ctx context.Context, snapshot map[string][]envelope.Value) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for name, items := range snapshot {
		g.Go(func() error {
			values := make([][]byte, len(items))
			for i, v := range items {
				b, err := r.codec.Marshal(v)
				if err != nil {
					return errors.Wrapf(err, "encode %s[%d]", name, i)
				}
				values[i] = b
			}
			if err := r.writer.ReplaceList(ctx, r.Key(name), values); err != nil {
				return errors.Wrapf(err, "write %s", r.Key(name))
			}
			r.logger.Debug("queue exported", zap.String("queue", name), zap.Int("items", len(values)))
			return nil
		})
	}
	return g.Wait()
}
