package sink

import (
	"context"
	"sort"
	"strconv"

	"github.com/IBM/sarama"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/huynhanx03/xk6-queue/pkg/envelope"
	"github.com/huynhanx03/xk6-queue/pkg/settings"
	"github.com/huynhanx03/xk6-queue/pkg/utils"
)

// HeaderQueueIndex carries an item's position within its queue.
const HeaderQueueIndex = "x-queue-index"

// Kafka publishes one message per item: key is the queue name, value is the
// JSON-encoded item. Items of one queue share a key, so they land on one
// partition in queue order.
type Kafka struct {
	producer sarama.SyncProducer
	topic    string
	codec    envelope.Codec
	logger   *zap.Logger
}

var _ Exporter = (*Kafka)(nil)

// NewKafka returns a Kafka exporter publishing to topic.
func NewKafka(producer sarama.SyncProducer, topic string, logger *zap.Logger) *Kafka {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Kafka{
		producer: producer,
		topic:    topic,
		codec:    envelope.JSONCodec{},
		logger:   logger,
	}
}

func (k *Kafka) Name() string { return "kafka" }

func (k *Kafka) Export(ctx context.Context, snapshot map[string][]envelope.Value) error {
	names := make([]string, 0, len(snapshot))
	for name := range snapshot {
		names = append(names, name)
	}
	sort.Strings(names)

	var msgs []*sarama.ProducerMessage
	for _, name := range names {
		for i, v := range snapshot[name] {
			b, err := k.codec.Marshal(v)
			if err != nil {
				return errors.Wrapf(err, "encode %s[%d]", name, i)
			}
			msgs = append(msgs, &sarama.ProducerMessage{
				Topic: k.topic,
				Key:   sarama.StringEncoder(name),
				Value: sarama.ByteEncoder(b),
				Headers: []sarama.RecordHeader{
					{Key: []byte(HeaderQueueIndex), Value: []byte(strconv.Itoa(i))},
				},
			})
		}
	}
	if len(msgs) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := k.producer.SendMessages(msgs); err != nil {
		return errors.Wrapf(err, "publish %d messages to %s", len(msgs), k.topic)
	}
	k.logger.Debug("snapshot published", zap.String("topic", k.topic), zap.Int("messages", len(msgs)))
	return nil
}

// NewProducerConfig builds a sarama config for a synchronous, fully acked producer.
func NewProducerConfig(cfg settings.Kafka) *sarama.Config {
	sc := sarama.NewConfig()
	sc.ClientID = "xk6-queue"
	sc.Producer.Return.Successes = true
	sc.Producer.Return.Errors = true
	sc.Producer.RequiredAcks = sarama.WaitForAll
	sc.Producer.Partitioner = sarama.NewHashPartitioner

	if cfg.MaxRetries > 0 {
		sc.Producer.Retry.Max = cfg.MaxRetries
	}
	if cfg.RetryBackoff > 0 {
		sc.Producer.Retry.Backoff = utils.ToDurationMs(cfg.RetryBackoff)
	}
	if cfg.Timeout > 0 {
		sc.Producer.Timeout = utils.ToDuration(cfg.Timeout)
		sc.Net.DialTimeout = utils.ToDuration(cfg.Timeout)
	}
	if cfg.MaxMessageBytes > 0 {
		sc.Producer.MaxMessageBytes = cfg.MaxMessageBytes
	}
	return sc
}

// NewProducer connects a sync producer to the configured brokers.
func NewProducer(cfg settings.Kafka) (sarama.SyncProducer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka: no brokers configured")
	}
	producer, err := sarama.NewSyncProducer(cfg.Brokers, NewProducerConfig(cfg))
	if err != nil {
		return nil, errors.Wrap(err, "kafka: create producer")
	}
	return producer, nil
}
