package events

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophmedia/internal/common"
	"github.com/dmitrijs2005/gophmedia/internal/logging"
	"github.com/dmitrijs2005/gophmedia/internal/server/metrics"
	"github.com/segmentio/kafka-go"
	"github.com/sethvargo/go-retry"
)

type kafkaReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaSource consumes routes from Kafka. Each route is one consumer group
// reading the route's upsert and delete topics; the topic name stands in for
// the subject.
type KafkaSource struct {
	newReader func(route Route) kafkaReader
	retry     retrySchedule
	metrics   *metrics.Metrics
	log       logging.Logger
}

func NewKafkaSource(brokers []string, mt *metrics.Metrics, log logging.Logger) *KafkaSource {
	return &KafkaSource{
		newReader: func(route Route) kafkaReader {
			return kafka.NewReader(kafka.ReaderConfig{
				Brokers:        brokers,
				GroupID:        route.Queue,
				GroupTopics:    route.Topics(),
				MinBytes:       1,
				MaxBytes:       10e6,
				CommitInterval: 0,
			})
		},
		retry:   defaultRetry,
		metrics: mt,
		log:     log.With("module", "kafka"),
	}
}

// Consume reads until ctx is done. Offsets are committed after the handler
// returns, so a crash mid-message redelivers it. Fetch errors are retried
// with backoff on the same reader; the schedule restarts after every
// message.
func (s *KafkaSource) Consume(ctx context.Context, route Route, h Handler) error {
	r := s.newReader(route)
	defer func() {
		if err := r.Close(); err != nil {
			s.log.Warn(context.Background(), "close reader failed", "kind", route.Kind, "error", err)
		}
	}()

	for {
		m, err := retry.DoValue[kafka.Message](ctx, s.retry.backoff(), func(ctx context.Context) (kafka.Message, error) {
			m, err := r.FetchMessage(ctx)
			if err != nil && ctx.Err() == nil {
				s.log.Warn(ctx, "fetch failed, retrying", "kind", route.Kind, "topic_prefix", route.TopicPrefix, "error", err)
				s.metrics.RecordSourceFailure(string(route.Kind))
				return m, retry.RetryableError(err)
			}
			return m, err
		})
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("%w: fetch %s: %w", common.ErrTransient, route.TopicPrefix, err)
		}

		h(ctx, m.Topic, m.Value)

		if err := r.CommitMessages(ctx, m); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			s.log.Warn(ctx, "commit failed", "topic", m.Topic, "offset", m.Offset, "error", err)
		}
	}
}

func (s *KafkaSource) Close() error { return nil }
