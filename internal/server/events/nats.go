package events

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophmedia/internal/common"
	"github.com/dmitrijs2005/gophmedia/internal/logging"
	"github.com/nats-io/nats.go"
)

type drainer interface {
	Drain() error
}

// NATSSource consumes routes through NATS queue subscriptions.
type NATSSource struct {
	subscribe  func(subject, queue string, cb nats.MsgHandler) (drainer, error)
	close      func() error
	msgTimeout time.Duration
	log        logging.Logger
}

// DialNATS connects to url. The connection reconnects forever; disconnects
// are logged.
func DialNATS(url string, log logging.Logger) (*NATSSource, error) {
	log = log.With("module", "nats")
	conn, err := nats.Connect(url,
		nats.Name("gophmedia"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DrainTimeout(10*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn(context.Background(), "nats disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.Info(context.Background(), "nats reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: nats connect: %w", common.ErrTransient, err)
	}

	return &NATSSource{
		subscribe: func(subject, queue string, cb nats.MsgHandler) (drainer, error) {
			return conn.QueueSubscribe(subject, queue, cb)
		},
		close:      conn.Drain,
		msgTimeout: 30 * time.Second,
		log:        log,
	}, nil
}

// Consume subscribes route.Subject in route.Queue and blocks until ctx is
// done, then drains the subscription. Each message gets its own timeout.
func (s *NATSSource) Consume(ctx context.Context, route Route, h Handler) error {
	sub, err := s.subscribe(route.Subject, route.Queue, func(m *nats.Msg) {
		msgCtx, cancel := context.WithTimeout(ctx, s.msgTimeout)
		defer cancel()
		h(msgCtx, m.Subject, m.Data)
	})
	if err != nil {
		return fmt.Errorf("%w: queue subscribe %s: %w", common.ErrTransient, route.Subject, err)
	}

	<-ctx.Done()
	if err := sub.Drain(); err != nil {
		s.log.Warn(context.Background(), "drain subscription failed", "subject", route.Subject, "error", err)
	}
	return nil
}

func (s *NATSSource) Close() error {
	return s.close()
}
