// Package changefeed broadcasts saved storage keys to other sessions over NATS.
package changefeed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/example/arret/internal/ports/secondary"
)

// ErrDisabled is returned by Disabled.Subscribe.
var ErrDisabled = errors.New("change feed disabled: set nats.url in the configuration")

// Feed implements secondary.ChangePublisher and secondary.ChangeSubscriber over NATS.
type Feed struct {
	conn    *nats.Conn
	subject string
	logger  *zap.Logger
}

// Connect dials the NATS server at url.
func Connect(url, subject string, logger *zap.Logger) (*Feed, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("changefeed")
	conn, err := nats.Connect(url,
		nats.Name("arret"),
		nats.Timeout(2*time.Second),
		nats.MaxReconnects(5),
		nats.ReconnectWait(time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("NATS disconnected", zap.Error(err))
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("NATS reconnected", zap.String("url", c.ConnectedUrl()))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	return &Feed{conn: conn, subject: subject, logger: logger}, nil
}

// PublishChange announces a saved key.
func (f *Feed) PublishChange(ctx context.Context, event secondary.ChangeEvent) error {
	data, err := encodeEvent(event)
	if err != nil {
		return err
	}
	if err := f.conn.Publish(f.subject, data); err != nil {
		return fmt.Errorf("publish change of %s: %w", event.Key, err)
	}
	return nil
}

// Subscribe calls handle for every change until ctx is done.
// Malformed messages are logged and skipped.
func (f *Feed) Subscribe(ctx context.Context, handle func(secondary.ChangeEvent)) error {
	msgs := make(chan *nats.Msg, 64)
	sub, err := f.conn.ChanSubscribe(f.subject, msgs)
	if err != nil {
		return fmt.Errorf("subscribe to %s: %w", f.subject, err)
	}
	defer func() {
		if err := sub.Unsubscribe(); err != nil {
			f.logger.Debug("unsubscribe failed", zap.Error(err))
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg := <-msgs:
			event, err := decodeEvent(msg.Data)
			if err != nil {
				f.logger.Warn("ignoring malformed change event", zap.Error(err))
				continue
			}
			handle(event)
		}
	}
}

// Close drains and closes the connection.
func (f *Feed) Close() error {
	return f.conn.Drain()
}

func encodeEvent(event secondary.ChangeEvent) ([]byte, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("encode change event: %w", err)
	}
	return data, nil
}

func decodeEvent(data []byte) (secondary.ChangeEvent, error) {
	var event secondary.ChangeEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return event, fmt.Errorf("decode change event: %w", err)
	}
	if event.Key == "" {
		return event, errors.New("decode change event: missing key")
	}
	return event, nil
}

// Disabled is the feed used when no NATS server is configured.
type Disabled struct{}

// PublishChange does nothing.
func (Disabled) PublishChange(ctx context.Context, event secondary.ChangeEvent) error {
	return nil
}

// Subscribe returns ErrDisabled.
func (Disabled) Subscribe(ctx context.Context, handle func(secondary.ChangeEvent)) error {
	return ErrDisabled
}

// Close does nothing.
func (Disabled) Close() error { return nil }

// Ensure Feed and Disabled implement the interfaces
var (
	_ secondary.ChangePublisher  = (*Feed)(nil)
	_ secondary.ChangeSubscriber = (*Feed)(nil)
	_ secondary.ChangePublisher  = Disabled{}
	_ secondary.ChangeSubscriber = Disabled{}
)
