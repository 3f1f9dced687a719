package event

import (
	"context"

	"go.uber.org/zap"
)

// Publisher delivers envelopes to subscribers
type Publisher interface {
	Publish(ctx context.Context, routingKey string, env Envelope) error
	Close() error
}

// LogPublisher only logs events. It is used when no broker is configured.
type LogPublisher struct {
	logger *zap.Logger
}

// NewLogPublisher creates a publisher that logs at debug level
func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(_ context.Context, routingKey string, env Envelope) error {
	p.logger.Debug("Event published",
		zap.String("routing_key", routingKey),
		zap.String("event_id", env.ID.String()),
		zap.String("event_type", env.Type),
		zap.ByteString("payload", env.Payload),
	)
	return nil
}

func (p *LogPublisher) Close() error { return nil }

var _ Publisher = (*LogPublisher)(nil)
