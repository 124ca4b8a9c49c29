package notification

import (
	"context"
	"time"

	"notifier/internal/broker"
	"notifier/internal/constants"
	"notifier/internal/logger"
	"notifier/pkg/circuitbreaker"
	"notifier/pkg/errors"
	"notifier/pkg/logging"
	"notifier/pkg/metrics"
	"notifier/pkg/models"
	"notifier/pkg/retry"
)

// Publisher orchestrates build and send for both trigger paths. It is
// the only component that advances the iteration counter, and only on
// a confirmed send, so the counter reflects deliveries rather than
// attempts.
type Publisher struct {
	builder    *Builder
	producer   broker.Producer
	counter    *Counter
	queueState *QueueState
	logger     logger.Logger
	policy     retry.Policy
	breaker    *circuitbreaker.Wrapper
}

type PublisherOption func(*Publisher)

// WithCircuitBreaker guards sends with a breaker so a flapping broker
// is not hammered by both trigger paths at once.
func WithCircuitBreaker(breaker *circuitbreaker.Wrapper) PublisherOption {
	return func(p *Publisher) {
		p.breaker = breaker
	}
}

func WithRetryPolicy(policy retry.Policy) PublisherOption {
	return func(p *Publisher) {
		p.policy = policy
	}
}

func NewPublisher(builder *Builder, producer broker.Producer, counter *Counter, queueState *QueueState, log logger.Logger, opts ...PublisherOption) *Publisher {
	p := &Publisher{
		builder:    builder,
		producer:   producer,
		counter:    counter,
		queueState: queueState,
		logger:     log,
		policy:     retry.SingleRetryPolicy(constants.PublishRetryDelay),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Publish builds an envelope and sends it with at most one retry for
// transient connection failures. Configuration and serialization
// errors fail immediately with no delay.
func (p *Publisher) Publish(ctx context.Context, source string, extra map[string]interface{}) (string, error) {
	envelope := p.builder.Build(source, extra)

	ctx = logging.WithMessageID(ctx, envelope.ID)
	ctx = logging.WithSource(ctx, source)

	start := time.Now()
	err := retry.RetryNotify(ctx, p.policy,
		func() error {
			return p.send(ctx, envelope)
		},
		func(retryErr error, nextDelay time.Duration) {
			metrics.RetryAttemptsTotal.WithLabelValues(source).Inc()
			p.logger.WarnwCtx(ctx, "Retrying publish",
				"error", retryErr,
				"next_delay", nextDelay,
			)
		},
	)
	metrics.PublishDuration.WithLabelValues(source).Observe(float64(time.Since(start).Milliseconds()))

	if err != nil {
		if errors.IsConnection(err) {
			p.queueState.SetUnhealthy(err)
		}
		metrics.PublishTotal.WithLabelValues(source, "error").Inc()
		p.logger.ErrorwCtx(ctx, "Failed to publish message",
			"error", err,
			"error_code", errors.Code(err),
		)
		return "", err
	}

	iteration := p.counter.Inc()
	p.queueState.SetHealthy()
	metrics.PublishTotal.WithLabelValues(source, "success").Inc()
	p.logger.InfowCtx(ctx, "Message published",
		"iteration", iteration,
	)

	return envelope.ID, nil
}

func (p *Publisher) send(ctx context.Context, envelope *models.Envelope) error {
	if p.breaker == nil {
		return p.producer.Publish(ctx, envelope)
	}

	_, err := p.breaker.ExecuteWithContext(ctx, func() (interface{}, error) {
		return nil, p.producer.Publish(ctx, envelope)
	})
	if err != nil && errors.Code(err) == errors.ErrInternal.Code {
		// Breaker-originated errors (open state, too many requests) are
		// transient from the caller's point of view.
		return errors.Wrap(err, errors.ErrConnection)
	}
	return err
}
