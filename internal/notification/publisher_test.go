package notification

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notifier/internal/config"
	"notifier/internal/constants"
	"notifier/internal/logger"
	"notifier/pkg/errors"
	"notifier/pkg/retry"
)

func configuredBrokerConfig() config.BrokerConfig {
	return config.BrokerConfig{
		Type:             "kafka",
		ConnectionString: "localhost:9092",
		Queue:            constants.DefaultQueueName,
	}
}

func newTestPublisher(producer *fakeProducer, opts ...PublisherOption) (*Publisher, *Counter, *QueueState) {
	counter := NewCounter()
	queueState := NewQueueState(configuredBrokerConfig())
	builder := NewBuilder(counter, "test", "every 10 seconds")

	opts = append([]PublisherOption{
		WithRetryPolicy(retry.SingleRetryPolicy(10 * time.Millisecond)),
	}, opts...)

	publisher := NewPublisher(builder, producer, counter, queueState, logger.NopLogger(), opts...)
	return publisher, counter, queueState
}

func TestPublishSuccessIncrementsCounter(t *testing.T) {
	producer := &fakeProducer{}
	publisher, counter, queueState := newTestPublisher(producer)

	id, err := publisher.Publish(context.Background(), constants.SourceManualTrigger, nil)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	assert.Equal(t, uint64(1), counter.Value())
	assert.Equal(t, 1, producer.publishCalls())
	assert.Equal(t, ProbeHealthy, queueState.Snapshot().Status)
}

func TestPublishConnectionErrorRetriedOnce(t *testing.T) {
	producer := &fakeProducer{
		publishErrs: []error{
			errors.ErrConnection,
			errors.ErrConnection,
		},
	}
	publisher, counter, queueState := newTestPublisher(producer)

	id, err := publisher.Publish(context.Background(), constants.SourceManualTrigger, nil)
	require.Error(t, err)
	assert.Empty(t, id)
	assert.Equal(t, errors.ErrConnection.Code, errors.Code(err))

	assert.Equal(t, 2, producer.publishCalls(), "one initial attempt plus one retry")
	assert.Equal(t, uint64(0), counter.Value())
	assert.Equal(t, ProbeUnhealthy, queueState.Snapshot().Status)
}

func TestPublishTransientErrorThenSuccess(t *testing.T) {
	producer := &fakeProducer{
		publishErrs: []error{errors.ErrConnection},
	}
	publisher, counter, queueState := newTestPublisher(producer)

	id, err := publisher.Publish(context.Background(), constants.SourceTimerTrigger, nil)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	assert.Equal(t, 2, producer.publishCalls())
	assert.Equal(t, uint64(1), counter.Value())
	assert.Equal(t, ProbeHealthy, queueState.Snapshot().Status)
}

func TestPublishConfigurationErrorFailsImmediately(t *testing.T) {
	producer := &fakeProducer{
		publishErrs: []error{errors.ErrConfiguration},
	}
	// Default policy carries the production retry delay; a fatal error
	// must return without waiting it out.
	publisher, counter, _ := newTestPublisher(producer,
		WithRetryPolicy(retry.SingleRetryPolicy(constants.PublishRetryDelay)))

	start := time.Now()
	id, err := publisher.Publish(context.Background(), constants.SourceManualTrigger, nil)
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.Empty(t, id)
	assert.Equal(t, errors.ErrConfiguration.Code, errors.Code(err))
	assert.Equal(t, 1, producer.publishCalls(), "fatal errors are not retried")
	assert.Equal(t, uint64(0), counter.Value())
	assert.Less(t, elapsed, constants.PublishRetryDelay/2)
}

func TestPublishSerializationErrorNotRetried(t *testing.T) {
	producer := &fakeProducer{
		publishErrs: []error{errors.ErrSerialization},
	}
	publisher, counter, queueState := newTestPublisher(producer)

	_, err := publisher.Publish(context.Background(), constants.SourceManualTrigger, nil)
	require.Error(t, err)
	assert.Equal(t, errors.ErrSerialization.Code, errors.Code(err))
	assert.Equal(t, 1, producer.publishCalls())
	assert.Equal(t, uint64(0), counter.Value())

	// Serialization failures say nothing about queue reachability.
	assert.Equal(t, ProbeUnknown, queueState.Snapshot().Status)
}

func TestPublishCounterReflectsDeliveriesNotAttempts(t *testing.T) {
	producer := &fakeProducer{
		publishErrs: []error{
			errors.ErrConnection,
			errors.ErrConnection,
			nil,
			errors.ErrConnection,
			nil,
		},
	}
	publisher, counter, _ := newTestPublisher(producer)

	ctx := context.Background()

	_, err := publisher.Publish(ctx, constants.SourceManualTrigger, nil)
	require.Error(t, err)

	_, err = publisher.Publish(ctx, constants.SourceManualTrigger, nil)
	require.NoError(t, err)

	_, err = publisher.Publish(ctx, constants.SourceManualTrigger, nil)
	require.NoError(t, err)

	assert.Equal(t, uint64(2), counter.Value())
}

func TestPublishEnvelopeCarriesIterationAtBuildTime(t *testing.T) {
	producer := &fakeProducer{}
	publisher, _, _ := newTestPublisher(producer)

	ctx := context.Background()
	_, err := publisher.Publish(ctx, constants.SourceManualTrigger, nil)
	require.NoError(t, err)
	_, err = publisher.Publish(ctx, constants.SourceManualTrigger, nil)
	require.NoError(t, err)

	require.Equal(t, 2, producer.publishCalls())
	assert.Equal(t, uint64(0), producer.published[0].Iteration)
	assert.Equal(t, uint64(1), producer.published[1].Iteration)
}
