package notification

import (
	"github.com/google/uuid"

	"notifier/internal/constants"
	"notifier/pkg/models"
)

// Builder constructs envelopes. Pure construction: a fresh id and UTC
// timestamp per call, the caller's extra map is copied not aliased, and
// the iteration counter is read without being advanced (only a
// confirmed send advances it, in the publisher).
type Builder struct {
	counter     *Counter
	environment string
	schedule    string
}

func NewBuilder(counter *Counter, environment, schedule string) *Builder {
	return &Builder{
		counter:     counter,
		environment: environment,
		schedule:    schedule,
	}
}

func (b *Builder) Build(source string, extra map[string]interface{}) *models.Envelope {
	eb := models.NewEnvelopeBuilder().
		WithID(uuid.NewString()).
		WithSource(source).
		WithIteration(b.counter.Value()).
		WithPayloadField("environment", b.environment)

	switch source {
	case constants.SourceTimerTrigger:
		eb.WithType(constants.MessageTypePolicyNotification).
			WithPayloadField("message", "Scheduled policy notification check").
			WithPayloadField("function_name", constants.TimerFunctionName).
			WithPayloadField("schedule", b.schedule)
	default:
		eb.WithType(constants.MessageTypeTest).
			WithPayloadField("message", "Manual test message")
	}

	for k, v := range extra {
		eb.WithPayloadField(k, v)
	}

	return eb.Build()
}
