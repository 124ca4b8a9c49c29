package notification

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notifier/internal/constants"
)

func TestBuildGeneratesUniqueIDs(t *testing.T) {
	builder := NewBuilder(NewCounter(), "test", "every 10 seconds")

	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		envelope := builder.Build(constants.SourceTimerTrigger, nil)

		_, err := uuid.Parse(envelope.ID)
		require.NoError(t, err)

		_, dup := seen[envelope.ID]
		require.False(t, dup, "duplicate id %s", envelope.ID)
		seen[envelope.ID] = struct{}{}
	}
}

func TestBuildStampsUTCTimestamp(t *testing.T) {
	builder := NewBuilder(NewCounter(), "test", "every 10 seconds")

	envelope := builder.Build(constants.SourceTimerTrigger, nil)
	assert.False(t, envelope.Timestamp.IsZero())
	_, offset := envelope.Timestamp.Zone()
	assert.Equal(t, 0, offset)
}

func TestBuildDoesNotIncrementIteration(t *testing.T) {
	counter := NewCounter()
	builder := NewBuilder(counter, "test", "every 10 seconds")

	first := builder.Build(constants.SourceTimerTrigger, nil)
	second := builder.Build(constants.SourceTimerTrigger, nil)

	assert.Equal(t, uint64(0), first.Iteration)
	assert.Equal(t, uint64(0), second.Iteration)
	assert.Equal(t, uint64(0), counter.Value())
}

func TestBuildReadsCurrentIteration(t *testing.T) {
	counter := NewCounter()
	builder := NewBuilder(counter, "test", "every 10 seconds")

	counter.Inc()
	counter.Inc()

	envelope := builder.Build(constants.SourceTimerTrigger, nil)
	assert.Equal(t, uint64(2), envelope.Iteration)
}

func TestBuildCopiesExtraPayloadWithoutMutatingCaller(t *testing.T) {
	builder := NewBuilder(NewCounter(), "test", "every 10 seconds")

	extra := map[string]interface{}{"custom_field": "x"}
	envelope := builder.Build(constants.SourceManualTrigger, extra)

	assert.Equal(t, "x", envelope.Payload["custom_field"])

	envelope.Payload["custom_field"] = "mutated"
	envelope.Payload["injected"] = true
	assert.Equal(t, "x", extra["custom_field"])
	assert.NotContains(t, extra, "injected")
	assert.Len(t, extra, 1)
}

func TestBuildTypeAndPayloadBySource(t *testing.T) {
	builder := NewBuilder(NewCounter(), "staging", "every 10 seconds")

	tests := []struct {
		name        string
		source      string
		wantType    string
		wantMessage string
	}{
		{
			name:        "timer trigger",
			source:      constants.SourceTimerTrigger,
			wantType:    constants.MessageTypePolicyNotification,
			wantMessage: "Scheduled policy notification check",
		},
		{
			name:        "manual trigger",
			source:      constants.SourceManualTrigger,
			wantType:    constants.MessageTypeTest,
			wantMessage: "Manual test message",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			envelope := builder.Build(tt.source, nil)

			assert.Equal(t, tt.source, envelope.Source)
			assert.Equal(t, tt.wantType, envelope.Type)
			assert.Equal(t, tt.wantMessage, envelope.Payload["message"])
			assert.Equal(t, "staging", envelope.Payload["environment"])
		})
	}
}

func TestBuildTimerPayloadIncludesSchedule(t *testing.T) {
	builder := NewBuilder(NewCounter(), "test", "every 10 seconds")

	envelope := builder.Build(constants.SourceTimerTrigger, nil)
	assert.Equal(t, "every 10 seconds", envelope.Payload["schedule"])
	assert.Equal(t, constants.TimerFunctionName, envelope.Payload["function_name"])

	manual := builder.Build(constants.SourceManualTrigger, nil)
	assert.NotContains(t, manual.Payload, "schedule")
	assert.NotContains(t, manual.Payload, "function_name")
}
