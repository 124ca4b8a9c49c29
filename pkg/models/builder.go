package models

import "time"

type EnvelopeBuilder struct {
	envelope *Envelope
}

func NewEnvelopeBuilder() *EnvelopeBuilder {
	return &EnvelopeBuilder{
		envelope: &Envelope{
			Payload: make(map[string]interface{}),
		},
	}
}

func (b *EnvelopeBuilder) WithID(id string) *EnvelopeBuilder {
	b.envelope.ID = id
	return b
}

func (b *EnvelopeBuilder) WithType(msgType string) *EnvelopeBuilder {
	b.envelope.Type = msgType
	return b
}

func (b *EnvelopeBuilder) WithSource(source string) *EnvelopeBuilder {
	b.envelope.Source = source
	return b
}

func (b *EnvelopeBuilder) WithTimestamp(timestamp time.Time) *EnvelopeBuilder {
	b.envelope.Timestamp = timestamp
	return b
}

func (b *EnvelopeBuilder) WithIteration(iteration uint64) *EnvelopeBuilder {
	b.envelope.Iteration = iteration
	return b
}

// WithPayloadField sets a single payload key. Keys copied in this way
// never alias the caller's map.
func (b *EnvelopeBuilder) WithPayloadField(key string, value interface{}) *EnvelopeBuilder {
	b.envelope.Payload[key] = value
	return b
}

func (b *EnvelopeBuilder) Build() *Envelope {
	if b.envelope.Timestamp.IsZero() {
		b.envelope.Timestamp = time.Now().UTC()
	}
	return b.envelope
}
