package models

import "time"

// Envelope is the unit published to the queue, serialized as UTF-8
// JSON. Iteration is stamped at build time and never mutated afterward.
type Envelope struct {
	ID        string                 `json:"id"`
	Timestamp time.Time              `json:"timestamp"`
	Type      string                 `json:"type"`
	Source    string                 `json:"source"`
	Iteration uint64                 `json:"iteration"`
	Payload   map[string]interface{} `json:"payload"`
}
