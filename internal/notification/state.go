package notification

import (
	"sync"
	"time"

	"notifier/internal/config"
)

// SchedulerState tracks scheduled firings. The scheduler is the single
// writer; health and info reads get a consistent snapshot.
type SchedulerState struct {
	mu          sync.Mutex
	invocations uint64
	fired       bool
	lastError   string
	lastRun     time.Time
}

func NewSchedulerState() *SchedulerState {
	return &SchedulerState{}
}

// BeginFiring counts the invocation before the publish outcome is
// known: an invocation happened regardless of whether the send works.
func (s *SchedulerState) BeginFiring() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invocations++
	s.fired = true
	s.lastRun = time.Now().UTC()
	return s.invocations
}

func (s *SchedulerState) CompleteFiring(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.lastError = err.Error()
	} else {
		s.lastError = ""
	}
}

type SchedulerSnapshot struct {
	InvocationCount uint64
	Fired           bool
	LastError       string
	LastRun         time.Time
}

func (s *SchedulerState) Snapshot() SchedulerSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SchedulerSnapshot{
		InvocationCount: s.invocations,
		Fired:           s.fired,
		LastError:       s.lastError,
		LastRun:         s.lastRun,
	}
}

// ProbeStatus is the queue connection's last observed condition.
type ProbeStatus string

const (
	ProbeHealthy   ProbeStatus = "healthy"
	ProbeUnhealthy ProbeStatus = "unhealthy"
	ProbeUnknown   ProbeStatus = "unknown"
)

// QueueState is the queue connection descriptor: configured-ness fixed
// at startup, probe status refreshed on every health check and publish
// attempt. It never holds the raw connection string.
type QueueState struct {
	mu         sync.Mutex
	target     string
	configured bool
	status     ProbeStatus
	detail     string
	checkedAt  time.Time
}

func NewQueueState(cfg config.BrokerConfig) *QueueState {
	return &QueueState{
		target:     cfg.Type + ":" + cfg.Queue,
		configured: cfg.Configured(),
		status:     ProbeUnknown,
	}
}

func (q *QueueState) Configured() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.configured
}

func (q *QueueState) SetHealthy() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.status = ProbeHealthy
	q.detail = ""
	q.checkedAt = time.Now().UTC()
}

func (q *QueueState) SetUnhealthy(err error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.status = ProbeUnhealthy
	if err != nil {
		q.detail = err.Error()
	}
	q.checkedAt = time.Now().UTC()
}

type QueueSnapshot struct {
	Target     string
	Configured bool
	Status     ProbeStatus
	Detail     string
	CheckedAt  time.Time
}

func (q *QueueState) Snapshot() QueueSnapshot {
	q.mu.Lock()
	defer q.mu.Unlock()
	return QueueSnapshot{
		Target:     q.target,
		Configured: q.configured,
		Status:     q.status,
		Detail:     q.detail,
		CheckedAt:  q.checkedAt,
	}
}
