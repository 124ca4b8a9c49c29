package notification

import (
	"context"
	"time"

	"notifier/internal/broker"
	"notifier/internal/config"
	"notifier/internal/constants"
	"notifier/internal/logger"
	"notifier/pkg/errors"
	"notifier/pkg/metrics"
)

type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
	StatusUnknown   Status = "unknown"
)

type SchedulerStatus struct {
	Status          Status `json:"status"`
	InvocationCount uint64 `json:"invocation_count"`
	Schedule        string `json:"schedule"`
	LastError       string `json:"last_error,omitempty"`
}

type QueueStatus struct {
	Status     Status `json:"status"`
	QueueName  string `json:"queue_name"`
	Connection string `json:"connection"`
	Error      string `json:"error,omitempty"`
}

type ConfigurationStatus struct {
	Status               Status `json:"status"`
	QueueName            string `json:"queue_name"`
	ConnectionConfigured bool   `json:"connection_configured"`
	Missing              string `json:"missing,omitempty"`
}

type Components struct {
	TimerFunction SchedulerStatus     `json:"timer_function"`
	ServiceBus    QueueStatus         `json:"service_bus"`
	Configuration ConfigurationStatus `json:"configuration"`
}

type HealthReport struct {
	Status     Status     `json:"status"`
	Timestamp  time.Time  `json:"timestamp"`
	Service    string     `json:"service"`
	Version    string     `json:"version"`
	Components Components `json:"components"`
}

// Aggregator merges scheduler, queue and configuration health into one
// report. The three sub-checks are isolated: a failing or panicking
// queue probe downgrades only the queue sub-status.
type Aggregator struct {
	cfg        config.BrokerConfig
	producer   broker.Producer
	schedState *SchedulerState
	queueState *QueueState
	schedule   string
	logger     logger.Logger
}

func NewAggregator(cfg config.BrokerConfig, producer broker.Producer, schedState *SchedulerState, queueState *QueueState, schedule string, log logger.Logger) *Aggregator {
	return &Aggregator{
		cfg:        cfg,
		producer:   producer,
		schedState: schedState,
		queueState: queueState,
		schedule:   schedule,
		logger:     log,
	}
}

// Aggregate never returns an error and never panics.
func (a *Aggregator) Aggregate(ctx context.Context) HealthReport {
	scheduler := a.schedulerStatus()
	queue := a.QueueStatus(ctx)
	configuration := a.configurationStatus()

	overall := StatusHealthy
	if scheduler.Status != StatusHealthy || queue.Status != StatusHealthy || configuration.Status != StatusHealthy {
		overall = StatusDegraded
	}
	metrics.HealthChecksTotal.WithLabelValues("overall", string(overall)).Inc()

	return HealthReport{
		Status:    overall,
		Timestamp: time.Now().UTC(),
		Service:   constants.ServiceName,
		Version:   constants.ServiceVersion,
		Components: Components{
			TimerFunction: scheduler,
			ServiceBus:    queue,
			Configuration: configuration,
		},
	}
}

func (a *Aggregator) schedulerStatus() SchedulerStatus {
	snap := a.schedState.Snapshot()

	status := SchedulerStatus{
		Status:          StatusHealthy,
		InvocationCount: snap.InvocationCount,
		Schedule:        a.schedule,
	}

	// No firing yet is healthy: the scheduler simply has not run.
	if snap.Fired && snap.LastError != "" {
		status.Status = StatusDegraded
		status.LastError = snap.LastError
	}

	metrics.HealthChecksTotal.WithLabelValues("timer_function", string(status.Status)).Inc()
	return status
}

// QueueStatus probes the queue live so the report reflects current
// reachability rather than the last publish outcome.
func (a *Aggregator) QueueStatus(ctx context.Context) QueueStatus {
	status := QueueStatus{
		QueueName: a.cfg.Queue,
	}

	if !a.cfg.Configured() {
		status.Status = StatusUnknown
		status.Connection = "not configured"
		metrics.HealthChecksTotal.WithLabelValues("service_bus", string(status.Status)).Inc()
		return status
	}

	start := time.Now()
	err := a.probeSafely(ctx)
	metrics.QueueProbeDuration.Observe(float64(time.Since(start).Milliseconds()))

	if err != nil {
		a.queueState.SetUnhealthy(err)
		status.Status = StatusUnhealthy
		status.Connection = "failed"
		status.Error = err.Error()
		a.logger.WarnwCtx(ctx, "Queue probe failed",
			"queue", a.cfg.Queue,
			"error", err,
		)
	} else {
		a.queueState.SetHealthy()
		status.Status = StatusHealthy
		status.Connection = "successful"
	}

	metrics.HealthChecksTotal.WithLabelValues("service_bus", string(status.Status)).Inc()
	return status
}

func (a *Aggregator) probeSafely(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.RecoverPanic(r)
		}
	}()

	return a.producer.Probe(ctx)
}

func (a *Aggregator) configurationStatus() ConfigurationStatus {
	status := ConfigurationStatus{
		Status:               StatusHealthy,
		QueueName:            a.cfg.Queue,
		ConnectionConfigured: a.cfg.ConnectionString != "",
	}

	switch {
	case a.cfg.ConnectionString == "" && a.cfg.Queue == "":
		status.Status = StatusUnhealthy
		status.Missing = "connection string and queue name are not configured"
	case a.cfg.ConnectionString == "":
		status.Status = StatusUnhealthy
		status.Missing = "connection string is not configured"
	case a.cfg.Queue == "":
		status.Status = StatusUnhealthy
		status.Missing = "queue name is not configured"
	}

	metrics.HealthChecksTotal.WithLabelValues("configuration", string(status.Status)).Inc()
	return status
}
