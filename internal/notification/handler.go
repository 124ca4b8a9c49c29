package notification

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"notifier/internal/config"
	"notifier/internal/constants"
	"notifier/internal/logger"
	"notifier/pkg/errors"
)

type Handler struct {
	aggregator *Aggregator
	publisher  *Publisher
	schedState *SchedulerState
	cfg        *config.Config
	schedule   string
	logger     logger.Logger
}

func NewHandler(aggregator *Aggregator, publisher *Publisher, schedState *SchedulerState, cfg *config.Config, schedule string, log logger.Logger) *Handler {
	return &Handler{
		aggregator: aggregator,
		publisher:  publisher,
		schedState: schedState,
		cfg:        cfg,
		schedule:   schedule,
		logger:     log,
	}
}

// RegisterRoutes wires the control plane. sendMiddleware applies only
// to the manual send route (rate limiting when enabled).
func (h *Handler) RegisterRoutes(router *gin.Engine, sendMiddleware ...gin.HandlerFunc) {
	router.GET("/health", h.Health)
	router.GET("/health/servicebus", h.QueueHealth)
	router.GET("/info", h.Info)

	send := append([]gin.HandlerFunc{}, sendMiddleware...)
	send = append(send, h.SendTestMessage)
	router.POST("/test/send-message", send...)
}

// Health returns the full aggregated report. Always HTTP 200: a
// monitoring system distinguishes "reachable but degraded" from
// "unreachable" by the body, not the status code.
func (h *Handler) Health(c *gin.Context) {
	report := h.aggregator.Aggregate(c.Request.Context())
	c.JSON(http.StatusOK, report)
}

// QueueHealth is the dedicated shallow probe of the queue connection.
func (h *Handler) QueueHealth(c *gin.Context) {
	status := h.aggregator.QueueStatus(c.Request.Context())

	c.JSON(http.StatusOK, gin.H{
		"timestamp":   time.Now().UTC(),
		"service_bus": status,
		"configuration": gin.H{
			"queue_name":                   h.cfg.Broker.Queue,
			"connection_string_configured": h.cfg.Broker.ConnectionString != "",
		},
	})
}

func (h *Handler) Info(c *gin.Context) {
	snap := h.schedState.Snapshot()

	c.JSON(http.StatusOK, gin.H{
		"name":        constants.ServiceName,
		"description": constants.ServiceDescription,
		"version":     constants.ServiceVersion,
		"functions": gin.H{
			constants.TimerFunctionName: gin.H{
				"type":             "timer",
				"schedule":         h.schedule,
				"invocation_count": snap.InvocationCount,
			},
		},
		"endpoints": gin.H{
			"health":           gin.H{"path": "/health", "methods": []string{"GET"}},
			"servicebus_health": gin.H{"path": "/health/servicebus", "methods": []string{"GET"}},
			"info":             gin.H{"path": "/info", "methods": []string{"GET"}},
			"send_message":     gin.H{"path": "/test/send-message", "methods": []string{"POST"}},
		},
		"configuration": gin.H{
			"queue":       h.cfg.Broker.Queue,
			"broker_type": h.cfg.Broker.Type,
			"environment": h.cfg.Service.Environment,
		},
		"timestamp": time.Now().UTC(),
	})
}

// SendTestMessage publishes through the same path as the timer. An
// unreadable body is tolerated; a default message is sent instead of
// rejecting the request.
func (h *Handler) SendTestMessage(c *gin.Context) {
	var extra map[string]interface{}
	if c.Request.Body != nil && c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&extra); err != nil {
			h.logger.WarnwCtx(c.Request.Context(), "Invalid JSON in request body, using default message",
				"error", err,
			)
			extra = nil
		}
	}

	messageID, err := h.publisher.Publish(c.Request.Context(), constants.SourceManualTrigger, extra)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":     "error",
			"message":    "Failed to send test message",
			"error":      err.Error(),
			"error_code": errors.Code(err),
			"queue":      h.cfg.Broker.Queue,
			"timestamp":  time.Now().UTC(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "success",
		"message":    "Test message sent successfully",
		"message_id": messageID,
		"queue":      h.cfg.Broker.Queue,
		"timestamp":  time.Now().UTC(),
	})
}
