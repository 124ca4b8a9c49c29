package constants

import "time"

const (
	ServiceName        = "notifier-service"
	ServiceDescription = "Timer-triggered publisher that sends policy notifications to a durable queue"
	ServiceVersion     = "1.0.0"
)

const (
	KafkaBatchTimeout = 10 * time.Millisecond
	KafkaWriteTimeout = 10 * time.Second
	KafkaDialTimeout  = 5 * time.Second
)

const (
	NATSReconnectWait = 2 * time.Second
	NATSConnectWait   = 5 * time.Second
)

const (
	DefaultScheduleInterval = 10 * time.Second
)

const (
	PublishRetryDelay = 500 * time.Millisecond
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	SourceTimerTrigger  = "timer-trigger"
	SourceManualTrigger = "manual-trigger"
)

const (
	TimerFunctionName = "PolicyNotificationTimer"
)

const (
	MessageTypePolicyNotification = "policy-notification"
	MessageTypeTest               = "test-message"
)

const (
	DefaultQueueName   = "policy-notifications"
	DefaultEnvironment = "development"
)
