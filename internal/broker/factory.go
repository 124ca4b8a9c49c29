package broker

import (
	"fmt"

	"notifier/internal/config"
	"notifier/internal/logger"
)

func NewProducer(cfg config.BrokerConfig, log logger.Logger) (Producer, error) {
	switch cfg.Type {
	case "kafka":
		return NewKafkaProducer(cfg, log), nil
	case "nats":
		return NewNATSProducer(cfg, log), nil
	default:
		return nil, fmt.Errorf("unknown broker type: %s", cfg.Type)
	}
}
