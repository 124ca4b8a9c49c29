package broker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"notifier/internal/config"
	"notifier/internal/constants"
	"notifier/internal/logger"
	"notifier/pkg/errors"
	"notifier/pkg/models"
)

type KafkaProducer struct {
	cfg    config.BrokerConfig
	writer *kafka.Writer
	logger logger.Logger
}

func NewKafkaProducer(cfg config.BrokerConfig, log logger.Logger) *KafkaProducer {
	p := &KafkaProducer{cfg: cfg, logger: log}

	if cfg.Configured() {
		p.writer = &kafka.Writer{
			Addr:         kafka.TCP(cfg.Endpoints()...),
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: constants.KafkaBatchTimeout,
			WriteTimeout: constants.KafkaWriteTimeout,
			Async:        false,
		}
	}

	return p
}

func (p *KafkaProducer) Publish(ctx context.Context, envelope *models.Envelope) error {
	if err := p.checkConfigured(); err != nil {
		return err
	}

	body, err := json.Marshal(envelope)
	if err != nil {
		return errors.Wrap(err, errors.ErrSerialization)
	}

	err = p.writer.WriteMessages(ctx,
		kafka.Message{
			Topic: p.cfg.Queue,
			Key:   []byte(envelope.ID),
			Value: body,
			Time:  time.Now(),
		},
	)
	if err != nil {
		return errors.Wrap(err, errors.ErrConnection)
	}

	return nil
}

// Probe dials a broker and looks up partition metadata for the
// configured queue. It opens its own connection and always releases it.
func (p *KafkaProducer) Probe(ctx context.Context) error {
	if err := p.checkConfigured(); err != nil {
		return err
	}

	dialer := &kafka.Dialer{Timeout: constants.KafkaDialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", p.cfg.Endpoints()[0])
	if err != nil {
		return errors.Wrap(err, errors.ErrConnection)
	}
	defer conn.Close()

	if _, err := conn.ReadPartitions(p.cfg.Queue); err != nil {
		return errors.Wrap(err, errors.ErrConnection)
	}

	return nil
}

func (p *KafkaProducer) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

func (p *KafkaProducer) checkConfigured() error {
	if p.cfg.ConnectionString == "" {
		return errors.ErrConfiguration.WithDetail("missing", "connection_string")
	}
	if p.cfg.Queue == "" {
		return errors.ErrConfiguration.WithDetail("missing", "queue_name")
	}
	return nil
}
