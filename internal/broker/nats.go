package broker

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"notifier/internal/config"
	"notifier/internal/constants"
	"notifier/internal/logger"
	"notifier/pkg/errors"
	"notifier/pkg/models"
)

// NATSProducer publishes envelopes to a JetStream subject. The stream
// itself is provisioned by infrastructure, mirroring how the queue
// exists before this service starts.
type NATSProducer struct {
	cfg    config.BrokerConfig
	logger logger.Logger

	mu   sync.Mutex
	conn *nats.Conn
	js   jetstream.JetStream
}

func NewNATSProducer(cfg config.BrokerConfig, log logger.Logger) *NATSProducer {
	return &NATSProducer{cfg: cfg, logger: log}
}

func (p *NATSProducer) connect() (jetstream.JetStream, *nats.Conn, error) {
	if p.cfg.ConnectionString == "" {
		return nil, nil, errors.ErrConfiguration.WithDetail("missing", "connection_string")
	}
	if p.cfg.Queue == "" {
		return nil, nil, errors.ErrConfiguration.WithDetail("missing", "queue_name")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn != nil && p.conn.IsConnected() {
		return p.js, p.conn, nil
	}

	conn, err := nats.Connect(p.cfg.ConnectionString,
		nats.Timeout(constants.NATSConnectWait),
		nats.ReconnectWait(constants.NATSReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			p.logger.Warnw("NATS disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			p.logger.Infow("NATS reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, nil, errors.Wrap(err, errors.ErrConnection)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, nil, errors.Wrap(err, errors.ErrConnection)
	}

	p.conn = conn
	p.js = js
	return js, conn, nil
}

func (p *NATSProducer) Publish(ctx context.Context, envelope *models.Envelope) error {
	js, _, err := p.connect()
	if err != nil {
		return err
	}

	body, err := json.Marshal(envelope)
	if err != nil {
		return errors.Wrap(err, errors.ErrSerialization)
	}

	if _, err := js.Publish(ctx, p.cfg.Queue, body); err != nil {
		return errors.Wrap(err, errors.ErrConnection)
	}

	return nil
}

// Probe verifies the connection is alive with a server round trip.
func (p *NATSProducer) Probe(ctx context.Context) error {
	_, conn, err := p.connect()
	if err != nil {
		return err
	}

	if !conn.IsConnected() {
		return errors.ErrConnection.WithDetail("message", "NATS connection lost")
	}

	if _, err := conn.RTT(); err != nil {
		return errors.Wrap(err, errors.ErrConnection)
	}

	return nil
}

func (p *NATSProducer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn != nil {
		p.conn.Close()
		p.conn = nil
		p.js = nil
	}
	return nil
}
