// Package events announces moderation outcomes to other processes over NATS.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

const (
	SubjectSubmitted = "announcement.submitted"
	SubjectValidated = "announcement.validated"
	SubjectRejected  = "announcement.rejected"
	SubjectDeleted   = "announcement.deleted"
)

type Event struct {
	Subject string    `json:"-"`
	ID      int64     `json:"id"`
	Status  string    `json:"status,omitempty"`
	Price   *float64  `json:"price,omitempty"`
	At      time.Time `json:"at"`
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Nop drops every event. Used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

type NATSPublisher struct {
	nc     *nats.Conn
	logger *zap.Logger
}

func NewNATSPublisher(url string, timeout time.Duration, logger *zap.Logger) (*NATSPublisher, error) {
	opts := []nats.Option{
		nats.Name("antiquites"),
		nats.Timeout(timeout),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Info("NATS connection closed")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("NATS reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			logger.Warn("NATS disconnected", zap.Error(err))
		}),
	}
	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	logger.Info("connected to NATS", zap.String("url", nc.ConnectedUrl()))
	return &NATSPublisher{nc: nc, logger: logger}, nil
}

func (p *NATSPublisher) Publish(_ context.Context, e Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", e.Subject, err)
	}
	if err := p.nc.Publish(e.Subject, data); err != nil {
		return fmt.Errorf("publish %s: %w", e.Subject, err)
	}
	p.logger.Debug("published event", zap.String("subject", e.Subject), zap.Int64("announcement_id", e.ID))
	return nil
}

func (p *NATSPublisher) Close() {
	if p.nc == nil || p.nc.IsClosed() {
		return
	}
	if err := p.nc.Drain(); err != nil {
		p.logger.Error("error draining NATS connection", zap.Error(err))
		p.nc.Close()
	}
}
