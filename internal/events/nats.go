package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"
)

// DefaultSubject is the NATS subject events are exchanged on
const DefaultSubject = "awards.events"

// NATSBridge fans events out through NATS so every server instance
// delivers them to its own SSE clients.
type NATSBridge struct {
	nc      *nats.Conn
	sub     *nats.Subscription
	subject string
	local   Publisher
	logger  *slog.Logger
}

// NewNATSBridge connects to NATS and forwards every event received on
// subject to local, including the ones this instance published.
func NewNATSBridge(url, subject string, local Publisher, logger *slog.Logger) (*NATSBridge, error) {
	if subject == "" {
		subject = DefaultSubject
	}

	nc, err := nats.Connect(url, nats.Name("matchawards"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	b := &NATSBridge{
		nc:      nc,
		subject: subject,
		local:   local,
		logger:  logger.With(slog.String("component", "nats-bridge")),
	}

	b.sub, err = nc.Subscribe(subject, b.receive)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", subject, err)
	}
	// round-trip so the subscription is registered before we return
	if err := nc.Flush(); err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to flush NATS connection: %w", err)
	}

	b.logger.Info("nats bridge connected", slog.String("url", nc.ConnectedUrl()), slog.String("subject", subject))
	return b, nil
}

// Publish sends the event to NATS. Failures are logged, not returned.
func (b *NATSBridge) Publish(_ context.Context, event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		b.logger.Error("failed to encode event", slog.String("type", string(event.Type)), slog.Any("error", err))
		return
	}
	if err := b.nc.Publish(b.subject, data); err != nil {
		b.logger.Error("failed to publish event", slog.String("type", string(event.Type)), slog.Any("error", err))
	}
}

func (b *NATSBridge) receive(msg *nats.Msg) {
	var event Event
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		b.logger.Warn("discarding malformed event", slog.Any("error", err))
		return
	}
	b.local.Publish(context.Background(), event)
}

// Close drains the subscription and closes the connection
func (b *NATSBridge) Close() error {
	if b.sub != nil {
		_ = b.sub.Unsubscribe()
	}
	b.nc.Close()
	return nil
}
