package events

import (
	"context"
	"encoding/json"
	"log/slog"
)

// LocalPublisher delivers events to the SSE hubs of this process
type LocalPublisher struct {
	hubs   *HubManager
	logger *slog.Logger
}

// NewLocalPublisher creates a publisher backed by the given hubs
func NewLocalPublisher(hubs *HubManager, logger *slog.Logger) *LocalPublisher {
	return &LocalPublisher{hubs: hubs, logger: logger}
}

// Publish encodes the event as JSON and broadcasts it on its topic's hub.
// Topics nobody is watching are skipped.
func (p *LocalPublisher) Publish(_ context.Context, event Event) {
	hub := p.hubs.GetHub(event.Topic)
	if hub == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("failed to encode event",
			slog.String("type", string(event.Type)),
			slog.Any("error", err))
		return
	}
	hub.BroadcastEvent(string(event.Type), string(data))
}
