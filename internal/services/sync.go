package services

import (
	"context"

	"github.com/dmitrijs2005/guardian/internal/client"
	"github.com/dmitrijs2005/guardian/internal/logging"
)

// EventSink accepts outbound sync events. syncq.Syncer implements it.
type EventSink interface {
	Submit(ctx context.Context, ev client.Event) error
}

// emitter publishes record changes. Must be called after the store work
// committed: the sink may write to the same database.
type emitter struct {
	sink EventSink
	log  logging.Logger
}

func (em emitter) emit(ctx context.Context, t client.EventType, action string, rec any) {
	if em.sink == nil {
		return
	}
	payload, err := client.PayloadOf(rec)
	if err != nil {
		em.log.Warn(ctx, "event not built", "type", t, "error", err)
		return
	}
	payload["action"] = action

	if err := em.sink.Submit(ctx, client.NewEvent(t, payload)); err != nil {
		em.log.Error(ctx, "event dropped", "type", t, "action", action, "error", err)
	}
}
