package syncq

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/guardian/internal/client"
	"github.com/dmitrijs2005/guardian/internal/logging"
)

// Syncer sends events right away when it can and queues them when it
// cannot.
type Syncer struct {
	client  Submitter
	queue   *Queue
	log     logging.Logger
	metrics *Metrics
}

// NewSyncer wires c and q together. A nil client means offline-only: every
// event goes straight to the queue.
func NewSyncer(c Submitter, q *Queue, log logging.Logger) *Syncer {
	if log == nil {
		log = logging.NewNop()
	}
	return &Syncer{client: c, queue: q, log: log, metrics: q.metrics}
}

// Submit delivers ev or, failing that, queues it. An error means the event
// is lost: neither the backend nor the queue took it.
func (s *Syncer) Submit(ctx context.Context, ev client.Event) error {
	if s.client != nil {
		err := s.client.SubmitEvent(ctx, ev)
		if err == nil {
			s.metrics.submitted("sent")
			return nil
		}
		s.log.Debug(ctx, "submit failed, queueing", "event_id", ev.ID, "type", ev.Type, "error", err)
	}

	if _, err := s.queue.EnqueueEvent(ctx, ev); err != nil {
		return fmt.Errorf("queue event %s: %w", ev.ID, err)
	}
	s.metrics.submitted("queued")
	return nil
}

// Replay drains the queue through the client.
func (s *Syncer) Replay(ctx context.Context) (Report, error) {
	if s.client == nil {
		n, err := s.queue.Len(ctx)
		return Report{Remaining: n}, err
	}
	return s.queue.DrainAndReplay(ctx, s.client)
}

func (s *Syncer) Queue() *Queue { return s.queue }
