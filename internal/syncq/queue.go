package syncq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/guardian/internal/client"
	"github.com/dmitrijs2005/guardian/internal/dbx"
	"github.com/dmitrijs2005/guardian/internal/logging"
	"github.com/sethvargo/go-retry"
)

type Policy string

const (
	PolicyClearAll     Policy = "clear_all"
	PolicyRetainFailed Policy = "retain_failed"
)

// Request is one queued event.
type Request struct {
	ID        int64     `json:"id"`
	Endpoint  string    `json:"endpoint"`
	Payload   []byte    `json:"payload"`
	Attempts  int       `json:"attempts"`
	LastError string    `json:"last_error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Report summarizes one replay pass.
type Report struct {
	Attempted int   `json:"attempted"`
	Succeeded int   `json:"succeeded"`
	Failed    int   `json:"failed"`
	Remaining int64 `json:"remaining"`
}

// Submitter delivers an event. client.Client satisfies it.
type Submitter interface {
	SubmitEvent(ctx context.Context, ev client.Event) error
}

type Options struct {
	Policy     Policy
	MaxRetries uint64
	Backoff    time.Duration
	Logger     logging.Logger
	Metrics    *Metrics
}

// Queue is the offline write queue kept in the sync_queue table. Every
// statement goes through a dbx.Runner.
type Queue struct {
	db         dbx.Runner
	policy     Policy
	maxRetries uint64
	backoff    time.Duration
	log        logging.Logger
	metrics    *Metrics
}

func NewQueue(db dbx.Runner, opts Options) *Queue {
	if opts.Policy == "" {
		opts.Policy = PolicyClearAll
	}
	if opts.Backoff <= 0 {
		opts.Backoff = 200 * time.Millisecond
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}
	return &Queue{
		db:         db,
		policy:     opts.Policy,
		maxRetries: opts.MaxRetries,
		backoff:    opts.Backoff,
		log:        opts.Logger,
		metrics:    opts.Metrics,
	}
}

func (q *Queue) Policy() Policy { return q.policy }

// Enqueue appends r to the tail of the queue.
func (q *Queue) Enqueue(ctx context.Context, r Request) (int64, error) {
	if r.Endpoint == "" {
		return 0, errors.New("enqueue: empty endpoint")
	}
	var id int64
	err := q.db.Run(ctx, "failed to enqueue "+r.Endpoint, func(ctx context.Context, tx dbx.DBTX) error {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO sync_queue (endpoint, payload, created_at) VALUES (?, ?, ?)`,
			r.Endpoint, r.Payload, time.Now().UTC().Format(time.RFC3339Nano))
		if err != nil {
			return err
		}
		id, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return 0, err
	}
	q.refreshDepth(ctx)
	return id, nil
}

// EnqueueEvent stores ev for later replay.
func (q *Queue) EnqueueEvent(ctx context.Context, ev client.Event) (int64, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return 0, fmt.Errorf("encode event %s: %w", ev.ID, err)
	}
	return q.Enqueue(ctx, Request{Endpoint: string(ev.Type), Payload: payload})
}

func (q *Queue) Len(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.Run(ctx, "failed to count queue", func(ctx context.Context, tx dbx.DBTX) error {
		return tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM sync_queue`).Scan(&n)
	})
	return n, err
}

// List returns the queue in FIFO order.
func (q *Queue) List(ctx context.Context) ([]Request, error) {
	var out []Request
	err := q.db.Run(ctx, "failed to list queue", func(ctx context.Context, tx dbx.DBTX) error {
		rows, err := tx.QueryContext(ctx,
			`SELECT id, endpoint, payload, attempts, last_error, created_at FROM sync_queue ORDER BY id`)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var (
				r       Request
				created string
			)
			if err := rows.Scan(&r.ID, &r.Endpoint, &r.Payload, &r.Attempts, &r.LastError, &created); err != nil {
				return fmt.Errorf("scan queue row: %w", err)
			}
			r.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
			out = append(out, r)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DrainAndReplay sends every queued item through s, oldest first, and
// applies the queue policy to the outcome. Items enqueued during the pass
// are left for the next one.
func (q *Queue) DrainAndReplay(ctx context.Context, s Submitter) (Report, error) {
	var rep Report

	items, err := q.List(ctx)
	if err != nil {
		return rep, err
	}
	if len(items) == 0 {
		return rep, nil
	}
	lastID := items[len(items)-1].ID

	for _, it := range items {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		rep.Attempted++

		err := q.replayOne(ctx, s, it)
		if err == nil {
			rep.Succeeded++
			q.metrics.replayed("succeeded")
			if err := q.remove(ctx, it.ID); err != nil {
				return rep, err
			}
			continue
		}

		rep.Failed++
		q.metrics.replayed("failed")
		q.log.Warn(ctx, "replay failed", "queue_id", it.ID, "endpoint", it.Endpoint, "error", err)

		if q.policy == PolicyRetainFailed {
			if err := q.markFailed(ctx, it.ID, err); err != nil {
				return rep, err
			}
		}
	}

	if q.policy == PolicyClearAll {
		if err := q.exec(ctx, "failed to clear queue", `DELETE FROM sync_queue WHERE id <= ?`, lastID); err != nil {
			return rep, err
		}
	}

	rep.Remaining, err = q.Len(ctx)
	if err != nil {
		return rep, err
	}
	q.metrics.setDepth(rep.Remaining)
	q.log.Info(ctx, "queue replayed",
		"policy", q.policy, "attempted", rep.Attempted, "succeeded", rep.Succeeded,
		"failed", rep.Failed, "remaining", rep.Remaining)
	return rep, nil
}

func (q *Queue) replayOne(ctx context.Context, s Submitter, it Request) error {
	var ev client.Event
	if err := json.Unmarshal(it.Payload, &ev); err != nil {
		return fmt.Errorf("decode queued event %d: %w", it.ID, err)
	}

	if q.policy != PolicyRetainFailed {
		return s.SubmitEvent(ctx, ev)
	}

	b := retry.WithMaxRetries(q.maxRetries, retry.NewExponential(q.backoff))
	return retry.Do(ctx, b, func(ctx context.Context) error {
		err := s.SubmitEvent(ctx, ev)
		if errors.Is(err, client.ErrUnavailable) {
			return retry.RetryableError(err)
		}
		return err
	})
}

func (q *Queue) remove(ctx context.Context, id int64) error {
	return q.exec(ctx, fmt.Sprintf("failed to remove queue item %d", id), `DELETE FROM sync_queue WHERE id = ?`, id)
}

func (q *Queue) markFailed(ctx context.Context, id int64, cause error) error {
	return q.exec(ctx, fmt.Sprintf("failed to update queue item %d", id),
		`UPDATE sync_queue SET attempts = attempts + 1, last_error = ? WHERE id = ?`, cause.Error(), id)
}

// Clear drops everything, e.g. on logout.
func (q *Queue) Clear(ctx context.Context) error {
	if err := q.exec(ctx, "failed to clear queue", `DELETE FROM sync_queue`); err != nil {
		return err
	}
	q.metrics.setDepth(0)
	return nil
}

func (q *Queue) exec(ctx context.Context, op, stmt string, args ...any) error {
	return q.db.Run(ctx, op, func(ctx context.Context, tx dbx.DBTX) error {
		_, err := tx.ExecContext(ctx, stmt, args...)
		return err
	})
}

func (q *Queue) refreshDepth(ctx context.Context) {
	if q.metrics == nil {
		return
	}
	if n, err := q.Len(ctx); err == nil {
		q.metrics.setDepth(n)
	}
}
