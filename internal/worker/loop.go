package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"tubeqa/internal/middleware"
)

// Loop drains the ingestion queue sequentially: one receive, then each leased
// message to a terminal per-attempt state, then the next receive. Horizontal
// scale comes from running more processes against the same queue; correctness
// rests on the queue's lease semantics, not in-process coordination.
type Loop struct {
	queue    Queue
	consumer *IngestConsumer

	batchSize   int
	wait        time.Duration
	visibility  time.Duration
	pollBackoff time.Duration
}

type LoopConfig struct {
	BatchSize   int
	Wait        time.Duration
	Visibility  time.Duration
	PollBackoff time.Duration
}

func NewLoop(q Queue, c *IngestConsumer, cfg LoopConfig) *Loop {
	l := &Loop{
		queue:       q,
		consumer:    c,
		batchSize:   cfg.BatchSize,
		wait:        cfg.Wait,
		visibility:  cfg.Visibility,
		pollBackoff: cfg.PollBackoff,
	}
	if l.batchSize <= 0 {
		l.batchSize = 1
	}
	if l.wait <= 0 {
		l.wait = 20 * time.Second
	}
	if l.visibility <= 0 {
		l.visibility = 300 * time.Second
	}
	if l.pollBackoff <= 0 {
		l.pollBackoff = 5 * time.Second
	}
	return l
}

// Run polls until ctx is cancelled. Cancellation is cooperative: it is
// observed at poll boundaries, and a message already being processed is
// always finished, since dropping a held lease mid-flight would only force a
// pointless redelivery.
func (l *Loop) Run(ctx context.Context) error {
	slog.Info("ingestion loop started", "batch_size", l.batchSize, "wait", l.wait, "visibility", l.visibility)

	for {
		if err := ctx.Err(); err != nil {
			slog.Info("ingestion loop stopping")
			return err
		}

		messages, err := l.queue.Receive(ctx, l.batchSize, l.wait, l.visibility)
		if err != nil {
			if ctx.Err() != nil {
				slog.Info("ingestion loop stopping")
				return ctx.Err()
			}
			// Queue-level trouble, not a job failure: back off so an
			// unavailable queue is not hot-looped.
			slog.Error("queue receive failed", "error", err, "backoff", l.pollBackoff)
			select {
			case <-ctx.Done():
				slog.Info("ingestion loop stopping")
				return ctx.Err()
			case <-time.After(l.pollBackoff):
			}
			continue
		}

		for _, m := range messages {
			l.handleOne(ctx, m)
		}
	}
}

// handleOne finishes a leased message even if shutdown was requested while it
// was in flight, hence the cancellation-immune context.
func (l *Loop) handleOne(ctx context.Context, m Message) {
	procCtx := middleware.WithCorrelationID(context.WithoutCancel(ctx), uuid.New().String())

	if !l.consumer.Handle(procCtx, m) {
		return
	}
	if err := l.queue.Delete(procCtx, m.ReceiptHandle); err != nil {
		// The job's effects are idempotent, so the redelivery this causes
		// only rewrites the same document.
		slog.ErrorContext(procCtx, "failed to delete message", "message_id", m.ID, "error", err)
	}
}
