package worker

import (
	"context"
	"encoding/json"
	"log/slog"

	"tubeqa/internal/document"
	"tubeqa/internal/transcript"
)

// IngestConsumer turns one queue message into an indexed transcript document:
// fetch transcript, format, persist to the bucket, trigger an index sync.
type IngestConsumer struct {
	fetcher TranscriptFetcher
	store   ObjectStore
	syncer  IndexSyncer
}

func NewIngestConsumer(f TranscriptFetcher, s ObjectStore, sync IndexSyncer) *IngestConsumer {
	return &IngestConsumer{fetcher: f, store: s, syncer: sync}
}

// Handle processes one leased message and reports whether it should be
// deleted from the queue. Malformed bodies (bad JSON, missing fields) are
// deleted immediately (poison pill: retrying cannot make them valid). Job
// failures, including an invalid locator, leave the message leased so the
// queue redelivers it once the visibility window lapses; the queue's own
// redelivery count and dead-letter threshold bound the retries.
// A panic anywhere is recovered and treated as a recoverable failure so one
// bad message can never take the loop down.
func (c *IngestConsumer) Handle(ctx context.Context, m Message) (deleteMsg bool) {
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "panic while processing message", "message_id", m.ID, "panic", r)
			deleteMsg = false
		}
	}()

	var job IngestJob
	if err := json.Unmarshal(m.Body, &job); err != nil {
		slog.ErrorContext(ctx, "poison pill: invalid json", "message_id", m.ID, "error", err)
		return true
	}
	if job.VideoURL == "" || job.CollectionID == "" {
		slog.ErrorContext(ctx, "poison pill: missing required field", "message_id", m.ID, "video_url", job.VideoURL, "collection_id", job.CollectionID)
		return true
	}

	videoID, err := transcript.ParseVideoID(job.VideoURL)
	if err != nil {
		// An invalid locator sits in the same failure taxonomy as the other
		// fetch outcomes, so it follows the same abandon-for-redelivery
		// policy until the queue's dead-letter threshold takes over.
		slog.WarnContext(ctx, "bad video locator, leaving message for redelivery", "message_id", m.ID, "video_url", job.VideoURL, "kind", transcript.KindOf(err).String(), "error", err)
		return false
	}

	slog.InfoContext(ctx, "processing ingestion job", "message_id", m.ID, "video_id", videoID, "collection_id", job.CollectionID, "receive_count", m.ReceiveCount)

	if err := c.process(ctx, videoID, job); err != nil {
		slog.ErrorContext(ctx, "ingestion job failed, leaving message for redelivery", "message_id", m.ID, "video_id", videoID, "error", err)
		return false
	}

	slog.InfoContext(ctx, "ingestion job completed", "message_id", m.ID, "video_id", videoID)
	return true
}

// process runs the ordered job steps, short-circuiting on the first failure.
// There is no rollback: if the put succeeds but the sync trigger fails, the
// document sits unindexed until the next successful sync, which rescans the
// whole bucket and picks it up. Self-healing, not an inconsistency.
func (c *IngestConsumer) process(ctx context.Context, videoID string, job IngestJob) error {
	segments, err := c.fetcher.Fetch(ctx, videoID)
	if err != nil {
		// Content-level failures (disabled, removed, no transcript) are
		// retried identically to transient ones for now; the closed kind
		// set is logged so a drop-and-report policy stays a small change.
		slog.WarnContext(ctx, "transcript fetch failed", "video_id", videoID, "kind", transcript.KindOf(err).String())
		return err
	}

	body := document.Format(videoID, job.VideoURL, segments)

	key := document.Key(videoID)
	if err := c.store.Put(ctx, key, []byte(body), document.ContentType); err != nil {
		return err
	}
	slog.InfoContext(ctx, "document persisted", "key", key, "segments", len(segments), "bytes", len(body))

	syncJobID, err := c.syncer.StartSync(ctx)
	if err != nil {
		return err
	}
	slog.InfoContext(ctx, "index sync triggered", "sync_job_id", syncJobID)
	return nil
}
