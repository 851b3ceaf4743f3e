package worker

import (
	"context"
	"time"

	"tubeqa/internal/transcript"
)

// IngestJob is the queue message payload produced by the ingest API (or any
// foreign producer). Both fields are required; a message missing either can
// never become valid and is discarded without retry.
type IngestJob struct {
	VideoURL     string `json:"video_url"`
	CollectionID string `json:"collection_id"`
}

// Message is one leased queue message. The lease (receipt handle) belongs to
// this worker until the visibility window lapses or the message is deleted.
type Message struct {
	ID            string
	ReceiptHandle string
	Body          []byte
	ReceiveCount  int
}

// Queue is the durable at-least-once queue the loop drains. Receive long-polls
// up to wait and leases returned messages for the visibility window; Delete
// acknowledges a message so it is never redelivered.
type Queue interface {
	Receive(ctx context.Context, max int, wait, visibility time.Duration) ([]Message, error)
	Delete(ctx context.Context, receiptHandle string) error
}

type TranscriptFetcher interface {
	Fetch(ctx context.Context, videoID string) ([]transcript.Segment, error)
}

type ObjectStore interface {
	Put(ctx context.Context, key string, body []byte, contentType string) error
}

// IndexSyncer asks the managed retrieval backend to rescan the bucket. The
// returned job id is logged, never awaited.
type IndexSyncer interface {
	StartSync(ctx context.Context) (string, error)
}
