package ingest

import (
	"context"
	"encoding/json"
	"log/slog"

	"tubeqa/internal/transcript"
	"tubeqa/internal/worker"
)

type Service struct {
	pub    Publisher
	store  CorpusStore
	syncer IndexSyncer
}

func NewService(pub Publisher, store CorpusStore, syncer IndexSyncer) *Service {
	return &Service{pub: pub, store: store, syncer: syncer}
}

// Submit validates the locator and enqueues an ingestion job. The worker
// re-validates on receipt, but rejecting junk here gives the caller an
// immediate answer instead of a silently discarded message.
func (s *Service) Submit(ctx context.Context, videoURL string) (messageID, videoID string, err error) {
	videoID, err = transcript.ParseVideoID(videoURL)
	if err != nil {
		return "", "", err
	}

	body, err := json.Marshal(worker.IngestJob{
		VideoURL:     videoURL,
		CollectionID: DefaultCollection,
	})
	if err != nil {
		return "", "", err
	}

	messageID, err = s.pub.Send(ctx, body)
	if err != nil {
		return "", "", err
	}

	slog.InfoContext(ctx, "ingestion job enqueued", "video_id", videoID, "message_id", messageID)
	return messageID, videoID, nil
}

// Clear wipes every document from the corpus bucket and triggers an index
// sync so the knowledge base forgets them too.
func (s *Service) Clear(ctx context.Context) (deleted int, syncJobID string, err error) {
	deleted, err = s.store.DeleteAll(ctx)
	if err != nil {
		return deleted, "", err
	}

	syncJobID, err = s.syncer.StartSync(ctx)
	if err != nil {
		return deleted, "", err
	}

	slog.InfoContext(ctx, "corpus cleared", "deleted_count", deleted, "sync_job_id", syncJobID)
	return deleted, syncJobID, nil
}
