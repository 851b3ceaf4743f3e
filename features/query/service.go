package query

import (
	"context"
	"log/slog"
	"time"

	"tubeqa/internal/adapter/bedrockkb"
)

type Service struct {
	answerer Answerer
}

func NewService(a Answerer) *Service {
	return &Service{answerer: a}
}

// Answer runs retrieve-and-generate over the indexed corpus. videoID narrows
// nothing yet: per-document retrieval filtering needs metadata filters on the
// knowledge base side, so for now it is only logged.
func (s *Service) Answer(ctx context.Context, question, videoID string) (*bedrockkb.Answer, error) {
	start := time.Now()

	answer, err := s.answerer.Ask(ctx, question)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "query answered",
		"question_len", len(question),
		"video_id", videoID,
		"sources", len(answer.Sources),
		"session_id", answer.SessionID,
		"duration", time.Since(start))
	return answer, nil
}
