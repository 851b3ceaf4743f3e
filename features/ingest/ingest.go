package ingest

import "context"

// DefaultCollection is the collection every submitted video lands in until
// multi-collection support exists.
const DefaultCollection = "default"

type Publisher interface {
	Send(ctx context.Context, body []byte) (string, error)
}

type CorpusStore interface {
	DeleteAll(ctx context.Context) (int, error)
}

type IndexSyncer interface {
	StartSync(ctx context.Context) (string, error)
}
