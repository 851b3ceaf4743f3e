package query

import (
	"context"

	"tubeqa/internal/adapter/bedrockkb"
)

type Answerer interface {
	Ask(ctx context.Context, question string) (*bedrockkb.Answer, error)
}
