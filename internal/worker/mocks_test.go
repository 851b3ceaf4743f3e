package worker_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"tubeqa/internal/transcript"
	"tubeqa/internal/worker"
)

// Mocks

type MockQueue struct{ mock.Mock }

func (m *MockQueue) Receive(ctx context.Context, max int, wait, visibility time.Duration) ([]worker.Message, error) {
	args := m.Called(ctx, max, wait, visibility)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]worker.Message), args.Error(1)
}

func (m *MockQueue) Delete(ctx context.Context, receiptHandle string) error {
	args := m.Called(ctx, receiptHandle)
	return args.Error(0)
}

type MockFetcher struct{ mock.Mock }

func (m *MockFetcher) Fetch(ctx context.Context, videoID string) ([]transcript.Segment, error) {
	args := m.Called(ctx, videoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]transcript.Segment), args.Error(1)
}

type MockStore struct{ mock.Mock }

func (m *MockStore) Put(ctx context.Context, key string, body []byte, contentType string) error {
	args := m.Called(ctx, key, body, contentType)
	return args.Error(0)
}

type MockSyncer struct{ mock.Mock }

func (m *MockSyncer) StartSync(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}
