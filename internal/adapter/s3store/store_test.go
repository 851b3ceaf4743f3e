package s3store_test

import (
	"context"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"tubeqa/internal/adapter/s3store"
)

type mockS3 struct{ mock.Mock }

func (m *mockS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, params)
	return &s3.PutObjectOutput{}, args.Error(0)
}

func (m *mockS3) ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.ListObjectsV2Output), args.Error(1)
}

func (m *mockS3) DeleteObjects(ctx context.Context, params *s3.DeleteObjectsInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error) {
	args := m.Called(ctx, params)
	return &s3.DeleteObjectsOutput{}, args.Error(0)
}

func TestStore_Put(t *testing.T) {
	client := new(mockS3)
	store := s3store.New(client, "tubeqa-kb")

	client.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		body, _ := io.ReadAll(in.Body)
		return aws.ToString(in.Bucket) == "tubeqa-kb" &&
			aws.ToString(in.Key) == "abc123.txt" &&
			aws.ToString(in.ContentType) == "text/plain; charset=utf-8" &&
			string(body) == "doc"
	})).Return(nil)

	err := store.Put(context.Background(), "abc123.txt", []byte("doc"), "text/plain; charset=utf-8")
	assert.NoError(t, err)
	client.AssertExpectations(t)
}

func TestStore_DeleteAll_Paginates(t *testing.T) {
	client := new(mockS3)
	store := s3store.New(client, "tubeqa-kb")

	client.On("ListObjectsV2", mock.Anything, mock.MatchedBy(func(in *s3.ListObjectsV2Input) bool {
		return in.ContinuationToken == nil
	})).Return(&s3.ListObjectsV2Output{
		Contents:              []types.Object{{Key: aws.String("a.txt")}, {Key: aws.String("b.txt")}},
		NextContinuationToken: aws.String("page2"),
	}, nil).Once()
	client.On("ListObjectsV2", mock.Anything, mock.MatchedBy(func(in *s3.ListObjectsV2Input) bool {
		return aws.ToString(in.ContinuationToken) == "page2"
	})).Return(&s3.ListObjectsV2Output{
		Contents: []types.Object{{Key: aws.String("c.txt")}},
	}, nil).Once()
	client.On("DeleteObjects", mock.Anything, mock.Anything).Return(nil)

	deleted, err := store.DeleteAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, deleted)
	client.AssertExpectations(t)
}

func TestStore_DeleteAll_EmptyBucket(t *testing.T) {
	client := new(mockS3)
	store := s3store.New(client, "tubeqa-kb")

	client.On("ListObjectsV2", mock.Anything, mock.Anything).Return(&s3.ListObjectsV2Output{}, nil).Once()

	deleted, err := store.DeleteAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, deleted)
	client.AssertNotCalled(t, "DeleteObjects", mock.Anything, mock.Anything)
}
