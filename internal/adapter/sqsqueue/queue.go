// Package sqsqueue adapts SQS to the worker's durable-queue contract:
// long-poll receive with a per-message visibility lease, explicit delete to
// acknowledge, and send for producers.
package sqsqueue

import (
	"context"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"tubeqa/internal/worker"
)

// API is the slice of the SQS client the adapter uses.
type API interface {
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

type Queue struct {
	client   API
	queueURL string
}

func New(client API, queueURL string) *Queue {
	return &Queue{client: client, queueURL: queueURL}
}

// SQS rejects the whole request when a parameter is out of range, so the
// adapter clamps rather than letting a misconfigured caller wedge the
// receive loop in permanent backoff.
const (
	maxBatchSize         = 10
	maxWaitSeconds       = 20
	maxVisibilitySeconds = 43200
)

func (q *Queue) Receive(ctx context.Context, max int, wait, visibility time.Duration) ([]worker.Message, error) {
	out, err := q.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
		QueueUrl:            aws.String(q.queueURL),
		MaxNumberOfMessages: clamp(int32(max), 1, maxBatchSize),
		WaitTimeSeconds:     clamp(int32(wait/time.Second), 0, maxWaitSeconds),
		VisibilityTimeout:   clamp(int32(visibility/time.Second), 0, maxVisibilitySeconds),
		MessageSystemAttributeNames: []types.MessageSystemAttributeName{
			types.MessageSystemAttributeNameApproximateReceiveCount,
		},
	})
	if err != nil {
		return nil, err
	}

	messages := make([]worker.Message, 0, len(out.Messages))
	for _, m := range out.Messages {
		receiveCount, _ := strconv.Atoi(m.Attributes[string(types.MessageSystemAttributeNameApproximateReceiveCount)])
		messages = append(messages, worker.Message{
			ID:            aws.ToString(m.MessageId),
			ReceiptHandle: aws.ToString(m.ReceiptHandle),
			Body:          []byte(aws.ToString(m.Body)),
			ReceiveCount:  receiveCount,
		})
	}
	return messages, nil
}

func clamp(v, lo, hi int32) int32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (q *Queue) Delete(ctx context.Context, receiptHandle string) error {
	_, err := q.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(q.queueURL),
		ReceiptHandle: aws.String(receiptHandle),
	})
	return err
}

// Send enqueues a message body and returns the queue-assigned message id.
func (q *Queue) Send(ctx context.Context, body []byte) (string, error) {
	out, err := q.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(q.queueURL),
		MessageBody: aws.String(string(body)),
	})
	if err != nil {
		return "", err
	}
	return aws.ToString(out.MessageId), nil
}
