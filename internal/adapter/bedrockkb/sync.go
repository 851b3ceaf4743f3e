// Package bedrockkb wraps the managed knowledge base: triggering index syncs
// after documents change, and answering questions with retrieve-and-generate.
package bedrockkb

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagent"
)

type SyncAPI interface {
	StartIngestionJob(ctx context.Context, params *bedrockagent.StartIngestionJobInput, optFns ...func(*bedrockagent.Options)) (*bedrockagent.StartIngestionJobOutput, error)
}

// Syncer triggers a rescan of the knowledge base's data source. Sync runs
// server-side over the whole bucket; callers fire and forget.
type Syncer struct {
	client       SyncAPI
	kbID         string
	dataSourceID string
}

func NewSyncer(client SyncAPI, kbID, dataSourceID string) *Syncer {
	return &Syncer{client: client, kbID: kbID, dataSourceID: dataSourceID}
}

func (s *Syncer) StartSync(ctx context.Context) (string, error) {
	out, err := s.client.StartIngestionJob(ctx, &bedrockagent.StartIngestionJobInput{
		KnowledgeBaseId: aws.String(s.kbID),
		DataSourceId:    aws.String(s.dataSourceID),
	})
	if err != nil {
		return "", err
	}
	if out.IngestionJob == nil {
		return "", nil
	}
	return aws.ToString(out.IngestionJob.IngestionJobId), nil
}
