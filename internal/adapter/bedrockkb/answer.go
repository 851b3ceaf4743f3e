package bedrockkb

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime/types"
	smithydocument "github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime/document"
)

const (
	chunkIDMetadataKey = "x-amz-bedrock-kb-chunk-id"
	maxExcerptLen      = 500
)

type Answer struct {
	Text      string   `json:"answer"`
	SessionID string   `json:"session_id"`
	Sources   []Source `json:"sources"`
}

type Source struct {
	S3URI   string `json:"s3_uri"`
	ChunkID string `json:"chunk_id"`
	Excerpt string `json:"excerpt"`
	VideoID string `json:"video_id,omitempty"`
}

type RuntimeAPI interface {
	RetrieveAndGenerate(ctx context.Context, params *bedrockagentruntime.RetrieveAndGenerateInput, optFns ...func(*bedrockagentruntime.Options)) (*bedrockagentruntime.RetrieveAndGenerateOutput, error)
}

// Answerer asks the knowledge base a question and reshapes the citations
// into a flat source list.
type Answerer struct {
	client   RuntimeAPI
	kbID     string
	modelARN string
}

func NewAnswerer(client RuntimeAPI, kbID, modelARN string) *Answerer {
	return &Answerer{client: client, kbID: kbID, modelARN: modelARN}
}

func (a *Answerer) Ask(ctx context.Context, question string) (*Answer, error) {
	out, err := a.client.RetrieveAndGenerate(ctx, &bedrockagentruntime.RetrieveAndGenerateInput{
		Input: &types.RetrieveAndGenerateInput{Text: aws.String(question)},
		RetrieveAndGenerateConfiguration: &types.RetrieveAndGenerateConfiguration{
			Type: types.RetrieveAndGenerateTypeKnowledgeBase,
			KnowledgeBaseConfiguration: &types.KnowledgeBaseRetrieveAndGenerateConfiguration{
				KnowledgeBaseId: aws.String(a.kbID),
				ModelArn:        aws.String(a.modelARN),
			},
		},
	})
	if err != nil {
		return nil, err
	}
	return parseAnswer(out), nil
}

func parseAnswer(out *bedrockagentruntime.RetrieveAndGenerateOutput) *Answer {
	answer := &Answer{
		SessionID: aws.ToString(out.SessionId),
		Sources:   []Source{},
	}
	if out.Output != nil {
		answer.Text = aws.ToString(out.Output.Text)
	}

	seen := map[string]bool{}
	for _, citation := range out.Citations {
		for _, ref := range citation.RetrievedReferences {
			chunkID := metadataString(ref.Metadata, chunkIDMetadataKey)
			if seen[chunkID] {
				continue
			}
			seen[chunkID] = true

			src := Source{ChunkID: chunkID}
			if ref.Location != nil && ref.Location.S3Location != nil {
				src.S3URI = aws.ToString(ref.Location.S3Location.Uri)
				src.VideoID = videoIDFromURI(src.S3URI)
			}
			if ref.Content != nil {
				src.Excerpt = truncateExcerpt(aws.ToString(ref.Content.Text))
			}
			answer.Sources = append(answer.Sources, src)
		}
	}
	return answer
}

func metadataString(meta map[string]smithydocument.Interface, key string) string {
	doc, ok := meta[key]
	if !ok || doc == nil {
		return ""
	}
	var s string
	if err := doc.UnmarshalSmithyDocument(&s); err != nil {
		return ""
	}
	return s
}

// videoIDFromURI recovers the video id from a document URI shaped
// s3://bucket/VIDEO_ID.txt; empty when the key has another shape.
func videoIDFromURI(uri string) string {
	name := uri
	if i := strings.LastIndexByte(uri, '/'); i >= 0 {
		name = uri[i+1:]
	}
	id, ok := strings.CutSuffix(name, ".txt")
	if !ok {
		return ""
	}
	return id
}

// truncateExcerpt caps the excerpt at maxExcerptLen characters, cutting on a
// rune boundary so multi-byte text is never split mid-character.
func truncateExcerpt(text string) string {
	if utf8.RuneCountInString(text) <= maxExcerptLen {
		return text
	}
	runes := []rune(text)
	return string(runes[:maxExcerptLen]) + "..."
}
