package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

var ErrMissingRequired = errors.New("missing required configuration")

type Config struct {
	AWSRegion string `envconfig:"AWS_REGION" default:"us-east-1"`

	QueueURL       string `envconfig:"SQS_QUEUE_URL"`
	KBBucket       string `envconfig:"KB_BUCKET"`
	KBID           string `envconfig:"KB_ID"`
	KBDataSourceID string `envconfig:"KB_DATA_SOURCE_ID"`

	// Model used by retrieve-and-generate; only the API path needs it.
	BedrockModelARN string `envconfig:"BEDROCK_MODEL_ARN"`

	EnableAPI          bool `envconfig:"ENABLE_API" default:"true"`
	EnableIngestWorker bool `envconfig:"ENABLE_INGEST_WORKER" default:"false"`

	// Server
	ServerPort int `envconfig:"SERVER_PORT" default:"8080"`

	// Worker tuning. The visibility timeout must exceed the worst-case job:
	// transcript fetch plus the S3 put and sync-trigger round trips.
	ReceiveBatchSize         int `envconfig:"RECEIVE_BATCH_SIZE" default:"1"`
	ReceiveWaitSeconds       int `envconfig:"RECEIVE_WAIT_SECONDS" default:"20"`
	VisibilityTimeoutSeconds int `envconfig:"VISIBILITY_TIMEOUT_SECONDS" default:"300"`
	PollBackoffSeconds       int `envconfig:"POLL_BACKOFF_SECONDS" default:"5"`
}

func Load() (*Config, error) {
	// Try loading .env from current dir and repo root.
	// Ignore errors, as env vars might be set in the shell.
	_ = godotenv.Load(".env")

	cwd, _ := os.Getwd()
	_ = godotenv.Load(filepath.Join(cwd, "../.env"))

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.QueueURL == "" {
		return fmt.Errorf("%w: SQS_QUEUE_URL", ErrMissingRequired)
	}
	if c.KBBucket == "" {
		return fmt.Errorf("%w: KB_BUCKET", ErrMissingRequired)
	}
	if c.KBID == "" {
		return fmt.Errorf("%w: KB_ID", ErrMissingRequired)
	}
	if c.KBDataSourceID == "" {
		return fmt.Errorf("%w: KB_DATA_SOURCE_ID", ErrMissingRequired)
	}
	if c.EnableAPI && c.BedrockModelARN == "" {
		return fmt.Errorf("%w: BEDROCK_MODEL_ARN", ErrMissingRequired)
	}
	return nil
}
