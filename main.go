package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagent"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"tubeqa/features/ingest"
	"tubeqa/features/query"
	"tubeqa/internal/adapter/bedrockkb"
	"tubeqa/internal/adapter/s3store"
	"tubeqa/internal/adapter/sqsqueue"
	"tubeqa/internal/config"
	"tubeqa/internal/logger"
	"tubeqa/internal/middleware"
	"tubeqa/internal/transcript"
	"tubeqa/internal/worker"
)

func main() {
	// Structured logger; every record picks up the correlation id from ctx.
	log := slog.New(logger.NewContextHandler(slog.NewJSONHandler(os.Stdout, nil)))
	slog.SetDefault(log)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if !cfg.EnableAPI && !cfg.EnableIngestWorker {
		slog.Error("nothing to run: both ENABLE_API and ENABLE_INGEST_WORKER are off")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		slog.Error("failed to load AWS config", "error", err)
		os.Exit(1)
	}
	slog.Info("aws clients initialized", "region", cfg.AWSRegion)

	// Shared adapters
	queue := sqsqueue.New(sqs.NewFromConfig(awsCfg), cfg.QueueURL)
	store := s3store.New(s3.NewFromConfig(awsCfg), cfg.KBBucket)
	syncer := bedrockkb.NewSyncer(bedrockagent.NewFromConfig(awsCfg), cfg.KBID, cfg.KBDataSourceID)

	// Ingestion worker
	var workerDone chan struct{}
	if cfg.EnableIngestWorker {
		consumer := worker.NewIngestConsumer(transcript.NewFetcher(), store, syncer)
		loop := worker.NewLoop(queue, consumer, worker.LoopConfig{
			BatchSize:   cfg.ReceiveBatchSize,
			Wait:        time.Duration(cfg.ReceiveWaitSeconds) * time.Second,
			Visibility:  time.Duration(cfg.VisibilityTimeoutSeconds) * time.Second,
			PollBackoff: time.Duration(cfg.PollBackoffSeconds) * time.Second,
		})

		workerDone = make(chan struct{})
		go func() {
			defer close(workerDone)
			if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				slog.Error("ingestion loop exited", "error", err)
				stop()
			}
		}()
	}

	// API
	var srv *http.Server
	if cfg.EnableAPI {
		answerer := bedrockkb.NewAnswerer(bedrockagentruntime.NewFromConfig(awsCfg), cfg.KBID, cfg.BedrockModelARN)

		ingestHandler := ingest.NewHandler(ingest.NewService(queue, store, syncer))
		queryHandler := query.NewHandler(query.NewService(answerer))

		mux := http.NewServeMux()
		mux.Handle("POST /ingest", middleware.CorrelationID(middleware.CORS(ingestHandler.Submit)))
		mux.Handle("POST /clear", middleware.CorrelationID(middleware.CORS(ingestHandler.Clear)))
		mux.Handle("POST /query", middleware.CorrelationID(middleware.CORS(queryHandler.Query)))
		mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			fmt.Fprintf(w, `{"status":"healthy","aws_region":%q,"kb_id":%q}`, cfg.AWSRegion, cfg.KBID)
		})

		srv = &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			slog.Info("server starting", "port", cfg.ServerPort)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("server failed", "error", err)
				stop()
			}
		}()
	}

	<-ctx.Done()
	slog.Info("shutdown requested")

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Warn("server shutdown", "error", err)
		}
	}
	if workerDone != nil {
		// The loop finishes its in-flight message before exiting.
		<-workerDone
	}
	slog.Info("shutdown complete")
}
