package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/spacesedan/tubesense/config"
	"github.com/spacesedan/tubesense/internal/clients"
	"github.com/spacesedan/tubesense/internal/clients/kafka_client"
	"github.com/spacesedan/tubesense/internal/db"
	"github.com/spacesedan/tubesense/internal/logging"
	"github.com/spacesedan/tubesense/internal/models"
	"github.com/spacesedan/tubesense/internal/sentiment"
	"github.com/spacesedan/tubesense/internal/service"
	"github.com/spacesedan/tubesense/internal/store"
	"github.com/spacesedan/tubesense/internal/utils"
)

// pgSnapshotStore adapts the db package to the service's SnapshotStore.
type pgSnapshotStore struct{}

func (pgSnapshotStore) InsertSnapshot(ctx context.Context, snapshot *models.AnalysisSnapshot) error {
	return db.InsertSnapshot(ctx, snapshot)
}

func (pgSnapshotStore) GetRecentSnapshot(ctx context.Context, videoID string, window time.Duration) (*models.AnalysisSnapshot, error) {
	return db.GetRecentSnapshot(ctx, videoID, window)
}

type dynamoCommentArchive struct{}

func (dynamoCommentArchive) BatchInsertComments(ctx context.Context, comments []*models.Comment) error {
	return db.BatchInsertComments(ctx, comments)
}

type kafkaSnapshotPublisher struct {
	topic string
}

func (p kafkaSnapshotPublisher) PublishSnapshot(snapshot *models.AnalysisSnapshot) error {
	return kafka_client.PublishSnapshot(p.topic, snapshot)
}

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)
	logging.InitLogger()

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: analyzer <youtube-url-or-video-id> [--refresh]")
		os.Exit(2)
	}

	videoID, err := utils.ExtractVideoID(os.Args[1])
	if err != nil {
		printResponse(service.BuildResponse(nil, err))
		os.Exit(1)
	}
	forceRefresh := len(os.Args) > 2 && os.Args[2] == "--refresh"

	accessToken := os.Getenv("YOUTUBE_ACCESS_TOKEN")
	if accessToken == "" {
		slog.Error("[Main] YOUTUBE_ACCESS_TOKEN is not set")
		os.Exit(1)
	}

	analyzer, err := buildAnalyzer()
	if err != nil {
		slog.Error("[Main] Failed to initialize sentiment analyzer",
			slog.String("error", err.Error()))
		printResponse(service.BuildResponse(nil, err))
		os.Exit(1)
	}

	opts := []service.ServiceOption{
		service.WithCacheTTL(envDuration("CACHE_TTL_HOURS", 24) * time.Hour),
		service.WithBatchSize(envInt("SENTIMENT_BATCH_SIZE", sentiment.DEFAULT_BATCH_SIZE)),
		service.WithTopNegativeLimit(envInt("TOP_NEGATIVE_LIMIT", service.DEFAULT_TOP_NEGATIVE_LIMIT)),
	}

	if os.Getenv("VALKEY_INIT_ADDRESS") != "" {
		opts = append(opts, service.WithSnapshotCache(clients.InitValkey()))
		defer clients.CloseValkey()
	}

	if os.Getenv("DB_HOST") != "" {
		if err := db.InitDB(); err != nil {
			slog.Warn("[Main] Postgres unavailable, snapshots will not be persisted",
				slog.String("error", err.Error()))
		} else {
			opts = append(opts, service.WithSnapshotStore(pgSnapshotStore{}))
			defer db.CloseDB()
		}
	}

	if os.Getenv("AWS_ENDPOINT") != "" {
		db.InitDynamoDB()
		opts = append(opts, service.WithCommentArchive(dynamoCommentArchive{}))
	}

	if os.Getenv("KAFKA_BROKER") != "" {
		cfg := kafka_client.GetKafkaConfig()
		if err := kafka_client.InitKafkaProducer(cfg); err != nil {
			slog.Warn("[Main] Kafka unavailable, snapshot events will not be published",
				slog.String("error", err.Error()))
		} else {
			opts = append(opts, service.WithSnapshotPublisher(kafkaSnapshotPublisher{topic: cfg.Topic}))
			defer kafka_client.CloseKafkaProducer()
		}
	}

	fetcher := clients.NewYouTubeClient(accessToken)
	svc := service.NewAnalysisService(fetcher, analyzer, store.NewCommentStore(), opts...)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	snapshot, err := svc.AnalyzeVideo(ctx, videoID, forceRefresh)
	resp := service.BuildResponse(snapshot, err)
	printResponse(resp)

	if !resp.Success {
		os.Exit(1)
	}
}

func buildAnalyzer() (sentiment.Analyzer, error) {
	if os.Getenv("SENTIMENT_ENGINE") == "vader" {
		slog.Info("[Main] Using VADER sentiment engine")
		return sentiment.NewVaderAnalyzer(), nil
	}

	engine, err := sentiment.GetEngine()
	if err != nil {
		return nil, err
	}

	var robertaOpts []sentiment.RobertaOption
	if os.Getenv("SEQUENTIAL_FALLBACK") == "true" {
		robertaOpts = append(robertaOpts, sentiment.WithSequentialFallback(true))
	}
	return sentiment.NewRobertaAnalyzer(engine, robertaOpts...), nil
}

func printResponse(resp models.AnalyzeResponse) {
	out, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		slog.Error("[Main] Failed to marshal response",
			slog.String("error", err.Error()))
		return
	}
	fmt.Println(string(out))
}

func envInt(key string, defaultValue int) int {
	if raw := os.Getenv(key); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			return v
		}
	}
	return defaultValue
}

func envDuration(key string, defaultHours int) time.Duration {
	return time.Duration(envInt(key, defaultHours))
}
