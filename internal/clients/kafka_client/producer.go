package kafka_client

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"

	"github.com/spacesedan/tubesense/internal/clients"
	"github.com/spacesedan/tubesense/internal/models"
)

var producer *kafka.Producer

func InitKafkaProducer(cfg KafkaConfig) error {
	slog.Info("[KafkaClient] Initializing Kafka Producer...")

	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers":   cfg.Broker,
		"security.protocol":   "PLAINTEXT",
		"api.version.request": "true",
		"enable.idempotence":  true,
		"acks":                "all",
	})
	if err != nil {
		return fmt.Errorf("[KafkaClient] Failed to create producer: %w", err)
	}

	producer = p
	slog.Info("[KafkaClient] Kafka Producer initialized successfully")
	return nil
}

func CloseKafkaProducer() {
	slog.Info("[KafkaClient] Shutting down Kafka producer...")
	if producer != nil {
		slog.Info("[KafkaClient] Flushing Kafka producer before shutdown...")
		if remaining := producer.Flush(5000); remaining > 0 {
			slog.Warn("[KafkaClient] Not all messages were delivered before shutdown",
				slog.Int("remaining", remaining))
		}
		producer.Close()
		slog.Info("[KafkaClient] Kafka producer shut down")
	}
}

// PublishSnapshot emits a completed analysis snapshot. Delivery is
// best-effort; callers treat a failure the same as any other persistence
// failure and keep going.
func PublishSnapshot(topic string, snapshot *models.AnalysisSnapshot) error {
	if producer == nil {
		return fmt.Errorf("[KafkaClient] producer is not initialized")
	}

	jsonData, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("[KafkaClient] failed to marshal snapshot: %w", err)
	}

	msg := &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Key:            []byte(snapshot.VideoID),
		Value:          jsonData,
	}

	backoff := clients.INITIAL_BACKOFF
	for i := 0; i < clients.MAX_RETRIES; i++ {
		err = producer.Produce(msg, nil)
		if err == nil {
			break
		}
		slog.Warn("[KafkaClient] Failed to produce message, retrying...",
			slog.Int("attempt", i+1))
		time.Sleep(backoff)
		backoff = clients.NextBackoff(backoff)
	}
	if err != nil {
		return fmt.Errorf("[KafkaClient] failed to produce snapshot event: %w", err)
	}

	slog.Info("[KafkaClient] Published analysis snapshot",
		slog.String("topic", topic),
		slog.String("video_id", snapshot.VideoID))
	return nil
}
