package clients

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/spacesedan/tubesense/internal/models"
)

var (
	valkeyInstance *ValkeyClient
	valkeyOnce     sync.Once
)

// ValkeyClient caches analysis snapshots keyed by video id. Entry TTL is the
// freshness window, so a cache hit is by definition a fresh snapshot.
type ValkeyClient struct {
	Client valkey.Client
	mu     sync.Mutex
}

const VALKEY_SNAPSHOT_KEY_PREFIX = "tubesense:analysis:"

func valkeyOptions() valkey.ClientOption {
	opts := valkey.ClientOption{
		InitAddress: []string{
			os.Getenv("VALKEY_INIT_ADDRESS"),
		},
		Password:         os.Getenv("VALKEY_PASSWORD"),
		ConnWriteTimeout: 5 * time.Second,
		SelectDB:         0,
	}

	if os.Getenv("VALKEY_TLS") == "true" {
		opts.TLSConfig = &tls.Config{InsecureSkipVerify: false}
	}
	return opts
}

func InitValkey() *ValkeyClient {
	valkeyOnce.Do(func() {
		client, err := valkey.NewClient(valkeyOptions())
		if err != nil {
			panic(fmt.Errorf("[ValkeyClient] failed to create Valkey: %w", err))
		}

		ctx, cancel := context.WithTimeout(context.Background(), time.Second*3)
		defer cancel()

		c := client.Do(ctx, client.B().Ping().Build())
		if c.Error() != nil {
			panic(fmt.Errorf("[ValkeyClient] failed to ping Valkey: %w", c.Error()))
		}

		slog.Info("[ValkeyClient] Successfully connected to valkey")

		valkeyInstance = &ValkeyClient{Client: client}
	})
	return valkeyInstance
}

func (vc *ValkeyClient) recreateClient() {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("[ValkeyClient] Recreate failed and was recovered from panic",
				slog.Any("panic", r))
		}
	}()

	vc.mu.Lock()
	defer vc.mu.Unlock()
	slog.Warn("[ValkeyClient] Attempting to recreate Valkey client...")
	vc.Client.Close()

	client, err := valkey.NewClient(valkeyOptions())
	if err != nil {
		panic(fmt.Errorf("[ValkeyClient] failed to create Valkey: %w", err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*3)
	defer cancel()

	c := client.Do(ctx, client.B().Ping().Build())
	if c.Error() != nil {
		panic(fmt.Errorf("[ValkeyClient] failed to ping Valkey: %w", c.Error()))
	}

	slog.Info("[ValkeyClient] Successfully connected to valkey")
	vc.Client = client
}

func CloseValkey() {
	if valkeyInstance != nil {
		valkeyInstance.Client.Close()
	}
}

func GetValkeyClient() *ValkeyClient {
	if valkeyInstance == nil {
		panic("[ValkeyClient] Error: Valkey client is not initialized")
	}
	return valkeyInstance
}

func snapshotKey(videoID string) string {
	return VALKEY_SNAPSHOT_KEY_PREFIX + videoID
}

// CacheSnapshot stores a snapshot with the given TTL.
func (vc *ValkeyClient) CacheSnapshot(ctx context.Context, snapshot *models.AnalysisSnapshot, ttl time.Duration) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("[ValkeyClient] failed to marshal snapshot: %w", err)
	}

	cmd := vc.Client.B().Set().
		Key(snapshotKey(snapshot.VideoID)).
		Value(string(payload)).
		Ex(ttl).
		Build()

	res := vc.DoWithRetry(ctx, cmd, MAX_RETRIES)
	if err := res.Error(); err != nil {
		return err
	}

	slog.Info("[ValkeyClient] Snapshot cached",
		slog.String("video_id", snapshot.VideoID),
		slog.Duration("ttl", ttl))
	return nil
}

// GetCachedSnapshot returns the cached snapshot for a video, or nil on a miss.
func (vc *ValkeyClient) GetCachedSnapshot(ctx context.Context, videoID string) (*models.AnalysisSnapshot, error) {
	res := vc.DoWithRetry(ctx, vc.Client.B().Get().Key(snapshotKey(videoID)).Build(), MAX_RETRIES)

	if err := res.Error(); err != nil {
		if valkey.IsValkeyNil(err) {
			return nil, nil
		}
		if isConnectionError(err) {
			vc.recreateClient()
		}
		return nil, err
	}

	payload, err := res.AsBytes()
	if err != nil {
		return nil, err
	}

	var snapshot models.AnalysisSnapshot
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		return nil, fmt.Errorf("[ValkeyClient] failed to unmarshal cached snapshot: %w", err)
	}
	return &snapshot, nil
}

// InvalidateSnapshot drops the cached snapshot for a video.
func (vc *ValkeyClient) InvalidateSnapshot(ctx context.Context, videoID string) error {
	res := vc.DoWithRetry(ctx, vc.Client.B().Del().Key(snapshotKey(videoID)).Build(), MAX_RETRIES)
	return res.Error()
}

func (vc *ValkeyClient) DoWithRetry(ctx context.Context, completed valkey.Completed, retries int) valkey.ValkeyResult {
	var result valkey.ValkeyResult
	backoff := INITIAL_BACKOFF
	for i := 0; i < retries; i++ {
		result = vc.Client.Do(ctx, completed)
		if result.Error() == nil || valkey.IsValkeyNil(result.Error()) {
			break
		}

		slog.Warn("[ValkeyClient] Do failed",
			slog.Int("attempt", i+1),
			slog.String("error", result.Error().Error()))

		time.Sleep(backoff)
		backoff = NextBackoff(backoff)
	}

	return result
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "EOF") ||
		strings.Contains(msg, "i/o timeout")
}
