package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/reelsbot/reels/internal/models"
)

// AlignmentCache stores word-alignment results keyed by a digest of the
// audio bytes, so re-running assembly for the same narration never pays for
// a second transcription.
type AlignmentCache struct {
	client *redis.Client
	ttl    time.Duration
}

func New(redisURL string) (*AlignmentCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &AlignmentCache{client: client, ttl: 7 * 24 * time.Hour}, nil
}

// Key derives the cache key for an audio file from its content, so the same
// narration uploaded twice hits the same entry.
func Key(audio []byte) string {
	sum := sha256.Sum256(audio)
	return "alignment:" + hex.EncodeToString(sum[:])
}

func (c *AlignmentCache) GetWords(ctx context.Context, key string) ([]models.Word, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read alignment cache: %w", err)
	}

	var words []models.Word
	if err := json.Unmarshal(data, &words); err != nil {
		return nil, fmt.Errorf("failed to decode cached alignment: %w", err)
	}
	return words, nil
}

func (c *AlignmentCache) PutWords(ctx context.Context, key string, words []models.Word) error {
	data, err := json.Marshal(words)
	if err != nil {
		return fmt.Errorf("failed to encode alignment: %w", err)
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write alignment cache: %w", err)
	}
	return nil
}

func (c *AlignmentCache) Close() error {
	return c.client.Close()
}
