package alignment

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/reelsbot/reels/internal/cache"
	"github.com/reelsbot/reels/internal/models"
)

type memCache struct {
	entries map[string][]models.Word
	failGet bool
	puts    int
}

func (m *memCache) GetWords(ctx context.Context, key string) ([]models.Word, error) {
	if m.failGet {
		return nil, errors.New("redis down")
	}
	return m.entries[key], nil
}

func (m *memCache) PutWords(ctx context.Context, key string, words []models.Word) error {
	m.puts++
	m.entries[key] = words
	return nil
}

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

func TestNewWithoutKeyDisablesAlignment(t *testing.T) {
	if a := New("", nil, testLogger()); a != nil {
		t.Error("empty API key should return a nil aligner")
	}
}

func TestAlignWordsCacheHitSkipsTranscription(t *testing.T) {
	audio := []byte("narration bytes")
	cached := []models.Word{{Word: "hello", Start: 0, End: 0.5}}

	mc := &memCache{entries: map[string][]models.Word{
		cache.Key(audio): cached,
	}}

	// The API key is fake; a cache hit must return before any API call.
	a := New("sk-test", mc, testLogger())
	words, err := a.AlignWords(context.Background(), audio)
	if err != nil {
		t.Fatalf("AlignWords() error: %v", err)
	}
	if len(words) != 1 || words[0].Word != "hello" {
		t.Errorf("words = %v, want cached entry", words)
	}
	if mc.puts != 0 {
		t.Error("cache hit should not trigger a write")
	}
}
