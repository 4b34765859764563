package alignment

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"

	"github.com/reelsbot/reels/internal/cache"
	"github.com/reelsbot/reels/internal/models"
)

// WordCache stores alignment results keyed by audio content.
type WordCache interface {
	GetWords(ctx context.Context, key string) ([]models.Word, error)
	PutWords(ctx context.Context, key string, words []models.Word) error
}

// Aligner produces word-level timestamps from narration audio via Whisper,
// memoized through a content-addressed cache. Cache failures are logged and
// ignored — the cache only saves money, it never gates correctness.
type Aligner struct {
	client *openai.Client
	cache  WordCache
	log    *logrus.Entry
}

// New builds an Aligner. A nil cache disables memoization. An empty API key
// returns a nil Aligner, which callers treat as "alignment unavailable".
func New(apiKey string, wordCache WordCache, logger *logrus.Logger) *Aligner {
	if apiKey == "" {
		return nil
	}
	return &Aligner{
		client: openai.NewClient(apiKey),
		cache:  wordCache,
		log:    logger.WithField("component", "alignment"),
	}
}

// AlignWords returns word timestamps for the given narration audio.
func (a *Aligner) AlignWords(ctx context.Context, audio []byte) ([]models.Word, error) {
	key := cache.Key(audio)

	if a.cache != nil {
		words, err := a.cache.GetWords(ctx, key)
		if err != nil {
			a.log.WithError(err).Warn("alignment cache read failed")
		} else if words != nil {
			a.log.WithField("words", len(words)).Debug("alignment cache hit")
			return words, nil
		}
	}

	resp, err := a.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    openai.Whisper1,
		Reader:   bytes.NewReader(audio),
		FilePath: "narration.mp3", // filename hint required by the library
		Format:   openai.AudioResponseFormatVerboseJSON,
		Language: "en",
		TimestampGranularities: []openai.TranscriptionTimestampGranularity{
			openai.TranscriptionTimestampGranularityWord,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("whisper transcription failed: %w", err)
	}

	if len(resp.Words) == 0 {
		return nil, fmt.Errorf("whisper returned no word timestamps (text: %q)", resp.Text)
	}

	words := make([]models.Word, len(resp.Words))
	for i, w := range resp.Words {
		words[i] = models.Word{
			Word:  strings.TrimSpace(w.Word),
			Start: w.Start,
			End:   w.End,
		}
	}

	if a.cache != nil {
		if err := a.cache.PutWords(ctx, key, words); err != nil {
			a.log.WithError(err).Warn("alignment cache write failed")
		}
	}

	a.log.WithField("words", len(words)).Info("aligned narration")
	return words, nil
}
