package worker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/reelsbot/reels/internal/captions"
	"github.com/reelsbot/reels/internal/media"
	"github.com/reelsbot/reels/internal/models"
	"github.com/reelsbot/reels/internal/storage"
)

// ErrCanceled signals that the job observed the cancellation sentinel at a
// checkpoint and stopped cooperatively.
var ErrCanceled = errors.New("assembly canceled")

// Fetcher downloads remote assets into the scratch directory.
type Fetcher interface {
	Download(ctx context.Context, url, destPath string) error
	DownloadImages(ctx context.Context, urls []string, dir string) ([]string, error)
}

// Uploader publishes the finished render.
type Uploader interface {
	UploadFile(ctx context.Context, objectPath, localPath, contentType string) error
	PublicURL(objectPath string) string
}

// WordAligner produces word-level timestamps from narration audio.
type WordAligner interface {
	AlignWords(ctx context.Context, audio []byte) ([]models.Word, error)
}

// MusicResolver maps a mood name to a track URL.
type MusicResolver interface {
	URLForMood(mood string) (string, bool)
}

// runAssembly executes the full pipeline for one claimed job and returns the
// published video URL. Fatal errors abort; degradable features (music,
// captions) fall back and the job still completes.
func (w *Worker) runAssembly(ctx context.Context, job *models.AssemblyJob, r *Reporter) (string, error) {
	p := job.Payload

	if len(p.ImageURLs) == 0 {
		return "", fmt.Errorf("no image URLs provided")
	}
	if p.AudioURL == "" {
		return "", fmt.Errorf("no audio URL provided")
	}

	if err := os.MkdirAll(w.tempDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create scratch root: %w", err)
	}
	dir, err := os.MkdirTemp(w.tempDir, "assemble_"+job.VideoID+"_")
	if err != nil {
		return "", fmt.Errorf("failed to create scratch dir: %w", err)
	}
	defer os.RemoveAll(dir)

	if !r.Step(ctx, "downloading_images", fmt.Sprintf("Downloading %d images", len(p.ImageURLs))) {
		return "", ErrCanceled
	}
	imagePaths, err := w.fetcher.DownloadImages(ctx, p.ImageURLs, dir)
	if err != nil {
		return "", fmt.Errorf("failed to download images: %w", err)
	}

	if !r.Step(ctx, "downloading_audio", "Downloading voiceover") {
		return "", ErrCanceled
	}
	audioPath := filepath.Join(dir, "voiceover.mp3")
	if err := w.fetcher.Download(ctx, p.AudioURL, audioPath); err != nil {
		return "", fmt.Errorf("failed to download audio: %w", err)
	}

	audioDuration, err := w.encoder.Duration(ctx, audioPath)
	if err != nil {
		w.log.WithError(err).Warn("audio duration probe failed, using declared durations")
		audioDuration = 0
	}

	bgmPath := w.fetchBGM(ctx, p, dir, r)

	beatDurations := make([]float64, len(p.Beats))
	for i, b := range p.Beats {
		beatDurations[i] = b.Duration
	}
	durations := media.ResolveDurations(p.Durations, beatDurations, len(imagePaths), audioDuration)

	if !r.Step(ctx, "building_segments", fmt.Sprintf("Building %d motion segments", len(imagePaths))) {
		return "", ErrCanceled
	}
	segmentPaths := make([]string, len(imagePaths))
	for i, imgPath := range imagePaths {
		segmentPaths[i] = filepath.Join(dir, fmt.Sprintf("seg_%03d.mp4", i))
		if err := w.assembler.BuildSegment(ctx, imgPath, i, durations[i], p.MotionEffect, p.ColorGrade, segmentPaths[i]); err != nil {
			return "", err
		}
	}

	if !r.Step(ctx, "joining_clips", "Joining video segments") {
		return "", ErrCanceled
	}
	concatPath := filepath.Join(dir, "video_concat.mp4")
	if err := w.assembler.Concatenate(ctx, segmentPaths, dir, concatPath); err != nil {
		return "", err
	}

	if !r.Step(ctx, "mixing_audio", "Mixing audio") {
		return "", ErrCanceled
	}
	finalAudio := w.assembler.MixAudio(ctx, audioPath, bgmPath, filepath.Join(dir, "final_audio.m4a"))

	if !r.Step(ctx, "merging_audio_video", "Merging video with audio") {
		return "", ErrCanceled
	}
	mergedPath := filepath.Join(dir, "merged.mp4")
	if err := w.assembler.Merge(ctx, concatPath, finalAudio, mergedPath); err != nil {
		return "", err
	}

	finalPath := mergedPath
	if p.IncludeCaptions && len(p.Beats) > 0 {
		finalPath = w.burnCaptions(ctx, p, durations, audioPath, mergedPath, dir, r)
		if finalPath == "" {
			return "", ErrCanceled
		}
	}

	if !r.Step(ctx, "uploading_video", "Uploading video") {
		return "", ErrCanceled
	}
	objectPath := storage.ObjectPath(job.VideoID, "final.mp4")
	if err := w.uploader.UploadFile(ctx, objectPath, finalPath, "video/mp4"); err != nil {
		return "", fmt.Errorf("failed to upload video: %w", err)
	}

	return w.uploader.PublicURL(objectPath), nil
}

// fetchBGM resolves and downloads background music. Every failure here is
// degradable: the job proceeds without music.
func (w *Worker) fetchBGM(ctx context.Context, p models.JobPayload, dir string, r *Reporter) string {
	bgmURL := p.BGMURL
	if bgmURL == "" && p.MusicMood != "" && w.music != nil {
		if url, ok := w.music.URLForMood(p.MusicMood); ok {
			bgmURL = url
		}
	}
	if bgmURL == "" {
		return ""
	}

	if !r.Step(ctx, "downloading_bgm", "Downloading background music") {
		return ""
	}
	bgmPath := filepath.Join(dir, "bgm.mp3")
	if err := w.fetcher.Download(ctx, bgmURL, bgmPath); err != nil {
		w.log.WithError(err).Warn("background music download failed, continuing without music")
		return ""
	}
	return bgmPath
}

// burnCaptions compiles and burns captions into the merged video. Alignment
// timestamps are the canonical timing source; when alignment is unavailable
// or fails, caption timing falls back to apportioning each beat's duration.
// Returns the path to deliver, or "" when cancellation was observed.
func (w *Worker) burnCaptions(ctx context.Context, p models.JobPayload, durations []float64, audioPath, mergedPath, dir string, r *Reporter) string {
	var doc string

	if w.aligner != nil {
		if !r.Step(ctx, "aligning_words", "Aligning narration words") {
			return ""
		}
		if audio, err := os.ReadFile(audioPath); err != nil {
			w.log.WithError(err).Warn("failed to read narration for alignment")
		} else if words, err := w.aligner.AlignWords(ctx, audio); err != nil {
			w.log.WithError(err).Warn("word alignment failed, falling back to beat timing")
		} else {
			doc = captions.FromWords(words, p.CaptionStyle, p.WordsPerLine)
		}
	}

	if doc == "" {
		doc = captions.FromBeats(p.Beats, durations, p.CaptionStyle, p.WordsPerLine)
	}

	if !r.Step(ctx, "burning_captions", "Burning word-by-word captions") {
		return ""
	}

	assPath := filepath.Join(dir, "captions.ass")
	if err := os.WriteFile(assPath, []byte(doc), 0644); err != nil {
		w.log.WithError(err).Warn("failed to write subtitle file, skipping captions")
		return mergedPath
	}

	return w.assembler.BurnCaptions(ctx, mergedPath, assPath, filepath.Join(dir, "final.mp4"))
}
