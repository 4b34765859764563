package media

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// Encoder runs media transformations. The pipeline depends on this interface
// rather than invoking the binary directly, so tests can substitute a fake.
type Encoder interface {
	// Run executes an encode with the given arguments. On failure the error
	// carries a truncated diagnostic excerpt.
	Run(ctx context.Context, args []string) error

	// Duration probes a media file's duration in seconds.
	Duration(ctx context.Context, path string) (float64, error)
}

// FFmpeg shells out to ffmpeg/ffprobe.
type FFmpeg struct {
	FFmpegBin  string
	FFprobeBin string
}

func NewFFmpeg() *FFmpeg {
	return &FFmpeg{FFmpegBin: "ffmpeg", FFprobeBin: "ffprobe"}
}

const encodeTimeout = 10 * time.Minute

func (f *FFmpeg) Run(ctx context.Context, args []string) error {
	ctx, cancel := context.WithTimeout(ctx, encodeTimeout)
	defer cancel()

	full := append([]string{"-y"}, args...)
	cmd := exec.CommandContext(ctx, f.FFmpegBin, full...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg failed: %w: %s", err, excerpt(stderr.String(), 240))
	}
	return nil
}

func (f *FFmpeg) Duration(ctx context.Context, path string) (float64, error) {
	args := []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	}

	cmd := exec.CommandContext(ctx, f.FFprobeBin, args...)
	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe failed for %s: %w", path, err)
	}

	sec, err := strconv.ParseFloat(strings.TrimSpace(string(output)), 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse duration for %s: %w", path, err)
	}
	return sec, nil
}

// excerpt keeps the tail of stderr, where ffmpeg puts the actual error.
func excerpt(s string, maxLen int) string {
	s = strings.TrimSpace(s)
	if len(s) <= maxLen {
		return s
	}
	return "..." + s[len(s)-maxLen:]
}
