package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// Assembler turns fetched assets into the final render. Every method writes
// its output into the job's scratch directory and returns the output path.
type Assembler struct {
	enc Encoder
	log *logrus.Entry
}

func NewAssembler(enc Encoder, logger *logrus.Logger) *Assembler {
	return &Assembler{
		enc: enc,
		log: logger.WithField("component", "media"),
	}
}

// BuildSegment renders one still image into a silent clip of exactly
// durationSec, with the motion effect and color grade applied. A failure here
// is fatal to the job, so the error names the segment index.
func (a *Assembler) BuildSegment(ctx context.Context, imagePath string, index int, durationSec float64, effect, grade, outPath string) error {
	vf := SegmentFilter(effect, grade, durationSec)

	args := []string{
		"-loop", "1",
		"-t", fmt.Sprintf("%.3f", durationSec),
		"-i", imagePath,
		"-vf", vf,
		"-c:v", "libx264",
		"-preset", "veryfast",
		"-crf", "28",
		"-r", "30",
		"-pix_fmt", "yuv420p",
		"-an",
		outPath,
	}

	if err := a.enc.Run(ctx, args); err != nil {
		return fmt.Errorf("segment %d failed: %w", index, err)
	}
	return nil
}

// Concatenate joins segments in order into one silent video. Segments share
// encode parameters, so stream copy works; if the demuxer still balks, fall
// back to a re-encode.
func (a *Assembler) Concatenate(ctx context.Context, segmentPaths []string, dir, outPath string) error {
	if len(segmentPaths) == 0 {
		return fmt.Errorf("no segments to concatenate")
	}
	if len(segmentPaths) == 1 {
		return copyFile(segmentPaths[0], outPath)
	}

	listPath := filepath.Join(dir, "segments.txt")
	var b strings.Builder
	for _, p := range segmentPaths {
		fmt.Fprintf(&b, "file '%s'\n", p)
	}
	if err := os.WriteFile(listPath, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("failed to write concat list: %w", err)
	}

	copyArgs := []string{
		"-f", "concat", "-safe", "0",
		"-i", listPath,
		"-c", "copy",
		outPath,
	}
	if err := a.enc.Run(ctx, copyArgs); err == nil {
		return nil
	}

	a.log.Warn("stream-copy concat failed, re-encoding")
	reencodeArgs := []string{
		"-f", "concat", "-safe", "0",
		"-i", listPath,
		"-c:v", "libx264",
		"-preset", "veryfast",
		"-crf", "28",
		"-pix_fmt", "yuv420p",
		"-r", "30",
		outPath,
	}
	if err := a.enc.Run(ctx, reencodeArgs); err != nil {
		return fmt.Errorf("concat failed: %w", err)
	}
	return nil
}

// MixAudio folds looped background music under the narration at low volume.
// Returns the mixed audio path, or the narration path unchanged when there is
// no music or the mix fails — music is cosmetic, the job keeps going.
func (a *Assembler) MixAudio(ctx context.Context, narrationPath, bgmPath, outPath string) string {
	if bgmPath == "" {
		return narrationPath
	}
	if _, err := os.Stat(bgmPath); err != nil {
		a.log.WithField("path", bgmPath).Warn("background music file missing, skipping mix")
		return narrationPath
	}

	// amerge + pan sums channels instead of overlaying, which avoids
	// clipping when both streams peak together.
	args := []string{
		"-i", narrationPath,
		"-stream_loop", "-1",
		"-i", bgmPath,
		"-filter_complex",
		"[1:a]volume=0.2[bgm];[0:a][bgm]amerge=inputs=2,pan=stereo|c0<c0+c2|c1<c1+c3[aout]",
		"-map", "[aout]",
		"-c:a", "aac",
		"-b:a", "192k",
		"-shortest",
		outPath,
	}

	if err := a.enc.Run(ctx, args); err != nil {
		a.log.WithError(err).Warn("background music mix failed, continuing with narration only")
		return narrationPath
	}
	return outPath
}

// Merge muxes the silent video with the final audio. Video is stream-copied;
// if the mux fails, retry with a re-encode before giving up.
func (a *Assembler) Merge(ctx context.Context, videoPath, audioPath, outPath string) error {
	copyArgs := []string{
		"-i", videoPath,
		"-i", audioPath,
		"-c:v", "copy",
		"-c:a", "aac",
		"-b:a", "192k",
		"-shortest",
		outPath,
	}
	if err := a.enc.Run(ctx, copyArgs); err == nil {
		return nil
	}

	a.log.Warn("stream-copy merge failed, re-encoding")
	reencodeArgs := []string{
		"-i", videoPath,
		"-i", audioPath,
		"-c:v", "libx264",
		"-preset", "veryfast",
		"-crf", "28",
		"-c:a", "aac",
		"-b:a", "192k",
		"-shortest",
		outPath,
	}
	if err := a.enc.Run(ctx, reencodeArgs); err != nil {
		return fmt.Errorf("audio merge failed: %w", err)
	}
	return nil
}

// BurnCaptions hard-renders the subtitle file into the video. Tries the
// subtitles filter first, then the ass filter. Returns the captioned path on
// success or the input path on failure — captions are enhancement, their
// absence is logged, not fatal.
func (a *Assembler) BurnCaptions(ctx context.Context, videoPath, assPath, outPath string) string {
	escaped := EscapeFilterPath(assPath)

	for _, vf := range []string{
		fmt.Sprintf("subtitles='%s'", escaped),
		fmt.Sprintf("ass='%s'", escaped),
	} {
		args := []string{
			"-i", videoPath,
			"-vf", vf,
			"-c:v", "libx264",
			"-preset", "fast",
			"-crf", "23",
			"-c:a", "copy",
			"-pix_fmt", "yuv420p",
			"-r", "30",
			outPath,
		}
		if err := a.enc.Run(ctx, args); err != nil {
			a.log.WithError(err).Warn("caption burn attempt failed")
			continue
		}
		return outPath
	}

	a.log.Warn("caption burn failed, delivering video without captions")
	return videoPath
}

// EscapeFilterPath escapes a file path for use inside an ffmpeg filter
// string, where backslashes, colons, and quotes are special.
func EscapeFilterPath(path string) string {
	path = strings.ReplaceAll(path, "\\", "\\\\")
	path = strings.ReplaceAll(path, ":", "\\:")
	path = strings.ReplaceAll(path, "'", "'\\''")
	return path
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", src, err)
	}
	if err := os.WriteFile(dst, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", dst, err)
	}
	return nil
}
