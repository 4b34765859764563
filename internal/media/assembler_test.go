package media

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

// fakeEncoder records every Run invocation and fails calls whose args match
// failOn substrings (consumed one per match, so fallbacks can then succeed).
type fakeEncoder struct {
	calls  [][]string
	failOn []string
}

func (f *fakeEncoder) Run(ctx context.Context, args []string) error {
	f.calls = append(f.calls, args)
	joined := strings.Join(args, " ")
	for i, pattern := range f.failOn {
		if strings.Contains(joined, pattern) {
			f.failOn = append(f.failOn[:i], f.failOn[i+1:]...)
			return errors.New("encode failed: simulated")
		}
	}
	// Pretend to produce the output file (last arg).
	out := args[len(args)-1]
	return os.WriteFile(out, []byte("fake output"), 0644)
}

func (f *fakeEncoder) Duration(ctx context.Context, path string) (float64, error) {
	return 10.0, nil
}

func (f *fakeEncoder) lastCall() []string {
	if len(f.calls) == 0 {
		return nil
	}
	return f.calls[len(f.calls)-1]
}

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

func newTestAssembler() (*Assembler, *fakeEncoder) {
	enc := &fakeEncoder{}
	return NewAssembler(enc, testLogger()), enc
}

func TestBuildSegmentErrorNamesIndex(t *testing.T) {
	a, enc := newTestAssembler()
	enc.failOn = []string{"libx264"}

	err := a.BuildSegment(context.Background(), "/tmp/img.jpg", 3, 2.0, "ken_burns", "none", filepath.Join(t.TempDir(), "seg.mp4"))
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "segment 3") {
		t.Errorf("error %q should name the segment index", err)
	}
}

func TestConcatenateSingleSegment(t *testing.T) {
	a, enc := newTestAssembler()
	dir := t.TempDir()

	seg := filepath.Join(dir, "seg_000.mp4")
	if err := os.WriteFile(seg, []byte("segment"), 0644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "concat.mp4")

	if err := a.Concatenate(context.Background(), []string{seg}, dir, out); err != nil {
		t.Fatalf("Concatenate() error: %v", err)
	}
	if len(enc.calls) != 0 {
		t.Error("single segment should not invoke the encoder")
	}
	data, _ := os.ReadFile(out)
	if string(data) != "segment" {
		t.Error("single segment should be copied through")
	}
}

func TestConcatenateFallsBackToReencode(t *testing.T) {
	a, enc := newTestAssembler()
	enc.failOn = []string{"-c copy"}
	dir := t.TempDir()

	segs := []string{filepath.Join(dir, "a.mp4"), filepath.Join(dir, "b.mp4")}
	out := filepath.Join(dir, "concat.mp4")

	if err := a.Concatenate(context.Background(), segs, dir, out); err != nil {
		t.Fatalf("Concatenate() error: %v", err)
	}
	if len(enc.calls) != 2 {
		t.Fatalf("calls = %d, want 2 (copy then re-encode)", len(enc.calls))
	}
	if !strings.Contains(strings.Join(enc.lastCall(), " "), "libx264") {
		t.Error("fallback call should re-encode")
	}

	// The concat list must name segments in order.
	listData, err := os.ReadFile(filepath.Join(dir, "segments.txt"))
	if err != nil {
		t.Fatalf("reading concat list: %v", err)
	}
	if !strings.Contains(string(listData), "a.mp4") || !strings.Contains(string(listData), "b.mp4") {
		t.Errorf("concat list missing segments: %s", listData)
	}
	if strings.Index(string(listData), "a.mp4") > strings.Index(string(listData), "b.mp4") {
		t.Error("concat list out of order")
	}
}

func TestMixAudioNoMusic(t *testing.T) {
	a, enc := newTestAssembler()

	got := a.MixAudio(context.Background(), "/tmp/narration.mp3", "", "/tmp/mixed.mp3")
	if got != "/tmp/narration.mp3" {
		t.Errorf("got %q, want narration passthrough", got)
	}
	if len(enc.calls) != 0 {
		t.Error("no music should mean no encoder call")
	}
}

func TestMixAudioFailureFallsBackToNarration(t *testing.T) {
	a, enc := newTestAssembler()
	enc.failOn = []string{"amerge"}
	dir := t.TempDir()

	bgm := filepath.Join(dir, "bgm.mp3")
	os.WriteFile(bgm, []byte("music"), 0644)

	got := a.MixAudio(context.Background(), "/tmp/narration.mp3", bgm, filepath.Join(dir, "mixed.mp3"))
	if got != "/tmp/narration.mp3" {
		t.Errorf("got %q, want narration fallback after mix failure", got)
	}
}

func TestMixAudioFoldsChannels(t *testing.T) {
	a, enc := newTestAssembler()
	dir := t.TempDir()

	bgm := filepath.Join(dir, "bgm.mp3")
	os.WriteFile(bgm, []byte("music"), 0644)
	out := filepath.Join(dir, "mixed.mp3")

	got := a.MixAudio(context.Background(), "/tmp/narration.mp3", bgm, out)
	if got != out {
		t.Errorf("got %q, want %q", got, out)
	}

	joined := strings.Join(enc.lastCall(), " ")
	if !strings.Contains(joined, "volume=0.2") {
		t.Error("music should be attenuated to 0.2")
	}
	if !strings.Contains(joined, "pan=stereo|c0<c0+c2|c1<c1+c3") {
		t.Error("mix should fold channels instead of overlaying")
	}
	if !strings.Contains(joined, "-stream_loop -1") {
		t.Error("music should loop to cover the narration")
	}
}

func TestMergeFallsBackToReencode(t *testing.T) {
	a, enc := newTestAssembler()
	enc.failOn = []string{"-c:v copy"}
	out := filepath.Join(t.TempDir(), "merged.mp4")

	if err := a.Merge(context.Background(), "/tmp/video.mp4", "/tmp/audio.mp3", out); err != nil {
		t.Fatalf("Merge() error: %v", err)
	}
	if len(enc.calls) != 2 {
		t.Fatalf("calls = %d, want 2", len(enc.calls))
	}
}

func TestBurnCaptionsFallbackChain(t *testing.T) {
	a, enc := newTestAssembler()
	enc.failOn = []string{"subtitles="}
	out := filepath.Join(t.TempDir(), "final.mp4")

	got := a.BurnCaptions(context.Background(), "/tmp/merged.mp4", "/tmp/captions.ass", out)
	if got != out {
		t.Errorf("got %q, want %q after ass-filter fallback", got, out)
	}
	if !strings.Contains(strings.Join(enc.lastCall(), " "), "ass=") {
		t.Error("second attempt should use the ass filter")
	}
}

func TestBurnCaptionsTotalFailureKeepsVideo(t *testing.T) {
	a, enc := newTestAssembler()
	enc.failOn = []string{"subtitles=", "ass="}

	got := a.BurnCaptions(context.Background(), "/tmp/merged.mp4", "/tmp/captions.ass", "/tmp/final.mp4")
	if got != "/tmp/merged.mp4" {
		t.Errorf("got %q, want uncaptioned input after total failure", got)
	}
}
