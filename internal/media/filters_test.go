package media

import (
	"strings"
	"testing"
)

func TestMotionFilterStatic(t *testing.T) {
	vf := MotionFilter("static", 3.0)
	if strings.Contains(vf, "zoompan") {
		t.Errorf("static filter should not use zoompan: %s", vf)
	}
	if !strings.Contains(vf, "scale=1080:1920") {
		t.Errorf("static filter missing scale: %s", vf)
	}
}

func TestMotionFilterNames(t *testing.T) {
	for _, effect := range []string{"ken_burns", "zoom_pulse", "shake", "parallax"} {
		vf := MotionFilter(effect, 2.5)
		if !strings.Contains(vf, "zoompan") {
			t.Errorf("%s filter missing zoompan: %s", effect, vf)
		}
		if !strings.Contains(vf, "s=1080x1920") {
			t.Errorf("%s filter missing output size: %s", effect, vf)
		}
		if !strings.Contains(vf, "fps=30") {
			t.Errorf("%s filter missing fps: %s", effect, vf)
		}
	}
}

func TestMotionFilterUnknownFallsBack(t *testing.T) {
	if MotionFilter("spiral", 2.0) != MotionFilter("ken_burns", 2.0) {
		t.Error("unknown effect should fall back to ken_burns")
	}
}

func TestMotionFilterMinimumFrames(t *testing.T) {
	// A sub-second beat still gets at least one second of frames.
	vf := MotionFilter("ken_burns", 0.2)
	if !strings.Contains(vf, "d=30") {
		t.Errorf("expected minimum 30 frames, got %s", vf)
	}
}

func TestColorGradeFilter(t *testing.T) {
	if ColorGradeFilter("none") != "" {
		t.Error("grade none should produce no filter")
	}
	if ColorGradeFilter("vibrant") == "" {
		t.Error("grade vibrant should produce a filter")
	}
	if ColorGradeFilter("nonexistent") != ColorGradeFilter("cinematic") {
		t.Error("unknown grade should fall back to cinematic")
	}
}

func TestSegmentFilterChainsGrade(t *testing.T) {
	vf := SegmentFilter("ken_burns", "dark", 2.0)
	if !strings.Contains(vf, "zoompan") || !strings.Contains(vf, "eq=") {
		t.Errorf("segment filter should chain motion and grade: %s", vf)
	}

	plain := SegmentFilter("ken_burns", "none", 2.0)
	if strings.Contains(plain, "eq=") {
		t.Errorf("grade none should not add a grading pass: %s", plain)
	}
}

func TestEscapeFilterPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/tmp/job/captions.ass", "/tmp/job/captions.ass"},
		{"C:\\tmp\\captions.ass", "C\\:\\\\tmp\\\\captions.ass"},
		{"/tmp/it's.ass", "/tmp/it'\\''s.ass"},
	}
	for _, tt := range tests {
		if got := EscapeFilterPath(tt.in); got != tt.want {
			t.Errorf("EscapeFilterPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
