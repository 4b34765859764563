package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

func TestUploadRetriesOn503(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		if r.Method != "PUT" {
			t.Errorf("method = %s, want PUT", r.Method)
		}
		if r.Header.Get("x-upsert") != "true" {
			t.Error("missing x-upsert header")
		}
		if n < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := New(srv.URL, "test-key", "videos", testLogger())

	err := s.Upload(context.Background(), "abc/final.mp4", []byte("video data"), "video/mp4")
	if err != nil {
		t.Fatalf("Upload() error: %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("calls = %d, want 3", got)
	}
}

func TestUploadDoesNotRetryOn403(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	s := New(srv.URL, "test-key", "videos", testLogger())

	err := s.Upload(context.Background(), "abc/final.mp4", []byte("video data"), "video/mp4")
	if err == nil {
		t.Fatal("expected error for 403 response")
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("calls = %d, want 1 (403 must not be retried)", got)
	}
}

func TestDownload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte("object bytes"))
	}))
	defer srv.Close()

	s := New(srv.URL, "test-key", "videos", testLogger())

	data, err := s.Download(context.Background(), "abc/audio.mp3")
	if err != nil {
		t.Fatalf("Download() error: %v", err)
	}
	if string(data) != "object bytes" {
		t.Errorf("data = %q, want %q", data, "object bytes")
	}
}

func TestPublicURL(t *testing.T) {
	s := New("https://example.supabase.co", "k", "videos", testLogger())
	got := s.PublicURL("abc/final.mp4")
	want := "https://example.supabase.co/storage/v1/object/public/videos/abc/final.mp4"
	if got != want {
		t.Errorf("PublicURL = %q, want %q", got, want)
	}
}

func TestObjectPath(t *testing.T) {
	if got := ObjectPath("video-123", "final.mp4"); got != "video-123/final.mp4" {
		t.Errorf("ObjectPath = %q", got)
	}
}

func TestRetryDelayBounded(t *testing.T) {
	for attempt := 1; attempt <= 10; attempt++ {
		d := retryDelay(attempt)
		if d < baseRetryDelay {
			t.Errorf("retryDelay(%d) = %v, below base", attempt, d)
		}
		if d > maxRetryDelay+maxRetryDelay/4 {
			t.Errorf("retryDelay(%d) = %v, above cap with jitter", attempt, d)
		}
	}
}
