package assets

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

func TestDownload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("audio bytes"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	dest := filepath.Join(dir, "audio.mp3")

	f := NewFetcher(testLogger())
	if err := f.Download(context.Background(), srv.URL+"/audio.mp3", dest); err != nil {
		t.Fatalf("Download() error: %v", err)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("reading downloaded file: %v", err)
	}
	if string(data) != "audio bytes" {
		t.Errorf("content = %q, want %q", data, "audio bytes")
	}
}

func TestDownloadNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	f := NewFetcher(testLogger())
	err := f.Download(context.Background(), srv.URL+"/missing.jpg", filepath.Join(t.TempDir(), "x.jpg"))
	if err == nil {
		t.Fatal("expected error for 404 response")
	}
	if !strings.Contains(err.Error(), "404") {
		t.Errorf("error %q should mention the status code", err)
	}
}

func TestDownloadImagesPreservesOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Echo the path so each file's content identifies its URL.
		w.Write([]byte(r.URL.Path))
	}))
	defer srv.Close()

	urls := make([]string, 8)
	for i := range urls {
		urls[i] = fmt.Sprintf("%s/img/%d.png", srv.URL, i)
	}

	dir := t.TempDir()
	f := NewFetcher(testLogger())

	paths, err := f.DownloadImages(context.Background(), urls, dir)
	if err != nil {
		t.Fatalf("DownloadImages() error: %v", err)
	}
	if len(paths) != len(urls) {
		t.Fatalf("got %d paths, want %d", len(paths), len(urls))
	}

	for i, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			t.Fatalf("reading %s: %v", p, err)
		}
		want := fmt.Sprintf("/img/%d.png", i)
		if string(data) != want {
			t.Errorf("paths[%d] content = %q, want %q", i, data, want)
		}
		if filepath.Ext(p) != ".png" {
			t.Errorf("paths[%d] = %q, want .png extension", i, p)
		}
	}
}

func TestDownloadImagesFailureNamesIndex(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/2.jpg") {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	urls := []string{
		srv.URL + "/0.jpg", srv.URL + "/1.jpg", srv.URL + "/2.jpg", srv.URL + "/3.jpg",
	}

	f := NewFetcher(testLogger())
	_, err := f.DownloadImages(context.Background(), urls, t.TempDir())
	if err == nil {
		t.Fatal("expected error when one image fails")
	}
	if !strings.Contains(err.Error(), "image 2") {
		t.Errorf("error %q should name the failing index", err)
	}
}

func TestImageExt(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://cdn.example.com/a.png", ".png"},
		{"https://cdn.example.com/a.webp", ".webp"},
		{"https://cdn.example.com/a", ".jpg"},
		{"https://cdn.example.com/a.bin", ".jpg"},
	}
	for _, tt := range tests {
		if got := imageExt(tt.url); got != tt.want {
			t.Errorf("imageExt(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}
