package assets

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	downloadTimeout = 60 * time.Second

	// How many images we pull at once. Narrations run 5–15 beats, so this
	// keeps the whole set to two or three waves.
	maxConcurrentDownloads = 4
)

// Fetcher downloads remote assets (images, narration, background music) to
// the job's scratch directory.
type Fetcher struct {
	client *http.Client
	log    *logrus.Entry
}

func NewFetcher(logger *logrus.Logger) *Fetcher {
	return &Fetcher{
		client: &http.Client{Timeout: downloadTimeout},
		log:    logger.WithField("component", "assets"),
	}
}

// Download fetches a single URL to destPath. Any non-200 status is an error.
func (f *Fetcher) Download(ctx context.Context, url, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request for %s: %w", url, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch %s returned status %d", url, resp.StatusCode)
	}

	out, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", destPath, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return fmt.Errorf("failed to write %s: %w", destPath, err)
	}

	return nil
}

// DownloadImages fetches all image URLs in parallel, preserving order: the
// returned paths line up index-for-index with the input URLs. Any single
// failure fails the whole batch with the offending index in the error.
func (f *Fetcher) DownloadImages(ctx context.Context, urls []string, dir string) ([]string, error) {
	paths := make([]string, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentDownloads)

	for i, url := range urls {
		i, url := i, url
		paths[i] = filepath.Join(dir, fmt.Sprintf("image_%03d%s", i, imageExt(url)))
		g.Go(func() error {
			if err := f.Download(gctx, url, paths[i]); err != nil {
				return fmt.Errorf("image %d: %w", i, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	f.log.WithField("count", len(paths)).Info("downloaded images")
	return paths, nil
}

// imageExt guesses a file extension from the URL path, defaulting to .jpg.
// FFmpeg sniffs the actual format, so this only has to be plausible.
func imageExt(url string) string {
	ext := filepath.Ext(url)
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
		return ext
	}
	return ".jpg"
}
