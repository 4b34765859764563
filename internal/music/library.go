package music

import (
	"fmt"
	"math/rand"
	"os"

	"gopkg.in/yaml.v3"
)

// Track is one background-music entry in the library manifest.
type Track struct {
	ID    string `yaml:"id"`
	Title string `yaml:"title"`
	Mood  string `yaml:"mood"`
	URL   string `yaml:"url"`
}

// Library holds the background-music catalog, loaded once at startup from a
// YAML manifest. Jobs that name a music mood instead of a direct URL resolve
// it here.
type Library struct {
	tracks []Track
	byMood map[string][]Track
}

type manifest struct {
	Tracks []Track `yaml:"tracks"`
}

// Load reads the manifest file. An empty path returns an empty library, so
// mood lookup simply finds nothing.
func Load(path string) (*Library, error) {
	lib := &Library{byMood: make(map[string][]Track)}
	if path == "" {
		return lib, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read music manifest: %w", err)
	}

	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse music manifest: %w", err)
	}

	for _, t := range m.Tracks {
		if t.URL == "" {
			continue
		}
		lib.tracks = append(lib.tracks, t)
		lib.byMood[t.Mood] = append(lib.byMood[t.Mood], t)
	}

	return lib, nil
}

// TrackForMood picks a random track matching the mood, falling back to any
// track when the mood is unknown. Returns false when the library is empty.
func (l *Library) TrackForMood(mood string) (Track, bool) {
	if candidates := l.byMood[mood]; len(candidates) > 0 {
		return candidates[rand.Intn(len(candidates))], true
	}
	if len(l.tracks) > 0 {
		return l.tracks[rand.Intn(len(l.tracks))], true
	}
	return Track{}, false
}

// URLForMood is TrackForMood reduced to the URL, for callers that only
// need somewhere to download from.
func (l *Library) URLForMood(mood string) (string, bool) {
	t, ok := l.TrackForMood(mood)
	return t.URL, ok
}

// Len reports how many tracks loaded.
func (l *Library) Len() int {
	return len(l.tracks)
}
