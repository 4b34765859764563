package captions

import (
	"fmt"
	"strings"

	"github.com/reelsbot/reels/internal/models"
)

// Word slot bounds for the duration-apportioned fallback path. A slot never
// shrinks below 0.3s (unreadable) or stretches past 1.0s (loses karaoke
// feel), even when that makes a beat's cues overrun its nominal duration.
const (
	minWordSlot = 0.3
	maxWordSlot = 1.0
)

const defaultWordsPerLine = 2

// FromWords compiles the subtitle document from alignment timestamps. This
// is the canonical path: each word's cue spans exactly its spoken interval.
func FromWords(words []models.Word, styleName string, wordsPerLine int) string {
	style := StyleByName(styleName)
	wordsPerLine = resolveWordsPerLine(style, wordsPerLine)

	var b strings.Builder
	b.WriteString(style.Header)

	for _, chunk := range chunkWords(words, wordsPerLine) {
		for i, w := range chunk {
			// Non-final cues run until the next word starts, so the chunk
			// holds on screen through inter-word silences.
			end := w.End
			if i < len(chunk)-1 && chunk[i+1].Start > end {
				end = chunk[i+1].Start
			}
			writeChunkCues(&b, style, chunk, i, w.Start, end)
		}
	}

	return b.String()
}

// FromBeats compiles the subtitle document by apportioning each beat's
// duration evenly across its words. Fallback for when alignment data is
// unavailable; the cursor advances by the full beat duration regardless of
// how far the clamped word slots reached.
func FromBeats(beats []models.Beat, durations []float64, styleName string, wordsPerLine int) string {
	style := StyleByName(styleName)
	wordsPerLine = resolveWordsPerLine(style, wordsPerLine)

	var b strings.Builder
	b.WriteString(style.Header)

	cursor := 0.0
	for bi, beat := range beats {
		dur := 2.5
		if bi < len(durations) {
			dur = durations[bi]
		}

		words := strings.Fields(beat.Line)
		if len(words) == 0 {
			cursor += dur
			continue
		}

		slot := dur / float64(len(words))
		if slot < minWordSlot {
			slot = minWordSlot
		}
		if slot > maxWordSlot {
			slot = maxWordSlot
		}

		timed := make([]models.Word, len(words))
		for i, w := range words {
			start := cursor + float64(i)*slot
			timed[i] = models.Word{Word: w, Start: start, End: start + slot}
		}

		for _, chunk := range chunkWords(timed, wordsPerLine) {
			for i, w := range chunk {
				writeChunkCues(&b, style, chunk, i, w.Start, w.End)
			}
		}

		cursor += dur
	}

	return b.String()
}

// writeChunkCues emits the cue(s) for one active word within its chunk:
// a single inline-colored dialogue line, or a base layer plus a boxed
// overlay of the active word for box-mode styles.
func writeChunkCues(b *strings.Builder, style Style, chunk []models.Word, active int, start, end float64) {
	startStr := formatTime(start)
	endStr := formatTime(end)

	if style.BoxHighlight {
		display := make([]string, 0, len(chunk))
		for _, w := range chunk {
			if t := cleanWord(w.Word); t != "" {
				display = append(display, t)
			}
		}
		fmt.Fprintf(b, "Dialogue: 0,%s,%s,Default,,0,0,0,,%s\n",
			startStr, endStr, strings.Join(display, " "))
		fmt.Fprintf(b, "Dialogue: 1,%s,%s,BoxHighlight,,0,0,0,,%s\n",
			startStr, endStr, cleanWord(chunk[active].Word))
		return
	}

	// Brief scale pulse on the active word as it lights up.
	const pulse = `{\t(0,80,\fscx110\fscy110)\t(80,160,\fscx100\fscy100)}`

	parts := make([]string, 0, len(chunk))
	for j, w := range chunk {
		text := cleanWord(w.Word)
		if text == "" {
			continue
		}
		if j == active {
			parts = append(parts, fmt.Sprintf(`{%s%s}%s%s{\r}`, style.HighlightColor, style.HighlightExtra, pulse, text))
		} else {
			parts = append(parts, fmt.Sprintf(`{%s}%s{\r}`, style.NormalColor, text))
		}
	}

	fmt.Fprintf(b, "Dialogue: 0,%s,%s,Default,,0,0,0,,%s\n",
		startStr, endStr, strings.Join(parts, " "))
}

func resolveWordsPerLine(style Style, requested int) int {
	if style.WordsPerLine > 0 {
		return style.WordsPerLine
	}
	if requested > 0 {
		return requested
	}
	return defaultWordsPerLine
}

// chunkWords groups words into display chunks of at most size words.
func chunkWords(words []models.Word, size int) [][]models.Word {
	if size < 1 {
		size = 1
	}
	var chunks [][]models.Word
	for start := 0; start < len(words); start += size {
		end := start + size
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, words[start:end])
	}
	return chunks
}

// cleanWord strips surrounding punctuation and uppercases for display.
func cleanWord(w string) string {
	return strings.ToUpper(strings.Trim(strings.TrimSpace(w), `.,!?;:"`))
}

// formatTime renders seconds as ASS H:MM:SS.CC.
func formatTime(t float64) string {
	if t < 0 {
		t = 0
	}
	totalCS := int(t*100 + 0.5)
	h := totalCS / 360000
	m := (totalCS % 360000) / 6000
	s := (totalCS % 6000) / 100
	cs := totalCS % 100
	return fmt.Sprintf("%d:%02d:%02d.%02d", h, m, s, cs)
}
