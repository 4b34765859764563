package media

import "math"

// durationClose is the tolerance under which declared and actual durations
// are considered to already match.
const durationClose = 0.5

// ResolveDurations reconciles per-beat durations against the narration's
// actual length. Priority order: explicit durations, then beat-declared
// durations, then an even split of the audio. The result is rescaled so its
// sum equals audioDuration whenever they disagree by more than half a second.
func ResolveDurations(explicit []float64, beatDurations []float64, imageCount int, audioDuration float64) []float64 {
	var durations []float64

	switch {
	case len(explicit) == imageCount && imageCount > 0:
		durations = fillDefaults(explicit)
	case len(beatDurations) == imageCount && imageCount > 0:
		durations = fillDefaults(beatDurations)
	case audioDuration > 0 && imageCount > 0:
		avg := audioDuration / float64(imageCount)
		durations = make([]float64, imageCount)
		for i := range durations {
			durations[i] = avg
		}
	default:
		durations = make([]float64, imageCount)
		for i := range durations {
			durations[i] = 2.5
		}
	}

	if audioDuration > 0 {
		total := sum(durations)
		if total > 0 && math.Abs(total-audioDuration) > durationClose {
			scale := audioDuration / total
			for i := range durations {
				durations[i] *= scale
			}
		}
	}

	return durations
}

// fillDefaults copies the list, substituting 2.5s for entries that were
// omitted or declared non-positive, so no segment renders at zero length.
func fillDefaults(xs []float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		if x <= 0 {
			x = 2.5
		}
		out[i] = x
	}
	return out
}

func sum(xs []float64) float64 {
	var t float64
	for _, x := range xs {
		t += x
	}
	return t
}
