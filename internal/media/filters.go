package media

import "fmt"

// Output / rendering constants — 1080x1920 portrait at 30fps.
const (
	OutputWidth  = 1080
	OutputHeight = 1920
	VideoFPS     = 30
)

// scalePad fits any source aspect ratio into the portrait frame with black
// bars rather than cropping.
const scalePad = "scale=1080:1920:force_original_aspect_ratio=decrease," +
	"pad=1080:1920:(ow-iw)/2:(oh-ih)/2:black"

// MotionFilter builds the -vf chain that animates one still image for
// durationSec. Every effect except static goes through zoompan, which reads
// a single frame and emits the full clip.
func MotionFilter(effect string, durationSec float64) string {
	totalFrames := int(durationSec * VideoFPS)
	if totalFrames < VideoFPS {
		totalFrames = VideoFPS
	}

	var zExpr, xExpr, yExpr string

	switch effect {
	case "static":
		return scalePad + ",fps=30"

	case "zoom_pulse":
		// Gentle sine oscillation around 1.1x, one pulse every ~2 seconds
		zExpr = "1.1+0.05*sin(on*0.105)"
		xExpr = "iw/2-(iw/zoom/2)"
		yExpr = "ih/2-(ih/zoom/2)"

	case "shake":
		// Fixed zoom with small fast jitter on both axes
		zExpr = "1.15"
		xExpr = "iw/2-(iw/zoom/2)+8*sin(on*2.7)"
		yExpr = "ih/2-(ih/zoom/2)+8*cos(on*3.1)"

	case "parallax":
		// Fixed zoom, horizontal drift across the full pan range
		zExpr = "1.3"
		xExpr = fmt.Sprintf("(iw-iw/zoom)*on/%d", totalFrames)
		yExpr = "ih/2-(ih/zoom/2)"

	default: // ken_burns
		// Slow centered push-in from 1.0 to 1.25
		zExpr = fmt.Sprintf("1.0+0.25*on/%d", totalFrames)
		xExpr = "iw/2-(iw/zoom/2)"
		yExpr = "ih/2-(ih/zoom/2)"
	}

	// Upscale before zoompan so sub-pixel pan steps don't jitter.
	return fmt.Sprintf(
		"scale=%d:-1,zoompan=z='%s':x='%s':y='%s':d=%d:s=%dx%d:fps=%d",
		OutputWidth*2, zExpr, xExpr, yExpr,
		totalFrames, OutputWidth, OutputHeight, VideoFPS,
	)
}

// colorGrades maps grade names to eq/hue filter fragments chained after the
// motion filter. Empty means no grading pass.
var colorGrades = map[string]string{
	"cinematic": "eq=contrast=1.06:saturation=1.1,colorbalance=bs=0.05:rs=-0.03",
	"vintage":   "eq=contrast=0.95:saturation=0.75:gamma=1.05,colorbalance=rs=0.08:bs=-0.08",
	"vibrant":   "eq=contrast=1.1:saturation=1.35",
	"dark":      "eq=brightness=-0.08:contrast=1.15:saturation=0.9",
	"neon":      "eq=contrast=1.2:saturation=1.5,hue=h=5",
	"none":      "",
}

// ColorGradeFilter returns the grading fragment for a named grade. Unknown
// names fall back to cinematic.
func ColorGradeFilter(grade string) string {
	if f, ok := colorGrades[grade]; ok {
		return f
	}
	return colorGrades["cinematic"]
}

// SegmentFilter is the complete -vf value for one segment: motion, then the
// optional color grade.
func SegmentFilter(effect, grade string, durationSec float64) string {
	vf := MotionFilter(effect, durationSec)
	if g := ColorGradeFilter(grade); g != "" {
		vf += "," + g
	}
	return vf
}
