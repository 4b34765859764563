package captions

// Style is one named caption preset. Header is a complete ASS preamble
// (script info, style table, events format line). Inline-mode styles carry
// color override tags; box-mode styles render the active word on a second
// dialogue layer in the BoxHighlight style instead.
type Style struct {
	Name           string
	Header         string
	HighlightColor string
	NormalColor    string
	HighlightExtra string
	WordsPerLine   int // 0 means use the caller's value
	BoxHighlight   bool
}

const DefaultStyleName = "red_highlight"

// StyleByName returns the named preset, falling back to the default on an
// unknown name.
func StyleByName(name string) Style {
	if s, ok := styles[name]; ok {
		return s
	}
	return styles[DefaultStyleName]
}

// StyleNames lists the available preset names.
func StyleNames() []string {
	names := make([]string, 0, len(styles))
	for name := range styles {
		names = append(names, name)
	}
	return names
}

var styles = map[string]Style{
	// Red glow on the active word, white for the rest.
	"red_highlight": {
		Name: "red_highlight",
		Header: `[Script Info]
ScriptType: v4.00+
PlayResX: 1080
PlayResY: 1920
WrapStyle: 0

[V4+ Styles]
Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding
Style: Default,Montserrat Black,85,&H00FFFFFF,&H000000FF,&H00000000,&HAA000000,-1,0,0,0,100,100,2,0,1,6,4,5,40,40,800,0

[Events]
Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text
`,
		HighlightColor: `\c&H004040FF&`,
		NormalColor:    `\c&H00FFFFFF&`,
		HighlightExtra: `\blur2`,
	},

	// Classic TikTok: colored box behind the active word.
	"karaoke": {
		Name: "karaoke",
		Header: `[Script Info]
ScriptType: v4.00+
PlayResX: 1080
PlayResY: 1920
WrapStyle: 0

[V4+ Styles]
Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding
Style: Default,Montserrat Black,85,&H00FFFFFF,&H000000FF,&H00000000,&H00000000,-1,0,0,0,100,100,2,0,1,5,0,5,40,40,800,0
Style: BoxHighlight,Montserrat Black,85,&H00FFFFFF,&H000000FF,&H00FF5500,&H00FF5500,-1,0,0,0,100,100,2,0,3,12,0,5,40,40,800,0

[Events]
Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text
`,
		BoxHighlight: true,
	},

	// Chunky white with a heavy stroke, yellow pop on the active word.
	"beast": {
		Name: "beast",
		Header: `[Script Info]
ScriptType: v4.00+
PlayResX: 1080
PlayResY: 1920
WrapStyle: 0

[V4+ Styles]
Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding
Style: Default,Impact,90,&H00FFFFFF,&H000000FF,&H00000000,&H00000000,-1,-1,0,0,105,100,1,0,1,6,3,5,40,40,380,0

[Events]
Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text
`,
		HighlightColor: `\c&H0000FFFF&`,
		NormalColor:    `\c&H00FFFFFF&`,
		HighlightExtra: `\fscx115\fscy115`,
	},

	"majestic": {
		Name: "majestic",
		Header: `[Script Info]
ScriptType: v4.00+
PlayResX: 1080
PlayResY: 1920
WrapStyle: 0

[V4+ Styles]
Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding
Style: Default,Georgia,72,&H00FFFFFF,&H000000FF,&H00222222,&H88000000,-1,0,0,0,100,100,3,0,1,3,4,5,40,40,400,0

[Events]
Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text
`,
		HighlightColor: `\c&H00AAFFFF&`,
		NormalColor:    `\c&H00FFFFFF&`,
	},

	"bold_stroke": {
		Name: "bold_stroke",
		Header: `[Script Info]
ScriptType: v4.00+
PlayResX: 1080
PlayResY: 1920
WrapStyle: 0

[V4+ Styles]
Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding
Style: Default,Montserrat Black,82,&H00FFFFFF,&H000000FF,&H00000000,&H00000000,-1,0,0,0,100,100,0,0,1,8,0,5,40,40,400,0

[Events]
Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text
`,
		HighlightColor: `\c&H0000D4FF&\bord10`,
		NormalColor:    `\c&H00FFFFFF&`,
	},

	// Dimmed gray context, bright active word.
	"sleek": {
		Name: "sleek",
		Header: `[Script Info]
ScriptType: v4.00+
PlayResX: 1080
PlayResY: 1920
WrapStyle: 0

[V4+ Styles]
Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding
Style: Default,Helvetica Neue,68,&H00CCCCCC,&H000000FF,&H00333333,&H00000000,-1,0,0,0,100,100,1,0,1,3,2,5,40,40,420,0

[Events]
Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text
`,
		HighlightColor: `\c&H00FFFFFF&`,
		NormalColor:    `\c&H00888888&`,
		HighlightExtra: `\fscx108\fscy108`,
	},

	"elegant": {
		Name: "elegant",
		Header: `[Script Info]
ScriptType: v4.00+
PlayResX: 1080
PlayResY: 1920
WrapStyle: 0

[V4+ Styles]
Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding
Style: Default,Times New Roman,66,&H00DDDDDD,&H000000FF,&H00111111,&H66000000,0,0,0,0,100,100,2,0,1,2,3,5,40,40,420,0

[Events]
Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text
`,
		HighlightColor: `\c&H00FFFFFF&\i1`,
		NormalColor:    `\c&H00AAAAAA&`,
	},

	"neon": {
		Name: "neon",
		Header: `[Script Info]
ScriptType: v4.00+
PlayResX: 1080
PlayResY: 1920
WrapStyle: 0

[V4+ Styles]
Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding
Style: Default,Arial Black,76,&H00FFAAFF,&H000000FF,&H00FF00FF,&H00000000,-1,0,0,0,100,100,2,0,1,4,0,5,40,40,400,0

[Events]
Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text
`,
		HighlightColor: `\c&H00FFFF00&\blur3`,
		NormalColor:    `\c&H00FFAAFF&`,
	},

	"fire": {
		Name: "fire",
		Header: `[Script Info]
ScriptType: v4.00+
PlayResX: 1080
PlayResY: 1920
WrapStyle: 0

[V4+ Styles]
Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding
Style: Default,Montserrat Black,80,&H00FFFFFF,&H000000FF,&H00000044,&H00000000,-1,0,0,0,100,100,1,0,1,5,2,5,40,40,400,0

[Events]
Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text
`,
		HighlightColor: `\c&H000088FF&`,
		NormalColor:    `\c&H00FFFFFF&`,
		HighlightExtra: `\blur1\fscx110\fscy110`,
	},

	// Big yellow pops, two words at a time.
	"hormozi": {
		Name: "hormozi",
		Header: `[Script Info]
ScriptType: v4.00+
PlayResX: 1080
PlayResY: 1920
WrapStyle: 0

[V4+ Styles]
Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding
Style: Default,Arial Black,85,&H00FFFFFF,&H000000FF,&H00000000,&H00000000,-1,0,0,0,100,100,0,0,1,6,3,5,40,40,400,0

[Events]
Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text
`,
		HighlightColor: `\c&H0000FFFF&`,
		NormalColor:    `\c&H00FFFFFF&`,
		HighlightExtra: `\fscx120\fscy120`,
		WordsPerLine:   2,
	},

	// Documentary pacing: large centered text, clean yellow highlight.
	"storyteller": {
		Name: "storyteller",
		Header: `[Script Info]
ScriptType: v4.00+
PlayResX: 1080
PlayResY: 1920
WrapStyle: 0

[V4+ Styles]
Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding
Style: Default,Montserrat Black,110,&H00FFFFFF,&H000000FF,&H00000000,&H00000000,-1,0,0,0,100,100,2,0,1,8,0,5,40,40,650,0

[Events]
Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text
`,
		HighlightColor: `\c&H0000FFFF&`,
		NormalColor:    `\c&H00FFFFFF&`,
		WordsPerLine:   2,
	},
}
