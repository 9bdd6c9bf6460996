package sketch

import "sketchgen/internal/domain"

// Download metadata is fixed regardless of what the provider calls the file.
const (
	DownloadFilename = "generated_sketch.png"
	DownloadMIME     = "image/png"
)

// Asset is a staged image ready to be served.
type Asset struct {
	Token     string
	SourceURL string
	Size      int
}

// Result is everything the page needs after a generate action.
type Result struct {
	Request           domain.UserRequest
	Kind              domain.OutcomeKind
	EnhancementFailed bool
	EnhancedPrompt    domain.EnhancedPrompt
	Job               *domain.GenerationJob
	Progress          int
	StatusLabel       string
	Attempts          int
	Asset             *Asset
	Notices           []Notice
}

func (r *Result) add(level Level, text string) {
	r.Notices = append(r.Notices, Notice{Level: level, Text: text})
}

// Failed reports whether the action ended without a usable result.
func (r Result) Failed() bool {
	return r.Kind.Failed()
}

// NoticesAt filters notices by level.
func (r Result) NoticesAt(level Level) []Notice {
	var out []Notice
	for _, n := range r.Notices {
		if n.Level == level {
			out = append(out, n)
		}
	}
	return out
}
