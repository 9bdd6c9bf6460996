package image

import (
	"strings"

	"sketchgen/internal/domain"
	"sketchgen/internal/providers/magichour"
)

// SketchPromptPrefix steers the image model towards monochrome line drawings.
const SketchPromptPrefix = "black and white sketch, minimal lines, artistic drawing style: "

const (
	defaultArtisticStyle = "sketch"
	defaultColorScheme   = "monochrome"
	projectName          = "AI Sketch"
)

// BuildParams combines the fixed prefix with the enhanced prompt and the
// selected drawing options.
func BuildParams(prompt domain.EnhancedPrompt, style domain.Style, orientation domain.Orientation, opts ParamOptions) Params {
	params := Params{
		Prompt:        SketchPromptPrefix + strings.TrimSpace(string(prompt)),
		Style:         string(style),
		ArtisticStyle: defaultArtisticStyle,
		ImageCount:    opts.ImageCount,
		ColorScheme:   strings.TrimSpace(opts.ColorScheme),
	}
	if params.Style == "" {
		params.Style = string(domain.StyleSketch)
	}
	if params.ColorScheme == "" {
		params.ColorScheme = defaultColorScheme
	}
	if opts.OrientationEnabled && orientation != domain.OrientationNone {
		params.Orientation = string(orientation)
	}
	return params
}

func (p Params) request() magichour.CreateImageRequest {
	req := magichour.CreateImageRequest{
		Name:        projectName,
		Orientation: p.Orientation,
		Style: magichour.Style{
			Prompt:        p.Prompt,
			Tool:          p.Style,
			ArtisticStyle: p.ArtisticStyle,
			ColorScheme:   p.ColorScheme,
		},
	}
	if p.ImageCount > 0 {
		req.ImageCount = p.ImageCount
	}
	return req
}
