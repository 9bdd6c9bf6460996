package image

import (
	"context"

	"sketchgen/internal/providers/magichour"
)

// ProjectClient is the subset of the image-service client used here.
type ProjectClient interface {
	CreateImage(ctx context.Context, req magichour.CreateImageRequest) (*magichour.CreateImageResponse, error)
	GetImageProject(ctx context.Context, id string) (*magichour.ImageProject, error)
}

// Params is the provider-neutral generation record. Orientation, ImageCount and
// ColorScheme are optional and left out of the payload when zero.
type Params struct {
	Prompt        string
	Style         string
	ArtisticStyle string
	Orientation   string
	ImageCount    int
	ColorScheme   string
}

// ParamOptions toggles the optional fields used by BuildParams.
type ParamOptions struct {
	OrientationEnabled bool
	ImageCount         int
	ColorScheme        string
}

// Progress is the coarse indicator shown while a job runs. The service does not
// report real progress, so Percent is only ever 0, 50 or 100.
type Progress struct {
	Percent int
	Label   string
}

const (
	ProgressStarted  = 0
	ProgressPending  = 50
	ProgressComplete = 100
)
