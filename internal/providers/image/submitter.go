package image

import (
	"context"
	"fmt"

	"sketchgen/internal/domain"
	"sketchgen/internal/infra"
)

// Submitter sends generation requests to the image service.
type Submitter struct {
	client ProjectClient
	opts   ParamOptions
	logger *infra.Logger
}

// NewSubmitter wires the client with the payload options.
func NewSubmitter(client ProjectClient, opts ParamOptions, logger *infra.Logger) *Submitter {
	if logger == nil {
		logger = infra.DiscardLogger()
	}
	return &Submitter{client: client, opts: opts, logger: logger}
}

// OrientationEnabled reports whether the orientation field is forwarded.
func (s *Submitter) OrientationEnabled() bool {
	return s.opts.OrientationEnabled
}

// Submit queues one generation job. Failures are returned as *SubmissionError.
func (s *Submitter) Submit(ctx context.Context, prompt domain.EnhancedPrompt, style domain.Style, orientation domain.Orientation) (domain.GenerationJob, error) {
	if s == nil || s.client == nil {
		return domain.GenerationJob{}, newSubmissionError("submit", fmt.Errorf("%w: image client not configured", domain.ErrProviderFailure))
	}
	params := BuildParams(prompt, style, orientation, s.opts)
	res, err := s.client.CreateImage(ctx, params.request())
	if err != nil {
		subErr := newSubmissionError("submit", err)
		s.logger.Error().Err(err).Str("kind", string(subErr.Kind)).Msg("image: submission failed")
		return domain.GenerationJob{}, subErr
	}
	job := domain.GenerationJob{ID: res.ID, FrameCost: res.FrameCost}
	s.logger.Info().Str("job_id", job.ID).Int("frame_cost", job.FrameCost).Str("style", params.Style).Msg("image: job submitted")
	return job, nil
}
