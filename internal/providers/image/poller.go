package image

import (
	"context"
	"fmt"
	"strings"
	"time"

	"sketchgen/internal/domain"
	"sketchgen/internal/infra"
	"sketchgen/internal/providers/magichour"
)

// StatusClient fetches project state.
type StatusClient interface {
	GetImageProject(ctx context.Context, id string) (*magichour.ImageProject, error)
}

// Sleeper pauses between status queries. It returns early with the context error.
type Sleeper func(ctx context.Context, d time.Duration) error

// PollerOptions configures a Poller.
type PollerOptions struct {
	Interval    time.Duration
	MaxAttempts int
	Sleep       Sleeper
	Logger      *infra.Logger
}

// PollResult describes the terminal (or last observed) state of a job.
type PollResult struct {
	Status   domain.JobStatus
	Asset    *domain.Download
	Failed   bool
	Attempts int
	Progress int
}

// Poller waits for an image job to reach a terminal state.
type Poller struct {
	client      StatusClient
	interval    time.Duration
	maxAttempts int
	sleep       Sleeper
	logger      *infra.Logger
}

// NewPoller builds a poller. MaxAttempts of zero polls until the job is terminal.
func NewPoller(client StatusClient, opts PollerOptions) *Poller {
	sleep := opts.Sleep
	if sleep == nil {
		sleep = sleepContext
	}
	logger := opts.Logger
	if logger == nil {
		logger = infra.DiscardLogger()
	}
	return &Poller{
		client:      client,
		interval:    opts.Interval,
		maxAttempts: opts.MaxAttempts,
		sleep:       sleep,
		logger:      logger,
	}
}

// Wait queries the job until it is complete or errored. A complete job with
// no downloads is a success without an asset. Status call failures come back
// as *SubmissionError; exceeding MaxAttempts wraps domain.ErrPollTimeout.
func (p *Poller) Wait(ctx context.Context, jobID string, onProgress func(Progress)) (PollResult, error) {
	report := func(pr Progress) {
		if onProgress != nil {
			onProgress(pr)
		}
	}
	result := PollResult{Status: domain.JobStatus{State: domain.JobStatePending}, Progress: ProgressStarted}
	report(Progress{Percent: ProgressStarted})

	for {
		result.Attempts++
		project, err := p.client.GetImageProject(ctx, jobID)
		if err != nil {
			p.logger.Error().Err(err).Str("job_id", jobID).Int("attempt", result.Attempts).Msg("image: status query failed")
			return result, newSubmissionError("poll", err)
		}
		status := statusFromProject(project)
		result.Status = status

		switch status.State {
		case domain.JobStateComplete:
			result.Progress = ProgressComplete
			report(Progress{Percent: ProgressComplete, Label: statusLabel(status.Label)})
			if d, ok := status.FirstDownload(); ok {
				result.Asset = &d
			}
			p.logger.Info().Str("job_id", jobID).Int("attempts", result.Attempts).Bool("has_asset", result.Asset != nil).Msg("image: job complete")
			return result, nil
		case domain.JobStateError:
			result.Failed = true
			p.logger.Warn().Str("job_id", jobID).Int("attempts", result.Attempts).Msg("image: job errored")
			return result, nil
		}

		result.Progress = ProgressPending
		report(Progress{Percent: ProgressPending, Label: statusLabel(status.Label)})

		if p.maxAttempts > 0 && result.Attempts >= p.maxAttempts {
			return result, fmt.Errorf("%w: job %s still %s after %d checks", domain.ErrPollTimeout, jobID, status.Label, result.Attempts)
		}
		if err := p.sleep(ctx, p.interval); err != nil {
			return result, err
		}
	}
}

func statusFromProject(project *magichour.ImageProject) domain.JobStatus {
	if project == nil {
		return domain.JobStatus{State: domain.JobStatePending}
	}
	label := strings.TrimSpace(project.Status)
	status := domain.JobStatus{Label: label}
	switch strings.ToLower(label) {
	case "complete":
		status.State = domain.JobStateComplete
		for _, d := range project.Downloads {
			status.Downloads = append(status.Downloads, domain.Download{URL: d.URL})
		}
	case "error", "canceled":
		status.State = domain.JobStateError
	default:
		status.State = domain.JobStatePending
	}
	return status
}

func statusLabel(label string) string {
	return "Status: " + label
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
