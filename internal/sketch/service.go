package sketch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"sketchgen/internal/domain"
	"sketchgen/internal/infra"
	"sketchgen/internal/providers/image"
	"sketchgen/internal/providers/prompt"
)

// Enhancer enriches the raw description. It never fails.
type Enhancer interface {
	Enhance(ctx context.Context, description string) prompt.Enhancement
}

// Submitter queues an image job.
type Submitter interface {
	Submit(ctx context.Context, p domain.EnhancedPrompt, style domain.Style, orientation domain.Orientation) (domain.GenerationJob, error)
}

// Waiter blocks until a job is terminal.
type Waiter interface {
	Wait(ctx context.Context, jobID string, onProgress func(image.Progress)) (image.PollResult, error)
}

// Fetcher downloads a produced asset.
type Fetcher interface {
	Download(ctx context.Context, url string) ([]byte, error)
}

// Stager holds fetched images until they are served.
type Stager interface {
	Write(ctx context.Context, key string, data []byte) (string, error)
	Read(ctx context.Context, key string) ([]byte, error)
	Remove(ctx context.Context, key string) error
}

// DefaultStageTTL is how long a staged image stays servable when Deps.StageTTL
// is not set.
const DefaultStageTTL = 30 * time.Minute

// Deps are the collaborators of a Service. All of them are built once at
// startup and shared read-only by every request.
type Deps struct {
	Enhancer   Enhancer
	Submitter  Submitter
	Poller     Waiter
	Fetcher    Fetcher
	Stager     Stager
	CostFrames int
	StageTTL   time.Duration
	Logger     *infra.Logger
}

// Service runs the generate action: enhance, submit, poll, render.
type Service struct {
	enhancer   Enhancer
	submitter  Submitter
	poller     Waiter
	fetcher    Fetcher
	stager     Stager
	costFrames int
	stageTTL   time.Duration
	now        func() time.Time
	logger     *infra.Logger

	mu     sync.Mutex
	staged map[string]time.Time
}

// NewService wires the collaborators.
func NewService(deps Deps) *Service {
	logger := deps.Logger
	if logger == nil {
		logger = infra.DiscardLogger()
	}
	ttl := deps.StageTTL
	if ttl <= 0 {
		ttl = DefaultStageTTL
	}
	return &Service{
		enhancer:   deps.Enhancer,
		submitter:  deps.Submitter,
		poller:     deps.Poller,
		fetcher:    deps.Fetcher,
		stager:     deps.Stager,
		costFrames: deps.CostFrames,
		stageTTL:   ttl,
		now:        time.Now,
		logger:     logger,
		staged:     make(map[string]time.Time),
	}
}

// Generate runs one user action to completion. Every failure is folded into
// the returned Result; a panic in a collaborator is reported as a generic error.
func (s *Service) Generate(ctx context.Context, req domain.UserRequest) (res Result) {
	res = Result{Request: req, Kind: domain.OutcomeOK}
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().Interface("panic", r).Msg("sketch: generate panicked")
			res.Kind = domain.OutcomeOtherError
			res.add(LevelError, GenericErrorMessage(fmt.Errorf("%v", r)))
		}
	}()

	if !req.HasDescription() {
		res.Kind = domain.OutcomeEmptyInput
		res.add(LevelWarning, msgEmptyDescription)
		return res
	}

	enh := s.enhancer.Enhance(ctx, req.Description)
	if enh.Fallback {
		res.EnhancementFailed = true
		res.add(LevelWarning, enh.Warning)
	}
	res.EnhancedPrompt = domain.EnhancedPrompt(enh.Prompt)
	res.add(LevelInfo, enhancedPromptMessage(enh.Prompt))

	job, err := s.submitter.Submit(ctx, res.EnhancedPrompt, req.Style, req.Orientation)
	if err != nil {
		return s.fail(res, err)
	}
	res.Job = &job
	res.add(LevelInfo, submittedMessage(job.ID, job.FrameCost))

	polled, err := s.poller.Wait(ctx, job.ID, func(p image.Progress) {
		res.Progress = p.Percent
		res.StatusLabel = p.Label
		s.logger.Debug().Str("job_id", job.ID).Int("progress", p.Percent).Str("status", p.Label).Msg("sketch: progress")
	})
	res.Attempts = polled.Attempts
	if err != nil {
		return s.fail(res, err)
	}
	if polled.Failed {
		res.Kind = domain.OutcomeJobFailed
		res.Progress = 0
		res.add(LevelError, msgJobFailed)
		return res
	}
	if polled.Asset == nil {
		// Completed without downloadable output: success with nothing to show.
		res.add(LevelSuccess, msgSuccess)
		return res
	}
	return s.render(ctx, res, *polled.Asset)
}

func (s *Service) render(ctx context.Context, res Result, download domain.Download) Result {
	data, err := s.fetcher.Download(ctx, download.URL)
	if err != nil {
		s.logger.Error().Err(err).Str("url", download.URL).Msg("sketch: fetch asset failed")
		res.Kind = domain.OutcomeOtherError
		res.add(LevelError, downloadErrorMessage(fmt.Errorf("%w: %v", domain.ErrAssetFetch, err)))
		return res
	}
	s.sweep(ctx)
	token := uuid.NewString()
	if _, err := s.stager.Write(ctx, stagingKey(token), data); err != nil {
		s.logger.Error().Err(err).Msg("sketch: stage asset failed")
		res.Kind = domain.OutcomeOtherError
		res.add(LevelError, downloadErrorMessage(err))
		return res
	}
	s.mu.Lock()
	s.staged[token] = s.now().Add(s.stageTTL)
	s.mu.Unlock()
	res.Asset = &Asset{Token: token, SourceURL: download.URL, Size: len(data)}
	res.add(LevelSuccess, msgSuccess)
	return res
}

func (s *Service) fail(res Result, err error) Result {
	res.Kind = image.ClassifyError(err)
	switch res.Kind {
	case domain.OutcomeInsufficientCredits:
		res.add(LevelError, InsufficientCreditsMessage(s.costFrames))
	case domain.OutcomeTimeout:
		res.add(LevelError, timeoutMessage(res.Attempts))
	default:
		res.Kind = domain.OutcomeOtherError
		res.add(LevelError, GenericErrorMessage(err))
	}
	s.logger.Warn().Err(err).Str("kind", string(res.Kind)).Msg("sketch: generate failed")
	return res
}

// Image returns the staged bytes for a token handed out in a Result. Tokens
// expire StageTTL after staging.
func (s *Service) Image(ctx context.Context, token string) ([]byte, error) {
	if _, err := uuid.Parse(token); err != nil {
		return nil, fmt.Errorf("sketch: token %q: %w", token, domain.ErrNotFound)
	}
	s.sweep(ctx)
	s.mu.Lock()
	_, ok := s.staged[token]
	s.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("sketch: token %q: %w", token, domain.ErrNotFound)
	}
	return s.stager.Read(ctx, stagingKey(token))
}

// sweep removes staged images whose TTL has passed.
func (s *Service) sweep(ctx context.Context) {
	now := s.now()
	var expired []string
	s.mu.Lock()
	for token, until := range s.staged {
		if !now.Before(until) {
			expired = append(expired, token)
			delete(s.staged, token)
		}
	}
	s.mu.Unlock()
	for _, token := range expired {
		if err := s.stager.Remove(ctx, stagingKey(token)); err != nil {
			s.logger.Warn().Err(err).Str("token", token).Msg("sketch: remove expired asset failed")
		}
	}
}

func stagingKey(token string) string {
	return "sketches/" + token + ".png"
}
