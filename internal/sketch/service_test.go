package sketch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sketchgen/internal/domain"
	"sketchgen/internal/providers/image"
	"sketchgen/internal/providers/magichour"
	"sketchgen/internal/providers/prompt"
	"sketchgen/internal/storage"
)

type fakeEnhancer struct {
	res   prompt.Enhancement
	calls int
}

func (f *fakeEnhancer) Enhance(ctx context.Context, description string) prompt.Enhancement {
	f.calls++
	if f.res.Prompt == "" {
		return prompt.Enhancement{Prompt: description}
	}
	return f.res
}

type fakeSubmitter struct {
	job    domain.GenerationJob
	err    error
	calls  int
	prompt domain.EnhancedPrompt
	style  domain.Style
}

func (f *fakeSubmitter) Submit(ctx context.Context, p domain.EnhancedPrompt, style domain.Style, orientation domain.Orientation) (domain.GenerationJob, error) {
	f.calls++
	f.prompt = p
	f.style = style
	return f.job, f.err
}

type fakeWaiter struct {
	progress []image.Progress
	res      image.PollResult
	err      error
	panicMsg string
}

func (f *fakeWaiter) Wait(ctx context.Context, jobID string, onProgress func(image.Progress)) (image.PollResult, error) {
	if f.panicMsg != "" {
		panic(f.panicMsg)
	}
	for _, p := range f.progress {
		onProgress(p)
	}
	return f.res, f.err
}

type fakeFetcher struct {
	data []byte
	err  error
	urls []string
}

func (f *fakeFetcher) Download(ctx context.Context, url string) ([]byte, error) {
	f.urls = append(f.urls, url)
	return f.data, f.err
}

type fixture struct {
	enhancer  *fakeEnhancer
	submitter *fakeSubmitter
	waiter    *fakeWaiter
	fetcher   *fakeFetcher
	store     *storage.FileStore
	svc       *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)
	f := &fixture{
		enhancer:  &fakeEnhancer{},
		submitter: &fakeSubmitter{job: domain.GenerationJob{ID: "job-1", FrameCost: 5}},
		waiter: &fakeWaiter{res: image.PollResult{
			Status: domain.JobStatus{State: domain.JobStateComplete},
			Asset:  &domain.Download{URL: "https://cdn.example.com/out-final.png"},
		}},
		fetcher: &fakeFetcher{data: []byte{0x89, 'P', 'N', 'G'}},
		store:   store,
	}
	f.svc = NewService(Deps{
		Enhancer:   f.enhancer,
		Submitter:  f.submitter,
		Poller:     f.waiter,
		Fetcher:    f.fetcher,
		Stager:     store,
		CostFrames: 5,
	})
	return f
}

func request(desc string) domain.UserRequest {
	return domain.UserRequest{Description: desc, Style: domain.StyleSketch}
}

func TestGenerateEmptyDescriptionSkipsSubmit(t *testing.T) {
	for _, desc := range []string{"", "   ", "\n\t"} {
		f := newFixture(t)
		res := f.svc.Generate(context.Background(), request(desc))

		assert.Equal(t, domain.OutcomeEmptyInput, res.Kind)
		assert.Zero(t, f.enhancer.calls)
		assert.Zero(t, f.submitter.calls)
		require.Len(t, res.Notices, 1)
		assert.Equal(t, Notice{Level: LevelWarning, Text: "Please enter a description for your sketch."}, res.Notices[0])
	}
}

func TestGenerateSuccessStagesAsset(t *testing.T) {
	f := newFixture(t)
	f.enhancer.res = prompt.Enhancement{Prompt: "a detailed owl"}
	f.waiter.progress = []image.Progress{{Percent: 0}, {Percent: 50, Label: "Status: queued"}, {Percent: 100, Label: "Status: complete"}}

	res := f.svc.Generate(context.Background(), request("owl"))

	assert.Equal(t, domain.OutcomeOK, res.Kind)
	assert.False(t, res.Failed())
	assert.Equal(t, domain.EnhancedPrompt("a detailed owl"), f.submitter.prompt)
	assert.Equal(t, 100, res.Progress)
	require.NotNil(t, res.Asset)
	assert.Equal(t, "https://cdn.example.com/out-final.png", res.Asset.SourceURL)

	data, err := f.svc.Image(context.Background(), res.Asset.Token)
	require.NoError(t, err)
	assert.Equal(t, f.fetcher.data, data)

	infos := res.NoticesAt(LevelInfo)
	require.Len(t, infos, 2)
	assert.Equal(t, "Enhanced prompt: a detailed owl", infos[0].Text)
	assert.Contains(t, infos[1].Text, "job-1")
	assert.Contains(t, infos[1].Text, "5 frames")
	assert.Equal(t, []Notice{{Level: LevelSuccess, Text: "✨ Sketch created successfully!"}}, res.NoticesAt(LevelSuccess))
}

func TestGenerateEnhancementFallbackWarnsOnce(t *testing.T) {
	f := newFixture(t)
	f.enhancer.res = prompt.Enhancement{
		Prompt:   "owl",
		Fallback: true,
		Warning:  "Could not enhance prompt: boom. Using original prompt.",
	}

	res := f.svc.Generate(context.Background(), request("owl"))

	assert.Equal(t, domain.OutcomeOK, res.Kind)
	assert.True(t, res.EnhancementFailed)
	assert.Len(t, res.NoticesAt(LevelWarning), 1)
	assert.Equal(t, domain.EnhancedPrompt("owl"), f.submitter.prompt)
}

func TestGenerateSubmissionFailures(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantKind domain.OutcomeKind
		check    func(t *testing.T, text string)
	}{
		{
			name:     "insufficient frames",
			err:      errors.New("Insufficient frames available"),
			wantKind: domain.OutcomeInsufficientCredits,
			check: func(t *testing.T, text string) {
				assert.True(t, strings.HasPrefix(text, "⚠️ Insufficient frames to generate sketch!"))
				assert.Contains(t, text, "costs 5 frames")
				assert.Contains(t, text, "Upgrade your plan")
			},
		},
		{
			name:     "network timeout",
			err:      errors.New("network timeout"),
			wantKind: domain.OutcomeOtherError,
			check: func(t *testing.T, text string) {
				assert.Equal(t, "An error occurred: network timeout", text)
			},
		},
		{
			name:     "typed quota error",
			err:      &magichour.APIError{StatusCode: 402, Message: "payment required"},
			wantKind: domain.OutcomeInsufficientCredits,
			check: func(t *testing.T, text string) {
				assert.Contains(t, text, "Insufficient frames")
			},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			sub := image.NewSubmitter(&failingClient{err: tc.err}, image.ParamOptions{}, nil)
			f.svc.submitter = sub

			res := f.svc.Generate(context.Background(), request("owl"))

			assert.Equal(t, tc.wantKind, res.Kind)
			assert.True(t, res.Failed())
			assert.Nil(t, res.Asset)
			errs := res.NoticesAt(LevelError)
			require.Len(t, errs, 1)
			tc.check(t, errs[0].Text)
		})
	}
}

func TestGenerateJobError(t *testing.T) {
	f := newFixture(t)
	f.waiter.res = image.PollResult{Failed: true, Status: domain.JobStatus{State: domain.JobStateError}}

	res := f.svc.Generate(context.Background(), request("owl"))

	assert.Equal(t, domain.OutcomeJobFailed, res.Kind)
	assert.Nil(t, res.Asset)
	assert.Empty(t, f.fetcher.urls)
	assert.Equal(t, []Notice{{Level: LevelError, Text: "❌ Sketch generation failed"}}, res.NoticesAt(LevelError))
}

func TestGenerateCompleteWithoutDownloads(t *testing.T) {
	f := newFixture(t)
	f.waiter.res = image.PollResult{Status: domain.JobStatus{State: domain.JobStateComplete}}

	res := f.svc.Generate(context.Background(), request("owl"))

	assert.Equal(t, domain.OutcomeOK, res.Kind)
	assert.Nil(t, res.Asset)
	assert.Empty(t, f.fetcher.urls)
	assert.Len(t, res.NoticesAt(LevelSuccess), 1)
}

func TestGenerateFetchFailureReportsDownloadError(t *testing.T) {
	f := newFixture(t)
	f.fetcher.err = errors.New("magichour: download status 403")

	res := f.svc.Generate(context.Background(), request("owl"))

	assert.Equal(t, domain.OutcomeOtherError, res.Kind)
	assert.Nil(t, res.Asset)
	errs := res.NoticesAt(LevelError)
	require.Len(t, errs, 1)
	assert.True(t, strings.HasPrefix(errs[0].Text, "Could not download sketch: "))
	assert.Empty(t, res.NoticesAt(LevelSuccess))
}

func TestGeneratePollTimeout(t *testing.T) {
	f := newFixture(t)
	f.waiter.res = image.PollResult{Attempts: 4}
	f.waiter.err = domain.ErrPollTimeout

	res := f.svc.Generate(context.Background(), request("owl"))

	assert.Equal(t, domain.OutcomeTimeout, res.Kind)
	assert.Equal(t, "Sketch generation timed out after 4 status checks.", res.NoticesAt(LevelError)[0].Text)
}

func TestGenerateRecoversFromPanic(t *testing.T) {
	f := newFixture(t)
	f.waiter.panicMsg = "nil map"

	res := f.svc.Generate(context.Background(), request("owl"))

	assert.Equal(t, domain.OutcomeOtherError, res.Kind)
	assert.Equal(t, "An error occurred: nil map", res.NoticesAt(LevelError)[0].Text)
}

func TestImageRejectsUnknownTokens(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Image(context.Background(), "../../etc/passwd")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.svc.Image(context.Background(), "3f1c1b8e-0f6d-4c1e-9d51-2f7c3b2a9e10")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func stagedFiles(t *testing.T, store *storage.FileStore) int {
	t.Helper()
	entries, err := os.ReadDir(filepath.Join(store.BasePath(), "sketches"))
	if errors.Is(err, os.ErrNotExist) {
		return 0
	}
	require.NoError(t, err)
	return len(entries)
}

func TestStagedImagesExpire(t *testing.T) {
	f := newFixture(t)
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	f.svc.now = func() time.Time { return now }

	var tokens []string
	for i := 0; i < 5; i++ {
		res := f.svc.Generate(context.Background(), request("owl"))
		require.NotNil(t, res.Asset)
		tokens = append(tokens, res.Asset.Token)
	}
	assert.Equal(t, 5, stagedFiles(t, f.store))

	now = now.Add(DefaultStageTTL - time.Second)
	_, err := f.svc.Image(context.Background(), tokens[0])
	require.NoError(t, err, "still servable before the ttl")

	now = now.Add(time.Second)
	_, err = f.svc.Image(context.Background(), tokens[0])
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Zero(t, stagedFiles(t, f.store))

	res := f.svc.Generate(context.Background(), request("heron"))
	require.NotNil(t, res.Asset)
	assert.Equal(t, 1, stagedFiles(t, f.store))
}

func TestStageTTLIsConfigurable(t *testing.T) {
	f := newFixture(t)
	svc := NewService(Deps{
		Enhancer:  f.enhancer,
		Submitter: f.submitter,
		Poller:    f.waiter,
		Fetcher:   f.fetcher,
		Stager:    f.store,
		StageTTL:  time.Minute,
	})
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	res := svc.Generate(context.Background(), request("owl"))
	require.NotNil(t, res.Asset)

	now = now.Add(time.Minute)
	_, err := svc.Image(context.Background(), res.Asset.Token)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

type failingClient struct {
	err error
}

func (c *failingClient) CreateImage(ctx context.Context, req magichour.CreateImageRequest) (*magichour.CreateImageResponse, error) {
	return nil, c.err
}

func (c *failingClient) GetImageProject(ctx context.Context, id string) (*magichour.ImageProject, error) {
	return nil, c.err
}
