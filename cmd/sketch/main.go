package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"sketchgen/internal/domain"
	"sketchgen/internal/infra"
	"sketchgen/internal/providers/image"
	"sketchgen/internal/providers/magichour"
	"sketchgen/internal/providers/prompt"
	"sketchgen/internal/sketch"
	"sketchgen/internal/storage"
)

const (
	exitOK     = 0
	exitFailed = 1
	exitUsage  = 2
)

type options struct {
	description string
	style       string
	orientation string
	out         string
}

// generator is the part of sketch.Service the command drives.
type generator interface {
	Generate(ctx context.Context, req domain.UserRequest) sketch.Result
	Image(ctx context.Context, token string) ([]byte, error)
}

type pipelineFunc func(ctx context.Context, cfg *infra.Config, logger *infra.Logger) (generator, func(), error)

func main() {
	_ = godotenv.Load(".env", ".env.local")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr, newPipeline)
	stop()
	os.Exit(code)
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("sketch", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.description, "description", "", "What to sketch")
	fs.StringVar(&opts.style, "style", string(domain.StyleSketch), "Art style (sketch, line_art, minimalist, hand_drawn)")
	fs.StringVar(&opts.orientation, "orientation", "", "Image orientation (landscape, portrait, square)")
	fs.StringVar(&opts.out, "out", sketch.DownloadFilename, "Where to write the sketch")
	err := fs.Parse(args)
	return opts, err
}

func buildRequest(opts options, orientationEnabled bool) (domain.UserRequest, error) {
	style, err := domain.ParseStyle(opts.style)
	if err != nil {
		return domain.UserRequest{}, err
	}
	req := domain.UserRequest{Description: opts.description, Style: style}
	if orientationEnabled {
		if req.Orientation, err = domain.ParseOrientation(opts.orientation); err != nil {
			return domain.UserRequest{}, err
		}
	}
	return req, nil
}

// run executes one generate action and returns the process exit code:
// 0 when the sketch was written, 1 when the action or I/O failed, 2 for bad flags.
// Logs go to stderr so stdout only carries the result line.
func run(ctx context.Context, args []string, stdout, stderr io.Writer, pipeline pipelineFunc) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return exitUsage
	}

	cfg, err := infra.LoadConfig()
	if err != nil {
		var cfgErr *infra.ConfigError
		if errors.As(err, &cfgErr) {
			fmt.Fprintln(stderr, cfgErr.Message)
		} else {
			fmt.Fprintf(stderr, "failed to load config: %v\n", err)
		}
		return exitFailed
	}

	req, err := buildRequest(opts, cfg.OrientationEnabled)
	if err != nil {
		fmt.Fprintln(stderr, sketch.GenericErrorMessage(err))
		return exitUsage
	}

	logger := infra.NewLoggerTo(stderr, "cli").With().Str("cmd", "sketch").Logger()

	gen, cleanup, err := pipeline(ctx, cfg, &logger)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitFailed
	}
	defer cleanup()

	res := gen.Generate(ctx, req)
	for _, n := range res.Notices {
		fmt.Fprintf(stderr, "[%s] %s\n", n.Level, n.Text)
	}
	if res.Failed() {
		return exitFailed
	}
	if res.Asset == nil {
		fmt.Fprintln(stderr, "job completed without a downloadable image")
		return exitFailed
	}

	data, err := gen.Image(ctx, res.Asset.Token)
	if err != nil {
		fmt.Fprintf(stderr, "failed to read sketch: %v\n", err)
		return exitFailed
	}
	if err := os.WriteFile(opts.out, data, 0o644); err != nil {
		fmt.Fprintf(stderr, "failed to write %s: %v\n", opts.out, err)
		return exitFailed
	}
	fmt.Fprintf(stdout, "sketch saved to %s\n", opts.out)
	return exitOK
}

// newPipeline wires the real providers against an owned temp staging dir.
func newPipeline(ctx context.Context, cfg *infra.Config, logger *infra.Logger) (generator, func(), error) {
	gemini, err := prompt.NewGeminiGenerator(ctx, prompt.GeminiOptions{
		APIKey:          cfg.GoogleAPIKey,
		Model:           cfg.GeminiModel,
		Temperature:     cfg.GeminiTemperature,
		TopP:            cfg.GeminiTopP,
		TopK:            cfg.GeminiTopK,
		MaxOutputTokens: cfg.GeminiMaxOutputTokens,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	mh, err := magichour.NewClient(magichour.Options{
		APIKey:         cfg.MagicHourAPIKey,
		BaseURL:        cfg.MagicHourBaseURL,
		Logger:         logger,
		RequestTimeout: cfg.MagicHourTimeout,
	})
	if err != nil {
		_ = gemini.Close()
		return nil, nil, fmt.Errorf("failed to create magic hour client: %w", err)
	}

	store, err := storage.NewFileStore("")
	if err != nil {
		_ = gemini.Close()
		return nil, nil, fmt.Errorf("failed to prepare staging directory: %w", err)
	}

	svc := sketch.NewService(sketch.Deps{
		Enhancer: prompt.NewSketchEnhancer(prompt.Options{Generator: gemini, Logger: logger}),
		Submitter: image.NewSubmitter(mh, image.ParamOptions{
			OrientationEnabled: cfg.OrientationEnabled,
			ImageCount:         cfg.ImageCount,
		}, logger),
		Poller: image.NewPoller(mh, image.PollerOptions{
			Interval:    cfg.PollInterval,
			MaxAttempts: cfg.PollMaxAttempts,
			Logger:      logger,
		}),
		Fetcher:    mh,
		Stager:     store,
		CostFrames: cfg.SketchCostFrames,
		StageTTL:   cfg.StageTTL,
		Logger:     logger,
	})
	cleanup := func() {
		_ = store.Close()
		_ = gemini.Close()
	}
	return svc, cleanup, nil
}
