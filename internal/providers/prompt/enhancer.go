package prompt

import (
	"context"
	"fmt"
	"strings"

	"sketchgen/internal/infra"
)

// TextGenerator is the text-generation collaborator used to enrich prompts.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Enhancement is the outcome of Enhance. Prompt is always usable: it is the
// generated text on success and the untouched description otherwise.
type Enhancement struct {
	Prompt   string
	Fallback bool
	Reason   error
	Warning  string
}

// Options configures a SketchEnhancer.
type Options struct {
	Generator  TextGenerator
	Logger     *infra.Logger
	OnFallback func(reason string, err error)
}

// SketchEnhancer turns a short description into a richer drawing prompt.
type SketchEnhancer struct {
	generator  TextGenerator
	logger     *infra.Logger
	onFallback func(reason string, err error)
}

// NewSketchEnhancer wires a generator. A nil generator makes every call fall
// back to the original description.
func NewSketchEnhancer(opts Options) *SketchEnhancer {
	logger := opts.Logger
	if logger == nil {
		logger = infra.DiscardLogger()
	}
	return &SketchEnhancer{
		generator:  opts.Generator,
		logger:     logger,
		onFallback: opts.OnFallback,
	}
}

// Enhance never fails. Any generator error, empty output, or a
// missing generator yields the original description with a single warning.
// A panicking generator is treated like a failed call.
func (e *SketchEnhancer) Enhance(ctx context.Context, description string) (res Enhancement) {
	defer func() {
		if r := recover(); r != nil {
			res = e.fallback(description, reasonGenerate, fmt.Errorf("prompt: generator panicked: %v", r))
		}
	}()
	if e == nil || e.generator == nil {
		return e.fallback(description, reasonGenerate, fmt.Errorf("prompt: no text generator configured"))
	}
	text, err := e.generator.GenerateText(ctx, BuildEnhancementPrompt(description))
	if err != nil {
		return e.fallback(description, reasonGenerate, err)
	}
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return e.fallback(description, reasonEmptyResponse, ErrEmptyResponse)
	}
	return Enhancement{Prompt: trimmed}
}

func (e *SketchEnhancer) fallback(description, reason string, err error) Enhancement {
	if e != nil {
		e.logger.Warn().Err(err).Str("reason", reason).Msg("prompt: enhancement failed, using original description")
		if e.onFallback != nil {
			e.onFallback(reason, err)
		}
	}
	return Enhancement{
		Prompt:   description,
		Fallback: true,
		Reason:   err,
		Warning:  warningFor(err),
	}
}
