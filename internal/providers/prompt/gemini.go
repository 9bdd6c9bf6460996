package prompt

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const defaultGeminiModel = "gemini-2.0-flash"

// GeminiOptions configures the Gemini text generator. The sampling values are
// knobs, not contracts.
type GeminiOptions struct {
	APIKey          string
	Model           string
	Temperature     float64
	TopP            float64
	TopK            int
	MaxOutputTokens int
	ClientOptions   []option.ClientOption
}

// GeminiGenerator calls the Gemini generateContent API through the official SDK.
type GeminiGenerator struct {
	client *genai.Client
	model  *genai.GenerativeModel
	name   string
}

// NewGeminiGenerator creates the SDK client once; it is safe to share across requests.
func NewGeminiGenerator(ctx context.Context, opts GeminiOptions) (*GeminiGenerator, error) {
	apiKey := strings.TrimSpace(opts.APIKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}
	name := strings.TrimSpace(opts.Model)
	if name == "" {
		name = defaultGeminiModel
	}
	clientOpts := append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts.ClientOptions...)
	client, err := genai.NewClient(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	model := client.GenerativeModel(name)
	applySampling(model, opts)
	return &GeminiGenerator{client: client, model: model, name: name}, nil
}

func applySampling(model *genai.GenerativeModel, opts GeminiOptions) {
	model.SetTemperature(float32(opts.Temperature))
	if opts.TopP > 0 {
		model.SetTopP(float32(opts.TopP))
	}
	if opts.TopK > 0 {
		model.SetTopK(int32(opts.TopK))
	}
	if opts.MaxOutputTokens > 0 {
		model.SetMaxOutputTokens(int32(opts.MaxOutputTokens))
	}
}

// Model returns the configured model name.
func (g *GeminiGenerator) Model() string {
	return g.name
}

// Close releases the underlying SDK client.
func (g *GeminiGenerator) Close() error {
	if g == nil || g.client == nil {
		return nil
	}
	return g.client.Close()
}

// GenerateText implements TextGenerator.
func (g *GeminiGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini: generate content: %w", err)
	}
	text := textFromResponse(resp)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// textFromResponse concatenates the text parts of the first candidate that has any.
func textFromResponse(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		var sb strings.Builder
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				sb.WriteString(string(text))
			}
		}
		if strings.TrimSpace(sb.String()) != "" {
			return sb.String()
		}
	}
	return ""
}

var _ TextGenerator = (*GeminiGenerator)(nil)
