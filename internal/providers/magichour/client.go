package magichour

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"sketchgen/internal/infra"
)

// ErrMissingAPIKey indicates that the client was configured without credentials.
var ErrMissingAPIKey = errors.New("magichour: api key is required")

const defaultBaseURL = "https://api.magichour.ai"

// Options configures the image-service client.
type Options struct {
	APIKey         string
	BaseURL        string
	HTTPClient     *http.Client
	Logger         *infra.Logger
	RequestTimeout time.Duration
}

// Client performs HTTP calls to the AI image generator and image project APIs.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *infra.Logger
}

// Style carries the prompt and drawing hints of a generation request.
type Style struct {
	Prompt        string `json:"prompt"`
	Tool          string `json:"tool,omitempty"`
	ArtisticStyle string `json:"artistic_style,omitempty"`
	ColorScheme   string `json:"color_scheme,omitempty"`
}

// CreateImageRequest is the body of POST /v1/ai-image-generator.
type CreateImageRequest struct {
	Name        string `json:"name,omitempty"`
	ImageCount  int    `json:"image_count,omitempty"`
	Orientation string `json:"orientation,omitempty"`
	Style       Style  `json:"style"`
}

// CreateImageResponse identifies the queued image project.
type CreateImageResponse struct {
	ID        string `json:"id"`
	FrameCost int    `json:"frame_cost"`
}

// ProjectDownload is one downloadable output of a project.
type ProjectDownload struct {
	URL       string `json:"url"`
	ExpiresAt string `json:"expires_at,omitempty"`
}

// ProjectError is the failure detail attached to errored projects.
type ProjectError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ImageProject is the body of GET /v1/image-projects/{id}.
type ImageProject struct {
	ID        string            `json:"id"`
	Status    string            `json:"status"`
	Downloads []ProjectDownload `json:"downloads"`
	Error     *ProjectError     `json:"error,omitempty"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// NewClient constructs a client with sane defaults and injected dependencies.
// No per-request timeout is applied unless RequestTimeout is set.
func NewClient(opts Options) (*Client, error) {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.RequestTimeout}
	}
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	logger := opts.Logger
	if logger == nil {
		logger = infra.DiscardLogger()
	}
	return &Client{
		apiKey:     strings.TrimSpace(opts.APIKey),
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// HasCredentials reports whether the client can perform remote calls.
func (c *Client) HasCredentials() bool {
	return c.apiKey != ""
}

// CreateImage queues an image generation project.
func (c *Client) CreateImage(ctx context.Context, req CreateImageRequest) (*CreateImageResponse, error) {
	if !c.HasCredentials() {
		return nil, ErrMissingAPIKey
	}
	if strings.TrimSpace(req.Style.Prompt) == "" {
		return nil, errors.New("magichour: prompt is required")
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("magichour: encode request: %w", err)
	}
	var out CreateImageResponse
	if err := c.do(ctx, http.MethodPost, "/v1/ai-image-generator", bytes.NewReader(body), &out); err != nil {
		return nil, err
	}
	if strings.TrimSpace(out.ID) == "" {
		return nil, errors.New("magichour: empty project id")
	}
	c.logger.Debug().
		Str("project_id", out.ID).
		Int("frame_cost", out.FrameCost).
		Msg("magichour: image project created")
	return &out, nil
}

// GetImageProject fetches the current state of a project.
func (c *Client) GetImageProject(ctx context.Context, id string) (*ImageProject, error) {
	if !c.HasCredentials() {
		return nil, ErrMissingAPIKey
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.New("magichour: project id is required")
	}
	var out ImageProject
	if err := c.do(ctx, http.MethodGet, "/v1/image-projects/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Download fetches an asset produced by a project. Asset URLs are pre-signed,
// so no credentials are attached.
func (c *Client) Download(ctx context.Context, assetURL string) ([]byte, error) {
	parsed, err := url.Parse(strings.TrimSpace(assetURL))
	if err != nil || parsed.Scheme == "" {
		return nil, fmt.Errorf("magichour: invalid asset url: %s", assetURL)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsed.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("magichour: build download request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("magichour: download asset: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("magichour: download status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("magichour: read asset: %w", err)
	}
	return data, nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, out any) error {
	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("magichour: build request: %w", err)
	}
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("magichour: http request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("magichour: read response: %w", err)
	}

	if resp.StatusCode >= 300 {
		return newAPIError(resp.StatusCode, raw)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("magichour: decode response: %w", err)
	}
	return nil
}
