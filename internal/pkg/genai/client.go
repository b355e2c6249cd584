package genai

import (
	"bufio"
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"github.com/yigit/collegeportal/internal/pkg/apperrors"
	"go.uber.org/ratelimit"
)

const upstreamName = "gemini"

// Config configures the REST client
type Config struct {
	APIKey     string
	BaseURL    string
	TextModel  string
	ImageModel string
	Timeout    time.Duration
	// RateLimit is the maximum number of requests per second
	RateLimit int
}

// Client talks to the Gemini generative language REST API
type Client struct {
	cfg     Config
	http    *resty.Client
	limiter ratelimit.Limiter
	logger  zerolog.Logger
}

// NewClient creates a client. A client without an API key answers every call with ErrNotConfigured.
func NewClient(cfg Config, logger zerolog.Logger) *Client {
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = 1
	}
	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetHeader("x-goog-api-key", cfg.APIKey)
	if cfg.Timeout > 0 {
		// bounds the wait for response headers only; streamed bodies may run longer
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.ResponseHeaderTimeout = cfg.Timeout
		httpClient.SetTransport(transport)
	}

	return &Client{
		cfg:     cfg,
		http:    httpClient,
		limiter: ratelimit.New(cfg.RateLimit, ratelimit.WithoutSlack),
		logger:  logger.With().Str("component", "genai").Logger(),
	}
}

// requestContext bounds a non-streaming call by the configured timeout
func (c *Client) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.cfg.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.cfg.Timeout)
}

// Configured reports whether an API key is present
func (c *Client) Configured() bool {
	return c.cfg.APIKey != ""
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type googleSearch struct{}

type tool struct {
	GoogleSearch *googleSearch `json:"googleSearch,omitempty"`
}

type generateRequest struct {
	Contents          []content `json:"contents"`
	SystemInstruction *content  `json:"systemInstruction,omitempty"`
	Tools             []tool    `json:"tools,omitempty"`
}

type groundingChunk struct {
	Web *struct {
		URI   string `json:"uri"`
		Title string `json:"title"`
	} `json:"web,omitempty"`
}

type candidate struct {
	Content           content `json:"content"`
	FinishReason      string  `json:"finishReason"`
	GroundingMetadata *struct {
		GroundingChunks []groundingChunk `json:"groundingChunks"`
	} `json:"groundingMetadata,omitempty"`
}

type generateResponse struct {
	Candidates     []candidate `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback,omitempty"`
}

// text joins the parts of the first candidate
func (r generateResponse) text() string {
	if len(r.Candidates) == 0 {
		return ""
	}
	var b strings.Builder
	for _, p := range r.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}
	return b.String()
}

func (r generateResponse) sources() []Source {
	if len(r.Candidates) == 0 || r.Candidates[0].GroundingMetadata == nil {
		return nil
	}
	var out []Source
	for _, gc := range r.Candidates[0].GroundingMetadata.GroundingChunks {
		if gc.Web != nil {
			out = append(out, Source{URI: gc.Web.URI, Title: gc.Web.Title})
		}
	}
	return out
}

func (r generateResponse) blocked() error {
	if r.PromptFeedback != nil && r.PromptFeedback.BlockReason != "" {
		return apperrors.NewUpstreamError(upstreamName, fmt.Errorf("prompt blocked: %s", r.PromptFeedback.BlockReason))
	}
	return nil
}

type predictRequest struct {
	Instances  []map[string]string `json:"instances"`
	Parameters map[string]any      `json:"parameters"`
}

type predictResponse struct {
	Predictions []struct {
		BytesBase64Encoded string `json:"bytesBase64Encoded"`
		MimeType           string `json:"mimeType"`
	} `json:"predictions"`
}

// GenerateText implements Gateway
func (c *Client) GenerateText(ctx context.Context, prompt, contextText string) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}

	text := prompt
	if contextText != "" {
		text = contextText + "\n\n" + prompt
	}
	body := generateRequest{Contents: []content{{Role: RoleUser, Parts: []part{{Text: text}}}}}

	reqCtx, cancel := c.requestContext(ctx)
	defer cancel()

	var out generateResponse
	c.limiter.Take()
	resp, err := c.http.R().
		SetContext(reqCtx).
		SetPathParam("model", c.cfg.TextModel).
		SetBody(body).
		SetResult(&out).
		Post("/models/{model}:generateContent")
	if err != nil {
		return "", apperrors.NewUpstreamError(upstreamName, err)
	}
	if resp.IsError() {
		return "", c.statusError(resp.StatusCode(), resp.Body())
	}
	if err := out.blocked(); err != nil {
		return "", err
	}
	return out.text(), nil
}

// StreamChat implements Gateway. The request is sent before returning so that
// transport and status failures surface as errors rather than inside the stream.
func (c *Client) StreamChat(ctx context.Context, history []Message, message, systemPrompt string, opts ChatOptions) (*Stream, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	body := generateRequest{}
	for _, m := range history {
		body.Contents = append(body.Contents, content{Role: m.Role, Parts: []part{{Text: m.Text}}})
	}
	body.Contents = append(body.Contents, content{Role: RoleUser, Parts: []part{{Text: message}}})
	if systemPrompt != "" {
		body.SystemInstruction = &content{Parts: []part{{Text: systemPrompt}}}
	}
	if opts.WebSearch {
		body.Tools = []tool{{GoogleSearch: &googleSearch{}}}
	}

	streamCtx, cancel := context.WithCancel(ctx)
	c.limiter.Take()
	resp, err := c.http.R().
		SetContext(streamCtx).
		SetPathParam("model", c.cfg.TextModel).
		SetQueryParam("alt", "sse").
		SetBody(body).
		SetDoNotParseResponse(true).
		Post("/models/{model}:streamGenerateContent")
	if err != nil {
		cancel()
		return nil, apperrors.NewUpstreamError(upstreamName, err)
	}
	raw := resp.RawBody()
	if resp.StatusCode() >= http.StatusBadRequest {
		defer cancel()
		defer raw.Close()
		data, _ := io.ReadAll(io.LimitReader(raw, 4096))
		return nil, c.statusError(resp.StatusCode(), data)
	}

	return NewStream(streamCtx, func(ctx context.Context, emit func(Chunk) bool) error {
		defer cancel()
		defer raw.Close()
		// Stream.Close cancels ctx only; abort the request so a stalled body read returns
		stop := context.AfterFunc(ctx, cancel)
		defer stop()
		return c.readEvents(ctx, raw, emit)
	}), nil
}

// readEvents parses a server-sent event body, one generateResponse per data line
func (c *Client) readEvents(ctx context.Context, r io.Reader, emit func(Chunk) bool) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		if !bytes.HasPrefix(line, []byte("data:")) {
			continue
		}
		payload := bytes.TrimSpace(bytes.TrimPrefix(line, []byte("data:")))
		if len(payload) == 0 {
			continue
		}

		var event generateResponse
		if err := json.Unmarshal(payload, &event); err != nil {
			c.logger.Warn().Err(err).Msg("Skipping undecodable stream event")
			continue
		}
		if err := event.blocked(); err != nil {
			return err
		}
		chunk := Chunk{TextDelta: event.text(), Sources: event.sources()}
		if chunk.TextDelta == "" && len(chunk.Sources) == 0 {
			continue
		}
		if !emit(chunk) {
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return apperrors.NewUpstreamError(upstreamName, err)
	}
	return nil
}

// GenerateImage implements Gateway
func (c *Client) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	body := predictRequest{
		Instances: []map[string]string{{"prompt": prompt}},
		Parameters: map[string]any{
			"sampleCount":    1,
			"outputMimeType": "image/jpeg",
			"aspectRatio":    "1:1",
		},
	}

	reqCtx, cancel := c.requestContext(ctx)
	defer cancel()

	var out predictResponse
	c.limiter.Take()
	resp, err := c.http.R().
		SetContext(reqCtx).
		SetPathParam("model", c.cfg.ImageModel).
		SetBody(body).
		SetResult(&out).
		Post("/models/{model}:predict")
	if err != nil {
		return nil, apperrors.NewUpstreamError(upstreamName, err)
	}
	if resp.IsError() {
		return nil, c.statusError(resp.StatusCode(), resp.Body())
	}
	if len(out.Predictions) == 0 || out.Predictions[0].BytesBase64Encoded == "" {
		return nil, apperrors.NewUpstreamError(upstreamName, errors.New("no image returned"))
	}

	img, err := base64.StdEncoding.DecodeString(out.Predictions[0].BytesBase64Encoded)
	if err != nil {
		return nil, apperrors.NewUpstreamError(upstreamName, fmt.Errorf("decode image: %w", err))
	}
	return img, nil
}

func (c *Client) statusError(status int, body []byte) error {
	c.logger.Error().Int("status", status).Str("body", truncate(string(body), 512)).Msg("Upstream request failed")
	return apperrors.NewUpstreamError(upstreamName, fmt.Errorf("unexpected status %d", status))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
