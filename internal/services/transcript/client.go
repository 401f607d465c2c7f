// client.go is the HTTP client for the transcript backend.
package transcript

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Shimizu-Technology/transcript-viewer/internal/models"
)

// Discovery is the outcome of a languages lookup. It never carries an error
// for the caller to handle: every failure path resolves to zero languages.
type Discovery struct {
	Status    string
	Languages []models.LanguageOption
	Note      string // advisory text from a fallback or no_transcripts response
	Err       error  // why discovery degraded, for logging only
}

// NoTranscripts reports whether the backend said the video has no captions.
func (d Discovery) NoTranscripts() bool {
	return d.Status == models.APIStatusNoTranscripts
}

// Result is a successfully fetched transcript.
type Result struct {
	VideoID    string
	Language   string // the effective language, empty when none was requested
	Transcript string
}

// Client calls the languages and transcript endpoints of one session
// configuration.
type Client struct {
	cfg        models.Configuration
	baseURL    *url.URL // resolves relative endpoints; nil keeps them as-is
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the HTTP client timeout. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// NewClient creates a client for cfg. baseURL is the origin relative
// endpoints ("/api/...") are resolved against; it may be empty when the
// configuration already holds absolute URLs.
func NewClient(cfg models.Configuration, baseURL string, opts ...Option) (*Client, error) {
	c := &Client{
		cfg: cfg,
		// Go Pattern: Always configure timeouts on HTTP clients.
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}

	if baseURL != "" && baseURL != "file://" {
		u, err := url.Parse(strings.TrimRight(baseURL, "/"))
		if err != nil {
			return nil, fmt.Errorf("invalid API origin %q: %w", baseURL, err)
		}
		c.baseURL = u
	}

	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) endpoint(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid endpoint %q: %w", raw, err)
	}
	if u.IsAbs() || c.baseURL == nil {
		return u.String(), nil
	}
	return c.baseURL.ResolveReference(u).String(), nil
}

// FetchLanguages asks the backend which caption languages a video has.
// GET <languagesEndpoint>?url=<video URL>
func (c *Client) FetchLanguages(ctx context.Context, videoURL string) Discovery {
	endpoint, err := c.endpoint(c.cfg.LanguagesEndpoint)
	if err != nil {
		return Discovery{Status: models.APIStatusError, Err: err}
	}
	endpoint += "?url=" + url.QueryEscape(videoURL)
	c.debugf("🔍 Fetching available languages: %s", endpoint)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Discovery{Status: models.APIStatusError, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("X-API-Key", c.cfg.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("⚠️  Languages request failed: %v", err)
		return Discovery{Status: models.APIStatusError, Err: c.transportError(endpoint, err)}
	}
	defer resp.Body.Close() // Go Pattern: ALWAYS close response bodies!

	if resp.StatusCode != http.StatusOK {
		log.Printf("⚠️  Languages API returned HTTP %d", resp.StatusCode)
		return Discovery{Status: models.APIStatusError, Err: fmt.Errorf("languages API returned HTTP %d", resp.StatusCode)}
	}

	var body models.LanguagesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		log.Printf("⚠️  Failed to parse languages response: %v", err)
		return Discovery{Status: models.APIStatusError, Err: fmt.Errorf("failed to parse languages response: %w", err)}
	}

	switch body.Status {
	case models.APIStatusSuccess, models.APIStatusFallback:
		if body.Status == models.APIStatusFallback && body.Note != "" {
			log.Printf("ℹ️  Languages fallback: %s", body.Note)
		}
		langs := make([]models.LanguageOption, 0, len(body.Languages))
		for _, entry := range body.Languages {
			if entry.LanguageCode == "" {
				continue
			}
			langs = append(langs, entry.Option())
		}
		c.debugf("🔍 Found %d languages", len(langs))
		return Discovery{Status: body.Status, Languages: langs, Note: body.Note}

	case models.APIStatusNoTranscripts:
		note := body.Note
		if note == "" {
			note = MsgNoTranscripts
		}
		log.Printf("ℹ️  No transcripts available for this video: %s", note)
		return Discovery{Status: body.Status, Note: note}

	default:
		log.Printf("⚠️  Languages API error (status %q): %s", body.Status, body.Error)
		return Discovery{Status: body.Status, Err: fmt.Errorf("languages API status %q: %s", body.Status, body.Error)}
	}
}

// FetchTranscript fetches the transcript text, optionally in one language.
// POST <transcriptEndpoint> {"url": ..., "language": ...}
func (c *Client) FetchTranscript(ctx context.Context, videoURL, language string) (*Result, error) {
	if c.cfg.APIKey == "" {
		log.Println("❌ API key is not set; check the session configuration")
		return nil, &ConfigurationError{Message: MsgMissingAPIKey}
	}

	endpoint, err := c.endpoint(c.cfg.TranscriptEndpoint)
	if err != nil {
		return nil, &ConfigurationError{Message: err.Error()}
	}

	payload, err := json.Marshal(models.TranscriptRequest{URL: videoURL, Language: language})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	c.debugf("🔍 Transcript request to %s: %s", endpoint, payload)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-API-Key", c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.transportError(endpoint, err)
	}
	defer resp.Body.Close()

	c.debugf("🔍 Transcript API response status: %d", resp.StatusCode)

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, &RateLimitedError{}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.transportError(endpoint, err)
	}

	var body models.TranscriptResponse
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, &APIError{
			HTTPStatus: resp.StatusCode,
			Status:     models.APIStatusError,
			Message:    fmt.Sprintf("Unexpected response from transcript API (HTTP %d)", resp.StatusCode),
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newAPIError(resp.StatusCode, body)
	}
	if body.Status != models.APIStatusSuccess {
		return nil, newAPIError(resp.StatusCode, body)
	}

	return &Result{
		VideoID:    body.VideoID,
		Language:   language,
		Transcript: body.Transcript,
	}, nil
}

func newAPIError(code int, body models.TranscriptResponse) *APIError {
	return &APIError{
		HTTPStatus: code,
		Status:     body.Status,
		Detail:     body.Detail,
		Message:    body.Message,
		Note:       body.Note,
		Reason:     body.Error,
	}
}

// transportError normalizes a failed round trip. Cancellation is returned
// unchanged so callers can tell it apart from an unreachable server.
func (c *Client) transportError(endpoint string, err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	target := endpoint
	if u, perr := url.Parse(endpoint); perr == nil && u.Host != "" {
		target = u.Scheme + "://" + u.Host
	}
	return &TransportError{Local: c.cfg.Local, Endpoint: target, Err: err}
}

func (c *Client) debugf(format string, args ...any) {
	if c.cfg.Debug {
		log.Printf(format, args...)
	}
}
