package model

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/penstroke/pkg/core/stroke"
	"github.com/matzehuels/penstroke/pkg/observability"
)

const (
	// DefaultTimeout bounds a single sampling request. Sampling a full page
	// takes the model several seconds.
	DefaultTimeout = 2 * time.Minute

	// DefaultAttempts is how many times a transient failure is tried.
	DefaultAttempts = 3

	samplePath = "/sample"
)

// HTTPSampler calls a remote model service.
//
// The service receives POST {base}/sample with a JSON body
//
//	{"lines": [...], "biases": [...], "styles": [...]}
//
// and answers with one offset sequence per line:
//
//	{"strokes": [[[dx, dy, eos], ...], ...]}
//
// where eos is 1 for a point that ends a pen segment and 0 otherwise.
type HTTPSampler struct {
	base     string
	client   *http.Client
	attempts int
	delay    time.Duration
	logger   *log.Logger
}

// HTTPOption configures an [HTTPSampler].
type HTTPOption func(*HTTPSampler)

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(s *HTTPSampler) { s.client = c }
}

// WithRetry sets how many attempts a transient failure gets and the initial
// delay between them.
func WithRetry(attempts int, delay time.Duration) HTTPOption {
	return func(s *HTTPSampler) { s.attempts, s.delay = attempts, delay }
}

// WithLogger sets the logger used for request diagnostics. A nil logger
// keeps the default.
func WithLogger(l *log.Logger) HTTPOption {
	return func(s *HTTPSampler) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewHTTPSampler returns a sampler for the model service at base.
func NewHTTPSampler(base string, opts ...HTTPOption) (*HTTPSampler, error) {
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parse model url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("model url %q: scheme must be http or https", base)
	}
	s := &HTTPSampler{
		base:     strings.TrimSuffix(base, "/"),
		client:   &http.Client{Timeout: DefaultTimeout},
		attempts: DefaultAttempts,
		delay:    time.Second,
		logger:   log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Dial returns a [Factory] that builds an [HTTPSampler] and checks that the
// service answers its health endpoint.
func Dial(base string, opts ...HTTPOption) Factory {
	return func(ctx context.Context) (Sampler, error) {
		s, err := NewHTTPSampler(base, opts...)
		if err != nil {
			return nil, err
		}
		if err := s.Ping(ctx); err != nil {
			return nil, err
		}
		return s, nil
	}
}

type sampleRequest struct {
	Lines  []string  `json:"lines"`
	Biases []float64 `json:"biases"`
	Styles []int     `json:"styles"`
}

type sampleResponse struct {
	Strokes [][][]float64 `json:"strokes"`
}

// Sample implements [Sampler].
func (s *HTTPSampler) Sample(ctx context.Context, lines []string, biases []float64, styles []int) ([]stroke.Raw, error) {
	body, err := json.Marshal(sampleRequest{Lines: lines, Biases: biases, Styles: styles})
	if err != nil {
		return nil, err
	}

	var resp sampleResponse
	err = retry(ctx, s.attempts, s.delay, func() error {
		return s.post(ctx, samplePath, body, &resp)
	})
	if err != nil {
		return nil, err
	}
	return decodeStrokes(resp.Strokes)
}

// Ping checks that the model service is reachable.
func (s *HTTPSampler) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.base+"/healthz", nil)
	if err != nil {
		return err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("model service unreachable: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("model service unhealthy: status %d", resp.StatusCode)
	}
	return nil
}

func (s *HTTPSampler) post(ctx context.Context, path string, body []byte, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.base+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	hooks := observability.HTTP()
	host := req.URL.Host
	hooks.OnRequest(ctx, http.MethodPost, host, path)
	start := time.Now()

	resp, err := s.client.Do(req)
	if err != nil {
		hooks.OnError(ctx, http.MethodPost, host, path, err)
		s.logger.Warn("model request failed", "url", req.URL, "error", err)
		return &retryableError{fmt.Errorf("model request: %w", err)}
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, http.MethodPost, host, path, resp.StatusCode, time.Since(start))

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		err := fmt.Errorf("model service returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
		if resp.StatusCode >= 500 {
			s.logger.Warn("model service error", "status", resp.StatusCode)
			return &retryableError{err}
		}
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode model response: %w", err)
	}
	return nil
}

// decodeStrokes converts [dx, dy, eos] triples into raw strokes.
func decodeStrokes(in [][][]float64) ([]stroke.Raw, error) {
	out := make([]stroke.Raw, len(in))
	for i, line := range in {
		raw := make(stroke.Raw, len(line))
		for j, p := range line {
			if len(p) != 3 {
				return nil, fmt.Errorf("line %d point %d: want [dx, dy, eos], got %d values", i, j, len(p))
			}
			raw[j] = stroke.Offset{DX: p[0], DY: p[1], EOS: p[2] >= 0.5}
		}
		out[i] = raw
	}
	return out, nil
}

var _ Sampler = (*HTTPSampler)(nil)
