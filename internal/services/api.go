package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/uniworld/cli/internal/shared"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is used when the configuration does not name a backend.
const DefaultBaseURL = "http://127.0.0.1:8000/api"

// csrfHeader is required by the backend on mutating requests.
const csrfHeader = "X-CSRFToken"

// APIResponse wraps the raw result of a backend call. JSONData is
// populated when the response carried a JSON content type.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	IsJSON     bool
	JSONData   map[string]any
}

// Decode unmarshals the response body into v.
func (r *APIResponse) Decode(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("decoding response body: %w", err)
	}
	return nil
}

// ErrorMessage extracts the backend's error field, falling back to the
// HTTP status text.
func (r *APIResponse) ErrorMessage() string {
	if r.IsJSON {
		if msg, ok := r.JSONData["error"].(string); ok && msg != "" {
			return msg
		}
	}
	return http.StatusText(r.StatusCode)
}

// APIClient is the shared HTTP transport for the backend API. It
// injects the bearer token and CSRF header and throttles request
// volume with a token bucket.
type APIClient struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter

	mu        sync.RWMutex
	token     string
	csrfToken string
}

// APIClientOpts configures an APIClient. Zero values fall back to the
// package defaults.
type APIClientOpts struct {
	BaseURL   string
	RateLimit float64
	Client    *http.Client
}

// NewAPIClient builds a client against the given backend.
func NewAPIClient(opts APIClientOpts) *APIClient {
	base := strings.TrimSuffix(opts.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}

	limit := opts.RateLimit
	if limit <= 0 {
		limit = 5.0
	}

	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	return &APIClient{
		baseURL:    base,
		httpClient: client,
		limiter:    rate.NewLimiter(rate.Limit(limit), int(limit)+1),
	}
}

// BaseURL returns the backend root the client talks to.
func (c *APIClient) BaseURL() string {
	return c.baseURL
}

// SetToken installs the session bearer token for subsequent requests.
// An empty token clears it.
func (c *APIClient) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.token = token
}

// SetCSRFToken installs the CSRF token sent on mutating requests.
func (c *APIClient) SetCSRFToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.csrfToken = token
}

// Get performs a GET against path, which is joined to the base URL.
func (c *APIClient) Get(ctx context.Context, path string) (*APIResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.join(path), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	return c.do(req)
}

// Post performs a POST with a JSON body against path.
func (c *APIClient) Post(ctx context.Context, path string, body any) (*APIResponse, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.join(path), reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	return c.do(req)
}

// Put performs a PUT with a JSON body against path.
func (c *APIClient) Put(ctx context.Context, path string, body any) (*APIResponse, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encoding request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.join(path), bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	return c.do(req)
}

func (c *APIClient) join(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}

func (c *APIClient) do(req *http.Request) (*APIResponse, error) {
	if err := c.limiter.Wait(req.Context()); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrTimeout, err)
	}

	c.mu.RLock()
	if c.token != "" {
		req.Header.Set("Authorization", shared.BearerHeader(c.token))
	}
	if c.csrfToken != "" && req.Method != http.MethodGet {
		req.Header.Set(csrfHeader, c.csrfToken)
	}
	c.mu.RUnlock()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	result := &APIResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       body,
	}

	contentType := resp.Header.Get("Content-Type")
	if strings.Contains(contentType, "application/json") {
		result.IsJSON = true
		var data map[string]any
		if err := json.Unmarshal(body, &data); err == nil {
			result.JSONData = data
		}
	}

	return result, nil
}

// statusError converts a non-success response into a wrapped sentinel
// error carrying the backend's message.
func statusError(resp *APIResponse) error {
	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s", shared.ErrNotAuthenticated, resp.ErrorMessage())
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", shared.ErrAPIRequest, resp.ErrorMessage())
	default:
		return fmt.Errorf("%w: status %d: %s", shared.ErrAPIRequest, resp.StatusCode, resp.ErrorMessage())
	}
}
