package data

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"portfolio-metrics/internal/model"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL    = "https://api.challenges.performativ.com"
	DefaultSubmitPath = "/submit"
	DefaultTimeout    = 30 * time.Second
	DefaultRateLimit  = 5 // requests per second

	// query dates are sent without separators
	queryDateLayout = "20060102"
)

// Client talks to the market data provider: FX rates, instrument prices and the
// metrics submission endpoint.
type Client struct {
	apiKey     string
	baseURL    string
	submitPath string
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker
	cache      *ResponseCache
	log        zerolog.Logger
}

// ClientOption configures the client
type ClientOption func(*Client)

func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

func WithSubmitPath(path string) ClientOption {
	return func(c *Client) {
		if path != "" {
			c.submitPath = path
		}
	}
}

func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

func WithRateLimit(requestsPerSecond float64, burst int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
	}
}

func WithLogger(log zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.log = log.With().Str("component", "provider").Logger()
	}
}

// WithCache enables response caching for GET requests. A nil cache disables it.
func WithCache(cache *ResponseCache) ClientOption {
	return func(c *Client) {
		c.cache = cache
	}
}

// NewClient creates a provider client. The API key is sent as x-api-key on every request.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		apiKey:     apiKey,
		baseURL:    DefaultBaseURL,
		submitPath: DefaultSubmitPath,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "provider",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// client errors say nothing about provider health
		IsSuccessful: func(err error) bool {
			var apiErr *APIError
			if errors.As(err, &apiErr) {
				return apiErr.StatusCode < 500
			}
			return err == nil
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
		},
	})
	return c
}

// APIError represents an error response from the provider.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Endpoint   string
	RetryAfter string // for rate limit errors
}

func (e *APIError) Error() string {
	if e.Endpoint != "" {
		return fmt.Sprintf("%s: %s", e.Endpoint, e.Message)
	}
	return e.Message
}

// FxRates fetches daily rates for the given pairs (e.g. "EURUSD") over [start, end].
func (c *Client) FxRates(ctx context.Context, pairs []string, start, end time.Time) (model.FxRateTable, error) {
	table := model.FxRateTable{}
	if len(pairs) == 0 {
		return table, nil
	}
	q := rangeQuery(start, end)
	q.Set("pairs", strings.Join(pairs, ","))

	raw, err := c.do(ctx, http.MethodGet, "/fx-rates", q, nil)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &table); err != nil {
		return nil, fmt.Errorf("failed to decode fx rates: %w", err)
	}
	return table, nil
}

// Prices fetches daily local-currency prices for one instrument over [start, end].
// The result is keyed by instrument id as a string.
func (c *Client) Prices(ctx context.Context, instrumentID int, start, end time.Time) (map[string][]model.PricePoint, error) {
	q := rangeQuery(start, end)
	q.Set("instrument_id", strconv.Itoa(instrumentID))

	raw, err := c.do(ctx, http.MethodGet, "/prices", q, nil)
	if err != nil {
		return nil, err
	}
	var prices map[string][]model.PricePoint
	if err := json.Unmarshal(raw, &prices); err != nil {
		return nil, fmt.Errorf("failed to decode prices for instrument %d: %w", instrumentID, err)
	}
	return prices, nil
}

// Submit posts a computed payload to the submission endpoint and returns the raw response body.
// Failures are returned to the caller; there is no retry.
func (c *Client) Submit(ctx context.Context, payload any) (json.RawMessage, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode submission: %w", err)
	}
	raw, err := c.do(ctx, http.MethodPost, c.submitPath, nil, body)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return json.RawMessage("null"), nil
	}
	if !json.Valid(raw) {
		quoted, _ := json.Marshal(string(raw))
		return quoted, nil
	}
	return raw, nil
}

func rangeQuery(start, end time.Time) url.Values {
	q := url.Values{}
	q.Set("start_date", start.Format(queryDateLayout))
	q.Set("end_date", end.Format(queryDateLayout))
	return q
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body []byte) ([]byte, error) {
	if err := c.validateAPIKey(); err != nil {
		return nil, err
	}

	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if query != nil {
		u.RawQuery = query.Encode()
	}
	endpoint := u.String()

	cacheable := method == http.MethodGet && c.cache != nil
	if cacheable {
		if cached, ok := c.cache.Get(GenerateCacheKey(endpoint)); ok {
			c.log.Debug().Str("path", u.Path).Int("bytes", len(cached)).Msg("cache hit")
			return cached, nil
		}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.roundTrip(ctx, method, u, body)
	})
	if err != nil {
		return nil, err
	}
	raw := result.([]byte)

	if cacheable {
		c.cache.Set(GenerateCacheKey(endpoint), raw)
	}
	return raw, nil
}

func (c *Client) roundTrip(ctx context.Context, method string, u *url.URL, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	began := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(began)
	if err != nil {
		c.log.Error().Err(err).Str("method", method).Str("path", u.Path).Dur("duration", duration).Msg("request failed")
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	c.log.Info().
		Str("method", method).
		Str("path", u.Path).
		Int("status", resp.StatusCode).
		Dur("duration", duration).
		Msg("provider response")

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return raw, nil
	}

	apiErr := &APIError{StatusCode: resp.StatusCode, Endpoint: u.Path}
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		apiErr.Code = "UNAUTHORIZED"
		apiErr.Message = "Unauthorized: Invalid API key"
	case http.StatusForbidden:
		apiErr.Code = "INVALID_API_KEY"
		apiErr.Message = "Invalid API key or insufficient permissions"
	case http.StatusTooManyRequests:
		apiErr.RetryAfter = resp.Header.Get("Retry-After")
		apiErr.Code = "RATE_LIMIT_EXCEEDED"
		apiErr.Message = fmt.Sprintf("Rate limit exceeded. Retry after: %s", apiErr.RetryAfter)
	default:
		apiErr.Code = "API_ERROR"
		apiErr.Message = fmt.Sprintf("API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	c.log.Warn().Str("code", apiErr.Code).Int("status", resp.StatusCode).Str("path", u.Path).Msg("provider error")
	return nil, apiErr
}

func (c *Client) validateAPIKey() error {
	if strings.TrimSpace(c.apiKey) == "" {
		return &APIError{Code: "MISSING_API_KEY", Message: "API key is required"}
	}
	if len(c.apiKey) < 10 {
		return &APIError{Code: "INVALID_API_KEY_FORMAT", Message: "API key appears to be invalid (too short)"}
	}
	return nil
}
