package data

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"portfolio-metrics/internal/config"
	"portfolio-metrics/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAPIKey = "test-api-key-123456"

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := model.ParseDate(s)
	require.NoError(t, err)
	return d
}

func newTestClient(t *testing.T, h http.Handler, opts ...ClientOption) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	base := []ClientOption{WithBaseURL(srv.URL), WithRateLimit(1000, 100)}
	return NewClient(testAPIKey, append(base, opts...)...)
}

func TestClient_FxRates(t *testing.T) {
	var got *http.Request
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"EURUSD":[{"date":"2024-01-01","rate":1.1}],"GBPUSD":[{"date":"2024-01-01","rate":1.27}]}`)
	}))

	table, err := client.FxRates(context.Background(), []string{"EURUSD", "GBPUSD"}, day(t, "2024-01-01"), day(t, "2024-01-31"))
	require.NoError(t, err)

	require.NotNil(t, got)
	assert.Equal(t, "/fx-rates", got.URL.Path)
	assert.Equal(t, "EURUSD,GBPUSD", got.URL.Query().Get("pairs"))
	assert.Equal(t, "20240101", got.URL.Query().Get("start_date"))
	assert.Equal(t, "20240131", got.URL.Query().Get("end_date"))
	assert.Equal(t, testAPIKey, got.Header.Get("x-api-key"))
	assert.Equal(t, "application/json", got.Header.Get("Accept"))

	assert.Equal(t, []model.FxRate{{Date: "2024-01-01", Rate: 1.1}}, table["EURUSD"])
	assert.Len(t, table, 2)
}

func TestClient_FxRatesNoPairsSkipsRequest(t *testing.T) {
	var calls int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))

	table, err := client.FxRates(context.Background(), nil, day(t, "2024-01-01"), day(t, "2024-01-02"))
	require.NoError(t, err)
	assert.Empty(t, table)
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestClient_Prices(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/prices", r.URL.Path)
		assert.Equal(t, "42", r.URL.Query().Get("instrument_id"))
		_, _ = io.WriteString(w, `{"42":[{"date":"2024-01-01","price":10.5},{"date":"2024-01-02","price":11}]}`)
	}))

	prices, err := client.Prices(context.Background(), 42, day(t, "2024-01-01"), day(t, "2024-01-02"))
	require.NoError(t, err)
	assert.Equal(t, []model.PricePoint{
		{Date: "2024-01-01", Price: 10.5},
		{Date: "2024-01-02", Price: 11},
	}, prices["42"])
}

func TestClient_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		code   string
	}{
		{"unauthorized", http.StatusUnauthorized, "UNAUTHORIZED"},
		{"forbidden", http.StatusForbidden, "INVALID_API_KEY"},
		{"rate limited", http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED"},
		{"server error", http.StatusInternalServerError, "API_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Retry-After", "30")
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, "nope")
			}))

			_, err := client.Prices(context.Background(), 1, day(t, "2024-01-01"), day(t, "2024-01-02"))
			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.code, apiErr.Code)
			assert.Equal(t, "/prices", apiErr.Endpoint)
			if tt.status == http.StatusTooManyRequests {
				assert.Equal(t, "30", apiErr.RetryAfter)
			}
		})
	}
}

func TestClient_APIKeyValidation(t *testing.T) {
	tests := []struct {
		name string
		key  string
		code string
	}{
		{"missing", "", "MISSING_API_KEY"},
		{"too short", "abc", "INVALID_API_KEY_FORMAT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewClient(tt.key, WithBaseURL("http://127.0.0.1:0"))
			_, err := client.Prices(context.Background(), 1, day(t, "2024-01-01"), day(t, "2024-01-02"))
			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.code, apiErr.Code)
		})
	}
}

func TestClient_BreakerOpensAfterServerErrors(t *testing.T) {
	var calls int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))

	for i := 0; i < 5; i++ {
		_, err := client.Prices(context.Background(), 1, day(t, "2024-01-01"), day(t, "2024-01-02"))
		require.Error(t, err)
	}
	_, err := client.Prices(context.Background(), 1, day(t, "2024-01-01"), day(t, "2024-01-02"))
	require.Error(t, err)
	assert.EqualValues(t, 5, atomic.LoadInt32(&calls))
}

func TestClient_ClientErrorsDoNotTripBreaker(t *testing.T) {
	var calls int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
	}))

	for i := 0; i < 7; i++ {
		_, _ = client.Prices(context.Background(), 1, day(t, "2024-01-01"), day(t, "2024-01-02"))
	}
	assert.EqualValues(t, 7, atomic.LoadInt32(&calls))
}

func TestClient_Submit(t *testing.T) {
	var body map[string]any
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/submit", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, _ = io.WriteString(w, `{"accepted":true}`)
	}))

	resp, err := client.Submit(context.Background(), map[string]any{"dates": []string{"2024-01-01"}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"accepted":true}`, string(resp))
	assert.Equal(t, []any{"2024-01-01"}, body["dates"])
}

func TestClient_SubmitNonJSONResponse(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "thanks")
	}), WithSubmitPath("/metrics/submit"))

	resp, err := client.Submit(context.Background(), struct{}{})
	require.NoError(t, err)
	assert.JSONEq(t, `"thanks"`, string(resp))
}

func TestClient_CacheServesRepeatedGets(t *testing.T) {
	var calls int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		_, _ = io.WriteString(w, `{"7":[{"date":"2024-01-01","price":1}]}`)
	}), WithCache(NewResponseCache(time.Minute)))

	for i := 0; i < 3; i++ {
		prices, err := client.Prices(context.Background(), 7, day(t, "2024-01-01"), day(t, "2024-01-01"))
		require.NoError(t, err)
		assert.Len(t, prices["7"], 1)
	}
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestClient_ContextCancelled(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{}`)
	}), WithRateLimit(0.001, 1))

	ctx, cancel := context.WithCancel(context.Background())
	// first call consumes the only token
	_, err := client.Prices(ctx, 1, day(t, "2024-01-01"), day(t, "2024-01-01"))
	require.NoError(t, err)
	cancel()
	_, err = client.Prices(ctx, 1, day(t, "2024-01-01"), day(t, "2024-01-01"))
	require.Error(t, err)
}

func TestNewClientFromConfig(t *testing.T) {
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		_, _ = io.WriteString(w, `{}`)
	}))
	t.Cleanup(srv.Close)

	cfg := config.Default().Provider
	cfg.BaseURL = srv.URL + "/"
	cfg.APIKey = testAPIKey
	cfg.SubmitPath = "/v2/submit"
	cfg.Cache = true

	client := NewClientFromConfig(cfg, "production", zerolog.Nop())
	assert.Nil(t, client.cache)
	assert.Equal(t, srv.URL, client.baseURL)

	_, err := client.Submit(context.Background(), map[string]int{"a": 1})
	require.NoError(t, err)
	assert.Equal(t, "/v2/submit", path)

	dev := NewClientFromConfig(cfg, "development", zerolog.Nop())
	assert.NotNil(t, dev.cache)
	dev.cache.Close()
}
