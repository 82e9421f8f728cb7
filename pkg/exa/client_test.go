package exa

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearch(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
		wantLen int
	}{
		{
			name:   "success",
			status: http.StatusOK,
			body: `{"results": [
				{"title": "Acme raises Series B", "url": "https://techcrunch.com/acme", "text": "Acme announced..."},
				{"title": "Acme homepage", "url": "https://acme.com"}
			]}`,
			wantLen: 2,
		},
		{
			name:    "bad_request_not_retried",
			status:  http.StatusBadRequest,
			body:    `{"error": "invalid query"}`,
			wantErr: "unexpected status 400",
		},
		{
			name:    "malformed_response",
			status:  http.StatusOK,
			body:    `{invalid json`,
			wantErr: "unmarshal response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/search", r.URL.Path)
				assert.Equal(t, "test-key", r.Header.Get("x-api-key"))

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := NewClient("test-key", WithBaseURL(srv.URL))
			results, err := client.Search(context.Background(), "Acme recent news")

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, results, tt.wantLen)
			assert.Equal(t, "Acme raises Series B", results[0].Title)
		})
	}
}

func TestSearch_OptionsShapeRequest(t *testing.T) {
	var got searchRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		_, _ = w.Write([]byte(`{"results": []}`))
	}))
	defer srv.Close()

	after := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	client := NewClient("test-key", WithBaseURL(srv.URL))
	_, err := client.Search(context.Background(), "q",
		WithNumResults(8),
		WithAutoprompt(true),
		WithMaxCharacters(500),
		WithIncludeDomains("twitter.com", "x.com"),
		WithPublishedAfter(after),
	)
	require.NoError(t, err)

	assert.Equal(t, "q", got.Query)
	assert.Equal(t, 8, got.NumResults)
	assert.True(t, got.UseAutoprompt)
	require.NotNil(t, got.Contents)
	assert.Equal(t, 500, got.Contents.Text.MaxCharacters)
	assert.Equal(t, []string{"twitter.com", "x.com"}, got.IncludeDomains)
	assert.Equal(t, "2026-05-01T00:00:00Z", got.StartPublishedDate)
}

func TestSearch_RetriesServerErrors(t *testing.T) {
	if testing.Short() {
		t.Skip("backoff sleeps")
	}

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"results": [{"title": "ok", "url": "https://acme.com"}]}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	results, err := client.Search(context.Background(), "q")
	require.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, int32(3), calls.Load())
}
