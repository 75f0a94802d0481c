package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"cexwatch/promoworker/pkg/errors"
)

func TestFetchSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	f := NewHTTPFetcher("bitget", "Bitget", nil)
	resp, err := f.Fetch(context.Background(), server.URL)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `{"ok":true}`, string(resp.Body))
}

func TestFetchBlockedStatuses(t *testing.T) {
	for _, status := range []int{http.StatusForbidden, http.StatusNotFound} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))

		f := NewHTTPFetcher("bybit", "Bybit", nil)
		_, err := f.Fetch(context.Background(), server.URL)
		assert.Error(t, err)
		assert.True(t, errors.IsBlocked(err), "status %d should classify as blocked", status)
		server.Close()
	}
}

func TestFetchRateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	f := NewHTTPFetcher("mexc", "MEXC", nil)
	_, err := f.Fetch(context.Background(), server.URL)
	assert.Error(t, err)

	pe, ok := err.(*errors.PipelineError)
	assert.True(t, ok)
	assert.Equal(t, errors.ErrorTypeRateLimit, pe.Type)
	assert.False(t, errors.IsBlocked(err))
}

func TestFetchGateSendsNoUserAgent(t *testing.T) {
	var seenUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenUA = r.Header.Get("User-Agent")
		w.Write([]byte("{}"))
	}))
	defer server.Close()

	f := NewHTTPFetcher("gate", "Gate.io", nil)
	_, err := f.Fetch(context.Background(), server.URL)
	assert.NoError(t, err)
	assert.Empty(t, seenUA)
}

func TestFetchBybitHeaders(t *testing.T) {
	var headers http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers = r.Header.Clone()
		w.Write([]byte("{}"))
	}))
	defer server.Close()

	f := NewHTTPFetcher("bybit", "Bybit", nil)
	_, err := f.Fetch(context.Background(), server.URL)
	assert.NoError(t, err)
	assert.NotEmpty(t, headers.Get("User-Agent"))
	assert.Equal(t, "https://www.bybit.com", headers.Get("Origin"))
	assert.Equal(t, "same-origin", headers.Get("sec-fetch-site"))
}

func TestPostSendsJSONBody(t *testing.T) {
	var method, contentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		contentType = r.Header.Get("Content-Type")
		w.Write([]byte("{}"))
	}))
	defer server.Close()

	f := NewHTTPFetcher("bybit", "Bybit", nil)
	_, err := f.Post(context.Background(), server.URL, []byte(`{"tab":"2"}`))
	assert.NoError(t, err)
	assert.Equal(t, http.MethodPost, method)
	assert.Equal(t, "application/json", contentType)
}

type outcomeRecorder struct {
	statuses []int
}

func (r *outcomeRecorder) GetIdentity(exchange string) Identity {
	return Identity{UserAgent: "test-agent"}
}

func (r *outcomeRecorder) ReportOutcome(id Identity, statusCode int, latency time.Duration, err error) {
	r.statuses = append(r.statuses, statusCode)
}

func TestFetchReportsOutcome(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	id := &outcomeRecorder{}
	f := NewHTTPFetcher("okx", "OKX", id)
	_, err := f.Fetch(context.Background(), server.URL)
	assert.Error(t, err)
	assert.Equal(t, []int{http.StatusForbidden}, id.statuses)
}
