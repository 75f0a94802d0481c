package fetch

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"cexwatch/promoworker/helpers"
	"cexwatch/promoworker/pkg/errors"
)

// Identity is the transport fingerprint used for one request.
type Identity struct {
	ProxyURL  string
	UserAgent string
}

// IdentityProvider hands out transport identities and records how each
// request went so slow or blocked identities rotate out.
type IdentityProvider interface {
	GetIdentity(exchange string) Identity
	ReportOutcome(id Identity, statusCode int, latency time.Duration, err error)
}

// Response is a fetched HTTP payload.
type Response struct {
	Body        []byte
	StatusCode  int
	ContentType string
}

// Fetcher retrieves a URL.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (*Response, error)
}

// HTTPFetcher fetches exchange APIs and pages over plain HTTP with
// browser-like headers. Exchange WAFs are picky in different ways, so
// headers vary per exchange.
type HTTPFetcher struct {
	// Exchange is the lowercase key, e.g. "bybit"
	Exchange string
	// Display is used in error messages
	Display  string
	Identity IdentityProvider
	Timeout  time.Duration
}

// NewHTTPFetcher creates a fetcher for one exchange. The identity
// provider is optional.
func NewHTTPFetcher(exchange, display string, identity IdentityProvider) *HTTPFetcher {
	return &HTTPFetcher{
		Exchange: exchange,
		Display:  display,
		Identity: identity,
		Timeout:  20 * time.Second,
	}
}

// Fetch performs a GET request.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) (*Response, error) {
	return f.do(ctx, http.MethodGet, rawURL, nil)
}

// Post performs a POST request with a JSON body. Some staking APIs only
// answer POST.
func (f *HTTPFetcher) Post(ctx context.Context, rawURL string, payload []byte) (*Response, error) {
	return f.do(ctx, http.MethodPost, rawURL, payload)
}

func (f *HTTPFetcher) do(ctx context.Context, method, rawURL string, payload []byte) (*Response, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, errors.NewTransport(f.Display, "failed to create request", err)
	}

	var id Identity
	if f.Identity != nil {
		id = f.Identity.GetIdentity(f.Exchange)
	}

	f.setHeaders(req, id)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	client, err := f.buildClient(id)
	if err != nil {
		return nil, errors.NewTransport(f.Display, "invalid proxy", err)
	}

	start := time.Now()
	resp, err := client.Do(req)
	latency := time.Since(start)

	if err != nil {
		if f.Identity != nil {
			f.Identity.ReportOutcome(id, 0, latency, err)
		}
		return nil, errors.NewTransport(f.Display, "request failed", err)
	}
	defer resp.Body.Close()

	if f.Identity != nil {
		f.Identity.ReportOutcome(id, resp.StatusCode, latency, nil)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == 430:
		return nil, errors.NewRateLimit(f.Display, time.Minute)
	case resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusNotFound:
		// Exchange WAFs answer 403 or a fake 404 when they flag the
		// client as a bot
		return nil, errors.NewBlocked(f.Display, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, errors.NewTransport(f.Display,
			http.StatusText(resp.StatusCode), nil)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewTransport(f.Display, "failed to read response body", err)
	}

	contentType := resp.Header.Get("Content-Type")
	utf8Body, err := helpers.DecodeToUTF8(raw, contentType)
	if err != nil {
		return nil, errors.NewDecode(f.Display, "charset conversion failed", err)
	}
	decoded, err := io.ReadAll(utf8Body)
	if err != nil {
		return nil, errors.NewDecode(f.Display, "charset conversion failed", err)
	}

	return &Response{
		Body:        decoded,
		StatusCode:  resp.StatusCode,
		ContentType: contentType,
	}, nil
}

// setHeaders applies the base header set plus per-exchange specials.
func (f *HTTPFetcher) setHeaders(req *http.Request, id Identity) {
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Connection", "keep-alive")
	req.Header.Set("cache-control", "no-cache")

	// Gate.io blocks requests that carry a browser user agent. The
	// empty set also suppresses Go's default agent string.
	if f.Exchange == "gate" {
		req.Header.Set("User-Agent", "")
	} else {
		ua := id.UserAgent
		if ua == "" {
			ua = helpers.RandomUserAgent()
		}
		req.Header.Set("User-Agent", ua)
		req.Header.Set("sec-ch-ua", `"Not_A Brand";v="8", "Chromium";v="120", "Google Chrome";v="120"`)
		req.Header.Set("sec-ch-ua-mobile", "?0")
		req.Header.Set("sec-ch-ua-platform", `"Windows"`)
	}

	// Bybit sits behind Akamai and requires the sec-fetch trio plus a
	// same-origin referer
	if f.Exchange == "bybit" {
		req.Header.Set("Referer", "https://www.bybit.com/en/trade/spot/token-splash")
		req.Header.Set("Origin", "https://www.bybit.com")
		req.Header.Set("sec-fetch-dest", "empty")
		req.Header.Set("sec-fetch-mode", "cors")
		req.Header.Set("sec-fetch-site", "same-origin")
	}

	if f.Exchange == "mexc" {
		req.Header.Set("Referer", "https://www.mexc.com/launchpad")
		req.Header.Set("Origin", "https://www.mexc.com")
		req.Header.Set("sec-fetch-dest", "empty")
		req.Header.Set("sec-fetch-mode", "cors")
		req.Header.Set("sec-fetch-site", "same-origin")
	}
}

func (f *HTTPFetcher) buildClient(id Identity) (*http.Client, error) {
	timeout := f.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}

	if id.ProxyURL == "" {
		return &http.Client{Timeout: timeout}, nil
	}

	proxyURL, err := url.Parse(id.ProxyURL)
	if err != nil {
		return nil, err
	}

	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy: http.ProxyURL(proxyURL),
		},
	}, nil
}
