package fetch

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

	"cexwatch/promoworker/logger"
	"cexwatch/promoworker/pkg/errors"
	"cexwatch/promoworker/services/cache"
)

// BrowserStrategy represents one way of asking ChromeDB for a page.
type BrowserStrategy struct {
	Name        string
	Endpoint    string
	Payload     map[string]interface{}
	Method      string
	ProcessFunc func([]byte) (io.Reader, error)
}

// BrowserFetcher renders pages through a ChromeDB (browserless)
// instance for exchanges that hide their listings behind client-side
// rendering or bot detection.
type BrowserFetcher struct {
	// Exchange is the display name used in logs and errors
	Exchange  string
	Addr      string
	CacheSvc  cache.CacheService
	CacheKey  string
	BlockTime time.Duration
}

// NewBrowserFetcher creates a browser fetcher. The cache service is
// optional and only used to back off after total failures.
func NewBrowserFetcher(exchange, addr string, cacheSvc cache.CacheService) *BrowserFetcher {
	return &BrowserFetcher{
		Exchange:  exchange,
		Addr:      addr,
		CacheSvc:  cacheSvc,
		CacheKey:  "browser_block_" + strings.ToLower(exchange),
		BlockTime: 60 * time.Second,
	}
}

// FetchHTML renders the URL and returns the page HTML. Strategies are
// tried in order from most to least faithful rendering.
func (b *BrowserFetcher) FetchHTML(ctx context.Context, rawURL string) (io.Reader, error) {
	if b.Addr == "" {
		return nil, errors.NewConfiguration("browser renderer address not configured", nil)
	}

	// Honor a standing back-off from an earlier failure
	if b.CacheSvc != nil {
		if _, err := b.CacheSvc.Get(b.CacheKey); err == nil {
			return nil, errors.NewRateLimit(b.Exchange, b.BlockTime)
		}
	}

	if err := b.checkHealth(ctx); err != nil {
		return nil, err
	}

	client := &http.Client{Timeout: 60 * time.Second}

	strategies := []BrowserStrategy{
		// Full render, waits for network idle (best for dynamic listings)
		{
			Name:     "networkidle-content",
			Endpoint: "/content",
			Method:   "POST",
			Payload: map[string]interface{}{
				"url": rawURL,
				"gotoOptions": map[string]interface{}{
					"waitUntil": "networkidle0",
					"timeout":   45000,
				},
			},
			ProcessFunc: b.processRawResponse,
		},

		// Basic load event (faster, works for static content)
		{
			Name:     "basic-content",
			Endpoint: "/content",
			Method:   "POST",
			Payload: map[string]interface{}{
				"url": rawURL,
				"gotoOptions": map[string]interface{}{
					"waitUntil": "load",
					"timeout":   20000,
				},
			},
			ProcessFunc: b.processRawResponse,
		},

		// Simple scrape endpoint (last resort)
		{
			Name:        "scrape-fallback",
			Endpoint:    "/scrape",
			Method:      "GET",
			Payload:     nil,
			ProcessFunc: b.processRawResponse,
		},
	}

	for i, strategy := range strategies {
		logger.Debug("[%s] Trying browser strategy %d/%d: %s", b.Exchange, i+1, len(strategies), strategy.Name)

		reader, err := b.executeStrategy(ctx, client, rawURL, strategy)
		if err == nil && reader != nil {
			logger.Info("[%s] Browser strategy %s succeeded", b.Exchange, strategy.Name)
			return reader, nil
		}

		logger.Debug("[%s] Browser strategy %s failed: %v", b.Exchange, strategy.Name, err)

		if i < len(strategies)-1 {
			time.Sleep(1 * time.Second)
		}
	}

	// Back off so the next poll cycle does not hammer a failing renderer
	if b.CacheSvc != nil {
		if setErr := b.CacheSvc.Set(b.CacheKey, []byte("60"), b.BlockTime); setErr != nil {
			logger.Debug("[%s] Failed to set browser back-off: %v", b.Exchange, setErr)
		}
	}

	return nil, errors.NewTransport(b.Exchange, fmt.Sprintf("all browser strategies failed for %s", rawURL), nil)
}

// checkHealth verifies the renderer answers at all before burning the
// strategy ladder on it.
func (b *BrowserFetcher) checkHealth(ctx context.Context) error {
	client := &http.Client{Timeout: 10 * time.Second}

	req, err := http.NewRequestWithContext(ctx, "GET", b.Addr+"/", nil)
	if err != nil {
		return errors.NewTransport(b.Exchange, "failed to create health check request", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return errors.NewTransport(b.Exchange, fmt.Sprintf("browser renderer not reachable at %s", b.Addr), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return errors.NewTransport(b.Exchange, fmt.Sprintf("browser renderer error (status %d)", resp.StatusCode), nil)
	}

	logger.Debug("[%s] Browser health check passed (status %d)", b.Exchange, resp.StatusCode)
	return nil
}

// executeStrategy runs a single browser strategy.
func (b *BrowserFetcher) executeStrategy(ctx context.Context, client *http.Client, rawURL string, strategy BrowserStrategy) (io.Reader, error) {
	var req *http.Request
	var err error

	if strategy.Method == "POST" && strategy.Payload != nil {
		data, marshalErr := json.Marshal(strategy.Payload)
		if marshalErr != nil {
			return nil, fmt.Errorf("failed to marshal payload: %v", marshalErr)
		}

		req, err = http.NewRequestWithContext(ctx, "POST", b.Addr+strategy.Endpoint, bytes.NewBuffer(data))
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %v", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("User-Agent", "PromoWorker/1.0")

	} else if strategy.Method == "GET" {
		if strategy.Endpoint == "/scrape" {
			req, err = http.NewRequestWithContext(ctx, "GET", fmt.Sprintf("%s/scrape?url=%s", b.Addr, url.QueryEscape(rawURL)), nil)
		} else {
			req, err = http.NewRequestWithContext(ctx, "GET", b.Addr+strategy.Endpoint, nil)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to create GET request: %v", err)
		}
		req.Header.Set("User-Agent", "PromoWorker/1.0")

	} else {
		return nil, fmt.Errorf("unsupported method %s or missing payload", strategy.Method)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		if len(body) > 0 && len(body) < 500 {
			logger.Debug("[%s] Error response body: %s", b.Exchange, string(body))
		}
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	responseBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %v", err)
	}

	if len(responseBytes) == 0 {
		return nil, fmt.Errorf("empty response")
	}

	return strategy.ProcessFunc(responseBytes)
}

// processRawResponse validates that the renderer returned actual HTML.
func (b *BrowserFetcher) processRawResponse(data []byte) (io.Reader, error) {
	if len(data) < 50 {
		return nil, fmt.Errorf("response too short: %d bytes", len(data))
	}

	dataStr := strings.ToLower(string(data))
	if strings.Contains(dataStr, "<html") ||
		strings.Contains(dataStr, "<!doctype") ||
		strings.Contains(dataStr, "<body") {
		return bytes.NewReader(data), nil
	}

	preview := string(data)
	if len(preview) > 200 {
		preview = preview[:200] + "..."
	}
	logger.Debug("[%s] Response doesn't look like HTML. Preview: %s", b.Exchange, preview)

	return nil, fmt.Errorf("response doesn't appear to be valid HTML")
}
