package strategy

import (
	"bytes"
	"context"
	"encoding/json"

	"cexwatch/promoworker/internal/fetch"
	"cexwatch/promoworker/internal/htmlx"
	"cexwatch/promoworker/internal/promo"
	"cexwatch/promoworker/pkg/errors"
)

// APIStrategy decodes a JSON API endpoint through the normalizer
// pipeline, including the specialized shape decoders.
type APIStrategy struct {
	URL        string
	Fetcher    *fetch.HTTPFetcher
	Normalizer *promo.Normalizer
}

func (s *APIStrategy) Name() string { return "api" }

func (s *APIStrategy) Fetch(ctx context.Context) ([]promo.PromotionRecord, error) {
	resp, err := s.Fetcher.Fetch(ctx, s.URL)
	if err != nil {
		return nil, err
	}

	var data interface{}
	if err := json.Unmarshal(resp.Body, &data); err != nil {
		return nil, errors.NewDecode(s.Normalizer.Exchange, "response is not JSON", err)
	}

	return s.Normalizer.Decode(data, promo.SourceAPI), nil
}

// HTMLStrategy scrapes a campaign page fetched over plain HTTP.
type HTMLStrategy struct {
	URL       string
	Fetcher   *fetch.HTTPFetcher
	Extractor *htmlx.Extractor
}

func (s *HTMLStrategy) Name() string { return "html" }

func (s *HTMLStrategy) Fetch(ctx context.Context) ([]promo.PromotionRecord, error) {
	resp, err := s.Fetcher.Fetch(ctx, s.URL)
	if err != nil {
		return nil, err
	}
	return s.Extractor.Extract(bytes.NewReader(resp.Body), s.URL, promo.SourceHTML)
}

// Composite fans one strategy slot out over several endpoints. MEXC
// exposes launchpad and airdrop listings on separate APIs that both
// feed the same record stream.
type Composite struct {
	StrategyName string
	Strategies   []Strategy
}

func (c *Composite) Name() string { return c.StrategyName }

// Fetch runs every member and concatenates. A member failure drops its
// share of the batch, not the whole composite.
func (c *Composite) Fetch(ctx context.Context) ([]promo.PromotionRecord, error) {
	var records []promo.PromotionRecord
	var lastErr error

	for _, s := range c.Strategies {
		batch, err := s.Fetch(ctx)
		if err != nil {
			lastErr = err
			continue
		}
		records = append(records, batch...)
	}

	if len(records) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return records, nil
}

// BrowserStrategy scrapes a campaign page rendered through ChromeDB.
// Used both as the primary strategy for Akamai-protected exchanges and
// as the fallback when plain HTTP gets flagged.
type BrowserStrategy struct {
	URL       string
	Browser   *fetch.BrowserFetcher
	Extractor *htmlx.Extractor
}

func (s *BrowserStrategy) Name() string { return "browser" }

func (s *BrowserStrategy) Fetch(ctx context.Context) ([]promo.PromotionRecord, error) {
	body, err := s.Browser.FetchHTML(ctx, s.URL)
	if err != nil {
		return nil, err
	}
	return s.Extractor.Extract(body, s.URL, promo.SourceBrowser)
}
