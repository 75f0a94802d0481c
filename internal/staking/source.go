package staking

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"cexwatch/promoworker/internal/fetch"
	"cexwatch/promoworker/internal/htmlx"
	"cexwatch/promoworker/logger"
	"cexwatch/promoworker/pkg/errors"
)

// shareWindow is how long a fetched listing is reused. The full and
// pool-fill views of one exchange run in the same poll cycle and must
// see the same batch.
const shareWindow = 30 * time.Second

// Decoder turns one exchange's raw earn listing into staking records.
type Decoder func(data interface{}, oracle PriceOracle) []StakingRecord

// Source fetches and decodes one exchange's earn listing. When the
// plain API call gets flagged by the WAF it retries through the
// browser renderer and maps the scraped page best-effort.
type Source struct {
	// Exchange is the lowercase key, e.g. "bybit"
	Exchange string
	// Display is the exchange display name used in records and logs
	Display string
	URL     string
	// Payload non-nil switches the request to POST; Bybit's listing
	// only answers POST
	Payload []byte

	Fetcher   *fetch.HTTPFetcher
	Browser   *fetch.BrowserFetcher
	Extractor *htmlx.Extractor
	Oracle    PriceOracle
	Decode    Decoder

	log *logger.Logger

	mu          sync.Mutex
	lastRecords []StakingRecord
	lastErr     error
	lastFetch   time.Time
}

// NewSource wires a staking source. Browser and extractor are optional;
// without them a blocked API call simply yields no records.
func NewSource(exchange, display, url string, payload []byte, fetcher *fetch.HTTPFetcher, browser *fetch.BrowserFetcher, extractor *htmlx.Extractor, oracle PriceOracle, decode Decoder) *Source {
	return &Source{
		Exchange:  exchange,
		Display:   display,
		URL:       url,
		Payload:   payload,
		Fetcher:   fetcher,
		Browser:   browser,
		Extractor: extractor,
		Oracle:    oracle,
		Decode:    decode,
		log:       logger.ForExchange(exchange),
	}
}

// FetchStakings retrieves and decodes the earn listing. A blocked
// response falls back to browser rendering; fallback failure yields an
// empty list rather than an error.
//
// The result is memoized for the share window, so the pool-fill view
// of the same cycle derives from the same batch instead of hitting the
// API twice.
func (s *Source) FetchStakings(ctx context.Context) ([]StakingRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.lastFetch.IsZero() && time.Since(s.lastFetch) < shareWindow {
		return s.lastRecords, s.lastErr
	}

	records, err := s.fetchStakings(ctx)
	s.lastRecords, s.lastErr, s.lastFetch = records, err, time.Now()
	return records, err
}

func (s *Source) fetchStakings(ctx context.Context) ([]StakingRecord, error) {
	var resp *fetch.Response
	var err error

	if s.Payload != nil {
		resp, err = s.Fetcher.Post(ctx, s.URL, s.Payload)
	} else {
		resp, err = s.Fetcher.Fetch(ctx, s.URL)
	}

	if err != nil {
		if errors.IsBlocked(err) && s.Browser != nil && s.Extractor != nil {
			s.log.Warn().Err(err).Msg("Earn API blocked, falling back to browser rendering")
			return s.fetchViaBrowser(ctx), nil
		}
		return nil, err
	}

	var data interface{}
	if err := json.Unmarshal(resp.Body, &data); err != nil {
		return nil, errors.NewDecode(s.Display, "earn listing is not JSON", err)
	}

	return s.Decode(data, s.Oracle), nil
}

// GetPoolFills returns only records that carry fill data, for the
// capacity check view.
func (s *Source) GetPoolFills(ctx context.Context) ([]StakingRecord, error) {
	records, err := s.FetchStakings(ctx)
	if err != nil {
		return nil, err
	}
	return PoolFills(records), nil
}

// GetName implements the worker source identity.
func (s *Source) GetName() string {
	return s.Display + "Earn"
}
