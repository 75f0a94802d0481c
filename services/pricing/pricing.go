package pricing

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"cexwatch/promoworker/logger"
	"cexwatch/promoworker/services/cache"
)

const priceCacheTTL = 5 * time.Minute

// Service is the USD price oracle for token symbols. Lookups never
// fail the caller: any error returns nil, meaning price unknown.
type Service struct {
	apiURL string
	cache  cache.CacheService
	client *http.Client
}

// NewService creates a price service. An empty API URL disables
// lookups entirely; the cache is optional.
func NewService(apiURL string, cacheSvc cache.CacheService) *Service {
	return &Service{
		apiURL: apiURL,
		cache:  cacheSvc,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// GetTokenPriceUSD resolves a symbol to its USD price, consulting the
// cache first. Implements staking.PriceOracle.
func (s *Service) GetTokenPriceUSD(symbol string) *float64 {
	if s.apiURL == "" || symbol == "" {
		return nil
	}
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	cacheKey := "price_" + symbol
	if s.cache != nil {
		if data, err := s.cache.Get(cacheKey); err == nil {
			if price, err := strconv.ParseFloat(string(data), 64); err == nil {
				return &price
			}
		}
	}

	price := s.fetchPrice(symbol)
	if price == nil {
		return nil
	}

	if s.cache != nil {
		value := strconv.FormatFloat(*price, 'f', -1, 64)
		if err := s.cache.Set(cacheKey, []byte(value), priceCacheTTL); err != nil {
			logger.Debug("Failed to cache price for %s: %v", symbol, err)
		}
	}

	return price
}

func (s *Service) fetchPrice(symbol string) *float64 {
	reqURL := fmt.Sprintf("%s?symbol=%s", s.apiURL, url.QueryEscape(symbol))

	resp, err := s.client.Get(reqURL)
	if err != nil {
		logger.Debug("Price lookup for %s failed: %v", symbol, err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Debug("Price lookup for %s returned status %d", symbol, resp.StatusCode)
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil
	}

	var data interface{}
	if err := json.Unmarshal(body, &data); err != nil {
		logger.Debug("Price response for %s is not JSON", symbol)
		return nil
	}

	return extractPrice(data, symbol)
}

// extractPrice tolerates the shapes price APIs commonly answer with:
// {"price": 1.23}, {"data": {"price": "1.23"}} and
// {"SYMBOL": {"usd": 1.23}}.
func extractPrice(data interface{}, symbol string) *float64 {
	root, ok := data.(map[string]interface{})
	if !ok {
		return nil
	}

	if price := numericField(root["price"]); price != nil {
		return price
	}

	if inner, ok := root["data"].(map[string]interface{}); ok {
		if price := numericField(inner["price"]); price != nil {
			return price
		}
	}

	for key, value := range root {
		if !strings.EqualFold(key, symbol) {
			continue
		}
		if inner, ok := value.(map[string]interface{}); ok {
			if price := numericField(inner["usd"]); price != nil {
				return price
			}
		}
		if price := numericField(value); price != nil {
			return price
		}
	}

	return nil
}

func numericField(v interface{}) *float64 {
	switch t := v.(type) {
	case float64:
		return &t
	case string:
		if f, err := strconv.ParseFloat(t, 64); err == nil {
			return &f
		}
	}
	return nil
}
