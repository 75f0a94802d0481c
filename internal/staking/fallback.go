package staking

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"cexwatch/promoworker/internal/promo"
)

var aprPattern = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*%`)
var tickerPattern = regexp.MustCompile(`\b[A-Z][A-Z0-9]{1,9}\b`)

// tickerStopwords are uppercase words that look like tickers but never
// are, common in earn page marketing copy.
var tickerStopwords = map[string]bool{
	"APR": true, "APY": true, "USD": true, "VIP": true,
	"NEW": true, "MAX": true, "UP": true, "TO": true,
	"EARN": true, "FIXED": true, "GET": true,
}

// fetchViaBrowser scrapes the earn page through the renderer and maps
// whatever promotion-shaped containers it finds into staking records.
// Any failure on this path returns an empty slice; the fallback must
// never fail harder than the API call it replaced.
func (s *Source) fetchViaBrowser(ctx context.Context) []StakingRecord {
	body, err := s.Browser.FetchHTML(ctx, s.URL)
	if err != nil {
		s.log.Warn().Err(err).Msg("Browser fallback failed")
		return nil
	}

	promos, err := s.Extractor.Extract(body, s.URL, promo.SourceBrowser)
	if err != nil {
		s.log.Warn().Err(err).Msg("Browser fallback page did not parse")
		return nil
	}

	var records []StakingRecord
	for _, p := range promos {
		if rec := stakingFromPromotion(s.Display, p, s.Oracle); rec != nil {
			records = append(records, *rec)
		}
	}

	s.log.Info().Int("records", len(records)).Msg("Browser fallback produced records")
	return records
}

// stakingFromPromotion is the best-effort mapping from a scraped
// promotion container to a staking record. Containers without a
// recognizable coin or rate are dropped.
func stakingFromPromotion(display string, p promo.PromotionRecord, oracle PriceOracle) *StakingRecord {
	coin := strings.TrimSpace(p.AwardToken)
	if coin == "" {
		coin = findTicker(p.Title)
	}
	if coin == "" {
		coin = findTicker(p.Description)
	}

	apr := findAPR(p.Title)
	if apr == 0 {
		apr = findAPR(p.Description)
	}
	if apr == 0 {
		apr = findAPR(p.TotalPrizePool)
	}

	if coin == "" && apr == 0 {
		return nil
	}

	rec := &StakingRecord{
		Exchange:  display,
		ProductID: p.PromoID,
		Coin:      coin,
		APR:       apr,
		Type:      "Unknown",
		Status:    "Active",
		StartTime: p.StartTime,
		EndTime:   p.EndTime,
	}

	if oracle != nil && coin != "" {
		rec.TokenPriceUSD = oracle.GetTokenPriceUSD(coin)
	}

	return rec
}

func findAPR(text string) float64 {
	m := aprPattern.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	apr, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0
	}
	return apr
}

func findTicker(text string) string {
	for _, m := range tickerPattern.FindAllString(text, -1) {
		if !tickerStopwords[m] {
			return m
		}
	}
	return ""
}
