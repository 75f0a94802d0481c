package promo

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

// msThreshold separates second from millisecond epoch timestamps.
const msThreshold = 10000000000

// Normalizer converts mined JSON objects into PromotionRecords for a
// single exchange.
type Normalizer struct {
	// Exchange is the display name, e.g. "Bybit" or "Gate.io"
	Exchange string

	linkBuilder LinkBuilder
}

// NewNormalizer creates a normalizer for the exchange behind sourceURL.
// The link builder is optional.
func NewNormalizer(sourceURL string, lb LinkBuilder) *Normalizer {
	return &Normalizer{
		Exchange:    ExchangeNameFromURL(sourceURL),
		linkBuilder: lb,
	}
}

// ExchangeNameFromURL derives the exchange display name from the source
// domain.
func ExchangeNameFromURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return "Unknown"
	}

	domain := strings.TrimPrefix(parsed.Host, "www.")
	parts := strings.Split(domain, ".")
	if len(parts) < 2 {
		return "Unknown"
	}
	main := parts[len(parts)-2]

	switch main {
	case "bybit":
		return "Bybit"
	case "binance":
		return "Binance"
	case "gate":
		return "Gate.io"
	case "mexc":
		return "MEXC"
	case "okx", "web3":
		return "OKX"
	case "kucoin":
		return "KuCoin"
	case "bitget":
		return "Bitget"
	default:
		return strings.Title(main)
	}
}

// ExtractPromoID builds a stable identifier for the object. The order is
// native id keys, then a title/token/start composite hash, then a hash
// over the stable field subset. An empty return means the object cannot
// be identified and must be dropped.
func (n *Normalizer) ExtractPromoID(obj map[string]interface{}) string {
	exchange := strings.ToLower(n.Exchange)

	// Id keys match case-insensitively, like every other alias lookup
	if v := getValue(obj, idKeys); v != nil {
		if s := strings.TrimSpace(stringify(v)); s != "" {
			return fmt.Sprintf("%s_%s", exchange, s)
		}
	}

	title := stringify(getValue(obj, []string{"name", "title", "campaignName", "activityName"}))
	token := stringify(getValue(obj, []string{"token", "currency", "awardToken", "symbol"}))
	start := stringify(getValue(obj, []string{"startTime", "start", "startDate", "beginTime"}))

	if title != "" && token != "" {
		hash := ContentHash(fmt.Sprintf("%s_%s_%s", title, token, start))
		return fmt.Sprintf("%s_%s", exchange, hash)
	}

	// Hash only the stable fields, not the whole object, so volatile
	// counters do not change the identity between polls.
	stable := map[string]string{}
	for _, key := range stableFieldKeys {
		v := stringify(getValue(obj, []string{key}))
		if v != "" {
			stable[key] = strings.TrimSpace(v)
		}
	}

	if len(stable) > 0 {
		items := make([]string, 0, len(stable))
		for k, v := range stable {
			items = append(items, fmt.Sprintf("%s:%s", k, v))
		}
		sort.Strings(items)
		hash := ContentHash(strings.Join(items, "_"))
		return fmt.Sprintf("%s_fallback_%s", exchange, hash)
	}

	return ""
}

// Normalize converts a mined object into a PromotionRecord. It returns
// nil when the object cannot be identified or fails exchange-specific
// validation.
func (n *Normalizer) Normalize(obj map[string]interface{}, source DataSource) *PromotionRecord {
	// MEXC airdrop responses nest sub-promotions without their own
	// activity currency; only parent objects become records.
	if n.Exchange == "MEXC" {
		if getValue(obj, []string{"activityCurrency", "activityCurrencyFullName"}) == nil {
			return nil
		}
	}

	promoID := n.ExtractPromoID(obj)
	if promoID == "" {
		return nil
	}

	rec := &PromotionRecord{
		PromoID:           promoID,
		Exchange:          n.Exchange,
		Title:             stringify(getValue(obj, titleKeys)),
		Description:       stringify(getValue(obj, descriptionKeys)),
		TotalPrizePool:    flattenPrizePool(getValue(obj, prizePoolKeys)),
		TotalPrizePoolUSD: stringify(getValue(obj, prizePoolUSDKeys)),
		UserMaxRewards:    stringify(getValue(obj, userMaxRewardKeys)),
		ExchangeRate:      stringify(getValue(obj, exchangeRateKeys)),
		Conditions:        stringify(getValue(obj, conditionsKeys)),
		Phase:             stringify(getValue(obj, phaseKeys)),
		AwardToken:        flattenToken(getValue(obj, awardTokenKeys)),
		ParticipantsCount: flattenParticipants(getValue(obj, participantsKeys)),
		StartTime:         normalizeTime(getValue(obj, startTimeKeys)),
		EndTime:           normalizeTime(getValue(obj, endTimeKeys)),
		Link:              stringify(getValue(obj, linkKeys)),
		Icon:              stringify(getValue(obj, iconKeys)),
		NavName:           stringify(getValue(obj, navNameKeys)),
		HomeName:          stringify(getValue(obj, homeNameKeys)),
		WinnersCount:      stringify(getValue(obj, winnersCountKeys)),
		RewardPerWinner:   stringify(getValue(obj, rewardPerWinnerKeys)),
		Status:            stringify(getValue(obj, statusKeys)),
		RewardType:        stringify(getValue(obj, rewardTypeKeys)),
		TaskType:          stringify(getValue(obj, taskTypeKeys)),
		PublishTime:       normalizeTime(getValue(obj, publishTimeKeys)),
		DataSource:        source,
		RawData:           obj,
	}

	if !hasPayload(rec) {
		return nil
	}

	if rec.Title == "" {
		rec.Title = n.synthesizeTitle(rec)
	}

	if n.Exchange == "Bybit" {
		n.enrichBybitSplash(rec, obj)
	}

	if rec.Link == "" && n.linkBuilder != nil {
		rec.Link = n.linkBuilder.BuildURL(n.Exchange, obj)
	}

	return rec
}

// hasPayload requires at least one semantic field beyond identity.
func hasPayload(rec *PromotionRecord) bool {
	return rec.Title != "" || rec.Description != "" || rec.TotalPrizePool != "" ||
		rec.AwardToken != "" || rec.ParticipantsCount != "" || rec.StartTime != "" ||
		rec.EndTime != "" || rec.Link != "" || rec.Icon != "" || rec.Status != "" ||
		rec.WinnersCount != "" || rec.RewardPerWinner != "" || rec.Conditions != "" ||
		rec.Phase != ""
}

// synthesizeTitle builds a title when the payload carries none.
func (n *Normalizer) synthesizeTitle(rec *PromotionRecord) string {
	if rec.AwardToken != "" {
		return fmt.Sprintf("%s %s Promotion", rec.AwardToken, rec.Exchange)
	}
	if rec.Description != "" {
		desc := rec.Description
		if len(desc) > 50 {
			return desc[:50] + "..."
		}
		return desc
	}
	return fmt.Sprintf("%s Promo %s", rec.Exchange, rec.PromoID)
}

// enrichBybitSplash derives winners_count and reward_per_winner for
// Bybit Token Splash campaigns, which never expose them directly.
func (n *Normalizer) enrichBybitSplash(rec *PromotionRecord, obj map[string]interface{}) {
	prizeToken := stringify(getValue(obj, []string{"prizeToken", "token"}))
	totalPool, _ := toFloat(getValue(obj, []string{"totalPrizePool", "total_prize_pool"}))

	// First source: the prizes array with per-tier counts
	if prizes, ok := obj["prizes"].([]interface{}); ok && len(prizes) > 0 {
		totalWinners := 0
		var minUnit float64
		haveUnit := false

		for _, p := range prizes {
			prize, ok := p.(map[string]interface{})
			if !ok {
				continue
			}
			if count, ok := toFloat(getValue(prize, []string{"count", "winnersCount"})); ok {
				totalWinners += int(count)
			}
			if unit, ok := toFloat(getValue(prize, []string{"unitPrize", "prizePerUser"})); ok {
				if !haveUnit || unit < minUnit {
					minUnit = unit
					haveUnit = true
				}
			}
		}

		if totalWinners > 0 {
			rec.WinnersCount = strconv.Itoa(totalWinners)
		}
		if haveUnit && prizeToken != "" {
			rec.RewardPerWinner = fmt.Sprintf("%d %s", int(minUnit), prizeToken)
		}
	}

	// Second source: new-user and trade-competition prize pools
	if rec.WinnersCount == "" {
		var allPrizes []interface{}
		if nu, ok := obj["newUserPrizes"].([]interface{}); ok {
			allPrizes = append(allPrizes, nu...)
		}
		if tp, ok := obj["tradeCompetitionPrizes"].([]interface{}); ok {
			allPrizes = append(allPrizes, tp...)
		}

		totalWinners := 0
		var minReward float64
		haveReward := false

		for _, p := range allPrizes {
			prize, ok := p.(map[string]interface{})
			if !ok {
				continue
			}
			count, okCount := toFloat(getValue(prize, []string{"count", "places"}))
			pool, okPool := toFloat(getValue(prize, []string{"prizePool", "pool"}))
			if okCount && count > 0 {
				totalWinners += int(count)
				if okPool {
					reward := pool / count
					if !haveReward || reward < minReward {
						minReward = reward
						haveReward = true
					}
				}
			}
		}

		if totalWinners > 0 {
			rec.WinnersCount = strconv.Itoa(totalWinners)
		}
		if haveReward && prizeToken != "" {
			rec.RewardPerWinner = fmt.Sprintf("%d %s", int(minReward), prizeToken)
		}
	}

	// Last resort: divide the pool by the per-winner prize
	if rec.WinnersCount == "" && totalPool > 0 {
		if unit, ok := toFloat(getValue(obj, []string{"unitPrize", "rewardPerUser"})); ok && unit > 0 {
			rec.WinnersCount = strconv.Itoa(int(totalPool / unit))
			if prizeToken != "" {
				rec.RewardPerWinner = fmt.Sprintf("%d %s", int(unit), prizeToken)
			}
		}
	}
}

// getValue returns the first non-empty value for the given keys,
// matching keys case-insensitively.
func getValue(obj map[string]interface{}, keys []string) interface{} {
	lower := make(map[string]interface{}, len(obj))
	for k, v := range obj {
		lk := strings.ToLower(k)
		if _, exists := lower[lk]; !exists || lower[lk] == nil {
			lower[lk] = v
		}
	}

	for _, key := range keys {
		if v, ok := lower[strings.ToLower(key)]; ok {
			if v != nil && strings.TrimSpace(stringify(v)) != "" {
				return v
			}
		}
	}
	return nil
}

// stringify renders a JSON value as a trimmed string.
func stringify(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		// JSON numbers decode to float64; keep integers unadorned
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		data, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprintf("%v", t)
		}
		return string(data)
	}
}

// flattenPrizePool renders compound pool objects as "amount token".
func flattenPrizePool(v interface{}) string {
	if m, ok := v.(map[string]interface{}); ok {
		if amount, ok := m["amount"]; ok {
			token := stringify(m["token"])
			return strings.TrimSpace(stringify(amount) + " " + token)
		}
		return stringify(m)
	}
	return stringify(v)
}

// flattenToken extracts a symbol from compound token objects.
func flattenToken(v interface{}) string {
	if m, ok := v.(map[string]interface{}); ok {
		for _, key := range []string{"token", "symbol", "currency"} {
			if s := stringify(m[key]); s != "" {
				return s
			}
		}
		return stringify(m)
	}
	return stringify(v)
}

// flattenParticipants extracts a count from compound participant objects.
func flattenParticipants(v interface{}) string {
	if m, ok := v.(map[string]interface{}); ok {
		for _, key := range []string{"count", "total", "participants"} {
			if s := stringify(m[key]); s != "" {
				return s
			}
		}
		return stringify(m)
	}
	return stringify(v)
}

// normalizeTime converts epoch timestamps to RFC3339 UTC. Values above
// msThreshold are treated as milliseconds. Non-numeric values pass
// through unchanged.
func normalizeTime(v interface{}) string {
	if v == nil {
		return ""
	}

	if f, ok := toFloat(v); ok {
		sec := int64(f)
		if f > msThreshold {
			sec = int64(f / 1000)
		}
		return time.Unix(sec, 0).UTC().Format(time.RFC3339)
	}

	return stringify(v)
}

// toFloat parses numeric values, including strings with thousand
// separators.
func toFloat(v interface{}) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case string:
		cleaned := strings.ReplaceAll(strings.TrimSpace(t), ",", "")
		if cleaned == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// ContentHash returns the first 12 hex chars of the md5 of s. All
// synthetic promo ids share this hash form.
func ContentHash(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])[:12]
}
