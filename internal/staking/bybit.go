package staking

import (
	"fmt"
	"strings"
	"time"

	"cexwatch/promoworker/logger"
)

// BybitEarnPayload is the POST body the easy-earn listing expects.
// tab "2" restricts the listing to fixed-term products.
const BybitEarnPayload = `{"tab":"2","page":1,"limit":100,"fixed_saving_version":1,"fuzzy_coin_name":"","sort_type":0,"match_user_asset":false,"eligible_only":false}`

var bybitStatusNames = map[int]string{
	1: "Active",
	2: "Sold Out",
	3: "Coming Soon",
}

// DecodeBybit parses the easy-earn product listing. Coin identity is
// the tricky part: the listing's coin field sometimes names the reward
// coin rather than the staked coin, so resolution goes tag first, then
// a known id anomaly, then the static table.
func DecodeBybit(data interface{}, oracle PriceOracle) []StakingRecord {
	root := asMap(data)
	if root == nil {
		return nil
	}

	if code, ok := parseInt(root["ret_code"]); ok && code != 0 {
		logger.Warn("[Bybit] Earn API error: %s", asString(root["ret_msg"]))
		return nil
	}

	result := asMap(root["result"])
	if result == nil {
		return nil
	}

	var records []StakingRecord
	for _, cp := range asList(result["coin_products"]) {
		coinProduct := asMap(cp)
		if coinProduct == nil {
			continue
		}
		apiCoinID, _ := parseInt(coinProduct["coin"])

		for _, p := range asList(coinProduct["saving_products"]) {
			product := asMap(p)
			if product == nil {
				continue
			}
			if rec := decodeBybitProduct(product, apiCoinID, oracle); rec != nil {
				records = append(records, *rec)
			}
		}
	}

	return records
}

func decodeBybitProduct(product map[string]interface{}, apiCoinID int, oracle PriceOracle) *StakingRecord {
	tagInfo := asMap(product["product_tag_info"])
	tag := asString(tagInfo["display_tag_key"])

	apr, _ := parseFloat(product["apy"])

	coinID := resolveBybitCoinID(product, apiCoinID, tag, apr)
	coin := BybitCoinName(coinID)

	term := asString(product["staking_term"])
	if term == "" {
		term = "0"
	}
	termDays, _ := parseInt(term)

	productType := "Flexible"
	if term != "0" {
		productType = fmt.Sprintf("Fixed %sd", term)
	}

	displayStatus, _ := parseInt(product["display_status"])
	status, ok := bybitStatusNames[displayStatus]
	if !ok {
		status = "Unknown"
	}

	maxCapacity, _ := parseFloat(product["product_max_share"])
	currentDeposit, _ := parseFloat(product["total_deposit_share"])

	isVIP := asBool(product["is_vip"])
	if !isVIP && tag != "" {
		isVIP = strings.Contains(strings.ToLower(tag), "vip")
	}

	isNewUser := false
	if tag != "" {
		lower := strings.ToLower(tag)
		isNewUser = strings.Contains(lower, "newuser") || strings.Contains(lower, "new user")
	}

	regionalTag, regionalCountries := bybitRegional(tagInfo, isVIP, isNewUser)

	var category, categoryText string
	switch {
	case isVIP:
		category, categoryText = "VIP", "VIP Product"
	case isNewUser:
		category, categoryText = "New User", "New User Only"
	case regionalTag != "":
		category, categoryText = regionalTag, regionalTag+" Regional Offer"
	}

	rec := &StakingRecord{
		Exchange:          "Bybit",
		ProductID:         asString(product["product_id"]),
		Coin:              coin,
		APR:               apr,
		Type:              productType,
		Status:            status,
		Category:          category,
		CategoryText:      categoryText,
		TermDays:          termDays,
		StartTime:         bybitUnixTime(product["subscribe_start_at"]),
		EndTime:           bybitUnixTime(product["subscribe_end_at"]),
		MaxCapacity:       floatPtr(maxCapacity),
		CurrentDeposit:    floatPtr(currentDeposit),
		FillPercentage:    FillPercent(currentDeposit, maxCapacity),
		IsVIP:             isVIP,
		IsNewUser:         isNewUser,
		RegionalTag:       regionalTag,
		RegionalCountries: regionalCountries,
	}

	if oracle != nil && coin != "" {
		rec.TokenPriceUSD = oracle.GetTokenPriceUSD(coin)
	}

	return rec
}

// resolveBybitCoinID picks the id of the staked coin. The listing's
// coin field is unreliable for reward-bearing products, so the tag and
// a known anomaly are checked before the id itself.
func resolveBybitCoinID(product map[string]interface{}, apiCoinID int, tag string, apr float64) int {
	if strings.Contains(strings.ToLower(tag), "usdt") {
		return 3
	}

	// Id 5 with an APR this high is a mislabeled USDT promotion, not a
	// BNB product. Keep this as a literal special case.
	if apiCoinID == 5 && apr >= 500 {
		return 3
	}

	returnCoin, _ := parseInt(product["return_coin"])
	productCoinID, hasProductCoin := parseInt(product["coin"])
	if !hasProductCoin {
		productCoinID = apiCoinID
	}

	if returnCoin == 0 {
		switch apiCoinID {
		case 5:
			return 3
		case 463:
			return 463
		default:
			return productCoinID
		}
	}

	return returnCoin
}

func bybitRegional(tagInfo map[string]interface{}, isVIP, isNewUser bool) (string, string) {
	if tagInfo == nil {
		return "", ""
	}
	displayTag := asString(tagInfo["display_tag_key"])
	countries := asString(tagInfo["display_on_country_code"])

	switch {
	case strings.Contains(displayTag, "CIS"):
		return "CIS", countries
	case strings.Contains(displayTag, "Asia"):
		return "Asia", countries
	case countries != "" && !isVIP && !isNewUser:
		return "Regional", countries
	}
	return "", ""
}

// bybitUnixTime converts the listing's unix-second strings to RFC3339.
// Zero and empty values mean the window is open-ended.
func bybitUnixTime(v interface{}) string {
	s := asString(v)
	if s == "" || s == "0" {
		return ""
	}
	sec, ok := parseInt(v)
	if !ok || sec <= 0 {
		return ""
	}
	return time.Unix(int64(sec), 0).UTC().Format(time.RFC3339)
}
