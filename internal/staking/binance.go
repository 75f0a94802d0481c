package staking

import (
	"fmt"

	"cexwatch/promoworker/logger"
)

// DecodeBinance parses the locked-products listing. Rates arrive as
// fraction strings ("0.055" means 5.5%). Products whose remaining
// quota is spent are dropped outright; the exchange's own availability
// field wins over derived arithmetic.
func DecodeBinance(data interface{}, oracle PriceOracle) []StakingRecord {
	root := asMap(data)
	if root == nil {
		return nil
	}

	rows := asList(root["rows"])
	if len(rows) == 0 {
		rows = asList(root["data"])
	}
	if len(rows) == 0 {
		logger.Debug("[Binance] Earn listing is empty")
		return nil
	}

	var records []StakingRecord
	for _, r := range rows {
		row := asMap(r)
		if row == nil {
			continue
		}

		detail := asMap(row["detail"])
		if detail == nil {
			detail = row
		}

		coin := firstString(detail, "asset", "coin")
		if coin == "" {
			continue
		}

		quota := asMap(row["quota"])
		if quota == nil {
			quota = row
		}

		// Availability gating: a spent quota means the product cannot
		// be entered regardless of what the raw amounts suggest
		if left, ok := parseFloat(firstValue(quota, "leftQuota", "leftAmount")); ok && left <= 0 {
			continue
		}

		apr, _ := parseFloat(firstValue(detail, "apr", "apy"))
		apr *= 100

		termDays, _ := parseInt(firstValue(detail, "duration", "days"))

		productType := "Flexible"
		if termDays > 0 {
			productType = fmt.Sprintf("Fixed %dd", termDays)
		}

		status := "Active"
		if asBool(detail["sellOut"]) {
			status = "Sold Out"
		}

		rec := StakingRecord{
			Exchange:  "Binance",
			ProductID: firstString(detail, "projectId", "productId", "id"),
			Coin:      coin,
			APR:       apr,
			Type:      productType,
			Status:    status,
			TermDays:  termDays,
		}

		if rewardCoin := asString(detail["rewardAsset"]); rewardCoin != "" && rewardCoin != coin {
			rec.RewardCoin = rewardCoin
		}

		if total, ok := parseFloat(firstValue(quota, "totalQuota", "totalAmount")); ok {
			left, _ := parseFloat(firstValue(quota, "leftQuota", "leftAmount"))
			deposited := total - left
			rec.MaxCapacity = floatPtr(total)
			rec.CurrentDeposit = floatPtr(deposited)
			rec.FillPercentage = FillPercent(deposited, total)
		}

		if userLimit, ok := parseFloat(firstValue(quota, "personalQuota", "maxAmount")); ok {
			rec.UserLimitTokens = floatPtr(userLimit)
		}

		if oracle != nil {
			rec.TokenPriceUSD = oracle.GetTokenPriceUSD(coin)
		}

		records = append(records, rec)
	}

	return records
}
