package staking

import (
	"fmt"

	"cexwatch/promoworker/logger"
)

var mexcStakingStatus = map[string]string{
	"ONGOING":   "Active",
	"SOLD_OUT":  "Sold Out",
	"NOT_START": "Coming Soon",
	"UPCOMING":  "Coming Soon",
}

// DecodeMexc parses the MEXC savings listing. Rates arrive in percent
// strings, capacity in token amounts.
func DecodeMexc(data interface{}, oracle PriceOracle) []StakingRecord {
	root := asMap(data)
	if root == nil {
		return nil
	}

	products := asList(root["data"])
	if len(products) == 0 {
		logger.Debug("[MEXC] Earn listing is empty")
		return nil
	}

	var records []StakingRecord
	for _, p := range products {
		product := asMap(p)
		if product == nil {
			continue
		}

		coin := firstString(product, "currency", "coinName", "asset")
		if coin == "" {
			continue
		}

		apr, ok := parseFloat(firstValue(product, "profitRate", "apr", "rate"))
		if !ok {
			continue
		}

		termDays, _ := parseInt(firstValue(product, "minLockDays", "duration", "days"))

		productType := "Flexible"
		if termDays > 0 {
			productType = fmt.Sprintf("Fixed %dd", termDays)
		}

		status, ok := mexcStakingStatus[asString(product["status"])]
		if !ok {
			status = "Unknown"
		}

		rec := StakingRecord{
			Exchange:  "MEXC",
			ProductID: firstString(product, "id", "productId"),
			Coin:      coin,
			APR:       apr,
			Type:      productType,
			Status:    status,
			TermDays:  termDays,
		}

		if maxCapacity, ok := parseFloat(firstValue(product, "totalQuota", "totalAmount")); ok {
			deposited, _ := parseFloat(firstValue(product, "soldAmount", "usedQuota"))
			rec.MaxCapacity = floatPtr(maxCapacity)
			rec.CurrentDeposit = floatPtr(deposited)
			rec.FillPercentage = FillPercent(deposited, maxCapacity)
		}

		if userLimit, ok := parseFloat(firstValue(product, "personalQuota", "maxAmount")); ok {
			rec.UserLimitTokens = floatPtr(userLimit)
		}

		if oracle != nil {
			rec.TokenPriceUSD = oracle.GetTokenPriceUSD(coin)
		}

		records = append(records, rec)
	}

	return records
}
