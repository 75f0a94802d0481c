package staking

import "cexwatch/promoworker/logger"

// DecodeKucoin parses the public savings product listing. The public
// API carries no capacity or timing data, so those fields stay empty.
func DecodeKucoin(data interface{}, oracle PriceOracle) []StakingRecord {
	root := asMap(data)
	if root == nil {
		return nil
	}

	products := asList(root["data"])
	if len(products) == 0 {
		logger.Debug("[KuCoin] Earn listing is empty")
		return nil
	}

	var records []StakingRecord
	for _, p := range products {
		product := asMap(p)
		if product == nil {
			continue
		}

		coin := asString(product["currency"])
		incomeCoin := asString(product["income_currency"])

		// APR arrives as a string like "200.0000", already in percent
		apr, ok := parseFloat(product["total_apr"])
		if !ok {
			apr, _ = parseFloat(product["apr"])
		}

		termDays, _ := parseInt(product["duration"])

		rec := StakingRecord{
			Exchange:     "KuCoin",
			ProductID:    asString(product["product_id"]),
			Coin:         coin,
			APR:          apr,
			Type:         asString(product["type"]),
			Status:       asString(product["status"]),
			Category:     asString(product["category"]),
			CategoryText: asString(product["category_text"]),
			TermDays:     termDays,
		}

		if incomeCoin != "" && incomeCoin != coin {
			rec.RewardCoin = incomeCoin
		}
		if oracle != nil && coin != "" {
			rec.TokenPriceUSD = oracle.GetTokenPriceUSD(coin)
		}

		records = append(records, rec)
	}

	return records
}
