package staking

import (
	"fmt"

	"cexwatch/promoworker/logger"
)

// DecodeGate parses the Gate.io earn listing. Gate lists fixed-term
// and flexible offers for the same coin as separate products; when
// both are active they are folded into a single Fixed/Flexible record
// so the coin shows up once with the best APR.
func DecodeGate(data interface{}, oracle PriceOracle) []StakingRecord {
	root := asMap(data)
	if root == nil {
		return nil
	}

	products := asList(root["data"])
	if len(products) == 0 {
		logger.Debug("[Gate.io] Earn listing is empty")
		return nil
	}

	var singles []StakingRecord
	for _, p := range products {
		product := asMap(p)
		if product == nil {
			continue
		}
		if rec := decodeGateProduct(product, oracle); rec != nil {
			singles = append(singles, *rec)
		}
	}

	return combineGateProducts(singles)
}

func decodeGateProduct(product map[string]interface{}, oracle PriceOracle) *StakingRecord {
	coin := firstString(product, "asset", "currency", "coin")
	if coin == "" {
		return nil
	}

	apr, ok := parseFloat(product["apr"])
	if !ok {
		apr, _ = parseFloat(product["rate_year"])
	}

	termDays, _ := parseInt(firstValue(product, "days", "duration", "lock_period"))

	productType := "Flexible"
	if termDays > 0 {
		productType = fmt.Sprintf("Fixed %dd", termDays)
	}

	rec := &StakingRecord{
		Exchange:  "Gate.io",
		ProductID: firstString(product, "id", "product_id"),
		Coin:      coin,
		APR:       apr,
		Type:      productType,
		Status:    gateStatus(product),
		TermDays:  termDays,
	}

	if maxCapacity, ok := parseFloat(firstValue(product, "total_amount", "quota")); ok {
		deposited, _ := parseFloat(firstValue(product, "deposit_amount", "sold_amount"))
		rec.MaxCapacity = floatPtr(maxCapacity)
		rec.CurrentDeposit = floatPtr(deposited)
		rec.FillPercentage = FillPercent(deposited, maxCapacity)
	}

	if oracle != nil {
		rec.TokenPriceUSD = oracle.GetTokenPriceUSD(coin)
	}

	return rec
}

func gateStatus(product map[string]interface{}) string {
	switch asString(firstValue(product, "status", "state")) {
	case "1", "in_process", "ongoing", "open":
		return "Active"
	case "2", "sold_out", "full":
		return "Sold Out"
	case "3", "pending", "upcoming":
		return "Coming Soon"
	}
	return "Unknown"
}

// combineGateProducts merges an active fixed and an active flexible
// offer for the same coin into one record. The merged record keeps the
// max APR up front and both sub-APRs for detail. Pool fill data comes
// from the flexible side; the fixed side's own capacity is not
// tracked separately.
func combineGateProducts(singles []StakingRecord) []StakingRecord {
	byCoin := make(map[string][]int)
	var order []string
	for i, rec := range singles {
		if _, seen := byCoin[rec.Coin]; !seen {
			order = append(order, rec.Coin)
		}
		byCoin[rec.Coin] = append(byCoin[rec.Coin], i)
	}

	var out []StakingRecord
	for _, coin := range order {
		var fixed, flexible *StakingRecord
		for _, idx := range byCoin[coin] {
			rec := &singles[idx]
			if rec.Status != "Active" {
				continue
			}
			if rec.TermDays > 0 && fixed == nil {
				fixed = rec
			} else if rec.TermDays == 0 && flexible == nil {
				flexible = rec
			}
		}

		if fixed == nil || flexible == nil {
			for _, idx := range byCoin[coin] {
				out = append(out, singles[idx])
			}
			continue
		}

		merged := *flexible
		merged.ProductID = fixed.ProductID
		merged.Type = "Fixed/Flexible"
		merged.APR = fixed.APR
		if flexible.APR > merged.APR {
			merged.APR = flexible.APR
		}
		merged.FixedAPR = floatPtr(fixed.APR)
		merged.FlexibleAPR = floatPtr(flexible.APR)
		merged.FixedTermDays = fixed.TermDays
		merged.TermDays = fixed.TermDays
		out = append(out, merged)

		// Any remaining non-active siblings still pass through
		for _, idx := range byCoin[coin] {
			rec := &singles[idx]
			if rec != fixed && rec != flexible {
				out = append(out, *rec)
			}
		}
	}

	return out
}

func firstValue(m map[string]interface{}, keys ...string) interface{} {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func firstString(m map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		if s := asString(m[k]); s != "" {
			return s
		}
	}
	return ""
}
