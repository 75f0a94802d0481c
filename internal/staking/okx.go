package staking

import (
	"math"

	"cexwatch/promoworker/logger"
)

// DecodeOkx parses the Flash Earn listing. Only ongoing projects are
// returned by the endpoint, and the API exposes no pool-wide capacity
// limit, so fill percentage stays nil here.
func DecodeOkx(data interface{}, oracle PriceOracle) []StakingRecord {
	root := asMap(data)
	if root == nil {
		return nil
	}

	projects := asList(asMap(root["data"])["ongoingProjects"])
	if len(projects) == 0 {
		logger.Debug("[OKX] No ongoing Flash Earn projects")
		return nil
	}

	var records []StakingRecord
	for _, pr := range projects {
		project := asMap(pr)
		if project == nil {
			continue
		}

		startTime := asString(project["startTime"])
		endTime := asString(project["endTime"])

		for _, pl := range asList(project["poolDetails"]) {
			pool := asMap(pl)
			if pool == nil {
				continue
			}
			if rec := decodeOkxPool(pool, startTime, endTime, oracle); rec != nil {
				records = append(records, *rec)
			}
		}
	}

	return records
}

func decodeOkxPool(pool map[string]interface{}, startTime, endTime string, oracle PriceOracle) *StakingRecord {
	purchases := asList(pool["purchaseDetails"])
	if len(purchases) == 0 {
		return nil
	}
	purchase := asMap(purchases[0])
	if purchase == nil {
		return nil
	}

	coin := asString(purchase["currencyName"])

	// APR comes as a fraction string like "0.0437"
	apr, _ := parseFloat(asMap(pool["apr"])["apr"])
	apr *= 100

	var rewardCoin, rewardAmount string
	if rewards := asList(pool["rewardDetails"]); len(rewards) > 0 {
		reward := asMap(rewards[0])
		rewardCoin = asString(reward["currencyName"])
		rewardAmount = asString(reward["rewardAmount"])
	}

	rec := &StakingRecord{
		Exchange:  "OKX",
		ProductID: asString(pool["projectId"]),
		Coin:      coin,
		APR:       apr,
		// Flash Earn pools are always flexible
		Type:         "Flash Earn",
		Status:       "Active",
		TermDays:     0,
		StartTime:    startTime,
		EndTime:      endTime,
		PoolName:     asString(pool["projectName"]),
		RewardAmount: rewardAmount,
	}
	if rec.PoolName == "" {
		rec.PoolName = coin
	}
	if rewardCoin != "" && rewardCoin != coin {
		rec.RewardCoin = rewardCoin
	}

	if deposited, ok := parseFloat(purchase["poolAccumulatedPurchaseAmount"]); ok {
		rec.CurrentDeposit = floatPtr(deposited)
	}

	// upperLimit is the per-user cap for regular accounts; the pool-wide
	// limit is not exposed
	if userLimit, ok := parseFloat(purchase["upperLimit"]); ok {
		rec.UserLimitTokens = floatPtr(userLimit)
	}

	if oracle != nil && coin != "" {
		rec.TokenPriceUSD = oracle.GetTokenPriceUSD(coin)
		if rec.RewardCoin != "" {
			rec.RewardTokenPriceUSD = oracle.GetTokenPriceUSD(rec.RewardCoin)
		}
		if rec.UserLimitTokens != nil && rec.TokenPriceUSD != nil {
			usd := math.Round(*rec.UserLimitTokens**rec.TokenPriceUSD*100) / 100
			rec.UserLimitUSD = &usd
		}
	}

	return rec
}
