package promo

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Specialized decoders for API shapes the generic miner flattens badly.
// Each has a strict shape check so the dispatcher stays safe to call on
// arbitrary payloads.

var chainNames = map[int]string{
	1:     "Ethereum",
	56:    "BNB Chain",
	137:   "Polygon",
	8453:  "Base",
	42161: "Arbitrum",
	784:   "Sui",
	501:   "Solana",
	9745:  "Plasma",
	59144: "Linea",
}

var statusOrder = map[string]int{
	"ongoing":  0,
	"upcoming": 1,
	"ended":    2,
	"unknown":  3,
}

// Decode converts a decoded JSON document into promotion records,
// dispatching to a specialized decoder when the payload shape matches
// and falling back to generic mining otherwise.
func (n *Normalizer) Decode(data interface{}, source DataSource) []PromotionRecord {
	if IsOkxBoost(data) {
		return decorateSource(DecodeOkxBoost(data), source)
	}
	if IsMexcAirdrop(data) {
		return decorateSource(DecodeMexcAirdrop(data), source)
	}
	if IsMexcLaunchpad(data) {
		return decorateSource(DecodeMexcLaunchpad(data), source)
	}

	objs := FindCandidateObjects(data)

	var out []PromotionRecord
	for _, obj := range objs {
		if rec := n.Normalize(obj, source); rec != nil {
			out = append(out, *rec)
		}
	}

	n.learnTemplates(objs, out)
	return out
}

// learnTemplates feeds the first linked record's URL plus the raw batch
// to the template learner. One example per batch is enough; the learner
// skips types it already knows.
func (n *Normalizer) learnTemplates(objs []map[string]interface{}, records []PromotionRecord) {
	learner, ok := n.linkBuilder.(TemplateLearner)
	if !ok {
		return
	}

	for _, rec := range records {
		if rec.Link == "" {
			continue
		}
		promoType := rec.PromoType
		if promoType == "" {
			promoType = "default"
		}
		learner.LearnFrom(n.Exchange, promoType, rec.Link, objs)
		return
	}
}

func decorateSource(records []PromotionRecord, source DataSource) []PromotionRecord {
	for i := range records {
		records[i].DataSource = source
	}
	return records
}

// IsOkxBoost reports whether the payload is an OKX Boost (X Launch)
// pool listing.
func IsOkxBoost(data interface{}) bool {
	root, ok := data.(map[string]interface{})
	if !ok {
		return false
	}
	if _, hasCode := root["code"]; !hasCode {
		return false
	}
	inner, ok := root["data"].(map[string]interface{})
	if !ok {
		return false
	}
	pools, ok := inner["pools"].([]interface{})
	if !ok || len(pools) == 0 {
		return false
	}
	first, ok := pools[0].(map[string]interface{})
	if !ok {
		return false
	}
	_, hasNav := first["navName"]
	_, hasHome := first["homeName"]
	_, hasTimes := first["times"]
	return hasNav && hasHome && hasTimes
}

// DecodeOkxBoost parses OKX Boost launchpools. Active pools sort first.
func DecodeOkxBoost(data interface{}) []PromotionRecord {
	root := data.(map[string]interface{})
	inner := root["data"].(map[string]interface{})
	pools, _ := inner["pools"].([]interface{})

	var out []PromotionRecord
	for _, p := range pools {
		pool, ok := p.(map[string]interface{})
		if !ok {
			continue
		}

		poolID := stringify(pool["id"])
		if poolID == "" {
			continue
		}

		var status string
		switch code, _ := toFloat(pool["status"]); int(code) {
		case 2:
			status = "ongoing"
		case 4:
			status = "upcoming"
		case 5:
			status = "ended"
		default:
			status = "unknown"
		}

		var prizePool, awardToken, chainName string
		if reward, ok := pool["reward"].(map[string]interface{}); ok {
			awardToken = stringify(reward["token"])
			if amount, ok := toFloat(reward["amount"]); ok {
				prizePool = strings.TrimSpace(fmt.Sprintf("%d %s", int64(amount), awardToken))
			}
			if chainID, ok := toFloat(reward["chainId"]); ok {
				if name, known := chainNames[int(chainID)]; known {
					chainName = name
				} else {
					chainName = fmt.Sprintf("Chain %d", int(chainID))
				}
			}
		}

		var startTime, endTime string
		if times, ok := pool["times"].(map[string]interface{}); ok {
			startTime = normalizeTime(times["joinStartTime"])
			endTime = normalizeTime(times["endTime"])
		}

		navName := stringify(pool["navName"])
		var link string
		if navName != "" {
			link = "https://web3.okx.com/boost/x-launch/" + navName
		}

		rec := PromotionRecord{
			PromoID:           "okx_boost_" + poolID,
			Exchange:          "OKX",
			Title:             stringify(pool["name"]),
			HomeName:          stringify(pool["homeName"]),
			NavName:           navName,
			Description:       stringify(pool["tokenDesc"]),
			AwardToken:        awardToken,
			TotalPrizePool:    prizePool,
			Conditions:        chainName,
			ParticipantsCount: stringify(pool["participants"]),
			Status:            status,
			StartTime:         startTime,
			EndTime:           endTime,
			Link:              link,
			Icon:              stringify(pool["tokenLogo"]),
			PromoType:         "okx_boost",
			DataSource:        SourceAPI,
			RawData:           pool,
		}
		out = append(out, rec)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return statusOrder[out[i].Status] < statusOrder[out[j].Status]
	})
	return out
}

// IsMexcLaunchpad reports whether the payload is a MEXC Launchpad
// project listing.
func IsMexcLaunchpad(data interface{}) bool {
	root, ok := data.(map[string]interface{})
	if !ok {
		return false
	}
	if _, hasCode := root["code"]; !hasCode {
		return false
	}
	inner, ok := root["data"].(map[string]interface{})
	if !ok {
		return false
	}
	launchpads, ok := inner["launchpads"].([]interface{})
	if !ok || len(launchpads) == 0 {
		return false
	}
	first, ok := launchpads[0].(map[string]interface{})
	if !ok {
		return false
	}
	_, hasCoin := first["activityCoin"]
	_, hasTaking := first["launchpadTakingCoins"]
	_, hasStatus := first["activityStatus"]
	return hasCoin && hasTaking && hasStatus
}

var mexcLaunchpadStatus = map[string]string{
	"ONGOING":     "ongoing",
	"UNDERWAY":    "ongoing",
	"SUBSCRIBE":   "ongoing",
	"NOT_STARTED": "upcoming",
	"FINISHED":    "ended",
	"SETTLED":     "ended",
	"CANCELLED":   "ended",
}

// DecodeMexcLaunchpad parses MEXC Launchpad projects.
func DecodeMexcLaunchpad(data interface{}) []PromotionRecord {
	root := data.(map[string]interface{})
	inner := root["data"].(map[string]interface{})
	launchpads, _ := inner["launchpads"].([]interface{})

	var out []PromotionRecord
	for _, l := range launchpads {
		lp, ok := l.(map[string]interface{})
		if !ok {
			continue
		}

		lpID := stringify(getValue(lp, []string{"id", "launchpadId"}))
		if lpID == "" {
			continue
		}

		activityStatus := stringify(lp["activityStatus"])
		status, ok := mexcLaunchpadStatus[activityStatus]
		if !ok {
			status = "unknown"
		}

		token := stringify(lp["activityCoin"])
		fullName := stringify(lp["activityCoinFullName"])
		title := token
		if fullName != "" && fullName != token {
			title = fmt.Sprintf("%s (%s)", fullName, token)
		}

		takingCoins, _ := lp["launchpadTakingCoins"].([]interface{})
		totalParticipants := 0
		maxDiscount := 0
		for _, t := range takingCoins {
			tc, ok := t.(map[string]interface{})
			if !ok {
				continue
			}
			if join, ok := toFloat(tc["joinNum"]); ok {
				totalParticipants += int(join)
			}
			label := stringify(tc["label"])
			if strings.Contains(label, "Off") {
				cleaned := strings.TrimSpace(strings.NewReplacer("% Off", "", "%", "").Replace(label))
				if d, err := strconv.Atoi(cleaned); err == nil && d > maxDiscount {
					maxDiscount = d
				}
			}
		}

		description := stringify(lp["introduction"])
		if maxDiscount > 0 {
			description = fmt.Sprintf("Up to %d%% off market price", maxDiscount)
		}

		rec := PromotionRecord{
			PromoID:           "mexc_launchpad_" + lpID,
			Exchange:          "MEXC",
			Title:             title,
			Description:       description,
			AwardToken:        token,
			TotalPrizePool:    stringify(lp["totalSupply"]),
			ParticipantsCount: strconv.Itoa(totalParticipants),
			Status:            status,
			StartTime:         normalizeTime(lp["startTime"]),
			EndTime:           normalizeTime(lp["endTime"]),
			Link:              "https://www.mexc.com/launchpad/" + lpID,
			Icon:              stringify(lp["logoUrl"]),
			PromoType:         "mexc_launchpad",
			DataSource:        SourceAPI,
			RawData:           lp,
		}
		out = append(out, rec)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return statusOrder[out[i].Status] < statusOrder[out[j].Status]
	})
	return out
}

// IsMexcAirdrop reports whether the payload is a MEXC Airdrop (EFTD)
// listing.
func IsMexcAirdrop(data interface{}) bool {
	root, ok := data.(map[string]interface{})
	if !ok {
		return false
	}
	if code, ok := toFloat(root["code"]); !ok || code != 0 {
		return false
	}
	items, ok := root["data"].([]interface{})
	if !ok || len(items) == 0 {
		return false
	}
	first, ok := items[0].(map[string]interface{})
	if !ok {
		return false
	}
	if _, hasCurrency := first["activityCurrency"]; !hasCurrency {
		return false
	}
	switch stringify(first["state"]) {
	case "ACTIVE", "AWARDED", "END", "DOING", "NOT_START":
	default:
		return false
	}
	_, hasEftd := first["eftdVOS"]
	_, hasTasks := first["taskVOList"]
	_, hasMain := first["mainTaskVOList"]
	return hasEftd || hasTasks || hasMain
}

var mexcAirdropStatus = map[string]string{
	"ACTIVE":    "ongoing",
	"DOING":     "ongoing",
	"NOT_START": "upcoming",
}

// DecodeMexcAirdrop parses active MEXC airdrops. Each airdrop can carry
// two pools: a token lottery pool and a fixed USDT bonus pool.
func DecodeMexcAirdrop(data interface{}) []PromotionRecord {
	root := data.(map[string]interface{})
	items, _ := root["data"].([]interface{})

	type scored struct {
		rec  PromotionRecord
		usd  float64
		pool float64
	}
	var entries []scored

	for _, it := range items {
		airdrop, ok := it.(map[string]interface{})
		if !ok {
			continue
		}

		state := stringify(airdrop["state"])
		status, active := mexcAirdropStatus[state]
		if !active {
			continue
		}

		airdropID := stringify(airdrop["id"])
		if airdropID == "" {
			continue
		}

		token := stringify(airdrop["activityCurrency"])
		fullName := stringify(airdrop["activityCurrencyFullName"])
		title := fullName
		if title == "" {
			title = token
		}

		var bonusUSDT, tokenPool float64
		tokenPoolCurrency := token
		totalWinners := 0

		if eftdVOS, ok := airdrop["eftdVOS"].([]interface{}); ok {
			for _, e := range eftdVOS {
				eftd, ok := e.(map[string]interface{})
				if !ok {
					continue
				}
				if tasks, ok := eftd["taskVOList"].([]interface{}); ok {
					for _, t := range tasks {
						task, ok := t.(map[string]interface{})
						if !ok {
							continue
						}
						taskType := stringify(task["firstProfitCurrencyType"])
						taskCurrency := stringify(task["firstProfitCurrency"])
						if taskType == "BONUS" && (taskCurrency == "USDT" || taskCurrency == "USDC") {
							if reward, ok := toFloat(task["firstProfitCurrencyQuantity"]); ok {
								bonusUSDT += reward
							}
						}
					}
				}
				if pools, ok := eftd["rewardPoolVOList"].([]interface{}); ok {
					for _, p := range pools {
						pool, ok := p.(map[string]interface{})
						if !ok {
							continue
						}
						if stringify(pool["rewardType"]) == "THANK" {
							continue
						}
						single, okSingle := toFloat(pool["singleAmount"])
						stock, okStock := toFloat(pool["totalStock"])
						if okSingle && okStock && single > 0 && stock > 0 {
							tokenPool += single * stock
							totalWinners += int(stock)
							if currency := stringify(pool["rewardCurrency"]); currency != "" {
								tokenPoolCurrency = currency
							}
						}
					}
				}
			}
		}

		prizePool := bonusUSDT
		awardToken := "USDT"
		rewardType := "BONUS"
		if tokenPool > 0 {
			prizePool = tokenPool
			awardToken = tokenPoolCurrency
			if bonusUSDT > 0 {
				rewardType = "LOTTERY+BONUS"
			} else {
				rewardType = "LOTTERY"
			}
		} else if bonusUSDT == 0 {
			rewardType = "UNKNOWN"
		}

		rec := PromotionRecord{
			PromoID:           "mexc_airdrop_" + airdropID,
			Exchange:          "MEXC",
			Title:             title,
			AwardToken:        awardToken,
			Status:            status,
			RewardType:        rewardType,
			StartTime:         normalizeTime(airdrop["startTime"]),
			EndTime:           normalizeTime(airdrop["endTime"]),
			Link:              "https://www.mexc.com/token-airdrop/rollx/" + airdropID,
			Icon:              stringify(airdrop["activityCurrencyIcon"]),
			ParticipantsCount: stringify(airdrop["applyNum"]),
			PromoType:         "mexc_airdrop",
			DataSource:        SourceAPI,
			RawData:           airdrop,
		}
		if prizePool > 0 {
			rec.TotalPrizePool = strconv.FormatFloat(prizePool, 'f', -1, 64)
		}
		if bonusUSDT > 0 {
			rec.TotalPrizePoolUSD = strconv.FormatFloat(bonusUSDT, 'f', -1, 64)
		}
		if totalWinners > 0 {
			rec.WinnersCount = strconv.Itoa(totalWinners)
		}

		entries = append(entries, scored{rec: rec, usd: bonusUSDT, pool: prizePool})
	}

	// Largest pools first, USD value preferred when known
	sort.SliceStable(entries, func(i, j int) bool {
		si, sj := entries[i].usd, entries[j].usd
		if si == 0 {
			si = entries[i].pool
		}
		if sj == 0 {
			sj = entries[j].pool
		}
		return si > sj
	})

	out := make([]PromotionRecord, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.rec)
	}
	return out
}
