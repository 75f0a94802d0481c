package promo

// Merge folds src into dst field by field. The earlier record wins for
// every populated field; src only fills gaps. When the two records came
// from different strategies the result is marked combined.
func Merge(dst, src *PromotionRecord) {
	fillEmpty(&dst.Title, src.Title)
	fillEmpty(&dst.Description, src.Description)
	fillEmpty(&dst.PromoType, src.PromoType)
	fillEmpty(&dst.Status, src.Status)
	fillEmpty(&dst.TotalPrizePool, src.TotalPrizePool)
	fillEmpty(&dst.TotalPrizePoolUSD, src.TotalPrizePoolUSD)
	fillEmpty(&dst.UserMaxRewards, src.UserMaxRewards)
	fillEmpty(&dst.ExchangeRate, src.ExchangeRate)
	fillEmpty(&dst.AwardToken, src.AwardToken)
	fillEmpty(&dst.ParticipantsCount, src.ParticipantsCount)
	fillEmpty(&dst.WinnersCount, src.WinnersCount)
	fillEmpty(&dst.RewardPerWinner, src.RewardPerWinner)
	fillEmpty(&dst.Conditions, src.Conditions)
	fillEmpty(&dst.Phase, src.Phase)
	fillEmpty(&dst.RewardType, src.RewardType)
	fillEmpty(&dst.TaskType, src.TaskType)
	fillEmpty(&dst.StartTime, src.StartTime)
	fillEmpty(&dst.EndTime, src.EndTime)
	fillEmpty(&dst.PublishTime, src.PublishTime)
	fillEmpty(&dst.Link, src.Link)
	fillEmpty(&dst.Icon, src.Icon)
	fillEmpty(&dst.NavName, src.NavName)
	fillEmpty(&dst.HomeName, src.HomeName)

	if dst.RawData == nil {
		dst.RawData = src.RawData
	}

	if dst.DataSource != src.DataSource {
		dst.DataSource = SourceCombined
	}
}

// CombineRecords deduplicates records by promo id, merging duplicates
// into the first occurrence and preserving first-seen order.
func CombineRecords(records []PromotionRecord) []PromotionRecord {
	seen := make(map[string]int)
	out := make([]PromotionRecord, 0, len(records))

	for _, rec := range records {
		if rec.PromoID == "" {
			continue
		}
		if idx, ok := seen[rec.PromoID]; ok {
			Merge(&out[idx], &rec)
			continue
		}
		seen[rec.PromoID] = len(out)
		out = append(out, rec)
	}

	return out
}

func fillEmpty(dst *string, src string) {
	if *dst == "" && src != "" {
		*dst = src
	}
}
