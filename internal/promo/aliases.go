package promo

// Alias lists map the many key spellings exchanges use onto canonical
// record fields. Lookup is case-insensitive and ordered: the first key
// with a non-empty value wins.

// promoKeywords is the vocabulary used to decide whether a JSON object
// looks like a promotion. An object qualifies when at least two of its
// keys contain one of these words.
var promoKeywords = []string{
	"name", "title", "description", "reward", "prize", "token",
	"start", "end", "url", "link", "id", "code", "campaign",
	"promotion", "activity", "event", "launchpad", "staking",
	"coin", "symbol", "amount", "pool", "time", "date",
	"currency", "participants", "icon", "status", "phase",
	"registered", "rewards", "exchange", "lottery", "rule",
	"airdrop", "candydrop", "trading", "snapshot", "allocation",
}

// idKeys are checked in order when extracting a native promotion id.
var idKeys = []string{
	"id", "promoId", "campaignId", "activityId",
	"code", "promoCode", "projectId", "eventId",
}

// stableFieldKeys feed the fallback content hash when no native id and
// no title/token pair exists.
var stableFieldKeys = []string{
	"name", "title", "token", "currency", "symbol",
	"description", "desc", "amount", "reward",
	"url", "link", "startTime", "endTime",
}

var (
	titleKeys = []string{
		"name", "title", "campaignName", "activityName", "projectName",
		"activityCurrencyFullName",
		"tokenFullName", "activityCoinFullName", "coinFullName",
		"eventName", "promotionName", "launchpadName",
	}

	descriptionKeys = []string{
		"description", "desc", "details", "info", "introduction",
		"content", "remark", "note", "summary",
	}

	prizePoolKeys = []string{
		"totalPrizePool", "reward", "prize", "amount", "prizePool", "totalReward",
		"rewardAmount", "totalAmount", "poolSize",
		"total_rewards",
	}

	prizePoolUSDKeys = []string{
		"total_rewards_usdt", "totalRewardsUsdt", "prizePoolUsdt",
		"totalAmountUsdt", "poolValueUsd",
	}

	userMaxRewardKeys = []string{
		"user_max_rewards", "userMaxRewards", "maxRewardPerUser",
		"perUserMaxReward", "maxPrize",
	}

	exchangeRateKeys = []string{
		"exchange_rate", "exchangeRate", "price", "tokenPrice", "rate",
	}

	conditionsKeys = []string{
		"rule_name", "ruleName", "rules", "conditions", "requirements",
		"participationRules", "eligibility",
	}

	phaseKeys = []string{
		"phase", "wave", "round", "batch", "period",
	}

	awardTokenKeys = []string{
		"activityCurrency",
		"token", "coin", "symbol", "currency",
		"activityCoin", "awardToken", "rewardToken",
		"tradeCoin", "targetCoin", "assetSymbol",
		"currencyId", "coinSymbol", "tokenSymbol",
	}

	participantsKeys = []string{
		"participants", "users", "joiners", "totalUsers",
		"participantCount", "userCount", "joinedUsers",
	}

	startTimeKeys = []string{
		"start_time", "startTime", "start", "startDate", "beginTime", "openTime",
		"startTimestamp", "beginTimestamp",
		"depositStart", "applyStart",
	}

	endTimeKeys = []string{
		"end_time", "endTime", "end", "endDate", "expireTime", "closeTime",
		"endTimestamp", "expireTimestamp",
		"depositEnd", "applyEnd",
	}

	linkKeys = []string{
		"url", "link", "detailUrl", "jumpUrl", "joinUrl",
		"campaignUrl", "activityUrl", "projectUrl", "href",
	}

	iconKeys = []string{
		"icon", "iconUrl", "imageUrl", "logo", "logoUrl",
		"tokenIcon", "coinIcon", "img", "image", "thumbnail",
	}

	navNameKeys = []string{
		"navName", "slug", "projectSlug", "projectCode", "code",
	}

	homeNameKeys = []string{
		"homeName", "shortName", "projectShortName",
	}

	winnersCountKeys = []string{
		"winnersCount", "winners", "prizeCount", "rewardCount",
		"totalWinners", "luckyCount", "winnerCount",
	}

	rewardPerWinnerKeys = []string{
		"rewardPerWinner", "prizePerUser", "amountPerWinner",
		"rewardAmount", "perUserReward", "unitPrize",
	}

	statusKeys = []string{
		"status", "state", "taskStatus", "projectStatus",
		"activityStatus", "activity_status", "campaignStatus",
	}

	rewardTypeKeys = []string{
		"rewardType", "prizeType", "awardType", "distributionType",
		"reward_type",
	}

	taskTypeKeys = []string{
		"taskType", "activityType", "campaignType", "type",
	}

	publishTimeKeys = []string{
		"publishTime", "announceTime", "resultTime", "drawTime",
	}
)
