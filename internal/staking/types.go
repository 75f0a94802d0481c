package staking

import "math"

// StakingRecord is the canonical shape for one earn/staking product.
// Unlike promotion records it carries typed numeric fields, because the
// downstream consumers do arithmetic on APRs and fills.
type StakingRecord struct {
	Exchange  string `json:"exchange"`
	ProductID string `json:"product_id"`
	// Coin is the normalized symbol, never a raw numeric id. When id
	// resolution fails it takes the COIN_<id> placeholder form.
	Coin       string  `json:"coin"`
	RewardCoin string  `json:"reward_coin,omitempty"`
	APR        float64 `json:"apr"`

	// Type is "Flexible", "Fixed Nd" or "Fixed/Flexible" for combined
	// products.
	Type   string `json:"type"`
	Status string `json:"status"`

	// Sub-product detail kept alongside the merged APR for combined
	// Fixed/Flexible products.
	FixedAPR      *float64 `json:"fixed_apr,omitempty"`
	FlexibleAPR   *float64 `json:"flexible_apr,omitempty"`
	FixedTermDays int      `json:"fixed_term_days,omitempty"`

	Category     string `json:"category,omitempty"`
	CategoryText string `json:"category_text,omitempty"`

	// TermDays is 0 for flexible products.
	TermDays int `json:"term_days"`

	TokenPriceUSD       *float64 `json:"token_price_usd,omitempty"`
	RewardTokenPriceUSD *float64 `json:"reward_token_price_usd,omitempty"`

	StartTime string `json:"start_time,omitempty"`
	EndTime   string `json:"end_time,omitempty"`

	UserLimitTokens *float64 `json:"user_limit_tokens,omitempty"`
	UserLimitUSD    *float64 `json:"user_limit_usd,omitempty"`

	MaxCapacity    *float64 `json:"max_capacity,omitempty"`
	CurrentDeposit *float64 `json:"current_deposit,omitempty"`
	// FillPercentage is always recomputed from the raw amounts, never
	// taken from an exchange-provided percentage field.
	FillPercentage *float64 `json:"fill_percentage,omitempty"`

	IsVIP             bool   `json:"is_vip,omitempty"`
	IsNewUser         bool   `json:"is_new_user,omitempty"`
	RegionalTag       string `json:"regional_tag,omitempty"`
	RegionalCountries string `json:"regional_countries,omitempty"`

	PoolName     string `json:"pool_name,omitempty"`
	RewardAmount string `json:"reward_amount,omitempty"`
}

// PriceOracle resolves a token symbol to its USD price. A nil result
// means the price is unknown; lookups never fail the parse.
type PriceOracle interface {
	GetTokenPriceUSD(symbol string) *float64
}

// FillPercent derives the pool fill as round(deposit/capacity*100, 2).
// A zero or negative capacity yields nil rather than a division by
// zero.
func FillPercent(currentDeposit, maxCapacity float64) *float64 {
	if maxCapacity <= 0 {
		return nil
	}
	fill := math.Round(currentDeposit/maxCapacity*100*100) / 100
	return &fill
}

// PoolFills filters to records that carry fill data, for the capacity
// check view.
func PoolFills(records []StakingRecord) []StakingRecord {
	var out []StakingRecord
	for _, r := range records {
		if r.FillPercentage != nil {
			out = append(out, r)
		}
	}
	return out
}

func floatPtr(v float64) *float64 { return &v }
