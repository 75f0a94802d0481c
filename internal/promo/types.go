package promo

// DataSource identifies which extraction strategy produced a record
type DataSource string

const (
	SourceAPI      DataSource = "api"
	SourceHTML     DataSource = "html"
	SourceBrowser  DataSource = "browser"
	SourceCombined DataSource = "combined"
)

// PromotionRecord represents a normalized promotional campaign
type PromotionRecord struct {
	PromoID           string     `json:"promo_id"`
	Exchange          string     `json:"exchange"`
	Title             string     `json:"title"`
	Description       string     `json:"description,omitempty"`
	PromoType         string     `json:"promo_type,omitempty"`
	Status            string     `json:"status,omitempty"`
	TotalPrizePool    string     `json:"total_prize_pool,omitempty"`
	TotalPrizePoolUSD string     `json:"total_prize_pool_usd,omitempty"`
	UserMaxRewards    string     `json:"user_max_rewards,omitempty"`
	ExchangeRate      string     `json:"exchange_rate,omitempty"`
	AwardToken        string     `json:"award_token,omitempty"`
	ParticipantsCount string     `json:"participants_count,omitempty"`
	WinnersCount      string     `json:"winners_count,omitempty"`
	RewardPerWinner   string     `json:"reward_per_winner,omitempty"`
	Conditions        string     `json:"conditions,omitempty"`
	Phase             string     `json:"phase,omitempty"`
	RewardType        string     `json:"reward_type,omitempty"`
	TaskType          string     `json:"task_type,omitempty"`
	StartTime         string     `json:"start_time,omitempty"`
	EndTime           string     `json:"end_time,omitempty"`
	PublishTime       string     `json:"publish_time,omitempty"`
	Link              string     `json:"link,omitempty"`
	Icon              string     `json:"icon,omitempty"`
	NavName           string     `json:"nav_name,omitempty"`
	HomeName          string     `json:"home_name,omitempty"`
	DataSource        DataSource `json:"data_source"`

	// RawData is the original source object, retained for audit and
	// debugging downstream
	RawData map[string]interface{} `json:"raw_data,omitempty"`
}

// LinkBuilder generates promotion page URLs from raw API objects when the
// payload itself carries no link. Implemented by the urltpl package.
type LinkBuilder interface {
	BuildURL(exchange string, obj map[string]interface{}) string
}

// TemplateLearner learns URL patterns from payload batches that already
// carry a link, so later payloads without one can be backfilled. A link
// builder that also implements this gets fed during decoding.
type TemplateLearner interface {
	LearnFrom(exchange, promoType, exampleURL string, payloads []map[string]interface{})
}
