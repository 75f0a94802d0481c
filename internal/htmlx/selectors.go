package htmlx

// SelectorSet contains CSS selectors for promotion elements on an
// exchange's campaign page. Empty selectors skip that field. A Link
// value of "self" means the container element itself carries the href.
type SelectorSet struct {
	Container    string
	Title        string
	Description  string
	Link         string
	Time         string
	Prize        string
	Token        string
	Participants string
	Image        string
}

// exchangeSelectors holds per-exchange selector sets keyed by the
// lowercase exchange key. Exchange campaign pages change often, so the
// selectors lean on wildcard class matches.
var exchangeSelectors = map[string]SelectorSet{
	"bybit": {
		Container:    "div.event-item, div.promo-item, div.activity-item, [class*='event'], [class*='promo'], [class*='activity']",
		Title:        "h3, h4, .title, .name, [class*='title'], [class*='name']",
		Description:  ".description, .desc, .details, .info, [class*='desc'], [class*='detail']",
		Link:         "a[href], [class*='btn'], [class*='link'], [class*='join']",
		Time:         ".time, .date, .period, [class*='time'], [class*='date']",
		Prize:        ".prize, .reward, .pool, [class*='prize'], [class*='reward']",
		Participants: ".participants, .users, .count, [class*='participant']",
		Image:        "img[src], [class*='image'], [class*='icon'], [class*='logo']",
	},
	"mexc": {
		Container:   "div.launchpad-item, div.project-item, [class*='launchpad'], [class*='project']",
		Title:       "h4, h3, .project-name, .project-title, [class*='name'], [class*='title']",
		Description: ".project-desc, .project-info, .description, [class*='desc'], [class*='info']",
		Link:        "a.join-button, a[href*='launchpad'], [class*='btn'], [class*='join']",
		Time:        ".time, .date, .period, [class*='time'], [class*='date']",
		Token:       ".token, .symbol, [class*='token'], [class*='symbol']",
	},
	"binance": {
		Container:   "div.activity-item, div.launchpad-item, [class*='activity'], [class*='launchpad']",
		Title:       "h3, h4, .title, .name, [class*='title'], [class*='name']",
		Description: ".description, .desc, .details, [class*='desc'], [class*='detail']",
		Link:        "a[href], [class*='btn'], [class*='link']",
		Time:        ".time, .date, [class*='time'], [class*='date']",
	},
	"gate": {
		Container:   "div.startup-item, div.project-item, [class*='startup'], [class*='project']",
		Title:       "h3, h4, .title, .name, [class*='title'], [class*='name']",
		Description: ".description, .info, .details, [class*='desc'], [class*='info']",
		Link:        "a[href*='startup'], [class*='btn'], [class*='participate']",
		Token:       ".token, .coin, [class*='token'], [class*='coin']",
	},
	"okx": {
		Container:   "div.jumpstart-item, div.project-item, [class*='jumpstart'], [class*='project']",
		Title:       "h3, h4, .title, .name, [class*='title'], [class*='name']",
		Description: ".description, .info, [class*='desc'], [class*='info']",
		Link:        "a[href*='jumpstart'], [class*='btn'], [class*='join']",
		Time:        ".time, .date, [class*='time'], [class*='date']",
		Prize:       ".reward, .profit, [class*='reward'], [class*='profit']",
	},
	"bitget": {
		Container:   "div.promo-item, div.event-item, [class*='promo'], [class*='event']",
		Title:       "h3, h4, .title, .name, [class*='title'], [class*='name']",
		Description: ".description, .desc, .details, [class*='desc'], [class*='detail']",
		Link:        "a[href], [class*='btn'], [class*='join']",
		Time:        ".time, .date, [class*='time'], [class*='date']",
		Prize:       ".reward, .prize, [class*='reward'], [class*='prize']",
	},
}

// SelectorsFor returns the selector set for an exchange key.
func SelectorsFor(exchange string) (SelectorSet, bool) {
	s, ok := exchangeSelectors[exchange]
	return s, ok
}
