package sources

import (
	"cexwatch/promoworker/config"
	"cexwatch/promoworker/internal/fetch"
	"cexwatch/promoworker/internal/htmlx"
	"cexwatch/promoworker/internal/promo"
	"cexwatch/promoworker/internal/staking"
	"cexwatch/promoworker/internal/strategy"
	"cexwatch/promoworker/logger"
	"cexwatch/promoworker/services/cache"
	"cexwatch/promoworker/services/worker"
)

// Deps are the shared collaborators every source gets wired with.
type Deps struct {
	Cache    cache.CacheService
	Identity fetch.IdentityProvider
	Oracle   staking.PriceOracle
	Links    promo.LinkBuilder
}

// CreateSources builds every promotion orchestrator and staking source
// from the configuration.
func CreateSources(cfg *config.Config, deps Deps) []worker.Source {
	out := createPromoSources(cfg, deps)
	out = append(out, createEarnSources(cfg, deps)...)

	logger.Info("Created %d sources", len(out))
	return out
}

// promoExchange describes one exchange's promotion endpoints. An empty
// URL disables the corresponding strategy.
type promoExchange struct {
	key     string
	display string
	pageURL string
	apiURLs []string
	pinned  string
}

func createPromoSources(cfg *config.Config, deps Deps) []worker.Source {
	exchanges := []promoExchange{
		{
			key:     "bybit",
			display: "Bybit",
			pageURL: cfg.BybitPromoURL,
			apiURLs: []string{cfg.BybitSplashURL},
		},
		{
			key:     "mexc",
			display: "MEXC",
			pageURL: cfg.MexcPromoURL,
			apiURLs: []string{cfg.MexcLaunchpadURL, cfg.MexcAirdropURL},
		},
		{
			key:     "binance",
			display: "Binance",
			pageURL: cfg.BinancePromoURL,
		},
		{
			key:     "gate",
			display: "Gate.io",
			pageURL: cfg.GatePromoURL,
		},
		{
			key:     "okx",
			display: "OKX",
			pageURL: cfg.OkxPromoURL,
		},
		{
			// The Boost listing is API-only, served alongside the page
			// scrape as a second OKX source
			key:     "okx",
			display: "OKX",
			apiURLs: []string{cfg.OkxBoostURL},
			pinned:  "api",
		},
		{
			key:     "bitget",
			display: "Bitget",
			pageURL: cfg.BitgetPromoURL,
		},
	}

	var out []worker.Source
	for _, ex := range exchanges {
		orch := buildOrchestrator(cfg, deps, ex)
		if orch == nil {
			continue
		}
		out = append(out, &worker.PromoSource{
			Orchestrator: orch,
			Provider:     "promo:" + ex.key,
		})
	}
	return out
}

func buildOrchestrator(cfg *config.Config, deps Deps, ex promoExchange) *strategy.Orchestrator {
	strategies := make(map[string]strategy.Strategy)

	fetcher := fetch.NewHTTPFetcher(ex.key, ex.display, deps.Identity)

	var extractor *htmlx.Extractor
	if ex.pageURL != "" {
		var err error
		extractor, err = htmlx.NewExtractor(ex.key, ex.display)
		if err != nil {
			logger.Warn("[%s] %v", ex.display, err)
		}
	}

	if len(ex.apiURLs) > 0 {
		var apiStrategies []strategy.Strategy
		for _, apiURL := range ex.apiURLs {
			if apiURL == "" {
				continue
			}
			apiStrategies = append(apiStrategies, &strategy.APIStrategy{
				URL:        apiURL,
				Fetcher:    fetcher,
				Normalizer: promo.NewNormalizer(apiURL, deps.Links),
			})
		}
		switch len(apiStrategies) {
		case 0:
		case 1:
			strategies["api"] = apiStrategies[0]
		default:
			strategies["api"] = &strategy.Composite{StrategyName: "api", Strategies: apiStrategies}
		}
	}

	if ex.pageURL != "" && extractor != nil {
		strategies["html"] = &strategy.HTMLStrategy{
			URL:       ex.pageURL,
			Fetcher:   fetcher,
			Extractor: extractor,
		}
		if cfg.ChromeDBAddr != "" {
			strategies["browser"] = &strategy.BrowserStrategy{
				URL:       ex.pageURL,
				Browser:   fetch.NewBrowserFetcher(ex.display, cfg.ChromeDBAddr, deps.Cache),
				Extractor: extractor,
			}
		}
	}

	if len(strategies) == 0 {
		return nil
	}
	return strategy.NewOrchestrator(ex.key, ex.display, ex.pinned, strategies)
}

// earnExchange describes one exchange's staking listing.
type earnExchange struct {
	key     string
	display string
	url     string
	payload []byte
	decode  staking.Decoder
	// fills adds a second source publishing the pool-fill view
	fills bool
}

func createEarnSources(cfg *config.Config, deps Deps) []worker.Source {
	exchanges := []earnExchange{
		{
			key:     "bybit",
			display: "Bybit",
			url:     cfg.BybitEarnURL,
			payload: []byte(staking.BybitEarnPayload),
			decode:  staking.DecodeBybit,
			fills:   true,
		},
		{
			key:     "kucoin",
			display: "KuCoin",
			url:     cfg.KucoinEarnURL,
			decode:  staking.DecodeKucoin,
		},
		{
			key:     "okx",
			display: "OKX",
			url:     cfg.OkxEarnURL,
			decode:  staking.DecodeOkx,
		},
		{
			key:     "gate",
			display: "Gate.io",
			url:     cfg.GateEarnURL,
			decode:  staking.DecodeGate,
			fills:   true,
		},
		{
			key:     "mexc",
			display: "MEXC",
			url:     cfg.MexcEarnURL,
			decode:  staking.DecodeMexc,
		},
		{
			key:     "binance",
			display: "Binance",
			url:     cfg.BinanceEarnURL,
			decode:  staking.DecodeBinance,
			fills:   true,
		},
	}

	var out []worker.Source
	for _, ex := range exchanges {
		if ex.url == "" {
			continue
		}

		fetcher := fetch.NewHTTPFetcher(ex.key, ex.display, deps.Identity)

		// Blocked listings retry through the renderer when the exchange
		// has page selectors to scrape with
		var browser *fetch.BrowserFetcher
		extractor, err := htmlx.NewExtractor(ex.key, ex.display)
		if err != nil {
			extractor = nil
		} else if cfg.ChromeDBAddr != "" {
			browser = fetch.NewBrowserFetcher(ex.display, cfg.ChromeDBAddr, deps.Cache)
		}

		src := staking.NewSource(ex.key, ex.display, ex.url, ex.payload, fetcher, browser, extractor, deps.Oracle, ex.decode)

		out = append(out, &worker.EarnSource{Source: src, Provider: "staking:" + ex.key})
		if ex.fills {
			out = append(out, &worker.EarnFillsSource{Source: src, Provider: "staking_fills:" + ex.key})
		}
	}
	return out
}
