package strategy

import (
	"context"

	"cexwatch/promoworker/internal/promo"
	"cexwatch/promoworker/logger"
)

// Strategy is one way of obtaining promotion records for an exchange.
type Strategy interface {
	Name() string
	Fetch(ctx context.Context) ([]promo.PromotionRecord, error)
}

// strategyPriority orders strategies per exchange. Akamai-protected
// exchanges go browser-first; the rest serve useful HTML directly.
var strategyPriority = map[string][]string{
	"bybit":   {"browser", "html", "api"},
	"mexc":    {"browser", "api", "html"},
	"binance": {"html", "browser"},
	"gate":    {"html", "browser"},
	"okx":     {"html", "browser"},
	"bitget":  {"html", "browser"},
}

var defaultPriority = []string{"html", "api", "browser"}

// PriorityFor returns the strategy order for an exchange. A non-empty
// pinned name restricts the run to that single strategy.
func PriorityFor(exchange, pinned string) []string {
	if pinned != "" && pinned != "combined" {
		return []string{pinned}
	}
	if order, ok := strategyPriority[exchange]; ok {
		return order
	}
	return defaultPriority
}

// Orchestrator runs an exchange's strategies in priority order and
// merges their output into one deduplicated record list.
type Orchestrator struct {
	// Exchange is the lowercase key, e.g. "bybit"
	Exchange string
	// Display is the exchange display name
	Display string

	order      []string
	strategies map[string]Strategy
	log        *logger.Logger
}

// NewOrchestrator builds an orchestrator. Strategies missing from the
// priority order are skipped silently, so exchanges without an API
// endpoint simply register fewer strategies.
func NewOrchestrator(exchange, display, pinned string, strategies map[string]Strategy) *Orchestrator {
	return &Orchestrator{
		Exchange:   exchange,
		Display:    display,
		order:      PriorityFor(exchange, pinned),
		strategies: strategies,
		log:        logger.ForExchange(exchange),
	}
}

// FetchPromotions runs every configured strategy in priority order.
// Failing or empty strategies advance to the next one; results from
// multiple strategies are merged by promo id with earlier strategies
// winning per field. No results is an empty slice, not an error.
func (o *Orchestrator) FetchPromotions(ctx context.Context) ([]promo.PromotionRecord, error) {
	// Accumulated per invocation; orchestrators share nothing between
	// polls
	var results []promo.PromotionRecord

	for _, name := range o.order {
		strat, ok := o.strategies[name]
		if !ok {
			continue
		}

		records, err := strat.Fetch(ctx)
		if err != nil {
			o.log.Warn().
				Str("strategy", name).
				Err(err).
				Msg("Strategy failed, advancing")
			continue
		}
		if len(records) == 0 {
			o.log.Debug().
				Str("strategy", name).
				Msg("Strategy returned no records")
			continue
		}

		o.log.Info().
			Str("strategy", name).
			Int("records", len(records)).
			Msg("Strategy succeeded")
		results = append(results, records...)
	}

	combined := promo.CombineRecords(results)
	if combined == nil {
		combined = []promo.PromotionRecord{}
	}
	return combined, nil
}

// GetName implements the worker source identity.
func (o *Orchestrator) GetName() string {
	return o.Display + "Promos"
}
