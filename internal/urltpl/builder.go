package urltpl

import (
	"strings"
	"sync"

	"cexwatch/promoworker/logger"
)

// Builder generates promotion links from stored templates. It
// implements the link builder hook the normalizer uses to backfill
// missing links.
type Builder struct {
	store *Store

	mu sync.RWMutex
	// templates is keyed exchange → promo type
	templates map[string]map[string]*URLTemplate
}

// NewBuilder loads templates from the store. A missing or unreadable
// store file starts the builder empty rather than failing startup.
func NewBuilder(store *Store) *Builder {
	templates, err := store.Load()
	if err != nil {
		logger.Warn("Failed to load URL templates: %v", err)
		templates = make(map[string]map[string]*URLTemplate)
	}
	return &Builder{store: store, templates: templates}
}

// AddTemplate stores a validated template for (exchange, promoType)
// and persists the full set.
func (b *Builder) AddTemplate(exchange, promoType string, tpl *URLTemplate) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	exchange = strings.ToLower(exchange)
	if b.templates[exchange] == nil {
		b.templates[exchange] = make(map[string]*URLTemplate)
	}
	b.templates[exchange][promoType] = tpl

	if err := b.store.Save(b.templates); err != nil {
		return err
	}
	logger.Info("URL template stored for %s/%s", exchange, promoType)
	return nil
}

// TemplatesFor returns the stored templates for an exchange.
func (b *Builder) TemplatesFor(exchange string) map[string]*URLTemplate {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make(map[string]*URLTemplate)
	for promoType, tpl := range b.templates[strings.ToLower(exchange)] {
		out[promoType] = tpl
	}
	return out
}

// BuildURL generates a link for the raw payload, trying each stored
// template for the exchange. Payloads that already carry a link keep
// it; an empty result means no template applied.
func (b *Builder) BuildURL(exchange string, payload map[string]interface{}) string {
	if link := stringifyValue(payload["link"]); link != "" {
		return link
	}
	if link := stringifyValue(payload["url"]); link != "" {
		return link
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, tpl := range b.templates[strings.ToLower(exchange)] {
		if url := tryBuild(tpl, payload); url != "" {
			return url
		}
	}
	return ""
}

// LearnFrom analyzes a payload batch against one example link and
// stores the inferred template for (exchange, promoType). Types with a
// stored template are left alone, so learning from backfilled links
// cannot loop.
func (b *Builder) LearnFrom(exchange, promoType, exampleURL string, payloads []map[string]interface{}) {
	if exampleURL == "" || len(payloads) == 0 {
		return
	}

	exchange = strings.ToLower(exchange)
	b.mu.RLock()
	_, exists := b.templates[exchange][promoType]
	b.mu.RUnlock()
	if exists {
		return
	}

	tpl := NewAnalyzer(exampleURL, payloads).Analyze()
	if tpl == nil {
		return
	}
	if err := b.AddTemplate(exchange, promoType, tpl); err != nil {
		logger.Warn("Failed to persist learned template for %s/%s: %v", exchange, promoType, err)
	}
}

// tryBuild substitutes payload values into one template. Any missing
// field aborts the attempt; a partially substituted URL is worse than
// none.
func tryBuild(tpl *URLTemplate, payload map[string]interface{}) string {
	url := tpl.Pattern
	for fieldName, aliases := range tpl.Fields {
		value := fieldValue(payload, aliases)
		if value == "" {
			return ""
		}
		url = strings.ReplaceAll(url, "{"+fieldName+"}", value)
	}
	return tpl.BaseURL + url
}
