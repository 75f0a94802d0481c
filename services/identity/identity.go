package identity

import (
	"sync"
	"time"

	"cexwatch/promoworker/helpers"
	"cexwatch/promoworker/internal/fetch"
	"cexwatch/promoworker/logger"
)

// consecutive failures before a proxy rotates out of the pool
const maxFailures = 3

// Provider hands out transport identities (proxy + user agent) and
// retires proxies that keep failing or getting flagged. It implements
// fetch.IdentityProvider.
type Provider struct {
	pool *proxyPool

	mu       sync.Mutex
	failures map[string]int
}

// NewProvider creates a provider with an empty pool. Call Refresh to
// populate it; until then identities are direct connections.
func NewProvider() *Provider {
	return &Provider{
		pool:     newProxyPool(),
		failures: make(map[string]int),
	}
}

// Refresh updates the proxy pool from the public sources. Failure is
// not fatal; direct connections still work.
func (p *Provider) Refresh() error {
	return p.pool.update()
}

// PoolSize reports how many verified proxies are available.
func (p *Provider) PoolSize() int {
	return p.pool.size()
}

// GetIdentity returns the transport identity to use for the next
// request to an exchange. An empty proxy URL means fetch directly.
func (p *Provider) GetIdentity(exchange string) fetch.Identity {
	id := fetch.Identity{UserAgent: helpers.RandomUserAgent()}
	if proxy := p.pool.fastest(); proxy != nil {
		id.ProxyURL = proxy.URL()
	}
	return id
}

// ReportOutcome records how a request went. Transport errors and WAF
// blocks count against the proxy; enough of them in a row retire it.
func (p *Provider) ReportOutcome(id fetch.Identity, statusCode int, latency time.Duration, err error) {
	if id.ProxyURL == "" {
		return
	}

	failed := err != nil || statusCode == 403 || statusCode == 429 || statusCode == 430

	p.mu.Lock()
	defer p.mu.Unlock()

	if !failed {
		delete(p.failures, id.ProxyURL)
		return
	}

	p.failures[id.ProxyURL]++
	if p.failures[id.ProxyURL] >= maxFailures {
		logger.Info("Retiring proxy %s after %d consecutive failures", id.ProxyURL, p.failures[id.ProxyURL])
		p.pool.drop(id.ProxyURL)
		delete(p.failures, id.ProxyURL)
	}
}
