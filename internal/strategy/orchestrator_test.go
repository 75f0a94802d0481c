package strategy

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"cexwatch/promoworker/internal/promo"
)

type stubStrategy struct {
	name    string
	records []promo.PromotionRecord
	err     error
	calls   int
}

func (s *stubStrategy) Name() string { return s.name }

func (s *stubStrategy) Fetch(ctx context.Context) ([]promo.PromotionRecord, error) {
	s.calls++
	return s.records, s.err
}

func TestPriorityFor(t *testing.T) {
	assert.Equal(t, []string{"browser", "html", "api"}, PriorityFor("bybit", ""))
	assert.Equal(t, []string{"html", "browser"}, PriorityFor("okx", ""))
	assert.Equal(t, []string{"html", "api", "browser"}, PriorityFor("somewhere", ""))
	// A pinned strategy restricts the run
	assert.Equal(t, []string{"api"}, PriorityFor("okx", "api"))
}

func TestFetchPromotionsAdvancesPastFailure(t *testing.T) {
	failing := &stubStrategy{name: "html", err: errors.New("blocked")}
	working := &stubStrategy{name: "api", records: []promo.PromotionRecord{
		{PromoID: "x_1", Title: "Promo", DataSource: promo.SourceAPI},
	}}

	o := NewOrchestrator("test", "Test", "", map[string]Strategy{
		"html": failing,
		"api":  working,
	})

	out, err := o.FetchPromotions(context.Background())
	assert.NoError(t, err)
	assert.Len(t, out, 1)
	assert.Equal(t, "x_1", out[0].PromoID)
	assert.Equal(t, 1, failing.calls)
	assert.Equal(t, 1, working.calls)
}

func TestFetchPromotionsMergesAcrossStrategies(t *testing.T) {
	// Default order runs html before api, so the html fields win
	html := &stubStrategy{name: "html", records: []promo.PromotionRecord{
		{PromoID: "x_1", Title: "HTML Title", DataSource: promo.SourceHTML},
	}}
	api := &stubStrategy{name: "api", records: []promo.PromotionRecord{
		{PromoID: "x_1", Title: "API Title", Description: "From the API", DataSource: promo.SourceAPI},
		{PromoID: "x_2", Title: "Only via API", DataSource: promo.SourceAPI},
	}}

	o := NewOrchestrator("test", "Test", "", map[string]Strategy{
		"html": html,
		"api":  api,
	})

	out, err := o.FetchPromotions(context.Background())
	assert.NoError(t, err)
	assert.Len(t, out, 2)
	assert.Equal(t, "HTML Title", out[0].Title)
	assert.Equal(t, "From the API", out[0].Description)
	assert.Equal(t, promo.SourceCombined, out[0].DataSource)
	assert.Equal(t, "Only via API", out[1].Title)
}

func TestFetchPromotionsEmptyIsNotAnError(t *testing.T) {
	o := NewOrchestrator("test", "Test", "", map[string]Strategy{
		"html": &stubStrategy{name: "html", err: errors.New("down")},
	})

	out, err := o.FetchPromotions(context.Background())
	assert.NoError(t, err)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestFetchPromotionsPinnedRunsSingleStrategy(t *testing.T) {
	api := &stubStrategy{name: "api", records: []promo.PromotionRecord{
		{PromoID: "x_1", Title: "Pinned", DataSource: promo.SourceAPI},
	}}
	html := &stubStrategy{name: "html"}

	o := NewOrchestrator("okx", "OKX", "api", map[string]Strategy{
		"api":  api,
		"html": html,
	})

	out, err := o.FetchPromotions(context.Background())
	assert.NoError(t, err)
	assert.Len(t, out, 1)
	assert.Equal(t, 0, html.calls)
}

func TestCompositeConcatenatesAndTolerates(t *testing.T) {
	c := &Composite{StrategyName: "api", Strategies: []Strategy{
		&stubStrategy{name: "api", records: []promo.PromotionRecord{{PromoID: "a"}}},
		&stubStrategy{name: "api", err: errors.New("down")},
		&stubStrategy{name: "api", records: []promo.PromotionRecord{{PromoID: "b"}}},
	}}

	out, err := c.Fetch(context.Background())
	assert.NoError(t, err)
	assert.Len(t, out, 2)

	allDown := &Composite{StrategyName: "api", Strategies: []Strategy{
		&stubStrategy{name: "api", err: errors.New("down")},
	}}
	_, err = allDown.Fetch(context.Background())
	assert.Error(t, err)
}
