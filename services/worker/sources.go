package worker

import (
	"context"

	"cexwatch/promoworker/internal/staking"
	"cexwatch/promoworker/internal/strategy"
)

// PromoSource adapts a strategy orchestrator to the worker source
// contract.
type PromoSource struct {
	Orchestrator *strategy.Orchestrator
	Provider     string
}

func (s *PromoSource) GetName() string     { return s.Orchestrator.GetName() }
func (s *PromoSource) GetProvider() string { return s.Provider }

func (s *PromoSource) FetchRecords(ctx context.Context) ([]interface{}, error) {
	records, err := s.Orchestrator.FetchPromotions(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]interface{}, len(records))
	for i := range records {
		out[i] = records[i]
	}
	return out, nil
}

// EarnSource adapts a staking source to the worker source contract.
type EarnSource struct {
	Source   *staking.Source
	Provider string
}

func (s *EarnSource) GetName() string     { return s.Source.GetName() }
func (s *EarnSource) GetProvider() string { return s.Provider }

func (s *EarnSource) FetchRecords(ctx context.Context) ([]interface{}, error) {
	records, err := s.Source.FetchStakings(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]interface{}, len(records))
	for i := range records {
		out[i] = records[i]
	}
	return out, nil
}

// EarnFillsSource publishes only the records that carry pool fill
// data, on a separate stream for capacity watchers.
type EarnFillsSource struct {
	Source   *staking.Source
	Provider string
}

func (s *EarnFillsSource) GetName() string     { return s.Source.GetName() + "Fills" }
func (s *EarnFillsSource) GetProvider() string { return s.Provider }

func (s *EarnFillsSource) FetchRecords(ctx context.Context) ([]interface{}, error) {
	records, err := s.Source.GetPoolFills(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]interface{}, len(records))
	for i := range records {
		out[i] = records[i]
	}
	return out, nil
}
