package staking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeGateCombinesFixedAndFlexible(t *testing.T) {
	data := decode(t, `{
		"data": [
			{"id": "g1", "asset": "GT", "apr": "5", "days": 30, "status": "1"},
			{"id": "g2", "asset": "GT", "apr": "3", "days": 0, "status": "1", "total_amount": "1000", "deposit_amount": "250"},
			{"id": "g3", "asset": "BTC", "apr": "1", "days": 0, "status": "1"}
		]
	}`)

	records := DecodeGate(data, nil)
	assert.Len(t, records, 2)

	merged := records[0]
	assert.Equal(t, "Gate.io", merged.Exchange)
	assert.Equal(t, "GT", merged.Coin)
	assert.Equal(t, "Fixed/Flexible", merged.Type)
	// Headline APR is the better of the two sides
	assert.Equal(t, 5.0, merged.APR)
	assert.Equal(t, 5.0, *merged.FixedAPR)
	assert.Equal(t, 3.0, *merged.FlexibleAPR)
	assert.Equal(t, 30, merged.FixedTermDays)
	assert.Equal(t, 30, merged.TermDays)
	// The fixed offer carries the product identity
	assert.Equal(t, "g1", merged.ProductID)
	// Fill data comes from the flexible side
	assert.Equal(t, 1000.0, *merged.MaxCapacity)
	assert.Equal(t, 25.0, *merged.FillPercentage)

	assert.Equal(t, "BTC", records[1].Coin)
	assert.Equal(t, "Flexible", records[1].Type)
}

func TestDecodeGateDoesNotCombineInactive(t *testing.T) {
	data := decode(t, `{
		"data": [
			{"id": "e1", "asset": "ETH", "apr": "6", "days": 60, "status": "sold_out"},
			{"id": "e2", "asset": "ETH", "apr": "2", "days": 0, "status": "in_process"}
		]
	}`)

	records := DecodeGate(data, nil)
	assert.Len(t, records, 2)
	assert.Equal(t, "Fixed 60d", records[0].Type)
	assert.Equal(t, "Sold Out", records[0].Status)
	assert.Equal(t, "Flexible", records[1].Type)
	assert.Equal(t, "Active", records[1].Status)
}

func TestGateStatusMapping(t *testing.T) {
	cases := map[string]string{
		"1":          "Active",
		"in_process": "Active",
		"open":       "Active",
		"2":          "Sold Out",
		"full":       "Sold Out",
		"pending":    "Coming Soon",
		"weird":      "Unknown",
	}
	for raw, expected := range cases {
		product := map[string]interface{}{"status": raw}
		assert.Equal(t, expected, gateStatus(product), raw)
	}
}

func TestDecodeGateSkipsCoinlessRows(t *testing.T) {
	data := decode(t, `{"data": [{"apr": "5", "days": 10}]}`)
	assert.Empty(t, DecodeGate(data, nil))
}
