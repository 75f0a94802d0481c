package staking

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func decode(t *testing.T, s string) interface{} {
	t.Helper()
	var v interface{}
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		t.Fatalf("bad test JSON: %v", err)
	}
	return v
}

type staticOracle struct {
	prices map[string]float64
}

func (o staticOracle) GetTokenPriceUSD(symbol string) *float64 {
	if p, ok := o.prices[symbol]; ok {
		return &p
	}
	return nil
}

func TestDecodeBybitFixedProduct(t *testing.T) {
	data := decode(t, `{
		"ret_code": 0,
		"result": {
			"coin_products": [
				{
					"coin": 5,
					"saving_products": [
						{
							"product_id": "p1",
							"apy": "600%",
							"staking_term": "3",
							"product_tag_info": {"display_tag_key": "USDT_abc"},
							"product_max_share": "1000000",
							"total_deposit_share": "500000",
							"display_status": 1
						}
					]
				}
			]
		}
	}`)

	records := DecodeBybit(data, nil)
	assert.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "Bybit", rec.Exchange)
	assert.Equal(t, "p1", rec.ProductID)
	// The USDT tag overrides the coin id
	assert.Equal(t, "USDT", rec.Coin)
	assert.Equal(t, 600.0, rec.APR)
	assert.Equal(t, "Fixed 3d", rec.Type)
	assert.Equal(t, 3, rec.TermDays)
	assert.Equal(t, "Active", rec.Status)
	assert.NotNil(t, rec.FillPercentage)
	assert.Equal(t, 50.0, *rec.FillPercentage)
	assert.Equal(t, 1000000.0, *rec.MaxCapacity)
	assert.Equal(t, 500000.0, *rec.CurrentDeposit)
}

func TestDecodeBybitAPIError(t *testing.T) {
	data := decode(t, `{"ret_code": 10001, "ret_msg": "rate limited"}`)
	assert.Nil(t, DecodeBybit(data, nil))
}

func TestResolveBybitCoinAnomaly(t *testing.T) {
	// Id 5 with a triple-digit APR is a mislabeled USDT promotion
	product := map[string]interface{}{"return_coin": float64(5)}
	assert.Equal(t, 3, resolveBybitCoinID(product, 5, "", 600))

	// At normal rates the same id keeps its own coin
	assert.Equal(t, 5, resolveBybitCoinID(product, 5, "", 10))
}

func TestResolveBybitCoinReturnCoinFallback(t *testing.T) {
	// return_coin 0 resolves through the coin-product id
	product := map[string]interface{}{"return_coin": float64(0)}
	assert.Equal(t, 3, resolveBybitCoinID(product, 5, "", 10))
	assert.Equal(t, 463, resolveBybitCoinID(product, 463, "", 10))

	product = map[string]interface{}{"return_coin": float64(0), "coin": float64(2)}
	assert.Equal(t, 2, resolveBybitCoinID(product, 2, "", 10))
}

func TestBybitCoinName(t *testing.T) {
	assert.Equal(t, "BTC", BybitCoinName(1))
	assert.Equal(t, "USDT", BybitCoinName(3))
	assert.Equal(t, "COIN_77777", BybitCoinName(77777))
}

func TestDecodeBybitUnknownCoinID(t *testing.T) {
	data := decode(t, `{
		"ret_code": 0,
		"result": {
			"coin_products": [
				{"coin": 99999, "saving_products": [{"product_id": "p2", "apy": "1.5", "display_status": 2}]}
			]
		}
	}`)

	records := DecodeBybit(data, nil)
	assert.Len(t, records, 1)
	assert.Equal(t, "COIN_99999", records[0].Coin)
	assert.Equal(t, "Sold Out", records[0].Status)
	assert.Equal(t, "Flexible", records[0].Type)
}

func TestDecodeBybitTagClassification(t *testing.T) {
	data := decode(t, `{
		"ret_code": 0,
		"result": {
			"coin_products": [
				{
					"coin": 1,
					"saving_products": [
						{
							"product_id": "vip1",
							"apy": "8",
							"product_tag_info": {"display_tag_key": "VIP_exclusive"},
							"display_status": 1
						},
						{
							"product_id": "cis1",
							"apy": "9",
							"product_tag_info": {"display_tag_key": "CIS_offer", "display_on_country_code": "RU,KZ"},
							"display_status": 1
						}
					]
				}
			]
		}
	}`)

	records := DecodeBybit(data, nil)
	assert.Len(t, records, 2)

	vip := records[0]
	assert.True(t, vip.IsVIP)
	assert.Equal(t, "VIP", vip.Category)
	assert.Equal(t, "VIP Product", vip.CategoryText)

	cis := records[1]
	assert.False(t, cis.IsVIP)
	assert.Equal(t, "CIS", cis.RegionalTag)
	assert.Equal(t, "RU,KZ", cis.RegionalCountries)
	assert.Equal(t, "CIS Regional Offer", cis.CategoryText)
}

func TestBybitUnixTime(t *testing.T) {
	assert.Equal(t, "2023-11-14T22:13:20Z", bybitUnixTime("1700000000"))
	assert.Empty(t, bybitUnixTime("0"))
	assert.Empty(t, bybitUnixTime(nil))
}

func TestDecodeBybitOraclePrice(t *testing.T) {
	data := decode(t, `{
		"ret_code": 0,
		"result": {
			"coin_products": [
				{"coin": 1, "saving_products": [{"product_id": "p3", "apy": "2", "display_status": 1}]}
			]
		}
	}`)

	records := DecodeBybit(data, staticOracle{prices: map[string]float64{"BTC": 60000}})
	assert.Len(t, records, 1)
	assert.NotNil(t, records[0].TokenPriceUSD)
	assert.Equal(t, 60000.0, *records[0].TokenPriceUSD)
}
