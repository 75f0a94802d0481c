package promo

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExchangeNameFromURL(t *testing.T) {
	cases := map[string]string{
		"https://www.bybit.com/en/trade-event": "Bybit",
		"https://api.gate.io/promo":            "Gate.io",
		"https://web3.okx.com/boost/x-launch":  "OKX",
		"https://www.mexc.com/token-airdrop":   "MEXC",
		"https://www.bitget.com/events":        "Bitget",
		"not a url":                            "Unknown",
		"":                                     "Unknown",
	}
	for input, expected := range cases {
		assert.Equal(t, expected, ExchangeNameFromURL(input), input)
	}
}

func TestExtractPromoIDNativeKey(t *testing.T) {
	n := &Normalizer{Exchange: "Bybit"}
	obj := map[string]interface{}{"id": float64(123), "name": "Splash"}
	assert.Equal(t, "bybit_123", n.ExtractPromoID(obj))
}

func TestExtractPromoIDNativeKeyCaseInsensitive(t *testing.T) {
	n := &Normalizer{Exchange: "Bybit"}
	obj := map[string]interface{}{"ID": float64(7), "name": "Splash"}
	assert.Equal(t, "bybit_7", n.ExtractPromoID(obj))
}

func TestExtractPromoIDNativeKeyPriority(t *testing.T) {
	n := &Normalizer{Exchange: "Bybit"}
	obj := map[string]interface{}{"campaignId": "c9", "code": "x1"}
	assert.Equal(t, "bybit_c9", n.ExtractPromoID(obj))
}

func TestExtractPromoIDStableAcrossVolatileFields(t *testing.T) {
	n := &Normalizer{Exchange: "Gate.io"}
	first := map[string]interface{}{
		"name":         "Spring Airdrop",
		"token":        "GT",
		"startTime":    float64(1700000000),
		"participants": float64(100),
	}
	second := map[string]interface{}{
		"name":         "Spring Airdrop",
		"token":        "GT",
		"startTime":    float64(1700000000),
		"participants": float64(250),
	}

	id1 := n.ExtractPromoID(first)
	id2 := n.ExtractPromoID(second)
	assert.NotEmpty(t, id1)
	assert.Equal(t, id1, id2)
	assert.True(t, strings.HasPrefix(id1, "gate.io_"))
}

func TestExtractPromoIDFallbackHash(t *testing.T) {
	n := &Normalizer{Exchange: "OKX"}
	obj := map[string]interface{}{"description": "Trade and win"}
	id := n.ExtractPromoID(obj)
	assert.True(t, strings.HasPrefix(id, "okx_fallback_"))
}

func TestExtractPromoIDNoSignal(t *testing.T) {
	n := &Normalizer{Exchange: "OKX"}
	obj := map[string]interface{}{"foo": "bar", "baz": float64(1)}
	assert.Empty(t, n.ExtractPromoID(obj))
}

func TestNormalizeDropsUnidentifiable(t *testing.T) {
	n := &Normalizer{Exchange: "OKX"}
	assert.Nil(t, n.Normalize(map[string]interface{}{"foo": "bar"}, SourceAPI))
}

func TestNormalizeMexcRequiresActivityCurrency(t *testing.T) {
	n := &Normalizer{Exchange: "MEXC"}

	// Sub-promotion without a currency is skipped
	obj := map[string]interface{}{"id": "7", "name": "Inner task"}
	assert.Nil(t, n.Normalize(obj, SourceAPI))

	obj["activityCurrency"] = "XYZ"
	rec := n.Normalize(obj, SourceAPI)
	assert.NotNil(t, rec)
	assert.Equal(t, "XYZ", rec.AwardToken)
}

func TestNormalizeSynthesizesTitleFromToken(t *testing.T) {
	n := &Normalizer{Exchange: "Bybit"}
	obj := map[string]interface{}{"id": float64(1), "token": "TKN"}
	rec := n.Normalize(obj, SourceAPI)
	assert.NotNil(t, rec)
	assert.Equal(t, "TKN Bybit Promotion", rec.Title)
}

func TestNormalizeEpochTimes(t *testing.T) {
	n := &Normalizer{Exchange: "Bybit"}
	obj := map[string]interface{}{
		"id":        "t1",
		"name":      "Timed",
		"startTime": float64(1700000000),
		"endTime":   float64(1700000000000),
	}
	rec := n.Normalize(obj, SourceAPI)
	assert.NotNil(t, rec)
	// Seconds and milliseconds map to the same instant
	assert.Equal(t, "2023-11-14T22:13:20Z", rec.StartTime)
	assert.Equal(t, "2023-11-14T22:13:20Z", rec.EndTime)
}

func TestNormalizeTimePassesStringsThrough(t *testing.T) {
	assert.Equal(t, "2024-01-01T00:00:00Z", normalizeTime("2024-01-01T00:00:00Z"))
	assert.Empty(t, normalizeTime(nil))
}

func TestNormalizeBybitSplashWinners(t *testing.T) {
	n := &Normalizer{Exchange: "Bybit"}
	obj := map[string]interface{}{
		"id":         "splash1",
		"name":       "Token Splash",
		"prizeToken": "USDT",
		"prizes": []interface{}{
			map[string]interface{}{"count": float64(100), "unitPrize": float64(5)},
			map[string]interface{}{"count": float64(10), "unitPrize": float64(50)},
		},
	}
	rec := n.Normalize(obj, SourceAPI)
	assert.NotNil(t, rec)
	assert.Equal(t, "110", rec.WinnersCount)
	assert.Equal(t, "5 USDT", rec.RewardPerWinner)
}

func TestNormalizeRetainsSourceObject(t *testing.T) {
	n := &Normalizer{Exchange: "Bybit"}
	obj := map[string]interface{}{
		"id":       "123",
		"name":     "Token Splash",
		"internal": "kept for audit",
	}
	rec := n.Normalize(obj, SourceAPI)
	assert.NotNil(t, rec)
	assert.Equal(t, obj, rec.RawData)
}

func TestGetValueCaseInsensitive(t *testing.T) {
	obj := map[string]interface{}{"Title": "Hello", "EMPTY": ""}
	assert.Equal(t, "Hello", getValue(obj, []string{"title"}))
	assert.Nil(t, getValue(obj, []string{"empty"}))
}

func TestContentHashLength(t *testing.T) {
	h := ContentHash("abc")
	assert.Len(t, h, 12)
	assert.Equal(t, h, ContentHash("abc"))
	assert.NotEqual(t, h, ContentHash("abd"))
}
