package staking

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"cexwatch/promoworker/internal/fetch"
)

func TestSourceFetchStakings(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Write([]byte(`{"data":[{"product_id":"k1","currency":"KCS","total_apr":"12.5","duration":0,"status":"ONGOING"}]}`))
	}))
	defer server.Close()

	fetcher := fetch.NewHTTPFetcher("kucoin", "KuCoin", nil)
	src := NewSource("kucoin", "KuCoin", server.URL, nil, fetcher, nil, nil, nil, DecodeKucoin)

	assert.Equal(t, "KuCoinEarn", src.GetName())

	records, err := src.FetchStakings(context.Background())
	assert.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, "KCS", records[0].Coin)
}

func TestSourcePostsPayload(t *testing.T) {
	var gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf, _ := io.ReadAll(r.Body)
		gotBody = string(buf)
		w.Write([]byte(`{"ret_code":0,"result":{"coin_products":[]}}`))
	}))
	defer server.Close()

	fetcher := fetch.NewHTTPFetcher("bybit", "Bybit", nil)
	src := NewSource("bybit", "Bybit", server.URL, []byte(BybitEarnPayload), fetcher, nil, nil, nil, DecodeBybit)

	_, err := src.FetchStakings(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, BybitEarnPayload, gotBody)
}

func TestSourceBlockedWithoutBrowserFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	fetcher := fetch.NewHTTPFetcher("gate", "Gate.io", nil)
	src := NewSource("gate", "Gate.io", server.URL, nil, fetcher, nil, nil, nil, DecodeGate)

	_, err := src.FetchStakings(context.Background())
	assert.Error(t, err)
}

func TestSourceRejectsNonJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>maintenance</html>"))
	}))
	defer server.Close()

	fetcher := fetch.NewHTTPFetcher("mexc", "MEXC", nil)
	src := NewSource("mexc", "MEXC", server.URL, nil, fetcher, nil, nil, nil, DecodeMexc)

	_, err := src.FetchStakings(context.Background())
	assert.Error(t, err)
}

func TestSourceGetPoolFills(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"data": [
				{"id": "g1", "asset": "GT", "apr": "3", "days": 0, "status": "1", "total_amount": "1000", "deposit_amount": "250"},
				{"id": "g2", "asset": "BTC", "apr": "1", "days": 0, "status": "1"}
			]
		}`))
	}))
	defer server.Close()

	fetcher := fetch.NewHTTPFetcher("gate", "Gate.io", nil)
	src := NewSource("gate", "Gate.io", server.URL, nil, fetcher, nil, nil, nil, DecodeGate)

	fills, err := src.GetPoolFills(context.Background())
	assert.NoError(t, err)
	assert.Len(t, fills, 1)
	assert.Equal(t, "g1", fills[0].ProductID)
	assert.Equal(t, 25.0, *fills[0].FillPercentage)
}

func TestSourceSharesOneFetchPerCycle(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Write([]byte(`{
			"data": [
				{"id": "g1", "asset": "GT", "apr": "3", "days": 0, "status": "1", "total_amount": "1000", "deposit_amount": "250"}
			]
		}`))
	}))
	defer server.Close()

	fetcher := fetch.NewHTTPFetcher("gate", "Gate.io", nil)
	src := NewSource("gate", "Gate.io", server.URL, nil, fetcher, nil, nil, nil, DecodeGate)

	records, err := src.FetchStakings(context.Background())
	assert.NoError(t, err)
	assert.Len(t, records, 1)

	// The fill view of the same cycle reuses the fetched batch
	fills, err := src.GetPoolFills(context.Background())
	assert.NoError(t, err)
	assert.Len(t, fills, 1)
	assert.Equal(t, "g1", fills[0].ProductID)

	assert.Equal(t, 1, requests)
}
