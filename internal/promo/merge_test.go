package promo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeFirstWriterWins(t *testing.T) {
	dst := PromotionRecord{
		PromoID:    "bybit_1",
		Title:      "API Title",
		DataSource: SourceAPI,
	}
	src := PromotionRecord{
		PromoID:     "bybit_1",
		Title:       "HTML Title",
		Description: "Scraped description",
		Icon:        "https://cdn/icon.png",
		DataSource:  SourceHTML,
	}

	Merge(&dst, &src)

	assert.Equal(t, "API Title", dst.Title)
	assert.Equal(t, "Scraped description", dst.Description)
	assert.Equal(t, "https://cdn/icon.png", dst.Icon)
	assert.Equal(t, SourceCombined, dst.DataSource)
}

func TestMergeKeepsFirstRawData(t *testing.T) {
	dst := PromotionRecord{
		PromoID:    "x",
		RawData:    map[string]interface{}{"origin": "api"},
		DataSource: SourceAPI,
	}
	src := PromotionRecord{
		PromoID:    "x",
		RawData:    map[string]interface{}{"origin": "html"},
		DataSource: SourceHTML,
	}

	Merge(&dst, &src)
	assert.Equal(t, "api", dst.RawData["origin"])

	// A record without its own source object inherits the duplicate's
	bare := PromotionRecord{PromoID: "y", DataSource: SourceAPI}
	Merge(&bare, &src)
	assert.Equal(t, "html", bare.RawData["origin"])
}

func TestMergeSameSourceStaysUncombined(t *testing.T) {
	dst := PromotionRecord{PromoID: "x", Title: "A", DataSource: SourceAPI}
	src := PromotionRecord{PromoID: "x", Description: "B", DataSource: SourceAPI}

	Merge(&dst, &src)

	assert.Equal(t, SourceAPI, dst.DataSource)
}

func TestCombineRecords(t *testing.T) {
	records := []PromotionRecord{
		{PromoID: "a", Title: "First", DataSource: SourceAPI},
		{PromoID: "b", Title: "Second", DataSource: SourceAPI},
		{PromoID: "a", Description: "Late detail", DataSource: SourceHTML},
		{PromoID: "", Title: "No identity"},
	}

	out := CombineRecords(records)

	assert.Len(t, out, 2)
	assert.Equal(t, "a", out[0].PromoID)
	assert.Equal(t, "b", out[1].PromoID)
	assert.Equal(t, "First", out[0].Title)
	assert.Equal(t, "Late detail", out[0].Description)
	assert.Equal(t, SourceCombined, out[0].DataSource)
	assert.Equal(t, SourceAPI, out[1].DataSource)
}
