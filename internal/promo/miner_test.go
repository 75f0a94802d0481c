package promo

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func mustJSON(t *testing.T, s string) interface{} {
	t.Helper()
	var v interface{}
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		t.Fatalf("bad test JSON: %v", err)
	}
	return v
}

func TestFindCandidateObjectsKeywordThreshold(t *testing.T) {
	// One keyword is not enough
	data := mustJSON(t, `{"items":[{"title":"Something","color":"red"}]}`)
	assert.Empty(t, FindCandidateObjects(data))

	// Two keywords qualify
	data = mustJSON(t, `{"items":[{"title":"Something","reward":"100 USDT"}]}`)
	candidates := FindCandidateObjects(data)
	assert.Len(t, candidates, 1)
	assert.Equal(t, "Something", candidates[0]["title"])
}

func TestFindCandidateObjectsKeywordsAreSubstrings(t *testing.T) {
	// campaignName matches both "campaign" and "name"
	data := mustJSON(t, `{"campaignName":"Launch","x":1}`)
	assert.Len(t, FindCandidateObjects(data), 1)
}

func TestFindCandidateObjectsNestedWrappers(t *testing.T) {
	// A wrapper matching the keyword threshold is returned alongside
	// the promotion it embeds
	data := mustJSON(t, `{
		"campaign": "Spring",
		"currency": "USDT",
		"detail": {"title": "Inner", "reward": "500 USDT"}
	}`)
	candidates := FindCandidateObjects(data)
	assert.Len(t, candidates, 2)
}

func TestFindCandidateObjectsDepthBound(t *testing.T) {
	shallow := mustJSON(t, `{"a":{"b":{"title":"X","reward":"Y"}}}`)
	assert.Len(t, FindCandidateObjects(shallow), 1)

	deep := mustJSON(t, `{"a":{"b":{"c":{"d":{"e":{"f":{"title":"X","reward":"Y"}}}}}}}`)
	assert.Empty(t, FindCandidateObjects(deep))
}

func TestFindCandidateObjectsWalksArrays(t *testing.T) {
	data := mustJSON(t, `[[{"name":"A","token":"BTC"}],[{"name":"B","token":"ETH"}]]`)
	candidates := FindCandidateObjects(data)
	assert.Len(t, candidates, 2)
}
