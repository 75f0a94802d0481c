package urltpl

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLearnFromStoresValidatedTemplate(t *testing.T) {
	b := newTestBuilder(t)

	payloads := []map[string]interface{}{
		{"navName": "mylovelyplanet", "name": "My Lovely Planet"},
		{"navName": "second", "name": "Second Project"},
	}
	b.LearnFrom("okx", "okx_boost", "https://web3.okx.com/boost/x-launch/mylovelyplanet", payloads)

	assert.Len(t, b.TemplatesFor("okx"), 1)

	// A later payload without a link now builds one
	url := b.BuildURL("okx", map[string]interface{}{"navName": "second"})
	assert.Equal(t, "https://web3.okx.com/boost/x-launch/second", url)
}

func TestLearnFromSkipsKnownTypes(t *testing.T) {
	b := newTestBuilder(t)
	assert.NoError(t, b.AddTemplate("okx", "okx_boost", boostTemplate()))

	// Learning again must not replace the stored template
	b.LearnFrom("okx", "okx_boost", "https://elsewhere.example/other/path", []map[string]interface{}{
		{"navName": "path"},
	})

	templates := b.TemplatesFor("okx")
	assert.Equal(t, "https://web3.okx.com", templates["okx_boost"].BaseURL)
}

func TestLearnFromDiscardsBadExamples(t *testing.T) {
	b := NewBuilder(NewStore(filepath.Join(t.TempDir(), "t.json")))

	b.LearnFrom("okx", "default", "https://web3.okx.com/x/y", []map[string]interface{}{
		{"unrelated": "fields"},
	})
	assert.Empty(t, b.TemplatesFor("okx"))

	b.LearnFrom("okx", "default", "", nil)
	assert.Empty(t, b.TemplatesFor("okx"))
}
