package helpers

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRandomUserAgentFromPool(t *testing.T) {
	ua := RandomUserAgent()
	assert.Contains(t, userAgents, ua)
}

func TestDecodeToUTF8PassthroughUTF8(t *testing.T) {
	body := []byte(`{"title":"Token Splash"}`)

	reader, err := DecodeToUTF8(body, "application/json; charset=utf-8")
	assert.NoError(t, err)

	decoded, err := io.ReadAll(reader)
	assert.NoError(t, err)
	assert.Equal(t, body, decoded)
}

func TestDecodeToUTF8ConvertsLegacyCharset(t *testing.T) {
	// "café" with a Latin-1 encoded é
	body := []byte("caf\xe9")

	reader, err := DecodeToUTF8(body, "text/html; charset=iso-8859-1")
	assert.NoError(t, err)

	decoded, err := io.ReadAll(reader)
	assert.NoError(t, err)
	assert.Equal(t, "café", string(decoded))
}
