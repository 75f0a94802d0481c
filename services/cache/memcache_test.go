package cache

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var _ CacheService = (*MemcacheService)(nil)

// Requires a running memcached; set MEMCACHE_ADDR to enable.
func TestMemcacheRoundTrip(t *testing.T) {
	addr := os.Getenv("MEMCACHE_ADDR")
	if addr == "" {
		t.Skip("MEMCACHE_ADDR not set")
	}

	svc := NewMemcacheService(addr)

	key := "promoworker_test_" + time.Now().Format("150405.000")
	assert.NoError(t, svc.Set(key, []byte("value"), time.Minute))

	got, err := svc.Get(key)
	assert.NoError(t, err)
	assert.Equal(t, []byte("value"), got)

	assert.NoError(t, svc.Delete(key))
	_, err = svc.Get(key)
	assert.Error(t, err)
}
