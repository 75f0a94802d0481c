package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type mockSource struct {
	name     string
	provider string
	records  []interface{}
	err      error
}

func (m *mockSource) GetName() string     { return m.name }
func (m *mockSource) GetProvider() string { return m.provider }

func (m *mockSource) FetchRecords(ctx context.Context) ([]interface{}, error) {
	return m.records, m.err
}

type mockPublisher struct {
	mu        sync.Mutex
	published map[string][][]byte
	trims     int
}

func newMockPublisher() *mockPublisher {
	return &mockPublisher{published: make(map[string][][]byte)}
}

func (m *mockPublisher) Publish(key string, message []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published[key] = append(m.published[key], message)
	return nil
}

func (m *mockPublisher) TrimStreams() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trims++
	return nil
}

func (m *mockPublisher) Close() error { return nil }

type mockLogger struct {
	mu     sync.Mutex
	errors []error
	infos  []string
}

func (m *mockLogger) LogError(sourceName string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors = append(m.errors, err)
}

func (m *mockLogger) LogInfo(format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.infos = append(m.infos, fmt.Sprintf(format, args...))
}

func TestRunSourcesPublishesEachRecord(t *testing.T) {
	pub := newMockPublisher()
	log := &mockLogger{}

	w := NewWorker(context.Background(), []Source{
		&mockSource{
			name:     "BybitPromos",
			provider: "promo:bybit",
			records: []interface{}{
				map[string]interface{}{"promo_id": "bybit_1", "title": "A"},
				map[string]interface{}{"promo_id": "bybit_2", "title": "B"},
			},
		},
		&mockSource{
			name:     "KuCoinEarn",
			provider: "staking:kucoin",
			records: []interface{}{
				map[string]interface{}{"product_id": "k1", "coin": "KCS"},
			},
		},
	}, pub, log, time.Minute)

	w.runSources()

	assert.Len(t, pub.published["promo:bybit"], 2)
	assert.Len(t, pub.published["staking:kucoin"], 1)
	assert.Equal(t, 1, pub.trims)
	assert.Empty(t, log.errors)

	var rec map[string]interface{}
	assert.NoError(t, json.Unmarshal(pub.published["promo:bybit"][0], &rec))
	assert.Equal(t, "bybit_1", rec["promo_id"])
}

func TestRunSourcesIsolatesFailures(t *testing.T) {
	pub := newMockPublisher()
	log := &mockLogger{}

	w := NewWorker(context.Background(), []Source{
		&mockSource{name: "Broken", provider: "promo:x", err: errors.New("exchange down")},
		&mockSource{
			name:     "Fine",
			provider: "promo:y",
			records:  []interface{}{map[string]interface{}{"promo_id": "y_1"}},
		},
	}, pub, log, time.Minute)

	w.runSources()

	assert.Len(t, log.errors, 1)
	assert.Len(t, pub.published["promo:y"], 1)
	assert.Empty(t, pub.published["promo:x"])
}

func TestStartStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	pub := newMockPublisher()

	w := NewWorker(ctx, nil, pub, &mockLogger{}, 10*time.Millisecond)

	done := make(chan error, 1)
	go func() { done <- w.Start() }()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after cancel")
	}
}

func TestLogFirstRecordMasksIcon(t *testing.T) {
	log := &mockLogger{}
	w := NewWorker(context.Background(), nil, newMockPublisher(), log, time.Minute)

	w.logFirstRecord("BybitPromos", []byte(`{"promo_id":"x","icon":"data:image/png;base64,AAAA","raw_data":{"icon":"data:image/png;base64,BBBB"}}`))

	assert.Len(t, log.infos, 1)
	assert.Contains(t, log.infos[0], `"icon":"OK"`)
	assert.Contains(t, log.infos[0], `"raw_data":"..."`)
	assert.NotContains(t, log.infos[0], "base64")
}
