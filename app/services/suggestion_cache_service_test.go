package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rental-search/app/models"
)

// newTestSuggestionCache Redis trỏ vào địa chỉ không nghe nên L2 luôn
// lỗi, coi như miss. Đủ để test hành vi L1 và bộ đếm.
func newTestSuggestionCache(t *testing.T) *SuggestionCacheService {
	t.Helper()
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
	})
	t.Cleanup(func() { client.Close() })

	sc, err := NewSuggestionCacheService(client, 8, time.Minute, zap.NewNop())
	require.NoError(t, err)
	return sc
}

func TestSuggestionCache_L1HitAndMiss(t *testing.T) {
	sc := newTestSuggestionCache(t)
	ctx := context.Background()

	items := []models.Listing{{ID: "p1", Price: 3000000}}
	sc.l1.Add("u1|Hồ Chí Minh", items)

	got, ok := sc.Get(ctx, "u1|Hồ Chí Minh")
	assert.True(t, ok)
	assert.Equal(t, items, got)

	_, ok = sc.Get(ctx, "u2|Hà Nội")
	assert.False(t, ok)

	hits, misses, l1Len := sc.Stats()
	assert.EqualValues(t, 1, hits)
	assert.EqualValues(t, 1, misses)
	assert.Equal(t, 1, l1Len)
}

// TestSuggestionCache_ConcurrentStats bộ đếm phải chịu được Get đồng
// thời từ nhiều handler, chạy với -race để bắt ghi đè
func TestSuggestionCache_ConcurrentStats(t *testing.T) {
	sc := newTestSuggestionCache(t)
	ctx := context.Background()

	sc.l1.Add("hot", []models.Listing{{ID: "p1"}})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				sc.Get(ctx, "hot")
			}
		}()
	}
	wg.Wait()

	hits, misses, _ := sc.Stats()
	assert.EqualValues(t, 16*50, hits)
	assert.EqualValues(t, 0, misses)
}
