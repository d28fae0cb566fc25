package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/rental-search/app/models"
)

// SuggestionCacheService cache hai tầng cho bộ gợi ý đã xếp hạng:
// LRU in-memory (L1) + Redis (L2). TTL ngắn vì listing active đổi
// thường xuyên.
type SuggestionCacheService struct {
	l1     *lru.Cache[string, []models.Listing]
	client *redis.Client
	logger *zap.Logger
	prefix string
	ttl    time.Duration

	// đếm atomic vì Get/Set chạy đồng thời từ nhiều handler
	hits   atomic.Int64
	misses atomic.Int64
}

// NewSuggestionCacheService tạo cache với size L1 và TTL cho L2
func NewSuggestionCacheService(client *redis.Client, l1Size int, ttl time.Duration, logger *zap.Logger) (*SuggestionCacheService, error) {
	l1, err := lru.New[string, []models.Listing](l1Size)
	if err != nil {
		return nil, fmt.Errorf("không thể tạo LRU cache: %w", err)
	}

	return &SuggestionCacheService{
		l1:     l1,
		client: client,
		logger: logger,
		prefix: "rental_search:suggestions:",
		ttl:    ttl,
	}, nil
}

// Get lấy bộ gợi ý từ cache (L1 trước, L2 sau). Redis lỗi coi như miss.
func (sc *SuggestionCacheService) Get(ctx context.Context, key string) ([]models.Listing, bool) {
	if items, ok := sc.l1.Get(key); ok {
		sc.hits.Add(1)
		return items, true
	}

	val, err := sc.client.Get(ctx, sc.prefix+key).Result()
	if err != nil {
		if err != redis.Nil {
			sc.logger.Warn("Lỗi đọc suggestion cache từ Redis", zap.Error(err))
		}
		sc.misses.Add(1)
		return nil, false
	}

	var items []models.Listing
	if err := json.Unmarshal([]byte(val), &items); err != nil {
		sc.logger.Warn("Lỗi unmarshal suggestion cache", zap.Error(err))
		sc.misses.Add(1)
		return nil, false
	}

	// promote lên L1
	sc.l1.Add(key, items)
	sc.hits.Add(1)
	return items, true
}

// Set lưu bộ gợi ý vào cả hai tầng
func (sc *SuggestionCacheService) Set(ctx context.Context, key string, items []models.Listing) {
	sc.l1.Add(key, items)

	data, err := json.Marshal(items)
	if err != nil {
		sc.logger.Warn("Lỗi marshal suggestion cache", zap.Error(err))
		return
	}
	if err := sc.client.Set(ctx, sc.prefix+key, data, sc.ttl).Err(); err != nil {
		sc.logger.Warn("Lỗi ghi suggestion cache vào Redis", zap.Error(err))
	}
}

// Invalidate xóa toàn bộ suggestion cache (gọi sau khi reindex)
func (sc *SuggestionCacheService) Invalidate(ctx context.Context) error {
	sc.l1.Purge()

	iter := sc.client.Scan(ctx, 0, sc.prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := sc.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

// Stats thống kê hit/miss của cache
func (sc *SuggestionCacheService) Stats() (hits, misses int64, l1Len int) {
	return sc.hits.Load(), sc.misses.Load(), sc.l1.Len()
}
