package services

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// CityStateService giữ đúng một slot key-value cho mỗi user: thành phố
// được chọn tường minh lần cuối (location picker). Là một trong ba
// input resolve thành phố khi xếp hạng.
type CityStateService struct {
	client *redis.Client
	logger *zap.Logger
	prefix string
	ttl    time.Duration
}

// NewCityStateService tạo service trên Redis URL
func NewCityStateService(redisURL string, logger *zap.Logger) (*CityStateService, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("lỗi parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("không thể kết nối Redis: %w", err)
	}

	return &CityStateService{
		client: client,
		logger: logger,
		prefix: "rental_search:selected_city:",
		ttl:    30 * 24 * time.Hour,
	}, nil
}

// GetSelectedCity thành phố chọn lần cuối của user, "" khi chưa chọn
// hoặc Redis lỗi — thiếu tín hiệu này chỉ làm city resolution rơi
// xuống profile/account city, không phải lỗi.
func (cs *CityStateService) GetSelectedCity(ctx context.Context, userID string) string {
	if userID == "" {
		return ""
	}
	val, err := cs.client.Get(ctx, cs.prefix+userID).Result()
	if err != nil {
		if err != redis.Nil {
			cs.logger.Warn("Lỗi đọc selected city từ Redis", zap.Error(err))
		}
		return ""
	}
	return val
}

// SetSelectedCity ghi lại thành phố user vừa chọn
func (cs *CityStateService) SetSelectedCity(ctx context.Context, userID, city string) error {
	if userID == "" {
		return nil
	}
	if city == "" {
		return cs.client.Del(ctx, cs.prefix+userID).Err()
	}
	return cs.client.Set(ctx, cs.prefix+userID, city, cs.ttl).Err()
}

// Close đóng kết nối Redis
func (cs *CityStateService) Close() error {
	return cs.client.Close()
}

// Client expose client dùng chung cho các service khác trên cùng Redis
func (cs *CityStateService) Client() *redis.Client {
	return cs.client
}
