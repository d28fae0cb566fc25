package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/meilisearch/meilisearch-go"
	"go.uber.org/zap"

	"github.com/rental-search/app/models"
)

// SearchPage một trang kết quả text search
type SearchPage struct {
	Items []models.RawPost `json:"items"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
	Total int64            `json:"total"`
}

// PrimarySearcher endpoint text-search chính (full-text, typo tolerant)
type PrimarySearcher interface {
	Search(ctx context.Context, query string) (*SearchPage, error)
}

// SearchConfig cấu hình cho Meilisearch
type SearchConfig struct {
	Host      string
	APIKey    string
	IndexName string
	Timeout   time.Duration
	Limit     int
}

// MeiliSearchClient primary searcher trên index listings của Meilisearch
type MeiliSearchClient struct {
	client    meilisearch.ServiceManager
	logger    *zap.Logger
	indexName string
	timeout   time.Duration
	limit     int
}

// NewMeiliSearchClient tạo client và kiểm tra kết nối
func NewMeiliSearchClient(cfg SearchConfig, logger *zap.Logger) (*MeiliSearchClient, error) {
	client := meilisearch.New(cfg.Host, meilisearch.WithAPIKey(cfg.APIKey))

	if _, err := client.Health(); err != nil {
		return nil, fmt.Errorf("không thể kết nối Meilisearch: %w", err)
	}

	limit := cfg.Limit
	if limit <= 0 {
		limit = 50
	}

	return &MeiliSearchClient{
		client:    client,
		logger:    logger,
		indexName: cfg.IndexName,
		timeout:   cfg.Timeout,
		limit:     limit,
	}, nil
}

// Search tìm listing theo query tự do. ctx đi thẳng vào HTTP request:
// hủy ctx là hủy luôn request đang bay, caller không fallback tiếp.
func (mc *MeiliSearchClient) Search(ctx context.Context, query string) (*SearchPage, error) {
	index := mc.client.Index(mc.indexName)
	result, err := index.SearchWithContext(ctx, query, &meilisearch.SearchRequest{
		Limit: int64(mc.limit),
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("lỗi tìm kiếm Meilisearch: %w", err)
	}

	items := make([]models.RawPost, 0, len(result.Hits))
	for _, hit := range result.Hits {
		raw, err := json.Marshal(hit)
		if err != nil {
			continue
		}
		var post models.RawPost
		if err := json.Unmarshal(raw, &post); err != nil {
			mc.logger.Warn("Bỏ qua hit không parse được", zap.Error(err))
			continue
		}
		items = append(items, post)
	}

	return &SearchPage{
		Items: items,
		Page:  1,
		Limit: mc.limit,
		Total: result.EstimatedTotalHits,
	}, nil
}

// BuildIndex cấu hình index listings: searchable/filterable attributes,
// synonyms cho viết tắt địa danh
func (mc *MeiliSearchClient) BuildIndex() error {
	index := mc.client.Index(mc.indexName)

	task, err := index.UpdateSettings(&meilisearch.Settings{
		SearchableAttributes: []string{"title", "description", "address.city", "address.district", "address.ward", "category"},
		FilterableAttributes: []string{"type", "category", "price", "address.city_code"},
		SortableAttributes:   []string{"price", "created_at"},
		RankingRules:         []string{"words", "typo", "proximity", "attribute", "sort", "exactness"},
		Synonyms: map[string][]string{
			"tp":     {"thanh pho"},
			"hcm":    {"ho chi minh", "sai gon"},
			"tphcm":  {"thanh pho ho chi minh"},
			"hn":     {"ha noi"},
			"q":      {"quan"},
			"p":      {"phuong"},
		},
	})
	if err != nil {
		return fmt.Errorf("lỗi cấu hình index: %w", err)
	}

	mc.logger.Info("Đã cấu hình index listings", zap.Int64("task_uid", task.TaskUID))
	return nil
}

// SeedListings nạp bài đăng vào index theo batch
func (mc *MeiliSearchClient) SeedListings(posts []models.RawPost) error {
	if len(posts) == 0 {
		return nil
	}

	index := mc.client.Index(mc.indexName)

	const batchSize = 1000
	for i := 0; i < len(posts); i += batchSize {
		end := i + batchSize
		if end > len(posts) {
			end = len(posts)
		}

		task, err := index.AddDocuments(posts[i:end], "_id")
		if err != nil {
			return fmt.Errorf("lỗi thêm documents batch %d-%d: %w", i, end, err)
		}
		mc.logger.Info("Đã thêm batch listings",
			zap.Int("from", i),
			zap.Int("to", end),
			zap.Int64("task_uid", task.TaskUID))
	}

	mc.logger.Info("Đã seed index listings", zap.Int("total", len(posts)))
	return nil
}
