package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rental-search/app/models"
)

// detailFetchConcurrency số request chi tiết phòng chạy song song
const detailFetchConcurrency = 8

// LegacyAPIClient client cho listing API cũ: fallback search, danh sách
// bài active và chi tiết từng bài. Timeout/retry thuộc về http.Client,
// không thuộc subsystem này.
type LegacyAPIClient struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// NewLegacyAPIClient tạo client cho listing API cũ
func NewLegacyAPIClient(baseURL string, timeout time.Duration, logger *zap.Logger) *LegacyAPIClient {
	return &LegacyAPIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

func (lc *LegacyAPIClient) get(ctx context.Context, path string, params map[string]string, out any) error {
	u := lc.baseURL + path
	if len(params) > 0 {
		q := url.Values{}
		for k, v := range params {
			q.Set(k, v)
		}
		u += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}

	resp, err := lc.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Message: extractBodyMessage(body)}
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("lỗi parse response %s: %w", path, err)
		}
	}
	return nil
}

// extractBodyMessage lấy message từ body lỗi dạng {"message": "..."}
func extractBodyMessage(body []byte) string {
	var e struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &e); err == nil {
		if e.Message != "" {
			return e.Message
		}
		if e.Error != "" {
			return e.Error
		}
	}
	return ""
}

// FallbackSearch search endpoint dự phòng, nhận query kèm các filter
// phụ (vd filter riêng của tìm ở ghép) từ navigation context
func (lc *LegacyAPIClient) FallbackSearch(ctx context.Context, params map[string]string) (*SearchPage, error) {
	var payload struct {
		Items []models.RawPost `json:"items"`
		Page  int              `json:"page"`
		Limit int              `json:"limit"`
		Total int64            `json:"total"`
	}
	if err := lc.get(ctx, "/api/v2/posts/search", params, &payload); err != nil {
		return nil, err
	}
	return &SearchPage{
		Items: payload.Items,
		Page:  payload.Page,
		Limit: payload.Limit,
		Total: payload.Total,
	}, nil
}

// ListActive lấy toàn bộ bài đăng đang active. Endpoint cũ trả về
// lúc thì mảng trần, lúc thì bọc trong {"posts": [...]} — normalize
// cả hai shape tại đây.
func (lc *LegacyAPIClient) ListActive(ctx context.Context, status string) ([]models.RawPost, error) {
	var raw json.RawMessage
	if err := lc.get(ctx, "/api/v2/posts", map[string]string{"status": status}, &raw); err != nil {
		return nil, err
	}

	var posts []models.RawPost
	if err := json.Unmarshal(raw, &posts); err == nil {
		return posts, nil
	}

	var wrapped struct {
		Posts []models.RawPost `json:"posts"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("lỗi parse danh sách bài đăng: %w", err)
	}
	return wrapped.Posts, nil
}

// GetDetail lấy chi tiết một bài đăng (kèm sub-record phòng nếu có)
func (lc *LegacyAPIClient) GetDetail(ctx context.Context, id string) (*models.RawPost, error) {
	var post models.RawPost
	if err := lc.get(ctx, "/api/v2/posts/"+url.PathEscape(id), nil, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// DetailResult kết quả fetch chi tiết của một bài — lỗi lẻ nằm trong
// Err, không làm fail cả batch
type DetailResult struct {
	ID     string
	Detail *models.RawPost
	Err    error
}

// FetchDetails fetch chi tiết N bài song song với semantic settle-all:
// mọi request đều được chờ, lỗi lẻ chỉ ghi vào slot của nó.
func (lc *LegacyAPIClient) FetchDetails(ctx context.Context, ids []string) []DetailResult {
	results := make([]DetailResult, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(detailFetchConcurrency)

	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			detail, err := lc.GetDetail(gctx, id)
			results[i] = DetailResult{ID: id, Detail: detail, Err: err}
			if err != nil {
				lc.logger.Debug("Bỏ qua bài không fetch được chi tiết",
					zap.String("id", id), zap.Error(err))
			}
			return nil // lỗi lẻ không hủy batch
		})
	}

	_ = g.Wait()
	return results
}

// DetailMap gom các kết quả fetch thành công thành map theo ID
func DetailMap(results []DetailResult) map[string]*models.RawPost {
	m := make(map[string]*models.RawPost, len(results))
	for _, r := range results {
		if r.Err == nil && r.Detail != nil {
			m[r.ID] = r.Detail
		}
	}
	return m
}
