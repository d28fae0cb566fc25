package services

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/rental-search/app/models"
	"github.com/rental-search/app/responses"
	"github.com/rental-search/internal/ranking"
	"github.com/rental-search/internal/remote"
)

// Message hiển thị cho user — đã localize, render thẳng
const (
	MsgEmptyQuery   = "Vui lòng nhập từ khóa để tìm kiếm"
	MsgSearchFailed = "Không thể tìm kiếm lúc này, vui lòng thử lại sau"
)

// FallbackSearcher search endpoint dự phòng khi primary fail
type FallbackSearcher interface {
	FallbackSearch(ctx context.Context, params map[string]string) (*remote.SearchPage, error)
}

// ListingAPI listing API cũ: danh sách bài active + chi tiết theo batch
type ListingAPI interface {
	ListActive(ctx context.Context, status string) ([]models.RawPost, error)
	FetchDetails(ctx context.Context, ids []string) []remote.DetailResult
}

// ProfileProvider nguồn hồ sơ sở thích (absence là đường đi bình thường)
type ProfileProvider interface {
	GetProfile(ctx context.Context, userID string) (*models.PreferenceProfile, error)
}

// CityStateProvider slot thành phố chọn lần cuối
type CityStateProvider interface {
	GetSelectedCity(ctx context.Context, userID string) string
}

// SuggestionCache cache bộ gợi ý đã xếp hạng
type SuggestionCache interface {
	Get(ctx context.Context, key string) ([]models.Listing, bool)
	Set(ctx context.Context, key string, items []models.Listing)
}

// VisibleListing quyết định hiển thị cho một bài đăng
type VisibleListing struct {
	Post       models.RawPost
	ShouldShow bool
}

// VisibilityFunc predicate hiển thị do bên ngoài cung cấp — có thể ẩn
// bài theo tình trạng phòng/hợp đồng. Pure function trên input của nó.
type VisibilityFunc func(posts []models.RawPost, details map[string]*models.RawPost) []VisibleListing

// DefaultVisibility ẩn bài mà phòng đã có hợp đồng active hoặc đã cho
// thuê; bài không fetch được chi tiết bị loại khỏi gợi ý
func DefaultVisibility(posts []models.RawPost, details map[string]*models.RawPost) []VisibleListing {
	out := make([]VisibleListing, 0, len(posts))
	for _, p := range posts {
		d, ok := details[p.ID]
		if !ok {
			out = append(out, VisibleListing{Post: p, ShouldShow: false})
			continue
		}
		show := true
		if r := d.Room; r != nil {
			if r.HasActiveContract || r.Status == "rented" {
				show = false
			}
		}
		out = append(out, VisibleListing{Post: *d, ShouldShow: show})
	}
	return out
}

// SearchParams tham số một lần tìm kiếm
type SearchParams struct {
	UserID           string
	Query            string
	SelectedCity     string
	AccountCity      string
	StrictCityFilter bool
	LoadSuggestions  bool
	Filters          map[string]string // filter phụ cho fallback (vd tìm ở ghép)
}

// SearchService orchestrator: primary search → fallback search → gợi ý
// tính local. Triết lý: luôn trả về một cái gì đó, chỉ khi cạn mọi
// fallback mới surface lỗi.
type SearchService struct {
	primary   remote.PrimarySearcher
	fallback  FallbackSearcher
	listings  ListingAPI
	profiles  ProfileProvider
	cityState CityStateProvider
	cache     SuggestionCache
	ranker    *ranking.Ranker
	visible   VisibilityFunc
	limit     int
	logger    *zap.Logger
}

// NewSearchService tạo orchestrator. visible = nil dùng DefaultVisibility.
func NewSearchService(
	primary remote.PrimarySearcher,
	fallback FallbackSearcher,
	listings ListingAPI,
	profiles ProfileProvider,
	cityState CityStateProvider,
	cache SuggestionCache,
	ranker *ranking.Ranker,
	visible VisibilityFunc,
	suggestionLimit int,
	logger *zap.Logger,
) *SearchService {
	if visible == nil {
		visible = DefaultVisibility
	}
	if suggestionLimit <= 0 {
		suggestionLimit = 24
	}
	return &SearchService{
		primary:   primary,
		fallback:  fallback,
		listings:  listings,
		profiles:  profiles,
		cityState: cityState,
		cache:     cache,
		ranker:    ranker,
		visible:   visible,
		limit:     suggestionLimit,
		logger:    logger,
	}
}

// Search chạy một lần tìm kiếm. Lỗi trả về chỉ khi ctx bị hủy — mọi
// failure khác được absorb vào SearchResult.Error dưới dạng message
// đã localize.
func (s *SearchService) Search(ctx context.Context, p SearchParams) (*responses.SearchResult, error) {
	res := &responses.SearchResult{Query: p.Query, Items: []models.Listing{}}
	query := strings.TrimSpace(p.Query)

	// không có query: gợi ý chính là kết quả
	if query == "" {
		suggestions, err := s.Suggestions(ctx, p)
		if err != nil {
			if ctxDone(ctx, err) {
				return nil, err
			}
			s.logger.Warn("Không tính được gợi ý", zap.Error(err))
			res.Error = MsgSearchFailed
			return res, nil
		}
		res.Items = suggestions
		return res, nil
	}

	// gợi ý tính song song với search để dùng ngay khi kết quả rỗng
	var sugCh chan []models.Listing
	if p.LoadSuggestions {
		sugCh = make(chan []models.Listing, 1)
		go func() {
			suggestions, err := s.Suggestions(ctx, p)
			if err != nil {
				suggestions = nil
			}
			sugCh <- suggestions
		}()
	}

	items, err := s.remoteSearch(ctx, query, p)
	if err != nil {
		if ctxDone(ctx, err) {
			return nil, err
		}
		if remote.IsClientError(err) {
			res.Error = MsgEmptyQuery
		} else if msg := remote.ExtractMessage(err); msg != "" && remote.StatusOf(err) != 0 {
			res.Error = msg
		} else {
			res.Error = MsgSearchFailed
		}
		return res, nil
	}

	profile := s.profileFor(ctx, p)
	ranked, _ := s.ranker.Rank(items, profile, s.rankingOptions(ctx, p, profile, p.StrictCityFilter))
	res.Items = ranked

	if len(ranked) == 0 && sugCh != nil {
		if suggestions := <-sugCh; len(suggestions) > 0 {
			res.Suggestions = suggestions
		}
	}

	return res, nil
}

// remoteSearch primary trước, fail thì fallback với query + filter phụ
func (s *SearchService) remoteSearch(ctx context.Context, query string, p SearchParams) ([]models.Listing, error) {
	page, err := s.primary.Search(ctx, query)
	if err == nil {
		return unifyAll(page.Items), nil
	}
	if ctxDone(ctx, err) {
		// đã hủy: không fallback, không gợi ý cho lần search này
		return nil, err
	}

	s.logger.Warn("Primary search fail, thử fallback", zap.Error(err))

	params := map[string]string{"q": query}
	for k, v := range p.Filters {
		params[k] = v
	}
	page, err = s.fallback.FallbackSearch(ctx, params)
	if err != nil {
		return nil, err
	}
	return unifyAll(page.Items), nil
}

// Suggestions bộ gợi ý fallback: toàn bộ bài active, lọc hiển thị,
// hợp nhất shape rồi xếp hạng theo hồ sơ với priority-filter, cap limit.
func (s *SearchService) Suggestions(ctx context.Context, p SearchParams) ([]models.Listing, error) {
	profile := s.profileFor(ctx, p)
	opts := s.rankingOptions(ctx, p, profile, false)

	cacheKey := p.UserID + "|" + opts.TargetCity()
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, cacheKey); ok {
			return cached, nil
		}
	}

	posts, err := s.listings.ListActive(ctx, "active")
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return []models.Listing{}, nil
	}

	ids := make([]string, len(posts))
	for i, post := range posts {
		ids[i] = post.ID
	}
	details := remote.DetailMap(s.listings.FetchDetails(ctx, ids))

	visible := s.visible(posts, details)
	unified := make([]models.Listing, 0, len(visible))
	for _, v := range visible {
		if v.ShouldShow {
			unified = append(unified, v.Post.Unify())
		}
	}

	ranked, _ := s.ranker.Rank(unified, profile, opts)
	if len(ranked) > s.limit {
		ranked = ranked[:s.limit]
	}

	if s.cache != nil {
		s.cache.Set(ctx, cacheKey, ranked)
	}
	return ranked, nil
}

// profileFor hồ sơ của user; lỗi fetch coi như không có hồ sơ
func (s *SearchService) profileFor(ctx context.Context, p SearchParams) *models.PreferenceProfile {
	if s.profiles == nil || p.UserID == "" {
		return nil
	}
	profile, err := s.profiles.GetProfile(ctx, p.UserID)
	if err != nil {
		return nil
	}
	return profile
}

// rankingOptions dựng context city-resolution: thành phố chọn tường
// minh (request hoặc slot đã lưu) > hồ sơ > địa chỉ tài khoản
func (s *SearchService) rankingOptions(ctx context.Context, p SearchParams, profile *models.PreferenceProfile, strict bool) models.RankingOptions {
	selected := p.SelectedCity
	if selected == "" && s.cityState != nil {
		selected = s.cityState.GetSelectedCity(ctx, p.UserID)
	}

	profileCity := ""
	if profile != nil {
		profileCity = profile.PreferredCity
	}

	return models.RankingOptions{
		SelectedCity:     selected,
		ProfileCity:      profileCity,
		AccountCity:      p.AccountCity,
		StrictCityFilter: strict,
	}
}

func unifyAll(posts []models.RawPost) []models.Listing {
	out := make([]models.Listing, len(posts))
	for i := range posts {
		out[i] = posts[i].Unify()
	}
	return out
}

func ctxDone(ctx context.Context, err error) bool {
	return ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
