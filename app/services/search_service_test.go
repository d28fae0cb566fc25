package services

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rental-search/app/config"
	"github.com/rental-search/app/models"
	"github.com/rental-search/internal/ranking"
	"github.com/rental-search/internal/remote"
)

// --- fakes ---

type fakePrimary struct {
	page *remote.SearchPage
	err  error
}

func (f *fakePrimary) Search(ctx context.Context, query string) (*remote.SearchPage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.page, nil
}

type fakeFallback struct {
	page   *remote.SearchPage
	err    error
	params map[string]string
}

func (f *fakeFallback) FallbackSearch(ctx context.Context, params map[string]string) (*remote.SearchPage, error) {
	f.params = params
	if f.err != nil {
		return nil, f.err
	}
	return f.page, nil
}

type fakeListings struct {
	posts   []models.RawPost
	err     error
	details map[string]*models.RawPost
	failIDs map[string]bool
}

func (f *fakeListings) ListActive(ctx context.Context, status string) ([]models.RawPost, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.posts, nil
}

func (f *fakeListings) FetchDetails(ctx context.Context, ids []string) []remote.DetailResult {
	out := make([]remote.DetailResult, 0, len(ids))
	for _, id := range ids {
		if f.failIDs[id] {
			out = append(out, remote.DetailResult{ID: id, Err: &remote.APIError{StatusCode: 500}})
			continue
		}
		d, ok := f.details[id]
		if !ok {
			// không cấu hình riêng thì trả lại chính bài đăng
			for i := range f.posts {
				if f.posts[i].ID == id {
					d = &f.posts[i]
					break
				}
			}
		}
		out = append(out, remote.DetailResult{ID: id, Detail: d})
	}
	return out
}

type fakeProfiles struct {
	profile *models.PreferenceProfile
	err     error
}

func (f *fakeProfiles) GetProfile(ctx context.Context, userID string) (*models.PreferenceProfile, error) {
	return f.profile, f.err
}

type fakeCityState struct {
	city string
}

func (f *fakeCityState) GetSelectedCity(ctx context.Context, userID string) string {
	return f.city
}

type fakeCache struct {
	data map[string][]models.Listing
	hits int
}

func (f *fakeCache) Get(ctx context.Context, key string) ([]models.Listing, bool) {
	v, ok := f.data[key]
	if ok {
		f.hits++
	}
	return v, ok
}

func (f *fakeCache) Set(ctx context.Context, key string, items []models.Listing) {
	if f.data == nil {
		f.data = map[string][]models.Listing{}
	}
	f.data[key] = items
}

// --- helpers ---

func rawPost(id, city string, price int64) models.RawPost {
	return models.RawPost{
		ID:      id,
		Type:    models.RawTypeRent,
		Title:   "Phòng " + id,
		Price:   price,
		Address: models.Address{City: city},
	}
}

func newTestService(primary *fakePrimary, fallback *fakeFallback, listings *fakeListings, profiles *fakeProfiles, cityState *fakeCityState, cache *fakeCache) *SearchService {
	ranker := ranking.NewRanker(ranking.NewScorer(config.Default()))
	var cacheIface SuggestionCache
	if cache != nil {
		cacheIface = cache
	}
	return NewSearchService(primary, fallback, listings, profiles, cityState, cacheIface, ranker, nil, 24, zap.NewNop())
}

// --- tests ---

func TestSearch_PrimarySuccess(t *testing.T) {
	primary := &fakePrimary{page: &remote.SearchPage{Items: []models.RawPost{
		rawPost("p1", "Hồ Chí Minh", 3000000),
		rawPost("p2", "Hà Nội", 2000000),
	}}}
	svc := newTestService(primary, &fakeFallback{}, &fakeListings{}, &fakeProfiles{}, &fakeCityState{}, nil)

	res, err := svc.Search(context.Background(), SearchParams{Query: "phòng trọ", SelectedCity: "Hồ Chí Minh"})

	require.NoError(t, err)
	assert.Empty(t, res.Error)
	require.Len(t, res.Items, 2)
	// priority-filter: listing đúng thành phố lên trước, không loại ai
	assert.Equal(t, "p1", res.Items[0].ID)
}

func TestSearch_FallbackAfterPrimaryFailure(t *testing.T) {
	primary := &fakePrimary{err: fmt.Errorf("meili down")}
	fallback := &fakeFallback{page: &remote.SearchPage{Items: []models.RawPost{
		rawPost("f1", "Hồ Chí Minh", 3000000),
	}}}
	svc := newTestService(primary, fallback, &fakeListings{}, &fakeProfiles{}, &fakeCityState{}, nil)

	res, err := svc.Search(context.Background(), SearchParams{
		Query:   "phòng trọ quận 7",
		Filters: map[string]string{"type": "tim-o-ghep"},
	})

	require.NoError(t, err)
	assert.Empty(t, res.Error)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "f1", res.Items[0].ID)
	// query và filter phụ phải được chuyển cho fallback
	assert.Equal(t, "phòng trọ quận 7", fallback.params["q"])
	assert.Equal(t, "tim-o-ghep", fallback.params["type"])
}

// TestSearch_FallbackClientError cả hai tầng search fail, fallback trả
// 4xx → message nhắc nhập từ khóa, không surface lỗi thô
func TestSearch_FallbackClientError(t *testing.T) {
	primary := &fakePrimary{err: fmt.Errorf("meili down")}
	fallback := &fakeFallback{err: &remote.APIError{StatusCode: http.StatusBadRequest, Message: "q required"}}
	svc := newTestService(primary, fallback, &fakeListings{}, &fakeProfiles{}, &fakeCityState{}, nil)

	res, err := svc.Search(context.Background(), SearchParams{Query: "x"})

	require.NoError(t, err)
	assert.Empty(t, res.Items)
	assert.Equal(t, MsgEmptyQuery, res.Error)
}

func TestSearch_FallbackServerError(t *testing.T) {
	primary := &fakePrimary{err: fmt.Errorf("meili down")}
	fallback := &fakeFallback{err: &remote.APIError{StatusCode: http.StatusBadGateway, Message: "upstream chết"}}
	svc := newTestService(primary, fallback, &fakeListings{}, &fakeProfiles{}, &fakeCityState{}, nil)

	res, err := svc.Search(context.Background(), SearchParams{Query: "x"})

	require.NoError(t, err)
	assert.Empty(t, res.Items)
	assert.Equal(t, "upstream chết", res.Error)
}

func TestSearch_GenericErrorMessage(t *testing.T) {
	primary := &fakePrimary{err: fmt.Errorf("meili down")}
	fallback := &fakeFallback{err: fmt.Errorf("connection refused")}
	svc := newTestService(primary, fallback, &fakeListings{}, &fakeProfiles{}, &fakeCityState{}, nil)

	res, err := svc.Search(context.Background(), SearchParams{Query: "x"})

	require.NoError(t, err)
	assert.Equal(t, MsgSearchFailed, res.Error)
}

// TestSearch_Cancelled ctx hủy là trường hợp duy nhất Search trả error
func TestSearch_Cancelled(t *testing.T) {
	primary := &fakePrimary{page: &remote.SearchPage{}}
	svc := newTestService(primary, &fakeFallback{}, &fakeListings{}, &fakeProfiles{}, &fakeCityState{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Search(ctx, SearchParams{Query: "x"})
	require.Error(t, err)
}

// TestSearch_EmptyQueryReturnsSuggestions không có từ khóa thì bộ gợi ý
// chính là kết quả
func TestSearch_EmptyQueryReturnsSuggestions(t *testing.T) {
	listings := &fakeListings{posts: []models.RawPost{
		rawPost("s1", "Hồ Chí Minh", 3000000),
		rawPost("s2", "Hồ Chí Minh", 2000000),
	}}
	svc := newTestService(&fakePrimary{}, &fakeFallback{}, listings, &fakeProfiles{}, &fakeCityState{}, nil)

	res, err := svc.Search(context.Background(), SearchParams{Query: "  "})

	require.NoError(t, err)
	assert.Empty(t, res.Error)
	require.Len(t, res.Items, 2)
	// không có profile: giá rẻ lên trước
	assert.Equal(t, "s2", res.Items[0].ID)
	assert.Equal(t, "s1", res.Items[1].ID)
}

// TestSearch_SuggestionsAttachedWhenEmpty kết quả search rỗng và
// LoadSuggestions bật thì đính kèm gợi ý
func TestSearch_SuggestionsAttachedWhenEmpty(t *testing.T) {
	primary := &fakePrimary{page: &remote.SearchPage{}}
	listings := &fakeListings{posts: []models.RawPost{
		rawPost("s1", "Hồ Chí Minh", 3000000),
	}}
	svc := newTestService(primary, &fakeFallback{}, listings, &fakeProfiles{}, &fakeCityState{}, nil)

	res, err := svc.Search(context.Background(), SearchParams{Query: "không thấy gì", LoadSuggestions: true})

	require.NoError(t, err)
	assert.Empty(t, res.Items)
	require.Len(t, res.Suggestions, 1)
	assert.Equal(t, "s1", res.Suggestions[0].ID)
}

func TestSearch_SuggestionsNotAttachedWhenResultsExist(t *testing.T) {
	primary := &fakePrimary{page: &remote.SearchPage{Items: []models.RawPost{
		rawPost("p1", "Hồ Chí Minh", 3000000),
	}}}
	listings := &fakeListings{posts: []models.RawPost{
		rawPost("s1", "Hồ Chí Minh", 2000000),
	}}
	svc := newTestService(primary, &fakeFallback{}, listings, &fakeProfiles{}, &fakeCityState{}, nil)

	res, err := svc.Search(context.Background(), SearchParams{Query: "phòng", LoadSuggestions: true})

	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Empty(t, res.Suggestions)
}

func TestSuggestions_CapAndOrder(t *testing.T) {
	var posts []models.RawPost
	for i := 0; i < 30; i++ {
		posts = append(posts, rawPost(fmt.Sprintf("s%02d", i), "Hồ Chí Minh", int64(5000000-i*100000)))
	}
	listings := &fakeListings{posts: posts}
	svc := newTestService(&fakePrimary{}, &fakeFallback{}, listings, &fakeProfiles{}, &fakeCityState{}, nil)

	out, err := svc.Suggestions(context.Background(), SearchParams{})

	require.NoError(t, err)
	// cap ở 24 sau khi xếp hạng
	require.Len(t, out, 24)
	// không có profile: giá tăng dần, bài rẻ nhất đứng đầu
	assert.Equal(t, "s29", out[0].ID)
	for i := 1; i < len(out); i++ {
		assert.LessOrEqual(t, out[i-1].Price, out[i].Price)
	}
}

// TestSuggestions_HidesUnavailableRooms phòng đã cho thuê hoặc có hợp
// đồng active không được gợi ý
func TestSuggestions_HidesUnavailableRooms(t *testing.T) {
	rented := rawPost("rented", "Hồ Chí Minh", 2000000)
	rented.Room = &models.RawRoom{Status: "rented"}
	contracted := rawPost("contracted", "Hồ Chí Minh", 2500000)
	contracted.Room = &models.RawRoom{HasActiveContract: true}
	free := rawPost("free", "Hồ Chí Minh", 3000000)

	listings := &fakeListings{posts: []models.RawPost{rented, contracted, free}}
	svc := newTestService(&fakePrimary{}, &fakeFallback{}, listings, &fakeProfiles{}, &fakeCityState{}, nil)

	out, err := svc.Suggestions(context.Background(), SearchParams{})

	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "free", out[0].ID)
}

// TestSuggestions_PartialDetailFailure bài fetch chi tiết fail bị bỏ
// qua, các bài còn lại vẫn được gợi ý
func TestSuggestions_PartialDetailFailure(t *testing.T) {
	listings := &fakeListings{
		posts:   []models.RawPost{rawPost("ok", "Hồ Chí Minh", 3000000), rawPost("broken", "Hồ Chí Minh", 2000000)},
		failIDs: map[string]bool{"broken": true},
	}
	svc := newTestService(&fakePrimary{}, &fakeFallback{}, listings, &fakeProfiles{}, &fakeCityState{}, nil)

	out, err := svc.Suggestions(context.Background(), SearchParams{})

	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "ok", out[0].ID)
}

// TestSuggestions_ProfileRanking gợi ý được cá nhân hóa theo hồ sơ:
// đúng thành phố ưu tiên và trong ngân sách lên trước
func TestSuggestions_ProfileRanking(t *testing.T) {
	min, max := int64(2000000), int64(4000000)
	profiles := &fakeProfiles{profile: &models.PreferenceProfile{
		UserID:        "u1",
		PreferredCity: "Hồ Chí Minh",
		Budget:        &models.BudgetRange{Min: &min, Max: &max},
	}}
	listings := &fakeListings{posts: []models.RawPost{
		rawPost("hanoi-cheap", "Hà Nội", 1000000),
		rawPost("hcm-in-budget", "Hồ Chí Minh", 3000000),
	}}
	svc := newTestService(&fakePrimary{}, &fakeFallback{}, listings, profiles, &fakeCityState{}, nil)

	out, err := svc.Suggestions(context.Background(), SearchParams{UserID: "u1"})

	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "hcm-in-budget", out[0].ID)
}

func TestSuggestions_SelectedCityFromState(t *testing.T) {
	cityState := &fakeCityState{city: "Hà Nội"}
	listings := &fakeListings{posts: []models.RawPost{
		rawPost("hcm", "Hồ Chí Minh", 2000000),
		rawPost("hanoi", "Hà Nội", 3000000),
	}}
	svc := newTestService(&fakePrimary{}, &fakeFallback{}, listings, &fakeProfiles{}, cityState, nil)

	out, err := svc.Suggestions(context.Background(), SearchParams{UserID: "u1"})

	require.NoError(t, err)
	require.Len(t, out, 2)
	// slot thành phố đã lưu thắng: bài Hà Nội ưu tiên dù đắt hơn
	assert.Equal(t, "hanoi", out[0].ID)
}

func TestSuggestions_CacheRoundTrip(t *testing.T) {
	cache := &fakeCache{}
	listings := &fakeListings{posts: []models.RawPost{rawPost("s1", "Hồ Chí Minh", 3000000)}}
	svc := newTestService(&fakePrimary{}, &fakeFallback{}, listings, &fakeProfiles{}, &fakeCityState{}, cache)

	first, err := svc.Suggestions(context.Background(), SearchParams{UserID: "u1"})
	require.NoError(t, err)

	// lần hai phải đi qua cache
	listings.err = fmt.Errorf("listing API down")
	second, err := svc.Suggestions(context.Background(), SearchParams{UserID: "u1"})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, cache.hits)
}

// TestSearch_ProfileErrorDegrades lỗi đọc hồ sơ không làm fail search,
// chỉ mất cá nhân hóa
func TestSearch_ProfileErrorDegrades(t *testing.T) {
	primary := &fakePrimary{page: &remote.SearchPage{Items: []models.RawPost{
		rawPost("p1", "Hồ Chí Minh", 3000000),
	}}}
	profiles := &fakeProfiles{err: fmt.Errorf("mongo down")}
	svc := newTestService(primary, &fakeFallback{}, &fakeListings{}, profiles, &fakeCityState{}, nil)

	res, err := svc.Search(context.Background(), SearchParams{UserID: "u1", Query: "phòng"})

	require.NoError(t, err)
	assert.Empty(t, res.Error)
	require.Len(t, res.Items, 1)
}

func TestDefaultVisibility(t *testing.T) {
	available := rawPost("a", "Hồ Chí Minh", 1000000)
	rented := rawPost("b", "Hồ Chí Minh", 1000000)
	rented.Room = &models.RawRoom{Status: "rented"}

	details := map[string]*models.RawPost{
		"a": &available,
		"b": &rented,
	}
	out := DefaultVisibility([]models.RawPost{available, rented, rawPost("missing", "", 0)}, details)

	require.Len(t, out, 3)
	assert.True(t, out[0].ShouldShow)
	assert.False(t, out[1].ShouldShow)
	assert.False(t, out[2].ShouldShow)
}
