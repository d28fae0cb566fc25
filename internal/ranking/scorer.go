package ranking

import (
	"math"
	"strings"

	"github.com/rental-search/app/config"
	"github.com/rental-search/app/models"
	"github.com/rental-search/internal/district"
	"github.com/rental-search/internal/geo"
)

// Scorer chấm điểm relevance của listing theo hồ sơ sở thích.
// Trọng số giảm dần mã hóa thứ tự ưu tiên: thành phố (1000) > đúng
// phường (500) > cùng quận (200) > loại phòng (100) > ngân sách
// (50/30/10) > tiện ích (tối đa 20).
type Scorer struct {
	w               config.ScoringWeights
	budgetOverRatio float64
}

// NewScorer tạo Scorer với trọng số từ config
func NewScorer(cfg config.RankingCfg) *Scorer {
	return &Scorer{w: cfg.Weights, budgetOverRatio: cfg.BudgetOverRatio}
}

// Score điểm preference của một listing. Không có profile trả về 0 —
// khi đó thứ tự theo giá sẽ quyết định ở tầng rank.
func (s *Scorer) Score(l models.Listing, p *models.PreferenceProfile) int {
	if p == nil {
		return 0
	}

	total := 0.0

	if p.PreferredCity != "" && geo.IsSameCity(l.Address.City, p.PreferredCity) {
		total += float64(s.w.City)
	}

	total += float64(s.scoreWard(l, p))

	if s.roomTypeMatches(l.Category, p.RoomTypes) {
		total += float64(s.w.RoomType)
	}

	total += float64(s.scoreBudget(l.Price, p.Budget))
	total += s.scoreAmenities(l.Amenities, p.Amenities)

	return int(math.Round(total))
}

// scoreWard tầng phường/quận: 500 khi trùng phường ưu tiên, 200 khi
// cùng quận (qua phường ưu tiên hoặc quận khai trực tiếp trong hồ sơ)
func (s *Scorer) scoreWard(l models.Listing, p *models.PreferenceProfile) int {
	if l.Address.Ward == "" {
		return 0
	}

	listingWard := geo.StripAdminPrefix(geo.Normalize(l.Address.Ward))
	if listingWard == "" {
		return 0
	}

	for _, pw := range p.PreferredWards {
		w := geo.StripAdminPrefix(geo.Normalize(pw))
		if w == "" {
			continue
		}
		if w == listingWard || strings.Contains(w, listingWard) || strings.Contains(listingWard, w) {
			return s.w.WardExact
		}
	}

	// mã thành phố cho bảng quận suy từ city của listing (mơ hồ → HCM)
	cityCode := geo.CityDistrictCode(l.Address.City)
	for _, pw := range p.PreferredWards {
		if district.SameDistrict(l.Address.Ward, pw, cityCode) {
			return s.w.WardDistrict
		}
	}

	// quận khai trực tiếp: phường của listing resolve về quận đó
	if len(p.PreferredDistricts) > 0 {
		resolved := district.ResolveDistrict(l.Address.Ward, cityCode)
		if resolved != "" {
			rn := geo.StripAdminPrefix(geo.Normalize(resolved))
			for _, pd := range p.PreferredDistricts {
				if rn == geo.StripAdminPrefix(geo.Normalize(pd)) {
					return s.w.WardDistrict
				}
			}
		}
	}

	return 0
}

func (s *Scorer) roomTypeMatches(category string, preferred []string) bool {
	if category == "" || len(preferred) == 0 {
		return false
	}
	c := normalizeRoomType(category)
	for _, p := range preferred {
		if normalizeRoomType(p) == c {
			return true
		}
	}
	return false
}

// normalizeRoomType quy cả hai phía về dạng snake_case lowercase
func normalizeRoomType(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "-", "_")
	return strings.ReplaceAll(s, " ", "_")
}

// scoreBudget 50 trong khoảng, 30 dưới min (rẻ hơn vẫn chấp nhận),
// 10 vượt max dưới 20% (đúng mốc 20% là 0). Khoảng khai báo một phía
// coi phía thiếu là không chặn.
func (s *Scorer) scoreBudget(price int64, b *models.BudgetRange) int {
	if !b.Declared() {
		return 0
	}

	min := int64(0)
	if b.Min != nil {
		min = *b.Min
	}
	hasMax := b.Max != nil

	switch {
	case price < min:
		return s.w.BudgetUnder
	case !hasMax || price <= *b.Max:
		return s.w.BudgetInRange
	case float64(price) < float64(*b.Max)*(1+s.budgetOverRatio):
		return s.w.BudgetNear
	}
	return 0
}

// scoreAmenities điểm tỷ lệ: amenityMax * matched / preferred
func (s *Scorer) scoreAmenities(have, preferred []string) float64 {
	if len(preferred) == 0 || len(have) == 0 {
		return 0
	}

	haveSet := make(map[string]struct{}, len(have))
	for _, a := range have {
		haveSet[geo.Normalize(a)] = struct{}{}
	}

	matched := 0
	for _, a := range preferred {
		if _, ok := haveSet[geo.Normalize(a)]; ok {
			matched++
		}
	}

	return float64(s.w.AmenityMax) * float64(matched) / float64(len(preferred))
}
