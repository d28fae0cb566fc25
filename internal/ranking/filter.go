package ranking

import (
	"github.com/rental-search/app/models"
	"github.com/rental-search/internal/geo"
)

// Strategy chiến lược filter theo thành phố đã áp dụng
type Strategy string

const (
	StrategyNone     Strategy = "no-filter"       // không có thành phố mục tiêu
	StrategyStrict   Strategy = "strict-filter"   // loại hẳn listing khác thành phố
	StrategyPriority Strategy = "priority-filter" // giữ tất cả, cộng điểm ưu tiên
)

// CityInfo kết quả resolve thành phố của một lần filter
type CityInfo struct {
	City         string   `json:"city,omitempty"`
	ProvinceCode string   `json:"province_code,omitempty"`
	Strategy     Strategy `json:"strategy"`
}

// Candidate listing kèm annotation city-match tạm thời trong một lần rank.
// Không bao giờ persist; bị strip trước khi trả kết quả ra ngoài.
type Candidate struct {
	Listing   models.Listing
	CityMatch bool
	CityBonus int
}

// cityMatches listing khớp thành phố mục tiêu khi tên match theo
// IsSameCity hoặc mã tỉnh trùng nhau
func cityMatches(l models.Listing, target, targetCode string) bool {
	if geo.IsSameCity(l.Address.City, target) {
		return true
	}
	if targetCode == "" {
		return false
	}
	code := l.Address.CityCode
	if code == "" {
		code = geo.CityToProvinceCode(l.Address.City)
	}
	return code == targetCode
}

// FilterByCity lọc hoặc annotate danh sách listing theo thành phố mục
// tiêu (selected > profile > account). Strict mode phục vụ intent "tìm
// đúng thành phố này"; priority mode phục vụ cá nhân hóa ngầm — hiện
// được một cái gì đó vẫn hơn không hiện gì. cityBonus đến từ cùng một
// bộ trọng số inject vào Scorer, không đọc config toàn cục.
func FilterByCity(listings []models.Listing, opts models.RankingOptions, cityBonus int) ([]Candidate, CityInfo) {
	target := opts.TargetCity()
	if target == "" {
		out := make([]Candidate, len(listings))
		for i, l := range listings {
			out[i] = Candidate{Listing: l}
		}
		return out, CityInfo{Strategy: StrategyNone}
	}

	info := CityInfo{
		City:         target,
		ProvinceCode: geo.CityToProvinceCode(target),
	}

	if opts.StrictCityFilter {
		info.Strategy = StrategyStrict
		out := make([]Candidate, 0, len(listings))
		for _, l := range listings {
			if cityMatches(l, target, info.ProvinceCode) {
				out = append(out, Candidate{Listing: l, CityMatch: true})
			}
		}
		return out, info
	}

	info.Strategy = StrategyPriority
	out := make([]Candidate, len(listings))
	for i, l := range listings {
		c := Candidate{Listing: l}
		if cityMatches(l, target, info.ProvinceCode) {
			c.CityMatch = true
			c.CityBonus = cityBonus
		}
		out[i] = c
	}
	return out, info
}
