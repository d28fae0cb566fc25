package ranking

import (
	"sort"

	"github.com/rental-search/app/models"
)

// Ranker ghép city filter + preference scorer thành một thứ tự tổng
// duy nhất, deterministic.
type Ranker struct {
	scorer *Scorer
}

// NewRanker tạo Ranker dùng scorer đã cấu hình
func NewRanker(scorer *Scorer) *Ranker {
	return &Ranker{scorer: scorer}
}

// rankedListing listing kèm các trường chấm điểm tạm thời. Chỉ sống
// trong một lần Rank, không bao giờ lọt ra ngoài package.
type rankedListing struct {
	listing   models.Listing
	score     int
	price     int64 // snapshot để sort ổn định
	cityMatch bool
}

// Rank lọc theo thành phố rồi xếp theo final score. Tie-break tuần tự:
//  1. score giảm dần
//  2. city-match đứng trước
//  3. có budget range: khoảng cách tới trung điểm (min+max)/2 tăng dần
//  4. không có profile: giá tăng dần
//  5. còn lại giữ nguyên thứ tự vào (có profile nhưng không khai budget
//     thì giá cố tình KHÔNG tham gia — để không phá preference model)
//
// Các trường chấm điểm tạm thời bị strip khỏi kết quả trả về.
func (r *Ranker) Rank(listings []models.Listing, profile *models.PreferenceProfile, opts models.RankingOptions) ([]models.Listing, CityInfo) {
	candidates, info := FilterByCity(listings, opts, r.scorer.w.CityBonus)

	ranked := make([]rankedListing, len(candidates))
	for i, c := range candidates {
		ranked[i] = rankedListing{
			listing:   c.Listing,
			score:     r.scorer.Score(c.Listing, profile) + c.CityBonus,
			price:     c.Listing.Price,
			cityMatch: c.CityMatch,
		}
	}

	budgetDeclared := profile != nil && profile.Budget.Declared()
	var midpoint int64
	if budgetDeclared {
		midpoint = profile.Budget.Midpoint()
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.score != b.score {
			return a.score > b.score
		}
		if a.cityMatch != b.cityMatch {
			return a.cityMatch
		}
		if budgetDeclared {
			da, db := absDiff(a.price, midpoint), absDiff(b.price, midpoint)
			if da != db {
				return da < db
			}
			return false
		}
		if profile == nil {
			return a.price < b.price
		}
		return false
	})

	out := make([]models.Listing, len(ranked))
	for i, rl := range ranked {
		out[i] = rl.listing
	}
	return out, info
}

func absDiff(a, b int64) int64 {
	if a > b {
		return a - b
	}
	return b - a
}
