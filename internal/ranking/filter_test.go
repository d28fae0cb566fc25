package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rental-search/app/config"
	"github.com/rental-search/app/models"
)

func listingIn(id, city string) models.Listing {
	return models.Listing{
		ID:      id,
		Type:    models.ListingTypeRent,
		Address: models.Address{City: city},
	}
}

func TestFilterByCity_NoTarget(t *testing.T) {
	listings := []models.Listing{
		listingIn("1", "Hồ Chí Minh"),
		listingIn("2", "Hà Nội"),
	}

	out, info := FilterByCity(listings, models.RankingOptions{}, config.Default().Weights.CityBonus)

	assert.Equal(t, StrategyNone, info.Strategy)
	assert.Len(t, out, 2)
	for _, c := range out {
		assert.False(t, c.CityMatch)
		assert.Zero(t, c.CityBonus)
	}
}

func TestFilterByCity_Strict(t *testing.T) {
	listings := []models.Listing{
		listingIn("1", "Hồ Chí Minh"),
		listingIn("2", "Hà Nội"),
		listingIn("3", "TP. Hồ Chí Minh"),
		listingIn("4", "Đà Nẵng"),
	}

	out, info := FilterByCity(listings, models.RankingOptions{
		SelectedCity:     "Hồ Chí Minh",
		StrictCityFilter: true,
	}, config.Default().Weights.CityBonus)

	assert.Equal(t, StrategyStrict, info.Strategy)
	assert.Equal(t, "79", info.ProvinceCode)
	// strict là subset: chỉ còn listing khớp thành phố
	assert.Len(t, out, 2)
	for _, c := range out {
		assert.True(t, c.CityMatch)
		assert.Contains(t, []string{"1", "3"}, c.Listing.ID)
	}
}

func TestFilterByCity_Priority(t *testing.T) {
	listings := []models.Listing{
		listingIn("1", "Hồ Chí Minh"),
		listingIn("2", "Hà Nội"),
	}

	out, info := FilterByCity(listings, models.RankingOptions{
		SelectedCity: "Hồ Chí Minh",
	}, config.Default().Weights.CityBonus)

	assert.Equal(t, StrategyPriority, info.Strategy)
	// priority giữ nguyên tập input, chỉ annotate
	assert.Len(t, out, 2)
	assert.True(t, out[0].CityMatch)
	assert.Positive(t, out[0].CityBonus)
	assert.False(t, out[1].CityMatch)
	assert.Zero(t, out[1].CityBonus)
}

// TestFilterByCity_InjectedBonus điểm cộng thành phố lấy từ tham số
// truyền vào, không đọc config toàn cục
func TestFilterByCity_InjectedBonus(t *testing.T) {
	listings := []models.Listing{listingIn("1", "Hồ Chí Minh")}
	opts := models.RankingOptions{SelectedCity: "Hồ Chí Minh"}

	out, _ := FilterByCity(listings, opts, 777)

	assert.Len(t, out, 1)
	assert.True(t, out[0].CityMatch)
	assert.Equal(t, 777, out[0].CityBonus)
}

// TestFilterByCity_ProvinceCodeFallback listing không ghi tên thành phố
// chuẩn nhưng có mã tỉnh vẫn match
func TestFilterByCity_ProvinceCodeFallback(t *testing.T) {
	l := models.Listing{
		ID:      "1",
		Address: models.Address{City: "Thành phố khác tên", CityCode: "79"},
	}

	out, _ := FilterByCity([]models.Listing{l}, models.RankingOptions{
		SelectedCity:     "Hồ Chí Minh",
		StrictCityFilter: true,
	}, config.Default().Weights.CityBonus)

	assert.Len(t, out, 1)
	assert.True(t, out[0].CityMatch)
}

func TestTargetCityPrecedence(t *testing.T) {
	opts := models.RankingOptions{
		AccountCity:  "Đà Nẵng",
		ProfileCity:  "Hà Nội",
		SelectedCity: "Hồ Chí Minh",
	}
	assert.Equal(t, "Hồ Chí Minh", opts.TargetCity())

	opts.SelectedCity = ""
	assert.Equal(t, "Hà Nội", opts.TargetCity())

	opts.ProfileCity = ""
	assert.Equal(t, "Đà Nẵng", opts.TargetCity())

	opts.AccountCity = ""
	assert.Equal(t, "", opts.TargetCity())
}
