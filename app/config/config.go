package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ScoringWeights trọng số điểm ưu tiên cho từng tầng match.
// Thứ tự ưu tiên cố định: city > ward > district > room type > budget > amenity.
type ScoringWeights struct {
	City          int `yaml:"city" json:"city"`
	WardExact     int `yaml:"ward_exact" json:"ward_exact"`
	WardDistrict  int `yaml:"ward_district" json:"ward_district"`
	RoomType      int `yaml:"room_type" json:"room_type"`
	BudgetInRange int `yaml:"budget_in_range" json:"budget_in_range"`
	BudgetUnder   int `yaml:"budget_under" json:"budget_under"`
	BudgetNear    int `yaml:"budget_near" json:"budget_near"`
	AmenityMax    int `yaml:"amenity_max" json:"amenity_max"`
	CityBonus     int `yaml:"city_bonus" json:"city_bonus"` // cộng thêm ở chế độ priority-filter
}

// SuggestionCfg cấu hình phần gợi ý fallback
type SuggestionCfg struct {
	Limit    int           `yaml:"limit" json:"limit"`
	CacheTTL time.Duration `yaml:"cache_ttl" json:"cache_ttl"`
	L1Size   int           `yaml:"l1_size" json:"l1_size"`
}

// RankingCfg cấu hình engine xếp hạng
type RankingCfg struct {
	Weights         ScoringWeights `yaml:"weights" json:"weights"`
	BudgetOverRatio float64        `yaml:"budget_over_ratio" json:"budget_over_ratio"` // vượt max tối đa bao nhiêu vẫn được điểm near
	Suggestion      SuggestionCfg  `yaml:"suggestion" json:"suggestion"`
}

var C = Default()

// Default trọng số mặc định của preference model
func Default() RankingCfg {
	return RankingCfg{
		Weights: ScoringWeights{
			City:          1000,
			WardExact:     500,
			WardDistrict:  200,
			RoomType:      100,
			BudgetInRange: 50,
			BudgetUnder:   30,
			BudgetNear:    10,
			AmenityMax:    20,
			CityBonus:     100,
		},
		BudgetOverRatio: 0.2,
		Suggestion: SuggestionCfg{
			Limit:    24,
			CacheTTL: 10 * time.Minute,
			L1Size:   1024,
		},
	}
}

// Load đọc cấu hình từ file YAML, đè lên defaults
func Load(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	cfg := Default()
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return err
	}
	C = cfg
	return nil
}

func RequestTimeout() time.Duration { return 5 * time.Second }
