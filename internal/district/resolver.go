package district

import (
	_ "embed"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	lru "github.com/hashicorp/golang-lru/v2"
	"gopkg.in/yaml.v3"

	"github.com/rental-search/internal/geo"
)

// DefaultCityCode mã thành phố mặc định khi caller không chỉ định
const DefaultCityCode = "hcm"

//go:embed data/districts.yaml
var districtsYAML []byte

// Ward phường/xã hiện hành thuộc một quận cũ
type Ward struct {
	Name string `yaml:"name"`
	Code string `yaml:"code"`
}

// District quận/huyện cũ với danh sách phường hiện hành
type District struct {
	Key     string   `yaml:"key"`
	OldName string   `yaml:"old_name"`
	Aliases []string `yaml:"aliases"`
	Wards   []Ward   `yaml:"wards"`
}

// City một thành phố trong bảng mapping, giữ thứ tự district như file nguồn
type City struct {
	Code      string     `yaml:"code"`
	Name      string     `yaml:"name"`
	Districts []District `yaml:"districts"`
}

type mapping struct {
	Cities []City `yaml:"cities"`
}

var (
	loadOnce sync.Once
	cities   map[string]*City

	// cache kết quả resolve — bảng tĩnh nên entry không bao giờ stale
	resolveCache *lru.Cache[string, string]
)

func load() {
	loadOnce.Do(func() {
		var m mapping
		if err := yaml.Unmarshal(districtsYAML, &m); err != nil {
			// dữ liệu embed hỏng là lỗi build, không phải lỗi runtime
			panic("district: invalid embedded mapping: " + err.Error())
		}
		cities = make(map[string]*City, len(m.Cities))
		for i := range m.Cities {
			cities[m.Cities[i].Code] = &m.Cities[i]
		}
		resolveCache, _ = lru.New[string, string](512)
	})
}

// normalizeWard chuẩn hóa tên phường để so khớp: bỏ dấu, lowercase,
// strip tiền tố hành chính (Phường/Xã/Quận/Huyện/Thị xã/Thành phố/TP.)
func normalizeWard(name string) string {
	return geo.StripAdminPrefix(geo.Normalize(name))
}

// normalizeKey chuyển key dạng quan_go_vap về dạng so khớp được
func normalizeKey(key string) string {
	return geo.StripAdminPrefix(strings.ReplaceAll(key, "_", " "))
}

func wardMatches(candidate, input string) bool {
	if candidate == "" || input == "" {
		return false
	}
	return candidate == input ||
		strings.Contains(candidate, input) ||
		strings.Contains(input, candidate)
}

// ResolveDistrict tìm quận/huyện cũ chứa phường/xã đã cho. Trả về tên
// canonical ("old name") lowercase, hoặc "" khi không biết mã thành phố
// hay không match được phường nào — không bao giờ trả lỗi, để ranking
// rơi xuống tín hiệu ưu tiên thấp hơn.
func ResolveDistrict(wardName, cityCode string) string {
	load()

	if cityCode == "" {
		cityCode = DefaultCityCode
	}
	city, ok := cities[cityCode]
	if !ok {
		return ""
	}

	input := normalizeWard(wardName)
	if input == "" {
		return ""
	}

	cacheKey := cityCode + "|" + input
	if cached, ok := resolveCache.Get(cacheKey); ok {
		return cached
	}

	result := resolve(city, input)
	resolveCache.Add(cacheKey, result)
	return result
}

func resolve(city *City, input string) string {
	// pass 1: equals / contains / contained-by, theo thứ tự bảng
	for i := range city.Districts {
		d := &city.Districts[i]
		for _, w := range d.Wards {
			if wardMatches(normalizeWard(w.Name), input) {
				return strings.ToLower(d.OldName)
			}
		}
	}

	// pass 2: chịu lỗi chính tả nhẹ (edit distance ≤ 1) cho tên đủ dài
	if utf8.RuneCountInString(input) <= 3 {
		return ""
	}
	for i := range city.Districts {
		d := &city.Districts[i]
		for _, w := range d.Wards {
			if levenshtein.ComputeDistance(normalizeWard(w.Name), input) <= 1 {
				return strings.ToLower(d.OldName)
			}
		}
	}

	return ""
}

// SameDistrict kiểm tra hai phường có thuộc cùng một quận cũ không.
// Resolve fail ở bất kỳ bên nào là false.
func SameDistrict(wardA, wardB, cityCode string) bool {
	da := ResolveDistrict(wardA, cityCode)
	db := ResolveDistrict(wardB, cityCode)
	if da == "" || db == "" {
		return false
	}
	return geo.StripAdminPrefix(geo.Normalize(da)) == geo.StripAdminPrefix(geo.Normalize(db))
}

// WardsInDistrict tra ngược danh sách phường hiện hành của một quận cũ.
// Input match cả key nội bộ lẫn tên canonical (cùng cách normalize).
// Không tìm thấy trả về danh sách rỗng.
func WardsInDistrict(districtName, cityCode string) []string {
	load()

	if cityCode == "" {
		cityCode = DefaultCityCode
	}
	city, ok := cities[cityCode]
	if !ok {
		return nil
	}

	input := geo.StripAdminPrefix(geo.Normalize(districtName))
	if input == "" {
		return nil
	}

	for i := range city.Districts {
		d := &city.Districts[i]
		if normalizeKey(d.Key) == input ||
			geo.StripAdminPrefix(geo.Normalize(d.OldName)) == input {
			names := make([]string, 0, len(d.Wards))
			for _, w := range d.Wards {
				names = append(names, w.Name)
			}
			return names
		}
	}
	return nil
}

// KnownCityCodes trả về các mã thành phố có trong bảng mapping
func KnownCityCodes() []string {
	load()
	codes := make([]string, 0, len(cities))
	for code := range cities {
		codes = append(codes, code)
	}
	return codes
}
