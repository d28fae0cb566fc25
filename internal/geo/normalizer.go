package geo

import (
	"strings"
	"unicode"

	"github.com/mozillazg/go-unidecode"
	"github.com/xrash/smetrics"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Ngưỡng similarity: so thành phố chặt hơn so địa danh thường
// để tránh match nhầm giữa các tên gần giống nhau.
const (
	CitySimilarityThreshold  = 0.95
	PlaceSimilarityThreshold = 0.90
)

// cityPrefix tiền tố cấp thành phố, bỏ được khi so sánh
const cityPrefix = "thanh pho "

// expansions mở rộng viết tắt địa danh phổ biến, áp dụng theo thứ tự
// (n-gram dài trước). Vế phải không được chứa token viết tắt nào ở vế
// trái — Normalize phải idempotent.
var expansions = []struct{ from, to string }{
	{" tp hcm ", " thanh pho ho chi minh "},
	{" tphcm ", " thanh pho ho chi minh "},
	{" sai gon ", " ho chi minh "},
	{" hcmc ", " ho chi minh "},
	{" hcm ", " ho chi minh "},
	{" sg ", " ho chi minh "},
	{" hn ", " ha noi "},
	{" tp ", " thanh pho "},
	{" q ", " quan "},
	{" p ", " phuong "},
	{" h ", " huyen "},
	{" tx ", " thi xa "},
	{" tt ", " thi tran "},
	{" x ", " xa "},
}

// adminPrefixes tiền tố hành chính (đã normalize) bị strip khi
// so khớp phường/quận
var adminPrefixes = []string{
	"thanh pho ", "thi xa ", "thi tran ", "phuong ", "quan ", "huyen ", "xa ",
}

// provinceCodes bảng mã tỉnh/thành cho các biến thể tên đã biết
var provinceCodes = map[string]string{
	"ho chi minh":           "79",
	"thanh pho ho chi minh": "79",
	"ha noi":                "01",
	"thanh pho ha noi":      "01",
	"da nang":               "48",
	"thanh pho da nang":     "48",
	"hai phong":             "31",
	"thanh pho hai phong":   "31",
	"can tho":               "92",
	"thanh pho can tho":     "92",
	"hue":                   "46",
	"thanh pho hue":         "46",
	"binh duong":            "74",
	"dong nai":              "75",
}

// stripDiacritics loại bỏ dấu tiếng Việt (NFD rồi bỏ combining marks),
// các ký tự còn lại ngoài ASCII (đ, Đ...) fold qua unidecode
func stripDiacritics(s string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(func(r rune) bool {
		return unicode.Is(unicode.Mn, r)
	}), norm.NFC)
	out, _, _ := transform.String(t, s)
	return unidecode.Unidecode(out)
}

// Normalize chuẩn hóa tên địa danh: bỏ dấu, lowercase, bỏ ký tự không
// phải chữ/số, gọn khoảng trắng, mở rộng viết tắt đã biết.
// Input rỗng trả về "" — không bao giờ panic.
func Normalize(s string) string {
	if s == "" {
		return ""
	}

	out := strings.ToLower(stripDiacritics(s))

	// chỉ giữ chữ, số và khoảng trắng
	out = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return ' '
	}, out)

	out = strings.Join(strings.Fields(out), " ")
	if out == "" {
		return ""
	}

	// mở rộng viết tắt trên chuỗi có padding để match token trọn vẹn
	padded := " " + out + " "
	for _, e := range expansions {
		padded = strings.ReplaceAll(padded, e.from, e.to)
	}

	return strings.Join(strings.Fields(padded), " ")
}

// Similarity điểm tương đồng Jaro-Winkler [0,1]: bonus prefix chung
// tối đa 4 ký tự, trọng số 0.1 mỗi ký tự. Input rỗng trả về 0.
func Similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	return smetrics.JaroWinkler(a, b, 0.7, 4)
}

// StripCityPrefix bỏ tiền tố "thanh pho" đầu chuỗi đã normalize
func StripCityPrefix(s string) string {
	return strings.TrimPrefix(s, cityPrefix)
}

// StripAdminPrefix bỏ tiền tố hành chính (phường/xã/quận/huyện/thị xã/
// thành phố) đầu chuỗi đã normalize
func StripAdminPrefix(s string) string {
	for _, p := range adminPrefixes {
		if strings.HasPrefix(s, p) {
			return strings.TrimSpace(strings.TrimPrefix(s, p))
		}
	}
	return s
}

// IsSameCity so khớp hai tên thành phố: bằng nhau sau normalize, hoặc
// bằng nhau sau khi bỏ tiền tố "thanh pho" một bên, hoặc similarity
// vượt ngưỡng 0.95. Input rỗng luôn là false.
func IsSameCity(a, b string) bool {
	na, nb := Normalize(a), Normalize(b)
	if na == "" || nb == "" {
		return false
	}
	if na == nb {
		return true
	}
	if StripCityPrefix(na) == StripCityPrefix(nb) {
		return true
	}
	return Similarity(na, nb) >= CitySimilarityThreshold
}

// IsSamePlace so khớp địa danh thường (phường, quận...) với ngưỡng
// lỏng hơn IsSameCity
func IsSamePlace(a, b string) bool {
	na, nb := Normalize(a), Normalize(b)
	if na == "" || nb == "" {
		return false
	}
	if na == nb {
		return true
	}
	return Similarity(na, nb) >= PlaceSimilarityThreshold
}

// CityToProvinceCode tra mã tỉnh/thành từ tên thành phố. Trả về ""
// khi không nhận ra — caller coi là "không có mã", không phải lỗi.
func CityToProvinceCode(city string) string {
	n := Normalize(city)
	if n == "" {
		return ""
	}
	if code, ok := provinceCodes[n]; ok {
		return code
	}
	return provinceCodes[StripCityPrefix(n)]
}

// CityDistrictCode suy ra mã thành phố dùng cho bảng quận/phường từ
// tên thành phố tự do. Chỉ nhận diện Hà Nội/HCM; mơ hồ mặc định HCM.
func CityDistrictCode(city string) string {
	n := StripCityPrefix(Normalize(city))
	if n == "ha noi" {
		return "hanoi"
	}
	return "hcm"
}
