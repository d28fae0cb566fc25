package models

// RankingOptions tham số city-resolution cho một lần xếp hạng.
// Giá trị sống trong một call duy nhất, không share giữa các request.
type RankingOptions struct {
	AccountCity      string `json:"account_city,omitempty"`  // thành phố trong địa chỉ tài khoản
	ProfileCity      string `json:"profile_city,omitempty"`  // thành phố khai trong hồ sơ sở thích
	SelectedCity     string `json:"selected_city,omitempty"` // thành phố chọn tường minh (location picker)
	StrictCityFilter bool   `json:"strict_city_filter"`      // true: loại bỏ hẳn, false: chỉ cộng điểm ưu tiên
}

// TargetCity resolve thành phố mục tiêu theo thứ tự ưu tiên
// selected > profile > account. Rỗng nghĩa là không filter.
func (o RankingOptions) TargetCity() string {
	if o.SelectedCity != "" {
		return o.SelectedCity
	}
	if o.ProfileCity != "" {
		return o.ProfileCity
	}
	return o.AccountCity
}
