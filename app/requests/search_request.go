package requests

// SearchRequest request tìm kiếm listing
type SearchRequest struct {
	Query            string            `json:"query"`                       // từ khóa tự do, rỗng = chỉ lấy gợi ý
	SelectedCity     string            `json:"selected_city,omitempty"`     // thành phố chọn từ location picker
	AccountCity      string            `json:"account_city,omitempty"`      // thành phố trong địa chỉ tài khoản
	StrictCityFilter bool              `json:"strict_city_filter"`          // true: loại hẳn listing khác thành phố
	LoadSuggestions  bool              `json:"load_suggestions,omitempty"`  // thay kết quả rỗng bằng gợi ý
	Filters          map[string]string `json:"filters,omitempty"`           // filter phụ cho fallback search (vd tìm ở ghép)
}

// SelectCityRequest request ghi lại thành phố user vừa chọn
type SelectCityRequest struct {
	City string `json:"city"`
}

// ReindexRequest request reindex listings vào search index
type ReindexRequest struct {
	Status string `json:"status,omitempty"` // mặc định "active"
}
