package responses

import "github.com/rental-search/app/models"

// SearchResult kết quả trả cho caller. Error là message đã localize,
// render thẳng được — không bao giờ là exception thô.
type SearchResult struct {
	Items       []models.Listing `json:"items"`
	Suggestions []models.Listing `json:"suggestions,omitempty"`
	Error       string           `json:"error,omitempty"`
	Query       string           `json:"query"`
}

// ErrorResponse response lỗi chuẩn của API
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// ReindexResponse kết quả reindex listings
type ReindexResponse struct {
	Indexed          int    `json:"indexed"`
	ProcessingTimeMs int64  `json:"processing_time_ms"`
	Message          string `json:"message"`
}

// SelectCityResponse xác nhận slot thành phố đã lưu
type SelectCityResponse struct {
	City    string `json:"city"`
	Message string `json:"message"`
}

// HealthCheckResponse trạng thái sức khỏe service
type HealthCheckResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Uptime    string            `json:"uptime"`
	Version   string            `json:"version"`
	Services  map[string]string `json:"services"`
}

// StatsResponse thống kê runtime của service
type StatsResponse struct {
	CacheHits   int64 `json:"cache_hits"`
	CacheMisses int64 `json:"cache_misses"`
	CacheL1Len  int   `json:"cache_l1_len"`
	UptimeSecs  int64 `json:"uptime_secs"`
}
