package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rental-search/app/requests"
	"github.com/rental-search/app/responses"
	"github.com/rental-search/app/services"
	"github.com/rental-search/helpers/utils"
)

// SearchController controller xử lý các request tìm kiếm và gợi ý
type SearchController struct {
	searchService *services.SearchService
	cityState     *services.CityStateService
	startTime     time.Time
	logger        *zap.Logger
}

// NewSearchController tạo mới SearchController
func NewSearchController(searchService *services.SearchService, cityState *services.CityStateService, logger *zap.Logger) *SearchController {
	return &SearchController{
		searchService: searchService,
		cityState:     cityState,
		startTime:     time.Now(),
		logger:        logger,
	}
}

// Search tìm kiếm phòng trọ / ở ghép theo query và hồ sơ user
func (sc *SearchController) Search(c *gin.Context) {
	var req requests.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, responses.ErrorResponse{
			Error:   "INVALID_REQUEST",
			Message: "Request không hợp lệ: " + err.Error(),
		})
		return
	}

	requestID := utils.GenerateUUID()
	userID := c.GetHeader("X-User-ID")

	result, err := sc.searchService.Search(c.Request.Context(), services.SearchParams{
		UserID:           userID,
		Query:            req.Query,
		SelectedCity:     req.SelectedCity,
		AccountCity:      req.AccountCity,
		StrictCityFilter: req.StrictCityFilter,
		LoadSuggestions:  req.LoadSuggestions,
		Filters:          req.Filters,
	})
	if err != nil {
		// chỉ xảy ra khi client đã hủy request
		sc.logger.Warn("Search bị hủy",
			zap.String("request_id", requestID),
			zap.Error(err))
		c.JSON(http.StatusRequestTimeout, responses.ErrorResponse{
			Error:   "REQUEST_CANCELLED",
			Message: "Request đã bị hủy",
		})
		return
	}

	sc.logger.Info("Search hoàn tất",
		zap.String("request_id", requestID),
		zap.String("query", req.Query),
		zap.Int("items", len(result.Items)),
		zap.Int("suggestions", len(result.Suggestions)))

	c.JSON(http.StatusOK, result)
}

// Suggestions lấy bộ gợi ý đã xếp hạng cho user (không cần query)
func (sc *SearchController) Suggestions(c *gin.Context) {
	userID := c.GetHeader("X-User-ID")

	items, err := sc.searchService.Suggestions(c.Request.Context(), services.SearchParams{
		UserID:       userID,
		SelectedCity: c.Query("city"),
		AccountCity:  c.Query("account_city"),
	})
	if err != nil {
		sc.logger.Warn("Không lấy được gợi ý", zap.Error(err))
		c.JSON(http.StatusOK, responses.SearchResult{
			Items: nil,
			Error: services.MsgSearchFailed,
		})
		return
	}

	c.JSON(http.StatusOK, responses.SearchResult{Items: items})
}

// SelectCity lưu thành phố user vừa chọn để ưu tiên cho các lần sau
func (sc *SearchController) SelectCity(c *gin.Context) {
	var req requests.SelectCityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, responses.ErrorResponse{
			Error:   "INVALID_REQUEST",
			Message: "Request không hợp lệ: " + err.Error(),
		})
		return
	}

	userID := c.GetHeader("X-User-ID")
	if userID == "" {
		c.JSON(http.StatusBadRequest, responses.ErrorResponse{
			Error:   "MISSING_USER_ID",
			Message: "Thiếu header X-User-ID",
		})
		return
	}

	if err := sc.cityState.SetSelectedCity(c.Request.Context(), userID, req.City); err != nil {
		sc.logger.Error("Lỗi lưu thành phố đã chọn", zap.Error(err))
		c.JSON(http.StatusInternalServerError, responses.ErrorResponse{
			Error:   "CITY_SAVE_ERROR",
			Message: "Không lưu được thành phố đã chọn",
		})
		return
	}

	c.JSON(http.StatusOK, responses.SelectCityResponse{
		City:    req.City,
		Message: "Đã lưu thành phố",
	})
}

// HealthCheck kiểm tra sức khỏe service
func (sc *SearchController) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, responses.HealthCheckResponse{
		Status:    "healthy",
		Timestamp: time.Now().Format(time.RFC3339),
		Uptime:    time.Since(sc.startTime).String(),
		Version:   "1.0.0",
		Services: map[string]string{
			"search":     "healthy",
			"cache":      "healthy",
			"city_state": "healthy",
		},
	})
}
