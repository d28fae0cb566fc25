package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rental-search/app/requests"
	"github.com/rental-search/app/responses"
	"github.com/rental-search/app/services"
	"github.com/rental-search/internal/remote"
)

// AdminController các endpoint vận hành: reindex, invalidate cache, stats
type AdminController struct {
	meili     *remote.MeiliSearchClient
	listings  *remote.LegacyAPIClient
	cache     *services.SuggestionCacheService
	startTime time.Time
	logger    *zap.Logger
}

// NewAdminController tạo mới AdminController
func NewAdminController(meili *remote.MeiliSearchClient, listings *remote.LegacyAPIClient, cache *services.SuggestionCacheService, logger *zap.Logger) *AdminController {
	return &AdminController{
		meili:     meili,
		listings:  listings,
		cache:     cache,
		startTime: time.Now(),
		logger:    logger,
	}
}

// Reindex kéo toàn bộ bài đăng từ listing API và nạp lại vào search index
func (ac *AdminController) Reindex(c *gin.Context) {
	var req requests.ReindexRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// body rỗng cũng chấp nhận, dùng status mặc định
		req.Status = ""
	}
	if req.Status == "" {
		req.Status = "active"
	}

	start := time.Now()

	posts, err := ac.listings.ListActive(c.Request.Context(), req.Status)
	if err != nil {
		ac.logger.Error("Lỗi lấy danh sách bài đăng để reindex", zap.Error(err))
		c.JSON(http.StatusBadGateway, responses.ErrorResponse{
			Error:   "LISTING_API_ERROR",
			Message: "Không lấy được danh sách bài đăng: " + err.Error(),
		})
		return
	}

	if err := ac.meili.BuildIndex(); err != nil {
		ac.logger.Error("Lỗi cấu hình search index", zap.Error(err))
		c.JSON(http.StatusBadGateway, responses.ErrorResponse{
			Error:   "INDEX_CONFIG_ERROR",
			Message: "Không cấu hình được search index: " + err.Error(),
		})
		return
	}

	if err := ac.meili.SeedListings(posts); err != nil {
		ac.logger.Error("Lỗi nạp documents vào search index", zap.Error(err))
		c.JSON(http.StatusBadGateway, responses.ErrorResponse{
			Error:   "INDEX_SEED_ERROR",
			Message: "Không nạp được documents: " + err.Error(),
		})
		return
	}

	// index vừa đổi, bộ gợi ý đã cache không còn đáng tin
	if err := ac.cache.Invalidate(c.Request.Context()); err != nil {
		ac.logger.Warn("Lỗi invalidate cache gợi ý", zap.Error(err))
	}

	ac.logger.Info("Reindex hoàn tất",
		zap.Int("posts", len(posts)),
		zap.Duration("elapsed", time.Since(start)))

	c.JSON(http.StatusOK, responses.ReindexResponse{
		Indexed:          len(posts),
		ProcessingTimeMs: time.Since(start).Milliseconds(),
		Message:          "Reindex thành công",
	})
}

// InvalidateCache xóa toàn bộ cache gợi ý (L1 + L2)
func (ac *AdminController) InvalidateCache(c *gin.Context) {
	if err := ac.cache.Invalidate(c.Request.Context()); err != nil {
		ac.logger.Error("Lỗi invalidate cache", zap.Error(err))
		c.JSON(http.StatusInternalServerError, responses.ErrorResponse{
			Error:   "CACHE_ERROR",
			Message: "Không xóa được cache: " + err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Đã xóa cache gợi ý"})
}

// Stats thống kê runtime: cache hit/miss, uptime
func (ac *AdminController) Stats(c *gin.Context) {
	hits, misses, l1Len := ac.cache.Stats()
	c.JSON(http.StatusOK, responses.StatsResponse{
		CacheHits:   hits,
		CacheMisses: misses,
		CacheL1Len:  l1Len,
		UptimeSecs:  int64(time.Since(ac.startTime).Seconds()),
	})
}
