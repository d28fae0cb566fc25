package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/rental-search/app/config"
	"github.com/rental-search/app/controllers"
	"github.com/rental-search/app/services"
	"github.com/rental-search/internal/ranking"
	"github.com/rental-search/internal/remote"
	"github.com/rental-search/routes"
)

func main() {
	// 1. Load configuration
	loadConfig()

	// 2. Khởi tạo logger
	logger := initLogger()
	defer logger.Sync()

	logger.Info("Starting Rental Search Service")

	// 3. Kết nối MongoDB (hồ sơ sở thích user)
	mongoDB := initMongoDB(logger)
	defer func() {
		if err := mongoDB.Client().Disconnect(context.Background()); err != nil {
			logger.Error("Error disconnecting MongoDB", zap.Error(err))
		}
	}()

	// 4. Khởi tạo Meilisearch (primary search)
	searchConfig := remote.SearchConfig{
		Host:      viper.GetString("meilisearch.url"),
		APIKey:    viper.GetString("meilisearch.master_key"),
		IndexName: "listings",
		Timeout:   30 * time.Second,
		Limit:     viper.GetInt("meilisearch.limit"),
	}

	meiliClient, err := remote.NewMeiliSearchClient(searchConfig, logger)
	if err != nil {
		logger.Fatal("Failed to initialize Meilisearch", zap.Error(err))
	}

	// 5. Listing API cũ (fallback search + nguồn bài đăng cho gợi ý)
	legacyClient := remote.NewLegacyAPIClient(
		getEnv("LISTING_API_URL", "http://localhost:3000"),
		config.RequestTimeout(),
		logger,
	)

	// 6. Khởi tạo Redis: slot thành phố đã chọn + cache gợi ý L2
	redisURL := getEnv("REDIS_URL", "redis://localhost:6379")
	cityStateService, err := services.NewCityStateService(redisURL, logger)
	if err != nil {
		logger.Fatal("Failed to initialize Redis", zap.Error(err))
	}
	defer cityStateService.Close()

	l1Size := getEnvInt("L1_CACHE_SIZE", config.C.Suggestion.L1Size)
	suggestionCache, err := services.NewSuggestionCacheService(
		cityStateService.Client(),
		l1Size,
		config.C.Suggestion.CacheTTL,
		logger,
	)
	if err != nil {
		logger.Fatal("Failed to initialize suggestion cache", zap.Error(err))
	}

	// 7. Khởi tạo services
	profileService := services.NewProfileService(mongoDB, logger)
	ranker := ranking.NewRanker(ranking.NewScorer(config.C))
	searchService := services.NewSearchService(
		meiliClient,
		legacyClient,
		legacyClient,
		profileService,
		cityStateService,
		suggestionCache,
		ranker,
		nil,
		config.C.Suggestion.Limit,
		logger,
	)

	// 8. Khởi tạo controllers
	searchController := controllers.NewSearchController(searchService, cityStateService, logger)
	adminController := controllers.NewAdminController(meiliClient, legacyClient, suggestionCache, logger)

	// 9. Khởi tạo Gin router
	router := gin.New()

	// 10. Thiết lập routes
	routes.SetupAllRoutes(router, searchController, adminController)

	// 11. Cấu hình search index nếu cần
	if err := meiliClient.BuildIndex(); err != nil {
		logger.Warn("Failed to configure search index", zap.Error(err))
	}

	// 12. Khởi động server
	port := getEnv("APP_PORT", "8080")
	logger.Info("Rental Search Service starting", zap.String("port", port))

	if err := router.Run(":" + port); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}

// loadConfig load configuration từ file và env vars
func loadConfig() {
	viper.SetConfigName("app")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")

	// Set defaults
	viper.SetDefault("app.port", "8080")
	viper.SetDefault("app.env", "development")
	viper.SetDefault("meilisearch.url", "http://meili:7700")
	viper.SetDefault("meilisearch.master_key", "")
	viper.SetDefault("meilisearch.limit", 50)
	viper.SetDefault("mongo.url", "mongodb://localhost:27017/rental_search")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: Cannot read config file: %v", err)
	}

	// weights và tham số ranking nằm ở file riêng, optional
	if path := getEnv("RANKING_CONFIG", ""); path != "" {
		if err := config.Load(path); err != nil {
			log.Printf("Warning: Cannot read ranking config: %v", err)
		}
	}
}

// initLogger khởi tạo structured logger
func initLogger() *zap.Logger {
	env := getEnv("APP_ENV", "development")

	var config zap.Config
	if env == "production" {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
	}

	logger, err := config.Build()
	if err != nil {
		log.Fatal("Cannot initialize logger:", err)
	}

	return logger
}

// initMongoDB khởi tạo kết nối MongoDB
func initMongoDB(logger *zap.Logger) *mongo.Database {
	mongoURL := getEnv("MONGO_URL", "mongodb://localhost:27017/rental_search")

	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI(mongoURL))
	if err != nil {
		logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.Ping(ctx, nil); err != nil {
		logger.Fatal("Failed to ping MongoDB", zap.Error(err))
	}

	dbName := "rental_search"
	if name := getEnv("MONGO_DB", ""); name != "" {
		dbName = name
	}

	db := client.Database(dbName)
	logger.Info("Connected to MongoDB", zap.String("database", dbName))

	return db
}

// getEnv lấy environment variable với default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt lấy environment variable as int với default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
