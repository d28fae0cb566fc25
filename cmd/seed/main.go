package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/rental-search/internal/remote"
)

// Seeder một lần: kéo bài đăng từ listing API cũ và nạp vào Meilisearch.
// Chạy khi dựng môi trường mới hoặc cần rebuild index từ đầu.
func main() {
	var (
		meiliURL   = flag.String("meili", getEnv("MEILI_URL", "http://localhost:7700"), "Meilisearch URL")
		meiliKey   = flag.String("key", getEnv("MEILI_MASTER_KEY", ""), "Meilisearch master key")
		listingURL = flag.String("listing", getEnv("LISTING_API_URL", "http://localhost:3000"), "Listing API URL")
		status     = flag.String("status", "active", "trạng thái bài đăng cần seed")
	)
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatal("Không khởi tạo được logger:", err)
	}
	defer logger.Sync()

	meili, err := remote.NewMeiliSearchClient(remote.SearchConfig{
		Host:      *meiliURL,
		APIKey:    *meiliKey,
		IndexName: "listings",
		Timeout:   30 * time.Second,
	}, logger)
	if err != nil {
		log.Fatal("Không thể kết nối Meilisearch:", err)
	}

	legacy := remote.NewLegacyAPIClient(*listingURL, 30*time.Second, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	fmt.Println("Đang lấy danh sách bài đăng...")
	posts, err := legacy.ListActive(ctx, *status)
	if err != nil {
		log.Fatal("Không lấy được danh sách bài đăng:", err)
	}
	fmt.Printf("Lấy được %d bài đăng\n", len(posts))

	fmt.Println("Đang cấu hình Meilisearch index settings...")
	if err := meili.BuildIndex(); err != nil {
		log.Fatal("Không cấu hình được index:", err)
	}

	fmt.Println("Đang nạp documents...")
	if err := meili.SeedListings(posts); err != nil {
		log.Fatal("Không nạp được documents:", err)
	}

	fmt.Printf("Seed xong: %d documents vào index listings\n", len(posts))
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
