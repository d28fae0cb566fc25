package services

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/rental-search/app/models"
)

// ProfileService đọc hồ sơ sở thích từ MongoDB. Engine xếp hạng chỉ
// đọc; việc tạo/sửa hồ sơ thuộc về service khác.
type ProfileService struct {
	collection *mongo.Collection
	logger     *zap.Logger
}

// NewProfileService tạo ProfileService trên collection user_preferences
func NewProfileService(db *mongo.Database, logger *zap.Logger) *ProfileService {
	return &ProfileService{
		collection: db.Collection("user_preferences"),
		logger:     logger,
	}
}

// GetProfile lấy hồ sơ của user. Không có hồ sơ là đường đi bình
// thường, trả về (nil, nil) — ranking sẽ degrade về thứ tự theo giá.
func (ps *ProfileService) GetProfile(ctx context.Context, userID string) (*models.PreferenceProfile, error) {
	if userID == "" {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var profile models.PreferenceProfile
	err := ps.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		ps.logger.Warn("Lỗi đọc hồ sơ sở thích, coi như không có hồ sơ",
			zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return &profile, nil
}
