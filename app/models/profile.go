package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BudgetRange khoảng ngân sách của user. Min/Max đều optional —
// khoảng khai báo một phía vẫn hợp lệ.
type BudgetRange struct {
	Min *int64 `bson:"min,omitempty" json:"min,omitempty"`
	Max *int64 `bson:"max,omitempty" json:"max,omitempty"`
}

// Declared kiểm tra user có khai báo ngân sách không
func (b *BudgetRange) Declared() bool {
	return b != nil && (b.Min != nil || b.Max != nil)
}

// Midpoint trung điểm (min+max)/2 dùng cho tie-break khi xếp hạng.
// Khoảng một phía lấy chính cận đã khai báo làm trung điểm.
func (b *BudgetRange) Midpoint() int64 {
	switch {
	case b == nil:
		return 0
	case b.Min != nil && b.Max != nil:
		return (*b.Min + *b.Max) / 2
	case b.Min != nil:
		return *b.Min
	case b.Max != nil:
		return *b.Max
	}
	return 0
}

// PreferenceProfile hồ sơ sở thích thuê trọ của user (collection user_preferences).
// Engine xếp hạng chỉ đọc; form cập nhật hồ sơ nằm ngoài service này.
type PreferenceProfile struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID             string             `bson:"user_id" json:"user_id"`
	PreferredCity      string             `bson:"preferred_city,omitempty" json:"preferred_city,omitempty"`
	PreferredWards     []string           `bson:"preferred_wards,omitempty" json:"preferred_wards,omitempty"`
	PreferredDistricts []string           `bson:"preferred_districts,omitempty" json:"preferred_districts,omitempty"`
	RoomTypes          []string           `bson:"room_types,omitempty" json:"room_types,omitempty"`
	Budget             *BudgetRange       `bson:"budget,omitempty" json:"budget,omitempty"`
	Amenities          []string           `bson:"amenities,omitempty" json:"amenities,omitempty"`
	CreatedAt          time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt          time.Time          `bson:"updated_at" json:"updated_at"`
}
