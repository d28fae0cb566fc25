package models

import "time"

// Loại bài đăng sau khi hợp nhất
const (
	ListingTypeRent     = "rent"
	ListingTypeRoommate = "roommate"
)

// Discriminator thô từ API bài đăng cũ
const (
	RawTypeRent     = "cho-thue"
	RawTypeRoommate = "tim-o-ghep"
)

// CategorySingleRoom phòng trọ đơn — không có số phòng ngủ/phòng tắm riêng
const CategorySingleRoom = "phong-tro"

// Address địa chỉ của listing (tên và mã có thể thiếu một phần)
type Address struct {
	City         string `json:"city" bson:"city"`
	CityCode     string `json:"city_code,omitempty" bson:"city_code,omitempty"`
	District     string `json:"district,omitempty" bson:"district,omitempty"`
	Ward         string `json:"ward,omitempty" bson:"ward,omitempty"`
	WardCode     string `json:"ward_code,omitempty" bson:"ward_code,omitempty"`
	Street       string `json:"street,omitempty" bson:"street,omitempty"`
}

// Listing bài đăng cho thuê / tìm ở ghép sau bước hợp nhất (unified shape).
// Price và Area luôn không âm; City/Ward là free-text nhưng normalize được.
type Listing struct {
	ID          string         `json:"id" bson:"_id"`
	Type        string         `json:"type" bson:"type"` // rent | roommate
	Title       string         `json:"title" bson:"title"`
	Description string         `json:"description,omitempty" bson:"description,omitempty"`
	Images      []string       `json:"images,omitempty" bson:"images,omitempty"`
	Price       int64          `json:"price" bson:"price"` // VND/tháng
	Area        float64        `json:"area" bson:"area"`   // m2
	Address     Address        `json:"address" bson:"address"`
	Category    string         `json:"category" bson:"category"`
	Bedrooms    int            `json:"bedrooms,omitempty" bson:"bedrooms,omitempty"`
	Bathrooms   int            `json:"bathrooms,omitempty" bson:"bathrooms,omitempty"`
	Amenities   []string       `json:"amenities,omitempty" bson:"amenities,omitempty"`
	CreatedAt   time.Time      `json:"created_at" bson:"created_at"`
	Extra       map[string]any `json:"extra,omitempty" bson:"extra,omitempty"` // payload gốc giữ nguyên cho downstream
}

// RawRoom sub-record phòng gắn với bài đăng (chi tiết hơn bài đăng)
type RawRoom struct {
	ID        string   `json:"_id"`
	Price     int64    `json:"price"`
	Area      float64  `json:"area"`
	Address   Address  `json:"address"`
	Bedrooms  int      `json:"bedrooms"`
	Bathrooms int      `json:"bathrooms"`
	Images    []string `json:"images"`
	Amenities []string `json:"amenities"`
	Status    string   `json:"status"`
	HasActiveContract bool `json:"has_active_contract"`
}

// RawPost bản ghi bài đăng thô từ listing API cũ. Hai biến thể:
// có Room (withRoom) hoặc không (bare) — hợp nhất qua Unify.
type RawPost struct {
	ID          string         `json:"_id"`
	Type        string         `json:"type"` // cho-thue | tim-o-ghep
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Images      []string       `json:"images"`
	Price       int64          `json:"price"`
	Area        float64        `json:"area"`
	Address     Address        `json:"address"`
	Category    string         `json:"category"`
	Amenities   []string       `json:"amenities"`
	RoomID      string         `json:"room_id,omitempty"`
	Room        *RawRoom       `json:"room,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	Extra       map[string]any `json:"extra,omitempty"`
}

// Unify hợp nhất RawPost (withRoom | bare) về Listing thống nhất.
// Ưu tiên price/area/address/images cấp phòng khi có; bedrooms/bathrooms
// chỉ áp dụng cho category khác phòng trọ đơn.
func (p *RawPost) Unify() Listing {
	l := Listing{
		ID:          p.ID,
		Type:        unifyType(p.Type),
		Title:       p.Title,
		Description: p.Description,
		Images:      p.Images,
		Price:       p.Price,
		Area:        p.Area,
		Address:     p.Address,
		Category:    p.Category,
		Amenities:   p.Amenities,
		CreatedAt:   p.CreatedAt,
		Extra:       p.Extra,
	}

	if r := p.Room; r != nil {
		if r.Price > 0 {
			l.Price = r.Price
		}
		if r.Area > 0 {
			l.Area = r.Area
		}
		if r.Address.City != "" {
			l.Address = r.Address
		}
		if len(r.Images) > 0 {
			l.Images = r.Images
		}
		if len(r.Amenities) > 0 {
			l.Amenities = r.Amenities
		}
		if p.Category != CategorySingleRoom {
			l.Bedrooms = r.Bedrooms
			l.Bathrooms = r.Bathrooms
		}
	}

	if l.Price < 0 {
		l.Price = 0
	}
	if l.Area < 0 {
		l.Area = 0
	}

	return l
}

func unifyType(raw string) string {
	switch raw {
	case RawTypeRoommate:
		return ListingTypeRoommate
	case RawTypeRent:
		return ListingTypeRent
	default:
		// listing đã unified hoặc nguồn lạ — giữ nguyên nếu hợp lệ
		if raw == ListingTypeRent || raw == ListingTypeRoommate {
			return raw
		}
		return ListingTypeRent
	}
}
