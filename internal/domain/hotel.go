package domain

import "time"

type Hotel struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	OwnerID string `json:"owner_id"`
}

type Room struct {
	ID                 int64     `json:"id"`
	HotelID            int64     `json:"hotel_id"`
	RoomType           string    `json:"room_type"`
	PricePerNightCents int64     `json:"price_per_night_cents"`
	Amenities          []string  `json:"amenities"`
	IsAvailable        bool      `json:"is_available"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}
