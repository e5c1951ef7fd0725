package domain

import "time"

type Flight struct {
	ID              int64     `json:"id"`
	Airline         string    `json:"airline"`
	FlightNumber    string    `json:"flight_number"`
	DepartureCode   string    `json:"departure_code"`
	DepartureCity   string    `json:"departure_city"`
	DepartureTime   string    `json:"departure_time"`
	ArrivalCode     string    `json:"arrival_code"`
	ArrivalCity     string    `json:"arrival_city"`
	ArrivalTime     string    `json:"arrival_time"`
	DurationMinutes int       `json:"duration_minutes"`
	PriceCents      int64     `json:"price_cents"`
	FlightDate      string    `json:"flight_date"`
	Stops           int       `json:"stops"`
	TravelClass     string    `json:"travel_class"`
	TotalSeats      int       `json:"total_seats"`
	AvailableSeats  int       `json:"available_seats"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// OverbookedFlight is an audit row: a flight whose paid passenger total
// exceeds its seat capacity.
type OverbookedFlight struct {
	FlightID       int64  `json:"flight_id"`
	FlightNumber   string `json:"flight_number"`
	TotalSeats     int    `json:"total_seats"`
	PaidPassengers int    `json:"paid_passengers"`
}
