package domain

import "time"

// Booking kinds, carried in provider order notes so webhook reconciliation
// can route an event to the right ledger.
const (
	KindHotel  = "hotel"
	KindFlight = "flight"
)

// PaymentInfo is recorded on a booking at the moment its payment is
// verified. Until then the booking carries no payment details at all.
type PaymentInfo struct {
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature,omitempty"`
}

type HotelBooking struct {
	ID              string       `json:"id"`
	UserID          string       `json:"user_id"`
	RoomID          int64        `json:"room_id"`
	HotelID         int64        `json:"hotel_id"`
	Guests          int          `json:"guests"`
	CheckIn         time.Time    `json:"check_in"`
	CheckOut        time.Time    `json:"check_out"`
	TotalPriceCents int64        `json:"total_price_cents"`
	IsPaid          bool         `json:"is_paid"`
	PaymentInfo     *PaymentInfo `json:"payment_info,omitempty"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

type Passenger struct {
	Title       string    `json:"title"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	DateOfBirth time.Time `json:"date_of_birth"`
	Nationality string    `json:"nationality"`
}

type ContactDetails struct {
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	EmergencyContact string `json:"emergency_contact,omitempty"`
	EmergencyPhone   string `json:"emergency_phone,omitempty"`
}

type FlightBooking struct {
	ID              string         `json:"id"`
	UserID          string         `json:"user_id"`
	FlightID        int64          `json:"flight_id"`
	Passengers      []Passenger    `json:"passengers"`
	Contact         ContactDetails `json:"contact_details"`
	TotalPriceCents int64          `json:"total_price_cents"`
	IsPaid          bool           `json:"is_paid"`
	PaymentInfo     *PaymentInfo   `json:"payment_info,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// Overlaps reports whether the half-open date ranges [aIn, aOut) and
// [bIn, bOut) share at least one night. A stay checking in on the day
// another checks out does not overlap.
func Overlaps(aIn, aOut, bIn, bOut time.Time) bool {
	return aIn.Before(bOut) && aOut.After(bIn)
}

// Nights returns the number of nights between check-in and check-out,
// rounding partial days up.
func Nights(checkIn, checkOut time.Time) int {
	d := checkOut.Sub(checkIn)
	if d <= 0 {
		return 0
	}
	nights := int(d / (24 * time.Hour))
	if d%(24*time.Hour) != 0 {
		nights++
	}
	return nights
}
