package hotels

import (
	"context"
	"fmt"
	"time"

	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/Domenick1991/travelbooking/internal/kafka"
	"github.com/Domenick1991/travelbooking/internal/razorpay"
	"github.com/Domenick1991/travelbooking/internal/repository"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type HotelUseCase interface {
	CheckAvailability(ctx context.Context, roomID int64, checkIn, checkOut time.Time) (bool, error)
	CreateBooking(ctx context.Context, input CreateBookingInput) (*BookingWithOrder, error)
	IssueOrder(ctx context.Context, bookingID string) (*razorpay.Order, error)
	ListUserBookings(ctx context.Context, userID string) ([]domain.HotelBooking, error)
	Dashboard(ctx context.Context, ownerID string) (*DashboardData, error)
	VerifyPayment(ctx context.Context, input VerifyPaymentInput) error
	MarkPaid(ctx context.Context, bookingID string, info domain.PaymentInfo) error
}

type OrderCreator interface {
	CreateOrder(ctx context.Context, req razorpay.OrderRequest) (*razorpay.Order, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type HotelService struct {
	bookings      repository.HotelBookingRepository
	rooms         repository.RoomRepository
	hotels        repository.HotelRepository
	orders        OrderCreator
	producer      Producer
	bookingTopic  string
	currency      string
	paymentSecret string
	logger        *logrus.Logger
}

func NewHotelService(
	bookings repository.HotelBookingRepository,
	rooms repository.RoomRepository,
	hotels repository.HotelRepository,
	orders OrderCreator,
	producer Producer,
	bookingTopic string,
	currency string,
	paymentSecret string,
	logger *logrus.Logger,
) *HotelService {
	return &HotelService{
		bookings:      bookings,
		rooms:         rooms,
		hotels:        hotels,
		orders:        orders,
		producer:      producer,
		bookingTopic:  bookingTopic,
		currency:      currency,
		paymentSecret: paymentSecret,
		logger:        logger,
	}
}

type CreateBookingInput struct {
	RoomID       int64
	UserID       string
	Guests       int
	CheckIn      time.Time
	CheckOut     time.Time
	ContactEmail string
}

type BookingWithOrder struct {
	Booking *domain.HotelBooking
	Order   *razorpay.Order
}

type VerifyPaymentInput struct {
	BookingID string
	OrderID   string
	PaymentID string
	Signature string
}

type DashboardData struct {
	TotalBookings     int                   `json:"total_bookings"`
	TotalRevenueCents int64                 `json:"total_revenue_cents"`
	Bookings          []domain.HotelBooking `json:"bookings"`
}

// CheckAvailability reports whether the room is free for the half-open
// range [checkIn, checkOut). Pending bookings block the slot the same way
// paid ones do; that is the existing policy, unpaid holds never expire.
func (s *HotelService) CheckAvailability(ctx context.Context, roomID int64, checkIn, checkOut time.Time) (bool, error) {
	if _, err := s.rooms.GetByID(ctx, roomID); err != nil {
		return false, err
	}

	existing, err := s.bookings.ListForRoom(ctx, roomID)
	if err != nil {
		return false, err
	}
	for _, b := range existing {
		if domain.Overlaps(checkIn, checkOut, b.CheckIn, b.CheckOut) {
			return false, nil
		}
	}
	return true, nil
}

func (s *HotelService) CreateBooking(ctx context.Context, input CreateBookingInput) (*BookingWithOrder, error) {
	if input.UserID == "" {
		return nil, fmt.Errorf("%w: user is required", domain.ErrValidation)
	}
	if input.Guests <= 0 {
		return nil, fmt.Errorf("%w: guest count must be positive", domain.ErrValidation)
	}
	if !input.CheckOut.After(input.CheckIn) {
		return nil, fmt.Errorf("%w: check-out must be after check-in", domain.ErrValidation)
	}

	room, err := s.rooms.GetByID(ctx, input.RoomID)
	if err != nil {
		return nil, err
	}

	available, err := s.CheckAvailability(ctx, input.RoomID, input.CheckIn, input.CheckOut)
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, fmt.Errorf("%w: room is not available for the selected dates", domain.ErrUnavailable)
	}

	nights := domain.Nights(input.CheckIn, input.CheckOut)
	booking := &domain.HotelBooking{
		ID:              uuid.NewString(),
		UserID:          input.UserID,
		RoomID:          room.ID,
		HotelID:         room.HotelID,
		Guests:          input.Guests,
		CheckIn:         input.CheckIn,
		CheckOut:        input.CheckOut,
		TotalPriceCents: room.PricePerNightCents * int64(nights),
	}

	// the repository re-runs the overlap check inside its transaction; the
	// advisory check above only produces a friendlier early rejection
	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, err
	}

	order, err := s.issueOrder(ctx, booking)
	if err != nil {
		// the pending booking is kept on purpose: a lost order is
		// recoverable by retry, a rolled-back booking after a successful
		// charge is not
		s.logger.WithFields(logrus.Fields{
			"booking_id": booking.ID,
			"error":      err,
		}).Error("order creation failed, booking left pending")
		return nil, err
	}

	s.publish(ctx, kafka.EventBookingCreated, booking, input.ContactEmail)

	return &BookingWithOrder{Booking: booking, Order: order}, nil
}

// IssueOrder creates a fresh provider order for an existing pending
// booking, used when the first checkout attempt was abandoned or the
// original order creation failed.
func (s *HotelService) IssueOrder(ctx context.Context, bookingID string) (*razorpay.Order, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.IsPaid {
		return nil, fmt.Errorf("%w: booking is already paid", domain.ErrValidation)
	}
	return s.issueOrder(ctx, booking)
}

func (s *HotelService) issueOrder(ctx context.Context, booking *domain.HotelBooking) (*razorpay.Order, error) {
	return s.orders.CreateOrder(ctx, razorpay.OrderRequest{
		Amount:   booking.TotalPriceCents,
		Currency: s.currency,
		Receipt:  "receipt_order_" + booking.ID,
		Notes: map[string]string{
			"bookingId": booking.ID,
			"kind":      domain.KindHotel,
		},
	})
}

func (s *HotelService) ListUserBookings(ctx context.Context, userID string) ([]domain.HotelBooking, error) {
	return s.bookings.ListForUser(ctx, userID)
}

func (s *HotelService) Dashboard(ctx context.Context, ownerID string) (*DashboardData, error) {
	hotel, err := s.hotels.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	bookings, err := s.bookings.ListForHotel(ctx, hotel.ID)
	if err != nil {
		return nil, err
	}

	var revenue int64
	for _, b := range bookings {
		revenue += b.TotalPriceCents
	}
	return &DashboardData{
		TotalBookings:     len(bookings),
		TotalRevenueCents: revenue,
		Bookings:          bookings,
	}, nil
}

// VerifyPayment is the synchronous reconciliation path: the client relays
// the provider's checkout result and we only trust it after the signature
// checks out.
func (s *HotelService) VerifyPayment(ctx context.Context, input VerifyPaymentInput) error {
	if input.BookingID == "" || input.OrderID == "" || input.PaymentID == "" || input.Signature == "" {
		return fmt.Errorf("%w: bookingId, orderId, paymentId and signature are required", domain.ErrValidation)
	}

	if !razorpay.VerifyPaymentSignature(input.OrderID, input.PaymentID, input.Signature, s.paymentSecret) {
		return domain.ErrInvalidSignature
	}

	return s.MarkPaid(ctx, input.BookingID, domain.PaymentInfo{
		RazorpayOrderID:   input.OrderID,
		RazorpayPaymentID: input.PaymentID,
		RazorpaySignature: input.Signature,
	})
}

// MarkPaid performs the PENDING -> PAID transition. It is idempotent: the
// conditional update fires at most once per booking, and an unknown id is
// logged and swallowed so redelivered webhooks stay harmless.
func (s *HotelService) MarkPaid(ctx context.Context, bookingID string, info domain.PaymentInfo) error {
	booking, err := s.bookings.MarkPaid(ctx, bookingID, info)
	if err != nil {
		return err
	}
	if booking == nil {
		s.logger.WithField("booking_id", bookingID).Info("no pending hotel booking transitioned, skipping")
		return nil
	}

	s.publish(ctx, kafka.EventBookingPaid, booking, "")
	return nil
}

func (s *HotelService) publish(ctx context.Context, eventType string, booking *domain.HotelBooking, email string) {
	if s.producer == nil || s.bookingTopic == "" {
		return
	}
	event := kafka.BookingEvent{
		Type:            eventType,
		BookingID:       booking.ID,
		Kind:            domain.KindHotel,
		UserID:          booking.UserID,
		Email:           email,
		TotalPriceCents: booking.TotalPriceCents,
		OccurredAt:      time.Now(),
	}
	if err := s.producer.Publish(ctx, s.bookingTopic, booking.ID, event); err != nil {
		s.logger.WithError(err).Warn("failed to publish booking event")
	}
}

var _ HotelUseCase = (*HotelService)(nil)
