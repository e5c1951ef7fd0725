package flights

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/Domenick1991/travelbooking/internal/kafka"
	"github.com/Domenick1991/travelbooking/internal/razorpay"
	"github.com/Domenick1991/travelbooking/internal/repository"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type FlightUseCase interface {
	List(ctx context.Context) ([]domain.Flight, error)
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
	CheckAvailability(ctx context.Context, flightID int64, requestedSeats int) (bool, error)
	CreateBooking(ctx context.Context, input CreateBookingInput) (*BookingWithOrder, error)
	IssueOrder(ctx context.Context, bookingID string) (*razorpay.Order, error)
	ListUserBookings(ctx context.Context, userID string) ([]domain.FlightBooking, error)
	VerifyPayment(ctx context.Context, input VerifyPaymentInput) error
	MarkPaid(ctx context.Context, bookingID string, info domain.PaymentInfo) error
	CreateFlight(ctx context.Context, flight *domain.Flight) error
	CreateFlights(ctx context.Context, flights []domain.Flight) ([]domain.Flight, error)
	AuditOverbooked(ctx context.Context) ([]domain.OverbookedFlight, error)
}

type Cache interface {
	GetFlights(ctx context.Context) ([]domain.Flight, error)
	SetFlights(ctx context.Context, flights []domain.Flight) error
	InvalidateFlights(ctx context.Context) error
}

type OrderCreator interface {
	CreateOrder(ctx context.Context, req razorpay.OrderRequest) (*razorpay.Order, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type FlightService struct {
	flights       repository.FlightRepository
	bookings      repository.FlightBookingRepository
	cache         Cache
	orders        OrderCreator
	producer      Producer
	bookingTopic  string
	currency      string
	paymentSecret string
	logger        *logrus.Logger
}

func NewFlightService(
	flights repository.FlightRepository,
	bookings repository.FlightBookingRepository,
	cache Cache,
	orders OrderCreator,
	producer Producer,
	bookingTopic string,
	currency string,
	paymentSecret string,
	logger *logrus.Logger,
) *FlightService {
	return &FlightService{
		flights:       flights,
		bookings:      bookings,
		cache:         cache,
		orders:        orders,
		producer:      producer,
		bookingTopic:  bookingTopic,
		currency:      currency,
		paymentSecret: paymentSecret,
		logger:        logger,
	}
}

type CreateBookingInput struct {
	FlightID   int64
	UserID     string
	Passengers []domain.Passenger
	Contact    domain.ContactDetails
}

type BookingWithOrder struct {
	Booking *domain.FlightBooking
	Order   *razorpay.Order
}

type VerifyPaymentInput struct {
	BookingID string
	OrderID   string
	PaymentID string
	Signature string
}

func (s *FlightService) List(ctx context.Context) ([]domain.Flight, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetFlights(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	flights, err := s.flights.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetFlights(ctx, flights)
	}
	return flights, nil
}

func (s *FlightService) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	return s.flights.GetByID(ctx, id)
}

// CheckAvailability compares the live seat counter against the request.
// The counter only reflects paid bookings, so a pending booking does not
// reduce what other callers see; the check is advisory until payment lands.
func (s *FlightService) CheckAvailability(ctx context.Context, flightID int64, requestedSeats int) (bool, error) {
	if requestedSeats <= 0 {
		return false, fmt.Errorf("%w: requested seats must be positive", domain.ErrValidation)
	}
	flight, err := s.flights.GetByID(ctx, flightID)
	if err != nil {
		return false, err
	}
	return flight.AvailableSeats >= requestedSeats, nil
}

func (s *FlightService) CreateBooking(ctx context.Context, input CreateBookingInput) (*BookingWithOrder, error) {
	if input.UserID == "" {
		return nil, fmt.Errorf("%w: user is required", domain.ErrValidation)
	}
	if len(input.Passengers) == 0 || input.Contact.Email == "" || input.Contact.Phone == "" {
		return nil, fmt.Errorf("%w: missing required fields", domain.ErrValidation)
	}

	flight, err := s.flights.GetByID(ctx, input.FlightID)
	if err != nil {
		return nil, err
	}
	if flight.AvailableSeats < len(input.Passengers) {
		return nil, fmt.Errorf("%w: only %d seat(s) available", domain.ErrUnavailable, flight.AvailableSeats)
	}

	booking := &domain.FlightBooking{
		ID:              uuid.NewString(),
		UserID:          input.UserID,
		FlightID:        flight.ID,
		Passengers:      input.Passengers,
		Contact:         input.Contact,
		TotalPriceCents: flight.PriceCents * int64(len(input.Passengers)),
	}

	// the repository re-checks the seat counter inside its transaction;
	// seats stay uncommitted until payment, so two pending bookings may
	// still pass this gate against the same seats
	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, err
	}

	order, err := s.issueOrder(ctx, booking, flight)
	if err != nil {
		// keep the pending booking: it is recoverable by re-issuing the
		// order, while rolling it back could lose a completed payment
		s.logger.WithFields(logrus.Fields{
			"booking_id": booking.ID,
			"error":      err,
		}).Error("order creation failed, booking left pending")
		return nil, err
	}

	s.publish(ctx, kafka.EventBookingCreated, booking, input.Contact.Email)

	return &BookingWithOrder{Booking: booking, Order: order}, nil
}

// IssueOrder creates a fresh provider order for an existing pending booking.
func (s *FlightService) IssueOrder(ctx context.Context, bookingID string) (*razorpay.Order, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.IsPaid {
		return nil, fmt.Errorf("%w: booking is already paid", domain.ErrValidation)
	}

	flight, err := s.flights.GetByID(ctx, booking.FlightID)
	if err != nil {
		return nil, err
	}
	return s.issueOrder(ctx, booking, flight)
}

func (s *FlightService) issueOrder(ctx context.Context, booking *domain.FlightBooking, flight *domain.Flight) (*razorpay.Order, error) {
	return s.orders.CreateOrder(ctx, razorpay.OrderRequest{
		Amount:   booking.TotalPriceCents,
		Currency: s.currency,
		Receipt:  "booking_" + booking.ID,
		Notes: map[string]string{
			"bookingId": booking.ID,
			"flightId":  fmt.Sprintf("%d", flight.ID),
			"kind":      domain.KindFlight,
		},
	})
}

func (s *FlightService) ListUserBookings(ctx context.Context, userID string) ([]domain.FlightBooking, error) {
	return s.bookings.ListForUser(ctx, userID)
}

// VerifyPayment is the synchronous reconciliation path.
func (s *FlightService) VerifyPayment(ctx context.Context, input VerifyPaymentInput) error {
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

// MarkPaid performs the PENDING -> PAID transition and commits the seats.
// The conditional update fires at most once per booking, so the seat
// decrement cannot run twice no matter how many reconciliation callbacks
// and webhook redeliveries race for the same booking.
func (s *FlightService) MarkPaid(ctx context.Context, bookingID string, info domain.PaymentInfo) error {
	booking, err := s.bookings.MarkPaid(ctx, bookingID, info)
	if err != nil {
		return err
	}
	if booking == nil {
		s.logger.WithField("booking_id", bookingID).Info("no pending flight booking transitioned, skipping")
		return nil
	}

	if err := s.flights.DecrementSeats(ctx, booking.FlightID, len(booking.Passengers)); err != nil {
		if errors.Is(err, domain.ErrUnavailable) {
			// the payment is real, so the booking stays paid; the flight is
			// oversold and the audit sweep will keep flagging it
			s.logger.WithFields(logrus.Fields{
				"booking_id": booking.ID,
				"flight_id":  booking.FlightID,
				"passengers": len(booking.Passengers),
			}).Warn("flight oversold: paid booking exceeds remaining seats")
		} else {
			return err
		}
	}

	if s.cache != nil {
		_ = s.cache.InvalidateFlights(ctx)
	}

	s.publish(ctx, kafka.EventBookingPaid, booking, booking.Contact.Email)
	return nil
}

func (s *FlightService) CreateFlight(ctx context.Context, flight *domain.Flight) error {
	if flight.FlightNumber == "" || flight.Airline == "" {
		return fmt.Errorf("%w: airline and flight number are required", domain.ErrValidation)
	}
	if flight.AvailableSeats == 0 {
		flight.AvailableSeats = flight.TotalSeats
	}
	if err := s.flights.Create(ctx, flight); err != nil {
		return err
	}
	if s.cache != nil {
		_ = s.cache.InvalidateFlights(ctx)
	}
	return nil
}

func (s *FlightService) CreateFlights(ctx context.Context, flights []domain.Flight) ([]domain.Flight, error) {
	if len(flights) == 0 {
		return nil, fmt.Errorf("%w: no flights supplied", domain.ErrValidation)
	}
	for i := range flights {
		if flights[i].AvailableSeats == 0 {
			flights[i].AvailableSeats = flights[i].TotalSeats
		}
	}
	created, err := s.flights.CreateMany(ctx, flights)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.InvalidateFlights(ctx)
	}
	return created, nil
}

// AuditOverbooked lists flights whose paid passengers exceed capacity. The
// worker runs this on a timer and alerts; it is the back half of the
// hold-free seat policy.
func (s *FlightService) AuditOverbooked(ctx context.Context) ([]domain.OverbookedFlight, error) {
	return s.flights.ListOverbooked(ctx)
}

func (s *FlightService) publish(ctx context.Context, eventType string, booking *domain.FlightBooking, email string) {
	if s.producer == nil || s.bookingTopic == "" {
		return
	}
	event := kafka.BookingEvent{
		Type:            eventType,
		BookingID:       booking.ID,
		Kind:            domain.KindFlight,
		UserID:          booking.UserID,
		Email:           email,
		TotalPriceCents: booking.TotalPriceCents,
		OccurredAt:      time.Now(),
	}
	if err := s.producer.Publish(ctx, s.bookingTopic, booking.ID, event); err != nil {
		s.logger.WithError(err).Warn("failed to publish booking event")
	}
}

var _ FlightUseCase = (*FlightService)(nil)
