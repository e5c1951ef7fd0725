package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/Domenick1991/travelbooking/internal/razorpay"
	"github.com/Domenick1991/travelbooking/internal/service/hotels"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockHotelUseCase is a mock implementation of hotels.HotelUseCase
type MockHotelUseCase struct {
	mock.Mock
}

func (m *MockHotelUseCase) CheckAvailability(ctx context.Context, roomID int64, checkIn, checkOut time.Time) (bool, error) {
	args := m.Called(ctx, roomID, checkIn, checkOut)
	return args.Bool(0), args.Error(1)
}

func (m *MockHotelUseCase) CreateBooking(ctx context.Context, input hotels.CreateBookingInput) (*hotels.BookingWithOrder, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*hotels.BookingWithOrder), args.Error(1)
}

func (m *MockHotelUseCase) IssueOrder(ctx context.Context, bookingID string) (*razorpay.Order, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*razorpay.Order), args.Error(1)
}

func (m *MockHotelUseCase) ListUserBookings(ctx context.Context, userID string) ([]domain.HotelBooking, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.HotelBooking), args.Error(1)
}

func (m *MockHotelUseCase) Dashboard(ctx context.Context, ownerID string) (*hotels.DashboardData, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*hotels.DashboardData), args.Error(1)
}

func (m *MockHotelUseCase) VerifyPayment(ctx context.Context, input hotels.VerifyPaymentInput) error {
	args := m.Called(ctx, input)
	return args.Error(0)
}

func (m *MockHotelUseCase) MarkPaid(ctx context.Context, bookingID string, info domain.PaymentInfo) error {
	args := m.Called(ctx, bookingID, info)
	return args.Error(0)
}

func newJSONContext(t *testing.T, method, path string, payload interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	var body bytes.Buffer
	if payload != nil {
		assert.NoError(t, json.NewEncoder(&body).Encode(payload))
	}
	c.Request = httptest.NewRequest(method, path, &body)
	c.Request.Header.Set("Content-Type", "application/json")
	return c, w
}

func TestBookingHandler_checkAvailability(t *testing.T) {
	mockService := &MockHotelUseCase{}
	handler := NewBookingHandler(mockService)

	c, w := newJSONContext(t, "POST", "/api/bookings/check-availability", gin.H{
		"room":         7,
		"checkInDate":  "2026-06-10",
		"checkOutDate": "2026-06-15",
	})

	in := time.Date(2026, time.June, 10, 0, 0, 0, 0, time.UTC)
	out := time.Date(2026, time.June, 15, 0, 0, 0, 0, time.UTC)
	mockService.On("CheckAvailability", mock.Anything, int64(7), in, out).Return(true, nil).Once()

	handler.checkAvailability(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, true, resp["isAvailable"])
	mockService.AssertExpectations(t)
}

func TestBookingHandler_checkAvailability_BadDates(t *testing.T) {
	mockService := &MockHotelUseCase{}
	handler := NewBookingHandler(mockService)

	c, w := newJSONContext(t, "POST", "/api/bookings/check-availability", gin.H{
		"room":         7,
		"checkInDate":  "10-06-2026",
		"checkOutDate": "2026-06-15",
	})

	handler.checkAvailability(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "CheckAvailability")
}

func TestBookingHandler_create(t *testing.T) {
	mockService := &MockHotelUseCase{}
	handler := NewBookingHandler(mockService)

	c, w := newJSONContext(t, "POST", "/api/bookings/book", gin.H{
		"room":         7,
		"checkInDate":  "2026-06-10",
		"checkOutDate": "2026-06-13",
		"guests":       2,
		"contactEmail": "guest@example.com",
	})
	c.Set("user_id", "user-1")

	result := &hotels.BookingWithOrder{
		Booking: &domain.HotelBooking{ID: "b1", UserID: "user-1", RoomID: 7, TotalPriceCents: 1500000},
		Order:   &razorpay.Order{ID: "order_123", Amount: 1500000, Currency: "INR", Status: "created"},
	}
	mockService.On("CreateBooking", mock.Anything, mock.AnythingOfType("hotels.CreateBookingInput")).Return(result, nil).Once()

	handler.create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "b1", resp["bookingId"])

	input := mockService.Calls[0].Arguments.Get(1).(hotels.CreateBookingInput)
	assert.Equal(t, "user-1", input.UserID)
	assert.Equal(t, int64(7), input.RoomID)
	assert.Equal(t, 2, input.Guests)
	mockService.AssertExpectations(t)
}

func TestBookingHandler_create_Unauthenticated(t *testing.T) {
	mockService := &MockHotelUseCase{}
	handler := NewBookingHandler(mockService)

	c, w := newJSONContext(t, "POST", "/api/bookings/book", gin.H{
		"room":         7,
		"checkInDate":  "2026-06-10",
		"checkOutDate": "2026-06-13",
		"guests":       2,
	})

	handler.create(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	mockService.AssertNotCalled(t, "CreateBooking")
}

func TestBookingHandler_create_RoomUnavailable(t *testing.T) {
	mockService := &MockHotelUseCase{}
	handler := NewBookingHandler(mockService)

	c, w := newJSONContext(t, "POST", "/api/bookings/book", gin.H{
		"room":         7,
		"checkInDate":  "2026-06-10",
		"checkOutDate": "2026-06-13",
		"guests":       2,
	})
	c.Set("user_id", "user-1")

	mockService.On("CreateBooking", mock.Anything, mock.Anything).Return(nil, domain.ErrUnavailable).Once()

	handler.create(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestBookingHandler_dashboard(t *testing.T) {
	mockService := &MockHotelUseCase{}
	handler := NewBookingHandler(mockService)

	c, w := newJSONContext(t, "GET", "/api/bookings/hotel", nil)
	c.Set("user_id", "owner-1")

	data := &hotels.DashboardData{TotalBookings: 2, TotalRevenueCents: 2500000}
	mockService.On("Dashboard", mock.Anything, "owner-1").Return(data, nil).Once()

	handler.dashboard(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestBookingHandler_verifyPayment(t *testing.T) {
	mockService := &MockHotelUseCase{}
	handler := NewBookingHandler(mockService)

	c, w := newJSONContext(t, "POST", "/api/bookings/verify-payment", gin.H{
		"bookingId": "b1",
		"orderId":   "order_123",
		"paymentId": "pay_456",
		"signature": "sig",
	})
	c.Set("user_id", "user-1")

	mockService.On("VerifyPayment", mock.Anything, hotels.VerifyPaymentInput{
		BookingID: "b1",
		OrderID:   "order_123",
		PaymentID: "pay_456",
		Signature: "sig",
	}).Return(nil).Once()

	handler.verifyPayment(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Payment verified and booking updated", resp["message"])
	mockService.AssertExpectations(t)
}

func TestBookingHandler_verifyPayment_InvalidSignature(t *testing.T) {
	mockService := &MockHotelUseCase{}
	handler := NewBookingHandler(mockService)

	c, w := newJSONContext(t, "POST", "/api/bookings/verify-payment", gin.H{
		"bookingId": "b1",
		"orderId":   "order_123",
		"paymentId": "pay_456",
		"signature": "tampered",
	})
	c.Set("user_id", "user-1")

	mockService.On("VerifyPayment", mock.Anything, mock.Anything).Return(domain.ErrInvalidSignature).Once()

	handler.verifyPayment(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBookingHandler_verifyPayment_MissingFields(t *testing.T) {
	mockService := &MockHotelUseCase{}
	handler := NewBookingHandler(mockService)

	c, w := newJSONContext(t, "POST", "/api/bookings/verify-payment", gin.H{
		"bookingId": "b1",
	})
	c.Set("user_id", "user-1")

	handler.verifyPayment(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "VerifyPayment")
}

func TestBookingHandler_issueOrder(t *testing.T) {
	mockService := &MockHotelUseCase{}
	handler := NewBookingHandler(mockService)

	c, w := newJSONContext(t, "POST", "/api/bookings/razorpay-payment", gin.H{"bookingId": "b1"})
	c.Set("user_id", "user-1")

	mockService.On("IssueOrder", mock.Anything, "b1").Return(&razorpay.Order{ID: "order_123"}, nil).Once()

	handler.issueOrder(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}
