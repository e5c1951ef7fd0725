package api

import (
	"net/http"
	"time"

	"github.com/Domenick1991/travelbooking/internal/service/hotels"
	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

type BookingHandler struct {
	service hotels.HotelUseCase
}

func NewBookingHandler(service hotels.HotelUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup, auth gin.HandlerFunc) {
	router.POST("/check-availability", h.checkAvailability)
	router.POST("/book", auth, h.create)
	router.GET("/user", auth, h.listUserBookings)
	router.GET("/hotel", auth, h.dashboard)
	router.POST("/razorpay-payment", auth, h.issueOrder)
	router.POST("/verify-payment", auth, h.verifyPayment)
}

type checkAvailabilityRequest struct {
	Room     int64  `json:"room" binding:"required"`
	CheckIn  string `json:"checkInDate" binding:"required"`
	CheckOut string `json:"checkOutDate" binding:"required"`
}

type createBookingRequest struct {
	Room         int64  `json:"room" binding:"required"`
	CheckIn      string `json:"checkInDate" binding:"required"`
	CheckOut     string `json:"checkOutDate" binding:"required"`
	Guests       int    `json:"guests" binding:"required"`
	ContactEmail string `json:"contactEmail"`
}

type issueOrderRequest struct {
	BookingID string `json:"bookingId" binding:"required"`
}

type verifyPaymentRequest struct {
	BookingID string `json:"bookingId" binding:"required"`
	OrderID   string `json:"orderId" binding:"required"`
	PaymentID string `json:"paymentId" binding:"required"`
	Signature string `json:"signature" binding:"required"`
}

func parseDateRange(checkIn, checkOut string) (time.Time, time.Time, bool) {
	in, err := time.Parse(dateLayout, checkIn)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	out, err := time.Parse(dateLayout, checkOut)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	return in, out, true
}

func (h *BookingHandler) checkAvailability(c *gin.Context) {
	var req checkAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	in, out, ok := parseDateRange(req.CheckIn, req.CheckOut)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "dates must be YYYY-MM-DD"})
		return
	}

	available, err := h.service.CheckAvailability(c.Request.Context(), req.Room, in, out)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "isAvailable": available})
}

func (h *BookingHandler) create(c *gin.Context) {
	userID, ok := UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "user not authenticated"})
		return
	}

	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	in, out, ok := parseDateRange(req.CheckIn, req.CheckOut)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "dates must be YYYY-MM-DD"})
		return
	}

	result, err := h.service.CreateBooking(c.Request.Context(), hotels.CreateBookingInput{
		RoomID:       req.Room,
		UserID:       userID,
		Guests:       req.Guests,
		CheckIn:      in,
		CheckOut:     out,
		ContactEmail: req.ContactEmail,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":   true,
		"bookingId": result.Booking.ID,
		"order":     result.Order,
	})
}

func (h *BookingHandler) listUserBookings(c *gin.Context) {
	userID, ok := UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "user not authenticated"})
		return
	}

	bookings, err := h.service.ListUserBookings(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "bookings": bookings})
}

func (h *BookingHandler) dashboard(c *gin.Context) {
	userID, ok := UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "user not authenticated"})
		return
	}

	data, err := h.service.Dashboard(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "dashboardData": data})
}

func (h *BookingHandler) issueOrder(c *gin.Context) {
	var req issueOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	order, err := h.service.IssueOrder(c.Request.Context(), req.BookingID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "order": order})
}

func (h *BookingHandler) verifyPayment(c *gin.Context) {
	var req verifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	err := h.service.VerifyPayment(c.Request.Context(), hotels.VerifyPaymentInput{
		BookingID: req.BookingID,
		OrderID:   req.OrderID,
		PaymentID: req.PaymentID,
		Signature: req.Signature,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Payment verified and booking updated"})
}
