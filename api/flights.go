package api

import (
	"net/http"
	"strconv"

	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/Domenick1991/travelbooking/internal/service/flights"
	"github.com/gin-gonic/gin"
)

type FlightHandler struct {
	service flights.FlightUseCase
}

func NewFlightHandler(service flights.FlightUseCase) *FlightHandler {
	return &FlightHandler{service: service}
}

func (h *FlightHandler) Register(router *gin.RouterGroup, auth gin.HandlerFunc) {
	router.GET("/", h.list)
	router.GET("/:id", h.get)
	router.POST("/check-availability", h.checkAvailability)
	router.POST("/book", auth, h.create)
	router.GET("/user", auth, h.listUserBookings)
	router.POST("/razorpay-payment", auth, h.issueOrder)
	router.POST("/verify-payment", auth, h.verifyPayment)
	router.POST("/create-flight", auth, h.createFlight)
	router.POST("/create-flights", auth, h.createFlights)
}

type flightAvailabilityRequest struct {
	FlightID       int64 `json:"flightId" binding:"required"`
	RequestedSeats int   `json:"requestedSeats" binding:"required"`
}

type passengerRequest struct {
	Title       string `json:"title"`
	FirstName   string `json:"firstName" binding:"required"`
	LastName    string `json:"lastName" binding:"required"`
	Email       string `json:"email" binding:"required"`
	Phone       string `json:"phone" binding:"required"`
	DateOfBirth string `json:"dateOfBirth"`
	Nationality string `json:"nationality"`
}

type contactDetailsRequest struct {
	Email            string `json:"email" binding:"required"`
	Phone            string `json:"phone" binding:"required"`
	EmergencyContact string `json:"emergencyContact"`
	EmergencyPhone   string `json:"emergencyPhone"`
}

// createFlightRequest is the admin payload for the flight catalog. Seat
// accounting and timestamps belong to the service, callers only describe
// the flight itself.
type createFlightRequest struct {
	Airline         string `json:"airline" binding:"required"`
	FlightNumber    string `json:"flightNumber" binding:"required"`
	DepartureCode   string `json:"departureCode" binding:"required"`
	DepartureCity   string `json:"departureCity" binding:"required"`
	DepartureTime   string `json:"departureTime" binding:"required"`
	ArrivalCode     string `json:"arrivalCode" binding:"required"`
	ArrivalCity     string `json:"arrivalCity" binding:"required"`
	ArrivalTime     string `json:"arrivalTime" binding:"required"`
	DurationMinutes int    `json:"durationMinutes"`
	PriceCents      int64  `json:"priceCents" binding:"required"`
	FlightDate      string `json:"flightDate" binding:"required"`
	Stops           int    `json:"stops"`
	TravelClass     string `json:"travelClass"`
	TotalSeats      int    `json:"totalSeats" binding:"required"`
}

func (r createFlightRequest) toDomain() domain.Flight {
	return domain.Flight{
		Airline:         r.Airline,
		FlightNumber:    r.FlightNumber,
		DepartureCode:   r.DepartureCode,
		DepartureCity:   r.DepartureCity,
		DepartureTime:   r.DepartureTime,
		ArrivalCode:     r.ArrivalCode,
		ArrivalCity:     r.ArrivalCity,
		ArrivalTime:     r.ArrivalTime,
		DurationMinutes: r.DurationMinutes,
		PriceCents:      r.PriceCents,
		FlightDate:      r.FlightDate,
		Stops:           r.Stops,
		TravelClass:     r.TravelClass,
		TotalSeats:      r.TotalSeats,
	}
}

type createFlightBookingRequest struct {
	FlightID   int64                 `json:"flightId" binding:"required"`
	Passengers []passengerRequest    `json:"passengers" binding:"required"`
	Contact    contactDetailsRequest `json:"contactDetails" binding:"required"`
}

func (h *FlightHandler) list(c *gin.Context) {
	allFlights, err := h.service.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "flights": allFlights})
}

func (h *FlightHandler) get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid id"})
		return
	}
	flight, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "flight": flight})
}

func (h *FlightHandler) checkAvailability(c *gin.Context) {
	var req flightAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	available, err := h.service.CheckAvailability(c.Request.Context(), req.FlightID, req.RequestedSeats)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "available": available})
}

func (h *FlightHandler) create(c *gin.Context) {
	userID, ok := UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "user not authenticated"})
		return
	}

	var req createFlightBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Missing required fields"})
		return
	}

	passengers := make([]domain.Passenger, 0, len(req.Passengers))
	for _, p := range req.Passengers {
		passenger := domain.Passenger{
			Title:       p.Title,
			FirstName:   p.FirstName,
			LastName:    p.LastName,
			Email:       p.Email,
			Phone:       p.Phone,
			Nationality: p.Nationality,
		}
		if p.DateOfBirth != "" {
			dob, err := parseDate(p.DateOfBirth)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "dateOfBirth must be YYYY-MM-DD"})
				return
			}
			passenger.DateOfBirth = dob
		}
		passengers = append(passengers, passenger)
	}

	result, err := h.service.CreateBooking(c.Request.Context(), flights.CreateBookingInput{
		FlightID:   req.FlightID,
		UserID:     userID,
		Passengers: passengers,
		Contact: domain.ContactDetails{
			Email:            req.Contact.Email,
			Phone:            req.Contact.Phone,
			EmergencyContact: req.Contact.EmergencyContact,
			EmergencyPhone:   req.Contact.EmergencyPhone,
		},
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":   true,
		"order":     result.Order,
		"bookingId": result.Booking.ID,
	})
}

func (h *FlightHandler) listUserBookings(c *gin.Context) {
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

func (h *FlightHandler) issueOrder(c *gin.Context) {
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

func (h *FlightHandler) verifyPayment(c *gin.Context) {
	var req verifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	err := h.service.VerifyPayment(c.Request.Context(), flights.VerifyPaymentInput{
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

func (h *FlightHandler) createFlight(c *gin.Context) {
	var req createFlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	flight := req.toDomain()
	if err := h.service.CreateFlight(c.Request.Context(), &flight); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "flight": flight})
}

func (h *FlightHandler) createFlights(c *gin.Context) {
	var reqs []createFlightRequest
	if err := c.ShouldBindJSON(&reqs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	newFlights := make([]domain.Flight, 0, len(reqs))
	for _, r := range reqs {
		newFlights = append(newFlights, r.toDomain())
	}

	created, err := h.service.CreateFlights(c.Request.Context(), newFlights)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "flights": created})
}
