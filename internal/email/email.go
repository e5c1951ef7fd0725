package email

import (
	"context"

	"github.com/Domenick1991/travelbooking/internal/kafka"
	"github.com/sirupsen/logrus"
)

// Sender is the fire-and-forget confirmation mail collaborator. Delivery is
// external to this service; the worker only hands events over.
type Sender struct {
	logger *logrus.Logger
}

func NewSender(logger *logrus.Logger) *Sender {
	return &Sender{logger: logger}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	subject := "Booking update"
	switch event.Type {
	case kafka.EventBookingCreated:
		subject = "Booking received, payment pending"
	case kafka.EventBookingPaid:
		subject = "Payment confirmed, booking complete"
	}

	s.logger.WithFields(logrus.Fields{
		"to":         event.Email,
		"subject":    subject,
		"booking_id": event.BookingID,
		"kind":       event.Kind,
	}).Info("sending booking confirmation email")
	return nil
}
