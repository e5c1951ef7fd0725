package payments

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/Domenick1991/travelbooking/internal/razorpay"
	"github.com/sirupsen/logrus"
)

// Ledger is the narrow slice of a booking service the webhook path needs:
// the idempotent PENDING -> PAID transition.
type Ledger interface {
	MarkPaid(ctx context.Context, bookingID string, info domain.PaymentInfo) error
}

// Reconciler is the asynchronous reconciliation entry point. It terminates
// at the same MarkPaid transition as the client callback path; whichever
// fires second becomes a no-op.
type Reconciler struct {
	hotels        Ledger
	flights       Ledger
	webhookSecret string
	logger        *logrus.Logger
}

func NewReconciler(hotels, flights Ledger, webhookSecret string, logger *logrus.Logger) *Reconciler {
	return &Reconciler{
		hotels:        hotels,
		flights:       flights,
		webhookSecret: webhookSecret,
		logger:        logger,
	}
}

// WebhookEvent mirrors the provider's event envelope. Only the fields the
// reconciliation needs are mapped.
type WebhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity PaymentEntity `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

type PaymentEntity struct {
	ID      string            `json:"id"`
	OrderID string            `json:"order_id"`
	Notes   map[string]string `json:"notes"`
}

// HandleWebhook verifies the whole-body signature with the webhook secret
// (never the checkout scheme or the API key secret) and applies a verified
// payment.captured event. Every other event kind is acknowledged untouched.
func (r *Reconciler) HandleWebhook(ctx context.Context, body []byte, signature string) error {
	if !razorpay.VerifyWebhookSignature(body, signature, r.webhookSecret) {
		return domain.ErrInvalidSignature
	}

	var event WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("%w: malformed event body", domain.ErrValidation)
	}

	if event.Event != "payment.captured" {
		r.logger.WithField("event", event.Event).Debug("ignoring webhook event kind")
		return nil
	}

	entity := event.Payload.Payment.Entity
	bookingID := entity.Notes["bookingId"]
	if bookingID == "" {
		r.logger.WithField("payment_id", entity.ID).Warn("payment.captured without bookingId note, skipping")
		return nil
	}

	info := domain.PaymentInfo{
		RazorpayOrderID:   entity.OrderID,
		RazorpayPaymentID: entity.ID,
	}

	switch entity.Notes["kind"] {
	case domain.KindHotel:
		return r.hotels.MarkPaid(ctx, bookingID, info)
	case domain.KindFlight:
		return r.flights.MarkPaid(ctx, bookingID, info)
	default:
		// orders issued before the kind note existed: both ledgers tolerate
		// unknown ids, so try each in turn
		if err := r.hotels.MarkPaid(ctx, bookingID, info); err != nil {
			return err
		}
		return r.flights.MarkPaid(ctx, bookingID, info)
	}
}
