package api

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type WebhookReconciler interface {
	HandleWebhook(ctx context.Context, body []byte, signature string) error
}

// EventGuard deduplicates webhook deliveries by provider event id. An id is
// marked only after the event is fully processed, so a crash mid-processing
// leaves the provider's retry unguarded and the capture is not lost.
type EventGuard interface {
	SeenEvent(ctx context.Context, eventID string) (bool, error)
	MarkEvent(ctx context.Context, eventID string) error
}

type WebhookHandler struct {
	reconciler WebhookReconciler
	guard      EventGuard
	logger     *logrus.Logger
}

func NewWebhookHandler(reconciler WebhookReconciler, guard EventGuard, logger *logrus.Logger) *WebhookHandler {
	return &WebhookHandler{reconciler: reconciler, guard: guard, logger: logger}
}

func (h *WebhookHandler) Register(router gin.IRouter) {
	router.POST("/api/razorpay", h.handle)
}

// handle is the provider-to-server reconciliation entry point. The raw body
// must reach the verifier byte for byte, so it is read before any JSON
// binding. Processing failures return 5xx so the provider retries; the
// idempotent MarkPaid transition makes those retries safe.
func (h *WebhookHandler) handle(c *gin.Context) {
	ctx := c.Request.Context()

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to read body"})
		return
	}

	signature := c.GetHeader("x-razorpay-signature")
	if signature == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "missing signature header"})
		return
	}

	eventID := c.GetHeader("x-razorpay-event-id")
	if eventID != "" && h.guard != nil {
		seen, err := h.guard.SeenEvent(ctx, eventID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to check event"})
			return
		}
		if seen {
			c.JSON(http.StatusOK, gin.H{"success": true})
			return
		}
	}

	if err := h.reconciler.HandleWebhook(ctx, body, signature); err != nil {
		if errors.Is(err, domain.ErrInvalidSignature) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid signature"})
			return
		}
		if errors.Is(err, domain.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Malformed event body"})
			return
		}
		h.logger.WithError(err).Error("webhook processing failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update booking"})
		return
	}

	// marked only after success; the conditional paid transition keeps an
	// unmarked redelivery harmless
	if eventID != "" && h.guard != nil {
		if err := h.guard.MarkEvent(ctx, eventID); err != nil {
			h.logger.WithError(err).Warn("failed to mark webhook event as processed")
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
