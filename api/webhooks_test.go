package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockReconciler struct {
	mock.Mock
}

func (m *MockReconciler) HandleWebhook(ctx context.Context, body []byte, signature string) error {
	args := m.Called(ctx, body, signature)
	return args.Error(0)
}

type MockEventGuard struct {
	mock.Mock
}

func (m *MockEventGuard) SeenEvent(ctx context.Context, eventID string) (bool, error) {
	args := m.Called(ctx, eventID)
	return args.Bool(0), args.Error(1)
}

func (m *MockEventGuard) MarkEvent(ctx context.Context, eventID string) error {
	args := m.Called(ctx, eventID)
	return args.Error(0)
}

func newWebhookContext(t *testing.T, body []byte, headers map[string]string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("POST", "/api/razorpay", bytes.NewReader(body))
	for k, v := range headers {
		c.Request.Header.Set(k, v)
	}
	return c, w
}

func TestWebhookHandler_handle(t *testing.T) {
	reconciler := &MockReconciler{}
	guard := &MockEventGuard{}
	handler := NewWebhookHandler(reconciler, guard, logrus.New())

	body := []byte(`{"event":"payment.captured"}`)
	c, w := newWebhookContext(t, body, map[string]string{
		"x-razorpay-signature": "sig",
		"x-razorpay-event-id":  "evt_1",
	})

	guard.On("SeenEvent", mock.Anything, "evt_1").Return(false, nil).Once()
	reconciler.On("HandleWebhook", mock.Anything, body, "sig").Return(nil).Once()
	guard.On("MarkEvent", mock.Anything, "evt_1").Return(nil).Once()

	handler.handle(c)

	assert.Equal(t, http.StatusOK, w.Code)
	reconciler.AssertExpectations(t)
	guard.AssertExpectations(t)
}

func TestWebhookHandler_handle_MissingSignature(t *testing.T) {
	reconciler := &MockReconciler{}
	handler := NewWebhookHandler(reconciler, &MockEventGuard{}, logrus.New())

	c, w := newWebhookContext(t, []byte(`{}`), nil)

	handler.handle(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	reconciler.AssertNotCalled(t, "HandleWebhook")
}

// A rejected event must leave no marker behind: a forged request carrying a
// genuine event id cannot turn the real delivery into a duplicate.
func TestWebhookHandler_handle_InvalidSignatureLeavesNoMarker(t *testing.T) {
	reconciler := &MockReconciler{}
	guard := &MockEventGuard{}
	handler := NewWebhookHandler(reconciler, guard, logrus.New())

	body := []byte(`{"event":"payment.captured"}`)
	c, w := newWebhookContext(t, body, map[string]string{
		"x-razorpay-signature": "bad",
		"x-razorpay-event-id":  "evt_1",
	})

	guard.On("SeenEvent", mock.Anything, "evt_1").Return(false, nil).Once()
	reconciler.On("HandleWebhook", mock.Anything, body, "bad").Return(domain.ErrInvalidSignature).Once()

	handler.handle(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Invalid signature", resp["message"])
	guard.AssertNotCalled(t, "MarkEvent")
}

func TestWebhookHandler_handle_MalformedBody(t *testing.T) {
	reconciler := &MockReconciler{}
	guard := &MockEventGuard{}
	handler := NewWebhookHandler(reconciler, guard, logrus.New())

	body := []byte(`{"event":`)
	c, w := newWebhookContext(t, body, map[string]string{
		"x-razorpay-signature": "sig",
	})

	reconciler.On("HandleWebhook", mock.Anything, body, "sig").Return(domain.ErrValidation).Once()

	handler.handle(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Malformed event body", resp["message"])
	guard.AssertNotCalled(t, "MarkEvent")
}

// A redelivered event id is acknowledged without touching the reconciler.
func TestWebhookHandler_handle_DuplicateEvent(t *testing.T) {
	reconciler := &MockReconciler{}
	guard := &MockEventGuard{}
	handler := NewWebhookHandler(reconciler, guard, logrus.New())

	c, w := newWebhookContext(t, []byte(`{"event":"payment.captured"}`), map[string]string{
		"x-razorpay-signature": "sig",
		"x-razorpay-event-id":  "evt_1",
	})

	guard.On("SeenEvent", mock.Anything, "evt_1").Return(true, nil).Once()

	handler.handle(c)

	assert.Equal(t, http.StatusOK, w.Code)
	reconciler.AssertNotCalled(t, "HandleWebhook")
	guard.AssertNotCalled(t, "MarkEvent")
}

// Processing failures answer 5xx so the provider retries, and the event id
// is never marked: the retry goes through the reconciler again instead of
// being deduplicated away.
func TestWebhookHandler_handle_FailureLeavesRetryUnguarded(t *testing.T) {
	reconciler := &MockReconciler{}
	guard := &MockEventGuard{}
	handler := NewWebhookHandler(reconciler, guard, logrus.New())

	body := []byte(`{"event":"payment.captured"}`)
	c, w := newWebhookContext(t, body, map[string]string{
		"x-razorpay-signature": "sig",
		"x-razorpay-event-id":  "evt_1",
	})

	guard.On("SeenEvent", mock.Anything, "evt_1").Return(false, nil).Once()
	reconciler.On("HandleWebhook", mock.Anything, body, "sig").Return(errors.New("db down")).Once()

	handler.handle(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	guard.AssertNotCalled(t, "MarkEvent")

	// the provider's retry is processed in full
	retryCtx, retryW := newWebhookContext(t, body, map[string]string{
		"x-razorpay-signature": "sig",
		"x-razorpay-event-id":  "evt_1",
	})
	guard.On("SeenEvent", mock.Anything, "evt_1").Return(false, nil).Once()
	reconciler.On("HandleWebhook", mock.Anything, body, "sig").Return(nil).Once()
	guard.On("MarkEvent", mock.Anything, "evt_1").Return(nil).Once()

	handler.handle(retryCtx)

	assert.Equal(t, http.StatusOK, retryW.Code)
	reconciler.AssertExpectations(t)
	guard.AssertExpectations(t)
}

func TestWebhookHandler_handle_NoEventID(t *testing.T) {
	reconciler := &MockReconciler{}
	guard := &MockEventGuard{}
	handler := NewWebhookHandler(reconciler, guard, logrus.New())

	body := []byte(`{"event":"payment.captured"}`)
	c, w := newWebhookContext(t, body, map[string]string{
		"x-razorpay-signature": "sig",
	})

	reconciler.On("HandleWebhook", mock.Anything, body, "sig").Return(nil).Once()

	handler.handle(c)

	assert.Equal(t, http.StatusOK, w.Code)
	guard.AssertNotCalled(t, "SeenEvent")
	guard.AssertNotCalled(t, "MarkEvent")
}

// A mark failure after successful processing is logged, not surfaced: the
// event was applied and must be acknowledged.
func TestWebhookHandler_handle_MarkFailureStillAcks(t *testing.T) {
	reconciler := &MockReconciler{}
	guard := &MockEventGuard{}
	handler := NewWebhookHandler(reconciler, guard, logrus.New())

	body := []byte(`{"event":"payment.captured"}`)
	c, w := newWebhookContext(t, body, map[string]string{
		"x-razorpay-signature": "sig",
		"x-razorpay-event-id":  "evt_1",
	})

	guard.On("SeenEvent", mock.Anything, "evt_1").Return(false, nil).Once()
	reconciler.On("HandleWebhook", mock.Anything, body, "sig").Return(nil).Once()
	guard.On("MarkEvent", mock.Anything, "evt_1").Return(errors.New("redis down")).Once()

	handler.handle(c)

	assert.Equal(t, http.StatusOK, w.Code)
	guard.AssertExpectations(t)
}
