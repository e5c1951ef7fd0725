package razorpay

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerifyPaymentSignature(t *testing.T) {
	secret := "test_key_secret"
	sig := PaymentSignature("order_123", "pay_456", secret)

	assert.True(t, VerifyPaymentSignature("order_123", "pay_456", sig, secret))

	// deterministic: recomputing yields the same signature
	assert.Equal(t, sig, PaymentSignature("order_123", "pay_456", secret))

	testCases := []struct {
		name      string
		orderID   string
		paymentID string
		signature string
		secret    string
	}{
		{"tampered order id", "order_124", "pay_456", sig, secret},
		{"tampered payment id", "order_123", "pay_457", sig, secret},
		{"tampered signature", "order_123", "pay_456", sig[:len(sig)-1] + "0", secret},
		{"wrong secret", "order_123", "pay_456", sig, "other_secret"},
		{"empty signature", "order_123", "pay_456", "", secret},
		{"empty secret", "order_123", "pay_456", sig, ""},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.False(t, VerifyPaymentSignature(tc.orderID, tc.paymentID, tc.signature, tc.secret))
		})
	}
}

func TestVerifyWebhookSignature(t *testing.T) {
	secret := "webhook_secret"
	body := []byte(`{"event":"payment.captured","payload":{}}`)
	sig := WebhookSignature(body, secret)

	assert.True(t, VerifyWebhookSignature(body, sig, secret))
	assert.False(t, VerifyWebhookSignature([]byte(`{"event":"payment.captured","payload":{} }`), sig, secret))
	assert.False(t, VerifyWebhookSignature(body, sig, "other_secret"))
	assert.False(t, VerifyWebhookSignature(body, "", secret))
}

func TestSignatureSchemesAreDistinct(t *testing.T) {
	// the callback scheme signs "orderID|paymentID" with the key secret,
	// the webhook scheme signs the raw body with the webhook secret;
	// swapping secrets must never validate
	keySecret := "key_secret"
	webhookSecret := "webhook_secret"

	callbackSig := PaymentSignature("order_1", "pay_1", keySecret)
	assert.False(t, VerifyPaymentSignature("order_1", "pay_1", callbackSig, webhookSecret))

	body := []byte("order_1|pay_1")
	assert.False(t, VerifyWebhookSignature(body, PaymentSignature("order_1", "pay_1", keySecret), webhookSecret))
	assert.True(t, VerifyWebhookSignature(body, WebhookSignature(body, webhookSecret), webhookSecret))
}
