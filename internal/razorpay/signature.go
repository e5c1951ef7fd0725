package razorpay

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// PaymentSignature computes the checkout-callback signature: HMAC-SHA256
// over "orderID|paymentID" with the API key secret, hex encoded.
func PaymentSignature(orderID, paymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyPaymentSignature checks a client-supplied checkout signature in
// constant time.
func VerifyPaymentSignature(orderID, paymentID, signature, secret string) bool {
	if signature == "" || secret == "" {
		return false
	}
	expected := PaymentSignature(orderID, paymentID, secret)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// WebhookSignature computes the webhook signature: HMAC-SHA256 over the raw
// request body with the webhook secret, hex encoded. The webhook secret is
// distinct from the API key secret and the two schemes are never mixed.
func WebhookSignature(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyWebhookSignature checks the x-razorpay-signature header value
// against the raw body in constant time.
func VerifyWebhookSignature(body []byte, signature, secret string) bool {
	if signature == "" || secret == "" {
		return false
	}
	expected := WebhookSignature(body, secret)
	return hmac.Equal([]byte(expected), []byte(signature))
}
