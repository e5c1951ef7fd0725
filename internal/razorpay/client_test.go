package razorpay

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestClient_CreateOrder(t *testing.T) {
	var gotAuthUser, gotAuthPass string
	var gotRequest OrderRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/orders", r.URL.Path)
		gotAuthUser, gotAuthPass, _ = r.BasicAuth()
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotRequest))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(Order{
			ID:       "order_123",
			Amount:   gotRequest.Amount,
			Currency: gotRequest.Currency,
			Receipt:  gotRequest.Receipt,
			Status:   "created",
			Notes:    gotRequest.Notes,
		})
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL, KeyID: "key_id", KeySecret: "key_secret"})

	order, err := client.CreateOrder(context.Background(), OrderRequest{
		Amount:   1500000,
		Currency: "INR",
		Receipt:  "receipt_order_b1",
		Notes:    map[string]string{"bookingId": "b1", "kind": "hotel"},
	})

	assert.NoError(t, err)
	assert.Equal(t, "order_123", order.ID)
	assert.Equal(t, int64(1500000), order.Amount)
	assert.Equal(t, "created", order.Status)
	assert.Equal(t, "key_id", gotAuthUser)
	assert.Equal(t, "key_secret", gotAuthPass)
	assert.Equal(t, "b1", gotRequest.Notes["bookingId"])
}

func TestClient_CreateOrder_ProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"description":"Authentication failed"}}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL, KeyID: "bad", KeySecret: "bad"})

	order, err := client.CreateOrder(context.Background(), OrderRequest{Amount: 100, Currency: "INR"})

	assert.ErrorIs(t, err, domain.ErrProviderFailure)
	assert.Nil(t, order)
}

func TestClient_CreateOrder_ServerUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL, KeyID: "key_id", KeySecret: "key_secret"})

	_, err := client.CreateOrder(context.Background(), OrderRequest{Amount: 100, Currency: "INR"})
	assert.ErrorIs(t, err, domain.ErrProviderFailure)
}
