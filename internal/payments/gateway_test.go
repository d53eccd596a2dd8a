package payments

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"busly/internal/shared/config"
)

func testGateway(baseURL string) Gateway {
	return NewGateway(config.PaymentConfig{
		BaseURL:         baseURL,
		APIUser:         "test-user",
		APIKey:          "test-key",
		CallbackURL:     "http://localhost:8080/api/v1/payments/webhook",
		InitiateTimeout: 2 * time.Second,
		VerifyTimeout:   2 * time.Second,
	})
}

func TestGatewayInitiateSuccess(t *testing.T) {
	var got map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/direct-pay", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(map[string]string{
			"transactionId":       "tx-123",
			"paymentInstructions": "Dial *126#",
		})
	}))
	defer server.Close()

	result, err := testGateway(server.URL).Initiate(context.Background(), &InitiateRequest{
		Amount:     5500,
		MomoNumber: "237670000111",
		Reference:  "booking_abc",
	})

	require.NoError(t, err)
	assert.Equal(t, "tx-123", result.TransactionID)
	assert.Equal(t, "Dial *126#", result.Instructions)

	// Amount crosses the wire in cents.
	assert.Equal(t, float64(550000), got["amount"])
	assert.Equal(t, "237670000111", got["phone"])
	assert.Equal(t, "booking_abc", got["reference"])
	assert.Equal(t, "test-user", got["apiUser"])
}

func TestGatewayInitiateRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"message": "insufficient funds"})
	}))
	defer server.Close()

	_, err := testGateway(server.URL).Initiate(context.Background(), &InitiateRequest{
		Amount: 5500, MomoNumber: "237670000111", Reference: "booking_abc",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insufficient funds")
}

func TestGatewayInitiateMissingTransactionID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}))
	defer server.Close()

	_, err := testGateway(server.URL).Initiate(context.Background(), &InitiateRequest{
		Amount: 5500, MomoNumber: "237670000111", Reference: "booking_abc",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "transaction id")
}

func TestGatewayInitiateTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	gw := NewGateway(config.PaymentConfig{
		BaseURL:         server.URL,
		APIUser:         "u",
		APIKey:          "k",
		InitiateTimeout: 50 * time.Millisecond,
		VerifyTimeout:   50 * time.Millisecond,
	})

	_, err := gw.Initiate(context.Background(), &InitiateRequest{
		Amount: 100, MomoNumber: "237670000111", Reference: "booking_t",
	})
	require.Error(t, err)
}

func TestGatewayInitiateMissingCredentials(t *testing.T) {
	gw := NewGateway(config.PaymentConfig{BaseURL: "http://localhost:1"})
	_, err := gw.Initiate(context.Background(), &InitiateRequest{Amount: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "credentials")
}

func TestGatewayGetStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/transaction/tx-9", r.URL.Path)
		require.Equal(t, "test-user", r.Header.Get("api-user"))
		require.Equal(t, "test-key", r.Header.Get("api-key"))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"transactionId": "tx-9",
			"status":        "SUCCESSFUL",
			"amount":        550000,
		})
	}))
	defer server.Close()

	status, err := testGateway(server.URL).GetStatus(context.Background(), "tx-9")
	require.NoError(t, err)
	assert.True(t, status.Successful())
	assert.Equal(t, float64(550000), status.Amount)
}

func TestGatewayGetStatusNonSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "PENDING"})
	}))
	defer server.Close()

	status, err := testGateway(server.URL).GetStatus(context.Background(), "tx-9")
	require.NoError(t, err)
	assert.False(t, status.Successful())
}

func TestGatewayGetStatusServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := testGateway(server.URL).GetStatus(context.Background(), "tx-9")
	require.Error(t, err)
}

func TestMaskMomoNumber(t *testing.T) {
	assert.Equal(t, "237****111", MaskMomoNumber("237670000111"))
	assert.Equal(t, "07****", MaskMomoNumber("07000"))
	assert.Equal(t, "****", MaskMomoNumber("123"))
}

func TestToCents(t *testing.T) {
	assert.Equal(t, int64(550000), toCents(5500))
	assert.Equal(t, int64(100), toCents(1.0))
	assert.Equal(t, int64(1050), toCents(10.504))
}
