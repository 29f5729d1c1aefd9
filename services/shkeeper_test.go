package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateInvoice(t *testing.T) {
	t.Run("success returns wallet and invoice id", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/v1/ETH-USDT/payment_request", r.URL.Path)
			assert.Equal(t, "secret", r.Header.Get("X-Shkeeper-Api-Key"))

			var body map[string]interface{}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "dep-123", body["external_id"])
			assert.Equal(t, "https://example.com/hook", body["callback_url"])

			json.NewEncoder(w).Encode(map[string]interface{}{
				"status":        "success",
				"id":            "inv-42",
				"wallet":        "0xabc",
				"exchange_rate": 1.0,
				"amount":        "50.00",
			})
		}))
		defer server.Close()

		client := NewShkeeperClient(server.URL, "secret", "https://example.com/hook")
		invoice, err := client.CreateInvoice(context.Background(), "USDT", "ETH", 50, "dep-123")

		require.NoError(t, err)
		assert.Equal(t, "inv-42", invoice.InvoiceID)
		assert.Equal(t, "0xabc", invoice.DepositAddress)
	})

	t.Run("provider rejection is a provider error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status":  "error",
				"message": "unsupported crypto",
			})
		}))
		defer server.Close()

		client := NewShkeeperClient(server.URL, "secret", "")
		_, err := client.CreateInvoice(context.Background(), "USDT", "ETH", 50, "dep-123")

		assert.ErrorIs(t, err, ErrProvider)
	})

	t.Run("HTTP failure is a provider error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		client := NewShkeeperClient(server.URL, "secret", "")
		_, err := client.CreateInvoice(context.Background(), "USDT", "ETH", 50, "dep-123")

		assert.ErrorIs(t, err, ErrProvider)
	})
}

func TestCreatePayoutTask(t *testing.T) {
	t.Run("success returns task id", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/v1/TRX-USDT/payout", r.URL.Path)

			var body map[string]interface{}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "TAddr1", body["destination"])

			json.NewEncoder(w).Encode(map[string]interface{}{
				"status":  "success",
				"task_id": "task-7",
			})
		}))
		defer server.Close()

		client := NewShkeeperClient(server.URL, "secret", "")
		taskID, err := client.CreatePayoutTask(context.Background(), "USDT", "TRX", 120, "TAddr1")

		require.NoError(t, err)
		assert.Equal(t, "task-7", taskID)
	})

	t.Run("missing task id is a provider error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]interface{}{"status": "success"})
		}))
		defer server.Close()

		client := NewShkeeperClient(server.URL, "secret", "")
		_, err := client.CreatePayoutTask(context.Background(), "USDT", "TRX", 120, "TAddr1")

		assert.ErrorIs(t, err, ErrProvider)
	})
}

func TestCryptoSymbol(t *testing.T) {
	assert.Equal(t, "BTC", cryptoSymbol("btc", ""))
	assert.Equal(t, "ETH", cryptoSymbol("ETH", "eth"))
	assert.Equal(t, "ETH-USDT", cryptoSymbol("usdt", "eth"))
	assert.Equal(t, "TRX-USDT", cryptoSymbol("USDT", "TRX"))
}
