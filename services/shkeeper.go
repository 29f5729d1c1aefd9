package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Provider payment statuses as delivered by SHKeeper webhooks.
const (
	ProviderStatusPaid      = "PAID"
	ProviderStatusOverpaid  = "OVERPAID"
	ProviderStatusUnderpaid = "UNDERPAID"
	ProviderStatusExpired   = "EXPIRED"
	ProviderStatusPartial   = "PARTIAL"
	ProviderStatusNew       = "NEW"
)

// ShkeeperClient talks to the SHKeeper payment gateway. All outbound calls
// are bounded by the request context; nothing in the engine blocks on the
// provider beyond the single call creating an invoice or payout task.
type ShkeeperClient struct {
	baseURL     string
	apiKey      string
	callbackURL string
	http        *http.Client
}

func NewShkeeperClient(baseURL, apiKey, callbackURL string) *ShkeeperClient {
	return &ShkeeperClient{
		baseURL:     strings.TrimRight(baseURL, "/"),
		apiKey:      apiKey,
		callbackURL: callbackURL,
		http:        &http.Client{Timeout: 15 * time.Second},
	}
}

// APIKey returns the shared secret; webhook deliveries are authenticated
// against the same value.
func (c *ShkeeperClient) APIKey() string {
	return c.apiKey
}

// Invoice is the provider's answer to a payment request.
type Invoice struct {
	InvoiceID      string
	DepositAddress string
	ExchangeRate   float64
	CryptoAmount   string
}

// CreateInvoice asks the provider for a deposit address for the given fiat
// amount, correlated by externalID so the webhook can be matched back.
func (c *ShkeeperClient) CreateInvoice(ctx context.Context, currency, network string, fiatAmount float64, externalID string) (*Invoice, error) {
	payload := map[string]interface{}{
		"external_id":  externalID,
		"fiat":         "USD",
		"amount":       fiatAmount,
		"callback_url": c.callbackURL,
	}

	var resp struct {
		Status       string  `json:"status"`
		ID           string  `json:"id"`
		Wallet       string  `json:"wallet"`
		ExchangeRate float64 `json:"exchange_rate"`
		Amount       string  `json:"amount"`
		Message      string  `json:"message"`
	}
	url := fmt.Sprintf("%s/api/v1/%s/payment_request", c.baseURL, cryptoSymbol(currency, network))
	if err := c.post(ctx, url, payload, &resp); err != nil {
		return nil, err
	}
	if resp.Status != "success" {
		return nil, fmt.Errorf("create invoice rejected: %s: %w", resp.Message, ErrProvider)
	}

	return &Invoice{
		InvoiceID:      resp.ID,
		DepositAddress: resp.Wallet,
		ExchangeRate:   resp.ExchangeRate,
		CryptoAmount:   resp.Amount,
	}, nil
}

// CreatePayoutTask asks the provider to send crypto to a destination
// address and returns the provider task id.
func (c *ShkeeperClient) CreatePayoutTask(ctx context.Context, currency, network string, amount float64, destination string) (string, error) {
	payload := map[string]interface{}{
		"amount":      amount,
		"destination": destination,
		"fee":         "network",
	}

	var resp struct {
		Status  string `json:"status"`
		TaskID  string `json:"task_id"`
		Message string `json:"message"`
	}
	url := fmt.Sprintf("%s/api/v1/%s/payout", c.baseURL, cryptoSymbol(currency, network))
	if err := c.post(ctx, url, payload, &resp); err != nil {
		return "", err
	}
	if resp.Status != "success" || resp.TaskID == "" {
		return "", fmt.Errorf("create payout rejected: %s: %w", resp.Message, ErrProvider)
	}
	return resp.TaskID, nil
}

func (c *ShkeeperClient) post(ctx context.Context, url string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shkeeper-Api-Key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("provider call failed: %v: %w", err, ErrProvider)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("provider response unreadable: %v: %w", err, ErrProvider)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("provider returned HTTP %d: %s: %w", resp.StatusCode, string(data), ErrProvider)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("provider response malformed: %v: %w", err, ErrProvider)
	}
	return nil
}

// cryptoSymbol maps a currency/network pair onto the provider's crypto
// path segment, e.g. USDT on Ethereum becomes ETH-USDT.
func cryptoSymbol(currency, network string) string {
	currency = strings.ToUpper(currency)
	network = strings.ToUpper(network)
	if network == "" || network == currency {
		return currency
	}
	return network + "-" + currency
}
