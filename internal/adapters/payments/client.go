package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/theChristopher16/pack1703-portal-sub002/internal/domain"
)

// Config holds the settings for the hosted payments API.
type Config struct {
	BaseURL       string
	AccessToken   string
	ApplicationID string
	LocationID    string
}

type httpProvider struct {
	client *http.Client
	config Config
}

// NewHTTPProvider returns a PaymentProvider that calls the hosted payments API.
func NewHTTPProvider(client *http.Client, config Config) domain.PaymentProvider {
	if client == nil {
		client = http.DefaultClient
	}
	return &httpProvider{client: client, config: config}
}

type createPaymentRequest struct {
	AmountCents int    `json:"amount_cents"`
	Currency    string `json:"currency"`
	Reference   string `json:"reference"`
	LocationID  string `json:"location_id"`
}

type createPaymentResponse struct {
	PaymentID string `json:"payment_id"`
}

func (p *httpProvider) CreatePayment(ctx context.Context, amountCents int, currency, reference string) (string, string, string, error) {
	body, err := json.Marshal(createPaymentRequest{
		AmountCents: amountCents,
		Currency:    currency,
		Reference:   reference,
		LocationID:  p.config.LocationID,
	})
	if err != nil {
		return "", "", "", fmt.Errorf("failed to encode payment request: %w", err)
	}
	url := p.config.BaseURL + "/v2/payments"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", "", "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.config.AccessToken)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", "", "", fmt.Errorf("failed to call payments api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", "", "", fmt.Errorf("payments api returned status: %d", resp.StatusCode)
	}

	var data createPaymentResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", "", "", fmt.Errorf("failed to decode payments response: %w", err)
	}
	if data.PaymentID == "" {
		return "", "", "", fmt.Errorf("payments api returned empty payment id")
	}
	return data.PaymentID, p.config.ApplicationID, p.config.LocationID, nil
}

type completePaymentRequest struct {
	SourceID string `json:"source_id"`
}

func (p *httpProvider) CompletePayment(ctx context.Context, providerPaymentID, nonce string) error {
	body, err := json.Marshal(completePaymentRequest{SourceID: nonce})
	if err != nil {
		return fmt.Errorf("failed to encode complete request: %w", err)
	}
	url := fmt.Sprintf("%s/v2/payments/%s/complete", p.config.BaseURL, providerPaymentID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.config.AccessToken)

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call payments api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("payments api returned status: %d", resp.StatusCode)
	}
	return nil
}
