package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// OTPSender obtains a one-time code for a phone number from an external
// delivery provider. The provider sends the SMS itself and returns the pin.
type OTPSender interface {
	Send(ctx context.Context, phone string) (string, error)
}

// PinAPIClient talks to the pin delivery HTTP API.
type PinAPIClient struct {
	baseURL  string
	apiToken string
	testMode bool
	client   *http.Client
}

// NewPinAPIClient creates a new PinAPIClient. In test mode the provider
// returns a pin without delivering an SMS.
func NewPinAPIClient(baseURL, apiToken string, testMode bool) *PinAPIClient {
	return &PinAPIClient{
		baseURL:  baseURL,
		apiToken: apiToken,
		testMode: testMode,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// Send requests a new pin for the given phone number
func (c *PinAPIClient) Send(ctx context.Context, phone string) (string, error) {
	url := c.baseURL + "/pins"
	if c.testMode {
		url += "?test="
	}

	body, err := json.Marshal(map[string]string{"phone": phone})
	if err != nil {
		return "", fmt.Errorf("failed to marshal pin request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build pin request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiToken)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("pin provider request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("pin provider returned status %d", resp.StatusCode)
	}

	var result struct {
		Pin string `json:"pin"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode pin response: %w", err)
	}
	if result.Pin == "" {
		return "", fmt.Errorf("pin provider returned an empty pin")
	}
	return result.Pin, nil
}
