// Package stripe provides a minimal HTTP client for the Stripe Checkout API
// plus webhook signature verification.
package stripe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/maherraissi/MedFlow/config"
)

var (
	ErrUnexpectedResponse = errors.New("stripe: unexpected response from gateway")
	ErrRequestFailed      = errors.New("stripe: request rejected")
)

// Client is a lightweight Stripe HTTP client.
type Client struct {
	secretKey     string
	webhookSecret string
	baseURL       string
	successURL    string
	cancelURL     string
	currency      string
	httpClient    *http.Client
}

// New creates a Client from config.
func New(cfg config.StripeConfig) *Client {
	currency := cfg.Currency
	if currency == "" {
		currency = "usd"
	}
	return &Client{
		secretKey:     cfg.SecretKey,
		webhookSecret: cfg.WebhookSecret,
		baseURL:       "https://api.stripe.com/v1",
		successURL:    cfg.SuccessURL,
		cancelURL:     cfg.CancelURL,
		currency:      currency,
		httpClient:    &http.Client{Timeout: 30 * time.Second},
	}
}

// CheckoutSession is the subset of the Stripe checkout session object we use.
type CheckoutSession struct {
	ID       string            `json:"id"`
	URL      string            `json:"url"`
	Status   string            `json:"status"`
	Metadata map[string]string `json:"metadata"`
}

// CreateCheckoutSession starts a hosted checkout for a single invoice.
// amount is in the major currency unit; Stripe wants the minor unit.
func (c *Client) CreateCheckoutSession(ctx context.Context, invoiceID, description string, amount float64) (*CheckoutSession, error) {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("success_url", c.successURL)
	form.Set("cancel_url", c.cancelURL)
	form.Set("line_items[0][quantity]", "1")
	form.Set("line_items[0][price_data][currency]", c.currency)
	form.Set("line_items[0][price_data][product_data][name]", description)
	form.Set("line_items[0][price_data][unit_amount]", fmt.Sprintf("%d", int64(amount*100)))
	form.Set("metadata[invoiceId]", invoiceID)

	var session CheckoutSession
	if err := c.postForm(ctx, "/checkout/sessions", form, &session); err != nil {
		return nil, fmt.Errorf("stripe checkout: %w", err)
	}

	if session.ID == "" || session.URL == "" {
		return nil, ErrUnexpectedResponse
	}

	return &session, nil
}

// postForm sends a form-encoded POST request and decodes the JSON response into out.
func (c *Client) postForm(ctx context.Context, path string, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		var apiErr struct {
			Error struct {
				Type    string `json:"type"`
				Message string `json:"message"`
			} `json:"error"`
		}
		if err := json.NewDecoder(res.Body).Decode(&apiErr); err != nil {
			return fmt.Errorf("%w (status=%d)", ErrRequestFailed, res.StatusCode)
		}
		return fmt.Errorf("%w (status=%d, type=%s, msg=%s)",
			ErrRequestFailed, res.StatusCode, apiErr.Error.Type, apiErr.Error.Message)
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
