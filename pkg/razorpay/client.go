// Package razorpay is a minimal client for the Razorpay Orders API and
// checkout signature verification.
package razorpay

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"
)

// Client calls the Razorpay REST API
type Client struct {
	baseURL   string
	keyID     string
	keySecret string
	client    *http.Client
}

// Config holds Razorpay API credentials
type Config struct {
	BaseURL   string
	KeyID     string
	KeySecret string
}

// NewClient creates a new Razorpay client
func NewClient(cfg Config) *Client {
	return &Client{
		baseURL:   cfg.BaseURL,
		keyID:     cfg.KeyID,
		keySecret: cfg.KeySecret,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// KeyID returns the public key id for checkout initialization
func (c *Client) KeyID() string {
	return c.keyID
}

type createOrderRequest struct {
	Amount   int64  `json:"amount"` // smallest currency unit (paise)
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

// Order is a created gateway order
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

type apiError struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// CreateOrder creates a gateway order for the given rupee amount
func (c *Client) CreateOrder(amount float64) (*Order, error) {
	orderReq := createOrderRequest{
		Amount:   int64(math.Round(amount * 100)),
		Currency: "INR",
		Receipt:  fmt.Sprintf("txn_%d", time.Now().UnixNano()),
	}

	jsonData, err := json.Marshal(orderReq)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal order request: %w", err)
	}

	url := fmt.Sprintf("%s/orders", c.baseURL)
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create order request: %w", err)
	}

	req.SetBasicAuth(c.keyID, c.keySecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send order request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read order response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Description != "" {
			return nil, fmt.Errorf("order creation failed: %s (code: %s)", apiErr.Error.Description, apiErr.Error.Code)
		}
		return nil, fmt.Errorf("order creation failed with status %d", resp.StatusCode)
	}

	var order Order
	if err := json.Unmarshal(body, &order); err != nil {
		return nil, fmt.Errorf("failed to parse order response: %w", err)
	}

	return &order, nil
}

// VerifySignature checks the checkout callback signature. Razorpay signs
// "<orderId>|<paymentId>" with HMAC-SHA256 under the key secret.
func (c *Client) VerifySignature(orderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(c.keySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
