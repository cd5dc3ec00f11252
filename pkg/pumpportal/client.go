// Package pumpportal is a minimal client for the PumpPortal trade API,
// covering only what the emergency liquidation tool needs: authenticated
// sell orders against the Lightning endpoint.
package pumpportal

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultBaseURL = "https://pumpportal.fun/api/trade"

// TradeRequest holds the trade parameters the API expects. Amount is a
// string because the API accepts both absolute token amounts and
// percentage forms like "100%".
type TradeRequest struct {
	Action           string  `json:"action"` // "buy" or "sell"
	Mint             string  `json:"mint"`
	Amount           string  `json:"amount"`
	DenominatedInSOL string  `json:"denominatedInSol"` // API wants "true"/"false"
	Slippage         int     `json:"slippage"`
	PriorityFee      float64 `json:"priorityFee"`
	Pool             string  `json:"pool,omitempty"`
}

// TradeResponse is the API reply. Exactly one of Signature and Error is
// meaningful.
type TradeResponse struct {
	Signature string `json:"signature"`
	Error     string `json:"errors"`
}

// Client calls the PumpPortal trade API.
type Client struct {
	http    *resty.Client
	apiKey  string
	baseURL string
}

// New creates a client authenticated with the given API key.
func New(apiKey string) *Client {
	return &Client{
		http:    resty.New().SetTimeout(30 * time.Second),
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
	}
}

// SetBaseURL overrides the API endpoint. Used by tests.
func (c *Client) SetBaseURL(url string) { c.baseURL = url }

// Trade executes one trade and returns the transaction signature.
func (c *Client) Trade(ctx context.Context, req TradeRequest) (string, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("api-key", c.apiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		Post(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("pumpportal: trade request: %w", err)
	}

	var out TradeResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return "", fmt.Errorf("pumpportal: unexpected reply (HTTP %d): %s", resp.StatusCode(), resp.String())
	}
	if !resp.IsSuccess() || out.Error != "" {
		msg := out.Error
		if msg == "" {
			msg = fmt.Sprintf("HTTP %d: %s", resp.StatusCode(), resp.String())
		}
		return "", fmt.Errorf("pumpportal: %s", msg)
	}
	if out.Signature == "" {
		return "unknown", nil
	}
	return out.Signature, nil
}

// SellAll sells 100% of a position with the fixed emergency parameters
// the bots use: 20% slippage, 0.0001 SOL priority fee, pump pool.
func (c *Client) SellAll(ctx context.Context, mint string) (string, error) {
	return c.Trade(ctx, TradeRequest{
		Action:           "sell",
		Mint:             mint,
		Amount:           "100%",
		DenominatedInSOL: "false",
		Slippage:         20,
		PriorityFee:      0.0001,
		Pool:             "pump",
	})
}
