package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// Transfer routes part of an order to a linked account.
type Transfer struct {
	Account            string            `json:"account"`
	Amount             int64             `json:"amount"`
	Currency           string            `json:"currency"`
	Notes              map[string]string `json:"notes,omitempty"`
	LinkedAccountNotes []string          `json:"linked_account_notes,omitempty"`
	OnHold             int               `json:"on_hold"`
}

// OrderRequest body of POST /v1/orders. Transfers is omitted from the JSON
// entirely when empty.
type OrderRequest struct {
	Amount    int64             `json:"amount"`
	Currency  string            `json:"currency"`
	Receipt   string            `json:"receipt,omitempty"`
	Notes     map[string]string `json:"notes,omitempty"`
	Transfers []Transfer        `json:"transfers,omitempty"`
}

// WithoutTransfers returns a copy of the request with no split.
func (r OrderRequest) WithoutTransfers() OrderRequest {
	r.Transfers = nil
	return r
}

// Order the gateway's order object. Raw holds the response body unmodified.
type Order struct {
	ID       string `json:"id"`
	Entity   string `json:"entity"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
	Notes    Notes  `json:"notes"`

	Raw json.RawMessage `json:"-"`
}

// Notes order notes. The gateway sends an empty JSON array instead of an
// object when an order has none.
type Notes map[string]string

func (n *Notes) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) || bytes.Equal(trimmed, []byte("[]")) {
		*n = nil
		return nil
	}
	m := map[string]string{}
	if err := json.Unmarshal(trimmed, &m); err != nil {
		return fmt.Errorf("decode notes: %w", err)
	}
	*n = m
	return nil
}

// CreateOrder POST /v1/orders
func (c *Client) CreateOrder(ctx context.Context, req OrderRequest) (*Order, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/v1/orders", req, &raw); err != nil {
		return nil, err
	}

	var order Order
	if err := json.Unmarshal(raw, &order); err != nil {
		return nil, fmt.Errorf("failed to decode order: %w", err)
	}
	order.Raw = raw
	return &order, nil
}

// FetchOrder GET /v1/orders/{id}
func (c *Client) FetchOrder(ctx context.Context, orderID string) (*Order, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/v1/orders/"+url.PathEscape(orderID), nil, &raw); err != nil {
		return nil, err
	}

	var order Order
	if err := json.Unmarshal(raw, &order); err != nil {
		return nil, fmt.Errorf("failed to decode order: %w", err)
	}
	order.Raw = raw
	return &order, nil
}
