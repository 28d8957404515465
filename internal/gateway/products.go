package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

const RouteProduct = "route"

// Product a product configuration registered on a linked account
type Product struct {
	ID               string `json:"id"`
	ProductName      string `json:"product_name"`
	ActivationStatus string `json:"activation_status"`
}

// Settlements bank details for route settlements
type Settlements struct {
	AccountNumber   string `json:"account_number"`
	IFSCCode        string `json:"ifsc_code"`
	BeneficiaryName string `json:"beneficiary_name"`
}

type ProductUpdate struct {
	Settlements Settlements `json:"settlements"`
	TNCAccepted bool        `json:"tnc_accepted"`
}

func productsPath(accountID string) string {
	return "/v2/accounts/" + url.PathEscape(accountID) + "/products"
}

// RequestProduct POST /v2/accounts/{id}/products
func (c *Client) RequestProduct(ctx context.Context, accountID, productName string) (*Product, error) {
	body := map[string]interface{}{
		"product_name": productName,
		"tnc_accepted": true,
	}

	var p Product
	if err := c.do(ctx, http.MethodPost, productsPath(accountID), body, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListProducts GET /v2/accounts/{id}/products. The body has been observed both
// as {"items": [...]} and as a bare array.
func (c *Client) ListProducts(ctx context.Context, accountID string) ([]Product, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, productsPath(accountID), nil, &raw); err != nil {
		return nil, err
	}

	var wrapped struct {
		Items []Product `json:"items"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && len(wrapped.Items) > 0 {
		return wrapped.Items, nil
	}

	var bare []Product
	if err := json.Unmarshal(raw, &bare); err == nil {
		return bare, nil
	}
	return nil, fmt.Errorf("unexpected product list body: %s", string(raw))
}

// UpdateProduct PATCH /v2/accounts/{id}/products/{pid}
func (c *Client) UpdateProduct(ctx context.Context, accountID, productID string, update ProductUpdate) (*Product, error) {
	var p Product
	path := productsPath(accountID) + "/" + url.PathEscape(productID)
	if err := c.do(ctx, http.MethodPatch, path, update, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
