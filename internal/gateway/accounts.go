package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

type Address struct {
	Street1    string `json:"street1,omitempty"`
	Street2    string `json:"street2,omitempty"`
	Street     string `json:"street,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

type AccountProfile struct {
	Category    string                `json:"category"`
	Subcategory string                `json:"subcategory"`
	Addresses   map[string]Address `json:"addresses"`
}

// AccountRequest body of POST /v2/accounts
type AccountRequest struct {
	Email             string         `json:"email"`
	Phone             string         `json:"phone"`
	Type              string         `json:"type"`
	LegalBusinessName string         `json:"legal_business_name"`
	BusinessType      string         `json:"business_type"`
	ContactName       string         `json:"contact_name"`
	Profile           AccountProfile `json:"profile"`
}

// Account a linked (sub-merchant) account
type Account struct {
	ID                string `json:"id"`
	Email             string `json:"email"`
	Type              string `json:"type"`
	Status            string `json:"status"`
	LegalBusinessName string `json:"legal_business_name"`
}

type accountList struct {
	Items []Account `json:"items"`
	Count int       `json:"count"`
}

// CreateAccount POST /v2/accounts
func (c *Client) CreateAccount(ctx context.Context, req AccountRequest) (*Account, error) {
	var acc Account
	if err := c.do(ctx, http.MethodPost, "/v2/accounts", req, &acc); err != nil {
		return nil, err
	}
	if acc.ID == "" {
		return nil, fmt.Errorf("account creation returned no id")
	}
	return &acc, nil
}

// ListAccounts GET /v2/accounts?type=...&count=...
func (c *Client) ListAccounts(ctx context.Context, accountType string, count int) ([]Account, error) {
	q := url.Values{}
	if accountType != "" {
		q.Set("type", accountType)
	}
	if count > 0 {
		q.Set("count", strconv.Itoa(count))
	}

	var list accountList
	if err := c.do(ctx, http.MethodGet, "/v2/accounts?"+q.Encode(), nil, &list); err != nil {
		return nil, err
	}
	return list.Items, nil
}

// SuspendAccount deactivates a linked account. The API has no delete.
func (c *Client) SuspendAccount(ctx context.Context, accountID string) (*Account, error) {
	body := map[string]interface{}{
		"profile": map[string]interface{}{"suspended": true},
	}

	var acc Account
	if err := c.do(ctx, http.MethodPatch, "/v2/accounts/"+url.PathEscape(accountID), body, &acc); err != nil {
		return nil, err
	}
	return &acc, nil
}
