package gateway

import (
	"context"
	"net/http"
	"net/url"
)

type StakeholderRelationship struct {
	Director bool `json:"director"`
}

type StakeholderPhone struct {
	Primary string `json:"primary"`
}

type StakeholderKYC struct {
	PAN string `json:"pan"`
}

// StakeholderRequest body of POST /v2/accounts/{id}/stakeholders
type StakeholderRequest struct {
	Name         string                  `json:"name"`
	Email        string                  `json:"email"`
	Relationship StakeholderRelationship `json:"relationship"`
	Phone        StakeholderPhone        `json:"phone"`
	Addresses    map[string]Address      `json:"addresses"`
	KYC          StakeholderKYC          `json:"kyc"`
}

type Stakeholder struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// CreateStakeholder submits KYC details, which starts account activation.
func (c *Client) CreateStakeholder(ctx context.Context, accountID string, req StakeholderRequest) (*Stakeholder, error) {
	var s Stakeholder
	path := "/v2/accounts/" + url.PathEscape(accountID) + "/stakeholders"
	if err := c.do(ctx, http.MethodPost, path, req, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
