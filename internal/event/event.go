// Package event publishes payment domain events to Kafka.
package event

import (
	"context"
	"time"
)

// Topic suffixes; the configured prefix is prepended on publish.
const (
	TopicPurchaseCompleted        = "purchase.completed"
	TopicPurchaseUnrecorded       = "purchase.unrecorded"
	TopicLinkedAccountProvisioned = "linked_account.provisioned"
)

// Envelope wraps every payload on the wire.
type Envelope struct {
	Type       string      `json:"type"`
	OccurredAt time.Time   `json:"occurred_at"`
	Payload    interface{} `json:"payload"`
}

type PurchasedItem struct {
	ItemID   string `json:"item_id"`
	ItemType string `json:"item_type"`
	Amount   int64  `json:"amount"`
}

type PurchaseCompleted struct {
	BuyerID   string          `json:"buyer_id"`
	OrderID   string          `json:"razorpay_order_id"`
	PaymentID string          `json:"razorpay_payment_id"`
	Items     []PurchasedItem `json:"items"`
}

// PurchaseUnrecorded a verified payment with at least one row that could not
// be written; needs manual reconciliation.
type PurchaseUnrecorded struct {
	BuyerID       string   `json:"buyer_id"`
	OrderID       string   `json:"razorpay_order_id"`
	PaymentID     string   `json:"razorpay_payment_id"`
	FailedItemIDs []string `json:"failed_item_ids"`
}

type LinkedAccountProvisioned struct {
	CreatorID    string `json:"creator_id"`
	AccountID    string `json:"account_id"`
	Reused       bool   `json:"reused"`
	KYCSubmitted bool   `json:"kyc_submitted"`
}

// Publisher sends an event keyed by key to topic.
type Publisher interface {
	Publish(ctx context.Context, topic, key string, payload interface{}) error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, string, interface{}) error { return nil }
