package handler

import (
	"github.com/harish-v07/CreatorHub/internal/checkout"
	"github.com/harish-v07/CreatorHub/internal/logic"
	"github.com/harish-v07/CreatorHub/internal/model"
)

// Response generic envelope
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// Orders

type CreateOrderRequest struct {
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	Description string  `json:"description"`
	Receipt     string  `json:"receipt"`
	CreatorID   string  `json:"creator_id"`
	CourseID    string  `json:"course_id"`
	ProductID   string  `json:"product_id"`
	ItemID      string  `json:"item_id"`
	ItemType    string  `json:"item_type"`
}

func (r CreateOrderRequest) toLogic() logic.CreateOrderRequest {
	return logic.CreateOrderRequest{
		Amount:      r.Amount,
		Currency:    r.Currency,
		Description: r.Description,
		Receipt:     r.Receipt,
		CreatorID:   r.CreatorID,
		CourseID:    r.CourseID,
		ProductID:   r.ProductID,
		ItemID:      r.ItemID,
		ItemType:    model.ItemType(r.ItemType),
	}
}

// Payments

type VerifyPaymentRequest struct {
	OrderID   string `json:"razorpay_order_id"`
	PaymentID string `json:"razorpay_payment_id"`
	Signature string `json:"razorpay_signature"`
}

type FinalizeItem struct {
	ItemID   string `json:"item_id" binding:"required"`
	ItemType string `json:"item_type" binding:"required,oneof=course product"`
	Amount   int64  `json:"amount"`
}

type FinalizePaymentRequest struct {
	VerifyPaymentRequest
	Items    []FinalizeItem `json:"items" binding:"dive"`
	Currency string         `json:"currency"`
	FromCart bool           `json:"from_cart"`
}

func (r FinalizePaymentRequest) toCheckout(buyerID string) checkout.FinalizeRequest {
	items := make([]checkout.Item, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, checkout.Item{
			ItemID:   it.ItemID,
			ItemType: model.ItemType(it.ItemType),
			Amount:   it.Amount,
		})
	}
	return checkout.FinalizeRequest{
		BuyerID: buyerID,
		Proof: checkout.Proof{
			OrderID:   r.OrderID,
			PaymentID: r.PaymentID,
			Signature: r.Signature,
		},
		Items:    items,
		Currency: r.Currency,
		FromCart: r.FromCart,
	}
}

type DismissPaymentRequest struct {
	OrderID string `json:"razorpay_order_id"`
}

type FinalizePaymentResponse struct {
	Success     bool     `json:"success"`
	Outcome     string   `json:"outcome"`
	Message     string   `json:"message,omitempty"`
	Error       string   `json:"error,omitempty"`
	Code        string   `json:"code,omitempty"`
	Redirect    string   `json:"redirect,omitempty"`
	FailedItems []string `json:"failed_items,omitempty"`
}

// Linked accounts

type LinkedAccountRequest struct {
	BankAccountNumber    string `json:"bank_account_number"`
	ConfirmAccountNumber string `json:"confirm_account_number"`
	IFSCCode             string `json:"bank_ifsc_code"`
	AccountHolderName    string `json:"bank_account_name"`
	PAN                  string `json:"pan"`
	Email                string `json:"email"`
	Phone                string `json:"phone"`
}

type LinkedAccountResponse struct {
	Success   bool   `json:"success"`
	AccountID string `json:"account_id"`
	Message   string `json:"message"`
}

type LinkedAccountStatus struct {
	HasPaymentDetails bool   `json:"has_payment_details"`
	AccountID         string `json:"account_id"`
	BankAccountLast4  string `json:"bank_account_number"`
	AccountHolderName string `json:"bank_account_name"`
	IFSCCode          string `json:"bank_ifsc_code"`
	PAN               string `json:"pan"` // masked
	KYCSubmitted      bool   `json:"kyc_submitted"`
}
