package model

import (
	"strings"
	"time"
)

// RoutableAccountPrefix marks a gateway id as an activated route sub-account.
const RoutableAccountPrefix = "acc_"

// CreatorProfileModel the payment-facing subset of a creator profile
type CreatorProfileModel struct {
	Id        string    `json:"id" gorm:"primaryKey;size:36"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`

	// Linked account
	GatewayAccountId *string `json:"razorpay_account_id" gorm:"column:razorpay_account_id;index"`

	// Settlement details, written only after provisioning succeeds
	BankAccountLast4  string `json:"bank_account_number" gorm:"column:bank_account_number;size:4"`
	IFSCCode          string `json:"bank_ifsc_code" gorm:"column:bank_ifsc_code;size:11"`
	AccountHolderName string `json:"bank_account_name" gorm:"column:bank_account_name"`
	PANNumber         string `json:"pan_card_number" gorm:"column:pan_card_number;size:10"`

	PaymentDetailsVerified bool       `json:"payment_details_verified" gorm:"default:false"`
	KYCSubmittedAt         *time.Time `json:"kyc_submitted_at"`
	KYCAttemptedAt         *time.Time `json:"kyc_attempted_at"` // last failed stakeholder submission
	DetailsVerifiedAt      *time.Time `json:"payment_details_added_at" gorm:"column:payment_details_added_at"`
}

// TableName overrides the table name
func (CreatorProfileModel) TableName() string {
	return "profiles"
}

// AccountID returns the stored gateway account id, or "".
func (p *CreatorProfileModel) AccountID() string {
	if p == nil || p.GatewayAccountId == nil {
		return ""
	}
	return *p.GatewayAccountId
}

// HasRoutableAccount reports whether the profile can receive split transfers.
func (p *CreatorProfileModel) HasRoutableAccount() bool {
	return IsRoutableAccountID(p.AccountID())
}

// IsRoutableAccountID is the single check for "this id may be a transfer destination".
func IsRoutableAccountID(id string) bool {
	return strings.HasPrefix(id, RoutableAccountPrefix) && len(id) > len(RoutableAccountPrefix)
}
