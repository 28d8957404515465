package logic

import (
	"regexp"
	"strings"
)

var (
	ifscPattern          = regexp.MustCompile(`^[A-Z]{4}0[A-Z0-9]{6}$`)
	panPattern           = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)
	accountNumberPattern = regexp.MustCompile(`^[0-9]{9,18}$`)
)

// ValidationError a rejected input field. Never retried.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// BankDetails settlement details supplied by a creator.
type BankDetails struct {
	AccountNumber        string
	ConfirmAccountNumber string // optional; checked only when set
	IFSCCode             string
	AccountHolderName    string
	PAN                  string
}

// Normalize trims every field and upper-cases IFSC and PAN.
func (d *BankDetails) Normalize() {
	d.AccountNumber = strings.TrimSpace(d.AccountNumber)
	d.ConfirmAccountNumber = strings.TrimSpace(d.ConfirmAccountNumber)
	d.IFSCCode = strings.ToUpper(strings.TrimSpace(d.IFSCCode))
	d.AccountHolderName = strings.TrimSpace(d.AccountHolderName)
	d.PAN = strings.ToUpper(strings.TrimSpace(d.PAN))
}

// Validate checks already normalized details and returns the first problem.
func (d *BankDetails) Validate() error {
	if d.AccountNumber == "" || d.IFSCCode == "" || d.AccountHolderName == "" || d.PAN == "" {
		return invalid("", "Missing required fields")
	}
	if !accountNumberPattern.MatchString(d.AccountNumber) {
		return invalid("bank_account_number", "Bank account number must be 9 to 18 digits")
	}
	if d.ConfirmAccountNumber != "" && d.ConfirmAccountNumber != d.AccountNumber {
		return invalid("confirm_account_number", "Account numbers do not match")
	}
	if !ValidIFSC(d.IFSCCode) {
		return invalid("bank_ifsc_code", "Invalid IFSC code format")
	}
	if !ValidPAN(d.PAN) {
		return invalid("pan", "Invalid PAN format")
	}
	return nil
}

// Last4 the only part of the account number that is ever stored.
func (d *BankDetails) Last4() string {
	if len(d.AccountNumber) <= 4 {
		return d.AccountNumber
	}
	return d.AccountNumber[len(d.AccountNumber)-4:]
}

func ValidIFSC(code string) bool {
	return ifscPattern.MatchString(code)
}

func ValidPAN(pan string) bool {
	return panPattern.MatchString(pan)
}
