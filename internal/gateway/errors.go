package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNotConfigured is returned before any request when the key pair is missing.
var ErrNotConfigured = errors.New("Razorpay API keys not configured")

// Error is a rejection returned by the gateway API.
type Error struct {
	StatusCode  int
	Code        string
	Description string
	Reason      string
	Source      string
	Step        string
	Field       string

	// Raw is the gateway's "error" object as received.
	Raw json.RawMessage
}

func (e *Error) Error() string {
	if e.Description != "" {
		return e.Description
	}
	if e.Code != "" {
		return fmt.Sprintf("gateway error %d: %s", e.StatusCode, e.Code)
	}
	return fmt.Sprintf("gateway error %d", e.StatusCode)
}

type errorEnvelope struct {
	Error json.RawMessage `json:"error"`
}

type errorBody struct {
	Code        string `json:"code"`
	Description string `json:"description"`
	Reason      string `json:"reason"`
	Source      string `json:"source"`
	Step        string `json:"step"`
	Field       string `json:"field"`
}

func decodeError(status int, body []byte) *Error {
	gwErr := &Error{StatusCode: status}

	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err != nil || len(env.Error) == 0 {
		gwErr.Description = strings.TrimSpace(string(body))
		return gwErr
	}
	gwErr.Raw = env.Error

	var eb errorBody
	if err := json.Unmarshal(env.Error, &eb); err == nil {
		gwErr.Code = eb.Code
		gwErr.Description = eb.Description
		gwErr.Reason = eb.Reason
		gwErr.Source = eb.Source
		gwErr.Step = eb.Step
		gwErr.Field = eb.Field
	}
	return gwErr
}

// AsError unwraps err into a gateway rejection.
func AsError(err error) (*Error, bool) {
	var gwErr *Error
	if errors.As(err, &gwErr) {
		return gwErr, true
	}
	return nil, false
}

// IsAccountNotActivated matches the rejection the gateway gives for a split
// order whose destination sub-account has not finished activation. The
// gateway has no dedicated code for it, so this matches on text.
func IsAccountNotActivated(err error) bool {
	gwErr, ok := AsError(err)
	if !ok {
		return false
	}
	return mentions(gwErr.Reason, "activat") || mentions(gwErr.Description, "activat")
}

// IsAlreadyExists matches "already requested/exists" rejections on product
// registration.
func IsAlreadyExists(err error) bool {
	gwErr, ok := AsError(err)
	if !ok {
		return false
	}
	return mentions(gwErr.Description, "already")
}

func mentions(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), sub)
}
