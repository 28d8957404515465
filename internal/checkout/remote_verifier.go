package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrRejected the verify endpoint answered that the proof is invalid.
var ErrRejected = errors.New("payment verification rejected")

// RemoteVerifier calls a running server's verify endpoint. It is the Verifier
// used by processes that do not hold the gateway secret.
type RemoteVerifier struct {
	endpoint string
	http     *http.Client
}

func NewRemoteVerifier(baseURL string, timeout time.Duration) *RemoteVerifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &RemoteVerifier{
		endpoint: strings.TrimRight(baseURL, "/") + "/api/v1/payments/verify",
		http:     &http.Client{Timeout: timeout},
	}
}

type verifyResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (v *RemoteVerifier) Verify(ctx context.Context, orderID, paymentID, signature string) error {
	payload, err := json.Marshal(map[string]string{
		"razorpay_order_id":   orderID,
		"razorpay_payment_id": paymentID,
		"razorpay_signature":  signature,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal verify request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create verify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.http.Do(req)
	if err != nil {
		return fmt.Errorf("verify request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read verify response: %w", err)
	}

	var out verifyResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return fmt.Errorf("unexpected verify response (%d): %s", resp.StatusCode, string(body))
	}
	if resp.StatusCode == http.StatusOK && out.Success {
		return nil
	}
	if out.Error != "" {
		return fmt.Errorf("%w: %s", ErrRejected, out.Error)
	}
	return ErrRejected
}
