package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/harish-v07/CreatorHub/internal/checkout"
	"github.com/harish-v07/CreatorHub/internal/logger"
	"github.com/harish-v07/CreatorHub/internal/middleware"
	"github.com/harish-v07/CreatorHub/internal/signature"
)

const CodeCapturedNotRecorded = "payment_captured_not_recorded"

// PaymentFinalizer is satisfied by *checkout.Finalizer
type PaymentFinalizer interface {
	Finalize(ctx context.Context, req checkout.FinalizeRequest) (*checkout.Result, error)
	Dismiss(ctx context.Context, orderID string) *checkout.Result
}

type PaymentHandler struct {
	verifier  checkout.Verifier
	finalizer PaymentFinalizer
}

func NewPaymentHandler(verifier checkout.Verifier, finalizer PaymentFinalizer) *PaymentHandler {
	return &PaymentHandler{verifier: verifier, finalizer: finalizer}
}

// VerifyPayment POST /api/v1/payments/verify
func (h *PaymentHandler) VerifyPayment(c *gin.Context) {
	var req VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidJSON, "success": false})
		return
	}

	if err := h.verifier.Verify(c.Request.Context(), req.OrderID, req.PaymentID, req.Signature); err != nil {
		logger.Warn("[%s] Payment verification failed for order %s: %v", middleware.GetRequestID(c), req.OrderID, err)
		status := http.StatusBadRequest
		if errors.Is(err, signature.ErrSecretNotConfigured) {
			status = http.StatusInternalServerError
		}
		c.JSON(status, gin.H{"error": err.Error(), "success": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Payment verified successfully"})
}

// FinalizePayment POST /api/v1/payments/finalize
func (h *PaymentHandler) FinalizePayment(c *gin.Context) {
	var req FinalizePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidJSON, "success": false})
		return
	}

	result, err := h.finalizer.Finalize(c.Request.Context(), req.toCheckout(middleware.UserID(c)))
	if err != nil {
		writeError(c, err)
		return
	}

	resp := FinalizePaymentResponse{Outcome: string(result.Outcome)}
	status := http.StatusOK

	switch result.Outcome {
	case checkout.OutcomeCompleted:
		resp.Success = true
		resp.Message = result.Message
		resp.Redirect = result.Redirect
	case checkout.OutcomeVerificationFailed:
		status = http.StatusBadRequest
		resp.Error = result.Message
	case checkout.OutcomeCapturedNotRecorded:
		status = http.StatusInternalServerError
		resp.Error = result.Message
		resp.Code = CodeCapturedNotRecorded
		resp.FailedItems = result.FailedItemIDs
		logger.Error("[%s] %s: order=%s payment=%s", middleware.GetRequestID(c), CodeCapturedNotRecorded, req.OrderID, req.PaymentID)
	}

	c.JSON(status, resp)
}

// DismissPayment POST /api/v1/payments/dismiss
func (h *PaymentHandler) DismissPayment(c *gin.Context) {
	var req DismissPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidJSON, "success": false})
		return
	}

	result := h.finalizer.Dismiss(c.Request.Context(), req.OrderID)
	c.JSON(http.StatusOK, FinalizePaymentResponse{
		Outcome: string(result.Outcome),
		Message: result.Message,
	})
}
