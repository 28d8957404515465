package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/harish-v07/CreatorHub/internal/gateway"
	"github.com/harish-v07/CreatorHub/internal/logger"
	"github.com/harish-v07/CreatorHub/internal/logic"
	"github.com/harish-v07/CreatorHub/internal/middleware"
	"github.com/harish-v07/CreatorHub/internal/model"
	"github.com/harish-v07/CreatorHub/internal/repository"
)

const msgProvisioned = "Payment details added successfully. Razorpay will verify your bank account shortly."

// Provisioner is satisfied by *logic.LinkedAccountLogic
type Provisioner interface {
	Provision(ctx context.Context, req logic.ProvisionRequest) (*logic.ProvisionResult, error)
}

type ProfileReader interface {
	Get(ctx context.Context, creatorID string) (*model.CreatorProfileModel, error)
}

type LinkedAccountHandler struct {
	provisioner Provisioner
	profiles    ProfileReader
}

func NewLinkedAccountHandler(provisioner Provisioner, profiles ProfileReader) *LinkedAccountHandler {
	return &LinkedAccountHandler{provisioner: provisioner, profiles: profiles}
}

// CreateLinkedAccount POST /api/v1/creators/linked-account
func (h *LinkedAccountHandler) CreateLinkedAccount(c *gin.Context) {
	var req LinkedAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidJSON})
		return
	}

	email := req.Email
	if email == "" {
		email = middleware.Email(c)
	}

	result, err := h.provisioner.Provision(c.Request.Context(), logic.ProvisionRequest{
		CreatorID: middleware.UserID(c),
		Email:     email,
		Phone:     strings.TrimSpace(req.Phone),
		Bank: logic.BankDetails{
			AccountNumber:        req.BankAccountNumber,
			ConfirmAccountNumber: req.ConfirmAccountNumber,
			IFSCCode:             req.IFSCCode,
			AccountHolderName:    req.AccountHolderName,
			PAN:                  req.PAN,
		},
	})
	if err != nil {
		logger.Error("[%s] Linked account provisioning failed for %s: %v", middleware.GetRequestID(c), middleware.UserID(c), err)
		status := errorStatus(err)
		if _, ok := gateway.AsError(err); ok {
			status = http.StatusBadRequest
		}
		writeErrorStatus(c, status, err, "")
		return
	}

	c.JSON(http.StatusOK, LinkedAccountResponse{
		Success:   true,
		AccountID: result.AccountID,
		Message:   msgProvisioned,
	})
}

// GetLinkedAccount GET /api/v1/creators/linked-account
func (h *LinkedAccountHandler) GetLinkedAccount(c *gin.Context) {
	profile, err := h.profiles.Get(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			ErrorResponse(c, http.StatusNotFound, err.Error())
			return
		}
		ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "ok", LinkedAccountStatus{
		HasPaymentDetails: profile.PaymentDetailsVerified && profile.HasRoutableAccount(),
		AccountID:         profile.AccountID(),
		BankAccountLast4:  profile.BankAccountLast4,
		AccountHolderName: profile.AccountHolderName,
		IFSCCode:          profile.IFSCCode,
		PAN:               maskPAN(profile.PANNumber),
		KYCSubmitted:      profile.KYCSubmittedAt != nil,
	})
}

func maskPAN(pan string) string {
	if len(pan) <= 4 {
		return pan
	}
	return strings.Repeat("X", len(pan)-4) + pan[len(pan)-4:]
}
