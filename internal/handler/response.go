package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/harish-v07/CreatorHub/internal/checkout"
	"github.com/harish-v07/CreatorHub/internal/gateway"
	"github.com/harish-v07/CreatorHub/internal/logic"
	"github.com/harish-v07/CreatorHub/internal/repository"
	"github.com/harish-v07/CreatorHub/internal/signature"
)

const msgInvalidJSON = "Invalid JSON in request body"

// SuccessResponse writes the generic envelope
func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// ErrorResponse writes the generic envelope for a failure
func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, Response{
		Success: false,
		Message: message,
		Data:    nil,
	})
}

// errorStatus maps an error to its HTTP status. Gateway rejections keep the
// gateway's status when it is a client or server error.
func errorStatus(err error) int {
	var vErr *logic.ValidationError
	var gwErr *gateway.Error
	switch {
	case errors.As(err, &vErr),
		errors.Is(err, logic.ErrMissingAmount),
		errors.Is(err, logic.ErrInvalidAmount),
		errors.Is(err, signature.ErrMissingField),
		errors.Is(err, signature.ErrSignatureMismatch),
		errors.Is(err, checkout.ErrNoItems),
		errors.Is(err, checkout.ErrNoBuyer),
		errors.Is(err, checkout.ErrOrderMismatch):
		return http.StatusBadRequest
	case errors.Is(err, checkout.ErrPaymentReused):
		return http.StatusConflict
	case errors.Is(err, repository.ErrProfileNotFound):
		return http.StatusNotFound
	case errors.Is(err, gateway.ErrNotConfigured),
		errors.Is(err, signature.ErrSecretNotConfigured):
		return http.StatusInternalServerError
	case errors.As(err, &gwErr):
		if gwErr.StatusCode >= 400 {
			return gwErr.StatusCode
		}
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// writeError writes {"error": ...} with the mapped status, attaching the
// gateway's error object when there is one.
func writeError(c *gin.Context, err error) {
	writeErrorStatus(c, errorStatus(err), err, "")
}

func writeErrorStatus(c *gin.Context, status int, err error, fallback string) {
	msg := err.Error()
	body := gin.H{}

	if gwErr, ok := gateway.AsError(err); ok {
		if gwErr.Description == "" && fallback != "" {
			msg = fallback
		}
		if len(gwErr.Raw) > 0 {
			body["razorpay_error"] = gwErr.Raw
		}
	}

	body["error"] = msg
	c.JSON(status, body)
}
