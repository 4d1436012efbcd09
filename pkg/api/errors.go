package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mchmarny/ppinet/pkg/metrics"
	"github.com/mchmarny/ppinet/pkg/neighborhood"
	"github.com/mchmarny/ppinet/pkg/network"
)

// Error code constants for standardized API responses.
const (
	ErrCodeInvalidRequest    = "invalid_request"
	ErrCodeNotFound          = "not_found"
	ErrCodeEmptyNeighborhood = "empty_neighborhood"
	ErrCodeUnavailable       = "unavailable"
	ErrCodeInternalError     = "internal_error"
)

// ErrorBody is the payload of every error response.
type ErrorBody struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// ErrorResponse wraps ErrorBody.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// respondError writes a standardized JSON error response and aborts the
// request.
func respondError(c *gin.Context, status int, code, message string) {
	metrics.ErrorsTotal.WithLabelValues(code).Inc()
	c.AbortWithStatusJSON(status, ErrorResponse{
		Error: ErrorBody{
			Code:      code,
			Message:   message,
			RequestID: c.GetString(RequestIDKey),
		},
	})
}

// handleError maps analysis errors to HTTP statuses.
func handleError(c *gin.Context, err error) {
	var (
		une *network.UnknownNodeError
		ene *neighborhood.EmptyNeighborhoodError
	)
	switch {
	case errors.As(err, &une):
		respondError(c, http.StatusNotFound, ErrCodeNotFound, err.Error())
	case errors.As(err, &ene):
		respondError(c, http.StatusUnprocessableEntity, ErrCodeEmptyNeighborhood, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		respondError(c, http.StatusServiceUnavailable, ErrCodeUnavailable, "request canceled")
	default:
		logger(c).Error("request failed", "error", err)
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal error")
	}
}
