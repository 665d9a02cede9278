package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zvrva/tablebooking/internal/domain"
)

type errorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

// respondError translates domain error codes into HTTP statuses. Untyped
// errors stay opaque 500s.
func respondError(c *gin.Context, err error) {
	code := domain.CodeOf(err)
	c.JSON(statusFor(code), errorResponse{Code: string(code), Error: err.Error()})
}

func statusFor(code domain.ErrorCode) int {
	switch code {
	case domain.CodeNotFound:
		return http.StatusNotFound
	case domain.CodeConflict, domain.CodeInvalidTransition:
		return http.StatusConflict
	case domain.CodeForbidden:
		return http.StatusForbidden
	case domain.CodeInvalidWindow, domain.CodeInvalidSlot, domain.CodeInvalidRequest:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
