package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	cartdomain "github.com/seatsmith/seatsmith/internal/cart/domain"
	catalogdomain "github.com/seatsmith/seatsmith/internal/catalog/domain"
	conditiondomain "github.com/seatsmith/seatsmith/internal/condition/domain"
	discountdomain "github.com/seatsmith/seatsmith/internal/discount/domain"
	"github.com/seatsmith/seatsmith/internal/eligibility"
)

type errorPayload struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrInvalidRequest = errors.New("invalid_request")
	ErrInternal       = errors.New("internal_error")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, errorPayload) {
	switch {
	case isValidationError(err):
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: err.Error(),
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case errors.Is(err, catalogdomain.ErrDuplicateCode):
		return http.StatusConflict, errorPayload{
			Type:    "duplicate_code",
			Message: "code already in use",
		}
	case errors.Is(err, cartdomain.ErrUserBusy):
		return http.StatusConflict, errorPayload{
			Type:    "user_busy",
			Message: "another mutation for this user is in progress",
		}
	case errors.Is(err, cartdomain.ErrCartNotActive):
		return http.StatusConflict, errorPayload{
			Type:    "cart_not_active",
			Message: "cart is closed",
		}
	case errors.Is(err, discountdomain.ErrInconsistentQuota):
		return http.StatusInternalServerError, errorPayload{
			Type:    "inconsistent_quota",
			Message: "discount quota accounting is inconsistent",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return true
	case isCartValidationError(err),
		isCatalogValidationError(err),
		isConditionValidationError(err),
		isDiscountValidationError(err):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, cartdomain.ErrNotFound),
		errors.Is(err, catalogdomain.ErrNotFound),
		errors.Is(err, conditiondomain.ErrNotFound),
		errors.Is(err, discountdomain.ErrNotFound),
		errors.Is(err, eligibility.ErrProductNotFound):
		return true
	default:
		return false
	}
}
