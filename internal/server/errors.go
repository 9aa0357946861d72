package server

import (
	"errors"
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	auditdomain "github.com/smallbiznis/retailerp/internal/audit/domain"
	customerdomain "github.com/smallbiznis/retailerp/internal/customer/domain"
	inventorydomain "github.com/smallbiznis/retailerp/internal/inventory/domain"
	loyaltydomain "github.com/smallbiznis/retailerp/internal/loyalty/domain"
	numberingdomain "github.com/smallbiznis/retailerp/internal/numbering/domain"
	orderdomain "github.com/smallbiznis/retailerp/internal/order/domain"
	"github.com/smallbiznis/retailerp/pkg/db/pagination"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrConflict           = errors.New("conflict")
	ErrInternal           = errors.New("internal_error")
	ErrNotFound           = errors.New("not_found")
	ErrInvalidRequest     = errors.New("invalid_request")
	ErrServiceUnavailable = errors.New("service_unavailable")
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

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	var fieldErrs orderdomain.ValidationErrors
	if errors.As(err, &fieldErrs) {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  flattenFieldErrors(fieldErrs),
		}
	}

	if isValidationError(err) {
		code := validationErrorCode(err)
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   validationErrorField(code),
					Code:    code,
					Message: validationErrorMessage(code),
				},
			},
		}
	}

	switch {
	case errors.Is(err, ErrConflict),
		errors.Is(err, numberingdomain.ErrRuleExists):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: "conflict",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case isBusinessError(err):
		return http.StatusUnprocessableEntity, errorPayload{
			Type:    businessErrorCode(err),
			Message: err.Error(),
		}
	case errors.Is(err, ErrServiceUnavailable):
		return http.StatusServiceUnavailable, errorPayload{
			Type:    "service_unavailable",
			Message: "service unavailable",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

// classifyErrorForLog feeds the request logger the same type the client
// sees, plus the sentinel code when there is one.
func classifyErrorForLog(err error) (string, string) {
	_, payload := mapError(err)
	code := payload.Type
	switch {
	case isValidationError(err):
		code = validationErrorCode(err)
	case isNotFoundError(err), isBusinessError(err):
		code = sentinelCode(err)
	}
	return payload.Type, code
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func flattenFieldErrors(fieldErrs orderdomain.ValidationErrors) []ValidationError {
	fields := make([]string, 0, len(fieldErrs))
	for field := range fieldErrs {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	out := make([]ValidationError, 0, len(fields))
	for _, field := range fields {
		for _, message := range fieldErrs[field] {
			out = append(out, ValidationError{
				Field:   field,
				Code:    "invalid_value",
				Message: message,
			})
		}
	}
	return out
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, pagination.ErrInvalidPageToken),
		errors.Is(err, orderdomain.ErrInvalidID),
		errors.Is(err, auditdomain.ErrInvalidRange):
		return true
	case isNumberingValidationError(err),
		isInventoryValidationError(err),
		isCustomerValidationError(err),
		isLoyaltyValidationError(err):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, orderdomain.ErrNotFound),
		errors.Is(err, customerdomain.ErrNotFound),
		errors.Is(err, loyaltydomain.ErrCustomerNotFound),
		errors.Is(err, numberingdomain.ErrRuleNotFound),
		errors.Is(err, inventorydomain.ErrNoInventoryRecord),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

// isBusinessError covers well-formed requests the current state cannot serve.
func isBusinessError(err error) bool {
	switch {
	case errors.Is(err, inventorydomain.ErrInsufficientStock),
		errors.Is(err, orderdomain.ErrInsufficientPayment),
		errors.Is(err, numberingdomain.ErrRuleInactive):
		return true
	default:
		return false
	}
}

func businessErrorCode(err error) string {
	switch {
	case errors.Is(err, inventorydomain.ErrInsufficientStock):
		return inventorydomain.ErrInsufficientStock.Error()
	case errors.Is(err, orderdomain.ErrInsufficientPayment):
		return orderdomain.ErrInsufficientPayment.Error()
	case errors.Is(err, numberingdomain.ErrRuleInactive):
		return numberingdomain.ErrRuleInactive.Error()
	default:
		return "unprocessable"
	}
}

func sentinelCode(err error) string {
	if isBusinessError(err) {
		return businessErrorCode(err)
	}
	msg := err.Error()
	if idx := strings.Index(msg, ":"); idx > 0 {
		return msg[:idx]
	}
	return msg
}

func validationErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return "invalid_request"
	case errors.Is(err, pagination.ErrInvalidPageToken):
		return pagination.ErrInvalidPageToken.Error()
	default:
		return sentinelCode(err)
	}
}

func validationErrorField(code string) string {
	if code == "invalid_request" {
		return "request"
	}
	if strings.HasPrefix(code, "invalid_") {
		return strings.TrimPrefix(code, "invalid_")
	}
	return ""
}

func validationErrorMessage(code string) string {
	switch code {
	case "invalid_request":
		return "invalid request"
	default:
		return "invalid value"
	}
}

func isNumberingValidationError(err error) bool {
	switch {
	case errors.Is(err, numberingdomain.ErrInvalidCode),
		errors.Is(err, numberingdomain.ErrInvalidName),
		errors.Is(err, numberingdomain.ErrInvalidDateFormat),
		errors.Is(err, numberingdomain.ErrInvalidResetPeriod),
		errors.Is(err, numberingdomain.ErrInvalidSequenceLength):
		return true
	default:
		return false
	}
}

func isInventoryValidationError(err error) bool {
	switch {
	case errors.Is(err, inventorydomain.ErrInvalidProductID),
		errors.Is(err, inventorydomain.ErrInvalidQuantity),
		errors.Is(err, inventorydomain.ErrInvalidReason),
		errors.Is(err, inventorydomain.ErrInvalidReorderPoint):
		return true
	default:
		return false
	}
}

func isLoyaltyValidationError(err error) bool {
	switch {
	case errors.Is(err, loyaltydomain.ErrInvalidCustomer),
		errors.Is(err, loyaltydomain.ErrInvalidAmount):
		return true
	default:
		return false
	}
}
