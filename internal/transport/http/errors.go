package http

import (
	"errors"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/light-bringer/rawsy-service/internal/pkg/apperr"
	"github.com/light-bringer/rawsy-service/internal/pkg/logger"
)

// ErrorInfo is the error part of every failed response.
type ErrorInfo struct {
	Code      string             `json:"code"`
	Message   string             `json:"message"`
	RequestID string             `json:"request_id,omitempty"`
	Details   []ValidationDetail `json:"details,omitempty"`
}

type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error ErrorInfo `json:"error"`
}

func errorBody(c *gin.Context, code, message string, details []ValidationDetail) errorResponse {
	return errorResponse{Error: ErrorInfo{
		Code:      code,
		Message:   message,
		RequestID: c.GetString(requestIDKey),
		Details:   details,
	}}
}

// statusFor maps an application error kind to its HTTP status and code.
func statusFor(kind apperr.Kind) (int, string) {
	switch kind {
	case apperr.KindValidation:
		return http.StatusBadRequest, "ERR_VALIDATION"
	case apperr.KindNotFound:
		return http.StatusNotFound, "ERR_NOT_FOUND"
	case apperr.KindForbidden:
		return http.StatusForbidden, "ERR_FORBIDDEN"
	case apperr.KindInvalidTransition:
		return http.StatusConflict, "ERR_INVALID_TRANSITION"
	case apperr.KindConflict:
		return http.StatusConflict, "ERR_CONFLICT"
	case apperr.KindDependency:
		return http.StatusBadGateway, "ERR_DEPENDENCY"
	default:
		return http.StatusInternalServerError, "ERR_INTERNAL"
	}
}

// writeError renders err. Dependency and internal failures are logged and
// their cause is not exposed.
func writeError(c *gin.Context, err error) {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		c.JSON(http.StatusBadRequest, errorBody(c, "ERR_VALIDATION", "request validation failed", validationDetails(ve)))
		return
	}
	kind := apperr.KindOf(err)
	status, code := statusFor(kind)
	if status >= http.StatusInternalServerError {
		logger.FromContext(c.Request.Context()).Error("request error", zap.String("kind", string(kind)), zap.Error(err))
	}
	c.JSON(status, errorBody(c, code, apperr.MessageOf(err), nil))
}

// bindError classifies a request binding failure. Field validation errors
// pass through so their details can be reported.
func bindError(err error) error {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		return err
	}
	return apperr.Wrap(apperr.KindValidation, "malformed request", err)
}

func validationDetails(ve validator.ValidationErrors) []ValidationDetail {
	details := make([]ValidationDetail, 0, len(ve))
	for _, fe := range ve {
		details = append(details, ValidationDetail{Field: fe.Field(), Message: validationMessage(fe)})
	}
	return details
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min", "gte":
		return "must be at least " + fe.Param()
	case "max", "lte":
		return "must be at most " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "is invalid"
	}
}

var setupOnce sync.Once

// setupValidator reports binding errors with JSON field names.
func setupValidator() {
	setupOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			v.RegisterTagNameFunc(func(fld reflect.StructField) string {
				name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
				if name == "-" {
					return ""
				}
				if name == "" {
					name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
				}
				return name
			})
		}
	})
}
