package apperrors

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

type ErrorResponse struct {
	Status    int               `json:"status"`
	Message   string            `json:"message"`
	Timestamp time.Time         `json:"timestamp"`
	Errors    map[string]string `json:"errors,omitempty"`
}

// Respond translates any error into the external error shape and writes it.
// Domain errors map to fixed status codes; binding failures from gin's
// validator are aggregated per field; everything unclassified is logged and
// surfaced as a generic internal error.
func Respond(ctx *gin.Context, err error) {
	var appErr *Error
	if errors.As(err, &appErr) {
		respondAppError(ctx, appErr)
		return
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		respondAppError(ctx, Validation(fieldMessages(validationErrs)))
		return
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) ||
		errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		respondAppError(ctx, &Error{Kind: KindValidation, Message: "Malformed request body"})
		return
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondAppError(ctx, NotFoundMessage("Resource not found"))
		return
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		respondAppError(ctx, Duplicate("Resource already exists"))
		return
	}

	respondAppError(ctx, Internal(err))
}

func respondAppError(ctx *gin.Context, appErr *Error) {
	status := statusCode(appErr.Kind)

	if appErr.Kind == KindInternal {
		log.Printf("Unhandled error: %v", appErr.Err)
	}

	ctx.AbortWithStatusJSON(status, ErrorResponse{
		Status:    status,
		Message:   appErr.Message,
		Timestamp: time.Now(),
		Errors:    appErr.Fields,
	})
}

func statusCode(kind Kind) int {
	switch kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindDuplicate:
		return http.StatusConflict
	case KindForbidden:
		return http.StatusForbidden
	case KindInvalidCredentials:
		return http.StatusUnauthorized
	case KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func fieldMessages(validationErrs validator.ValidationErrors) map[string]string {
	fields := make(map[string]string, len(validationErrs))
	for _, fieldErr := range validationErrs {
		fields[snakeCase(fieldErr.Field())] = tagMessage(fieldErr)
	}
	return fields
}

func tagMessage(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fieldErr.Param() + " characters"
	case "max":
		return "cannot exceed " + fieldErr.Param() + " characters"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fieldErr.Param(), " ", ", ")
	default:
		return "is invalid"
	}
}

// snakeCase maps struct field names to their JSON form, e.g. "ProjectID"
// becomes "project_id".
func snakeCase(field string) string {
	runes := []rune(field)
	var b strings.Builder
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prevLower := !unicode.IsUpper(runes[i-1])
			nextLower := i+1 < len(runes) && !unicode.IsUpper(runes[i+1])
			if prevLower || nextLower {
				b.WriteByte('_')
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
