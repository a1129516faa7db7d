package middleware

import (
	"net/http"
	"reflect"
	"strings"

	"github.com/erp/accounting/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RequestIDKey names the header carrying the per-request correlation
// ID. Inside the gin context the ID lives under RequestIDContextKey.
const RequestIDKey = "X-Request-ID"

// SetupValidator teaches gin's binding validator to report field names
// the way clients see them: the json tag first, the form tag as a
// fallback, and "-" fields suppressed entirely.
func SetupValidator() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
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

// FormatValidationErrors turns a binding error into the standard error
// envelope, with one detail entry per failed field.
func FormatValidationErrors(err error, requestID string) dto.Response {
	var details []dto.ValidationDetail
	if fieldErrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range fieldErrs {
			details = append(details, dto.ValidationDetail{
				Field:   fe.Field(),
				Message: getValidationMessage(fe),
			})
		}
	}
	return dto.NewValidationErrorResponse("Request validation failed", requestID, details)
}

// HandleValidationError writes a 400 with the formatted field errors.
func HandleValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, FormatValidationErrors(err, requestIDFrom(c)))
}

func requestIDFrom(c *gin.Context) string {
	if id := c.GetString(RequestIDContextKey); id != "" {
		return id
	}
	return c.GetHeader(RequestIDKey)
}

// fixedMessages covers tags whose message needs no parameter.
var fixedMessages = map[string]string{
	"required": "This field is required",
	"email":    "Invalid email format",
	"uuid":     "Invalid UUID format",
	"url":      "Invalid URL format",
	"numeric":  "Must be numeric",
	"alphanum": "Must be alphanumeric",
	"alpha":    "Must contain only letters",
}

// comparisonPrefixes covers tags whose message embeds the tag parameter.
var comparisonPrefixes = map[string]string{
	"min": "Must be at least ",
	"max": "Must be at most ",
	"gte": "Must be greater than or equal to ",
	"lte": "Must be less than or equal to ",
	"gt":  "Must be greater than ",
	"lt":  "Must be less than ",
}

func getValidationMessage(fe validator.FieldError) string {
	tag := fe.Tag()
	if msg, ok := fixedMessages[tag]; ok {
		return msg
	}
	if prefix, ok := comparisonPrefixes[tag]; ok {
		msg := prefix + fe.Param()
		// min/max on strings constrain length, not magnitude.
		if (tag == "min" || tag == "max") && fe.Type().Kind() == reflect.String {
			msg += " characters"
		}
		return msg
	}
	switch tag {
	case "len":
		return "Must be exactly " + fe.Param() + " characters"
	case "oneof":
		return "Must be one of: " + fe.Param()
	}
	return "Invalid value"
}
