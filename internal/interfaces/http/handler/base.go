package handler

import (
	"errors"
	"net/http"

	"github.com/erp/accounting/internal/domain/accounting"
	"github.com/erp/accounting/internal/domain/shared"
	"github.com/erp/accounting/internal/interfaces/http/dto"
	"github.com/erp/accounting/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDKey is the header carrying the request ID.
const RequestIDKey = "X-Request-ID"

// BaseHandler carries the response helpers shared by all HTTP handlers.
type BaseHandler struct{}

// getRequestID prefers the ID the RequestID middleware stored on the
// context, so server-minted IDs reach error envelopes too.
func getRequestID(c *gin.Context) string {
	if id := c.GetString(middleware.RequestIDContextKey); id != "" {
		return id
	}
	return c.GetHeader(RequestIDKey)
}

// getUserID resolves the acting user from the validated token, with an
// X-User-ID header fallback kept for local development.
func getUserID(c *gin.Context) (uuid.UUID, error) {
	userIDStr := middleware.GetJWTUserID(c)
	if userIDStr == "" {
		userIDStr = c.GetHeader("X-User-ID")
	}
	if userIDStr == "" {
		return uuid.Nil, errors.New("user ID not found in context")
	}
	return uuid.Parse(userIDStr)
}

// Success writes a 200 with the standard success envelope.
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta writes a 200 with pagination metadata.
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// Created writes a 201 with the standard success envelope.
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent writes an empty 204.
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func (h *BaseHandler) writeError(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, getRequestID(c)))
}

// Error writes an error envelope under the given status code.
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	h.writeError(c, statusCode, code, message)
}

// ErrorWithCode writes an error envelope, deriving the status from the code.
func (h *BaseHandler) ErrorWithCode(c *gin.Context, code, message string) {
	h.writeError(c, dto.GetHTTPStatus(code), code, message)
}

// BadRequest writes a 400.
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.writeError(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// NotFound writes a 404.
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	h.writeError(c, http.StatusNotFound, dto.ErrCodeNotFound, message)
}

// Unauthorized writes a 401.
func (h *BaseHandler) Unauthorized(c *gin.Context, message string) {
	h.writeError(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, message)
}

// Forbidden writes a 403.
func (h *BaseHandler) Forbidden(c *gin.Context, message string) {
	h.writeError(c, http.StatusForbidden, dto.ErrCodeForbidden, message)
}

// Conflict writes a 409.
func (h *BaseHandler) Conflict(c *gin.Context, message string) {
	h.writeError(c, http.StatusConflict, dto.ErrCodeConflict, message)
}

// UnprocessableEntity writes a 422 under the caller's error code.
func (h *BaseHandler) UnprocessableEntity(c *gin.Context, code, message string) {
	h.writeError(c, http.StatusUnprocessableEntity, code, message)
}

// InternalError writes a 500.
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.writeError(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// ValidationError writes a 400 with one detail entry per failed field.
func (h *BaseHandler) ValidationError(c *gin.Context, details []dto.ValidationDetail) {
	c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse(
		"Request validation failed",
		getRequestID(c),
		details,
	))
}

// HandleError converts domain errors to HTTP responses. Wrapped errors are
// unwrapped via errors.As; unknown error types map to a 500.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	// Imbalanced transactions carry the offending totals in the message.
	var imbalanceErr *accounting.ImbalanceError
	if errors.As(err, &imbalanceErr) {
		code := dto.NormalizeErrorCode(imbalanceErr.Code())
		h.writeError(c, dto.GetHTTPStatus(code), code, imbalanceErr.Error())
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		code := dto.NormalizeErrorCode(domainErr.Code)
		h.writeError(c, dto.GetHTTPStatus(code), code, domainErr.Message)
		return
	}

	h.writeError(c, http.StatusInternalServerError, dto.ErrCodeInternal, "An unexpected error occurred")
}
