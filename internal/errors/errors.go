package errors

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	errbuilder "github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/gin-gonic/gin"

	"github.com/trustchain/risk-service/internal/risk"
)

// ErrorCategory classifies an error for logging and HTTP mapping.
type ErrorCategory string

const (
	CategoryValidation  ErrorCategory = "validation"
	CategoryNotFound    ErrorCategory = "not_found"
	CategoryUnavailable ErrorCategory = "unavailable"
	CategoryTraining    ErrorCategory = "training"
	CategoryInternal    ErrorCategory = "internal"
)

// AppError wraps an errbuilder error with the HTTP status and category the
// service reports. Every failure surfaces as one of these, never as a score.
type AppError struct {
	*errbuilder.ErrBuilder
	Category   ErrorCategory `json:"category"`
	HTTPStatus int           `json:"http_status"`
	Timestamp  time.Time     `json:"timestamp"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Category, e.ErrBuilder.Msg)
}

// Unwrap returns the underlying cause.
func (e *AppError) Unwrap() error {
	return e.ErrBuilder.Unwrap()
}

func newAppError(builder *errbuilder.ErrBuilder, category ErrorCategory, status int) *AppError {
	return &AppError{
		ErrBuilder: builder,
		Category:   category,
		HTTPStatus: status,
		Timestamp:  time.Now().UTC(),
	}
}

// NewValidationError reports malformed request input (missing address or
// type, unknown bid category, non-numeric values).
func NewValidationError(message string) *AppError {
	builder := errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(message)
	return newAppError(builder, CategoryValidation, http.StatusBadRequest)
}

// NewNotFoundError reports an address absent from the dataset.
func NewNotFoundError(message string) *AppError {
	builder := errbuilder.New().
		WithCode(errbuilder.CodeNotFound).
		WithMsg(message)
	return newAppError(builder, CategoryNotFound, http.StatusNotFound)
}

// NewUnavailableError reports that the historical dataset cannot be read.
func NewUnavailableError(message string, cause error) *AppError {
	builder := errbuilder.New().
		WithCode(errbuilder.CodeUnavailable).
		WithMsg(message)
	if cause != nil {
		builder = builder.WithCause(cause)
	}
	return newAppError(builder, CategoryUnavailable, http.StatusServiceUnavailable)
}

// NewTrainingError reports a model fit failure for one category.
func NewTrainingError(message string, cause error) *AppError {
	builder := errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg(message)
	if cause != nil {
		builder = builder.WithCause(cause)
	}
	return newAppError(builder, CategoryTraining, http.StatusInternalServerError)
}

// NewInternalError reports an unexpected failure.
func NewInternalError(message string, cause error) *AppError {
	builder := errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg(message)
	if cause != nil {
		builder = builder.WithCause(cause)
	}
	return newAppError(builder, CategoryInternal, http.StatusInternalServerError)
}

// ToAppError maps any error onto an AppError, translating the scoring
// pipeline's sentinel errors onto their HTTP shapes.
func ToAppError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, risk.ErrInvalidInput):
		return NewValidationError(err.Error())
	case errors.Is(err, risk.ErrBidderNotFound):
		return NewNotFoundError(err.Error())
	case errors.Is(err, risk.ErrDataUnavailable):
		return NewUnavailableError(err.Error(), err)
	case errors.Is(err, risk.ErrModelFit):
		return NewTrainingError(err.Error(), err)
	}

	return NewInternalError("an unexpected error occurred", err)
}

// LogError logs an AppError with request context at a level matching its
// category.
func LogError(c *gin.Context, err *AppError) {
	entry := slog.With(
		"error_category", err.Category,
		"http_status", err.HTTPStatus,
		"ip", c.ClientIP(),
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
	)

	switch err.Category {
	case CategoryValidation, CategoryNotFound:
		entry.Warn(err.ErrBuilder.Msg)
	case CategoryUnavailable:
		entry.Error(err.ErrBuilder.Msg, "cause", err.Unwrap())
	default:
		if cause := err.Unwrap(); cause != nil {
			entry.Error(err.ErrBuilder.Msg, "cause", cause)
		} else {
			entry.Error(err.ErrBuilder.Msg)
		}
	}
}

// ErrorHandler is a gin middleware that converts accumulated handler errors
// into structured JSON responses.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			appErr := ToAppError(c.Errors.Last().Err)
			LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
		}
	}
}

// RecoveryHandler turns panics into structured internal errors.
func RecoveryHandler() gin.HandlerFunc {
	return gin.RecoveryWithWriter(nil, func(c *gin.Context, recovered interface{}) {
		appErr := NewInternalError(
			fmt.Sprintf("panic recovered: %v", recovered),
			fmt.Errorf("%v", recovered),
		)
		LogError(c, appErr)
		c.JSON(appErr.HTTPStatus, appErr)
	})
}
