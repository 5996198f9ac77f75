package models

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies failures so HTTP handlers can map them to a status
// without inspecting message text.
type ErrorKind int

const (
	KindValidation ErrorKind = iota
	KindAuth
	KindNotFound
	KindUpstream
	KindNotConfigured
)

// AppError is a typed failure carrying the underlying cause
type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// ValidationError reports bad input shape or range
func ValidationError(message string) *AppError {
	return &AppError{Kind: KindValidation, Message: message}
}

// AuthError reports a missing, invalid or expired session
func AuthError(message string) *AppError {
	return &AppError{Kind: KindAuth, Message: message}
}

// NotFoundError reports a referenced entity that does not exist
func NotFoundError(message string) *AppError {
	return &AppError{Kind: KindNotFound, Message: message}
}

// UpstreamError wraps a failed external store call
func UpstreamError(message string, err error) *AppError {
	return &AppError{Kind: KindUpstream, Message: message, Err: err}
}

// NotConfiguredError reports a required dependency or env var that is absent
func NotConfiguredError(message string) *AppError {
	return &AppError{Kind: KindNotConfigured, Message: message}
}

// KindOf extracts the error kind, defaulting to upstream for untyped errors
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUpstream
}

// HTTPStatus maps an error to the response status its kind calls for
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindNotConfigured:
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}

// Validation sentinels shared across handlers and constructors
var (
	ErrEmptyStoragePath  = ValidationError("storage path cannot be empty")
	ErrInvalidFileSize   = ValidationError("file size must be positive")
	ErrCaptionTooLong    = ValidationError("caption exceeds 120 characters")
	ErrBlankCaption      = ValidationError("caption cannot be blank")
	ErrEmptyUpdate       = ValidationError("update contains no fields")
	ErrTooManyEventNames = ValidationError("a photo can have at most 5 event names")
	ErrEventNameTooLong  = ValidationError("event names are limited to 30 characters")
	ErrInvalidExtension  = ValidationError("file extension not allowed")
	ErrFileTooLarge      = ValidationError("file size exceeds maximum allowed")
	ErrPathTraversal     = ValidationError("invalid path - path traversal detected")
	ErrPhotoNotFound     = NotFoundError("photo not found")
)
