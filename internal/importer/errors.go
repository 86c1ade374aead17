package importer

import (
	"errors"
	"fmt"
)

// ErrUnsupportedKind marks a schema/configuration defect: an attribute whose
// kind the resolver cannot handle. Unrecoverable, never converted into a
// per-batch failure.
var ErrUnsupportedKind = errors.New("unsupported relation kind")

type AppError struct {
	Code    string `json:"code"`
	Status  int    `json:"-"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

type ErrorResponse struct {
	Error *AppError `json:"error"`
}

func NewAppError(code string, status int, msg string) *AppError {
	return &AppError{Code: code, Status: status, Message: msg}
}

func UnauthorizedError(msg string) *AppError {
	return &AppError{Code: "UNAUTHORIZED", Status: 401, Message: msg}
}

func ForbiddenError(msg string) *AppError {
	return &AppError{Code: "FORBIDDEN", Status: 403, Message: msg}
}

func InvalidPayloadError(msg string) *AppError {
	return &AppError{Code: "INVALID_PAYLOAD", Status: 400, Message: msg}
}

func unsupportedKindError(ctSlug, attrName string, kind fmt.Stringer) error {
	return fmt.Errorf("%w: %s.%s (%s)", ErrUnsupportedKind, ctSlug, attrName, kind)
}
