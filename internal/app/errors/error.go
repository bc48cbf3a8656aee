package errors

import (
	"errors"
	"net/http"
	"reflect"

	"github.com/sirupsen/logrus"
)

// Kind classifies a pipeline failure so callers can decide whether to retry,
// degrade or drop.
type Kind string

const (
	KindValidation Kind = "VALIDATION_ERROR"
	KindStorage    Kind = "STORAGE_ERROR"
	KindRender     Kind = "RENDER_ERROR"
	KindTransport  Kind = "TRANSPORT_ERROR"
	KindRaceLost   Kind = "RACE_LOST"
)

type AppError struct {
	StatusCode int
	Kind       Kind
	Message    string
}

func (e *AppError) Error() string {
	return e.Message
}

func NewAppError(statusCode int, message string) *AppError {
	return &AppError{
		StatusCode: statusCode,
		Message:    message,
	}
}

func NewBadRequestError(message string) *AppError {
	return NewAppError(http.StatusBadRequest, message)
}

func NewUnauthorizedError(message ...string) *AppError {
	if len(message) > 0 {
		return NewAppError(http.StatusUnauthorized, message[0])
	}
	return NewAppError(http.StatusUnauthorized, "Unauthorized")
}

func NewNotFoundError(message string) *AppError {
	return NewAppError(http.StatusNotFound, message)
}

func NewTooManyRequestsError(message string) *AppError {
	return NewAppError(http.StatusTooManyRequests, message)
}

func NewInternalServerError(originalError error, message string) *AppError {
	logrus.Errorf("[%s] %s", reflect.TypeOf(originalError).String(), originalError)
	return NewAppError(http.StatusInternalServerError, message)
}

// NewValidationError marks an event as malformed beyond recovery. The webhook
// layer still acknowledges it; redelivery cannot fix a payload with no order id.
func NewValidationError(message string) *AppError {
	return &AppError{StatusCode: http.StatusBadRequest, Kind: KindValidation, Message: message}
}

// NewStorageError wraps a database failure. Recovery happens at the
// event-redelivery level, never by retrying inside the pipeline.
func NewStorageError(originalError error, message string) *AppError {
	logrus.Errorf("[%s] %s", reflect.TypeOf(originalError).String(), originalError)
	return &AppError{StatusCode: http.StatusInternalServerError, Kind: KindStorage, Message: message}
}

func NewRenderError(originalError error, message string) *AppError {
	logrus.Warnf("[%s] %s", reflect.TypeOf(originalError).String(), originalError)
	return &AppError{StatusCode: http.StatusBadGateway, Kind: KindRender, Message: message}
}

func NewTransportError(originalError error, message string) *AppError {
	return &AppError{StatusCode: http.StatusBadGateway, Kind: KindTransport, Message: message}
}

// KindOf extracts the pipeline kind of err, or "" for plain errors.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}

func IsValidation(err error) bool {
	return KindOf(err) == KindValidation
}
