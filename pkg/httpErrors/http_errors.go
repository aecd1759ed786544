package httpErrors

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

var (
	ErrBadRequest   = errors.New("bad request")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrStorage      = errors.New("storage error")
	ErrTranscode    = errors.New("transcode error")
	ErrDecode       = errors.New("decode error")
)

// RestErr is the single error shape every handler returns to clients.
type RestErr interface {
	Status() int
	Error() string
	Causes() interface{}
}

type RestError struct {
	ErrStatus int         `json:"status,omitempty"`
	ErrError  string      `json:"error,omitempty"`
	ErrCauses interface{} `json:"-"`
}

func (e RestError) Status() int {
	return e.ErrStatus
}

func (e RestError) Error() string {
	return e.ErrError
}

func (e RestError) Causes() interface{} {
	return e.ErrCauses
}

func NewRestError(status int, err string, causes interface{}) RestErr {
	return RestError{
		ErrStatus: status,
		ErrError:  err,
		ErrCauses: causes,
	}
}

// NewValidationError covers bad or missing input; no side effects happened.
func NewValidationError(causes interface{}) RestErr {
	return RestError{
		ErrStatus: http.StatusBadRequest,
		ErrError:  ErrBadRequest.Error(),
		ErrCauses: causes,
	}
}

// NewAuthError covers a missing, expired or invalid credential.
func NewAuthError(causes interface{}) RestErr {
	return RestError{
		ErrStatus: http.StatusUnauthorized,
		ErrError:  ErrUnauthorized.Error(),
		ErrCauses: causes,
	}
}

// NewNotFoundError covers a referenced asset or object being absent.
func NewNotFoundError(causes interface{}) RestErr {
	return RestError{
		ErrStatus: http.StatusNotFound,
		ErrError:  ErrNotFound.Error(),
		ErrCauses: causes,
	}
}

// NewStorageError covers any object store I/O or presign failure.
func NewStorageError(causes interface{}) RestErr {
	return RestError{
		ErrStatus: http.StatusInternalServerError,
		ErrError:  ErrStorage.Error(),
		ErrCauses: causes,
	}
}

// NewTranscodeError covers a nonzero exit from the external transcoder.
func NewTranscodeError(causes interface{}) RestErr {
	return RestError{
		ErrStatus: http.StatusInternalServerError,
		ErrError:  ErrTranscode.Error(),
		ErrCauses: causes,
	}
}

// NewDecodeError covers an unreadable or corrupt frame source.
func NewDecodeError(causes interface{}) RestErr {
	return RestError{
		ErrStatus: http.StatusInternalServerError,
		ErrError:  ErrDecode.Error(),
		ErrCauses: causes,
	}
}

func NewInternalServerError(causes interface{}) RestErr {
	return RestError{
		ErrStatus: http.StatusInternalServerError,
		ErrError:  "internal server error",
		ErrCauses: causes,
	}
}

// ParseErrors maps an arbitrary internal error to its REST representation.
func ParseErrors(err error) RestErr {
	var restErr RestErr
	if errors.As(err, &restErr) {
		return restErr
	}

	switch {
	case errors.Is(err, sql.ErrNoRows):
		return NewNotFoundError(err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return NewRestError(http.StatusRequestTimeout, "request timeout", err.Error())
	case errors.Is(err, ErrUnauthorized):
		return NewAuthError(err.Error())
	case errors.Is(err, ErrBadRequest):
		return NewValidationError(err.Error())
	case errors.Is(err, ErrNotFound):
		return NewNotFoundError(err.Error())
	case errors.Is(err, ErrStorage):
		return NewStorageError(errors.Cause(err).Error())
	case errors.Is(err, ErrTranscode):
		return NewTranscodeError(errors.Cause(err).Error())
	case errors.Is(err, ErrDecode):
		return NewDecodeError(errors.Cause(err).Error())
	default:
		return NewInternalServerError(err.Error())
	}
}

// ErrorStatus returns the status code and message for non-HTTP transports.
func ErrorStatus(err error) (int, string) {
	restErr := ParseErrors(err)
	return restErr.Status(), restErr.Error()
}

// ErrorResponse returns the status code and body for an error response.
func ErrorResponse(err error) (int, interface{}) {
	restErr := ParseErrors(err)
	return restErr.Status(), map[string]string{"error": restErr.Error()}
}

// ErrorCausesResponse is ErrorResponse with the underlying cause exposed.
func ErrorCausesResponse(err error) (int, interface{}) {
	restErr := ParseErrors(err)
	return restErr.Status(), map[string]string{"error": fmt.Sprintf("%v", restErr.Causes())}
}
