package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Predefined failure classes for a backend call
var (
	// ErrNetworkUnavailable no response reached the client
	ErrNetworkUnavailable = errors.New("backend unreachable")
	// ErrServerError a response arrived but was unusable
	ErrServerError = errors.New("backend returned an unusable response")
	// ErrUnknown any other failure
	ErrUnknown = errors.New("unknown failure")
)

// ErrorKind classifies why a backend call failed
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindNetworkUnavailable
	KindServerError
)

// String returns the kind name used in logs
func (k ErrorKind) String() string {
	switch k {
	case KindNetworkUnavailable:
		return "NetworkUnavailable"
	case KindServerError:
		return "ServerError"
	default:
		return "Unknown"
	}
}

// sentinel returns the errors.Is target for the kind
func (k ErrorKind) sentinel() error {
	switch k {
	case KindNetworkUnavailable:
		return ErrNetworkUnavailable
	case KindServerError:
		return ErrServerError
	default:
		return ErrUnknown
	}
}

// User-visible texts recorded as assistant messages when a turn fails
const (
	networkUnavailableText = "Error: Could not reach the backend. Check that it is running and try again."
	serverErrorText        = "Error: The backend returned an invalid response"
	unknownErrorText       = "Error: Something went wrong while fetching the answer."
)

// ResponseError is a classified failure of the Response Client
type ResponseError struct {
	Kind       ErrorKind
	StatusCode int    // HTTP status when a response was received, 0 otherwise
	Detail     string // short printable excerpt, safe to show to the user
	Err        error
}

// Error implements the error interface (used for logs)
func (e *ResponseError) Error() string {
	msg := e.Kind.String()
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (HTTP %d)", msg, e.StatusCode)
	}
	if e.Detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Detail)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// UserMessage returns the text shown in the conversation, without internal details
func (e *ResponseError) UserMessage() string {
	switch e.Kind {
	case KindNetworkUnavailable:
		return networkUnavailableText
	case KindServerError:
		msg := serverErrorText
		if e.StatusCode != 0 {
			msg += fmt.Sprintf(" (HTTP %d)", e.StatusCode)
		}
		if detail := strings.TrimRight(e.Detail, "."); detail != "" {
			msg += ": " + detail
		}
		return msg + "."
	default:
		return unknownErrorText
	}
}

// Unwrap returns the wrapped cause
func (e *ResponseError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrServerError) and friends work
func (e *ResponseError) Is(target error) bool {
	return target == e.Kind.sentinel()
}

// NewNetworkUnavailableError wraps a transport failure
func NewNetworkUnavailableError(err error) error {
	return &ResponseError{Kind: KindNetworkUnavailable, Err: err}
}

// NewServerError reports a non-2xx status or a malformed payload
func NewServerError(statusCode int, detail string, err error) error {
	return &ResponseError{
		Kind:       KindServerError,
		StatusCode: statusCode,
		Detail:     detail,
		Err:        err,
	}
}

// NewUnknownError wraps anything else
func NewUnknownError(err error) error {
	return &ResponseError{Kind: KindUnknown, Err: err}
}

// KindOf returns the failure class of err; unclassified errors are Unknown
func KindOf(err error) ErrorKind {
	var re *ResponseError
	if errors.As(err, &re) {
		return re.Kind
	}
	return KindUnknown
}

// UserMessage maps any error to the assistant text recorded for a failed turn
func UserMessage(err error) string {
	var re *ResponseError
	if errors.As(err, &re) {
		return re.UserMessage()
	}
	return unknownErrorText
}

// IsNetworkUnavailable reports whether err means the backend was unreachable
func IsNetworkUnavailable(err error) bool {
	return errors.Is(err, ErrNetworkUnavailable)
}

// IsServerError reports whether err means the backend answered badly
func IsServerError(err error) bool {
	return errors.Is(err, ErrServerError)
}
