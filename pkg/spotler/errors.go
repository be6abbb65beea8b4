package spotler

import (
	"errors"
	"fmt"
)

// ErrorKind classifies every error returned by Client.Execute.
type ErrorKind int

const (
	// KindTransport means no usable response was received (network failure,
	// timeout, malformed request). StatusCode is 0.
	KindTransport ErrorKind = iota
	// KindNotFound is a 404 response.
	KindNotFound
	// KindSystem is a status above 299 whose body is not JSON.
	KindSystem
	// KindAPI is a status above 299 with a JSON error body.
	KindAPI
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindNotFound:
		return "not_found"
	case KindSystem:
		return "system"
	case KindAPI:
		return "api"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Sentinels matched by *Error.Is, one per ErrorKind.
var (
	ErrTransport = errors.New("spotler: transport error")
	ErrNotFound  = errors.New("spotler: endpoint not found")
	ErrSystem    = errors.New("spotler: system error")
	ErrAPI       = errors.New("spotler: api error")
)

// Error is the single error type returned by the client. Branch on Kind, or
// match with errors.Is against the Err* sentinels.
type Error struct {
	Kind       ErrorKind
	Message    string
	StatusCode int
	Endpoint   string

	// APIMessage and ErrorType are the fields extracted from an API error body.
	APIMessage string
	ErrorType  string

	// Err is the underlying cause for transport errors.
	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}

	return e.Message
}

func (e *Error) Is(target error) bool {
	return target == e.sentinel()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) sentinel() error {
	switch e.Kind {
	case KindNotFound:
		return ErrNotFound
	case KindSystem:
		return ErrSystem
	case KindAPI:
		return ErrAPI
	default:
		return ErrTransport
	}
}

// AsError extracts the client error from err's chain.
func AsError(err error) (*Error, bool) {
	var spErr *Error
	if errors.As(err, &spErr) {
		return spErr, true
	}

	return nil, false
}

func newNotFoundError(endpoint string, statusCode int) *Error {
	return &Error{
		Kind:       KindNotFound,
		Message:    fmt.Sprintf("Endpoint %s not found", endpoint),
		StatusCode: statusCode,
		Endpoint:   endpoint,
	}
}

func newSystemError(endpoint string, statusCode int) *Error {
	return &Error{
		Kind:       KindSystem,
		Message:    "System error on spotler server",
		StatusCode: statusCode,
		Endpoint:   endpoint,
	}
}

func newAPIError(endpoint string, statusCode int, message, errorType string) *Error {
	return &Error{
		Kind:       KindAPI,
		Message:    fmt.Sprintf(`Message: %s\nType: %s`, message, errorType),
		StatusCode: statusCode,
		Endpoint:   endpoint,
		APIMessage: message,
		ErrorType:  errorType,
	}
}

// wrapTransportError normalizes a failure that happened before any response
// was received. Errors that are already normalized pass through unchanged.
func wrapTransportError(endpoint string, err error) error {
	if _, ok := AsError(err); ok {
		return err
	}

	return &Error{
		Kind:     KindTransport,
		Message:  fmt.Sprintf("Request to %s failed", endpoint),
		Endpoint: endpoint,
		Err:      err,
	}
}
