package apierr

import (
	"errors"
	"fmt"
	"strings"
)

type Kind string

const (
	KindMalformedCredential   Kind = "malformed_credential"
	KindUnauthenticated       Kind = "unauthenticated"
	KindNetworkUnavailable    Kind = "network_unavailable"
	KindAuthenticationExpired Kind = "authentication_expired"
	KindValidationFailed      Kind = "validation_failed"
	KindRequestRejected       Kind = "request_rejected"
	KindServiceUnavailable    Kind = "service_unavailable"
	KindClientFault           Kind = "client_fault"
)

var (
	ErrMalformedCredential   = errors.New("malformed credential")
	ErrUnauthenticated       = errors.New("unauthenticated")
	ErrNetworkUnavailable    = errors.New("network unavailable")
	ErrAuthenticationExpired = errors.New("authentication expired")
	ErrValidationFailed      = errors.New("validation failed")
	ErrRequestRejected       = errors.New("request rejected")
	ErrServiceUnavailable    = errors.New("service unavailable")
	ErrClientFault           = errors.New("client fault")
)

var sentinels = map[Kind]error{
	KindMalformedCredential:   ErrMalformedCredential,
	KindUnauthenticated:       ErrUnauthenticated,
	KindNetworkUnavailable:    ErrNetworkUnavailable,
	KindAuthenticationExpired: ErrAuthenticationExpired,
	KindValidationFailed:      ErrValidationFailed,
	KindRequestRejected:       ErrRequestRejected,
	KindServiceUnavailable:    ErrServiceUnavailable,
	KindClientFault:           ErrClientFault,
}

// FieldError is one entry of a server (or local) validation report.
type FieldError struct {
	Loc string `json:"loc"`
	Msg string `json:"msg"`
}

func (f FieldError) String() string {
	if f.Loc == "" {
		return f.Msg
	}
	return f.Loc + ": " + f.Msg
}

// Error is a classified failure. Status is zero when no HTTP response was
// involved.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Fields  []FieldError
	Cause   error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	if e.Status != 0 {
		fmt.Fprintf(&b, " (%d)", e.Status)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	for i, f := range e.Fields {
		if i == 0 {
			b.WriteString(": ")
		} else {
			b.WriteString("; ")
		}
		b.WriteString(f.String())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is the sentinel of e's kind.
func (e *Error) Is(target error) bool {
	s, ok := sentinels[e.Kind]
	return ok && s == target
}

// New builds an Error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Validation builds a ValidationFailed error carrying field messages.
func Validation(message string, fields ...FieldError) *Error {
	return &Error{Kind: KindValidationFailed, Message: message, Fields: fields}
}

// KindOf returns the kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// As returns the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}
