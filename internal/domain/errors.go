package domain

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrDraftActive     = errors.New("a draft is already active")
	ErrNoDraft         = errors.New("no active draft")
	ErrSubmitInFlight  = errors.New("a submission is already in flight")
	ErrItemNotCached   = errors.New("item is not in the collection cache")
	ErrMediaNotEnabled = errors.New("media storage not configured")
)

// FailureKind classifies why a remote operation failed. The caller must be
// able to tell an unreachable backend apart from a rejected request.
type FailureKind string

const (
	FailureNetwork    FailureKind = "network"
	FailureValidation FailureKind = "validation"
	FailureServer     FailureKind = "server"
	FailureNotFound   FailureKind = "not-found"
)

// RemoteError is the failure result of a call against the remote backend or
// the media host. It is always returned as an explicit error value, never
// panicked across component boundaries.
type RemoteError struct {
	Kind    FailureKind
	Message string // backend-provided message when available, else empty
	Err     error  // underlying transport or decode error, may be nil
}

func (e *RemoteError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("remote %s failure: %s", e.Kind, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("remote %s failure: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("remote %s failure", e.Kind)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// NewRemoteError creates a RemoteError of the given kind
func NewRemoteError(kind FailureKind, message string, err error) *RemoteError {
	return &RemoteError{Kind: kind, Message: message, Err: err}
}

// FailureKindOf returns the failure kind of err, or "" if err is not a RemoteError
func FailureKindOf(err error) FailureKind {
	var re *RemoteError
	if errors.As(err, &re) {
		return re.Kind
	}
	return ""
}

// IsNotFound reports whether err is a not-found remote failure
func IsNotFound(err error) bool {
	return FailureKindOf(err) == FailureNotFound
}

// IsNetworkFailure reports whether err is a transport-level remote failure
func IsNetworkFailure(err error) bool {
	return FailureKindOf(err) == FailureNetwork
}

// RemoteMessage returns the backend-provided message of err when present,
// else the given fallback. User-visible failures always carry a readable
// message.
func RemoteMessage(err error, fallback string) string {
	var re *RemoteError
	if errors.As(err, &re) && re.Message != "" {
		return re.Message
	}
	return fallback
}

// FieldError describes a single failed field check
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors is the result of local, pre-flight form validation. It is
// reported synchronously and never reaches the network layer.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %s: %s", v[0].Field, v[0].Message)
}

// IsValidationFailure reports whether err is a local validation failure
func IsValidationFailure(err error) bool {
	var ve ValidationErrors
	return errors.As(err, &ve)
}
