package domain

import (
	"errors"
	"fmt"
)

type ErrorKind int

const (
	KindInput ErrorKind = iota + 1
	KindTransport
	KindProtocol
	KindData
)

func (k ErrorKind) String() string {
	switch k {
	case KindInput:
		return "input"
	case KindTransport:
		return "transport"
	case KindProtocol:
		return "protocol"
	case KindData:
		return "data"
	default:
		return "unknown"
	}
}

var ErrWorkerNotFound = errors.New("worker name not found")

// CheckError is the single error type a check can fail with.
// StatusCode is set only for protocol errors caused by a non-200 response.
type CheckError struct {
	Kind       ErrorKind
	StatusCode int
	Err        error
}

func (e *CheckError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s error: status %d", e.Kind, e.StatusCode)
	}
	return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
}

func (e *CheckError) Unwrap() error {
	return e.Err
}

func InputError(err error) error {
	return &CheckError{Kind: KindInput, Err: err}
}

func TransportError(err error) error {
	return &CheckError{Kind: KindTransport, Err: err}
}

func StatusError(status int) error {
	return &CheckError{Kind: KindProtocol, StatusCode: status, Err: fmt.Errorf("unexpected status %d", status)}
}

func ProtocolError(err error) error {
	return &CheckError{Kind: KindProtocol, Err: err}
}

func DataError(err error) error {
	return &CheckError{Kind: KindData, Err: err}
}

// KindOf reports the kind of err, or 0 when err is not a CheckError.
func KindOf(err error) ErrorKind {
	var checkErr *CheckError
	if errors.As(err, &checkErr) {
		return checkErr.Kind
	}
	return 0
}
