package core

import (
	"errors"
	"fmt"
)

// Error codes carried by every failure surfaced through a tool result.
const (
	CodeMissingCredential = "missing_credential"
	CodeInvalidArgument   = "invalid_argument"
	CodeRemoteRejected    = "remote_rejected"
	CodeTransportFailure  = "transport_failure"
	CodeSpawnFailed       = "spawn_failed"
	CodeSubprocessFailed  = "subprocess_failed"
	CodeFilesystemFailure = "filesystem_failure"
	CodeInternal          = "internal_error"
)

// CodedError is implemented by domain errors that carry a machine-readable code.
type CodedError interface {
	error
	ErrorCode() string
}

type codedError struct {
	code string
	err  error
}

func (e *codedError) Error() string     { return e.err.Error() }
func (e *codedError) ErrorCode() string { return e.code }
func (e *codedError) Unwrap() error     { return e.err }

// NewError builds a coded error from a format string.
func NewError(code, format string, args ...any) error {
	return &codedError{code: code, err: fmt.Errorf(format, args...)}
}

// WrapError attaches a code to an existing error. Returns nil for nil input.
func WrapError(code string, err error) error {
	if err == nil {
		return nil
	}
	return &codedError{code: code, err: err}
}

// ErrorCode extracts the code from err, walking wrapped errors.
// Uncoded errors map to internal_error.
func ErrorCode(err error) string {
	var coded CodedError
	if errors.As(err, &coded) {
		return coded.ErrorCode()
	}
	return CodeInternal
}

// FormatError renders "code: message" for the user-visible failure text.
func FormatError(err error) string {
	if err == nil {
		return ""
	}
	return ErrorCode(err) + ": " + err.Error()
}
