// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// New creates a WarrenError from a registered error code.
func New(code ErrorCode, details string) *WarrenError {
	def, ok := errorDefinitions[code]
	if !ok {
		return &WarrenError{
			Code:       code,
			Domain:     DomainMisc,
			Message:    "Unknown error",
			Details:    details,
			HTTPStatus: http.StatusInternalServerError,
		}
	}

	return &WarrenError{
		Code:       code,
		Domain:     def.domain,
		Message:    def.message,
		Details:    details,
		HTTPStatus: def.httpStatus,
	}
}

// Wrap converts an arbitrary error into a WarrenError with the given code.
// An error that already is a WarrenError is returned unchanged so the
// original code survives layering.
func Wrap(err error, code ErrorCode) *WarrenError {
	if err == nil {
		return nil
	}

	var we *WarrenError
	if errors.As(err, &we) {
		return we
	}

	return New(code, err.Error())
}

// NewCommandError captures a failed command invocation with its exit code
// and stderr output.
func NewCommandError(cmd string, exitCode int, output string) *WarrenError {
	return New(CommandExecution, output).
		WithMetadata("command", cmd).
		WithMetadata("exit_code", fmt.Sprintf("%d", exitCode))
}

// WithMetadata attaches a key-value pair to the error and returns it for
// chaining.
func (e *WarrenError) WithMetadata(key, value string) *WarrenError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]string)
	}
	e.Metadata[key] = value
	return e
}

func (e *WarrenError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s-%d] %s: %s", e.Domain, e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s-%d] %s", e.Domain, e.Code, e.Message)
}

// IsWarrenErrorCode reports whether err is a WarrenError carrying code.
func IsWarrenErrorCode(err error, code ErrorCode) bool {
	var we *WarrenError
	if errors.As(err, &we) {
		return we.Code == code
	}
	return false
}
