// go-sx126x
// Copyright (c) 2025 The Zaparoo Project Contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later
//
// This file is part of go-sx126x.
//
// go-sx126x is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 3 of the License, or (at your option) any later version.
//
// go-sx126x is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with go-sx126x; if not, write to the Free Software Foundation,
// Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

package sx126x

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by a transaction wraps exactly one of
// these, so callers can branch with errors.Is.
var (
	// ErrPinSet is returned when the chip select line cannot be asserted
	ErrPinSet = errors.New("chip select assert failed")

	// ErrBufferOverflow is returned when staged bytes would exceed the
	// transaction buffer capacity. The buffer is left unchanged.
	ErrBufferOverflow = errors.New("transaction buffer overflow")

	// ErrBus wraps a failure reported by the underlying bus
	ErrBus = errors.New("bus operation failed")

	// ErrProtocol is the parent of every misuse of an open transaction
	ErrProtocol = errors.New("transaction protocol error")
)

// Protocol errors
var (
	ErrAlreadyTransferred = fmt.Errorf("%w: already transferred", ErrProtocol)
	ErrTransactionOpen    = fmt.Errorf("%w: transaction already open", ErrProtocol)
	ErrTransactionClosed  = fmt.Errorf("%w: transaction closed", ErrProtocol)
)

// Device errors
var (
	ErrBusyTimeout      = errors.New("timeout waiting for busy line")
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrCommandFailed    = errors.New("command failed")
)

// ErrorType classifies errors for callers that decide whether to retry a
// whole transaction. This package never retries on its own.
type ErrorType int

const (
	// ErrorTypePermanent indicates an error that will not go away on retry
	ErrorTypePermanent ErrorType = iota
	// ErrorTypeTransient indicates a bus fault that may succeed on retry
	ErrorTypeTransient
	// ErrorTypeTimeout indicates the chip did not become ready in time
	ErrorTypeTimeout
)

// String returns the error type name
func (t ErrorType) String() string {
	switch t {
	case ErrorTypePermanent:
		return "permanent"
	case ErrorTypeTransient:
		return "transient"
	case ErrorTypeTimeout:
		return "timeout"
	default:
		return fmt.Sprintf("ErrorType(%d)", int(t))
	}
}

// TransactionError is returned by ChipSelect and Transaction operations.
// Kind is one of ErrPinSet, ErrBufferOverflow, ErrBus or a protocol error;
// Cause is the underlying pin or bus fault, if any.
type TransactionError struct {
	Kind  error
	Cause error
	Op    string
	Type  ErrorType
}

func (e *TransactionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Cause)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Kind)
}

// Unwrap exposes both the error kind and the underlying cause
func (e *TransactionError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

// NewTransactionError creates a TransactionError, deriving its type from kind
func NewTransactionError(op string, kind, cause error) *TransactionError {
	errType := ErrorTypePermanent
	if errors.Is(kind, ErrBus) {
		errType = ErrorTypeTransient
	}
	return &TransactionError{
		Op:    op,
		Kind:  kind,
		Cause: cause,
		Type:  errType,
	}
}

// GetErrorType returns the classification of err
func GetErrorType(err error) ErrorType {
	if err == nil {
		return ErrorTypePermanent
	}

	var txErr *TransactionError
	if errors.As(err, &txErr) {
		return txErr.Type
	}

	switch {
	case errors.Is(err, ErrBusyTimeout):
		return ErrorTypeTimeout
	case errors.Is(err, ErrBus):
		return ErrorTypeTransient
	default:
		return ErrorTypePermanent
	}
}

// IsRetryable reports whether repeating the whole transaction may succeed
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	switch GetErrorType(err) {
	case ErrorTypeTransient, ErrorTypeTimeout:
		return true
	case ErrorTypePermanent:
		return false
	default:
		return false
	}
}
