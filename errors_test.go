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
	"strings"
	"testing"
)

func TestIsRetryable(t *testing.T) {
	t.Parallel()
	tests := getIsRetryableTestCases()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := IsRetryable(tt.err)
			if got != tt.want {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func getIsRetryableTestCases() []struct {
	err  error
	name string
	want bool
} {
	return []struct {
		err  error
		name string
		want bool
	}{
		{
			name: "nil error",
			err:  nil,
			want: false,
		},
		{
			name: "bus fault retryable",
			err:  NewTransactionError("Transfer", ErrBus, errors.New("spi: i/o error")),
			want: true,
		},
		{
			name: "wrapped bus fault retryable",
			err:  fmt.Errorf("SetTx failed: %w", NewTransactionError("Transfer", ErrBus, nil)),
			want: true,
		},
		{
			name: "busy timeout retryable",
			err:  fmt.Errorf("GetStatus: %w", ErrBusyTimeout),
			want: true,
		},
		{
			name: "pin fault not retryable",
			err:  NewTransactionError("Begin", ErrPinSet, errors.New("gpio: busy")),
			want: false,
		},
		{
			name: "overflow not retryable",
			err:  NewTransactionError("Write", ErrBufferOverflow, nil),
			want: false,
		},
		{
			name: "protocol error not retryable",
			err:  NewTransactionError("Transfer", ErrAlreadyTransferred, nil),
			want: false,
		},
		{
			name: "invalid parameter not retryable",
			err:  ErrInvalidParameter,
			want: false,
		},
		{
			name: "command failure not retryable",
			err:  Status(0x28).Err(),
			want: false,
		},
	}
}

func TestTransactionError(t *testing.T) {
	t.Parallel()

	cause := errors.New("spi: i/o error")
	err := NewTransactionError("Transfer", ErrBus, cause)

	if !errors.Is(err, ErrBus) {
		t.Error("TransactionError should match its kind")
	}
	if !errors.Is(err, cause) {
		t.Error("TransactionError should match its cause")
	}
	if errors.Is(err, ErrProtocol) {
		t.Error("bus fault should not match ErrProtocol")
	}
	if err.Type != ErrorTypeTransient {
		t.Errorf("Type = %v, want %v", err.Type, ErrorTypeTransient)
	}

	msg := err.Error()
	for _, part := range []string{"Transfer", "bus operation failed", "spi: i/o error"} {
		if !strings.Contains(msg, part) {
			t.Errorf("Error() = %q, want it to contain %q", msg, part)
		}
	}
}

func TestTransactionError_NoCause(t *testing.T) {
	t.Parallel()

	err := NewTransactionError("Write", ErrTransactionClosed, nil)

	if got, want := err.Error(), "Write: transaction protocol error: transaction closed"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, ErrProtocol) {
		t.Error("protocol errors should match ErrProtocol")
	}
	if len(err.Unwrap()) != 1 {
		t.Errorf("Unwrap() returned %d errors, want 1", len(err.Unwrap()))
	}

	var txErr *TransactionError
	if !errors.As(fmt.Errorf("wrapped: %w", err), &txErr) {
		t.Fatal("errors.As should find TransactionError")
	}
	if txErr.Op != "Write" {
		t.Errorf("Op = %q, want %q", txErr.Op, "Write")
	}
}

func TestProtocolErrorsShareParent(t *testing.T) {
	t.Parallel()

	for _, err := range []error{ErrAlreadyTransferred, ErrTransactionOpen, ErrTransactionClosed} {
		if !errors.Is(err, ErrProtocol) {
			t.Errorf("%v should wrap ErrProtocol", err)
		}
	}
	for _, err := range []error{ErrPinSet, ErrBufferOverflow, ErrBus} {
		if errors.Is(err, ErrProtocol) {
			t.Errorf("%v should not wrap ErrProtocol", err)
		}
	}
}

func TestGetErrorType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		name string
		want ErrorType
	}{
		{name: "nil", err: nil, want: ErrorTypePermanent},
		{name: "bus", err: NewTransactionError("Transfer", ErrBus, nil), want: ErrorTypeTransient},
		{name: "busy timeout", err: ErrBusyTimeout, want: ErrorTypeTimeout},
		{name: "pin", err: NewTransactionError("Begin", ErrPinSet, nil), want: ErrorTypePermanent},
		{name: "plain", err: errors.New("other"), want: ErrorTypePermanent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := GetErrorType(tt.err); got != tt.want {
				t.Errorf("GetErrorType() = %v, want %v", got, tt.want)
			}
		})
	}

	if ErrorTypeTimeout.String() != "timeout" {
		t.Errorf("String() = %q, want %q", ErrorTypeTimeout.String(), "timeout")
	}
}
