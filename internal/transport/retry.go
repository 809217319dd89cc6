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

// Package transport provides internal polling utilities shared by the
// device and its hardware adapters
package transport

import (
	"context"
	"errors"
	"time"
)

// ErrTimeout is returned when a polled condition does not settle in time
var ErrTimeout = errors.New("poll timeout")

// PollOperation represents a function that is polled until done
// Returns: data, shouldRetry, error
// - data: the result if successful
// - shouldRetry: true if the operation should be polled again
// - error: any permanent error that should stop polling
type PollOperation[T any] func() (T, bool, error)

// TimeoutRetry polls operation every interval until it reports done, fails,
// the timeout elapses or ctx is cancelled. The operation always runs at
// least once.
func TimeoutRetry[T any](ctx context.Context, timeout, interval time.Duration, operation PollOperation[T]) (T, error) {
	var zero T
	deadline := time.Now().Add(timeout)

	for {
		result, shouldRetry, err := operation()
		if err != nil {
			return zero, err
		}

		if !shouldRetry {
			return result, nil
		}

		if !time.Now().Before(deadline) {
			return zero, ErrTimeout
		}

		// Small delay before next attempt
		if err := Sleep(ctx, interval); err != nil {
			return zero, err
		}
	}
}

// Sleep waits for d or until ctx is cancelled
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
