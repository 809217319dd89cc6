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

package transport

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeoutRetry(t *testing.T) {
	t.Parallel()

	permanent := errors.New("permanent")

	tests := []struct {
		wantErr   error
		name      string
		doneAfter int
		wantCalls int
		failAt    int
	}{
		{
			name:      "done immediately",
			doneAfter: 0,
			wantCalls: 1,
		},
		{
			name:      "done after polling",
			doneAfter: 3,
			wantCalls: 4,
		},
		{
			name:      "permanent error stops polling",
			doneAfter: 10,
			failAt:    2,
			wantCalls: 2,
			wantErr:   permanent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			calls := 0
			result, err := TimeoutRetry(context.Background(), time.Second, time.Microsecond,
				func() (int, bool, error) {
					calls++
					if tt.failAt > 0 && calls == tt.failAt {
						return 0, false, permanent
					}
					return calls, calls <= tt.doneAfter, nil
				})

			assert.Equal(t, tt.wantCalls, calls)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCalls, result)
		})
	}
}

func TestTimeoutRetry_Timeout(t *testing.T) {
	t.Parallel()

	calls := 0
	_, err := TimeoutRetry(context.Background(), 5*time.Millisecond, time.Millisecond,
		func() (struct{}, bool, error) {
			calls++
			return struct{}{}, true, nil
		})

	require.ErrorIs(t, err, ErrTimeout)
	assert.GreaterOrEqual(t, calls, 2)
}

func TestTimeoutRetry_ZeroTimeoutRunsOnce(t *testing.T) {
	t.Parallel()

	calls := 0
	_, err := TimeoutRetry(context.Background(), 0, time.Millisecond,
		func() (struct{}, bool, error) {
			calls++
			return struct{}{}, true, nil
		})

	require.ErrorIs(t, err, ErrTimeout)
	assert.Equal(t, 1, calls)
}

func TestTimeoutRetry_ContextCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := TimeoutRetry(ctx, time.Second, time.Millisecond,
		func() (struct{}, bool, error) {
			return struct{}{}, true, nil
		})

	require.ErrorIs(t, err, context.Canceled)
}
