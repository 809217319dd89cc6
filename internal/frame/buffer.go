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

package frame

import "errors"

// ErrOverflow is returned when staged bytes would exceed the buffer capacity
var ErrOverflow = errors.New("staging buffer overflow")

// Buffer is a fixed-capacity staging area for the bytes of one chip-select
// transaction. Invariant: Len() <= Cap().
//
// Buffer is not safe for concurrent use; it is owned by exactly one
// transaction at a time.
type Buffer struct {
	data []byte
	n    int
}

// NewBuffer creates an empty buffer holding at most capacity bytes
func NewBuffer(capacity int) *Buffer {
	if capacity < 0 {
		capacity = 0
	}
	return &Buffer{data: make([]byte, capacity)}
}

// Append stages p after the bytes already held. It is all-or-nothing: if p
// does not fit the buffer is left unchanged and ErrOverflow is returned.
func (b *Buffer) Append(p []byte) error {
	if len(p) > len(b.data)-b.n {
		return ErrOverflow
	}
	b.n += copy(b.data[b.n:], p)
	return nil
}

// Take returns a copy of the staged bytes and empties the buffer
func (b *Buffer) Take() []byte {
	out := make([]byte, b.n)
	copy(out, b.data[:b.n])
	b.n = 0
	return out
}

// Reset discards any staged bytes
func (b *Buffer) Reset() {
	b.n = 0
}

// Len returns the number of staged bytes
func (b *Buffer) Len() int {
	return b.n
}

// Cap returns the fixed capacity
func (b *Buffer) Cap() int {
	return len(b.data)
}

// Free returns how many more bytes can be staged
func (b *Buffer) Free() int {
	return len(b.data) - b.n
}
