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
	"sync"
)

// BusOp records one physical bus operation seen by MockBus
type BusOp struct {
	Data     []byte
	Transfer bool // false for Write
}

// MockBus is a Bus that records every operation and answers transfers from
// per-opcode canned responses. It is used by tests in this module and by
// collaborators testing their own command encoders.
type MockBus struct {
	responses    map[byte][]byte
	errors       map[byte]error
	TransferFunc func(tx []byte) ([]byte, error)
	WriteErr     error
	ops          []BusOp
	mu           sync.Mutex
}

// NewMockBus creates a new mock bus
func NewMockBus() *MockBus {
	return &MockBus{
		responses: make(map[byte][]byte),
		errors:    make(map[byte]error),
	}
}

// SetResponse sets the bytes returned at the end of any transfer whose first
// byte is opcode. The rest of the received bytes are zero.
func (m *MockBus) SetResponse(opcode byte, resp []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[opcode] = append([]byte(nil), resp...)
}

// SetError makes transfers starting with opcode fail with err
func (m *MockBus) SetError(opcode byte, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[opcode] = err
}

// Write implements Bus
func (m *MockBus) Write(p []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ops = append(m.ops, BusOp{Data: append([]byte(nil), p...)})
	return m.WriteErr
}

// Transfer implements Bus
func (m *MockBus) Transfer(p []byte) ([]byte, error) {
	m.mu.Lock()
	m.ops = append(m.ops, BusOp{Data: append([]byte(nil), p...), Transfer: true})
	fn := m.TransferFunc
	var resp []byte
	var err error
	if len(p) > 0 {
		resp = m.responses[p[0]]
		err = m.errors[p[0]]
	}
	m.mu.Unlock()

	if fn != nil {
		return fn(append([]byte(nil), p...))
	}
	if err != nil {
		return nil, err
	}

	rx := make([]byte, len(p))
	if len(resp) > len(rx) {
		resp = resp[len(resp)-len(rx):]
	}
	copy(rx[len(rx)-len(resp):], resp)
	return rx, nil
}

// Ops returns a copy of the recorded operations
func (m *MockBus) Ops() []BusOp {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]BusOp(nil), m.ops...)
}

// Reset clears the recorded operations
func (m *MockBus) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ops = nil
}

// MockPin is an OutputPin that records every level it is driven to
type MockPin struct {
	AssertErr   error
	DeassertErr error
	levels      []bool
	mu          sync.Mutex
}

// NewMockPin creates a new mock pin
func NewMockPin() *MockPin {
	return &MockPin{}
}

// SetAsserted implements OutputPin. The level is recorded even on error.
func (p *MockPin) SetAsserted() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.levels = append(p.levels, true)
	return p.AssertErr
}

// SetDeasserted implements OutputPin. The level is recorded even on error.
func (p *MockPin) SetDeasserted() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.levels = append(p.levels, false)
	return p.DeassertErr
}

// Levels returns every level driven so far, true meaning asserted
func (p *MockPin) Levels() []bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]bool(nil), p.levels...)
}

// Asserted reports whether the last driven level was asserted
func (p *MockPin) Asserted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.levels) > 0 && p.levels[len(p.levels)-1]
}

// MockBusyPin reports busy for a configured number of reads, then idle
type MockBusyPin struct {
	busyReads int
	reads     int
	mu        sync.Mutex
}

// NewMockBusyPin creates a busy pin that reads busy n times before going idle.
// A negative n means it never goes idle.
func NewMockBusyPin(n int) *MockBusyPin {
	return &MockBusyPin{busyReads: n}
}

// Busy implements BusyPin
func (b *MockBusyPin) Busy() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.reads++
	return b.busyReads < 0 || b.reads <= b.busyReads
}

// Reads returns how many times Busy was called
func (b *MockBusyPin) Reads() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.reads
}
