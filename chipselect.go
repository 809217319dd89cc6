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
	"context"
	"errors"
	"fmt"

	"github.com/ZaparooProject/go-sx126x/internal/frame"
	"github.com/sirupsen/logrus"
)

// ChipSelectOption configures a ChipSelect
type ChipSelectOption func(*ChipSelect)

// WithBufferSize sets the transaction buffer capacity. It must cover the
// largest transaction issued through the controller.
func WithBufferSize(capacity int) ChipSelectOption {
	return func(c *ChipSelect) {
		c.capacity = capacity
	}
}

// WithChipSelectLogger sets the logger used to report faults swallowed while
// closing a transaction
func WithChipSelectLogger(logger logrus.FieldLogger) ChipSelectOption {
	return func(c *ChipSelect) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// lease is everything a transaction needs exclusive access to
type lease struct {
	pin OutputPin
	buf *frame.Buffer
}

// ChipSelect owns the chip select line of one SPI peripheral and opens
// transactions against it.
//
// The pin and the staging buffer travel together as a single lease. Begin
// takes the lease and hands it to the returned Transaction; Close gives it
// back. While a transaction is open the controller holds nothing, so a
// second Begin cannot observe or touch the open transaction's pin or
// buffer. Multiple ChipSelect instances share no state.
type ChipSelect struct {
	logger   logrus.FieldLogger
	leases   chan *lease
	capacity int
}

// NewChipSelect takes ownership of pin. The caller must not drive pin
// directly afterwards.
func NewChipSelect(pin OutputPin, opts ...ChipSelectOption) *ChipSelect {
	c := &ChipSelect{
		logger:   logrus.StandardLogger(),
		leases:   make(chan *lease, 1),
		capacity: frame.DefaultCapacity,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.leases <- &lease{pin: pin, buf: frame.NewBuffer(c.capacity)}
	return c
}

// Capacity returns the transaction buffer capacity
func (c *ChipSelect) Capacity() int {
	return c.capacity
}

// Begin asserts the chip select line and returns a transaction that holds
// both the line and bus until it is closed. It fails with ErrTransactionOpen
// if another transaction from this controller is still open, and with
// ErrPinSet if the line cannot be asserted.
func (c *ChipSelect) Begin(bus Bus) (*Transaction, error) {
	if bus == nil {
		return nil, fmt.Errorf("begin transaction: %w: nil bus", ErrInvalidParameter)
	}

	select {
	case l := <-c.leases:
		return c.open(l, bus)
	default:
		return nil, NewTransactionError("Begin", ErrTransactionOpen, nil)
	}
}

// BeginContext is like Begin but waits for an open transaction to close
// instead of failing
func (c *ChipSelect) BeginContext(ctx context.Context, bus Bus) (*Transaction, error) {
	if bus == nil {
		return nil, fmt.Errorf("begin transaction: %w: nil bus", ErrInvalidParameter)
	}

	// Check if context is already cancelled
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context cancelled before transaction: %w", err)
	}

	select {
	case l := <-c.leases:
		return c.open(l, bus)
	case <-ctx.Done():
		return nil, fmt.Errorf("context cancelled waiting for chip select: %w", ctx.Err())
	}
}

// Do runs fn inside a transaction. The transaction is closed when fn
// returns, including when fn returns an error or panics.
func (c *ChipSelect) Do(bus Bus, fn func(tx *Transaction) error) error {
	tx, err := c.Begin(bus)
	if err != nil {
		return err
	}
	defer tx.Close()

	return fn(tx)
}

// DoContext is like Do but waits for the chip select with BeginContext
func (c *ChipSelect) DoContext(ctx context.Context, bus Bus, fn func(tx *Transaction) error) error {
	tx, err := c.BeginContext(ctx, bus)
	if err != nil {
		return err
	}
	defer tx.Close()

	return fn(tx)
}

func (c *ChipSelect) open(l *lease, bus Bus) (*Transaction, error) {
	l.buf.Reset()

	if err := l.pin.SetAsserted(); err != nil {
		// No guard exists, so the lease goes straight back. The pin is left
		// in whatever state the failed call produced.
		c.leases <- l
		return nil, NewTransactionError("Begin", ErrPinSet, err)
	}

	c.logger.Debug("chip select asserted")
	return &Transaction{cs: c, lease: l, bus: bus}, nil
}

func (c *ChipSelect) release(l *lease) {
	c.leases <- l
}

// Transaction is an open chip-select transaction. Any number of Write calls
// may be followed by at most one Transfer. Close must be called exactly once
// when done; Do and DoContext do that automatically.
//
// Transaction is not safe for concurrent use.
type Transaction struct {
	bus         Bus
	cs          *ChipSelect
	lease       *lease // nil once closed
	transferred bool
}

// Write stages p. No bus activity occurs; staged bytes are sent by a later
// Transfer or when the transaction is closed.
func (t *Transaction) Write(p []byte) error {
	return t.stage("Write", p)
}

// Transfer stages p and exchanges everything staged so far in a single
// full-duplex bus cycle. It returns the last len(p) received bytes, which
// are the chip's response to p. Responses clocked in while earlier Write
// bytes were sent are discarded.
//
// After Transfer, further Write or Transfer calls fail with
// ErrAlreadyTransferred. If the bus fails the transaction must be treated as
// failed and only closed.
func (t *Transaction) Transfer(p []byte) ([]byte, error) {
	if err := t.stage("Transfer", p); err != nil {
		return nil, err
	}

	tx := t.lease.buf.Take()
	t.transferred = true

	rx, err := t.bus.Transfer(tx)
	if err != nil {
		return nil, NewTransactionError("Transfer", ErrBus, err)
	}
	if len(rx) != len(tx) {
		return nil, NewTransactionError("Transfer", ErrBus,
			fmt.Errorf("response length %d does not match %d bytes sent", len(rx), len(tx)))
	}

	resp := make([]byte, len(p))
	copy(resp, rx[len(rx)-len(p):])
	return resp, nil
}

// Pending returns the number of staged bytes not yet sent
func (t *Transaction) Pending() int {
	if t.lease == nil {
		return 0
	}
	return t.lease.buf.Len()
}

// Close finalizes the transaction: staged bytes that no Transfer sent are
// written to the bus, then the chip select line is deasserted. Close runs at
// most once; later calls do nothing.
//
// Close never reports errors. A failed flush or deassert is logged and
// dropped, because releasing the line takes priority over reporting a fault
// nobody can act on any more. This is the only place faults are swallowed.
func (t *Transaction) Close() {
	l := t.lease
	if l == nil {
		return
	}
	t.lease = nil

	defer t.cs.release(l)
	defer func() {
		t.transferred = false
		if err := l.pin.SetDeasserted(); err != nil {
			t.cs.logger.WithError(err).WithField("op", "Close").
				Warn("chip select deassert failed, ignoring")
			return
		}
		t.cs.logger.Debug("chip select deasserted")
	}()

	if l.buf.Len() == 0 {
		return
	}

	pending := l.buf.Take()
	if err := t.bus.Write(pending); err != nil {
		t.cs.logger.WithError(err).WithFields(logrus.Fields{
			"op":      "Close",
			"pending": len(pending),
		}).Warn("flush of staged bytes failed, ignoring")
	}
}

func (t *Transaction) stage(op string, p []byte) error {
	if t.lease == nil {
		return NewTransactionError(op, ErrTransactionClosed, nil)
	}
	if t.transferred {
		return NewTransactionError(op, ErrAlreadyTransferred, nil)
	}

	buf := t.lease.buf
	if err := buf.Append(p); err != nil {
		if errors.Is(err, frame.ErrOverflow) {
			return NewTransactionError(op, ErrBufferOverflow,
				fmt.Errorf("%d staged + %d new > capacity %d", buf.Len(), len(p), buf.Cap()))
		}
		return NewTransactionError(op, ErrBufferOverflow, err)
	}
	return nil
}
