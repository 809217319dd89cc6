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

// Package spi connects an SX126x to a host SPI port and GPIO lines through
// periph.io
package spi

import (
	"fmt"

	sx126x "github.com/ZaparooProject/go-sx126x"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

const (
	// DefaultSpeed is a conservative clock that works with long jumper wires
	DefaultSpeed = 2 * physic.MegaHertz

	// Max clock frequency supported by the SX126x (16 MHz).
	maxClockFreq = 16 * physic.MegaHertz

	bitsPerWord = 8
)

// Transport implements sx126x.Bus over a periph.io SPI connection. The
// port's own chip select is disabled; NSS is driven by a GPIO through
// sx126x.ChipSelect so that one transaction can span several bus calls.
type Transport struct {
	port    spi.PortCloser
	conn    spi.Conn
	busName string
}

// Open initializes the host drivers and opens the named SPI port, e.g.
// "/dev/spidev0.0" or "SPI0.0". A zero speed selects DefaultSpeed.
func Open(busName string, speed physic.Frequency) (*Transport, error) {
	// Initialize host
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize periph host: %w", err)
	}

	port, err := spireg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("failed to open SPI port %s: %w", busName, err)
	}

	transport, err := Connect(port, busName, speed)
	if err != nil {
		_ = port.Close()
		return nil, err
	}
	return transport, nil
}

// Connect configures an already opened port for the SX126x: mode 0, 8 bit
// words, no hardware chip select
func Connect(port spi.PortCloser, busName string, speed physic.Frequency) (*Transport, error) {
	if speed <= 0 {
		speed = DefaultSpeed
	}
	if speed > maxClockFreq {
		return nil, fmt.Errorf("%w: SPI speed %v exceeds %v", sx126x.ErrInvalidParameter, speed, maxClockFreq)
	}

	conn, err := port.Connect(speed, spi.Mode0|spi.NoCS, bitsPerWord)
	if err != nil {
		return nil, fmt.Errorf("failed to configure SPI port %s: %w", busName, err)
	}

	return &Transport{
		port:    port,
		conn:    conn,
		busName: busName,
	}, nil
}

// Write implements sx126x.Bus
func (t *Transport) Write(p []byte) error {
	if len(p) == 0 {
		return nil
	}
	if err := t.conn.Tx(p, nil); err != nil {
		return fmt.Errorf("SPI write on %s: %w", t.busName, err)
	}
	return nil
}

// Transfer implements sx126x.Bus
func (t *Transport) Transfer(p []byte) ([]byte, error) {
	r := make([]byte, len(p))
	if len(p) == 0 {
		return r, nil
	}
	if err := t.conn.Tx(p, r); err != nil {
		return nil, fmt.Errorf("SPI transfer on %s: %w", t.busName, err)
	}
	return r, nil
}

// Close releases the SPI port
func (t *Transport) Close() error {
	if err := t.port.Close(); err != nil {
		return fmt.Errorf("failed to close SPI port %s: %w", t.busName, err)
	}
	return nil
}

// String returns the port name
func (t *Transport) String() string {
	return "spi:" + t.busName
}

// Pin drives an active-low output line such as NSS or NRESET
type Pin struct {
	pin gpio.PinOut
}

// NewPin wraps pin and drives it to the deasserted (high) level
func NewPin(pin gpio.PinOut) (*Pin, error) {
	if pin == nil {
		return nil, fmt.Errorf("%w: nil pin", sx126x.ErrInvalidParameter)
	}
	p := &Pin{pin: pin}
	if err := p.SetDeasserted(); err != nil {
		return nil, err
	}
	return p, nil
}

// OpenPin looks up a GPIO by name, e.g. "GPIO8", and wraps it with NewPin
func OpenPin(name string) (*Pin, error) {
	pin := gpioreg.ByName(name)
	if pin == nil {
		return nil, fmt.Errorf("%w: no GPIO named %q", sx126x.ErrInvalidParameter, name)
	}
	return NewPin(pin)
}

// SetAsserted implements sx126x.OutputPin
func (p *Pin) SetAsserted() error {
	if err := p.pin.Out(gpio.Low); err != nil {
		return fmt.Errorf("failed to drive %s low: %w", p.pin.Name(), err)
	}
	return nil
}

// SetDeasserted implements sx126x.OutputPin
func (p *Pin) SetDeasserted() error {
	if err := p.pin.Out(gpio.High); err != nil {
		return fmt.Errorf("failed to drive %s high: %w", p.pin.Name(), err)
	}
	return nil
}

// BusyPin reads the active-high BUSY line
type BusyPin struct {
	pin gpio.PinIn
}

// NewBusyPin configures pin as a floating input
func NewBusyPin(pin gpio.PinIn) (*BusyPin, error) {
	if pin == nil {
		return nil, fmt.Errorf("%w: nil pin", sx126x.ErrInvalidParameter)
	}
	if err := pin.In(gpio.Float, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("failed to configure %s as input: %w", pin.Name(), err)
	}
	return &BusyPin{pin: pin}, nil
}

// OpenBusyPin looks up a GPIO by name and wraps it with NewBusyPin
func OpenBusyPin(name string) (*BusyPin, error) {
	pin := gpioreg.ByName(name)
	if pin == nil {
		return nil, fmt.Errorf("%w: no GPIO named %q", sx126x.ErrInvalidParameter, name)
	}
	return NewBusyPin(pin)
}

// Busy implements sx126x.BusyPin
func (b *BusyPin) Busy() bool {
	return b.pin.Read() == gpio.High
}
