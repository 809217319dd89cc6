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
	"time"

	"github.com/sirupsen/logrus"
)

// Option is a functional option for configuring a Device
type Option func(*Device) error

// WithBusyPin makes the device wait for the BUSY line to go low before
// every command
func WithBusyPin(pin BusyPin) Option {
	return func(d *Device) error {
		d.busy = pin
		return nil
	}
}

// WithResetPin enables Reset
func WithResetPin(pin OutputPin) Option {
	return func(d *Device) error {
		d.reset = pin
		return nil
	}
}

// WithBusyTimeout sets how long to wait for the BUSY line before giving up
func WithBusyTimeout(timeout time.Duration) Option {
	return func(d *Device) error {
		if timeout <= 0 {
			return ErrInvalidParameter
		}
		d.config.BusyTimeout = timeout
		return nil
	}
}

// WithRegulatorMode sets the regulator selected by Init
func WithRegulatorMode(mode RegulatorMode) Option {
	return func(d *Device) error {
		d.config.Regulator = mode
		return nil
	}
}

// WithLogger sets the logger used for command tracing
func WithLogger(logger logrus.FieldLogger) Option {
	return func(d *Device) error {
		if logger != nil {
			d.logger = logger
		}
		return nil
	}
}

// WithConfig replaces the whole device configuration
func WithConfig(config *DeviceConfig) Option {
	return func(d *Device) error {
		if config == nil {
			return ErrInvalidParameter
		}
		d.config = config
		return nil
	}
}
