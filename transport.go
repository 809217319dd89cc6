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

// Bus is a synchronous, full-duplex serial bus. Both operations block until
// the exchange completes. Implementations do not drive the chip select line;
// that is owned by ChipSelect.
type Bus interface {
	// Write transmits p and discards whatever is clocked back
	Write(p []byte) error

	// Transfer transmits p and returns the len(p) bytes received during the
	// same bus cycle
	Transfer(p []byte) ([]byte, error)
}

// OutputPin is an active-low digital output such as the NSS or NRESET line
type OutputPin interface {
	// SetAsserted drives the line to its active (physically low) level
	SetAsserted() error

	// SetDeasserted drives the line to its inactive (physically high) level
	SetDeasserted() error
}

// BusyPin reports the state of the chip's BUSY output
type BusyPin interface {
	// Busy returns true while the chip cannot accept a command
	Busy() bool
}
