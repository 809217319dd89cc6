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

// Package frame provides the staging buffer and wire-level constants for
// SX126x SPI transactions
package frame

// Filler byte clocked out while the chip shifts a response back
const NOP = 0x00

// Fixed parameter block sizes
const (
	ModParamsSize    = 8 // SetModulationParams payload
	PacketParamsSize = 9 // SetPacketParams payload
	PacketStatusSize = 4 // status + 3 packet status bytes
)

// Transaction size limits
const (
	MaxPayloadLength = 255 // Largest radio payload the data buffer holds

	// MaxTransactionSize covers the longest command the driver issues:
	// ReadBuffer opcode, offset, status byte and a full payload.
	MaxTransactionSize = 3 + MaxPayloadLength

	// DefaultCapacity is the staging capacity used when none is configured.
	DefaultCapacity = MaxTransactionSize
)

// Status byte layout, shared by every command response
const (
	ChipModeMask       = 0x70
	ChipModeShift      = 4
	CommandStatusMask  = 0x0E
	CommandStatusShift = 1
)
