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

// SX126x command opcodes
const (
	cmdClearIrqStatus       = 0x02
	cmdSetDioIrqParams      = 0x08
	cmdWriteBuffer          = 0x0E
	cmdGetPacketType        = 0x11
	cmdGetIrqStatus         = 0x12
	cmdGetRxBufferStatus    = 0x13
	cmdGetPacketStatus      = 0x14
	cmdReadBuffer           = 0x1E
	cmdSetStandby           = 0x80
	cmdSetRx                = 0x82
	cmdSetTx                = 0x83
	cmdSetSleep             = 0x84
	cmdSetRfFrequency       = 0x86
	cmdSetPacketType        = 0x8A
	cmdSetModulationParams  = 0x8B
	cmdSetPacketParams      = 0x8C
	cmdSetBufferBaseAddress = 0x8F
	cmdSetRegulatorMode     = 0x96
	cmdGetStatus            = 0xC0
)

// SetSleep configuration bits
const (
	SleepColdStart byte = 0x00 // Configuration is lost on wake-up
	SleepWarmStart byte = 0x04 // Configuration is retained on wake-up
	SleepRTCWakeup byte = 0x01 // Wake up on RTC timeout
)

// Timeout values for SetRx
const (
	// RxSingle receives one packet and returns to standby
	RxSingle uint32 = 0x000000
	// RxContinuous keeps receiving until told otherwise
	RxContinuous uint32 = 0xFFFFFF
)

// Crystal frequency used for RF frequency and timeout conversions
const xtalFreq = 32_000_000
