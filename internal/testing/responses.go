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

// Package testing provides canned SX126x bus responses for tests
package testing

// Opcodes as seen on the bus
const (
	CmdClearIrqStatus       = 0x02
	CmdSetDioIrqParams      = 0x08
	CmdWriteBuffer          = 0x0E
	CmdGetPacketType        = 0x11
	CmdGetIrqStatus         = 0x12
	CmdGetRxBufferStatus    = 0x13
	CmdGetPacketStatus      = 0x14
	CmdReadBuffer           = 0x1E
	CmdSetStandby           = 0x80
	CmdSetRx                = 0x82
	CmdSetTx                = 0x83
	CmdSetSleep             = 0x84
	CmdSetRfFrequency       = 0x86
	CmdSetPacketType        = 0x8A
	CmdSetModulationParams  = 0x8B
	CmdSetPacketParams      = 0x8C
	CmdSetBufferBaseAddress = 0x8F
	CmdSetRegulatorMode     = 0x96
	CmdGetStatus            = 0xC0
)

// Chip modes and command statuses as encoded in the status byte
const (
	ModeStbyRC   = 0x2
	ModeStbyXOSC = 0x3
	ModeRX       = 0x5
	ModeTX       = 0x6

	CmdStatusDataAvailable  = 0x2
	CmdStatusTimeout        = 0x3
	CmdStatusProcessingErr  = 0x4
	CmdStatusExecuteFailure = 0x5
	CmdStatusTxDone         = 0x6
)

// BuildStatus encodes a status byte
func BuildStatus(chipMode, cmdStatus byte) byte {
	return (chipMode&0x07)<<4 | (cmdStatus&0x07)<<1
}

// StandbyStatus is the status byte of an idle chip in RC standby
func StandbyStatus() byte {
	return BuildStatus(ModeStbyRC, 0)
}

// BuildGetStatusResponse creates a GetStatus response
func BuildGetStatusResponse(status byte) []byte {
	return []byte{status}
}

// BuildPacketTypeResponse creates a GetPacketType response
func BuildPacketTypeResponse(status, packetType byte) []byte {
	return []byte{status, packetType}
}

// BuildPacketStatusResponse creates a LoRa GetPacketStatus response from raw
// register values
func BuildPacketStatusResponse(status, rssiPkt, snrPkt, signalRssiPkt byte) []byte {
	return []byte{status, rssiPkt, snrPkt, signalRssiPkt}
}

// BuildRxBufferStatusResponse creates a GetRxBufferStatus response
func BuildRxBufferStatusResponse(status, payloadLength, startPointer byte) []byte {
	return []byte{status, payloadLength, startPointer}
}

// BuildIrqStatusResponse creates a GetIrqStatus response
func BuildIrqStatusResponse(status byte, irq uint16) []byte {
	return []byte{status, byte(irq >> 8), byte(irq)}
}

// BuildReadBufferResponse creates a ReadBuffer response
func BuildReadBufferResponse(status byte, data []byte) []byte {
	response := []byte{status}
	response = append(response, data...)
	return response
}

// Common payloads for testing
var (
	// TestPayload is a sample received payload
	TestPayload = []byte{0x48, 0x65, 0x6C, 0x6C, 0x6F}
)
