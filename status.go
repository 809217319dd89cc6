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
	"fmt"
	"strings"

	"github.com/ZaparooProject/go-sx126x/internal/frame"
)

// Status is the status byte returned by GetStatus and at the start of every
// read command response
type Status byte

// ChipMode is the operating mode reported in the status byte
type ChipMode byte

// Chip modes
const (
	ChipModeUnused   ChipMode = 0x0
	ChipModeStbyRC   ChipMode = 0x2
	ChipModeStbyXOSC ChipMode = 0x3
	ChipModeFS       ChipMode = 0x4
	ChipModeRX       ChipMode = 0x5
	ChipModeTX       ChipMode = 0x6
)

var chipModeNames = map[ChipMode]string{
	ChipModeUnused:   "unused",
	ChipModeStbyRC:   "stby_rc",
	ChipModeStbyXOSC: "stby_xosc",
	ChipModeFS:       "fs",
	ChipModeRX:       "rx",
	ChipModeTX:       "tx",
}

func (m ChipMode) String() string {
	if name, ok := chipModeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("ChipMode(0x%X)", byte(m))
}

// CommandStatus is the outcome of the last command reported in the status byte
type CommandStatus byte

// Command statuses
const (
	CommandStatusReserved       CommandStatus = 0x0
	CommandStatusDataAvailable  CommandStatus = 0x2
	CommandStatusTimeout        CommandStatus = 0x3
	CommandStatusProcessingErr  CommandStatus = 0x4
	CommandStatusExecuteFailure CommandStatus = 0x5
	CommandStatusTxDone         CommandStatus = 0x6
)

var commandStatusNames = map[CommandStatus]string{
	CommandStatusReserved:       "reserved",
	CommandStatusDataAvailable:  "data_available",
	CommandStatusTimeout:        "timeout",
	CommandStatusProcessingErr:  "processing_error",
	CommandStatusExecuteFailure: "execute_failure",
	CommandStatusTxDone:         "tx_done",
}

func (c CommandStatus) String() string {
	if name, ok := commandStatusNames[c]; ok {
		return name
	}
	return fmt.Sprintf("CommandStatus(0x%X)", byte(c))
}

// ChipMode decodes bits 6:4
func (s Status) ChipMode() ChipMode {
	return ChipMode((byte(s) & frame.ChipModeMask) >> frame.ChipModeShift)
}

// CommandStatus decodes bits 3:1
func (s Status) CommandStatus() CommandStatus {
	return CommandStatus((byte(s) & frame.CommandStatusMask) >> frame.CommandStatusShift)
}

// Err returns ErrCommandFailed if the chip rejected the last command
func (s Status) Err() error {
	switch cs := s.CommandStatus(); cs {
	case CommandStatusProcessingErr, CommandStatusExecuteFailure:
		return fmt.Errorf("%w: %v", ErrCommandFailed, cs)
	default:
		return nil
	}
}

func (s Status) String() string {
	return fmt.Sprintf("mode=%v cmd=%v", s.ChipMode(), s.CommandStatus())
}

// IRQ is the interrupt flag mask used by GetIrqStatus, ClearIrqStatus and
// SetDioIrqParams
type IRQ uint16

// Interrupt flags
const (
	IRQTxDone           IRQ = 1 << 0
	IRQRxDone           IRQ = 1 << 1
	IRQPreambleDetected IRQ = 1 << 2
	IRQSyncWordValid    IRQ = 1 << 3
	IRQHeaderValid      IRQ = 1 << 4
	IRQHeaderErr        IRQ = 1 << 5
	IRQCrcErr           IRQ = 1 << 6
	IRQCadDone          IRQ = 1 << 7
	IRQCadDetected      IRQ = 1 << 8
	IRQTimeout          IRQ = 1 << 9

	IRQNone IRQ = 0x0000
	IRQAll  IRQ = 0x03FF
)

var irqNames = []struct {
	name string
	flag IRQ
}{
	{"tx_done", IRQTxDone},
	{"rx_done", IRQRxDone},
	{"preamble_detected", IRQPreambleDetected},
	{"sync_word_valid", IRQSyncWordValid},
	{"header_valid", IRQHeaderValid},
	{"header_err", IRQHeaderErr},
	{"crc_err", IRQCrcErr},
	{"cad_done", IRQCadDone},
	{"cad_detected", IRQCadDetected},
	{"timeout", IRQTimeout},
}

// Has reports whether every flag in mask is set
func (i IRQ) Has(mask IRQ) bool {
	return i&mask == mask
}

func (i IRQ) String() string {
	if i == IRQNone {
		return "none"
	}
	var names []string
	for _, n := range irqNames {
		if i.Has(n.flag) {
			names = append(names, n.name)
		}
	}
	if rest := i &^ IRQAll; rest != 0 {
		names = append(names, fmt.Sprintf("0x%04X", uint16(rest)))
	}
	return strings.Join(names, "|")
}
