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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_Decode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		wantStr   string
		status    Status
		wantMode  ChipMode
		wantCmd   CommandStatus
		wantError bool
	}{
		{
			name:     "Standby_RC",
			status:   0x20,
			wantMode: ChipModeStbyRC,
			wantCmd:  CommandStatusReserved,
			wantStr:  "mode=stby_rc cmd=reserved",
		},
		{
			name:     "RX_Data_Available",
			status:   0x54,
			wantMode: ChipModeRX,
			wantCmd:  CommandStatusDataAvailable,
			wantStr:  "mode=rx cmd=data_available",
		},
		{
			name:     "TX_Done",
			status:   0x6C,
			wantMode: ChipModeTX,
			wantCmd:  CommandStatusTxDone,
			wantStr:  "mode=tx cmd=tx_done",
		},
		{
			name:      "Processing_Error",
			status:    0x28,
			wantMode:  ChipModeStbyRC,
			wantCmd:   CommandStatusProcessingErr,
			wantStr:   "mode=stby_rc cmd=processing_error",
			wantError: true,
		},
		{
			name:      "Execute_Failure",
			status:    0x3A,
			wantMode:  ChipModeStbyXOSC,
			wantCmd:   CommandStatusExecuteFailure,
			wantStr:   "mode=stby_xosc cmd=execute_failure",
			wantError: true,
		},
		{
			name:     "Reserved_Bits_Ignored",
			status:   0xA1,
			wantMode: ChipModeStbyRC,
			wantCmd:  CommandStatusReserved,
			wantStr:  "mode=stby_rc cmd=reserved",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.wantMode, tt.status.ChipMode())
			assert.Equal(t, tt.wantCmd, tt.status.CommandStatus())
			assert.Equal(t, tt.wantStr, tt.status.String())

			if tt.wantError {
				require.ErrorIs(t, tt.status.Err(), ErrCommandFailed)
			} else {
				assert.NoError(t, tt.status.Err())
			}
		})
	}
}

func TestChipMode_StringUnknown(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "ChipMode(0x7)", ChipMode(0x7).String())
	assert.Equal(t, "CommandStatus(0x1)", CommandStatus(0x1).String())
}

func TestIRQ(t *testing.T) {
	t.Parallel()

	irq := IRQTxDone | IRQTimeout

	assert.True(t, irq.Has(IRQTxDone))
	assert.True(t, irq.Has(IRQTxDone|IRQTimeout))
	assert.False(t, irq.Has(IRQTxDone|IRQRxDone))
	assert.True(t, irq.Has(IRQNone))

	assert.Equal(t, "tx_done|timeout", irq.String())
	assert.Equal(t, "none", IRQNone.String())
	assert.Equal(t, "rx_done|crc_err|0x8000", (IRQRxDone | IRQCrcErr | IRQ(0x8000)).String())
	assert.Equal(t, IRQ(0x03FF), IRQAll)
}

func TestStandbyAndRegulator(t *testing.T) {
	t.Parallel()

	tests := []struct {
		parse   func(string) (string, error)
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{
			name:  "Standby_RC",
			parse: parseStandbyString,
			input: "rc",
			want:  "rc",
		},
		{
			name:  "Standby_XOSC",
			parse: parseStandbyString,
			input: "STBY_XOSC",
			want:  "xosc",
		},
		{
			name:    "Standby_Unknown",
			parse:   parseStandbyString,
			input:   "deep",
			wantErr: true,
		},
		{
			name:  "Regulator_LDO",
			parse: parseRegulatorString,
			input: "LDO",
			want:  "ldo",
		},
		{
			name:  "Regulator_DCDC",
			parse: parseRegulatorString,
			input: "dc-dc",
			want:  "dcdc",
		},
		{
			name:    "Regulator_Unknown",
			parse:   parseRegulatorString,
			input:   "buck",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := tt.parse(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidParameter)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func parseStandbyString(s string) (string, error) {
	config, err := ParseStandbyConfig(s)
	if err != nil {
		return "", err
	}
	return config.String(), nil
}

func parseRegulatorString(s string) (string, error) {
	mode, err := ParseRegulatorMode(s)
	if err != nil {
		return "", err
	}
	return mode.String(), nil
}
