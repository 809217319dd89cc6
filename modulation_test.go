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
	"time"

	"github.com/brocaar/lorawan/band"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoRaModParams_MarshalBinary(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		want    []byte
		params  LoRaModParams
		wantErr bool
	}{
		{
			name:   "Default",
			params: DefaultLoRaModParams(),
			want:   []byte{0x07, 0x04, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00},
		},
		{
			name: "SF12_BW125_LDRO",
			params: LoRaModParams{
				SpreadingFactor:     SF12,
				Bandwidth:           BW125,
				CodingRate:          CR4_8,
				LowDataRateOptimize: true,
			},
			want: []byte{0x0C, 0x04, 0x04, 0x01, 0x00, 0x00, 0x00, 0x00},
		},
		{
			name: "Narrow_Bandwidth",
			params: LoRaModParams{
				SpreadingFactor: SF5,
				Bandwidth:       BW41,
				CodingRate:      CR4_6,
			},
			want: []byte{0x05, 0x0A, 0x02, 0x00, 0x00, 0x00, 0x00, 0x00},
		},
		{
			name: "Invalid_Spreading_Factor",
			params: LoRaModParams{
				SpreadingFactor: SpreadingFactor(0x04),
				Bandwidth:       BW125,
				CodingRate:      CR4_5,
			},
			wantErr: true,
		},
		{
			name: "Invalid_Bandwidth",
			params: LoRaModParams{
				SpreadingFactor: SF7,
				Bandwidth:       Bandwidth(0x07),
				CodingRate:      CR4_5,
			},
			wantErr: true,
		},
		{
			name: "Invalid_Coding_Rate",
			params: LoRaModParams{
				SpreadingFactor: SF7,
				Bandwidth:       BW125,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := tt.params.MarshalBinary()

			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidParameter)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, PacketTypeLoRa, tt.params.PacketType())
		})
	}
}

func TestGFSKModParams_MarshalBinary(t *testing.T) {
	t.Parallel()

	got, err := GFSKModParams{}.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, make([]byte, 8), got)
	assert.Equal(t, PacketTypeGFSK, GFSKModParams{}.PacketType())
}

func TestLoRaModParams_SymbolTime(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1024*time.Microsecond, DefaultLoRaModParams().SymbolTime())
	assert.Equal(t, 32768*time.Microsecond,
		LoRaModParams{SpreadingFactor: SF12, Bandwidth: BW125}.SymbolTime())
	assert.Equal(t, time.Duration(0),
		LoRaModParams{SpreadingFactor: SF7, Bandwidth: Bandwidth(0xFF)}.SymbolTime())
}

func TestParseSpreadingFactor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    SpreadingFactor
		wantErr bool
	}{
		{input: "7", want: SF7},
		{input: "SF12", want: SF12},
		{input: " sf5 ", want: SF5},
		{input: "4", wantErr: true},
		{input: "13", wantErr: true},
		{input: "fast", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, err := ParseSpreadingFactor(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidParameter)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseBandwidth(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    Bandwidth
		wantErr bool
	}{
		{input: "125", want: BW125},
		{input: "BW250", want: BW250},
		{input: "500kHz", want: BW500},
		{input: "7", want: BW7},
		{input: "62", want: BW62},
		{input: "100", wantErr: true},
		{input: "wide", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, err := ParseBandwidth(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidParameter)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCodingRate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    CodingRate
		wantErr bool
	}{
		{input: "4/5", want: CR4_5},
		{input: "CR4_8", want: CR4_8},
		{input: "6", want: CR4_6},
		{input: "4/9", wantErr: true},
		{input: "4/4", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, err := ParseCodingRate(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidParameter)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestModulationStrings(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "SF9", SF9.String())
	assert.Equal(t, "BW125", BW125.String())
	assert.Equal(t, "BW7", BW7.String())
	assert.Equal(t, "4/7", CR4_7.String())
	assert.Equal(t, "SpreadingFactor(0x0D)", SpreadingFactor(0x0D).String())
	assert.Equal(t, "SF7 BW125 CR4/5 LDRO=false", DefaultLoRaModParams().String())
}

func TestModParamsFromDataRate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		dr      band.DataRate
		want    LoRaModParams
		wantErr bool
	}{
		{
			name: "SF12_BW125",
			dr:   band.DataRate{Modulation: band.LoRaModulation, SpreadFactor: 12, Bandwidth: 125},
			want: LoRaModParams{
				SpreadingFactor:     SF12,
				Bandwidth:           BW125,
				CodingRate:          CR4_5,
				LowDataRateOptimize: true,
			},
		},
		{
			name: "SF11_BW125",
			dr:   band.DataRate{Modulation: band.LoRaModulation, SpreadFactor: 11, Bandwidth: 125},
			want: LoRaModParams{
				SpreadingFactor:     SF11,
				Bandwidth:           BW125,
				CodingRate:          CR4_5,
				LowDataRateOptimize: true,
			},
		},
		{
			name: "SF7_BW250",
			dr:   band.DataRate{Modulation: band.LoRaModulation, SpreadFactor: 7, Bandwidth: 250},
			want: LoRaModParams{
				SpreadingFactor: SF7,
				Bandwidth:       BW250,
				CodingRate:      CR4_5,
			},
		},
		{
			name:    "FSK",
			dr:      band.DataRate{Modulation: band.FSKModulation, BitRate: 50000},
			wantErr: true,
		},
		{
			name:    "Spreading_Factor_Out_Of_Range",
			dr:      band.DataRate{Modulation: band.LoRaModulation, SpreadFactor: 261, Bandwidth: 125},
			wantErr: true,
		},
		{
			name:    "Unsupported_Bandwidth",
			dr:      band.DataRate{Modulation: band.LoRaModulation, SpreadFactor: 7, Bandwidth: 1000},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ModParamsFromDataRate(tt.dr)

			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidParameter)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
