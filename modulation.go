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
	"strconv"
	"strings"
	"time"

	"github.com/ZaparooProject/go-sx126x/internal/frame"
	"github.com/brocaar/lorawan/band"
)

// ModParams is a parameter block for SetModulationParams. Implementations
// encode to exactly 8 bytes.
type ModParams interface {
	PacketType() PacketType
	MarshalBinary() ([]byte, error)
}

// SpreadingFactor is the LoRa spreading factor
type SpreadingFactor byte

// LoRa spreading factors
const (
	SF5  SpreadingFactor = 0x05
	SF6  SpreadingFactor = 0x06
	SF7  SpreadingFactor = 0x07
	SF8  SpreadingFactor = 0x08
	SF9  SpreadingFactor = 0x09
	SF10 SpreadingFactor = 0x0A
	SF11 SpreadingFactor = 0x0B
	SF12 SpreadingFactor = 0x0C
)

// Valid reports whether sf is a spreading factor the chip supports
func (sf SpreadingFactor) Valid() bool {
	return sf >= SF5 && sf <= SF12
}

func (sf SpreadingFactor) String() string {
	if !sf.Valid() {
		return fmt.Sprintf("SpreadingFactor(0x%02X)", byte(sf))
	}
	return "SF" + strconv.Itoa(int(sf))
}

// ParseSpreadingFactor parses "7" or "SF7"
func ParseSpreadingFactor(s string) (SpreadingFactor, error) {
	trimmed := strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(s)), "SF")
	n, err := strconv.Atoi(trimmed)
	if err != nil || !SpreadingFactor(n).Valid() {
		return 0, fmt.Errorf("%w: unknown spreading factor %q", ErrInvalidParameter, s)
	}
	return SpreadingFactor(n), nil
}

// Bandwidth is the LoRa signal bandwidth. The register values are not in
// frequency order.
type Bandwidth byte

// LoRa bandwidths
const (
	BW7   Bandwidth = 0x00 // 7.81 kHz
	BW10  Bandwidth = 0x08 // 10.42 kHz
	BW15  Bandwidth = 0x01 // 15.63 kHz
	BW20  Bandwidth = 0x09 // 20.83 kHz
	BW31  Bandwidth = 0x02 // 31.25 kHz
	BW41  Bandwidth = 0x0A // 41.67 kHz
	BW62  Bandwidth = 0x03 // 62.50 kHz
	BW125 Bandwidth = 0x04 // 125 kHz
	BW250 Bandwidth = 0x05 // 250 kHz
	BW500 Bandwidth = 0x06 // 500 kHz
)

var bandwidthHz = map[Bandwidth]int{
	BW7:   7810,
	BW10:  10420,
	BW15:  15630,
	BW20:  20830,
	BW31:  31250,
	BW41:  41670,
	BW62:  62500,
	BW125: 125000,
	BW250: 250000,
	BW500: 500000,
}

// Hz returns the bandwidth in hertz, or 0 for an unknown value
func (bw Bandwidth) Hz() int {
	return bandwidthHz[bw]
}

// Valid reports whether bw is a bandwidth the chip supports
func (bw Bandwidth) Valid() bool {
	_, ok := bandwidthHz[bw]
	return ok
}

func (bw Bandwidth) String() string {
	hz, ok := bandwidthHz[bw]
	if !ok {
		return fmt.Sprintf("Bandwidth(0x%02X)", byte(bw))
	}
	return "BW" + strconv.Itoa(hz/1000)
}

// ParseBandwidth parses the integer kHz part of a bandwidth, e.g. "125",
// "BW125" or "7" for 7.81 kHz
func ParseBandwidth(s string) (Bandwidth, error) {
	trimmed := strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(s)), "BW")
	trimmed = strings.TrimSuffix(strings.ToLower(trimmed), "khz")
	khz, err := strconv.Atoi(trimmed)
	if err == nil {
		for bw, hz := range bandwidthHz {
			if hz/1000 == khz {
				return bw, nil
			}
		}
	}
	return 0, fmt.Errorf("%w: unknown bandwidth %q", ErrInvalidParameter, s)
}

// CodingRate is the LoRa forward error correction rate
type CodingRate byte

// LoRa coding rates
const (
	CR4_5 CodingRate = 0x01
	CR4_6 CodingRate = 0x02
	CR4_7 CodingRate = 0x03
	CR4_8 CodingRate = 0x04
)

// Valid reports whether cr is a coding rate the chip supports
func (cr CodingRate) Valid() bool {
	return cr >= CR4_5 && cr <= CR4_8
}

func (cr CodingRate) String() string {
	if !cr.Valid() {
		return fmt.Sprintf("CodingRate(0x%02X)", byte(cr))
	}
	return "4/" + strconv.Itoa(int(cr)+4)
}

// ParseCodingRate parses "4/5", "CR4_5" or "5"
func ParseCodingRate(s string) (CodingRate, error) {
	trimmed := strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(s)), "CR")
	trimmed = strings.NewReplacer("_", "/").Replace(trimmed)
	trimmed = strings.TrimPrefix(trimmed, "4/")
	n, err := strconv.Atoi(trimmed)
	if err != nil || !CodingRate(n-4).Valid() {
		return 0, fmt.Errorf("%w: unknown coding rate %q", ErrInvalidParameter, s)
	}
	return CodingRate(n - 4), nil
}

// LoRaModParams are the modulation parameters for LoRa packets
type LoRaModParams struct {
	SpreadingFactor     SpreadingFactor
	Bandwidth           Bandwidth
	CodingRate          CodingRate
	LowDataRateOptimize bool
}

// DefaultLoRaModParams returns SF7, 125 kHz, 4/5 without low data rate
// optimization
func DefaultLoRaModParams() LoRaModParams {
	return LoRaModParams{
		SpreadingFactor: SF7,
		Bandwidth:       BW125,
		CodingRate:      CR4_5,
	}
}

// ldroThreshold is the symbol time from which low data rate optimization is
// required
const ldroThreshold = 16380 * time.Microsecond

// SymbolTime returns the duration of one LoRa symbol
func (p LoRaModParams) SymbolTime() time.Duration {
	hz := p.Bandwidth.Hz()
	if hz == 0 || !p.SpreadingFactor.Valid() {
		return 0
	}
	return time.Duration(int64(1)<<p.SpreadingFactor) * time.Second / time.Duration(hz)
}

// Validate checks that every field holds a value the chip accepts
func (p LoRaModParams) Validate() error {
	if !p.SpreadingFactor.Valid() {
		return fmt.Errorf("%w: spreading factor %v", ErrInvalidParameter, p.SpreadingFactor)
	}
	if !p.Bandwidth.Valid() {
		return fmt.Errorf("%w: bandwidth %v", ErrInvalidParameter, p.Bandwidth)
	}
	if !p.CodingRate.Valid() {
		return fmt.Errorf("%w: coding rate %v", ErrInvalidParameter, p.CodingRate)
	}
	return nil
}

// PacketType implements ModParams
func (LoRaModParams) PacketType() PacketType {
	return PacketTypeLoRa
}

// MarshalBinary implements ModParams
func (p LoRaModParams) MarshalBinary() ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	buf := make([]byte, frame.ModParamsSize)
	buf[0] = byte(p.SpreadingFactor)
	buf[1] = byte(p.Bandwidth)
	buf[2] = byte(p.CodingRate)
	if p.LowDataRateOptimize {
		buf[3] = 0x01
	}
	return buf, nil
}

func (p LoRaModParams) String() string {
	return fmt.Sprintf("%v %v CR%v LDRO=%t", p.SpreadingFactor, p.Bandwidth, p.CodingRate, p.LowDataRateOptimize)
}

// GFSKModParams is a placeholder for GFSK modulation; it encodes as zeros
type GFSKModParams struct{}

// PacketType implements ModParams
func (GFSKModParams) PacketType() PacketType {
	return PacketTypeGFSK
}

// MarshalBinary implements ModParams
func (GFSKModParams) MarshalBinary() ([]byte, error) {
	return make([]byte, frame.ModParamsSize), nil
}

// ModParamsFromDataRate converts a LoRaWAN regional data rate into LoRa
// modulation parameters. LoRaWAN always uses coding rate 4/5. Low data rate
// optimization is enabled when the symbol time requires it.
func ModParamsFromDataRate(dr band.DataRate) (LoRaModParams, error) {
	if dr.Modulation != band.LoRaModulation {
		return LoRaModParams{}, fmt.Errorf("%w: modulation %s is not LoRa", ErrInvalidParameter, dr.Modulation)
	}

	if dr.SpreadFactor < int(SF5) || dr.SpreadFactor > int(SF12) {
		return LoRaModParams{}, fmt.Errorf("%w: spreading factor %d", ErrInvalidParameter, dr.SpreadFactor)
	}
	sf := SpreadingFactor(dr.SpreadFactor)

	bw, err := ParseBandwidth(strconv.Itoa(dr.Bandwidth))
	if err != nil {
		return LoRaModParams{}, err
	}

	params := LoRaModParams{
		SpreadingFactor: sf,
		Bandwidth:       bw,
		CodingRate:      CR4_5,
	}
	params.LowDataRateOptimize = params.SymbolTime() >= ldroThreshold
	return params, nil
}
