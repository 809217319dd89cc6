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
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/ZaparooProject/go-sx126x/internal/frame"
)

// PacketType selects the modem used by the radio
type PacketType byte

const (
	PacketTypeGFSK PacketType = 0x00
	PacketTypeLoRa PacketType = 0x01
)

func (p PacketType) String() string {
	switch p {
	case PacketTypeGFSK:
		return "gfsk"
	case PacketTypeLoRa:
		return "lora"
	default:
		return fmt.Sprintf("PacketType(0x%02X)", byte(p))
	}
}

// ParsePacketType parses "lora" or "gfsk"
func ParsePacketType(s string) (PacketType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "gfsk":
		return PacketTypeGFSK, nil
	case "lora":
		return PacketTypeLoRa, nil
	default:
		return 0, fmt.Errorf("%w: unknown packet type %q", ErrInvalidParameter, s)
	}
}

// PacketParams is a parameter block for SetPacketParams. Implementations
// encode to exactly 9 bytes.
type PacketParams interface {
	PacketType() PacketType
	MarshalBinary() ([]byte, error)
}

// LoRaHeaderType selects explicit or implicit LoRa headers
type LoRaHeaderType byte

const (
	// HeaderExplicit sends payload length, coding rate and header CRC in
	// the header (variable length packets)
	HeaderExplicit LoRaHeaderType = 0x00
	// HeaderImplicit omits the header (fixed length packets)
	HeaderImplicit LoRaHeaderType = 0x01
)

func (h LoRaHeaderType) String() string {
	switch h {
	case HeaderExplicit:
		return "explicit"
	case HeaderImplicit:
		return "implicit"
	default:
		return fmt.Sprintf("LoRaHeaderType(0x%02X)", byte(h))
	}
}

// ParseHeaderType parses "explicit"/"variable" or "implicit"/"fixed"
func ParseHeaderType(s string) (LoRaHeaderType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "explicit", "variable", "var-len":
		return HeaderExplicit, nil
	case "implicit", "fixed", "fixed-len":
		return HeaderImplicit, nil
	default:
		return 0, fmt.Errorf("%w: unknown header type %q", ErrInvalidParameter, s)
	}
}

// LoRaCRCType enables the payload CRC
type LoRaCRCType byte

const (
	CRCOff LoRaCRCType = 0x00
	CRCOn  LoRaCRCType = 0x01
)

// LoRaInvertIQ selects standard or inverted IQ
type LoRaInvertIQ byte

const (
	IQStandard LoRaInvertIQ = 0x00
	IQInverted LoRaInvertIQ = 0x01
)

// LoRaPacketParams are the packet parameters for LoRa packets.
// PreambleLength counts preamble symbols. PayloadLength is the length to
// transmit, or the largest length accepted when receiving.
type LoRaPacketParams struct {
	PreambleLength uint16
	HeaderType     LoRaHeaderType
	PayloadLength  uint8
	CRCType        LoRaCRCType
	InvertIQ       LoRaInvertIQ
}

// DefaultLoRaPacketParams returns an 8 symbol preamble, explicit header,
// zero payload length, CRC off and standard IQ
func DefaultLoRaPacketParams() LoRaPacketParams {
	return LoRaPacketParams{
		PreambleLength: 0x0008,
		HeaderType:     HeaderExplicit,
		CRCType:        CRCOff,
		InvertIQ:       IQStandard,
	}
}

// Validate checks that every field holds a value the chip accepts
func (p LoRaPacketParams) Validate() error {
	if p.HeaderType > HeaderImplicit {
		return fmt.Errorf("%w: header type %v", ErrInvalidParameter, p.HeaderType)
	}
	if p.CRCType > CRCOn {
		return fmt.Errorf("%w: CRC type 0x%02X", ErrInvalidParameter, byte(p.CRCType))
	}
	if p.InvertIQ > IQInverted {
		return fmt.Errorf("%w: invert IQ 0x%02X", ErrInvalidParameter, byte(p.InvertIQ))
	}
	return nil
}

// PacketType implements PacketParams
func (LoRaPacketParams) PacketType() PacketType {
	return PacketTypeLoRa
}

// MarshalBinary implements PacketParams
func (p LoRaPacketParams) MarshalBinary() ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	buf := make([]byte, frame.PacketParamsSize)
	binary.BigEndian.PutUint16(buf[0:2], p.PreambleLength)
	buf[2] = byte(p.HeaderType)
	buf[3] = p.PayloadLength
	buf[4] = byte(p.CRCType)
	buf[5] = byte(p.InvertIQ)
	return buf, nil
}

// GFSKPacketParams is a placeholder for GFSK packets; it encodes as zeros
type GFSKPacketParams struct{}

// PacketType implements PacketParams
func (GFSKPacketParams) PacketType() PacketType {
	return PacketTypeGFSK
}

// MarshalBinary implements PacketParams
func (GFSKPacketParams) MarshalBinary() ([]byte, error) {
	return make([]byte, frame.PacketParamsSize), nil
}

// PacketStatus is the raw GetPacketStatus response: the status byte followed
// by three modem-specific bytes
type PacketStatus [frame.PacketStatusSize]byte

// Status returns the chip status byte
func (s PacketStatus) Status() Status {
	return Status(s[0])
}

// LoRa decodes the status of the last LoRa packet received
func (s PacketStatus) LoRa() LoRaPacketStatus {
	return LoRaPacketStatus{
		RSSIPkt:       -int16(s[1]) / 2,
		SNRPkt:        int8(s[2]) / 4,
		SignalRSSIPkt: -int16(s[3]) / 2,
	}
}

// LoRaPacketStatus describes the last LoRa packet received: the average
// RSSI over the packet and the RSSI of the despread signal, both in dBm,
// and the estimated SNR in dB
type LoRaPacketStatus struct {
	RSSIPkt       int16
	SignalRSSIPkt int16
	SNRPkt        int8
}

func (s LoRaPacketStatus) String() string {
	return fmt.Sprintf("rssi=%d dBm snr=%d dB signal_rssi=%d dBm", s.RSSIPkt, s.SNRPkt, s.SignalRSSIPkt)
}

// RxBufferStatus locates the last received payload in the data buffer
type RxBufferStatus struct {
	PayloadLength uint8
	StartPointer  uint8
}
