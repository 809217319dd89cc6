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
)

// StandbyConfig selects the oscillator kept running in standby
type StandbyConfig byte

const (
	// StandbyRC runs the 13 MHz RC oscillator
	StandbyRC StandbyConfig = 0x00
	// StandbyXOSC runs the 32 MHz crystal oscillator
	StandbyXOSC StandbyConfig = 0x01
)

func (s StandbyConfig) String() string {
	switch s {
	case StandbyRC:
		return "rc"
	case StandbyXOSC:
		return "xosc"
	default:
		return fmt.Sprintf("StandbyConfig(0x%02X)", byte(s))
	}
}

// ParseStandbyConfig parses "rc" or "xosc"
func ParseStandbyConfig(s string) (StandbyConfig, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rc", "stby_rc":
		return StandbyRC, nil
	case "xosc", "stby_xosc":
		return StandbyXOSC, nil
	default:
		return 0, fmt.Errorf("%w: unknown standby config %q", ErrInvalidParameter, s)
	}
}

// RegulatorMode selects the power regulator
type RegulatorMode byte

const (
	// RegulatorLDO uses only the LDO
	RegulatorLDO RegulatorMode = 0x00
	// RegulatorDCDC uses the DC-DC converter together with the LDO
	RegulatorDCDC RegulatorMode = 0x01
)

func (r RegulatorMode) String() string {
	switch r {
	case RegulatorLDO:
		return "ldo"
	case RegulatorDCDC:
		return "dcdc"
	default:
		return fmt.Sprintf("RegulatorMode(0x%02X)", byte(r))
	}
}

// ParseRegulatorMode parses "ldo" or "dcdc"
func ParseRegulatorMode(s string) (RegulatorMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ldo":
		return RegulatorLDO, nil
	case "dcdc", "dc-dc":
		return RegulatorDCDC, nil
	default:
		return 0, fmt.Errorf("%w: unknown regulator mode %q", ErrInvalidParameter, s)
	}
}
