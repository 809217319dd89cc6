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

// Package detection finds SPI ports an SX126x may be attached to
package detection

import (
	"context"
	"errors"
	"fmt"
	"time"

	sx126x "github.com/ZaparooProject/go-sx126x"
	"github.com/ZaparooProject/go-sx126x/internal/frame"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

// Detection errors
var (
	ErrNoDevicesFound   = errors.New("no SPI ports found")
	ErrDetectionTimeout = errors.New("detection timed out")
)

// Mode selects how intrusive detection is
type Mode int

const (
	// Passive only lists ports
	Passive Mode = iota
	// Probe sends GetStatus on each port using its hardware chip select
	Probe
)

// probeSpeed is slow enough for any wiring
const probeSpeed = physic.MegaHertz

// Options configures detection
type Options struct {
	// IgnorePaths lists port names to skip, e.g. "/dev/spidev0.1"
	IgnorePaths []string
	Timeout     time.Duration
	Mode        Mode
}

// DefaultOptions returns passive detection with a 5 second timeout
func DefaultOptions() Options {
	return Options{
		Mode:    Passive,
		Timeout: 5 * time.Second,
	}
}

// DeviceInfo describes a detected SPI port
type DeviceInfo struct {
	Metadata map[string]string
	Path     string
	Aliases  []string
	// Responding is set in Probe mode when the port answered GetStatus with
	// a valid chip mode
	Responding bool
}

// Port is one SPI port that can be opened
type Port struct {
	Open    func() (spi.PortCloser, error)
	Name    string
	Aliases []string
}

// Detect lists the SPI ports registered with periph.io
func Detect(ctx context.Context, opts Options) ([]DeviceInfo, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize periph host: %w", err)
	}

	refs := spireg.All()
	ports := make([]Port, 0, len(refs))
	for _, ref := range refs {
		ports = append(ports, Port{
			Name:    ref.Name,
			Aliases: ref.Aliases,
			Open:    ref.Open,
		})
	}
	return DetectPorts(ctx, ports, opts)
}

// DetectPorts filters and optionally probes ports
func DetectPorts(ctx context.Context, ports []Port, opts Options) ([]DeviceInfo, error) {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	var devices []DeviceInfo
	for _, port := range ports {
		// Check context cancellation
		select {
		case <-ctx.Done():
			return devices, ErrDetectionTimeout
		default:
		}

		if IsPathIgnored(port.Name, opts.IgnorePaths) {
			continue
		}

		info := DeviceInfo{
			Path:     port.Name,
			Aliases:  port.Aliases,
			Metadata: make(map[string]string),
		}
		if opts.Mode == Probe {
			probePort(port, &info)
		}
		devices = append(devices, info)
	}

	if len(devices) == 0 {
		return nil, ErrNoDevicesFound
	}
	return devices, nil
}

// probePort sends GetStatus framed by the port's own chip select and
// records the decoded status
func probePort(port Port, info *DeviceInfo) {
	if port.Open == nil {
		return
	}
	p, err := port.Open()
	if err != nil {
		info.Metadata["error"] = err.Error()
		return
	}
	defer func() { _ = p.Close() }()

	conn, err := p.Connect(probeSpeed, spi.Mode0, 8)
	if err != nil {
		info.Metadata["error"] = err.Error()
		return
	}

	w := []byte{0xC0, frame.NOP} // GetStatus
	r := make([]byte, len(w))
	if err := conn.Tx(w, r); err != nil {
		info.Metadata["error"] = err.Error()
		return
	}

	status := sx126x.Status(r[1])
	info.Metadata["status"] = fmt.Sprintf("0x%02X", r[1])
	info.Metadata["chip_mode"] = status.ChipMode().String()
	info.Responding = validMode(status.ChipMode())
}

func validMode(mode sx126x.ChipMode) bool {
	switch mode {
	case sx126x.ChipModeStbyRC, sx126x.ChipModeStbyXOSC, sx126x.ChipModeFS,
		sx126x.ChipModeRX, sx126x.ChipModeTX:
		return true
	default:
		return false
	}
}
