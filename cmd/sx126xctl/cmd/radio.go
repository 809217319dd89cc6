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

package cmd

import (
	"fmt"

	sx126x "github.com/ZaparooProject/go-sx126x"
	"github.com/ZaparooProject/go-sx126x/transport/spi"
	log "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/physic"
)

// radio is an opened device together with the port it owns
type radio struct {
	*sx126x.Device
	transport *spi.Transport
}

func (r *radio) Close() {
	if err := r.transport.Close(); err != nil {
		log.WithError(err).Warning("close spi port error")
	}
}

// openRadio opens the SPI port and GPIO lines named in c
func openRadio(c Config) (*radio, error) {
	regulator, err := sx126x.ParseRegulatorMode(c.Radio.Regulator)
	if err != nil {
		return nil, fmt.Errorf("radio.regulator: %w", err)
	}

	transport, err := spi.Open(c.SPI.Bus, physic.Frequency(c.SPI.SpeedHz)*physic.Hertz)
	if err != nil {
		return nil, err
	}

	device, err := newDevice(c, transport, regulator)
	if err != nil {
		_ = transport.Close()
		return nil, err
	}

	log.WithFields(log.Fields{
		"bus": c.SPI.Bus,
		"nss": c.Pins.NSS,
	}).Debug("radio opened")

	return &radio{Device: device, transport: transport}, nil
}

func newDevice(c Config, bus sx126x.Bus, regulator sx126x.RegulatorMode) (*sx126x.Device, error) {
	nss, err := spi.OpenPin(c.Pins.NSS)
	if err != nil {
		return nil, fmt.Errorf("pins.nss: %w", err)
	}

	logger := log.StandardLogger()
	cs := sx126x.NewChipSelect(nss,
		sx126x.WithBufferSize(sx126x.MaxTransactionSize),
		sx126x.WithChipSelectLogger(logger.WithField("component", "chip_select")),
	)

	opts := []sx126x.Option{
		sx126x.WithBusyTimeout(c.Radio.BusyTimeout),
		sx126x.WithRegulatorMode(regulator),
		sx126x.WithLogger(logger.WithField("component", "sx126x")),
	}

	if c.Pins.Busy != "" {
		busy, err := spi.OpenBusyPin(c.Pins.Busy)
		if err != nil {
			return nil, fmt.Errorf("pins.busy: %w", err)
		}
		opts = append(opts, sx126x.WithBusyPin(busy))
	}

	if c.Pins.Reset != "" {
		reset, err := spi.OpenPin(c.Pins.Reset)
		if err != nil {
			return nil, fmt.Errorf("pins.reset: %w", err)
		}
		opts = append(opts, sx126x.WithResetPin(reset))
	}

	return sx126x.New(cs, bus, opts...)
}
