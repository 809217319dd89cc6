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

/*
Package sx126x provides a pure Go library for driving Semtech SX1261/SX1262/SX1268
LoRa transceivers over SPI.

The SX126x is commanded by short opcode-plus-parameter frames, each framed by the
NSS (chip select) line. This library keeps that framing explicit: a ChipSelect
owns the NSS line and a staging buffer, and a Transaction holds both while the
command bytes are built up and exchanged with the chip in a single bus cycle.

Features:
  - Scoped chip-select transactions that always release NSS, even on error or panic
  - Write coalescing: staged bytes go out in one bus operation
  - Full-duplex transfers that return only the response to the final request
  - Typed commands for standby, regulator, packet type, modulation, packet
    parameters, RF frequency, data buffer, interrupts, TX and RX
  - LoRaWAN regional data rates converted to modulation parameters
  - BUSY line polling and NRESET pulsing
  - periph.io adapters for Linux SPI ports and GPIO lines

Basic Usage:

	import (
	    "github.com/ZaparooProject/go-sx126x"
	    "github.com/ZaparooProject/go-sx126x/transport/spi"
	)

	// Open the SPI port and the GPIO lines
	transport, err := spi.Open("/dev/spidev0.0", spi.DefaultSpeed)
	if err != nil {
	    log.Fatal(err)
	}
	defer transport.Close()

	nss, err := spi.OpenPin("GPIO8")
	if err != nil {
	    log.Fatal(err)
	}
	busy, err := spi.OpenBusyPin("GPIO24")
	if err != nil {
	    log.Fatal(err)
	}

	// Create and initialize the device
	cs := sx126x.NewChipSelect(nss, sx126x.WithBufferSize(sx126x.MaxTransactionSize))
	device, err := sx126x.New(cs, transport, sx126x.WithBusyPin(busy))
	if err != nil {
	    log.Fatal(err)
	}
	if err := device.Init(ctx); err != nil {
	    log.Fatal(err)
	}

	if err := device.SetPacketType(ctx, sx126x.PacketTypeLoRa); err != nil {
	    log.Fatal(err)
	}
	if err := device.SetRfFrequency(ctx, 868_100_000); err != nil {
	    log.Fatal(err)
	}

Raw Transactions:

Commands the Device does not cover can be issued directly. Writes are staged;
Transfer sends everything staged plus its own bytes and returns the bytes
clocked back during its own portion:

	err := cs.Do(transport, func(tx *sx126x.Transaction) error {
	    if err := tx.Write([]byte{0x1D, 0x07, 0x40}); err != nil { // ReadRegister
	        return err
	    }
	    resp, err := tx.Transfer(make([]byte, 2)) // status, value
	    if err != nil {
	        return err
	    }
	    value = resp[1]
	    return nil
	})

A Transaction accepts at most one Transfer. Bytes written but never
transferred are flushed when the transaction closes; faults during that
flush are logged, not returned.

Error Handling:

Transaction errors wrap one of ErrPinSet, ErrBufferOverflow, ErrBus or
ErrProtocol and can be inspected:

	if errors.Is(err, sx126x.ErrBus) {
	    // the whole command may be retried
	}

Thread Safety:

A ChipSelect allows one open transaction at a time. Begin fails with
ErrTransactionOpen while another is open; BeginContext waits. Sequences of
Device commands are not atomic.
*/
package sx126x
