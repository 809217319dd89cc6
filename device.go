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
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/ZaparooProject/go-sx126x/internal/frame"
	"github.com/ZaparooProject/go-sx126x/internal/transport"
	"github.com/sirupsen/logrus"
)

// MaxTransactionSize is the buffer capacity needed for every command Device
// issues, including a full-length ReadBuffer
const MaxTransactionSize = frame.MaxTransactionSize

// MaxTimeout is the largest SetTx/SetRx timeout in 15.625 µs steps
const MaxTimeout uint32 = 0xFFFFFF

// DeviceConfig contains configuration options for the Device
type DeviceConfig struct {
	// BusyTimeout bounds the wait for the BUSY line before each command
	BusyTimeout time.Duration
	// BusyPollInterval is the delay between BUSY line reads
	BusyPollInterval time.Duration
	// ResetPulse is how long Reset holds NRESET low
	ResetPulse time.Duration
	// Regulator is selected by Init
	Regulator RegulatorMode
}

// DefaultDeviceConfig returns default device configuration
func DefaultDeviceConfig() *DeviceConfig {
	return &DeviceConfig{
		BusyTimeout:      100 * time.Millisecond,
		BusyPollInterval: 100 * time.Microsecond,
		ResetPulse:       time.Millisecond,
		Regulator:        RegulatorLDO,
	}
}

// Device represents an SX126x LoRa transceiver.
//
// Every command is issued as a single chip-select transaction: the opcode
// and any parameters are staged and then exchanged in one bus cycle.
//
// Thread Safety: commands from different goroutines are serialised by the
// ChipSelect, but sequences of commands (configure, then transmit) are not
// atomic. Use one goroutine per Device or external synchronization.
type Device struct {
	bus    Bus
	busy   BusyPin
	reset  OutputPin
	logger logrus.FieldLogger
	cs     *ChipSelect
	config *DeviceConfig
}

// New creates a new SX126x device using cs for the NSS line and bus for data
func New(cs *ChipSelect, bus Bus, opts ...Option) (*Device, error) {
	if cs == nil || bus == nil {
		return nil, fmt.Errorf("%w: chip select and bus are required", ErrInvalidParameter)
	}
	if cs.Capacity() < MaxTransactionSize {
		return nil, fmt.Errorf("%w: chip select buffer of %d bytes, commands need %d",
			ErrInvalidParameter, cs.Capacity(), MaxTransactionSize)
	}

	device := &Device{
		cs:     cs,
		bus:    bus,
		config: DefaultDeviceConfig(),
		logger: logrus.StandardLogger(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(device); err != nil {
			return nil, err
		}
	}

	return device, nil
}

// ChipSelect returns the chip select controller, for issuing raw commands
func (d *Device) ChipSelect() *ChipSelect {
	return d.cs
}

// Bus returns the underlying bus
func (d *Device) Bus() Bus {
	return d.bus
}

// Init resets the chip if a reset line is configured, puts it in RC standby,
// selects the configured regulator and checks that the chip reports standby
func (d *Device) Init(ctx context.Context) error {
	if d.reset != nil {
		if err := d.Reset(ctx); err != nil {
			return err
		}
	}

	if err := d.SetStandby(ctx, StandbyRC); err != nil {
		return err
	}

	if err := d.SetRegulatorMode(ctx, d.config.Regulator); err != nil {
		return err
	}

	status, err := d.GetStatus(ctx)
	if err != nil {
		return err
	}
	if mode := status.ChipMode(); mode != ChipModeStbyRC {
		return fmt.Errorf("chip not responding: expected mode %v, got %v", ChipModeStbyRC, mode)
	}

	d.logger.WithField("status", status.String()).Debug("SX126x initialised")
	return nil
}

// Reset pulses the NRESET line and waits for the chip to become ready
func (d *Device) Reset(ctx context.Context) error {
	if d.reset == nil {
		return fmt.Errorf("%w: no reset pin configured", ErrInvalidParameter)
	}

	if err := d.reset.SetAsserted(); err != nil {
		return fmt.Errorf("failed to assert reset: %w", err)
	}
	sleepErr := transport.Sleep(ctx, d.config.ResetPulse)
	if err := d.reset.SetDeasserted(); err != nil {
		return fmt.Errorf("failed to release reset: %w", err)
	}
	if sleepErr != nil {
		return fmt.Errorf("reset interrupted: %w", sleepErr)
	}

	return d.waitReady(ctx)
}

// GetStatus reads the chip status byte
func (d *Device) GetStatus(ctx context.Context) (Status, error) {
	resp, err := d.readCommand(ctx, "GetStatus", cmdGetStatus, nil, 1)
	if err != nil {
		return 0, err
	}
	return Status(resp[0]), nil
}

// SetStandby puts the chip in standby with the given oscillator
func (d *Device) SetStandby(ctx context.Context, config StandbyConfig) error {
	return d.writeCommand(ctx, "SetStandby", cmdSetStandby, []byte{byte(config)})
}

// SetSleep puts the chip to sleep. config is a combination of the Sleep*
// constants. The chip does not answer until woken by NSS.
func (d *Device) SetSleep(ctx context.Context, config byte) error {
	return d.writeCommand(ctx, "SetSleep", cmdSetSleep, []byte{config})
}

// SetRegulatorMode selects the LDO or DC-DC regulator
func (d *Device) SetRegulatorMode(ctx context.Context, mode RegulatorMode) error {
	return d.writeCommand(ctx, "SetRegulatorMode", cmdSetRegulatorMode, []byte{byte(mode)})
}

// SetPacketType selects the modem. It must precede modulation and packet
// parameter configuration.
func (d *Device) SetPacketType(ctx context.Context, packetType PacketType) error {
	if packetType > PacketTypeLoRa {
		return fmt.Errorf("%w: packet type %v", ErrInvalidParameter, packetType)
	}
	return d.writeCommand(ctx, "SetPacketType", cmdSetPacketType, []byte{byte(packetType)})
}

// GetPacketType reads the selected modem
func (d *Device) GetPacketType(ctx context.Context) (PacketType, error) {
	resp, err := d.readCommand(ctx, "GetPacketType", cmdGetPacketType, nil, 2)
	if err != nil {
		return 0, err
	}
	return PacketType(resp[1]), nil
}

// SetModulationParams writes the 8-byte modulation parameter block
func (d *Device) SetModulationParams(ctx context.Context, params ModParams) error {
	if params == nil {
		return fmt.Errorf("%w: nil modulation parameters", ErrInvalidParameter)
	}
	buf, err := params.MarshalBinary()
	if err != nil {
		return fmt.Errorf("failed to encode modulation parameters: %w", err)
	}
	if len(buf) != frame.ModParamsSize {
		return fmt.Errorf("%w: modulation parameters are %d bytes, want %d",
			ErrInvalidParameter, len(buf), frame.ModParamsSize)
	}
	return d.writeCommand(ctx, "SetModulationParams", cmdSetModulationParams, buf)
}

// SetPacketParams writes the 9-byte packet parameter block
func (d *Device) SetPacketParams(ctx context.Context, params PacketParams) error {
	if params == nil {
		return fmt.Errorf("%w: nil packet parameters", ErrInvalidParameter)
	}
	buf, err := params.MarshalBinary()
	if err != nil {
		return fmt.Errorf("failed to encode packet parameters: %w", err)
	}
	if len(buf) != frame.PacketParamsSize {
		return fmt.Errorf("%w: packet parameters are %d bytes, want %d",
			ErrInvalidParameter, len(buf), frame.PacketParamsSize)
	}
	return d.writeCommand(ctx, "SetPacketParams", cmdSetPacketParams, buf)
}

// GetPacketStatus reads the status of the last received packet
func (d *Device) GetPacketStatus(ctx context.Context) (PacketStatus, error) {
	var status PacketStatus
	resp, err := d.readCommand(ctx, "GetPacketStatus", cmdGetPacketStatus, nil, frame.PacketStatusSize)
	if err != nil {
		return status, err
	}
	copy(status[:], resp)
	return status, nil
}

// SetRfFrequency sets the carrier frequency in Hz
func (d *Device) SetRfFrequency(ctx context.Context, hz uint32) error {
	params := make([]byte, 4)
	binary.BigEndian.PutUint32(params, FrequencySteps(hz))
	return d.writeCommand(ctx, "SetRfFrequency", cmdSetRfFrequency, params)
}

// SetBufferBaseAddress sets where TX and RX payloads start in the data buffer
func (d *Device) SetBufferBaseAddress(ctx context.Context, txBase, rxBase byte) error {
	return d.writeCommand(ctx, "SetBufferBaseAddress", cmdSetBufferBaseAddress, []byte{txBase, rxBase})
}

// WriteBuffer stores data in the chip's data buffer starting at offset
func (d *Device) WriteBuffer(ctx context.Context, offset byte, data []byte) error {
	if len(data) == 0 || len(data) > frame.MaxPayloadLength {
		return fmt.Errorf("%w: buffer write of %d bytes", ErrInvalidParameter, len(data))
	}
	params := make([]byte, 0, 1+len(data))
	params = append(params, offset)
	params = append(params, data...)
	return d.writeCommand(ctx, "WriteBuffer", cmdWriteBuffer, params)
}

// ReadBuffer reads n bytes of the chip's data buffer starting at offset
func (d *Device) ReadBuffer(ctx context.Context, offset byte, n int) ([]byte, error) {
	if n <= 0 || n > frame.MaxPayloadLength {
		return nil, fmt.Errorf("%w: buffer read of %d bytes", ErrInvalidParameter, n)
	}
	// The first byte clocked back after the offset is the status
	resp, err := d.readCommand(ctx, "ReadBuffer", cmdReadBuffer, []byte{offset}, n+1)
	if err != nil {
		return nil, err
	}
	return resp[1:], nil
}

// GetRxBufferStatus reads the length and start of the last received payload
func (d *Device) GetRxBufferStatus(ctx context.Context) (RxBufferStatus, error) {
	resp, err := d.readCommand(ctx, "GetRxBufferStatus", cmdGetRxBufferStatus, nil, 3)
	if err != nil {
		return RxBufferStatus{}, err
	}
	return RxBufferStatus{PayloadLength: resp[1], StartPointer: resp[2]}, nil
}

// ReadPayload reads the last received payload
func (d *Device) ReadPayload(ctx context.Context) ([]byte, error) {
	status, err := d.GetRxBufferStatus(ctx)
	if err != nil {
		return nil, err
	}
	if status.PayloadLength == 0 {
		return []byte{}, nil
	}
	return d.ReadBuffer(ctx, status.StartPointer, int(status.PayloadLength))
}

// GetIrqStatus reads the pending interrupt flags
func (d *Device) GetIrqStatus(ctx context.Context) (IRQ, error) {
	resp, err := d.readCommand(ctx, "GetIrqStatus", cmdGetIrqStatus, nil, 3)
	if err != nil {
		return 0, err
	}
	return IRQ(binary.BigEndian.Uint16(resp[1:3])), nil
}

// ClearIrqStatus clears the interrupt flags in mask
func (d *Device) ClearIrqStatus(ctx context.Context, mask IRQ) error {
	params := make([]byte, 2)
	binary.BigEndian.PutUint16(params, uint16(mask))
	return d.writeCommand(ctx, "ClearIrqStatus", cmdClearIrqStatus, params)
}

// SetDioIrqParams enables the interrupts in irqMask and routes them to the
// DIO1, DIO2 and DIO3 lines
func (d *Device) SetDioIrqParams(ctx context.Context, irqMask, dio1, dio2, dio3 IRQ) error {
	params := make([]byte, 8)
	binary.BigEndian.PutUint16(params[0:2], uint16(irqMask))
	binary.BigEndian.PutUint16(params[2:4], uint16(dio1))
	binary.BigEndian.PutUint16(params[4:6], uint16(dio2))
	binary.BigEndian.PutUint16(params[6:8], uint16(dio3))
	return d.writeCommand(ctx, "SetDioIrqParams", cmdSetDioIrqParams, params)
}

// SetTx starts transmission of the buffered payload. timeout is in
// 15.625 µs steps; 0 disables the timeout.
func (d *Device) SetTx(ctx context.Context, timeout uint32) error {
	params, err := timeoutParams(timeout)
	if err != nil {
		return err
	}
	return d.writeCommand(ctx, "SetTx", cmdSetTx, params)
}

// SetRx starts reception. timeout is in 15.625 µs steps; use RxSingle or
// RxContinuous for the special modes.
func (d *Device) SetRx(ctx context.Context, timeout uint32) error {
	params, err := timeoutParams(timeout)
	if err != nil {
		return err
	}
	return d.writeCommand(ctx, "SetRx", cmdSetRx, params)
}

// FrequencySteps converts a frequency in Hz to the chip's PLL steps
func FrequencySteps(hz uint32) uint32 {
	return uint32((uint64(hz) << 25) / xtalFreq)
}

// TimeoutSteps converts a duration to 15.625 µs timeout steps, saturating
// at MaxTimeout
func TimeoutSteps(timeout time.Duration) uint32 {
	if timeout <= 0 {
		return 0
	}
	steps := timeout * 64 / time.Millisecond
	if steps > time.Duration(MaxTimeout) {
		return MaxTimeout
	}
	return uint32(steps)
}

func timeoutParams(timeout uint32) ([]byte, error) {
	if timeout > MaxTimeout {
		return nil, fmt.Errorf("%w: timeout 0x%X exceeds 24 bits", ErrInvalidParameter, timeout)
	}
	return []byte{byte(timeout >> 16), byte(timeout >> 8), byte(timeout)}, nil
}

// waitReady waits for the BUSY line to go low, if one is configured
func (d *Device) waitReady(ctx context.Context) error {
	if d.busy == nil {
		return nil
	}

	_, err := transport.TimeoutRetry(ctx, d.config.BusyTimeout, d.config.BusyPollInterval,
		func() (struct{}, bool, error) {
			return struct{}{}, d.busy.Busy(), nil
		})
	if errors.Is(err, transport.ErrTimeout) {
		return fmt.Errorf("%w after %v", ErrBusyTimeout, d.config.BusyTimeout)
	}
	if err != nil {
		return fmt.Errorf("waiting for busy line: %w", err)
	}
	return nil
}

// writeCommand sends a command with parameters and no response. Opcode and
// parameters go out in one Transfer, so a bus fault is reported instead of
// dropped on close and an overflow leaves nothing staged.
func (d *Device) writeCommand(ctx context.Context, name string, opcode byte, params []byte) error {
	if err := d.waitReady(ctx); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	err := d.cs.DoContext(ctx, d.bus, func(tx *Transaction) error {
		_, err := tx.Transfer(append([]byte{opcode}, params...))
		return err
	})
	if err != nil {
		return fmt.Errorf("%s failed: %w", name, err)
	}

	d.logger.WithFields(logrus.Fields{
		"cmd":    name,
		"params": len(params),
	}).Debug("command sent")
	return nil
}

// readCommand sends a command and returns the n bytes clocked back after the
// opcode and parameters
func (d *Device) readCommand(ctx context.Context, name string, opcode byte, params []byte, n int) ([]byte, error) {
	if err := d.waitReady(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	var resp []byte
	err := d.cs.DoContext(ctx, d.bus, func(tx *Transaction) error {
		if err := tx.Write(append([]byte{opcode}, params...)); err != nil {
			return err
		}
		var err error
		resp, err = tx.Transfer(make([]byte, n))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%s failed: %w", name, err)
	}

	d.logger.WithFields(logrus.Fields{
		"cmd":  name,
		"resp": fmt.Sprintf("% X", resp),
	}).Debug("command response")
	return resp, nil
}
