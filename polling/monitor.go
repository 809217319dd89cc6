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

// Package polling provides continuous packet reception on top of an
// sx126x.Device by polling its interrupt flags
package polling

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	sx126x "github.com/ZaparooProject/go-sx126x"
	"github.com/ZaparooProject/go-sx126x/internal/transport"
	"github.com/sirupsen/logrus"
)

// ErrCorruptPacket is passed to OnError when a packet arrives with a bad
// header or payload CRC
var ErrCorruptPacket = errors.New("corrupt packet received")

// ErrAlreadyRunning is returned by Start when the monitor is already running
var ErrAlreadyRunning = errors.New("monitor is already running")

// rxIRQs are the interrupts the monitor enables and clears
const rxIRQs = sx126x.IRQRxDone | sx126x.IRQCrcErr | sx126x.IRQHeaderErr | sx126x.IRQTimeout

// Config holds configuration options for the Monitor
type Config struct {
	// PollInterval is the delay between interrupt status reads
	PollInterval time.Duration
	// RxTimeout is passed to SetRx. RxContinuous keeps the radio listening
	// after each packet; anything else re-arms reception after every packet
	// or timeout.
	RxTimeout uint32
}

// DefaultConfig returns continuous reception polled every 10ms
func DefaultConfig() *Config {
	return &Config{
		PollInterval: 10 * time.Millisecond,
		RxTimeout:    sx126x.RxContinuous,
	}
}

// Packet is a received LoRa packet
type Packet struct {
	ReceivedAt time.Time
	Payload    []byte
	Status     sx126x.LoRaPacketStatus
}

// Metrics tracks operational counters for a Monitor
type Metrics struct {
	PollCycles      int64         // Total number of polling cycles
	PollErrors      int64         // Number of failed radio commands
	Packets         int64         // Number of packets delivered to OnPacket
	CorruptPackets  int64         // Number of packets dropped for CRC or header errors
	CallbackErrors  int64         // Number of errors returned by OnPacket
	LastPollLatency time.Duration // Duration of last interrupt status read
}

// Monitor handles continuous packet reception. The device must already be
// configured for LoRa (packet type, frequency, modulation and packet
// parameters).
type Monitor struct {
	device   *sx126x.Device
	config   *Config
	logger   logrus.FieldLogger
	OnPacket func(Packet) error
	OnError  func(error)
	running  atomic.Bool

	pollCycles      atomic.Int64
	pollErrors      atomic.Int64
	packets         atomic.Int64
	corruptPackets  atomic.Int64
	callbackErrors  atomic.Int64
	lastPollLatency atomic.Int64 // in nanoseconds
}

// NewMonitor creates a new packet monitor
func NewMonitor(device *sx126x.Device, config *Config) (*Monitor, error) {
	if device == nil {
		return nil, errors.New("device cannot be nil")
	}
	if config == nil {
		config = DefaultConfig()
	}
	if config.PollInterval <= 0 {
		return nil, fmt.Errorf("%w: poll interval must be positive", sx126x.ErrInvalidParameter)
	}
	return &Monitor{
		device: device,
		config: config,
		logger: logrus.StandardLogger(),
	}, nil
}

// SetLogger sets the logger used for polling errors
func (m *Monitor) SetLogger(logger logrus.FieldLogger) {
	if logger != nil {
		m.logger = logger
	}
}

// Start arms reception and polls until ctx is cancelled, then returns the
// context error. Radio faults while polling are reported through OnError
// and do not stop the monitor; a fault while arming reception does.
func (m *Monitor) Start(ctx context.Context) error {
	if !m.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer m.running.Store(false)

	if err := m.arm(ctx); err != nil {
		return fmt.Errorf("failed to start reception: %w", err)
	}

	return m.continuousPolling(ctx)
}

// IsRunning reports whether Start is active
func (m *Monitor) IsRunning() bool {
	return m.running.Load()
}

// GetMetrics returns current operational metrics
func (m *Monitor) GetMetrics() Metrics {
	return Metrics{
		PollCycles:      m.pollCycles.Load(),
		PollErrors:      m.pollErrors.Load(),
		Packets:         m.packets.Load(),
		CorruptPackets:  m.corruptPackets.Load(),
		CallbackErrors:  m.callbackErrors.Load(),
		LastPollLatency: time.Duration(m.lastPollLatency.Load()),
	}
}

func (m *Monitor) arm(ctx context.Context) error {
	if err := m.device.ClearIrqStatus(ctx, sx126x.IRQAll); err != nil {
		return err
	}
	if err := m.device.SetDioIrqParams(ctx, rxIRQs, rxIRQs, sx126x.IRQNone, sx126x.IRQNone); err != nil {
		return err
	}
	return m.device.SetRx(ctx, m.config.RxTimeout)
}

// continuousPolling reads the interrupt status every PollInterval
func (m *Monitor) continuousPolling(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := m.performSinglePoll(ctx); err != nil {
			m.handlePollingError(err)
		}

		if err := transport.Sleep(ctx, m.config.PollInterval); err != nil {
			return err
		}
	}
}

// performSinglePoll handles whatever interrupts are pending
func (m *Monitor) performSinglePoll(ctx context.Context) error {
	start := time.Now()
	irq, err := m.device.GetIrqStatus(ctx)
	m.pollCycles.Add(1)
	m.lastPollLatency.Store(int64(time.Since(start)))
	if err != nil {
		return err
	}

	irq &= rxIRQs
	if irq == sx126x.IRQNone {
		return nil
	}

	// HeaderErr arrives without RxDone
	var pollErr error
	switch {
	case irq&(sx126x.IRQCrcErr|sx126x.IRQHeaderErr) != 0:
		m.corruptPackets.Add(1)
		pollErr = fmt.Errorf("%w: %v", ErrCorruptPacket, irq)
	case irq.Has(sx126x.IRQRxDone):
		pollErr = m.processPacket(ctx)
	}

	if err := m.device.ClearIrqStatus(ctx, irq); err != nil {
		return errors.Join(pollErr, err)
	}

	// Single and timed reception stop after each packet or timeout
	if m.config.RxTimeout != sx126x.RxContinuous {
		if err := m.device.SetRx(ctx, m.config.RxTimeout); err != nil {
			return errors.Join(pollErr, err)
		}
	}
	return pollErr
}

func (m *Monitor) processPacket(ctx context.Context) error {
	payload, err := m.device.ReadPayload(ctx)
	if err != nil {
		return err
	}
	status, err := m.device.GetPacketStatus(ctx)
	if err != nil {
		return err
	}

	packet := Packet{
		ReceivedAt: time.Now(),
		Payload:    payload,
		Status:     status.LoRa(),
	}
	m.packets.Add(1)

	if m.OnPacket != nil {
		if err := m.OnPacket(packet); err != nil {
			m.callbackErrors.Add(1)
			m.logger.WithError(err).Warn("packet handler failed")
		}
	}
	return nil
}

// handlePollingError reports errors from polling operations
func (m *Monitor) handlePollingError(err error) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return
	}

	if !errors.Is(err, ErrCorruptPacket) {
		m.pollErrors.Add(1)
	}
	m.logger.WithError(err).Debug("polling error")

	if m.OnError != nil {
		m.OnError(err)
	}
}
