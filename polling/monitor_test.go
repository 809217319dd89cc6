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

package polling

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	sx126x "github.com/ZaparooProject/go-sx126x"
	testutil "github.com/ZaparooProject/go-sx126x/internal/testing"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// radioScript answers read commands the way a receiving radio would. Each
// GetIrqStatus pops the next entry of irqs, then reports none.
type radioScript struct {
	irqs    []sx126x.IRQ
	payload []byte
	mu      sync.Mutex
}

func (s *radioScript) transfer(tx []byte) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := testutil.StandbyStatus()
	var resp []byte
	switch tx[0] {
	case testutil.CmdGetIrqStatus:
		irq := sx126x.IRQNone
		if len(s.irqs) > 0 {
			irq, s.irqs = s.irqs[0], s.irqs[1:]
		}
		resp = testutil.BuildIrqStatusResponse(status, uint16(irq))
	case testutil.CmdGetRxBufferStatus:
		resp = testutil.BuildRxBufferStatusResponse(status, byte(len(s.payload)), 0x00)
	case testutil.CmdReadBuffer:
		resp = testutil.BuildReadBufferResponse(status, s.payload)
	case testutil.CmdGetPacketStatus:
		resp = testutil.BuildPacketStatusResponse(status, 0x50, 0x28, 0x54)
	}

	rx := make([]byte, len(tx))
	copy(rx[len(rx)-len(resp):], resp)
	return rx, nil
}

func newTestMonitor(t *testing.T, script *radioScript, config *Config) (*Monitor, *sx126x.MockBus) {
	t.Helper()

	bus := sx126x.NewMockBus()
	if script != nil {
		bus.TransferFunc = script.transfer
	}
	cs := sx126x.NewChipSelect(sx126x.NewMockPin(), sx126x.WithBufferSize(sx126x.MaxTransactionSize))
	device, err := sx126x.New(cs, bus)
	require.NoError(t, err)

	if config == nil {
		config = &Config{PollInterval: time.Millisecond, RxTimeout: sx126x.RxContinuous}
	}
	monitor, err := NewMonitor(device, config)
	require.NoError(t, err)

	logger, _ := logtest.NewNullLogger()
	monitor.SetLogger(logger)
	return monitor, bus
}

func startMonitor(t *testing.T, monitor *Monitor) (context.CancelFunc, <-chan error) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	errCh := make(chan error, 1)
	go func() {
		errCh <- monitor.Start(ctx)
	}()
	return cancel, errCh
}

func TestNewMonitor(t *testing.T) {
	t.Parallel()

	device, err := sx126x.New(sx126x.NewChipSelect(sx126x.NewMockPin()), sx126x.NewMockBus())
	require.NoError(t, err)

	t.Run("WithDefaultConfig", func(t *testing.T) {
		t.Parallel()

		monitor, err := NewMonitor(device, nil)
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), monitor.config)
		assert.False(t, monitor.IsRunning())
	})

	t.Run("NilDevice", func(t *testing.T) {
		t.Parallel()

		_, err := NewMonitor(nil, nil)
		require.Error(t, err)
	})

	t.Run("ZeroPollInterval", func(t *testing.T) {
		t.Parallel()

		_, err := NewMonitor(device, &Config{})
		require.ErrorIs(t, err, sx126x.ErrInvalidParameter)
	})
}

func TestMonitor_ReceivesPacket(t *testing.T) {
	t.Parallel()

	script := &radioScript{
		irqs:    []sx126x.IRQ{sx126x.IRQNone, sx126x.IRQRxDone},
		payload: testutil.TestPayload,
	}
	monitor, bus := newTestMonitor(t, script, nil)

	packets := make(chan Packet, 1)
	monitor.OnPacket = func(p Packet) error {
		packets <- p
		return nil
	}

	cancel, errCh := startMonitor(t, monitor)

	select {
	case p := <-packets:
		assert.Equal(t, testutil.TestPayload, p.Payload)
		assert.Equal(t, sx126x.LoRaPacketStatus{RSSIPkt: -40, SNRPkt: 10, SignalRSSIPkt: -42}, p.Status)
		assert.False(t, p.ReceivedAt.IsZero())
	case <-time.After(2 * time.Second):
		t.Fatal("no packet received")
	}

	cancel()
	require.ErrorIs(t, <-errCh, context.Canceled)

	// Reception is armed before polling starts
	ops := bus.Ops()
	require.GreaterOrEqual(t, len(ops), 3)
	assert.Equal(t, []byte{0x02, 0x03, 0xFF}, ops[0].Data)
	assert.Equal(t, []byte{0x08, 0x02, 0x62, 0x02, 0x62, 0x00, 0x00, 0x00, 0x00}, ops[1].Data)
	assert.Equal(t, []byte{0x82, 0xFF, 0xFF, 0xFF}, ops[2].Data)

	metrics := monitor.GetMetrics()
	assert.Equal(t, int64(1), metrics.Packets)
	assert.GreaterOrEqual(t, metrics.PollCycles, int64(2))
	assert.Zero(t, metrics.PollErrors)
	assert.False(t, monitor.IsRunning())
}

func TestMonitor_CorruptPacket(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		irq  sx126x.IRQ
	}{
		{name: "CRC_Error", irq: sx126x.IRQRxDone | sx126x.IRQCrcErr},
		{name: "Header_Error_Without_RxDone", irq: sx126x.IRQHeaderErr},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			script := &radioScript{
				irqs:    []sx126x.IRQ{tt.irq},
				payload: testutil.TestPayload,
			}
			monitor, bus := newTestMonitor(t, script, nil)

			monitor.OnPacket = func(Packet) error {
				t.Error("corrupt packet delivered")
				return nil
			}
			errs := make(chan error, 1)
			monitor.OnError = func(err error) {
				select {
				case errs <- err:
				default:
				}
			}

			cancel, errCh := startMonitor(t, monitor)

			select {
			case err := <-errs:
				require.ErrorIs(t, err, ErrCorruptPacket)
			case <-time.After(2 * time.Second):
				t.Fatal("no error reported")
			}

			cancel()
			require.ErrorIs(t, <-errCh, context.Canceled)

			metrics := monitor.GetMetrics()
			assert.Equal(t, int64(1), metrics.CorruptPackets)
			assert.Zero(t, metrics.Packets)
			assert.Zero(t, metrics.PollErrors)
			for _, op := range bus.Ops() {
				assert.NotEqual(t, byte(testutil.CmdReadBuffer), op.Data[0], "payload read after corrupt packet")
			}
		})
	}
}

func TestMonitor_HandlerErrorCounted(t *testing.T) {
	t.Parallel()

	script := &radioScript{
		irqs:    []sx126x.IRQ{sx126x.IRQRxDone},
		payload: testutil.TestPayload,
	}
	monitor, _ := newTestMonitor(t, script, nil)

	handled := make(chan struct{})
	monitor.OnPacket = func(Packet) error {
		close(handled)
		return errors.New("queue full")
	}

	cancel, errCh := startMonitor(t, monitor)

	select {
	case <-handled:
	case <-time.After(2 * time.Second):
		t.Fatal("no packet received")
	}

	cancel()
	require.ErrorIs(t, <-errCh, context.Canceled)
	assert.Equal(t, int64(1), monitor.GetMetrics().CallbackErrors)
}

func TestMonitor_RearmsSingleReception(t *testing.T) {
	t.Parallel()

	script := &radioScript{irqs: []sx126x.IRQ{sx126x.IRQTimeout}}
	monitor, bus := newTestMonitor(t, script, &Config{
		PollInterval: time.Millisecond,
		RxTimeout:    sx126x.RxSingle,
	})

	cancel, errCh := startMonitor(t, monitor)

	countSetRx := func() int {
		n := 0
		for _, op := range bus.Ops() {
			if op.Data[0] == testutil.CmdSetRx {
				n++
			}
		}
		return n
	}
	assert.Eventually(t, func() bool { return countSetRx() >= 2 }, 2*time.Second, time.Millisecond)

	cancel()
	require.ErrorIs(t, <-errCh, context.Canceled)
	assert.Zero(t, monitor.GetMetrics().Packets)
}

func TestMonitor_AlreadyRunning(t *testing.T) {
	t.Parallel()

	monitor, _ := newTestMonitor(t, &radioScript{}, nil)

	cancel, errCh := startMonitor(t, monitor)
	require.Eventually(t, monitor.IsRunning, 2*time.Second, time.Millisecond)

	require.ErrorIs(t, monitor.Start(context.Background()), ErrAlreadyRunning)

	cancel()
	require.ErrorIs(t, <-errCh, context.Canceled)
}

func TestMonitor_ArmFailure(t *testing.T) {
	t.Parallel()

	monitor, bus := newTestMonitor(t, nil, nil)
	bus.SetError(testutil.CmdClearIrqStatus, errors.New("spi fault"))

	err := monitor.Start(context.Background())
	require.ErrorIs(t, err, sx126x.ErrBus)
	assert.Contains(t, err.Error(), "failed to start reception")
	assert.False(t, monitor.IsRunning())
}
