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
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	sx126x "github.com/ZaparooProject/go-sx126x"
	"github.com/ZaparooProject/go-sx126x/detection"
	"github.com/ZaparooProject/go-sx126x/polling"
	"github.com/brocaar/lorawan"
	"github.com/brocaar/lorawan/band"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// withRadio opens the radio for the duration of fn
func withRadio(fn func(cmd *cobra.Command, args []string, r *radio) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		r, err := openRadio(config)
		if err != nil {
			return err
		}
		defer r.Close()
		return fn(cmd, args, r)
	}
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Reset the radio, enter RC standby and select the regulator",
	Args:  cobra.NoArgs,
	RunE: withRadio(func(cmd *cobra.Command, _ []string, r *radio) error {
		if err := r.Init(cmd.Context()); err != nil {
			return err
		}
		log.Info("radio initialised")
		return nil
	}),
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the chip mode, last command status and pending interrupts",
	Args:  cobra.NoArgs,
	RunE: withRadio(func(cmd *cobra.Command, _ []string, r *radio) error {
		status, err := r.GetStatus(cmd.Context())
		if err != nil {
			return err
		}
		irq, err := r.GetIrqStatus(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "mode: %v\ncommand: %v\nirq: %v\n",
			status.ChipMode(), status.CommandStatus(), irq)
		return nil
	}),
}

var standbyCmd = &cobra.Command{
	Use:       "standby [rc|xosc]",
	Short:     "Put the radio in standby",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"rc", "xosc"},
	RunE: withRadio(func(cmd *cobra.Command, args []string, r *radio) error {
		standby := sx126x.StandbyRC
		if len(args) == 1 {
			var err error
			if standby, err = sx126x.ParseStandbyConfig(args[0]); err != nil {
				return err
			}
		}
		return r.SetStandby(cmd.Context(), standby)
	}),
}

var regulatorCmd = &cobra.Command{
	Use:       "regulator ldo|dcdc",
	Short:     "Select the power regulator",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"ldo", "dcdc"},
	RunE: withRadio(func(cmd *cobra.Command, args []string, r *radio) error {
		mode, err := sx126x.ParseRegulatorMode(args[0])
		if err != nil {
			return err
		}
		return r.SetRegulatorMode(cmd.Context(), mode)
	}),
}

var packetTypeCmd = &cobra.Command{
	Use:       "packet-type [lora|gfsk]",
	Short:     "Print or select the modem",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"lora", "gfsk"},
	RunE: withRadio(func(cmd *cobra.Command, args []string, r *radio) error {
		if len(args) == 0 {
			packetType, err := r.GetPacketType(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), packetType)
			return nil
		}

		packetType, err := sx126x.ParsePacketType(args[0])
		if err != nil {
			return err
		}
		return r.SetPacketType(cmd.Context(), packetType)
	}),
}

type modulationFlags struct {
	sf   string
	bw   string
	cr   string
	band string
	dr   int
	ldro bool
}

var modFlags modulationFlags

var modulationCmd = &cobra.Command{
	Use:   "modulation",
	Short: "Set the LoRa modulation parameters",
	Long: `Set the LoRa modulation parameters either explicitly with --sf, --bw, --cr and --ldro,
or from a LoRaWAN regional data rate with --band and --dr.`,
	Args: cobra.NoArgs,
	RunE: withRadio(func(cmd *cobra.Command, _ []string, r *radio) error {
		params, err := modulationFromFlags(modFlags)
		if err != nil {
			return err
		}
		if err := r.SetModulationParams(cmd.Context(), params); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), params)
		return nil
	}),
}

func modulationFromFlags(f modulationFlags) (sx126x.LoRaModParams, error) {
	if f.band != "" {
		b, err := band.GetConfig(band.Name(f.band), false, lorawan.DwellTimeNoLimit)
		if err != nil {
			return sx126x.LoRaModParams{}, fmt.Errorf("get band config error: %w", err)
		}
		dr, err := b.GetDataRate(f.dr)
		if err != nil {
			return sx126x.LoRaModParams{}, fmt.Errorf("get data rate error: %w", err)
		}
		return sx126x.ModParamsFromDataRate(dr)
	}

	sf, err := sx126x.ParseSpreadingFactor(f.sf)
	if err != nil {
		return sx126x.LoRaModParams{}, err
	}
	bw, err := sx126x.ParseBandwidth(f.bw)
	if err != nil {
		return sx126x.LoRaModParams{}, err
	}
	cr, err := sx126x.ParseCodingRate(f.cr)
	if err != nil {
		return sx126x.LoRaModParams{}, err
	}

	return sx126x.LoRaModParams{
		SpreadingFactor:     sf,
		Bandwidth:           bw,
		CodingRate:          cr,
		LowDataRateOptimize: f.ldro,
	}, nil
}

type packetFlags struct {
	header     string
	preamble   uint16
	payloadLen uint8
	crc        bool
	invertIQ   bool
}

var pktFlags packetFlags

var packetCmd = &cobra.Command{
	Use:   "packet",
	Short: "Set the LoRa packet parameters",
	Args:  cobra.NoArgs,
	RunE: withRadio(func(cmd *cobra.Command, _ []string, r *radio) error {
		params, err := packetParamsFromFlags(pktFlags)
		if err != nil {
			return err
		}
		return r.SetPacketParams(cmd.Context(), params)
	}),
}

func packetParamsFromFlags(f packetFlags) (sx126x.LoRaPacketParams, error) {
	header, err := sx126x.ParseHeaderType(f.header)
	if err != nil {
		return sx126x.LoRaPacketParams{}, err
	}

	params := sx126x.LoRaPacketParams{
		PreambleLength: f.preamble,
		HeaderType:     header,
		PayloadLength:  f.payloadLen,
		CRCType:        sx126x.CRCOff,
		InvertIQ:       sx126x.IQStandard,
	}
	if f.crc {
		params.CRCType = sx126x.CRCOn
	}
	if f.invertIQ {
		params.InvertIQ = sx126x.IQInverted
	}
	return params, nil
}

var packetStatusCmd = &cobra.Command{
	Use:   "packet-status",
	Short: "Print the RSSI and SNR of the last received LoRa packet",
	Args:  cobra.NoArgs,
	RunE: withRadio(func(cmd *cobra.Command, _ []string, r *radio) error {
		status, err := r.GetPacketStatus(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), status.LoRa())
		return nil
	}),
}

var frequencyCmd = &cobra.Command{
	Use:   "frequency HZ",
	Short: "Set the RF carrier frequency",
	Args:  cobra.ExactArgs(1),
	RunE: withRadio(func(cmd *cobra.Command, args []string, r *radio) error {
		hz, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			return fmt.Errorf("%w: frequency %q", sx126x.ErrInvalidParameter, args[0])
		}
		return r.SetRfFrequency(cmd.Context(), uint32(hz))
	}),
}

var (
	probePorts  bool
	ignorePorts []string
)

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List the SPI ports available on this host",
	Long: `List the SPI ports available on this host. With --probe each port is opened with
its hardware chip select and sent GetStatus; a radio wired to a GPIO chip select
will not answer.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		opts := detection.DefaultOptions()
		opts.IgnorePaths = ignorePorts
		if probePorts {
			opts.Mode = detection.Probe
		}

		devices, err := detection.Detect(cmd.Context(), opts)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, d := range devices {
			fmt.Fprintf(out, "%s %v", d.Path, d.Aliases)
			if probePorts {
				fmt.Fprintf(out, " responding=%t %v", d.Responding, d.Metadata)
			}
			fmt.Fprintln(out)
		}
		return nil
	},
}

var pollInterval time.Duration

var listenCmd = &cobra.Command{
	Use:   "listen",
	Short: "Receive LoRa packets until interrupted",
	Long: `Arm continuous reception and print every packet received. The radio must already be
configured with packet-type, frequency, modulation and packet.`,
	Args: cobra.NoArgs,
	RunE: withRadio(func(cmd *cobra.Command, _ []string, r *radio) error {
		monitor, err := polling.NewMonitor(r.Device, &polling.Config{
			PollInterval: pollInterval,
			RxTimeout:    sx126x.RxContinuous,
		})
		if err != nil {
			return err
		}
		monitor.SetLogger(log.WithField("component", "monitor"))

		out := cmd.OutOrStdout()
		monitor.OnPacket = func(p polling.Packet) error {
			_, err := fmt.Fprintf(out, "%s % X (%v)\n", p.ReceivedAt.Format(time.RFC3339), p.Payload, p.Status)
			return err
		}
		monitor.OnError = func(err error) {
			log.WithError(err).Warning("receive error")
		}

		err = monitor.Start(cmd.Context())
		if errors.Is(err, context.Canceled) {
			metrics := monitor.GetMetrics()
			log.WithFields(log.Fields{
				"packets": metrics.Packets,
				"corrupt": metrics.CorruptPackets,
				"errors":  metrics.PollErrors,
			}).Info("listening stopped")
			return nil
		}
		return err
	}),
}

func init() {
	portsCmd.Flags().BoolVar(&probePorts, "probe", false, "send GetStatus on each port")
	portsCmd.Flags().StringSliceVar(&ignorePorts, "ignore", nil, "ports to skip")

	listenCmd.Flags().DurationVar(&pollInterval, "poll-interval", polling.DefaultConfig().PollInterval,
		"delay between interrupt status reads")

	defaults := sx126x.DefaultLoRaModParams()
	modulationCmd.Flags().StringVar(&modFlags.sf, "sf", defaults.SpreadingFactor.String(), "spreading factor (5-12)")
	modulationCmd.Flags().StringVar(&modFlags.bw, "bw", "125", "bandwidth in kHz")
	modulationCmd.Flags().StringVar(&modFlags.cr, "cr", defaults.CodingRate.String(), "coding rate (4/5-4/8)")
	modulationCmd.Flags().BoolVar(&modFlags.ldro, "ldro", false, "enable low data rate optimization")
	modulationCmd.Flags().StringVar(&modFlags.band, "band", "", "LoRaWAN band name, e.g. EU868 (overrides --sf, --bw, --cr and --ldro)")
	modulationCmd.Flags().IntVar(&modFlags.dr, "dr", 0, "LoRaWAN data rate index, used with --band")

	packetDefaults := sx126x.DefaultLoRaPacketParams()
	packetCmd.Flags().Uint16Var(&pktFlags.preamble, "preamble", packetDefaults.PreambleLength, "preamble length in symbols")
	packetCmd.Flags().StringVar(&pktFlags.header, "header", packetDefaults.HeaderType.String(), "header type (explicit|implicit)")
	packetCmd.Flags().Uint8Var(&pktFlags.payloadLen, "payload-len", 0, "payload length in bytes")
	packetCmd.Flags().BoolVar(&pktFlags.crc, "crc", false, "enable the payload CRC")
	packetCmd.Flags().BoolVar(&pktFlags.invertIQ, "invert-iq", false, "invert IQ")
}
