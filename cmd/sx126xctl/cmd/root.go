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

// Package cmd implements the sx126xctl commands
package cmd

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	version string
	config  Config
)

var rootCmd = &cobra.Command{
	Use:   "sx126xctl",
	Short: "Configure and inspect an SX126x LoRa radio",
	Long: `sx126xctl drives an SX126x transceiver over a host SPI port.
	Every subcommand issues one or more radio commands, each framed by the NSS line.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "path to configuration file (optional)")
	rootCmd.PersistentFlags().Int("log-level", 4, "debug=5, info=4, error=2, fatal=1, panic=0")
	rootCmd.PersistentFlags().String("spi-bus", "", "SPI port, e.g. /dev/spidev0.0 or SPI0.0")
	rootCmd.PersistentFlags().Int64("spi-speed", 0, "SPI clock in Hz")
	rootCmd.PersistentFlags().String("nss", "", "GPIO driving NSS")
	rootCmd.PersistentFlags().String("busy", "", "GPIO reading BUSY (optional)")
	rootCmd.PersistentFlags().String("reset", "", "GPIO driving NRESET (optional)")

	cobra.CheckErr(bindFlags(viper.GetViper(), rootCmd))

	// default values
	setDefaults(viper.GetViper())

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(standbyCmd)
	rootCmd.AddCommand(regulatorCmd)
	rootCmd.AddCommand(packetTypeCmd)
	rootCmd.AddCommand(modulationCmd)
	rootCmd.AddCommand(packetCmd)
	rootCmd.AddCommand(packetStatusCmd)
	rootCmd.AddCommand(frequencyCmd)
	rootCmd.AddCommand(listenCmd)
	rootCmd.AddCommand(portsCmd)
}

// Execute executes the root command.
func Execute(v string) {
	version = v

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Fatal(err)
	}
}

func initConfig() {
	if cfgFile != "" {
		b, err := os.ReadFile(cfgFile)
		if err != nil {
			log.WithError(err).WithField("config", cfgFile).Fatal("error loading config file")
		}
		viper.SetConfigType("toml")
		if err := viper.ReadConfig(bytes.NewBuffer(b)); err != nil {
			log.WithError(err).WithField("config", cfgFile).Fatal("error loading config file")
		}
	} else {
		viper.SetConfigName("sx126xctl")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.config/sx126xctl")
		viper.AddConfigPath("/etc/sx126xctl")
		if err := viper.ReadInConfig(); err != nil {
			switch err.(type) {
			case viper.ConfigFileNotFoundError:
				log.Debug("no configuration file found, using defaults")
			default:
				log.WithError(err).Fatal("read configuration file error")
			}
		}
	}

	var err error
	config, err = loadConfig(viper.GetViper())
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}

	log.SetLevel(log.Level(uint8(config.General.LogLevel)))
}

// flagKeys maps persistent flags to configuration keys
var flagKeys = map[string]string{
	"general.log_level": "log-level",
	"spi.bus":           "spi-bus",
	"spi.speed_hz":      "spi-speed",
	"pins.nss":          "nss",
	"pins.busy":         "busy",
	"pins.reset":        "reset",
}

func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	for key, name := range flagKeys {
		if err := v.BindPFlag(key, cmd.PersistentFlags().Lookup(name)); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}
