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
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the sx126xctl configuration
type Config struct {
	General struct {
		LogLevel int `mapstructure:"log_level"`
	} `mapstructure:"general"`

	SPI struct {
		Bus     string `mapstructure:"bus"`
		SpeedHz int64  `mapstructure:"speed_hz"`
	} `mapstructure:"spi"`

	Pins struct {
		NSS   string `mapstructure:"nss"`
		Busy  string `mapstructure:"busy"`
		Reset string `mapstructure:"reset"`
	} `mapstructure:"pins"`

	Radio struct {
		BusyTimeout time.Duration `mapstructure:"busy_timeout"`
		Regulator   string        `mapstructure:"regulator"`
	} `mapstructure:"radio"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("general.log_level", 4)
	v.SetDefault("spi.bus", "/dev/spidev0.0")
	v.SetDefault("spi.speed_hz", 2_000_000)
	v.SetDefault("pins.nss", "GPIO8")
	v.SetDefault("pins.busy", "")
	v.SetDefault("pins.reset", "")
	v.SetDefault("radio.busy_timeout", 100*time.Millisecond)
	v.SetDefault("radio.regulator", "ldo")

	// SX126X_SPI_BUS, SX126X_PINS_NSS, ...
	v.SetEnvPrefix("SX126X")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

func loadConfig(v *viper.Viper) (Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return c, fmt.Errorf("unmarshal config error: %w", err)
	}
	if c.SPI.Bus == "" {
		return c, errors.New("spi.bus must be set")
	}
	if c.Pins.NSS == "" {
		return c, errors.New("pins.nss must be set")
	}
	if c.Radio.BusyTimeout <= 0 {
		return c, errors.New("radio.busy_timeout must be positive")
	}
	return c, nil
}
