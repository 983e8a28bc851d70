// Copyright 2024 PingCAP, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config holds the configuration of the simulator binary.
package config

import (
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pingcap/errors"
	cerror "github.com/pingcap/nvkern/pkg/errors"
	"github.com/pingcap/nvkern/pkg/kern"
	"github.com/pingcap/nvkern/pkg/logutil"
)

// TomlDuration is a duration with TOML text (un)marshalling.
type TomlDuration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *TomlDuration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return errors.Trace(err)
	}
	*d = TomlDuration(parsed)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d TomlDuration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// SimConfig configures one simulator run.
type SimConfig struct {
	// Ticks is how many timer ticks the run lasts.
	Ticks int `toml:"ticks" json:"ticks"`
	// TickInterval is the wall-clock period of the simulated tick source.
	TickInterval TomlDuration `toml:"tick-interval" json:"tick-interval"`
	// PoolSize is the number of messages in the blink pool.
	PoolSize int `toml:"pool-size" json:"pool-size"`
	// MetricsAddr, when set, serves prometheus metrics on that address.
	MetricsAddr string `toml:"metrics-addr" json:"metrics-addr"`

	Kernel *kern.Config    `toml:"kernel" json:"kernel"`
	Log    *logutil.Config `toml:"log" json:"log"`
}

// NewDefaultSimConfig returns the simulator defaults: five ticks at 10ms,
// a pool of one message, default kernel sizing.
func NewDefaultSimConfig() *SimConfig {
	return &SimConfig{
		Ticks:        5,
		TickInterval: TomlDuration(10 * time.Millisecond),
		PoolSize:     1,
		Kernel:       kern.NewDefaultConfig(),
		Log:          logutil.NewDefaultConfig(),
	}
}

// ValidateAndAdjust fills defaults and rejects impossible runs.
func (c *SimConfig) ValidateAndAdjust() error {
	if c.Kernel == nil {
		c.Kernel = kern.NewDefaultConfig()
	}
	if c.Log == nil {
		c.Log = logutil.NewDefaultConfig()
	}
	if c.Ticks <= 0 {
		return cerror.ErrInvalidConfig.GenWithStackByArgs("ticks must be positive")
	}
	if c.TickInterval <= 0 {
		return cerror.ErrInvalidConfig.GenWithStackByArgs("tick-interval must be positive")
	}
	if c.PoolSize <= 0 {
		return cerror.ErrInvalidConfig.GenWithStackByArgs("pool-size must be positive")
	}
	return errors.Trace(c.Kernel.ValidateAndAdjust())
}

// StrictDecodeFile decodes the toml file into cfg and fails on any key the
// struct does not map.
func StrictDecodeFile(path string, cfg *SimConfig) error {
	metaData, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return errors.Trace(err)
	}
	if undecoded := metaData.Undecoded(); len(undecoded) > 0 {
		var b strings.Builder
		for i, item := range undecoded {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(item.String())
		}
		return cerror.ErrInvalidConfig.GenWithStackByArgs("unknown config keys: " + b.String())
	}
	return nil
}
