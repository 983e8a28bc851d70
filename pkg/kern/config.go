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

package kern

import (
	cerror "github.com/pingcap/nvkern/pkg/errors"
)

const (
	// DefaultPrioMax is the default number of preemption priorities,
	// matching the group priorities most Cortex-M parts expose.
	DefaultPrioMax = 8
	// DefaultTimerqMax is the default timer wheel depth; ten buckets cover
	// sleeps up to 2^10 ticks without cascading more than once per flip.
	DefaultTimerqMax = 10

	// maxTimerqMax is bounded by the tick counter width.
	maxTimerqMax = 32
)

// Config sizes the kernel's fixed state. Both arrays are allocated once in
// New; nothing about them changes afterwards.
type Config struct {
	// PrioMax is the number of priority levels, one run-queue each.
	// Priorities run 0..PrioMax-1, lower is more urgent.
	PrioMax int `toml:"prio-max" json:"prio-max"`
	// TimerqMax is the number of timer wheel buckets.
	TimerqMax int `toml:"timerq-max" json:"timerq-max"`
}

// NewDefaultConfig returns the default kernel sizing.
func NewDefaultConfig() *Config {
	return &Config{
		PrioMax:   DefaultPrioMax,
		TimerqMax: DefaultTimerqMax,
	}
}

// ValidateAndAdjust fills zero fields with defaults and rejects sizes the
// kernel cannot represent.
func (c *Config) ValidateAndAdjust() error {
	if c.PrioMax == 0 {
		c.PrioMax = DefaultPrioMax
	}
	if c.TimerqMax == 0 {
		c.TimerqMax = DefaultTimerqMax
	}
	if c.PrioMax < 1 {
		return cerror.ErrInvalidConfig.GenWithStackByArgs("prio-max must be at least 1")
	}
	if c.TimerqMax < 1 || c.TimerqMax > maxTimerqMax {
		return cerror.ErrInvalidConfig.GenWithStackByArgs("timerq-max must be in [1, 32]")
	}
	return nil
}
