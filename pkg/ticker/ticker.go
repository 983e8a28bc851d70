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

// Package ticker pumps a periodic interrupt into a machine, the host-side
// stand-in for a SysTick source.
package ticker

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pingcap/errors"
	"github.com/pingcap/log"
	"go.uber.org/zap"
)

// Raiser injects an external interrupt, see simpic.Machine.Raise.
type Raiser interface {
	Raise(vect int)
}

// Driver raises one vector at a fixed interval until its context is
// canceled.
type Driver struct {
	raiser   Raiser
	vect     int
	interval time.Duration
	clock    clock.Clock
}

// NewDriver creates a tick driver. Pass clock.NewMock() in tests to drive
// ticks by hand.
func NewDriver(r Raiser, vect int, interval time.Duration, c clock.Clock) *Driver {
	if c == nil {
		c = clock.New()
	}
	return &Driver{raiser: r, vect: vect, interval: interval, clock: c}
}

// Run blocks raising the tick vector every interval. It returns the context
// error on cancellation.
func (d *Driver) Run(ctx context.Context) error {
	t := d.clock.Ticker(d.interval)
	defer t.Stop()

	log.Info("tick driver started",
		zap.Int("vector", d.vect),
		zap.Duration("interval", d.interval))
	for {
		select {
		case <-ctx.Done():
			return errors.Trace(ctx.Err())
		case <-t.C:
			d.raiser.Raise(d.vect)
		}
	}
}
