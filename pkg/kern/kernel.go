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
	"github.com/pingcap/errors"
	"github.com/pingcap/log"
	"github.com/pingcap/nvkern/pkg/port"
	"go.uber.org/zap"
)

// Kernel owns the scheduler run-queues and the timer wheel for one port.
// Create it before any interrupt source is started, create every queue, pool
// and actor from it, then never tear it down: the kernel allocates all of
// its state here and nothing at steady state.
type Kernel struct {
	port  port.Controller
	cfg   *Config
	sched sched
	timer timerWheel
}

// New creates a kernel on the given port.
func New(p port.Controller, cfg *Config) (*Kernel, error) {
	if cfg == nil {
		cfg = NewDefaultConfig()
	}
	if err := cfg.ValidateAndAdjust(); err != nil {
		return nil, errors.Trace(err)
	}
	k := &Kernel{port: p, cfg: cfg}
	k.sched.init(k, cfg.PrioMax)
	k.timer.init(k, cfg.TimerqMax)
	log.Info("kernel created",
		zap.Int("prioMax", cfg.PrioMax),
		zap.Int("timerqMax", cfg.TimerqMax))
	return k, nil
}

// MustNew is New for static wiring done at startup.
func MustNew(p port.Controller, cfg *Config) *Kernel {
	k, err := New(p, cfg)
	if err != nil {
		log.Panic("create kernel", zap.Error(err))
	}
	return k
}

// Schedule is the body of every actor vector's ISR: it drains the run-queue
// of the vector's priority. It must run at the hardware priority of vect and
// never suspends.
func (k *Kernel) Schedule(vect int) {
	k.sched.schedule(vect)
}

// Tick is the body of the periodic tick ISR: it advances kernel time by one
// tick and activates every actor whose sleep expires now. It never suspends.
func (k *Kernel) Tick() {
	k.timer.tick()
}

// Now returns the current kernel tick.
func (k *Kernel) Now() uint32 {
	return k.timer.now()
}

// Config returns the sizing the kernel was built with.
func (k *Kernel) Config() Config {
	return *k.cfg
}
