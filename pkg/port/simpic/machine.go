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

// Package simpic is a deterministic software model of a prioritized, nested,
// vectored interrupt controller, the host-side stand-in for an NVIC.
//
// The machine models a single CPU. Every entry from the outside world goes
// through Raise or Run, which serialize on the CPU lock; inside, installed
// handlers run nested exactly the way hardware preemption nests them: a
// pended vector fires as soon as interrupts are unmasked and its priority is
// strictly higher (numerically lower) than the priority of the handler it
// interrupts. Equal priority never preempts. When a handler returns, pending
// vectors of lower priority run in (priority, vector) order, which is the
// tail-chaining a real controller performs.
package simpic

import (
	"math"
	"sync"

	"github.com/pingcap/log"
	cerror "github.com/pingcap/nvkern/pkg/errors"
	"github.com/pingcap/nvkern/pkg/port"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

type vectorSlot struct {
	prio    int
	handler func()
}

// Machine is a simulated interrupt controller plus the single CPU it
// interrupts. The zero value is not usable; call NewMachine.
type Machine struct {
	// cpu serializes all contexts entering the machine. While it is held,
	// exactly one chain of nested handlers is running.
	cpu sync.Mutex

	masked  bool
	vectors map[int]vectorSlot
	pending map[int]struct{}
	// active is the stack of priorities of the handlers currently running,
	// innermost last. Entries are strictly decreasing, preemption is only
	// ever by a strictly higher priority.
	active []int

	raises     atomic.Int64
	dispatches atomic.Int64
}

// NewMachine creates an empty machine with all vectors uninstalled and
// interrupts unmasked.
func NewMachine() *Machine {
	return &Machine{
		vectors: make(map[int]vectorSlot),
		pending: make(map[int]struct{}),
	}
}

// Install binds vect to a priority and a handler. It must be called before
// the first Raise or Run, mirroring the requirement that a target programs
// the controller before enabling interrupts.
func (m *Machine) Install(vect, prio int, handler func()) error {
	if handler == nil {
		return cerror.ErrUnknownVector.GenWithStackByArgs(vect)
	}
	if _, ok := m.vectors[vect]; ok {
		return cerror.ErrVectorBound.GenWithStackByArgs(vect)
	}
	m.vectors[vect] = vectorSlot{prio: prio, handler: handler}
	return nil
}

// MustInstall is Install for wiring code that treats a bad vector table as a
// programming error.
func (m *Machine) MustInstall(vect, prio int, handler func()) {
	if err := m.Install(vect, prio, handler); err != nil {
		log.Panic("install interrupt vector", zap.Int("vector", vect), zap.Error(err))
	}
}

// Raise latches vect as pending from outside the machine, the software
// analog of a peripheral asserting its interrupt line. It returns after
// every handler reachable from this event has run to completion.
func (m *Machine) Raise(vect int) {
	m.cpu.Lock()
	defer m.cpu.Unlock()
	m.raises.Inc()
	m.pending[vect] = struct{}{}
	m.dispatch()
}

// Run executes fn as the base-level (thread mode) context and then drains
// any vectors fn left pending. All kernel API calls made from outside a
// handler must go through Run; the wiring contract is the same one a real
// target imposes by having a single CPU.
func (m *Machine) Run(fn func()) {
	m.cpu.Lock()
	defer m.cpu.Unlock()
	fn()
	m.dispatch()
}

// Raises reports how many external events were injected via Raise.
func (m *Machine) Raises() int64 { return m.raises.Load() }

// Dispatches reports how many handler invocations the machine has executed.
func (m *Machine) Dispatches() int64 { return m.dispatches.Load() }

// PrioOf implements port.Controller.
func (m *Machine) PrioOf(vect int) int {
	slot, ok := m.vectors[vect]
	if !ok {
		log.Panic("priority query for uninstalled vector", zap.Int("vector", vect))
	}
	return slot.prio
}

// RequestInterrupt implements port.Controller. It must be called from inside
// a machine context (a handler or a Run body). If interrupts are unmasked
// and the vector preempts the current context, its handler runs before
// RequestInterrupt returns; inside a critical section it is only latched and
// fires at the outermost CriticalLeave.
func (m *Machine) RequestInterrupt(vect int) {
	m.pending[vect] = struct{}{}
	if !m.masked {
		m.dispatch()
	}
}

// CriticalEnter implements port.Controller.
func (m *Machine) CriticalEnter() port.Mask {
	prev := m.masked
	m.masked = true
	return port.Mask(prev)
}

// CriticalLeave implements port.Controller.
func (m *Machine) CriticalLeave(prev port.Mask) {
	m.masked = bool(prev)
	if !m.masked {
		m.dispatch()
	}
}

func (m *Machine) currentPrio() int {
	if len(m.active) == 0 {
		return math.MaxInt
	}
	return m.active[len(m.active)-1]
}

// selectPending picks the pending vector with the best (priority, vector)
// order that is allowed to preempt the current context.
func (m *Machine) selectPending() (int, bool) {
	bar := m.currentPrio()
	best, bestPrio, found := 0, 0, false
	for v := range m.pending {
		p := m.vectors[v].prio
		if p >= bar {
			continue
		}
		if !found || p < bestPrio || (p == bestPrio && v < best) {
			best, bestPrio, found = v, p, true
		}
	}
	return best, found
}

func (m *Machine) dispatch() {
	for !m.masked {
		vect, ok := m.selectPending()
		if !ok {
			return
		}
		delete(m.pending, vect)
		slot := m.vectors[vect]
		if slot.handler == nil {
			// Activating a vector with no installed handler is a hard
			// fault on real hardware.
			log.Panic("hard fault: no handler installed", zap.Int("vector", vect))
		}
		m.active = append(m.active, slot.prio)
		m.dispatches.Inc()
		slot.handler()
		m.active = m.active[:len(m.active)-1]
	}
}
