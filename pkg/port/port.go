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

// Package port abstracts the interrupt controller the kernel runs on.
//
// The kernel never talks to a controller directly. Everything it needs is
// behind the Controller interface: mapping a vector to its priority, latching
// a vector as pending, and masking all interrupts for the duration of a
// critical section. A host-side software controller lives in port/simpic;
// a real target supplies its own implementation.
package port

import "math/bits"

// Mask is the saved interrupt mask state returned by CriticalEnter and
// restored by CriticalLeave. Critical sections nest: the inner pair restores
// the masked state, only the outermost leave re-enables dispatch.
type Mask bool

// Controller is the interrupt controller surface the kernel requires.
//
// PrioOf maps an interrupt vector to its preemption priority; a numerically
// lower priority preempts a higher one. RequestInterrupt latches the vector
// as pending so that it fires as soon as no higher-priority vector is active
// and interrupts are unmasked.
type Controller interface {
	PrioOf(vect int) int
	RequestInterrupt(vect int)
	CriticalEnter() Mask
	CriticalLeave(m Mask)
}

// CLZ counts leading zeros of x. The argument must be non-zero.
func CLZ(x uint32) int {
	return bits.LeadingZeros32(x)
}
