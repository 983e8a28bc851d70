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
	"github.com/pingcap/nvkern/pkg/port"
)

// timerWheel wakes sleeping actors after a tick count. Buckets are keyed on
// the most significant bit that differs between the current tick and the
// deadline: bucket 0 fires on the next tick, higher buckets are
// exponentially farther out. Each tick flips exactly one such bit, so only
// one bucket needs re-examination per tick; its entries either fire or
// cascade toward bucket 0.
type timerWheel struct {
	k     *Kernel
	subs  []list[Actor]
	count []int
	ticks uint32
}

func (t *timerWheel) init(k *Kernel, timerqMax int) {
	t.k = k
	t.subs = make([]list[Actor], timerqMax)
	t.count = make([]int, timerqMax)
	for i := range t.subs {
		t.subs[i].init()
	}
}

// diffMSB returns the bucket index for a deadline b seen from tick a, the
// position of the highest differing bit clamped to the wheel depth. a and b
// must differ.
func (t *timerWheel) diffMSB(a, b uint32) int {
	i := 31 - port.CLZ(a^b)
	if i >= len(t.subs) {
		i = len(t.subs) - 1
	}
	return i
}

// subscribe parks the actor until now+delay. delay must be positive; zero
// delays are short-circuited by the Sleep await before reaching the wheel.
func (t *timerWheel) subscribe(a *Actor, delay uint32) {
	mask := t.k.port.CriticalEnter()
	defer t.k.port.CriticalLeave(mask)

	timeout := t.ticks + delay
	bucket := t.diffMSB(t.ticks, timeout)
	a.timeout = timeout
	t.subs[bucket].enqueue(&a.link)
	t.count[bucket]++
	timerSubscriptions.Inc()
}

// tick advances time by one and re-examines the single bucket whose index
// equals the highest bit that just flipped. Due actors are handed to the
// scheduler, the rest cascade into a closer bucket. The critical section
// spans the whole drain, including each dequeue-and-rebucket pair, so a
// preempting push can never observe a subscriber in flight between buckets.
func (t *timerWheel) tick() {
	mask := t.k.port.CriticalEnter()
	defer t.k.port.CriticalLeave(mask)

	prev := t.ticks
	t.ticks = prev + 1
	bucket := t.diffMSB(prev, t.ticks)

	n := t.count[bucket]
	t.count[bucket] = 0
	for i := 0; i < n; i++ {
		a := t.subs[bucket].dequeue()
		if a.timeout == t.ticks {
			t.k.sched.activate(a)
			continue
		}
		next := t.diffMSB(a.timeout, t.ticks)
		t.subs[next].enqueue(&a.link)
		t.count[next]++
	}
	timerTicks.Inc()
}

// now returns the current tick under the timer's critical section.
func (t *timerWheel) now() uint32 {
	mask := t.k.port.CriticalEnter()
	defer t.k.port.CriticalLeave(mask)
	return t.ticks
}
