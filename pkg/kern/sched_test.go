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
	"testing"

	"github.com/stretchr/testify/require"
)

// After activate, the actor sits on its priority's run-queue and its vector
// is pending.
func TestActivatePendsAndEnqueues(t *testing.T) {
	t.Parallel()

	k, p := newTestKernel(t, nil)
	p.prios[70] = 3
	a := k.NewActor(70, stepFunc(func(*Actor) Await { return Sleep(100) }))

	k.sched.activate(a)
	require.Equal(t, []int{70}, p.pends)
	require.Equal(t, 1, k.sched.runq[3].len())
	require.Same(t, a, k.sched.runq[3].dequeue())
}

// Actors activated at one priority resume in activation order.
func TestScheduleDrainsFIFO(t *testing.T) {
	t.Parallel()

	k, p := newTestKernel(t, nil)
	var order []int
	actors := make([]*Actor, 3)
	for i := 0; i < 3; i++ {
		i := i
		p.prios[80+i] = 2
		actors[i] = k.NewActor(80+i, stepFunc(func(*Actor) Await {
			order = append(order, i)
			return Sleep(100)
		}))
	}
	for _, a := range actors {
		k.sched.activate(a)
	}
	k.Schedule(80)
	require.Equal(t, []int{0, 1, 2}, order)
	require.Equal(t, 0, k.sched.runq[2].len())
}

// An activation made during a resume at the same priority is coalesced into
// the running schedule invocation.
func TestScheduleCoalescesSamePriority(t *testing.T) {
	t.Parallel()

	k, p := newTestKernel(t, nil)
	p.prios[90] = 1
	p.prios[91] = 1

	var order []string
	second := k.NewActor(91, stepFunc(func(*Actor) Await {
		order = append(order, "second")
		return Sleep(100)
	}))
	first := k.NewActor(90, stepFunc(func(*Actor) Await {
		order = append(order, "first")
		k.sched.activate(second)
		return Sleep(100)
	}))

	k.sched.activate(first)
	k.Schedule(90)
	require.Equal(t, []string{"first", "second"}, order)
	require.Equal(t, 0, k.sched.runq[1].len())
}

func TestScheduleEmptyRunqueueReturns(t *testing.T) {
	t.Parallel()

	k, p := newTestKernel(t, nil)
	p.prios[95] = 0
	k.Schedule(95)
	require.Empty(t, p.pends)
}
