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

// sched is the per-priority run-queue array. It never decides who runs next;
// the interrupt controller does. activate only pends the actor's vector and
// parks the actor on its priority's FIFO, and the hardware (or simpic)
// preempts whoever it must.
type sched struct {
	k    *Kernel
	runq []list[Actor]
}

func (s *sched) init(k *Kernel, prioMax int) {
	s.k = k
	s.runq = make([]list[Actor], prioMax)
	for i := range s.runq {
		s.runq[i].init()
	}
}

// activate pends the actor's vector and enqueues the actor on its run-queue,
// both inside one critical section: the vector must not fire before the
// actor is findable by schedule.
func (s *sched) activate(a *Actor) {
	mask := s.k.port.CriticalEnter()
	s.k.port.RequestInterrupt(a.vect)
	s.runq[a.prio].enqueue(&a.link)
	s.k.port.CriticalLeave(mask)

	activations.Inc()
}

// extract atomically removes the next runnable actor at the priority.
func (s *sched) extract(prio int) *Actor {
	mask := s.k.port.CriticalEnter()
	defer s.k.port.CriticalLeave(mask)
	return s.runq[prio].dequeue()
}

// schedule drains the run-queue of the vector's priority, resuming actors in
// activation order. It runs at the hardware priority of vect, so activations
// of the same priority made during a resume are picked up by this same
// invocation and the ISR returns only when the run-queue is empty.
func (s *sched) schedule(vect int) {
	prio := s.k.port.PrioOf(vect)
	for {
		a := s.extract(prio)
		if a == nil {
			return
		}
		a.dispatch()
	}
}
