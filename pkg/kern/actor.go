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
	"github.com/pingcap/log"
	cerror "github.com/pingcap/nvkern/pkg/errors"
	"go.uber.org/zap"
)

// Body is an actor's behavior written as an explicit state machine. Step
// runs the body from its current resume point and returns the next await.
// For a queue or pool await that was satisfied, the delivered message sits
// in the actor's mailbox and is picked up with Take; for a timer await the
// mailbox is empty. Step must never block: the only way a body suspends is
// by returning.
//
// The first Step call happens inside Actor.Start, before any message has
// been delivered, and establishes the initial await.
type Body interface {
	Step(a *Actor) Await
}

// StepFunc adapts a plain function to the Body interface.
type StepFunc func(a *Actor) Await

// Step implements Body.
func (f StepFunc) Step(a *Actor) Await { return f(a) }

type awaitKind uint8

const (
	awaitQueue awaitKind = iota + 1
	awaitPool
	awaitSleep
)

type refiller interface {
	refill()
}

// Await describes the suspension an actor body yields to. Values are built
// by Queue.Poll, Pool.Get and Sleep; the zero Await is invalid and fatal.
type Await struct {
	kind  awaitKind
	queue *queueCore
	pool  refiller
	ticks uint32
}

// Sleep returns the await that parks the actor on the timer wheel for the
// given number of ticks. Sleep(0) resumes immediately.
func Sleep(ticks uint32) Await {
	return Await{kind: awaitSleep, ticks: ticks}
}

// Actor is a singleton unit of execution bound to an interrupt vector. Its
// priority is the vector's priority and never changes. An actor lives on at
// most one list at a time (a queue's subscriber ring, a timer bucket, or its
// priority's run-queue), holds at most one message in its mailbox, and is
// never destroyed.
type Actor struct {
	link    node[Actor]
	mailbox *Message
	timeout uint32

	vect int
	prio int

	body Body
	k    *Kernel
}

// NewActor binds a body to an interrupt vector. The vector's priority is
// queried from the port once and must fall inside the scheduler's priority
// range.
func (k *Kernel) NewActor(vect int, body Body) *Actor {
	prio := k.port.PrioOf(vect)
	if prio < 0 || prio >= k.cfg.PrioMax {
		log.Panic("actor priority outside the run-queue range",
			zap.Int("vector", vect),
			zap.Int("priority", prio),
			zap.Error(cerror.ErrPriorityOutOfRange.GenWithStackByArgs(vect, prio, k.cfg.PrioMax)))
	}
	a := &Actor{vect: vect, prio: prio, body: body, k: k}
	a.link.init(a)
	return a
}

// Vect returns the interrupt vector the actor is bound to.
func (a *Actor) Vect() int { return a.vect }

// Prio returns the actor's preemption priority.
func (a *Actor) Prio() int { return a.prio }

// Kernel returns the kernel the actor was created on.
func (a *Actor) Kernel() *Kernel { return a.k }

// Start primes the actor: it runs the body to its first suspension. Call it
// exactly once at startup, before the interrupt sources that feed the actor
// are enabled.
func (a *Actor) Start() {
	a.dispatch()
}

// dispatch resumes the body and keeps stepping it until an await actually
// parks. An await that is immediately ready (buffered message, zero delay)
// is consumed on the spot and the body continues on the same stack, which is
// the run-to-completion rule within one priority.
func (a *Actor) dispatch() {
	for {
		aw := a.body.Step(a)
		if a.park(aw) {
			return
		}
	}
}

// park registers the actor on the await's wait source. It reports true if
// the actor suspended and will be resumed by a later activation.
func (a *Actor) park(aw Await) bool {
	switch aw.kind {
	case awaitQueue:
		return aw.queue.pop(a)
	case awaitPool:
		aw.pool.refill()
		return aw.queue.pop(a)
	case awaitSleep:
		if aw.ticks == 0 {
			return false
		}
		a.k.timer.subscribe(a, aw.ticks)
		return true
	default:
		log.Panic("actor body yielded an invalid await",
			zap.Int("vector", a.vect))
		return true
	}
}

// Take removes the delivered message from the actor's mailbox. It returns
// false when the mailbox is empty, which is the case on the initial Step and
// after a timer wake.
func Take[T any](a *Actor) (Owned[T], bool) {
	env := a.mailbox
	if env == nil {
		return Owned[T]{}, false
	}
	a.mailbox = nil
	return Owned[T]{env: env}, true
}
