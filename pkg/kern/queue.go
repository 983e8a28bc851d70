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

// queueCore is the untyped rendezvous between messages and actors. Its
// signed length both counts and encodes the queue mode:
//
//	length == 0: empty, nobody waiting
//	length >  0: length messages buffered on msgs
//	length <  0: -length actors parked on subs
//
// At most one of the two rings is non-empty at any time. Every read-modify-
// write of length and the list splice it decides are done inside one
// critical section of the port.
type queueCore struct {
	k      *Kernel
	msgs   list[Message]
	subs   list[Actor]
	length int
}

func (q *queueCore) init(k *Kernel) {
	q.k = k
	q.msgs.init()
	q.subs.init()
}

// push buffers the message or, if actors are parked, hands it to the
// longest-waiting one and schedules that actor. The handoff into the mailbox
// happens inside the critical section; the activation happens after it, the
// way the scheduler expects to be called.
func (q *queueCore) push(env *Message) {
	mask := q.k.port.CriticalEnter()
	prev := q.length
	q.length = prev + 1
	var subscriber *Actor
	if prev >= 0 {
		q.msgs.enqueue(&env.link)
	} else {
		subscriber = q.subs.dequeue()
		subscriber.mailbox = env
	}
	q.k.port.CriticalLeave(mask)

	if subscriber != nil {
		q.k.sched.activate(subscriber)
	}
}

// pop either delivers a buffered message into the actor's mailbox, or parks
// the actor at the tail of the subscriber ring. It reports whether the actor
// parked.
func (q *queueCore) pop(a *Actor) bool {
	mask := q.k.port.CriticalEnter()
	defer q.k.port.CriticalLeave(mask)

	prev := q.length
	q.length = prev - 1
	if prev <= 0 {
		q.subs.enqueue(&a.link)
		queueParks.Inc()
		return true
	}
	a.mailbox = q.msgs.dequeue()
	return false
}

// tryPop removes one buffered message without ever parking.
func (q *queueCore) tryPop() *Message {
	mask := q.k.port.CriticalEnter()
	defer q.k.port.CriticalLeave(mask)

	if q.length > 0 {
		q.length--
		return q.msgs.dequeue()
	}
	return nil
}

// Len returns the signed queue length: the number of buffered messages, or
// the negated number of parked subscribers.
func (q *queueCore) Len() int {
	mask := q.k.port.CriticalEnter()
	defer q.k.port.CriticalLeave(mask)
	return q.length
}

// Queue is a mailbox-style FIFO carrying messages of one pooled type.
// Messages pushed in some order are delivered to subscribers in the same
// order; parked subscribers wake in the order they parked.
type Queue[T any] struct {
	core queueCore
}

// NewQueue creates an empty queue owned by the kernel's port and scheduler.
func NewQueue[T any](k *Kernel) *Queue[T] {
	q := &Queue[T]{}
	q.core.init(k)
	return q
}

// Push transfers the message into the queue, consuming the handle. If an
// actor is parked on the queue it receives the message and is activated
// before Push returns.
func (q *Queue[T]) Push(m *Owned[T]) {
	q.core.push(m.Release())
}

// TryPop removes the oldest buffered message, if any. It never parks and may
// be called from any context, including ISRs.
func (q *Queue[T]) TryPop() (Owned[T], bool) {
	env := q.core.tryPop()
	if env == nil {
		return Owned[T]{}, false
	}
	return Owned[T]{env: env}, true
}

// Len returns the signed queue length, see queueCore.Len.
func (q *Queue[T]) Len() int {
	return q.core.Len()
}

// Poll returns the await an actor body yields to suspend on this queue. The
// resumed body finds the delivered message in its mailbox via Take.
func (q *Queue[T]) Poll() Await {
	return Await{kind: awaitQueue, queue: &q.core}
}
