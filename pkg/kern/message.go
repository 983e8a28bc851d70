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

// Message is the envelope every pooled message type embeds. It carries the
// intrusive link, the back-reference to the owning pool, and the pointer to
// the embedding payload struct. All three are set exactly once, when the
// pool initializes its backing array; from then on a message only moves
// between its pool's free list, user queues, one actor's mailbox, and one
// in-flight Owned handle.
type Message struct {
	link   node[Message]
	parent *queueCore
	self   any
}

// envelope anchors the Envelope constraint to this package: only types that
// embed Message can satisfy it.
func (m *Message) envelope() *Message { return m }

// Envelope is satisfied by pointers to any struct embedding Message.
type Envelope interface {
	envelope() *Message
}

// Owned is a move-style single-owner handle over a pooled message. A handle
// is produced by exactly one kernel operation (Pool.Alloc, Queue.TryPop,
// Take) and consumed by exactly one (Queue.Push, Release, Drop); between the
// two it is the message's sole owner. The zero Owned is empty.
type Owned[T any] struct {
	env *Message
}

// Get returns the payload. Calling Get on an empty handle is a fatal
// programming error and panics.
func (o *Owned[T]) Get() *T {
	return o.env.self.(*T)
}

// Empty reports whether the handle has been consumed or was never filled.
func (o *Owned[T]) Empty() bool {
	return o.env == nil
}

// Release extracts the envelope and empties the handle without running the
// drop action. The caller takes over ownership of the raw message.
func (o *Owned[T]) Release() *Message {
	env := o.env
	o.env = nil
	return env
}

// Drop returns the message to the pool that created it, waking a parked
// allocator if one is waiting on Pool.Get. Dropping an empty handle is a
// no-op, so a handle consumed by Push or Release may still be dropped on
// every exit path.
func (o *Owned[T]) Drop() {
	env := o.env
	if env == nil {
		return
	}
	o.env = nil
	env.parent.push(env)
}
