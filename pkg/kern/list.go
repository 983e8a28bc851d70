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

// node is an intrusive link embedded in every object that can live on a
// list. A node whose next points at itself is unlinked; otherwise it is part
// of exactly one ring. self points back at the embedding object and is set
// once, when the object is initialized; it stands in for the downcast an
// intrusive container needs to hand elements back by their real type.
type node[T any] struct {
	next, prev *node[T]
	self       *T
}

func (n *node[T]) init(self *T) {
	n.self = self
	n.next = n
	n.prev = n
}

func (n *node[T]) linked() bool {
	return n.next != n
}

// list is a circular doubly-linked list threaded through a sentinel node.
// Enqueue appends at the tail, dequeue removes at the head, so traversal
// order is FIFO. Both operations are O(1) and allocate nothing.
type list[T any] struct {
	root node[T]
}

func (l *list[T]) init() {
	l.root.next = &l.root
	l.root.prev = &l.root
}

func (l *list[T]) empty() bool {
	return l.root.next == &l.root
}

func (l *list[T]) enqueue(n *node[T]) {
	n.next = &l.root
	n.prev = l.root.prev
	n.prev.next = n
	l.root.prev = n
}

// dequeue unlinks and returns the head element, or nil if the list is empty.
// The removed node is reset to the unlinked (self-loop) state.
func (l *list[T]) dequeue() *T {
	if l.empty() {
		return nil
	}
	n := l.root.next
	n.prev.next = n.next
	n.next.prev = n.prev
	n.next = n
	n.prev = n
	return n.self
}

// len walks the ring. It exists for invariant checks, the kernel itself
// never needs it.
func (l *list[T]) len() int {
	count := 0
	for n := l.root.next; n != &l.root; n = n.next {
		count++
	}
	return count
}
