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

// Pool is a fixed-size message pool that is itself a queue: its queue side
// holds the free list, populated by Owned.Drop, while fresh slots are handed
// out from the backing slice through a monotonic offset cursor. The slice is
// the only storage the pool ever uses; nothing is allocated after
// construction.
type Pool[T any] struct {
	Queue[T]

	slots  []T
	offset int
}

// NewPool wraps the backing slice into a pool. T must embed Message; the
// envelopes of all slots are initialized here, which is the single point
// where a message's parent and payload back-pointer are set.
func NewPool[T any](k *Kernel, backing []T) (*Pool[T], error) {
	if len(backing) == 0 {
		return nil, cerror.ErrPoolBackingEmpty.GenWithStackByArgs()
	}
	p := &Pool[T]{slots: backing}
	p.core.init(k)
	for i := range backing {
		e, ok := any(&backing[i]).(Envelope)
		if !ok {
			return nil, cerror.ErrNotAnEnvelope.GenWithStackByArgs(&backing[i])
		}
		env := e.envelope()
		env.link.init(env)
		env.parent = &p.core
		env.self = &backing[i]
	}
	return p, nil
}

// MustNewPool is NewPool for static wiring done before interrupts are
// enabled, where a bad pool is a build mistake rather than a runtime
// condition.
func MustNewPool[T any](k *Kernel, backing []T) *Pool[T] {
	p, err := NewPool(k, backing)
	if err != nil {
		log.Panic("create message pool", zap.Error(err))
	}
	return p
}

// Alloc hands out a message: first from the unused tail of the backing
// array, then from the free list of previously dropped messages. When both
// are exhausted it returns ErrPoolExhausted; the caller decides whether to
// shed the event or wait via Get.
func (p *Pool[T]) Alloc() (Owned[T], error) {
	if env := p.pickFromArray(); env != nil {
		return Owned[T]{env: env}, nil
	}
	if env := p.core.tryPop(); env != nil {
		return Owned[T]{env: env}, nil
	}
	poolExhausted.Inc()
	return Owned[T]{}, cerror.ErrPoolExhausted.GenWithStackByArgs()
}

// Get returns the await an actor body yields to block until a message is
// free. A fresh slot, if one remains, is first pushed onto the pool's own
// queue so the subsequent poll finds it; otherwise the poll takes a
// previously dropped message, or parks the actor until some holder drops one.
func (p *Pool[T]) Get() Await {
	return Await{kind: awaitPool, queue: &p.core, pool: p}
}

// refill moves one unused slot from the backing array onto the free-list
// queue. Called on the await path, before the actor polls the pool.
func (p *Pool[T]) refill() {
	if env := p.pickFromArray(); env != nil {
		p.core.push(env)
	}
}

func (p *Pool[T]) pickFromArray() *Message {
	mask := p.core.k.port.CriticalEnter()
	defer p.core.k.port.CriticalLeave(mask)

	if p.offset < len(p.slots) {
		env := any(&p.slots[p.offset]).(Envelope).envelope()
		p.offset++
		return env
	}
	return nil
}

// Cap returns the total number of messages the pool can have outstanding.
func (p *Pool[T]) Cap() int {
	return len(p.slots)
}
