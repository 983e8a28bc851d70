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
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPushThenPopRoundTrip(t *testing.T) {
	t.Parallel()

	k, _ := newTestKernel(t, nil)
	q := NewQueue[testMsg](k)
	pool, err := NewPool(k, make([]testMsg, 1))
	require.NoError(t, err)

	m, err := pool.Alloc()
	require.NoError(t, err)
	m.Get().seq = 42
	sent := m.Get()

	q.Push(&m)
	require.True(t, m.Empty())
	require.Equal(t, 1, q.Len())

	got, ok := q.TryPop()
	require.True(t, ok)
	require.Same(t, sent, got.Get())
	require.Equal(t, 42, got.Get().seq)
	require.Equal(t, 0, q.Len())
	got.Drop()
}

func TestTryPopEmpty(t *testing.T) {
	t.Parallel()

	k, _ := newTestKernel(t, nil)
	q := NewQueue[testMsg](k)
	_, ok := q.TryPop()
	require.False(t, ok)
	require.Equal(t, 0, q.Len())
}

// Three actors park on the same queue in order; three messages wake them in
// the same order, each delivering the matching message.
func TestParkWakeFIFO(t *testing.T) {
	t.Parallel()

	k, p := newTestKernel(t, nil)
	for vect := 10; vect <= 12; vect++ {
		p.prios[vect] = 0
	}
	q := NewQueue[testMsg](k)
	pool, err := NewPool(k, make([]testMsg, 3))
	require.NoError(t, err)

	type delivery struct {
		actor int
		seq   int
	}
	var deliveries []delivery
	mkBody := func(id int) stepFunc {
		return func(a *Actor) Await {
			if m, ok := Take[testMsg](a); ok {
				deliveries = append(deliveries, delivery{actor: id, seq: m.Get().seq})
				m.Drop()
			}
			return q.Poll()
		}
	}
	for i := 0; i < 3; i++ {
		k.NewActor(10+i, mkBody(i)).Start()
	}
	require.Equal(t, -3, q.Len())

	for seq := 1; seq <= 3; seq++ {
		m, allocErr := pool.Alloc()
		require.NoError(t, allocErr)
		m.Get().seq = seq
		q.Push(&m)
	}
	require.Equal(t, 0, q.Len())
	// Each push pended the woken actor's vector.
	require.Equal(t, []int{10, 11, 12}, p.pends)

	// Play the hardware: all three actors share priority 0, one ISR
	// invocation drains them in activation order.
	k.Schedule(10)
	require.Equal(t, []delivery{{0, 1}, {1, 2}, {2, 3}}, deliveries)
	// All actors are parked again.
	require.Equal(t, -3, q.Len())
}

// A push to a queue with parked subscribers delivers into the mailbox
// directly; the message never touches the message ring.
func TestPushHandsOffToParkedActor(t *testing.T) {
	t.Parallel()

	k, p := newTestKernel(t, nil)
	p.prios[20] = 0
	q := NewQueue[testMsg](k)
	pool, err := NewPool(k, make([]testMsg, 1))
	require.NoError(t, err)

	var received *testMsg
	body := stepFunc(func(a *Actor) Await {
		if m, ok := Take[testMsg](a); ok {
			received = m.Get()
			m.Drop()
		}
		return q.Poll()
	})
	k.NewActor(20, body).Start()

	m, err := pool.Alloc()
	require.NoError(t, err)
	sent := m.Get()
	q.Push(&m)

	require.Equal(t, 0, q.core.msgs.len())
	k.Schedule(20)
	require.Same(t, sent, received)
}

// The signed length always equals messages minus parked actors, and at most
// one of the two rings is populated.
func TestQueueLengthInvariant(t *testing.T) {
	t.Parallel()

	k, p := newTestKernel(t, nil)
	q := NewQueue[testMsg](k)
	pool, err := NewPool(k, make([]testMsg, 8))
	require.NoError(t, err)

	check := func() {
		t.Helper()
		msgs, subs := q.core.msgs.len(), q.core.subs.len()
		require.Equal(t, q.core.length, msgs-subs)
		if msgs > 0 {
			require.Zero(t, subs)
		}
		if subs > 0 {
			require.Zero(t, msgs)
		}
	}

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 500; i++ {
		if rng.Intn(2) == 0 {
			if m, allocErr := pool.Alloc(); allocErr == nil {
				m.Get().seq = i
				q.Push(&m)
			}
		} else {
			if m, ok := q.TryPop(); ok {
				m.Drop()
			}
		}
		check()
	}
	// Drain the buffered side.
	for {
		m, ok := q.TryPop()
		if !ok {
			break
		}
		m.Drop()
		check()
	}

	// Now the parked side: actors drive length negative one park at a time.
	for i := 0; i < 3; i++ {
		p.prios[30+i] = 0
		k.NewActor(30+i, stepFunc(func(a *Actor) Await {
			if m, ok := Take[testMsg](a); ok {
				m.Drop()
			}
			return q.Poll()
		})).Start()
		require.Equal(t, -(i + 1), q.Len())
		check()
	}
	for seq := 0; seq < 3; seq++ {
		m, allocErr := pool.Alloc()
		require.NoError(t, allocErr)
		q.Push(&m)
		check()
	}
	require.Equal(t, 0, q.Len())
}
