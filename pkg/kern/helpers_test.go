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

	"github.com/pingcap/nvkern/pkg/port"
	"github.com/stretchr/testify/require"
)

// recordPort is a port double for single-goroutine unit tests: critical
// sections only track the mask flag and pended vectors are recorded instead
// of fired. Tests drive Schedule by hand, playing the hardware.
type recordPort struct {
	prios  map[int]int
	pends  []int
	masked bool
}

func (p *recordPort) PrioOf(vect int) int {
	if prio, ok := p.prios[vect]; ok {
		return prio
	}
	return 0
}

func (p *recordPort) RequestInterrupt(vect int) {
	p.pends = append(p.pends, vect)
}

func (p *recordPort) CriticalEnter() port.Mask {
	prev := p.masked
	p.masked = true
	return port.Mask(prev)
}

func (p *recordPort) CriticalLeave(m port.Mask) {
	p.masked = bool(m)
}

func newTestKernel(t *testing.T, cfg *Config) (*Kernel, *recordPort) {
	p := &recordPort{prios: make(map[int]int)}
	k, err := New(p, cfg)
	require.NoError(t, err)
	return k, p
}

// stepFunc is shorthand for the exported adapter in package tests.
type stepFunc = StepFunc

// testMsg is the pooled message type used across the package tests.
type testMsg struct {
	Message
	seq int
}
