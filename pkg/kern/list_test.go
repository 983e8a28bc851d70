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

type listItem struct {
	link node[listItem]
	id   int
}

func newListItem(id int) *listItem {
	it := &listItem{id: id}
	it.link.init(it)
	return it
}

func TestListFIFO(t *testing.T) {
	t.Parallel()

	var l list[listItem]
	l.init()
	require.True(t, l.empty())
	require.Nil(t, l.dequeue())

	items := []*listItem{newListItem(1), newListItem(2), newListItem(3)}
	for _, it := range items {
		l.enqueue(&it.link)
	}
	require.False(t, l.empty())
	require.Equal(t, 3, l.len())

	for _, want := range items {
		got := l.dequeue()
		require.Same(t, want, got)
	}
	require.True(t, l.empty())
}

func TestListUnlinkedNodeSelfLoops(t *testing.T) {
	t.Parallel()

	var l list[listItem]
	l.init()
	it := newListItem(7)
	require.False(t, it.link.linked())

	l.enqueue(&it.link)
	require.True(t, it.link.linked())

	got := l.dequeue()
	require.Same(t, it, got)
	require.False(t, it.link.linked())
	require.Same(t, &it.link, it.link.next)
	require.Same(t, &it.link, it.link.prev)
}

func TestListInterleavedEnqueueDequeue(t *testing.T) {
	t.Parallel()

	var l list[listItem]
	l.init()
	a, b, c := newListItem(1), newListItem(2), newListItem(3)

	l.enqueue(&a.link)
	l.enqueue(&b.link)
	require.Same(t, a, l.dequeue())
	l.enqueue(&c.link)
	require.Same(t, b, l.dequeue())
	require.Same(t, c, l.dequeue())
	require.Nil(t, l.dequeue())
	require.True(t, l.empty())
}
