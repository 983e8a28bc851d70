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

package port

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCLZ(t *testing.T) {
	t.Parallel()

	require.Equal(t, 31, CLZ(1))
	require.Equal(t, 28, CLZ(0x8))
	require.Equal(t, 0, CLZ(0x80000000))
	require.Equal(t, 0, CLZ(0xFFFFFFFF))
	require.Equal(t, 30, CLZ(3))
}
