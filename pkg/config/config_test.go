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

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	cerror "github.com/pingcap/nvkern/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestDefaultSimConfigIsValid(t *testing.T) {
	t.Parallel()

	cfg := NewDefaultSimConfig()
	require.NoError(t, cfg.ValidateAndAdjust())
	require.Equal(t, 5, cfg.Ticks)
	require.Equal(t, 1, cfg.PoolSize)
	require.Equal(t, 8, cfg.Kernel.PrioMax)
	require.Equal(t, 10, cfg.Kernel.TimerqMax)
}

func TestValidateRejectsBadValues(t *testing.T) {
	t.Parallel()

	cfg := NewDefaultSimConfig()
	cfg.Ticks = 0
	require.True(t, cerror.ErrInvalidConfig.Equal(cfg.ValidateAndAdjust()))

	cfg = NewDefaultSimConfig()
	cfg.PoolSize = -1
	require.True(t, cerror.ErrInvalidConfig.Equal(cfg.ValidateAndAdjust()))

	cfg = NewDefaultSimConfig()
	cfg.Kernel.TimerqMax = 33
	require.True(t, cerror.ErrInvalidConfig.Equal(cfg.ValidateAndAdjust()))
}

func TestStrictDecodeFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "sim.toml")
	content := `
ticks = 9
tick-interval = "25ms"
pool-size = 3

[kernel]
prio-max = 4
timerq-max = 6

[log]
level = "debug"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg := NewDefaultSimConfig()
	require.NoError(t, StrictDecodeFile(path, cfg))
	require.NoError(t, cfg.ValidateAndAdjust())
	require.Equal(t, 9, cfg.Ticks)
	require.Equal(t, 25*time.Millisecond, time.Duration(cfg.TickInterval))
	require.Equal(t, 3, cfg.PoolSize)
	require.Equal(t, 4, cfg.Kernel.PrioMax)
	require.Equal(t, 6, cfg.Kernel.TimerqMax)
	require.Equal(t, "debug", cfg.Log.Level)
}

func TestStrictDecodeFileRejectsUnknownKeys(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "sim.toml")
	require.NoError(t, os.WriteFile(path, []byte("no-such-key = true\n"), 0o600))

	cfg := NewDefaultSimConfig()
	err := StrictDecodeFile(path, cfg)
	require.True(t, cerror.ErrInvalidConfig.Equal(err))
}
