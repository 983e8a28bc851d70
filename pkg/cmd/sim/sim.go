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

// Package sim implements the `sim` command: the LED blink scenario run on
// the simulated interrupt controller. A periodic tick source allocates a
// message from a pool, stamps it with the LED state, and pushes it to a
// queue; a blink actor bound to a higher-priority vector polls the queue and
// reports every state it receives.
package sim

import (
	"context"
	"net/http"
	"time"

	"github.com/pingcap/errors"
	"github.com/pingcap/log"
	"github.com/pingcap/nvkern/pkg/config"
	"github.com/pingcap/nvkern/pkg/kern"
	"github.com/pingcap/nvkern/pkg/logutil"
	"github.com/pingcap/nvkern/pkg/port/simpic"
	"github.com/pingcap/nvkern/pkg/ticker"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	// tickVect is the simulated SysTick line, preemptible by the blinker.
	tickVect = 15
	tickPrio = 1
	// blinkVect plays the role of the spare peripheral vector the blink
	// actor borrows.
	blinkVect = 20
	blinkPrio = 0
)

// blinkMsg carries one LED state change.
type blinkMsg struct {
	kern.Message
	ledState uint32
}

// blinker is the actor body: an endless poll of the blink queue.
type blinker struct {
	queue  *kern.Queue[blinkMsg]
	states []uint32
}

func (b *blinker) Step(a *kern.Actor) kern.Await {
	if m, ok := kern.Take[blinkMsg](a); ok {
		state := m.Get().ledState
		b.states = append(b.states, state)
		log.Info("led state", zap.Uint32("state", state))
		m.Drop()
	}
	return b.queue.Poll()
}

// options defines flags for the `sim` command.
type options struct {
	configFilePath string
	simConfig      *config.SimConfig
}

// newOptions creates new options for the `sim` command.
func newOptions() *options {
	return &options{
		simConfig: config.NewDefaultSimConfig(),
	}
}

// addFlags receives a *cobra.Command reference and binds flags related to
// the simulator to it.
func (o *options) addFlags(cmd *cobra.Command) {
	defaults := config.NewDefaultSimConfig()
	cmd.Flags().IntVar(&o.simConfig.Ticks, "ticks", defaults.Ticks, "number of timer ticks to run")
	cmd.Flags().DurationVar((*time.Duration)(&o.simConfig.TickInterval), "tick-interval", time.Duration(defaults.TickInterval), "period of the simulated tick source")
	cmd.Flags().IntVar(&o.simConfig.PoolSize, "pool-size", defaults.PoolSize, "number of messages in the blink pool")
	cmd.Flags().StringVar(&o.simConfig.MetricsAddr, "metrics-addr", defaults.MetricsAddr, "serve prometheus metrics on this address, empty disables")
	cmd.Flags().StringVar(&o.simConfig.Log.Level, "log-level", defaults.Log.Level, "log level (etc: debug|info|warn|error)")
	cmd.Flags().StringVar(&o.simConfig.Log.File, "log-file", defaults.Log.File, "log file path")
	cmd.Flags().StringVar(&o.configFilePath, "config", "", "path of the configuration file")
}

func (o *options) loadAndVerifyConfig(cmd *cobra.Command) (*config.SimConfig, error) {
	conf := config.NewDefaultSimConfig()
	if len(o.configFilePath) > 0 {
		if err := config.StrictDecodeFile(o.configFilePath, conf); err != nil {
			return nil, err
		}
	}
	cmd.Flags().Visit(func(flag *pflag.Flag) {
		switch flag.Name {
		case "ticks":
			conf.Ticks = o.simConfig.Ticks
		case "tick-interval":
			conf.TickInterval = o.simConfig.TickInterval
		case "pool-size":
			conf.PoolSize = o.simConfig.PoolSize
		case "metrics-addr":
			conf.MetricsAddr = o.simConfig.MetricsAddr
		case "log-level":
			conf.Log.Level = o.simConfig.Log.Level
		case "log-file":
			conf.Log.File = o.simConfig.Log.File
		case "config":
			// do nothing
		default:
			log.Panic("unknown flag, please report a bug", zap.String("flagName", flag.Name))
		}
	})
	if err := conf.ValidateAndAdjust(); err != nil {
		return nil, errors.Trace(err)
	}
	return conf, nil
}

func (o *options) run(cmd *cobra.Command) error {
	conf, err := o.loadAndVerifyConfig(cmd)
	if err != nil {
		return errors.Trace(err)
	}
	if err = logutil.InitLogger(conf.Log); err != nil {
		return errors.Trace(err)
	}

	registry := prometheus.NewRegistry()
	kern.InitMetrics(registry)

	machine := simpic.NewMachine()
	kernel, err := kern.New(machine, conf.Kernel)
	if err != nil {
		return errors.Trace(err)
	}

	queue := kern.NewQueue[blinkMsg](kernel)
	pool, err := kern.NewPool(kernel, make([]blinkMsg, conf.PoolSize))
	if err != nil {
		return errors.Trace(err)
	}

	body := &blinker{queue: queue}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tickCount := 0
	machine.MustInstall(blinkVect, blinkPrio, func() { kernel.Schedule(blinkVect) })
	machine.MustInstall(tickVect, tickPrio, func() {
		tickCount++
		if m, allocErr := pool.Alloc(); allocErr == nil {
			m.Get().ledState = uint32(tickCount & 1)
			queue.Push(&m)
		} else {
			log.Warn("tick dropped, pool exhausted", zap.Int("tick", tickCount))
		}
		kernel.Tick()
		if tickCount >= conf.Ticks {
			cancel()
		}
	})
	actor := kernel.NewActor(blinkVect, body)

	// Prime the actor to its first suspension before the tick source starts,
	// the same order a target enables its interrupts in.
	machine.Run(func() { actor.Start() })

	g, gctx := errgroup.WithContext(ctx)
	driver := ticker.NewDriver(machine, tickVect, time.Duration(conf.TickInterval), nil)
	g.Go(func() error {
		return driver.Run(gctx)
	})
	if conf.MetricsAddr != "" {
		server := &http.Server{Addr: conf.MetricsAddr, Handler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{})}
		g.Go(func() error {
			<-gctx.Done()
			return errors.Trace(server.Close())
		})
		g.Go(func() error {
			serveErr := server.ListenAndServe()
			if serveErr == http.ErrServerClosed {
				return nil
			}
			return errors.Trace(serveErr)
		})
	}
	err = g.Wait()
	if err != nil && errors.Cause(err) != context.Canceled {
		return errors.Trace(err)
	}

	log.Info("simulation finished",
		zap.Int("ticks", tickCount),
		zap.Uint32s("ledStates", body.states),
		zap.Int64("dispatches", machine.Dispatches()))
	return nil
}

// NewSimCommand creates the `sim` command.
func NewSimCommand() *cobra.Command {
	o := newOptions()
	command := &cobra.Command{
		Use:   "sim",
		Short: "Run the LED blink scenario on the simulated interrupt controller",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd)
		},
	}
	o.addFlags(command)
	return command
}
