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
	"github.com/prometheus/client_golang/prometheus"
)

var (
	activations = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "nvkern",
			Subsystem: "sched",
			Name:      "actor_activations_total",
			Help:      "The total number of actor activations.",
		})
	queueParks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "nvkern",
			Subsystem: "queue",
			Name:      "actor_parks_total",
			Help:      "The total number of times an actor parked on a queue.",
		})
	timerTicks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "nvkern",
			Subsystem: "timer",
			Name:      "ticks_total",
			Help:      "The total number of timer ticks processed.",
		})
	timerSubscriptions = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "nvkern",
			Subsystem: "timer",
			Name:      "subscriptions_total",
			Help:      "The total number of sleeps registered on the timer wheel.",
		})
	poolExhausted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "nvkern",
			Subsystem: "pool",
			Name:      "exhausted_total",
			Help:      "The total number of allocations rejected because the pool was empty.",
		})
)

// InitMetrics registers all metrics in this file.
func InitMetrics(registry *prometheus.Registry) {
	registry.MustRegister(activations)
	registry.MustRegister(queueParks)
	registry.MustRegister(timerTicks)
	registry.MustRegister(timerSubscriptions)
	registry.MustRegister(poolExhausted)
}
