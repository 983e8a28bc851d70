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

// Package kern is the core of a tiny preemptive multitasking kernel for
// targets whose interrupt controller supports prioritized, nested, vectored
// interrupts. It presents an actor model: units of work that exchange
// pooled messages through queues, run when their interrupt vector fires,
// and suspend on a queue or on the timer wheel.
//
// Preemption is done by the interrupt controller itself, not by a software
// scheduler. Each actor is bound to a vector and the vector's hardware
// priority is the actor's priority; activating an actor pends its vector
// and the controller preempts whatever lower-priority work is running.
//
// The following diagram shows one delivery.
//
//	,------.        ,-----.         ,---------.        ,----------.       ,-----.
//	|tickISR|       |Queue|         |Scheduler|        |Controller|       |Actor|
//	`--+---'        `--+--'         `----+----'        `----+-----'       `--+--'
//	   |   push(msg)   |                 |                  |                |
//	   | ------------->|                 |                  |                |
//	   |               | dequeue parked  |                  |                |
//	   |               | actor, fill     |                  |                |
//	   |               | its mailbox     |                  |                |
//	   |               |---------------->| activate(actor)  |                |
//	   |               |                 |----------------->| pend(vect)     |
//	   |               |                 |                  |--------------->|
//	   |               |                 |   schedule(vect) |  vector fires  |
//	   |               |                 |<-----------------|                |
//	   |               |                 | drain runqueue[prio]              |
//	   |               |                 |---------------------------------->|
//	   |               |                 |                  |                | Step()
//	   |               |                 |                  |                |---.
//	   |               |                 |                  |                |<--'
//
// Wiring contract: for each actor, pick an unused vector, program its
// priority, install an ISR whose body is exactly Kernel.Schedule(vect),
// create the actor with that vector and call Start once before interrupt
// sources are enabled. For timed sleeps, install a periodic tick ISR whose
// body is Kernel.Tick.
package kern
