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

package errors

import (
	"github.com/pingcap/errors"
)

// errors
var (
	// pool related errors
	ErrPoolExhausted = errors.Normalize(
		"message pool exhausted",
		errors.RFCCodeText("KERN:ErrPoolExhausted"),
	)
	ErrPoolBackingEmpty = errors.Normalize(
		"message pool needs a non-empty backing array",
		errors.RFCCodeText("KERN:ErrPoolBackingEmpty"),
	)
	ErrNotAnEnvelope = errors.Normalize(
		"pool element type %T does not embed kern.Message",
		errors.RFCCodeText("KERN:ErrNotAnEnvelope"),
	)

	// configuration related errors
	ErrInvalidConfig = errors.Normalize(
		"invalid kernel configuration, %s",
		errors.RFCCodeText("KERN:ErrInvalidConfig"),
	)

	// wiring related errors
	ErrPriorityOutOfRange = errors.Normalize(
		"vector %d maps to priority %d, outside [0, %d)",
		errors.RFCCodeText("KERN:ErrPriorityOutOfRange"),
	)
	ErrVectorBound = errors.Normalize(
		"vector %d already has a handler installed",
		errors.RFCCodeText("KERN:ErrVectorBound"),
	)
	ErrUnknownVector = errors.Normalize(
		"vector %d has no handler",
		errors.RFCCodeText("KERN:ErrUnknownVector"),
	)
)
