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

package logutil

import (
	"github.com/pingcap/errors"
	"github.com/pingcap/log"
	"go.uber.org/zap"
)

// Config defines the logging configuration of a command.
type Config struct {
	// Level is the log level, one of debug, info, warn, error.
	Level string `toml:"level" json:"level"`
	// File is the log file path; empty logs to stderr.
	File string `toml:"file" json:"file"`
}

// NewDefaultConfig returns the default log configuration.
func NewDefaultConfig() *Config {
	return &Config{Level: "info"}
}

// InitLogger initializes the global logger. Commands call it once, before
// anything else logs.
func InitLogger(cfg *Config) error {
	pclog := &log.Config{
		Level: cfg.Level,
		File: log.FileLogConfig{
			Filename: cfg.File,
		},
	}
	lg, props, err := log.InitLogger(pclog)
	if err != nil {
		return errors.Trace(err)
	}
	log.ReplaceGlobals(lg, props)
	return nil
}

// WithComponent returns a logger tagged with the component name, for
// subsystems that want their origin on every line.
func WithComponent(name string) *zap.Logger {
	return log.L().With(zap.String("component", name))
}
