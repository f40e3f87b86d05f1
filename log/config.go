// Copyright 2026 Sauce Labs Inc., all rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package log

import (
	"fmt"
	"os"
)

// Config is a configuration for the loggers.
type Config struct {
	File   *os.File
	Level  Level
	Format Format
}

func DefaultConfig() *Config {
	return &Config{
		File:   nil,
		Level:  InfoLevel,
		Format: TextFormat,
	}
}

type Level int

// Levels start from 1 to avoid zero value in help printer.
const (
	ErrorLevel Level = 1 + iota
	WarnLevel
	InfoLevel
	DebugLevel
)

func (l Level) String() string {
	return [4]string{"error", "warn", "info", "debug"}[l-1]
}

// ParseLevel is the flag parser for Level.
func ParseLevel(val string) (Level, error) {
	for l := ErrorLevel; l <= DebugLevel; l++ {
		if l.String() == val {
			return l, nil
		}
	}
	return 0, fmt.Errorf("invalid log level %q, supported levels are error, warn, info, debug", val)
}

type Format int

// Formats start from 1 to avoid zero value in help printer.
const (
	TextFormat Format = 1 + iota
	JSONFormat
)

func (m Format) String() string {
	return [2]string{"text", "json"}[m-1]
}

// ParseFormat is the flag parser for Format.
func ParseFormat(val string) (Format, error) {
	switch val {
	case TextFormat.String():
		return TextFormat, nil
	case JSONFormat.String():
		return JSONFormat, nil
	default:
		return 0, fmt.Errorf("invalid log format %q, supported formats are text, json", val)
	}
}
