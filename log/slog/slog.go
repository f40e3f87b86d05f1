// Copyright 2026 Sauce Labs Inc., all rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package slog

import (
	"context"
	"io"
	"log/slog"
	"os"

	flog "github.com/saucelabs/tosgate/log"
)

func Default() *Logger {
	return New(flog.DefaultConfig())
}

func Debug() *Logger {
	return New(&flog.Config{Level: flog.DebugLevel, Format: flog.TextFormat})
}

var _ flog.StructuredLogger = &Logger{}

type Option func(*options)

type options struct {
	w       io.Writer
	attrs   []any
	onError func(name string)
}

// Logger implements flog.StructuredLogger on top of the standard library slog package.
type Logger struct {
	log     *slog.Logger
	file    *os.File
	name    string
	onError func(name string)
}

func New(cfg *flog.Config, opts ...Option) *Logger {
	o := options{w: os.Stdout}
	if cfg.File != nil {
		o.w = cfg.File
	}
	for _, opt := range opts {
		opt(&o)
	}

	hops := &slog.HandlerOptions{Level: flogToSlogLevel(cfg.Level), ReplaceAttr: replaceSLAttr}
	var handler slog.Handler
	if cfg.Format == flog.JSONFormat {
		handler = slog.NewJSONHandler(o.w, hops)
	} else {
		handler = slog.NewTextHandler(o.w, hops)
	}

	logger := slog.New(handler)
	if len(o.attrs) > 0 {
		logger = logger.With(o.attrs...)
	}

	return &Logger{
		log:     logger,
		file:    cfg.File,
		onError: o.onError,
	}
}

func (l *Logger) Handler() slog.Handler {
	return l.log.Handler()
}

func (l *Logger) Error(msg string, args ...any) {
	if l.onError != nil {
		l.onError(l.name)
	}
	l.log.Error(msg, args...)
}

func (l *Logger) ErrorContext(ctx context.Context, msg string, args ...any) {
	if l.onError != nil {
		l.onError(l.name)
	}
	l.log.ErrorContext(ctx, msg, args...)
}

func (l *Logger) Warn(msg string, args ...any) {
	l.log.Warn(msg, args...)
}

func (l *Logger) WarnContext(ctx context.Context, msg string, args ...any) {
	l.log.WarnContext(ctx, msg, args...)
}

func (l *Logger) Info(msg string, args ...any) {
	l.log.Info(msg, args...)
}

func (l *Logger) InfoContext(ctx context.Context, msg string, args ...any) {
	l.log.InfoContext(ctx, msg, args...)
}

func (l *Logger) Debug(msg string, args ...any) {
	l.log.Debug(msg, args...)
}

func (l *Logger) DebugContext(ctx context.Context, msg string, args ...any) {
	l.log.DebugContext(ctx, msg, args...)
}

func (l *Logger) With(args ...any) flog.StructuredLogger {
	c := *l
	c.log = c.log.With(args...)
	return &c
}

// Named returns a copy of the logger that adds the name attribute to every record.
func (l *Logger) Named(name string) *Logger {
	c := *l
	c.name = name
	c.log = c.log.With("name", name)
	return &c
}

// Close closes the log file if logging to a file.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

func flogToSlogLevel(level flog.Level) slog.Level {
	switch level {
	case flog.ErrorLevel:
		return slog.LevelError
	case flog.WarnLevel:
		return slog.LevelWarn
	case flog.InfoLevel:
		return slog.LevelInfo
	case flog.DebugLevel:
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}

func replaceSLAttr(_ []string, a slog.Attr) slog.Attr {
	switch a.Key {
	case slog.TimeKey:
		a.Key = "timestamp"
	case slog.LevelKey:
		a.Key = "severity"
	case slog.MessageKey:
		a.Key = "message"
	}
	return a
}
