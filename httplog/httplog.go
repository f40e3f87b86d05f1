// Copyright 2026 Sauce Labs Inc., all rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package httplog

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/saucelabs/tosgate/middleware"
)

// Mode defines the logging verbosity.
type Mode string

const (
	None     Mode = "none"
	ShortURL Mode = "short-url"
	URL      Mode = "url"
	Headers  Mode = "headers"
	Errors   Mode = "errors"
)

var DefaultMode = Errors

func (m Mode) String() string {
	if m == "" {
		return DefaultMode.String()
	}
	return string(m)
}

// ParseMode is the flag parser for Mode.
func ParseMode(val string) (Mode, error) {
	switch m := Mode(val); m {
	case None, ShortURL, URL, Headers, Errors:
		return m, nil
	default:
		return "", fmt.Errorf("invalid mode %q", val)
	}
}

var redactedHeaders = []string{"Authorization", "Proxy-Authorization"}

type Logger struct {
	log  func(msg string, args ...any)
	mode Mode
}

// NewStructuredLogger returns a logger that logs HTTP requests and responses with the given log function.
func NewStructuredLogger(logFunc func(msg string, args ...any), mode Mode) *Logger {
	if mode == "" {
		mode = DefaultMode
	}
	return &Logger{
		log:  logFunc,
		mode: mode,
	}
}

func (l *Logger) LogFunc() middleware.Logger {
	switch l.mode {
	case None:
		return func(e middleware.LogEntry) {}
	case ShortURL:
		return func(e middleware.LogEntry) {
			l.log("HTTP request", shortURLArgs(e)...)
		}
	case URL:
		return func(e middleware.LogEntry) {
			l.log("HTTP request", urlArgs(e)...)
		}
	case Headers:
		return func(e middleware.LogEntry) {
			l.log("HTTP request", headersArgs(e)...)
		}
	case Errors:
		return func(e middleware.LogEntry) {
			if e.Status < http.StatusInternalServerError {
				return
			}
			l.log("HTTP request", headersArgs(e)...)
		}
	default:
		panic(fmt.Sprintf("unknown log mode %s", l.mode))
	}
}

func shortURLArgs(e middleware.LogEntry) []any {
	return []any{
		"method", e.Request.Method,
		"path", e.Request.URL.Path,
		"status", e.Status,
		"duration", e.Duration,
	}
}

func urlArgs(e middleware.LogEntry) []any {
	return []any{
		"method", e.Request.Method,
		"url", e.Request.URL.RequestURI(),
		"host", e.Request.Host,
		"remote_addr", e.Request.RemoteAddr,
		"status", e.Status,
		"written", e.Written,
		"duration", e.Duration,
	}
}

func headersArgs(e middleware.LogEntry) []any {
	return append(urlArgs(e),
		"request_headers", formatHeader(e.Request.Header),
		"response_headers", formatHeader(e.Header),
	)
}

func formatHeader(h http.Header) string {
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		if b.Len() > 0 {
			b.WriteString(", ")
		}
		b.WriteString(k)
		b.WriteString(": ")
		if isRedacted(k) {
			b.WriteString("<redacted>")
		} else {
			b.WriteString(strings.Join(h[k], "; "))
		}
	}
	return b.String()
}

func isRedacted(key string) bool {
	for _, r := range redactedHeaders {
		if strings.EqualFold(key, r) {
			return true
		}
	}
	return false
}
