// Copyright 2026 Sauce Labs Inc., all rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package tosgate

import (
	stdlog "log"
	"strings"

	"github.com/saucelabs/tosgate/log"
)

// newStdLogger returns a standard library logger for net/http internals that writes warnings to l.
func newStdLogger(l log.StructuredLogger) *stdlog.Logger {
	return stdlog.New(logWriter{l}, "", 0)
}

type logWriter struct {
	log log.StructuredLogger
}

func (w logWriter) Write(p []byte) (int, error) {
	w.log.Warn(strings.TrimSpace(string(p)))
	return len(p), nil
}
