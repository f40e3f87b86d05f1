// Copyright 2026 Sauce Labs Inc., all rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package middleware

import (
	"bufio"
	"net"
	"net/http"
)

// delegator records the status code and the number of bytes written to the response.
// It forwards Flush and Hijack to the underlying writer so that streamed responses and
// protocol upgrades keep working behind the middleware.
type delegator struct {
	http.ResponseWriter

	status      int
	written     int64
	wroteHeader bool
}

func newDelegator(w http.ResponseWriter) *delegator {
	if d, ok := w.(*delegator); ok {
		return d
	}
	return &delegator{ResponseWriter: w}
}

func (d *delegator) Status() int {
	if d.status == 0 {
		return http.StatusOK
	}
	return d.status
}

func (d *delegator) Written() int64 {
	return d.written
}

func (d *delegator) WriteHeader(code int) {
	// Informational headers may be sent many times, the final one is recorded.
	if code >= 100 && code < 200 && code != http.StatusSwitchingProtocols {
		d.ResponseWriter.WriteHeader(code)
		return
	}
	if d.wroteHeader {
		return
	}
	d.status = code
	d.wroteHeader = true
	d.ResponseWriter.WriteHeader(code)
}

func (d *delegator) Write(b []byte) (int, error) {
	if !d.wroteHeader {
		d.WriteHeader(http.StatusOK)
	}
	n, err := d.ResponseWriter.Write(b)
	d.written += int64(n)
	return n, err
}

func (d *delegator) Flush() {
	if !d.wroteHeader {
		d.WriteHeader(http.StatusOK)
	}
	http.NewResponseController(d.ResponseWriter).Flush() //nolint:errcheck // http.Flusher has no error
}

func (d *delegator) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	conn, brw, err := http.NewResponseController(d.ResponseWriter).Hijack()
	if err == nil && !d.wroteHeader {
		d.status = http.StatusSwitchingProtocols
		d.wroteHeader = true
	}
	return conn, brw, err
}

func (d *delegator) Unwrap() http.ResponseWriter {
	return d.ResponseWriter
}
