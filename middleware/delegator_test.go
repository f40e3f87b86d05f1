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
	"net/http/httptest"
	"testing"
	"time"
)

func TestDelegatorStatus(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		status  int
		written int64
	}{
		{
			name:    "implicit ok",
			handler: func(w http.ResponseWriter, r *http.Request) { w.Write([]byte("hello")) },
			status:  http.StatusOK,
			written: 5,
		},
		{
			name: "first status wins",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
				w.WriteHeader(http.StatusOK)
			},
			status: http.StatusBadGateway,
		},
		{
			name:    "nothing written",
			handler: func(w http.ResponseWriter, r *http.Request) {},
			status:  http.StatusOK,
		},
	}

	for i := range tests {
		tc := tests[i]
		t.Run(tc.name, func(t *testing.T) {
			d := newDelegator(httptest.NewRecorder())
			tc.handler(d, httptest.NewRequest(http.MethodGet, "/", http.NoBody))
			if d.Status() != tc.status {
				t.Errorf("status: got %d, want %d", d.Status(), tc.status)
			}
			if d.Written() != tc.written {
				t.Errorf("written: got %d, want %d", d.Written(), tc.written)
			}
		})
	}
}

func TestDelegatorHijack(t *testing.T) {
	var entry LogEntry
	done := make(chan struct{})

	h := Logger(func(e LogEntry) {
		entry = e
		close(done)
	}).Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, brw, err := http.NewResponseController(w).Hijack()
		if err != nil {
			t.Errorf("hijack: %v", err)
			return
		}
		defer conn.Close()
		brw.WriteString("HTTP/1.1 101 Switching Protocols\r\nConnection: Upgrade\r\nUpgrade: test\r\n\r\n")
		brw.Flush()
	}))

	s := httptest.NewServer(h)
	defer s.Close()

	conn, err := net.Dial("tcp", s.Listener.Addr().String())
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(5 * time.Second))

	if _, err := conn.Write([]byte("GET / HTTP/1.1\r\nHost: test\r\nConnection: Upgrade\r\nUpgrade: test\r\n\r\n")); err != nil {
		t.Fatal(err)
	}
	res, err := http.ReadResponse(bufio.NewReader(conn), nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.StatusCode != http.StatusSwitchingProtocols {
		t.Fatalf("status: got %d, want %d", res.StatusCode, http.StatusSwitchingProtocols)
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for log entry")
	}
	if entry.Status != http.StatusSwitchingProtocols {
		t.Errorf("logged status: got %d, want %d", entry.Status, http.StatusSwitchingProtocols)
	}
}
