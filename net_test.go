// Copyright 2026 Sauce Labs Inc., all rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package tosgate

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestHostOf(t *testing.T) {
	tests := []struct {
		addr string
		want string
	}{
		{"wiki:3000", "wiki"},
		{"localhost:3000", "localhost"},
		{"127.0.0.1:3000", "localhost"},
		{"[::1]:3000", "localhost"},
		{"10.0.0.7:3000", "10.0.0.7"},
		{"wiki", "unknown"},
	}

	for _, tc := range tests {
		if got := hostOf(tc.addr); got != tc.want {
			t.Errorf("%s: got %q, want %q", tc.addr, got, tc.want)
		}
	}
}

func TestDialerMetrics(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()

	cfg := DefaultDialConfig()
	cfg.PromRegistry = prometheus.NewRegistry()
	d := NewDialer(cfg)

	conn, err := d.DialContext(context.Background(), "tcp", l.Addr().String())
	if err != nil {
		t.Fatal(err)
	}

	active := d.metrics.active.WithLabelValues("localhost")
	if v := testutil.ToFloat64(active); v != 1 {
		t.Errorf("active after dial: got %v", v)
	}

	conn.Close()
	conn.Close()
	if v := testutil.ToFloat64(active); v != 0 {
		t.Errorf("active after close: got %v", v)
	}
	if v := testutil.ToFloat64(d.metrics.dialed.WithLabelValues("localhost")); v != 1 {
		t.Errorf("dialed: got %v", v)
	}

	addr := l.Addr().String()
	l.Close()
	if _, err := d.DialContext(context.Background(), "tcp", addr); err == nil {
		t.Fatal("expected dial error")
	}
	if v := testutil.ToFloat64(d.metrics.errors.WithLabelValues("localhost")); v != 1 {
		t.Errorf("errors: got %v", v)
	}
}

func TestListenerMetrics(t *testing.T) {
	nl, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	l := NewListener(nl, &PromConfig{PromRegistry: prometheus.NewRegistry()})

	accepted := make(chan net.Conn, 1)
	go func() {
		c, err := l.Accept()
		if err != nil {
			close(accepted)
			return
		}
		accepted <- c
	}()

	c, err := net.DialTimeout("tcp", l.Addr().String(), time.Second)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	sc, ok := <-accepted
	if !ok {
		t.Fatal("accept failed")
	}
	if v := testutil.ToFloat64(l.metrics.active); v != 1 {
		t.Errorf("active: got %v", v)
	}
	sc.Close()
	if v := testutil.ToFloat64(l.metrics.active); v != 0 {
		t.Errorf("active after close: got %v", v)
	}

	l.Close()
	if _, err := l.Accept(); err == nil {
		t.Fatal("expected error after close")
	}
	if v := testutil.ToFloat64(l.metrics.errors); v != 0 {
		t.Errorf("errors: got %v", v)
	}
	if v := testutil.ToFloat64(l.metrics.accepted); v != 1 {
		t.Errorf("accepted: got %v", v)
	}
}
