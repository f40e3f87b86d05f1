// Copyright 2026 Sauce Labs Inc., all rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package tosgate

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/saucelabs/tosgate/log"
)

func TestHTTPServerConfigValidate(t *testing.T) {
	tests := []struct {
		addr  string
		valid bool
	}{
		{":3001", true},
		{"localhost:0", true},
		{"0.0.0.0:8080", true},
		{"", false},
		{"3001", false},
		{":http", false},
		{":70000", false},
	}

	for _, tc := range tests {
		cfg := DefaultHTTPServerConfig()
		cfg.Addr = tc.addr
		err := cfg.Validate()
		if tc.valid && err != nil {
			t.Errorf("%q: unexpected error: %v", tc.addr, err)
		}
		if !tc.valid && err == nil {
			t.Errorf("%q: expected error", tc.addr)
		}
	}
}

func TestHTTPServerBindFailure(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()

	cfg := DefaultHTTPServerConfig()
	cfg.Addr = l.Addr().String()
	_, err = NewHTTPServer(cfg, http.NotFoundHandler(), log.NopLogger)
	if err == nil {
		t.Fatal("expected bind error")
	}
	if !strings.Contains(err.Error(), "failed to open listener") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestHTTPServerRunShutdown(t *testing.T) {
	cfg := DefaultHTTPServerConfig()
	cfg.Addr = "127.0.0.1:0"
	cfg.ShutdownTimeout = time.Second
	hs, err := NewHTTPServer(cfg, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("pong"))
	}), log.NopLogger)
	if err != nil {
		t.Fatal(err)
	}
	if hs.Port() == "0" || hs.Port() == "" {
		t.Fatalf("unexpected port %q", hs.Port())
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- hs.Run(ctx)
	}()

	resp, err := http.Get("http://" + hs.Addr() + "/ping")
	if err != nil {
		t.Fatal(err)
	}
	b, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "pong" {
		t.Errorf("body: got %q", b)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestHTTPServerServing(t *testing.T) {
	cfg := DefaultHTTPServerConfig()
	cfg.Addr = "127.0.0.1:0"
	cfg.ShutdownTimeout = time.Second
	hs, err := NewHTTPServer(cfg, http.NotFoundHandler(), log.NopLogger)
	if err != nil {
		t.Fatal(err)
	}
	defer hs.Close()

	api := httptest.NewServer(NewAPIHandler(prometheus.NewRegistry(), hs.Serving))
	defer api.Close()

	readyz := func() int {
		resp, err := http.Get(api.URL + "/readyz")
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		return resp.StatusCode
	}

	if code := readyz(); code != http.StatusServiceUnavailable {
		t.Errorf("before run: got %d", code)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- hs.Run(ctx)
	}()

	deadline := time.Now().Add(5 * time.Second)
	for !hs.Serving() {
		if time.Now().After(deadline) {
			t.Fatal("server is not serving")
		}
		time.Sleep(10 * time.Millisecond)
	}
	if code := readyz(); code != http.StatusOK {
		t.Errorf("serving: got %d", code)
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("run: %v", err)
	}
	if code := readyz(); code != http.StatusServiceUnavailable {
		t.Errorf("after shutdown: got %d", code)
	}
}

func TestHTTPServerConfigListenAddr(t *testing.T) {
	tests := []struct {
		addr, port string
		want       string
	}{
		{":3001", "", ":3001"},
		{":3001", "8081", ":8081"},
		{"127.0.0.1:9000", "8081", "127.0.0.1:8081"},
		{"localhost:0", "8081", "localhost:8081"},
	}

	for _, tc := range tests {
		cfg := DefaultHTTPServerConfig()
		cfg.Addr = tc.addr
		cfg.Port = tc.port
		if err := cfg.Validate(); err != nil {
			t.Errorf("%q %q: %v", tc.addr, tc.port, err)
		}
		if got := cfg.ListenAddr(); got != tc.want {
			t.Errorf("%q %q: got %q, want %q", tc.addr, tc.port, got, tc.want)
		}
	}

	cfg := DefaultHTTPServerConfig()
	cfg.Port = "http"
	if err := cfg.Validate(); err == nil {
		t.Error("expected invalid port error")
	}
}
