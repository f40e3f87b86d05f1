// Copyright 2026 Sauce Labs Inc., all rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package bind

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/saucelabs/tosgate"
	"github.com/saucelabs/tosgate/httplog"
	"github.com/saucelabs/tosgate/log"
	"github.com/spf13/pflag"
)

func TestUpstreamConfig(t *testing.T) {
	tests := []struct {
		arg  string
		want string
		err  bool
	}{
		{arg: "http://docs:8080", want: "http://docs:8080"},
		{arg: "docs:8080", want: "http://docs:8080"},
		{arg: "ws://docs:8080", want: "http://docs:8080"},
		{arg: "wss://docs", want: "https://docs"},
		{arg: "ftp://docs", err: true},
	}

	for i := range tests {
		tc := tests[i]
		t.Run(tc.arg, func(t *testing.T) {
			cfg := tosgate.DefaultUpstreamConfig()
			fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
			UpstreamConfig(fs, cfg)

			err := fs.Parse([]string{"--upstream", tc.arg})
			if tc.err {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got := cfg.Target.String(); got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestUpstreamConfigDefault(t *testing.T) {
	cfg := tosgate.DefaultUpstreamConfig()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	UpstreamConfig(fs, cfg)

	if got := fs.Lookup("upstream").DefValue; got != "http://wiki:3000" {
		t.Errorf("default: got %q", got)
	}
}

func TestHTTPServerConfigPort(t *testing.T) {
	tests := []struct {
		args []string
		want string
		err  bool
	}{
		{args: nil, want: ":3001"},
		{args: []string{"--port", "8080"}, want: ":8080"},
		{args: []string{"--address", "127.0.0.1:9000"}, want: "127.0.0.1:9000"},
		{args: []string{"--address", "127.0.0.1:9000", "--port", "8080"}, want: "127.0.0.1:8080"},
		{args: []string{"--port", "8080", "--address", "127.0.0.1:9000"}, want: "127.0.0.1:8080"},
		{args: []string{"--port", "0"}, err: true},
		{args: []string{"--port", "http"}, err: true},
	}

	for _, tc := range tests {
		cfg := tosgate.DefaultHTTPServerConfig()
		fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
		HTTPServerConfig(fs, cfg, "")

		err := fs.Parse(tc.args)
		if tc.err {
			if err == nil {
				t.Errorf("%v: expected error", tc.args)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%v: %v", tc.args, err)
		}
		if got := cfg.ListenAddr(); got != tc.want {
			t.Errorf("%v: got %q, want %q", tc.args, got, tc.want)
		}
	}
}

func TestHTTPServerConfigPrefix(t *testing.T) {
	cfg := tosgate.DefaultHTTPServerConfig()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	HTTPServerConfig(fs, cfg, "api")

	if fs.Lookup("api-port") != nil || fs.Lookup("port") != nil {
		t.Error("port flag should not be bound for prefixed servers")
	}
	if err := fs.Parse([]string{"--api-address", "localhost:10001", "--api-shutdown-timeout", "5s"}); err != nil {
		t.Fatal(err)
	}
	if cfg.Addr != "localhost:10001" || cfg.ShutdownTimeout != 5*time.Second {
		t.Errorf("unexpected config: %+v", cfg)
	}
}

func TestGateConfigPage(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "tos.html")
	if err := os.WriteFile(good, []byte(`<form method="POST" action="/accept-tos"><button>OK</button></form>`), 0o600); err != nil {
		t.Fatal(err)
	}
	bad := filepath.Join(dir, "bad.html")
	if err := os.WriteFile(bad, []byte("<p>terms</p>"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg := tosgate.DefaultGateConfig()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	GateConfig(fs, cfg)

	if err := fs.Parse([]string{"--tos-file", bad}); err == nil {
		t.Fatal("expected error for page without accept form")
	}
	if err := fs.Parse([]string{"--tos-file", good}); err != nil {
		t.Fatal(err)
	}
	if string(cfg.Page) != `<form method="POST" action="/accept-tos"><button>OK</button></form>` {
		t.Errorf("unexpected page %q", cfg.Page)
	}
	if got := fs.Lookup("tos-file").Value.String(); got != good {
		t.Errorf("flag value: got %q", got)
	}
}

func TestLogConfig(t *testing.T) {
	cfg := log.DefaultConfig()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	LogConfig(fs, cfg)

	p := filepath.Join(t.TempDir(), "logs", "tosgate.log")
	if err := fs.Parse([]string{"--log-level", "debug", "--log-format", "json", "--log-file", p}); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { cfg.File.Close() })

	if cfg.Level != log.DebugLevel {
		t.Errorf("level: got %s", cfg.Level)
	}
	if cfg.Format != log.JSONFormat {
		t.Errorf("format: got %s", cfg.Format)
	}
	if cfg.File == nil || cfg.File.Name() != p {
		t.Errorf("file: got %v", cfg.File)
	}
	if got := fs.Lookup("log-file").Value.String(); got != p {
		t.Errorf("flag value: got %q", got)
	}

	if err := fs.Parse([]string{"--log-level", "trace"}); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestHTTPLogConfig(t *testing.T) {
	mode := httplog.DefaultMode
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	HTTPLogConfig(fs, &mode, "api")

	if err := fs.Parse([]string{"--api-log-http", "url"}); err != nil {
		t.Fatal(err)
	}
	if mode != httplog.URL {
		t.Errorf("got %s", mode)
	}
}

func TestConsentConfig(t *testing.T) {
	cfg := tosgate.DefaultConsentConfig()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	ConsentConfig(fs, cfg)

	if err := fs.Parse([]string{"--consent-cookie-name", "wiki_tos", "--consent-max-age", "720h"}); err != nil {
		t.Fatal(err)
	}
	if cfg.CookieName != "wiki_tos" || cfg.CookieValue != "1" || cfg.MaxAge != 720*time.Hour {
		t.Errorf("unexpected config: %+v", cfg)
	}
}
