// Copyright 2026 Sauce Labs Inc., all rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package cobrautil

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"
)

type testConfig struct {
	ConfigFile string
	Upstream   string
	Port       string
	Names      []string
}

func newTestCommand(cfg *testConfig) *cobra.Command {
	cmd := &cobra.Command{}
	fs := cmd.Flags()
	fs.StringVar(&cfg.ConfigFile, "config-file", cfg.ConfigFile, "")
	fs.StringVar(&cfg.Upstream, "upstream", "http://wiki:3000", "")
	fs.StringVar(&cfg.Port, "port", "3001", "")
	fs.StringSliceVar(&cfg.Names, "names", nil, "")
	return cmd
}

var testAliases = map[string][]string{
	"upstream": {"WIKI_TARGET"},
	"port":     {"PORT"},
}

func TestBindAllDefaults(t *testing.T) {
	var cfg testConfig
	cmd := newTestCommand(&cfg)

	if err := BindAll(cmd, "TEST", "config-file", testAliases); err != nil {
		t.Fatal(err)
	}

	want := testConfig{Upstream: "http://wiki:3000", Port: "3001"}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("unexpected config (-want +got):\n%s", diff)
	}
}

func TestBindAllEnvAlias(t *testing.T) {
	t.Setenv("WIKI_TARGET", "http://docs:4000")
	t.Setenv("PORT", "8080")

	var cfg testConfig
	cmd := newTestCommand(&cfg)

	if err := BindAll(cmd, "TEST", "config-file", testAliases); err != nil {
		t.Fatal(err)
	}

	want := testConfig{Upstream: "http://docs:4000", Port: "8080"}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("unexpected config (-want +got):\n%s", diff)
	}
}

func TestBindAllPrefixedEnvWins(t *testing.T) {
	t.Setenv("WIKI_TARGET", "http://docs:4000")
	t.Setenv("TEST_UPSTREAM", "http://other:5000")

	var cfg testConfig
	cmd := newTestCommand(&cfg)

	if err := BindAll(cmd, "TEST", "config-file", testAliases); err != nil {
		t.Fatal(err)
	}
	if cfg.Upstream != "http://other:5000" {
		t.Errorf("got %q", cfg.Upstream)
	}
}

func TestBindAllFlagWins(t *testing.T) {
	t.Setenv("PORT", "8080")

	var cfg testConfig
	cmd := newTestCommand(&cfg)
	if err := cmd.Flags().Parse([]string{"--port", "9090"}); err != nil {
		t.Fatal(err)
	}

	if err := BindAll(cmd, "TEST", "config-file", testAliases); err != nil {
		t.Fatal(err)
	}
	if cfg.Port != "9090" {
		t.Errorf("got %q", cfg.Port)
	}
}

func TestBindAllConfigFile(t *testing.T) {
	cfg := testConfig{ConfigFile: "testdata/config.yaml"}
	cmd := newTestCommand(&cfg)

	if err := BindAll(cmd, "TEST", "config-file", testAliases); err != nil {
		t.Fatal(err)
	}

	want := testConfig{
		ConfigFile: "testdata/config.yaml",
		Upstream:   "http://docs.internal:8080",
		Port:       "8081",
		Names:      []string{"a", "b"},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("unexpected config (-want +got):\n%s", diff)
	}
}

func TestEnvName(t *testing.T) {
	if got := EnvName("TOSGATE", "log-http"); got != "TOSGATE_LOG_HTTP" {
		t.Errorf("got %q", got)
	}
}
