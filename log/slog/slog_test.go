// Copyright 2026 Sauce Labs Inc., all rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package slog

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	flog "github.com/saucelabs/tosgate/log"
)

func TestLoggerJSONKeys(t *testing.T) {
	var buf bytes.Buffer
	l := New(&flog.Config{Level: flog.InfoLevel, Format: flog.JSONFormat}, WithWriter(&buf)).Named("gate")
	l.Info("listening", "port", "3001")

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal %q: %v", buf.String(), err)
	}
	delete(got, "timestamp")

	want := map[string]any{
		"severity": "INFO",
		"message":  "listening",
		"name":     "gate",
		"port":     "3001",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected record (-want +got):\n%s", diff)
	}
}

func TestLoggerLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&flog.Config{Level: flog.WarnLevel, Format: flog.TextFormat}, WithWriter(&buf))
	l.Info("hidden")
	l.Debug("hidden")
	l.Warn("shown")

	if strings.Contains(buf.String(), "hidden") {
		t.Errorf("unexpected record below level: %s", buf.String())
	}
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("missing warn record: %s", buf.String())
	}
}

func TestLoggerOnError(t *testing.T) {
	var names []string
	l := New(flog.DefaultConfig(), WithWriter(&bytes.Buffer{}), WithOnError(func(name string) {
		names = append(names, name)
	}))
	l.Named("upstream").Error("boom")
	l.With("k", "v").Error("boom")

	if diff := cmp.Diff([]string{"upstream", ""}, names); diff != "" {
		t.Errorf("unexpected onError calls (-want +got):\n%s", diff)
	}
}
