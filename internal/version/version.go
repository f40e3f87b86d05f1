// Copyright 2026 Sauce Labs Inc., all rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package version holds build information set with -ldflags.
package version

import (
	"fmt"
	"runtime"
	"strings"
)

// Set at build time, e.g. -X github.com/saucelabs/tosgate/internal/version.version=v1.0.0.
var (
	version = "devel"
	commit  = "unknown"
	time    = "unknown"
)

type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Time      string `json:"time"`
	GoVersion string `json:"go_version"`
	GoOS      string `json:"go_os"`
	GoArch    string `json:"go_arch"`
}

func Get() Info {
	return Info{
		Version:   version,
		Commit:    commit,
		Time:      time,
		GoVersion: runtime.Version(),
		GoOS:      runtime.GOOS,
		GoArch:    runtime.GOARCH,
	}
}

func (i Info) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Version:\t%s\n", i.Version)
	fmt.Fprintf(&b, "Commit:\t\t%s\n", i.Commit)
	fmt.Fprintf(&b, "Built:\t\t%s\n", i.Time)
	fmt.Fprintf(&b, "Go:\t\t%s %s/%s\n", i.GoVersion, i.GoOS, i.GoArch)
	return b.String()
}
