// Copyright 2026 Sauce Labs Inc., all rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package tosgate

import (
	"github.com/saucelabs/tosgate/bind"
	"github.com/saucelabs/tosgate/command/ready"
	"github.com/saucelabs/tosgate/command/run"
	"github.com/saucelabs/tosgate/command/version"
	"github.com/saucelabs/tosgate/utils/cobrautil"
	"github.com/spf13/cobra"
)

const (
	EnvPrefix          = "TOSGATE"
	ConfigFileFlagName = "config-file"
)

// EnvAliases maps flag names to environment variables that are read in addition to the prefixed ones.
func EnvAliases() map[string][]string {
	return map[string][]string{
		"upstream": {"WIKI_TARGET"},
		"port":     {"PORT"},
	}
}

func FlagGroups() cobrautil.FlagGroups {
	return cobrautil.FlagGroups{
		{
			Name: "Server options",
			Prefixes: []string{
				"",
			},
		},
		{
			Name: "Upstream options",
			Prefixes: []string{
				"upstream",
				"http",
				"insecure",
			},
		},
		{
			Name: "Consent options",
			Prefixes: []string{
				"consent",
				"tos",
			},
		},
		{
			Name: "API server options",
			Prefixes: []string{
				"api",
				"prom",
			},
		},
		{
			Name:     "Logging options",
			Prefixes: []string{"log"},
		},
		{
			Name:     "Options",
			Prefixes: []string{"config-file"},
		},
	}
}

func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "tosgate",
		Short:        "Terms of service gate for web applications",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return cobrautil.BindAll(cmd, EnvPrefix, ConfigFileFlagName, EnvAliases())
		},
	}
	bind.ConfigFile(cmd.PersistentFlags(), new(string))

	cmd.AddCommand(
		run.Command(),
		ready.Command(),
		version.Command(),
	)
	for _, c := range cmd.Commands() {
		cobrautil.AppendEnvToUsage(c, EnvPrefix, EnvAliases())
	}

	cobrautil.SetGroupedUsage(cmd, FlagGroups(), 100)

	return cmd
}
