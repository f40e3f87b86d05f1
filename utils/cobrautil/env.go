// Copyright 2026 Sauce Labs Inc., all rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package cobrautil

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// AppendEnvToUsage adds environment variable names to flag usage strings.
func AppendEnvToUsage(cmd *cobra.Command, envPrefix string, aliases map[string][]string) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Name == "help" {
			return
		}
		envs := append([]string{EnvName(envPrefix, f.Name)}, aliases[f.Name]...)
		f.Usage += fmt.Sprintf(" (env %s)", strings.Join(envs, ", "))
	})
}

func EnvName(envPrefix, flagName string) string {
	s := fmt.Sprintf("%s_%s", envPrefix, flagName)
	s = strings.ToUpper(s)
	return envReplacer.Replace(s)
}
