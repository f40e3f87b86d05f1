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
	"github.com/spf13/viper"
)

var envReplacer = strings.NewReplacer(".", "_", "-", "_") //nolint:gochecknoglobals // false positive

// BindAll updates flags that were not set on the command line with values from
// environment variables and the config file, in that order of precedence.
// Each flag is bound to <envPrefix>_<FLAG_NAME>, aliases map a flag name to
// additional environment variable names that are checked after the prefixed one.
func BindAll(cmd *cobra.Command, envPrefix, configFileFlagName string, aliases map[string][]string) error {
	v := viper.New()

	// Flags
	if err := v.BindPFlags(cmd.PersistentFlags()); err != nil {
		return err
	}
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	// Environment variables
	v.SetEnvKeyReplacer(envReplacer)
	v.SetEnvPrefix(envReplacer.Replace(strings.ToUpper(envPrefix)))
	v.AutomaticEnv()

	for name, envs := range aliases {
		if cmd.Flags().Lookup(name) == nil {
			continue
		}
		keys := append([]string{name, EnvName(envPrefix, name)}, envs...)
		if err := v.BindEnv(keys...); err != nil {
			return err
		}
	}

	// Config file
	if configFileFlagName != "" {
		if f := v.GetString(configFileFlagName); f != "" {
			v.SetConfigType("yaml")
			v.SetConfigFile(f)
			if err := v.ReadInConfig(); err != nil {
				return err
			}
		}
	}

	// Update cobra flags with values from viper
	updateFs := func(fs *pflag.FlagSet) (ok bool) {
		ok = true
		fs.VisitAll(func(f *pflag.Flag) {
			if f.Changed || !v.IsSet(f.Name) {
				return
			}
			s := fmt.Sprintf("%v", v.Get(f.Name))
			s = strings.TrimPrefix(s, "[")
			s = strings.TrimSuffix(s, "]")
			if _, ok := f.Value.(pflag.SliceValue); ok {
				s = strings.NewReplacer(", ", ",", " ", ",").Replace(s)
			}
			if err := fs.Set(f.Name, s); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "invalid value for --%s: %s\n", f.Name, err)
				ok = false
			}
		})
		return
	}

	if !updateFs(cmd.PersistentFlags()) {
		return fmt.Errorf("failed to update persistent flags")
	}

	if !updateFs(cmd.Flags()) {
		return fmt.Errorf("failed to update flags")
	}

	return nil
}
