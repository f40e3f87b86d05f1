// Copyright 2026 Sauce Labs Inc., all rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package cobrautil

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/mitchellh/go-wordwrap"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// FlagGroup lists flags whose names start with one of the prefixes under a common header.
// The empty prefix matches every flag not matched by a longer prefix.
type FlagGroup struct {
	Name     string
	Prefixes []string
}

type FlagGroups []FlagGroup

// Split returns one flag set per group, flags are assigned to the group with the longest matching prefix.
func (g FlagGroups) Split(fs *pflag.FlagSet) []*pflag.FlagSet {
	result := make([]*pflag.FlagSet, len(g))
	for i := range g {
		result[i] = pflag.NewFlagSet(g[i].Name, pflag.ContinueOnError)
	}

	fs.VisitAll(func(f *pflag.Flag) {
		best, bestLen := -1, -1
		for i := range g {
			for _, p := range g[i].Prefixes {
				if strings.HasPrefix(f.Name, p) && len(p) > bestLen {
					best, bestLen = i, len(p)
				}
			}
		}
		if best >= 0 {
			result[best].AddFlag(f)
		}
	})

	return result
}

// SetGroupedUsage makes the command print flags split into groups with usage text wrapped at width.
func SetGroupedUsage(cmd *cobra.Command, g FlagGroups, width uint) {
	cmd.SetUsageFunc(func(c *cobra.Command) error {
		return writeUsage(c.OutOrStderr(), c, g, width)
	})
	cmd.SetHelpFunc(func(c *cobra.Command, _ []string) {
		w := c.OutOrStdout()
		if c.Long != "" {
			fmt.Fprintf(w, "%s\n\n", strings.TrimSpace(c.Long))
		} else if c.Short != "" {
			fmt.Fprintf(w, "%s\n\n", c.Short)
		}
		writeUsage(w, c, g, width) //nolint:errcheck // best effort
	})
}

func writeUsage(w io.Writer, c *cobra.Command, g FlagGroups, width uint) error {
	fmt.Fprintf(w, "Usage:\n  %s\n", c.UseLine())

	if c.HasAvailableSubCommands() {
		fmt.Fprintf(w, "\nCommands:\n")
		for _, sc := range c.Commands() {
			if sc.IsAvailableCommand() {
				fmt.Fprintf(w, "  %-12s %s\n", sc.Name(), sc.Short)
			}
		}
	}

	if c.Example != "" {
		fmt.Fprintf(w, "\nExamples:\n%s\n", strings.TrimRight(c.Example, "\n"))
	}

	fs := pflag.NewFlagSet(c.Name(), pflag.ContinueOnError)
	fs.AddFlagSet(c.LocalFlags())
	fs.AddFlagSet(c.InheritedFlags())

	for i, gfs := range g.Split(fs) {
		if !gfs.HasAvailableFlags() {
			continue
		}
		fmt.Fprintf(w, "\n%s:\n", g[i].Name)
		gfs.VisitAll(func(f *pflag.Flag) {
			if f.Hidden {
				return
			}
			writeFlag(w, f, width)
		})
	}

	if c.HasAvailableSubCommands() {
		fmt.Fprintf(w, "\nUse \"%s [command] --help\" for more information about a command.\n", c.CommandPath())
	}

	return nil
}

func writeFlag(w io.Writer, f *pflag.Flag, width uint) {
	name, usage := splitUsage(f)
	if name != "" {
		name = " " + name
	}

	if f.Shorthand != "" {
		fmt.Fprintf(w, "  -%s, --%s%s", f.Shorthand, f.Name, name)
	} else {
		fmt.Fprintf(w, "  --%s%s", f.Name, name)
	}
	if def := f.DefValue; def != "" && def != "[]" && def != "false" && def != "0s" {
		fmt.Fprintf(w, " (default %s)", def)
	}
	fmt.Fprintln(w)

	const indent = "      "
	for _, l := range strings.Split(wordwrap.WrapString(usage, width-uint(len(indent))), "\n") {
		fmt.Fprintf(w, "%s%s\n", indent, l)
	}
	fmt.Fprintln(w)
}

// splitUsage extracts the value placeholder from usage strings like "<host:port>The address".
func splitUsage(f *pflag.Flag) (name, usage string) {
	usage = f.Usage
	if usage != "" && (usage[0] == '<' || usage[0] == '[') {
		depth := 0
		for i, r := range usage {
			switch r {
			case '<', '[':
				depth++
			case '>', ']':
				depth--
			}
			if depth == 0 && unicode.IsUpper(r) {
				return usage[:i], usage[i:]
			}
		}
		return usage, ""
	}

	name, usage = pflag.UnquoteUsage(f)
	if name != "" {
		name = "<" + name + ">"
	}
	return name, usage
}
