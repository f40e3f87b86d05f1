// Copyright 2026 Sauce Labs Inc., all rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package cobrautil

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"
)

type DescribeFormat int

const (
	Plain DescribeFormat = iota
	JSON
	YAML
)

// FlagsDescriber renders the effective flag values, it backs the /configz endpoint.
type FlagsDescriber struct {
	Format          DescribeFormat
	ShowChangedOnly bool
	ShowHidden      bool
}

func (d FlagsDescriber) DescribeFlags(fs *pflag.FlagSet) ([]byte, error) {
	args := make(map[string]any, fs.NFlag())

	fs.VisitAll(func(f *pflag.Flag) {
		if f.Name == "help" {
			return
		}
		if f.Hidden && !d.ShowHidden {
			return
		}
		if d.ShowChangedOnly && !f.Changed {
			return
		}

		switch {
		case f.Value.Type() == "bool":
			args[f.Name] = f.Value.String() == "true"
		default:
			if sv, ok := f.Value.(pflag.SliceValue); ok {
				if d.Format == Plain {
					args[f.Name] = strings.Join(sv.GetSlice(), ",")
				} else {
					args[f.Name] = sv.GetSlice()
				}
			} else {
				args[f.Name] = f.Value.String()
			}
		}
	})

	switch d.Format {
	case Plain:
		keys := maps.Keys(args)
		slices.Sort(keys)
		var buf bytes.Buffer
		for _, name := range keys {
			fmt.Fprintf(&buf, "%s=%v\n", name, args[name])
		}
		return buf.Bytes(), nil
	case JSON:
		return json.Marshal(args)
	case YAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(args); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, errors.New("unknown format")
	}
}
