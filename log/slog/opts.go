// Copyright 2026 Sauce Labs Inc., all rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package slog

import "io"

// WithWriter overrides the destination of the log records, it takes precedence over Config.File.
func WithWriter(w io.Writer) Option {
	return func(o *options) {
		o.w = w
	}
}

// WithOnError allows to set a function that is called when an error is logged.
func WithOnError(f func(name string)) Option {
	return func(o *options) {
		o.onError = f
	}
}

// WithAttributes allows to set custom attributes on the logger creation.
func WithAttributes(args ...any) Option {
	return func(o *options) {
		o.attrs = append(o.attrs, args...)
	}
}
