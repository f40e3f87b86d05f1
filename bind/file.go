// Copyright 2026 Sauce Labs Inc., all rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package bind

import (
	"os"

	"github.com/mmatczuk/anyflag"
	"github.com/saucelabs/tosgate"
	"github.com/spf13/pflag"
)

type FileFlag struct {
	anyflag.Value[*os.File]
	f **os.File
}

func (f *FileFlag) String() string {
	if f.f == nil || *f.f == nil {
		return ""
	}
	return (*f.f).Name()
}

func NewFileFlag(f **os.File, p func(val string) (*os.File, error)) pflag.Value {
	if f == nil {
		panic("nil pointer")
	}

	v := anyflag.NewValue[*os.File](*f, f, p)
	return &FileFlag{*v, f}
}

// pageFlag loads a document from the path given as the flag value.
type pageFlag struct {
	page *[]byte
	path string
	read func(path string) ([]byte, error)
}

func newPageFlag(page *[]byte, read func(path string) ([]byte, error)) pflag.Value {
	return &pageFlag{page: page, read: read}
}

func (f *pageFlag) String() string {
	return f.path
}

func (f *pageFlag) Set(val string) error {
	b, err := f.read(val)
	if err != nil {
		return err
	}
	*f.page = b
	f.path = val
	return nil
}

func (f *pageFlag) Type() string {
	return "path"
}

// portFlag holds a TCP port number as a string.
type portFlag struct {
	port *string
}

func newPortFlag(port *string) pflag.Value {
	return &portFlag{port: port}
}

func (f *portFlag) String() string {
	if f.port == nil {
		return ""
	}
	return *f.port
}

func (f *portFlag) Set(val string) error {
	if _, err := tosgate.ParsePort(val); err != nil {
		return err
	}
	*f.port = val
	return nil
}

func (f *portFlag) Type() string {
	return "port"
}
