// Copyright 2026 Sauce Labs Inc., all rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package tosgate

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ParseUpstreamURL parses the upstream base URL.
//
// Requirements:
// - Protocol: http, https, ws (alias of http), wss (alias of https), default http.
// - Hostname is required.
// - (Optional) port in a valid range: 1 - 65535.
// - (Optional) base path that is prepended to the proxied request path.
// - No username, password, or fragment.
func ParseUpstreamURL(val string) (*url.URL, error) {
	if val == "" {
		return nil, errors.New("upstream URL cannot be empty")
	}
	if !strings.Contains(val, "://") {
		val = "http://" + val
	}

	u, err := url.Parse(val)
	if err != nil {
		return nil, err
	}

	switch u.Scheme {
	case "ws":
		u.Scheme = "http"
	case "wss":
		u.Scheme = "https"
	}

	if err := validateUpstreamURL(u); err != nil {
		return nil, err
	}

	return u, nil
}

func validateUpstreamURL(u *url.URL) error {
	if u == nil {
		return errors.New("upstream URL is required")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid scheme %q, supported schemes are http, https, ws, wss", u.Scheme)
	}
	if u.Hostname() == "" {
		return errors.New("hostname is required")
	}
	if p := u.Port(); p != "" && !isPort(p) {
		return fmt.Errorf("invalid port: %s", p)
	}
	if u.User != nil {
		return errors.New("username and password are not allowed in upstream URL")
	}
	if u.Fragment != "" {
		return errors.New("fragment is not allowed in upstream URL")
	}

	return nil
}

// ParsePort parses a TCP port number.
func ParsePort(val string) (int, error) {
	if !isPort(val) {
		return 0, fmt.Errorf("invalid port: %q", val)
	}
	return strconv.Atoi(val)
}

// isPort returns true iff port string is a valid port number.
func isPort(port string) bool {
	p, err := strconv.Atoi(port)
	if err != nil {
		return false
	}

	return p >= 1 && p <= 65535
}

// OpenFileParser returns a parser that calls os.OpenFile.
// If dirPerm is set it will create the directory if it does not exist.
// For empty path the parser returns nil file and nil error.
func OpenFileParser(flag int, perm, dirPerm os.FileMode) func(val string) (*os.File, error) {
	return func(val string) (*os.File, error) {
		if val == "" {
			return nil, nil
		}

		if dirPerm != 0 {
			dir := filepath.Dir(val)
			if err := os.MkdirAll(dir, dirPerm); err != nil {
				return nil, err
			}
		}
		return os.OpenFile(val, flag, perm)
	}
}

// ReadConsentPage reads the consent document from a file.
// The document must post to the acceptance endpoint for the gate to be passable.
func ReadConsentPage(path string) ([]byte, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(b) == 0 {
		return nil, fmt.Errorf("consent page %s is empty", path)
	}
	if !strings.Contains(string(b), AcceptPath) {
		return nil, fmt.Errorf("consent page %s does not reference %s", path, AcceptPath)
	}
	return b, nil
}
