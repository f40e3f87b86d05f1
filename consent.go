// Copyright 2026 Sauce Labs Inc., all rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package tosgate

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/net/http/httpguts"
)

// ConsentState is the state of the gate for a single request.
type ConsentState int

const (
	NotAccepted ConsentState = iota
	Accepted
)

func (s ConsentState) String() string {
	switch s {
	case NotAccepted:
		return "not_accepted"
	case Accepted:
		return "accepted"
	default:
		return fmt.Sprintf("ConsentState(%d)", int(s))
	}
}

const (
	DefaultConsentCookieName  = "tos_accepted"
	DefaultConsentCookieValue = "1"
	DefaultConsentMaxAge      = 365 * 24 * time.Hour
)

type ConsentConfig struct {
	// CookieName is the name of the cookie holding the consent marker.
	CookieName string

	// CookieValue is the sentinel value meaning the terms were accepted.
	CookieValue string

	// MaxAge is the lifetime of the consent cookie, it is sent with a second precision.
	MaxAge time.Duration
}

func DefaultConsentConfig() *ConsentConfig {
	return &ConsentConfig{
		CookieName:  DefaultConsentCookieName,
		CookieValue: DefaultConsentCookieValue,
		MaxAge:      DefaultConsentMaxAge,
	}
}

func (c *ConsentConfig) Validate() error {
	if c.CookieName == "" {
		return errors.New("consent cookie name cannot be empty")
	}
	if !httpguts.ValidHeaderFieldName(c.CookieName) {
		return fmt.Errorf("invalid consent cookie name %q", c.CookieName)
	}
	if c.CookieValue == "" {
		return errors.New("consent cookie value cannot be empty")
	}
	if c.MaxAge < time.Second {
		return fmt.Errorf("consent max age must be at least 1s, got %s", c.MaxAge)
	}
	return nil
}

// ConsentStore reads and writes the client-held consent marker.
// The marker is a plain, unsigned cookie: the client is the only source of truth
// and the server keeps no per-client state.
type ConsentStore struct {
	config ConsentConfig
	now    func() time.Time
}

func NewConsentStore(cfg *ConsentConfig) (*ConsentStore, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &ConsentStore{
		config: *cfg,
		now:    time.Now,
	}, nil
}

// State returns Accepted iff the request carries the consent cookie with the accepted value.
// A missing or malformed cookie is NotAccepted.
func (s *ConsentStore) State(req *http.Request) ConsentState {
	c, err := req.Cookie(s.config.CookieName)
	if err != nil {
		return NotAccepted
	}
	if c.Value != s.config.CookieValue {
		return NotAccepted
	}
	return Accepted
}

func (s *ConsentStore) HasConsented(req *http.Request) bool {
	return s.State(req) == Accepted
}

// GrantConsent sets the consent cookie on the response.
// The cookie is readable from client-side scripts.
func (s *ConsentStore) GrantConsent(w http.ResponseWriter) {
	http.SetCookie(w, s.cookie())
}

func (s *ConsentStore) cookie() *http.Cookie {
	maxAge := s.config.MaxAge.Truncate(time.Second)
	return &http.Cookie{
		Name:     s.config.CookieName,
		Value:    s.config.CookieValue,
		Path:     "/",
		MaxAge:   int(maxAge / time.Second),
		Expires:  s.now().Add(maxAge).UTC(),
		HttpOnly: false,
	}
}
