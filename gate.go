// Copyright 2026 Sauce Labs Inc., all rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package tosgate

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/saucelabs/tosgate/log"
)

const (
	RootPath    = "/"
	HealthzPath = "/healthz"
	AcceptPath  = "/accept-tos"
)

//go:embed tos.html
var defaultConsentPage []byte

// DefaultConsentPage returns a copy of the built-in consent document.
func DefaultConsentPage() []byte {
	return append([]byte(nil), defaultConsentPage...)
}

// Decision is the outcome of the gate for a single request.
type Decision int

const (
	DecisionHealthz Decision = iota
	DecisionNotFound
	DecisionConsentPage
	DecisionAccept
	DecisionRedirect
	DecisionProxy
)

var decisionNames = [...]string{"healthz", "not_found", "consent_page", "accept", "redirect", "proxy"}

func (d Decision) String() string {
	if d < 0 || int(d) >= len(decisionNames) {
		return fmt.Sprintf("Decision(%d)", int(d))
	}
	return decisionNames[d]
}

// Decide maps a request in the given consent state to a decision.
// The healthz and accept paths are matched case-insensitively.
//
//	path              NotAccepted    Accepted
//	/healthz          healthz        healthz
//	/healthz*         not_found      not_found
//	GET /             consent_page   proxy
//	POST /accept-tos  accept         accept
//	anything else     redirect       proxy
func Decide(req *http.Request, state ConsentState) Decision {
	p := req.URL.Path
	lp := strings.ToLower(p)
	isGet := req.Method == http.MethodGet || req.Method == http.MethodHead

	switch {
	case strings.HasPrefix(lp, HealthzPath):
		if isGet && (lp == HealthzPath || lp == HealthzPath+"/") {
			return DecisionHealthz
		}
		return DecisionNotFound
	case req.Method == http.MethodPost && (lp == AcceptPath || lp == AcceptPath+"/"):
		return DecisionAccept
	}

	switch state {
	case Accepted:
		return DecisionProxy
	case NotAccepted:
		if isGet && p == RootPath {
			return DecisionConsentPage
		}
		return DecisionRedirect
	default:
		panic(fmt.Sprintf("unknown consent state %s", state))
	}
}

type GateConfig struct {
	PromConfig

	// Page is the HTML consent document, it must contain a form posting to AcceptPath.
	Page []byte
}

func DefaultGateConfig() *GateConfig {
	return &GateConfig{
		Page: DefaultConsentPage(),
	}
}

func (c *GateConfig) Validate() error {
	if len(c.Page) == 0 {
		return errors.New("consent page cannot be empty")
	}
	return nil
}

// Gate is the http.Handler that decides per request whether to serve the consent page,
// record the acceptance, or hand the request to the upstream.
type Gate struct {
	config   GateConfig
	consent  *ConsentStore
	upstream http.Handler
	log      log.StructuredLogger
	metrics  *gateMetrics
	healthz  []byte
}

func NewGate(cfg *GateConfig, cs *ConsentStore, upstream http.Handler, log log.StructuredLogger) (*Gate, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cs == nil {
		return nil, errors.New("consent store is required")
	}
	if upstream == nil {
		return nil, errors.New("upstream handler is required")
	}

	healthz, err := json.Marshal(struct {
		OK bool `json:"ok"`
	}{OK: true})
	if err != nil {
		return nil, err
	}

	return &Gate{
		config:   *cfg,
		consent:  cs,
		upstream: upstream,
		log:      log,
		metrics:  newGateMetrics(cfg.PromRegistry, cfg.PromNamespace),
		healthz:  healthz,
	}, nil
}

// Decide returns the decision for the request based on its consent cookie.
func (g *Gate) Decide(req *http.Request) Decision {
	return Decide(req, g.consent.State(req))
}

func (g *Gate) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	d := g.Decide(req)
	g.metrics.decision(d)
	g.log.DebugContext(req.Context(), "gate decision", "method", req.Method, "path", req.URL.Path, "decision", d.String())

	switch d {
	case DecisionHealthz:
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write(g.healthz) //nolint:errcheck // best effort
	case DecisionNotFound:
		http.NotFound(w, req)
	case DecisionConsentPage:
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(http.StatusOK)
		w.Write(g.config.Page) //nolint:errcheck // best effort
	case DecisionAccept:
		g.consent.GrantConsent(w)
		g.log.InfoContext(req.Context(), "terms accepted", "remote_addr", req.RemoteAddr)
		http.Redirect(w, req, RootPath, http.StatusFound)
	case DecisionRedirect:
		http.Redirect(w, req, RootPath, http.StatusFound)
	case DecisionProxy:
		g.upstream.ServeHTTP(w, req)
	default:
		panic(fmt.Sprintf("unknown decision %s", d))
	}
}
