// Copyright 2026 Sauce Labs Inc., all rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package tosgate

import (
	"io"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"
	"time"

	"github.com/saucelabs/tosgate/log"
	"golang.org/x/net/http/httpguts"
)

type UpstreamConfig struct {
	PromConfig

	// Target is the base URL of the upstream service.
	Target *url.URL

	// XForwarded enables adding X-Forwarded-For, X-Forwarded-Host and X-Forwarded-Proto
	// headers to the upstream request.
	XForwarded bool

	// FlushInterval specifies the flush interval to flush to the client while copying the response body.
	// A negative value means to flush immediately after each write to the client.
	FlushInterval time.Duration
}

func DefaultUpstreamConfig() *UpstreamConfig {
	return &UpstreamConfig{
		Target: &url.URL{
			Scheme: "http",
			Host:   "wiki:3000",
		},
		FlushInterval: -1,
	}
}

func (c *UpstreamConfig) Validate() error {
	return validateUpstreamURL(c.Target)
}

// forwardedHeaders are removed by httputil.ReverseProxy before calling Rewrite,
// they are restored so that the upstream sees the client headers verbatim.
var forwardedHeaders = []string{
	"Forwarded",
	"X-Forwarded-For",
	"X-Forwarded-Host",
	"X-Forwarded-Proto",
}

// Upstream forwards requests to a single upstream service.
// The outbound Host header is set to the upstream host,
// protocol upgrades such as WebSocket are relayed in both directions until either side closes.
type Upstream struct {
	config  UpstreamConfig
	proxy   *httputil.ReverseProxy
	log     log.StructuredLogger
	metrics *upstreamMetrics
}

// NewUpstream creates a new Upstream, if rt is nil a transport with default configuration is used.
func NewUpstream(cfg *UpstreamConfig, rt http.RoundTripper, log log.StructuredLogger) (*Upstream, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if rt == nil {
		log.Info("HTTP transport not configured, using default upstream transport")
		rt = NewHTTPTransport(DefaultHTTPTransportConfig())
	}

	u := &Upstream{
		config:  *cfg,
		log:     log,
		metrics: newUpstreamMetrics(cfg.PromRegistry, cfg.PromNamespace),
	}
	u.proxy = &httputil.ReverseProxy{
		Rewrite:       u.rewrite,
		Transport:     rt,
		FlushInterval: cfg.FlushInterval,
		ErrorLog:      newStdLogger(log),
		ErrorHandler:  u.errorHandler,
	}

	return u, nil
}

// Target returns the upstream base URL.
func (u *Upstream) Target() *url.URL {
	t := *u.config.Target
	return &t
}

func (u *Upstream) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if isUpgrade(req) {
		u.metrics.upgrade()
		u.log.DebugContext(req.Context(), "forwarding protocol upgrade",
			"upgrade", req.Header.Get("Upgrade"), "path", req.URL.Path)
	}
	u.proxy.ServeHTTP(w, req)
}

func (u *Upstream) rewrite(pr *httputil.ProxyRequest) {
	pr.SetURL(u.config.Target)

	for _, h := range forwardedHeaders {
		if v, ok := pr.In.Header[h]; ok {
			pr.Out.Header[h] = v
		}
	}
	if u.config.XForwarded {
		pr.SetXForwarded()
	}
}

func isUpgrade(req *http.Request) bool {
	return req.Header.Get("Upgrade") != "" &&
		httpguts.HeaderValuesContainsToken(req.Header["Connection"], "Upgrade")
}

func (u *Upstream) errorHandler(w http.ResponseWriter, req *http.Request, err error) {
	reason := classifyUpstreamError(err)
	u.metrics.error(reason)

	ctx := req.Context()
	if reason == reasonClientCanceled {
		u.log.DebugContext(ctx, "client went away", "method", req.Method, "path", req.URL.Path, "error", err)
	} else {
		u.log.ErrorContext(ctx, "upstream request failed",
			"method", req.Method, "path", req.URL.Path, "reason", reason, "error", err)
	}

	w.Header().Set(ErrorHeader, headerSafe(err.Error()))
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusBadGateway)
	io.WriteString(w, "Bad gateway: "+err.Error()) //nolint:errcheck // client may be gone
}

func headerSafe(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\r' || r == '\n' {
			return ' '
		}
		return r
	}, s)
}
