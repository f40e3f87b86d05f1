// Copyright 2026 Sauce Labs Inc., all rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package tosgate

import (
	"net/http"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type APIEndpoint struct {
	Path    string
	Handler http.Handler
}

// APIHandler serves API endpoints.
// It provides health and readiness endpoints and prometheus metrics,
// additional endpoints can be passed to the constructor.
type APIHandler struct {
	mux   *http.ServeMux
	ready func() bool
	paths []string
}

// NewAPIHandler returns the API handler, ready reports readiness of the gate, nil means always ready.
func NewAPIHandler(r prometheus.Gatherer, ready func() bool, extraEndpoints ...APIEndpoint) *APIHandler {
	m := http.NewServeMux()
	a := &APIHandler{
		mux:   m,
		ready: ready,
	}

	ep := []APIEndpoint{
		{Path: "/metrics", Handler: promhttp.HandlerFor(r, promhttp.HandlerOpts{})},
		{Path: "/healthz", Handler: http.HandlerFunc(a.healthz)},
		{Path: "/readyz", Handler: http.HandlerFunc(a.readyz)},
	}
	ep = append(ep, extraEndpoints...)

	for _, e := range ep {
		m.Handle(e.Path, e.Handler)
		a.paths = append(a.paths, e.Path)
	}
	sort.Strings(a.paths)
	m.HandleFunc("/", a.index)

	return a
}

func (h *APIHandler) index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(strings.Join(h.paths, "\n") + "\n"))
}

func (h *APIHandler) healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (h *APIHandler) readyz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if h.ready == nil || h.ready() {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("Service Unavailable"))
	}
}

func (h *APIHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}
