// Copyright 2026 Sauce Labs Inc., all rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package tosgate

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type gateMetrics struct {
	decisions *prometheus.CounterVec
}

func newGateMetrics(r prometheus.Registerer, namespace string) *gateMetrics {
	if r == nil {
		r = prometheus.NewRegistry() // This registry will be discarded.
	}
	f := promauto.With(r)

	return &gateMetrics{
		decisions: f.NewCounterVec(prometheus.CounterOpts{
			Name:      "gate_decisions_total",
			Namespace: namespace,
			Help:      "Number of requests by gate decision",
		}, []string{"decision"}),
	}
}

func (m *gateMetrics) decision(d Decision) {
	m.decisions.WithLabelValues(d.String()).Inc()
}

type upstreamMetrics struct {
	errors   *prometheus.CounterVec
	upgrades prometheus.Counter
}

func newUpstreamMetrics(r prometheus.Registerer, namespace string) *upstreamMetrics {
	if r == nil {
		r = prometheus.NewRegistry() // This registry will be discarded.
	}
	f := promauto.With(r)

	return &upstreamMetrics{
		errors: f.NewCounterVec(prometheus.CounterOpts{
			Name:      "upstream_errors_total",
			Namespace: namespace,
			Help:      "Number of upstream errors",
		}, []string{"reason"}),
		upgrades: f.NewCounter(prometheus.CounterOpts{
			Name:      "upstream_upgrades_total",
			Namespace: namespace,
			Help:      "Number of protocol upgrade requests forwarded to upstream",
		}),
	}
}

func (m *upstreamMetrics) error(reason string) {
	m.errors.WithLabelValues(reason).Inc()
}

func (m *upstreamMetrics) upgrade() {
	m.upgrades.Inc()
}
