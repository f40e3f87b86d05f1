// Copyright 2026 Sauce Labs Inc., all rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package tosgate

import (
	"net"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type dialerMetrics struct {
	errors *prometheus.CounterVec
	dialed *prometheus.CounterVec
	active *prometheus.GaugeVec
}

func newDialerMetrics(r prometheus.Registerer, namespace string) *dialerMetrics {
	if r == nil {
		r = prometheus.NewRegistry() // This registry will be discarded.
	}
	f := promauto.With(r)
	l := []string{"host"}

	return &dialerMetrics{
		errors: f.NewCounterVec(prometheus.CounterOpts{
			Name:      "upstream_dial_errors_total",
			Namespace: namespace,
			Help:      "Number of failed dials to the upstream",
		}, l),
		dialed: f.NewCounterVec(prometheus.CounterOpts{
			Name:      "upstream_cx_total",
			Namespace: namespace,
			Help:      "Number of connections opened to the upstream",
		}, l),
		active: f.NewGaugeVec(prometheus.GaugeOpts{
			Name:      "upstream_cx_active",
			Namespace: namespace,
			Help:      "Number of open connections to the upstream",
		}, l),
	}
}

func (m *dialerMetrics) error(addr string) {
	m.errors.WithLabelValues(hostOf(addr)).Inc()
}

func (m *dialerMetrics) dial(addr string) {
	host := hostOf(addr)
	m.dialed.WithLabelValues(host).Inc()
	m.active.WithLabelValues(host).Inc()
}

func (m *dialerMetrics) close(addr string) {
	m.active.WithLabelValues(hostOf(addr)).Dec()
}

// hostOf folds loopback addresses into "localhost" to keep label cardinality low.
func hostOf(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return "unknown"
	}
	if host == "localhost" {
		return host
	}
	if ip := net.ParseIP(host); ip != nil && (ip.IsLoopback() || ip.IsUnspecified()) {
		return "localhost"
	}
	return host
}

type listenerMetrics struct {
	accepted prometheus.Counter
	errors   prometheus.Counter
	active   prometheus.Gauge
}

func newListenerMetrics(r prometheus.Registerer, namespace string) *listenerMetrics {
	if r == nil {
		r = prometheus.NewRegistry() // This registry will be discarded.
	}
	f := promauto.With(r)

	return &listenerMetrics{
		accepted: f.NewCounter(prometheus.CounterOpts{
			Name:      "listener_accepted_total",
			Namespace: namespace,
			Help:      "Number of accepted client connections",
		}),
		errors: f.NewCounter(prometheus.CounterOpts{
			Name:      "listener_errors_total",
			Namespace: namespace,
			Help:      "Number of errors accepting client connections",
		}),
		active: f.NewGauge(prometheus.GaugeOpts{
			Name:      "listener_cx_active",
			Namespace: namespace,
			Help:      "Number of open client connections",
		}),
	}
}

func (m *listenerMetrics) accept() {
	m.accepted.Inc()
	m.active.Inc()
}

func (m *listenerMetrics) error() {
	m.errors.Inc()
}

func (m *listenerMetrics) close() {
	m.active.Dec()
}
