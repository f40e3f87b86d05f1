// Copyright 2026 Sauce Labs Inc., all rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package tosgate

import (
	"context"
	"errors"
	"net"
	"sync"
	"time"
)

type DialConfig struct {
	PromConfig

	// DialTimeout is the maximum amount of time a dial will wait for
	// connect to complete.
	//
	// With or without a timeout, the operating system may impose
	// its own earlier timeout. For instance, TCP timeouts are
	// often around 3 minutes.
	DialTimeout time.Duration

	// KeepAlive specifies the interval between keep-alive probes for an
	// active network connection. Negative value disables keep-alive probes.
	KeepAlive time.Duration
}

func DefaultDialConfig() *DialConfig {
	return &DialConfig{
		DialTimeout: 10 * time.Second,
		KeepAlive:   30 * time.Second,
	}
}

// Dialer dials the upstream and tracks open connections per host.
type Dialer struct {
	nd      net.Dialer
	metrics *dialerMetrics
}

func NewDialer(cfg *DialConfig) *Dialer {
	return &Dialer{
		nd: net.Dialer{
			Timeout:   cfg.DialTimeout,
			KeepAlive: cfg.KeepAlive,
		},
		metrics: newDialerMetrics(cfg.PromRegistry, cfg.PromNamespace),
	}
}

func (d *Dialer) DialContext(ctx context.Context, network, address string) (net.Conn, error) {
	conn, err := d.nd.DialContext(ctx, network, address)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			d.metrics.error(address)
		}
		return nil, err
	}

	d.metrics.dial(address)
	return &trackedConn{
		Conn:    conn,
		onClose: func() { d.metrics.close(address) },
	}, nil
}

// Listener counts accepted and open connections.
type Listener struct {
	net.Listener
	metrics *listenerMetrics
}

func NewListener(l net.Listener, cfg *PromConfig) *Listener {
	return &Listener{
		Listener: l,
		metrics:  newListenerMetrics(cfg.PromRegistry, cfg.PromNamespace),
	}
}

func (l *Listener) Accept() (net.Conn, error) {
	conn, err := l.Listener.Accept()
	if err != nil {
		if !errors.Is(err, net.ErrClosed) {
			l.metrics.error()
		}
		return nil, err
	}

	l.metrics.accept()
	return &trackedConn{
		Conn:    conn,
		onClose: l.metrics.close,
	}, nil
}

type trackedConn struct {
	net.Conn
	once    sync.Once
	onClose func()
}

func (c *trackedConn) Close() error {
	c.once.Do(c.onClose)
	return c.Conn.Close()
}

// NetConn returns the underlying connection.
func (c *trackedConn) NetConn() net.Conn {
	return c.Conn
}
