// Copyright 2026 Sauce Labs Inc., all rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package tosgate

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/saucelabs/tosgate/httplog"
	"github.com/saucelabs/tosgate/log"
	"github.com/saucelabs/tosgate/middleware"
)

type HTTPServerConfig struct {
	PromConfig

	Addr string

	// Port, if set, replaces the port of Addr.
	Port string

	// ReadTimeout and WriteTimeout apply to the whole request, zero means no limit.
	// They are zero by default so that long-lived upgraded connections are not cut.
	ReadTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration

	// ShutdownTimeout is the maximum amount of time to wait for active requests on shutdown.
	ShutdownTimeout time.Duration

	LogHTTPMode httplog.Mode
}

func DefaultHTTPServerConfig() *HTTPServerConfig {
	return &HTTPServerConfig{
		Addr:              ":3001",
		ReadHeaderTimeout: 1 * time.Minute,
		IdleTimeout:       5 * time.Minute,
		ShutdownTimeout:   30 * time.Second,
		LogHTTPMode:       httplog.Errors,
	}
}

func (c *HTTPServerConfig) Validate() error {
	if c.Addr == "" {
		return errors.New("address cannot be empty")
	}
	if c.Port != "" {
		if _, err := ParsePort(c.Port); err != nil {
			return fmt.Errorf("port: %w", err)
		}
	}
	if _, port, err := net.SplitHostPort(c.ListenAddr()); err != nil {
		return fmt.Errorf("address: %w", err)
	} else if port != "0" && !isPort(port) {
		return fmt.Errorf("address: invalid port %q", port)
	}
	return nil
}

// ListenAddr returns Addr with the port replaced by Port if Port is set.
func (c *HTTPServerConfig) ListenAddr() string {
	if c.Port == "" {
		return c.Addr
	}
	host, _, err := net.SplitHostPort(c.Addr)
	if err != nil {
		host = ""
	}
	return net.JoinHostPort(host, c.Port)
}

// HTTPServer accepts client connections and dispatches requests to the handler.
type HTTPServer struct {
	config   HTTPServerConfig
	log      log.StructuredLogger
	srv      *http.Server
	listener net.Listener
	serving  atomic.Bool
}

// NewHTTPServer binds the listener and returns the server, bind errors are returned immediately.
// It is the caller's responsibility to call Close on the returned server.
func NewHTTPServer(cfg *HTTPServerConfig, h http.Handler, log log.StructuredLogger) (*HTTPServer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	hs := &HTTPServer{
		config: *cfg,
		log:    log,
	}
	hs.srv = &http.Server{
		Handler:           hs.middlewareStack(h),
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		ErrorLog:          newStdLogger(log),
	}

	addr := cfg.ListenAddr()
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to open listener on address %s: %w", addr, err)
	}
	if cfg.PromRegistry != nil {
		l = NewListener(l, &cfg.PromConfig)
	}
	hs.listener = l

	hs.log.Debug("HTTP server listen", "address", l.Addr().String())

	return hs, nil
}

func (hs *HTTPServer) middlewareStack(h http.Handler) http.Handler {
	if hs.config.LogHTTPMode != httplog.None {
		lf := httplog.NewStructuredLogger(hs.log.Info, hs.config.LogHTTPMode).LogFunc()
		h = lf.Wrap(h)
	}
	if hs.config.PromRegistry != nil {
		h = middleware.NewPrometheus(hs.config.PromRegistry, hs.config.PromNamespace).Wrap(h)
	}
	return h
}

func (hs *HTTPServer) Run(ctx context.Context) error {
	hs.serving.Store(true)

	var wg sync.WaitGroup
	wg.Add(1)

	// handle http shutdown on server context done
	go func() {
		defer wg.Done()

		<-ctx.Done()
		hs.serving.Store(false)

		sctx, cancel := context.WithTimeout(context.Background(), hs.config.ShutdownTimeout)
		defer cancel()
		if err := hs.srv.Shutdown(sctx); err != nil {
			hs.log.Error("failed to shutdown server", "error", err)
			hs.srv.Close()
		}
	}()

	if err := hs.srv.Serve(hs.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		hs.serving.Store(false)
		return err
	}

	wg.Wait()
	hs.log.Debug("server was shutdown gracefully")

	return nil
}

// Serving reports whether Run is accepting connections and shutdown has not started.
func (hs *HTTPServer) Serving() bool {
	return hs.serving.Load()
}

// Addr returns the address the server is listening on.
func (hs *HTTPServer) Addr() string {
	return hs.listener.Addr().String()
}

// Port returns the port the server is listening on.
func (hs *HTTPServer) Port() string {
	_, port, _ := net.SplitHostPort(hs.Addr())
	return port
}

func (hs *HTTPServer) Close() error {
	err := hs.srv.Close()
	if lerr := hs.listener.Close(); lerr != nil && !errors.Is(lerr, net.ErrClosed) && err == nil {
		err = lerr
	}
	return err
}
