// Copyright 2026 Sauce Labs Inc., all rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package run

import (
	"fmt"
	"os"
	"runtime"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/saucelabs/tosgate"
	"github.com/saucelabs/tosgate/bind"
	"github.com/saucelabs/tosgate/httplog"
	"github.com/saucelabs/tosgate/internal/version"
	"github.com/saucelabs/tosgate/log"
	"github.com/saucelabs/tosgate/log/slog"
	"github.com/saucelabs/tosgate/runctx"
	"github.com/saucelabs/tosgate/utils/cobrautil"
	"github.com/saucelabs/tosgate/utils/httphandler"
	"github.com/spf13/cobra"
	"go.uber.org/goleak"
	"go.uber.org/multierr"
)

type command struct {
	promReg             *prometheus.Registry
	promNamespace       string
	upstreamConfig      *tosgate.UpstreamConfig
	httpTransportConfig *tosgate.HTTPTransportConfig
	consentConfig       *tosgate.ConsentConfig
	gateConfig          *tosgate.GateConfig
	httpServerConfig    *tosgate.HTTPServerConfig
	apiServerConfig     *tosgate.HTTPServerConfig
	logConfig           *log.Config

	dryRun bool
	goleak bool
}

func (c *command) runE(cmd *cobra.Command, _ []string) (cmdErr error) {
	c.setPromConfig()

	onError, err := c.registerErrorsMetric()
	if err != nil {
		return fmt.Errorf("register errors metric: %w", err)
	}
	logger := slog.New(c.logConfig, slog.WithOnError(onError))

	defer func() {
		if err := logger.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "close logger: %s\n", err)
		}
	}()

	defer func() {
		if cmdErr != nil {
			logger.Error("fatal error exiting", "error", cmdErr)
			cmd.SilenceErrors = true
		}
	}()

	v := version.Get()
	logger.Info("TOS gate starting", "version", v.Version, "commit", v.Commit)
	logger.Debug("resource limits", "GOMAXPROCS", runtime.GOMAXPROCS(0), "GOMEMLIMIT", os.Getenv("GOMEMLIMIT"))

	var (
		ep    []tosgate.APIEndpoint
		ready func() bool
	)

	{
		cfg, err := cobrautil.FlagsDescriber{
			Format:          cobrautil.Plain,
			ShowChangedOnly: true,
		}.DescribeFlags(cmd.Flags())
		if err != nil {
			return err
		}
		if len(cfg) > 0 {
			logger.Info("configuration\n" + string(cfg))
		} else {
			logger.Info("using default configuration")
		}

		cfg, err = cobrautil.FlagsDescriber{
			Format:     cobrautil.Plain,
			ShowHidden: true,
		}.DescribeFlags(cmd.Flags())
		if err != nil {
			return err
		}
		logger.Debug("all configuration\n" + string(cfg))

		ep = append(ep, tosgate.APIEndpoint{
			Path:    "/configz",
			Handler: httphandler.SendFile("text/plain", cfg),
		})
	}

	g := runctx.NewGroup()
	g.OnSignal = func(sig os.Signal) {
		logger.Info("received signal, shutting down", "signal", sig.String())
	}

	{
		if c.httpTransportConfig.InsecureSkipVerify {
			logger.Warn("upstream TLS certificate verification is disabled")
		}
		tr := tosgate.NewHTTPTransport(c.httpTransportConfig)
		defer tr.CloseIdleConnections()

		up, err := tosgate.NewUpstream(c.upstreamConfig, tr, logger.Named("upstream"))
		if err != nil {
			return fmt.Errorf("upstream: %w", err)
		}
		cs, err := tosgate.NewConsentStore(c.consentConfig)
		if err != nil {
			return fmt.Errorf("consent: %w", err)
		}
		gate, err := tosgate.NewGate(c.gateConfig, cs, up, logger.Named("gate"))
		if err != nil {
			return fmt.Errorf("gate: %w", err)
		}

		s, err := tosgate.NewHTTPServer(c.httpServerConfig, gate, logger.Named("server"))
		if err != nil {
			return err
		}
		defer s.Close()
		g.Add(s.Run)
		ready = s.Serving

		logger.Info("TOS gate listening", "port", s.Port(), "proxy_target", up.Target().String())
	}

	if c.apiServerConfig.Addr != "" {
		if err := c.registerProcMetrics(); err != nil {
			return fmt.Errorf("register process metrics: %w", err)
		}
		if err := c.registerVersionMetric(v); err != nil {
			return fmt.Errorf("register version metric: %w", err)
		}

		vh, err := httphandler.SendJSON(v)
		if err != nil {
			return err
		}
		ep = append([]tosgate.APIEndpoint{{Path: "/version", Handler: vh}}, ep...)
		h := tosgate.NewAPIHandler(c.promReg, ready, ep...)

		a, err := tosgate.NewHTTPServer(c.apiServerConfig, h, logger.Named("api"))
		if err != nil {
			return err
		}
		defer a.Close()
		g.Add(a.Run)

		logger.Info("API server listening", "address", a.Addr())
	}

	if c.goleak {
		defer func() {
			if err := goleak.Find(); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "goleak: %s", err)
				os.Exit(1)
			}
		}()
	}

	if c.dryRun {
		return nil
	}

	return g.Run()
}

func (c *command) setPromConfig() {
	for _, pc := range []*tosgate.PromConfig{
		&c.upstreamConfig.PromConfig,
		&c.httpTransportConfig.PromConfig,
		&c.gateConfig.PromConfig,
		&c.httpServerConfig.PromConfig,
	} {
		pc.PromRegistry = c.promReg
		pc.PromNamespace = c.promNamespace
	}
}

func (c *command) registerErrorsMetric() (func(name string), error) {
	m := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: c.promNamespace,
		Name:      "errors_total",
		Help:      "Number of errors logged",
	}, []string{"name"})

	if err := c.promReg.Register(m); err != nil {
		return nil, err
	}

	return func(name string) {
		m.WithLabelValues(name).Inc()
	}, nil
}

func (c *command) registerProcMetrics() error {
	return multierr.Combine(
		// Note that ProcessCollector is only available in Linux and Windows.
		c.promReg.Register(collectors.NewProcessCollector(
			collectors.ProcessCollectorOpts{Namespace: c.promNamespace})),
		c.promReg.Register(collectors.NewGoCollector()),
	)
}

func (c *command) registerVersionMetric(v version.Info) error {
	return c.promReg.Register(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: c.promNamespace,
		Name:      "version",
		Help:      "TOS gate version, value is always 1",
		ConstLabels: prometheus.Labels{
			"version": v.Version,
			"commit":  v.Commit,
			"time":    v.Time,
		},
	}, func() float64 {
		return 1
	}))
}

const promNs = "tosgate"

func Command() *cobra.Command {
	c := makeCommand()

	cmd := &cobra.Command{
		Use:     "run [--upstream <URL>] [--port <port>]",
		Short:   "Start the terms of service gate",
		Long:    long,
		Example: example,
		Args:    cobra.NoArgs,
		RunE:    c.runE,
	}

	fs := cmd.Flags()
	bind.HTTPServerConfig(fs, c.httpServerConfig, "")
	bind.HTTPLogConfig(fs, &c.httpServerConfig.LogHTTPMode, "")
	bind.UpstreamConfig(fs, c.upstreamConfig)
	bind.HTTPTransportConfig(fs, c.httpTransportConfig)
	bind.ConsentConfig(fs, c.consentConfig)
	bind.GateConfig(fs, c.gateConfig)
	bind.HTTPServerConfig(fs, c.apiServerConfig, "api")
	bind.HTTPLogConfig(fs, &c.apiServerConfig.LogHTTPMode, "api")
	bind.PromNamespace(fs, &c.promNamespace)
	bind.LogConfig(fs, c.logConfig)

	fs.BoolVar(&c.dryRun, "dry-run", false, "Open the listeners and exit.")
	fs.BoolVar(&c.goleak, "goleak", false, "Enable goleak.")

	bind.MarkFlagHidden(cmd,
		"dry-run",
		"goleak",
	)

	return cmd
}

func makeCommand() command {
	c := command{
		promReg:             prometheus.NewRegistry(),
		promNamespace:       promNs,
		upstreamConfig:      tosgate.DefaultUpstreamConfig(),
		httpTransportConfig: tosgate.DefaultHTTPTransportConfig(),
		consentConfig:       tosgate.DefaultConsentConfig(),
		gateConfig:          tosgate.DefaultGateConfig(),
		httpServerConfig:    tosgate.DefaultHTTPServerConfig(),
		apiServerConfig:     tosgate.DefaultHTTPServerConfig(),
		logConfig:           log.DefaultConfig(),
	}
	c.apiServerConfig.Addr = "localhost:10000"
	c.apiServerConfig.LogHTTPMode = httplog.None

	return c
}

const long = `Start the terms of service gate in front of an upstream web service.
Visitors that have not accepted the terms get the consent page on / and are redirected to / from any other path.
Accepting the terms sets a cookie, after that every request, including WebSocket upgrades, is forwarded to the upstream.
The /healthz endpoint always reports {"ok":true}.
`

const example = `  # Gate a wiki running on the default address
  tosgate run

  # Gate a service on a custom address and port
  tosgate run --upstream http://docs.internal:8080 --port 8081

  # Use environment variables
  WIKI_TARGET=http://wiki:3000 PORT=3001 tosgate run
`
