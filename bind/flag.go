// Copyright 2026 Sauce Labs Inc., all rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package bind

import (
	"net/url"

	"github.com/mmatczuk/anyflag"
	"github.com/saucelabs/tosgate"
	"github.com/saucelabs/tosgate/httplog"
	"github.com/saucelabs/tosgate/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func ConfigFile(fs *pflag.FlagSet, configFile *string) {
	fs.StringVarP(configFile,
		"config-file", "c", *configFile, "<path>"+
			"Configuration file to load options from. "+
			"The supported formats are: JSON, YAML, TOML, HCL, and Java properties. "+
			"The file format is determined by the file extension, if not specified the default format is YAML. "+
			"The following precedence order of configuration sources is used: command flags, environment variables, config file, default values. ")
}

func UpstreamConfig(fs *pflag.FlagSet, cfg *tosgate.UpstreamConfig) {
	fs.VarP(anyflag.NewValue[*url.URL](cfg.Target, &cfg.Target, tosgate.ParseUpstreamURL),
		"upstream", "u", "<URL>"+
			"Base URL of the service that requests are forwarded to once the terms are accepted. "+
			"The scheme is optional, if not specified http is assumed. "+
			"The ws and wss schemes are accepted as aliases of http and https. ")
	fs.BoolVar(&cfg.XForwarded,
		"upstream-xfwd", cfg.XForwarded,
		"Add X-Forwarded-For, X-Forwarded-Host and X-Forwarded-Proto headers to upstream requests. "+
			"Forwarded headers sent by the client are passed through regardless of this setting. ")
	fs.DurationVar(&cfg.FlushInterval,
		"upstream-flush-interval", cfg.FlushInterval,
		"Flush interval for copying upstream responses to the client. "+
			"A negative value flushes after every write. ")
}

func ConsentConfig(fs *pflag.FlagSet, cfg *tosgate.ConsentConfig) {
	fs.StringVar(&cfg.CookieName,
		"consent-cookie-name", cfg.CookieName, "<name>"+
			"Name of the cookie that records the acceptance of the terms. ")
	fs.StringVar(&cfg.CookieValue,
		"consent-cookie-value", cfg.CookieValue, "<value>"+
			"Value of the consent cookie that means the terms were accepted. ")
	fs.DurationVar(&cfg.MaxAge,
		"consent-max-age", cfg.MaxAge,
		"Lifetime of the consent cookie. ")
}

func GateConfig(fs *pflag.FlagSet, cfg *tosgate.GateConfig) {
	fs.Var(newPageFlag(&cfg.Page, tosgate.ReadConsentPage),
		"tos-file", "<path>"+
			"HTML document shown to visitors that have not accepted the terms. "+
			"It must contain a form that sends a POST request to "+tosgate.AcceptPath+". "+
			"By default a built-in page is used. ")
}

func HTTPServerConfig(fs *pflag.FlagSet, cfg *tosgate.HTTPServerConfig, prefix string) {
	namePrefix := prefix
	if namePrefix != "" {
		namePrefix += "-"
	}

	fs.StringVar(&cfg.Addr,
		namePrefix+"address", cfg.Addr, "<host:port>"+
			"The server address to listen on. "+
			"If the host is empty, the server will listen on all available interfaces. ")

	if prefix == "" {
		fs.Var(newPortFlag(&cfg.Port),
			"port", "<port>"+
				"The server port to listen on, it replaces the port of the address regardless of flag order. ")
	}

	fs.DurationVar(&cfg.ReadHeaderTimeout,
		namePrefix+"read-header-timeout", cfg.ReadHeaderTimeout,
		"The amount of time allowed to read request headers. ")
	fs.DurationVar(&cfg.ReadTimeout,
		namePrefix+"read-timeout", cfg.ReadTimeout,
		"The maximum duration for reading the entire request, including the body. "+
			"Zero means no limit. ")
	fs.DurationVar(&cfg.WriteTimeout,
		namePrefix+"write-timeout", cfg.WriteTimeout,
		"The maximum duration before timing out writes of the response. "+
			"Zero means no limit. ")
	fs.DurationVar(&cfg.IdleTimeout,
		namePrefix+"idle-timeout", cfg.IdleTimeout,
		"The maximum amount of time to wait for the next request when keep-alives are enabled. ")
	fs.DurationVar(&cfg.ShutdownTimeout,
		namePrefix+"shutdown-timeout", cfg.ShutdownTimeout,
		"The maximum amount of time to wait for active requests to complete on shutdown. ")
}

func HTTPLogConfig(fs *pflag.FlagSet, mode *httplog.Mode, prefix string) {
	name := "log-http"
	if prefix != "" {
		name = prefix + "-" + name
	}
	fs.Var(anyflag.NewValue[httplog.Mode](*mode, mode, httplog.ParseMode),
		name, "<none|short-url|url|headers|errors>"+
			"HTTP request and response logging mode. "+
			"Setting this to none disables logging. "+
			"The short-url mode logs [scheme://]host[/path] instead of the full URL. "+
			"The errors mode logs only requests that resulted in an error status code. ")
}

func HTTPTransportConfig(fs *pflag.FlagSet, cfg *tosgate.HTTPTransportConfig) {
	fs.DurationVar(&cfg.DialTimeout,
		"http-dial-timeout", cfg.DialTimeout,
		"The maximum amount of time a dial will wait for a connect to complete. "+
			"With or without a timeout, the operating system may impose its own earlier timeout. ")
	fs.DurationVar(&cfg.TLSHandshakeTimeout,
		"http-tls-handshake-timeout", cfg.TLSHandshakeTimeout,
		"The maximum amount of time waiting to wait for a TLS handshake. Zero means no limit. ")
	fs.DurationVar(&cfg.IdleConnTimeout,
		"http-idle-conn-timeout", cfg.IdleConnTimeout,
		"The maximum amount of time an idle (keep-alive) connection will remain idle before closing itself. "+
			"Zero means no limit. ")
	fs.DurationVar(&cfg.ResponseHeaderTimeout,
		"http-response-header-timeout", cfg.ResponseHeaderTimeout,
		"The amount of time to wait for the upstream response headers after fully writing the request. "+
			"This time does not include the time to read the response body. "+
			"Zero means no limit. ")
	fs.BoolVar(&cfg.InsecureSkipVerify,
		"insecure", cfg.InsecureSkipVerify,
		"Don't verify the upstream certificate chain and host name. ")
}

func LogConfig(fs *pflag.FlagSet, cfg *log.Config) {
	fs.Var(NewFileFlag(&cfg.File, tosgate.OpenFileParser(log.DefaultFileFlags, log.DefaultFileMode, log.DefaultDirMode)),
		"log-file", "<path>"+
			"Path to the log file, if empty, logs to stdout. ")
	fs.Var(anyflag.NewValue[log.Level](cfg.Level, &cfg.Level, log.ParseLevel),
		"log-level", "<error|warn|info|debug>"+
			"Log level. ")
	fs.Var(anyflag.NewValue[log.Format](cfg.Format, &cfg.Format, log.ParseFormat),
		"log-format", "<text|json>"+
			"Log format. ")
}

func PromNamespace(fs *pflag.FlagSet, ns *string) {
	fs.StringVar(ns,
		"prom-namespace", *ns, "<namespace>"+
			"Prometheus namespace to use for metrics. ")
}

func MarkFlagHidden(cmd *cobra.Command, names ...string) {
	for _, name := range names {
		if err := cmd.Flags().MarkHidden(name); err != nil {
			panic(err)
		}
	}
}

