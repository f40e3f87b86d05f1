// Copyright 2026 Sauce Labs Inc., all rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package tosgate

import (
	"context"
	"crypto/tls"
	"errors"
	"net"
	"os"
)

// ErrorHeader is the header that is set on error responses with the error message.
const ErrorHeader = "X-Tosgate-Error"

const (
	reasonClientCanceled = "client_canceled"
	reasonTimeout        = "timeout"
	reasonDNS            = "dns"
	reasonTLSHeader      = "tls_record_header"
	reasonTLSCertificate = "tls_certificate"
	reasonUnexpected     = "unexpected_error"
)

type errorClassifier func(error) string

// classifyUpstreamError returns a metric label describing the error.
func classifyUpstreamError(err error) string {
	classifiers := []errorClassifier{
		classifyCanceled,
		classifyDNSError,
		classifyTimeout,
		classifyNetError,
		classifyTLSRecordHeader,
		classifyTLSCertificateError,
	}

	for _, c := range classifiers {
		if reason := c(err); reason != "" {
			return reason
		}
	}

	return reasonUnexpected
}

func classifyCanceled(err error) string {
	if errors.Is(err, context.Canceled) {
		return reasonClientCanceled
	}
	return ""
}

func classifyDNSError(err error) string {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return reasonDNS
	}
	return ""
}

func classifyTimeout(err error) string {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return reasonTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return reasonTimeout
	}
	return ""
}

func classifyNetError(err error) string {
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return "net_" + opErr.Op
	}
	return ""
}

func classifyTLSRecordHeader(err error) string {
	var headerErr tls.RecordHeaderError
	if errors.As(err, &headerErr) {
		return reasonTLSHeader
	}
	return ""
}

func classifyTLSCertificateError(err error) string {
	var certErr *tls.CertificateVerificationError
	if errors.As(err, &certErr) {
		return reasonTLSCertificate
	}
	return ""
}
