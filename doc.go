// Copyright 2026 Sauce Labs Inc., all rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package tosgate provides a reverse proxy that requires visitors to accept terms of service.
// Until the consent cookie is present, the root path serves the consent page and every other path redirects to it.
// Once accepted, requests are forwarded to the upstream, including protocol upgrades such as WebSocket.
package tosgate
