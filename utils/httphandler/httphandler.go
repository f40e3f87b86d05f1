// Copyright 2026 Sauce Labs Inc., all rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package httphandler

import (
	"encoding/json"
	"net/http"
)

func SendFile(contentType string, content []byte) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentType)
		w.Write(content) //nolint:errcheck // best effort
	})
}

// SendJSON returns a handler that sends v encoded once at creation time.
func SendJSON(v any) (http.Handler, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return SendFile("application/json", b), nil
}
