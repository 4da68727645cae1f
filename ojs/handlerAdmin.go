// Copyright (c) 2022 OpenOJ
// This code is licensed under the MIT license (see LICENSE.txt for details)

package main

import (
	"net/http"
	"os"

	"github.com/openoj/go/oj/ojLog"
)

// exitHandler shut the server process down, it is a testing hook.
//
//	POST /internal/exit
func (sc *ServerCatalog) exitHandler(w http.ResponseWriter, r *http.Request) {

	ojLog.Log("Shutdown requested from ", r.RemoteAddr)
	jsonResponse(w, r, "exited")

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
	os.Exit(0)
}
