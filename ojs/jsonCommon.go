// Copyright (c) 2022 OpenOJ
// This code is licensed under the MIT license (see LICENSE.txt for details)

package main

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/openoj/go/oj/ojLog"
)

// user-visible api error reasons and codes
const (
	errInvalidArgumentReason = "ERR_INVALID_ARGUMENT" // code 1: semantic validation failure
	errInvalidStateReason    = "ERR_INVALID_STATE"    // code 2: operation in a disallowed state
	errNotFoundReason        = "ERR_NOT_FOUND"        // code 3: referenced id absent
	errInternalReason        = "ERR_INTERNAL"         // code 6: server side failure

	errInvalidArgumentCode = 1
	errInvalidStateCode    = 2
	errNotFoundCode        = 3
	errInternalCode        = 6
)

// apiError is json body of any error response
type apiError struct {
	Reason  string `json:"reason"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// set json response headers: Content-Type: application/json
func jsonSetHeaders(w http.ResponseWriter, r *http.Request) {

	// if Content-Type not set then use json
	if _, isSet := w.Header()["Content-Type"]; !isSet {
		w.Header().Set("Content-Type", "application/json")
	}
}

// jsonResponse set json response headers and writes src as json into w response writer.
// On error it writes 500 internal server error response.
func jsonResponse(w http.ResponseWriter, r *http.Request, src interface{}) {

	jsonSetHeaders(w, r)

	err := json.NewEncoder(w).Encode(src)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// errorResponse set json response headers, http status and write {reason, code, message} body
func errorResponse(w http.ResponseWriter, status int, reason string, code int, msg string) {

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(apiError{Reason: reason, Code: code, Message: msg}); err != nil {
		ojLog.Log("Error at error response encode: ", err)
	}
}

// invalidArgumentResponse write 400 response with code 1: semantic validation failure
func invalidArgumentResponse(w http.ResponseWriter, msg string) {
	errorResponse(w, http.StatusBadRequest, errInvalidArgumentReason, errInvalidArgumentCode, msg)
}

// invalidStateResponse write 400 response with code 2: operation in a disallowed state
func invalidStateResponse(w http.ResponseWriter, msg string) {
	errorResponse(w, http.StatusBadRequest, errInvalidStateReason, errInvalidStateCode, msg)
}

// notFoundResponse write 404 response with code 3: referenced id absent
func notFoundResponse(w http.ResponseWriter, msg string) {
	errorResponse(w, http.StatusNotFound, errNotFoundReason, errNotFoundCode, msg)
}

// internalErrorResponse write 500 response with code 6 and log the original error
func internalErrorResponse(w http.ResponseWriter, msg string, err error) {
	if err != nil {
		ojLog.Log("Error: ", msg, ": ", err)
	}
	errorResponse(w, http.StatusInternalServerError, errInternalReason, errInternalCode, msg)
}

// jsonRequestDecode validate Content-Type: application/json and decode json body.
// Destination for json decode: dst must be a pointer.
// If isRequired is true then json body is required else it can be empty by default.
// On error it writes error response 400 or 415 and return false.
func jsonRequestDecode(w http.ResponseWriter, r *http.Request, isRequired bool, dst interface{}) bool {

	// json body expected
	if !strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		http.Error(w, "Expected Content-Type: application/json", http.StatusUnsupportedMediaType)
		return false
	}

	// decode json
	err := json.NewDecoder(r.Body).Decode(dst)
	if err != nil {
		if err == io.EOF {
			if !isRequired {
				return true // empty default values
			}
			invalidArgumentResponse(w, "Invalid (empty) json at "+r.URL.String())
			return false
		}
		ojLog.Log("Json decode error at " + r.URL.String() + ": " + err.Error())
		invalidArgumentResponse(w, "Json decode error at "+r.URL.String())
		return false
	}
	return true // completed OK
}
