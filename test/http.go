// OpenRDAP
// Copyright 2017 Tom Harwood
// MIT License, see the LICENSE file.

// Package test holds small test helpers shared across this module's
// packages: loading fixture files from testdata/, and stubbing HTTP
// responses with httpmock.
package test

import (
	"io/ioutil"
	"log"
	"net/http"

	"github.com/jarcoal/httpmock"
)

// Start activates httpmock for the duration of a test. Call Finish (or
// defer it) to deactivate and reset registered responders.
func Start() {
	httpmock.Activate()
}

// Finish deactivates httpmock and clears registered responders.
func Finish() {
	httpmock.DeactivateAndReset()
}

// Responder registers a canned string response for GET requests to url.
func Responder(url string, status int, body string) {
	httpmock.RegisterResponder("GET", url, httpmock.NewStringResponder(status, body))
}

// Get performs a plain HTTP GET and returns the response body, panicking on
// any error; intended for use only against httpmock-stubbed URLs in tests.
func Get(url string) []byte {
	resp, err := http.Get(url)
	if err != nil {
		log.Panic(err)
	}
	defer resp.Body.Close()

	data, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		log.Panic(err)
	}

	return data
}
