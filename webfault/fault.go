// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package webfault turns pipeline and handler errors into wire responses.
//
// Errors flow out of routing, binding, and handlers as plain Go errors.
// A [Formatter] maps them to a response body; errors opt into richer
// output by implementing the capability interfaces below:
//
//	HTTPStatus() int          response status (default 500)
//	Code() string             machine-readable code
//	Details() any             structured field-level details
//	ErrorHeaders() map[...]   extra response headers (e.g. Allow on 405)
//
// Three formatters ship with the framework: [Simple] (flat JSON),
// [RFC9457] (application/problem+json), and [JSONAPI]
// (application/vnd.api+json).
package webfault

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"rivaas.dev/web/scribe"
)

// Formatter renders an error as a wire-ready response. The instance
// argument is the request path, used by formats that report where the
// problem occurred.
type Formatter interface {
	Format(instance string, err error) *scribe.Response
}

// ErrorType is implemented by errors that declare their own HTTP status.
//
// Example:
//
//	func (e *QuotaError) HTTPStatus() int { return http.StatusTooManyRequests }
type ErrorType interface {
	error
	HTTPStatus() int
}

// ErrorCode is implemented by errors carrying a machine-readable code,
// surfaced as "code" in Simple output and as the problem type slug in
// RFC 9457 output.
type ErrorCode interface {
	error
	Code() string
}

// ErrorDetails is implemented by errors with structured field-level
// details, such as binding failures.
type ErrorDetails interface {
	error
	Details() any
}

// ErrorHeaders is implemented by errors that require response headers,
// such as a method mismatch carrying Allow.
type ErrorHeaders interface {
	error
	ErrorHeaders() map[string]string
}

// WithStatus wraps err so it reports the given HTTP status. A nil err
// yields the standard status text as the message.
func WithStatus(err error, status int) error {
	return &statusError{err: err, status: status}
}

type statusError struct {
	err    error
	status int
}

func (e *statusError) Error() string {
	if e.err == nil {
		return http.StatusText(e.status)
	}

	return e.err.Error()
}

func (e *statusError) Unwrap() error { return e.err }

func (e *statusError) HTTPStatus() int { return e.status }

// statusOf resolves the response status: custom resolver, then the
// ErrorType capability, then 500.
func statusOf(err error, resolver func(error) int) int {
	if resolver != nil {
		return resolver(err)
	}

	var typed ErrorType
	if errors.As(err, &typed) {
		return typed.HTTPStatus()
	}

	return http.StatusInternalServerError
}

// errDetail returns the client-facing message for err. An unclassified
// error that falls back to a server-fault status keeps its message off
// the wire; errors that declare their own status or code have chosen
// their message for the client.
func errDetail(status int, err error) string {
	if status < http.StatusInternalServerError {
		return err.Error()
	}

	var typed ErrorType
	var coded ErrorCode
	if errors.As(err, &typed) || errors.As(err, &coded) {
		return err.Error()
	}

	return http.StatusText(status)
}

// respond marshals body and assembles the response, merging any headers
// the error demands. A marshal failure degrades to plain text so the
// client always receives the status.
func respond(status int, contentType string, body any, err error) *scribe.Response {
	resp := scribe.NewResponse(status)

	data, marshalErr := json.Marshal(body)
	if marshalErr != nil {
		resp.Headers.Set("Content-Type", scribe.ContentTypeText)
		resp.Body = []byte(http.StatusText(status))
	} else {
		resp.Headers.Set("Content-Type", contentType)
		resp.Body = data
	}

	var carrier ErrorHeaders
	if errors.As(err, &carrier) {
		for name, value := range carrier.ErrorHeaders() {
			resp.Headers.Set(name, value)
		}
	}

	return resp
}

// newErrorID returns a correlation ID included in formatted output so a
// client report can be matched to server logs.
func newErrorID() string {
	return "err-" + uuid.NewString()
}
