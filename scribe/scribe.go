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

// Package scribe serializes handler return values into the response model
// the transport layer sends.
//
// The scribe never inspects the request. It maps a handler's returned Go
// value to a status, a Content-Type, and a byte body:
//
//	*Response    passed through untouched
//	nil          204 No Content
//	[]byte       application/octet-stream
//	string       text/plain; charset=utf-8
//	anything     application/json (time values in RFC 3339)
package scribe

import (
	"encoding/json"
	"fmt"
	"net/http"

	"rivaas.dev/web/headers"
)

// Content types emitted by the scribe.
const (
	ContentTypeJSON   = "application/json; charset=utf-8"
	ContentTypeText   = "text/plain; charset=utf-8"
	ContentTypeBinary = "application/octet-stream"
)

// Response is the wire-ready result of a handler: status, headers, and a
// fully materialized body. Handlers return one directly to control every
// part of the response; otherwise the scribe builds it.
type Response struct {
	Status  int
	Headers *headers.Collection
	Body    []byte
}

// NewResponse returns an empty response with the given status.
func NewResponse(status int) *Response {
	return &Response{Status: status, Headers: headers.NewCollection()}
}

// SetHeader replaces all values of a response header.
func (r *Response) SetHeader(name, value string) *Response {
	r.ensureHeaders()
	r.Headers.Set(name, value)

	return r
}

// AddHeader appends a response header value, preserving existing ones.
func (r *Response) AddHeader(name, value string) *Response {
	r.ensureHeaders()
	r.Headers.Add(name, value)

	return r
}

// SetCookie appends a Set-Cookie header for c. Each cookie is an
// independent header line, never merged.
func (r *Response) SetCookie(c *headers.Cookie) *Response {
	r.ensureHeaders()
	r.Headers.Add("Set-Cookie", c.Serialize())

	return r
}

// ContentType returns the response Content-Type, or "" when unset.
func (r *Response) ContentType() string {
	if r.Headers == nil {
		return ""
	}

	return r.Headers.GetFirst("Content-Type")
}

func (r *Response) ensureHeaders() {
	if r.Headers == nil {
		r.Headers = headers.NewCollection()
	}
}

// Write converts a handler's return value into a [*Response].
//
// declaredStatus overrides the default success status when non-zero; it is
// ignored for *Response passthrough and for nil results, which are always
// 204.
func Write(result any, declaredStatus int) (*Response, error) {
	switch v := result.(type) {
	case *Response:
		if v.Status == 0 {
			v.Status = statusOr(declaredStatus)
		}
		v.ensureHeaders()

		return v, nil

	case nil:
		return NewResponse(http.StatusNoContent), nil

	case []byte:
		return bodyResponse(statusOr(declaredStatus), ContentTypeBinary, v), nil

	case string:
		return bodyResponse(statusOr(declaredStatus), ContentTypeText, []byte(v)), nil

	default:
		body, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encoding response body: %w", err)
		}

		return bodyResponse(statusOr(declaredStatus), ContentTypeJSON, body), nil
	}
}

// JSON builds a JSON response directly, bypassing type dispatch.
func JSON(status int, v any) (*Response, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding response body: %w", err)
	}

	return bodyResponse(status, ContentTypeJSON, body), nil
}

// Text builds a plain-text response.
func Text(status int, s string) *Response {
	return bodyResponse(status, ContentTypeText, []byte(s))
}

// NoContent builds an empty 204 response.
func NoContent() *Response {
	return NewResponse(http.StatusNoContent)
}

func bodyResponse(status int, contentType string, body []byte) *Response {
	r := NewResponse(status)
	r.Headers.Set("Content-Type", contentType)
	r.Body = body

	return r
}

func statusOr(declared int) int {
	if declared > 0 {
		return declared
	}

	return http.StatusOK
}
