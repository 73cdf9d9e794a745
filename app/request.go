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

package app

import (
	"context"
	"io"
	"sync"

	"rivaas.dev/web/binding"
	"rivaas.dev/web/headers"
	"rivaas.dev/web/urls"
)

// Request is the transport-independent request model the pipeline
// consumes: a decoded start line, header list, and a single-read body
// stream. The transport adapter builds one per incoming request.
type Request struct {
	Method  string
	URL     *urls.URL
	Headers *headers.Collection
	Cookies *headers.CookieCollection

	body      io.Reader
	bodyOnce  sync.Once
	bodyTaken bool
	bodyData  []byte
	bodyErr   error
}

// NewRequest builds a Request. Cookies are parsed out of the Cookie
// headers; body may be nil for bodiless methods.
func NewRequest(method string, url *urls.URL, h *headers.Collection, body io.Reader) *Request {
	if h == nil {
		h = headers.NewCollection()
	}

	cookies := headers.NewCookieCollection()
	for _, line := range h.Get("Cookie") {
		cookies.ParseCookieHeader(line)
	}

	return &Request{
		Method:  method,
		URL:     url,
		Headers: h,
		Cookies: cookies,
		body:    body,
	}
}

// ContentType returns the request Content-Type header, or "".
func (r *Request) ContentType() string {
	return r.Headers.GetFirst("Content-Type")
}

// TakeBody consumes the body stream. The body is owned by the first
// caller; a second take fails with [binding.ErrBodyConsumed] rather than
// silently returning empty data.
func (r *Request) TakeBody(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	taken := true
	r.bodyOnce.Do(func() {
		taken = false
		r.bodyTaken = true
		if r.body == nil {
			return
		}
		r.bodyData, r.bodyErr = io.ReadAll(r.body)
	})
	if taken {
		return nil, binding.ErrBodyConsumed
	}

	return r.bodyData, r.bodyErr
}
