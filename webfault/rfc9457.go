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

package webfault

import (
	"encoding/json"
	"errors"
	"net/http"

	"rivaas.dev/web/scribe"
)

// ContentTypeProblem is the RFC 9457 media type.
const ContentTypeProblem = "application/problem+json; charset=utf-8"

// RFC9457 formats errors as RFC 9457 Problem Details with Content-Type
// "application/problem+json".
type RFC9457 struct {
	// BaseURL is prepended to error codes to build problem type URIs,
	// e.g. "https://api.example.com/problems" + "/binding_invalid_value".
	BaseURL string

	// TypeResolver overrides problem type determination. When nil the
	// ErrorCode capability decides, defaulting to "about:blank".
	TypeResolver func(err error) string

	// StatusResolver overrides status determination.
	StatusResolver func(err error) int

	// ErrorIDGenerator overrides correlation ID generation.
	ErrorIDGenerator func() string

	// DisableErrorID omits the error_id extension entirely.
	DisableErrorID bool
}

// NewRFC9457 creates an RFC 9457 formatter. baseURL may be empty, in
// which case bare error codes are used as problem types.
func NewRFC9457(baseURL string) *RFC9457 {
	return &RFC9457{BaseURL: baseURL}
}

// ProblemDetail is one RFC 9457 problem document. Extensions are
// marshaled inline next to the standard members.
type ProblemDetail struct {
	Type       string         `json:"type"`
	Title      string         `json:"title"`
	Status     int            `json:"status"`
	Detail     string         `json:"detail,omitempty"`
	Instance   string         `json:"instance,omitempty"`
	Extensions map[string]any `json:"-"`
}

// MarshalJSON merges extensions into the top-level object. Reserved
// member names cannot be shadowed by extensions.
func (p ProblemDetail) MarshalJSON() ([]byte, error) {
	m := map[string]any{
		"type":   p.Type,
		"title":  p.Title,
		"status": p.Status,
	}
	if p.Detail != "" {
		m["detail"] = p.Detail
	}
	if p.Instance != "" {
		m["instance"] = p.Instance
	}
	for k, v := range p.Extensions {
		switch k {
		case "type", "title", "status", "detail", "instance":
		default:
			m[k] = v
		}
	}

	return json.Marshal(m)
}

// Format converts an error into a problem details response. The instance
// argument becomes the problem's instance member.
func (f *RFC9457) Format(instance string, err error) *scribe.Response {
	status := statusOf(err, f.StatusResolver)

	p := ProblemDetail{
		Type:       f.problemType(err),
		Title:      http.StatusText(status),
		Status:     status,
		Detail:     errDetail(status, err),
		Instance:   instance,
		Extensions: make(map[string]any),
	}

	if !f.DisableErrorID {
		if f.ErrorIDGenerator != nil {
			p.Extensions["error_id"] = f.ErrorIDGenerator()
		} else {
			p.Extensions["error_id"] = newErrorID()
		}
	}

	var detailed ErrorDetails
	if errors.As(err, &detailed) {
		p.Extensions["errors"] = detailed.Details()
	}

	var coded ErrorCode
	if errors.As(err, &coded) {
		p.Extensions["code"] = coded.Code()
	}

	return respond(status, ContentTypeProblem, p, err)
}

func (f *RFC9457) problemType(err error) string {
	if f.TypeResolver != nil {
		return f.TypeResolver(err)
	}

	var coded ErrorCode
	if errors.As(err, &coded) {
		if f.BaseURL != "" {
			return f.BaseURL + "/" + coded.Code()
		}

		return coded.Code()
	}

	return "about:blank"
}
