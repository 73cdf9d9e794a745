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
	"errors"

	"rivaas.dev/web/scribe"
)

// Simple formats errors as flat JSON objects:
// {"error": "message", "code": "...", "details": {...}}.
type Simple struct {
	// StatusResolver overrides status determination. When nil the
	// ErrorType capability decides, defaulting to 500.
	StatusResolver func(err error) int
}

// NewSimple creates a Simple formatter.
func NewSimple() *Simple { return &Simple{} }

// Format converts an error into a flat JSON response.
func (f *Simple) Format(_ string, err error) *scribe.Response {
	status := statusOf(err, f.StatusResolver)

	body := map[string]any{
		"error": errDetail(status, err),
	}

	var detailed ErrorDetails
	if errors.As(err, &detailed) {
		body["details"] = detailed.Details()
	}

	var coded ErrorCode
	if errors.As(err, &coded) {
		body["code"] = coded.Code()
	}

	return respond(status, scribe.ContentTypeJSON, body, err)
}
