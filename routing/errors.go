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

package routing

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrInvalidPattern indicates a pattern that failed compilation.
	// It is a startup-time error and aborts server start.
	ErrInvalidPattern = errors.New("invalid route pattern")

	// ErrDuplicateRoute indicates that a semantically identical
	// (method, pattern) pair is already registered. Startup-time, fatal.
	ErrDuplicateRoute = errors.New("duplicate route")

	// ErrTableFrozen indicates registration after [Router.Freeze].
	// The route table is immutable while requests are being served.
	ErrTableFrozen = errors.New("route table is frozen")

	// ErrNotFound indicates that no pattern matches the path under any
	// method. Surfaced as 404.
	ErrNotFound = errors.New("route not found")
)

// MethodNotAllowedError is returned by [Router.Resolve] when the path
// matches one or more patterns registered under different methods.
// Surfaced as 405; Allow lists the methods that do match, sorted.
type MethodNotAllowedError struct {
	Method string
	Path   string
	Allow  []string
}

// Error returns a message naming the rejected method and the allowed set.
func (e *MethodNotAllowedError) Error() string {
	return fmt.Sprintf("method %s not allowed for %s (allow: %s)",
		e.Method, e.Path, strings.Join(e.Allow, ", "))
}

// AllowHeader returns the Allow header value, e.g. "GET, POST".
func (e *MethodNotAllowedError) AllowHeader() string {
	return strings.Join(e.Allow, ", ")
}

// HTTPStatus implements the webfault status capability.
func (e *MethodNotAllowedError) HTTPStatus() int { return http.StatusMethodNotAllowed }

// Code implements the webfault code capability.
func (e *MethodNotAllowedError) Code() string { return "method_not_allowed" }

// ErrorHeaders implements the webfault header capability, so formatted
// 405 responses carry Allow.
func (e *MethodNotAllowedError) ErrorHeaders() map[string]string {
	return map[string]string{"Allow": e.AllowHeader()}
}
