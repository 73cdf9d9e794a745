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

package binding

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
)

// Source identifies where a binder reads its value from.
type Source int

const (
	// SourceUnknown is an unspecified source.
	SourceUnknown Source = iota
	// SourcePath reads a captured route parameter.
	SourcePath
	// SourceQuery reads the query string.
	SourceQuery
	// SourceHeader reads a request header.
	SourceHeader
	// SourceCookie reads a request cookie.
	SourceCookie
	// SourceBody decodes the request body.
	SourceBody
	// SourceService resolves an injected service, not request data.
	SourceService
)

// String returns the source name used in struct tags and error messages.
func (s Source) String() string {
	switch s {
	case SourcePath:
		return "path"
	case SourceQuery:
		return "query"
	case SourceHeader:
		return "header"
	case SourceCookie:
		return "cookie"
	case SourceBody:
		return "body"
	case SourceService:
		return "service"
	default:
		return "unknown"
	}
}

// Static errors for spec building. All are startup-time and fatal: a server
// must not accept traffic after any of them.
var (
	// ErrMultipleBodyBinders indicates a handler declaring more than one
	// body-sourced parameter. The body is a single-read stream, so at most
	// one binder may own it; the conflict is detected at spec-build time,
	// never at the moment of double consumption.
	ErrMultipleBodyBinders = errors.New("handler declares multiple body parameters")

	// ErrNoBindingSource indicates a parameter with no discoverable source
	// and no default.
	ErrNoBindingSource = errors.New("parameter has no discoverable binding source")

	// ErrNotStruct indicates a handler parameter type that is not a struct.
	ErrNotStruct = errors.New("handler parameter type must be a struct")

	// ErrUnsupportedContentType indicates a request body in a format no
	// registered codec understands.
	ErrUnsupportedContentType = errors.New("unsupported content type")

	// ErrBodyConsumed indicates a second read of the single-read body.
	ErrBodyConsumed = errors.New("request body already consumed")
)

// Kind classifies a per-parameter binding failure.
type Kind int

const (
	// InvalidValue: the raw value failed strict coercion to the declared
	// type.
	InvalidValue Kind = iota
	// MissingField: a required parameter or required body field was
	// absent.
	MissingField
	// MultipleValues: a single value was required but the source carried
	// several.
	MultipleValues
)

// String returns the wire code fragment for the kind.
func (k Kind) String() string {
	switch k {
	case MissingField:
		return "missing_field"
	case MultipleValues:
		return "multiple_values"
	default:
		return "invalid_value"
	}
}

// BindError is a per-parameter binding failure. It is surfaced as a 400
// with a structured message identifying the offending parameter.
//
// Use [errors.As]:
//
//	var bindErr *binding.BindError
//	if errors.As(err, &bindErr) {
//	    log.Printf("parameter %s (%s): %s", bindErr.Parameter, bindErr.Source, bindErr.Kind)
//	}
type BindError struct {
	Parameter string       // Declared parameter (field) name
	Source    Source       // Where the value was read from
	Kind      Kind         // Failure classification
	Value     string       // Offending raw value, when applicable
	Type      reflect.Type // Declared Go type
	Err       error        // Underlying cause
}

// Error formats the failure with the parameter, source, and cause.
func (e *BindError) Error() string {
	switch e.Kind {
	case MissingField:
		return fmt.Sprintf("binding parameter %q (%s): required value is missing", e.Parameter, e.Source)
	case MultipleValues:
		return fmt.Sprintf("binding parameter %q (%s): expected a single value", e.Parameter, e.Source)
	default:
		typeName := "unknown"
		if e.Type != nil {
			typeName = e.Type.String()
		}

		return fmt.Sprintf("binding parameter %q (%s): cannot convert %q to %s: %v",
			e.Parameter, e.Source, e.Value, typeName, e.Err)
	}
}

// Unwrap returns the underlying error for errors.Is/As compatibility.
func (e *BindError) Unwrap() error { return e.Err }

// HTTPStatus implements the webfault status capability.
func (e *BindError) HTTPStatus() int { return http.StatusBadRequest }

// Code implements the webfault code capability.
func (e *BindError) Code() string { return "binding_" + e.Kind.String() }

// Details implements the webfault details capability, identifying the
// offending parameter in the response body.
func (e *BindError) Details() any {
	return map[string]string{
		"parameter": e.Parameter,
		"source":    e.Source.String(),
		"reason":    e.Kind.String(),
	}
}

// UnresolvedServiceError is returned when the external container cannot
// resolve a service-sourced parameter. Surfaced as 500: a configuration
// defect, not a client error.
type UnresolvedServiceError struct {
	Parameter string
	Type      reflect.Type
	Err       error
}

// Error names the parameter and the service type that failed to resolve.
func (e *UnresolvedServiceError) Error() string {
	return fmt.Sprintf("resolving service for parameter %q (%s): %v", e.Parameter, e.Type, e.Err)
}

// Unwrap returns the container's error.
func (e *UnresolvedServiceError) Unwrap() error { return e.Err }

// HTTPStatus implements the webfault status capability.
func (e *UnresolvedServiceError) HTTPStatus() int { return http.StatusInternalServerError }

// Code implements the webfault code capability.
func (e *UnresolvedServiceError) Code() string { return "unresolved_service" }
