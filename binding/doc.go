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

// Package binding turns an incoming request into the typed argument value
// a handler declared.
//
// A handler's declared parameters are the fields of its request struct.
// [BuildSpec] inspects the struct once, at startup, and produces a [Spec]:
// an ordered list of binders, each tagged with the source it reads from
// (path, query, header, cookie, body, or an injected service). Source
// assignment uses explicit struct tags when present:
//
//	type GetOrder struct {
//	    ID     int       `path:"id"`
//	    Expand []string  `query:"expand"`
//	    APIKey string    `header:"X-Api-Key"`
//	    Theme  string    `cookie:"theme"`
//	    Body   OrderEdit `body:""`
//	    Clock  Clock     `service:""`
//	}
//
// Untagged fields are inferred deterministically: a field whose derived
// name matches a route parameter binds from the path; an untagged field of
// struct or map kind binds from the body; an untagged field of interface
// kind resolves as a service; remaining primitives fall back to the query
// string. A field with no discoverable source and no default fails
// BuildSpec — at startup, never at request time. Declaring two
// body-sourced fields fails with [ErrMultipleBodyBinders] because the body
// is a single-read stream.
//
// [Spec.Bind] executes the binders in field order against one request.
// Scalar coercion is strict: int, uint, float, bool, uuid.UUID, time.Time
// (ISO 8601), and time.Duration, plus any encoding.TextUnmarshaler.
// Sequence fields collect every same-name value from list-capable sources
// in encounter order. The body is decoded according to Content-Type (JSON
// by default, with YAML, TOML, and MessagePack negotiated) and validated
// against its declared shape.
package binding
