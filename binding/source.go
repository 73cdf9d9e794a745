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
	"rivaas.dev/web/headers"
)

// Tag name constants for the struct tags recognized by [BuildSpec].
const (
	TagPath    = "path"    // Captured route parameter
	TagQuery   = "query"   // Query string parameter
	TagHeader  = "header"  // Request header
	TagCookie  = "cookie"  // Request cookie
	TagBody    = "body"    // Decoded request body
	TagService = "service" // Injected service
	TagDefault = "default" // Fallback value when the source is absent
)

// ValueGetter abstracts a request data source for binding.
//
// Implementers must distinguish "key present with empty value" from "key
// not present": Has returns true for "?name=" but false for a missing key.
// That distinction drives required/optional semantics.
type ValueGetter interface {
	// Get returns the first value for the key, or "" if not present.
	Get(key string) string

	// GetAll returns all values for the key in encounter order, or nil.
	GetAll(key string) []string

	// Has reports whether the key is present, even with an empty value.
	Has(key string) bool
}

// PathGetter implements [ValueGetter] over captured route parameters.
// Path parameters are single-valued.
type PathGetter struct {
	params map[string]string
}

// NewPathGetter creates a PathGetter from a captured parameter map.
func NewPathGetter(params map[string]string) *PathGetter {
	return &PathGetter{params: params}
}

// Get returns the value for the key.
func (p *PathGetter) Get(key string) string { return p.params[key] }

// GetAll returns a one-element slice if the key exists.
func (p *PathGetter) GetAll(key string) []string {
	if v, ok := p.params[key]; ok {
		return []string{v}
	}

	return nil
}

// Has reports whether the parameter was captured.
func (p *PathGetter) Has(key string) bool {
	_, ok := p.params[key]
	return ok
}

// QueryGetter implements [ValueGetter] over decoded query values.
type QueryGetter struct {
	values QueryValues
}

// NewQueryGetter creates a QueryGetter from decoded [QueryValues].
func NewQueryGetter(values QueryValues) *QueryGetter {
	return &QueryGetter{values: values}
}

// Get returns the first value for the key.
func (q *QueryGetter) Get(key string) string {
	if vals := q.values[key]; len(vals) > 0 {
		return vals[0]
	}

	return ""
}

// GetAll returns all values for the key in encounter order.
func (q *QueryGetter) GetAll(key string) []string { return q.values[key] }

// Has reports whether the key appeared in the query string.
func (q *QueryGetter) Has(key string) bool {
	_, ok := q.values[key]
	return ok
}

// HeaderGetter implements [ValueGetter] over a header collection.
// Lookups are case-insensitive; repeated headers keep insertion order.
type HeaderGetter struct {
	headers *headers.Collection
}

// NewHeaderGetter creates a HeaderGetter from a [headers.Collection].
func NewHeaderGetter(h *headers.Collection) *HeaderGetter {
	return &HeaderGetter{headers: h}
}

// Get returns the first header value for the key.
func (h *HeaderGetter) Get(key string) string { return h.headers.GetFirst(key) }

// GetAll returns all header values for the key.
func (h *HeaderGetter) GetAll(key string) []string { return h.headers.Get(key) }

// Has reports whether the header is present.
func (h *HeaderGetter) Has(key string) bool { return h.headers.Has(key) }

// CookieGetter implements [ValueGetter] over a cookie collection.
// Cookie names are case-sensitive; cookies are single-valued because a
// repeated request cookie name is resolved last-wins at parse time.
type CookieGetter struct {
	cookies *headers.CookieCollection
}

// NewCookieGetter creates a CookieGetter from a [headers.CookieCollection].
func NewCookieGetter(c *headers.CookieCollection) *CookieGetter {
	return &CookieGetter{cookies: c}
}

// Get returns the cookie value for the key.
func (cg *CookieGetter) Get(key string) string { return cg.cookies.Value(key) }

// GetAll returns a one-element slice if the cookie exists.
func (cg *CookieGetter) GetAll(key string) []string {
	if cg.cookies.Has(key) {
		return []string{cg.cookies.Value(key)}
	}

	return nil
}

// Has reports whether the cookie exists.
func (cg *CookieGetter) Has(key string) bool { return cg.cookies.Has(key) }

// emptyGetter is used when a request carries no data for a source.
type emptyGetter struct{}

func (emptyGetter) Get(string) string       { return "" }
func (emptyGetter) GetAll(string) []string  { return nil }
func (emptyGetter) Has(string) bool         { return false }
