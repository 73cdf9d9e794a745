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
	"fmt"
	"sort"
	"strings"
	"sync"

	"rivaas.dev/web/urls"
)

// HandlerRef is the opaque handler identity stored in the route table.
// The app layer keys its binder specs and invocation closures by it.
type HandlerRef any

// Match is a successful resolution: the handler to invoke, the captured
// path parameters, and the pattern that matched.
type Match struct {
	Handler HandlerRef
	Params  map[string]string
	Pattern *Pattern
}

// entry pairs a compiled pattern with its handler, in registration order.
type entry struct {
	pattern *Pattern
	handler HandlerRef
	order   int
}

// Router maps (HTTP method, compiled pattern) to handler identities.
//
// Lifecycle: routes are registered during a single-threaded configuration
// phase, then [Router.Freeze] sorts each method's patterns by specificity
// once and makes the table immutable. Resolution after Freeze is lock-free
// because no writer exists during traffic.
type Router struct {
	mu      sync.Mutex
	frozen  bool
	entries map[string][]entry
	// static holds method → decoded-path → entry for literal-only
	// patterns, consulted before the ordered scan.
	static map[string]map[string]*entry
	count  int
}

// NewRouter creates an empty Router.
func NewRouter() *Router {
	return &Router{
		entries: make(map[string][]entry),
		static:  make(map[string]map[string]*entry),
	}
}

// Register compiles pattern and inserts it into the table under method.
//
// Errors wrap [ErrInvalidPattern] when compilation fails,
// [ErrDuplicateRoute] when a semantically identical pattern is already
// registered for the method, and [ErrTableFrozen] after Freeze. All are
// startup-time errors: the caller must abort server start on any of them.
//
// Example:
//
//	if err := r.Register("GET", "/api/cats/:id", handlerRef); err != nil {
//	    return err
//	}
func (r *Router) Register(method, pattern string, handler HandlerRef) error {
	compiled, err := Compile(pattern)
	if err != nil {
		return err
	}

	return r.RegisterPattern(method, compiled, handler)
}

// RegisterPattern inserts an already-compiled pattern.
func (r *Router) RegisterPattern(method string, pattern *Pattern, handler HandlerRef) error {
	method = strings.ToUpper(method)

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return fmt.Errorf("%w: cannot register %s %s", ErrTableFrozen, method, pattern.Text())
	}
	for _, existing := range r.entries[method] {
		if existing.pattern.Equivalent(pattern) {
			return fmt.Errorf("%w: %s %s conflicts with %s",
				ErrDuplicateRoute, method, pattern.Text(), existing.pattern.Text())
		}
	}

	r.entries[method] = append(r.entries[method], entry{
		pattern: pattern,
		handler: handler,
		order:   r.count,
	})
	r.count++

	return nil
}

// Freeze sorts every method's patterns by specificity (stable, so equally
// specific patterns keep first-registered-wins order) and builds the
// static fast path. After Freeze the table is immutable; further
// registration fails with [ErrTableFrozen].
//
// Freeze is idempotent.
func (r *Router) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return
	}
	r.frozen = true

	for method, list := range r.entries {
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].pattern.moreSpecific(list[j].pattern)
		})

		byPath := make(map[string]*entry)
		for i := range list {
			e := &list[i]
			if e.pattern.IsStatic() {
				byPath[staticKey(e.pattern)] = e
			}
		}
		r.static[method] = byPath
		r.entries[method] = list
	}
}

// staticKey is the canonical decoded path of a literal-only pattern.
func staticKey(p *Pattern) string {
	if len(p.Segments()) == 0 {
		return "/"
	}
	var b strings.Builder
	for _, s := range p.Segments() {
		b.WriteByte('/')
		b.WriteString(s.Text)
	}

	return b.String()
}

// Resolve matches (method, path) against the frozen table.
//
// It returns a [Match] on success; [ErrNotFound] when nothing matches the
// path under any method; a [MethodNotAllowedError] carrying the sorted
// Allow list when the path matches only under other methods; and
// [urls.ErrInvalidURL] when the path contains a malformed percent escape.
//
// Resolve must only be called after [Router.Freeze]; it performs no
// locking.
func (r *Router) Resolve(method, path string) (*Match, error) {
	method = strings.ToUpper(method)

	u, err := urls.Parse([]byte(path))
	if err != nil {
		return nil, err
	}
	segments, err := u.PathSegments()
	if err != nil {
		return nil, err
	}

	if m := r.resolveMethod(method, segments); m != nil {
		return m, nil
	}

	// Distinguish 405 from 404: scan the other methods for a pattern that
	// would have matched this path.
	var allow []string
	scratch := make(map[string]string)
	for otherMethod, list := range r.entries {
		if otherMethod == method {
			continue
		}
		for i := range list {
			clear(scratch)
			if list[i].pattern.Match(segments, scratch) {
				allow = append(allow, otherMethod)
				break
			}
		}
	}
	if len(allow) > 0 {
		sort.Strings(allow)

		return nil, &MethodNotAllowedError{Method: method, Path: path, Allow: allow}
	}

	return nil, fmt.Errorf("%w: %s %s", ErrNotFound, method, path)
}

// resolveMethod matches the decoded segments against one method's
// patterns: static fast path first, then the specificity-ordered scan.
func (r *Router) resolveMethod(method string, segments []string) *Match {
	if byPath := r.static[method]; byPath != nil {
		key := "/"
		if len(segments) > 0 {
			key = "/" + strings.Join(segments, "/")
		}
		// The joined key can be forged by an encoded slash inside a
		// segment ("/a%2Fb" joins to "/a/b"), so a hit only counts when
		// the segments really match the compiled pattern.
		if e := byPath[key]; e != nil && e.pattern.Match(segments, nil) {
			return &Match{Handler: e.handler, Params: map[string]string{}, Pattern: e.pattern}
		}
	}

	for i := range r.entries[method] {
		e := &r.entries[method][i]
		params := make(map[string]string, len(e.pattern.ParameterNames()))
		if e.pattern.Match(segments, params) {
			return &Match{Handler: e.handler, Params: params, Pattern: e.pattern}
		}
	}

	return nil
}

// Routes returns every registered (method, pattern) pair in registration
// order, for startup logging and diagnostics.
func (r *Router) Routes() []RouteInfo {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []RouteInfo
	for method, list := range r.entries {
		for _, e := range list {
			out = append(out, RouteInfo{Method: method, Pattern: e.pattern.Text(), order: e.order})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].order < out[j].order })

	return out
}

// RouteInfo describes one registered route.
type RouteInfo struct {
	Method  string
	Pattern string
	order   int
}
