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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/web/urls"
)

func newFrozenRouter(t *testing.T, routes ...[2]string) *Router {
	t.Helper()

	r := NewRouter()
	for _, route := range routes {
		require.NoError(t, r.Register(route[0], route[1], route[1]))
	}
	r.Freeze()

	return r
}

func TestRouter_ResolveLiteral(t *testing.T) {
	t.Parallel()

	r := newFrozenRouter(t, [2]string{"GET", "/api/cats"})

	m, err := r.Resolve("GET", "/api/cats")
	require.NoError(t, err)
	assert.Equal(t, "/api/cats", m.Handler)
	assert.Empty(t, m.Params)
}

func TestRouter_ResolveParams(t *testing.T) {
	t.Parallel()

	r := newFrozenRouter(t, [2]string{"GET", "/orders/:id"})

	m, err := r.Resolve("GET", "/orders/7")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"id": "7"}, m.Params)
}

// Literal segments outrank parameter segments regardless of registration
// order.
func TestRouter_Precedence(t *testing.T) {
	t.Parallel()

	orders := [][][2]string{
		{{"GET", "/users/:id"}, {"GET", "/users/me"}},
		{{"GET", "/users/me"}, {"GET", "/users/:id"}},
	}

	for _, routes := range orders {
		r := newFrozenRouter(t, routes...)

		m, err := r.Resolve("GET", "/users/me")
		require.NoError(t, err)
		assert.Equal(t, "/users/me", m.Handler)

		m, err = r.Resolve("GET", "/users/42")
		require.NoError(t, err)
		assert.Equal(t, "/users/:id", m.Handler)
		assert.Equal(t, "42", m.Params["id"])
	}
}

func TestRouter_CatchAll(t *testing.T) {
	t.Parallel()

	r := newFrozenRouter(t, [2]string{"GET", "/files/*rest"})

	m, err := r.Resolve("GET", "/files/a/b/c")
	require.NoError(t, err)
	assert.Equal(t, "a/b/c", m.Params["rest"])
}

func TestRouter_CatchAllRanksLast(t *testing.T) {
	t.Parallel()

	r := newFrozenRouter(t,
		[2]string{"GET", "/files/*rest"},
		[2]string{"GET", "/files/latest"},
		[2]string{"GET", "/files/:name"},
	)

	m, err := r.Resolve("GET", "/files/latest")
	require.NoError(t, err)
	assert.Equal(t, "/files/latest", m.Handler)

	m, err = r.Resolve("GET", "/files/report")
	require.NoError(t, err)
	assert.Equal(t, "/files/:name", m.Handler)

	m, err = r.Resolve("GET", "/files/2025/q3/report")
	require.NoError(t, err)
	assert.Equal(t, "/files/*rest", m.Handler)
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	t.Parallel()

	r := newFrozenRouter(t,
		[2]string{"GET", "/items"},
		[2]string{"DELETE", "/items"},
	)

	_, err := r.Resolve("POST", "/items")

	var mna *MethodNotAllowedError
	require.ErrorAs(t, err, &mna)
	assert.Equal(t, []string{"DELETE", "GET"}, mna.Allow)
	assert.Equal(t, "DELETE, GET", mna.AllowHeader())
	assert.Equal(t, 405, mna.HTTPStatus())
}

func TestRouter_NotFound(t *testing.T) {
	t.Parallel()

	r := newFrozenRouter(t, [2]string{"GET", "/items"})

	_, err := r.Resolve("GET", "/nothing")
	require.ErrorIs(t, err, ErrNotFound)

	// A path that matches nowhere is 404 even under a different method.
	_, err = r.Resolve("POST", "/nothing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRouter_DuplicateRoute(t *testing.T) {
	t.Parallel()

	r := NewRouter()
	require.NoError(t, r.Register("GET", "/cats/:id", 1))

	err := r.Register("GET", "/cats/{cat_id}", 2)
	require.ErrorIs(t, err, ErrDuplicateRoute)

	// Same pattern under a different method is fine.
	require.NoError(t, r.Register("POST", "/cats/:id", 3))
}

func TestRouter_FrozenRejectsRegistration(t *testing.T) {
	t.Parallel()

	r := newFrozenRouter(t, [2]string{"GET", "/items"})

	err := r.Register("GET", "/more", 1)
	require.ErrorIs(t, err, ErrTableFrozen)
}

func TestRouter_InvalidPatternSurfaces(t *testing.T) {
	t.Parallel()

	r := NewRouter()
	err := r.Register("GET", "/files/*rest/extra", 1)
	require.ErrorIs(t, err, ErrInvalidPattern)
}

// Literal matching happens against the percent-decoded incoming path.
func TestRouter_ResolveDecodesPath(t *testing.T) {
	t.Parallel()

	r := newFrozenRouter(t, [2]string{"GET", "/tags/:name"})

	m, err := r.Resolve("GET", "/tags/caf%C3%A9")
	require.NoError(t, err)
	assert.Equal(t, "café", m.Params["name"])

	_, err = r.Resolve("GET", "/tags/%zz")
	require.ErrorIs(t, err, urls.ErrInvalidURL)
}

// An encoded slash stays inside its segment: "/a%2Fb" is the single
// segment "a/b", not the two-segment literal path "/a/b".
func TestRouter_EncodedSlashStaysOneSegment(t *testing.T) {
	t.Parallel()

	r := newFrozenRouter(t,
		[2]string{"GET", "/a/b"},
		[2]string{"GET", "/:x"},
	)

	m, err := r.Resolve("GET", "/a%2Fb")
	require.NoError(t, err)
	assert.Equal(t, "/:x", m.Handler)
	assert.Equal(t, "a/b", m.Params["x"])

	m, err = r.Resolve("GET", "/a/b")
	require.NoError(t, err)
	assert.Equal(t, "/a/b", m.Handler)
}

// Consecutive slashes do not collapse: "/a//b" matches neither the
// literal "/a/b" nor a parameter route, because a parameter never
// captures an empty segment.
func TestRouter_EmptySegmentNeverMatches(t *testing.T) {
	t.Parallel()

	r := newFrozenRouter(t,
		[2]string{"GET", "/a/b"},
		[2]string{"GET", "/a/:x/b"},
	)

	_, err := r.Resolve("GET", "/a//b")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = r.Resolve("GET", "/a///b")
	require.ErrorIs(t, err, ErrNotFound)

	// A single trailing slash is still tolerated.
	m, err := r.Resolve("GET", "/a/b/")
	require.NoError(t, err)
	assert.Equal(t, "/a/b", m.Handler)
}

func TestRouter_MethodCaseInsensitive(t *testing.T) {
	t.Parallel()

	r := newFrozenRouter(t, [2]string{"get", "/items"})

	_, err := r.Resolve("GET", "/items")
	require.NoError(t, err)
}

func TestRouter_RootPattern(t *testing.T) {
	t.Parallel()

	r := newFrozenRouter(t, [2]string{"GET", "/"})

	m, err := r.Resolve("GET", "/")
	require.NoError(t, err)
	assert.Equal(t, "/", m.Handler)
}

func TestRouter_Routes(t *testing.T) {
	t.Parallel()

	r := NewRouter()
	require.NoError(t, r.Register("GET", "/a", 1))
	require.NoError(t, r.Register("POST", "/b", 2))

	infos := r.Routes()
	require.Len(t, infos, 2)
	assert.Equal(t, "GET", infos[0].Method)
	assert.Equal(t, "/a", infos[0].Pattern)
	assert.Equal(t, "POST", infos[1].Method)
}
