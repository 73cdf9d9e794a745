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
)

func TestCompile_Notations(t *testing.T) {
	t.Parallel()

	colon, err := Compile("/api/cats/:cat_id")
	require.NoError(t, err)
	brace, err := Compile("/api/cats/{cat_id}")
	require.NoError(t, err)

	assert.True(t, colon.Equivalent(brace), "colon and brace notations are interchangeable")
	assert.Equal(t, []string{"cat_id"}, colon.ParameterNames())
	assert.Equal(t, []string{"cat_id"}, brace.ParameterNames())
}

func TestCompile_CatchAll(t *testing.T) {
	t.Parallel()

	p, err := Compile("/files/*path")
	require.NoError(t, err)
	assert.True(t, p.HasCatchAll())
	assert.Equal(t, []string{"path"}, p.ParameterNames())

	bare, err := Compile("/files/*")
	require.NoError(t, err)
	assert.Equal(t, []string{DefaultCatchAllName}, bare.ParameterNames())
}

func TestCompile_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		pattern string
	}{
		{"catch-all not last", "/files/*path/extra"},
		{"duplicate parameter", "/a/:id/b/:id"},
		{"duplicate across notations", "/a/:id/b/{id}"},
		{"empty parameter name", "/a/:"},
		{"unterminated brace", "/a/{id"},
		{"empty brace", "/a/{}"},
		{"no leading slash", "api/cats"},
		{"empty middle segment", "/a//b"},
		{"stray star", "/a/b*c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Compile(tt.pattern)
			require.ErrorIs(t, err, ErrInvalidPattern)
		})
	}
}

func TestCompile_Root(t *testing.T) {
	t.Parallel()

	for _, text := range []string{"", "/"} {
		p, err := Compile(text)
		require.NoError(t, err)
		assert.Empty(t, p.Segments())
		assert.True(t, p.IsStatic())
	}
}

func TestPattern_Match(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		pattern  string
		segments []string
		matched  bool
		params   map[string]string
	}{
		{"literal", "/api/cats", []string{"api", "cats"}, true, map[string]string{}},
		{"literal mismatch", "/api/cats", []string{"api", "dogs"}, false, nil},
		{"length mismatch", "/api/cats", []string{"api"}, false, nil},
		{"parameter capture", "/api/cats/:id", []string{"api", "cats", "42"}, true,
			map[string]string{"id": "42"}},
		{"parameter rejects empty segment", "/api/cats/:id", []string{"api", "cats", ""}, false, nil},
		{"catch-all remainder", "/files/*rest", []string{"files", "a", "b", "c"}, true,
			map[string]string{"rest": "a/b/c"}},
		{"catch-all empty remainder", "/files/*rest", []string{"files"}, true,
			map[string]string{"rest": ""}},
		{"catch-all prefix mismatch", "/files/*rest", []string{"docs", "a"}, false, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			params := make(map[string]string)
			matched := MustCompile(tt.pattern).Match(tt.segments, params)
			assert.Equal(t, tt.matched, matched)
			if tt.matched {
				assert.Equal(t, tt.params, params)
			}
		})
	}
}

func TestPattern_Equivalent(t *testing.T) {
	t.Parallel()

	assert.True(t, MustCompile("/cats/:id").Equivalent(MustCompile("/cats/{other}")))
	assert.False(t, MustCompile("/cats/:id").Equivalent(MustCompile("/dogs/:id")))
	assert.False(t, MustCompile("/cats/:id").Equivalent(MustCompile("/cats/:id/toys")))
	assert.False(t, MustCompile("/cats/*rest").Equivalent(MustCompile("/cats/:id")))
}
