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

package urls

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Absolute(t *testing.T) {
	t.Parallel()

	u, err := Parse([]byte("https://example.org:8443/api/cats?page=2&size=10"))
	require.NoError(t, err)

	assert.True(t, u.IsAbsolute())
	assert.Equal(t, "https", u.Scheme())
	assert.Equal(t, "example.org", u.Host())
	assert.Equal(t, uint16(8443), u.Port())
	assert.Equal(t, []byte("/api/cats"), u.Path())
	assert.Equal(t, []byte("page=2&size=10"), u.RawQuery())
}

func TestParse_Relative(t *testing.T) {
	t.Parallel()

	u, err := Parse([]byte("/api/cats"))
	require.NoError(t, err)

	assert.False(t, u.IsAbsolute())
	assert.Empty(t, u.Scheme())
	assert.Empty(t, u.Host())
	assert.Zero(t, u.Port())
	assert.False(t, u.HasQuery())
}

func TestParse_Normalization(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		path  string
	}{
		{"missing leading slash", "api/cats", "/api/cats"},
		{"host only", "https://example.org", "/"},
		{"host with query only", "https://example.org?a=1", "/"},
		{"empty path before query", "?a=1", "/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			u, err := Parse([]byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.path, string(u.Path()))
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"space", "/a b"},
		{"control char", "/a\x01b"},
		{"missing host", "https:///path"},
		{"bad port", "https://example.org:99999/"},
		{"non-numeric port", "https://example.org:abc/"},
		{"bad scheme", "1ttp://example.org/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse([]byte(tt.input))
			require.ErrorIs(t, err, ErrInvalidURL)
		})
	}
}

// Round-trip property: re-parsing the serialized form yields an equal URL.
func TestBytes_RoundTrip(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"/",
		"/api/cats",
		"/api/cats?page=2",
		"/api/cats?",
		"/a%20b/c%2Fd",
		"http://example.org/",
		"https://example.org:8443/api/cats?page=2&page=3",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			t.Parallel()

			first, err := Parse([]byte(input))
			require.NoError(t, err)
			second, err := Parse(first.Bytes())
			require.NoError(t, err)
			assert.True(t, first.Equal(second), "round-trip mismatch: %q vs %q", first, second)
		})
	}
}

func TestJoin(t *testing.T) {
	t.Parallel()

	base := MustParse("https://example.org:8443/ignored?x=1")

	t.Run("relative against absolute base", func(t *testing.T) {
		t.Parallel()

		joined, err := MustParse("/api/cats?page=2").Join(base)
		require.NoError(t, err)
		assert.Equal(t, "https://example.org:8443/api/cats?page=2", joined.String())
	})

	t.Run("relative base fails", func(t *testing.T) {
		t.Parallel()

		_, err := MustParse("/api").Join(MustParse("/base"))
		require.ErrorIs(t, err, ErrRelativeBase)
	})

	t.Run("absolute receiver fails", func(t *testing.T) {
		t.Parallel()

		_, err := MustParse("https://other.org/x").Join(base)
		require.ErrorIs(t, err, ErrAbsoluteJoin)
	})
}

func TestWithQuery(t *testing.T) {
	t.Parallel()

	u := MustParse("/api/cats?page=2")
	replaced := u.WithQuery([]byte("page=9"))

	assert.Equal(t, "/api/cats?page=9", replaced.String())
	assert.Equal(t, "/api/cats?page=2", u.String(), "original must be untouched")

	removed := u.WithQuery(nil)
	assert.Equal(t, "/api/cats", removed.String())
	assert.False(t, removed.HasQuery())
}

func TestPathSegments(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"root", "/", nil},
		{"plain", "/api/cats", []string{"api", "cats"}},
		{"trailing slash", "/api/cats/", []string{"api", "cats"}},
		{"interior empty kept", "/api//cats", []string{"api", "", "cats"}},
		{"percent decoded", "/a%20b/c%2Fd", []string{"a b", "c/d"}},
		{"plus is literal", "/a+b", []string{"a+b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			segments, err := MustParse(tt.input).PathSegments()
			require.NoError(t, err)
			assert.Equal(t, tt.expected, segments)
		})
	}
}

func TestPathSegments_InvalidEscape(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"/a%2", "/a%zz", "/a%"} {
		t.Run(input, func(t *testing.T) {
			t.Parallel()

			_, err := MustParse(input).PathSegments()
			require.ErrorIs(t, err, ErrInvalidURL)
		})
	}
}

func TestDecodePercent(t *testing.T) {
	t.Parallel()

	decoded, err := DecodePercent([]byte("caf%C3%A9"))
	require.NoError(t, err)
	assert.Equal(t, "café", decoded)
}
