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

package headers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollection_AddAndGet(t *testing.T) {
	t.Parallel()

	c := &Collection{}
	c.Add("Accept", "application/json")
	c.Add("X-Trace", "a")
	c.Add("X-Trace", "b")

	assert.Equal(t, []string{"a", "b"}, c.Get("X-Trace"))
	assert.Equal(t, []string{"a", "b"}, c.Get("x-trace"), "lookup is case-insensitive")
	assert.Empty(t, c.Get("Missing"), "absent name yields empty, never an error")
	assert.Equal(t, "a", c.GetFirst("X-Trace"))
	assert.True(t, c.Has("accept"))
	assert.Equal(t, 3, c.Len())
}

func TestCollection_GetSingle(t *testing.T) {
	t.Parallel()

	c := &Collection{}
	c.Add("Content-Type", "application/json")

	value, err := c.GetSingle("content-type")
	require.NoError(t, err)
	assert.Equal(t, "application/json", value)

	c.Add("Content-Type", "text/plain")
	_, err = c.GetSingle("Content-Type")
	require.ErrorIs(t, err, ErrMultipleValues)

	value, err = c.GetSingle("Missing")
	require.NoError(t, err)
	assert.Empty(t, value)
}

func TestCollection_SetAndRemove(t *testing.T) {
	t.Parallel()

	c := &Collection{}
	c.Add("X-Trace", "a")
	c.Add("x-trace", "b")
	c.Set("X-Trace", "c")

	assert.Equal(t, []string{"c"}, c.Get("X-Trace"))

	c.Remove("x-TRACE")
	assert.False(t, c.Has("X-Trace"))
}

// Serialize→parse must reproduce the same per-name value order.
func TestCollection_SerializeRoundTrip(t *testing.T) {
	t.Parallel()

	c := &Collection{}
	c.Add("X-Trace", "first")
	c.Add("Accept", "application/json")
	c.Add("X-Trace", "second")
	c.Add("X-Trace", "third")

	parsed := ParseLines(c.Serialize())

	for _, name := range []string{"X-Trace", "Accept"} {
		assert.Equal(t, c.Get(name), parsed.Get(name), "order of %q values must survive", name)
	}
	assert.Equal(t, c.Len(), parsed.Len())
}

func TestCollection_Names(t *testing.T) {
	t.Parallel()

	c := &Collection{}
	c.Add("X-Trace", "a")
	c.Add("Accept", "json")
	c.Add("x-trace", "b")

	assert.Equal(t, []string{"X-Trace", "Accept"}, c.Names())
}

func TestCollection_Clone(t *testing.T) {
	t.Parallel()

	c := &Collection{}
	c.Add("A", "1")
	clone := c.Clone()
	clone.Add("A", "2")

	assert.Equal(t, []string{"1"}, c.Get("A"))
	assert.Equal(t, []string{"1", "2"}, clone.Get("A"))
}
