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

// Package headers implements the ordered, case-insensitive header and
// cookie collections consumed and produced by the request pipeline.
//
// A [Collection] preserves insertion order among values of the same name,
// which is what header serialization must round-trip; order across distinct
// names carries no meaning.
package headers

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMultipleValues is returned by [Collection.GetSingle] when a header
// carries more than one value but exactly one was required.
var ErrMultipleValues = errors.New("header has multiple values")

// Header is one (name, value) pair.
type Header struct {
	Name  string
	Value string
}

// Collection is an ordered multi-value header container with
// case-insensitive name lookup.
//
// The zero value is ready to use. Collection is not safe for concurrent
// mutation; a request's collection is owned by its request task.
type Collection struct {
	pairs []Header
}

// NewCollection creates a Collection from initial pairs.
//
// Example:
//
//	h := headers.NewCollection(
//	    headers.Header{Name: "Accept", Value: "application/json"},
//	)
func NewCollection(pairs ...Header) *Collection {
	c := &Collection{}
	for _, p := range pairs {
		c.Add(p.Name, p.Value)
	}

	return c
}

// Add appends a header without deduplication. Repeated names accumulate in
// insertion order.
func (c *Collection) Add(name, value string) {
	c.pairs = append(c.pairs, Header{Name: name, Value: value})
}

// Set removes all values for name and appends a single replacement.
func (c *Collection) Set(name, value string) {
	c.Remove(name)
	c.Add(name, value)
}

// Remove deletes every value for name. Lookup is case-insensitive.
func (c *Collection) Remove(name string) {
	kept := c.pairs[:0]
	for _, p := range c.pairs {
		if !strings.EqualFold(p.Name, name) {
			kept = append(kept, p)
		}
	}
	c.pairs = kept
}

// Get returns all values for name in insertion order. Absent names yield an
// empty slice, never an error.
func (c *Collection) Get(name string) []string {
	var values []string
	for _, p := range c.pairs {
		if strings.EqualFold(p.Name, name) {
			values = append(values, p.Value)
		}
	}

	return values
}

// GetFirst returns the first value for name, or "" when absent.
func (c *Collection) GetFirst(name string) string {
	for _, p := range c.pairs {
		if strings.EqualFold(p.Name, name) {
			return p.Value
		}
	}

	return ""
}

// GetSingle returns the sole value for name. It fails with
// [ErrMultipleValues] when the header repeats; an absent name returns "".
func (c *Collection) GetSingle(name string) (string, error) {
	values := c.Get(name)
	if len(values) > 1 {
		return "", fmt.Errorf("%w: %q has %d values", ErrMultipleValues, name, len(values))
	}
	if len(values) == 0 {
		return "", nil
	}

	return values[0], nil
}

// Has reports whether at least one value exists for name.
func (c *Collection) Has(name string) bool {
	for _, p := range c.pairs {
		if strings.EqualFold(p.Name, name) {
			return true
		}
	}

	return false
}

// Len returns the total number of (name, value) pairs.
func (c *Collection) Len() int { return len(c.pairs) }

// All returns the pairs in insertion order. The returned slice is a copy.
func (c *Collection) All() []Header {
	out := make([]Header, len(c.pairs))
	copy(out, c.pairs)

	return out
}

// Names returns the distinct header names in first-seen order, preserving
// the original casing of the first occurrence.
func (c *Collection) Names() []string {
	var names []string
	seen := make(map[string]bool, len(c.pairs))
	for _, p := range c.pairs {
		key := strings.ToLower(p.Name)
		if !seen[key] {
			seen[key] = true
			names = append(names, p.Name)
		}
	}

	return names
}

// Clone returns an independent copy of the collection.
func (c *Collection) Clone() *Collection {
	clone := &Collection{pairs: make([]Header, len(c.pairs))}
	copy(clone.pairs, c.pairs)

	return clone
}

// Serialize writes the collection as CRLF-terminated header lines.
// Parsing the output with [ParseLines] reproduces the same semantic
// multimap: per-name value order is preserved.
func (c *Collection) Serialize() []byte {
	var b strings.Builder
	for _, p := range c.pairs {
		b.WriteString(p.Name)
		b.WriteString(": ")
		b.WriteString(p.Value)
		b.WriteString("\r\n")
	}

	return []byte(b.String())
}

// ParseLines parses CRLF- or LF-terminated "Name: value" lines into a
// Collection. Malformed lines without a colon are skipped; a transport
// layer that cares about strictness rejects them before this point.
func ParseLines(raw []byte) *Collection {
	c := &Collection{}
	for line := range strings.SplitSeq(string(raw), "\n") {
		line = strings.TrimSuffix(line, "\r")
		if line == "" {
			continue
		}
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		c.Add(strings.TrimSpace(name), strings.TrimSpace(value))
	}

	return c
}
