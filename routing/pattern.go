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

// Package routing implements route pattern compilation and the immutable
// method/pattern table that resolves incoming requests to handlers.
//
// A pattern is compiled once at registration into a sequence of literal,
// parameter, and catch-all segments. Two parameter notations are accepted
// and normalized to the same internal form, so ":id" and "{id}" are
// interchangeable:
//
//	/api/cats/:cat_id
//	/api/cats/{cat_id}
//	/files/*path
//
// After [Router.Freeze] the table is immutable and resolution is lock-free.
package routing

import (
	"fmt"
	"strings"
)

// SegmentKind discriminates the three pattern segment types.
type SegmentKind int

const (
	// SegmentLiteral matches its text byte-for-byte against the
	// percent-decoded incoming segment.
	SegmentLiteral SegmentKind = iota
	// SegmentParameter matches any single segment and captures it.
	SegmentParameter
	// SegmentCatchAll captures the remainder of the path. It must be the
	// final segment of a pattern.
	SegmentCatchAll
)

// DefaultCatchAllName is the capture name used for a bare "*" catch-all.
const DefaultCatchAllName = "tail"

// Segment is one compiled pattern segment.
type Segment struct {
	Kind SegmentKind
	// Text is the literal text for SegmentLiteral segments.
	Text string
	// Name is the capture name for parameter and catch-all segments.
	Name string
}

// Pattern is a compiled route pattern: an ordered segment sequence with at
// most one trailing catch-all. Patterns are immutable after [Compile].
type Pattern struct {
	text     string
	segments []Segment
	catchAll bool
}

// Compile compiles a textual path pattern.
//
// Parameter segments use either the colon-prefixed (":id") or the
// brace-delimited ("{id}") notation. A segment of the form "*name" (or a
// bare "*", captured as "tail") is a catch-all and must be last. Parameter
// names within one pattern must be unique.
//
// Errors wrap [ErrInvalidPattern].
func Compile(text string) (*Pattern, error) {
	normalized := text
	if normalized == "" {
		normalized = "/"
	}
	if normalized[0] != '/' {
		return nil, fmt.Errorf("%w: %q must start with '/'", ErrInvalidPattern, text)
	}

	p := &Pattern{text: normalized}
	seen := make(map[string]bool)

	raw := strings.Split(strings.Trim(normalized, "/"), "/")
	for i, part := range raw {
		if part == "" {
			if len(raw) == 1 {
				break // Root pattern "/"
			}

			return nil, fmt.Errorf("%w: %q has an empty segment", ErrInvalidPattern, text)
		}

		seg, err := compileSegment(part)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidPattern, text, err)
		}

		if p.catchAll {
			return nil, fmt.Errorf("%w: %q has segments after a catch-all", ErrInvalidPattern, text)
		}
		if seg.Kind == SegmentCatchAll {
			if i != len(raw)-1 {
				return nil, fmt.Errorf("%w: %q has segments after a catch-all", ErrInvalidPattern, text)
			}
			p.catchAll = true
		}
		if seg.Kind != SegmentLiteral {
			if seen[seg.Name] {
				return nil, fmt.Errorf("%w: %q repeats parameter %q", ErrInvalidPattern, text, seg.Name)
			}
			seen[seg.Name] = true
		}

		p.segments = append(p.segments, seg)
	}

	return p, nil
}

// MustCompile is like [Compile] but panics on error. Use in tests and
// static route tables.
func MustCompile(text string) *Pattern {
	p, err := Compile(text)
	if err != nil {
		panic(err)
	}

	return p
}

func compileSegment(part string) (Segment, error) {
	switch {
	case part == "*":
		return Segment{Kind: SegmentCatchAll, Name: DefaultCatchAllName}, nil

	case part[0] == '*':
		return Segment{Kind: SegmentCatchAll, Name: part[1:]}, nil

	case part[0] == ':':
		name := part[1:]
		if name == "" {
			return Segment{}, fmt.Errorf("parameter segment %q has no name", part)
		}

		return Segment{Kind: SegmentParameter, Name: name}, nil

	case part[0] == '{':
		if !strings.HasSuffix(part, "}") {
			return Segment{}, fmt.Errorf("unterminated brace segment %q", part)
		}
		name := part[1 : len(part)-1]
		if name == "" || strings.ContainsAny(name, "{}") {
			return Segment{}, fmt.Errorf("malformed brace segment %q", part)
		}

		return Segment{Kind: SegmentParameter, Name: name}, nil

	case strings.ContainsAny(part, "{}*"):
		return Segment{}, fmt.Errorf("malformed segment %q", part)

	default:
		return Segment{Kind: SegmentLiteral, Text: part}, nil
	}
}

// Text returns the pattern as registered.
func (p *Pattern) Text() string { return p.text }

// Segments returns the compiled segments. The slice must not be modified.
func (p *Pattern) Segments() []Segment { return p.segments }

// HasCatchAll reports whether the pattern ends in a catch-all segment.
func (p *Pattern) HasCatchAll() bool { return p.catchAll }

// IsStatic reports whether the pattern consists of literals only.
func (p *Pattern) IsStatic() bool {
	for _, s := range p.segments {
		if s.Kind != SegmentLiteral {
			return false
		}
	}

	return true
}

// ParameterNames returns the capture names in segment order.
func (p *Pattern) ParameterNames() []string {
	var names []string
	for _, s := range p.segments {
		if s.Kind != SegmentLiteral {
			names = append(names, s.Name)
		}
	}

	return names
}

// Equivalent reports whether two patterns match the same set of paths.
// Capture names are ignored: "/cats/:id" and "/cats/{cat_id}" collide.
// Registration uses this to detect duplicates.
func (p *Pattern) Equivalent(other *Pattern) bool {
	if len(p.segments) != len(other.segments) || p.catchAll != other.catchAll {
		return false
	}
	for i := range p.segments {
		a, b := p.segments[i], other.segments[i]
		if a.Kind != b.Kind {
			return false
		}
		if a.Kind == SegmentLiteral && a.Text != b.Text {
			return false
		}
	}

	return true
}

// Match matches percent-decoded path segments against the pattern,
// appending captures to params. It reports whether the path matched.
//
// A parameter segment requires a non-empty value, so a path with an
// interior empty segment ("/a//b") never matches. A catch-all captures
// the remaining segments re-joined with "/". A path that ends exactly at
// the catch-all yields an empty capture, so a pattern matches any path at
// least as long as its fixed prefix.
func (p *Pattern) Match(pathSegments []string, params map[string]string) bool {
	if !p.catchAll && len(pathSegments) != len(p.segments) {
		return false
	}
	if p.catchAll && len(pathSegments) < len(p.segments)-1 {
		return false
	}

	for i, seg := range p.segments {
		switch seg.Kind {
		case SegmentLiteral:
			if pathSegments[i] != seg.Text {
				return false
			}
		case SegmentParameter:
			if pathSegments[i] == "" {
				return false
			}
			params[seg.Name] = pathSegments[i]
		case SegmentCatchAll:
			if i >= len(pathSegments) {
				params[seg.Name] = ""
			} else {
				params[seg.Name] = strings.Join(pathSegments[i:], "/")
			}
			return true
		}
	}

	return true
}

// moreSpecific reports whether p outranks other when both could match the
// same path. Literal segments outrank parameter segments position by
// position; a catch-all ranks below everything of equal prefix. Patterns
// that tie keep their registration order (the sort is stable).
func (p *Pattern) moreSpecific(other *Pattern) bool {
	limit := min(len(p.segments), len(other.segments))
	for i := range limit {
		ra, rb := segmentRank(p.segments[i]), segmentRank(other.segments[i])
		if ra != rb {
			return ra > rb
		}
	}
	// Longer fixed prefix wins between catch-all patterns
	if p.catchAll != other.catchAll {
		return other.catchAll
	}

	return false
}

// segmentRank orders segment kinds for precedence: literal > parameter >
// catch-all.
func segmentRank(s Segment) int {
	switch s.Kind {
	case SegmentLiteral:
		return 2
	case SegmentParameter:
		return 1
	default:
		return 0
	}
}
