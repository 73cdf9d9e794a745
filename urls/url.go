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

// Package urls implements the immutable URL value used throughout the
// request pipeline.
//
// Unlike net/url, a URL here keeps path and query as raw bytes so that
// serialization round-trips exactly; structured query decoding is the
// binding package's responsibility. A URL is immutable once constructed:
// every transform ([URL.WithQuery], [URL.Join]) returns a new instance.
package urls

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
)

// ErrInvalidURL is returned when a byte sequence cannot be parsed as a URL,
// or when percent-decoding encounters a malformed escape sequence.
var ErrInvalidURL = errors.New("invalid URL")

// ErrRelativeBase is returned by [URL.Join] when the base URL is relative.
// Only absolute URLs may serve as a join base.
var ErrRelativeBase = errors.New("join base must be an absolute URL")

// ErrAbsoluteJoin is returned by [URL.Join] when the receiver is already
// absolute and therefore cannot be re-based.
var ErrAbsoluteJoin = errors.New("cannot join an absolute URL against a base")

// URL is an immutable parsed URL.
//
// The zero value is not a valid URL; use [Parse] or [MustParse].
// Path always begins with "/" after normalization. A relative URL carries
// no scheme, host, or port.
type URL struct {
	scheme   string
	host     string
	port     uint16
	path     []byte
	query    []byte // nil when no "?" was present
	absolute bool
}

// Parse parses a byte sequence into a [URL].
//
// Absolute URLs carry a scheme ("https://host[:port]/path?query"); anything
// without "://" is treated as a relative URL and normalized so its path
// starts with "/". Query bytes are kept raw.
//
// Example:
//
//	u, err := urls.Parse([]byte("https://example.org:8443/api/cats?page=2"))
func Parse(value []byte) (*URL, error) {
	if len(value) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrInvalidURL)
	}
	for _, c := range value {
		if c <= 0x20 || c == 0x7f {
			return nil, fmt.Errorf("%w: control character or space in %q", ErrInvalidURL, value)
		}
	}

	u := &URL{}
	rest := value

	if i := bytes.Index(value, []byte("://")); i >= 0 {
		if err := u.parseAuthority(value[:i], value[i+3:]); err != nil {
			return nil, err
		}
		u.absolute = true
		after := value[i+3:]
		cut := bytes.IndexAny(after, "/?")
		if cut < 0 {
			// Host only, e.g. "https://example.org"
			u.path = []byte("/")
			return u, nil
		}
		rest = after[cut:]
	}

	path := rest
	if q := bytes.IndexByte(rest, '?'); q >= 0 {
		path = rest[:q]
		// Raw bytes after "?", possibly empty
		u.query = append([]byte(nil), rest[q+1:]...)
	}

	switch {
	case len(path) == 0:
		u.path = []byte("/")
	case path[0] != '/':
		u.path = append([]byte("/"), path...)
	default:
		u.path = append([]byte(nil), path...)
	}

	return u, nil
}

// MustParse is like [Parse] but panics on error.
// Use in tests and package initialization.
func MustParse(value string) *URL {
	u, err := Parse([]byte(value))
	if err != nil {
		panic(fmt.Sprintf("urls.MustParse(%q): %v", value, err))
	}

	return u
}

// parseAuthority splits "host[:port]" and validates the scheme.
func (u *URL) parseAuthority(scheme, rest []byte) error {
	if len(scheme) == 0 {
		return fmt.Errorf("%w: missing scheme", ErrInvalidURL)
	}
	for i, c := range scheme {
		ok := c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' ||
			i > 0 && (c >= '0' && c <= '9' || c == '+' || c == '-' || c == '.')
		if !ok {
			return fmt.Errorf("%w: invalid scheme %q", ErrInvalidURL, scheme)
		}
	}
	u.scheme = string(bytes.ToLower(scheme))

	authority := rest
	if slash := bytes.IndexByte(rest, '/'); slash >= 0 {
		authority = rest[:slash]
	}
	if q := bytes.IndexByte(authority, '?'); q >= 0 {
		authority = authority[:q]
	}
	if len(authority) == 0 {
		return fmt.Errorf("%w: missing host", ErrInvalidURL)
	}

	host := authority
	if colon := bytes.LastIndexByte(authority, ':'); colon >= 0 {
		host = authority[:colon]
		portBytes := authority[colon+1:]
		port, err := strconv.ParseUint(string(portBytes), 10, 16)
		if err != nil {
			return fmt.Errorf("%w: invalid port %q", ErrInvalidURL, portBytes)
		}
		u.port = uint16(port)
	}
	if len(host) == 0 {
		return fmt.Errorf("%w: missing host", ErrInvalidURL)
	}
	u.host = string(bytes.ToLower(host))

	return nil
}

// Scheme returns the URL scheme, or "" for relative URLs.
func (u *URL) Scheme() string { return u.scheme }

// Host returns the lowercase host, or "" for relative URLs.
func (u *URL) Host() string { return u.host }

// Port returns the explicit port, or 0 when none was given.
func (u *URL) Port() uint16 { return u.port }

// Path returns the raw path bytes. The slice must not be modified.
func (u *URL) Path() []byte { return u.path }

// RawQuery returns the raw query bytes after "?", or nil when the URL has
// no query component. The slice must not be modified.
func (u *URL) RawQuery() []byte { return u.query }

// HasQuery reports whether a "?" was present, even with an empty query.
func (u *URL) HasQuery() bool { return u.query != nil }

// IsAbsolute reports whether the URL carries a scheme and host.
func (u *URL) IsAbsolute() bool { return u.absolute }

// Bytes serializes the URL back to its wire form. Components that were
// absent are omitted, so Bytes round-trips with [Parse].
func (u *URL) Bytes() []byte {
	var buf bytes.Buffer
	if u.absolute {
		buf.WriteString(u.scheme)
		buf.WriteString("://")
		buf.WriteString(u.host)
		if u.port != 0 {
			buf.WriteByte(':')
			buf.WriteString(strconv.FormatUint(uint64(u.port), 10))
		}
	}
	buf.Write(u.path)
	if u.query != nil {
		buf.WriteByte('?')
		buf.Write(u.query)
	}

	return buf.Bytes()
}

// String returns the serialized URL as a string.
func (u *URL) String() string { return string(u.Bytes()) }

// Equal reports whether two URLs are semantically equal: same scheme, host,
// port, path bytes, and query bytes.
func (u *URL) Equal(other *URL) bool {
	if u == nil || other == nil {
		return u == other
	}

	return u.scheme == other.scheme &&
		u.host == other.host &&
		u.port == other.port &&
		u.absolute == other.absolute &&
		bytes.Equal(u.path, other.path) &&
		u.HasQuery() == other.HasQuery() &&
		bytes.Equal(u.query, other.query)
}

// Join re-bases a relative URL against an absolute base: the result keeps
// the base's scheme, host, and port and takes path and query from the
// receiver. Joining fails when the base is relative or the receiver is
// already absolute.
//
// Example:
//
//	base := urls.MustParse("https://example.org:8443/ignored")
//	u, err := urls.MustParse("/api/cats?page=2").Join(base)
//	// u.String() == "https://example.org:8443/api/cats?page=2"
func (u *URL) Join(base *URL) (*URL, error) {
	if base == nil || !base.absolute {
		return nil, ErrRelativeBase
	}
	if u.absolute {
		return nil, ErrAbsoluteJoin
	}

	return &URL{
		scheme:   base.scheme,
		host:     base.host,
		port:     base.port,
		path:     u.path,
		query:    u.query,
		absolute: true,
	}, nil
}

// WithQuery returns a copy of the URL with the raw query replaced.
// A nil query removes the component entirely.
func (u *URL) WithQuery(query []byte) *URL {
	clone := *u
	if query == nil {
		clone.query = nil
	} else {
		clone.query = append([]byte(nil), query...)
	}

	return &clone
}

// PathSegments splits the path on "/" and percent-decodes each segment.
// The empty segments produced by the leading slash and by a single
// trailing slash are dropped; interior empty segments ("/a//b") are
// preserved so consecutive slashes do not collapse into shorter paths.
// A malformed escape sequence fails with [ErrInvalidURL].
//
// Example:
//
//	urls.MustParse("/a%20b/c").PathSegments() // ["a b", "c"], nil
func (u *URL) PathSegments() ([]string, error) {
	// The path always starts with "/" after Parse, so the first split
	// part is empty.
	parts := bytes.Split(u.path, []byte{'/'})[1:]
	if n := len(parts); n > 0 && len(parts[n-1]) == 0 {
		parts = parts[:n-1]
	}

	var segments []string
	for _, part := range parts {
		decoded, err := DecodePercent(part)
		if err != nil {
			return nil, err
		}
		segments = append(segments, decoded)
	}

	return segments, nil
}

// DecodePercent percent-decodes a byte sequence per RFC 3986. Bytes outside
// escape sequences pass through untouched; "+" is not treated as a space.
// A truncated or non-hex escape fails with [ErrInvalidURL].
func DecodePercent(value []byte) (string, error) {
	// Fast path: nothing to decode
	if bytes.IndexByte(value, '%') < 0 {
		return string(value), nil
	}

	out := make([]byte, 0, len(value))
	for i := 0; i < len(value); i++ {
		c := value[i]
		if c != '%' {
			out = append(out, c)
			continue
		}
		if i+2 >= len(value) {
			return "", fmt.Errorf("%w: truncated percent escape in %q", ErrInvalidURL, value)
		}
		hi, ok1 := unhex(value[i+1])
		lo, ok2 := unhex(value[i+2])
		if !ok1 || !ok2 {
			return "", fmt.Errorf("%w: malformed percent escape %q", ErrInvalidURL, value[i:i+3])
		}
		out = append(out, hi<<4|lo)
		i += 2
	}

	return string(out), nil
}

func unhex(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}

	return 0, false
}
