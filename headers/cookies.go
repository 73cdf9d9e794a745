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
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidCookieAttribute is returned when a Set-Cookie attribute carries
// a value outside its allowed set (for example an unknown SameSite mode).
var ErrInvalidCookieAttribute = errors.New("invalid cookie attribute")

// ExpiresFormat is the RFC 6265 sane-cookie-date layout used for the
// Expires attribute.
const ExpiresFormat = "Mon, 02 Jan 2006 15:04:05 GMT"

// SameSite is the SameSite cookie attribute mode.
type SameSite int

const (
	// SameSiteUnset omits the attribute entirely.
	SameSiteUnset SameSite = iota
	// SameSiteStrict sends the cookie only for same-site requests.
	SameSiteStrict
	// SameSiteLax also sends the cookie on top-level cross-site navigation.
	SameSiteLax
	// SameSiteNone sends the cookie on all requests.
	SameSiteNone
)

// String returns the attribute value for serialization, or "" when unset.
func (s SameSite) String() string {
	switch s {
	case SameSiteStrict:
		return "Strict"
	case SameSiteLax:
		return "Lax"
	case SameSiteNone:
		return "None"
	default:
		return ""
	}
}

// ParseSameSite parses a SameSite attribute value case-insensitively.
// Anything outside Strict, Lax, and None fails with
// [ErrInvalidCookieAttribute].
func ParseSameSite(value string) (SameSite, error) {
	switch strings.ToLower(value) {
	case "strict":
		return SameSiteStrict, nil
	case "lax":
		return SameSiteLax, nil
	case "none":
		return SameSiteNone, nil
	default:
		return SameSiteUnset, fmt.Errorf("%w: SameSite=%q", ErrInvalidCookieAttribute, value)
	}
}

// Cookie is one cookie with its response attributes. When a Cookie is
// parsed from a request "Cookie" header only Name and Value are populated.
//
// MaxAge follows the net/http convention: 0 means unset, a negative value
// serializes as "Max-Age=0" (delete now).
type Cookie struct {
	Name     string
	Value    string
	Domain   string
	Path     string
	Expires  time.Time
	MaxAge   int
	Secure   bool
	HTTPOnly bool
	SameSite SameSite
}

// CookieCollection maps cookie names to cookies. Names are case-sensitive.
//
// When a request "Cookie" header repeats a name the last occurrence wins;
// response Set-Cookie entries are independent and never merged, so the
// response side keeps a list, not this collection.
type CookieCollection struct {
	byName map[string]*Cookie
	order  []string
}

// NewCookieCollection creates an empty CookieCollection.
func NewCookieCollection() *CookieCollection {
	return &CookieCollection{byName: make(map[string]*Cookie)}
}

// Set inserts or replaces a cookie by name.
func (cc *CookieCollection) Set(c *Cookie) {
	if _, exists := cc.byName[c.Name]; !exists {
		cc.order = append(cc.order, c.Name)
	}
	cc.byName[c.Name] = c
}

// Get returns the cookie for name, or nil.
func (cc *CookieCollection) Get(name string) *Cookie {
	return cc.byName[name]
}

// Value returns the value for name, or "" when absent.
func (cc *CookieCollection) Value(name string) string {
	if c := cc.byName[name]; c != nil {
		return c.Value
	}

	return ""
}

// Has reports whether a cookie with the given name exists.
func (cc *CookieCollection) Has(name string) bool {
	_, ok := cc.byName[name]
	return ok
}

// Len returns the number of distinct cookies.
func (cc *CookieCollection) Len() int { return len(cc.byName) }

// All returns the cookies in first-seen order.
func (cc *CookieCollection) All() []*Cookie {
	out := make([]*Cookie, 0, len(cc.order))
	for _, name := range cc.order {
		out = append(out, cc.byName[name])
	}

	return out
}

// ParseCookieHeader parses a request "Cookie" header value into the
// collection. Pairs are split on ";", surrounding whitespace is trimmed,
// and each pair splits on the first "=". A pair without "=" is a value-less
// cookie name with an empty value, not an error. A repeated name overwrites
// the earlier occurrence.
//
// Example:
//
//	cc := headers.NewCookieCollection()
//	cc.ParseCookieHeader("session=abc; theme=dark; flag")
func (cc *CookieCollection) ParseCookieHeader(value string) {
	for pair := range strings.SplitSeq(value, ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		name, val, _ := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		cc.Set(&Cookie{Name: name, Value: unquoteCookieValue(strings.TrimSpace(val))})
	}
}

// ParseSetCookie parses one response Set-Cookie header line. Unknown
// attributes are ignored; a malformed SameSite or Expires value fails with
// [ErrInvalidCookieAttribute].
func ParseSetCookie(line string) (*Cookie, error) {
	parts := strings.Split(line, ";")
	name, value, ok := strings.Cut(strings.TrimSpace(parts[0]), "=")
	if !ok || strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: missing cookie name in %q", ErrInvalidCookieAttribute, line)
	}

	c := &Cookie{Name: strings.TrimSpace(name), Value: unquoteCookieValue(strings.TrimSpace(value))}

	for _, part := range parts[1:] {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		attr, attrValue, _ := strings.Cut(part, "=")
		attrValue = strings.TrimSpace(attrValue)

		switch strings.ToLower(strings.TrimSpace(attr)) {
		case "domain":
			c.Domain = attrValue
		case "path":
			c.Path = attrValue
		case "expires":
			when, err := time.Parse(ExpiresFormat, attrValue)
			if err != nil {
				return nil, fmt.Errorf("%w: Expires=%q", ErrInvalidCookieAttribute, attrValue)
			}
			c.Expires = when
		case "max-age":
			seconds, err := strconv.Atoi(attrValue)
			if err != nil {
				return nil, fmt.Errorf("%w: Max-Age=%q", ErrInvalidCookieAttribute, attrValue)
			}
			if seconds <= 0 {
				c.MaxAge = -1
			} else {
				c.MaxAge = seconds
			}
		case "secure":
			c.Secure = true
		case "httponly":
			c.HTTPOnly = true
		case "samesite":
			mode, err := ParseSameSite(attrValue)
			if err != nil {
				return nil, err
			}
			c.SameSite = mode
		}
	}

	return c, nil
}

// Serialize renders the cookie as a Set-Cookie header value per RFC 6265.
// A value containing space or comma is quoted; bytes the cookie-value
// grammar excludes even inside quotes are dropped.
func (c *Cookie) Serialize() string {
	var b strings.Builder
	b.WriteString(c.Name)
	b.WriteByte('=')
	b.WriteString(quoteCookieValue(c.Value))

	if c.Domain != "" {
		b.WriteString("; Domain=")
		b.WriteString(c.Domain)
	}
	if c.Path != "" {
		b.WriteString("; Path=")
		b.WriteString(c.Path)
	}
	if !c.Expires.IsZero() {
		b.WriteString("; Expires=")
		b.WriteString(c.Expires.UTC().Format(ExpiresFormat))
	}
	if c.MaxAge > 0 {
		b.WriteString("; Max-Age=")
		b.WriteString(strconv.Itoa(c.MaxAge))
	} else if c.MaxAge < 0 {
		b.WriteString("; Max-Age=0")
	}
	if c.Secure {
		b.WriteString("; Secure")
	}
	if c.HTTPOnly {
		b.WriteString("; HttpOnly")
	}
	if c.SameSite != SameSiteUnset {
		b.WriteString("; SameSite=")
		b.WriteString(c.SameSite.String())
	}

	return b.String()
}

// quoteCookieValue renders the value per RFC 6265 §4.1.1. Space and comma
// are legal only inside DQUOTEs; bytes the cookie-value grammar excludes
// entirely (";", DQUOTE, backslash, control bytes) are dropped, the same
// way net/http sanitizes, so the serialized line always re-parses to the
// emitted value.
func quoteCookieValue(value string) string {
	var b strings.Builder
	quote := false
	for i := 0; i < len(value); i++ {
		switch c := value[i]; {
		case isCookieOctet(c):
			b.WriteByte(c)
		case c == ' ' || c == ',':
			quote = true
			b.WriteByte(c)
		}
	}
	if quote {
		return `"` + b.String() + `"`
	}

	return b.String()
}

// unquoteCookieValue strips surrounding DQUOTEs and unescapes the content.
func unquoteCookieValue(value string) string {
	if len(value) < 2 || value[0] != '"' || value[len(value)-1] != '"' {
		return value
	}

	inner := value[1 : len(value)-1]
	var b strings.Builder
	for i := 0; i < len(inner); i++ {
		if inner[i] == '\\' && i+1 < len(inner) {
			i++
		}
		b.WriteByte(inner[i])
	}

	return b.String()
}

// isCookieOctet reports whether c is a cookie-octet: printable US-ASCII
// excluding control characters, whitespace, DQUOTE, comma, semicolon, and
// backslash.
func isCookieOctet(c byte) bool {
	return c == 0x21 ||
		c >= 0x23 && c <= 0x2b ||
		c >= 0x2d && c <= 0x3a ||
		c >= 0x3c && c <= 0x5b ||
		c >= 0x5d && c <= 0x7e
}
