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
	"fmt"
	"reflect"
	"strings"
)

// Param is one binder in a [Spec]: the rule extracting a single declared
// parameter from one part of the request.
type Param struct {
	// Name is the lookup key in the source (tag name or derived from the
	// field name).
	Name string
	// Field is the Go struct field name, used in error messages.
	Field string
	// Source tags where the value comes from.
	Source Source
	// Type is the declared field type.
	Type reflect.Type
	// Required marks parameters whose absence is a request error.
	Required bool
	// Default is applied when the source has no value.
	Default    string
	HasDefault bool

	index int
	slice bool
}

// Spec is the precomputed, ordered binder list for one handler parameter
// struct. Build it once at startup with [BuildSpec]; it is immutable and
// safe for concurrent use across request tasks.
type Spec struct {
	typ    reflect.Type
	params []Param
	// bodyIndex is the position of the single body binder in params, or -1.
	bodyIndex int
	opts      *options
}

// Type returns the handler parameter struct type the spec was built for.
func (s *Spec) Type() reflect.Type { return s.typ }

// Params returns the binders in declaration order.
func (s *Spec) Params() []Param { return s.params }

// BodyParam returns the body binder, if the handler declares one.
func (s *Spec) BodyParam() (Param, bool) {
	if s.bodyIndex < 0 {
		return Param{}, false
	}

	return s.params[s.bodyIndex], true
}

// BuildSpec inspects a handler's parameter struct and produces its [Spec].
//
// It is called once per handler at startup and must never run per request.
// Source assignment per field:
//
//  1. An explicit source tag (path, query, header, cookie, body, service)
//     wins.
//  2. An untagged field whose derived name is one of routeParams binds
//     from the path.
//  3. An untagged field of interface kind resolves as a service.
//  4. An untagged field of struct, map, or struct-slice kind binds from
//     the body.
//  5. Remaining scalar fields fall back to the query string.
//
// Errors (all fatal at startup): [ErrNotStruct], [ErrMultipleBodyBinders]
// for a second body-sourced field, [ErrNoBindingSource] for a field with
// no discoverable source and no default, and tag conflicts.
func BuildSpec(typ reflect.Type, routeParams []string, opts ...Option) (*Spec, error) {
	if typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: got %s", ErrNotStruct, typ.Kind())
	}

	inPath := make(map[string]bool, len(routeParams))
	for _, name := range routeParams {
		inPath[name] = true
	}

	spec := &Spec{typ: typ, bodyIndex: -1, opts: applyOptions(opts)}

	info := getStructInfo(typ)
	for _, f := range info.fields {
		param, err := buildParam(f, inPath)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", typ.Name(), f.name, err)
		}

		if param.Source == SourceBody {
			if spec.bodyIndex >= 0 {
				return nil, fmt.Errorf("%s.%s: %w (first body parameter is %q)",
					typ.Name(), f.name, ErrMultipleBodyBinders, spec.params[spec.bodyIndex].Field)
			}
			spec.bodyIndex = len(spec.params)
		}
		if param.Source == SourcePath && !inPath[param.Name] {
			return nil, fmt.Errorf("%s.%s: %w: route has no parameter %q",
				typ.Name(), f.name, ErrNoBindingSource, param.Name)
		}

		spec.params = append(spec.params, param)
	}

	return spec, nil
}

// MustBuildSpec is like [BuildSpec] but panics on error. Use in static
// route tables where startup failure should abort immediately.
func MustBuildSpec(typ reflect.Type, routeParams []string, opts ...Option) *Spec {
	spec, err := BuildSpec(typ, routeParams, opts...)
	if err != nil {
		panic(fmt.Sprintf("binding.MustBuildSpec: %v", err))
	}

	return spec
}

// buildParam assigns a source and required/default semantics to one field.
func buildParam(f fieldInfo, inPath map[string]bool) (Param, error) {
	param := Param{
		Name:       f.tagName,
		Field:      f.name,
		Type:       f.typ,
		Default:    f.defaultValue,
		HasDefault: f.hasDefault,
		index:      f.index,
		slice:      f.typ.Kind() == reflect.Slice && f.typ.Elem().Kind() != reflect.Uint8,
	}

	if f.source != SourceUnknown {
		param.Source = f.source
	} else {
		param.Source = inferSource(f, inPath)
		if param.Source == SourceUnknown {
			return Param{}, ErrNoBindingSource
		}
	}
	if param.Name == "" {
		param.Name = deriveName(f.name)
	}

	param.Required = requiredFor(param, f)

	return param, nil
}

// inferSource implements the deterministic default source order for
// untagged fields.
func inferSource(f fieldInfo, inPath map[string]bool) Source {
	if inPath[deriveName(f.name)] {
		return SourcePath
	}

	t := f.typ
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	switch {
	case t.Kind() == reflect.Interface:
		return SourceService
	case isScalarType(t):
		return SourceQuery
	case t.Kind() == reflect.Slice && isScalarType(t.Elem()):
		return SourceQuery
	case t.Kind() == reflect.Struct || t.Kind() == reflect.Map,
		t.Kind() == reflect.Slice: // slice of structs
		return SourceBody
	default:
		return SourceUnknown
	}
}

// requiredFor decides the required flag: explicit tag options win, then a
// default or pointer or sequence type makes the parameter optional.
func requiredFor(param Param, f fieldInfo) bool {
	if f.explicitRequired != nil {
		return *f.explicitRequired
	}
	if param.HasDefault || param.slice || f.typ.Kind() == reflect.Ptr {
		return false
	}

	return true
}

// deriveName converts a Go field name to its snake_case lookup key:
// "CatID" → "cat_id", "Page" → "page".
func deriveName(field string) string {
	var b strings.Builder
	runes := []rune(field)
	for i, r := range runes {
		if r >= 'A' && r <= 'Z' {
			lowerNext := i+1 < len(runes) && runes[i+1] >= 'a' && runes[i+1] <= 'z'
			if i > 0 && (lowerNext || runes[i-1] < 'A' || runes[i-1] > 'Z') {
				b.WriteByte('_')
			}
			b.WriteRune(r - 'A' + 'a')
			continue
		}
		b.WriteRune(r)
	}

	return b.String()
}
