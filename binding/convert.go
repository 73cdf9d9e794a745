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
	"encoding"
	"fmt"
	"reflect"
	"strconv"
	"time"

	"github.com/google/uuid"
)

var (
	timeType            = reflect.TypeOf(time.Time{})
	durationType        = reflect.TypeOf(time.Duration(0))
	uuidType            = reflect.TypeOf(uuid.UUID{})
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
)

// defaultTimeLayouts are the ISO 8601 layouts tried in order when coercing
// a time.Time. [WithTimeLayouts] appends application-specific layouts.
var defaultTimeLayouts = []string{
	time.RFC3339,          // 2026-01-15T10:30:00Z
	time.RFC3339Nano,      // with fractional seconds
	"2006-01-02T15:04:05", // datetime without offset
	"2006-01-02",          // date only
}

// setScalar coerces a raw string into field using the strict parser for
// the field's type. Pointer fields allocate on a non-empty value and stay
// nil otherwise.
func setScalar(field reflect.Value, raw string, opts *options) error {
	if field.Kind() == reflect.Ptr {
		if raw == "" {
			return nil
		}
		ptr := reflect.New(field.Type().Elem())
		if err := setScalar(ptr.Elem(), raw, opts); err != nil {
			return err
		}
		field.Set(ptr)

		return nil
	}

	fieldType := field.Type()

	// Custom converters take precedence over built-in coercion.
	if conv, ok := opts.converters[fieldType]; ok {
		value, err := conv(raw)
		if err != nil {
			return err
		}
		field.Set(reflect.ValueOf(value))

		return nil
	}

	// Well-known types before TextUnmarshaler, so time.Time gets the
	// ISO 8601 layouts rather than its own UnmarshalText.
	switch fieldType {
	case timeType:
		t, err := parseTime(raw, opts)
		if err != nil {
			return err
		}
		field.Set(reflect.ValueOf(t))

		return nil

	case durationType:
		d, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("invalid duration: %w", err)
		}
		field.SetInt(int64(d))

		return nil

	case uuidType:
		id, err := uuid.Parse(raw)
		if err != nil {
			return fmt.Errorf("invalid UUID: %w", err)
		}
		field.Set(reflect.ValueOf(id))

		return nil
	}

	if field.CanAddr() && field.Addr().Type().Implements(textUnmarshalerType) {
		return field.Addr().Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(raw))
	}

	switch fieldType.Kind() {
	case reflect.String:
		field.SetString(raw)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := strconv.ParseInt(raw, 10, fieldType.Bits())
		if err != nil {
			return fmt.Errorf("invalid integer: %w", err)
		}
		field.SetInt(i)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u, err := strconv.ParseUint(raw, 10, fieldType.Bits())
		if err != nil {
			return fmt.Errorf("invalid unsigned integer: %w", err)
		}
		field.SetUint(u)

	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(raw, fieldType.Bits())
		if err != nil {
			return fmt.Errorf("invalid float: %w", err)
		}
		field.SetFloat(f)

	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("invalid boolean: %w", err)
		}
		field.SetBool(b)

	case reflect.Slice:
		if fieldType.Elem().Kind() != reflect.Uint8 {
			return fmt.Errorf("unsupported scalar type %s", fieldType)
		}
		field.SetBytes([]byte(raw))

	default:
		return fmt.Errorf("unsupported scalar type %s", fieldType)
	}

	return nil
}

// setSlice fills a slice field from multiple raw values, one coercion per
// element, preserving encounter order.
func setSlice(field reflect.Value, raws []string, opts *options) error {
	slice := reflect.MakeSlice(field.Type(), len(raws), len(raws))
	for i, raw := range raws {
		if err := setScalar(slice.Index(i), raw, opts); err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
	}
	field.Set(slice)

	return nil
}

// parseTime tries the default ISO 8601 layouts, then any configured extras.
func parseTime(raw string, opts *options) (time.Time, error) {
	for _, layout := range defaultTimeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	for _, layout := range opts.timeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("cannot parse %q as time (tried ISO 8601 layouts)", raw)
}

// isScalarType reports whether t can be coerced from a single string by
// [setScalar]. Struct kinds other than the well-known scalar structs are
// body candidates, not scalars.
func isScalarType(t reflect.Type) bool {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == timeType || t == uuidType || t == durationType {
		return true
	}
	if reflect.PointerTo(t).Implements(textUnmarshalerType) {
		return true
	}

	switch t.Kind() {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
