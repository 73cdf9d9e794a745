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
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is shared across all specs. The instance caches struct metadata
// internally and is safe for concurrent use.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report violations under the wire name, not the Go field name.
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		for _, key := range []string{TagPath, TagQuery, TagHeader, TagCookie, TagBody} {
			if raw, ok := field.Tag.Lookup(key); ok {
				name, _, _ := strings.Cut(raw, ",")
				if name != "" && name != "-" {
					return name
				}
			}
		}

		return deriveName(field.Name)
	})

	return v
}

// validateBound runs validate tags over the fully bound struct and maps
// the first violation to a binding error: "required" failures surface as
// missing fields, everything else as invalid values.
func (s *Spec) validateBound(value any) error {
	err := validate.Struct(value)
	if err == nil {
		return nil
	}

	var violations validator.ValidationErrors
	if !errors.As(err, &violations) || len(violations) == 0 {
		return err
	}

	v := violations[0]
	kind := InvalidValue
	if v.Tag() == "required" {
		kind = MissingField
	}

	path := fieldPath(v.Namespace())
	return &BindError{
		Parameter: path,
		Source:    s.sourceOf(path),
		Kind:      kind,
		Value:     fmt.Sprintf("%v", v.Value()),
		Type:      v.Type(),
		Err:       err,
	}
}

// sourceOf finds the source of the top-level parameter a violation path
// belongs to. Nested paths ("item.sku") resolve through the body binder.
func (s *Spec) sourceOf(path string) Source {
	top, _, _ := strings.Cut(path, ".")
	for i := range s.params {
		if s.params[i].Name == top {
			return s.params[i].Source
		}
	}

	return SourceBody
}

// fieldPath trims the root struct name from a validator namespace:
// "CreateOrder.item.sku" becomes "item.sku".
func fieldPath(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}

	return namespace
}
