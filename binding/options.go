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

import "reflect"

// options configures spec building and binding.
type options struct {
	timeLayouts []string
	converters  map[reflect.Type]func(string) (any, error)
	validate    bool
}

// Option configures [BuildSpec].
type Option func(*options)

func defaultOptions() *options {
	return &options{validate: true}
}

func applyOptions(opts []Option) *options {
	cfg := defaultOptions()
	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

// WithTimeLayouts appends time layouts tried after the ISO 8601 defaults
// when coercing time.Time parameters.
//
// Example:
//
//	spec, err := binding.BuildSpec(typ, params, binding.WithTimeLayouts("02/01/2006"))
func WithTimeLayouts(layouts ...string) Option {
	return func(o *options) {
		o.timeLayouts = append(o.timeLayouts, layouts...)
	}
}

// WithConverter registers a custom scalar converter for type T, taking
// precedence over the built-in coercion.
//
// Example:
//
//	binding.WithConverter(func(raw string) (Money, error) {
//	    return ParseMoney(raw)
//	})
func WithConverter[T any](fn func(string) (T, error)) Option {
	return func(o *options) {
		if o.converters == nil {
			o.converters = make(map[reflect.Type]func(string) (any, error))
		}
		o.converters[reflect.TypeOf(*new(T))] = func(raw string) (any, error) {
			return fn(raw)
		}
	}
}

// WithoutValidation disables the declared-shape validation run on decoded
// body values.
func WithoutValidation() Option {
	return func(o *options) { o.validate = false }
}
