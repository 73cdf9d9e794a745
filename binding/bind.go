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
	"context"
	"errors"
	"reflect"

	"rivaas.dev/web/headers"
)

// BodyReader streams the request body on demand. The framework guarantees
// a single read per request; a second call returns [ErrBodyConsumed].
type BodyReader func(ctx context.Context) ([]byte, error)

// ServiceResolver supplies application services to service-sourced
// parameters. Implementations must be safe for concurrent use.
type ServiceResolver interface {
	// Resolve returns a value assignable to t, or an error when no
	// registration covers it.
	Resolve(t reflect.Type) (any, error)
}

// Input carries the per-request material the binders read from. All
// collections may be nil; a nil source simply has no values.
type Input struct {
	PathParams  map[string]string
	Query       QueryValues
	Headers     *headers.Collection
	Cookies     *headers.CookieCollection
	ContentType string
	Body        BodyReader
	Resolver    ServiceResolver
}

// Bind executes the spec's binders in declaration order and returns a
// populated value of the spec's struct type.
//
// Binding stops at the first failure. Value errors surface as [*BindError]
// (a request fault), service failures as [*UnresolvedServiceError] (a
// configuration fault). Cancellation of ctx is observed between binders
// and before any body read.
func (s *Spec) Bind(ctx context.Context, in *Input) (any, error) {
	target := reflect.New(s.typ).Elem()

	for i := range s.params {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		param := &s.params[i]
		field := target.Field(param.index)

		var err error
		switch param.Source {
		case SourceBody:
			err = s.bindBody(ctx, param, in, field)
		case SourceService:
			err = bindService(param, in, field)
		default:
			err = s.bindValues(param, getterFor(param.Source, in), field)
		}
		if err != nil {
			return nil, err
		}
	}

	if s.opts.validate {
		if err := s.validateBound(target.Interface()); err != nil {
			return nil, err
		}
	}

	return target.Interface(), nil
}

func getterFor(source Source, in *Input) ValueGetter {
	switch source {
	case SourcePath:
		return NewPathGetter(in.PathParams)
	case SourceQuery:
		return NewQueryGetter(in.Query)
	case SourceHeader:
		if in.Headers == nil {
			return emptyGetter{}
		}

		return NewHeaderGetter(in.Headers)
	case SourceCookie:
		if in.Cookies == nil {
			return emptyGetter{}
		}

		return NewCookieGetter(in.Cookies)
	default:
		return emptyGetter{}
	}
}

// bindValues handles the four string-valued sources. Sequence-typed
// parameters collect every value; scalar parameters take the first.
func (s *Spec) bindValues(param *Param, getter ValueGetter, field reflect.Value) error {
	if !getter.Has(param.Name) {
		if param.HasDefault {
			return s.setField(param, field, param.Default)
		}
		if param.Required {
			return &BindError{
				Parameter: param.Name,
				Source:    param.Source,
				Kind:      MissingField,
				Type:      param.Type,
			}
		}

		return nil
	}

	if param.slice {
		if err := setSlice(field, getter.GetAll(param.Name), s.opts); err != nil {
			return s.valueError(param, getter.Get(param.Name), err)
		}

		return nil
	}

	return s.setField(param, field, getter.Get(param.Name))
}

func (s *Spec) setField(param *Param, field reflect.Value, raw string) error {
	if err := setScalar(field, raw, s.opts); err != nil {
		return s.valueError(param, raw, err)
	}

	return nil
}

func (s *Spec) valueError(param *Param, raw string, err error) error {
	return &BindError{
		Parameter: param.Name,
		Source:    param.Source,
		Kind:      InvalidValue,
		Value:     raw,
		Type:      param.Type,
		Err:       err,
	}
}

func (s *Spec) bindBody(ctx context.Context, param *Param, in *Input, field reflect.Value) error {
	if in.Body == nil {
		if param.Required {
			return &BindError{Parameter: param.Name, Source: SourceBody, Kind: MissingField}
		}

		return nil
	}

	data, err := in.Body(ctx)
	if err != nil {
		return &BindError{Parameter: param.Name, Source: SourceBody, Kind: InvalidValue, Err: err}
	}
	if len(data) == 0 {
		if param.Required {
			return &BindError{Parameter: param.Name, Source: SourceBody, Kind: MissingField}
		}

		return nil
	}

	dest := field
	if field.Kind() != reflect.Ptr {
		dest = field.Addr()
	} else {
		field.Set(reflect.New(field.Type().Elem()))
		dest = field
	}

	if err := decodeBody(data, in.ContentType, dest.Interface()); err != nil {
		return &BindError{Parameter: param.Name, Source: SourceBody, Kind: InvalidValue, Err: err}
	}

	return nil
}

func bindService(param *Param, in *Input, field reflect.Value) error {
	if in.Resolver == nil {
		return &UnresolvedServiceError{
			Parameter: param.Name,
			Type:      param.Type,
			Err:       errors.New("no service resolver configured"),
		}
	}

	svc, err := in.Resolver.Resolve(param.Type)
	if err != nil {
		return &UnresolvedServiceError{Parameter: param.Name, Type: param.Type, Err: err}
	}

	field.Set(reflect.ValueOf(svc))

	return nil
}
