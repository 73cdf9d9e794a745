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

// Package app assembles the request-handling core into a runnable
// server: route registration, the resolve/bind/invoke/scribe pipeline,
// and a net/http transport adapter.
//
// Example:
//
//	a := app.New()
//
//	type GetOrder struct {
//	    ID int
//	}
//	app.GET(a, "/orders/:id", func(ctx context.Context, req GetOrder) (any, error) {
//	    return orders.Find(req.ID)
//	})
//
//	log.Fatal(a.Start(context.Background()))
package app

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"rivaas.dev/web/binding"
	"rivaas.dev/web/logging"
	"rivaas.dev/web/routing"
	"rivaas.dev/web/webfault"
)

// HandlerFunc is an application handler: it receives the bound parameter
// struct and returns a value for the scribe, or an error for the fault
// formatter.
type HandlerFunc[T any] func(ctx context.Context, req T) (any, error)

// route pairs a compiled pattern with its binder spec and a calling
// closure that restores the handler's concrete parameter type.
type route struct {
	method  string
	pattern *routing.Pattern
	spec    *binding.Spec
	status  int
	call    func(ctx context.Context, args any) (any, error)
}

// App is the framework entry point. Configure and register routes at
// startup; after [App.Freeze] (or the first served request) the route
// table and service registry are immutable.
type App struct {
	cfg       Config
	cfgLoaded bool
	log       *logging.Logger
	logSet    bool
	formatter webfault.Formatter
	router    *routing.Router
	fallback  *route
	services  *Registry
	metrics   *metrics
	tracer    trace.Tracer
	bindOpts  []binding.Option

	freezeOnce sync.Once
	frozen     bool
	regErr     error
}

// Option configures [New].
type Option func(*App)

// WithConfig supplies settings directly instead of reading the
// environment.
func WithConfig(cfg Config) Option {
	return func(a *App) {
		a.cfg = cfg
		a.cfgLoaded = true
	}
}

// WithLogger replaces the configured logger.
func WithLogger(l *logging.Logger) Option {
	return func(a *App) {
		a.log = l
		a.logSet = true
	}
}

// WithFormatter replaces the error formatter. The default is RFC 9457
// problem details.
func WithFormatter(f webfault.Formatter) Option {
	return func(a *App) { a.formatter = f }
}

// WithBindOptions applies binding options to every registered route.
func WithBindOptions(opts ...binding.Option) Option {
	return func(a *App) { a.bindOpts = append(a.bindOpts, opts...) }
}

// New creates an App. Configuration defaults come from the environment
// on Start unless [WithConfig] is given.
func New(opts ...Option) *App {
	a := &App{
		formatter: webfault.NewRFC9457(""),
		router:    routing.NewRouter(),
		services:  NewRegistry(),
		metrics:   newMetrics(),
		tracer:    otel.Tracer("rivaas.dev/web"),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.log == nil {
		a.log = logging.New()
	}

	return a
}

// Services exposes the registry for startup wiring.
func (a *App) Services() *Registry { return a.services }

// RouteOption configures one route registration.
type RouteOption func(*route)

// WithStatus sets the success status the scribe uses for this route
// instead of 200.
func WithStatus(status int) RouteOption {
	return func(rt *route) { rt.status = status }
}

// GET registers a GET route.
func GET[T any](a *App, pattern string, h HandlerFunc[T], opts ...RouteOption) {
	register(a, "GET", pattern, h, opts...)
}

// POST registers a POST route.
func POST[T any](a *App, pattern string, h HandlerFunc[T], opts ...RouteOption) {
	register(a, "POST", pattern, h, opts...)
}

// PUT registers a PUT route.
func PUT[T any](a *App, pattern string, h HandlerFunc[T], opts ...RouteOption) {
	register(a, "PUT", pattern, h, opts...)
}

// PATCH registers a PATCH route.
func PATCH[T any](a *App, pattern string, h HandlerFunc[T], opts ...RouteOption) {
	register(a, "PATCH", pattern, h, opts...)
}

// DELETE registers a DELETE route.
func DELETE[T any](a *App, pattern string, h HandlerFunc[T], opts ...RouteOption) {
	register(a, "DELETE", pattern, h, opts...)
}

// HEAD registers a HEAD route.
func HEAD[T any](a *App, pattern string, h HandlerFunc[T], opts ...RouteOption) {
	register(a, "HEAD", pattern, h, opts...)
}

// OPTIONS registers an OPTIONS route.
func OPTIONS[T any](a *App, pattern string, h HandlerFunc[T], opts ...RouteOption) {
	register(a, "OPTIONS", pattern, h, opts...)
}

// TRACE registers a TRACE route.
func TRACE[T any](a *App, pattern string, h HandlerFunc[T], opts ...RouteOption) {
	register(a, "TRACE", pattern, h, opts...)
}

// CONNECT registers a CONNECT route.
func CONNECT[T any](a *App, pattern string, h HandlerFunc[T], opts ...RouteOption) {
	register(a, "CONNECT", pattern, h, opts...)
}

// anyMethods is the method set an [Any] route registers under.
var anyMethods = []string{
	"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS", "TRACE", "CONNECT",
}

// Any registers the handler for every HTTP method, so the pattern never
// produces a method mismatch.
func Any[T any](a *App, pattern string, h HandlerFunc[T], opts ...RouteOption) {
	for _, method := range anyMethods {
		register(a, method, pattern, h, opts...)
	}
}

// Fallback registers the handler invoked when no route matches the
// request path. Method mismatches on registered patterns still produce
// 405. The handler binds with no path parameters available.
func Fallback[T any](a *App, h HandlerFunc[T], opts ...RouteOption) {
	rt, ok := buildRoute(a, "*", "(fallback)", nil, h, opts...)
	if !ok {
		return
	}
	if a.fallback != nil {
		a.registrationError(errors.New("fallback handler registered twice"))
		return
	}
	a.fallback = rt
}

// register compiles the pattern and builds the binder spec immediately,
// so every route declaration error surfaces before traffic. Errors are
// collected and reported by Freeze.
func register[T any](a *App, method, patternText string, h HandlerFunc[T], opts ...RouteOption) {
	pattern, err := routing.Compile(patternText)
	if err != nil {
		a.registrationError(fmt.Errorf("route %s %s: %w", method, patternText, err))
		return
	}

	rt, ok := buildRoute(a, method, patternText, pattern.ParameterNames(), h, opts...)
	if !ok {
		return
	}
	rt.pattern = pattern

	if err := a.router.RegisterPattern(method, pattern, rt); err != nil {
		a.registrationError(fmt.Errorf("route %s %s: %w", method, patternText, err))
	}
}

// buildRoute validates the request type and builds the binder spec. The
// type must be a struct, not a pointer: [binding.Spec.Bind] produces the
// struct value the calling closure asserts back, and a mismatch there
// must fail at startup rather than on the first request.
func buildRoute[T any](a *App, method, label string, routeParams []string, h HandlerFunc[T], opts ...RouteOption) (*route, bool) {
	typ := reflect.TypeFor[T]()
	if typ.Kind() != reflect.Struct {
		a.registrationError(fmt.Errorf("route %s %s: request type %s is a %s, want a struct",
			method, label, typ, typ.Kind()))
		return nil, false
	}

	spec, err := binding.BuildSpec(typ, routeParams, a.bindOpts...)
	if err != nil {
		a.registrationError(fmt.Errorf("route %s %s: %w", method, label, err))
		return nil, false
	}

	rt := &route{
		method: method,
		spec:   spec,
		call: func(ctx context.Context, args any) (any, error) {
			return h(ctx, args.(T))
		},
	}
	for _, opt := range opts {
		opt(rt)
	}

	return rt, true
}

func (a *App) registrationError(err error) {
	if a.regErr == nil {
		a.regErr = err
	}
}

// Freeze finalizes the route table and service registry. It fails fast
// on the first registration error and is idempotent.
func (a *App) Freeze() error {
	a.freezeOnce.Do(func() {
		if a.regErr != nil {
			return
		}
		a.router.Freeze()
		a.services.freeze()
		a.frozen = true
	})

	if a.regErr != nil {
		return a.regErr
	}
	if !a.frozen {
		return errors.New("app failed to freeze")
	}

	return nil
}
