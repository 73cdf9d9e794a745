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

package app

import (
	"context"
	"errors"
	"net/http"
	"runtime/debug"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"rivaas.dev/web/binding"
	"rivaas.dev/web/logging"
	"rivaas.dev/web/routing"
	"rivaas.dev/web/scribe"
	"rivaas.dev/web/urls"
	"rivaas.dev/web/webfault"
)

// statusClientClosedRequest is the nginx convention for a request whose
// client went away mid-pipeline.
const statusClientClosedRequest = 499

// Handle runs one request through the pipeline:
// resolve → bind → invoke → scribe. It always produces a response; errors
// at any stage go through the fault formatter.
func (a *App) Handle(ctx context.Context, req *Request) *scribe.Response {
	start := time.Now()
	path := string(req.URL.Path())

	ctx, span := a.tracer.Start(ctx, req.Method+" "+path,
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			attribute.String("http.request.method", req.Method),
			attribute.String("url.path", path),
		),
	)
	defer span.End()

	ctx = logging.IntoContext(ctx, a.log)

	resp, routeText := a.dispatch(ctx, req, path)

	span.SetAttributes(
		attribute.String("http.route", routeText),
		attribute.Int("http.response.status_code", resp.Status),
	)
	if resp.Status >= 500 {
		span.SetStatus(codes.Error, http.StatusText(resp.Status))
	}

	duration := time.Since(start)
	a.metrics.observe(req.Method, routeText, resp.Status, duration)
	a.log.LogRequest(req.Method, path, routeText, resp.Status, duration)

	return resp
}

// dispatch produces the response and the matched route pattern text
// ("" when no route matched).
func (a *App) dispatch(ctx context.Context, req *Request, path string) (*scribe.Response, string) {
	match, err := a.router.Resolve(req.Method, path)
	if err != nil {
		if a.fallback != nil && errors.Is(err, routing.ErrNotFound) {
			return a.invoke(ctx, req, a.fallback, nil, path)
		}

		return a.fault(path, routingFault(err)), ""
	}

	return a.invoke(ctx, req, match.Handler.(*route), match.Params, path)
}

// invoke runs the bind/invoke/scribe tail of the pipeline for one
// resolved route. The fallback route carries no pattern.
func (a *App) invoke(ctx context.Context, req *Request, rt *route, params map[string]string, path string) (resp *scribe.Response, routeText string) {
	if rt.pattern != nil {
		routeText = rt.pattern.Text()
	}

	defer func() {
		if rec := recover(); rec != nil {
			a.log.Error("handler panic", "panic", rec, "path", path, "stack", string(debug.Stack()))
			resp = a.fault(path, webfault.WithStatus(nil, http.StatusInternalServerError))
		}
	}()

	query, err := binding.ParseQuery(req.URL.RawQuery())
	if err != nil {
		return a.fault(path, webfault.WithStatus(err, http.StatusBadRequest)), routeText
	}

	args, err := rt.spec.Bind(ctx, &binding.Input{
		PathParams:  params,
		Query:       query,
		Headers:     req.Headers,
		Cookies:     req.Cookies,
		ContentType: req.ContentType(),
		Body:        req.TakeBody,
		Resolver:    a.services,
	})
	if err != nil {
		return a.fault(path, cancellationFault(err)), routeText
	}

	result, err := rt.call(ctx, args)
	if err != nil {
		return a.fault(path, err), routeText
	}

	resp, err = scribe.Write(result, rt.status)
	if err != nil {
		a.log.Error("response encoding failed", "path", path, "error", err)
		return a.fault(path, err), routeText
	}

	return resp, routeText
}

// fault formats an error as a wire response.
func (a *App) fault(path string, err error) *scribe.Response {
	return a.formatter.Format(path, err)
}

// routingFault maps resolver errors onto statuses: a malformed path is
// the client's fault (400), a method mismatch keeps its own 405, and
// everything else is 404.
func routingFault(err error) error {
	if errors.Is(err, urls.ErrInvalidURL) {
		return webfault.WithStatus(err, http.StatusBadRequest)
	}

	var method *routing.MethodNotAllowedError
	if errors.As(err, &method) {
		return err
	}

	return webfault.WithStatus(err, http.StatusNotFound)
}

// cancellationFault distinguishes a dead client from a bad request, so
// an abandoned bind is not recorded as a client error.
func cancellationFault(err error) error {
	switch {
	case errors.Is(err, context.Canceled):
		return webfault.WithStatus(err, statusClientClosedRequest)
	case errors.Is(err, context.DeadlineExceeded):
		return webfault.WithStatus(err, http.StatusGatewayTimeout)
	default:
		return err
	}
}
