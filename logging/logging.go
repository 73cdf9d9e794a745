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

// Package logging provides the framework's structured logging over
// log/slog: JSON or text output, dynamic level changes, and per-request
// logging helpers.
//
// Example:
//
//	log := logging.New(
//	    logging.WithServiceName("orders-api"),
//	    logging.WithLevel(logging.LevelDebug),
//	)
//	log.Info("server starting", "addr", ":8080")
package logging

import (
	"io"
	"log/slog"
	"os"
	"sync/atomic"
)

// HandlerType selects the output format.
type HandlerType string

const (
	// JSONHandler outputs structured JSON logs.
	JSONHandler HandlerType = "json"
	// TextHandler outputs key=value text logs.
	TextHandler HandlerType = "text"
)

// Level is an alias for slog.Level.
type Level = slog.Level

const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

// Logger wraps a slog.Logger with dynamic level control.
//
// All methods are safe for concurrent use. The embedded slog handle is
// swapped atomically so reconfiguration never blocks logging calls.
type Logger struct {
	slogger atomic.Pointer[slog.Logger]
	level   *slog.LevelVar
}

type config struct {
	handlerType HandlerType
	output      io.Writer
	level       Level
	serviceName string
	addSource   bool
}

// Option configures [New].
type Option func(*config)

// WithHandler selects the output format. The default is JSON.
func WithHandler(t HandlerType) Option {
	return func(c *config) { c.handlerType = t }
}

// WithOutput redirects log output. The default is os.Stderr.
func WithOutput(w io.Writer) Option {
	return func(c *config) { c.output = w }
}

// WithLevel sets the initial minimum level. The default is Info.
func WithLevel(l Level) Option {
	return func(c *config) { c.level = l }
}

// WithServiceName attaches a service attribute to every entry.
func WithServiceName(name string) Option {
	return func(c *config) { c.serviceName = name }
}

// WithSource adds file:line of the logging call to every entry.
func WithSource() Option {
	return func(c *config) { c.addSource = true }
}

// New builds a Logger.
func New(opts ...Option) *Logger {
	cfg := &config{
		handlerType: JSONHandler,
		output:      os.Stderr,
		level:       LevelInfo,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	level := &slog.LevelVar{}
	level.Set(cfg.level)

	handlerOpts := &slog.HandlerOptions{Level: level, AddSource: cfg.addSource}

	var handler slog.Handler
	if cfg.handlerType == TextHandler {
		handler = slog.NewTextHandler(cfg.output, handlerOpts)
	} else {
		handler = slog.NewJSONHandler(cfg.output, handlerOpts)
	}

	slogger := slog.New(handler)
	if cfg.serviceName != "" {
		slogger = slogger.With("service", cfg.serviceName)
	}

	l := &Logger{level: level}
	l.slogger.Store(slogger)

	return l
}

// SetLevel changes the minimum level at runtime.
func (l *Logger) SetLevel(level Level) { l.level.Set(level) }

// With returns a Logger carrying additional attributes on every entry.
// The derived logger shares the parent's level.
func (l *Logger) With(args ...any) *Logger {
	child := &Logger{level: l.level}
	child.slogger.Store(l.slogger.Load().With(args...))

	return child
}

// Slog exposes the underlying slog.Logger for libraries that take one.
func (l *Logger) Slog() *slog.Logger { return l.slogger.Load() }

func (l *Logger) Debug(msg string, args ...any) { l.slogger.Load().Debug(msg, args...) }
func (l *Logger) Info(msg string, args ...any)  { l.slogger.Load().Info(msg, args...) }
func (l *Logger) Warn(msg string, args ...any)  { l.slogger.Load().Warn(msg, args...) }
func (l *Logger) Error(msg string, args ...any) { l.slogger.Load().Error(msg, args...) }
