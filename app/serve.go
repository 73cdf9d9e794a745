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
	"fmt"
	"net/http"

	"rivaas.dev/web/headers"
	"rivaas.dev/web/logging"
	"rivaas.dev/web/scribe"
	"rivaas.dev/web/urls"
)

// ServeHTTP adapts net/http to the pipeline: it converts *http.Request
// into the framework's request model, runs [App.Handle], and writes the
// resulting response. The app freezes on the first served request if
// Freeze was not called explicitly.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := a.Freeze(); err != nil {
		a.log.Error("startup failed", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	url, err := urls.Parse([]byte(r.RequestURI))
	if err != nil {
		http.Error(w, "invalid request target", http.StatusBadRequest)
		return
	}

	h := headers.NewCollection()
	for name, values := range r.Header {
		for _, value := range values {
			h.Add(name, value)
		}
	}

	req := NewRequest(r.Method, url, h, r.Body)
	writeResponse(w, a.Handle(r.Context(), req))
}

func writeResponse(w http.ResponseWriter, resp *scribe.Response) {
	if resp.Headers != nil {
		for _, header := range resp.Headers.All() {
			w.Header().Add(header.Name, header.Value)
		}
	}
	w.WriteHeader(resp.Status)
	if len(resp.Body) > 0 {
		_, _ = w.Write(resp.Body)
	}
}

// Start loads configuration, freezes the app, and serves HTTP until ctx
// is cancelled, then shuts down gracefully within the configured
// timeout.
func (a *App) Start(ctx context.Context) error {
	if !a.cfgLoaded {
		cfg, err := LoadConfig()
		if err != nil {
			return err
		}
		a.cfg = cfg
		a.cfgLoaded = true
		if !a.logSet {
			a.log = logging.New(cfg.loggerOptions()...)
		}
	}

	if err := a.Freeze(); err != nil {
		return fmt.Errorf("freezing app: %w", err)
	}

	server := &http.Server{
		Addr:         a.cfg.Addr,
		Handler:      a,
		ReadTimeout:  a.cfg.ReadTimeout,
		WriteTimeout: a.cfg.WriteTimeout,
		IdleTimeout:  a.cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("server listening", "addr", a.cfg.Addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		a.log.Info("shutting down", "timeout", a.cfg.ShutdownTimeout.String())
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	}
}
